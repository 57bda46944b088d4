package mockapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-kit/kit/endpoint"

	"github.com/skysync/skysync-tui/internal/app/dto"
	"github.com/skysync/skysync-tui/internal/pkg/exception"
)

type contextKey string

const userIDContextKey contextKey = "mockapi_user_id"

func userIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDContextKey).(string)

	return id, ok
}

var errInvalidRequestType = errors.New("invalid request type")

// flightQuery carries the flight search query string parameters.
type flightQuery struct {
	Departure     string
	Destination   string
	DepartureDate string
	Page          int
	PageSize      int
}

type forgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

func (f *forgotPasswordRequest) Bind(_ *http.Request) error {
	if err := dto.ValidateSingleError(*f); err != nil {
		return exception.ApplicationError{
			Message:    err.Error(),
			StatusCode: http.StatusBadRequest,
		}
	}

	return nil
}

type resetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=6"`
}

func (r *resetPasswordRequest) Bind(_ *http.Request) error {
	if err := dto.ValidateSingleError(*r); err != nil {
		return exception.ApplicationError{
			Message:    err.Error(),
			StatusCode: http.StatusBadRequest,
		}
	}

	return nil
}

type verifyEmailRequest struct {
	Token string `json:"token" validate:"required"`
}

func (v *verifyEmailRequest) Bind(_ *http.Request) error {
	if err := dto.ValidateSingleError(*v); err != nil {
		return exception.ApplicationError{
			Message:    err.Error(),
			StatusCode: http.StatusBadRequest,
		}
	}

	return nil
}

type passengerQuery struct {
	Email string
	Page  int
}

// Endpoints bundles every route handler of the development server.
type Endpoints struct {
	SearchFlights         endpoint.Endpoint
	FlightSeats           endpoint.Endpoint
	CreateFlight          endpoint.Endpoint
	ListAirports          endpoint.Endpoint
	CreateAirport         endpoint.Endpoint
	CreateReservation     endpoint.Endpoint
	CancelReservation     endpoint.Endpoint
	ProcessPayment        endpoint.Endpoint
	PassengerReservations endpoint.Endpoint
	Login                 endpoint.Endpoint
	Register              endpoint.Endpoint
	ForgotPassword        endpoint.Endpoint
	ResetPassword         endpoint.Endpoint
	VerifyEmail           endpoint.Endpoint
}

func MakeEndpoints(service *Service) Endpoints {
	return Endpoints{
		SearchFlights:         makeSearchFlightsEndpoint(service),
		FlightSeats:           makeFlightSeatsEndpoint(service),
		CreateFlight:          makeCreateFlightEndpoint(service),
		ListAirports:          makeListAirportsEndpoint(service),
		CreateAirport:         makeCreateAirportEndpoint(service),
		CreateReservation:     makeCreateReservationEndpoint(service),
		CancelReservation:     makeCancelReservationEndpoint(service),
		ProcessPayment:        makeProcessPaymentEndpoint(service),
		PassengerReservations: makePassengerReservationsEndpoint(service),
		Login:                 makeLoginEndpoint(service),
		Register:              makeRegisterEndpoint(service),
		ForgotPassword:        makeForgotPasswordEndpoint(service),
		ResetPassword:         makeResetPasswordEndpoint(service),
		VerifyEmail:           makeVerifyEmailEndpoint(service),
	}
}

func makeSearchFlightsEndpoint(service *Service) endpoint.Endpoint {
	return func(ctx context.Context, req interface{}) (interface{}, error) {
		query, ok := req.(flightQuery)
		if !ok {
			return nil, errInvalidRequestType
		}

		flights, err := service.SearchFlights(ctx, query)
		if err != nil {
			return nil, fmt.Errorf("search flights: %w", err)
		}

		return flights, nil
	}
}

func makeFlightSeatsEndpoint(service *Service) endpoint.Endpoint {
	return func(ctx context.Context, req interface{}) (interface{}, error) {
		flightID, ok := req.(string)
		if !ok {
			return nil, errInvalidRequestType
		}

		return service.FlightSeats(ctx, flightID)
	}
}

func makeCreateFlightEndpoint(service *Service) endpoint.Endpoint {
	return func(ctx context.Context, req interface{}) (interface{}, error) {
		draft, ok := req.(*dto.FlightDraft)
		if !ok || draft == nil {
			return nil, errInvalidRequestType
		}

		return service.CreateFlight(ctx, *draft)
	}
}

func makeListAirportsEndpoint(service *Service) endpoint.Endpoint {
	return func(ctx context.Context, req interface{}) (interface{}, error) {
		search, ok := req.(string)
		if !ok {
			return nil, errInvalidRequestType
		}

		airports, err := service.ListAirports(ctx, search)
		if err != nil {
			return nil, fmt.Errorf("list airports: %w", err)
		}

		// The nested envelope the booking API serves its listings in.
		return map[string]interface{}{
			"data": map[string]interface{}{
				"data": airports,
			},
		}, nil
	}
}

func makeCreateAirportEndpoint(service *Service) endpoint.Endpoint {
	return func(ctx context.Context, req interface{}) (interface{}, error) {
		draft, ok := req.(*dto.AirportDraft)
		if !ok || draft == nil {
			return nil, errInvalidRequestType
		}

		return service.CreateAirport(ctx, *draft)
	}
}

func makeCreateReservationEndpoint(service *Service) endpoint.Endpoint {
	return func(ctx context.Context, req interface{}) (interface{}, error) {
		request, ok := req.(*dto.ReservationRequest)
		if !ok || request == nil {
			return nil, errInvalidRequestType
		}

		return service.CreateReservation(ctx, *request)
	}
}

func makeCancelReservationEndpoint(service *Service) endpoint.Endpoint {
	return func(ctx context.Context, req interface{}) (interface{}, error) {
		reservationID, ok := req.(string)
		if !ok {
			return nil, errInvalidRequestType
		}

		return nil, service.CancelReservation(ctx, reservationID)
	}
}

func makeProcessPaymentEndpoint(service *Service) endpoint.Endpoint {
	return func(ctx context.Context, req interface{}) (interface{}, error) {
		request, ok := req.(*dto.PaymentRequest)
		if !ok || request == nil {
			return nil, errInvalidRequestType
		}

		return service.ProcessPayment(ctx, *request)
	}
}

func makePassengerReservationsEndpoint(service *Service) endpoint.Endpoint {
	return func(ctx context.Context, req interface{}) (interface{}, error) {
		query, ok := req.(passengerQuery)
		if !ok {
			return nil, errInvalidRequestType
		}

		return service.PassengerReservations(ctx, query.Email, query.Page)
	}
}

func makeLoginEndpoint(service *Service) endpoint.Endpoint {
	return func(ctx context.Context, req interface{}) (interface{}, error) {
		creds, ok := req.(*dto.Credentials)
		if !ok || creds == nil {
			return nil, errInvalidRequestType
		}

		return service.Login(ctx, *creds)
	}
}

func makeRegisterEndpoint(service *Service) endpoint.Endpoint {
	return func(ctx context.Context, req interface{}) (interface{}, error) {
		reg, ok := req.(*dto.Registration)
		if !ok || reg == nil {
			return nil, errInvalidRequestType
		}

		return service.Register(ctx, *reg)
	}
}

func makeForgotPasswordEndpoint(service *Service) endpoint.Endpoint {
	return func(ctx context.Context, req interface{}) (interface{}, error) {
		request, ok := req.(*forgotPasswordRequest)
		if !ok || request == nil {
			return nil, errInvalidRequestType
		}

		return service.ForgotPassword(ctx, request.Email)
	}
}

func makeResetPasswordEndpoint(service *Service) endpoint.Endpoint {
	return func(ctx context.Context, req interface{}) (interface{}, error) {
		request, ok := req.(*resetPasswordRequest)
		if !ok || request == nil {
			return nil, errInvalidRequestType
		}

		return service.ResetPassword(ctx, request.Token, request.NewPassword)
	}
}

func makeVerifyEmailEndpoint(service *Service) endpoint.Endpoint {
	return func(ctx context.Context, req interface{}) (interface{}, error) {
		request, ok := req.(*verifyEmailRequest)
		if !ok || request == nil {
			return nil, errInvalidRequestType
		}

		return service.VerifyEmail(ctx, request.Token)
	}
}

// Query and path decoders for routes whose input is not a JSON body.

func decodeFlightQuery(_ context.Context, r *http.Request) (interface{}, error) {
	query := r.URL.Query()

	return flightQuery{
		Departure:     query.Get("departure"),
		Destination:   query.Get("destination"),
		DepartureDate: query.Get("departureDate"),
		Page:          atoiDefault(query.Get("page"), 1),
		PageSize:      atoiDefault(query.Get("pageSize"), 20),
	}, nil
}

func decodeFlightID(_ context.Context, r *http.Request) (interface{}, error) {
	return chi.URLParam(r, "flightID"), nil
}

func decodeReservationID(_ context.Context, r *http.Request) (interface{}, error) {
	return chi.URLParam(r, "reservationID"), nil
}

func decodeAirportSearch(_ context.Context, r *http.Request) (interface{}, error) {
	query := r.URL.Query()

	search := query.Get("search")
	if search == "" {
		search = query.Get("query")
	}

	return search, nil
}

func decodePassengerQuery(_ context.Context, r *http.Request) (interface{}, error) {
	return passengerQuery{
		Email: chi.URLParam(r, "email"),
		Page:  atoiDefault(r.URL.Query().Get("page"), 1),
	}, nil
}

func atoiDefault(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return def
	}

	return n
}
