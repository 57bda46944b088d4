package mockapi

import (
	"context"
	"net/http"

	"github.com/skysync/skysync-tui/internal/app/dto"
	"github.com/skysync/skysync-tui/internal/pkg/exception"
)

var (
	errFlightNotFound = exception.ApplicationError{
		Message:    "flight not found",
		StatusCode: http.StatusNotFound,
	}
	errSeatNotFound = exception.ApplicationError{
		Message:    "seat not found on this flight",
		StatusCode: http.StatusNotFound,
	}
	errSeatTaken = exception.ApplicationError{
		Message:    "seat is already reserved",
		StatusCode: http.StatusConflict,
	}
	errReservationNotFound = exception.ApplicationError{
		Message:    "reservation not found",
		StatusCode: http.StatusNotFound,
	}
	errCorrelationMismatch = exception.ApplicationError{
		Message:    "correlation id does not match this reservation",
		StatusCode: http.StatusUnprocessableEntity,
	}
	errAlreadyPaid = exception.ApplicationError{
		Message:    "reservation has already been paid",
		StatusCode: http.StatusConflict,
	}
	errEmailTaken = exception.ApplicationError{
		Message:    "an account with this email already exists",
		StatusCode: http.StatusConflict,
	}
	errBadCredentials = exception.ApplicationError{
		Message:    "invalid email or password",
		StatusCode: http.StatusUnauthorized,
	}
	errBadToken = exception.ApplicationError{
		Message:    "token is invalid or expired",
		StatusCode: http.StatusBadRequest,
	}
	errCardDeclined = exception.ApplicationError{
		Message:    "card was declined",
		StatusCode: http.StatusPaymentRequired,
	}
)

// reservationResponse mirrors the booking API's reservation reply, trace
// tokens included in the body as a fallback for clients that cannot read
// response headers.
type reservationResponse struct {
	IsSuccess     bool    `json:"isSuccess"`
	CorrelationID string  `json:"correlationId"`
	ReservationID string  `json:"reservationId"`
	Message       string  `json:"message"`
	SeatNumber    string  `json:"seatNumber"`
	Price         float64 `json:"price"`
	Traceparent   string  `json:"traceparent,omitempty"`
	Tracestate    string  `json:"tracestate,omitempty"`
}

type paymentResponse struct {
	Success       bool   `json:"success"`
	TransactionID string `json:"transactionId"`
	Message       string `json:"message"`
}

type registerResponse struct {
	IsSuccess bool   `json:"isSuccess"`
	UserID    string `json:"userId"`
	Message   string `json:"message"`
}

// Service implements the booking API over the in-memory store.
type Service struct {
	store *Store
}

func NewService(store *Store) *Service {
	return &Service{store: store}
}

func (s *Service) SearchFlights(_ context.Context, q flightQuery) ([]dto.Flight, error) {
	return s.store.SearchFlights(q.Departure, q.Destination, q.DepartureDate, q.Page, q.PageSize), nil
}

func (s *Service) FlightSeats(_ context.Context, flightID string) (dto.SeatMap, error) {
	flight, ok := s.store.Flight(flightID)
	if !ok {
		return dto.SeatMap{}, errFlightNotFound
	}

	seats, _ := s.store.Seats(flightID)
	available := countAvailable(seats)

	return dto.SeatMap{
		FlightID:            flight.ID,
		FlightNumber:        flight.FlightNumber,
		Seats:               seats,
		AvailableSeatsCount: available,
		ReservedSeatsCount:  len(seats) - available,
		TotalSeatsCount:     flight.TotalSeats,
	}, nil
}

func (s *Service) CreateFlight(_ context.Context, draft dto.FlightDraft) (dto.Flight, error) {
	return s.store.AddFlight(draft), nil
}

func (s *Service) ListAirports(_ context.Context, search string) ([]dto.Airport, error) {
	airports := s.store.Airports()
	if search == "" {
		return airports, nil
	}

	matches := make([]dto.Airport, 0, len(airports))

	for _, airport := range airports {
		if airport.Matches(search) {
			matches = append(matches, airport)
		}
	}

	return matches, nil
}

func (s *Service) CreateAirport(_ context.Context, draft dto.AirportDraft) (dto.Airport, error) {
	airport, ok := s.store.AddAirport(draft)
	if !ok {
		return dto.Airport{}, exception.ApplicationError{
			Message:    "airport code already exists",
			StatusCode: http.StatusConflict,
		}
	}

	return airport, nil
}

// CreateReservation reserves the seat and issues the correlation id the
// payment call must present.
func (s *Service) CreateReservation(ctx context.Context, req dto.ReservationRequest) (reservationResponse, error) {
	userID, _ := userIDFromContext(ctx)

	record, err := s.store.ReserveSeat(req, userID)
	if err != nil {
		return reservationResponse{}, err
	}

	return reservationResponse{
		IsSuccess:     true,
		CorrelationID: record.CorrelationID,
		ReservationID: record.Reservation.ID,
		Message:       "reservation created",
		SeatNumber:    record.SeatNumber,
		Price:         record.Price,
	}, nil
}

func (s *Service) CancelReservation(_ context.Context, reservationID string) error {
	if !s.store.CancelReservation(reservationID) {
		return errReservationNotFound
	}

	return nil
}

// ProcessPayment settles the reservation. A card number ending in 0000
// is declined, which gives the client a deterministic failure path to
// exercise.
func (s *Service) ProcessPayment(_ context.Context, req dto.PaymentRequest) (paymentResponse, error) {
	if len(req.CardNumber) >= 4 && req.CardNumber[len(req.CardNumber)-4:] == "0000" {
		return paymentResponse{}, errCardDeclined
	}

	transactionID, err := s.store.Pay(req.CorrelationID, req.ReservationID)
	if err != nil {
		return paymentResponse{}, err
	}

	return paymentResponse{
		Success:       true,
		TransactionID: transactionID,
		Message:       "payment processed",
	}, nil
}

func (s *Service) PassengerReservations(_ context.Context, email string, page int) ([]dto.Reservation, error) {
	return s.store.ReservationsByEmail(email, page, 20), nil
}

func (s *Service) Login(_ context.Context, creds dto.Credentials) (dto.AuthResponse, error) {
	user, ok := s.store.UserByCredentials(creds.Email, creds.Password)
	if !ok {
		return dto.AuthResponse{}, errBadCredentials
	}

	return dto.AuthResponse{
		Token: s.store.IssueToken(user.ID),
		User:  user,
	}, nil
}

// Register creates an unverified account. The reply is the isSuccess/userId
// shape; the client signs the user in only after email verification.
func (s *Service) Register(_ context.Context, reg dto.Registration) (registerResponse, error) {
	userID, _, err := s.store.CreateUser(reg)
	if err != nil {
		return registerResponse{}, err
	}

	return registerResponse{
		IsSuccess: true,
		UserID:    userID,
		Message:   "account created, check your email to verify the address",
	}, nil
}

func (s *Service) ForgotPassword(_ context.Context, email string) (dto.Response, error) {
	s.store.IssueResetToken(email)

	// Same reply whether or not the account exists.
	return dto.Response{Message: "if the address exists, a reset email has been sent"}, nil
}

func (s *Service) ResetPassword(_ context.Context, token, newPassword string) (dto.Response, error) {
	if !s.store.ResetPassword(token, newPassword) {
		return dto.Response{}, errBadToken
	}

	return dto.Response{Message: "password updated, you can sign in now"}, nil
}

func (s *Service) VerifyEmail(_ context.Context, token string) (dto.Response, error) {
	if !s.store.VerifyEmail(token) {
		return dto.Response{}, errBadToken
	}

	return dto.Response{Message: "email address verified"}, nil
}
