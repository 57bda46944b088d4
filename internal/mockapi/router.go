package mockapi

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/skysync/skysync-tui/internal/app/dto"
	httptransport "github.com/skysync/skysync-tui/internal/pkg/transport/http"
)

// MakeHTTPRouter builds the development server router. Paths mirror the
// booking API the terminal client targets, rooted at /api.
func MakeHTTPRouter(store *Store, endpts Endpoints) *chi.Mux {
	router := chi.NewRouter()

	router.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	router.Route("/api", func(router chi.Router) {
		router.Use(
			httptransport.RequestID(),
			httptransport.CORSMiddleware(),
			httptransport.Recoverer(slog.Default()),
			render.SetContentType(render.ContentTypeJSON),
			echoTraceHeaders,
		)

		router.Get("/flight", httptransport.MakeHandlerFunc(
			endpts.SearchFlights,
			decodeFlightQuery,
			httptransport.ResponseWithBody,
		))
		router.Get("/flight/{flightID}/seats", httptransport.MakeHandlerFunc(
			endpts.FlightSeats,
			decodeFlightID,
			httptransport.ResponseWithBody,
		))
		router.Get("/airport", httptransport.MakeHandlerFunc(
			endpts.ListAirports,
			decodeAirportSearch,
			httptransport.ResponseWithBody,
		))

		router.Route("/auth", func(router chi.Router) {
			router.Post("/login", httptransport.MakeHandlerFunc(
				endpts.Login,
				httptransport.DecodeRequest[dto.Credentials],
				httptransport.ResponseWithBody,
			))
			router.Post("/register", httptransport.MakeHandlerFunc(
				endpts.Register,
				httptransport.DecodeRequest[dto.Registration],
				httptransport.CreatedResponse,
			))
			router.Post("/forgot-password", httptransport.MakeHandlerFunc(
				endpts.ForgotPassword,
				httptransport.DecodeRequest[forgotPasswordRequest],
				httptransport.ResponseWithBody,
			))
			router.Post("/reset-password", httptransport.MakeHandlerFunc(
				endpts.ResetPassword,
				httptransport.DecodeRequest[resetPasswordRequest],
				httptransport.ResponseWithBody,
			))
			router.Post("/verify-email", httptransport.MakeHandlerFunc(
				endpts.VerifyEmail,
				httptransport.DecodeRequest[verifyEmailRequest],
				httptransport.ResponseWithBody,
			))
		})

		// Everything below needs a signed-in user.
		router.Group(func(router chi.Router) {
			router.Use(
				httptransport.RequireBearer(store.TokenValid),
				withUserID(store),
			)

			router.Post("/flight", httptransport.MakeHandlerFunc(
				endpts.CreateFlight,
				httptransport.DecodeRequest[dto.FlightDraft],
				httptransport.CreatedResponse,
			))
			router.Post("/airport", httptransport.MakeHandlerFunc(
				endpts.CreateAirport,
				httptransport.DecodeRequest[dto.AirportDraft],
				httptransport.CreatedResponse,
			))
			router.Post("/reservation", httptransport.MakeHandlerFunc(
				endpts.CreateReservation,
				httptransport.DecodeRequest[dto.ReservationRequest],
				httptransport.CreatedResponse,
			))
			router.Delete("/reservation/{reservationID}", httptransport.MakeHandlerFunc(
				endpts.CancelReservation,
				decodeReservationID,
				httptransport.NoContentResponse,
			))
			router.Post("/payment/process", httptransport.MakeHandlerFunc(
				endpts.ProcessPayment,
				httptransport.DecodeRequest[dto.PaymentRequest],
				httptransport.ResponseWithBody,
			))
			router.Get("/reservation/passenger/{email}", httptransport.MakeHandlerFunc(
				endpts.PassengerReservations,
				decodePassengerQuery,
				httptransport.ResponseWithBody,
			))
		})
	})

	return router
}

// echoTraceHeaders reflects the caller's trace headers onto the response,
// the way the instrumented booking API does. The client reads them off
// reservation replies to stitch the payment call into the same trace.
func echoTraceHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if tp := r.Header.Get("traceparent"); tp != "" {
			w.Header().Set("traceparent", tp)
		}

		if ts := r.Header.Get("tracestate"); ts != "" {
			w.Header().Set("tracestate", ts)
		}

		next.ServeHTTP(w, r)
	})
}

// withUserID resolves the bearer token to its user id for handlers that
// record ownership. Runs after RequireBearer, so the token is present.
func withUserID(store *Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, _ := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if userID, ok := store.UserIDByToken(token); ok {
				ctx := context.WithValue(r.Context(), userIDContextKey, userID)
				r = r.WithContext(ctx)
			}

			next.ServeHTTP(w, r)
		})
	}
}
