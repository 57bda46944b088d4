//go:build unit

package mockapi_test

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skysync/skysync-tui/internal/app/config"
	"github.com/skysync/skysync-tui/internal/app/dto"
	"github.com/skysync/skysync-tui/internal/app/service"
	"github.com/skysync/skysync-tui/internal/mockapi"
	"github.com/skysync/skysync-tui/internal/pkg/apiclient"
	"github.com/skysync/skysync-tui/internal/pkg/session"
)

type clientStack struct {
	auth     *service.AuthService
	flights  *service.FlightService
	checkout *service.CheckoutService
}

func newStack(t *testing.T) (*clientStack, func()) {
	t.Helper()

	require.NoError(t, dto.InitValidator())

	store := mockapi.NewStore()
	endpts := mockapi.MakeEndpoints(mockapi.NewService(store))
	server := httptest.NewServer(mockapi.MakeHTTPRouter(store, endpts))

	sessions := session.NewMemoryStore()
	api := apiclient.New(server.URL+"/api", 5*time.Second, sessions)

	auth := service.NewAuthService(api, sessions)
	auth.Init()

	stack := &clientStack{
		auth:     auth,
		flights:  service.NewFlightService(api, config.Search{PageSize: 10, SuggestionPageSize: 5}),
		checkout: service.NewCheckoutService(api, config.Checkout{}),
	}

	return stack, server.Close
}

// TestBookingFlow walks the whole happy path through the real HTTP stack:
// sign in, search, pick a seat, reserve it and pay for it.
func TestBookingFlow(t *testing.T) {
	stack, shutdown := newStack(t)
	defer shutdown()

	ctx := context.Background()

	auth, err := stack.auth.Login(ctx, dto.Credentials{Email: "demo@skysync.dev", Password: "password"})
	require.NoError(t, err)
	require.NotEmpty(t, auth.Token)
	require.True(t, stack.auth.Authenticated())

	results, err := stack.flights.Search(ctx, dto.SearchQuery{
		Departure:     "IST",
		Destination:   "AMS",
		DepartureDate: "2025-06-01",
	})
	require.NoError(t, err)
	require.Len(t, results.Outbound, 2)

	flight := results.Outbound[0]
	assert.Equal(t, "SS101", flight.FlightNumber)

	seatMap, err := stack.flights.Seats(ctx, flight.ID)
	require.NoError(t, err)
	require.Equal(t, 72, seatMap.TotalSeatsCount)

	var target dto.Seat
	for _, seat := range seatMap.Seats {
		if seat.SeatNumber == "12C" {
			target = seat

			break
		}
	}
	require.NotEmpty(t, target.ID, "seat 12C must exist in the seeded cabin")
	require.False(t, target.IsReserved)

	stack.checkout.OpenSeatMap(seatMap)
	stack.checkout.ToggleSeat(target.ID)
	require.Equal(t, service.StateSeatsSelected, stack.checkout.State())

	reservations, err := stack.checkout.Reserve(ctx, dto.PassengerInfo{
		Name:    "Demo",
		Surname: "User",
		Email:   "demo@skysync.dev",
	})
	require.NoError(t, err)
	require.Len(t, reservations, 1)
	assert.NotEmpty(t, reservations[0].CorrelationID)
	assert.NotEmpty(t, reservations[0].ReservationID)
	assert.Equal(t, "12C", reservations[0].SeatNumber)
	assert.Equal(t, service.StateReservationCreated, stack.checkout.State())

	payment, err := stack.checkout.Pay(ctx, dto.CardDetails{
		Number:     "4111 1111 1111 1111",
		Expiry:     "12/30",
		CVV:        "123",
		HolderName: "Demo User",
	})
	require.NoError(t, err)
	assert.True(t, payment.Success)
	assert.NotEmpty(t, payment.TransactionID)
	assert.Equal(t, service.StatePaymentComplete, stack.checkout.State())

	// The paid reservation shows up in the passenger listing as confirmed.
	rows, err := stack.flights.PassengerReservations(ctx, "demo@skysync.dev", 1)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "confirmed", rows[0].Status)
	assert.Equal(t, "12C", rows[0].SeatNumber)
}

func TestBookingFlow_SeatConflict(t *testing.T) {
	stack, shutdown := newStack(t)
	defer shutdown()

	ctx := context.Background()

	_, err := stack.auth.Login(ctx, dto.Credentials{Email: "demo@skysync.dev", Password: "password"})
	require.NoError(t, err)

	results, err := stack.flights.Search(ctx, dto.SearchQuery{
		Departure:     "IST",
		Destination:   "AMS",
		DepartureDate: "2025-06-01",
	})
	require.NoError(t, err)
	require.NotEmpty(t, results.Outbound)

	seatMap, err := stack.flights.Seats(ctx, results.Outbound[0].ID)
	require.NoError(t, err)

	var reserved dto.Seat
	for _, seat := range seatMap.Seats {
		if seat.IsReserved {
			reserved = seat

			break
		}
	}
	require.NotEmpty(t, reserved.ID, "the seeded cabin scatters some reserved seats")

	// The client-side guard: a reserved seat never enters the selection.
	stack.checkout.OpenSeatMap(seatMap)
	stack.checkout.ToggleSeat(reserved.ID)
	assert.Empty(t, stack.checkout.SelectedSeats())
}

func TestProtectedRoutesRejectAnonymousCalls(t *testing.T) {
	stack, shutdown := newStack(t)
	defer shutdown()

	ctx := context.Background()

	// No login: the reservation endpoint sits behind the bearer check and
	// the 401 comes back through the client as a session-expiry.
	seatMap := dto.SeatMap{
		FlightID: "whatever",
		Seats:    []dto.Seat{{ID: "s1", SeatNumber: "1A", Price: 100}},
	}

	stack.checkout.OpenSeatMap(seatMap)
	stack.checkout.ToggleSeat("s1")

	_, err := stack.checkout.Reserve(ctx, dto.PassengerInfo{Name: "A", Surname: "B", Email: "a@b.dev"})
	require.Error(t, err)
	assert.ErrorIs(t, err, apiclient.ErrSessionExpired)
}

func TestRegisterVerifyLogin(t *testing.T) {
	stack, shutdown := newStack(t)
	defer shutdown()

	ctx := context.Background()

	result, err := stack.auth.Register(ctx, dto.Registration{
		FirstName: "New",
		LastName:  "Passenger",
		Email:     "new@skysync.dev",
		Password:  "password",
	})
	require.NoError(t, err)
	require.NotEmpty(t, result.UserID)
	assert.False(t, stack.auth.Authenticated(), "registration alone must not sign the user in")

	// Unverified accounts cannot sign in yet.
	_, err = stack.auth.Login(ctx, dto.Credentials{Email: "new@skysync.dev", Password: "password"})
	require.Error(t, err)
}
