//go:build unit

package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skysync/skysync-tui/internal/app/config"
	"github.com/skysync/skysync-tui/internal/app/dto"
	"github.com/skysync/skysync-tui/internal/pkg/apiclient"
	"github.com/skysync/skysync-tui/internal/pkg/session"
)

func testSeatMap() dto.SeatMap {
	return dto.SeatMap{
		FlightID:     "flight-1",
		FlightNumber: "SS101",
		Seats: []dto.Seat{
			{ID: "s-1a", SeatNumber: "1A", Price: 150},
			{ID: "s-1b", SeatNumber: "1B", Price: 150},
			{ID: "s-1c", SeatNumber: "1C", Price: 150, IsReserved: true},
			{ID: "s-2a", SeatNumber: "2A", Price: 120},
			{ID: "s-2b", SeatNumber: "2B", Price: 120},
		},
		TotalSeatsCount: 5,
	}
}

func testPassenger() dto.PassengerInfo {
	return dto.PassengerInfo{Name: "Ada", Surname: "Lovelace", Email: "ada@skysync.dev"}
}

func newCheckout(serverURL string, compensate bool) *CheckoutService {
	api := apiclient.New(serverURL, 2*time.Second, session.NewMemoryStore())

	return NewCheckoutService(api, config.Checkout{CompensateOnFailure: compensate})
}

func TestToggleSeat(t *testing.T) {
	svc := newCheckout("http://localhost:5000", false)
	svc.OpenSeatMap(testSeatMap())

	t.Run("reserved seat never selectable", func(t *testing.T) {
		svc.ToggleSeat("s-1c")
		assert.False(t, svc.IsSelected("s-1c"))
		assert.Equal(t, StateBrowsing, svc.State())
	})

	t.Run("fourth selection is a silent no-op", func(t *testing.T) {
		svc.ToggleSeat("s-1a")
		svc.ToggleSeat("s-1b")
		svc.ToggleSeat("s-2a")
		svc.ToggleSeat("s-2b")

		assert.False(t, svc.IsSelected("s-2b"))

		got := make([]string, 0, MaxSelectableSeats)
		for _, seat := range svc.SelectedSeats() {
			got = append(got, seat.SeatNumber)
		}

		if diff := cmp.Diff([]string{"1A", "1B", "2A"}, got); diff != "" {
			t.Fatalf("unexpected selection (-want +got):\n%s", diff)
		}

		assert.Equal(t, StateSeatsSelected, svc.State())
	})

	t.Run("deselecting works at the cap", func(t *testing.T) {
		svc.ToggleSeat("s-1b")
		assert.False(t, svc.IsSelected("s-1b"))
		assert.Len(t, svc.SelectedSeats(), 2)
	})

	t.Run("deselecting the last seat returns to browsing", func(t *testing.T) {
		svc.ToggleSeat("s-1a")
		svc.ToggleSeat("s-2a")
		assert.Empty(t, svc.SelectedSeats())
		assert.Equal(t, StateBrowsing, svc.State())
	})
}

func TestReserve(t *testing.T) {
	_ = dto.InitValidator()

	t.Run("sequential happy path captures header trace tokens", func(t *testing.T) {
		var seatOrder []string

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPost, r.Method)
			require.Equal(t, "/reservation", r.URL.Path)

			var req dto.ReservationRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			seatOrder = append(seatOrder, req.SeatNumber)

			w.Header().Set("traceparent", "00-aaaa-bbbb-01")
			w.Header().Set("tracestate", "skysync=1")
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprintf(w, `{"isSuccess":true,"correlationId":"c-%s","reservationId":"r-%s","traceparent":"body-tp"}`,
				req.SeatNumber, req.SeatNumber)
		}))
		defer server.Close()

		svc := newCheckout(server.URL, false)
		svc.OpenSeatMap(testSeatMap())
		svc.ToggleSeat("s-1a")
		svc.ToggleSeat("s-2b")

		results, err := svc.Reserve(context.Background(), testPassenger())
		require.NoError(t, err)

		assert.Equal(t, []string{"1A", "2B"}, seatOrder)
		assert.Equal(t, StateReservationCreated, svc.State())

		require.Len(t, results, 2)
		assert.Equal(t, "c-1A", results[0].CorrelationID)
		assert.Equal(t, "r-1A", results[0].ReservationID)
		// The response header wins over the body token.
		assert.Equal(t, "00-aaaa-bbbb-01", results[0].Traceparent)
		assert.Equal(t, "skysync=1", results[0].Tracestate)
		assert.Equal(t, "reservation created", results[0].Message)
		assert.Equal(t, 120.0, results[1].Amount)

		if diff := cmp.Diff(results, svc.Results()); diff != "" {
			t.Fatalf("stored results differ (-want +got):\n%s", diff)
		}
	})

	t.Run("body trace token used when no header is present", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"isSuccess":true,"correlationId":"c1","reservationId":"r1","traceparent":"00-cccc-dddd-01"}`)
		}))
		defer server.Close()

		svc := newCheckout(server.URL, false)
		svc.OpenSeatMap(testSeatMap())
		svc.ToggleSeat("s-1a")

		results, err := svc.Reserve(context.Background(), testPassenger())
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "00-cccc-dddd-01", results[0].Traceparent)
	})

	t.Run("no seats selected", func(t *testing.T) {
		svc := newCheckout("http://localhost:5000", false)
		svc.OpenSeatMap(testSeatMap())

		_, err := svc.Reserve(context.Background(), testPassenger())
		assert.ErrorIs(t, err, ErrNoSeatsSelected)
	})

	t.Run("invalid passenger fails before any request", func(t *testing.T) {
		var hits atomic.Int32

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
		}))
		defer server.Close()

		svc := newCheckout(server.URL, false)
		svc.OpenSeatMap(testSeatMap())
		svc.ToggleSeat("s-1a")

		_, err := svc.Reserve(context.Background(), dto.PassengerInfo{Name: "Ada", Surname: "Lovelace", Email: "not-an-email"})
		require.Error(t, err)
		assert.Zero(t, hits.Load())
	})

	t.Run("first failure aborts the batch", func(t *testing.T) {
		var hits atomic.Int32

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if hits.Add(1) == 1 {
				fmt.Fprint(w, `{"isSuccess":true,"correlationId":"c1","reservationId":"r1"}`)

				return
			}

			w.WriteHeader(http.StatusConflict)
			fmt.Fprint(w, `{"message":"seat already taken"}`)
		}))
		defer server.Close()

		svc := newCheckout(server.URL, false)
		svc.OpenSeatMap(testSeatMap())
		svc.ToggleSeat("s-1a")
		svc.ToggleSeat("s-1b")
		svc.ToggleSeat("s-2a")

		_, err := svc.Reserve(context.Background(), testPassenger())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "seat already taken")

		// The third seat was never attempted.
		assert.Equal(t, int32(2), hits.Load())
		assert.Equal(t, StateError, svc.State())
		assert.Empty(t, svc.Results())
	})

	t.Run("explicit denial in a 2xx body aborts too", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"isSuccess":false,"message":"flight is full"}`)
		}))
		defer server.Close()

		svc := newCheckout(server.URL, false)
		svc.OpenSeatMap(testSeatMap())
		svc.ToggleSeat("s-1a")

		_, err := svc.Reserve(context.Background(), testPassenger())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "flight is full")
	})

	t.Run("compensation cancels already-created reservations", func(t *testing.T) {
		var canceled []string

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodDelete {
				canceled = append(canceled, r.URL.Path)
				w.WriteHeader(http.StatusNoContent)

				return
			}

			var req dto.ReservationRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

			if req.SeatNumber == "1B" {
				w.WriteHeader(http.StatusConflict)
				fmt.Fprint(w, `{"message":"seat already taken"}`)

				return
			}

			fmt.Fprintf(w, `{"isSuccess":true,"correlationId":"c-%s","reservationId":"r-%s"}`, req.SeatNumber, req.SeatNumber)
		}))
		defer server.Close()

		svc := newCheckout(server.URL, true)
		svc.OpenSeatMap(testSeatMap())
		svc.ToggleSeat("s-1a")
		svc.ToggleSeat("s-1b")

		_, err := svc.Reserve(context.Background(), testPassenger())
		require.Error(t, err)
		assert.Equal(t, []string{"/reservation/r-1A"}, canceled)
		assert.Equal(t, StateError, svc.State())
	})
}

func TestPay(t *testing.T) {
	payableResults := []dto.ReservationResult{
		{CorrelationID: "c1", ReservationID: "r1", SeatNumber: "1A", Amount: 150, Traceparent: "00-aaaa-bbbb-01", Tracestate: "skysync=1"},
		{CorrelationID: "c2", ReservationID: "r2", SeatNumber: "1B", Amount: 150},
	}

	validCard := dto.CardDetails{
		Number:     "4111 1111 1111 1111",
		Expiry:     "12/30",
		CVV:        "123",
		HolderName: "Ada Lovelace",
	}

	t.Run("no reservations at all", func(t *testing.T) {
		svc := newCheckout("http://localhost:5000", false)

		_, err := svc.Pay(context.Background(), validCard)
		assert.ErrorIs(t, err, ErrMissingReservation)
	})

	t.Run("missing correlation id fails before any request", func(t *testing.T) {
		var hits atomic.Int32

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
		}))
		defer server.Close()

		svc := newCheckout(server.URL, false)
		svc.results = []dto.ReservationResult{
			{CorrelationID: "c1", ReservationID: "r1"},
			{ReservationID: "r2"},
		}

		_, err := svc.Pay(context.Background(), validCard)
		assert.ErrorIs(t, err, ErrMissingCorrelationID)
		assert.Zero(t, hits.Load())
	})

	t.Run("invalid card fails before any request", func(t *testing.T) {
		var hits atomic.Int32

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
		}))
		defer server.Close()

		svc := newCheckout(server.URL, false)
		svc.now = func() time.Time { return time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC) }
		svc.results = payableResults

		expired := validCard
		expired.Expiry = "05/25"

		_, err := svc.Pay(context.Background(), expired)
		require.Error(t, err)
		assert.Zero(t, hits.Load())
	})

	t.Run("sequential happy path aggregates transaction ids", func(t *testing.T) {
		var gotTraceparents []string

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/payment/process", r.URL.Path)

			var req dto.PaymentRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

			assert.Equal(t, "4111111111111111", req.CardNumber)
			assert.NotEmpty(t, req.ExpiresAt)

			gotTraceparents = append(gotTraceparents, r.Header.Get("traceparent"))

			fmt.Fprintf(w, `{"success":true,"transactionId":"T-%s"}`, req.ReservationID)
		}))
		defer server.Close()

		svc := newCheckout(server.URL, false)
		svc.now = func() time.Time { return time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC) }
		svc.results = payableResults
		svc.state = StateReservationCreated

		result, err := svc.Pay(context.Background(), validCard)
		require.NoError(t, err)

		assert.True(t, result.Success)
		assert.Equal(t, "T-r1, T-r2", result.TransactionID)
		assert.Equal(t, "payment completed for 2 reservation(s)", result.Message)
		assert.Equal(t, StatePaymentComplete, svc.State())

		// Each payment rides the trace its reservation captured.
		require.Len(t, gotTraceparents, 2)
		assert.Equal(t, "00-aaaa-bbbb-01", gotTraceparents[0])

		stored, ok := svc.Payment()
		require.True(t, ok)
		if diff := cmp.Diff(result, stored); diff != "" {
			t.Fatalf("stored payment differs (-want +got):\n%s", diff)
		}
	})

	t.Run("declined payment parks the session in error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusPaymentRequired)
			fmt.Fprint(w, `{"success":false,"message":"card declined"}`)
		}))
		defer server.Close()

		svc := newCheckout(server.URL, false)
		svc.now = func() time.Time { return time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC) }
		svc.results = payableResults
		svc.state = StateReservationCreated

		_, err := svc.Pay(context.Background(), validCard)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "card declined")
		assert.Equal(t, StateError, svc.State())

		_, ok := svc.Payment()
		assert.False(t, ok)
	})
}
