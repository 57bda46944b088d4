package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/skysync/skysync-tui/internal/app/config"
	"github.com/skysync/skysync-tui/internal/app/dto"
	"github.com/skysync/skysync-tui/internal/pkg/apiclient"
	"github.com/skysync/skysync-tui/internal/pkg/exception"
	"github.com/skysync/skysync-tui/internal/pkg/logger"
	"github.com/skysync/skysync-tui/internal/pkg/tracing"
)

const checkoutTracerName = "github.com/skysync/skysync-tui/internal/app/service/checkout"

// MaxSelectableSeats caps one checkout batch. Attempts to exceed it are
// silently ignored, not errored.
const MaxSelectableSeats = 3

// paymentWindow is how long a payment authorization stays valid.
const paymentWindow = 15 * time.Minute

// CheckoutState tracks one checkout session.
type CheckoutState int

const (
	StateBrowsing CheckoutState = iota
	StateSeatsSelected
	StateReservationPending
	StateReservationCreated
	StatePaymentPending
	StatePaymentComplete
	StateError
)

func (s CheckoutState) String() string {
	switch s {
	case StateBrowsing:
		return "browsing"
	case StateSeatsSelected:
		return "seats_selected"
	case StateReservationPending:
		return "reservation_pending"
	case StateReservationCreated:
		return "reservation_created"
	case StatePaymentPending:
		return "payment_pending"
	case StatePaymentComplete:
		return "payment_complete"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// CheckoutService sequences seat selection, per-seat reservation and
// per-reservation payment for one seat map at a time. Both network steps
// run strictly sequentially: each reservation call may establish its own
// correlation/trace identity, which the matching payment call must reuse,
// and the backend's behavior under concurrent per-seat reservations is
// unspecified. Nothing here retries; a failure parks the state machine in
// StateError and the user resubmits.
type CheckoutService struct {
	api        *apiclient.Client
	compensate bool
	now        func() time.Time

	mu       sync.Mutex
	state    CheckoutState
	seatMap  *dto.SeatMap
	selected []string
	results  []dto.ReservationResult
	payment  *dto.PaymentResult
}

func NewCheckoutService(api *apiclient.Client, cfg config.Checkout) *CheckoutService {
	return &CheckoutService{
		api:        api,
		compensate: cfg.CompensateOnFailure,
		now:        time.Now,
	}
}

// OpenSeatMap starts a fresh session over the given seat map, discarding
// any previous selection, reservation or payment state.
func (c *CheckoutService) OpenSeatMap(seatMap dto.SeatMap) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.seatMap = &seatMap
	c.selected = nil
	c.results = nil
	c.payment = nil
	c.state = StateBrowsing
}

// Close discards the whole session.
func (c *CheckoutService) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.seatMap = nil
	c.selected = nil
	c.results = nil
	c.payment = nil
	c.state = StateBrowsing
}

func (c *CheckoutService) State() CheckoutState {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.state
}

// SeatMap returns the open seat map, if any.
func (c *CheckoutService) SeatMap() (dto.SeatMap, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.seatMap == nil {
		return dto.SeatMap{}, false
	}

	return *c.seatMap, true
}

// ToggleSeat flips a seat in or out of the selection. Reserved seats are
// never selectable; selecting beyond the cap is a silent no-op while
// deselecting always works. Any change to the selection resets the
// downstream reservation/payment state entirely.
func (c *CheckoutService) ToggleSeat(seatID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.seatMap == nil {
		return
	}

	seat, ok := c.seatMap.Seat(seatID)
	if !ok || seat.IsReserved {
		return
	}

	for i, id := range c.selected {
		if id == seatID {
			c.selected = append(c.selected[:i], c.selected[i+1:]...)
			c.resetProgress()

			return
		}
	}

	if len(c.selected) >= MaxSelectableSeats {
		return
	}

	c.selected = append(c.selected, seatID)
	c.resetProgress()
}

// resetProgress is called under the lock on every selection change.
func (c *CheckoutService) resetProgress() {
	c.results = nil
	c.payment = nil

	if len(c.selected) == 0 {
		c.state = StateBrowsing
	} else {
		c.state = StateSeatsSelected
	}
}

func (c *CheckoutService) IsSelected(seatID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, id := range c.selected {
		if id == seatID {
			return true
		}
	}

	return false
}

// SelectedSeats returns the selected seats in selection order.
func (c *CheckoutService) SelectedSeats() []dto.Seat {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.selectedSeatsLocked()
}

func (c *CheckoutService) selectedSeatsLocked() []dto.Seat {
	if c.seatMap == nil {
		return nil
	}

	seats := make([]dto.Seat, 0, len(c.selected))
	for _, id := range c.selected {
		if seat, ok := c.seatMap.Seat(id); ok {
			seats = append(seats, seat)
		}
	}

	return seats
}

// Results returns the reservation results of the current session.
func (c *CheckoutService) Results() []dto.ReservationResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]dto.ReservationResult, len(c.results))
	copy(out, c.results)

	return out
}

// Payment returns the aggregated payment result once the session is
// complete.
func (c *CheckoutService) Payment() (dto.PaymentResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.payment == nil {
		return dto.PaymentResult{}, false
	}

	return *c.payment, true
}

// Reserve submits one reservation per selected seat, strictly in selection
// order. The first failure (non-2xx or an explicit isSuccess:false body)
// aborts the whole step; seats already reserved on the server are not
// rolled back unless compensation is enabled. Each per-seat result captures
// the trace tokens for its payment call: response header first, then the
// call's own span, then the response body.
func (c *CheckoutService) Reserve(ctx context.Context, passenger dto.PassengerInfo) ([]dto.ReservationResult, error) {
	if err := passenger.Validate(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.seatMap == nil || len(c.selected) == 0 {
		return nil, ErrNoSeatsSelected
	}

	seats := c.selectedSeatsLocked()
	c.state = StateReservationPending

	results := make([]dto.ReservationResult, 0, len(seats))

	for _, seat := range seats {
		result, err := c.reserveSeat(ctx, *c.seatMap, seat, passenger)
		if err != nil {
			if c.compensate {
				c.cancelReservations(ctx, results)
			}

			c.state = StateError

			return nil, err
		}

		results = append(results, result)
	}

	c.results = results
	c.state = StateReservationCreated

	return results, nil
}

func (c *CheckoutService) reserveSeat(ctx context.Context, seatMap dto.SeatMap, seat dto.Seat, passenger dto.PassengerInfo) (dto.ReservationResult, error) {
	payload := dto.ReservationRequest{
		FlightID:         seatMap.FlightID,
		SeatNumber:       seat.SeatNumber,
		Price:            seat.Price,
		PassengerName:    passenger.Name,
		PassengerSurname: passenger.Surname,
		PassengerEmail:   passenger.Email,
	}

	// A span per seat gives every reservation its own trace identity even
	// when the backend does not expose traceparent on the response.
	callCtx, span := otel.Tracer(checkoutTracerName).Start(ctx, "checkout.reserve_seat",
		trace.WithSpanKind(trace.SpanKindInternal))
	defer span.End()

	resp, err := c.api.Post(callCtx, "reservation", payload)
	if err != nil {
		if errors.Is(err, apiclient.ErrSessionExpired) {
			return dto.ReservationResult{}, err
		}

		return dto.ReservationResult{}, unexpected(err)
	}

	ack := dto.ParseReservationAck(resp.Body)

	if !resp.OK() || ack.Denied {
		return dto.ReservationResult{}, exception.ApplicationError{
			Message:    apiclient.Message(resp.Body, "failed to create reservation"),
			StatusCode: resp.StatusCode,
		}
	}

	traceparent := resp.Header.Get("traceparent")
	if traceparent == "" {
		traceparent = tracing.Traceparent(callCtx)
	}
	if traceparent == "" {
		traceparent = ack.Traceparent
	}

	tracestate := resp.Header.Get("tracestate")
	if tracestate == "" {
		tracestate = ack.Tracestate
	}

	message := ack.Message
	if message == "" {
		message = "reservation created"
	}

	return dto.ReservationResult{
		CorrelationID: ack.CorrelationID,
		ReservationID: ack.ReservationID,
		Message:       message,
		Traceparent:   traceparent,
		Tracestate:    tracestate,
		SeatNumber:    seat.SeatNumber,
		Amount:        seat.Price,
	}, nil
}

// Pay validates the card and the reservation results, then submits one
// payment per reservation sequentially, each inside the trace context its
// reservation captured. Any reservation missing its correlation or
// reservation id fails the step before a single request goes out.
func (c *CheckoutService) Pay(ctx context.Context, card dto.CardDetails) (dto.PaymentResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.results) == 0 {
		return dto.PaymentResult{}, ErrMissingReservation
	}

	for _, result := range c.results {
		if !result.Payable() {
			return dto.PaymentResult{}, ErrMissingCorrelationID
		}
	}

	if err := card.ValidateAt(c.now()); err != nil {
		return dto.PaymentResult{}, err
	}

	c.state = StatePaymentPending

	expiresAt := c.now().Add(paymentWindow).UTC().Format(time.RFC3339)
	digits := card.Digits()
	transactionIDs := make([]string, 0, len(c.results))

	for _, reservation := range c.results {
		transactionID, err := c.payReservation(ctx, reservation, digits, expiresAt)
		if err != nil {
			c.state = StateError

			return dto.PaymentResult{}, err
		}

		if transactionID != "" {
			transactionIDs = append(transactionIDs, transactionID)
		}
	}

	aggregated := dto.PaymentResult{
		Success:       true,
		TransactionID: strings.Join(transactionIDs, ", "),
		Message:       fmt.Sprintf("payment completed for %d reservation(s)", len(c.results)),
	}

	c.payment = &aggregated
	c.state = StatePaymentComplete

	return aggregated, nil
}

func (c *CheckoutService) payReservation(ctx context.Context, reservation dto.ReservationResult, cardDigits, expiresAt string) (string, error) {
	payload := dto.PaymentRequest{
		CorrelationID: reservation.CorrelationID,
		ReservationID: reservation.ReservationID,
		Amount:        reservation.Amount,
		ExpiresAt:     expiresAt,
		CardNumber:    cardDigits,
	}

	header := http.Header{}
	if reservation.Traceparent != "" {
		header.Set("traceparent", reservation.Traceparent)
		if reservation.Tracestate != "" {
			header.Set("tracestate", reservation.Tracestate)
		}
	}

	// The payment call joins the trace its reservation started; the tokens
	// travel on the result, never through ambient globals.
	callCtx := tracing.Extract(ctx, reservation.Traceparent, reservation.Tracestate)
	callCtx = context.WithValue(callCtx, logger.CorrelationIDKey, reservation.CorrelationID)

	resp, err := c.api.Do(callCtx, http.MethodPost, "payment/process", payload, header)
	if err != nil {
		if errors.Is(err, apiclient.ErrSessionExpired) {
			return "", err
		}

		return "", unexpected(err)
	}

	result := dto.ParsePaymentResult(resp.Body)

	if !resp.OK() || !result.Success {
		message := result.Message
		if message == "" {
			message = "payment could not be processed"
		}

		return "", exception.ApplicationError{
			Message:    message,
			StatusCode: resp.StatusCode,
		}
	}

	return result.TransactionID, nil
}

// cancelReservations is the optional compensation step: best-effort
// cancellation of reservations already created when a later seat in the
// batch failed. Failures are logged, not surfaced; the user already sees
// the original reservation error.
func (c *CheckoutService) cancelReservations(ctx context.Context, created []dto.ReservationResult) {
	for _, reservation := range created {
		if reservation.ReservationID == "" {
			continue
		}

		resp, err := c.api.Do(ctx, http.MethodDelete, "reservation/"+reservation.ReservationID, nil, nil)
		if err != nil {
			slog.WarnContext(ctx, "failed to cancel reservation during compensation",
				slog.String("reservation_id", reservation.ReservationID),
				slog.String("error", err.Error()))

			continue
		}

		if !resp.OK() {
			slog.WarnContext(ctx, "backend refused reservation cancellation",
				slog.String("reservation_id", reservation.ReservationID),
				slog.Int("status", resp.StatusCode))
		}
	}
}
