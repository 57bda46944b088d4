package dto

import (
	"net/http"

	"github.com/skysync/skysync-tui/internal/pkg/exception"
)

// PassengerInfo identifies the passenger on every per-seat reservation
// request of a checkout batch.
type PassengerInfo struct {
	Name    string `json:"passengerName" validate:"required"`
	Surname string `json:"passengerSurname" validate:"required"`
	Email   string `json:"passengerEmail" validate:"required,email"`
}

func (p PassengerInfo) Validate() error {
	if err := ValidateSingleError(p); err != nil {
		return exception.ApplicationError{
			StatusCode: http.StatusBadRequest,
			Message:    err.Error(),
		}
	}

	return nil
}

// ReservationRequest is the wire payload for one seat.
type ReservationRequest struct {
	FlightID         string  `json:"flightId" validate:"required"`
	SeatNumber       string  `json:"seatNumber" validate:"required"`
	Price            float64 `json:"price" validate:"gte=0"`
	PassengerName    string  `json:"passengerName" validate:"required"`
	PassengerSurname string  `json:"passengerSurname" validate:"required"`
	PassengerEmail   string  `json:"passengerEmail" validate:"required,email"`
}

func (r ReservationRequest) Validate() error {
	if err := ValidateSingleError(r); err != nil {
		return exception.ApplicationError{
			StatusCode: http.StatusBadRequest,
			Message:    err.Error(),
		}
	}

	return nil
}

// ReservationAck is the normalized reservation response body. Denied marks
// an explicit isSuccess:false reply, which fails the step even on HTTP 200.
type ReservationAck struct {
	CorrelationID string
	ReservationID string
	Message       string
	Traceparent   string
	Tracestate    string
	Denied        bool
}

// ReservationResult is one seat's outcome of the reservation step, carrying
// the trace tokens the payment call must reuse.
type ReservationResult struct {
	CorrelationID string  `json:"correlationId,omitempty"`
	ReservationID string  `json:"reservationId,omitempty"`
	Message       string  `json:"message,omitempty"`
	Traceparent   string  `json:"traceparent,omitempty"`
	Tracestate    string  `json:"tracestate,omitempty"`
	SeatNumber    string  `json:"seatNumber,omitempty"`
	Amount        float64 `json:"amount,omitempty"`
}

// Payable reports whether the payment step can reference this reservation.
func (r ReservationResult) Payable() bool {
	return r.ReservationID != "" && r.CorrelationID != ""
}

// Reservation is one row of the "my reservations" listing.
type Reservation struct {
	ID             string  `json:"id"`
	FlightNumber   string  `json:"flightNumber"`
	SeatNumber     string  `json:"seatNumber"`
	Status         string  `json:"status"`
	Price          float64 `json:"price"`
	PassengerEmail string  `json:"passengerEmail"`
	CreatedAt      string  `json:"createdAt"`
}
