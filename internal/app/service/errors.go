package service

import (
	"net/http"

	"github.com/skysync/skysync-tui/internal/pkg/exception"
)

var (
	// ErrIncompleteAuthResponse covers a 2xx login reply missing the token
	// or the user object.
	ErrIncompleteAuthResponse = exception.ApplicationError{
		Message:    "login response is missing token or user",
		StatusCode: http.StatusBadGateway,
	}

	// ErrUnexpectedResponse covers 2xx replies whose body cannot be
	// interpreted at all.
	ErrUnexpectedResponse = exception.ApplicationError{
		Message:    "unexpected response from server",
		StatusCode: http.StatusBadGateway,
	}

	// ErrNoSeatData is returned when the seats endpoint replies 2xx with an
	// empty body.
	ErrNoSeatData = exception.ApplicationError{
		Message:    "no seat data available for this flight",
		StatusCode: http.StatusNotFound,
	}

	ErrNoSeatsSelected = exception.ApplicationError{
		Message:    "no seats selected",
		StatusCode: http.StatusBadRequest,
	}

	// ErrMissingReservation guards the payment step when no reservation
	// results exist at all.
	ErrMissingReservation = exception.ApplicationError{
		Message:    "reservation details are missing",
		StatusCode: http.StatusBadRequest,
	}

	// ErrMissingCorrelationID fails the payment step before any network
	// call when a reservation result lacks its correlation or reservation
	// id.
	ErrMissingCorrelationID = exception.ApplicationError{
		Message:    "reservation response did not include a correlation id; payment cannot proceed",
		StatusCode: http.StatusBadRequest,
	}
)

// unexpected wraps transport-level failures into the generic user-facing
// message, letting the session-expired sentinel pass through untouched.
func unexpected(err error) error {
	if err == nil {
		return nil
	}

	return exception.ApplicationError{
		Message:    "an unexpected error occurred",
		StatusCode: http.StatusInternalServerError,
		Cause:      err,
	}
}
