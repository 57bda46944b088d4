package dto

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/skysync/skysync-tui/internal/pkg/exception"
)

// PaymentRequest is the wire payload for one reservation's payment.
type PaymentRequest struct {
	CorrelationID string  `json:"correlationId" validate:"required"`
	ReservationID string  `json:"reservationId" validate:"required"`
	Amount        float64 `json:"amount" validate:"gte=0"`
	ExpiresAt     string  `json:"expiresAt"`
	CardNumber    string  `json:"cardNumber" validate:"required"`
}

func (p PaymentRequest) Validate() error {
	if err := ValidateSingleError(p); err != nil {
		return exception.ApplicationError{
			StatusCode: http.StatusBadRequest,
			Message:    err.Error(),
		}
	}

	return nil
}

// PaymentResult is the normalized payment response. Success is only true on
// an explicit success:true body.
type PaymentResult struct {
	Success       bool   `json:"success"`
	TransactionID string `json:"transactionId,omitempty"`
	Message       string `json:"message,omitempty"`
	Code          string `json:"code,omitempty"`
}

// CardDetails holds the card form input. Validation here is a presentation
// guard only; the payment provider is the authority on real validity.
type CardDetails struct {
	Number     string
	Expiry     string
	CVV        string
	HolderName string
}

// Digits returns the card number with spaces stripped.
func (c CardDetails) Digits() string {
	return strings.ReplaceAll(c.Number, " ", "")
}

func cardError(message string) error {
	return exception.ApplicationError{
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

// ValidateAt checks the card details against the rules the payment form
// enforces before any request goes out: 16 digits, MM/YY expiry not before
// now (two-digit year), 3-4 digit CVV, non-empty holder name.
func (c CardDetails) ValidateAt(now time.Time) error {
	digits := c.Digits()
	if len(digits) != 16 || !allDigits(digits) {
		return cardError("enter a valid card number (16 digits)")
	}

	expMonth, expYear, ok := strings.Cut(c.Expiry, "/")
	month, monthErr := strconv.Atoi(expMonth)
	year, yearErr := strconv.Atoi(expYear)
	currentYear := now.Year() % 100
	currentMonth := int(now.Month())

	if !ok || monthErr != nil || yearErr != nil ||
		month < 1 || month > 12 ||
		year < currentYear ||
		(year == currentYear && month < currentMonth) {
		return cardError("enter a valid expiry date (MM/YY)")
	}

	cvv := strings.TrimSpace(c.CVV)
	if len(cvv) < 3 || len(cvv) > 4 || !allDigits(cvv) {
		return cardError("CVV must be 3 or 4 digits")
	}

	if strings.TrimSpace(c.HolderName) == "" {
		return cardError("enter the cardholder name")
	}

	return nil
}

func (c CardDetails) Validate() error {
	return c.ValidateAt(time.Now())
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}

	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}

	return true
}
