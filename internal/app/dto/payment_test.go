//go:build unit

package dto

import (
	"testing"
	"time"
)

func TestCardDetails_ValidateAt(t *testing.T) {
	now := time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)

	validCard := CardDetails{
		Number:     "1234 5678 9012 3456",
		Expiry:     "12/26",
		CVV:        "123",
		HolderName: "Demo Passenger",
	}

	validateCard := func(mutate func(c *CardDetails), wantErr string) func(t *testing.T) {
		return func(t *testing.T) {
			card := validCard
			mutate(&card)

			err := card.ValidateAt(now)

			if wantErr == "" {
				if err != nil {
					t.Fatalf("ValidateAt() error = %v, want nil", err)
				}

				return
			}

			if err == nil || err.Error() != wantErr {
				t.Fatalf("ValidateAt() error = %v, want %q", err, wantErr)
			}
		}
	}

	t.Run("valid_with_spaces", validateCard(func(*CardDetails) {}, ""))

	t.Run("thirteen_digits_rejected", validateCard(func(c *CardDetails) {
		c.Number = "1234567890123"
	}, "enter a valid card number (16 digits)"))

	t.Run("letters_rejected", validateCard(func(c *CardDetails) {
		c.Number = "1234 5678 9012 345X"
	}, "enter a valid card number (16 digits)"))

	t.Run("expiry_in_past", validateCard(func(c *CardDetails) {
		c.Expiry = "01/20"
	}, "enter a valid expiry date (MM/YY)"))

	t.Run("expiry_current_month_ok", validateCard(func(c *CardDetails) {
		c.Expiry = "06/25"
	}, ""))

	t.Run("expiry_previous_month_rejected", validateCard(func(c *CardDetails) {
		c.Expiry = "05/25"
	}, "enter a valid expiry date (MM/YY)"))

	t.Run("expiry_month_13_rejected", validateCard(func(c *CardDetails) {
		c.Expiry = "13/26"
	}, "enter a valid expiry date (MM/YY)"))

	t.Run("expiry_missing_slash", validateCard(func(c *CardDetails) {
		c.Expiry = "1226"
	}, "enter a valid expiry date (MM/YY)"))

	t.Run("cvv_two_digits_rejected", validateCard(func(c *CardDetails) {
		c.CVV = "12"
	}, "CVV must be 3 or 4 digits"))

	t.Run("cvv_four_digits_ok", validateCard(func(c *CardDetails) {
		c.CVV = "1234"
	}, ""))

	t.Run("empty_holder_rejected", validateCard(func(c *CardDetails) {
		c.HolderName = "   "
	}, "enter the cardholder name"))
}

func TestCardDetails_Digits(t *testing.T) {
	card := CardDetails{Number: "1234 5678 9012 3456"}

	if got := card.Digits(); got != "1234567890123456" {
		t.Fatalf("Digits() = %q", got)
	}
}
