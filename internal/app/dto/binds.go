package dto

import (
	"fmt"
	"net/http"
)

// Bind methods validate decoded request bodies on the server side of the
// wire. They exist on pointer receivers as render.Bind requires.

func (c *Credentials) Bind(_ *http.Request) error {
	if err := c.Validate(); err != nil {
		return fmt.Errorf("bind credentials: %w", err)
	}

	return nil
}

func (r *Registration) Bind(_ *http.Request) error {
	if err := r.Validate(); err != nil {
		return fmt.Errorf("bind registration: %w", err)
	}

	return nil
}

func (r *ReservationRequest) Bind(_ *http.Request) error {
	if err := r.Validate(); err != nil {
		return fmt.Errorf("bind reservation request: %w", err)
	}

	return nil
}

func (p *PaymentRequest) Bind(_ *http.Request) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("bind payment request: %w", err)
	}

	return nil
}

func (d *FlightDraft) Bind(_ *http.Request) error {
	if err := d.Validate(); err != nil {
		return fmt.Errorf("bind flight draft: %w", err)
	}

	return nil
}

func (d *AirportDraft) Bind(_ *http.Request) error {
	*d = d.Normalized()

	if err := d.Validate(); err != nil {
		return fmt.Errorf("bind airport draft: %w", err)
	}

	return nil
}
