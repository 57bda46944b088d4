package dto

import (
	"net/http"
	"strings"

	"github.com/skysync/skysync-tui/internal/pkg/exception"
)

type Airport struct {
	ID      string `json:"id"`
	Code    string `json:"code"`
	Name    string `json:"name"`
	City    string `json:"city"`
	Country string `json:"country"`
}

// Matches reports whether the airport matches a free-text query on code,
// name, city or country. Matching is case-insensitive substring.
func (a Airport) Matches(query string) bool {
	upper := strings.ToUpper(query)

	return strings.Contains(strings.ToUpper(a.Code), upper) ||
		strings.Contains(strings.ToUpper(a.Name), upper) ||
		strings.Contains(strings.ToUpper(a.City), upper) ||
		strings.Contains(strings.ToUpper(a.Country), upper)
}

// AirportDraft is the admin view's airport creation payload.
type AirportDraft struct {
	Code    string `json:"code" validate:"required,len=3,alpha"`
	Name    string `json:"name" validate:"required"`
	City    string `json:"city" validate:"required"`
	Country string `json:"country" validate:"required"`
}

func (d AirportDraft) Normalized() AirportDraft {
	d.Code = strings.ToUpper(strings.TrimSpace(d.Code))
	d.Name = strings.TrimSpace(d.Name)
	d.City = strings.TrimSpace(d.City)
	d.Country = strings.TrimSpace(d.Country)

	return d
}

func (d AirportDraft) Validate() error {
	if err := ValidateSingleError(d); err != nil {
		return exception.ApplicationError{
			StatusCode: http.StatusBadRequest,
			Message:    err.Error(),
		}
	}

	return nil
}
