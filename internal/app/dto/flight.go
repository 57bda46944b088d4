package dto

import (
	"net/http"
	"strings"

	"github.com/skysync/skysync-tui/internal/pkg/exception"
)

type Flight struct {
	ID             string  `json:"id"`
	FlightNumber   string  `json:"flightNumber"`
	Departure      string  `json:"departure"`
	Destination    string  `json:"destination"`
	DepartureTime  string  `json:"departureTime"`
	ArrivalTime    string  `json:"arrivalTime"`
	BasePrice      float64 `json:"basePrice"`
	Status         string  `json:"status"`
	AvailableSeats int     `json:"availableSeats"`
	TotalSeats     int     `json:"totalSeats"`
}

type TripType string

const (
	TripTypeOneWay    TripType = "oneWay"
	TripTypeRoundTrip TripType = "roundTrip"
)

// ErrMissingReturnDate rejects a round-trip search before any request goes
// out.
var ErrMissingReturnDate = exception.ApplicationError{
	Message:    "return date is required for round-trip searches",
	StatusCode: http.StatusBadRequest,
}

// SearchQuery is one flight search as entered by the user.
type SearchQuery struct {
	Departure     string   `json:"departure" validate:"required"`
	Destination   string   `json:"destination" validate:"required"`
	DepartureDate string   `json:"departureDate" validate:"required"`
	ReturnDate    string   `json:"returnDate,omitempty"`
	TripType      TripType `json:"tripType,omitempty"`
	Page          int      `json:"page,omitempty"`
}

// Normalized trims and uppercases the IATA codes the way the search form
// submits them.
func (q SearchQuery) Normalized() SearchQuery {
	q.Departure = strings.ToUpper(strings.TrimSpace(q.Departure))
	q.Destination = strings.ToUpper(strings.TrimSpace(q.Destination))
	q.DepartureDate = strings.TrimSpace(q.DepartureDate)
	q.ReturnDate = strings.TrimSpace(q.ReturnDate)

	if q.TripType == "" {
		q.TripType = TripTypeOneWay
	}

	if q.Page < 1 {
		q.Page = 1
	}

	return q
}

func (q SearchQuery) Validate() error {
	if err := ValidateSingleError(q); err != nil {
		return exception.ApplicationError{
			StatusCode: http.StatusBadRequest,
			Message:    err.Error(),
		}
	}

	if q.TripType == TripTypeRoundTrip && q.ReturnDate == "" {
		return ErrMissingReturnDate
	}

	return nil
}

// LastSearch is one entry of the recent-searches cache.
type LastSearch struct {
	Departure     string   `json:"departure"`
	Destination   string   `json:"destination"`
	DepartureDate string   `json:"departureDate"`
	ReturnDate    string   `json:"returnDate,omitempty"`
	TripType      TripType `json:"tripType,omitempty"`
}

// Key is the composite identity used to deduplicate recent searches.
func (s LastSearch) Key() string {
	if s.TripType == TripTypeRoundTrip && s.ReturnDate != "" {
		return s.Departure + "-" + s.Destination + "-" + s.DepartureDate + "-" + s.ReturnDate
	}

	return s.Departure + "-" + s.Destination + "-" + s.DepartureDate
}

// FlightDraft is the admin view's flight creation payload.
type FlightDraft struct {
	FlightNumber  string  `json:"flightNumber" validate:"required"`
	Departure     string  `json:"departure" validate:"required,len=3"`
	Destination   string  `json:"destination" validate:"required,len=3"`
	DepartureTime string  `json:"departureTime" validate:"required"`
	ArrivalTime   string  `json:"arrivalTime" validate:"required"`
	BasePrice     float64 `json:"basePrice" validate:"required,gt=0"`
	TotalSeats    int     `json:"totalSeats" validate:"required,gt=0"`
}

func (d FlightDraft) Validate() error {
	if err := ValidateSingleError(d); err != nil {
		return exception.ApplicationError{
			StatusCode: http.StatusBadRequest,
			Message:    err.Error(),
		}
	}

	return nil
}
