package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/skysync/skysync-tui/internal/app/config"
	"github.com/skysync/skysync-tui/internal/app/dto"
	"github.com/skysync/skysync-tui/internal/pkg/apiclient"
	"github.com/skysync/skysync-tui/internal/pkg/exception"
)

// SearchResults holds one completed search. Return is populated only for
// round trips.
type SearchResults struct {
	Query    dto.SearchQuery
	Outbound []dto.Flight
	Return   []dto.Flight
}

// FlightService covers the read-mostly API surface: flight search, seat
// maps, airports and the reservations listing.
type FlightService struct {
	api                *apiclient.Client
	pageSize           int
	suggestionPageSize int
}

func NewFlightService(api *apiclient.Client, cfg config.Search) *FlightService {
	return &FlightService{
		api:                api,
		pageSize:           cfg.PageSize,
		suggestionPageSize: cfg.SuggestionPageSize,
	}
}

// Search validates and runs one search. A round trip missing its return
// date fails before any request is issued; otherwise the outbound leg is
// fetched first and the return leg (route reversed) afterwards.
func (s *FlightService) Search(ctx context.Context, query dto.SearchQuery) (SearchResults, error) {
	query = query.Normalized()
	if err := query.Validate(); err != nil {
		return SearchResults{}, err
	}

	outbound, err := s.fetchFlights(ctx, query.Departure, query.Destination, query.DepartureDate, query.Page)
	if err != nil {
		return SearchResults{}, err
	}

	results := SearchResults{Query: query, Outbound: outbound}

	if query.TripType == dto.TripTypeRoundTrip {
		returnLeg, err := s.fetchFlights(ctx, query.Destination, query.Departure, query.ReturnDate, 1)
		if err != nil {
			return SearchResults{}, err
		}

		results.Return = returnLeg
	}

	return results, nil
}

func (s *FlightService) fetchFlights(ctx context.Context, departure, destination, date string, page int) ([]dto.Flight, error) {
	params := url.Values{}
	params.Set("departure", departure)
	params.Set("destination", destination)
	params.Set("departureDate", date)
	params.Set("page", strconv.Itoa(page))
	params.Set("pageSize", strconv.Itoa(s.pageSize))

	resp, err := s.api.Get(ctx, "flight?"+params.Encode())
	if err != nil {
		if errors.Is(err, apiclient.ErrSessionExpired) {
			return nil, err
		}

		return nil, unexpected(err)
	}

	if !resp.OK() {
		return nil, exception.ApplicationError{
			Message:    apiclient.Message(resp.Body, "failed to fetch flights"),
			StatusCode: resp.StatusCode,
		}
	}

	flights, err := dto.ParseFlights(resp.Body)
	if err != nil {
		slog.WarnContext(ctx, "flight list response had unexpected shape", slog.String("error", err.Error()))

		return nil, ErrUnexpectedResponse
	}

	return flights, nil
}

// Seats fetches the seat map for a flight. A 2xx with an empty body means
// the backend has no seat data for the flight.
func (s *FlightService) Seats(ctx context.Context, flightID string) (dto.SeatMap, error) {
	resp, err := s.api.Get(ctx, "flight/"+url.PathEscape(flightID)+"/seats")
	if err != nil {
		if errors.Is(err, apiclient.ErrSessionExpired) {
			return dto.SeatMap{}, err
		}

		return dto.SeatMap{}, unexpected(err)
	}

	if !resp.OK() {
		return dto.SeatMap{}, exception.ApplicationError{
			Message:    apiclient.Message(resp.Body, "failed to fetch seats"),
			StatusCode: resp.StatusCode,
		}
	}

	if len(resp.Body) == 0 {
		return dto.SeatMap{}, ErrNoSeatData
	}

	seatMap, err := dto.ParseSeatMap(resp.Body)
	if err != nil {
		return dto.SeatMap{}, ErrUnexpectedResponse
	}

	return seatMap, nil
}

// SuggestAirports powers the autocomplete. Each invocation carries its own
// context; the caller cancels the previous one when new input supersedes
// it, so stale suggestions never land. Failures degrade to an empty list,
// suggestions are never worth an error banner.
func (s *FlightService) SuggestAirports(ctx context.Context, query string) ([]dto.Airport, error) {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return nil, nil
	}

	params := url.Values{}
	params.Set("page", "1")
	params.Set("pageSize", strconv.Itoa(s.suggestionPageSize))
	params.Set("search", trimmed)
	params.Set("query", trimmed)

	resp, err := s.api.Get(ctx, "airport?"+params.Encode())
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled) {
			return nil, context.Canceled
		}

		if errors.Is(err, apiclient.ErrSessionExpired) {
			return nil, err
		}

		slog.WarnContext(ctx, "airport suggestion request failed", slog.String("error", err.Error()))

		return nil, nil
	}

	if !resp.OK() {
		return nil, nil
	}

	airports, err := dto.ParseAirports(resp.Body)
	if err != nil {
		return nil, nil
	}

	matched := make([]dto.Airport, 0, s.suggestionPageSize)
	for _, airport := range airports {
		if airport.Matches(trimmed) {
			matched = append(matched, airport)
			if len(matched) == s.suggestionPageSize {
				break
			}
		}
	}

	return matched, nil
}

// Airports lists every airport (admin view).
func (s *FlightService) Airports(ctx context.Context) ([]dto.Airport, error) {
	resp, err := s.api.Get(ctx, "airport")
	if err != nil {
		if errors.Is(err, apiclient.ErrSessionExpired) {
			return nil, err
		}

		return nil, unexpected(err)
	}

	if !resp.OK() {
		return nil, exception.ApplicationError{
			Message:    apiclient.Message(resp.Body, "failed to fetch airports"),
			StatusCode: resp.StatusCode,
		}
	}

	airports, err := dto.ParseAirports(resp.Body)
	if err != nil {
		return nil, ErrUnexpectedResponse
	}

	return airports, nil
}

// CreateAirport registers a new airport (admin view) and returns the
// server's message.
func (s *FlightService) CreateAirport(ctx context.Context, draft dto.AirportDraft) (string, error) {
	draft = draft.Normalized()
	if err := draft.Validate(); err != nil {
		return "", err
	}

	resp, err := s.api.Post(ctx, "airport", draft)
	if err != nil {
		if errors.Is(err, apiclient.ErrSessionExpired) {
			return "", err
		}

		return "", unexpected(err)
	}

	if !resp.OK() {
		return "", exception.ApplicationError{
			Message:    apiclient.Message(resp.Body, "failed to create airport"),
			StatusCode: resp.StatusCode,
		}
	}

	if _, message := dto.ParseCreated(resp.Body, "airportId", "AirportId", "id", "Id"); message != "" {
		return message, nil
	}

	return fmt.Sprintf("airport %s created", draft.Code), nil
}

// CreateFlight registers a new flight (admin view).
func (s *FlightService) CreateFlight(ctx context.Context, draft dto.FlightDraft) (string, error) {
	if err := draft.Validate(); err != nil {
		return "", err
	}

	resp, err := s.api.Post(ctx, "flight", draft)
	if err != nil {
		if errors.Is(err, apiclient.ErrSessionExpired) {
			return "", err
		}

		return "", unexpected(err)
	}

	if !resp.OK() {
		return "", exception.ApplicationError{
			Message:    apiclient.Message(resp.Body, "failed to create flight"),
			StatusCode: resp.StatusCode,
		}
	}

	if _, message := dto.ParseCreated(resp.Body, "flightId", "FlightId", "id", "Id"); message != "" {
		return message, nil
	}

	return fmt.Sprintf("flight %s created", draft.FlightNumber), nil
}

// PassengerReservations lists the reservations made for a passenger email.
func (s *FlightService) PassengerReservations(ctx context.Context, email string, page int) ([]dto.Reservation, error) {
	if page < 1 {
		page = 1
	}

	path := fmt.Sprintf("reservation/passenger/%s?page=%d", url.PathEscape(email), page)

	resp, err := s.api.Get(ctx, path)
	if err != nil {
		if errors.Is(err, apiclient.ErrSessionExpired) {
			return nil, err
		}

		return nil, unexpected(err)
	}

	if !resp.OK() {
		return nil, exception.ApplicationError{
			Message:    apiclient.Message(resp.Body, "failed to fetch reservations"),
			StatusCode: resp.StatusCode,
		}
	}

	reservations, err := dto.ParseReservations(resp.Body)
	if err != nil {
		return nil, ErrUnexpectedResponse
	}

	return reservations, nil
}

var iataCodePattern = regexp.MustCompile(`^[A-Z]{3}$`)

// ResolveAirportCode maps free-text input to an IATA code: a 3-letter code
// passes through, an exact code/name/city match wins, a unique substring
// match wins, anything else is returned uppercased for the server to judge.
func ResolveAirportCode(input string, options []dto.Airport) string {
	value := strings.TrimSpace(input)
	if value == "" {
		return ""
	}

	upper := strings.ToUpper(value)
	if iataCodePattern.MatchString(upper) {
		return upper
	}

	for _, airport := range options {
		if strings.EqualFold(airport.Code, value) ||
			strings.EqualFold(airport.Name, value) ||
			strings.EqualFold(airport.City, value) {
			return strings.ToUpper(airport.Code)
		}
	}

	var matched []dto.Airport
	for _, airport := range options {
		if airport.Matches(value) {
			matched = append(matched, airport)
		}
	}

	if len(matched) == 1 {
		return strings.ToUpper(matched[0].Code)
	}

	return upper
}
