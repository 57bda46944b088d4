package tui

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/skysync/skysync-tui/internal/app/dto"
	"github.com/skysync/skysync-tui/internal/app/service"
	"github.com/skysync/skysync-tui/internal/pkg/apiclient"
	"github.com/skysync/skysync-tui/internal/pkg/lastsearch"
)

// Services bundles everything the TUI drives. The views are thin
// renderers; all behavior lives behind these.
type Services struct {
	Auth         *service.AuthService
	Flights      *service.FlightService
	Checkout     *service.CheckoutService
	LastSearches *lastsearch.Cache

	SuggestionDebounce time.Duration
}

// errMsg carries a failed operation's error to the status bar. When the
// error is the expired-session sentinel the root model routes to login
// instead of displaying it.
type errMsg struct {
	err error
}

type statusFadeMsg struct{}

type loginDoneMsg struct {
	user dto.AuthUser
}

type registerDoneMsg struct {
	message  string
	signedIn bool
}

type authMessageMsg struct {
	message string
}

type searchDoneMsg struct {
	results service.SearchResults
	recent  []dto.LastSearch
}

type seatMapDoneMsg struct {
	flight  dto.Flight
	seatMap dto.SeatMap
}

// suggestionsMsg delivers autocomplete results. seq ties the reply to the
// debounce cycle that issued it; stale replies are dropped.
type suggestionsMsg struct {
	field    int
	seq      int
	airports []dto.Airport
}

// debounceElapsedMsg fires when the autocomplete debounce timer for a
// given cycle expires.
type debounceElapsedMsg struct {
	field int
	seq   int
}

type airportsDoneMsg struct {
	airports []dto.Airport
}

type airportCreatedMsg struct {
	message string
}

type flightCreatedMsg struct {
	message string
}

type reservationsDoneMsg struct {
	rows []dto.Reservation
}

type reserveDoneMsg struct {
	results []dto.ReservationResult
}

type payDoneMsg struct {
	result dto.PaymentResult
}

const statusFadeDelay = 4 * time.Second

func fadeStatus() tea.Cmd {
	return tea.Tick(statusFadeDelay, func(time.Time) tea.Msg {
		return statusFadeMsg{}
	})
}

func (s Services) login(creds dto.Credentials) tea.Cmd {
	return func() tea.Msg {
		auth, err := s.Auth.Login(context.Background(), creds)
		if err != nil {
			return errMsg{err: err}
		}

		return loginDoneMsg{user: auth.User}
	}
}

func (s Services) register(reg dto.Registration) tea.Cmd {
	return func() tea.Msg {
		resp, err := s.Auth.Register(context.Background(), reg)
		if err != nil {
			return errMsg{err: err}
		}

		return registerDoneMsg{
			message:  resp.Message,
			signedIn: resp.Auth != nil,
		}
	}
}

func (s Services) forgotPassword(email string) tea.Cmd {
	return func() tea.Msg {
		message, err := s.Auth.ForgotPassword(context.Background(), email)
		if err != nil {
			return errMsg{err: err}
		}

		return authMessageMsg{message: message}
	}
}

func (s Services) resetPassword(token, newPassword string) tea.Cmd {
	return func() tea.Msg {
		message, err := s.Auth.ResetPassword(context.Background(), token, newPassword)
		if err != nil {
			return errMsg{err: err}
		}

		return authMessageMsg{message: message}
	}
}

func (s Services) verifyEmail(token string) tea.Cmd {
	return func() tea.Msg {
		message, err := s.Auth.VerifyEmail(context.Background(), token)
		if err != nil {
			return errMsg{err: err}
		}

		return authMessageMsg{message: message}
	}
}

func (s Services) search(query dto.SearchQuery) tea.Cmd {
	return func() tea.Msg {
		results, err := s.Flights.Search(context.Background(), query)
		if err != nil {
			return errMsg{err: err}
		}

		normalized := query.Normalized()
		recent := s.LastSearches.Record(dto.LastSearch{
			Departure:     normalized.Departure,
			Destination:   normalized.Destination,
			DepartureDate: normalized.DepartureDate,
			ReturnDate:    normalized.ReturnDate,
			TripType:      normalized.TripType,
		})

		return searchDoneMsg{results: results, recent: recent}
	}
}

func (s Services) fetchSeats(flight dto.Flight) tea.Cmd {
	return func() tea.Msg {
		seatMap, err := s.Flights.Seats(context.Background(), flight.ID)
		if err != nil {
			return errMsg{err: err}
		}

		return seatMapDoneMsg{flight: flight, seatMap: seatMap}
	}
}

// debounce schedules the autocomplete timer for one input cycle.
func (s Services) debounce(field, seq int) tea.Cmd {
	return tea.Tick(s.SuggestionDebounce, func(time.Time) tea.Msg {
		return debounceElapsedMsg{field: field, seq: seq}
	})
}

// suggest issues one abortable autocomplete fetch. A canceled fetch
// resolves to nil suggestions, which the view drops by sequence anyway.
func (s Services) suggest(ctx context.Context, field, seq int, query string) tea.Cmd {
	return func() tea.Msg {
		airports, err := s.Flights.SuggestAirports(ctx, query)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}

			return errMsg{err: err}
		}

		return suggestionsMsg{field: field, seq: seq, airports: airports}
	}
}

func (s Services) fetchAirports() tea.Cmd {
	return func() tea.Msg {
		airports, err := s.Flights.Airports(context.Background())
		if err != nil {
			return errMsg{err: err}
		}

		return airportsDoneMsg{airports: airports}
	}
}

func (s Services) createAirport(draft dto.AirportDraft) tea.Cmd {
	return func() tea.Msg {
		message, err := s.Flights.CreateAirport(context.Background(), draft)
		if err != nil {
			return errMsg{err: err}
		}

		return airportCreatedMsg{message: message}
	}
}

func (s Services) createFlight(draft dto.FlightDraft) tea.Cmd {
	return func() tea.Msg {
		message, err := s.Flights.CreateFlight(context.Background(), draft)
		if err != nil {
			return errMsg{err: err}
		}

		return flightCreatedMsg{message: message}
	}
}

func (s Services) fetchReservations(email string, page int) tea.Cmd {
	return func() tea.Msg {
		rows, err := s.Flights.PassengerReservations(context.Background(), email, page)
		if err != nil {
			return errMsg{err: err}
		}

		return reservationsDoneMsg{rows: rows}
	}
}

func (s Services) reserve(passenger dto.PassengerInfo) tea.Cmd {
	return func() tea.Msg {
		results, err := s.Checkout.Reserve(context.Background(), passenger)
		if err != nil {
			return errMsg{err: err}
		}

		return reserveDoneMsg{results: results}
	}
}

func (s Services) pay(card dto.CardDetails) tea.Cmd {
	return func() tea.Msg {
		result, err := s.Checkout.Pay(context.Background(), card)
		if err != nil {
			return errMsg{err: err}
		}

		return payDoneMsg{result: result}
	}
}

func sessionExpired(err error) bool {
	return errors.Is(err, apiclient.ErrSessionExpired)
}
