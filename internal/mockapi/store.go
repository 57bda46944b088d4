package mockapi

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/skysync/skysync-tui/internal/app/dto"
)

const seatsPerRow = 6

type userRecord struct {
	dto.AuthUser
	password string
	verified bool
}

type reservationRecord struct {
	dto.Reservation
	CorrelationID string
	FlightID      string
	Paid          bool
	TransactionID string
}

// Store is the seeded in-memory dataset behind the development server. One
// mutex guards everything; the server exists to exercise the terminal
// client, not to scale.
type Store struct {
	mu           sync.Mutex
	flights      []dto.Flight
	seats        map[string][]dto.Seat
	airports     []dto.Airport
	users        map[string]*userRecord
	tokens       map[string]string
	resetTokens  map[string]string
	verifyTokens map[string]string
	reservations []*reservationRecord
}

func NewStore() *Store {
	s := &Store{
		seats:        make(map[string][]dto.Seat),
		users:        make(map[string]*userRecord),
		tokens:       make(map[string]string),
		resetTokens:  make(map[string]string),
		verifyTokens: make(map[string]string),
	}

	s.seed()

	return s
}

func (s *Store) seed() {
	s.airports = []dto.Airport{
		{ID: uuid.NewString(), Code: "IST", Name: "Istanbul Airport", City: "Istanbul", Country: "Turkey"},
		{ID: uuid.NewString(), Code: "SAW", Name: "Sabiha Gokcen Airport", City: "Istanbul", Country: "Turkey"},
		{ID: uuid.NewString(), Code: "AMS", Name: "Amsterdam Schiphol", City: "Amsterdam", Country: "Netherlands"},
		{ID: uuid.NewString(), Code: "LHR", Name: "London Heathrow", City: "London", Country: "United Kingdom"},
		{ID: uuid.NewString(), Code: "CDG", Name: "Charles de Gaulle", City: "Paris", Country: "France"},
		{ID: uuid.NewString(), Code: "JFK", Name: "John F. Kennedy International", City: "New York", Country: "United States"},
	}

	s.addFlightLocked(dto.Flight{
		FlightNumber:  "SS101",
		Departure:     "IST",
		Destination:   "AMS",
		DepartureTime: "2025-06-01T08:30:00Z",
		ArrivalTime:   "2025-06-01T11:45:00Z",
		BasePrice:     149.90,
		TotalSeats:    72,
	})
	s.addFlightLocked(dto.Flight{
		FlightNumber:  "SS103",
		Departure:     "IST",
		Destination:   "AMS",
		DepartureTime: "2025-06-01T17:10:00Z",
		ArrivalTime:   "2025-06-01T20:25:00Z",
		BasePrice:     129.50,
		TotalSeats:    72,
	})
	s.addFlightLocked(dto.Flight{
		FlightNumber:  "SS104",
		Departure:     "AMS",
		Destination:   "IST",
		DepartureTime: "2025-06-08T09:15:00Z",
		ArrivalTime:   "2025-06-08T14:20:00Z",
		BasePrice:     139.00,
		TotalSeats:    72,
	})
	s.addFlightLocked(dto.Flight{
		FlightNumber:  "SS201",
		Departure:     "IST",
		Destination:   "LHR",
		DepartureTime: "2025-06-01T10:00:00Z",
		ArrivalTime:   "2025-06-01T12:05:00Z",
		BasePrice:     179.00,
		TotalSeats:    48,
	})

	s.users["demo@skysync.dev"] = &userRecord{
		AuthUser: dto.AuthUser{
			ID:        uuid.NewString(),
			Email:     "demo@skysync.dev",
			FirstName: "Demo",
			LastName:  "Passenger",
			Role:      "user",
		},
		password: "password",
		verified: true,
	}
	s.users["admin@skysync.dev"] = &userRecord{
		AuthUser: dto.AuthUser{
			ID:        uuid.NewString(),
			Email:     "admin@skysync.dev",
			FirstName: "Ada",
			LastName:  "Admin",
			Role:      "admin",
		},
		password: "password",
		verified: true,
	}
}

// addFlightLocked registers a flight and generates its cabin. A few seats
// start out reserved so the seat map renders realistically.
func (s *Store) addFlightLocked(flight dto.Flight) dto.Flight {
	flight.ID = uuid.NewString()
	flight.Status = "scheduled"

	letters := []string{"A", "B", "C", "D", "E", "F"}
	rows := flight.TotalSeats / seatsPerRow
	seats := make([]dto.Seat, 0, flight.TotalSeats)

	for row := 1; row <= rows; row++ {
		for i, letter := range letters {
			price := flight.BasePrice
			if row <= 2 {
				price *= 1.5
			}

			// Scatter a few pre-reserved seats across the cabin.
			reserved := ((row-1)*seatsPerRow+i)%11 == 0

			seats = append(seats, dto.Seat{
				ID:         fmt.Sprintf("%s-%d%s", flight.ID, row, letter),
				SeatNumber: fmt.Sprintf("%d%s", row, letter),
				IsReserved: reserved,
				Price:      price,
			})
		}
	}

	s.seats[flight.ID] = seats
	flight.AvailableSeats = countAvailable(seats)
	s.flights = append(s.flights, flight)

	return flight
}

func countAvailable(seats []dto.Seat) int {
	n := 0

	for _, seat := range seats {
		if !seat.IsReserved {
			n++
		}
	}

	return n
}

func (s *Store) SearchFlights(departure, destination, date string, page, pageSize int) []dto.Flight {
	s.mu.Lock()
	defer s.mu.Unlock()

	matches := make([]dto.Flight, 0)

	for _, flight := range s.flights {
		if departure != "" && !strings.EqualFold(flight.Departure, departure) {
			continue
		}

		if destination != "" && !strings.EqualFold(flight.Destination, destination) {
			continue
		}

		if date != "" && !strings.HasPrefix(flight.DepartureTime, date) {
			continue
		}

		flight.AvailableSeats = countAvailable(s.seats[flight.ID])
		matches = append(matches, flight)
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].DepartureTime < matches[j].DepartureTime
	})

	if page < 1 {
		page = 1
	}

	if pageSize < 1 {
		pageSize = 20
	}

	start := (page - 1) * pageSize
	if start >= len(matches) {
		return []dto.Flight{}
	}

	end := start + pageSize
	if end > len(matches) {
		end = len(matches)
	}

	return matches[start:end]
}

func (s *Store) Flight(id string) (dto.Flight, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, flight := range s.flights {
		if flight.ID == id {
			flight.AvailableSeats = countAvailable(s.seats[id])

			return flight, true
		}
	}

	return dto.Flight{}, false
}

func (s *Store) Seats(flightID string) ([]dto.Seat, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	seats, ok := s.seats[flightID]
	if !ok {
		return nil, false
	}

	out := make([]dto.Seat, len(seats))
	copy(out, seats)

	return out, true
}

func (s *Store) AddFlight(draft dto.FlightDraft) dto.Flight {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.addFlightLocked(dto.Flight{
		FlightNumber:  draft.FlightNumber,
		Departure:     strings.ToUpper(draft.Departure),
		Destination:   strings.ToUpper(draft.Destination),
		DepartureTime: draft.DepartureTime,
		ArrivalTime:   draft.ArrivalTime,
		BasePrice:     draft.BasePrice,
		TotalSeats:    draft.TotalSeats,
	})
}

func (s *Store) Airports() []dto.Airport {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]dto.Airport, len(s.airports))
	copy(out, s.airports)

	return out
}

func (s *Store) AddAirport(draft dto.AirportDraft) (dto.Airport, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, airport := range s.airports {
		if strings.EqualFold(airport.Code, draft.Code) {
			return dto.Airport{}, false
		}
	}

	airport := dto.Airport{
		ID:      uuid.NewString(),
		Code:    strings.ToUpper(draft.Code),
		Name:    draft.Name,
		City:    draft.City,
		Country: draft.Country,
	}

	s.airports = append(s.airports, airport)

	return airport, true
}

// ReserveSeat marks a seat reserved and records the reservation. It fails
// when the flight or seat is unknown or the seat is already taken.
func (s *Store) ReserveSeat(req dto.ReservationRequest, userID string) (*reservationRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var flightNumber string

	for _, flight := range s.flights {
		if flight.ID == req.FlightID {
			flightNumber = flight.FlightNumber

			break
		}
	}

	if flightNumber == "" {
		return nil, errFlightNotFound
	}

	seats := s.seats[req.FlightID]

	for i, seat := range seats {
		if seat.SeatNumber != req.SeatNumber {
			continue
		}

		if seat.IsReserved {
			return nil, errSeatTaken
		}

		seats[i].IsReserved = true
		seats[i].UserID = userID

		record := &reservationRecord{
			Reservation: dto.Reservation{
				ID:             uuid.NewString(),
				FlightNumber:   flightNumber,
				SeatNumber:     seat.SeatNumber,
				Status:         "pending",
				Price:          seat.Price,
				PassengerEmail: req.PassengerEmail,
				CreatedAt:      time.Now().UTC().Format(time.RFC3339),
			},
			CorrelationID: uuid.NewString(),
			FlightID:      req.FlightID,
		}

		s.reservations = append(s.reservations, record)

		return record, nil
	}

	return nil, errSeatNotFound
}

// CancelReservation releases the seat and drops the record.
func (s *Store) CancelReservation(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, record := range s.reservations {
		if record.Reservation.ID != id {
			continue
		}

		seats := s.seats[record.FlightID]
		for j, seat := range seats {
			if seat.SeatNumber == record.SeatNumber {
				seats[j].IsReserved = false
				seats[j].UserID = ""
			}
		}

		s.reservations = append(s.reservations[:i], s.reservations[i+1:]...)

		return true
	}

	return false
}

// Pay settles a pending reservation. The correlation id must match the one
// issued at reservation time.
func (s *Store) Pay(correlationID, reservationID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, record := range s.reservations {
		if record.Reservation.ID != reservationID {
			continue
		}

		if record.CorrelationID != correlationID {
			return "", errCorrelationMismatch
		}

		if record.Paid {
			return "", errAlreadyPaid
		}

		record.Paid = true
		record.Status = "confirmed"
		record.TransactionID = uuid.NewString()

		return record.TransactionID, nil
	}

	return "", errReservationNotFound
}

func (s *Store) ReservationsByEmail(email string, page, pageSize int) []dto.Reservation {
	s.mu.Lock()
	defer s.mu.Unlock()

	matches := make([]dto.Reservation, 0)

	for _, record := range s.reservations {
		if strings.EqualFold(record.PassengerEmail, email) {
			matches = append(matches, record.Reservation)
		}
	}

	if page < 1 {
		page = 1
	}

	if pageSize < 1 {
		pageSize = 20
	}

	start := (page - 1) * pageSize
	if start >= len(matches) {
		return []dto.Reservation{}
	}

	end := start + pageSize
	if end > len(matches) {
		end = len(matches)
	}

	return matches[start:end]
}

func (s *Store) UserByCredentials(email, password string) (dto.AuthUser, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.users[strings.ToLower(email)]
	if !ok || record.password != password || !record.verified {
		return dto.AuthUser{}, false
	}

	return record.AuthUser, true
}

// CreateUser registers an unverified account and returns the user id plus
// the verification token the real backend would have emailed.
func (s *Store) CreateUser(reg dto.Registration) (string, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	email := strings.ToLower(reg.Email)
	if _, exists := s.users[email]; exists {
		return "", "", errEmailTaken
	}

	user := &userRecord{
		AuthUser: dto.AuthUser{
			ID:        uuid.NewString(),
			Email:     email,
			FirstName: reg.FirstName,
			LastName:  reg.LastName,
			Role:      "user",
		},
		password: reg.Password,
	}

	s.users[email] = user

	verifyToken := uuid.NewString()
	s.verifyTokens[verifyToken] = email

	return user.ID, verifyToken, nil
}

func (s *Store) VerifyEmail(token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	email, ok := s.verifyTokens[token]
	if !ok {
		return false
	}

	delete(s.verifyTokens, token)

	if user, exists := s.users[email]; exists {
		user.verified = true

		return true
	}

	return false
}

// IssueResetToken returns ok even for unknown addresses so the endpoint
// does not leak which accounts exist.
func (s *Store) IssueResetToken(email string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[strings.ToLower(email)]; !ok {
		return ""
	}

	token := uuid.NewString()
	s.resetTokens[token] = strings.ToLower(email)

	return token
}

func (s *Store) ResetPassword(token, newPassword string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	email, ok := s.resetTokens[token]
	if !ok {
		return false
	}

	delete(s.resetTokens, token)

	if user, exists := s.users[email]; exists {
		user.password = newPassword

		return true
	}

	return false
}

func (s *Store) IssueToken(userID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	token := uuid.NewString()
	s.tokens[token] = userID

	return token
}

func (s *Store) TokenValid(token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.tokens[token]

	return ok
}

func (s *Store) UserIDByToken(token string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.tokens[token]

	return id, ok
}
