package dto

type Seat struct {
	ID         string  `json:"id"`
	SeatNumber string  `json:"seatNumber"`
	IsReserved bool    `json:"isReserved"`
	Price      float64 `json:"price"`
	UserID     string  `json:"userId,omitempty"`
}

// SeatMap is the full cabin state for one flight as served by
// flight/{id}/seats.
type SeatMap struct {
	FlightID            string `json:"flightId"`
	FlightNumber        string `json:"flightNumber"`
	Seats               []Seat `json:"seats"`
	AvailableSeatsCount int    `json:"availableSeatsCount"`
	ReservedSeatsCount  int    `json:"reservedSeatsCount"`
	TotalSeatsCount     int    `json:"totalSeatsCount"`
}

// Seat returns the seat with the given id, if present.
func (m SeatMap) Seat(id string) (Seat, bool) {
	for _, seat := range m.Seats {
		if seat.ID == id {
			return seat, true
		}
	}

	return Seat{}, false
}
