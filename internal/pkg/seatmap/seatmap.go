// Package seatmap derives the cabin grid from a flat seat list. It is a
// pure layout computation: rebuilt wholesale whenever the seat list
// changes, never patched incrementally.
package seatmap

import (
	"sort"
	"strconv"

	"github.com/skysync/skysync-tui/internal/app/dto"
)

const (
	// SeatsPerRow is a fixed 3-3 single-aisle cabin.
	SeatsPerRow = 6

	// premiumRowMax is the last premium row; everything after is economy.
	// Presentation-only, the backend knows nothing about tiers.
	premiumRowMax = 10
)

var (
	leftLetters  = [3]byte{'A', 'B', 'C'}
	rightLetters = [3]byte{'D', 'E', 'F'}
)

// Row is one rendered cabin row. Left and Right are the seat clusters on
// either side of the aisle; nil entries are empty slots, kept so all six
// column positions always render.
type Row struct {
	Number int
	Left   [3]*dto.Seat
	Right  [3]*dto.Seat
}

// Premium reports the presentation tier of the row.
func (r Row) Premium() bool {
	return r.Number <= premiumRowMax
}

// Build groups seats into rows by the integer prefix of their seat number
// and places each seat in its lettered slot (A-C left, D-F right). Seats
// whose number has no parseable integer prefix are silently dropped from
// the grid; that is the accepted behavior for malformed server data, not a
// gap to fill here. The row count is always derived from totalSeatsCount
// (falling back to the seat list length) so sparse or partial seat arrays
// cannot collapse the layout: max(1, ceil(total/6)) rows.
func Build(seats []dto.Seat, totalSeatsCount int) []Row {
	grouped := make(map[int][]dto.Seat)

	for _, seat := range seats {
		rowNumber, ok := rowPrefix(seat.SeatNumber)
		if !ok {
			continue
		}

		grouped[rowNumber] = append(grouped[rowNumber], seat)
	}

	total := totalSeatsCount
	if total <= 0 {
		total = len(seats)
	}

	rowCount := (total + SeatsPerRow - 1) / SeatsPerRow
	if rowCount < 1 {
		rowCount = 1
	}

	rows := make([]Row, 0, rowCount)

	for number := 1; number <= rowCount; number++ {
		row := Row{Number: number}

		rowSeats := grouped[number]
		sort.Slice(rowSeats, func(i, j int) bool {
			return rowSeats[i].SeatNumber < rowSeats[j].SeatNumber
		})

		for _, seat := range rowSeats {
			letter := seat.SeatNumber[len(seat.SeatNumber)-1]

			if slot, ok := letterSlot(leftLetters, letter); ok && row.Left[slot] == nil {
				placed := seat
				row.Left[slot] = &placed
			} else if slot, ok := letterSlot(rightLetters, letter); ok && row.Right[slot] == nil {
				placed := seat
				row.Right[slot] = &placed
			}
		}

		rows = append(rows, row)
	}

	return rows
}

// rowPrefix parses the leading decimal digits of a seat number.
func rowPrefix(seatNumber string) (int, bool) {
	end := 0
	for end < len(seatNumber) && seatNumber[end] >= '0' && seatNumber[end] <= '9' {
		end++
	}

	if end == 0 {
		return 0, false
	}

	row, err := strconv.Atoi(seatNumber[:end])
	if err != nil {
		return 0, false
	}

	return row, true
}

func letterSlot(letters [3]byte, letter byte) (int, bool) {
	for i, l := range letters {
		if l == letter {
			return i, true
		}
	}

	return 0, false
}
