//go:build unit

package seatmap

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/skysync/skysync-tui/internal/app/dto"
)

func TestBuild_RowCount(t *testing.T) {
	buildRows := func(seats []dto.Seat, total int, wantRows int) func(t *testing.T) {
		return func(t *testing.T) {
			rows := Build(seats, total)
			if len(rows) != wantRows {
				t.Fatalf("Build() rows = %d, want %d", len(rows), wantRows)
			}
		}
	}

	t.Run("exact_multiple", buildRows(nil, 12, 2))
	t.Run("partial_last_row_rounds_up", buildRows(nil, 13, 3))
	t.Run("zero_total_min_one_row", buildRows(nil, 0, 1))
	t.Run("negative_total_falls_back_to_seat_count", buildRows([]dto.Seat{
		{SeatNumber: "1A"}, {SeatNumber: "1B"}, {SeatNumber: "2A"},
	}, -1, 1))
	t.Run("sparse_seats_do_not_collapse_layout", buildRows([]dto.Seat{
		{SeatNumber: "5C"},
	}, 72, 12))
}

func TestBuild_SlotPlacement(t *testing.T) {
	seats := []dto.Seat{
		{ID: "s1", SeatNumber: "1A"},
		{ID: "s2", SeatNumber: "1C"},
		{ID: "s3", SeatNumber: "1D"},
		{ID: "s4", SeatNumber: "1F"},
	}

	rows := Build(seats, 6)
	if len(rows) != 1 {
		t.Fatalf("Build() rows = %d, want 1", len(rows))
	}

	row := rows[0]

	if row.Left[0] == nil || row.Left[0].SeatNumber != "1A" {
		t.Fatalf("Left[0] = %v, want 1A", row.Left[0])
	}

	if row.Left[1] != nil {
		t.Fatalf("Left[1] = %v, want empty slot", row.Left[1])
	}

	if row.Left[2] == nil || row.Left[2].SeatNumber != "1C" {
		t.Fatalf("Left[2] = %v, want 1C", row.Left[2])
	}

	if row.Right[0] == nil || row.Right[0].SeatNumber != "1D" {
		t.Fatalf("Right[0] = %v, want 1D", row.Right[0])
	}

	if row.Right[1] != nil {
		t.Fatalf("Right[1] = %v, want empty slot", row.Right[1])
	}

	if row.Right[2] == nil || row.Right[2].SeatNumber != "1F" {
		t.Fatalf("Right[2] = %v, want 1F", row.Right[2])
	}
}

func TestBuild_DropsUnparseableSeatNumbers(t *testing.T) {
	seats := []dto.Seat{
		{ID: "good", SeatNumber: "2B"},
		{ID: "bad", SeatNumber: "XX"},
		{ID: "empty", SeatNumber: ""},
	}

	rows := Build(seats, 12)

	placed := 0

	for _, row := range rows {
		for _, seat := range row.Left {
			if seat != nil {
				placed++
			}
		}

		for _, seat := range row.Right {
			if seat != nil {
				placed++
			}
		}
	}

	if placed != 1 {
		t.Fatalf("placed seats = %d, want 1 (malformed numbers dropped)", placed)
	}
}

func TestBuild_OrderIndependent(t *testing.T) {
	seats := []dto.Seat{
		{ID: "s1", SeatNumber: "3A"},
		{ID: "s2", SeatNumber: "3B"},
		{ID: "s3", SeatNumber: "3F"},
	}

	reversed := []dto.Seat{seats[2], seats[1], seats[0]}

	if diff := cmp.Diff(Build(seats, 18), Build(reversed, 18)); diff != "" {
		t.Fatalf("Build() differs under input reordering (-want +got):\n%s", diff)
	}
}

func TestBuild_DuplicateSlotKeepsOne(t *testing.T) {
	seats := []dto.Seat{
		{ID: "first", SeatNumber: "4A"},
		{ID: "second", SeatNumber: "4A"},
	}

	rows := Build(seats, 24)
	row := rows[3]

	if row.Left[0] == nil || row.Left[0].SeatNumber != "4A" {
		t.Fatalf("Left[0] = %v, want a 4A seat", row.Left[0])
	}

	if row.Left[1] != nil || row.Left[2] != nil {
		t.Fatal("duplicate seat number must not spill into other slots")
	}
}

func TestRow_Premium(t *testing.T) {
	if !(Row{Number: 10}).Premium() {
		t.Fatal("row 10 should be premium")
	}

	if (Row{Number: 11}).Premium() {
		t.Fatal("row 11 should not be premium")
	}
}
