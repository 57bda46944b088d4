package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/skysync/skysync-tui/internal/app/dto"
	"github.com/skysync/skysync-tui/internal/app/service"
	"github.com/skysync/skysync-tui/internal/pkg/seatmap"
)

// checkoutPhase is the page-local progression through the checkout flow.
// The authoritative state machine lives in the checkout service; this
// only decides which form is on screen.
type checkoutPhase int

const (
	phaseSeats checkoutPhase = iota
	phasePassenger
	phasePayment
	phaseDone
)

type checkoutModel struct {
	styles styles

	flight dto.Flight
	rows   []seatmap.Row

	phase     checkoutPhase
	cursorRow int
	cursorCol int

	inputs  []textinput.Model
	focus   int
	pending bool

	results []dto.ReservationResult
	payment dto.PaymentResult

	closeRequested bool
}

func newCheckoutModel(st styles) checkoutModel {
	return checkoutModel{styles: st}
}

func (m *checkoutModel) open(flight dto.Flight, seats dto.SeatMap) {
	m.flight = flight
	m.rows = seatmap.Build(seats.Seats, seats.TotalSeatsCount)
	m.phase = phaseSeats
	m.cursorRow = 0
	m.cursorCol = 0
	m.pending = false
	m.results = nil
	m.payment = dto.PaymentResult{}
}

func (m *checkoutModel) setupInputs(labels []string, mask map[int]bool) {
	m.inputs = make([]textinput.Model, len(labels))
	m.focus = 0

	for i, label := range labels {
		input := textinput.New()
		input.Placeholder = label

		if mask[i] {
			input.EchoMode = textinput.EchoPassword
		}

		if i == 0 {
			input.Focus()
		}

		m.inputs[i] = input
	}
}

func (m checkoutModel) update(message tea.Msg, services Services, keys KeyMap) (checkoutModel, tea.Cmd) {
	switch message := message.(type) {
	case errMsg:
		m.pending = false

		return m, nil

	case reserveDoneMsg:
		m.pending = false
		m.results = message.results
		m.phase = phasePayment
		m.setupInputs([]string{"card number", "expiry (MM/YY)", "CVV", "cardholder name"}, map[int]bool{2: true})

		return m, nil

	case payDoneMsg:
		m.pending = false
		m.payment = message.result
		m.phase = phaseDone

		return m, nil

	case tea.KeyMsg:
		if m.pending {
			return m, nil
		}

		switch m.phase {
		case phaseSeats:
			return m.handleSeatKeys(message, services, keys)
		case phasePassenger, phasePayment:
			return m.handleFormKeys(message, services, keys)
		case phaseDone:
			if key.Matches(message, keys.Back) || key.Matches(message, keys.Submit) {
				m.closeRequested = true
			}
		}
	}

	return m, nil
}

func (m checkoutModel) handleSeatKeys(message tea.KeyMsg, services Services, keys KeyMap) (checkoutModel, tea.Cmd) {
	switch {
	case key.Matches(message, keys.Up):
		if m.cursorRow > 0 {
			m.cursorRow--
		}

	case key.Matches(message, keys.Down):
		if m.cursorRow < len(m.rows)-1 {
			m.cursorRow++
		}

	case key.Matches(message, keys.Left):
		if m.cursorCol > 0 {
			m.cursorCol--
		}

	case key.Matches(message, keys.Right):
		if m.cursorCol < seatmap.SeatsPerRow-1 {
			m.cursorCol++
		}

	case key.Matches(message, keys.ToggleSeat):
		if seat := m.seatAtCursor(); seat != nil {
			services.Checkout.ToggleSeat(seat.ID)
		}

	case key.Matches(message, keys.Submit):
		if len(services.Checkout.SelectedSeats()) > 0 {
			m.phase = phasePassenger
			m.setupInputs([]string{"name", "surname", "email"}, nil)
		}

	case key.Matches(message, keys.Back):
		m.closeRequested = true
	}

	return m, nil
}

func (m checkoutModel) handleFormKeys(message tea.KeyMsg, services Services, keys KeyMap) (checkoutModel, tea.Cmd) {
	switch {
	case key.Matches(message, keys.NextField):
		m.moveFocus(1)

		return m, nil

	case key.Matches(message, keys.PrevField):
		m.moveFocus(-1)

		return m, nil

	case key.Matches(message, keys.Back):
		if m.phase == phasePassenger {
			m.phase = phaseSeats
		}

		return m, nil

	case key.Matches(message, keys.Submit):
		m.pending = true

		if m.phase == phasePassenger {
			return m, services.reserve(dto.PassengerInfo{
				Name:    m.inputs[0].Value(),
				Surname: m.inputs[1].Value(),
				Email:   m.inputs[2].Value(),
			})
		}

		return m, services.pay(dto.CardDetails{
			Number:     m.inputs[0].Value(),
			Expiry:     m.inputs[1].Value(),
			CVV:        m.inputs[2].Value(),
			HolderName: m.inputs[3].Value(),
		})
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(message)

	return m, cmd
}

func (m *checkoutModel) moveFocus(delta int) {
	m.inputs[m.focus].Blur()
	m.focus = (m.focus + delta + len(m.inputs)) % len(m.inputs)
	m.inputs[m.focus].Focus()
}

func (m checkoutModel) seatAtCursor() *dto.Seat {
	if m.cursorRow >= len(m.rows) {
		return nil
	}

	row := m.rows[m.cursorRow]
	if m.cursorCol < len(row.Left) {
		return row.Left[m.cursorCol]
	}

	return row.Right[m.cursorCol-len(row.Left)]
}

func (m checkoutModel) view(checkout *service.CheckoutService) string {
	switch m.phase {
	case phaseSeats:
		return m.seatMapView(checkout)
	case phasePassenger:
		return m.formView("Passenger", checkout)
	case phasePayment:
		return m.formView("Payment", checkout)
	case phaseDone:
		return m.doneView()
	}

	return ""
}

func (m checkoutModel) seatMapView(checkout *service.CheckoutService) string {
	rows := []string{
		m.styles.title.Render("Seat map · " + m.flight.FlightNumber),
		m.styles.faint.Render(fmt.Sprintf("%s → %s  %s", m.flight.Departure, m.flight.Destination, m.flight.DepartureTime)),
		"",
	}

	for rowIndex, row := range m.rows {
		cells := make([]string, 0, seatmap.SeatsPerRow+1)

		for colIndex := 0; colIndex < seatmap.SeatsPerRow; colIndex++ {
			var seat *dto.Seat
			if colIndex < len(row.Left) {
				seat = row.Left[colIndex]
			} else {
				seat = row.Right[colIndex-len(row.Left)]
			}

			cells = append(cells, m.seatCell(checkout, row, seat, rowIndex == m.cursorRow && colIndex == m.cursorCol))

			// Aisle gap between the two seat banks.
			if colIndex == len(row.Left)-1 {
				cells = append(cells, "  ")
			}
		}

		rows = append(rows, strings.Join(cells, " "))
	}

	selected := checkout.SelectedSeats()
	if len(selected) > 0 {
		numbers := make([]string, len(selected))

		total := 0.0
		for i, seat := range selected {
			numbers[i] = seat.SeatNumber
			total += seat.Price
		}

		rows = append(rows, "",
			m.styles.okText.Render(fmt.Sprintf("selected: %s  (%.2f)", strings.Join(numbers, ", "), total)))
	}

	rows = append(rows, "",
		m.styles.help.Render("arrows move · Space toggles (max 3) · Enter continues · Esc closes"))

	return m.styles.box.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m checkoutModel) seatCell(checkout *service.CheckoutService, row seatmap.Row, seat *dto.Seat, underCursor bool) string {
	if seat == nil {
		cell := "    "
		if underCursor {
			return m.styles.selected.Render(cell)
		}

		return m.styles.faint.Render(cell)
	}

	cell := fmt.Sprintf("%-4s", seat.SeatNumber)

	var style lipgloss.Style

	switch {
	case seat.IsReserved:
		style = m.styles.seatReserved
	case checkout.IsSelected(seat.ID):
		style = m.styles.seatSelected
	case row.Premium():
		style = m.styles.seatPremium
	default:
		style = m.styles.seatFree
	}

	if underCursor {
		return m.styles.selected.Render(cell)
	}

	return style.Render(cell)
}

func (m checkoutModel) formView(title string, checkout *service.CheckoutService) string {
	rows := []string{
		m.styles.title.Render(title + " · " + m.flight.FlightNumber),
		m.styles.faint.Render("state: " + checkout.State().String()),
		"",
	}

	for _, input := range m.inputs {
		rows = append(rows, input.View())
	}

	if m.phase == phasePayment {
		rows = append(rows, "", m.styles.faint.Render("reservations:"))

		for _, result := range m.results {
			rows = append(rows, m.styles.label.Render(
				fmt.Sprintf("  %s  %.2f  %s", result.SeatNumber, result.Amount, result.Message)))
		}
	}

	if m.pending {
		rows = append(rows, "", m.styles.faint.Render("working..."))
	}

	rows = append(rows, "", m.styles.help.Render("Enter submits · Tab moves · Esc back"))

	return m.styles.box.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m checkoutModel) doneView() string {
	return m.styles.box.Render(lipgloss.JoinVertical(lipgloss.Left,
		m.styles.title.Render("Booking complete"),
		"",
		m.styles.okText.Render(m.payment.Message),
		m.styles.label.Render("transactions: "+m.payment.TransactionID),
		"",
		m.styles.help.Render("Enter returns to results"),
	))
}
