package tui

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/skysync/skysync-tui/internal/app/dto"
)

// adminForm selects which creation form the admin page shows.
type adminForm int

const (
	formAirport adminForm = iota
	formFlight
)

// adminModel is the airports page: the airport catalogue plus the admin
// creation forms for airports and flights.
type adminModel struct {
	styles styles

	airports []dto.Airport
	form     adminForm
	inputs   []textinput.Model
	focus    int
	pending  bool
}

func newAdminModel(st styles) adminModel {
	m := adminModel{styles: st}
	m.setForm(formAirport)

	return m
}

func (m *adminModel) setForm(form adminForm) {
	m.form = form
	m.focus = 0

	var labels []string

	switch form {
	case formAirport:
		labels = []string{"code", "name", "city", "country"}
	case formFlight:
		labels = []string{"flight number", "from", "to", "departs (RFC3339)", "arrives (RFC3339)", "base price", "total seats"}
	}

	m.inputs = make([]textinput.Model, len(labels))

	for i, label := range labels {
		input := textinput.New()
		input.Placeholder = label

		if i == 0 {
			input.Focus()
		}

		m.inputs[i] = input
	}
}

func (m adminModel) update(message tea.Msg, services Services, keys KeyMap) (adminModel, tea.Cmd) {
	switch message := message.(type) {
	case errMsg:
		m.pending = false

		return m, nil

	case airportsDoneMsg:
		m.pending = false
		m.airports = message.airports

		return m, nil

	case airportCreatedMsg, flightCreatedMsg:
		m.pending = false
		m.setForm(m.form)

		// Refresh the catalogue so the new entry shows up.
		return m, services.fetchAirports()

	case tea.KeyMsg:
		if m.pending {
			return m, nil
		}

		switch {
		case key.Matches(message, keys.NextField):
			m.moveFocus(1)

			return m, nil

		case key.Matches(message, keys.PrevField):
			m.moveFocus(-1)

			return m, nil

		case key.Matches(message, keys.Submit):
			return m.submit(services)
		}

		if message.String() == "ctrl+t" {
			if m.form == formAirport {
				m.setForm(formFlight)
			} else {
				m.setForm(formAirport)
			}

			return m, nil
		}

		var cmd tea.Cmd
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(message)

		return m, cmd
	}

	return m, nil
}

func (m *adminModel) moveFocus(delta int) {
	m.inputs[m.focus].Blur()
	m.focus = (m.focus + delta + len(m.inputs)) % len(m.inputs)
	m.inputs[m.focus].Focus()
}

func (m adminModel) submit(services Services) (adminModel, tea.Cmd) {
	m.pending = true

	if m.form == formAirport {
		return m, services.createAirport(dto.AirportDraft{
			Code:    m.inputs[0].Value(),
			Name:    m.inputs[1].Value(),
			City:    m.inputs[2].Value(),
			Country: m.inputs[3].Value(),
		})
	}

	price, _ := strconv.ParseFloat(m.inputs[5].Value(), 64)
	seats, _ := strconv.Atoi(m.inputs[6].Value())

	return m, services.createFlight(dto.FlightDraft{
		FlightNumber:  m.inputs[0].Value(),
		Departure:     m.inputs[1].Value(),
		Destination:   m.inputs[2].Value(),
		DepartureTime: m.inputs[3].Value(),
		ArrivalTime:   m.inputs[4].Value(),
		BasePrice:     price,
		TotalSeats:    seats,
	})
}

func (m adminModel) view() string {
	rows := []string{m.styles.title.Render("Airports"), ""}

	if m.pending {
		rows = append(rows, m.styles.faint.Render("working..."))
	}

	for _, airport := range m.airports {
		rows = append(rows, m.styles.label.Render(
			fmt.Sprintf("%-4s %s, %s (%s)", airport.Code, airport.Name, airport.City, airport.Country)))
	}

	formTitle := "New airport"
	if m.form == formFlight {
		formTitle = "New flight"
	}

	rows = append(rows, "", m.styles.title.Render(formTitle))

	for _, input := range m.inputs {
		rows = append(rows, input.View())
	}

	rows = append(rows, "", m.styles.help.Render("Enter submits · Tab moves · C-t switches form"))

	return m.styles.box.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
