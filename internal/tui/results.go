package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/skysync/skysync-tui/internal/app/dto"
	"github.com/skysync/skysync-tui/internal/app/service"
)

// resultsModel lists the outbound (and return) flights of the last search.
type resultsModel struct {
	styles styles

	query    dto.SearchQuery
	outbound []dto.Flight
	returns  []dto.Flight

	cursor        int
	pending       bool
	backRequested bool
}

func newResultsModel(st styles) resultsModel {
	return resultsModel{styles: st}
}

func (m *resultsModel) setResults(results service.SearchResults) {
	m.query = results.Query
	m.outbound = results.Outbound
	m.returns = results.Return
	m.cursor = 0
	m.pending = false
}

// flights is the flat navigation order: outbound leg first, then return.
func (m resultsModel) flights() []dto.Flight {
	return append(append([]dto.Flight{}, m.outbound...), m.returns...)
}

func (m resultsModel) update(message tea.Msg, services Services, keys KeyMap) (resultsModel, tea.Cmd) {
	switch message := message.(type) {
	case errMsg:
		m.pending = false

		return m, nil

	case tea.KeyMsg:
		if m.pending {
			return m, nil
		}

		flights := m.flights()

		switch {
		case key.Matches(message, keys.Down):
			if m.cursor < len(flights)-1 {
				m.cursor++
			}

		case key.Matches(message, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}

		case key.Matches(message, keys.Submit):
			if m.cursor < len(flights) {
				m.pending = true

				return m, services.fetchSeats(flights[m.cursor])
			}

		case key.Matches(message, keys.Back):
			m.backRequested = true
		}
	}

	return m, nil
}

func (m resultsModel) view() string {
	header := fmt.Sprintf("%s → %s on %s", m.query.Departure, m.query.Destination, m.query.DepartureDate)
	rows := []string{m.styles.title.Render("Flights"), m.styles.faint.Render(header), ""}

	flights := m.flights()
	if len(flights) == 0 {
		rows = append(rows, m.styles.faint.Render("no flights found"))
	}

	for i, flight := range flights {
		if i == len(m.outbound) && len(m.returns) > 0 {
			rows = append(rows, "", m.styles.faint.Render("return leg:"))
		}

		line := fmt.Sprintf("%-7s %s → %s  %s  %.2f  (%d seats free)",
			flight.FlightNumber, flight.Departure, flight.Destination,
			flight.DepartureTime, flight.BasePrice, flight.AvailableSeats)

		if i == m.cursor {
			line = m.styles.selected.Render(line)
		} else {
			line = m.styles.label.Render(line)
		}

		rows = append(rows, line)
	}

	if m.pending {
		rows = append(rows, "", m.styles.faint.Render("loading seat map..."))
	}

	rows = append(rows, "", m.styles.help.Render("Enter opens seat map · Esc back to search"))

	return m.styles.box.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
