package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/skysync/skysync-tui/internal/app/dto"
	"github.com/skysync/skysync-tui/internal/app/service"
)

const (
	fieldDeparture = iota
	fieldDestination
	fieldDepartureDate
	fieldReturnDate
)

// searchModel is the flight search page: the query form, the recent
// searches list, and the airport autocomplete dropdown.
type searchModel struct {
	styles styles

	inputs   []textinput.Model
	focus    int
	tripType dto.TripType
	pending  bool

	recent []dto.LastSearch

	// Autocomplete state. seq numbers each debounce cycle; replies from
	// older cycles are dropped. cancelFetch aborts the in-flight request
	// superseded by newer input.
	seq           int
	suggestField  int
	suggestions   []dto.Airport
	suggestCursor int
	cancelFetch   context.CancelFunc
}

func newSearchModel(st styles, recent []dto.LastSearch) searchModel {
	labels := []string{"from (IST)", "to (AMS)", "date (2025-06-01)", "return date"}
	inputs := make([]textinput.Model, len(labels))

	for i, label := range labels {
		input := textinput.New()
		input.Placeholder = label

		if i == 0 {
			input.Focus()
		}

		inputs[i] = input
	}

	return searchModel{
		styles:        st,
		inputs:        inputs,
		tripType:      dto.TripTypeOneWay,
		recent:        recent,
		suggestField:  -1,
		suggestCursor: -1,
	}
}

func (m searchModel) update(message tea.Msg, services Services, keys KeyMap) (searchModel, tea.Cmd) {
	switch message := message.(type) {
	case errMsg:
		m.pending = false

		return m, nil

	case debounceElapsedMsg:
		// Only the newest cycle's timer starts a fetch.
		if message.seq != m.seq || message.field != m.focus {
			return m, nil
		}

		query := m.inputs[message.field].Value()
		if len(query) < 2 {
			return m, nil
		}

		if m.cancelFetch != nil {
			m.cancelFetch()
		}

		ctx, cancel := context.WithCancel(context.Background())
		m.cancelFetch = cancel

		return m, services.suggest(ctx, message.field, message.seq, query)

	case suggestionsMsg:
		if message.seq != m.seq {
			return m, nil
		}

		m.suggestField = message.field
		m.suggestions = message.airports
		m.suggestCursor = -1

		return m, nil

	case tea.KeyMsg:
		if m.pending {
			return m, nil
		}

		return m.handleKey(message, services, keys)
	}

	return m, nil
}

func (m searchModel) handleKey(message tea.KeyMsg, services Services, keys KeyMap) (searchModel, tea.Cmd) {
	switch {
	case key.Matches(message, keys.NextField):
		m.moveFocus(1)

		return m, nil

	case key.Matches(message, keys.PrevField):
		m.moveFocus(-1)

		return m, nil

	case key.Matches(message, keys.Down):
		if len(m.suggestions) > 0 && m.suggestCursor < len(m.suggestions)-1 {
			m.suggestCursor++
		}

		return m, nil

	case key.Matches(message, keys.Up):
		if m.suggestCursor >= 0 {
			m.suggestCursor--
		}

		return m, nil

	case key.Matches(message, keys.Submit):
		if m.suggestCursor >= 0 && m.suggestCursor < len(m.suggestions) {
			m.applySuggestion(m.suggestions[m.suggestCursor])

			return m, nil
		}

		return m.submit(services)
	}

	switch message.String() {
	case "ctrl+t":
		if m.tripType == dto.TripTypeOneWay {
			m.tripType = dto.TripTypeRoundTrip
		} else {
			m.tripType = dto.TripTypeOneWay
		}

		return m, nil

	case "1", "2", "3":
		// Digits replay a recent search only while the date fields are
		// untouched, so typing dates is not hijacked.
		if m.inputs[fieldDepartureDate].Value() == "" && len(m.recent) > 0 {
			index := int(message.String()[0] - '1')
			if index < len(m.recent) {
				return m.applyRecent(m.recent[index], services)
			}
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(message)

	// Keystrokes in the airport fields restart the debounce cycle and
	// invalidate any in-flight fetch.
	if m.isAirportField(m.focus) && (message.Type == tea.KeyRunes || message.Type == tea.KeyBackspace) {
		m.seq++
		m.suggestions = nil
		m.suggestCursor = -1

		if m.cancelFetch != nil {
			m.cancelFetch()
			m.cancelFetch = nil
		}

		return m, tea.Batch(cmd, services.debounce(m.focus, m.seq))
	}

	return m, cmd
}

func (m searchModel) isAirportField(field int) bool {
	return field == fieldDeparture || field == fieldDestination
}

func (m *searchModel) moveFocus(delta int) {
	m.inputs[m.focus].Blur()
	m.focus = (m.focus + delta + len(m.inputs)) % len(m.inputs)
	m.inputs[m.focus].Focus()
	m.suggestions = nil
	m.suggestCursor = -1
}

func (m *searchModel) applySuggestion(airport dto.Airport) {
	m.inputs[m.suggestField].SetValue(airport.Code)
	m.suggestions = nil
	m.suggestCursor = -1
}

func (m searchModel) applyRecent(entry dto.LastSearch, services Services) (searchModel, tea.Cmd) {
	m.inputs[fieldDeparture].SetValue(entry.Departure)
	m.inputs[fieldDestination].SetValue(entry.Destination)
	m.inputs[fieldDepartureDate].SetValue(entry.DepartureDate)
	m.inputs[fieldReturnDate].SetValue(entry.ReturnDate)

	m.tripType = entry.TripType
	if m.tripType == "" {
		m.tripType = dto.TripTypeOneWay
	}

	return m.submit(services)
}

func (m searchModel) submit(services Services) (searchModel, tea.Cmd) {
	query := dto.SearchQuery{
		Departure:     service.ResolveAirportCode(m.inputs[fieldDeparture].Value(), m.suggestions),
		Destination:   service.ResolveAirportCode(m.inputs[fieldDestination].Value(), m.suggestions),
		DepartureDate: m.inputs[fieldDepartureDate].Value(),
		ReturnDate:    m.inputs[fieldReturnDate].Value(),
		TripType:      m.tripType,
		Page:          1,
	}

	m.pending = true
	m.suggestions = nil
	m.suggestCursor = -1

	return m, services.search(query)
}

func (m searchModel) view() string {
	rows := []string{m.styles.title.Render("Search flights"), ""}

	labels := []string{"From  ", "To    ", "Date  ", "Return"}
	for i, input := range m.inputs {
		rows = append(rows, m.styles.label.Render(labels[i]+" ")+input.View())
	}

	rows = append(rows, "", m.styles.faint.Render("trip: "+string(m.tripType)+"  (C-t toggles)"))

	if len(m.suggestions) > 0 {
		rows = append(rows, "", m.styles.faint.Render("airports:"))

		for i, airport := range m.suggestions {
			line := fmt.Sprintf("%s  %s, %s", airport.Code, airport.Name, airport.City)
			if i == m.suggestCursor {
				line = m.styles.selected.Render(line)
			} else {
				line = m.styles.label.Render(line)
			}

			rows = append(rows, line)
		}
	}

	if len(m.recent) > 0 {
		rows = append(rows, "", m.styles.faint.Render("recent searches:"))

		for i, entry := range m.recent {
			line := fmt.Sprintf("%d. %s → %s on %s", i+1, entry.Departure, entry.Destination, entry.DepartureDate)
			if entry.ReturnDate != "" {
				line += " / " + entry.ReturnDate
			}

			rows = append(rows, m.styles.label.Render(line))
		}
	}

	if m.pending {
		rows = append(rows, "", m.styles.faint.Render("searching..."))
	}

	rows = append(rows, "", m.styles.help.Render("Enter searches · ↑/↓ pick airport · 1-3 replay recent"))

	return m.styles.box.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
