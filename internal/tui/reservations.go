package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/skysync/skysync-tui/internal/app/dto"
)

// reservationsModel lists the signed-in passenger's reservations.
type reservationsModel struct {
	styles styles

	rows    []dto.Reservation
	page    int
	pending bool
}

func newReservationsModel(st styles) reservationsModel {
	return reservationsModel{styles: st, page: 1}
}

func (m reservationsModel) update(message tea.Msg, services Services, keys KeyMap) (reservationsModel, tea.Cmd) {
	switch message := message.(type) {
	case errMsg:
		m.pending = false

		return m, nil

	case reservationsDoneMsg:
		m.pending = false
		m.rows = message.rows

		return m, nil

	case tea.KeyMsg:
		if m.pending {
			return m, nil
		}

		user, ok := services.Auth.User()
		if !ok {
			return m, nil
		}

		switch message.String() {
		case "n":
			m.page++
			m.pending = true

			return m, services.fetchReservations(user.Email, m.page)

		case "p":
			if m.page > 1 {
				m.page--
				m.pending = true

				return m, services.fetchReservations(user.Email, m.page)
			}

		case "r":
			m.pending = true

			return m, services.fetchReservations(user.Email, m.page)
		}
	}

	return m, nil
}

func (m reservationsModel) view() string {
	rows := []string{m.styles.title.Render(fmt.Sprintf("My reservations · page %d", m.page)), ""}

	if m.pending {
		rows = append(rows, m.styles.faint.Render("loading..."))
	} else if len(m.rows) == 0 {
		rows = append(rows, m.styles.faint.Render("no reservations on this page"))
	}

	for _, row := range m.rows {
		line := fmt.Sprintf("%-7s seat %-4s %-10s %8.2f  %s",
			row.FlightNumber, row.SeatNumber, row.Status, row.Price, row.CreatedAt)
		rows = append(rows, m.styles.label.Render(line))
	}

	rows = append(rows, "", m.styles.help.Render("n/p page · r refresh"))

	return m.styles.box.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
