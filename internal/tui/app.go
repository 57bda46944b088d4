package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// view identifies which page is active.
type view int

const (
	viewLogin view = iota
	viewSearch
	viewResults
	viewCheckout
	viewReservations
	viewAdmin
	viewProfile
)

// Model is the top-level bubbletea model. It owns the page models and
// routes messages; every page is a thin renderer over the services.
type Model struct {
	services Services
	keys     KeyMap
	styles   styles

	width  int
	height int

	current view
	status  string
	isError bool

	login        loginModel
	search       searchModel
	results      resultsModel
	checkout     checkoutModel
	reservations reservationsModel
	admin        adminModel
}

func NewModel(services Services) Model {
	st := makeStyles(DefaultTheme)

	// A stored session skips the login page.
	initial := viewLogin
	if services.Auth.Ready() && services.Auth.Authenticated() {
		initial = viewSearch
	}

	return Model{
		services:     services,
		keys:         DefaultKeyMap,
		styles:       st,
		current:      initial,
		login:        newLoginModel(st),
		search:       newSearchModel(st, services.LastSearches.List()),
		results:      newResultsModel(st),
		checkout:     newCheckoutModel(st),
		reservations: newReservationsModel(st),
		admin:        newAdminModel(st),
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case tea.WindowSizeMsg:
		m.width = message.Width
		m.height = message.Height

		return m, nil

	case tea.KeyMsg:
		if key.Matches(message, m.keys.Quit) {
			return m, tea.Quit
		}

		if cmd, handled := m.handleViewSwitch(message); handled {
			return m, cmd
		}

	case statusFadeMsg:
		m.status = ""
		m.isError = false

		return m, nil

	case errMsg:
		if sessionExpired(message.err) {
			m.current = viewLogin
			m.login = newLoginModel(m.styles)
			m.setStatus(message.err.Error(), true)

			return m, fadeStatus()
		}

		m.setStatus(message.err.Error(), true)

		// The page that issued the failed operation still needs the
		// message to clear its pending flag.
		return m.routeToCurrent(message)

	case airportCreatedMsg:
		m.setStatus(message.message, false)

		model, cmd := m.routeToCurrent(message)

		return model, tea.Batch(cmd, fadeStatus())

	case flightCreatedMsg:
		m.setStatus(message.message, false)

		model, cmd := m.routeToCurrent(message)

		return model, tea.Batch(cmd, fadeStatus())

	case registerDoneMsg:
		m.login.pending = false

		if message.signedIn {
			m.current = viewSearch
			m.search = newSearchModel(m.styles, m.services.LastSearches.List())
		} else {
			m.login.setMode(modeLogin)
		}

		m.setStatus(message.message, false)

		return m, fadeStatus()

	case authMessageMsg:
		m.login.pending = false
		m.login.setMode(modeLogin)
		m.setStatus(message.message, false)

		return m, fadeStatus()

	case loginDoneMsg:
		m.current = viewSearch
		m.search = newSearchModel(m.styles, m.services.LastSearches.List())
		m.setStatus("signed in as "+message.user.FullName(), false)

		return m, fadeStatus()

	case searchDoneMsg:
		m.search.pending = false
		m.search.recent = message.recent
		m.results.setResults(message.results)
		m.current = viewResults

		return m, nil

	case seatMapDoneMsg:
		m.services.Checkout.OpenSeatMap(message.seatMap)
		m.checkout = newCheckoutModel(m.styles)
		m.checkout.open(message.flight, message.seatMap)
		m.results.pending = false
		m.current = viewCheckout

		return m, nil
	}

	// Authenticated-view gating happens at switch time; everything else
	// routes to the active page.
	return m.routeToCurrent(message)
}

// handleViewSwitch processes the global navigation keys. Protected pages
// are reachable only with an established session.
func (m *Model) handleViewSwitch(message tea.KeyMsg) (tea.Cmd, bool) {
	if !m.services.Auth.Ready() || !m.services.Auth.Authenticated() {
		return nil, false
	}

	switch {
	case key.Matches(message, m.keys.ViewSearch):
		m.current = viewSearch
		m.search.recent = m.services.LastSearches.List()

		return nil, true

	case key.Matches(message, m.keys.ViewReservations):
		m.current = viewReservations
		m.reservations.pending = true

		user, _ := m.services.Auth.User()

		return m.services.fetchReservations(user.Email, 1), true

	case key.Matches(message, m.keys.ViewAirports):
		m.current = viewAdmin
		m.admin.pending = true

		return m.services.fetchAirports(), true

	case key.Matches(message, m.keys.ViewProfile):
		m.current = viewProfile

		return nil, true
	}

	return nil, false
}

func (m Model) routeToCurrent(message tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.current {
	case viewLogin:
		m.login, cmd = m.login.update(message, m.services, m.keys)
	case viewSearch:
		m.search, cmd = m.search.update(message, m.services, m.keys)
	case viewResults:
		m.results, cmd = m.results.update(message, m.services, m.keys)
		if m.results.backRequested {
			m.results.backRequested = false
			m.current = viewSearch
		}
	case viewCheckout:
		m.checkout, cmd = m.checkout.update(message, m.services, m.keys)
		if m.checkout.closeRequested {
			m.checkout.closeRequested = false
			m.services.Checkout.Close()
			m.current = viewResults
		}
	case viewReservations:
		m.reservations, cmd = m.reservations.update(message, m.services, m.keys)
	case viewAdmin:
		m.admin, cmd = m.admin.update(message, m.services, m.keys)
	case viewProfile:
		if keyMsg, ok := message.(tea.KeyMsg); ok && keyMsg.String() == "x" {
			m.services.Auth.Logout()
			m.current = viewLogin
			m.login = newLoginModel(m.styles)
			m.setStatus("signed out", false)

			return m, fadeStatus()
		}
	}

	return m, cmd
}

func (m *Model) setStatus(status string, isError bool) {
	m.status = status
	m.isError = isError
}

func (m Model) View() string {
	if !m.services.Auth.Ready() {
		return m.styles.faint.Render("loading session...")
	}

	var body string

	switch m.current {
	case viewLogin:
		body = m.login.view()
	case viewSearch:
		body = m.search.view()
	case viewResults:
		body = m.results.view()
	case viewCheckout:
		body = m.checkout.view(m.services.Checkout)
	case viewReservations:
		body = m.reservations.view()
	case viewAdmin:
		body = m.admin.view()
	case viewProfile:
		body = m.profileView()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.headerView(),
		body,
		m.statusView(),
	)
}

func (m Model) headerView() string {
	title := m.styles.title.Render("SkySync")

	if !m.services.Auth.Authenticated() {
		return title
	}

	user, _ := m.services.Auth.User()
	tabs := m.styles.help.Render("F1 search · F2 reservations · F3 airports · F4 profile")

	return lipgloss.JoinHorizontal(lipgloss.Top,
		title,
		"  ",
		m.styles.faint.Render(user.FullName()),
		"  ",
		tabs,
	)
}

func (m Model) statusView() string {
	if m.status == "" {
		return m.styles.help.Render("Ctrl+C quits")
	}

	if m.isError {
		return m.styles.errText.Render(m.status)
	}

	return m.styles.okText.Render(m.status)
}

func (m Model) profileView() string {
	user, ok := m.services.Auth.User()
	if !ok {
		return m.styles.faint.Render("not signed in")
	}

	return m.styles.box.Render(lipgloss.JoinVertical(lipgloss.Left,
		m.styles.title.Render("Profile"),
		m.styles.label.Render("Name:  "+user.FullName()),
		m.styles.label.Render("Email: "+user.Email),
		m.styles.label.Render("Role:  "+user.Role),
		"",
		m.styles.help.Render("x signs out"),
	))
}
