package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/skysync/skysync-tui/internal/app/dto"
)

// authMode selects which form the login page shows.
type authMode int

const (
	modeLogin authMode = iota
	modeRegister
	modeForgot
	modeReset
	modeVerify
)

// loginModel is the unauthenticated page: sign in, sign up, and the
// password-reset / email-verification token forms.
type loginModel struct {
	styles styles

	mode    authMode
	inputs  []textinput.Model
	focus   int
	pending bool
}

func newLoginModel(st styles) loginModel {
	m := loginModel{styles: st}
	m.setMode(modeLogin)

	return m
}

// setMode rebuilds the input set for the given form.
func (m *loginModel) setMode(mode authMode) {
	m.mode = mode
	m.focus = 0
	m.pending = false

	var labels []string

	switch mode {
	case modeLogin:
		labels = []string{"email", "password"}
	case modeRegister:
		labels = []string{"email", "password", "first name", "last name"}
	case modeForgot:
		labels = []string{"email"}
	case modeReset:
		labels = []string{"reset token", "new password"}
	case modeVerify:
		labels = []string{"verification token"}
	}

	m.inputs = make([]textinput.Model, len(labels))

	for i, label := range labels {
		input := textinput.New()
		input.Placeholder = label

		if label == "password" || label == "new password" {
			input.EchoMode = textinput.EchoPassword
		}

		if i == 0 {
			input.Focus()
		}

		m.inputs[i] = input
	}
}

func (m loginModel) update(message tea.Msg, services Services, keys KeyMap) (loginModel, tea.Cmd) {
	switch message := message.(type) {
	case errMsg:
		m.pending = false

		return m, nil

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

		switch message.String() {
		case "ctrl+r":
			m.setMode(modeRegister)

			return m, nil
		case "ctrl+f":
			m.setMode(modeForgot)

			return m, nil
		case "ctrl+p":
			m.setMode(modeReset)

			return m, nil
		case "ctrl+v":
			m.setMode(modeVerify)

			return m, nil
		case "esc":
			if m.mode != modeLogin {
				m.setMode(modeLogin)

				return m, nil
			}
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(message)

	return m, cmd
}

func (m *loginModel) moveFocus(delta int) {
	m.inputs[m.focus].Blur()
	m.focus = (m.focus + delta + len(m.inputs)) % len(m.inputs)
	m.inputs[m.focus].Focus()
}

func (m loginModel) submit(services Services) (loginModel, tea.Cmd) {
	m.pending = true

	switch m.mode {
	case modeLogin:
		return m, services.login(dto.Credentials{
			Email:    m.inputs[0].Value(),
			Password: m.inputs[1].Value(),
		})

	case modeRegister:
		return m, services.register(dto.Registration{
			Email:     m.inputs[0].Value(),
			Password:  m.inputs[1].Value(),
			FirstName: m.inputs[2].Value(),
			LastName:  m.inputs[3].Value(),
		})

	case modeForgot:
		return m, services.forgotPassword(m.inputs[0].Value())

	case modeReset:
		return m, services.resetPassword(m.inputs[0].Value(), m.inputs[1].Value())

	case modeVerify:
		return m, services.verifyEmail(m.inputs[0].Value())
	}

	m.pending = false

	return m, nil
}

func (m loginModel) view() string {
	titles := map[authMode]string{
		modeLogin:    "Sign in",
		modeRegister: "Create account",
		modeForgot:   "Forgot password",
		modeReset:    "Reset password",
		modeVerify:   "Verify email",
	}

	rows := []string{m.styles.title.Render(titles[m.mode]), ""}

	for _, input := range m.inputs {
		rows = append(rows, input.View())
	}

	if m.pending {
		rows = append(rows, "", m.styles.faint.Render("working..."))
	}

	rows = append(rows, "",
		m.styles.help.Render("Enter submits · Tab moves · C-r register · C-f forgot · C-p reset · C-v verify"))

	return m.styles.box.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
