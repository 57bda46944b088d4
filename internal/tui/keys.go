package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all key bindings for the booking TUI.
type KeyMap struct {
	// Navigation within lists and the seat grid.
	Up    key.Binding
	Down  key.Binding
	Left  key.Binding
	Right key.Binding

	// Form field movement and submission.
	NextField key.Binding
	PrevField key.Binding
	Submit    key.Binding

	// Seat selection.
	ToggleSeat key.Binding

	// View switching (post-login).
	ViewSearch       key.Binding
	ViewReservations key.Binding
	ViewAirports     key.Binding
	ViewProfile      key.Binding

	Back key.Binding
	Quit key.Binding
}

// DefaultKeyMap is the built-in key binding set.
var DefaultKeyMap = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("up"),
		key.WithHelp("↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down"),
		key.WithHelp("↓", "down"),
	),
	Left: key.NewBinding(
		key.WithKeys("left"),
		key.WithHelp("←", "left"),
	),
	Right: key.NewBinding(
		key.WithKeys("right"),
		key.WithHelp("→", "right"),
	),
	NextField: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("Tab", "next field"),
	),
	PrevField: key.NewBinding(
		key.WithKeys("shift+tab"),
		key.WithHelp("S-Tab", "previous field"),
	),
	Submit: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("Enter", "submit"),
	),
	ToggleSeat: key.NewBinding(
		key.WithKeys(" "),
		key.WithHelp("Space", "toggle seat"),
	),
	ViewSearch: key.NewBinding(
		key.WithKeys("f1"),
		key.WithHelp("F1", "search"),
	),
	ViewReservations: key.NewBinding(
		key.WithKeys("f2"),
		key.WithHelp("F2", "reservations"),
	),
	ViewAirports: key.NewBinding(
		key.WithKeys("f3"),
		key.WithHelp("F3", "airports"),
	),
	ViewProfile: key.NewBinding(
		key.WithKeys("f4"),
		key.WithHelp("F4", "profile"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("Esc", "back"),
	),
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("C-c", "quit"),
	),
}
