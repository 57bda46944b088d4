package tui

import "github.com/charmbracelet/lipgloss"

// Theme is the color palette for the booking terminal UI. All colors use
// lipgloss ANSI 256-color codes for broad terminal compatibility.
type Theme struct {
	NormalText lipgloss.Color
	FaintText  lipgloss.Color
	Accent     lipgloss.Color

	SelectedBackground lipgloss.Color
	SelectedForeground lipgloss.Color

	// Seat map cell colors.
	SeatFree     lipgloss.Color
	SeatReserved lipgloss.Color
	SeatSelected lipgloss.Color
	SeatPremium  lipgloss.Color

	SuccessText lipgloss.Color
	ErrorText   lipgloss.Color

	HeaderForeground lipgloss.Color
	BorderColor      lipgloss.Color
	HelpText         lipgloss.Color
}

// DefaultTheme is the built-in dark-terminal color scheme.
var DefaultTheme = Theme{
	NormalText: lipgloss.Color("252"),
	FaintText:  lipgloss.Color("245"),
	Accent:     lipgloss.Color("75"),

	SelectedBackground: lipgloss.Color("236"),
	SelectedForeground: lipgloss.Color("255"),

	SeatFree:     lipgloss.Color("114"), // green
	SeatReserved: lipgloss.Color("240"), // dim gray
	SeatSelected: lipgloss.Color("220"), // amber
	SeatPremium:  lipgloss.Color("141"), // light purple

	SuccessText: lipgloss.Color("114"),
	ErrorText:   lipgloss.Color("196"),

	HeaderForeground: lipgloss.Color("255"),
	BorderColor:      lipgloss.Color("240"),
	HelpText:         lipgloss.Color("241"),
}

// styles derived from the theme, built once at program start.
type styles struct {
	title    lipgloss.Style
	label    lipgloss.Style
	faint    lipgloss.Style
	selected lipgloss.Style
	errText  lipgloss.Style
	okText   lipgloss.Style
	help     lipgloss.Style
	box      lipgloss.Style

	seatFree     lipgloss.Style
	seatReserved lipgloss.Style
	seatSelected lipgloss.Style
	seatPremium  lipgloss.Style
}

func makeStyles(theme Theme) styles {
	return styles{
		title: lipgloss.NewStyle().Bold(true).Foreground(theme.HeaderForeground),
		label: lipgloss.NewStyle().Foreground(theme.NormalText),
		faint: lipgloss.NewStyle().Foreground(theme.FaintText),
		selected: lipgloss.NewStyle().
			Background(theme.SelectedBackground).
			Foreground(theme.SelectedForeground),
		errText: lipgloss.NewStyle().Foreground(theme.ErrorText),
		okText:  lipgloss.NewStyle().Foreground(theme.SuccessText),
		help:    lipgloss.NewStyle().Foreground(theme.HelpText),
		box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.BorderColor).
			Padding(0, 1),

		seatFree:     lipgloss.NewStyle().Foreground(theme.SeatFree),
		seatReserved: lipgloss.NewStyle().Foreground(theme.SeatReserved),
		seatSelected: lipgloss.NewStyle().Foreground(theme.SeatSelected).Bold(true),
		seatPremium:  lipgloss.NewStyle().Foreground(theme.SeatPremium),
	}
}
