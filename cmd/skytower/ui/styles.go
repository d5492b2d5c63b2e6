// Package ui provides the interactive terminal front end: a bubbletea
// model that feeds keystrokes to the command draft, drives the fixed
// simulation tick, and renders the radar grid, plane roster, and slot
// registry.
package ui

import "github.com/charmbracelet/lipgloss"

// Styles holds every lipgloss style the views use. Color is purely
// cosmetic; nothing in the simulation depends on it.
type Styles struct {
	Header      lipgloss.Style
	Blank       lipgloss.Style
	PathMark    lipgloss.Style
	Beacon      lipgloss.Style
	Airport     lipgloss.Style
	Exit        lipgloss.Style
	PlaneMarked lipgloss.Style
	PlaneDim    lipgloss.Style
	PanelHead   lipgloss.Style
	Draft       lipgloss.Style
	Failure     lipgloss.Style
	Help        lipgloss.Style
}

// DefaultStyles returns the standard radar palette.
func DefaultStyles() Styles {
	return Styles{
		Header:      lipgloss.NewStyle().Bold(true),
		Blank:       lipgloss.NewStyle().Faint(true),
		PathMark:    lipgloss.NewStyle(),
		Beacon:      lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		Airport:     lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
		Exit:        lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
		PlaneMarked: lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		PlaneDim:    lipgloss.NewStyle().Faint(true),
		PanelHead:   lipgloss.NewStyle().Bold(true),
		Draft:       lipgloss.NewStyle(),
		Failure:     lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		Help:        lipgloss.NewStyle().Faint(true),
	}
}
