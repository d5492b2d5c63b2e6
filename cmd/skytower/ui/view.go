package ui

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/charmbracelet/lipgloss"

	"skytower/internal/command"
	"skytower/internal/sim"
)

func (m Model) View() string {
	w := m.world
	var sb strings.Builder

	sb.WriteString(m.styles.Header.Render(
		fmt.Sprintf("Time: %-4d Score: %-4d %s", w.TickNo, w.Landed, w.Info.Name)))
	sb.WriteString("\n\n")

	sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, m.renderGrid(), "   ", m.renderRoster()))
	sb.WriteString("\n\n")

	if st := w.Status(); st != nil {
		sb.WriteString(m.styles.Failure.Render(st.String() + "  (q to quit)"))
	} else {
		sb.WriteString(m.styles.Draft.Render("> " + w.Draft.String()))
	}
	sb.WriteString("\n")

	for _, entry := range w.SlotList() {
		sb.WriteString(entry.Command.Render(true))
		sb.WriteString("\n")
	}

	sb.WriteString(m.styles.Help.Render("enter dispatch · esc cancel · backspace erase · ctrl+c quit"))
	sb.WriteString("\n")
	return sb.String()
}

type gridCell struct {
	text  string
	style lipgloss.Style
}

// renderGrid draws the radar: two display columns per map cell, later
// layers (planes last) painting over earlier ones. The plane currently
// addressed by the draft and the beacon its gate condition names render
// bold.
func (m Model) renderGrid() string {
	w := m.world
	width, height := int(w.Info.Width), int(w.Info.Height)
	cells := make([]gridCell, width*height)
	for i := range cells {
		cells[i] = gridCell{text: ". ", style: m.styles.Blank}
	}
	at := func(x, y uint16) *gridCell {
		return &cells[int(y)*width+int(x)]
	}

	for _, mark := range w.Info.PathMarkers {
		*at(mark.X, mark.Y) = gridCell{text: "+ ", style: m.styles.PathMark}
	}
	for _, e := range w.Info.Exits {
		loc := e.EntryLocation.Ground()
		*at(loc.X, loc.Y) = gridCell{
			text:  fmt.Sprintf("%-2d", e.Index),
			style: m.styles.Exit,
		}
	}
	focusBeacon, hasFocus := w.Draft.FocusBeacon()
	for _, b := range w.Info.Beacons {
		style := m.styles.Beacon
		if hasFocus && b.Index == focusBeacon {
			style = style.Bold(true)
		}
		*at(b.Location.X, b.Location.Y) = gridCell{
			text:  fmt.Sprintf("*%d", b.Index),
			style: style,
		}
	}
	for _, a := range w.Info.Airports {
		*at(a.Location.X, a.Location.Y) = gridCell{
			text:  fmt.Sprintf("%s%d", a.LaunchDirection.Glyph(), a.Index),
			style: m.styles.Airport,
		}
	}
	target, hasTarget := w.Draft.TargetPlane()
	for _, p := range w.Planes {
		if p.Loc.Airport != nil {
			continue
		}
		style := m.planeStyle(p)
		if hasTarget && sameCallsign(target, p.Callsign) {
			style = style.Bold(true)
		}
		*at(p.Loc.Air.X, p.Loc.Air.Y) = gridCell{
			text:  fmt.Sprintf("%c%d", p.Callsign, p.FlightLevel()),
			style: style,
		}
	}

	var sb strings.Builder
	for y := 0; y < height; y++ {
		if y > 0 {
			sb.WriteString("\n")
		}
		for x := 0; x < width; x++ {
			c := cells[y*width+x]
			sb.WriteString(c.style.Render(c.text))
		}
	}
	return sb.String()
}

// renderRoster draws the side panel: one line per plane with its
// callsign, flight level, parked airport, destination, and standing
// command.
func (m Model) renderRoster() string {
	w := m.world
	var sb strings.Builder
	sb.WriteString(m.styles.PanelHead.Render("plane dest cmd"))

	target, hasTarget := w.Draft.TargetPlane()
	for _, p := range w.Planes {
		sb.WriteString("\n")
		where := "   "
		if p.Loc.Airport != nil {
			where = fmt.Sprintf("@A%d", p.Loc.Airport.Index)
		}
		cmd := ""
		switch {
		case p.Show == command.Ignored:
			cmd = "---"
		case p.Standing != nil:
			cmd = p.Standing.Render(p.Show == command.Marked)
		}
		line := fmt.Sprintf("%c%d%s %s   %s", p.Callsign, p.FlightLevel(), where, p.Dest, cmd)
		style := m.planeStyle(p)
		if hasTarget && sameCallsign(target, p.Callsign) {
			style = style.Bold(true)
		}
		sb.WriteString(style.Render(line))
	}
	return sb.String()
}

func (m Model) planeStyle(p *sim.Plane) lipgloss.Style {
	if p.Show == command.Marked {
		return m.styles.PlaneMarked
	}
	return m.styles.PlaneDim
}

func sameCallsign(a, b rune) bool {
	return unicode.ToLower(a) == unicode.ToLower(b)
}
