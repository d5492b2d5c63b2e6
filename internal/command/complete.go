package command

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"skytower/internal/geo"
)

// Segment is one node of a finalized command tree. The kind set is closed;
// every consumer switches exhaustively over the concrete types below. A
// Segment is immutable once built: the interpreter re-arms by constructing
// a new residual segment, never by mutating one in place.
type Segment interface {
	// Render returns the short status-display form of the segment.
	// Colorizing is purely cosmetic.
	Render(colorize bool) string
	seg()
}

// None is the empty segment. Dereferencing an unset slot produces it; a
// gate whose tail is None degrades to "do nothing" once satisfied.
type None struct{}

// AltitudeMode selects absolute versus relative altitude changes.
type AltitudeMode int

const (
	AltitudeTo AltitudeMode = iota
	AltitudeClimb
	AltitudeDescend
)

// Altitude sets or adjusts a plane's target flight level.
type Altitude struct {
	Mode  AltitudeMode
	Level uint16
}

// Turn sets a plane's target heading.
type Turn struct {
	Heading geo.OrdinalDirection
}

// Circle rotates the target heading a quarter turn from the current
// heading every tick, in the given sense, until overridden by a Turn.
type Circle struct {
	Dir geo.CircleDirection
}

// VisibilityState is a plane's display mode.
type VisibilityState int

const (
	Marked VisibilityState = iota
	Unmarked
	Ignored
)

// Visibility sets a plane's display mode.
type Visibility struct {
	State VisibilityState
}

// At gates its tail on the plane being located at a beacon.
type At struct {
	Tail   Segment
	Beacon uint16
}

// In defers its tail by a fixed number of ticks.
type In struct {
	Tail  Segment
	Ticks uint16
}

// And sequences two segments. The right side only runs once the left has
// fully resolved.
type And struct {
	Left  Segment
	Right Segment
}

// Ref is an indirection through a command slot. Reference resolution
// replaces every Ref before a segment reaches a plane; the interpreter
// treats one as an invariant violation.
type Ref struct {
	Slot uint16
}

func (None) seg()       {}
func (Altitude) seg()   {}
func (Turn) seg()       {}
func (Circle) seg()     {}
func (Visibility) seg() {}
func (At) seg()         {}
func (In) seg()         {}
func (And) seg()        {}
func (Ref) seg()        {}

var beaconStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))

// RenderBeacon formats a beacon marker, optionally colorized. Shared with
// the grid renderer so beacons look the same everywhere.
func RenderBeacon(index uint16, colorize bool) string {
	text := fmt.Sprintf("*%d", index)
	if colorize {
		return beaconStyle.Render(text)
	}
	return text
}

func (None) Render(bool) string { return "" }

func (a Altitude) Render(bool) string {
	switch a.Mode {
	case AltitudeClimb:
		return fmt.Sprintf("alt: +%d", a.Level)
	case AltitudeDescend:
		return fmt.Sprintf("alt: -%d", a.Level)
	default:
		return fmt.Sprintf("alt: %d", a.Level)
	}
}

func (t Turn) Render(bool) string {
	return fmt.Sprintf("hdg: %d", t.Heading.Degrees())
}

func (c Circle) Render(bool) string {
	return fmt.Sprintf("cir: %s", c.Dir)
}

func (v Visibility) Render(bool) string {
	switch v.State {
	case Unmarked:
		return "unmark"
	case Ignored:
		return "ignore"
	default:
		return "mark"
	}
}

func (a At) Render(colorize bool) string {
	return fmt.Sprintf("%s @ %s", a.Tail.Render(colorize), RenderBeacon(a.Beacon, colorize))
}

func (i In) Render(colorize bool) string {
	return fmt.Sprintf("%s in %d", i.Tail.Render(colorize), i.Ticks)
}

func (a And) Render(colorize bool) string {
	return fmt.Sprintf("%s & %s", a.Left.Render(colorize), a.Right.Render(colorize))
}

func (r Ref) Render(bool) string {
	return fmt.Sprintf("$%d", r.Slot)
}

// TargetKind says whether a complete command addresses a plane or a slot.
type TargetKind int

const (
	TargetPlane TargetKind = iota
	TargetSlot
)

// CompleteTarget is the resolved addressee of a command. Plane letters
// keep their typed case; callsign matching is case-insensitive.
type CompleteTarget struct {
	Kind  TargetKind
	Plane rune
	Slot  uint16
}

func (t CompleteTarget) Render() string {
	if t.Kind == TargetSlot {
		return fmt.Sprintf("$%d", t.Slot)
	}
	return string(t.Plane)
}

// Complete is a finalized, dispatchable command.
type Complete struct {
	Target CompleteTarget
	Head   Segment
}

// Render returns the short one-line form used in status displays.
func (c Complete) Render(colorize bool) string {
	var sb strings.Builder
	sb.WriteString(c.Target.Render())
	sb.WriteString(": ")
	sb.WriteString(c.Head.Render(colorize))
	return sb.String()
}
