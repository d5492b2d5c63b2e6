// Package sim runs the live simulation: plane state and motion, the
// per-plane command interpreter with its re-arming suspension model, and
// the world tick loop with its collision, landing and removal rules.
//
// Everything here is single-threaded by design. The control loop feeds
// keystrokes and timer ticks strictly in sequence, so no state in this
// package is guarded by locks; ordering is the only discipline.
package sim

import (
	"fmt"

	"skytower/internal/airmap"
	"skytower/internal/command"
	"skytower/internal/geo"
)

// Location is where a plane currently is: parked at an airport, or
// airborne at an air location.
type Location struct {
	Airport *airmap.Airport // non-nil while parked
	Air     geo.AirLocation // valid while Airport is nil
}

// Ground projects the location onto the grid.
func (l Location) Ground() geo.GroundLocation {
	if l.Airport != nil {
		return l.Airport.Location
	}
	return l.Air.Ground()
}

// Destination is where a plane starts from or must end up: an airport or
// a border exit.
type Destination struct {
	Airport *airmap.Airport
	Exit    *airmap.Exit
}

// Entry returns the location a plane spawning here appears at.
func (d Destination) Entry() Location {
	if d.Airport != nil {
		return Location{Airport: d.Airport}
	}
	return Location{Air: d.Exit.EntryLocation}
}

// EntryDir returns the heading a plane spawning here starts with.
func (d Destination) EntryDir() geo.OrdinalDirection {
	if d.Airport != nil {
		return d.Airport.LaunchDirection.Ordinal()
	}
	return d.Exit.EntryDirection
}

// EntryHeight returns the flight level a plane spawning here starts at.
func (d Destination) EntryHeight() uint16 {
	if d.Airport != nil {
		return 0
	}
	return d.Exit.EntryLocation.Level
}

func (d Destination) sameAs(o Destination) bool {
	if d.Airport != nil {
		return o.Airport != nil && d.Airport.Index == o.Airport.Index
	}
	return o.Exit != nil && d.Exit.Index == o.Exit.Index
}

func (d Destination) String() string {
	if d.Airport != nil {
		return fmt.Sprintf("A%d", d.Airport.Index)
	}
	return fmt.Sprintf("E%d", d.Exit.Index)
}

// Plane is one active entity. Standing holds the plane's standing
// command: the residual tree a previous evaluation re-armed for the next
// tick, or nil.
type Plane struct {
	Loc         Location
	Dest        Destination
	TargetLevel uint16
	Callsign    rune
	IsJet       bool
	TicksActive uint32
	TargetDir   geo.OrdinalDirection
	CurrentDir  geo.OrdinalDirection
	Show        command.VisibilityState
	Standing    command.Segment
}

// FlightLevel returns the current flight level; parked planes are at 0.
func (p *Plane) FlightLevel() uint16 {
	if p.Loc.Airport != nil {
		return 0
	}
	return p.Loc.Air.Level
}

// Tick re-evaluates the standing command, then moves the plane. Props
// only move on even ticks; jets move every tick. Altitude steps one level
// toward the target and heading turns one rotation step per move.
func (p *Plane) Tick(m *airmap.Static) {
	if p.Standing != nil {
		p.Exec(p.Standing, m)
	}
	if p.Loc.Airport != nil {
		if p.TargetLevel > 0 {
			// Take off: one cell out along the runway at level 1.
			cell := p.Loc.Airport.Location.Add(p.Loc.Airport.LaunchDirection.Ordinal().Offset())
			p.Loc = Location{Air: geo.AirLocation{X: cell.X, Y: cell.Y, Level: 1}}
		}
	} else if p.IsJet || p.TicksActive%2 == 0 {
		air := p.Loc.Air
		switch {
		case p.TargetLevel < air.Level:
			air.Level--
		case p.TargetLevel > air.Level:
			air.Level++
		}
		if p.TargetDir != p.CurrentDir {
			p.CurrentDir = p.CurrentDir.RotateToward(p.TargetDir)
		}
		dx, dy := p.CurrentDir.Offset()
		air.X = uint16(int(air.X) + dx)
		air.Y = uint16(int(air.Y) + dy)
		p.Loc.Air = air
	}
	p.TicksActive++
}

// Exec evaluates a dereferenced command tree against the plane and
// reports whether it fully resolved. A tree that cannot resolve this tick
// re-arms itself (or its residual) as the plane's standing command; the
// next tick re-evaluates from the top of the stored tree — there is no
// continuation, the tree itself is the resumption state.
//
// The tree must contain no Ref nodes; reference resolution runs before
// dispatch and a surviving Ref is a programming error, not user input.
func (p *Plane) Exec(seg command.Segment, m *airmap.Static) bool {
	switch s := seg.(type) {
	case command.Visibility:
		p.Show = s.State
	case command.Altitude:
		switch s.Mode {
		case command.AltitudeTo:
			p.TargetLevel = s.Level
		case command.AltitudeClimb:
			p.TargetLevel += s.Level
		case command.AltitudeDescend:
			// Clamp: a descend below level 0 stops at 0.
			if s.Level >= p.TargetLevel {
				p.TargetLevel = 0
			} else {
				p.TargetLevel -= s.Level
			}
		}
	case command.Turn:
		p.TargetDir = s.Heading
		// A turn overrides a standing circle.
		if _, circling := p.Standing.(command.Circle); circling {
			p.Standing = nil
		}
	case command.Circle:
		// Quarter turn from the current (not target) heading, re-armed
		// so it keeps nudging every tick.
		p.TargetDir = p.CurrentDir.Rotated90(s.Dir)
		p.Standing = s
	case command.At:
		if !p.atBeacon(s.Beacon, m) {
			p.Standing = s
			return false
		}
		p.Standing = nil
		return p.Exec(s.Tail, m)
	case command.In:
		if s.Ticks > 0 {
			p.Standing = command.In{Tail: s.Tail, Ticks: s.Ticks - 1}
			return false
		}
		p.Standing = nil
		return p.Exec(s.Tail, m)
	case command.And:
		// An unresolved left side re-arms the whole sequence, so the
		// left is re-run from scratch next tick even if its effects
		// already applied.
		if !p.Exec(s.Left, m) {
			p.Standing = s
			return false
		}
		return p.Exec(s.Right, m)
	case command.None:
	case command.Ref:
		panic(fmt.Sprintf("unresolved slot reference $%d reached the interpreter", s.Slot))
	}
	return true
}

func (p *Plane) atBeacon(index uint16, m *airmap.Static) bool {
	b, ok := m.BeaconAt(index)
	return ok && p.Loc.Ground() == b.Location
}
