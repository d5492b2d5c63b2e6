package command

import (
	"fmt"
	"unicode"

	"skytower/internal/geo"
)

type altMode int

const (
	altUndefined altMode = iota
	altTo
	altClimb
	altDescend
)

// altitudeFragment ladder:
// undefined -> set-to(digit) | climb | descend; climb/descend -> one digit.
type altitudeFragment struct {
	mode      altMode
	level     uint16
	haveLevel bool
}

func (a *altitudeFragment) Input(ch rune) InputResult {
	switch a.mode {
	case altUndefined:
		switch {
		case isDigit(ch):
			a.mode = altTo
			a.level = digitVal(ch)
			a.haveLevel = true
			return Handled
		case ch == '+' || ch == '=':
			a.mode = altClimb
			return Handled
		case ch == '-' || ch == '_':
			a.mode = altDescend
			return Handled
		case ch == Erase:
			return Back
		}
	case altTo:
		if ch == Erase {
			a.mode = altUndefined
			a.haveLevel = false
			return Handled
		}
	case altClimb, altDescend:
		switch {
		case !a.haveLevel && isDigit(ch):
			a.level = digitVal(ch)
			a.haveLevel = true
			return Handled
		case ch == Erase && a.haveLevel:
			a.haveLevel = false
			return Handled
		case ch == Erase:
			a.mode = altUndefined
			return Handled
		}
	}
	return Unhandled
}

func (a *altitudeFragment) String() string {
	switch a.mode {
	case altTo:
		return fmt.Sprintf("altitude: %d000ft", a.level)
	case altClimb:
		if a.haveLevel {
			return fmt.Sprintf("altitude: climb %d000ft", a.level)
		}
		return "altitude: climb"
	case altDescend:
		if a.haveLevel {
			return fmt.Sprintf("altitude: descend %d000ft", a.level)
		}
		return "altitude: descend"
	default:
		return "altitude:"
	}
}

func (a *altitudeFragment) Complete() (Segment, bool) {
	switch a.mode {
	case altTo:
		return Altitude{Mode: AltitudeTo, Level: a.level}, true
	case altClimb:
		if a.haveLevel {
			return Altitude{Mode: AltitudeClimb, Level: a.level}, true
		}
	case altDescend:
		if a.haveLevel {
			return Altitude{Mode: AltitudeDescend, Level: a.level}, true
		}
	}
	return nil, false
}

// turnFragment picks one of the eight headings via three redundant
// keybinding layouts:
//
//	qwe  789  yki
//	a d  4 6  h l
//	zxc  123  ujo
//
// WASD-style letters, numeric keypad, and vi-style letters respectively.
type turnFragment struct {
	set bool
	dir geo.OrdinalDirection
}

var headingKeys = map[rune]geo.OrdinalDirection{
	'w': geo.North, 'k': geo.North, '8': geo.North,
	'e': geo.NorthEast, 'i': geo.NorthEast, '9': geo.NorthEast,
	'd': geo.East, 'l': geo.East, '6': geo.East,
	'c': geo.SouthEast, 'o': geo.SouthEast, '3': geo.SouthEast,
	'x': geo.South, 'j': geo.South, '2': geo.South,
	'z': geo.SouthWest, 'u': geo.SouthWest, '1': geo.SouthWest,
	'a': geo.West, 'h': geo.West, '4': geo.West,
	'q': geo.NorthWest, 'y': geo.NorthWest, '7': geo.NorthWest,
}

func (t *turnFragment) Input(ch rune) InputResult {
	if !t.set {
		if ch == Erase {
			return Back
		}
		if dir, ok := headingKeys[unicode.ToLower(ch)]; ok {
			t.dir = dir
			t.set = true
			return Handled
		}
		return Unhandled
	}
	if ch == Erase {
		t.set = false
		return Handled
	}
	return Unhandled
}

func (t *turnFragment) String() string {
	if t.set {
		return fmt.Sprintf("turn to %d", t.dir.Degrees())
	}
	return "turn to"
}

func (t *turnFragment) Complete() (Segment, bool) {
	if t.set {
		return Turn{Heading: t.dir}, true
	}
	return nil, false
}

// circleFragment is born set (the spawn key carries the sense); the unset
// state is only reachable by erasing.
type circleFragment struct {
	set bool
	dir geo.CircleDirection
}

func (c *circleFragment) Input(ch rune) InputResult {
	if !c.set {
		switch ch {
		case ')':
			c.set = true
			c.dir = geo.Clockwise
			return Handled
		case '(':
			c.set = true
			c.dir = geo.CounterClockwise
			return Handled
		case Erase:
			return Back
		}
		return Unhandled
	}
	if ch == Erase {
		c.set = false
		return Handled
	}
	return Unhandled
}

func (c *circleFragment) String() string {
	if !c.set {
		return "circle"
	}
	if c.dir == geo.Clockwise {
		return "circle clockwise"
	}
	return "circle counterclockwise"
}

func (c *circleFragment) Complete() (Segment, bool) {
	if c.set {
		return Circle{Dir: c.dir}, true
	}
	return nil, false
}

// visibilityFragment has no partial state; it is complete from birth and
// any erase is Back.
type visibilityFragment struct {
	state VisibilityState
}

func (v *visibilityFragment) Input(ch rune) InputResult {
	if ch == Erase {
		return Back
	}
	return Unhandled
}

func (v *visibilityFragment) String() string {
	return Visibility{State: v.state}.Render(false)
}

func (v *visibilityFragment) Complete() (Segment, bool) {
	return Visibility{State: v.state}, true
}

// poiFragment is the beacon condition being typed under an at gate. It is
// not a standalone Fragment: the gate owns it and translates its Back
// into clearing the condition.
type poiFragment struct {
	n    uint16
	have bool
}

func (p *poiFragment) input(ch rune) InputResult {
	switch {
	case isDigit(ch):
		p.n = appendDigit(p.n, ch)
		p.have = true
		return Handled
	case ch == Erase && p.have:
		p.n = 0
		p.have = false
		return Handled
	case ch == Erase:
		return Back
	}
	return Unhandled
}

func (p *poiFragment) display() string {
	if p.have {
		return fmt.Sprintf("*%d", p.n)
	}
	return "*"
}

// refFragment is an indirection through a command slot.
type refFragment struct {
	n    uint16
	have bool
}

func (r *refFragment) Input(ch rune) InputResult {
	switch {
	case isDigit(ch):
		r.n = appendDigit(r.n, ch)
		r.have = true
		return Handled
	case ch == Erase && r.have:
		r.n = 0
		r.have = false
		return Handled
	case ch == Erase:
		return Back
	}
	return Unhandled
}

func (r *refFragment) String() string {
	if r.have {
		return fmt.Sprintf("$%d", r.n)
	}
	return "$"
}

func (r *refFragment) Complete() (Segment, bool) {
	if r.have {
		return Ref{Slot: r.n}, true
	}
	return nil, false
}
