// Package geo provides the compass directions and grid locations the
// simulation moves planes across. Directions are 8-way ordinals; all
// rotation rules (one 45-degree step per move, quarter turns for circling)
// live here so the simulation and the command grammar agree on them.
package geo

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// CircleDirection is the rotational sense of a circling command.
type CircleDirection int

const (
	Clockwise CircleDirection = iota
	CounterClockwise
)

func (c CircleDirection) String() string {
	if c == Clockwise {
		return "cw"
	}
	return "ccw"
}

// OrdinalDirection is one of the eight compass points, ordered clockwise
// from North. The clockwise ordering is load-bearing: rotation is index
// arithmetic modulo 8.
type OrdinalDirection int

const (
	North OrdinalDirection = iota
	NorthEast
	East
	SouthEast
	South
	SouthWest
	West
	NorthWest
)

var ordinalNames = map[string]OrdinalDirection{
	"n": North, "north": North,
	"ne": NorthEast, "northeast": NorthEast,
	"e": East, "east": East,
	"se": SouthEast, "southeast": SouthEast,
	"s": South, "south": South,
	"sw": SouthWest, "southwest": SouthWest,
	"w": West, "west": West,
	"nw": NorthWest, "northwest": NorthWest,
}

// UnmarshalYAML accepts the short ("ne") and long ("northeast") spellings
// used in map files.
func (d *OrdinalDirection) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	dir, ok := ordinalNames[s]
	if !ok {
		return fmt.Errorf("unknown direction %q", s)
	}
	*d = dir
	return nil
}

// Offset returns the per-move grid delta for the direction.
func (d OrdinalDirection) Offset() (dx, dy int) {
	switch d {
	case North:
		return 0, -1
	case NorthEast:
		return 1, -1
	case East:
		return 1, 0
	case SouthEast:
		return 1, 1
	case South:
		return 0, 1
	case SouthWest:
		return -1, 1
	case West:
		return -1, 0
	case NorthWest:
		return -1, -1
	}
	panic(fmt.Sprintf("invalid direction %d", int(d)))
}

// RotateToward returns the heading after one move-step of turning from d
// toward target. Targets within a quarter turn are reached directly;
// anything wider moves a quarter turn, and a full 180 resolves clockwise.
func (d OrdinalDirection) RotateToward(target OrdinalDirection) OrdinalDirection {
	diff := (int(target) - int(d) + 8) % 8
	switch {
	case diff <= 2 || diff >= 6:
		return target
	case diff == 5:
		return d.step(-2)
	default: // 3 or 4: quarter turn clockwise
		return d.step(2)
	}
}

// Rotated90 returns the heading a quarter turn from d in the given sense.
func (d OrdinalDirection) Rotated90(sense CircleDirection) OrdinalDirection {
	if sense == Clockwise {
		return d.step(2)
	}
	return d.step(-2)
}

func (d OrdinalDirection) step(n int) OrdinalDirection {
	return OrdinalDirection((int(d) + n + 8) % 8)
}

// Degrees returns the compass heading in degrees, North = 0.
func (d OrdinalDirection) Degrees() int {
	return int(d) * 45
}

func (d OrdinalDirection) String() string {
	switch d {
	case North:
		return "n"
	case NorthEast:
		return "ne"
	case East:
		return "e"
	case SouthEast:
		return "se"
	case South:
		return "s"
	case SouthWest:
		return "sw"
	case West:
		return "w"
	case NorthWest:
		return "nw"
	}
	return "?"
}

// CardinalDirection is one of the four principal compass points. Airports
// launch and recover along a cardinal.
type CardinalDirection int

const (
	CardinalNorth CardinalDirection = iota
	CardinalSouth
	CardinalEast
	CardinalWest
)

var cardinalNames = map[string]CardinalDirection{
	"n": CardinalNorth, "north": CardinalNorth,
	"s": CardinalSouth, "south": CardinalSouth,
	"e": CardinalEast, "east": CardinalEast,
	"w": CardinalWest, "west": CardinalWest,
}

func (c *CardinalDirection) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	dir, ok := cardinalNames[s]
	if !ok {
		return fmt.Errorf("unknown cardinal direction %q", s)
	}
	*c = dir
	return nil
}

// Ordinal widens the cardinal to the 8-way compass.
func (c CardinalDirection) Ordinal() OrdinalDirection {
	switch c {
	case CardinalNorth:
		return North
	case CardinalSouth:
		return South
	case CardinalEast:
		return East
	case CardinalWest:
		return West
	}
	panic(fmt.Sprintf("invalid cardinal direction %d", int(c)))
}

// Glyph is the single-character map marker for an airport's runway
// direction.
func (c CardinalDirection) Glyph() string {
	switch c {
	case CardinalNorth:
		return "^"
	case CardinalSouth:
		return "v"
	case CardinalEast:
		return ">"
	case CardinalWest:
		return "<"
	}
	return "?"
}
