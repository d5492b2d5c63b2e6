package geo

// GroundLocation is a 2D grid cell. Path markers are plain ground
// locations.
type GroundLocation struct {
	X uint16 `yaml:"x"`
	Y uint16 `yaml:"y"`
}

// Add applies a move offset. Callers are responsible for keeping the
// result inside the map; the border check happens after movement.
func (g GroundLocation) Add(dx, dy int) GroundLocation {
	return GroundLocation{
		X: uint16(int(g.X) + dx),
		Y: uint16(int(g.Y) + dy),
	}
}

// AirLocation is a grid cell plus a flight level. Level 0 means on the
// ground.
type AirLocation struct {
	X     uint16 `yaml:"x"`
	Y     uint16 `yaml:"y"`
	Level uint16 `yaml:"level"`
}

// Ground projects the air location onto the grid.
func (a AirLocation) Ground() GroundLocation {
	return GroundLocation{X: a.X, Y: a.Y}
}
