package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestRotateToward(t *testing.T) {
	t.Run("within a quarter turn goes direct", func(t *testing.T) {
		assert.Equal(t, West, North.RotateToward(West))
		assert.Equal(t, NorthWest, North.RotateToward(NorthWest))
		assert.Equal(t, North, North.RotateToward(North))
		assert.Equal(t, East, North.RotateToward(East))
		assert.Equal(t, SouthEast, East.RotateToward(SouthEast))
		assert.Equal(t, North, West.RotateToward(North))
	})

	t.Run("reflex angles take a quarter turn", func(t *testing.T) {
		assert.Equal(t, East, North.RotateToward(SouthEast))
		assert.Equal(t, West, North.RotateToward(SouthWest))
		assert.Equal(t, SouthEast, NorthEast.RotateToward(South))
		assert.Equal(t, NorthWest, NorthEast.RotateToward(West))
		assert.Equal(t, North, East.RotateToward(NorthWest))
		assert.Equal(t, South, East.RotateToward(SouthWest))
		assert.Equal(t, NorthEast, SouthEast.RotateToward(North))
		assert.Equal(t, SouthWest, SouthEast.RotateToward(West))
		assert.Equal(t, East, South.RotateToward(NorthEast))
		assert.Equal(t, West, South.RotateToward(NorthWest))
		assert.Equal(t, NorthWest, SouthWest.RotateToward(North))
		assert.Equal(t, SouthEast, SouthWest.RotateToward(East))
		assert.Equal(t, North, West.RotateToward(NorthEast))
		assert.Equal(t, South, West.RotateToward(SouthEast))
		assert.Equal(t, NorthEast, NorthWest.RotateToward(East))
		assert.Equal(t, SouthWest, NorthWest.RotateToward(South))
	})

	t.Run("half turns always resolve clockwise", func(t *testing.T) {
		assert.Equal(t, East, North.RotateToward(South))
		assert.Equal(t, SouthEast, NorthEast.RotateToward(SouthWest))
		assert.Equal(t, South, East.RotateToward(West))
		assert.Equal(t, SouthWest, SouthEast.RotateToward(NorthWest))
		assert.Equal(t, West, South.RotateToward(North))
		assert.Equal(t, NorthWest, SouthWest.RotateToward(NorthEast))
		assert.Equal(t, North, West.RotateToward(East))
		assert.Equal(t, NorthEast, NorthWest.RotateToward(SouthEast))
	})
}

func TestRotated90(t *testing.T) {
	dirs := []OrdinalDirection{North, NorthEast, East, SouthEast, South, SouthWest, West, NorthWest}
	for _, d := range dirs {
		// A quarter turn one way then the other is the identity.
		assert.Equal(t, d, d.Rotated90(Clockwise).Rotated90(CounterClockwise))
		// Two quarter turns either way meet at the opposite heading.
		assert.Equal(t, d.Rotated90(Clockwise).Rotated90(Clockwise),
			d.Rotated90(CounterClockwise).Rotated90(CounterClockwise))
	}
	assert.Equal(t, East, North.Rotated90(Clockwise))
	assert.Equal(t, West, North.Rotated90(CounterClockwise))
	assert.Equal(t, NorthEast, NorthWest.Rotated90(Clockwise))
	assert.Equal(t, SouthWest, NorthWest.Rotated90(CounterClockwise))
}

func TestOffsets(t *testing.T) {
	cases := []struct {
		dir    OrdinalDirection
		dx, dy int
	}{
		{North, 0, -1},
		{NorthEast, 1, -1},
		{East, 1, 0},
		{SouthEast, 1, 1},
		{South, 0, 1},
		{SouthWest, -1, 1},
		{West, -1, 0},
		{NorthWest, -1, -1},
	}
	for _, tc := range cases {
		dx, dy := tc.dir.Offset()
		assert.Equal(t, tc.dx, dx, "dx for %s", tc.dir)
		assert.Equal(t, tc.dy, dy, "dy for %s", tc.dir)
	}
}

func TestDegrees(t *testing.T) {
	assert.Equal(t, 0, North.Degrees())
	assert.Equal(t, 45, NorthEast.Degrees())
	assert.Equal(t, 180, South.Degrees())
	assert.Equal(t, 270, West.Degrees())
}

func TestDirectionYAML(t *testing.T) {
	t.Run("ordinal short and long names", func(t *testing.T) {
		var d OrdinalDirection
		require.NoError(t, yaml.Unmarshal([]byte(`ne`), &d))
		assert.Equal(t, NorthEast, d)
		require.NoError(t, yaml.Unmarshal([]byte(`southwest`), &d))
		assert.Equal(t, SouthWest, d)
	})

	t.Run("cardinal", func(t *testing.T) {
		var c CardinalDirection
		require.NoError(t, yaml.Unmarshal([]byte(`w`), &c))
		assert.Equal(t, CardinalWest, c)
		assert.Equal(t, West, c.Ordinal())
		assert.Equal(t, "<", c.Glyph())
	})

	t.Run("unknown name rejected", func(t *testing.T) {
		var d OrdinalDirection
		assert.Error(t, yaml.Unmarshal([]byte(`up`), &d))
	})
}

func TestGroundLocationAdd(t *testing.T) {
	loc := GroundLocation{X: 5, Y: 5}
	dx, dy := NorthWest.Offset()
	assert.Equal(t, GroundLocation{X: 4, Y: 4}, loc.Add(dx, dy))
}
