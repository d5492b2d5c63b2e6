package sim

import (
	"testing"
	"unicode"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skytower/internal/command"
	"skytower/internal/config"
	"skytower/internal/geo"
)

func testSettings() config.Settings {
	s := config.Default()
	s.SpawnRate = 1000
	return s
}

// quietWorld starts with the tick counter off the spawn phase so tests
// control the plane population themselves.
func quietWorld(t *testing.T) *World {
	t.Helper()
	w := New(testMap(), testSettings(), nil)
	w.TickNo = 1
	return w
}

func draft(t *testing.T, keys string) command.Complete {
	t.Helper()
	var c command.Command
	for _, ch := range keys {
		c.Input(ch)
	}
	done, ok := c.Complete()
	require.True(t, ok, "draft %q should finalize", keys)
	return done
}

func TestWorldRemoval(t *testing.T) {
	t.Run("planes leaving through their exits come off the board together", func(t *testing.T) {
		w := quietWorld(t)
		a := airborne('a', 1, 5, 7, geo.West)
		b := airborne('b', 10, 3, 5, geo.North)
		c := airborne('c', 18, 14, 7, geo.East)
		w.Planes = []*Plane{a, b, c}

		w.Tick()

		require.Nil(t, w.Status())
		require.Len(t, w.Planes, 1)
		assert.Same(t, b, w.Planes[0])
		assert.Equal(t, uint32(2), w.Landed)
	})

	t.Run("exit requires the matching heading", func(t *testing.T) {
		w := quietWorld(t)
		// Reaches the exit cell but pointed the wrong way.
		w.Planes = []*Plane{airborne('a', 1, 4, 7, geo.SouthWest)}

		w.Tick()

		require.NotNil(t, w.Status())
		assert.Equal(t, StatusExitedImproperly, w.Status().Kind)
		assert.Equal(t, "Plane a exited improperly.", w.Status().String())
	})

	t.Run("touching the border away from an exit fails", func(t *testing.T) {
		w := quietWorld(t)
		w.Planes = []*Plane{airborne('a', 1, 10, 7, geo.West)}

		w.Tick()

		require.NotNil(t, w.Status())
		assert.Equal(t, StatusExitedImproperly, w.Status().Kind)
	})

	t.Run("exit at the wrong level fails", func(t *testing.T) {
		w := quietWorld(t)
		w.Planes = []*Plane{airborne('a', 1, 5, 4, geo.West)}

		w.Tick()

		require.NotNil(t, w.Status())
		assert.Equal(t, StatusExitedImproperly, w.Status().Kind)
	})
}

func TestWorldLanding(t *testing.T) {
	t.Run("touchdown on the runway heading", func(t *testing.T) {
		w := quietWorld(t)
		p := airborne('a', 9, 10, 1, geo.East)
		p.TargetLevel = 0
		w.Planes = []*Plane{p}

		w.Tick()

		require.Nil(t, w.Status())
		assert.Empty(t, w.Planes)
		assert.Equal(t, uint32(1), w.Landed)
	})

	t.Run("reaching the ground anywhere else fails", func(t *testing.T) {
		w := quietWorld(t)
		p := airborne('a', 4, 4, 1, geo.East)
		p.TargetLevel = 0
		w.Planes = []*Plane{p}

		w.Tick()

		require.NotNil(t, w.Status())
		assert.Equal(t, StatusFailedLanding, w.Status().Kind)
	})

	t.Run("crossing the runway on the wrong heading fails", func(t *testing.T) {
		w := quietWorld(t)
		p := airborne('a', 10, 9, 1, geo.South)
		p.TargetLevel = 0
		w.Planes = []*Plane{p}

		w.Tick()

		require.NotNil(t, w.Status())
		assert.Equal(t, StatusFailedLanding, w.Status().Kind)
	})
}

func TestWorldCollision(t *testing.T) {
	t.Run("adjacent airspace is a crash", func(t *testing.T) {
		w := quietWorld(t)
		// After this tick the two meet within one cell of each other.
		w.Planes = []*Plane{
			airborne('a', 8, 10, 5, geo.East),
			airborne('b', 11, 10, 5, geo.West),
		}

		w.Tick()

		require.NotNil(t, w.Status())
		assert.Equal(t, StatusCrashed, w.Status().Kind)
	})

	t.Run("one level apart still collides", func(t *testing.T) {
		w := quietWorld(t)
		w.Planes = []*Plane{
			airborne('a', 8, 10, 5, geo.East),
			airborne('b', 11, 10, 6, geo.West),
		}

		w.Tick()

		require.NotNil(t, w.Status())
		assert.Equal(t, StatusCrashed, w.Status().Kind)
	})

	t.Run("two levels apart is safe", func(t *testing.T) {
		w := quietWorld(t)
		w.Planes = []*Plane{
			airborne('a', 8, 10, 5, geo.East),
			airborne('b', 11, 10, 7, geo.West),
		}

		w.Tick()

		assert.Nil(t, w.Status())
		assert.Len(t, w.Planes, 2)
	})

	t.Run("parked planes never collide", func(t *testing.T) {
		w := quietWorld(t)
		parked := &Plane{Loc: Location{Airport: &w.Info.Airports[0]}, Callsign: 'g'}
		flying := airborne('a', 10, 11, 1, geo.North)
		flying.TargetLevel = 1
		w.Planes = []*Plane{parked, flying}

		w.Tick()

		assert.Nil(t, w.Status())
	})
}

func TestWorldFreeze(t *testing.T) {
	w := quietWorld(t)
	w.Planes = []*Plane{airborne('a', 1, 10, 7, geo.West)}

	w.Tick()
	require.NotNil(t, w.Status())
	tickNo := w.TickNo
	planes := len(w.Planes)

	// Further ticks are ignored once the session has ended.
	w.Tick()
	w.Tick()
	assert.Equal(t, tickNo, w.TickNo)
	assert.Len(t, w.Planes, planes)
}

func TestWorldSpawning(t *testing.T) {
	t.Run("spawns on the spawn phase", func(t *testing.T) {
		w := New(testMap(), testSettings(), nil)
		w.Tick()
		require.Len(t, w.Planes, 1)
		p := w.Planes[0]
		assert.Equal(t, command.Marked, p.Show)
		if p.IsJet {
			assert.True(t, unicode.IsLower(p.Callsign))
		} else {
			assert.True(t, unicode.IsUpper(p.Callsign))
		}
		if p.Loc.Airport == nil {
			assert.Equal(t, uint16(7), p.TargetLevel)
		}
	})

	t.Run("spawn rate gates the phase", func(t *testing.T) {
		w := New(testMap(), testSettings(), nil)
		w.Settings.SpawnRate = 3
		for i := 0; i < 3; i++ {
			w.Tick()
			if w.Status() != nil {
				t.Skipf("random traffic ended the session early")
			}
		}
		// Ticks 0, 1, 2 spawn only on tick 0; tick 3 spawns again.
		assert.LessOrEqual(t, len(w.Planes), 2)
	})

	t.Run("callsigns stay unique at the population cap", func(t *testing.T) {
		w := quietWorld(t)
		for i := 0; i < 40; i++ {
			w.spawnPlane()
		}
		assert.Len(t, w.Planes, 26)
		seen := make(map[rune]bool)
		for _, p := range w.Planes {
			lower := unicode.ToLower(p.Callsign)
			assert.False(t, seen[lower], "callsign %c reused", p.Callsign)
			seen[lower] = true
		}
	})

	t.Run("destination differs from the entry point", func(t *testing.T) {
		w := quietWorld(t)
		for i := 0; i < 26; i++ {
			w.spawnPlane()
		}
		for _, p := range w.Planes {
			if p.Loc.Airport != nil && p.Dest.Airport != nil {
				assert.NotEqual(t, p.Loc.Airport.Index, p.Dest.Airport.Index)
			}
		}
	})

	t.Run("landing ban keeps airports out of destinations", func(t *testing.T) {
		w := quietWorld(t)
		w.Settings.AllowLanding = false
		for i := 0; i < 26; i++ {
			w.spawnPlane()
		}
		require.NotEmpty(t, w.Planes)
		for _, p := range w.Planes {
			assert.Nil(t, p.Dest.Airport, "plane %c routed to an airport", p.Callsign)
		}
	})
}

func TestWorldDispatch(t *testing.T) {
	t.Run("plane commands apply immediately", func(t *testing.T) {
		w := quietWorld(t)
		p := airborne('a', 10, 3, 5, geo.North)
		w.Planes = []*Plane{p}
		w.Dispatch(draft(t, "aa8"))
		assert.Equal(t, uint16(8), p.TargetLevel)
	})

	t.Run("callsign matching ignores case", func(t *testing.T) {
		w := quietWorld(t)
		p := airborne('a', 10, 3, 5, geo.North)
		w.Planes = []*Plane{p}
		w.Dispatch(draft(t, "Ai"))
		assert.Equal(t, command.Ignored, p.Show)
	})

	t.Run("unknown callsign is a silent no-op", func(t *testing.T) {
		w := quietWorld(t)
		p := airborne('a', 10, 3, 5, geo.North)
		w.Planes = []*Plane{p}
		assert.NotPanics(t, func() { w.Dispatch(draft(t, "zm")) })
		assert.Equal(t, uint16(5), p.TargetLevel)
	})

	t.Run("slot commands are stored, not executed", func(t *testing.T) {
		w := quietWorld(t)
		p := airborne('a', 10, 3, 5, geo.North)
		w.Planes = []*Plane{p}
		w.Dispatch(draft(t, "$1a8"))
		assert.Equal(t, uint16(5), p.TargetLevel)
		entries := w.SlotList()
		require.Len(t, entries, 1)
		assert.Equal(t, uint16(1), entries[0].Number)
	})

	t.Run("storing overwrites atomically", func(t *testing.T) {
		w := quietWorld(t)
		w.Dispatch(draft(t, "$3a5"))
		w.Dispatch(draft(t, "$3m"))
		entries := w.SlotList()
		require.Len(t, entries, 1)
		assert.Equal(t, command.Segment(command.Visibility{State: command.Marked}), entries[0].Command.Head)
	})

	t.Run("slot list is ordered", func(t *testing.T) {
		w := quietWorld(t)
		w.Dispatch(draft(t, "$9m"))
		w.Dispatch(draft(t, "$2u"))
		w.Dispatch(draft(t, "$5i"))
		entries := w.SlotList()
		require.Len(t, entries, 3)
		assert.Equal(t, uint16(2), entries[0].Number)
		assert.Equal(t, uint16(5), entries[1].Number)
		assert.Equal(t, uint16(9), entries[2].Number)
	})
}

func TestResolve(t *testing.T) {
	slots := map[uint16]command.Complete{
		1: {Head: command.Altitude{Mode: command.AltitudeTo, Level: 5}},
		2: {Head: command.At{Tail: command.Ref{Slot: 1}, Beacon: 0}},
		3: {Head: command.Ref{Slot: 3}},
		4: {Head: command.Ref{Slot: 5}},
		5: {Head: command.Ref{Slot: 4}},
	}

	t.Run("plain substitution", func(t *testing.T) {
		got := Resolve(command.Ref{Slot: 1}, slots)
		assert.Empty(t, cmp.Diff(command.Segment(command.Altitude{Mode: command.AltitudeTo, Level: 5}), got))
	})

	t.Run("substitution recurses through stored trees", func(t *testing.T) {
		got := Resolve(command.And{Left: command.Ref{Slot: 2}, Right: command.Visibility{State: command.Marked}}, slots)
		want := command.And{
			Left:  command.At{Tail: command.Altitude{Mode: command.AltitudeTo, Level: 5}, Beacon: 0},
			Right: command.Visibility{State: command.Marked},
		}
		assert.Empty(t, cmp.Diff(command.Segment(want), got))
	})

	t.Run("unset slots dissolve to nothing", func(t *testing.T) {
		assert.Equal(t, command.Segment(command.None{}), Resolve(command.Ref{Slot: 42}, slots))
	})

	t.Run("self reference dissolves to nothing", func(t *testing.T) {
		assert.Equal(t, command.Segment(command.None{}), Resolve(command.Ref{Slot: 3}, slots))
	})

	t.Run("mutual reference cycles dissolve to nothing", func(t *testing.T) {
		assert.Equal(t, command.Segment(command.None{}), Resolve(command.Ref{Slot: 4}, slots))
	})

	t.Run("segments without references pass through untouched", func(t *testing.T) {
		seg := command.In{Tail: command.Turn{Heading: geo.East}, Ticks: 2}
		assert.Empty(t, cmp.Diff(command.Segment(seg), Resolve(seg, slots)))
	})
}

func TestResolveSnapshotsSlots(t *testing.T) {
	w := quietWorld(t)
	p := airborne('a', 10, 3, 5, geo.North)
	w.Planes = []*Plane{p}

	w.Dispatch(draft(t, "$1i!3"))
	// Dispatching to the plane captures the slot's current tree.
	w.Dispatch(draft(t, "a$1"))
	require.NotNil(t, p.Standing)

	// Overwriting the slot afterwards must not touch the captured copy.
	w.Dispatch(draft(t, "$1u"))
	p.Exec(p.Standing, w.Info)
	p.Exec(p.Standing, w.Info)
	p.Exec(p.Standing, w.Info)
	assert.Equal(t, command.Ignored, p.Show)
	assert.Nil(t, p.Standing)
}

func TestCommitAndScript(t *testing.T) {
	t.Run("commit dispatches and clears the draft", func(t *testing.T) {
		w := quietWorld(t)
		p := airborne('a', 10, 3, 5, geo.North)
		w.Planes = []*Plane{p}
		for _, ch := range "aa8" {
			w.Draft.Input(ch)
		}
		assert.True(t, w.Commit())
		assert.Equal(t, uint16(8), p.TargetLevel)
		assert.True(t, w.Draft.IsEmpty())
	})

	t.Run("incomplete drafts stay put", func(t *testing.T) {
		w := quietWorld(t)
		for _, ch := range "aa+" {
			w.Draft.Input(ch)
		}
		assert.False(t, w.Commit())
		assert.Equal(t, "a: altitude: climb", w.Draft.String())
	})

	t.Run("scripts commit on colon", func(t *testing.T) {
		w := quietWorld(t)
		p := airborne('a', 10, 3, 5, geo.North)
		w.Planes = []*Plane{p}
		w.FeedScript("aa8:$2m:bt6")
		assert.Equal(t, uint16(8), p.TargetLevel)
		assert.Len(t, w.SlotList(), 1)
		// The trailing command stays in the draft for the operator.
		assert.Equal(t, "b: turn to 90", w.Draft.String())
	})
}
