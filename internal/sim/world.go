package sim

import (
	"fmt"
	"math/rand/v2"
	"sort"
	"unicode"

	"go.uber.org/zap"

	"skytower/internal/airmap"
	"skytower/internal/command"
	"skytower/internal/config"
)

// StatusKind classifies how a session ended.
type StatusKind int

const (
	StatusCrashed StatusKind = iota
	StatusExitedImproperly
	StatusFailedLanding
)

// Status is the terminal failure state. Once set, the simulation freezes:
// no further ticks are processed, but the operator keeps the final frame.
type Status struct {
	Kind StatusKind
	A, B rune
}

func (s Status) String() string {
	switch s.Kind {
	case StatusCrashed:
		return fmt.Sprintf("Plane %c crashed into plane %c.", s.A, s.B)
	case StatusExitedImproperly:
		return fmt.Sprintf("Plane %c exited improperly.", s.A)
	default:
		return fmt.Sprintf("Plane %c landed improperly.", s.A)
	}
}

// SlotEntry is one stored command, for display.
type SlotEntry struct {
	Number  uint16
	Command command.Complete
}

// World owns everything that changes during a session: the planes, the
// draft command being typed, the slot registry, and the tick counter.
// All mutation happens on the control loop; nothing here is safe for
// concurrent use and nothing needs to be.
type World struct {
	Info     *airmap.Static
	Settings config.Settings
	Draft    command.Command
	Planes   []*Plane
	TickNo   uint32
	Landed   uint32

	status *Status
	slots  map[uint16]command.Complete
	rng    *rand.Rand
	log    *zap.Logger
}

// New creates a world on the given map. A nil logger disables
// diagnostics.
func New(info *airmap.Static, settings config.Settings, log *zap.Logger) *World {
	if log == nil {
		log = zap.NewNop()
	}
	return &World{
		Info:     info,
		Settings: settings,
		slots:    make(map[uint16]command.Complete),
		rng:      rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		log:      log,
	}
}

// Status returns the terminal failure, or nil while the session is live.
func (w *World) Status() *Status {
	return w.status
}

// Tick advances the simulation one step: every plane re-evaluates its
// standing command and moves (in slice order), each plane's landing/exit
// validity is checked right after its own motion, the cross-plane
// collision pass runs after all planes have moved, and only then are
// completed planes removed.
func (w *World) Tick() {
	if w.status != nil {
		return
	}

	var remove []int
	for i, p := range w.Planes {
		p.Tick(w.Info)
		if p.Loc.Airport != nil {
			continue
		}
		air := p.Loc.Air
		if air.Level == 0 {
			landed := false
			for _, ap := range w.Info.Airports {
				if ap.Location == air.Ground() && ap.LaunchDirection.Ordinal() == p.CurrentDir {
					landed = true
					break
				}
			}
			if landed {
				remove = append(remove, i)
			} else {
				w.status = &Status{Kind: StatusFailedLanding, A: p.Callsign}
			}
		} else {
			exited := false
			for _, e := range w.Info.Exits {
				if e.ExitLocation == air && e.ExitDirection == p.CurrentDir {
					remove = append(remove, i)
					exited = true
					break
				}
			}
			if !exited && w.Info.OnBorder(air.Ground()) {
				w.status = &Status{Kind: StatusExitedImproperly, A: p.Callsign}
			}
		}
	}

check:
	for _, a := range w.Planes {
		for _, b := range w.Planes {
			if a == b || a.Loc.Airport != nil || b.Loc.Airport != nil {
				continue
			}
			la, lb := a.Loc.Air, b.Loc.Air
			if absDiff(la.X, lb.X) <= 1 && absDiff(la.Y, lb.Y) <= 1 && absDiff(la.Level, lb.Level) <= 1 {
				w.status = &Status{Kind: StatusCrashed, A: a.Callsign, B: b.Callsign}
				break check
			}
		}
	}

	// Deferred removal: indices were collected in ascending order, and
	// each removal shifts the rest left, so compensate by the count
	// already removed.
	for j, idx := range remove {
		w.Planes = append(w.Planes[:idx-j], w.Planes[idx-j+1:]...)
		w.Landed++
	}

	if w.TickNo%w.Settings.SpawnRate == 0 {
		w.spawnPlane()
	}
	w.TickNo++
}

func absDiff(a, b uint16) uint16 {
	if a > b {
		return a - b
	}
	return b - a
}

// Dispatch routes a finalized command. A slot target stores the command
// in the registry (overwriting any previous occupant); a plane target
// dereferences every slot reference and hands the tree to the plane's
// interpreter. Addressing a callsign that does not exist is a silent
// no-op.
func (w *World) Dispatch(c command.Complete) {
	switch c.Target.Kind {
	case command.TargetSlot:
		w.slots[c.Target.Slot] = c
		w.log.Debug("stored slot command",
			zap.Uint16("slot", c.Target.Slot),
			zap.String("command", c.Head.Render(false)))
	case command.TargetPlane:
		head := Resolve(c.Head, w.slots)
		want := unicode.ToLower(c.Target.Plane)
		for _, p := range w.Planes {
			if unicode.ToLower(p.Callsign) == want {
				p.Exec(head, w.Info)
				return
			}
		}
		w.log.Debug("dispatch to unknown plane", zap.String("plane", string(c.Target.Plane)))
	}
}

// Commit finalizes and dispatches the current draft. It reports whether
// the draft was complete; an incomplete draft is left untouched.
func (w *World) Commit() bool {
	c, ok := w.Draft.Complete()
	if !ok {
		return false
	}
	w.Dispatch(c)
	w.Draft.Reset()
	return true
}

// FeedScript types a pre-game keystroke sequence into the draft. A colon
// commits the command built so far.
func (w *World) FeedScript(script string) {
	for _, ch := range script {
		if ch == ':' {
			w.Commit()
			continue
		}
		if w.Draft.Input(ch) == command.Unhandled {
			w.log.Debug("script keystroke dropped", zap.String("key", string(ch)))
		}
	}
}

// SlotList returns the registry contents ordered by slot number.
func (w *World) SlotList() []SlotEntry {
	entries := make([]SlotEntry, 0, len(w.slots))
	for n, c := range w.slots {
		entries = append(entries, SlotEntry{Number: n, Command: c})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Number < entries[j].Number })
	return entries
}

// spawnPlane adds a plane at a random entry point with a random
// destination, up to the 26-callsign limit. Jets get lowercase callsigns,
// props uppercase; callsigns are unique case-insensitively.
func (w *World) spawnPlane() {
	if len(w.Planes) >= 26 {
		return
	}
	start, ok := w.randomDestination(nil, false)
	if !ok {
		return
	}
	finish, ok := w.randomDestination(&start, true)
	if !ok {
		return
	}
	isJet := w.rng.IntN(2) == 0

	var callsign rune
pick:
	for {
		if isJet {
			callsign = rune('a' + w.rng.IntN(26))
		} else {
			callsign = rune('A' + w.rng.IntN(26))
		}
		for _, p := range w.Planes {
			if unicode.ToLower(p.Callsign) == unicode.ToLower(callsign) {
				continue pick
			}
		}
		break
	}

	w.Planes = append(w.Planes, &Plane{
		Loc:         start.Entry(),
		Dest:        finish,
		TargetLevel: start.EntryHeight(),
		Callsign:    callsign,
		IsJet:       isJet,
		CurrentDir:  start.EntryDir(),
		TargetDir:   start.EntryDir(),
		Show:        command.Marked,
	})
	w.log.Debug("spawned plane",
		zap.String("callsign", string(callsign)),
		zap.Bool("jet", isJet),
		zap.String("destination", finish.String()))
}

// randomDestination picks a spawn point or destination from the map's
// exits (and airports, when allowed), never equal to exclude.
func (w *World) randomDestination(exclude *Destination, isDest bool) (Destination, bool) {
	var pool []Destination
	for i := range w.Info.Exits {
		d := Destination{Exit: &w.Info.Exits[i]}
		if exclude != nil && d.sameAs(*exclude) {
			continue
		}
		pool = append(pool, d)
	}
	if !isDest || w.Settings.AllowLanding {
		for i := range w.Info.Airports {
			d := Destination{Airport: &w.Info.Airports[i]}
			if exclude != nil && d.sameAs(*exclude) {
				continue
			}
			pool = append(pool, d)
		}
	}
	if len(pool) == 0 {
		return Destination{}, false
	}
	return pool[w.rng.IntN(len(pool))], true
}
