package ui

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"skytower/internal/command"
	"skytower/internal/sim"
)

// TickMsg advances the simulation. Seq guards against stale timers: a
// manual tick bumps the sequence so the already-scheduled timer tick is
// discarded instead of double-stepping the world.
type TickMsg struct {
	Seq int
}

// KeyMap holds the control bindings. Everything else — letters, digits,
// punctuation — belongs to the command grammar and is fed through raw.
type KeyMap struct {
	Quit   key.Binding
	Cancel key.Binding
	Commit key.Binding
	Erase  key.Binding
}

// DefaultKeyMap returns the standard control bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit:   key.NewBinding(key.WithKeys("ctrl+c")),
		Cancel: key.NewBinding(key.WithKeys("esc")),
		Commit: key.NewBinding(key.WithKeys("enter")),
		Erase:  key.NewBinding(key.WithKeys("backspace")),
	}
}

// Model is the bubbletea model for a session. Keystrokes and timer ticks
// both arrive as messages on the same update loop, so world mutation is
// strictly serialized — the simulation core relies on that.
type Model struct {
	world    *sim.World
	interval time.Duration
	styles   Styles
	keys     KeyMap
	log      *zap.Logger

	tickSeq int
	width   int
	height  int
}

// New builds a model around an initialized world. A nil logger disables
// diagnostics.
func New(world *sim.World, interval time.Duration, log *zap.Logger) Model {
	if log == nil {
		log = zap.NewNop()
	}
	return Model{
		world:    world,
		interval: interval,
		styles:   DefaultStyles(),
		keys:     DefaultKeyMap(),
		log:      log,
	}
}

// World exposes the underlying simulation, mainly for tests.
func (m Model) World() *sim.World {
	return m.world
}

func (m Model) tickCmd() tea.Cmd {
	seq := m.tickSeq
	return tea.Tick(m.interval, func(time.Time) tea.Msg {
		return TickMsg{Seq: seq}
	})
}

func (m Model) Init() tea.Cmd {
	return m.tickCmd()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case TickMsg:
		if msg.Seq != m.tickSeq {
			return m, nil
		}
		m.world.Tick()
		if m.world.Status() != nil {
			// Frozen: stop rescheduling the timer. The key loop stays
			// alive so the operator can read the final frame.
			return m, nil
		}
		return m, m.tickCmd()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	frozen := m.world.Status() != nil

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Cancel):
		m.world.Draft.Reset()
		return m, nil

	case key.Matches(msg, m.keys.Commit):
		if frozen {
			return m, nil
		}
		if m.world.Draft.IsEmpty() {
			// Manual tick; restart the timer from now.
			m.tickSeq++
			m.world.Tick()
			if m.world.Status() != nil {
				return m, nil
			}
			return m, m.tickCmd()
		}
		if !m.world.Commit() {
			m.log.Debug("commit of incomplete command ignored",
				zap.String("draft", m.world.Draft.String()))
		}
		return m, nil

	case key.Matches(msg, m.keys.Erase):
		m.world.Draft.Input(command.Erase)
		return m, nil
	}

	if msg.Type == tea.KeyRunes {
		for _, r := range msg.Runes {
			if frozen && (r == 'q' || r == 'Q') {
				return m, tea.Quit
			}
			if m.world.Draft.Input(r) == command.Unhandled {
				m.log.Debug("keystroke dropped", zap.String("key", string(r)))
			}
		}
	}
	return m, nil
}
