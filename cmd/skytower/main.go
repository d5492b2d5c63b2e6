package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"skytower/cmd/skytower/ui"
	"skytower/internal/airmap"
	"skytower/internal/config"
	"skytower/internal/sim"
)

var (
	flagList       bool
	flagMap        string
	flagSpawnRate  uint32
	flagTickRate   float64
	flagNoLanding  bool
	flagInitialize string
	flagConfig     string
	flagLogFile    string
	flagVerbose    bool

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "skytower",
	Short: "skytower - terminal air traffic control",
	Long: `skytower is an interactive air traffic simulation.

Planes enter the map and must reach their destinations without colliding
or leaving improperly. Commands are typed one keystroke at a time and
dispatched with Enter: address a plane by its callsign letter (or a
numbered command slot with $), then build the command body:

  a        altitude: digit sets the level, +/- then a digit climbs/descends
  t or h   turn: pick a heading with wasd-, vi- or keypad-style keys
  ) or (   circle clockwise / counter-clockwise
  m u i    mark / unmark / ignore
  $N       run the command stored in slot N

A finished command can be extended: 'a' or '@' gates it on a beacon,
'&' or ',' sequences another command after it, '!' delays it by a tick
count. Backspace undoes one step at a time; Esc cancels the draft.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if flagLogFile == "" {
			flagLogFile = os.Getenv("SKYTOWER_LOG_FILE")
		}
		var err error
		logger, err = buildLogger(flagLogFile)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: run,
}

func init() {
	f := rootCmd.Flags()
	f.BoolVarP(&flagList, "list", "l", false, "list available maps and exit")
	f.StringVarP(&flagMap, "map", "m", "", "map to play on (name or file path)")
	f.Uint32VarP(&flagSpawnRate, "plane-spawn-rate", "p", 0, "ticks between plane spawns")
	f.Float64VarP(&flagTickRate, "tick-rate", "t", 0, "seconds between ticks, decimals allowed")
	f.BoolVarP(&flagNoLanding, "disallow-landing", "L", false, "plane destinations will always be exits")
	f.StringVarP(&flagInitialize, "initialize", "i", "", "keystrokes to enter before the game starts; ':' commits a command")
	f.StringVar(&flagConfig, "config", "", "config file (default: the user config dir)")
	f.StringVar(&flagLogFile, "log-file", "", "write diagnostics to this file")
	f.BoolVarP(&flagVerbose, "verbose", "v", false, "debug-level diagnostics")
}

func buildLogger(path string) (*zap.Logger, error) {
	if path == "" {
		return zap.NewNop(), nil
	}
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}
	if flagVerbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	log, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return log, nil
}

func listMaps() error {
	maps, err := airmap.List()
	if err != nil {
		return err
	}
	t := table.New().Headers("Map", "Author", "Size")
	for _, m := range maps {
		t.Row(m.Name, m.Author, fmt.Sprintf("%dx%d", m.Width, m.Height))
	}
	fmt.Println(t)
	return nil
}

func loadSettings(cmd *cobra.Command) (config.Settings, error) {
	path := flagConfig
	if path == "" {
		path = config.DefaultPath()
	}
	settings, err := config.Load(path)
	if err != nil {
		return settings, err
	}
	// Flags beat env beats file beats defaults.
	if cmd.Flags().Changed("map") {
		settings.Map = flagMap
	}
	if cmd.Flags().Changed("tick-rate") {
		settings.TickRate = flagTickRate
	}
	if cmd.Flags().Changed("plane-spawn-rate") {
		settings.SpawnRate = flagSpawnRate
	}
	if cmd.Flags().Changed("disallow-landing") {
		settings.AllowLanding = !flagNoLanding
	}
	if cmd.Flags().Changed("log-file") {
		settings.LogFile = flagLogFile
	}
	return settings, settings.Validate()
}

func run(cmd *cobra.Command, args []string) error {
	if flagList {
		return listMaps()
	}

	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	// A log file from the config file only becomes known now, after the
	// logger was first set up from the flag and environment.
	if flagLogFile == "" && settings.LogFile != "" {
		if logger, err = buildLogger(settings.LogFile); err != nil {
			return err
		}
	}

	info, err := airmap.Load(settings.Map)
	if err != nil {
		return err
	}
	logger.Info("starting session",
		zap.String("map", info.Name),
		zap.Float64("tick_rate", settings.TickRate),
		zap.Uint32("spawn_rate", settings.SpawnRate))

	world := sim.New(info, settings, logger)
	if flagInitialize != "" {
		world.FeedScript(flagInitialize)
	}

	model := ui.New(world, settings.TickInterval(), logger)
	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("running session: %w", err)
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
