// Package config holds the runtime settings for a skytower session:
// which map to play, how fast the simulation ticks, how often planes
// spawn, and where diagnostics go. Settings come from an optional YAML
// file, overridden by environment variables, overridden by flags.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Settings is the full session configuration.
type Settings struct {
	// Map is a map name, an exact file path, or a path without the
	// .yaml suffix.
	Map string `yaml:"map"`
	// TickRate is the delay between simulation ticks in seconds.
	TickRate float64 `yaml:"tick_rate"`
	// SpawnRate is the number of ticks between plane spawns.
	SpawnRate uint32 `yaml:"plane_spawn_rate"`
	// AllowLanding controls whether plane destinations may be airports.
	AllowLanding bool `yaml:"allow_landing"`
	// LogFile receives zap diagnostics; empty disables logging.
	LogFile string `yaml:"log_file"`
}

// Default returns the settings used when nothing is configured.
func Default() Settings {
	return Settings{
		Map:          "crossing",
		TickRate:     1.0,
		SpawnRate:    30,
		AllowLanding: true,
	}
}

// TickInterval converts the tick rate to a duration.
func (s Settings) TickInterval() time.Duration {
	return time.Duration(s.TickRate * float64(time.Second))
}

// DefaultPath returns the conventional config file location.
func DefaultPath() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(base, "skytower", "config.yaml")
}

// Load reads settings from path, falling back to defaults when the file
// does not exist, then applies environment overrides.
func Load(path string) (Settings, error) {
	s := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// Missing config is not an error.
		case err != nil:
			return s, fmt.Errorf("reading config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, &s); err != nil {
				return s, fmt.Errorf("parsing config %s: %w", path, err)
			}
		}
	}
	s.applyEnvOverrides()
	if err := s.Validate(); err != nil {
		return s, err
	}
	return s, nil
}

// Validate rejects settings the simulation cannot run with.
func (s Settings) Validate() error {
	if s.Map == "" {
		return fmt.Errorf("no map configured")
	}
	if s.TickRate <= 0 {
		return fmt.Errorf("tick_rate must be positive, got %v", s.TickRate)
	}
	if s.SpawnRate == 0 {
		return fmt.Errorf("plane_spawn_rate must be positive")
	}
	return nil
}

func (s *Settings) applyEnvOverrides() {
	if v := os.Getenv("SKYTOWER_MAP"); v != "" {
		s.Map = v
	}
	if v := os.Getenv("SKYTOWER_TICK_RATE"); v != "" {
		if rate, err := strconv.ParseFloat(v, 64); err == nil && rate > 0 {
			s.TickRate = rate
		}
	}
	if v := os.Getenv("SKYTOWER_SPAWN_RATE"); v != "" {
		if rate, err := strconv.ParseUint(v, 10, 32); err == nil && rate > 0 {
			s.SpawnRate = uint32(rate)
		}
	}
	if v := os.Getenv("SKYTOWER_LOG_FILE"); v != "" {
		s.LogFile = v
	}
	if v := os.Getenv("SKYTOWER_DISALLOW_LANDING"); v != "" {
		if disallow, err := strconv.ParseBool(v); err == nil {
			s.AllowLanding = !disallow
		}
	}
}
