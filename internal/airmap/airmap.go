// Package airmap loads and validates the static map data the simulation
// runs on: the grid size, the border exits, the beacons used as gating
// conditions, the airports, and cosmetic path markers. A couple of maps
// are compiled in; others load from YAML files.
package airmap

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"skytower/internal/geo"
)

//go:embed maps/*.yaml
var embeddedMaps embed.FS

// Airport is a ground cell planes launch from and land on, always along
// its launch direction.
type Airport struct {
	Index           uint16                `yaml:"index"`
	Location        geo.GroundLocation    `yaml:"location"`
	LaunchDirection geo.CardinalDirection `yaml:"launch_direction"`
}

// Beacon is a numbered ground marker commands can gate on.
type Beacon struct {
	Index    uint16             `yaml:"index"`
	Location geo.GroundLocation `yaml:"location"`
}

// Exit is a border crossing. Planes enter at the entry side and must
// leave through the exit side on the exit heading.
type Exit struct {
	Index          uint16               `yaml:"index"`
	EntryLocation  geo.AirLocation      `yaml:"entry_location"`
	EntryDirection geo.OrdinalDirection `yaml:"entry_direction"`
	ExitLocation   geo.AirLocation      `yaml:"exit_location"`
	ExitDirection  geo.OrdinalDirection `yaml:"exit_direction"`
}

// Static is everything about a map that never changes during play.
type Static struct {
	Name        string               `yaml:"name"`
	Author      string               `yaml:"author"`
	Width       uint16               `yaml:"width"`
	Height      uint16               `yaml:"height"`
	Exits       []Exit               `yaml:"exits"`
	Beacons     []Beacon             `yaml:"beacons"`
	Airports    []Airport            `yaml:"airports"`
	PathMarkers []geo.GroundLocation `yaml:"path_markers"`
}

// BeaconAt returns the beacon with the given index.
func (s *Static) BeaconAt(index uint16) (Beacon, bool) {
	for _, b := range s.Beacons {
		if b.Index == index {
			return b, true
		}
	}
	return Beacon{}, false
}

// OnBorder reports whether a cell lies on the map edge.
func (s *Static) OnBorder(loc geo.GroundLocation) bool {
	return loc.X == 0 || loc.X == s.Width-1 || loc.Y == 0 || loc.Y == s.Height-1
}

// Validate checks the structural constraints the simulation relies on.
func (s *Static) Validate() error {
	if s.Width < 3 || s.Height < 3 {
		return fmt.Errorf("map %q: grid %dx%d too small", s.Name, s.Width, s.Height)
	}
	if len(s.Exits) == 0 && len(s.Airports) == 0 {
		return fmt.Errorf("map %q: no exits or airports to spawn from", s.Name)
	}
	inside := func(loc geo.GroundLocation) bool {
		return loc.X < s.Width && loc.Y < s.Height
	}
	for _, b := range s.Beacons {
		if !inside(b.Location) {
			return fmt.Errorf("map %q: beacon %d outside the grid", s.Name, b.Index)
		}
	}
	for _, a := range s.Airports {
		if !inside(a.Location) {
			return fmt.Errorf("map %q: airport %d outside the grid", s.Name, a.Index)
		}
	}
	for _, e := range s.Exits {
		if !inside(e.EntryLocation.Ground()) || !inside(e.ExitLocation.Ground()) {
			return fmt.Errorf("map %q: exit %d outside the grid", s.Name, e.Index)
		}
	}
	return nil
}

func parse(data []byte, source string) (*Static, error) {
	var m Static
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing map %s: %w", source, err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Load resolves a map by name or path: an exact file path, the path with
// a .yaml suffix, a compiled-in map name, then maps/<name>.yaml relative
// to the working directory.
func Load(name string) (*Static, error) {
	for _, candidate := range []string{name, name + ".yaml"} {
		if data, err := os.ReadFile(candidate); err == nil {
			return parse(data, candidate)
		}
	}
	if data, err := embeddedMaps.ReadFile("maps/" + name + ".yaml"); err == nil {
		return parse(data, name)
	}
	local := filepath.Join("maps", name+".yaml")
	if data, err := os.ReadFile(local); err == nil {
		return parse(data, local)
	}
	return nil, fmt.Errorf("map %q not found", name)
}

// List returns every available map: the compiled-in set plus any .yaml
// files under a local maps/ directory, sorted by name. Unparseable files
// are skipped.
func List() ([]*Static, error) {
	byName := make(map[string]*Static)
	entries, err := fs.ReadDir(embeddedMaps, "maps")
	if err != nil {
		return nil, fmt.Errorf("reading embedded maps: %w", err)
	}
	for _, e := range entries {
		data, err := embeddedMaps.ReadFile("maps/" + e.Name())
		if err != nil {
			continue
		}
		if m, err := parse(data, e.Name()); err == nil {
			byName[m.Name] = m
		}
	}
	if locals, err := os.ReadDir("maps"); err == nil {
		for _, e := range locals {
			if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
				continue
			}
			data, err := os.ReadFile(filepath.Join("maps", e.Name()))
			if err != nil {
				continue
			}
			if m, err := parse(data, e.Name()); err == nil {
				byName[m.Name] = m
			}
		}
	}
	names := make([]string, 0, len(byName))
	for n := range byName {
		names = append(names, n)
	}
	sort.Strings(names)
	maps := make([]*Static, 0, len(names))
	for _, n := range names {
		maps = append(maps, byName[n])
	}
	return maps, nil
}
