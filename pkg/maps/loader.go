package maps

import (
	"embed"
	"encoding/json"
	"fmt"
	"path"
	"sort"
	"sync"

	"battlecode-client/internal/game"
)

//go:embed data/*.json
var mapFiles embed.FS

// RawMap is the format stored in the embedded JSON files: the generator
// settings of a built-in map.
type RawMap struct {
	Name     string `json:"name"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Symmetry int    `json:"symmetry"`
	Seed     int64  `json:"seed"`
	Walls    int    `json:"walls"`
	Clouds   int    `json:"clouds"`
	Currents int    `json:"currents"`
	Islands  int    `json:"islands"`
	Wells    int    `json:"wells"`
}

// BuiltIn is a generated built-in map.
type BuiltIn struct {
	Map    *StaticMap
	Bodies []InitialBody
}

var (
	registry = make(map[string]*BuiltIn)
	loadOnce sync.Once
	loadErr  error
)

// LoadAll loads all embedded maps into the registry. Only the first call
// does any work; later calls return its result. Get and List call it.
func LoadAll() error {
	loadOnce.Do(func() { loadErr = loadAll() })
	return loadErr
}

func loadAll() error {
	entries, err := mapFiles.ReadDir("data")
	if err != nil {
		return fmt.Errorf("failed to read map directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		m, err := Load(entry.Name())
		if err != nil {
			return fmt.Errorf("failed to load map %s: %w", entry.Name(), err)
		}

		registry[m.Map.Name()] = m
	}

	return nil
}

// Load loads a single map by filename.
func Load(filename string) (*BuiltIn, error) {
	data, err := mapFiles.ReadFile(path.Join("data", filename))
	if err != nil {
		return nil, fmt.Errorf("failed to read map file: %w", err)
	}
	return LoadFromJSON(data)
}

// LoadFromJSON generates a map from JSON generator settings.
func LoadFromJSON(data []byte) (*BuiltIn, error) {
	var raw RawMap
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse map JSON: %w", err)
	}

	if err := validate(&raw); err != nil {
		return nil, fmt.Errorf("invalid map: %w", err)
	}

	current, bodies := NewGenerator(GeneratorOptions{
		Width:    raw.Width,
		Height:   raw.Height,
		Symmetry: game.Symmetry(raw.Symmetry),
		Seed:     raw.Seed,
		Walls:    raw.Walls,
		Clouds:   raw.Clouds,
		Currents: raw.Currents,
		Islands:  raw.Islands,
		Wells:    raw.Wells,
	}).Generate()
	return &BuiltIn{Map: current.Freeze(raw.Name), Bodies: bodies}, nil
}

// validate checks a raw map for errors.
func validate(raw *RawMap) error {
	if raw.Name == "" {
		return fmt.Errorf("map name is required")
	}
	if raw.Width < MinMapSize || raw.Width > MaxMapSize || raw.Height < MinMapSize || raw.Height > MaxMapSize {
		return fmt.Errorf("invalid dimensions: %dx%d", raw.Width, raw.Height)
	}
	if _, err := game.ParseSymmetry(raw.Symmetry); err != nil {
		return err
	}
	return nil
}

// Get retrieves a map from the registry by name.
func Get(name string) *BuiltIn {
	_ = LoadAll()
	return registry[name]
}

// MapInfo contains basic map information for listing.
type MapInfo struct {
	Name     string `json:"name"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Symmetry string `json:"symmetry"`
}

// Info summarizes a map.
func Info(m *StaticMap) MapInfo {
	return MapInfo{
		Name:     m.Name(),
		Width:    m.Width(),
		Height:   m.Height(),
		Symmetry: m.Symmetry().String(),
	}
}

// List returns all built-in maps sorted by name.
func List() []MapInfo {
	_ = LoadAll()
	infos := make([]MapInfo, 0, len(registry))
	for _, m := range registry {
		infos = append(infos, Info(m.Map))
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}
