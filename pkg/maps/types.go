// Package maps holds the map model: the immutable StaticMap, the per-turn
// CurrentMap layered on top of it, editor brushes, generation and map files.
package maps

import (
	"fmt"

	"battlecode-client/internal/game"
)

// Map size bounds. The editor clamps to MinMapSize..MaxMapSize; replays
// produced by the engine may use up to EngineMaxMapSize.
const (
	MinMapSize       = 20
	MaxMapSize       = 60
	EngineMaxMapSize = 64

	DefaultMapSize = 30
)

// Layout is the plain layer data of a map, as read from or written to files.
type Layout struct {
	Name     string
	Width    int
	Height   int
	Symmetry game.Symmetry
	Seed     int32
	Walls    []bool
	Clouds   []bool
	Currents []game.Direction
	Islands  []int32
	Wells    []game.ResourceType
}

// StaticMap is the immutable description of a map. Only the display name may
// change after construction.
type StaticMap struct {
	name     string
	width    int
	height   int
	symmetry game.Symmetry
	seed     int32

	walls    []bool
	clouds   []bool
	currents []game.Direction
	islands  []int32
	wells    []game.ResourceType
}

// FromParams creates an empty map. Width and height are clamped into
// [MinMapSize, MaxMapSize]; an unknown symmetry falls back to Rotational.
func FromParams(width, height int, symmetry game.Symmetry) *StaticMap {
	if !symmetry.Valid() {
		symmetry = game.Rotational
	}
	width = clamp(width, MinMapSize, MaxMapSize)
	height = clamp(height, MinMapSize, MaxMapSize)
	n := width * height
	return &StaticMap{
		width:    width,
		height:   height,
		symmetry: symmetry,
		walls:    make([]bool, n),
		clouds:   make([]bool, n),
		currents: make([]game.Direction, n),
		islands:  make([]int32, n),
		wells:    make([]game.ResourceType, n),
	}
}

// NewStaticMap builds a map from layer data. Missing layers are treated as
// empty; layers of the wrong length are rejected.
func NewStaticMap(l Layout) (*StaticMap, error) {
	if l.Width < 1 || l.Height < 1 || l.Width > EngineMaxMapSize || l.Height > EngineMaxMapSize {
		return nil, fmt.Errorf("invalid dimensions: %dx%d", l.Width, l.Height)
	}
	if !l.Symmetry.Valid() {
		return nil, fmt.Errorf("%w: %d", game.ErrInvalidSymmetry, l.Symmetry)
	}
	n := l.Width * l.Height

	m := &StaticMap{
		name:     l.Name,
		width:    l.Width,
		height:   l.Height,
		symmetry: l.Symmetry,
		seed:     l.Seed,
	}
	var err error
	if m.walls, err = layer(l.Walls, n, "walls"); err != nil {
		return nil, err
	}
	if m.clouds, err = layer(l.Clouds, n, "clouds"); err != nil {
		return nil, err
	}
	if m.currents, err = layer(l.Currents, n, "currents"); err != nil {
		return nil, err
	}
	if m.islands, err = layer(l.Islands, n, "islands"); err != nil {
		return nil, err
	}
	if m.wells, err = layer(l.Wells, n, "resources"); err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		if !m.currents[i].Valid() {
			return nil, fmt.Errorf("invalid current %d at cell %d", m.currents[i], i)
		}
		if !m.wells[i].Valid() {
			return nil, fmt.Errorf("invalid resource %d at cell %d", m.wells[i], i)
		}
		if m.islands[i] < 0 {
			return nil, fmt.Errorf("invalid island id %d at cell %d", m.islands[i], i)
		}
	}
	return m, nil
}

func layer[T any](src []T, n int, name string) ([]T, error) {
	if src == nil {
		return make([]T, n), nil
	}
	if len(src) != n {
		return nil, fmt.Errorf("%s layer length mismatch: expected %d, got %d", name, n, len(src))
	}
	return append([]T(nil), src...), nil
}

// Name returns the display name.
func (m *StaticMap) Name() string { return m.name }

// SetName assigns the display name.
func (m *StaticMap) SetName(name string) { m.name = name }

// Width returns the number of columns.
func (m *StaticMap) Width() int { return m.width }

// Height returns the number of rows.
func (m *StaticMap) Height() int { return m.height }

// Symmetry returns the mirroring rule of the map.
func (m *StaticMap) Symmetry() game.Symmetry { return m.symmetry }

// Seed returns the random seed recorded with the map.
func (m *StaticMap) Seed() int32 { return m.seed }

// CellCount returns width*height.
func (m *StaticMap) CellCount() int { return m.width * m.height }

// InBounds reports whether (x, y) is a cell of the map.
func (m *StaticMap) InBounds(x, y int) bool {
	return x >= 0 && x < m.width && y >= 0 && y < m.height
}

// Index converts a coordinate into a cell index, or -1 when out of bounds.
func (m *StaticMap) Index(x, y int) int {
	if !m.InBounds(x, y) {
		return -1
	}
	return y*m.width + x
}

// Location converts a cell index back into a coordinate.
func (m *StaticMap) Location(i int) (int, int) {
	return i % m.width, i / m.width
}

// SymmetricPoint returns the cell mirrored to (x, y) under the map's symmetry.
func (m *StaticMap) SymmetricPoint(x, y int) (int, int) {
	switch m.symmetry {
	case game.Horizontal:
		return x, m.height - 1 - y
	case game.Vertical:
		return m.width - 1 - x, y
	default:
		return m.width - 1 - x, m.height - 1 - y
	}
}

// SymmetricDirection mirrors a current direction the same way SymmetricPoint
// mirrors a cell.
func (m *StaticMap) SymmetricDirection(d game.Direction) game.Direction {
	switch m.symmetry {
	case game.Horizontal:
		return d.FlipY()
	case game.Vertical:
		return d.FlipX()
	default:
		return d.Opposite()
	}
}

// WallAt reports whether the cell holds a wall.
func (m *StaticMap) WallAt(x, y int) bool {
	i := m.Index(x, y)
	return i >= 0 && m.walls[i]
}

// CloudAt reports whether the cell is covered by a cloud.
func (m *StaticMap) CloudAt(x, y int) bool {
	i := m.Index(x, y)
	return i >= 0 && m.clouds[i]
}

// CurrentAt returns the current direction of the cell.
func (m *StaticMap) CurrentAt(x, y int) game.Direction {
	if i := m.Index(x, y); i >= 0 {
		return m.currents[i]
	}
	return game.Center
}

// IslandAt returns the island id of the cell, 0 when none.
func (m *StaticMap) IslandAt(x, y int) int32 {
	if i := m.Index(x, y); i >= 0 {
		return m.islands[i]
	}
	return 0
}

// WellAt returns the resource well of the cell.
func (m *StaticMap) WellAt(x, y int) game.ResourceType {
	if i := m.Index(x, y); i >= 0 {
		return m.wells[i]
	}
	return game.ResourceNone
}

// IsEmpty reports whether every terrain cell is at its default value.
func (m *StaticMap) IsEmpty() bool {
	return layersEmpty(m.walls, m.clouds, m.currents, m.islands, m.wells)
}

// Layout returns a copy of the map's layer data.
func (m *StaticMap) Layout() Layout {
	return Layout{
		Name:     m.name,
		Width:    m.width,
		Height:   m.height,
		Symmetry: m.symmetry,
		Seed:     m.seed,
		Walls:    append([]bool(nil), m.walls...),
		Clouds:   append([]bool(nil), m.clouds...),
		Currents: append([]game.Direction(nil), m.currents...),
		Islands:  append([]int32(nil), m.islands...),
		Wells:    append([]game.ResourceType(nil), m.wells...),
	}
}

// IslandIDs returns the distinct island ids present on the map in ascending order.
func (m *StaticMap) IslandIDs() []int32 {
	return distinctIslands(m.islands)
}

// Validate checks that the map's walls, clouds, wells and currents respect
// its symmetry.
func (m *StaticMap) Validate() error {
	for y := 0; y < m.height; y++ {
		for x := 0; x < m.width; x++ {
			sx, sy := m.SymmetricPoint(x, y)
			i, j := m.Index(x, y), m.Index(sx, sy)
			if m.walls[i] != m.walls[j] {
				return fmt.Errorf("wall at (%d,%d) breaks %s symmetry", x, y, m.symmetry)
			}
			if m.clouds[i] != m.clouds[j] {
				return fmt.Errorf("cloud at (%d,%d) breaks %s symmetry", x, y, m.symmetry)
			}
			if m.wells[i] != m.wells[j] {
				return fmt.Errorf("resource well at (%d,%d) breaks %s symmetry", x, y, m.symmetry)
			}
			if i != j && m.currents[j] != m.SymmetricDirection(m.currents[i]) {
				return fmt.Errorf("current at (%d,%d) breaks %s symmetry", x, y, m.symmetry)
			}
		}
	}
	return nil
}

func layersEmpty(walls, clouds []bool, currents []game.Direction, islands []int32, wells []game.ResourceType) bool {
	for i := range walls {
		if walls[i] || clouds[i] || currents[i] != game.Center || islands[i] != 0 || wells[i] != game.ResourceNone {
			return false
		}
	}
	return true
}
