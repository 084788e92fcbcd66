package maps

import (
	"battlecode-client/internal/game"
)

// BrushKind tags the variant of an editor brush.
type BrushKind int

const (
	BrushWalls BrushKind = iota
	BrushClouds
	BrushCurrents
	BrushIslands
	BrushWells
	BrushBodies
)

// String returns the brush kind name.
func (k BrushKind) String() string {
	switch k {
	case BrushWalls:
		return "Walls"
	case BrushClouds:
		return "Clouds"
	case BrushCurrents:
		return "Currents"
	case BrushIslands:
		return "Islands"
	case BrushWells:
		return "Resources"
	case BrushBodies:
		return "Bodies"
	default:
		return "Unknown"
	}
}

// Brush is an editor tool over one map cell. Each variant carries its own
// typed parameters; Apply edits the cell and its symmetric counterpart and
// reports whether anything changed. Invalid or blocked cells are a no-op.
type Brush interface {
	Kind() BrushKind
	Name() string
	Open() bool
	SetOpen(open bool)
	Apply(x, y int) bool
}

// Occupancy reports whether a body stands on a cell.
type Occupancy interface {
	Occupied(x, y int) bool
}

type brushState struct {
	open bool
}

func (b *brushState) Open() bool        { return b.open }
func (b *brushState) SetOpen(open bool) { b.open = open }

// mapBrush is the shared part of every map layer brush.
type mapBrush struct {
	brushState
	m   *CurrentMap
	occ Occupancy
}

// blocked reports whether a body stands on the cell or its mirror.
func (b *mapBrush) blocked(x, y int) bool {
	if !b.m.static.InBounds(x, y) {
		return true
	}
	if b.occ == nil {
		return false
	}
	sx, sy := b.m.static.SymmetricPoint(x, y)
	return b.occ.Occupied(x, y) || b.occ.Occupied(sx, sy)
}

// WallBrush adds or removes walls.
type WallBrush struct {
	mapBrush
	Add bool
}

func (b *WallBrush) Kind() BrushKind { return BrushWalls }
func (b *WallBrush) Name() string    { return "Walls" }

// Apply paints or erases a wall. Painting clears wells, currents and
// islands on the cell.
func (b *WallBrush) Apply(x, y int) bool {
	if b.Add && b.blocked(x, y) {
		return false
	}
	return b.m.setCell(x, y, func(i int, _ bool) bool {
		if b.m.walls[i] == b.Add {
			return false
		}
		b.m.walls[i] = b.Add
		if b.Add {
			b.m.wells[i] = game.ResourceNone
			b.m.currents[i] = game.Center
			b.m.islands[i] = 0
		}
		return true
	})
}

// CloudBrush adds or removes clouds.
type CloudBrush struct {
	mapBrush
	Add bool
}

func (b *CloudBrush) Kind() BrushKind { return BrushClouds }
func (b *CloudBrush) Name() string    { return "Clouds" }

func (b *CloudBrush) Apply(x, y int) bool {
	return b.m.setCell(x, y, func(i int, _ bool) bool {
		if b.m.walls[i] || b.m.clouds[i] == b.Add {
			return false
		}
		if b.Add && b.m.currents[i] != game.Center {
			return false
		}
		b.m.clouds[i] = b.Add
		return true
	})
}

// CurrentBrush paints a current direction. Center erases.
type CurrentBrush struct {
	mapBrush
	Direction game.Direction
}

func (b *CurrentBrush) Kind() BrushKind { return BrushCurrents }
func (b *CurrentBrush) Name() string    { return "Currents" }

func (b *CurrentBrush) Apply(x, y int) bool {
	if !b.Direction.Valid() {
		return false
	}
	return b.m.setCell(x, y, func(i int, mirrored bool) bool {
		d := b.Direction
		if mirrored {
			d = b.m.static.SymmetricDirection(d)
		}
		if b.m.walls[i] || b.m.clouds[i] || b.m.currents[i] == d {
			return false
		}
		b.m.currents[i] = d
		return true
	})
}

// IslandBrush paints island cells. The mirrored cell gets the paired island id.
type IslandBrush struct {
	mapBrush
	Island int32
	Add    bool
}

func (b *IslandBrush) Kind() BrushKind { return BrushIslands }
func (b *IslandBrush) Name() string    { return "Islands" }

func (b *IslandBrush) Apply(x, y int) bool {
	if b.Add && b.Island <= 0 {
		return false
	}
	return b.m.setCell(x, y, func(i int, mirrored bool) bool {
		id := int32(0)
		if b.Add {
			id = b.Island
			if mirrored {
				id = MirrorIsland(id)
			}
		}
		if b.m.walls[i] || b.m.islands[i] == id {
			return false
		}
		b.m.islands[i] = id
		return true
	})
}

// WellBrush places or removes resource wells.
type WellBrush struct {
	mapBrush
	Resource game.ResourceType
	Add      bool
}

func (b *WellBrush) Kind() BrushKind { return BrushWells }
func (b *WellBrush) Name() string    { return "Resources" }

func (b *WellBrush) Apply(x, y int) bool {
	want := game.ResourceNone
	if b.Add {
		if b.Resource == game.ResourceNone || !b.Resource.Valid() || b.blocked(x, y) {
			return false
		}
		want = b.Resource
	}
	return b.m.setCell(x, y, func(i int, _ bool) bool {
		if b.m.walls[i] || b.m.wells[i] == want {
			return false
		}
		b.m.wells[i] = want
		return true
	})
}

// GetEditorBrushes returns the map layer brushes, in editor order. occ may
// be nil when no bodies need to be respected.
func (c *CurrentMap) GetEditorBrushes(occ Occupancy) []Brush {
	base := func() mapBrush { return mapBrush{m: c, occ: occ} }
	return []Brush{
		&WallBrush{mapBrush: base(), Add: true},
		&CloudBrush{mapBrush: base(), Add: true},
		&CurrentBrush{mapBrush: base(), Direction: game.North},
		&IslandBrush{mapBrush: base(), Island: 1, Add: true},
		&WellBrush{mapBrush: base(), Resource: game.ResourceAdamantium, Add: true},
	}
}

// OpenBrush returns the open brush of a set, or nil.
func OpenBrush(brushes []Brush) Brush {
	for _, b := range brushes {
		if b.Open() {
			return b
		}
	}
	return nil
}

// SetOpenBrush opens the given brush and closes every other one. A nil
// brush closes all of them.
func SetOpenBrush(brushes []Brush, open Brush) {
	for _, b := range brushes {
		b.SetOpen(b == open)
	}
}

var (
	_ Brush = &WallBrush{}
	_ Brush = &CloudBrush{}
	_ Brush = &CurrentBrush{}
	_ Brush = &IslandBrush{}
	_ Brush = &WellBrush{}
)
