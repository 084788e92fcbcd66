package maps

import (
	"fmt"

	"battlecode-client/internal/game"
)

// CurrentMap is the mutable per-turn view of a map. It references a shared
// StaticMap and carries its own copy of the editable layers plus the state
// that changes during play.
type CurrentMap struct {
	static *StaticMap

	walls    []bool
	clouds   []bool
	currents []game.Direction
	islands  []int32
	wells    []game.ResourceType

	wellAmounts  []int32
	islandOwners map[int32]game.Team
}

// NewCurrentMap creates the turn-0 view of a static map.
func NewCurrentMap(static *StaticMap) *CurrentMap {
	l := static.Layout()
	return &CurrentMap{
		static:       static,
		walls:        l.Walls,
		clouds:       l.Clouds,
		currents:     l.Currents,
		islands:      l.Islands,
		wells:        l.Wells,
		wellAmounts:  make([]int32, static.CellCount()),
		islandOwners: make(map[int32]game.Team),
	}
}

// StaticMap returns the shared map this view is layered on.
func (c *CurrentMap) StaticMap() *StaticMap { return c.static }

// Width returns the number of columns.
func (c *CurrentMap) Width() int { return c.static.width }

// Height returns the number of rows.
func (c *CurrentMap) Height() int { return c.static.height }

func (c *CurrentMap) checkIndex(i int) error {
	if i < 0 || i >= len(c.walls) {
		return fmt.Errorf("%w: cell %d", game.ErrOutOfBounds, i)
	}
	return nil
}

// WallAt reports whether the cell holds a wall.
func (c *CurrentMap) WallAt(x, y int) bool {
	i := c.static.Index(x, y)
	return i >= 0 && c.walls[i]
}

// CloudAt reports whether the cell is covered by a cloud.
func (c *CurrentMap) CloudAt(x, y int) bool {
	i := c.static.Index(x, y)
	return i >= 0 && c.clouds[i]
}

// CurrentAt returns the current direction of the cell.
func (c *CurrentMap) CurrentAt(x, y int) game.Direction {
	if i := c.static.Index(x, y); i >= 0 {
		return c.currents[i]
	}
	return game.Center
}

// IslandAt returns the island id of the cell, 0 when none.
func (c *CurrentMap) IslandAt(x, y int) int32 {
	if i := c.static.Index(x, y); i >= 0 {
		return c.islands[i]
	}
	return 0
}

// WellAt returns the resource well of the cell.
func (c *CurrentMap) WellAt(x, y int) game.ResourceType {
	if i := c.static.Index(x, y); i >= 0 {
		return c.wells[i]
	}
	return game.ResourceNone
}

// WellAmount returns the resources held by the well at cell index i.
func (c *CurrentMap) WellAmount(i int) int32 {
	if c.checkIndex(i) != nil {
		return 0
	}
	return c.wellAmounts[i]
}

// SetWellAmount stores a well amount and returns the previous one.
func (c *CurrentMap) SetWellAmount(i int, amount int32) (int32, error) {
	if err := c.checkIndex(i); err != nil {
		return 0, err
	}
	prev := c.wellAmounts[i]
	c.wellAmounts[i] = amount
	return prev, nil
}

// IslandOwner returns the team controlling an island.
func (c *CurrentMap) IslandOwner(id int32) game.Team {
	return c.islandOwners[id]
}

// SetIslandOwner records the team controlling an island and returns the
// previous owner. TeamNone clears the entry.
func (c *CurrentMap) SetIslandOwner(id int32, team game.Team) game.Team {
	prev := c.islandOwners[id]
	if team == game.TeamNone {
		delete(c.islandOwners, id)
	} else {
		c.islandOwners[id] = team
	}
	return prev
}

// IsEmpty reports whether every layer is at the default of an empty map and
// no play state has been recorded.
func (c *CurrentMap) IsEmpty() bool {
	if !layersEmpty(c.walls, c.clouds, c.currents, c.islands, c.wells) {
		return false
	}
	for _, a := range c.wellAmounts {
		if a != 0 {
			return false
		}
	}
	return len(c.islandOwners) == 0
}

// Freeze snapshots the editable layers into a new StaticMap.
func (c *CurrentMap) Freeze(name string) *StaticMap {
	return &StaticMap{
		name:     name,
		width:    c.static.width,
		height:   c.static.height,
		symmetry: c.static.symmetry,
		seed:     c.static.seed,
		walls:    append([]bool(nil), c.walls...),
		clouds:   append([]bool(nil), c.clouds...),
		currents: append([]game.Direction(nil), c.currents...),
		islands:  append([]int32(nil), c.islands...),
		wells:    append([]game.ResourceType(nil), c.wells...),
	}
}

// Clone returns a deep copy sharing the same StaticMap.
func (c *CurrentMap) Clone() *CurrentMap {
	owners := make(map[int32]game.Team, len(c.islandOwners))
	for id, t := range c.islandOwners {
		owners[id] = t
	}
	return &CurrentMap{
		static:       c.static,
		walls:        append([]bool(nil), c.walls...),
		clouds:       append([]bool(nil), c.clouds...),
		currents:     append([]game.Direction(nil), c.currents...),
		islands:      append([]int32(nil), c.islands...),
		wells:        append([]game.ResourceType(nil), c.wells...),
		wellAmounts:  append([]int32(nil), c.wellAmounts...),
		islandOwners: owners,
	}
}

// Equal reports whether two views hold the same state.
func (c *CurrentMap) Equal(o *CurrentMap) bool {
	if c.Width() != o.Width() || c.Height() != o.Height() || len(c.walls) != len(o.walls) || len(c.islandOwners) != len(o.islandOwners) {
		return false
	}
	for i := range c.walls {
		if c.walls[i] != o.walls[i] || c.clouds[i] != o.clouds[i] || c.currents[i] != o.currents[i] ||
			c.islands[i] != o.islands[i] || c.wells[i] != o.wells[i] || c.wellAmounts[i] != o.wellAmounts[i] {
			return false
		}
	}
	for id, t := range c.islandOwners {
		if o.islandOwners[id] != t {
			return false
		}
	}
	return true
}

// IslandCounts returns the number of islands owned by each team.
func (c *CurrentMap) IslandCounts() map[game.Team]int {
	counts := make(map[game.Team]int)
	for _, t := range c.islandOwners {
		counts[t]++
	}
	return counts
}

// setCell applies fn to the cell at (x, y) and its symmetric counterpart.
// fn receives the index and whether it is the mirrored cell, and reports
// whether it changed anything.
func (c *CurrentMap) setCell(x, y int, fn func(i int, mirrored bool) bool) bool {
	i := c.static.Index(x, y)
	if i < 0 {
		return false
	}
	changed := fn(i, false)
	sx, sy := c.static.SymmetricPoint(x, y)
	if j := c.static.Index(sx, sy); j != i {
		if fn(j, true) {
			changed = true
		}
	}
	return changed
}
