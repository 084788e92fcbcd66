// Package playback holds the per-turn replay model: bodies, turns, the
// reversible deltas between them, matches and games.
package playback

import (
	"fmt"
	"sort"

	"battlecode-client/internal/game"
	"battlecode-client/pkg/maps"
)

// Body is one robot on the map.
type Body struct {
	ID     int32         `json:"id"`
	Team   game.Team     `json:"team"`
	Type   game.BodyType `json:"type"`
	X      int           `json:"x"`
	Y      int           `json:"y"`
	Health int32         `json:"health"`
	Cargo  game.Cargo    `json:"cargo"`
}

// NewBody creates a body with the default health of its type.
func NewBody(id int32, team game.Team, typ game.BodyType, x, y int) Body {
	return Body{ID: id, Team: team, Type: typ, X: x, Y: y, Health: typ.Health()}
}

// Bodies is the set of bodies alive in one turn, keyed by id.
type Bodies struct {
	bodies map[int32]*Body
	nextID int32
}

// NewBodies creates an empty collection.
func NewBodies() *Bodies {
	return &Bodies{bodies: make(map[int32]*Body)}
}

// BodiesFromInitial spawns the bodies a map starts with.
func BodiesFromInitial(initial []maps.InitialBody) (*Bodies, error) {
	b := NewBodies()
	for _, ib := range initial {
		if err := b.Spawn(NewBody(ib.ID, ib.Team, ib.Type, ib.X, ib.Y)); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// IsEmpty reports whether there are no bodies.
func (b *Bodies) IsEmpty() bool { return len(b.bodies) == 0 }

// Len returns the number of bodies.
func (b *Bodies) Len() int { return len(b.bodies) }

// NextID returns the id the editor will hand out next. It only grows.
func (b *Bodies) NextID() int32 { return b.nextID }

// Get returns the body with the given id.
func (b *Bodies) Get(id int32) (Body, bool) {
	body, ok := b.bodies[id]
	if !ok {
		return Body{}, false
	}
	return *body, true
}

// At returns the first body standing on a cell, by id.
func (b *Bodies) At(x, y int) (Body, bool) {
	var found *Body
	for _, body := range b.bodies {
		if body.X == x && body.Y == y && (found == nil || body.ID < found.ID) {
			found = body
		}
	}
	if found == nil {
		return Body{}, false
	}
	return *found, true
}

// Occupied reports whether any body stands on a cell.
func (b *Bodies) Occupied(x, y int) bool {
	_, ok := b.At(x, y)
	return ok
}

// All returns every body sorted by id.
func (b *Bodies) All() []Body {
	out := make([]Body, 0, len(b.bodies))
	for _, body := range b.bodies {
		out = append(out, *body)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// CountByTeam returns the number of bodies of each team and type.
func (b *Bodies) CountByTeam() map[game.Team]map[game.BodyType]int {
	out := make(map[game.Team]map[game.BodyType]int)
	for _, body := range b.bodies {
		if out[body.Team] == nil {
			out[body.Team] = make(map[game.BodyType]int)
		}
		out[body.Team][body.Type]++
	}
	return out
}

// Spawn adds a body. The id must not belong to a live body. Cell
// occupancy is not checked; replays may stack bodies.
func (b *Bodies) Spawn(body Body) error {
	if _, ok := b.bodies[body.ID]; ok {
		return fmt.Errorf("%w: %d", game.ErrBodyExists, body.ID)
	}
	if !body.Team.Valid() {
		return fmt.Errorf("%w: body %d", game.ErrInvalidTeam, body.ID)
	}
	if !body.Type.Valid() {
		return fmt.Errorf("%w: body %d", game.ErrInvalidBodyType, body.ID)
	}
	stored := body
	b.bodies[body.ID] = &stored
	if body.ID >= b.nextID {
		b.nextID = body.ID + 1
	}
	return nil
}

// Remove deletes a body and returns it.
func (b *Bodies) Remove(id int32) (Body, error) {
	body, ok := b.bodies[id]
	if !ok {
		return Body{}, fmt.Errorf("%w: %d", game.ErrBodyNotFound, id)
	}
	delete(b.bodies, id)
	return *body, nil
}

func (b *Bodies) mutable(id int32) (*Body, error) {
	body, ok := b.bodies[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", game.ErrBodyNotFound, id)
	}
	return body, nil
}

// Clone returns a deep copy.
func (b *Bodies) Clone() *Bodies {
	out := &Bodies{bodies: make(map[int32]*Body, len(b.bodies)), nextID: b.nextID}
	for id, body := range b.bodies {
		copied := *body
		out.bodies[id] = &copied
	}
	return out
}

// Equal reports whether two collections hold the same bodies.
func (b *Bodies) Equal(o *Bodies) bool {
	if len(b.bodies) != len(o.bodies) {
		return false
	}
	for id, body := range b.bodies {
		other, ok := o.bodies[id]
		if !ok || *other != *body {
			return false
		}
	}
	return true
}

// Initial returns the bodies as map-file entries.
func (b *Bodies) Initial() []maps.InitialBody {
	all := b.All()
	out := make([]maps.InitialBody, len(all))
	for i, body := range all {
		out[i] = maps.InitialBody{ID: body.ID, Team: body.Team, Type: body.Type, X: body.X, Y: body.Y}
	}
	return out
}

// GetEditorBrushes returns one body brush per body type and team.
func (b *Bodies) GetEditorBrushes(static *maps.StaticMap) []maps.Brush {
	brushes := make([]maps.Brush, 0, len(game.BodyTypes)*len(game.Teams))
	for _, typ := range game.BodyTypes {
		for _, team := range game.Teams {
			brushes = append(brushes, &BodyBrush{
				bodies: b,
				static: static,
				Team:   team,
				Type:   typ,
				Add:    true,
			})
		}
	}
	return brushes
}

// Terrain reports which cells bodies cannot stand on.
type Terrain interface {
	WallAt(x, y int) bool
}

// BodyBrush places or removes a body and its mirrored counterpart, which
// belongs to the opposing team.
type BodyBrush struct {
	open    bool
	bodies  *Bodies
	static  *maps.StaticMap
	Terrain Terrain

	Team game.Team
	Type game.BodyType
	Add  bool
}

func (b *BodyBrush) Kind() maps.BrushKind { return maps.BrushBodies }
func (b *BodyBrush) Name() string         { return fmt.Sprintf("%s %s", b.Team, b.Type) }
func (b *BodyBrush) Open() bool           { return b.open }
func (b *BodyBrush) SetOpen(open bool)    { b.open = open }

func (b *BodyBrush) placeable(x, y int) bool {
	if !b.static.InBounds(x, y) || b.bodies.Occupied(x, y) {
		return false
	}
	return b.Terrain == nil || !b.Terrain.WallAt(x, y)
}

// Apply adds or removes bodies. Placing on an occupied cell, a wall or a
// cell whose mirror is blocked leaves the bodies unchanged.
func (b *BodyBrush) Apply(x, y int) bool {
	sx, sy := b.static.SymmetricPoint(x, y)
	mirrored := sx != x || sy != y

	if !b.Add {
		changed := false
		for _, c := range [][2]int{{x, y}, {sx, sy}} {
			if body, ok := b.bodies.At(c[0], c[1]); ok {
				_, _ = b.bodies.Remove(body.ID)
				changed = true
			}
		}
		return changed
	}

	if !b.Team.Valid() || !b.Type.Valid() || !b.placeable(x, y) || (mirrored && !b.placeable(sx, sy)) {
		return false
	}
	if err := b.bodies.Spawn(NewBody(b.bodies.NextID(), b.Team, b.Type, x, y)); err != nil {
		return false
	}
	if mirrored {
		_ = b.bodies.Spawn(NewBody(b.bodies.NextID(), b.Team.Opponent(), b.Type, sx, sy))
	}
	return true
}

var _ maps.Brush = &BodyBrush{}
