package playback

import (
	"fmt"

	"battlecode-client/internal/game"
	"battlecode-client/pkg/maps"
)

// TeamStats is the per-team state shown next to the map.
type TeamStats struct {
	Resources game.Cargo `json:"resources"`
}

// Turn pairs the map and bodies of one turn number.
type Turn struct {
	Number int
	Map    *maps.CurrentMap
	Bodies *Bodies
	Stats  [2]TeamStats
}

// NewTurn creates turn 0 of a map.
func NewTurn(static *maps.StaticMap, bodies *Bodies) *Turn {
	return &Turn{Map: maps.NewCurrentMap(static), Bodies: bodies}
}

// StatsFor returns a team's stats.
func (t *Turn) StatsFor(team game.Team) TeamStats {
	if !team.Valid() {
		return TeamStats{}
	}
	return t.Stats[team.Index()]
}

// Clone returns a deep copy of the turn.
func (t *Turn) Clone() *Turn {
	return &Turn{
		Number: t.Number,
		Map:    t.Map.Clone(),
		Bodies: t.Bodies.Clone(),
		Stats:  t.Stats,
	}
}

// Equal reports whether two turns hold the same state.
func (t *Turn) Equal(o *Turn) bool {
	return t.Number == o.Number && t.Stats == o.Stats && t.Map.Equal(o.Map) && t.Bodies.Equal(o.Bodies)
}

// IsEmpty reports whether the turn has an empty map and no bodies.
func (t *Turn) IsEmpty() bool {
	return t.Map.IsEmpty() && t.Bodies.IsEmpty()
}

// EditorBrushes returns the map brushes followed by the body brushes, wired
// so that neither kind can overwrite the other.
func (t *Turn) EditorBrushes() []maps.Brush {
	brushes := t.Map.GetEditorBrushes(t.Bodies)
	for _, b := range t.Bodies.GetEditorBrushes(t.Map.StaticMap()) {
		b.(*BodyBrush).Terrain = t.Map
		brushes = append(brushes, b)
	}
	return brushes
}

// String draws the turn as text. Red bodies are upper case letters and
// blue bodies lower case.
func (t *Turn) String() string {
	return fmt.Sprintf("Turn %d\n", t.Number) + t.Map.Debug(func(x, y int) (byte, bool) {
		b, ok := t.Bodies.At(x, y)
		if !ok {
			return 0, false
		}
		g := b.Type.Short()
		if b.Team == game.TeamB {
			g += 'a' - 'A'
		}
		return g, true
	})
}
