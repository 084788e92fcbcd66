package maps

import (
	"encoding/base64"
	"fmt"
	"strings"

	flatbuffers "github.com/google/flatbuffers/go"

	"battlecode-client/internal/game"
	"battlecode-client/internal/schema"
)

// InitialBody is a body placed on a map before the first round.
type InitialBody struct {
	ID   int32
	Team game.Team
	Type game.BodyType
	X    int
	Y    int
}

// BuildSpawnedBodies writes bodies as a SpawnedBodyTable.
func BuildSpawnedBodies(b *flatbuffers.Builder, bodies []InitialBody) flatbuffers.UOffsetT {
	ids := make([]int32, len(bodies))
	teams := make([]int8, len(bodies))
	types := make([]int8, len(bodies))
	xs := make([]int32, len(bodies))
	ys := make([]int32, len(bodies))
	for i, body := range bodies {
		ids[i] = body.ID
		teams[i] = int8(body.Team)
		types[i] = int8(body.Type)
		xs[i] = int32(body.X)
		ys[i] = int32(body.Y)
	}

	idv := schema.CreateInt32Vector(b, ids)
	teamv := schema.CreateInt8Vector(b, teams)
	typev := schema.CreateInt8Vector(b, types)
	locs := schema.CreateVecTable(b, xs, ys)

	schema.SpawnedBodyTableStart(b)
	schema.SpawnedBodyTableAddRobotIDs(b, idv)
	schema.SpawnedBodyTableAddTeamIDs(b, teamv)
	schema.SpawnedBodyTableAddTypes(b, typev)
	schema.SpawnedBodyTableAddLocs(b, locs)
	return schema.SpawnedBodyTableEnd(b)
}

// ReadSpawnedBodies reads a SpawnedBodyTable. A nil table yields no bodies.
func ReadSpawnedBodies(t *schema.SpawnedBodyTable) ([]InitialBody, error) {
	if t == nil {
		return nil, nil
	}
	n := t.RobotIDsLength()
	if !schema.VectorFits(t.Table(), 0, 4) {
		return nil, fmt.Errorf("spawned body count %d exceeds the buffer", n)
	}
	locs := t.Locs(nil)
	if t.TeamIDsLength() != n || t.TypesLength() != n {
		return nil, fmt.Errorf("spawned body vectors disagree in length")
	}
	if n > 0 && (locs == nil || locs.XsLength() != n || locs.YsLength() != n) {
		return nil, fmt.Errorf("spawned body locations missing")
	}

	bodies := make([]InitialBody, n)
	for i := 0; i < n; i++ {
		team, err := game.TeamFromID(t.TeamIDs(i))
		if err != nil {
			return nil, err
		}
		if !team.Valid() {
			return nil, fmt.Errorf("%w: body %d has no team", game.ErrInvalidTeam, t.RobotIDs(i))
		}
		typ, err := game.BodyTypeFromID(t.Types(i))
		if err != nil {
			return nil, err
		}
		bodies[i] = InitialBody{
			ID:   t.RobotIDs(i),
			Team: team,
			Type: typ,
			X:    int(locs.Xs(i)),
			Y:    int(locs.Ys(i)),
		}
	}
	return bodies, nil
}

// BuildGameMap writes a map and its initial bodies as a GameMap table.
func BuildGameMap(b *flatbuffers.Builder, m *StaticMap, bodies []InitialBody) flatbuffers.UOffsetT {
	name := b.CreateString(m.name)
	spawned := BuildSpawnedBodies(b, bodies)
	walls := schema.CreateBoolVector(b, m.walls)
	clouds := schema.CreateBoolVector(b, m.clouds)

	currents := make([]int8, len(m.currents))
	for i, d := range m.currents {
		currents[i] = int8(d)
	}
	currentv := schema.CreateInt8Vector(b, currents)
	islands := schema.CreateInt32Vector(b, m.islands)
	wells := make([]int8, len(m.wells))
	for i, r := range m.wells {
		wells[i] = int8(r)
	}
	wellv := schema.CreateInt8Vector(b, wells)

	schema.GameMapStart(b)
	schema.GameMapAddName(b, name)
	schema.GameMapAddMinCorner(b, schema.CreateVec(b, 0, 0))
	schema.GameMapAddMaxCorner(b, schema.CreateVec(b, int32(m.width), int32(m.height)))
	schema.GameMapAddSymmetry(b, int8(m.symmetry))
	schema.GameMapAddBodies(b, spawned)
	schema.GameMapAddRandomSeed(b, m.seed)
	schema.GameMapAddWalls(b, walls)
	schema.GameMapAddClouds(b, clouds)
	schema.GameMapAddCurrents(b, currentv)
	schema.GameMapAddIslands(b, islands)
	schema.GameMapAddResources(b, wellv)
	return schema.GameMapEnd(b)
}

// ReadGameMap converts a GameMap table into a StaticMap and its initial bodies.
func ReadGameMap(gm *schema.GameMap) (*StaticMap, []InitialBody, error) {
	minCorner := gm.MinCorner(nil)
	maxCorner := gm.MaxCorner(nil)
	if minCorner == nil || maxCorner == nil {
		return nil, nil, fmt.Errorf("map corners missing")
	}
	l := Layout{
		Name:     string(gm.Name()),
		Width:    int(maxCorner.X()) - int(minCorner.X()),
		Height:   int(maxCorner.Y()) - int(minCorner.Y()),
		Symmetry: game.Symmetry(gm.Symmetry()),
		Seed:     gm.RandomSeed(),
	}
	if l.Width < 1 || l.Height < 1 || l.Width > EngineMaxMapSize || l.Height > EngineMaxMapSize {
		return nil, nil, fmt.Errorf("invalid dimensions: %dx%d", l.Width, l.Height)
	}
	n := l.Width * l.Height
	for _, c := range []struct {
		name string
		got  int
	}{
		{"walls", gm.WallsLength()},
		{"clouds", gm.CloudsLength()},
		{"currents", gm.CurrentsLength()},
		{"islands", gm.IslandsLength()},
		{"resources", gm.ResourcesLength()},
	} {
		if c.got != 0 && c.got != n {
			return nil, nil, fmt.Errorf("%s layer length mismatch: expected %d, got %d", c.name, n, c.got)
		}
	}

	if gm.WallsLength() > 0 {
		l.Walls = make([]bool, n)
		for i := range l.Walls {
			l.Walls[i] = gm.Walls(i)
		}
	}
	if gm.CloudsLength() > 0 {
		l.Clouds = make([]bool, n)
		for i := range l.Clouds {
			l.Clouds[i] = gm.Clouds(i)
		}
	}
	if gm.CurrentsLength() > 0 {
		l.Currents = make([]game.Direction, n)
		for i := range l.Currents {
			l.Currents[i] = game.Direction(gm.Currents(i))
		}
	}
	if gm.IslandsLength() > 0 {
		l.Islands = make([]int32, n)
		for i := range l.Islands {
			l.Islands[i] = gm.Islands(i)
		}
	}
	if gm.ResourcesLength() > 0 {
		l.Wells = make([]game.ResourceType, n)
		for i := range l.Wells {
			l.Wells[i] = game.ResourceType(gm.Resources(i))
		}
	}

	m, err := NewStaticMap(l)
	if err != nil {
		return nil, nil, err
	}
	bodies, err := ReadSpawnedBodies(gm.Bodies(nil))
	if err != nil {
		return nil, nil, err
	}
	for _, body := range bodies {
		if !m.InBounds(body.X, body.Y) {
			return nil, nil, fmt.Errorf("%w: body %d at (%d,%d)", game.ErrOutOfBounds, body.ID, body.X, body.Y)
		}
	}
	return m, bodies, nil
}

// Export writes a map file from the editor's current map and bodies.
func Export(current *CurrentMap, bodies []InitialBody, name string) ([]byte, error) {
	if current.IsEmpty() && len(bodies) == 0 {
		return nil, game.ErrEmptyMap
	}
	b := flatbuffers.NewBuilder(1024)
	root := BuildGameMap(b, current.Freeze(name), bodies)
	schema.FinishGameMapBuffer(b, root)
	return b.FinishedBytes(), nil
}

// Import reads a map file. The returned map has passed Validate.
func Import(buf []byte) (m *StaticMap, bodies []InitialBody, err error) {
	if len(buf) < 8 {
		return nil, nil, fmt.Errorf("map file too short: %d bytes", len(buf))
	}
	defer func() {
		if r := recover(); r != nil {
			m, bodies, err = nil, nil, fmt.Errorf("malformed map file: %v", r)
		}
	}()

	m, bodies, err = ReadGameMap(schema.GetRootAsGameMap(buf, 0))
	if err != nil {
		return nil, nil, fmt.Errorf("invalid map: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid map: %w", err)
	}
	return m, bodies, nil
}

// ExportString encodes a map file as base64 for the clipboard.
func ExportString(current *CurrentMap, bodies []InitialBody, name string) (string, error) {
	buf, err := Export(current, bodies, name)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf), nil
}

// ImportString reads a base64 map file. Surrounding whitespace is ignored.
func ImportString(s string) (*StaticMap, []InitialBody, error) {
	buf, err := base64.StdEncoding.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return nil, nil, fmt.Errorf("map text is not base64: %w", err)
	}
	return Import(buf)
}
