package maps

import (
	"math/rand"

	"battlecode-client/internal/game"
)

// GeneratorOptions contains settings for map generation.
type GeneratorOptions struct {
	Width    int           // 20-60
	Height   int           // 20-60
	Symmetry game.Symmetry // mirroring rule
	Seed     int64         // rng seed; equal seeds give equal maps
	Walls    int           // wall coverage percentage: 0-40
	Clouds   int           // cloud clusters per half: 0-8
	Currents int           // current streams per half: 0-6
	Islands  int           // island pairs: 0-8
	Wells    int           // wells per resource per half: 1-4
}

// DefaultOptions returns the editor's generator defaults.
func DefaultOptions() GeneratorOptions {
	return GeneratorOptions{
		Width:    DefaultMapSize,
		Height:   DefaultMapSize,
		Symmetry: game.Rotational,
		Seed:     6370,
		Walls:    12,
		Clouds:   2,
		Currents: 2,
		Islands:  3,
		Wells:    2,
	}
}

// Generator handles procedural map generation. Every feature is painted
// through the editor brushes, so the result respects the map's symmetry.
type Generator struct {
	options GeneratorOptions
	rng     *rand.Rand
	static  *StaticMap
	current *CurrentMap
	bodies  []InitialBody
}

// NewGenerator creates a new map generator.
func NewGenerator(opts GeneratorOptions) *Generator {
	opts.Walls = clamp(opts.Walls, 0, 40)
	opts.Clouds = clamp(opts.Clouds, 0, 8)
	opts.Currents = clamp(opts.Currents, 0, 6)
	opts.Islands = clamp(opts.Islands, 0, 8)
	opts.Wells = clamp(opts.Wells, 1, 4)

	static := FromParams(opts.Width, opts.Height, opts.Symmetry)
	static.seed = int32(opts.Seed)
	return &Generator{
		options: opts,
		rng:     rand.New(rand.NewSource(opts.Seed)),
		static:  static,
		current: NewCurrentMap(static),
	}
}

// Generate paints the map and places one headquarters per team. The
// returned CurrentMap is layered on an empty StaticMap, the same shape the
// editor works on.
func (g *Generator) Generate() (*CurrentMap, []InitialBody) {
	g.placeHeadquarters()

	occ := g.occupancy()
	brushes := g.current.GetEditorBrushes(occ)
	walls := brushes[BrushWalls].(*WallBrush)
	clouds := brushes[BrushClouds].(*CloudBrush)
	currents := brushes[BrushCurrents].(*CurrentBrush)
	islands := brushes[BrushIslands].(*IslandBrush)
	wells := brushes[BrushWells].(*WellBrush)

	target := g.static.CellCount() * g.options.Walls / 100
	for placed := 0; placed < target/2; {
		x, y := g.randomCell()
		n := 0
		for _, c := range g.growBlob(x, y, 2+g.rng.Intn(5)) {
			if walls.Apply(c[0], c[1]) {
				n++
			}
		}
		if n == 0 {
			placed++
		}
		placed += n
	}
	fillPockets(g.current, occ)

	for i := 0; i < g.options.Islands; i++ {
		islands.Island = int32(2*i + 1)
		x, y := g.randomCell()
		for _, c := range g.growBlob(x, y, 4+g.rng.Intn(5)) {
			islands.Apply(c[0], c[1])
		}
	}

	for i := 0; i < g.options.Currents; i++ {
		currents.Direction = game.Direction(1 + g.rng.Intn(8))
		x, y := g.randomCell()
		dx, dy := currents.Direction.Delta()
		for step := 0; step < 3+g.rng.Intn(4); step++ {
			if !currents.Apply(x+dx*step, y+dy*step) {
				break
			}
		}
	}

	for i := 0; i < g.options.Clouds; i++ {
		x, y := g.randomCell()
		for _, c := range g.growBlob(x, y, 3+g.rng.Intn(6)) {
			clouds.Apply(c[0], c[1])
		}
	}

	for _, r := range game.ResourceTypes {
		wells.Resource = r
		for placed, attempts := 0, 0; placed < g.options.Wells && attempts < 200; attempts++ {
			x, y := g.randomCell()
			if g.current.IslandAt(x, y) != 0 || g.current.CurrentAt(x, y) != game.Center {
				continue
			}
			if wells.Apply(x, y) {
				placed++
			}
		}
	}

	return g.current, g.bodies
}

func (g *Generator) placeHeadquarters() {
	w, h := g.static.width, g.static.height
	margin := 3 + g.rng.Intn(3)
	x := margin + g.rng.Intn(w/3)
	y := margin + g.rng.Intn(h/3)
	sx, sy := g.static.SymmetricPoint(x, y)
	if sx == x && sy == y {
		return
	}
	g.bodies = []InitialBody{
		{ID: 0, Team: game.TeamA, Type: game.BodyHeadquarters, X: x, Y: y},
		{ID: 1, Team: game.TeamB, Type: game.BodyHeadquarters, X: sx, Y: sy},
	}
}

type bodyCells map[[2]int]bool

func (b bodyCells) Occupied(x, y int) bool { return b[[2]int{x, y}] }

func (g *Generator) occupancy() Occupancy {
	occ := make(bodyCells)
	for _, b := range g.bodies {
		occ[[2]int{b.X, b.Y}] = true
	}
	return occ
}

func (g *Generator) randomCell() (int, int) {
	return g.rng.Intn(g.static.width), g.rng.Intn(g.static.height)
}

// growBlob grows an orthogonally connected group of cells from a start
// cell, picking frontier cells at random for organic shapes.
func (g *Generator) growBlob(startX, startY, targetSize int) [][2]int {
	cells := [][2]int{{startX, startY}}
	seen := map[[2]int]bool{{startX, startY}: true}
	frontier := g.neighbors(startX, startY, seen)

	for len(cells) < targetSize && len(frontier) > 0 {
		idx := g.rng.Intn(len(frontier))
		cell := frontier[idx]
		frontier[idx] = frontier[len(frontier)-1]
		frontier = frontier[:len(frontier)-1]

		cells = append(cells, cell)
		frontier = append(frontier, g.neighbors(cell[0], cell[1], seen)...)
	}
	return cells
}

func (g *Generator) neighbors(x, y int, seen map[[2]int]bool) [][2]int {
	var out [][2]int
	for _, d := range orthogonal {
		c := [2]int{x + d[0], y + d[1]}
		if g.static.InBounds(c[0], c[1]) && !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	return out
}
