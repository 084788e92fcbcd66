package maps

import "battlecode-client/internal/game"

// Only cardinal directions - diagonals don't count as neighbors
var orthogonal = [][2]int{{0, -1}, {0, 1}, {-1, 0}, {1, 0}}

// OpenComponents finds every orthogonally connected group of non-wall cells.
func OpenComponents(c *CurrentMap) [][][2]int {
	w, h := c.Width(), c.Height()
	visited := make([]bool, w*h)
	var components [][][2]int

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			if visited[i] || c.walls[i] {
				continue
			}
			components = append(components, floodFill(c, x, y, visited))
		}
	}
	return components
}

func floodFill(c *CurrentMap, startX, startY int, visited []bool) [][2]int {
	w := c.Width()
	var cells [][2]int
	queue := [][2]int{{startX, startY}}
	visited[startY*w+startX] = true

	for len(queue) > 0 {
		cell := queue[0]
		queue = queue[1:]
		cells = append(cells, cell)

		for _, d := range orthogonal {
			nx, ny := cell[0]+d[0], cell[1]+d[1]
			i := c.static.Index(nx, ny)
			if i < 0 || visited[i] || c.walls[i] {
				continue
			}
			visited[i] = true
			queue = append(queue, [2]int{nx, ny})
		}
	}
	return cells
}

// fillPockets converts open areas cut off from the largest open region into
// walls, unless a body stands in them. The largest region's mirror image is
// kept as well, so filling keeps the map symmetric.
func fillPockets(c *CurrentMap, occ Occupancy) {
	components := OpenComponents(c)
	if len(components) <= 1 {
		return
	}
	owner := make([]int, c.static.CellCount())
	largest := 0
	for i, comp := range components {
		for _, cell := range comp {
			owner[c.static.Index(cell[0], cell[1])] = i
		}
		if len(comp) > len(components[largest]) {
			largest = i
		}
	}
	first := components[largest][0]
	mx, my := c.static.SymmetricPoint(first[0], first[1])
	mirror := owner[c.static.Index(mx, my)]

	for i, comp := range components {
		if i == largest || i == mirror || hasBody(comp, occ) {
			continue
		}
		for _, cell := range comp {
			j := c.static.Index(cell[0], cell[1])
			c.walls[j] = true
			c.wells[j] = game.ResourceNone
			c.currents[j] = game.Center
			c.islands[j] = 0
			c.clouds[j] = false
		}
	}
}

func hasBody(cells [][2]int, occ Occupancy) bool {
	if occ == nil {
		return false
	}
	for _, cell := range cells {
		if occ.Occupied(cell[0], cell[1]) {
			return true
		}
	}
	return false
}

// IslandCells groups the cells of each island id.
func IslandCells(c *CurrentMap) map[int32][][2]int {
	out := make(map[int32][][2]int)
	for i, id := range c.islands {
		if id == 0 {
			continue
		}
		x, y := c.static.Location(i)
		out[id] = append(out[id], [2]int{x, y})
	}
	return out
}
