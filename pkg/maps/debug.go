package maps

import (
	"fmt"
	"strings"

	"battlecode-client/internal/game"
)

// Debug returns a string visualization of the map. Rows are printed top
// down, so the highest y comes first.
func (c *CurrentMap) Debug(occ func(x, y int) (byte, bool)) string {
	var sb strings.Builder

	s := c.static
	sb.WriteString(fmt.Sprintf("Map: %s\n", s.Name()))
	sb.WriteString(fmt.Sprintf("Size: %dx%d, %s symmetry\n", s.Width(), s.Height(), s.Symmetry()))
	sb.WriteString(fmt.Sprintf("Islands: %d\n\n", len(distinctIslands(c.islands))))

	for y := s.Height() - 1; y >= 0; y-- {
		for x := 0; x < s.Width(); x++ {
			sb.WriteByte(' ')
			sb.WriteByte(c.glyph(x, y, occ))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func (c *CurrentMap) glyph(x, y int, occ func(x, y int) (byte, bool)) byte {
	if occ != nil {
		if g, ok := occ(x, y); ok {
			return g
		}
	}
	i := c.static.Index(x, y)
	switch {
	case c.walls[i]:
		return '#'
	case c.wells[i] == game.ResourceAdamantium:
		return 'a'
	case c.wells[i] == game.ResourceMana:
		return 'm'
	case c.wells[i] == game.ResourceElixir:
		return 'e'
	case c.islands[i] != 0:
		return '*'
	case c.currents[i] != game.Center:
		return c.currents[i].Arrow()
	case c.clouds[i]:
		return '~'
	default:
		return '.'
	}
}
