package client

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"battlecode-client/internal/game"
	"battlecode-client/internal/playback"
	"battlecode-client/pkg/maps"
)

// boardLayout places a map on the screen. Map y grows upward, so row 0 is
// drawn at the bottom.
type boardLayout struct {
	X, Y          int
	Cell          int
	Width, Height int
}

// fitBoard fits a width x height map centered into the given area.
func fitBoard(x, y, w, h, width, height int) boardLayout {
	if width <= 0 || height <= 0 {
		return boardLayout{X: x, Y: y, Cell: 1}
	}
	cell := max(min(w/width, h/height), 1)
	return boardLayout{
		X:      x + (w-cell*width)/2,
		Y:      y + (h-cell*height)/2,
		Cell:   cell,
		Width:  width,
		Height: height,
	}
}

// cellOrigin returns the top-left screen pixel of a map cell.
func (l boardLayout) cellOrigin(x, y int) (float32, float32) {
	return float32(l.X + x*l.Cell), float32(l.Y + (l.Height-1-y)*l.Cell)
}

// cellAt converts a screen position into a map cell.
func (l boardLayout) cellAt(sx, sy int) (int, int, bool) {
	if sx < l.X || sy < l.Y {
		return 0, 0, false
	}
	x := (sx - l.X) / l.Cell
	row := (sy - l.Y) / l.Cell
	if x >= l.Width || row >= l.Height {
		return 0, 0, false
	}
	return x, l.Height - 1 - row, true
}

func (l boardLayout) fillCell(screen *ebiten.Image, x, y int, inset float32, clr color.Color) {
	px, py := l.cellOrigin(x, y)
	size := float32(l.Cell) - 2*inset
	vector.DrawFilledRect(screen, px+inset, py+inset, size, size, clr, false)
}

// drawMap renders the terrain layers of a map.
func drawMap(screen *ebiten.Image, l boardLayout, m *maps.CurrentMap) {
	w, h := float32(l.Width*l.Cell), float32(l.Height*l.Cell)
	vector.DrawFilledRect(screen, float32(l.X), float32(l.Y), w, h, ColorWater, false)

	showText := l.Cell >= 10
	for y := 0; y < l.Height; y++ {
		for x := 0; x < l.Width; x++ {
			if m.WallAt(x, y) {
				l.fillCell(screen, x, y, 0, ColorWall)
				continue
			}
			if id := m.IslandAt(x, y); id != 0 {
				clr := TeamColors[m.IslandOwner(id)]
				clr.A = 120
				l.fillCell(screen, x, y, 0, clr)
			}
			if r := m.WellAt(x, y); r != game.ResourceNone {
				l.fillCell(screen, x, y, float32(l.Cell)/4, ResourceColors[r])
			}
			if d := m.CurrentAt(x, y); d != game.Center && showText {
				px, py := l.cellOrigin(x, y)
				ebitenutil.DebugPrintAt(screen, string(d.Arrow()), int(px)+l.Cell/2-3, int(py)+l.Cell/2-8)
			}
			if m.CloudAt(x, y) {
				l.fillCell(screen, x, y, 0, ColorCloud)
			}
		}
	}

	if l.Cell >= 8 {
		for x := 0; x <= l.Width; x++ {
			px := float32(l.X + x*l.Cell)
			vector.StrokeLine(screen, px, float32(l.Y), px, float32(l.Y)+h, 1, ColorGrid, false)
		}
		for y := 0; y <= l.Height; y++ {
			py := float32(l.Y + y*l.Cell)
			vector.StrokeLine(screen, float32(l.X), py, float32(l.X)+w, py, 1, ColorGrid, false)
		}
	}
	vector.StrokeRect(screen, float32(l.X), float32(l.Y), w, h, 2, ColorBorder, false)
}

// drawBodies renders every body with a health bar.
func drawBodies(screen *ebiten.Image, l boardLayout, bodies *playback.Bodies) {
	for _, b := range bodies.All() {
		px, py := l.cellOrigin(b.X, b.Y)
		if sprite := Sprite(b.Team, b.Type); sprite != nil {
			inset := float64(l.Cell) / 8
			size := float64(l.Cell) - 2*inset
			op := &ebiten.DrawImageOptions{}
			op.GeoM.Scale(size/float64(sprite.Bounds().Dx()), size/float64(sprite.Bounds().Dy()))
			op.GeoM.Translate(float64(px)+inset, float64(py)+inset)
			screen.DrawImage(sprite, op)
		}
		if l.Cell >= 14 {
			ebitenutil.DebugPrintAt(screen, string(b.Type.Short()), int(px)+l.Cell/2-3, int(py)+l.Cell/2-8)
		}

		full := b.Type.Health()
		if full <= 0 || b.Health >= full {
			continue
		}
		frac := float32(max(b.Health, 0)) / float32(full)
		barW := float32(l.Cell) - 2
		vector.DrawFilledRect(screen, px+1, py+float32(l.Cell)-3, barW, 2, ColorDanger, false)
		vector.DrawFilledRect(screen, px+1, py+float32(l.Cell)-3, barW*frac, 2, ColorSuccess, false)
	}
}

// drawTurn renders a whole turn.
func drawTurn(screen *ebiten.Image, l boardLayout, t *playback.Turn) {
	drawMap(screen, l, t.Map)
	drawBodies(screen, l, t.Bodies)
}

// highlightCell outlines one cell, used for the editor cursor.
func highlightCell(screen *ebiten.Image, l boardLayout, x, y int, clr color.Color) {
	px, py := l.cellOrigin(x, y)
	vector.StrokeRect(screen, px, py, float32(l.Cell), float32(l.Cell), 2, clr, false)
}
