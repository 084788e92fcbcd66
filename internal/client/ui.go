package client

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"battlecode-client/internal/game"
)

// Colors used in the UI
var (
	ColorBackground     = color.RGBA{20, 20, 30, 255}
	ColorPanel          = color.RGBA{30, 35, 50, 255}
	ColorPanelLight     = color.RGBA{45, 50, 70, 255}
	ColorPrimary        = color.RGBA{70, 130, 180, 255}
	ColorPrimaryHover   = color.RGBA{100, 160, 210, 255}
	ColorSecondary      = color.RGBA{60, 60, 80, 255}
	ColorSecondaryHover = color.RGBA{80, 80, 100, 255}
	ColorSuccess        = color.RGBA{50, 150, 80, 255}
	ColorDanger         = color.RGBA{180, 60, 60, 255}
	ColorText           = color.RGBA{220, 220, 230, 255}
	ColorTextMuted      = color.RGBA{140, 140, 160, 255}
	ColorBorder         = color.RGBA{60, 65, 80, 255}
	ColorInputBg        = color.RGBA{25, 28, 40, 255}
	ColorInputFocus     = color.RGBA{70, 130, 180, 255}
)

// Map colors
var (
	ColorWater   = color.RGBA{28, 58, 92, 255}
	ColorWall    = color.RGBA{70, 62, 52, 255}
	ColorCloud   = color.RGBA{200, 205, 215, 110}
	ColorCurrent = color.RGBA{120, 190, 230, 255}
	ColorGrid    = color.RGBA{40, 70, 105, 255}
	ColorIsland  = color.RGBA{150, 150, 150, 255}
)

// TeamColors maps a team to its body and island color.
var TeamColors = map[game.Team]color.RGBA{
	game.TeamNone: {150, 150, 150, 255},
	game.TeamA:    {205, 60, 60, 255},
	game.TeamB:    {70, 110, 215, 255},
}

// ResourceColors maps a well's resource to its color.
var ResourceColors = map[game.ResourceType]color.RGBA{
	game.ResourceAdamantium: {190, 150, 90, 255},
	game.ResourceMana:       {90, 200, 200, 255},
	game.ResourceElixir:     {190, 90, 210, 255},
}

func inRect(mx, my, x, y, w, h int) bool {
	return mx >= x && mx < x+w && my >= y && my < y+h
}

// Button represents a clickable button.
type Button struct {
	X, Y, W, H int
	Text       string
	OnClick    func()
	Disabled   bool
	Primary    bool
	hovered    bool
}

// Update handles button input.
func (b *Button) Update() {
	if b.Disabled {
		b.hovered = false
		return
	}
	mx, my := ebiten.CursorPosition()
	b.hovered = inRect(mx, my, b.X, b.Y, b.W, b.H)
	if b.hovered && inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) && b.OnClick != nil {
		b.OnClick()
	}
}

// Hovered reports whether the cursor was over the button at the last Update.
func (b *Button) Hovered() bool { return b.hovered }

// Draw renders the button.
func (b *Button) Draw(screen *ebiten.Image) {
	bg := ColorSecondary
	switch {
	case b.Disabled:
	case b.Primary && b.hovered:
		bg = ColorPrimaryHover
	case b.Primary:
		bg = ColorPrimary
	case b.hovered:
		bg = ColorSecondaryHover
	}

	vector.DrawFilledRect(screen, float32(b.X), float32(b.Y), float32(b.W), float32(b.H), bg, false)
	vector.StrokeRect(screen, float32(b.X), float32(b.Y), float32(b.W), float32(b.H), 1, ColorBorder, false)
	DrawTextCentered(screen, b.Text, b.X+b.W/2, b.Y+b.H/2-8, ColorText)
}

// TextInput is a single-line text field.
type TextInput struct {
	X, Y, W, H  int
	Placeholder string
	Text        string
	MaxLength   int
	focused     bool
	blink       int
}

// Update handles focus and typing.
func (t *TextInput) Update() {
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		mx, my := ebiten.CursorPosition()
		t.focused = inRect(mx, my, t.X, t.Y, t.W, t.H)
	}
	if !t.focused {
		return
	}
	t.blink++

	for _, c := range ebiten.AppendInputChars(nil) {
		if t.MaxLength == 0 || len(t.Text) < t.MaxLength {
			t.Text += string(c)
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyBackspace) || inpututil.KeyPressDuration(ebiten.KeyBackspace) > 30 {
		if len(t.Text) > 0 {
			t.Text = t.Text[:len(t.Text)-1]
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		t.focused = false
	}
}

// IsFocused returns true while the field takes keyboard input.
func (t *TextInput) IsFocused() bool {
	return t.focused
}

// Draw renders the field.
func (t *TextInput) Draw(screen *ebiten.Image) {
	vector.DrawFilledRect(screen, float32(t.X), float32(t.Y), float32(t.W), float32(t.H), ColorInputBg, false)
	border := ColorBorder
	if t.focused {
		border = ColorInputFocus
	}
	vector.StrokeRect(screen, float32(t.X), float32(t.Y), float32(t.W), float32(t.H), 2, border, false)

	text := t.Text
	if text == "" && !t.focused {
		text = t.Placeholder
	}
	if maxChars := (t.W - 16) / 6; len(text) > maxChars {
		text = text[len(text)-maxChars:]
	}
	ebitenutil.DebugPrintAt(screen, text, t.X+8, t.Y+t.H/2-8)

	if t.focused && (t.blink/30)%2 == 0 {
		cx := t.X + 8 + len(text)*6
		if cx < t.X+t.W-8 {
			vector.DrawFilledRect(screen, float32(cx), float32(t.Y+6), 2, float32(t.H-12), ColorText, false)
		}
	}
}

// DrawPanel draws a panel background.
func DrawPanel(screen *ebiten.Image, x, y, w, h int) {
	vector.DrawFilledRect(screen, float32(x), float32(y), float32(w), float32(h), ColorPanel, false)
	vector.StrokeRect(screen, float32(x), float32(y), float32(w), float32(h), 1, ColorBorder, false)
}

// DrawTitledPanel draws a panel with a heading line.
func DrawTitledPanel(screen *ebiten.Image, x, y, w, h int, title string) {
	DrawPanel(screen, x, y, w, h)
	if title == "" {
		return
	}
	vector.DrawFilledRect(screen, float32(x+1), float32(y+1), float32(w-2), 22, ColorPanelLight, false)
	DrawText(screen, title, x+8, y+4, ColorText)
}

// DrawText draws debug-font text at a position. The debug font has a fixed
// color.
func DrawText(screen *ebiten.Image, text string, x, y int, _ color.Color) {
	ebitenutil.DebugPrintAt(screen, text, x, y)
}

// DrawTextCentered draws text centered on x.
func DrawTextCentered(screen *ebiten.Image, text string, x, y int, clr color.Color) {
	DrawText(screen, text, x-len(text)*3, y, clr)
}

// ListItem represents an item in a list.
type ListItem struct {
	ID      string
	Text    string
	Subtext string
}

// List is a scrollable list of items.
type List struct {
	X, Y, W, H   int
	Items        []ListItem
	OnSelect     func(id string)
	Selected     string
	scrollOffset int
	itemHeight   int
}

// NewList creates a new list.
func NewList(x, y, w, h int) *List {
	return &List{X: x, Y: y, W: w, H: h, itemHeight: 38}
}

// Update handles scrolling and selection.
func (l *List) Update() {
	mx, my := ebiten.CursorPosition()
	if !inRect(mx, my, l.X, l.Y, l.W, l.H) {
		return
	}

	_, dy := ebiten.Wheel()
	l.scrollOffset -= int(dy * 30)
	maxScroll := max(len(l.Items)*l.itemHeight-l.H, 0)
	l.scrollOffset = min(max(l.scrollOffset, 0), maxScroll)

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		idx := (my - l.Y + l.scrollOffset) / l.itemHeight
		if idx >= 0 && idx < len(l.Items) {
			l.Selected = l.Items[idx].ID
			if l.OnSelect != nil {
				l.OnSelect(l.Selected)
			}
		}
	}
}

// Draw renders the list.
func (l *List) Draw(screen *ebiten.Image) {
	DrawPanel(screen, l.X, l.Y, l.W, l.H)

	first := l.scrollOffset / l.itemHeight
	last := (l.scrollOffset+l.H)/l.itemHeight + 1
	for i := first; i < last && i < len(l.Items); i++ {
		item := l.Items[i]
		y := l.Y + i*l.itemHeight - l.scrollOffset
		if y < l.Y || y+l.itemHeight > l.Y+l.H {
			continue
		}
		if item.ID == l.Selected {
			vector.DrawFilledRect(screen, float32(l.X+2), float32(y+2), float32(l.W-4), float32(l.itemHeight-4), ColorPanelLight, false)
		}
		DrawText(screen, item.Text, l.X+8, y+4, ColorText)
		if item.Subtext != "" {
			DrawText(screen, item.Subtext, l.X+8, y+19, ColorTextMuted)
		}
	}

	if total := len(l.Items) * l.itemHeight; total > l.H {
		barH := float32(l.H) * float32(l.H) / float32(total)
		barY := float32(l.Y) + float32(l.scrollOffset)*float32(l.H)/float32(total)
		vector.DrawFilledRect(screen, float32(l.X+l.W-8), barY, 6, barH, ColorBorder, false)
	}
}

// SetItems replaces the items and keeps the selection when it still exists.
func (l *List) SetItems(items []ListItem) {
	l.Items = items
	l.scrollOffset = min(l.scrollOffset, max(len(items)*l.itemHeight-l.H, 0))
}
