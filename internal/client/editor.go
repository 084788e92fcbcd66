package client

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"battlecode-client/internal/app"
	"battlecode-client/internal/game"
	"battlecode-client/internal/playback"
	"battlecode-client/pkg/maps"
)

const maxEditorIsland = 15

var brushKeys = []ebiten.Key{
	ebiten.KeyDigit1, ebiten.KeyDigit2, ebiten.KeyDigit3,
	ebiten.KeyDigit4, ebiten.KeyDigit5, ebiten.KeyDigit6,
}

// EditorScene paints maps on a blank single-turn match.
type EditorScene struct {
	game       *Game
	editorGame *playback.Game
	prevMatch  *playback.Match

	brushes   []maps.Brush
	bodyBrush int
	direction game.Direction

	nameInput *TextInput
	buttons   []*Button

	hoverX, hoverY int
	hovering       bool

	builtin int
}

// NewEditorScene creates the map editor scene.
func NewEditorScene(g *Game) *EditorScene {
	s := &EditorScene{game: g, direction: game.North}

	x := ScreenWidth - SidebarWidth + 10
	s.nameInput = &TextInput{X: x, Y: 400, W: SidebarWidth - 20, H: 28, Placeholder: "map name", MaxLength: 40}

	bw := (SidebarWidth - 30) / 4
	add := func(col, row int, text string, fn func()) {
		s.buttons = append(s.buttons, &Button{
			X: x + col*(bw+3), Y: 440 + row*34, W: bw, H: 28, Text: text, OnClick: fn,
		})
	}
	add(0, 0, "W-", func() { s.resize(-1, 0) })
	add(1, 0, "W+", func() { s.resize(1, 0) })
	add(2, 0, "H-", func() { s.resize(0, -1) })
	add(3, 0, "H+", func() { s.resize(0, 1) })
	add(0, 1, "Sym", s.cycleSymmetry)
	add(1, 1, "Gen", s.generate)
	add(2, 1, "Clear", s.clear)
	add(3, 1, "Save", s.save)
	return s
}

// Typing reports whether the name field has keyboard focus.
func (s *EditorScene) Typing() bool {
	return s.nameInput.IsFocused()
}

// OnEnter shows the editor game in place of the active replay.
func (s *EditorScene) OnEnter() {
	if m := s.game.state.ActiveMatch; m == nil || m.Game() != s.editorGame {
		s.prevMatch = m
	}
	s.game.state = s.game.state.WithPage(app.PageMapEditor)
	if s.editorGame == nil {
		s.setGame(app.NewEditorGame(s.game.state.Editor))
		return
	}
	s.game.state = s.game.state.WithGame(s.editorGame)
}

// OnExit takes the editor game out of the queue and, unless another game
// was activated meanwhile, restores the replay that was active before.
func (s *EditorScene) OnExit() {
	wasActive := s.game.state.ActiveGame == s.editorGame
	s.game.state = s.game.state.RemoveGame(s.editorGame)
	if wasActive && s.prevMatch != nil {
		if state, err := s.game.state.WithActiveMatch(s.prevMatch); err == nil {
			s.game.state = state
		}
	}
}

// EditMap opens a map file in the editor.
func (g *Game) EditMap(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	static, bodies, err := maps.Import(data)
	if err != nil {
		return err
	}
	if err := g.editorScene.load(static, bodies); err != nil {
		return err
	}
	g.SetScene(g.editorScene)
	return nil
}

// setGame swaps in a new editor game, keeping the selected brush kind.
func (s *EditorScene) setGame(pg *playback.Game) {
	open := -1
	for i, b := range s.brushes {
		if b.Open() {
			open = i
		}
	}

	if s.editorGame != nil {
		s.game.state = s.game.state.RemoveGame(s.editorGame)
	}
	s.editorGame = pg
	s.game.state = s.game.state.WithGame(pg)

	s.brushes = s.turn().EditorBrushes()
	if open < 0 {
		open = 0
	}
	maps.SetOpenBrush(s.brushes, s.brushes[open])
}

func (s *EditorScene) load(static *maps.StaticMap, bodies []maps.InitialBody) error {
	pg, err := app.EditorGameFromMap(static, bodies)
	if err != nil {
		return err
	}
	state, err := s.game.state.WithEditorParams(app.ParamsOf(static))
	if err != nil {
		return err
	}
	s.game.state = state
	s.setGame(pg)
	s.nameInput.Text = static.Name()
	return nil
}

func (s *EditorScene) turn() *playback.Turn {
	return s.editorGame.CurrentMatch().CurrentTurn()
}

// requireCleared reports whether the map may change shape.
func (s *EditorScene) requireCleared() bool {
	if app.EditorCleared(s.game.state) {
		return true
	}
	s.game.SetStatus("clear the map first")
	return false
}

func (s *EditorScene) resize(dw, dh int) {
	if !s.requireCleared() {
		return
	}
	p := s.game.state.Editor
	p.Width += dw
	p.Height += dh
	s.applyParams(p)
}

func (s *EditorScene) cycleSymmetry() {
	if !s.requireCleared() {
		return
	}
	p := s.game.state.Editor
	p.Symmetry = p.Symmetry.Next()
	s.applyParams(p)
}

func (s *EditorScene) applyParams(p app.EditorParams) {
	state, err := s.game.state.WithEditorParams(p)
	if err != nil {
		s.game.SetStatus("%v", err)
		return
	}
	s.game.state = state
	s.setGame(app.NewEditorGame(state.Editor))
}

func (s *EditorScene) clear() {
	s.setGame(app.NewEditorGame(s.game.state.Editor))
}

// generate replaces the map with a random one of the current shape.
func (s *EditorScene) generate() {
	p := s.game.state.Editor
	opts := maps.DefaultOptions()
	opts.Width, opts.Height, opts.Symmetry = p.Width, p.Height, p.Symmetry
	opts.Seed = time.Now().UnixNano()

	current, bodies := maps.NewGenerator(opts).Generate()
	if err := s.load(current.Freeze(s.mapName()), bodies); err != nil {
		s.game.SetStatus("generate failed: %v", err)
		return
	}
	s.game.SetStatus("generated map with seed %d", current.StaticMap().Seed())
}

// nextBuiltin loads the next built-in map, wrapping after the last.
func (s *EditorScene) nextBuiltin() {
	list := maps.List()
	if len(list) == 0 {
		s.game.SetStatus("no built-in maps")
		return
	}
	info := list[s.builtin%len(list)]
	s.builtin++
	b := maps.Get(info.Name)
	if b == nil {
		return
	}
	if err := s.load(b.Map, b.Bodies); err != nil {
		s.game.SetStatus("load %s failed: %v", info.Name, err)
		return
	}
	s.game.SetStatus("loaded built-in map %s", info.Name)
}

func (s *EditorScene) mapName() string {
	if name := strings.TrimSpace(s.nameInput.Text); name != "" {
		return name
	}
	return "custom"
}

func (s *EditorScene) save() {
	turn := s.turn()
	data, err := maps.Export(turn.Map, turn.Bodies.Initial(), s.mapName())
	if err != nil {
		s.game.SetStatus("save failed: %v", err)
		return
	}
	dir := s.game.config.LastDir
	if dir == "" {
		dir = "."
	}
	path := filepath.Join(dir, s.mapName()+".map23")
	if err := os.WriteFile(path, data, 0644); err != nil {
		s.game.SetStatus("save failed: %v", err)
		return
	}
	s.game.SetStatus("saved %s", path)
}

func (s *EditorScene) copyMap() {
	turn := s.turn()
	text, err := maps.ExportString(turn.Map, turn.Bodies.Initial(), s.mapName())
	if err != nil {
		s.game.SetStatus("copy failed: %v", err)
		return
	}
	if !CopyText(text) {
		s.game.SetStatus("clipboard unavailable")
		return
	}
	s.game.SetStatus("map copied to clipboard")
}

func (s *EditorScene) pasteMap() {
	text := PasteText()
	if text == "" {
		s.game.SetStatus("clipboard is empty")
		return
	}
	static, bodies, err := maps.ImportString(text)
	if err != nil {
		s.game.SetStatus("paste failed: %v", err)
		return
	}
	if err := s.load(static, bodies); err != nil {
		s.game.SetStatus("paste failed: %v", err)
		return
	}
	s.game.SetStatus("pasted %s", static.Name())
}

// selectBrush opens brush i. Key 6 cycles through the body brushes.
func (s *EditorScene) selectBrush(i int) {
	mapBrushes := len(s.brushes) - len(game.BodyTypes)*len(game.Teams)
	if i >= mapBrushes {
		if maps.OpenBrush(s.brushes) == s.brushes[mapBrushes+s.bodyBrush] {
			s.bodyBrush = (s.bodyBrush + 1) % (len(s.brushes) - mapBrushes)
		}
		i = mapBrushes + s.bodyBrush
	}
	maps.SetOpenBrush(s.brushes, s.brushes[i])
}

// cycleParam steps the typed parameter of the open brush.
func (s *EditorScene) cycleParam(step int) {
	switch b := maps.OpenBrush(s.brushes).(type) {
	case *maps.CurrentBrush:
		d := int(s.direction) - 1 + step
		s.direction = game.Direction((d+8)%8 + 1)
		b.Direction = s.direction
	case *maps.IslandBrush:
		id := b.Island + int32(2*step)
		if id < 1 {
			id = maxEditorIsland
		} else if id > maxEditorIsland {
			id = 1
		}
		b.Island = id
	case *maps.WellBrush:
		n := len(game.ResourceTypes)
		for i, r := range game.ResourceTypes {
			if r == b.Resource {
				b.Resource = game.ResourceTypes[(i+step+n)%n]
				break
			}
		}
	}
}

// paint applies the open brush in add or erase mode.
func (s *EditorScene) paint(x, y int, add bool) bool {
	switch b := maps.OpenBrush(s.brushes).(type) {
	case *maps.WallBrush:
		b.Add = add
		return b.Apply(x, y)
	case *maps.CloudBrush:
		b.Add = add
		return b.Apply(x, y)
	case *maps.CurrentBrush:
		b.Direction = game.Center
		if add {
			b.Direction = s.direction
		}
		return b.Apply(x, y)
	case *maps.IslandBrush:
		b.Add = add
		return b.Apply(x, y)
	case *maps.WellBrush:
		b.Add = add
		return b.Apply(x, y)
	case *playback.BodyBrush:
		b.Add = add
		return b.Apply(x, y)
	}
	return false
}

func (s *EditorScene) layout() boardLayout {
	m := s.turn().Map
	return fitBoard(10, 10, ScreenWidth-SidebarWidth-20, ScreenHeight-40, m.Width(), m.Height())
}

// Update handles painting and shortcuts.
func (s *EditorScene) Update() error {
	s.nameInput.Update()
	for _, b := range s.buttons {
		b.Update()
	}

	l := s.layout()
	mx, my := ebiten.CursorPosition()
	s.hoverX, s.hoverY, s.hovering = l.cellAt(mx, my)
	if s.hovering {
		switch {
		case ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft):
			s.paint(s.hoverX, s.hoverY, true)
		case ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight):
			s.paint(s.hoverX, s.hoverY, false)
		}
	}

	if s.Typing() {
		return nil
	}

	ctrl := ebiten.IsKeyPressed(ebiten.KeyControl) || ebiten.IsKeyPressed(ebiten.KeyMeta)
	switch {
	case ctrl && inpututil.IsKeyJustPressed(ebiten.KeyC):
		s.copyMap()
	case ctrl && inpututil.IsKeyJustPressed(ebiten.KeyV):
		s.pasteMap()
	case ctrl && inpututil.IsKeyJustPressed(ebiten.KeyS):
		s.save()
	case ctrl:
	case inpututil.IsKeyJustPressed(ebiten.KeyS):
		s.cycleSymmetry()
	case inpututil.IsKeyJustPressed(ebiten.KeyG):
		s.generate()
	case inpututil.IsKeyJustPressed(ebiten.KeyB):
		s.nextBuiltin()
	case inpututil.IsKeyJustPressed(ebiten.KeyDelete):
		s.clear()
	case inpututil.IsKeyJustPressed(ebiten.KeyQ):
		s.cycleParam(-1)
	case inpututil.IsKeyJustPressed(ebiten.KeyE):
		s.cycleParam(1)
	default:
		for i, key := range brushKeys {
			if inpututil.IsKeyJustPressed(key) {
				s.selectBrush(i)
			}
		}
	}
	return nil
}

// Draw renders the board being edited and the brush sidebar.
func (s *EditorScene) Draw(screen *ebiten.Image) {
	l := s.layout()
	turn := s.turn()
	drawTurn(screen, l, turn)
	if s.hovering {
		highlightCell(screen, l, s.hoverX, s.hoverY, ColorText)
		sx, sy := turn.Map.StaticMap().SymmetricPoint(s.hoverX, s.hoverY)
		if sx != s.hoverX || sy != s.hoverY {
			highlightCell(screen, l, sx, sy, ColorTextMuted)
		}
	}

	x := ScreenWidth - SidebarWidth
	DrawTitledPanel(screen, x, 0, SidebarWidth, ScreenHeight-20, "Map Editor")

	p := s.game.state.Editor
	y := 30
	DrawText(screen, fmt.Sprintf("%dx%d %s", p.Width, p.Height, p.Symmetry), x+10, y, ColorText)
	y += 24

	open := maps.OpenBrush(s.brushes)
	mapBrushes := len(s.brushes) - len(game.BodyTypes)*len(game.Teams)
	for i := 0; i < mapBrushes; i++ {
		s.drawBrushLine(screen, x+10, y, i+1, s.brushes[i], open)
		y += 18
	}
	s.drawBrushLine(screen, x+10, y, mapBrushes+1, s.brushes[mapBrushes+s.bodyBrush], open)
	y += 28

	if s.hovering {
		DrawText(screen, fmt.Sprintf("Cell (%d, %d)", s.hoverX, s.hoverY), x+10, y, ColorTextMuted)
		if body, ok := turn.Bodies.At(s.hoverX, s.hoverY); ok {
			DrawText(screen, fmt.Sprintf("%s %s #%d", body.Team, body.Type, body.ID), x+10, y+16, ColorTextMuted)
		}
	}

	s.nameInput.Draw(screen)
	for _, b := range s.buttons {
		b.Draw(screen)
	}

	help := []string{
		"1-6 brush  Q/E option  LMB add  RMB erase",
		"S symmetry  G generate  B built-in  Del clear",
		"Ctrl+C copy  Ctrl+V paste  Ctrl+S save",
		"Tab playback",
	}
	for i, h := range help {
		DrawText(screen, h, x+10, ScreenHeight-96+i*16, ColorTextMuted)
	}
}

func (s *EditorScene) drawBrushLine(screen *ebiten.Image, x, y, key int, b, open maps.Brush) {
	marker := "  "
	if b == open {
		marker = "> "
	}
	text := fmt.Sprintf("%s%d %s", marker, key, b.Name())
	switch b := b.(type) {
	case *maps.CurrentBrush:
		text += fmt.Sprintf(" [%c]", s.direction.Arrow())
	case *maps.IslandBrush:
		text += fmt.Sprintf(" [%d/%d]", b.Island, maps.MirrorIsland(b.Island))
	case *maps.WellBrush:
		text += fmt.Sprintf(" [%s]", b.Resource)
	}
	DrawText(screen, text, x, y, ColorText)
}
