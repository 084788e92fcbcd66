package client

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"battlecode-client/internal/app"
	"battlecode-client/internal/game"
	"battlecode-client/internal/playback"
	"battlecode-client/internal/profiler"
)

// PlaybackScene shows the active match of the queue.
type PlaybackScene struct {
	game     *Game
	autoplay app.Autoplay

	queue     *List
	liveBtn   *Button
	removeBtn *Button
	exportBtn *Button
}

// NewPlaybackScene creates the playback scene.
func NewPlaybackScene(g *Game) *PlaybackScene {
	s := &PlaybackScene{
		game:     g,
		autoplay: app.NewAutoplay(g.config.PlaybackSpeed),
	}

	x := ScreenWidth - SidebarWidth + 10
	s.queue = NewList(x, 330, SidebarWidth-20, 220)
	s.queue.OnSelect = s.selectGame

	s.liveBtn = &Button{X: x, Y: 560, W: 95, H: 28, Text: "Live", Primary: true, OnClick: s.watchLive}
	s.removeBtn = &Button{X: x + 100, Y: 560, W: 95, H: 28, Text: "Remove", OnClick: s.removeActive}
	s.exportBtn = &Button{X: x + 200, Y: 560, W: 100, H: 28, Text: "Profile", OnClick: s.exportProfiles}
	return s
}

// OnEnter is called when the scene becomes active.
func (s *PlaybackScene) OnEnter() {
	s.game.state = s.game.state.WithPage(app.PageGame)
}

// OnExit is called when the scene is left.
func (s *PlaybackScene) OnExit() {
	s.autoplay.Playing = false
}

// repeating reports a key press with key repeat while held.
func repeating(key ebiten.Key) bool {
	d := inpututil.KeyPressDuration(key)
	return d == 1 || (d > 20 && d%3 == 0)
}

// Update handles stepping and queue selection.
func (s *PlaybackScene) Update() error {
	s.refreshQueue()
	s.queue.Update()
	s.liveBtn.Update()
	s.removeBtn.Update()
	s.exportBtn.Update()

	m := s.game.state.ActiveMatch
	if m == nil {
		return nil
	}

	switch {
	case repeating(ebiten.KeyRight):
		s.autoplay.Playing = false
		m.StepForward()
	case repeating(ebiten.KeyLeft):
		s.autoplay.Playing = false
		m.StepBackward()
	case inpututil.IsKeyJustPressed(ebiten.KeyHome):
		m.JumpToTurn(0)
	case inpututil.IsKeyJustPressed(ebiten.KeyEnd):
		m.JumpToTurn(m.TurnCount() - 1)
	case inpututil.IsKeyJustPressed(ebiten.KeySpace):
		if m.CurrentTurn().Number == m.TurnCount()-1 {
			m.JumpToTurn(0)
		}
		s.autoplay.Toggle()
	case inpututil.IsKeyJustPressed(ebiten.KeyEqual), inpututil.IsKeyJustPressed(ebiten.KeyNumpadAdd):
		s.autoplay.Faster()
		s.game.config.PlaybackSpeed = s.autoplay.Speed
	case inpututil.IsKeyJustPressed(ebiten.KeyMinus), inpututil.IsKeyJustPressed(ebiten.KeyNumpadSubtract):
		s.autoplay.Slower()
		s.game.config.PlaybackSpeed = s.autoplay.Speed
	case inpututil.IsKeyJustPressed(ebiten.KeyBracketLeft):
		s.switchMatch(-1)
	case inpututil.IsKeyJustPressed(ebiten.KeyBracketRight):
		s.switchMatch(1)
	case inpututil.IsKeyJustPressed(ebiten.KeyP):
		s.exportProfiles()
	}

	tick := time.Duration(float64(time.Second) / float64(ebiten.TPS()))
	s.autoplay.Tick(s.game.state.ActiveMatch, tick)
	return nil
}

func (s *PlaybackScene) switchMatch(offset int) {
	m := s.game.state.ActiveMatch
	matches := m.Game().Matches()
	i := m.Game().MatchIndex(m) + offset
	if i < 0 || i >= len(matches) {
		return
	}
	state, err := s.game.state.WithActiveMatch(matches[i])
	if err != nil {
		s.game.SetStatus("cannot switch match: %v", err)
		return
	}
	s.game.state = state
	s.autoplay.Playing = false
}

func (s *PlaybackScene) selectGame(id string) {
	for _, pg := range s.game.state.Queue {
		if pg.ID != id {
			continue
		}
		m := pg.CurrentMatch()
		if m == nil && len(pg.Matches()) > 0 {
			m = pg.Matches()[0]
		}
		if m == nil {
			return
		}
		if state, err := s.game.state.WithActiveMatch(m); err == nil {
			s.game.state = state
			s.autoplay.Playing = false
		}
		return
	}
}

func (s *PlaybackScene) removeActive() {
	if g := s.game.state.ActiveGame; g != nil {
		s.game.state = s.game.state.RemoveGame(g)
		s.autoplay.Playing = false
	}
}

func (s *PlaybackScene) watchLive() {
	if err := s.game.WatchLive(); err == nil {
		s.game.SetStatus("watching live runs")
	}
}

// exportProfiles writes each team's profiler file of the active match as a
// speedscope document.
func (s *PlaybackScene) exportProfiles() {
	m := s.game.state.ActiveMatch
	if m == nil || len(m.Profiles) == 0 {
		s.game.SetStatus("match has no profiler data")
		return
	}

	dir := s.game.config.LastDir
	if dir == "" {
		dir = "."
	}
	index := m.Game().MatchIndex(m)
	for i, f := range m.Profiles {
		team := game.Teams[i%len(game.Teams)]
		name := teamLabel(m.Game(), team)
		data, err := profiler.MarshalSpeedscope(f, name)
		if err != nil {
			s.game.SetStatus("profile export failed: %v", err)
			return
		}
		path := filepath.Join(dir, fmt.Sprintf("profile-match%d-%s.json", index+1, team))
		if err := os.WriteFile(path, data, 0644); err != nil {
			s.game.SetStatus("profile export failed: %v", err)
			return
		}
		s.game.log.WithField("path", path).Info("exported profile")
	}
	s.game.SetStatus("exported %d profile(s) to %s", len(m.Profiles), dir)
}

func teamLabel(g *playback.Game, t game.Team) string {
	if info, ok := g.Team(t); ok && info.Name != "" {
		return info.Name
	}
	return t.String()
}

func (s *PlaybackScene) refreshQueue() {
	items := make([]ListItem, 0, len(s.game.state.Queue))
	for _, pg := range s.game.state.Queue {
		sub := fmt.Sprintf("%d match(es)", len(pg.Matches()))
		if pg.Winner != game.TeamNone {
			sub += ", winner " + teamLabel(pg, pg.Winner)
		}
		items = append(items, ListItem{
			ID:      pg.ID,
			Text:    teamLabel(pg, game.TeamA) + " vs " + teamLabel(pg, game.TeamB),
			Subtext: sub,
		})
	}
	s.queue.SetItems(items)
	if g := s.game.state.ActiveGame; g != nil {
		s.queue.Selected = g.ID
	}
}

// Draw renders the board and sidebar.
func (s *PlaybackScene) Draw(screen *ebiten.Image) {
	boardW := ScreenWidth - SidebarWidth
	boardH := ScreenHeight - 20
	m := s.game.state.ActiveMatch

	if m == nil {
		DrawTextCentered(screen, "No replay loaded", boardW/2, boardH/2-20, ColorText)
		DrawTextCentered(screen, "Start with -replay <file> or -stream <id>, or press Live", boardW/2, boardH/2, ColorTextMuted)
	} else {
		turn := m.CurrentTurn()
		l := fitBoard(10, 10, boardW-20, boardH-20, turn.Map.Width(), turn.Map.Height())
		drawTurn(screen, l, turn)
	}

	s.drawSidebar(screen, m)
}

func (s *PlaybackScene) drawSidebar(screen *ebiten.Image, m *playback.Match) {
	x := ScreenWidth - SidebarWidth
	DrawTitledPanel(screen, x, 0, SidebarWidth, ScreenHeight-20, "Game")

	y := 30
	line := func(text string) {
		DrawText(screen, text, x+10, y, ColorText)
		y += 16
	}

	if m != nil {
		g := m.Game()
		turn := m.CurrentTurn()
		static := m.StaticMap()

		line(fmt.Sprintf("Match %d/%d: %s", g.MatchIndex(m)+1, len(g.Matches()), static.Name()))
		line(fmt.Sprintf("%dx%d %s", static.Width(), static.Height(), static.Symmetry()))
		line(fmt.Sprintf("Turn %d/%d", turn.Number, m.TurnCount()-1))
		state := "paused"
		if s.autoplay.Playing {
			state = "playing"
		}
		line(fmt.Sprintf("Speed %.0f turns/s (%s)", s.autoplay.Speed, state))
		y += 8

		islands := turn.Map.IslandCounts()
		counts := turn.Bodies.CountByTeam()
		for _, team := range game.Teams {
			stats := turn.StatsFor(team)
			bodies := 0
			for _, n := range counts[team] {
				bodies += n
			}
			line(fmt.Sprintf("%s (%s)", teamLabel(g, team), team))
			line(fmt.Sprintf("  Ad %d  Mn %d  Ex %d", stats.Resources.Adamantium, stats.Resources.Mana, stats.Resources.Elixir))
			line(fmt.Sprintf("  Bodies %d  Islands %d", bodies, islands[team]))
		}

		if turn.Number == m.TurnCount()-1 && m.Winner != game.TeamNone {
			y += 8
			line("Winner: " + teamLabel(g, m.Winner))
		}
	}

	DrawText(screen, "Queue", x+10, 312, ColorTextMuted)
	s.queue.Draw(screen)
	s.liveBtn.Draw(screen)
	s.removeBtn.Draw(screen)
	s.exportBtn.Draw(screen)

	help := []string{
		"Left/Right step  Home/End jump",
		"Space play  +/- speed",
		"[ ] match  P profile  Tab editor",
	}
	for i, h := range help {
		DrawText(screen, h, x+10, ScreenHeight-80+i*16, ColorTextMuted)
	}
}
