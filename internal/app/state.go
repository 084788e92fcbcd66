// Package app holds the client's application state. The state is a value;
// every transition returns a new State and leaves the old one untouched.
package app

import (
	"errors"
	"fmt"

	"battlecode-client/internal/game"
	"battlecode-client/internal/playback"
	"battlecode-client/pkg/maps"
)

var ErrUnknownGame = errors.New("game is not in the queue")

// ErrEditorSize is returned for maps the editor cannot hold.
var ErrEditorSize = errors.New("map size is outside the editor range")

// Page is the sidebar page on display.
type Page int

const (
	PageGame Page = iota
	PageQueue
	PageRunner
	PageProfiler
	PageMapEditor
	PageHelp
)

var pageNames = [...]string{"Game", "Queue", "Runner", "Profiler", "Map Editor", "Help"}

// Pages lists every page in sidebar order.
var Pages = []Page{PageGame, PageQueue, PageRunner, PageProfiler, PageMapEditor, PageHelp}

func (p Page) String() string {
	if p < 0 || int(p) >= len(pageNames) {
		return fmt.Sprintf("Page(%d)", int(p))
	}
	return pageNames[p]
}

// EditorParams are the dimensions and symmetry of the map being edited.
type EditorParams struct {
	Width    int
	Height   int
	Symmetry game.Symmetry
}

// DefaultEditorParams returns the editor's starting map shape.
func DefaultEditorParams() EditorParams {
	return EditorParams{Width: maps.DefaultMapSize, Height: maps.DefaultMapSize, Symmetry: game.Rotational}
}

// State is everything the UI selects and displays.
type State struct {
	Queue       []*playback.Game
	ActiveGame  *playback.Game
	ActiveMatch *playback.Match
	Page        Page
	Editor      EditorParams

	loadSeq uint64
}

// LoadTicket identifies one asynchronous load.
type LoadTicket struct {
	seq  uint64
	game *playback.Game
}

// New returns the state at startup.
func New() State {
	return State{Page: PageGame, Editor: DefaultEditorParams()}
}

// WithGame appends a game to the queue and makes it active, along with its
// current match or else its first.
func (s State) WithGame(g *playback.Game) State {
	if g == nil {
		return s
	}
	queue := make([]*playback.Game, 0, len(s.Queue)+1)
	for _, q := range s.Queue {
		if q != g {
			queue = append(queue, q)
		}
	}
	s.Queue = append(queue, g)
	s.ActiveGame = g
	s.ActiveMatch = defaultMatch(g)
	return s
}

func defaultMatch(g *playback.Game) *playback.Match {
	if m := g.CurrentMatch(); m != nil {
		return m
	}
	if ms := g.Matches(); len(ms) > 0 {
		return ms[0]
	}
	return nil
}

func (s State) queued(g *playback.Game) bool {
	for _, q := range s.Queue {
		if q == g {
			return true
		}
	}
	return false
}

// WithActiveMatch selects a match of a queued game, switching the active
// game to its owner. A nil match clears the selection but keeps the game.
func (s State) WithActiveMatch(m *playback.Match) (State, error) {
	if m == nil {
		s.ActiveMatch = nil
		return s, nil
	}
	g := m.Game()
	if g == nil || g.MatchIndex(m) < 0 {
		return s, game.ErrForeignMatch
	}
	if !s.queued(g) {
		return s, ErrUnknownGame
	}
	s.ActiveGame = g
	s.ActiveMatch = m
	return s, nil
}

// WithPage switches the sidebar page.
func (s State) WithPage(p Page) State {
	s.Page = p
	return s
}

// RemoveGame drops a game from the queue. Removing the active game
// activates the most recently queued remaining one.
func (s State) RemoveGame(g *playback.Game) State {
	if !s.queued(g) {
		return s
	}
	queue := make([]*playback.Game, 0, len(s.Queue)-1)
	for _, q := range s.Queue {
		if q != g {
			queue = append(queue, q)
		}
	}
	s.Queue = queue
	if s.ActiveGame == g {
		s.ActiveGame, s.ActiveMatch = nil, nil
		if len(queue) > 0 {
			s.ActiveGame = queue[len(queue)-1]
			s.ActiveMatch = defaultMatch(s.ActiveGame)
		}
	}
	return s
}

// WithEditorParams sets the editor's map shape. Sizes are clamped; an
// unknown symmetry is an error.
func (s State) WithEditorParams(p EditorParams) (State, error) {
	if !p.Symmetry.Valid() {
		return s, fmt.Errorf("%w: %d", game.ErrInvalidSymmetry, p.Symmetry)
	}
	s.Editor = clampParams(p)
	return s, nil
}

func clampParams(p EditorParams) EditorParams {
	static := maps.FromParams(p.Width, p.Height, p.Symmetry)
	return EditorParams{Width: static.Width(), Height: static.Height(), Symmetry: static.Symmetry()}
}

// BeginLoad starts an asynchronous load. Only the newest ticket can
// complete, and only while the active game is the one it started from.
func (s State) BeginLoad() (State, LoadTicket) {
	s.loadSeq++
	return s, LoadTicket{seq: s.loadSeq, game: s.ActiveGame}
}

// CompleteLoad applies a finished load. It reports false and returns the
// state unchanged when the load was superseded.
func (s State) CompleteLoad(t LoadTicket, g *playback.Game) (State, bool) {
	if t.seq != s.loadSeq || t.game != s.ActiveGame || g == nil {
		return s, false
	}
	return s.WithGame(g), true
}

// NewEditorGame builds the blank single-match game the map editor paints on.
func NewEditorGame(p EditorParams) *playback.Game {
	p = clampParams(p)
	g := playback.NewGame()
	g.SpecVersion = game.SpecVersion
	static := maps.FromParams(p.Width, p.Height, p.Symmetry)
	m := playback.CreateBlank(g, playback.NewBodies(), static)
	_ = g.SetCurrentMatch(m)
	return g
}

// EditorGameFromMap builds an editor game that starts from an existing map
// and its initial bodies, as loaded from a map file or the generator.
// Both sides must lie in [maps.MinMapSize, maps.MaxMapSize].
func EditorGameFromMap(static *maps.StaticMap, initial []maps.InitialBody) (*playback.Game, error) {
	if p := ParamsOf(static); clampParams(p) != p {
		return nil, fmt.Errorf("%w: %dx%d, want %d..%d", ErrEditorSize,
			p.Width, p.Height, maps.MinMapSize, maps.MaxMapSize)
	}
	bodies, err := playback.BodiesFromInitial(initial)
	if err != nil {
		return nil, fmt.Errorf("editor bodies: %w", err)
	}
	g := playback.NewGame()
	g.SpecVersion = game.SpecVersion
	m := playback.CreateBlank(g, bodies, static)
	_ = g.SetCurrentMatch(m)
	return g, nil
}

// ParamsOf returns the editor shape of a map.
func ParamsOf(static *maps.StaticMap) EditorParams {
	return EditorParams{Width: static.Width(), Height: static.Height(), Symmetry: static.Symmetry()}
}

// EditorCleared reports whether the active match shows an empty map with
// no bodies. No active match counts as cleared.
func EditorCleared(s State) bool {
	if s.ActiveMatch == nil {
		return true
	}
	return s.ActiveMatch.CurrentTurn().IsEmpty()
}
