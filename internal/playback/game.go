package playback

import (
	"fmt"

	"github.com/google/uuid"

	"battlecode-client/internal/game"
)

// Game is everything loaded from one replay file or one live run.
type Game struct {
	ID          string
	SpecVersion string
	Teams       []game.TeamInfo
	Winner      game.Team

	matches []*Match
	current *Match
}

// NewGame creates an empty game.
func NewGame() *Game {
	return &Game{ID: uuid.New().String()}
}

// AddMatch appends a match and makes g its owner.
func (g *Game) AddMatch(m *Match) {
	m.game = g
	g.matches = append(g.matches, m)
}

// Matches returns the matches in play order.
func (g *Game) Matches() []*Match {
	return g.matches
}

// CurrentMatch returns the selected match, or nil.
func (g *Game) CurrentMatch() *Match {
	return g.current
}

// SetCurrentMatch selects a match. It must be nil or one of this game's.
func (g *Game) SetCurrentMatch(m *Match) error {
	if m != nil && m.game != g {
		return game.ErrForeignMatch
	}
	g.current = m
	return nil
}

// SetCurrentMatchIndex selects a match by position.
func (g *Game) SetCurrentMatchIndex(i int) error {
	if i < 0 || i >= len(g.matches) {
		return fmt.Errorf("match index %d out of range [0, %d)", i, len(g.matches))
	}
	g.current = g.matches[i]
	return nil
}

// MatchIndex returns the position of m in the game, or -1.
func (g *Game) MatchIndex(m *Match) int {
	for i, other := range g.matches {
		if other == m {
			return i
		}
	}
	return -1
}

// Team returns the recorded info of a team.
func (g *Game) Team(t game.Team) (game.TeamInfo, bool) {
	for _, info := range g.Teams {
		if info.Team == t {
			return info, true
		}
	}
	return game.TeamInfo{}, false
}
