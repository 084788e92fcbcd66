package replay

import (
	"battlecode-client/internal/game"
	"battlecode-client/internal/playback"
)

// Summary describes a decoded game without its rounds.
type Summary struct {
	SpecVersion string          `json:"spec_version"`
	Teams       []game.TeamInfo `json:"teams"`
	Winner      string          `json:"winner"`
	Matches     []MatchSummary  `json:"matches"`
}

// MatchSummary describes one match of a game.
type MatchSummary struct {
	Map       string `json:"map"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Symmetry  string `json:"symmetry"`
	Rounds    int    `json:"rounds"`
	MaxRounds int    `json:"max_rounds"`
	Winner    string `json:"winner"`
	Bodies    int    `json:"bodies"`
	Profiled  bool   `json:"profiled"`
}

// Summarize reports the headline facts of a game.
func Summarize(g *playback.Game) Summary {
	s := Summary{
		SpecVersion: g.SpecVersion,
		Teams:       g.Teams,
		Winner:      teamName(g, g.Winner),
		Matches:     make([]MatchSummary, 0, len(g.Matches())),
	}
	for _, m := range g.Matches() {
		static := m.StaticMap()
		s.Matches = append(s.Matches, MatchSummary{
			Map:       static.Name(),
			Width:     static.Width(),
			Height:    static.Height(),
			Symmetry:  static.Symmetry().String(),
			Rounds:    m.TurnCount() - 1,
			MaxRounds: m.MaxRounds,
			Winner:    teamName(g, m.Winner),
			Bodies:    m.FinalTurn().Bodies.Len(),
			Profiled:  len(m.Profiles) > 0,
		})
	}
	return s
}

func teamName(g *playback.Game, t game.Team) string {
	if !t.Valid() {
		return ""
	}
	if info, ok := g.Team(t); ok && info.Name != "" {
		return info.Name
	}
	return t.String()
}
