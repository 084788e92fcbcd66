package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"battlecode-client/internal/game"
	"battlecode-client/internal/playback"
	"battlecode-client/internal/playback/playbacktest"
	"battlecode-client/pkg/maps"
)

func replayGame(matches int) *playback.Game {
	g := playback.NewGame()
	for i := 0; i < matches; i++ {
		playbacktest.Match(g, playbacktest.Options{Seed: int64(i + 1), Rounds: 10})
	}
	return g
}

func TestWithGame(t *testing.T) {
	s := New()
	a, b := replayGame(2), replayGame(1)

	s1 := s.WithGame(a)
	assert.Empty(t, s.Queue, "transitions do not mutate the receiver")
	assert.Same(t, a, s1.ActiveGame)
	assert.Same(t, a.Matches()[0], s1.ActiveMatch)

	require.NoError(t, b.SetCurrentMatchIndex(0))
	s2 := s1.WithGame(b)
	assert.Equal(t, []*playback.Game{a, b}, s2.Queue)
	assert.Same(t, b.Matches()[0], s2.ActiveMatch)

	s3 := s2.WithGame(a)
	assert.Equal(t, []*playback.Game{b, a}, s3.Queue, "re-adding moves a game to the back")
	assert.Len(t, s2.Queue, 2)

	assert.Equal(t, s3, s3.WithGame(nil))
}

func TestWithActiveMatch(t *testing.T) {
	a, b := replayGame(2), replayGame(2)
	stray := replayGame(1)
	s := New().WithGame(a).WithGame(b)

	s, err := s.WithActiveMatch(a.Matches()[1])
	require.NoError(t, err)
	assert.Same(t, a, s.ActiveGame)
	assert.Same(t, a.Matches()[1], s.ActiveMatch)

	_, err = s.WithActiveMatch(stray.Matches()[0])
	assert.ErrorIs(t, err, ErrUnknownGame)

	loose := playback.CreateBlank(nil, playback.NewBodies(), maps.FromParams(20, 20, game.Rotational))
	_, err = s.WithActiveMatch(loose)
	assert.ErrorIs(t, err, game.ErrForeignMatch)

	s, err = s.WithActiveMatch(nil)
	require.NoError(t, err)
	assert.Nil(t, s.ActiveMatch)
	assert.Same(t, a, s.ActiveGame)
}

func TestRemoveGame(t *testing.T) {
	a, b, c := replayGame(1), replayGame(1), replayGame(1)
	s := New().WithGame(a).WithGame(b).WithGame(c)

	tests := []struct {
		name   string
		remove *playback.Game
		queue  []*playback.Game
		active *playback.Game
	}{
		{"inactive", a, []*playback.Game{b, c}, c},
		{"active", c, []*playback.Game{a, b}, b},
		{"unknown", replayGame(1), []*playback.Game{a, b, c}, c},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := s.RemoveGame(tt.remove)
			assert.Equal(t, tt.queue, next.Queue)
			assert.Same(t, tt.active, next.ActiveGame)
		})
	}

	empty := New().WithGame(a).RemoveGame(a)
	assert.Empty(t, empty.Queue)
	assert.Nil(t, empty.ActiveGame)
	assert.Nil(t, empty.ActiveMatch)
}

func TestWithEditorParams(t *testing.T) {
	tests := []struct {
		name string
		in   EditorParams
		want EditorParams
	}{
		{"in range", EditorParams{32, 40, game.Vertical}, EditorParams{32, 40, game.Vertical}},
		{"too small", EditorParams{3, -1, game.Horizontal}, EditorParams{maps.MinMapSize, maps.MinMapSize, game.Horizontal}},
		{"too large", EditorParams{500, 61, game.Rotational}, EditorParams{maps.MaxMapSize, maps.MaxMapSize, game.Rotational}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New().WithEditorParams(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, s.Editor)
		})
	}

	s := New()
	next, err := s.WithEditorParams(EditorParams{30, 30, game.Symmetry(9)})
	assert.ErrorIs(t, err, game.ErrInvalidSymmetry)
	assert.Equal(t, s, next)
}

func TestCompleteLoad(t *testing.T) {
	base := New().WithGame(replayGame(1))
	loaded := replayGame(1)

	tests := []struct {
		name  string
		setup func(s State, ticket LoadTicket) State
		ok    bool
	}{
		{"current", func(s State, _ LoadTicket) State { return s }, true},
		{"superseded by a newer load", func(s State, _ LoadTicket) State {
			s, _ = s.BeginLoad()
			return s
		}, false},
		{"active game changed", func(s State, _ LoadTicket) State { return s.WithGame(replayGame(1)) }, false},
		{"page change keeps the ticket", func(s State, _ LoadTicket) State { return s.WithPage(PageRunner) }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, ticket := base.BeginLoad()
			s = tt.setup(s, ticket)
			next, ok := s.CompleteLoad(ticket, loaded)
			assert.Equal(t, tt.ok, ok)
			if ok {
				assert.Same(t, loaded, next.ActiveGame)
			} else {
				assert.Equal(t, s, next)
			}
		})
	}

	s, ticket := base.BeginLoad()
	_, ok := s.CompleteLoad(ticket, nil)
	assert.False(t, ok)
}

func TestEditorGame(t *testing.T) {
	g := NewEditorGame(EditorParams{Width: 100, Height: 30, Symmetry: game.Rotational})
	require.Len(t, g.Matches(), 1)
	m := g.CurrentMatch()
	require.NotNil(t, m)
	assert.Equal(t, maps.MaxMapSize, m.StaticMap().Width())
	assert.Equal(t, 1, m.TurnCount())

	s := New().WithGame(g).WithPage(PageMapEditor)
	assert.True(t, EditorCleared(s))

	brushes := m.CurrentTurn().EditorBrushes()
	well := brushes[maps.BrushWells]
	require.True(t, well.Apply(4, 4))
	assert.False(t, EditorCleared(s))

	well.(*maps.WellBrush).Add = false
	require.True(t, well.Apply(4, 4))
	assert.True(t, EditorCleared(s))

	body := brushes[len(brushes)-1]
	require.True(t, body.Apply(2, 2))
	assert.False(t, EditorCleared(s))

	assert.True(t, EditorCleared(New()))
}

func TestPageString(t *testing.T) {
	for _, p := range Pages {
		assert.NotContains(t, p.String(), "Page(")
	}
	assert.Equal(t, "Page(42)", Page(42).String())
}

func TestEditorGameFromMap(t *testing.T) {
	opts := maps.DefaultOptions()
	opts.Symmetry = game.Horizontal
	current, bodies := maps.NewGenerator(opts).Generate()
	static := current.Freeze("Generated")

	g, err := EditorGameFromMap(static, bodies)
	require.NoError(t, err)
	m := g.CurrentMatch()
	require.NotNil(t, m)
	assert.Equal(t, len(bodies), m.CurrentTurn().Bodies.Len())
	assert.False(t, EditorCleared(New().WithGame(g)))
	assert.Equal(t, EditorParams{Width: static.Width(), Height: static.Height(), Symmetry: game.Horizontal}, ParamsOf(static))

	dup := []maps.InitialBody{bodies[0], bodies[0]}
	_, err = EditorGameFromMap(static, dup)
	assert.ErrorIs(t, err, game.ErrBodyExists)
}

func TestEditorGameFromMapSize(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		wantErr       bool
	}{
		{"smallest", maps.MinMapSize, maps.MinMapSize, false},
		{"largest", maps.MaxMapSize, maps.MaxMapSize, false},
		{"engine maximum", maps.EngineMaxMapSize, maps.EngineMaxMapSize, true},
		{"too wide", maps.MaxMapSize + 1, 30, true},
		{"too short", 30, maps.MinMapSize - 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			static, err := maps.NewStaticMap(maps.Layout{Width: tt.width, Height: tt.height, Symmetry: game.Rotational})
			require.NoError(t, err)

			g, err := EditorGameFromMap(static, nil)
			if !tt.wantErr {
				require.NoError(t, err)
				assert.Equal(t, tt.width, g.CurrentMatch().StaticMap().Width())
				return
			}
			assert.ErrorIs(t, err, ErrEditorSize)
			assert.Nil(t, g)
		})
	}
}
