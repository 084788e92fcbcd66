package playback_test

import (
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"battlecode-client/internal/game"
	"battlecode-client/internal/playback"
	"battlecode-client/internal/playback/playbacktest"
	"battlecode-client/pkg/maps"
)

func TestBodiesSpawnAndRemove(t *testing.T) {
	b := playback.NewBodies()
	assert.True(t, b.IsEmpty())

	require.NoError(t, b.Spawn(playback.NewBody(4, game.TeamA, game.BodyCarrier, 1, 2)))
	assert.ErrorIs(t, b.Spawn(playback.NewBody(4, game.TeamB, game.BodyLauncher, 3, 3)), game.ErrBodyExists)
	assert.ErrorIs(t, b.Spawn(playback.NewBody(5, game.TeamNone, game.BodyLauncher, 3, 3)), game.ErrInvalidTeam)
	assert.Equal(t, int32(5), b.NextID())

	body, ok := b.At(1, 2)
	require.True(t, ok)
	assert.Equal(t, game.BodyCarrier.Health(), body.Health)

	_, err := b.Remove(4)
	require.NoError(t, err)
	_, err = b.Remove(4)
	assert.ErrorIs(t, err, game.ErrBodyNotFound)
	assert.True(t, b.IsEmpty())
	assert.Equal(t, int32(5), b.NextID(), "ids are never handed out twice")
}

func TestBodiesSpawnStacksOnOneCell(t *testing.T) {
	b := playback.NewBodies()
	require.NoError(t, b.Spawn(playback.NewBody(9, game.TeamB, game.BodyLauncher, 6, 6)))
	require.NoError(t, b.Spawn(playback.NewBody(3, game.TeamA, game.BodyCarrier, 6, 6)))
	assert.Equal(t, 2, b.Len())
	assert.True(t, b.Occupied(6, 6))

	body, ok := b.At(6, 6)
	require.True(t, ok)
	assert.Equal(t, int32(3), body.ID, "lowest id wins the cell")
}

func TestEditorBrushes(t *testing.T) {
	turn := playback.NewTurn(maps.FromParams(30, 30, game.Rotational), playback.NewBodies())
	brushes := turn.EditorBrushes()

	var bodyBrushes int
	for _, b := range brushes {
		if b.Kind() == maps.BrushBodies {
			bodyBrushes++
		}
	}
	assert.Equal(t, len(game.BodyTypes)*2, bodyBrushes)
	assert.Len(t, brushes, 5+bodyBrushes)
}

func TestBodyBrushOccupiedCellIsNoop(t *testing.T) {
	turn := playback.NewTurn(maps.FromParams(30, 30, game.Rotational), playback.NewBodies())
	brush := turn.Bodies.GetEditorBrushes(turn.Map.StaticMap())[0].(*playback.BodyBrush)

	require.True(t, brush.Apply(3, 4))
	assert.Equal(t, 2, turn.Bodies.Len())
	mirror, ok := turn.Bodies.At(26, 25)
	require.True(t, ok)
	assert.Equal(t, brush.Team.Opponent(), mirror.Team)

	before := turn.Bodies.Clone()
	nextID := turn.Bodies.NextID()
	assert.False(t, brush.Apply(3, 4))
	assert.False(t, brush.Apply(26, 25))
	assert.True(t, before.Equal(turn.Bodies))
	assert.Equal(t, nextID, turn.Bodies.NextID())

	brush.Add = false
	assert.True(t, brush.Apply(3, 4))
	assert.True(t, turn.Bodies.IsEmpty())
}

func TestBodyBrushRespectsWalls(t *testing.T) {
	turn := playback.NewTurn(maps.FromParams(20, 20, game.Vertical), playback.NewBodies())
	brushes := turn.EditorBrushes()
	require.True(t, brushes[maps.BrushWalls].Apply(5, 5))

	body := brushes[len(brushes)-1]
	assert.False(t, body.Apply(5, 5))
	assert.False(t, body.Apply(14, 5))
	assert.True(t, turn.Bodies.IsEmpty())

	// walls cannot be painted under bodies either
	require.True(t, body.Apply(8, 8))
	assert.False(t, brushes[maps.BrushWalls].Apply(8, 8))
}

func TestDeltaInverse(t *testing.T) {
	static := maps.FromParams(20, 20, game.Rotational)
	turn := playback.NewTurn(static, playback.NewBodies())
	require.NoError(t, turn.Bodies.Spawn(playback.NewBody(1, game.TeamA, game.BodyHeadquarters, 2, 2)))
	before := turn.Clone()

	d := playback.Delta{
		playback.Spawn{Body: playback.NewBody(2, game.TeamB, game.BodyCarrier, 5, 5)},
		playback.Move{ID: 2, X: 6, Y: 5},
		playback.SetHealth{ID: 1, Health: 400},
		playback.SetCargo{ID: 2, Cargo: game.Cargo{Mana: 3}},
		playback.SetIslandOwner{Island: 3, Team: game.TeamB},
		playback.SetWellAmount{Cell: 17, Amount: 90},
		playback.SetTeamStats{Team: game.TeamA, Stats: playback.TeamStats{Resources: game.Cargo{Adamantium: 12}}},
		playback.Remove{ID: 1},
	}
	inv, err := d.Apply(turn)
	require.NoError(t, err)
	assert.Equal(t, 1, turn.Bodies.Len())
	assert.Equal(t, game.TeamB, turn.Map.IslandOwner(3))
	assert.Equal(t, int32(12), turn.StatsFor(game.TeamA).Resources.Adamantium)

	_, err = inv.Apply(turn)
	require.NoError(t, err)
	assert.True(t, before.Equal(turn))
}

func TestDeltaRollsBackOnError(t *testing.T) {
	turn := playback.NewTurn(maps.FromParams(20, 20, game.Rotational), playback.NewBodies())
	require.NoError(t, turn.Bodies.Spawn(playback.NewBody(1, game.TeamA, game.BodyHeadquarters, 2, 2)))
	before := turn.Clone()

	d := playback.Delta{
		playback.Move{ID: 1, X: 3, Y: 3},
		playback.SetWellAmount{Cell: 5, Amount: 1},
		playback.SetHealth{ID: 99, Health: 1},
	}
	_, err := d.Apply(turn)
	assert.ErrorIs(t, err, game.ErrBodyNotFound)
	assert.True(t, before.Equal(turn))

	_, err = playback.Delta{playback.Move{ID: 1, X: 40, Y: 0}}.Apply(turn)
	assert.ErrorIs(t, err, game.ErrOutOfBounds)
}

// reference walks a match from turn 0 to the end and snapshots every turn.
func reference(m *playback.Match) []*playback.Turn {
	m.JumpToTurn(0)
	turns := []*playback.Turn{m.CurrentTurn().Clone()}
	for m.StepForward() {
		turns = append(turns, m.CurrentTurn().Clone())
	}
	return turns
}

func TestStepRoundTrip(t *testing.T) {
	m := playbacktest.Match(playback.NewGame(), playbacktest.Options{Seed: 11, Rounds: 200})
	require.Equal(t, 201, m.TurnCount())

	for i := 0; i < m.TurnCount(); i++ {
		m.JumpToTurn(i)
		before := m.CurrentTurn().Clone()

		if m.StepForward() {
			m.StepBackward()
		}
		require.True(t, before.Equal(m.CurrentTurn()), "forward/back at turn %d", i)

		if m.StepBackward() {
			m.StepForward()
		}
		require.True(t, before.Equal(m.CurrentTurn()), "back/forward at turn %d", i)
	}
}

func TestJumpMatchesSequentialPlayback(t *testing.T) {
	m := playbacktest.Match(playback.NewGame(), playbacktest.Options{Seed: 5, Rounds: 300, Symmetry: game.Horizontal})
	turns := reference(m)
	require.Len(t, turns, 301)

	for _, target := range []int{300, 0, 129, 64, 65, 250, 3, 299, 128, 190} {
		m.JumpToTurn(target)
		assert.Equal(t, target, m.CurrentTurn().Number)
		assert.True(t, turns[target].Equal(m.CurrentTurn()), "jump to %d", target)
	}
	assert.True(t, turns[300].Equal(m.FinalTurn()))
	assert.True(t, turns[0].Equal(m.InitialTurn()))
}

func TestCursorClamps(t *testing.T) {
	m := playbacktest.Match(playback.NewGame(), playbacktest.Options{Seed: 2, Rounds: 70})
	tests := []struct {
		name string
		move func()
		want int
	}{
		{"jump below zero", func() { m.JumpToTurn(-40) }, 0},
		{"jump past end", func() { m.JumpToTurn(1 << 30) }, 70},
		{"step past end", func() { m.Step(9999) }, 70},
		{"step below zero", func() { m.Step(-9999) }, 0},
		{"step back at zero", func() { m.StepBackward() }, 0},
		{"step", func() { m.Step(5) }, 5},
		{"step by max int", func() { m.Step(math.MaxInt) }, 70},
		{"step by min int", func() { m.Step(math.MinInt) }, 0},
		{"step by max int from zero", func() { m.Step(math.MaxInt) }, 70},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.move()
			assert.Equal(t, tt.want, m.CurrentTurn().Number)
			assert.GreaterOrEqual(t, m.CurrentTurn().Number, 0)
			assert.Less(t, m.CurrentTurn().Number, m.TurnCount())
		})
	}

	m.JumpToTurn(70)
	assert.False(t, m.StepForward())
	assert.Equal(t, 70, m.CurrentTurn().Number)
}

func TestCreateBlank(t *testing.T) {
	g := playback.NewGame()
	static := maps.FromParams(30, 30, game.Rotational)
	m := playback.CreateBlank(g, playback.NewBodies(), static)

	assert.Equal(t, 1, m.TurnCount())
	assert.Same(t, g, m.Game())
	assert.True(t, m.CurrentTurn().IsEmpty())
	assert.False(t, m.StepForward())
	m.JumpToTurn(12)
	assert.Equal(t, 0, m.CurrentTurn().Number)
	assert.Same(t, m.CurrentTurn(), m.InitialTurn())
}

func TestAppendDeltaAfterEditing(t *testing.T) {
	static := maps.FromParams(20, 20, game.Rotational)
	m := playback.CreateBlank(nil, playback.NewBodies(), static)
	require.NoError(t, m.CurrentTurn().Bodies.Spawn(playback.NewBody(0, game.TeamA, game.BodyHeadquarters, 1, 1)))

	require.NoError(t, m.AppendDelta(playback.Delta{playback.Move{ID: 0, X: 2, Y: 1}}))
	assert.ErrorIs(t, m.AppendDelta(playback.Delta{playback.Move{ID: 8, X: 2, Y: 1}}), game.ErrBodyNotFound)
	assert.Equal(t, 2, m.TurnCount())
	assert.Equal(t, 0, m.CurrentTurn().Number, "appending does not move the cursor")

	require.True(t, m.StepForward())
	body, _ := m.CurrentTurn().Bodies.Get(0)
	assert.Equal(t, 2, body.X)
}

func TestNewMatchRejectsBadDelta(t *testing.T) {
	g := playback.NewGame()
	_, err := playback.NewMatch(g, maps.FromParams(20, 20, game.Rotational), playback.NewBodies(),
		[]playback.Delta{{playback.Remove{ID: 3}}})
	assert.ErrorIs(t, err, game.ErrBodyNotFound)
	assert.Empty(t, g.Matches())
}

func TestGameCurrentMatch(t *testing.T) {
	g := playback.NewGame()
	other := playback.NewGame()
	static := maps.FromParams(20, 20, game.Rotational)
	a := playback.CreateBlank(g, playback.NewBodies(), static)
	b := playback.CreateBlank(g, playback.NewBodies(), static)
	foreign := playback.CreateBlank(other, playback.NewBodies(), static)

	assert.Nil(t, g.CurrentMatch())
	require.NoError(t, g.SetCurrentMatch(b))
	assert.Same(t, b, g.CurrentMatch())
	assert.ErrorIs(t, g.SetCurrentMatch(foreign), game.ErrForeignMatch)
	assert.Same(t, b, g.CurrentMatch())
	require.NoError(t, g.SetCurrentMatch(nil))
	assert.Nil(t, g.CurrentMatch())

	require.NoError(t, g.SetCurrentMatchIndex(0))
	assert.Same(t, a, g.CurrentMatch())
	assert.Error(t, g.SetCurrentMatchIndex(2))
	assert.Equal(t, 1, g.MatchIndex(b))
	assert.Equal(t, -1, g.MatchIndex(foreign))
}

func TestMatchesAcrossSymmetries(t *testing.T) {
	for _, sym := range game.Symmetries {
		t.Run(fmt.Sprint(sym), func(t *testing.T) {
			m := playbacktest.Match(playback.NewGame(), playbacktest.Options{Seed: 31, Rounds: 40, Symmetry: sym})
			turns := reference(m)
			m.JumpToTurn(17)
			assert.True(t, turns[17].Equal(m.CurrentTurn()))
		})
	}
}

func TestTurnString(t *testing.T) {
	static := maps.FromParams(20, 20, game.Rotational)
	bodies := playback.NewBodies()
	require.NoError(t, bodies.Spawn(playback.NewBody(1, game.TeamA, game.BodyHeadquarters, 0, 0)))
	require.NoError(t, bodies.Spawn(playback.NewBody(2, game.TeamB, game.BodyLauncher, 19, 19)))

	out := playback.NewTurn(static, bodies).String()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")

	assert.Equal(t, "Turn 0", lines[0])
	top, bottom := lines[len(lines)-20], lines[len(lines)-1]
	assert.True(t, strings.HasSuffix(top, " l"), top)
	assert.True(t, strings.HasPrefix(bottom, " H"), bottom)
}
