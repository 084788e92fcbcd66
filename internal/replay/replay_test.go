package replay

import (
	"errors"
	"math/rand"
	"testing"

	flatbuffers "github.com/google/flatbuffers/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"battlecode-client/internal/game"
	"battlecode-client/internal/playback"
	"battlecode-client/internal/playback/playbacktest"
	"battlecode-client/internal/profiler"
	"battlecode-client/internal/schema"
	"battlecode-client/pkg/maps"
)

func testGame(t *testing.T, matches int) *playback.Game {
	t.Helper()
	g := playback.NewGame()
	g.SpecVersion = game.SpecVersion
	g.Teams = []game.TeamInfo{
		{Name: "examplefuncsplayer", PackageName: "examplefuncsplayer", Team: game.TeamA},
		{Name: "botty", PackageName: "botty.v2", Team: game.TeamB},
	}
	g.Winner = game.TeamB
	for i := 0; i < matches; i++ {
		m := playbacktest.Match(g, playbacktest.Options{
			Seed:     int64(40 + i),
			Rounds:   90 + 25*i,
			Symmetry: game.Symmetries[i%len(game.Symmetries)],
		})
		if i == 1 {
			c := profiler.NewCollector(0)
			c.Enter("#3", "run", 0)
			c.Enter("#3", "move", 10)
			require.NoError(t, c.Exit("#3", "move", 30))
			m.Profiles = []profiler.File{c.Finish(), {}}
		}
	}
	return g
}

func assertSameGame(t *testing.T, want, got *playback.Game) {
	t.Helper()
	assert.Equal(t, want.SpecVersion, got.SpecVersion)
	assert.Equal(t, want.Teams, got.Teams)
	assert.Equal(t, want.Winner, got.Winner)
	require.Len(t, got.Matches(), len(want.Matches()))

	for i, wm := range want.Matches() {
		gm := got.Matches()[i]
		require.Equal(t, wm.TurnCount(), gm.TurnCount(), "match %d", i)
		assert.Equal(t, wm.Winner, gm.Winner)
		assert.Equal(t, wm.MaxRounds, gm.MaxRounds)
		assert.Equal(t, wm.StaticMap().Layout(), gm.StaticMap().Layout())
		if len(wm.Profiles) > 0 {
			assert.Len(t, gm.Profiles, len(wm.Profiles))
			assert.Equal(t, wm.Profiles[0], gm.Profiles[0])
		}

		wm.JumpToTurn(0)
		gm.JumpToTurn(0)
		for {
			require.True(t, wm.CurrentTurn().Equal(gm.CurrentTurn()), "match %d turn %d", i, wm.CurrentTurn().Number)
			if !wm.StepForward() {
				break
			}
			require.True(t, gm.StepForward())
		}
	}
}

func TestRoundTrip(t *testing.T) {
	g := testGame(t, 2)
	tests := []struct {
		name string
		opts Options
	}{
		{"bare", Options{}},
		{"size prefixed", Options{SizePrefixed: true}},
		{"compressed", Options{Compress: true}},
		{"compressed size prefixed", Options{SizePrefixed: true, Compress: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf, err := Encode(g, tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.opts.Compress, isGzip(buf))

			decoded, err := Decode(buf)
			require.NoError(t, err)
			assertSameGame(t, g, decoded)
			assert.Same(t, decoded.Matches()[0], decoded.CurrentMatch())
		})
	}
}

func TestSizePrefixDetection(t *testing.T) {
	g := testGame(t, 1)
	bare, err := Encode(g, Options{})
	require.NoError(t, err)
	prefixed, err := Encode(g, Options{SizePrefixed: true})
	require.NoError(t, err)

	assert.False(t, sizePrefixed(bare))
	assert.True(t, sizePrefixed(prefixed))
	assert.Equal(t, len(prefixed)-flatbuffers.SizeUint32, int(flatbuffers.GetUint32(prefixed)))
}

func TestDecodeThreeMatches(t *testing.T) {
	g := testGame(t, 3)
	buf, err := Encode(g, Options{})
	require.NoError(t, err)

	decoded, err := Decode(buf)
	require.NoError(t, err)
	require.Len(t, decoded.Matches(), 3)
	for i, m := range decoded.Matches() {
		assert.Equal(t, 90+25*i+1, m.TurnCount())
		assert.Equal(t, g.Matches()[i].FinalTurn().Bodies.Len(), m.FinalTurn().Bodies.Len())
		assert.Same(t, decoded, m.Game())
	}
	assert.Len(t, decoded.Matches()[1].Profiles, 2)

	root := schema.GetRootAsGameWrapper(buf, 0)
	require.Equal(t, 3, root.MatchHeadersLength())
	for i := 0; i < 3; i++ {
		assert.Less(t, root.MatchHeaders(i), root.MatchFooters(i))
	}
}

func matchFooter(t *testing.T, buf []byte, match int) *schema.MatchFooter {
	t.Helper()
	root := schema.GetRootAsGameWrapper(buf, 0)
	var ew schema.EventWrapper
	require.True(t, root.Events(&ew, int(root.MatchFooters(match))))
	require.Equal(t, schema.EventMatchFooter, ew.EType())
	var tbl flatbuffers.Table
	require.True(t, ew.E(&tbl))
	var f schema.MatchFooter
	f.Init(tbl.Bytes, tbl.Pos)
	return &f
}

func TestFooterBodyCountMismatch(t *testing.T) {
	g := testGame(t, 3)
	buf, err := Encode(g, Options{})
	require.NoError(t, err)

	footer := matchFooter(t, buf, 2)
	require.Equal(t, int32(g.Matches()[2].FinalTurn().Bodies.Len()), footer.BodyCount())
	require.True(t, footer.MutateBodyCount(footer.BodyCount()+1))

	decoded, err := Decode(buf)
	assert.Nil(t, decoded)
	var de *DecodeError
	require.ErrorAs(t, err, &de)
	assert.ErrorIs(t, err, ErrBodyCount)
	assert.Equal(t, int(schema.GetRootAsGameWrapper(buf, 0).MatchFooters(2)), de.Event)
}

func vectorLenAt(t *testing.T, tab flatbuffers.Table, slot int) flatbuffers.UOffsetT {
	t.Helper()
	o := flatbuffers.UOffsetT(tab.Offset(flatbuffers.VOffsetT(4 + 2*slot)))
	require.NotZero(t, o, "slot %d is absent", slot)
	return tab.Indirect(tab.Pos + o)
}

func TestDecodeRejectsOversizedProfilerVectors(t *testing.T) {
	tests := []struct {
		name string
		at   func(t *testing.T, footer *schema.MatchFooter) flatbuffers.UOffsetT
	}{
		{"profiler files", func(t *testing.T, footer *schema.MatchFooter) flatbuffers.UOffsetT {
			return vectorLenAt(t, footer.Table(), 2)
		}},
		{"frames", func(t *testing.T, footer *schema.MatchFooter) flatbuffers.UOffsetT {
			var pf schema.ProfilerFile
			require.True(t, footer.ProfilerFiles(&pf, 0))
			return vectorLenAt(t, pf.Table(), 0)
		}},
		{"profiles", func(t *testing.T, footer *schema.MatchFooter) flatbuffers.UOffsetT {
			var pf schema.ProfilerFile
			require.True(t, footer.ProfilerFiles(&pf, 0))
			return vectorLenAt(t, pf.Table(), 1)
		}},
		{"events", func(t *testing.T, footer *schema.MatchFooter) flatbuffers.UOffsetT {
			var pf schema.ProfilerFile
			var pp schema.ProfilerProfile
			require.True(t, footer.ProfilerFiles(&pf, 0))
			require.True(t, pf.Profiles(&pp, 0))
			return vectorLenAt(t, pp.Table(), 1)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf, err := Encode(testGame(t, 2), Options{})
			require.NoError(t, err)

			flatbuffers.WriteUint32(buf[tt.at(t, matchFooter(t, buf, 1)):], 0x7fffffff)
			decoded, err := Decode(buf)
			assert.Nil(t, decoded)
			require.ErrorIs(t, err, ErrMalformed)
			assert.NotContains(t, err.Error(), "runtime error")
		})
	}
}

func TestDecodeMalformed(t *testing.T) {
	g := testGame(t, 1)
	buf, err := Encode(g, Options{})
	require.NoError(t, err)
	compressed, err := Encode(g, Options{Compress: true})
	require.NoError(t, err)

	garbage := make([]byte, 512)
	rand.New(rand.NewSource(3)).Read(garbage)

	tests := []struct {
		name string
		buf  []byte
	}{
		{"empty", nil},
		{"short", []byte{1, 2, 3}},
		{"garbage", garbage},
		{"truncated", buf[:len(buf)/2]},
		{"truncated gzip", compressed[:len(compressed)-10]},
		{"zeroes", make([]byte, 64)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decoded, err := Decode(tt.buf)
			assert.Nil(t, decoded)
			var de *DecodeError
			assert.ErrorAs(t, err, &de)
		})
	}
}

// wrapper writes a GameWrapper from its parts so index vectors can be
// corrupted.
func wrapper(t *testing.T, g *playback.Game, fix func(headers, footers []int32) ([]int32, []int32)) []byte {
	t.Helper()
	events, headers, footers, err := gameEvents(g)
	require.NoError(t, err)
	headers, footers = fix(headers, footers)

	b := flatbuffers.NewBuilder(1024)
	offsets := make([]flatbuffers.UOffsetT, len(events))
	for i, ev := range events {
		offsets[i] = wrap(b, ev)
	}
	ev := schema.CreateOffsetVector(b, offsets)
	hv := schema.CreateInt32Vector(b, headers)
	fv := schema.CreateInt32Vector(b, footers)
	schema.GameWrapperStart(b)
	schema.GameWrapperAddEvents(b, ev)
	schema.GameWrapperAddMatchHeaders(b, hv)
	schema.GameWrapperAddMatchFooters(b, fv)
	schema.FinishGameWrapperBuffer(b, schema.GameWrapperEnd(b))
	return b.FinishedBytes()
}

func TestDecodeBadIndex(t *testing.T) {
	g := testGame(t, 2)
	tests := []struct {
		name string
		fix  func(h, f []int32) ([]int32, []int32)
	}{
		{"missing footer", func(h, f []int32) ([]int32, []int32) { return h, f[:1] }},
		{"swapped", func(h, f []int32) ([]int32, []int32) { return f, h }},
		{"off by one", func(h, f []int32) ([]int32, []int32) { return []int32{h[0] + 1, h[1]}, f }},
		{"out of range", func(h, f []int32) ([]int32, []int32) { return h, []int32{f[0], 1 << 20} }},
		{"overlapping", func(h, f []int32) ([]int32, []int32) { return []int32{h[0], h[0]}, []int32{f[0], f[1]} }},
		{"unindexed match", func(h, f []int32) ([]int32, []int32) { return h[:1], f[:1] }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(wrapper(t, g, tt.fix))
			assert.ErrorIs(t, err, ErrBadIndex)
		})
	}

	_, err := Decode(wrapper(t, g, func(h, f []int32) ([]int32, []int32) { return h, f }))
	assert.NoError(t, err)
}

func TestBuilderStreams(t *testing.T) {
	g := testGame(t, 2)
	events, err := EncodeEvents(g)
	require.NoError(t, err)

	b := NewBuilder()
	for i, raw := range events[:len(events)-1] {
		require.NoError(t, b.AddEvent(raw), "event %d", i)
	}
	assert.False(t, b.Done())
	assert.Nil(t, b.CurrentMatch())
	require.Len(t, b.Game().Matches(), 2)

	require.NoError(t, b.AddEvent(events[len(events)-1]))
	assert.True(t, b.Done())
	assert.Equal(t, len(events), b.Events())
	assertSameGame(t, g, b.Game())

	err = b.AddEvent(events[0])
	assert.ErrorIs(t, err, ErrUnexpectedEvent)
}

func TestBuilderGrowsMatchPerRound(t *testing.T) {
	g := testGame(t, 1)
	events, err := EncodeEvents(g)
	require.NoError(t, err)

	b := NewBuilder()
	require.NoError(t, b.AddEvent(events[0]))
	require.NoError(t, b.AddEvent(events[1]))
	m := b.CurrentMatch()
	require.NotNil(t, m)
	assert.Equal(t, 1, m.TurnCount())

	for i := 2; i < 12; i++ {
		require.NoError(t, b.AddEvent(events[i]))
		assert.Equal(t, i, m.TurnCount())
	}
}

func TestBuilderRejectsOutOfOrderEvents(t *testing.T) {
	g := testGame(t, 1)
	events, err := EncodeEvents(g)
	require.NoError(t, err)

	tests := []struct {
		name  string
		order []int
	}{
		{"match before header", []int{1}},
		{"round before match", []int{0, 2}},
		{"skipped round", []int{0, 1, 3}},
		{"footer before match", []int{0, len(events) - 2}},
		{"second header", []int{0, 0}},
		{"game footer inside match", []int{0, 1, len(events) - 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBuilder()
			last := tt.order[len(tt.order)-1]
			for _, i := range tt.order[:len(tt.order)-1] {
				require.NoError(t, b.AddEvent(events[i]))
			}
			before := b.Events()
			err := b.AddEvent(events[last])
			assert.ErrorIs(t, err, ErrUnexpectedEvent)
			assert.Equal(t, before, b.Events())
		})
	}

	b := NewBuilder()
	var de *DecodeError
	assert.ErrorAs(t, b.AddEvent([]byte{0, 1, 2}), &de)
}

func TestEncodeKeepsEditorMap(t *testing.T) {
	g := playback.NewGame()
	m := playback.CreateBlank(g, playback.NewBodies(), maps.FromParams(24, 24, game.Horizontal))
	brushes := m.CurrentTurn().EditorBrushes()
	require.True(t, brushes[maps.BrushWalls].Apply(3, 3))
	require.True(t, brushes[len(brushes)-1].Apply(10, 4))

	buf, err := Encode(g, Options{})
	require.NoError(t, err)
	decoded, err := Decode(buf)
	require.NoError(t, err)

	turn := decoded.Matches()[0].CurrentTurn()
	assert.True(t, turn.Map.WallAt(3, 3))
	assert.True(t, turn.Map.WallAt(3, 20))
	assert.Equal(t, 2, turn.Bodies.Len())
	assert.True(t, m.CurrentTurn().Equal(turn))
}

func TestEncodeRejectsDeathThenChange(t *testing.T) {
	g := playback.NewGame()
	bodies := playback.NewBodies()
	require.NoError(t, bodies.Spawn(playback.NewBody(5, game.TeamA, game.BodyCarrier, 2, 2)))
	m := playback.CreateBlank(g, bodies, maps.FromParams(20, 20, game.Rotational))
	require.NoError(t, m.AppendDelta(playback.Delta{
		playback.Remove{ID: 5},
		playback.Spawn{Body: playback.NewBody(5, game.TeamB, game.BodyLauncher, 4, 4)},
	}))

	_, err := Encode(g, Options{})
	assert.True(t, errors.Is(err, ErrUnencodable))
}

func TestSpawnWithStateRoundTrips(t *testing.T) {
	g := playback.NewGame()
	m := playback.CreateBlank(g, playback.NewBodies(), maps.FromParams(20, 20, game.Rotational))
	body := playback.NewBody(7, game.TeamA, game.BodyCarrier, 2, 2)
	body.Health = 3
	body.Cargo = game.Cargo{Elixir: 9}
	require.NoError(t, m.AppendDelta(playback.Delta{playback.Spawn{Body: body}}))

	buf, err := Encode(g, Options{})
	require.NoError(t, err)
	decoded, err := Decode(buf)
	require.NoError(t, err)
	assertSameGame(t, g, decoded)
}

func TestSummarize(t *testing.T) {
	g := testGame(t, 2)
	s := Summarize(g)
	assert.Equal(t, "botty", s.Winner)
	require.Len(t, s.Matches, 2)
	assert.Equal(t, "Random", s.Matches[0].Map)
	assert.Equal(t, 90, s.Matches[0].Rounds)
	assert.Equal(t, game.Rotational.String(), s.Matches[0].Symmetry)
	assert.False(t, s.Matches[0].Profiled)
	assert.True(t, s.Matches[1].Profiled)
}
