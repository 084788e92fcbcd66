package replay

import (
	"bytes"
	"fmt"

	flatbuffers "github.com/google/flatbuffers/go"
	"github.com/klauspost/compress/gzip"

	"battlecode-client/internal/playback"
	"battlecode-client/internal/profiler"
	"battlecode-client/internal/schema"
	"battlecode-client/pkg/maps"
)

// Options controls how a replay is framed.
type Options struct {
	SizePrefixed bool
	Compress     bool
}

// event writes the body of one EventWrapper.
type event struct {
	typ   schema.Event
	build func(b *flatbuffers.Builder) flatbuffers.UOffsetT
}

// Encode writes a game as a replay file.
func Encode(g *playback.Game, opts Options) ([]byte, error) {
	events, headers, footers, err := gameEvents(g)
	if err != nil {
		return nil, err
	}

	b := flatbuffers.NewBuilder(1 << 16)
	offsets := make([]flatbuffers.UOffsetT, len(events))
	for i, ev := range events {
		offsets[i] = wrap(b, ev)
	}
	eventVec := schema.CreateOffsetVector(b, offsets)
	headerVec := schema.CreateInt32Vector(b, headers)
	footerVec := schema.CreateInt32Vector(b, footers)

	schema.GameWrapperStart(b)
	schema.GameWrapperAddEvents(b, eventVec)
	schema.GameWrapperAddMatchHeaders(b, headerVec)
	schema.GameWrapperAddMatchFooters(b, footerVec)
	root := schema.GameWrapperEnd(b)
	if opts.SizePrefixed {
		schema.FinishSizePrefixedGameWrapperBuffer(b, root)
	} else {
		schema.FinishGameWrapperBuffer(b, root)
	}

	out := b.FinishedBytes()
	if opts.Compress {
		return compress(out)
	}
	return out, nil
}

// EncodeEvents writes every event of a game as its own finished
// EventWrapper buffer, in replay order. Builder.AddEvent reads them back.
func EncodeEvents(g *playback.Game) ([][]byte, error) {
	events, _, _, err := gameEvents(g)
	if err != nil {
		return nil, err
	}
	out := make([][]byte, len(events))
	for i, ev := range events {
		b := flatbuffers.NewBuilder(1024)
		schema.FinishEventWrapperBuffer(b, wrap(b, ev))
		out[i] = b.FinishedBytes()
	}
	return out, nil
}

func wrap(b *flatbuffers.Builder, ev event) flatbuffers.UOffsetT {
	body := ev.build(b)
	schema.EventWrapperStart(b)
	schema.EventWrapperAddEType(b, ev.typ)
	schema.EventWrapperAddE(b, body)
	return schema.EventWrapperEnd(b)
}

// gameEvents lists the events of a game along with the indexes of each
// match's header and footer.
func gameEvents(g *playback.Game) ([]event, []int32, []int32, error) {
	events := []event{{schema.EventGameHeader, func(b *flatbuffers.Builder) flatbuffers.UOffsetT {
		return buildGameHeader(b, g)
	}}}
	var headers, footers []int32

	for mi, m := range g.Matches() {
		headers = append(headers, int32(len(events)))
		events = append(events, event{schema.EventMatchHeader, func(b *flatbuffers.Builder) flatbuffers.UOffsetT {
			return buildMatchHeader(b, m)
		}})

		for i := 0; i < m.TurnCount()-1; i++ {
			rd, err := collectRound(m.Delta(i))
			if err != nil {
				return nil, nil, nil, fmt.Errorf("match %d round %d: %w", mi, i+1, err)
			}
			roundID := int32(i + 1)
			events = append(events, event{schema.EventRound, func(b *flatbuffers.Builder) flatbuffers.UOffsetT {
				return rd.build(b, roundID)
			}})
		}

		footers = append(footers, int32(len(events)))
		bodyCount := int32(m.FinalTurn().Bodies.Len())
		events = append(events, event{schema.EventMatchFooter, func(b *flatbuffers.Builder) flatbuffers.UOffsetT {
			return buildMatchFooter(b, m, bodyCount)
		}})
	}

	events = append(events, event{schema.EventGameFooter, func(b *flatbuffers.Builder) flatbuffers.UOffsetT {
		schema.GameFooterStart(b)
		schema.GameFooterAddWinner(b, int8(g.Winner))
		return schema.GameFooterEnd(b)
	}})
	return events, headers, footers, nil
}

func buildGameHeader(b *flatbuffers.Builder, g *playback.Game) flatbuffers.UOffsetT {
	teams := make([]flatbuffers.UOffsetT, len(g.Teams))
	for i, t := range g.Teams {
		name := b.CreateString(t.Name)
		pkg := b.CreateString(t.PackageName)
		schema.TeamDataStart(b)
		schema.TeamDataAddName(b, name)
		schema.TeamDataAddPackageName(b, pkg)
		schema.TeamDataAddTeamID(b, int8(t.Team))
		teams[i] = schema.TeamDataEnd(b)
	}
	teamVec := schema.CreateOffsetVector(b, teams)
	version := b.CreateString(g.SpecVersion)

	schema.GameHeaderStart(b)
	schema.GameHeaderAddSpecVersion(b, version)
	schema.GameHeaderAddTeams(b, teamVec)
	return schema.GameHeaderEnd(b)
}

// buildMatchHeader writes the map as it stands on turn 0, so edits made
// in the map editor are kept.
func buildMatchHeader(b *flatbuffers.Builder, m *playback.Match) flatbuffers.UOffsetT {
	initial := m.InitialTurn()
	gm := maps.BuildGameMap(b, initial.Map.Freeze(m.StaticMap().Name()), initial.Bodies.Initial())

	schema.MatchHeaderStart(b)
	schema.MatchHeaderAddMap(b, gm)
	schema.MatchHeaderAddMaxRounds(b, int32(m.MaxRounds))
	return schema.MatchHeaderEnd(b)
}

func buildMatchFooter(b *flatbuffers.Builder, m *playback.Match, bodyCount int32) flatbuffers.UOffsetT {
	files := make([]flatbuffers.UOffsetT, len(m.Profiles))
	for i, f := range m.Profiles {
		files[i] = buildProfilerFile(b, f)
	}
	fileVec := schema.CreateOffsetVector(b, files)

	schema.MatchFooterStart(b)
	schema.MatchFooterAddWinner(b, int8(m.Winner))
	schema.MatchFooterAddTotalRounds(b, int32(m.TurnCount()-1))
	schema.MatchFooterAddProfilerFiles(b, fileVec)
	schema.MatchFooterAddBodyCount(b, bodyCount)
	return schema.MatchFooterEnd(b)
}

func buildProfilerFile(b *flatbuffers.Builder, f profiler.File) flatbuffers.UOffsetT {
	frames := schema.CreateStringVector(b, f.Frames)
	profiles := make([]flatbuffers.UOffsetT, len(f.Profiles))
	for i, p := range f.Profiles {
		events := make([]flatbuffers.UOffsetT, len(p.Events))
		for j, e := range p.Events {
			schema.ProfilerEventStart(b)
			schema.ProfilerEventAddIsOpen(b, e.IsOpen)
			schema.ProfilerEventAddAt(b, e.At)
			schema.ProfilerEventAddFrame(b, e.Frame)
			events[j] = schema.ProfilerEventEnd(b)
		}
		eventVec := schema.CreateOffsetVector(b, events)
		name := b.CreateString(p.Name)

		schema.ProfilerProfileStart(b)
		schema.ProfilerProfileAddName(b, name)
		schema.ProfilerProfileAddEvents(b, eventVec)
		profiles[i] = schema.ProfilerProfileEnd(b)
	}
	profileVec := schema.CreateOffsetVector(b, profiles)

	schema.ProfilerFileStart(b)
	schema.ProfilerFileAddFrames(b, frames)
	schema.ProfilerFileAddProfiles(b, profileVec)
	return schema.ProfilerFileEnd(b)
}

func compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		return nil, fmt.Errorf("compress replay: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("compress replay: %w", err)
	}
	return buf.Bytes(), nil
}
