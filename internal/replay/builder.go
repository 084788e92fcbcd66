package replay

import (
	"fmt"

	flatbuffers "github.com/google/flatbuffers/go"

	"battlecode-client/internal/game"
	"battlecode-client/internal/playback"
	"battlecode-client/internal/profiler"
	"battlecode-client/internal/schema"
	"battlecode-client/pkg/maps"
)

// Builder assembles a game one event at a time, as a live stream delivers
// them. The game is usable between events; a match is listed as soon as its
// header arrives and grows by one turn per round.
type Builder struct {
	game   *playback.Game
	header bool
	done   bool
	match  *playback.Match
	events int
}

// NewBuilder returns a builder waiting for the game header.
func NewBuilder() *Builder {
	return &Builder{game: playback.NewGame()}
}

// Game returns the game built so far.
func (b *Builder) Game() *playback.Game { return b.game }

// Done reports whether the game footer has been read.
func (b *Builder) Done() bool { return b.done }

// Events returns the number of events accepted.
func (b *Builder) Events() int { return b.events }

// CurrentMatch returns the match still receiving rounds, or nil.
func (b *Builder) CurrentMatch() *playback.Match { return b.match }

// AddEvent reads one finished EventWrapper buffer. A rejected event leaves
// the builder as it was.
func (b *Builder) AddEvent(raw []byte) (err error) {
	if len(raw) < 8 {
		return decodeError(b.events, fmt.Errorf("%w: event of %d bytes", ErrMalformed, len(raw)))
	}
	defer func() {
		if r := recover(); r != nil {
			err = decodeError(b.events, fmt.Errorf("%w: %v", ErrMalformed, r))
		}
	}()

	var ew *schema.EventWrapper
	if sizePrefixed(raw) {
		ew = schema.GetSizePrefixedRootAsEventWrapper(raw, 0)
	} else {
		ew = schema.GetRootAsEventWrapper(raw, 0)
	}
	if err := b.add(ew); err != nil {
		return decodeError(b.events, err)
	}
	return nil
}

func (b *Builder) add(ew *schema.EventWrapper) error {
	if b.done {
		return fmt.Errorf("%w: %s after the game footer", ErrUnexpectedEvent, ew.EType())
	}

	var t flatbuffers.Table
	if ew.EType() != schema.EventNONE && !ew.E(&t) {
		return fmt.Errorf("%w: %s has no body", ErrMalformed, ew.EType())
	}

	var err error
	switch typ := ew.EType(); {
	case typ == schema.EventGameHeader:
		err = b.gameHeader(&t)
	case !b.header:
		err = fmt.Errorf("%w: %s before the game header", ErrUnexpectedEvent, typ)
	case typ == schema.EventMatchHeader:
		err = b.matchHeader(&t)
	case typ == schema.EventRound:
		err = b.round(&t)
	case typ == schema.EventMatchFooter:
		err = b.matchFooter(&t)
	case typ == schema.EventGameFooter:
		err = b.gameFooter(&t)
	default:
		err = fmt.Errorf("%w: %s", ErrUnexpectedEvent, typ)
	}
	if err != nil {
		return err
	}
	b.events++
	return nil
}

func (b *Builder) gameHeader(t *flatbuffers.Table) error {
	if b.header {
		return fmt.Errorf("%w: second game header", ErrUnexpectedEvent)
	}
	var h schema.GameHeader
	h.Init(t.Bytes, t.Pos)

	var teams []game.TeamInfo
	var td schema.TeamData
	for i := 0; i < h.TeamsLength(); i++ {
		if !h.Teams(&td, i) {
			return fmt.Errorf("%w: team %d", ErrMalformed, i)
		}
		team, err := game.TeamFromID(td.TeamID())
		if err != nil {
			return err
		}
		teams = append(teams, game.TeamInfo{
			Name:        string(td.Name()),
			PackageName: string(td.PackageName()),
			Team:        team,
		})
	}

	b.game.SpecVersion = string(h.SpecVersion())
	b.game.Teams = teams
	b.header = true
	return nil
}

func (b *Builder) matchHeader(t *flatbuffers.Table) error {
	if b.match != nil {
		return fmt.Errorf("%w: match header inside a match", ErrUnexpectedEvent)
	}
	var h schema.MatchHeader
	h.Init(t.Bytes, t.Pos)

	gm := h.Map(nil)
	if gm == nil {
		return fmt.Errorf("%w: match header without a map", ErrMalformed)
	}
	static, initial, err := maps.ReadGameMap(gm)
	if err != nil {
		return fmt.Errorf("match map: %w", err)
	}
	bodies, err := playback.BodiesFromInitial(initial)
	if err != nil {
		return fmt.Errorf("match map: %w", err)
	}

	m := playback.CreateBlank(b.game, bodies, static)
	m.MaxRounds = int(h.MaxRounds())
	if b.game.CurrentMatch() == nil {
		_ = b.game.SetCurrentMatch(m)
	}
	b.match = m
	return nil
}

func (b *Builder) round(t *flatbuffers.Table) error {
	if b.match == nil {
		return fmt.Errorf("%w: round outside a match", ErrUnexpectedEvent)
	}
	var r schema.Round
	r.Init(t.Bytes, t.Pos)

	if want := int32(b.match.TurnCount()); r.RoundID() != want {
		return fmt.Errorf("%w: round %d, expected %d", ErrUnexpectedEvent, r.RoundID(), want)
	}
	d, err := readRound(&r)
	if err != nil {
		return fmt.Errorf("round %d: %w", r.RoundID(), err)
	}
	if err := b.match.AppendDelta(d); err != nil {
		return fmt.Errorf("round %d: %w", r.RoundID(), err)
	}
	return nil
}

func (b *Builder) matchFooter(t *flatbuffers.Table) error {
	if b.match == nil {
		return fmt.Errorf("%w: match footer outside a match", ErrUnexpectedEvent)
	}
	var f schema.MatchFooter
	f.Init(t.Bytes, t.Pos)

	winner, err := game.TeamFromID(f.Winner())
	if err != nil {
		return err
	}
	if rounds := int(f.TotalRounds()); rounds != b.match.TurnCount()-1 {
		return fmt.Errorf("%w: footer records %d rounds, match has %d", ErrMalformed, rounds, b.match.TurnCount()-1)
	}
	if want := f.BodyCount(); want >= 0 {
		if got := b.match.FinalTurn().Bodies.Len(); int32(got) != want {
			return fmt.Errorf("%w: footer records %d, replay has %d", ErrBodyCount, want, got)
		}
	}

	if !schema.VectorFits(f.Table(), 2, 4) {
		return fmt.Errorf("%w: profiler file count %d", ErrMalformed, f.ProfilerFilesLength())
	}
	files := make([]profiler.File, 0, f.ProfilerFilesLength())
	var pf schema.ProfilerFile
	for i := 0; i < f.ProfilerFilesLength(); i++ {
		if !f.ProfilerFiles(&pf, i) {
			return fmt.Errorf("%w: profiler file %d", ErrMalformed, i)
		}
		file, err := readProfilerFile(&pf)
		if err != nil {
			return fmt.Errorf("profiler file %d: %w", i, err)
		}
		files = append(files, file)
	}

	b.match.Winner = winner
	b.match.Profiles = files
	b.match = nil
	return nil
}

func (b *Builder) gameFooter(t *flatbuffers.Table) error {
	if b.match != nil {
		return fmt.Errorf("%w: game footer inside a match", ErrUnexpectedEvent)
	}
	var f schema.GameFooter
	f.Init(t.Bytes, t.Pos)

	winner, err := game.TeamFromID(f.Winner())
	if err != nil {
		return err
	}
	b.game.Winner = winner
	b.done = true
	return nil
}

func readProfilerFile(pf *schema.ProfilerFile) (profiler.File, error) {
	if !schema.VectorFits(pf.Table(), 0, 4) || !schema.VectorFits(pf.Table(), 1, 4) {
		return profiler.File{}, fmt.Errorf("%w: profiler vectors exceed the buffer", ErrMalformed)
	}
	file := profiler.File{
		Frames:   make([]string, pf.FramesLength()),
		Profiles: make([]profiler.Profile, 0, pf.ProfilesLength()),
	}
	for i := range file.Frames {
		file.Frames[i] = string(pf.Frames(i))
	}

	var pp schema.ProfilerProfile
	var pe schema.ProfilerEvent
	for i := 0; i < pf.ProfilesLength(); i++ {
		if !pf.Profiles(&pp, i) {
			continue
		}
		if !schema.VectorFits(pp.Table(), 1, 4) {
			return profiler.File{}, fmt.Errorf("%w: profile %d event count %d", ErrMalformed, i, pp.EventsLength())
		}
		p := profiler.Profile{Name: string(pp.Name()), Events: make([]profiler.Event, 0, pp.EventsLength())}
		for j := 0; j < pp.EventsLength(); j++ {
			if pp.Events(&pe, j) {
				p.Events = append(p.Events, profiler.Event{IsOpen: pe.IsOpen(), At: pe.At(), Frame: pe.Frame()})
			}
		}
		file.Profiles = append(file.Profiles, p)
	}
	return file, nil
}
