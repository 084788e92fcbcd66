package playback

import (
	"fmt"
	"math"

	"battlecode-client/internal/game"
	"battlecode-client/internal/profiler"
	"battlecode-client/pkg/maps"
)

// KeyframeInterval is the number of turns between stored snapshots.
const KeyframeInterval = 64

type keyframe struct {
	turn     int
	snapshot *Turn
}

// Match is one map played between the two teams. It keeps the forward delta
// of every round and its inverse, so stepping in either direction touches
// only the cells and bodies that change.
type Match struct {
	game      *Game
	static    *maps.StaticMap
	MaxRounds int
	Winner    game.Team
	Profiles  []profiler.File

	current   *Turn
	tail      *Turn
	deltas    []Delta
	inverses  []Delta
	keyframes []keyframe
}

// CreateBlank builds a single-turn match from a fresh map and bodies. The
// map editor works on such a match. The match is added to g.
func CreateBlank(g *Game, bodies *Bodies, static *maps.StaticMap) *Match {
	m := &Match{
		static:    static,
		MaxRounds: game.MaxRounds,
		current:   NewTurn(static, bodies),
	}
	if g != nil {
		g.AddMatch(m)
	}
	return m
}

// NewMatch builds a playback match from its turn-0 bodies and the delta of
// every round. Each delta is played once to record its inverse; the cursor
// is left at turn 0. The match is added to g only when every delta applies.
func NewMatch(g *Game, static *maps.StaticMap, bodies *Bodies, deltas []Delta) (*Match, error) {
	m := CreateBlank(nil, bodies, static)
	for i, d := range deltas {
		if err := m.AppendDelta(d); err != nil {
			return nil, fmt.Errorf("round %d: %w", i+1, err)
		}
	}
	if g != nil {
		g.AddMatch(m)
	}
	return m, nil
}

// AppendDelta records the next round at the end of the match. The cursor
// does not move.
func (m *Match) AppendDelta(d Delta) error {
	if len(m.deltas) == 0 {
		m.keyframes = []keyframe{{turn: 0, snapshot: m.current.Clone()}}
		m.tail = m.current.Clone()
	}
	inv, err := d.Apply(m.tail)
	if err != nil {
		return err
	}
	m.tail.Number++
	m.deltas = append(m.deltas, d)
	m.inverses = append(m.inverses, inv)
	if m.tail.Number%KeyframeInterval == 0 {
		m.keyframes = append(m.keyframes, keyframe{turn: m.tail.Number, snapshot: m.tail.Clone()})
	}
	return nil
}

// Game returns the game that owns the match.
func (m *Match) Game() *Game { return m.game }

// StaticMap returns the map the match is played on.
func (m *Match) StaticMap() *maps.StaticMap { return m.static }

// CurrentTurn returns the turn being displayed. The pointer may change on
// jumps; callers should not hold it across cursor moves.
func (m *Match) CurrentTurn() *Turn { return m.current }

// TurnCount returns the number of turns, including turn 0.
func (m *Match) TurnCount() int { return len(m.deltas) + 1 }

// Delta returns the delta leading from turn i to turn i+1.
func (m *Match) Delta(i int) Delta { return m.deltas[i] }

// FinalTurn returns a copy of the last turn.
func (m *Match) FinalTurn() *Turn {
	if m.tail == nil {
		return m.current.Clone()
	}
	return m.tail.Clone()
}

// InitialTurn returns turn 0. Before any delta is recorded this is the live
// turn the editor paints on. After that it is the stored keyframe and must
// not be modified.
func (m *Match) InitialTurn() *Turn {
	if len(m.keyframes) == 0 {
		return m.current
	}
	return m.keyframes[0].snapshot
}

// StepForward advances one turn. It reports false at the last turn.
func (m *Match) StepForward() bool {
	i := m.current.Number
	if i >= len(m.deltas) {
		return false
	}
	if _, err := m.deltas[i].apply(m.current); err != nil {
		m.restore(i)
		return false
	}
	m.current.Number++
	return true
}

// StepBackward rewinds one turn. It reports false at turn 0.
func (m *Match) StepBackward() bool {
	i := m.current.Number
	if i <= 0 {
		return false
	}
	if _, err := m.inverses[i-1].apply(m.current); err != nil {
		m.restore(i)
		return false
	}
	m.current.Number--
	return true
}

// Step moves n turns, clamped to the match.
func (m *Match) Step(n int) {
	cur := m.current.Number
	if n > 0 && cur > math.MaxInt-n {
		m.JumpToTurn(math.MaxInt)
		return
	}
	m.JumpToTurn(cur + n)
}

// JumpToTurn moves the cursor to turn t, clamped into [0, TurnCount()).
// Short distances walk; longer ones restart from the nearest keyframe.
func (m *Match) JumpToTurn(t int) {
	t = clampTurn(t, m.TurnCount())
	cur := m.current.Number
	dist := t - cur
	if dist < 0 {
		dist = -dist
	}
	if dist > KeyframeInterval && len(m.keyframes) > 0 {
		k := m.keyframes[t/KeyframeInterval]
		if t-k.turn < dist {
			m.current = k.snapshot.Clone()
		}
	}
	for m.current.Number < t && m.StepForward() {
	}
	for m.current.Number > t && m.StepBackward() {
	}
}

// restore rebuilds the live turn at i from keyframes. It is only reached if
// a delta that applied cleanly at load time fails during playback.
func (m *Match) restore(i int) {
	if len(m.keyframes) == 0 {
		return
	}
	k := m.keyframes[i/KeyframeInterval]
	t := k.snapshot.Clone()
	for t.Number < i {
		if _, err := m.deltas[t.Number].apply(t); err != nil {
			break
		}
		t.Number++
	}
	m.current = t
}

func clampTurn(t, count int) int {
	if t < 0 {
		return 0
	}
	if t >= count {
		return count - 1
	}
	return t
}
