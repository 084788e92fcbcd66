package profiler

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectorRecordsBalancedEvents(t *testing.T) {
	c := NewCollector(0)
	require.True(t, c.Enter("#1 Carrier", "run", 0))
	require.True(t, c.Enter("#1 Carrier", "move", 3))
	require.NoError(t, c.Exit("#1 Carrier", "move", 10))
	require.NoError(t, c.Exit("#1 Carrier", "run", 12))
	require.True(t, c.Enter("#2 Launcher", "run", 0))
	require.NoError(t, c.Exit("#2 Launcher", "run", 4))

	f := c.Finish()
	assert.Equal(t, []string{"run", "move"}, f.Frames)
	require.Len(t, f.Profiles, 2)
	assert.Equal(t, []Event{
		{IsOpen: true, At: 0, Frame: 0},
		{IsOpen: true, At: 3, Frame: 1},
		{IsOpen: false, At: 10, Frame: 1},
		{IsOpen: false, At: 12, Frame: 0},
	}, f.Profiles[0].Events)
	assert.NoError(t, f.Validate())
	assert.False(t, c.Truncated())
}

func TestCollectorRejectsMismatchedClose(t *testing.T) {
	c := NewCollector(0)
	assert.ErrorIs(t, c.Exit("p", "run", 0), ErrUnbalanced)
	c.Enter("p", "run", 0)
	assert.ErrorIs(t, c.Exit("p", "move", 1), ErrUnbalanced)
	assert.NoError(t, c.Exit("p", "run", 2))
}

func TestCollectorCap(t *testing.T) {
	const max = 10
	c := NewCollector(max)
	for i := int32(0); i < 20; i++ {
		c.Enter("p", "outer", i*10)
		c.Enter("p", "inner", i*10+1)
		_ = c.Exit("p", "inner", i*10+2)
		_ = c.Exit("p", "outer", i*10+3)
	}
	// Leave a frame open to exercise Finish.
	c.Enter("q", "dangling", 500)

	f := c.Finish()
	assert.True(t, c.Truncated())
	assert.LessOrEqual(t, f.EventCount(), max)
	assert.NoError(t, f.Validate())
}

func TestFinishClosesOpenFrames(t *testing.T) {
	c := NewCollector(0)
	c.Enter("p", "a", 1)
	c.Enter("p", "b", 5)
	f := c.Finish()
	require.NoError(t, f.Validate())
	events := f.Profiles[0].Events
	require.Len(t, events, 4)
	assert.Equal(t, Event{IsOpen: false, At: 5, Frame: 1}, events[2])
	assert.Equal(t, Event{IsOpen: false, At: 5, Frame: 0}, events[3])
}

func TestDefaultCap(t *testing.T) {
	assert.Equal(t, 2_000_000, NewCollector(-1).max)
}

func TestSpeedscope(t *testing.T) {
	f := File{
		Frames: []string{"run", "sense"},
		Profiles: []Profile{
			{Name: "#7 Amplifier", Events: []Event{{true, 4, 0}, {true, 6, 1}, {false, 9, 1}, {false, 20, 0}}},
			{Name: "#8 Booster"},
		},
	}

	doc, err := Speedscope(f, "match 1", 0)
	require.NoError(t, err)
	require.Len(t, doc.Profiles, 1)
	p := doc.Profiles[0]
	assert.Equal(t, "evented", p.Type)
	assert.Equal(t, "none", p.Unit)
	assert.Equal(t, int32(4), p.StartValue)
	assert.Equal(t, int32(20), p.EndValue)
	assert.Equal(t, "O", p.Events[0].Type)
	assert.Equal(t, "C", p.Events[3].Type)
	assert.Equal(t, []Frame{{"run"}, {"sense"}}, doc.Shared.Frames)

	doc, err = Speedscope(f, "match 1", 1)
	require.NoError(t, err)
	assert.Equal(t, int32(0), doc.Profiles[0].StartValue)

	_, err = Speedscope(f, "match 1", 2)
	assert.Error(t, err)

	raw, err := MarshalSpeedscope(f, "match 1")
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, speedscopeSchema, decoded["$schema"])
	assert.Len(t, decoded["profiles"], 2)
}
