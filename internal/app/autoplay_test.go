package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAutoplayTick(t *testing.T) {
	tests := []struct {
		name    string
		speed   float64
		ticks   []time.Duration
		want    int
		playing bool
	}{
		{"one second", 10, []time.Duration{time.Second}, 10, true},
		{"fractions accumulate", 10, []time.Duration{50 * time.Millisecond, 50 * time.Millisecond}, 1, true},
		{"stops at the end", 64, []time.Duration{time.Second}, 10, false},
		{"speed is clamped", 0, []time.Duration{2 * time.Second}, 2, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := replayGame(1).Matches()[0]
			a := NewAutoplay(tt.speed)
			a.Toggle()
			for _, dt := range tt.ticks {
				a.Tick(m, dt)
			}
			assert.Equal(t, tt.want, m.CurrentTurn().Number)
			assert.Equal(t, tt.playing, a.Playing)
		})
	}
}

func TestAutoplayPaused(t *testing.T) {
	m := replayGame(1).Matches()[0]
	a := NewAutoplay(DefaultSpeed)
	assert.Equal(t, 0, a.Tick(m, time.Second))
	assert.Equal(t, 0, m.CurrentTurn().Number)

	a.Toggle()
	assert.Equal(t, 0, a.Tick(nil, time.Second))
}

func TestAutoplaySpeed(t *testing.T) {
	a := NewAutoplay(MaxSpeed)
	a.Faster()
	assert.Equal(t, MaxSpeed, a.Speed)
	for i := 0; i < 20; i++ {
		a.Slower()
	}
	assert.Equal(t, MinSpeed, a.Speed)
	a.Faster()
	assert.Equal(t, 2.0, a.Speed)
}
