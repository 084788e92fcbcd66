package app

import (
	"time"

	"battlecode-client/internal/playback"
)

// Playback speeds, in turns per second.
const (
	MinSpeed     = 1.0
	MaxSpeed     = 512.0
	DefaultSpeed = 16.0
)

// Autoplay advances a match at a steady number of turns per second.
type Autoplay struct {
	Playing bool
	Speed   float64

	due float64
}

// NewAutoplay returns a paused player at the given speed.
func NewAutoplay(speed float64) Autoplay {
	return Autoplay{Speed: clampSpeed(speed)}
}

func clampSpeed(v float64) float64 {
	switch {
	case v < MinSpeed:
		return MinSpeed
	case v > MaxSpeed:
		return MaxSpeed
	}
	return v
}

// Toggle starts or pauses playback.
func (a *Autoplay) Toggle() {
	a.Playing = !a.Playing
	a.due = 0
}

// Faster doubles the speed.
func (a *Autoplay) Faster() { a.Speed = clampSpeed(a.Speed * 2) }

// Slower halves the speed.
func (a *Autoplay) Slower() { a.Speed = clampSpeed(a.Speed / 2) }

// Tick steps m by the turns that fell due during dt and returns how many
// were taken. Reaching the final turn pauses playback.
func (a *Autoplay) Tick(m *playback.Match, dt time.Duration) int {
	if !a.Playing || m == nil {
		a.due = 0
		return 0
	}
	a.due += dt.Seconds() * clampSpeed(a.Speed)
	n := int(a.due)
	a.due -= float64(n)

	for i := 0; i < n; i++ {
		if !m.StepForward() {
			a.Playing = false
			a.due = 0
			return i
		}
	}
	return n
}
