// Package profiler records bytecode profiles per team and renders them for
// the speedscope flamegraph viewer.
package profiler

import (
	"errors"
	"fmt"
)

// MaxEventsPerTeam caps the events kept for one team in one match.
const MaxEventsPerTeam = 2_000_000

// ErrUnbalanced is returned for a close event that does not match the
// innermost open frame.
var ErrUnbalanced = errors.New("close event does not match open frame")

// Event opens or closes a frame at a bytecode timestamp.
type Event struct {
	IsOpen bool  `json:"isOpen"`
	At     int32 `json:"at"`
	Frame  int32 `json:"frame"`
}

// Profile is the event list of one entity.
type Profile struct {
	Name   string  `json:"name"`
	Events []Event `json:"events"`
}

// File is the profiling data of one team in one match. Frames are shared
// by every profile and referenced by index.
type File struct {
	Frames   []string  `json:"frames"`
	Profiles []Profile `json:"profiles"`
}

// EventCount returns the number of events across all profiles.
func (f File) EventCount() int {
	n := 0
	for _, p := range f.Profiles {
		n += len(p.Events)
	}
	return n
}

// Collector builds a File, dropping events once the cap is reached. Room
// for the close of every recorded open is reserved, so a finished file is
// always balanced and never exceeds the cap.
type Collector struct {
	max       int
	count     int
	open      int
	truncated bool

	frames   []string
	frameIdx map[string]int32
	profiles []*profileState
	byName   map[string]*profileState
}

type profileState struct {
	name   string
	events []Event
	stack  []int32 // open frames; -1 marks a dropped open
	last   int32
}

// NewCollector creates a collector capped at max events. A non-positive max
// uses MaxEventsPerTeam.
func NewCollector(max int) *Collector {
	if max <= 0 {
		max = MaxEventsPerTeam
	}
	return &Collector{
		max:      max,
		frameIdx: make(map[string]int32),
		byName:   make(map[string]*profileState),
	}
}

func (c *Collector) profile(name string) *profileState {
	p, ok := c.byName[name]
	if !ok {
		p = &profileState{name: name}
		c.byName[name] = p
		c.profiles = append(c.profiles, p)
	}
	return p
}

func (c *Collector) frame(name string) int32 {
	i, ok := c.frameIdx[name]
	if !ok {
		i = int32(len(c.frames))
		c.frames = append(c.frames, name)
		c.frameIdx[name] = i
	}
	return i
}

// Enter opens a frame in a profile. It reports false when the event was
// dropped by the cap.
func (c *Collector) Enter(profile, frame string, at int32) bool {
	p := c.profile(profile)
	p.last = at
	if c.count+c.open+2 > c.max {
		c.truncated = true
		p.stack = append(p.stack, -1)
		return false
	}
	f := c.frame(frame)
	p.events = append(p.events, Event{IsOpen: true, At: at, Frame: f})
	p.stack = append(p.stack, f)
	c.count++
	c.open++
	return true
}

// Exit closes the innermost open frame of a profile.
func (c *Collector) Exit(profile, frame string, at int32) error {
	p := c.profile(profile)
	if len(p.stack) == 0 {
		return fmt.Errorf("%w: %q has no open frame", ErrUnbalanced, frame)
	}
	top := p.stack[len(p.stack)-1]
	p.stack = p.stack[:len(p.stack)-1]
	p.last = at
	if top < 0 {
		return nil
	}
	if c.frames[top] != frame {
		p.stack = append(p.stack, top)
		return fmt.Errorf("%w: closing %q inside %q", ErrUnbalanced, frame, c.frames[top])
	}
	p.events = append(p.events, Event{IsOpen: false, At: at, Frame: top})
	c.count++
	c.open--
	return nil
}

// Truncated reports whether the cap dropped any event.
func (c *Collector) Truncated() bool { return c.truncated }

// Len returns the number of recorded events.
func (c *Collector) Len() int { return c.count }

// Finish closes every frame still open at the last timestamp seen for its
// profile and returns the file.
func (c *Collector) Finish() File {
	out := File{Frames: append([]string(nil), c.frames...)}
	for _, p := range c.profiles {
		for i := len(p.stack) - 1; i >= 0; i-- {
			if f := p.stack[i]; f >= 0 {
				p.events = append(p.events, Event{IsOpen: false, At: p.last, Frame: f})
				c.count++
				c.open--
			}
		}
		p.stack = nil
		out.Profiles = append(out.Profiles, Profile{Name: p.name, Events: append([]Event(nil), p.events...)})
	}
	return out
}

// Validate checks that every profile is balanced, frame references are in
// range and timestamps never decrease.
func (f File) Validate() error {
	for _, p := range f.Profiles {
		var stack []int32
		var last int32
		for i, e := range p.Events {
			if e.Frame < 0 || int(e.Frame) >= len(f.Frames) {
				return fmt.Errorf("profile %q event %d: frame %d out of range", p.Name, i, e.Frame)
			}
			if i > 0 && e.At < last {
				return fmt.Errorf("profile %q event %d: time goes backwards", p.Name, i)
			}
			last = e.At
			if e.IsOpen {
				stack = append(stack, e.Frame)
				continue
			}
			if len(stack) == 0 || stack[len(stack)-1] != e.Frame {
				return fmt.Errorf("profile %q event %d: %w", p.Name, i, ErrUnbalanced)
			}
			stack = stack[:len(stack)-1]
		}
		if len(stack) != 0 {
			return fmt.Errorf("profile %q: %d frames left open: %w", p.Name, len(stack), ErrUnbalanced)
		}
	}
	return nil
}
