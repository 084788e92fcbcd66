package profiler

import (
	"encoding/json"
	"fmt"
)

const speedscopeSchema = "https://www.speedscope.app/file-format-schema.json"

// Document is a speedscope file.
type Document struct {
	Schema             string              `json:"$schema"`
	ActiveProfileIndex int                 `json:"activeProfileIndex"`
	Name               string              `json:"name,omitempty"`
	Shared             SharedFrames        `json:"shared"`
	Profiles           []SpeedscopeProfile `json:"profiles"`
}

// SharedFrames holds the frame table every profile indexes into.
type SharedFrames struct {
	Frames []Frame `json:"frames"`
}

// Frame is one named call frame.
type Frame struct {
	Name string `json:"name"`
}

// SpeedscopeProfile is an evented profile.
type SpeedscopeProfile struct {
	Type       string            `json:"type"`
	Name       string            `json:"name"`
	Unit       string            `json:"unit"`
	StartValue int32             `json:"startValue"`
	EndValue   int32             `json:"endValue"`
	Events     []SpeedscopeEvent `json:"events"`
}

// SpeedscopeEvent opens ("O") or closes ("C") a frame.
type SpeedscopeEvent struct {
	Type  string `json:"type"`
	At    int32  `json:"at"`
	Frame int32  `json:"frame"`
}

// Speedscope converts a profiler file into a speedscope document. A
// non-negative value of only selects a single profile, as the viewer shows one
// entity at a time.
func Speedscope(f File, name string, only int) (Document, error) {
	doc := Document{
		Schema: speedscopeSchema,
		Name:   name,
		Shared: SharedFrames{Frames: make([]Frame, len(f.Frames))},
	}
	for i, fr := range f.Frames {
		doc.Shared.Frames[i] = Frame{Name: fr}
	}

	profiles := f.Profiles
	if only >= 0 {
		if only >= len(f.Profiles) {
			return Document{}, fmt.Errorf("profile %d out of range [0, %d)", only, len(f.Profiles))
		}
		profiles = f.Profiles[only : only+1]
	}
	for _, p := range profiles {
		sp := SpeedscopeProfile{
			Type:   "evented",
			Name:   p.Name,
			Unit:   "none",
			Events: make([]SpeedscopeEvent, len(p.Events)),
		}
		if len(p.Events) > 0 {
			sp.StartValue = p.Events[0].At
			sp.EndValue = p.Events[len(p.Events)-1].At
		}
		for i, e := range p.Events {
			typ := "C"
			if e.IsOpen {
				typ = "O"
			}
			sp.Events[i] = SpeedscopeEvent{Type: typ, At: e.At, Frame: e.Frame}
		}
		doc.Profiles = append(doc.Profiles, sp)
	}
	return doc, nil
}

// MarshalSpeedscope renders a whole file as speedscope JSON.
func MarshalSpeedscope(f File, name string) ([]byte, error) {
	doc, err := Speedscope(f, name, -1)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(doc, "", "  ")
}
