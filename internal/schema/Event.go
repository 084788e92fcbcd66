package schema

import "strconv"

// Event is the union of everything a replay records.
type Event byte

const (
	EventNONE        Event = 0
	EventGameHeader  Event = 1
	EventMatchHeader Event = 2
	EventRound       Event = 3
	EventMatchFooter Event = 4
	EventGameFooter  Event = 5
)

var EnumNamesEvent = map[Event]string{
	EventNONE:        "NONE",
	EventGameHeader:  "GameHeader",
	EventMatchHeader: "MatchHeader",
	EventRound:       "Round",
	EventMatchFooter: "MatchFooter",
	EventGameFooter:  "GameFooter",
}

var EnumValuesEvent = map[string]Event{
	"NONE":        EventNONE,
	"GameHeader":  EventGameHeader,
	"MatchHeader": EventMatchHeader,
	"Round":       EventRound,
	"MatchFooter": EventMatchFooter,
	"GameFooter":  EventGameFooter,
}

func (v Event) String() string {
	if s, ok := EnumNamesEvent[v]; ok {
		return s
	}
	return "Event(" + strconv.FormatInt(int64(v), 10) + ")"
}
