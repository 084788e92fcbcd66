package game

import "fmt"

// BodyType is the kind of robot a body is.
type BodyType int8

const (
	BodyHeadquarters BodyType = iota
	BodyCarrier
	BodyLauncher
	BodyDestabilizer
	BodyBooster
	BodyAmplifier
)

// BodyTypes lists every body type in wire order.
var BodyTypes = []BodyType{
	BodyHeadquarters,
	BodyCarrier,
	BodyLauncher,
	BodyDestabilizer,
	BodyBooster,
	BodyAmplifier,
}

// String returns the body type name.
func (b BodyType) String() string {
	switch b {
	case BodyHeadquarters:
		return "Headquarters"
	case BodyCarrier:
		return "Carrier"
	case BodyLauncher:
		return "Launcher"
	case BodyDestabilizer:
		return "Destabilizer"
	case BodyBooster:
		return "Booster"
	case BodyAmplifier:
		return "Amplifier"
	default:
		return "Unknown"
	}
}

// Valid reports whether b is a known body type.
func (b BodyType) Valid() bool {
	return b >= BodyHeadquarters && b <= BodyAmplifier
}

// Health returns the starting health of a body of this type.
func (b BodyType) Health() int32 {
	switch b {
	case BodyHeadquarters:
		return 1000
	case BodyCarrier:
		return 150
	case BodyLauncher:
		return 200
	case BodyDestabilizer:
		return 300
	case BodyBooster:
		return 120
	case BodyAmplifier:
		return 80
	default:
		return 0
	}
}

// Short returns a single-letter tag used in map dumps.
func (b BodyType) Short() byte {
	switch b {
	case BodyHeadquarters:
		return 'H'
	case BodyCarrier:
		return 'C'
	case BodyLauncher:
		return 'L'
	case BodyDestabilizer:
		return 'D'
	case BodyBooster:
		return 'B'
	case BodyAmplifier:
		return 'A'
	default:
		return '?'
	}
}

// BodyTypeFromID converts a wire type id into a BodyType.
func BodyTypeFromID(id int8) (BodyType, error) {
	b := BodyType(id)
	if !b.Valid() {
		return 0, fmt.Errorf("%w: %d", ErrInvalidBodyType, id)
	}
	return b, nil
}
