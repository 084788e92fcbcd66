package game

import "fmt"

// Symmetry is the mirroring rule a map is built under.
type Symmetry int8

const (
	Rotational Symmetry = iota
	Horizontal
	Vertical
)

// Symmetries lists every symmetry in wire order.
var Symmetries = []Symmetry{Rotational, Horizontal, Vertical}

// String returns the symmetry name.
func (s Symmetry) String() string {
	switch s {
	case Rotational:
		return "Rotational"
	case Horizontal:
		return "Horizontal"
	case Vertical:
		return "Vertical"
	default:
		return "Unknown"
	}
}

// Valid reports whether s is a known symmetry.
func (s Symmetry) Valid() bool {
	return s >= Rotational && s <= Vertical
}

// Next cycles to the following symmetry.
func (s Symmetry) Next() Symmetry {
	return (s + 1) % Symmetry(len(Symmetries))
}

// ParseSymmetry converts an integer symmetry value, rejecting anything
// outside 0..2.
func ParseSymmetry(v int) (Symmetry, error) {
	s := Symmetry(v)
	if v < 0 || v > int(Vertical) {
		return 0, fmt.Errorf("%w: %d", ErrInvalidSymmetry, v)
	}
	return s, nil
}

// Direction is one of the eight compass directions, or Center.
type Direction int8

const (
	Center Direction = iota
	West
	Southwest
	South
	Southeast
	East
	Northeast
	North
	Northwest
)

var directionDeltas = [9][2]int{
	{0, 0},
	{-1, 0},
	{-1, -1},
	{0, -1},
	{1, -1},
	{1, 0},
	{1, 1},
	{0, 1},
	{-1, 1},
}

// Valid reports whether d is a known direction.
func (d Direction) Valid() bool {
	return d >= Center && d <= Northwest
}

// Delta returns the x and y offsets of the direction.
func (d Direction) Delta() (int, int) {
	if !d.Valid() {
		return 0, 0
	}
	v := directionDeltas[d]
	return v[0], v[1]
}

// Opposite returns the direction pointing the other way.
func (d Direction) Opposite() Direction {
	if d == Center || !d.Valid() {
		return Center
	}
	return (d+3)%8 + 1
}

// FlipX mirrors the direction across the vertical axis.
func (d Direction) FlipX() Direction {
	dx, dy := d.Delta()
	return DirectionOf(-dx, dy)
}

// FlipY mirrors the direction across the horizontal axis.
func (d Direction) FlipY() Direction {
	dx, dy := d.Delta()
	return DirectionOf(dx, -dy)
}

// DirectionOf returns the direction with the given unit offsets.
func DirectionOf(dx, dy int) Direction {
	for i, v := range directionDeltas {
		if v[0] == dx && v[1] == dy {
			return Direction(i)
		}
	}
	return Center
}

// Arrow returns a glyph for the direction used in map dumps.
func (d Direction) Arrow() byte {
	switch d {
	case West:
		return '<'
	case East:
		return '>'
	case North:
		return '^'
	case South:
		return 'v'
	case Northeast, Southwest:
		return '/'
	case Northwest, Southeast:
		return '\\'
	default:
		return '.'
	}
}
