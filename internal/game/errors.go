package game

import "errors"

// Model errors
var (
	ErrInvalidSymmetry = errors.New("invalid symmetry value")
	ErrInvalidTeam     = errors.New("invalid team")
	ErrInvalidBodyType = errors.New("invalid body type")
	ErrOutOfBounds     = errors.New("location out of bounds")
	ErrBodyExists      = errors.New("body id already in use")
	ErrBodyNotFound    = errors.New("body not found")
	ErrForeignMatch    = errors.New("match does not belong to this game")
	ErrEmptyMap        = errors.New("map is empty")
)
