package game

// Engine constants recorded in replays.
const (
	SpecVersion = "1.0"

	// MaxRounds is the longest a match may run.
	MaxRounds = 1500

	// DefaultSeed is the map seed used when none is given.
	DefaultSeed = 6370
)
