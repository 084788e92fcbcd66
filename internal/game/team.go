package game

import "fmt"

// Team identifies one side of a match. TeamNone marks neutral islands and
// undecided winners.
type Team int8

const (
	TeamNone Team = iota
	TeamA
	TeamB
)

// Teams lists the two playing teams in wire order.
var Teams = [2]Team{TeamA, TeamB}

// String returns the display name of the team.
func (t Team) String() string {
	switch t {
	case TeamA:
		return "Red"
	case TeamB:
		return "Blue"
	default:
		return "None"
	}
}

// Valid reports whether t is one of the two playing teams.
func (t Team) Valid() bool {
	return t == TeamA || t == TeamB
}

// Opponent returns the other playing team.
func (t Team) Opponent() Team {
	switch t {
	case TeamA:
		return TeamB
	case TeamB:
		return TeamA
	default:
		return TeamNone
	}
}

// Index returns the 0-based slot of a playing team for per-team arrays.
func (t Team) Index() int {
	return int(t) - 1
}

// TeamFromID converts a wire team id into a Team.
func TeamFromID(id int8) (Team, error) {
	t := Team(id)
	if t != TeamNone && !t.Valid() {
		return TeamNone, fmt.Errorf("%w: %d", ErrInvalidTeam, id)
	}
	return t, nil
}

// TeamInfo holds the metadata recorded for a team in a replay header.
type TeamInfo struct {
	Name        string `json:"name"`
	PackageName string `json:"packageName"`
	Team        Team   `json:"team"`
}
