package playback

import (
	"fmt"

	"battlecode-client/internal/game"
)

// Op is one reversible change to a turn. Applying an op returns the op
// that undoes it.
type Op interface {
	apply(t *Turn) (Op, error)
}

// Spawn adds a body.
type Spawn struct{ Body Body }

// Remove destroys a body.
type Remove struct{ ID int32 }

// Move relocates a body.
type Move struct {
	ID   int32
	X, Y int
}

// SetHealth overwrites a body's health.
type SetHealth struct {
	ID     int32
	Health int32
}

// SetCargo overwrites the resources a body carries.
type SetCargo struct {
	ID    int32
	Cargo game.Cargo
}

// SetIslandOwner records the team controlling an island.
type SetIslandOwner struct {
	Island int32
	Team   game.Team
}

// SetWellAmount overwrites the resources held by the well at a cell index.
type SetWellAmount struct {
	Cell   int
	Amount int32
}

// SetTeamStats overwrites a team's resource totals.
type SetTeamStats struct {
	Team  game.Team
	Stats TeamStats
}

func (o Spawn) apply(t *Turn) (Op, error) {
	if !t.Map.StaticMap().InBounds(o.Body.X, o.Body.Y) {
		return nil, fmt.Errorf("%w: spawn of %d at (%d,%d)", game.ErrOutOfBounds, o.Body.ID, o.Body.X, o.Body.Y)
	}
	if err := t.Bodies.Spawn(o.Body); err != nil {
		return nil, err
	}
	return Remove{ID: o.Body.ID}, nil
}

func (o Remove) apply(t *Turn) (Op, error) {
	body, err := t.Bodies.Remove(o.ID)
	if err != nil {
		return nil, err
	}
	return Spawn{Body: body}, nil
}

func (o Move) apply(t *Turn) (Op, error) {
	if !t.Map.StaticMap().InBounds(o.X, o.Y) {
		return nil, fmt.Errorf("%w: move of %d to (%d,%d)", game.ErrOutOfBounds, o.ID, o.X, o.Y)
	}
	body, err := t.Bodies.mutable(o.ID)
	if err != nil {
		return nil, err
	}
	inv := Move{ID: o.ID, X: body.X, Y: body.Y}
	body.X, body.Y = o.X, o.Y
	return inv, nil
}

func (o SetHealth) apply(t *Turn) (Op, error) {
	body, err := t.Bodies.mutable(o.ID)
	if err != nil {
		return nil, err
	}
	inv := SetHealth{ID: o.ID, Health: body.Health}
	body.Health = o.Health
	return inv, nil
}

func (o SetCargo) apply(t *Turn) (Op, error) {
	body, err := t.Bodies.mutable(o.ID)
	if err != nil {
		return nil, err
	}
	inv := SetCargo{ID: o.ID, Cargo: body.Cargo}
	body.Cargo = o.Cargo
	return inv, nil
}

func (o SetIslandOwner) apply(t *Turn) (Op, error) {
	if o.Team != game.TeamNone && !o.Team.Valid() {
		return nil, fmt.Errorf("%w: island %d", game.ErrInvalidTeam, o.Island)
	}
	prev := t.Map.SetIslandOwner(o.Island, o.Team)
	return SetIslandOwner{Island: o.Island, Team: prev}, nil
}

func (o SetWellAmount) apply(t *Turn) (Op, error) {
	prev, err := t.Map.SetWellAmount(o.Cell, o.Amount)
	if err != nil {
		return nil, err
	}
	return SetWellAmount{Cell: o.Cell, Amount: prev}, nil
}

func (o SetTeamStats) apply(t *Turn) (Op, error) {
	if !o.Team.Valid() {
		return nil, fmt.Errorf("%w: stats for %d", game.ErrInvalidTeam, o.Team)
	}
	i := o.Team.Index()
	inv := SetTeamStats{Team: o.Team, Stats: t.Stats[i]}
	t.Stats[i] = o.Stats
	return inv, nil
}

// Delta is the ordered list of changes from one turn to the next.
type Delta []Op

// Apply mutates the turn and returns the exact inverse delta. On error the
// ops already applied are undone and the turn is left as it was.
func (d Delta) Apply(t *Turn) (Delta, error) {
	inverse := make(Delta, 0, len(d))
	for i, op := range d {
		inv, err := op.apply(t)
		if err != nil {
			if _, rerr := reverse(inverse).apply(t); rerr != nil {
				return nil, fmt.Errorf("op %d: %w (rollback failed: %v)", i, err, rerr)
			}
			return nil, fmt.Errorf("op %d: %w", i, err)
		}
		inverse = append(inverse, inv)
	}
	return reverse(inverse), nil
}

// apply runs the ops without recording an inverse.
func (d Delta) apply(t *Turn) (Delta, error) {
	for i, op := range d {
		if _, err := op.apply(t); err != nil {
			return nil, fmt.Errorf("op %d: %w", i, err)
		}
	}
	return nil, nil
}

func reverse(d Delta) Delta {
	out := make(Delta, len(d))
	for i, op := range d {
		out[len(d)-1-i] = op
	}
	return out
}
