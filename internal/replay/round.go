package replay

import (
	"fmt"

	flatbuffers "github.com/google/flatbuffers/go"

	"battlecode-client/internal/game"
	"battlecode-client/internal/playback"
	"battlecode-client/internal/schema"
	"battlecode-client/pkg/maps"
)

// A round is applied in a fixed order: spawns, moves, health, cargo,
// island owners, well amounts, team totals and finally deaths. Ops of one
// kind keep their recorded order.

// readRound converts a Round table into the delta it describes.
func readRound(r *schema.Round) (playback.Delta, error) {
	var d playback.Delta

	spawned, err := maps.ReadSpawnedBodies(r.SpawnedBodies(nil))
	if err != nil {
		return nil, err
	}
	for _, ib := range spawned {
		d = append(d, playback.Spawn{Body: playback.NewBody(ib.ID, ib.Team, ib.Type, ib.X, ib.Y)})
	}

	if n := r.MovedIDsLength(); n > 0 {
		locs := r.MovedLocs(nil)
		if locs == nil || locs.XsLength() != n || locs.YsLength() != n {
			return nil, fmt.Errorf("%w: %d moves without matching locations", ErrMalformed, n)
		}
		for i := 0; i < n; i++ {
			d = append(d, playback.Move{ID: r.MovedIDs(i), X: int(locs.Xs(i)), Y: int(locs.Ys(i))})
		}
	}

	if err := sameLength("health", r.HealthIDsLength(), r.HealthValuesLength()); err != nil {
		return nil, err
	}
	for i := 0; i < r.HealthIDsLength(); i++ {
		d = append(d, playback.SetHealth{ID: r.HealthIDs(i), Health: r.HealthValues(i)})
	}

	if err := sameLength("cargo", r.CargoIDsLength(), r.CargoAdamantiumLength(), r.CargoManaLength(), r.CargoElixirLength()); err != nil {
		return nil, err
	}
	for i := 0; i < r.CargoIDsLength(); i++ {
		d = append(d, playback.SetCargo{ID: r.CargoIDs(i), Cargo: game.Cargo{
			Adamantium: r.CargoAdamantium(i),
			Mana:       r.CargoMana(i),
			Elixir:     r.CargoElixir(i),
		}})
	}

	if err := sameLength("island", r.IslandIDsLength(), r.IslandOwnersLength()); err != nil {
		return nil, err
	}
	for i := 0; i < r.IslandIDsLength(); i++ {
		owner, err := game.TeamFromID(r.IslandOwners(i))
		if err != nil {
			return nil, err
		}
		d = append(d, playback.SetIslandOwner{Island: r.IslandIDs(i), Team: owner})
	}

	if err := sameLength("well", r.WellLocsLength(), r.WellAmountsLength()); err != nil {
		return nil, err
	}
	for i := 0; i < r.WellLocsLength(); i++ {
		d = append(d, playback.SetWellAmount{Cell: int(r.WellLocs(i)), Amount: r.WellAmounts(i)})
	}

	if err := sameLength("team", r.TeamIDsLength(), r.TeamAdamantiumLength(), r.TeamManaLength(), r.TeamElixirLength()); err != nil {
		return nil, err
	}
	for i := 0; i < r.TeamIDsLength(); i++ {
		id := r.TeamIDs(i)
		if id < 0 || id > int32(game.TeamB) {
			return nil, fmt.Errorf("%w: team %d", game.ErrInvalidTeam, id)
		}
		d = append(d, playback.SetTeamStats{Team: game.Team(id), Stats: playback.TeamStats{Resources: game.Cargo{
			Adamantium: r.TeamAdamantium(i),
			Mana:       r.TeamMana(i),
			Elixir:     r.TeamElixir(i),
		}}})
	}

	for i := 0; i < r.DiedIDsLength(); i++ {
		d = append(d, playback.Remove{ID: r.DiedIDs(i)})
	}
	return d, nil
}

func sameLength(name string, lengths ...int) error {
	for _, n := range lengths[1:] {
		if n != lengths[0] {
			return fmt.Errorf("%w: %s vectors disagree in length", ErrMalformed, name)
		}
	}
	return nil
}

// roundData collects a delta's ops by kind.
type roundData struct {
	spawned []maps.InitialBody

	movedIDs       []int32
	movedXs        []int32
	movedYs        []int32
	diedIDs        []int32
	healthIDs      []int32
	healthValues   []int32
	cargoIDs       []int32
	cargoAdamant   []int32
	cargoMana      []int32
	cargoElixir    []int32
	islandIDs      []int32
	islandOwners   []int8
	wellLocs       []int32
	wellAmounts    []int32
	teamIDs        []int32
	teamAdamantium []int32
	teamMana       []int32
	teamElixir     []int32
}

func (rd *roundData) health(id, value int32) {
	rd.healthIDs = append(rd.healthIDs, id)
	rd.healthValues = append(rd.healthValues, value)
}

func (rd *roundData) cargo(id int32, c game.Cargo) {
	rd.cargoIDs = append(rd.cargoIDs, id)
	rd.cargoAdamant = append(rd.cargoAdamant, c.Adamantium)
	rd.cargoMana = append(rd.cargoMana, c.Mana)
	rd.cargoElixir = append(rd.cargoElixir, c.Elixir)
}

// collectRound sorts a delta into round vectors. It fails when reading the
// vectors back in round order would not reproduce the delta, which happens
// when an op touches a body after it died in the same round.
func collectRound(d playback.Delta) (*roundData, error) {
	rd := &roundData{}
	died := make(map[int32]bool)
	alive := func(id int32) error {
		if died[id] {
			return fmt.Errorf("%w: body %d changes after dying", ErrUnencodable, id)
		}
		return nil
	}

	for _, op := range d {
		switch op := op.(type) {
		case playback.Spawn:
			body := op.Body
			if err := alive(body.ID); err != nil {
				return nil, err
			}
			rd.spawned = append(rd.spawned, maps.InitialBody{ID: body.ID, Team: body.Team, Type: body.Type, X: body.X, Y: body.Y})
			if body.Health != body.Type.Health() {
				rd.health(body.ID, body.Health)
			}
			if body.Cargo != (game.Cargo{}) {
				rd.cargo(body.ID, body.Cargo)
			}
		case playback.Move:
			if err := alive(op.ID); err != nil {
				return nil, err
			}
			rd.movedIDs = append(rd.movedIDs, op.ID)
			rd.movedXs = append(rd.movedXs, int32(op.X))
			rd.movedYs = append(rd.movedYs, int32(op.Y))
		case playback.SetHealth:
			if err := alive(op.ID); err != nil {
				return nil, err
			}
			rd.health(op.ID, op.Health)
		case playback.SetCargo:
			if err := alive(op.ID); err != nil {
				return nil, err
			}
			rd.cargo(op.ID, op.Cargo)
		case playback.Remove:
			died[op.ID] = true
			rd.diedIDs = append(rd.diedIDs, op.ID)
		case playback.SetIslandOwner:
			rd.islandIDs = append(rd.islandIDs, op.Island)
			rd.islandOwners = append(rd.islandOwners, int8(op.Team))
		case playback.SetWellAmount:
			rd.wellLocs = append(rd.wellLocs, int32(op.Cell))
			rd.wellAmounts = append(rd.wellAmounts, op.Amount)
		case playback.SetTeamStats:
			rd.teamIDs = append(rd.teamIDs, int32(op.Team))
			rd.teamAdamantium = append(rd.teamAdamantium, op.Stats.Resources.Adamantium)
			rd.teamMana = append(rd.teamMana, op.Stats.Resources.Mana)
			rd.teamElixir = append(rd.teamElixir, op.Stats.Resources.Elixir)
		default:
			return nil, fmt.Errorf("%w: unknown op %T", ErrUnencodable, op)
		}
	}
	return rd, nil
}

// build writes the collected vectors as a Round table.
func (rd *roundData) build(b *flatbuffers.Builder, roundID int32) flatbuffers.UOffsetT {
	spawned := maps.BuildSpawnedBodies(b, rd.spawned)
	movedIDs := schema.CreateInt32Vector(b, rd.movedIDs)
	movedLocs := schema.CreateVecTable(b, rd.movedXs, rd.movedYs)
	diedIDs := schema.CreateInt32Vector(b, rd.diedIDs)
	healthIDs := schema.CreateInt32Vector(b, rd.healthIDs)
	healthValues := schema.CreateInt32Vector(b, rd.healthValues)
	cargoIDs := schema.CreateInt32Vector(b, rd.cargoIDs)
	cargoAdamantium := schema.CreateInt32Vector(b, rd.cargoAdamant)
	cargoMana := schema.CreateInt32Vector(b, rd.cargoMana)
	cargoElixir := schema.CreateInt32Vector(b, rd.cargoElixir)
	islandIDs := schema.CreateInt32Vector(b, rd.islandIDs)
	islandOwners := schema.CreateInt8Vector(b, rd.islandOwners)
	wellLocs := schema.CreateInt32Vector(b, rd.wellLocs)
	wellAmounts := schema.CreateInt32Vector(b, rd.wellAmounts)
	teamIDs := schema.CreateInt32Vector(b, rd.teamIDs)
	teamAdamantium := schema.CreateInt32Vector(b, rd.teamAdamantium)
	teamMana := schema.CreateInt32Vector(b, rd.teamMana)
	teamElixir := schema.CreateInt32Vector(b, rd.teamElixir)

	schema.RoundStart(b)
	schema.RoundAddRoundID(b, roundID)
	schema.RoundAddSpawnedBodies(b, spawned)
	schema.RoundAddMovedIDs(b, movedIDs)
	schema.RoundAddMovedLocs(b, movedLocs)
	schema.RoundAddDiedIDs(b, diedIDs)
	schema.RoundAddHealthIDs(b, healthIDs)
	schema.RoundAddHealthValues(b, healthValues)
	schema.RoundAddCargoIDs(b, cargoIDs)
	schema.RoundAddCargoAdamantium(b, cargoAdamantium)
	schema.RoundAddCargoMana(b, cargoMana)
	schema.RoundAddCargoElixir(b, cargoElixir)
	schema.RoundAddIslandIDs(b, islandIDs)
	schema.RoundAddIslandOwners(b, islandOwners)
	schema.RoundAddWellLocs(b, wellLocs)
	schema.RoundAddWellAmounts(b, wellAmounts)
	schema.RoundAddTeamIDs(b, teamIDs)
	schema.RoundAddTeamAdamantium(b, teamAdamantium)
	schema.RoundAddTeamMana(b, teamMana)
	schema.RoundAddTeamElixir(b, teamElixir)
	return schema.RoundEnd(b)
}
