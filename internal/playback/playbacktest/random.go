// Package playbacktest builds seeded random matches for tests.
package playbacktest

import (
	"math/rand"

	"battlecode-client/internal/game"
	"battlecode-client/internal/playback"
	"battlecode-client/pkg/maps"
)

// Options shapes a random match.
type Options struct {
	Seed     int64
	Rounds   int
	Symmetry game.Symmetry
}

// Map generates the map and headquarters a random match is played on.
func Map(seed int64, sym game.Symmetry) (*maps.StaticMap, []maps.InitialBody) {
	opts := maps.DefaultOptions()
	opts.Seed = seed
	opts.Symmetry = sym
	current, bodies := maps.NewGenerator(opts).Generate()
	return current.Freeze("Random"), bodies
}

// Match builds a match of random but valid rounds and adds it to g.
func Match(g *playback.Game, opts Options) *playback.Match {
	static, initial := Map(opts.Seed, opts.Symmetry)
	bodies, err := playback.BodiesFromInitial(initial)
	if err != nil {
		panic(err)
	}
	deltas := Deltas(opts.Seed, static, bodies, opts.Rounds)
	m, err := playback.NewMatch(g, static, bodies, deltas)
	if err != nil {
		panic(err)
	}
	m.MaxRounds = game.MaxRounds
	m.Winner = game.Teams[opts.Seed%2]
	return m
}

// Deltas generates n rounds that apply cleanly, starting from bodies.
func Deltas(seed int64, static *maps.StaticMap, bodies *playback.Bodies, n int) []playback.Delta {
	rng := rand.New(rand.NewSource(seed))
	scratch := playback.NewTurn(static, bodies.Clone())
	islands := static.IslandIDs()
	nextID := bodies.NextID() + 100

	deltas := make([]playback.Delta, 0, n)
	for round := 0; round < n; round++ {
		var d playback.Delta
		alive := scratch.Bodies.All()

		if rng.Intn(3) == 0 || len(alive) < 3 {
			typ := game.BodyTypes[1+rng.Intn(len(game.BodyTypes)-1)]
			team := game.Teams[rng.Intn(2)]
			d = append(d, playback.Spawn{Body: playback.NewBody(nextID, team, typ, rng.Intn(static.Width()), rng.Intn(static.Height()))})
			nextID += 1 + int32(rng.Intn(3))
		}
		for _, body := range alive {
			switch rng.Intn(6) {
			case 0:
				d = append(d, playback.Move{ID: body.ID, X: rng.Intn(static.Width()), Y: rng.Intn(static.Height())})
			case 1:
				d = append(d, playback.SetHealth{ID: body.ID, Health: int32(rng.Intn(200))})
			case 2:
				d = append(d, playback.SetCargo{ID: body.ID, Cargo: game.Cargo{
					Adamantium: int32(rng.Intn(40)),
					Mana:       int32(rng.Intn(40)),
					Elixir:     int32(rng.Intn(10)),
				}})
			}
		}
		if len(alive) > 4 && rng.Intn(4) == 0 {
			victim := alive[rng.Intn(len(alive))]
			if victim.Type != game.BodyHeadquarters {
				d = append(d, playback.Remove{ID: victim.ID})
			}
		}
		if len(islands) > 0 && rng.Intn(3) == 0 {
			d = append(d, playback.SetIslandOwner{
				Island: islands[rng.Intn(len(islands))],
				Team:   game.Team(rng.Intn(3)),
			})
		}
		if rng.Intn(2) == 0 {
			d = append(d, playback.SetWellAmount{Cell: rng.Intn(static.CellCount()), Amount: int32(rng.Intn(500))})
		}
		for _, team := range game.Teams {
			if rng.Intn(2) == 0 {
				d = append(d, playback.SetTeamStats{Team: team, Stats: playback.TeamStats{Resources: game.Cargo{
					Adamantium: int32(rng.Intn(1000)),
					Mana:       int32(rng.Intn(1000)),
					Elixir:     int32(rng.Intn(100)),
				}}})
			}
		}

		if _, err := d.Apply(scratch); err != nil {
			panic(err)
		}
		deltas = append(deltas, d)
	}
	return deltas
}
