package domain

import (
	"fmt"
	"math/bits"
)

// TotalRounds is the number of discrete ascent steps of every launch.
const TotalRounds = 3

type Outcome struct {
	Participant    ActorId
	Survived       bool
	Altitude       uint64
	Earnings       uint64
	RoundsSurvived uint32
	FuelLeft       uint64
}

type flight struct {
	id       ActorId
	strategy Strategy
	fuelLeft uint64
	alive    bool
	altitude uint64
	rounds   uint32
}

// Simulate runs the launch of every strategy under the given environment and
// returns one outcome per participant, ordered by ascending id.
//
// The altitude gained each round is Altitude/TotalRounds and the fuel burnt
// each round is PayloadAmount/TotalRounds, both truncated. A participant whose
// fuel does not cover the burn is lost and keeps the altitude of the previous
// round. The fuel is only checked against the burn, it is not consumed.
// Earnings are PayloadAmount*PayloadValue whatever the fate of the launch.
func Simulate(env Environment, strategies map[ActorId]Strategy) ([]Outcome, error) {
	session := Session{Strategies: strategies}
	ids := session.Participants()

	flights := make([]*flight, 0, len(ids))
	for _, id := range ids {
		strategy := strategies[id]
		flights = append(flights, &flight{
			id:       id,
			strategy: strategy,
			fuelLeft: uint64(strategy.FuelAmount),
			alive:    true,
		})
	}

	increment := uint64(env.Altitude) / TotalRounds
	currentAltitude := uint64(0)
	for round := 1; round <= TotalRounds; round++ {
		altitude, carry := bits.Add64(currentAltitude, increment, 0)
		if carry != 0 {
			return nil, fmt.Errorf("altitude at round %d: %w", round, ErrArithmeticOverflow)
		}
		currentAltitude = altitude

		for _, f := range flights {
			if !f.alive {
				continue
			}
			burn := uint64(f.strategy.PayloadAmount) / TotalRounds
			if f.fuelLeft < burn {
				f.alive = false
				continue
			}
			f.altitude = currentAltitude
			f.rounds++
		}
	}

	outcomes := make([]Outcome, 0, len(flights))
	for _, f := range flights {
		hi, earnings := bits.Mul64(uint64(f.strategy.PayloadAmount), uint64(env.PayloadValue))
		if hi != 0 {
			return nil, fmt.Errorf("earnings of %s: %w", f.id, ErrArithmeticOverflow)
		}
		outcomes = append(outcomes, Outcome{
			Participant:    f.id,
			Survived:       f.alive,
			Altitude:       f.altitude,
			Earnings:       earnings,
			RoundsSurvived: f.rounds,
			FuelLeft:       f.fuelLeft,
		})
	}
	return outcomes, nil
}
