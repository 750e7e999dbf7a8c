package domain_test

import (
	"math"
	"testing"

	"github.com/ark-network/launchsite/internal/core/domain"
	"github.com/stretchr/testify/require"
)

var (
	alice = mustActorId("1111111111111111111111111111111111111111111111111111111111111111")
	bob   = mustActorId("2222222222222222222222222222222222222222222222222222222222222222")
	carol = mustActorId("3333333333333333333333333333333333333333333333333333333333333333")
	owner = mustActorId("00000000000000000000000000000000000000000000000000000000000000ff")

	testEnvironment = domain.Environment{
		Weather:      0,
		Altitude:     120000,
		FuelPrice:    10,
		PayloadValue: 100,
	}
)

func TestSimulate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		fixtures := []struct {
			name       string
			env        domain.Environment
			strategies map[domain.ActorId]domain.Strategy
			expected   []domain.Outcome
		}{
			{
				name: "survivor reaches the altitude ceiling",
				env:  testEnvironment,
				strategies: map[domain.ActorId]domain.Strategy{
					alice: {FuelAmount: 300, PayloadAmount: 100},
				},
				expected: []domain.Outcome{
					{
						Participant:    alice,
						Survived:       true,
						Altitude:       120000,
						Earnings:       10000,
						RoundsSurvived: 3,
						FuelLeft:       300,
					},
				},
			},
			{
				name: "empty tank is lost at the first round",
				env:  testEnvironment,
				strategies: map[domain.ActorId]domain.Strategy{
					alice: {FuelAmount: 0, PayloadAmount: 300},
				},
				expected: []domain.Outcome{
					{
						Participant: alice,
						Survived:    false,
						Altitude:    0,
						Earnings:    30000,
					},
				},
			},
			{
				name: "altitude increment is truncated",
				env:  domain.Environment{Altitude: 100, PayloadValue: 1},
				strategies: map[domain.ActorId]domain.Strategy{
					alice: {FuelAmount: 1, PayloadAmount: 2},
				},
				expected: []domain.Outcome{
					{
						Participant:    alice,
						Survived:       true,
						Altitude:       99,
						Earnings:       2,
						RoundsSurvived: 3,
						FuelLeft:       1,
					},
				},
			},
			{
				name: "outcomes are ordered by participant id",
				env:  testEnvironment,
				strategies: map[domain.ActorId]domain.Strategy{
					carol: {FuelAmount: 10, PayloadAmount: 10},
					alice: {FuelAmount: 10, PayloadAmount: 10},
					bob:   {FuelAmount: 10, PayloadAmount: 10},
				},
				expected: []domain.Outcome{
					{Participant: alice, Survived: true, Altitude: 120000, Earnings: 1000, RoundsSurvived: 3, FuelLeft: 10},
					{Participant: bob, Survived: true, Altitude: 120000, Earnings: 1000, RoundsSurvived: 3, FuelLeft: 10},
					{Participant: carol, Survived: true, Altitude: 120000, Earnings: 1000, RoundsSurvived: 3, FuelLeft: 10},
				},
			},
			{
				name: "zero environment",
				env:  domain.Environment{},
				strategies: map[domain.ActorId]domain.Strategy{
					alice: {},
				},
				expected: []domain.Outcome{
					{Participant: alice, Survived: true, RoundsSurvived: 3},
				},
			},
			{
				name: "max values",
				env: domain.Environment{
					Altitude:     math.MaxUint32,
					PayloadValue: math.MaxUint32,
				},
				strategies: map[domain.ActorId]domain.Strategy{
					alice: {FuelAmount: math.MaxUint32, PayloadAmount: math.MaxUint32},
				},
				expected: []domain.Outcome{
					{
						Participant:    alice,
						Survived:       true,
						Altitude:       math.MaxUint32,
						Earnings:       uint64(math.MaxUint32) * uint64(math.MaxUint32),
						RoundsSurvived: 3,
						FuelLeft:       math.MaxUint32,
					},
				},
			},
			{
				name:       "no strategies",
				env:        testEnvironment,
				strategies: map[domain.ActorId]domain.Strategy{},
				expected:   []domain.Outcome{},
			},
		}

		for _, f := range fixtures {
			t.Run(f.name, func(t *testing.T) {
				outcomes, err := domain.Simulate(f.env, f.strategies)
				require.NoError(t, err)
				require.Equal(t, f.expected, outcomes)
			})
		}
	})

	t.Run("altitude increment", func(t *testing.T) {
		strategies := map[domain.ActorId]domain.Strategy{
			alice: {FuelAmount: 300, PayloadAmount: 100},
		}
		outcomes, err := domain.Simulate(testEnvironment, strategies)
		require.NoError(t, err)
		require.Len(t, outcomes, 1)
		require.Equal(t, uint64(120000/domain.TotalRounds), outcomes[0].Altitude/uint64(outcomes[0].RoundsSurvived))
		require.Equal(t, uint64(40000), uint64(testEnvironment.Altitude)/domain.TotalRounds)
	})

	// Characterization: fuel is compared against the burn of each round but it
	// is never consumed. With consumption, 40 units of fuel would not cover the
	// second burn of 33 and the launch would stop at 40000.
	t.Run("fuel is not consumed between rounds", func(t *testing.T) {
		strategies := map[domain.ActorId]domain.Strategy{
			alice: {FuelAmount: 40, PayloadAmount: 100},
		}
		outcomes, err := domain.Simulate(testEnvironment, strategies)
		require.NoError(t, err)
		require.Len(t, outcomes, 1)
		require.True(t, outcomes[0].Survived)
		require.Equal(t, uint64(120000), outcomes[0].Altitude)
		require.Equal(t, uint64(40), outcomes[0].FuelLeft)
	})

	t.Run("deterministic", func(t *testing.T) {
		strategies := map[domain.ActorId]domain.Strategy{
			alice: {FuelAmount: 300, PayloadAmount: 100},
			bob:   {FuelAmount: 50, PayloadAmount: 300},
			carol: {FuelAmount: 99, PayloadAmount: 299},
		}
		first, err := domain.Simulate(testEnvironment, strategies)
		require.NoError(t, err)
		for i := 0; i < 10; i++ {
			outcomes, err := domain.Simulate(testEnvironment, strategies)
			require.NoError(t, err)
			require.Equal(t, first, outcomes)
		}
	})
}

func mustActorId(str string) domain.ActorId {
	id, err := domain.ParseActorId(str)
	if err != nil {
		panic(err)
	}
	return id
}
