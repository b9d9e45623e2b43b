package optimizer

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stitts-dev/lineup-optimizer/internal/solver"
	"github.com/stitts-dev/lineup-optimizer/internal/types"
)

// testOptimizer uses the fallback backend at the service's default budget;
// every scenario below must finish well inside it.
func testOptimizer(t *testing.T) *Optimizer {
	t.Helper()
	log := testLogger()
	backend := solver.New(solver.Config{TimeLimit: 55 * time.Second, Backend: "bnb"}, log)
	return New(backend, DefaultWeights(), 0, 55*time.Second, log)
}

func namedRoster(n int) []string {
	players := make([]string, n)
	for i := range players {
		players[i] = "p" + strconv.Itoa(i+1)
	}
	return players
}

// checkLineupInvariants asserts the structural properties every feasible
// solution must satisfy: one position per player-inning, each main slot
// filled exactly once per inning, and the right bench count.
func checkLineupInvariants(t *testing.T, lineups []types.PlayerLineup, innings, rosterSize int) {
	t.Helper()
	wantBench := rosterSize - NumMainPositions
	if wantBench < 0 {
		wantBench = 0
	}

	for i := 1; i <= innings; i++ {
		key := strconv.Itoa(i)
		slotCount := make(map[string]int)
		bench := 0
		for _, lineup := range lineups {
			pos, ok := lineup.Innings[key]
			require.True(t, ok, "player %s missing inning %s", lineup.PlayerID, key)
			require.True(t, ValidPosition(pos), "player %s inning %s got %q", lineup.PlayerID, key, pos)
			if pos == BenchPosition {
				bench++
			} else {
				slotCount[pos]++
			}
		}
		for _, main := range MainPositions {
			assert.Equal(t, 1, slotCount[main], "inning %s slot %s", key, main)
		}
		assert.Equal(t, wantBench, bench, "inning %s bench count", key)
	}
}

func TestOptimize_NinePlayersOneInning(t *testing.T) {
	innings := 1
	req := &types.RosterRequest{Players: namedRoster(9), GameInnings: &innings}

	result, err := testOptimizer(t).Optimize(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, result.Lineups, 9)
	assert.True(t, result.ProvenOptimal)

	checkLineupInvariants(t, result.Lineups, 1, 9)
	for _, lineup := range result.Lineups {
		assert.False(t, lineup.IsOut)
		assert.NotEqual(t, BenchPosition, lineup.Innings["1"], "full field never benches")
	}
}

func TestOptimize_TenPlayersSixInnings_FairBenchSpread(t *testing.T) {
	req := &types.RosterRequest{Players: namedRoster(10)}

	result, err := testOptimizer(t).Optimize(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, result.Lineups, 10)
	require.True(t, result.ProvenOptimal)

	checkLineupInvariants(t, result.Lineups, 6, 10)

	// Six bench innings over ten fresh players: the optimum benches six
	// distinct players once and nobody twice.
	benchedOnce := 0
	for _, lineup := range result.Lineups {
		benched := 0
		for i := 1; i <= 6; i++ {
			if lineup.Innings[strconv.Itoa(i)] == BenchPosition {
				benched++
			}
		}
		assert.LessOrEqual(t, benched, 1, "player %s benched %d times", lineup.PlayerID, benched)
		if benched == 1 {
			benchedOnce++
		}
	}
	assert.Equal(t, 6, benchedOnce)
}

func TestOptimize_HonorsFixedAssignments(t *testing.T) {
	innings := 2
	req := &types.RosterRequest{
		Players:     namedRoster(10),
		GameInnings: &innings,
		FixedAssignments: map[string]map[string]string{
			"p3": {"1": "P", "2": "OUT"},
			"p7": {"1": "OUT"},
		},
	}

	result, err := testOptimizer(t).Optimize(context.Background(), req)
	require.NoError(t, err)
	checkLineupInvariants(t, result.Lineups, 2, 10)

	byID := make(map[string]types.PlayerLineup)
	for _, lineup := range result.Lineups {
		byID[lineup.PlayerID] = lineup
	}
	assert.Equal(t, "P", byID["p3"].Innings["1"])
	assert.Equal(t, "OUT", byID["p3"].Innings["2"])
	assert.Equal(t, "OUT", byID["p7"].Innings["1"])
}

func TestOptimize_Idempotent(t *testing.T) {
	innings := 2
	req := &types.RosterRequest{Players: namedRoster(10), GameInnings: &innings}

	opt := testOptimizer(t)
	first, err := opt.Optimize(context.Background(), req)
	require.NoError(t, err)

	// Feed the whole output back as overrides; nothing is left to choose.
	fixed := make(map[string]map[string]string)
	for _, lineup := range first.Lineups {
		fixed[lineup.PlayerID] = lineup.Innings
	}
	req.FixedAssignments = fixed

	second, err := opt.Optimize(context.Background(), req)
	require.NoError(t, err)
	for i, lineup := range second.Lineups {
		assert.Equal(t, first.Lineups[i].Innings, lineup.Innings, "player %s", lineup.PlayerID)
	}
}

func TestOptimize_AvoidsRestrictedPosition(t *testing.T) {
	innings := 1
	req := &types.RosterRequest{
		Players:     namedRoster(9),
		GameInnings: &innings,
		PlayerPrefs: map[string]types.PlayerPreference{
			"p1": {Restricted: []string{"P", "C"}},
		},
	}

	result, err := testOptimizer(t).Optimize(context.Background(), req)
	require.NoError(t, err)
	checkLineupInvariants(t, result.Lineups, 1, 9)

	for _, lineup := range result.Lineups {
		if lineup.PlayerID == "p1" {
			assert.NotContains(t, []string{"P", "C"}, lineup.Innings["1"])
		}
	}
}

func TestOptimize_SteersHighBenchHistoryOntoField(t *testing.T) {
	innings := 1
	req := &types.RosterRequest{
		Players:     namedRoster(10),
		GameInnings: &innings,
		ActualCounts: map[string]map[string]float64{
			"p1": {"OUT": 5},
		},
	}

	result, err := testOptimizer(t).Optimize(context.Background(), req)
	require.NoError(t, err)
	checkLineupInvariants(t, result.Lineups, 1, 10)

	for _, lineup := range result.Lineups {
		if lineup.PlayerID == "p1" {
			assert.NotEqual(t, BenchPosition, lineup.Innings["1"],
				"the player owed field time must not sit again")
		}
	}
}

func TestOptimize_ConflictingPinsAreInfeasible(t *testing.T) {
	innings := 1
	req := &types.RosterRequest{
		Players:     namedRoster(9),
		GameInnings: &innings,
		FixedAssignments: map[string]map[string]string{
			"p1": {"1": "P"},
			"p2": {"1": "P"},
		},
	}

	_, err := testOptimizer(t).Optimize(context.Background(), req)
	var infeasible *InfeasibleError
	require.ErrorAs(t, err, &infeasible)
}

func TestOptimize_CappedRosterBenchesOverflow(t *testing.T) {
	innings := 1
	log := testLogger()
	backend := solver.New(solver.Config{TimeLimit: 55 * time.Second, Backend: "bnb"}, log)
	opt := New(backend, DefaultWeights(), 9, 55*time.Second, log)

	req := &types.RosterRequest{Players: namedRoster(11), GameInnings: &innings}
	result, err := opt.Optimize(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, result.Lineups, 11)

	// Core players come first in roster order, extras after.
	for i, lineup := range result.Lineups {
		if i < 9 {
			assert.False(t, lineup.IsOut)
			continue
		}
		assert.True(t, lineup.IsOut, "player %s should be benched all game", lineup.PlayerID)
		assert.Equal(t, BenchPosition, lineup.Innings["1"])
	}
}
