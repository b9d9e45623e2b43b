package optimizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stitts-dev/lineup-optimizer/internal/types"
)

func rosterFor(t *testing.T, req *types.RosterRequest) *Roster {
	t.Helper()
	r, err := Normalize(req, 0, testLogger())
	require.NoError(t, err)
	return r
}

func TestComputeBenchTargets_UniformFreshRoster(t *testing.T) {
	players := make([]string, 10)
	for i := range players {
		players[i] = string(rune('a' + i))
	}
	r := rosterFor(t, &types.RosterRequest{Players: players})

	targets := ComputeBenchTargets(r)
	assert.Equal(t, 1, targets.BenchPerInning)
	// 6 new bench innings over 60 total player-innings.
	assert.InDelta(t, 0.1, targets.Ratio, 1e-12)
	for _, id := range players {
		assert.InDelta(t, 0.6, targets.Target[id], 1e-12)
	}
}

func TestComputeBenchTargets_ProportionalToHistory(t *testing.T) {
	innings := 6
	r := rosterFor(t, &types.RosterRequest{
		Players:     []string{"vet", "rookie"},
		GameInnings: &innings,
		ActualCounts: map[string]map[string]float64{
			"vet": {"CF": 10, "OUT": 2},
		},
	})

	targets := ComputeBenchTargets(r)
	// Roster of 2 never benches anyone this game.
	assert.Equal(t, 0, targets.BenchPerInning)
	// ratio = 2 / (12 + 6*2) = 1/12
	assert.InDelta(t, 1.0/12, targets.Ratio, 1e-12)
	// The veteran's larger total carries a proportionally larger target.
	assert.InDelta(t, (1.0/12)*18, targets.Target["vet"], 1e-12)
	assert.InDelta(t, (1.0/12)*6, targets.Target["rookie"], 1e-12)
	assert.Greater(t, targets.Target["vet"], targets.Target["rookie"])
}

func TestComputeBenchTargets_FullFieldNoBench(t *testing.T) {
	players := make([]string, NumMainPositions)
	for i := range players {
		players[i] = string(rune('a' + i))
	}
	r := rosterFor(t, &types.RosterRequest{Players: players})

	targets := ComputeBenchTargets(r)
	assert.Equal(t, 0, targets.BenchPerInning)
	assert.Zero(t, targets.Ratio)
	for _, id := range players {
		assert.Zero(t, targets.Target[id])
	}
}

func TestComputeBenchTargets_ZeroDenominatorGuard(t *testing.T) {
	// Not reachable through Normalize (innings >= 1), but the guard must
	// hold for a hand-built roster.
	r := &Roster{
		Core:   []string{"a"},
		Counts: map[string]map[string]float64{"a": {}},
	}
	targets := ComputeBenchTargets(r)
	assert.Zero(t, targets.Ratio)
	assert.Zero(t, targets.Target["a"])
}
