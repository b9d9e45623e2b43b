package optimizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stitts-dev/lineup-optimizer/internal/solver"
	"github.com/stitts-dev/lineup-optimizer/internal/types"
)

func buildFor(t *testing.T, req *types.RosterRequest) (*Roster, *BenchTargets, *AssignmentModel) {
	t.Helper()
	r, err := Normalize(req, 0, testLogger())
	require.NoError(t, err)
	targets := ComputeBenchTargets(r)
	return r, targets, BuildModel(r, targets, DefaultWeights())
}

// requireSatisfies replays a candidate assignment against every model row.
func requireSatisfies(t *testing.T, m *solver.Model, values []float64) {
	t.Helper()
	require.Len(t, values, m.NumCols())
	for i := 0; i < m.NumRows(); i++ {
		row := m.RowAt(i)
		sum := 0.0
		for k, c := range row.Cols {
			sum += row.Coefs[k] * values[c]
		}
		switch row.Sense {
		case solver.EQ:
			assert.InDelta(t, row.RHS, sum, 1e-6, "row %s", row.Name)
		case solver.LE:
			assert.LessOrEqual(t, sum, row.RHS+1e-6, "row %s", row.Name)
		case solver.GE:
			assert.GreaterOrEqual(t, sum, row.RHS-1e-6, "row %s", row.Name)
		}
	}
}

func positionIndex(t *testing.T, name string) int {
	t.Helper()
	for k, pos := range Positions {
		if pos == name {
			return k
		}
	}
	t.Fatalf("unknown position %q", name)
	return -1
}

func TestBuildWarmStart_TenPlayersSixInnings(t *testing.T) {
	req := &types.RosterRequest{Players: namedRoster(10)}
	r, targets, am := buildFor(t, req)

	hint := buildWarmStart(r, targets, am)
	require.NotNil(t, hint)
	requireSatisfies(t, am.Model, hint)

	// Ten fresh players over six innings: the plan benches six distinct
	// players once (deviation 6*0.4 + 4*0.6 = 4.8) and every field slot
	// carries the flat not-preferred charge (9*6*10 = 540).
	obj := 0.0
	for j := 0; j < am.Model.NumCols(); j++ {
		obj += am.Model.Col(j).Cost * hint[j]
	}
	assert.InDelta(t, 544.8, obj, 1e-6)
}

func TestBuildWarmStart_HonorsPins(t *testing.T) {
	innings := 2
	req := &types.RosterRequest{
		Players:     namedRoster(10),
		GameInnings: &innings,
		FixedAssignments: map[string]map[string]string{
			"p3": {"1": "P", "2": "OUT"},
		},
	}
	r, targets, am := buildFor(t, req)

	hint := buildWarmStart(r, targets, am)
	require.NotNil(t, hint)
	requireSatisfies(t, am.Model, hint)

	pitcher := positionIndex(t, "P")
	bench := positionIndex(t, BenchPosition)
	assert.InDelta(t, 1, hint[am.x[2][0][pitcher]], 1e-9)
	assert.InDelta(t, 1, hint[am.x[2][1][bench]], 1e-9)
}

func TestBuildWarmStart_AvoidsRestrictedSlots(t *testing.T) {
	innings := 1
	req := &types.RosterRequest{
		Players:     namedRoster(9),
		GameInnings: &innings,
		PlayerPrefs: map[string]types.PlayerPreference{
			"p1": {Restricted: []string{"P", "C"}},
		},
	}
	r, targets, am := buildFor(t, req)

	hint := buildWarmStart(r, targets, am)
	require.NotNil(t, hint)
	requireSatisfies(t, am.Model, hint)

	assert.InDelta(t, 0, hint[am.x[0][0][positionIndex(t, "P")]], 1e-9)
	assert.InDelta(t, 0, hint[am.x[0][0][positionIndex(t, "C")]], 1e-9)
}

func TestBuildWarmStart_NilOnConflictingPins(t *testing.T) {
	innings := 1
	req := &types.RosterRequest{
		Players:     namedRoster(9),
		GameInnings: &innings,
		FixedAssignments: map[string]map[string]string{
			"p1": {"1": "P"},
			"p2": {"1": "P"},
		},
	}
	r, targets, am := buildFor(t, req)

	assert.Nil(t, buildWarmStart(r, targets, am))
}

func TestBuildWarmStart_NilWhenOutPinsOverflowBench(t *testing.T) {
	innings := 1
	req := &types.RosterRequest{
		Players:     namedRoster(10),
		GameInnings: &innings,
		FixedAssignments: map[string]map[string]string{
			"p1": {"1": "OUT"},
			"p2": {"1": "OUT"},
		},
	}
	r, targets, am := buildFor(t, req)

	assert.Nil(t, buildWarmStart(r, targets, am))
}

func TestBuildWarmStart_MatchesGreedyDeviationFloor(t *testing.T) {
	req := &types.RosterRequest{Players: namedRoster(10)}
	r, targets, am := buildFor(t, req)

	hint := buildWarmStart(r, targets, am)
	require.NotNil(t, hint)

	sum := 0.0
	for _, col := range am.d {
		sum += hint[col]
	}
	assert.InDelta(t, minTotalDeviation(r, targets), sum, 1e-9)
}
