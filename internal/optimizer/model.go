package optimizer

import (
	"fmt"
	"math"

	"github.com/stitts-dev/lineup-optimizer/internal/solver"
)

// Weights are the objective coefficients. Keep Restricted >> NotPreferred >>
// BenchDeviation so feasibility and preference dominate lexicographically in
// practice while fairness breaks ties among equally-preferred lineups.
type Weights struct {
	Restricted     float64
	NotPreferred   float64
	BenchDeviation float64
}

// DefaultWeights mirrors the service defaults.
func DefaultWeights() Weights {
	return Weights{Restricted: 1000, NotPreferred: 10, BenchDeviation: 1}
}

// AssignmentModel pairs the solver model with the variable layout needed to
// read a solution back.
type AssignmentModel struct {
	Model *solver.Model
	// x[p][i][k] is the column for core player p, inning i+1, Positions[k].
	x [][][]int
	// d[p] is the bench deviation column for core player p.
	d []int
}

// BuildModel translates a normalized roster and its fairness targets into a
// binary minimization model.
//
// Constraint families, in construction order: one position per player-inning,
// one player per main slot-inning, bench count per inning, fixed-assignment
// pins, then the two-sided deviation rows. The bench-count rows are implied
// by the first two families plus roster size; they stay because pinning the
// bench column sums removes solver search slack.
func BuildModel(r *Roster, t *BenchTargets, w Weights) *AssignmentModel {
	m := solver.NewModel("lineup_assignment")
	am := &AssignmentModel{
		Model: m,
		x:     make([][][]int, len(r.Core)),
		d:     make([]int, len(r.Core)),
	}

	for p, id := range r.Core {
		am.x[p] = make([][]int, r.Innings)
		for i := 0; i < r.Innings; i++ {
			am.x[p][i] = make([]int, len(Positions))
			for k, pos := range Positions {
				am.x[p][i][k] = m.AddBinary(fmt.Sprintf("X_%s_%d_%s", id, i+1, pos))
			}
		}
	}

	ones := func(n int) []float64 {
		c := make([]float64, n)
		for i := range c {
			c[i] = 1
		}
		return c
	}

	// 1. One position per player per inning.
	for p, id := range r.Core {
		for i := 0; i < r.Innings; i++ {
			m.AddRow(fmt.Sprintf("OnePos_%s_%d", id, i+1),
				am.x[p][i], ones(len(Positions)), solver.EQ, 1)
		}
	}

	// 2. One player per main position per inning.
	for i := 0; i < r.Innings; i++ {
		for k, pos := range MainPositions {
			cols := make([]int, len(r.Core))
			for p := range r.Core {
				cols[p] = am.x[p][i][k]
			}
			m.AddRow(fmt.Sprintf("MainPos_%s_%d", pos, i+1),
				cols, ones(len(cols)), solver.EQ, 1)
		}
	}

	// 3. Benched player count per inning.
	benchIdx := len(Positions) - 1
	for i := 0; i < r.Innings; i++ {
		cols := make([]int, len(r.Core))
		for p := range r.Core {
			cols[p] = am.x[p][i][benchIdx]
		}
		m.AddRow(fmt.Sprintf("BenchCount_%d", i+1),
			cols, ones(len(cols)), solver.EQ, float64(t.BenchPerInning))
	}

	// 4. Fixed assignments.
	coreIdx := make(map[string]int, len(r.Core))
	for p, id := range r.Core {
		coreIdx[id] = p
	}
	posIdx := make(map[string]int, len(Positions))
	for k, pos := range Positions {
		posIdx[pos] = k
	}
	for _, f := range r.Fixed {
		col := am.x[coreIdx[f.Player]][f.Inning-1][posIdx[f.Position]]
		m.AddRow(fmt.Sprintf("Fixed_%s_%d_%s", f.Player, f.Inning, f.Position),
			[]int{col}, []float64{1}, solver.EQ, 1)
	}

	// 5. Bench fairness: d[p] >= |finalBench - target|, linearized.
	// finalBench = historical bench + sum of this game's bench variables,
	// so both rows move the historical part onto the RHS.
	for p, id := range r.Core {
		am.d[p] = m.AddContinuous(fmt.Sprintf("d_%s", id))
		rhs := t.Target[id] - r.Counts[id][BenchPosition]

		cols := make([]int, 0, r.Innings+1)
		for i := 0; i < r.Innings; i++ {
			cols = append(cols, am.x[p][i][benchIdx])
		}

		coefs := ones(r.Innings + 1)
		coefs[r.Innings] = -1
		m.AddRow(fmt.Sprintf("BenchDev1_%s", id),
			append(append([]int(nil), cols...), am.d[p]), coefs, solver.LE, rhs)

		m.AddRow(fmt.Sprintf("BenchDev2_%s", id),
			append(append([]int(nil), cols...), am.d[p]), ones(r.Innings+1), solver.GE, rhs)

		m.AddCost(am.d[p], w.BenchDeviation)
	}

	// The relaxation can split bench time fractionally and drive every
	// deviation to zero, which starves branch-and-bound of a usable bound.
	// Pin the total deviation at the best integral allocation; like the
	// bench-count rows, this is implied for integer solutions and exists
	// for solve-time stability.
	if dmin := minTotalDeviation(r, t); dmin > 1e-12 {
		m.AddRow("BenchDevTotal", append([]int(nil), am.d...),
			ones(len(am.d)), solver.GE, dmin)
	}

	// 6. Preference penalties. Bench is never charged; restricted takes
	// precedence over not-preferred.
	for p, id := range r.Core {
		prefs := r.Prefs[id]
		for i := 0; i < r.Innings; i++ {
			for k, pos := range Positions {
				if _, restricted := prefs.Restricted[pos]; restricted {
					m.AddCost(am.x[p][i][k], w.Restricted)
					continue
				}
				if pos == BenchPosition {
					continue
				}
				if _, preferred := prefs.Preferred[pos]; !preferred {
					m.AddCost(am.x[p][i][k], w.NotPreferred)
				}
			}
		}
	}

	return am
}

// minTotalDeviation computes the smallest total |finalBench - target|
// reachable by any integral split of this game's bench innings, ignoring
// fixed assignments and preferences. A valid lower bound on the sum of the
// deviation variables: constraints can only push the real optimum higher.
func minTotalDeviation(r *Roster, t *BenchTargets) float64 {
	_, total := greedyBenchPlan(r, t)
	return total
}

// greedyBenchPlan hands this game's bench innings out one at a time to
// whichever player the extra bench moves least away from (or most toward)
// their target, capped at one bench per inning per player. Returns the
// per-player allocation and the resulting total deviation. The per-player
// cost is convex in the bench count, so unit-greedy assignment is exact.
func greedyBenchPlan(r *Roster, t *BenchTargets) ([]float64, float64) {
	units := r.Innings * t.BenchPerInning
	added := make([]float64, len(r.Core))
	total := 0.0
	for _, id := range r.Core {
		total += math.Abs(r.Counts[id][BenchPosition] - t.Target[id])
	}

	for u := 0; u < units; u++ {
		best, bestDelta := -1, math.Inf(1)
		for p, id := range r.Core {
			if added[p] >= float64(r.Innings) {
				continue
			}
			cur := r.Counts[id][BenchPosition] + added[p]
			delta := math.Abs(cur+1-t.Target[id]) - math.Abs(cur-t.Target[id])
			if delta < bestDelta {
				best, bestDelta = p, delta
			}
		}
		added[best]++
		total += bestDelta
	}
	return added, total
}
