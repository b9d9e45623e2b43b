package optimizer

import "math"

// buildWarmStart constructs a feasible integral assignment for the solver to
// start from: pins are honored, bench innings follow the greedy fairness
// allocation, and field slots favor each player's preferred positions. A
// starting incumbent lets a blown time budget degrade to best-found instead
// of empty-handed, and on rosters without awkward pins it already sits on the
// relaxation bound so the search closes at the root. Returns nil when the
// pins defeat this simple construction; the solver then starts cold.
func buildWarmStart(r *Roster, t *BenchTargets, am *AssignmentModel) []float64 {
	n := len(r.Core)
	coreIdx := make(map[string]int, n)
	for p, id := range r.Core {
		coreIdx[id] = p
	}
	posIdx := make(map[string]int, len(Positions))
	for k, pos := range Positions {
		posIdx[pos] = k
	}
	benchIdx := posIdx[BenchPosition]

	// pinned[p][i] is the pinned position index for inning i+1, or -1.
	pinned := make([][]int, n)
	for p := range pinned {
		pinned[p] = make([]int, r.Innings)
		for i := range pinned[p] {
			pinned[p][i] = -1
		}
	}
	for _, f := range r.Fixed {
		pinned[coreIdx[f.Player]][f.Inning-1] = posIdx[f.Position]
	}

	credit, _ := greedyBenchPlan(r, t)
	added := make([]float64, n)

	assigned := make([][]int, n)
	for p := range assigned {
		assigned[p] = make([]int, r.Innings)
		for i := range assigned[p] {
			assigned[p][i] = -1
		}
	}

	for i := 0; i < r.Innings; i++ {
		// Bench: OUT pins first, then whoever the fairness plan still
		// owes a bench inning.
		benched := 0
		for p := range r.Core {
			if pinned[p][i] == benchIdx {
				assigned[p][i] = benchIdx
				added[p]++
				benched++
			}
		}
		if benched > t.BenchPerInning {
			return nil
		}
		for benched < t.BenchPerInning {
			best := -1
			for p := range r.Core {
				if assigned[p][i] != -1 || pinned[p][i] != -1 {
					continue
				}
				if best < 0 || credit[p]-added[p] > credit[best]-added[best] {
					best = p
				}
			}
			if best < 0 {
				return nil
			}
			assigned[best][i] = benchIdx
			added[best]++
			benched++
		}

		// Field: pins claim their slots, everyone else fills in, preferred
		// slots first and restricted ones only as a last resort.
		taken := make([]bool, NumMainPositions)
		for p := range r.Core {
			k := pinned[p][i]
			if k < 0 || k == benchIdx {
				continue
			}
			if taken[k] {
				return nil
			}
			taken[k] = true
			assigned[p][i] = k
		}
		for p, id := range r.Core {
			if assigned[p][i] != -1 {
				continue
			}
			prefs := r.Prefs[id]
			slot := -1
			for k, pos := range MainPositions {
				if taken[k] {
					continue
				}
				if _, ok := prefs.Preferred[pos]; ok {
					slot = k
					break
				}
				if slot == -1 {
					if _, bad := prefs.Restricted[pos]; !bad {
						slot = k
					}
				}
			}
			if slot == -1 {
				for k := range MainPositions {
					if !taken[k] {
						slot = k
						break
					}
				}
			}
			if slot == -1 {
				return nil
			}
			taken[slot] = true
			assigned[p][i] = slot
		}
		for k := range taken {
			if !taken[k] {
				return nil
			}
		}
	}

	values := make([]float64, am.Model.NumCols())
	for p, id := range r.Core {
		for i := 0; i < r.Innings; i++ {
			values[am.x[p][i][assigned[p][i]]] = 1
		}
		values[am.d[p]] = math.Abs(r.Counts[id][BenchPosition] + added[p] - t.Target[id])
	}
	return values
}
