package optimizer

// BenchTargets holds the fairness targets for one request.
type BenchTargets struct {
	// BenchPerInning is how many core players sit each inning.
	BenchPerInning int
	// Ratio estimates the long-run fraction of all player-innings that is
	// bench time, league-wide.
	Ratio float64
	// TotalCurrent is each core player's historical inning total.
	TotalCurrent map[string]float64
	// Target is each core player's ideal bench-inning count after this
	// game, proportional to their total playing time.
	Target map[string]float64
}

// ComputeBenchTargets derives the fairness targets from historical counts.
// The target scales with each player's total innings (past plus this game),
// so players with more history carry a proportionally larger bench target,
// not a flat share.
func ComputeBenchTargets(r *Roster) *BenchTargets {
	t := &BenchTargets{
		TotalCurrent: make(map[string]float64, len(r.Core)),
		Target:       make(map[string]float64, len(r.Core)),
	}

	totalActualBench := 0.0
	sumT := 0.0
	for _, id := range r.Core {
		var total float64
		for _, n := range r.Counts[id] {
			total += n
		}
		t.TotalCurrent[id] = total
		totalActualBench += r.Counts[id][BenchPosition]
		sumT += total
	}
	sumT += float64(r.Innings * len(r.Core))

	t.BenchPerInning = len(r.Core) - NumMainPositions
	if t.BenchPerInning < 0 {
		t.BenchPerInning = 0
	}
	totalNewBench := float64(r.Innings * t.BenchPerInning)

	if sumT > 0 {
		t.Ratio = (totalActualBench + totalNewBench) / sumT
	}

	for _, id := range r.Core {
		t.Target[id] = t.Ratio * (t.TotalCurrent[id] + float64(r.Innings))
	}
	return t
}
