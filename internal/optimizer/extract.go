package optimizer

import (
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/lineup-optimizer/internal/solver"
	"github.com/stitts-dev/lineup-optimizer/internal/types"
)

// Extract reads solved variable values back into the response table. The
// 0.5 threshold tolerates solver floating-point slop; an inning with no
// position over the threshold is emitted as UnresolvedPosition and logged
// rather than failing the response. Extra players never had variables and
// are benched outright.
func Extract(r *Roster, am *AssignmentModel, sol *solver.Solution, log *logrus.Logger) []types.PlayerLineup {
	out := make([]types.PlayerLineup, 0, len(r.Core)+len(r.Extra))

	for p, id := range r.Core {
		lineup := types.PlayerLineup{
			PlayerID: id,
			Innings:  make(map[string]string, r.Innings),
		}
		for i := 0; i < r.Innings; i++ {
			assigned := UnresolvedPosition
			for k, pos := range Positions {
				if sol.Values[am.x[p][i][k]] > 0.5 {
					assigned = pos
					break
				}
			}
			if assigned == UnresolvedPosition {
				log.WithFields(logrus.Fields{"player": id, "inning": i + 1}).
					Error("No position variable above threshold for solved model")
			}
			lineup.Innings[strconv.Itoa(i+1)] = assigned
		}
		out = append(out, lineup)
	}

	for _, id := range r.Extra {
		lineup := types.PlayerLineup{
			PlayerID: id,
			IsOut:    true,
			Innings:  make(map[string]string, r.Innings),
		}
		for i := 0; i < r.Innings; i++ {
			lineup.Innings[strconv.Itoa(i+1)] = BenchPosition
		}
		out = append(out, lineup)
	}

	return out
}
