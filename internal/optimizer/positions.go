package optimizer

// The position set is closed: nine fielding positions plus the bench
// pseudo-position. Slot order is also variable construction order, which
// keeps solver column naming deterministic across runs.
var Positions = []string{"CF", "LF", "RF", "SS", "1B", "2B", "3B", "P", "C", BenchPosition}

// MainPositions are the on-field slots, each filled by exactly one player
// per inning.
var MainPositions = []string{"CF", "LF", "RF", "SS", "1B", "2B", "3B", "P", "C"}

// BenchPosition marks a player as not playing for an inning.
const BenchPosition = "OUT"

// NumMainPositions is the number of on-field slots per inning.
var NumMainPositions = len(MainPositions)

// UnresolvedPosition is emitted when no variable for a (player, inning) pair
// clears the extraction threshold. Should not happen for a feasible solve;
// kept in the response to aid debugging rather than failing the request.
const UnresolvedPosition = "ERR"

var positionSet = func() map[string]struct{} {
	s := make(map[string]struct{}, len(Positions))
	for _, pos := range Positions {
		s[pos] = struct{}{}
	}
	return s
}()

// ValidPosition reports whether name is in the closed position set.
func ValidPosition(name string) bool {
	_, ok := positionSet[name]
	return ok
}
