package optimizer

import (
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/lineup-optimizer/internal/types"
)

// DefaultGameInnings is used when the request omits game_innings.
const DefaultGameInnings = 6

// Roster is the canonical, fully-typed form of a request. Core players enter
// the solver; Extra players (roster overflow beyond a configured cap) are
// benched for the whole game without a variable.
type Roster struct {
	Core    []string
	Extra   []string
	Innings int
	// Counts is complete for every core player and every position;
	// missing inputs are zero-filled.
	Counts map[string]map[string]float64
	Fixed  []FixedAssignment
	Prefs  map[string]Preference
}

// FixedAssignment forces one player into one position for one inning.
type FixedAssignment struct {
	Player   string
	Inning   int
	Position string
}

// Preference holds a player's position sets. Restricted wins when a position
// appears in both.
type Preference struct {
	Preferred  map[string]struct{}
	Restricted map[string]struct{}
}

// Normalize validates the raw request and produces the canonical roster.
// Top-level problems are fatal; malformed sub-fields with a sensible default
// are warned and defaulted. The request is never mutated.
func Normalize(req *types.RosterRequest, maxSolverRoster int, log *logrus.Logger) (*Roster, error) {
	if len(req.Players) == 0 {
		return nil, validationErrorf("'players' field must be a non-empty list")
	}
	seen := make(map[string]struct{}, len(req.Players))
	for _, id := range req.Players {
		if id == "" {
			return nil, validationErrorf("'players' must not contain empty identifiers")
		}
		if _, dup := seen[id]; dup {
			return nil, validationErrorf("duplicate player identifier %q", id)
		}
		seen[id] = struct{}{}
	}

	innings := DefaultGameInnings
	if req.GameInnings != nil {
		if *req.GameInnings < 1 {
			return nil, validationErrorf("'game_innings' must be a positive integer, got %d", *req.GameInnings)
		}
		innings = *req.GameInnings
	}

	r := &Roster{
		Core:    req.Players,
		Innings: innings,
		Counts:  make(map[string]map[string]float64),
		Prefs:   make(map[string]Preference),
	}
	if maxSolverRoster > 0 && len(req.Players) > maxSolverRoster {
		r.Core = req.Players[:maxSolverRoster]
		r.Extra = req.Players[maxSolverRoster:]
		log.WithFields(logrus.Fields{
			"roster": len(req.Players),
			"core":   len(r.Core),
			"extra":  len(r.Extra),
		}).Info("Roster exceeds solver cap, benching overflow players")
	}

	core := make(map[string]struct{}, len(r.Core))
	for _, id := range r.Core {
		core[id] = struct{}{}
	}

	for _, id := range r.Core {
		counts := make(map[string]float64, len(Positions))
		for _, pos := range Positions {
			counts[pos] = 0
		}
		for pos, n := range req.ActualCounts[id] {
			if !ValidPosition(pos) {
				log.WithFields(logrus.Fields{"player": id, "position": pos}).
					Warn("Ignoring actual_counts entry for unknown position")
				continue
			}
			if n < 0 {
				return nil, validationErrorf("negative actual count for player %q position %q", id, pos)
			}
			counts[pos] = n
		}
		r.Counts[id] = counts
	}

	for id, raw := range req.PlayerPrefs {
		if _, ok := core[id]; !ok {
			continue
		}
		r.Prefs[id] = Preference{
			Preferred:  normalizePositionSet(id, "preferred", raw.Preferred, log),
			Restricted: normalizePositionSet(id, "restricted", raw.Restricted, log),
		}
	}

	for id, byInning := range req.FixedAssignments {
		if _, ok := core[id]; !ok {
			log.WithField("player", id).Warn("Ignoring fixed assignment for player outside solved roster")
			continue
		}
		for inningStr, pos := range byInning {
			inning, err := strconv.Atoi(inningStr)
			if err != nil || inning < 1 || inning > innings {
				log.WithFields(logrus.Fields{"player": id, "inning": inningStr}).
					Warn("Ignoring fixed assignment with invalid inning")
				continue
			}
			if !ValidPosition(pos) {
				log.WithFields(logrus.Fields{"player": id, "inning": inning, "position": pos}).
					Warn("Ignoring fixed assignment with unknown position")
				continue
			}
			r.Fixed = append(r.Fixed, FixedAssignment{Player: id, Inning: inning, Position: pos})
		}
	}

	return r, nil
}

func normalizePositionSet(player, field string, names []string, log *logrus.Logger) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, pos := range names {
		if !ValidPosition(pos) {
			log.WithFields(logrus.Fields{"player": player, "field": field, "position": pos}).
				Warn("Ignoring unknown position in player preferences")
			continue
		}
		set[pos] = struct{}{}
	}
	return set
}
