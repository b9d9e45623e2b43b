package types

import "time"

// RosterRequest is the payload for a lineup optimization request.
// Innings inside FixedAssignments are keyed as decimal strings, matching the
// wire format produced by the scheduling frontend.
type RosterRequest struct {
	Players          []string                       `json:"players"`
	GameInnings      *int                           `json:"game_innings,omitempty"`
	FixedAssignments map[string]map[string]string   `json:"fixed_assignments,omitempty"`
	ActualCounts     map[string]map[string]float64  `json:"actual_counts,omitempty"`
	PlayerPrefs      map[string]PlayerPreference    `json:"player_preferences,omitempty"`
}

// PlayerPreference lists positions a player wants to play and positions the
// player must be steered away from. The two lists are disjoint in intent but
// not enforced; restricted wins on overlap.
type PlayerPreference struct {
	Preferred  []string `json:"preferred"`
	Restricted []string `json:"restricted"`
}

// PlayerLineup is one row of the response: a player and their position per
// inning. IsOut marks players that were benched for the whole game without
// entering the solver.
type PlayerLineup struct {
	PlayerID string            `json:"player_id"`
	IsOut    bool              `json:"isOut"`
	Innings  map[string]string `json:"innings"`
}

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Error         string            `json:"error"`
	Code          string            `json:"code,omitempty"`
	Details       map[string]string `json:"details,omitempty"`
	InputReceived interface{}       `json:"input_received,omitempty"`
}

// HealthStatus represents the health status of the service
type HealthStatus struct {
	Status    string            `json:"status"`
	Service   string            `json:"service"`
	Timestamp time.Time         `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}
