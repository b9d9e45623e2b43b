package optimizer

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/lineup-optimizer/internal/solver"
	"github.com/stitts-dev/lineup-optimizer/internal/types"
	"github.com/stitts-dev/lineup-optimizer/pkg/logger"
)

// Optimizer runs the full request cycle: normalize, compute fairness
// targets, build the model, solve, extract. It holds only read-only
// configuration and is safe for concurrent use; every request builds its own
// model.
type Optimizer struct {
	backend         solver.Backend
	weights         Weights
	maxSolverRoster int
	timeLimit       time.Duration
	logger          *logrus.Logger
}

// Result is a solved lineup with solve metadata. ProvenOptimal is false when
// the time budget expired on a feasible incumbent.
type Result struct {
	Lineups       []types.PlayerLineup
	ProvenOptimal bool
	Elapsed       time.Duration
}

func New(backend solver.Backend, weights Weights, maxSolverRoster int, timeLimit time.Duration, logger *logrus.Logger) *Optimizer {
	return &Optimizer{
		backend:         backend,
		weights:         weights,
		maxSolverRoster: maxSolverRoster,
		timeLimit:       timeLimit,
		logger:          logger,
	}
}

// Optimize produces the assignment table for one request. Validation
// failures return *ValidationError; an unsolvable model returns
// *InfeasibleError; a budget exhausted with no incumbent returns
// *TimeoutError. There is no retry here.
func (o *Optimizer) Optimize(ctx context.Context, req *types.RosterRequest) (*Result, error) {
	roster, err := Normalize(req, o.maxSolverRoster, o.logger)
	if err != nil {
		return nil, err
	}

	targets := ComputeBenchTargets(roster)
	am := BuildModel(roster, targets, o.weights)
	if hint := buildWarmStart(roster, targets, am); hint != nil {
		am.Model.SetHint(hint)
	}

	log := logger.WithSolveContext(o.logger, o.backend.Name(), len(roster.Core), roster.Innings)
	log.WithFields(logrus.Fields{
		"extra":       len(roster.Extra),
		"variables":   am.Model.NumCols(),
		"constraints": am.Model.NumRows(),
	}).Info("Solving lineup assignment model")

	start := time.Now()
	sol, err := o.backend.Solve(ctx, am.Model)
	elapsed := time.Since(start)
	if err != nil {
		return nil, fmt.Errorf("solver backend failed: %w", err)
	}

	switch sol.Status {
	case solver.StatusInfeasible:
		return nil, &InfeasibleError{}
	case solver.StatusNoIncumbent:
		return nil, &TimeoutError{Budget: o.timeLimit}
	case solver.StatusFeasible:
		log.WithField("elapsed", elapsed).
			Warn("Time budget reached, returning best lineup found (not proven optimal)")
	}

	return &Result{
		Lineups:       Extract(roster, am, sol, o.logger),
		ProvenOptimal: sol.Status == solver.StatusOptimal,
		Elapsed:       elapsed,
	}, nil
}
