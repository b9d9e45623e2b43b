package solver

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Status classifies how a solve terminated.
type Status int

const (
	// StatusOptimal means the backend proved the returned values optimal.
	StatusOptimal Status = iota
	// StatusFeasible means the time budget expired while a feasible
	// incumbent was in hand; the values are usable but not proven optimal.
	StatusFeasible
	// StatusInfeasible means the constraints admit no solution.
	StatusInfeasible
	// StatusNoIncumbent means the budget expired before any feasible
	// solution was found. Not a proof of infeasibility.
	StatusNoIncumbent
)

func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "optimal"
	case StatusFeasible:
		return "feasible"
	case StatusInfeasible:
		return "infeasible"
	case StatusNoIncumbent:
		return "no_incumbent"
	}
	return "unknown"
}

// Solution carries the termination status and, when a solution exists, one
// value per model column. Values is nil for StatusInfeasible and
// StatusNoIncumbent.
type Solution struct {
	Status    Status
	Values    []float64
	Objective float64
}

// Backend solves a Model within the configured wall-clock budget. Backends
// are immutable after construction and safe to share across requests; every
// request passes its own Model.
type Backend interface {
	Name() string
	Solve(ctx context.Context, m *Model) (*Solution, error)
}

// Config is the per-deployment solver configuration, fixed at startup.
type Config struct {
	TimeLimit time.Duration
	// Backend forces a backend by name; "auto" or "" probes for the
	// fastest one compiled in.
	Backend string
}

// budgetWatch logs a warning once when limit passes before stop is called.
// Backends that cannot interrupt their solver mid-run use it to make a blown
// budget visible. stop is idempotent.
func budgetWatch(log *logrus.Logger, backend string, limit time.Duration) (stop func()) {
	done := make(chan struct{})
	go func() {
		select {
		case <-time.After(limit):
			log.WithFields(logrus.Fields{
				"backend": backend,
				"budget":  limit,
			}).Warn("Solve still running past the time budget")
		case <-done:
		}
	}()
	var once sync.Once
	return func() { once.Do(func() { close(done) }) }
}

// New negotiates a backend: GLPK when the binary was built with it,
// otherwise the pure-Go branch-and-bound fallback.
func New(cfg Config, log *logrus.Logger) Backend {
	if cfg.TimeLimit <= 0 {
		cfg.TimeLimit = 55 * time.Second
	}
	switch cfg.Backend {
	case "bnb":
		return newBranchBound(cfg.TimeLimit, log)
	case "glpk", "auto", "":
		if b := preferredBackend(cfg.TimeLimit, log); b != nil {
			log.WithField("backend", b.Name()).Info("Selected solver backend")
			return b
		}
		if cfg.Backend == "glpk" {
			log.Warn("GLPK backend not compiled in, falling back to branch-and-bound")
		}
	default:
		log.WithField("backend", cfg.Backend).Warn("Unknown solver backend, falling back to branch-and-bound")
	}
	b := newBranchBound(cfg.TimeLimit, log)
	log.WithField("backend", b.Name()).Info("Selected solver backend")
	return b
}
