package solver

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

// branchBound is the guaranteed-available pure-Go backend: LP relaxations via
// gonum's simplex, branching on the most fractional binary column. Nodes are
// dense full solves, so the search leans on a seeded incumbent (Model.SetHint)
// to bound the tree; with a good hint the root relaxation already prunes, and
// without one the hint still guarantees a best-found answer when the budget
// runs out mid-search.
type branchBound struct {
	timeLimit time.Duration
	log       *logrus.Logger
}

func newBranchBound(timeLimit time.Duration, log *logrus.Logger) *branchBound {
	return &branchBound{timeLimit: timeLimit, log: log}
}

func (b *branchBound) Name() string { return "branch-and-bound" }

const (
	intTol = 1e-6
	// pruneTol is the optimality gap below which a node is not worth
	// exploring; objective deltas between distinct lineups are far larger.
	pruneTol = 1e-6
)

// fixing pins one binary column to 0 or 1 along a branch.
type fixing struct {
	col int
	val float64
}

func (b *branchBound) Solve(ctx context.Context, m *Model) (*Solution, error) {
	deadline := time.Now().Add(b.timeLimit)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	rel := newRelaxation(m)

	var (
		incumbent     []float64
		incumbentObj  = math.Inf(1)
		haveIncumbent bool
		timedOut      bool
		nodes         int
	)

	if hint := m.Hint(); hint != nil {
		if obj, ok := evalHint(m, hint); ok {
			incumbent = append([]float64(nil), hint...)
			incumbentObj = obj
			haveIncumbent = true
		} else {
			b.log.Warn("Warm-start hint violates the model, starting cold")
		}
	}

	stack := [][]fixing{nil}
	for len(stack) > 0 {
		if ctx.Err() != nil || time.Now().After(deadline) {
			timedOut = true
			break
		}
		fixings := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		nodes++

		obj, values, err := rel.solve(fixings)
		if err == lp.ErrInfeasible {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("relaxation solve failed: %w", err)
		}
		if haveIncumbent && obj >= incumbentObj-pruneTol {
			continue
		}

		col := rel.mostFractional(values)
		if col < 0 {
			incumbent = rel.roundBinaries(values)
			incumbentObj = obj
			haveIncumbent = true
			continue
		}

		down := append(append([]fixing(nil), fixings...), fixing{col, 0})
		up := append(append([]fixing(nil), fixings...), fixing{col, 1})
		// Dive toward the relaxation's rounding first; the side the LP
		// already leans to usually survives, and in partition rows fixing
		// a column to one collapses the rest of its row.
		if values[col] >= 0.5 {
			stack = append(stack, down, up)
		} else {
			stack = append(stack, up, down)
		}
	}

	b.log.WithFields(logrus.Fields{
		"nodes":     nodes,
		"timed_out": timedOut,
		"incumbent": haveIncumbent,
	}).Debug("Branch-and-bound finished")

	switch {
	case haveIncumbent && !timedOut:
		return &Solution{Status: StatusOptimal, Values: incumbent, Objective: incumbentObj}, nil
	case haveIncumbent:
		return &Solution{Status: StatusFeasible, Values: incumbent, Objective: incumbentObj}, nil
	case timedOut:
		return &Solution{Status: StatusNoIncumbent}, nil
	default:
		return &Solution{Status: StatusInfeasible}, nil
	}
}

// stdRow is one standard-form row: Cols/Coefs from the model plus a unique
// slack column with coefficient SlackCoef.
type stdRow struct {
	cols      []int
	coefs     []float64
	rhs       float64
	slackCol  int
	slackCoef float64
}

// relaxation holds the standard-form layout shared by every node. Every row,
// including equalities (split into a <= and a >= row) and the binary upper
// bounds, carries its own slack or surplus column; rows then have full rank
// regardless of redundancy in the model, which gonum's simplex requires.
// Branch fixings are appended per node as two more slacked rows.
type relaxation struct {
	m        *Model
	binaries []int
	static   []stdRow
	// nStatic is the column count before per-node fixing slack columns.
	nStatic int
	costs   []float64
}

func newRelaxation(m *Model) *relaxation {
	r := &relaxation{m: m}
	for j := 0; j < m.NumCols(); j++ {
		if m.Col(j).Type == Binary {
			r.binaries = append(r.binaries, j)
		}
	}

	next := m.NumCols()
	addRow := func(cols []int, coefs []float64, rhs, slackCoef float64) {
		r.static = append(r.static, stdRow{
			cols: cols, coefs: coefs, rhs: rhs,
			slackCol: next, slackCoef: slackCoef,
		})
		next++
	}

	// A binary in a set-partitioning row (all-ones equality with RHS 1)
	// already cannot exceed one; skipping its bound row keeps the system
	// small, and simplex cost grows fast with row count.
	covered := make([]bool, m.NumCols())
	for i := 0; i < m.NumRows(); i++ {
		row := m.RowAt(i)
		if row.Sense != EQ || row.RHS != 1 {
			continue
		}
		partition := true
		for k, c := range row.Cols {
			if row.Coefs[k] != 1 || m.Col(c).Type != Binary {
				partition = false
				break
			}
		}
		if partition {
			for _, c := range row.Cols {
				covered[c] = true
			}
		}
	}

	for i := 0; i < m.NumRows(); i++ {
		row := m.RowAt(i)
		switch row.Sense {
		case LE:
			addRow(row.Cols, row.Coefs, row.RHS, 1)
		case GE:
			addRow(row.Cols, row.Coefs, row.RHS, -1)
		case EQ:
			addRow(row.Cols, row.Coefs, row.RHS, 1)
			addRow(row.Cols, row.Coefs, row.RHS, -1)
		}
	}
	for _, col := range r.binaries {
		if covered[col] {
			continue
		}
		addRow([]int{col}, []float64{1}, 1, 1) // x <= 1
	}

	r.nStatic = next
	r.costs = make([]float64, r.nStatic)
	copy(r.costs, m.Costs())
	return r
}

// solve builds the standard-form system for one node and runs the simplex.
// Returns the relaxation objective and the values of the model's own columns.
func (r *relaxation) solve(fixings []fixing) (float64, []float64, error) {
	rows := len(r.static) + 2*len(fixings)
	cols := r.nStatic + 2*len(fixings)

	a := mat.NewDense(rows, cols, nil)
	rhs := make([]float64, rows)

	for i, row := range r.static {
		for k, c := range row.cols {
			a.Set(i, c, row.coefs[k])
		}
		a.Set(i, row.slackCol, row.slackCoef)
		rhs[i] = row.rhs
	}

	for k, f := range fixings {
		le := len(r.static) + 2*k
		ge := le + 1
		a.Set(le, f.col, 1)
		a.Set(le, r.nStatic+2*k, 1)
		rhs[le] = f.val
		a.Set(ge, f.col, 1)
		a.Set(ge, r.nStatic+2*k+1, -1)
		rhs[ge] = f.val
	}

	costs := r.costs
	if cols > r.nStatic {
		costs = make([]float64, cols)
		copy(costs, r.costs)
	}

	obj, x, err := lp.Simplex(costs, a, rhs, 1e-10, nil)
	if err != nil {
		return 0, nil, err
	}
	return obj, x[:r.m.NumCols()], nil
}

// evalHint checks a proposed integral assignment against every model row.
// Returns its objective; ok is false when a binary is fractional or out of
// range, a value is negative, or a row is violated.
func evalHint(m *Model, values []float64) (obj float64, ok bool) {
	const tol = 1e-6
	if len(values) != m.NumCols() {
		return 0, false
	}
	for j, v := range values {
		if v < -tol {
			return 0, false
		}
		if m.Col(j).Type == Binary && (v > 1+tol || math.Abs(v-math.Round(v)) > tol) {
			return 0, false
		}
		obj += m.Col(j).Cost * v
	}
	for i := 0; i < m.NumRows(); i++ {
		row := m.RowAt(i)
		sum := 0.0
		for k, c := range row.Cols {
			sum += row.Coefs[k] * values[c]
		}
		switch row.Sense {
		case EQ:
			if math.Abs(sum-row.RHS) > tol {
				return 0, false
			}
		case LE:
			if sum > row.RHS+tol {
				return 0, false
			}
		case GE:
			if sum < row.RHS-tol {
				return 0, false
			}
		}
	}
	return obj, true
}

// mostFractional returns the binary column farthest from an integer value,
// or -1 when every binary is integral within tolerance.
func (r *relaxation) mostFractional(values []float64) int {
	best, bestDist := -1, intTol
	for _, col := range r.binaries {
		f := values[col] - math.Floor(values[col])
		dist := math.Min(f, 1-f)
		if dist > bestDist {
			best, bestDist = col, dist
		}
	}
	return best
}

// roundBinaries snaps binary columns to exact 0/1 and clamps continuous
// columns at zero, absorbing simplex round-off.
func (r *relaxation) roundBinaries(values []float64) []float64 {
	out := make([]float64, r.m.NumCols())
	copy(out, values)
	for j := range out {
		switch r.m.Col(j).Type {
		case Binary:
			out[j] = math.Round(out[j])
		case Continuous:
			if out[j] < 0 {
				out[j] = 0
			}
		}
	}
	return out
}
