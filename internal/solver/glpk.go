//go:build glpk

package solver

import (
	"context"
	"fmt"
	"time"

	"github.com/lukpank/go-glpk/glpk"
	"github.com/sirupsen/logrus"
)

// glpkBackend drives the GLPK MIP solver through cgo. Built only with the
// "glpk" tag since it needs libglpk at link time.
type glpkBackend struct {
	timeLimit time.Duration
	log       *logrus.Logger
}

func preferredBackend(timeLimit time.Duration, log *logrus.Logger) Backend {
	return &glpkBackend{timeLimit: timeLimit, log: log}
}

func (g *glpkBackend) Name() string { return "glpk" }

func (g *glpkBackend) Solve(ctx context.Context, m *Model) (*Solution, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	lp := glpk.New()
	defer lp.Delete()
	lp.SetProbName(m.Name)
	lp.SetObjDir(glpk.ObjDir(glpk.MIN))

	lp.AddCols(m.NumCols())
	for j := 0; j < m.NumCols(); j++ {
		col := m.Col(j)
		idx := j + 1
		lp.SetColName(idx, col.Name)
		switch col.Type {
		case Binary:
			lp.SetColKind(idx, glpk.VarType(glpk.BV))
		case Continuous:
			lp.SetColBnds(idx, glpk.BndsType(glpk.LO), 0.0, 0.0)
		}
		lp.SetObjCoef(idx, col.Cost)
	}

	lp.AddRows(m.NumRows())
	for i := 0; i < m.NumRows(); i++ {
		row := m.RowAt(i)
		idx := i + 1
		lp.SetRowName(idx, row.Name)
		switch row.Sense {
		case EQ:
			lp.SetRowBnds(idx, glpk.BndsType(glpk.FX), row.RHS, row.RHS)
		case LE:
			lp.SetRowBnds(idx, glpk.BndsType(glpk.UP), 0.0, row.RHS)
		case GE:
			lp.SetRowBnds(idx, glpk.BndsType(glpk.LO), row.RHS, 0.0)
		}
		indices := make([]int32, len(row.Cols))
		for k, c := range row.Cols {
			indices[k] = int32(c + 1)
		}
		lp.SetMatRow(idx, indices, row.Coefs)
	}

	// The wrapper exposes no time-limit parameter, so the budget cannot cut
	// the solve short; the watchdog at least makes an overrun visible.
	stop := budgetWatch(g.log, g.Name(), g.timeLimit)
	defer stop()

	smcp := glpk.NewSmcp()
	smcp.SetMsgLev(glpk.MsgLev(glpk.MSG_ERR))
	if err := lp.Simplex(smcp); err != nil {
		return nil, fmt.Errorf("glpk simplex failed: %w", err)
	}
	if lp.Status() == glpk.NOFEAS {
		return &Solution{Status: StatusInfeasible}, nil
	}

	iocp := glpk.NewIocp()
	iocp.SetPresolve(true)
	iocp.SetMsgLev(glpk.MsgLev(glpk.MSG_ERR))
	if err := lp.Intopt(iocp); err != nil {
		return nil, fmt.Errorf("glpk integer solve failed: %w", err)
	}

	var status Status
	switch lp.MipStatus() {
	case glpk.OPT:
		status = StatusOptimal
	case glpk.FEAS:
		status = StatusFeasible
	case glpk.NOFEAS, glpk.INFEAS:
		return &Solution{Status: StatusInfeasible}, nil
	default:
		return &Solution{Status: StatusNoIncumbent}, nil
	}

	values := make([]float64, m.NumCols())
	for j := range values {
		values[j] = lp.MipColVal(j + 1)
	}
	return &Solution{Status: status, Values: values, Objective: lp.MipObjVal()}, nil
}
