package amg

import (
	"errors"
	"fmt"

	"github.com/fasp-go/fasp/ferr"
	"github.com/fasp-go/fasp/linsolve"
	"github.com/fasp-go/fasp/param"
	"github.com/fasp-go/fasp/smoother"
	"github.com/fasp-go/fasp/vecalg"
)

// smoothLevel dispatches to the configured smoother, running sweeps
// relaxations of lvl.A*lvl.X=lvl.B in place. forward distinguishes the
// pre- from the post-smoothing half of a symmetric Gauss-Seidel/SOR
// sweep (so the cycle's overall smoothing stays symmetric, which
// matters when the hierarchy backs a PCG preconditioner).
func smoothLevel(lvl *Level, p param.AMGParam, sweeps int, forward bool) error {
	a := lvl.A
	switch p.Smoother {
	case param.SmootherJacobi:
		return smoother.JacobiCSR(a, lvl.B, lvl.X, sweeps)
	case param.SmootherGSForward:
		return smoother.GaussSeidelCSR(a, lvl.B, lvl.X, sweeps, smoother.Ascending, nil, nil, true)
	case param.SmootherGSBackward:
		return smoother.GaussSeidelCSR(a, lvl.B, lvl.X, sweeps, smoother.Descending, nil, nil, true)
	case param.SmootherSOR:
		order := smoother.Ascending
		if !forward {
			order = smoother.Descending
		}
		return smoother.SORCSR(a, lvl.B, lvl.X, sweeps, p.SORWeight, order, nil, nil, true)
	case param.SmootherPoly:
		smoother.PolySmoothCSR(a, lvl.smoother.poly, lvl.B, lvl.X, p.PolyDegree, sweeps)
		return nil
	case param.SmootherILU:
		r := make([]float64, len(lvl.X))
		z := make([]float64, len(lvl.X))
		for s := 0; s < sweeps; s++ {
			copy(r, lvl.B)
			a.SpMV(-1, lvl.X, r)
			smoother.ILUApply(lvl.smoother.ilu, r, z)
			vecalg.Axpy(1, z, lvl.X)
		}
		return nil
	case param.SmootherSchwarz:
		return smoother.SchwarzApply(a, lvl.smoother.schwarz, lvl.smoother.coloring, lvl.B, lvl.X, sweeps)
	default: // SmootherGSSymmetric
		order := smoother.Ascending
		if !forward {
			order = smoother.Descending
		}
		return smoother.GaussSeidelCSR(a, lvl.B, lvl.X, sweeps, order, nil, nil, true)
	}
}

// cycle is the recursive multi-level cycle of spec.md §4.7: presmooth,
// restrict the residual, recurse (cycle_count times for V/W, or via the
// nonlinear-AMLI inner solve when p.Cycle selects it), interpolate the
// coarse correction, postsmooth. The coarsest level solves directly via
// h.Coarsest. The level+1 solution vector X is left zeroed on return, per
// spec.md §4.7's "cycle must leave them in a reset state" requirement.
func cycle(h *Hierarchy, level int) error {
	p := h.Param
	lvl := h.Levels[level]

	if level == len(h.Levels)-1 {
		return h.Coarsest.Solve(lvl.B, lvl.X)
	}

	if err := smoothLevel(lvl, p, p.PreSweeps, true); err != nil {
		return fmt.Errorf("amg: presmooth level %d: %w", level, err)
	}

	copy(lvl.W, lvl.B)
	lvl.A.SpMV(-1, lvl.X, lvl.W)

	next := h.Levels[level+1]
	vecalg.Zero(next.B)
	lvl.R.SpMV(1, lvl.W, next.B)
	vecalg.Zero(next.X)

	if p.Cycle == param.CycleNLAMLI {
		if err := nonlinearAMLI(h, level+1); err != nil {
			return err
		}
	} else {
		reps := p.CycleCount
		for i := 0; i < reps; i++ {
			if err := cycle(h, level+1); err != nil {
				return err
			}
		}
	}

	lvl.P.SpMV(1, next.X, lvl.X)

	if err := smoothLevel(lvl, p, p.PostSweeps, false); err != nil {
		return fmt.Errorf("amg: postsmooth level %d: %w", level, err)
	}

	vecalg.Zero(next.X)
	return nil
}

// nonlinearAMLI replaces the plain recursive coarse-level solve at level
// with p.AMLIDegree iterations of a flexible Krylov method (GCG, the
// module's closest analogue to GCR — see original_source/base/src/pgcg.c)
// preconditioned by one call to the coarser cycle itself, per spec.md
// §4.7. Because the preconditioner is the cycle recursing further (and
// may itself be nonlinear AMLI at a deeper level), GCG's full
// re-orthogonalization against every previous direction — rather than
// CG's three-term recurrence, which assumes a fixed linear
// preconditioner — is required.
func nonlinearAMLI(h *Hierarchy, level int) error {
	lvl := h.Levels[level]
	p := h.Param

	rhs := append([]float64(nil), lvl.B...)
	precon := func(dst []float64, trans bool, r []float64) error {
		copy(lvl.B, r)
		vecalg.Zero(lvl.X)
		if err := cycle(h, level); err != nil {
			return err
		}
		copy(dst, lvl.X)
		return nil
	}

	settings := &linsolve.Settings{
		Dst: make([]float64, len(rhs)),
		Params: param.ITSParam{
			Tolerance:     1e-10,
			MaxIterations: p.AMLIDegree,
			StopType:      param.StopRelRes,
		},
		Precon: precon,
	}

	res, err := linsolve.Iterative(lvl.A, rhs, &linsolve.GCG{}, settings)
	if err != nil {
		// AMLI intentionally runs a fixed k iterations rather than to
		// convergence, so a MAXIT outcome after exactly AMLIDegree
		// iterations is the expected case, not a failure; anything else
		// (DIVZERO, a NaN collapse) is a genuine setup-phase-adjacent
		// pathology and propagates.
		var se *ferr.SolverError
		if !errors.As(err, &se) || se.Code != ferr.MAXIT {
			return fmt.Errorf("amg: nonlinear-AMLI inner solve at level %d: %w", level, err)
		}
	}
	copy(lvl.X, res.X)
	return nil
}

// RunCycle applies one full multigrid iteration starting from level 0's
// current lvl.X/lvl.B, per h.Param.Cycle: a V-cycle (CycleCount=1), a
// W-cycle (CycleCount=2), full multigrid, or nonlinear AMLI.
func (h *Hierarchy) RunCycle() error {
	if h.Param.Cycle == param.CycleFMG {
		return fmgCycle(h)
	}
	return cycle(h, 0)
}

// fmgCycle implements full multigrid (spec.md §4.7): restrict the
// right-hand side all the way to the coarsest level, solve there
// exactly, then walk back up interpolating each level's solution as the
// next finer level's initial guess and applying one ordinary cycle
// there.
func fmgCycle(h *Hierarchy) error {
	levels := h.Levels
	k := len(levels)

	for l := 0; l < k-1; l++ {
		vecalg.Zero(levels[l+1].B)
		levels[l].R.SpMV(1, levels[l].B, levels[l+1].B)
	}

	if err := h.Coarsest.Solve(levels[k-1].B, levels[k-1].X); err != nil {
		return fmt.Errorf("amg: coarsest solve: %w", err)
	}

	for l := k - 2; l >= 0; l-- {
		vecalg.Zero(levels[l].X)
		levels[l].P.SpMV(1, levels[l+1].X, levels[l].X)
		if err := cycleOrdinaryVCycle(h, l); err != nil {
			return err
		}
	}
	return nil
}

// cycleOrdinaryVCycle runs exactly one V-cycle at level l regardless of
// h.Param.Cycle, which is what FMG's per-level correction step requires
// even when the hierarchy is otherwise configured for W-cycles or
// nonlinear AMLI.
func cycleOrdinaryVCycle(h *Hierarchy, level int) error {
	v := *h // shares the levels; only the copy's Param is changed
	v.Param.Cycle = param.CycleV
	v.Param.CycleCount = 1
	return cycle(&v, level)
}

// Solve runs the AMG cycle directly as a solver (bypassing the Krylov
// engine C5 entirely), per spec.md §2: "Direct AMG use bypasses C5 and
// invokes C7 until a residual tolerance is met." b is copied into the
// finest level's scratch; x receives the converged iterate on success and
// otherwise the iterate with the smallest residual seen, mirroring the
// Krylov engine's safe-net contract from spec.md §4.5 even though
// AMG-as-solver has no Krylov recurrence to stagnate.
func (h *Hierarchy) Solve(b, x []float64, tol float64, maxCycles int) (iters int, err error) {
	fine := h.Levels[0]
	n := len(b)
	if len(x) != n || len(fine.B) != n {
		return 0, errors.New("amg: Solve: dimension mismatch")
	}

	copy(fine.X, x)
	bNorm := vecalg.Norm2(b)
	if bNorm == 0 {
		bNorm = 1
	}

	res := make([]float64, n)
	copy(res, b)
	fine.A.SpMV(-1, fine.X, res)
	bestRes := vecalg.Norm2(res)
	if bestRes/bNorm < tol {
		copy(x, fine.X)
		return 0, nil
	}
	best := append([]float64(nil), fine.X...)

	for iters = 0; iters < maxCycles; iters++ {
		copy(fine.B, b)
		if err := h.RunCycle(); err != nil {
			copy(x, best)
			return iters, err
		}
		copy(res, b)
		fine.A.SpMV(-1, fine.X, res)
		if vecalg.HasNaN(fine.X) {
			copy(x, best)
			return iters, ferr.New(ferr.MISC, "AMG", iters, 0)
		}
		rn := vecalg.Norm2(res)
		if rn/bNorm < tol {
			copy(x, fine.X)
			return iters + 1, nil
		}
		if rn < bestRes {
			bestRes = rn
			copy(best, fine.X)
		}
	}
	copy(x, best)
	return maxCycles, ferr.New(ferr.MAXIT, "AMG", maxCycles, bestRes)
}
