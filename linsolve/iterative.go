package linsolve

import (
	"log"
	"math"

	"github.com/fasp-go/fasp/ferr"
	"github.com/fasp-go/fasp/param"
	"github.com/fasp-go/fasp/sparse"
	"github.com/fasp-go/fasp/vecalg"
)

// PreconSolve describes a preconditioner solve storing into dst the
// solution of M*dst=rhs (or Mᵀ*dst=rhs if trans). A nil PreconSolve means
// no preconditioning (M is the identity).
type PreconSolve func(dst []float64, trans bool, rhs []float64) error

// NoPreconditioner implements the identity preconditioner.
func NoPreconditioner(dst []float64, trans bool, rhs []float64) error {
	copy(dst, rhs)
	return nil
}

// Settings holds settings for solving a linear system, per spec.md §4.5
// and §6 (ITSParam carries the stopping-criterion and safe-net knobs).
type Settings struct {
	// InitX holds the initial guess; nil means the zero vector.
	InitX []float64

	// Dst, if not nil, receives the approximate solution; otherwise a new
	// slice is allocated. Either way it is also returned in Result.X.
	Dst []float64

	// Params configures tolerance, iteration cap, stopping criterion, and
	// the safe net's stagnation/restart budgets.
	Params param.ITSParam

	// Precon describes the preconditioner solve. Nil means no
	// preconditioning.
	Precon PreconSolve

	// Work, if provided, is reused across solves to avoid allocation.
	Work *Context

	// Logger receives per-iteration diagnostics at param.VerbSome and
	// above; nil discards them regardless of Verbosity.
	Logger *log.Logger
}

// Result holds the result of an iterative solve.
type Result struct {
	X            []float64
	ResidualNorm float64
	Stats        Stats
}

// Stats holds statistics about an iterative solve.
type Stats struct {
	Iterations    int
	MulVec        int
	PreconSolve   int
	Stagnations   int
	FalseRestarts int
}

func defaultSettings(s *Settings, dim int) {
	if s.Dst == nil {
		s.Dst = make([]float64, dim)
	} else if len(s.Dst) == 0 {
		s.Dst = make([]float64, dim)
	}
	s.Params = s.Params.WithDefaults(dim)
	if s.Precon == nil {
		s.Precon = NoPreconditioner
	}
	if s.Work == nil {
		s.Work = NewContext(dim)
	} else {
		s.Work.Reset(dim)
	}
}

func checkSettings(s *Settings, dim int) {
	if s.InitX != nil && len(s.InitX) != dim {
		panic("linsolve: mismatched length of initial guess")
	}
	if len(s.Dst) != dim {
		panic("linsolve: mismatched destination length")
	}
	if s.Params.Tolerance <= 0 || 1 <= s.Params.Tolerance {
		panic("linsolve: invalid tolerance")
	}
}

// Iterative finds an approximate solution of A*x=b, where A is a
// nonsingular n×n operator and b is the right-hand side, using the
// iterative method m (GMRES is used if m is nil). settings adjusts
// tolerances, the preconditioner, and the safe net; nil settings uses
// defaults.
//
// Iterative wraps whatever Method m performs with the safe-net state
// machine spec.md §4.5 requires: it tracks the best iterate seen, detects
// NaN/Inf collapse, detects stagnation (successive iterates barely
// differing) and false convergence (the recurrence-based residual norm
// disagreeing with the freshly recomputed true residual), recovering from
// each up to a fixed budget before finally restoring the best iterate and
// returning a typed *ferr.SolverError.
func Iterative(a sparse.Operator, b []float64, m Method, settings *Settings) (*Result, error) {
	n := len(b)

	var s Settings
	if settings != nil {
		s = *settings
	}
	defaultSettings(&s, n)
	checkSettings(&s, n)

	var stats Stats
	ctx := s.Work
	rInit := make([]float64, n)
	if s.InitX != nil {
		copy(ctx.X, s.InitX)
		computeResidual(rInit, a, b, ctx.X, &stats)
	} else {
		for i := range ctx.X {
			ctx.X[i] = 0
		}
		copy(rInit, b)
	}

	if m == nil {
		m = &GMRES{}
	}

	ctx.ResidualNorm = vecalg.Norm2(rInit)
	denom := stopDenom(s.Params.StopType, a, b, s.Precon, &stats)

	var err error
	if ctx.ResidualNorm >= s.Params.Tolerance*denom {
		err = iterate(a, b, rInit, s, m, &stats, denom)
	} else {
		copy(s.Dst, ctx.X)
	}

	return &Result{X: s.Dst, ResidualNorm: ctx.ResidualNorm, Stats: stats}, err
}

// stopDenom computes the fixed denominator for the selected stopping
// criterion. REL_RES and REL_PRECRES use a scale derived once from b;
// MOD_REL_RES instead divides by the current iterate's norm at check
// time and this function returns 1 as a placeholder scale.
func stopDenom(st param.StopType, a sparse.Operator, b []float64, precon PreconSolve, stats *Stats) float64 {
	switch st {
	case param.StopRelPrecRes:
		mb := make([]float64, len(b))
		stats.PreconSolve++
		if err := precon(mb, false, b); err != nil {
			return math.Max(vecalg.Norm2(b), param.SmallReal)
		}
		v := math.Sqrt(math.Abs(vecalg.Dot(b, mb)))
		if v == 0 {
			return 1
		}
		return v
	case param.StopModRelRes:
		return 1
	default: // StopRelRes
		bn := vecalg.Norm2(b)
		if bn == 0 {
			return 1
		}
		return bn
	}
}

func iterate(a sparse.Operator, b, initRes []float64, settings Settings, method Method, stats *Stats, denom float64) error {
	ctx := settings.Work
	copy(settings.Dst, ctx.X)

	xBest := append([]float64(nil), ctx.X...)
	absresBest := ctx.ResidualNorm
	prevX := append([]float64(nil), ctx.X...)

	sp := settings.Params
	maxdiff := sp.Tolerance * param.StagRatio
	stagCount := 0
	restartCount := 0

	method.Init(ctx.X, initRes)
	for {
		op, err := method.Iterate(ctx)
		if err != nil {
			copy(settings.Dst, xBest)
			return err
		}
		switch op {
		case NoOperation:
		case MulVec, MulVec | Trans:
			stats.MulVec++
			mulVec(a, ctx.Dst, op&Trans == Trans, ctx.Src)
		case PreconSolve, PreconSolve | Trans:
			stats.PreconSolve++
			if err := settings.Precon(ctx.Dst, op&Trans == Trans, ctx.Src); err != nil {
				copy(settings.Dst, xBest)
				return err
			}
		case CheckResidualNorm:
			ctx.Converged = checkConverged(sp.StopType, ctx.ResidualNorm, ctx.X, denom, sp.Tolerance)
		case ComputeResidual:
			computeResidual(ctx.Dst, a, b, ctx.X, stats)
		case MajorIteration:
			stats.Iterations++

			if vecalg.HasNaN(ctx.X) {
				copy(settings.Dst, xBest)
				return ferr.New(ferr.MISC, methodName(method), stats.Iterations, absresBest)
			}
			if vecalg.NormInf(ctx.X) < param.SmallReal {
				copy(settings.Dst, xBest)
				return ferr.New(ferr.SOLSTAG, methodName(method), stats.Iterations, absresBest)
			}

			if ctx.ResidualNorm < absresBest-maxdiff {
				absresBest = ctx.ResidualNorm
				copy(xBest, ctx.X)
			}

			if ctx.Converged {
				// Guard against false convergence: recompute the true
				// residual and re-check before accepting.
				trueRes := make([]float64, len(ctx.X))
				computeResidual(trueRes, a, b, ctx.X, stats)
				trueNorm := vecalg.Norm2(trueRes)
				if checkConverged(sp.StopType, trueNorm, ctx.X, denom, sp.Tolerance) {
					copy(settings.Dst, ctx.X)
					return nil
				}
				restartCount++
				if restartCount > sp.MaxRestart {
					copy(settings.Dst, xBest)
					return ferr.New(ferr.TOLSMALL, methodName(method), stats.Iterations, trueNorm)
				}
				method.Init(ctx.X, trueRes)
				ctx.ResidualNorm = trueNorm
				copy(prevX, ctx.X)
				continue
			}

			deltaNorm := diffNorm2(ctx.X, prevX)
			xNorm := vecalg.Norm2(ctx.X)
			if xNorm > 0 && deltaNorm/xNorm < sp.Tolerance*param.StagRatio {
				stagCount++
				stats.Stagnations++
				if stagCount > sp.MaxStag {
					copy(settings.Dst, xBest)
					return ferr.New(ferr.STAG, methodName(method), stats.Iterations, absresBest)
				}
				trueRes := make([]float64, len(ctx.X))
				computeResidual(trueRes, a, b, ctx.X, stats)
				trueNorm := vecalg.Norm2(trueRes)
				if checkConverged(sp.StopType, trueNorm, ctx.X, denom, sp.Tolerance) {
					copy(settings.Dst, ctx.X)
					return nil
				}
				method.Init(ctx.X, trueRes)
				ctx.ResidualNorm = trueNorm
			} else {
				stagCount = 0
			}
			copy(prevX, ctx.X)

			logIteration(settings.Logger, sp.Verbosity, stats.Iterations, ctx.ResidualNorm)

			if stats.Iterations >= sp.MaxIterations {
				copy(settings.Dst, xBest)
				return ferr.New(ferr.MAXIT, methodName(method), stats.Iterations, absresBest)
			}
		default:
			panic("linsolve: invalid operation")
		}
	}
}

func checkConverged(st param.StopType, residualNorm float64, x []float64, denom, tol float64) bool {
	if st == param.StopModRelRes {
		xn := math.Max(vecalg.Norm2(x), param.SmallReal)
		return residualNorm < tol*xn
	}
	return residualNorm < tol*denom
}

func diffNorm2(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}

func mulVec(a sparse.Operator, dst []float64, trans bool, x []float64) {
	for i := range dst {
		dst[i] = 0
	}
	if trans {
		t, ok := a.(sparse.Transposer)
		if !ok {
			panic("linsolve: method requires MulVec|Trans but Operator does not implement sparse.Transposer")
		}
		t.SpMVTrans(1, x, dst)
		return
	}
	a.SpMV(1, x, dst)
}

func computeResidual(dst []float64, a sparse.Operator, b, x []float64, stats *Stats) {
	stats.MulVec++
	copy(dst, b)
	a.SpMV(-1, x, dst)
}

func logIteration(logger *log.Logger, v param.Verbosity, iter int, resNorm float64) {
	if logger == nil || v < param.VerbSome {
		return
	}
	logger.Printf("iter=%d absres=%g", iter, resNorm)
}

func methodName(m Method) string {
	switch m.(type) {
	case *CG:
		return "CG"
	case *BiCG:
		return "BiCG"
	case *BiCGStab:
		return "BiCGStab"
	case *VBiCGStab:
		return "VBiCGStab"
	case *GMRES:
		return "GMRES"
	case *VGMRES:
		return "VGMRES"
	case *GCG:
		return "GCG"
	default:
		return "linsolve"
	}
}
