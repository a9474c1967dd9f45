// Package linsolve implements the Krylov solver engine (C5): CG, BiCG,
// BiCGStab, VBiCGStab, GMRES (restarted),
// VGMRES, and GCG. Every method uses the reverse-communication interface
// below — a Method commands an Operation, the caller performs it using
// Context and calls Iterate again — so the algorithms are independent of
// how the system matrix and preconditioner are represented, and common
// bookkeeping (stopping criteria, statistics, the safe net) lives once in
// Iterative instead of being duplicated per method.
package linsolve

import "github.com/fasp-go/fasp/ferr"

// Method is an iterative method that produces a sequence of vectors
// converging to the solution of A*x = b, where A is a nonsingular n×n
// operator and x, b are vectors of length n.
type Method interface {
	// Init initializes the method for solving an n×n linear system with
	// an initial estimate x and the corresponding residual vector.
	// Init does not retain x or residual.
	Init(x, residual []float64)

	// Iterate performs a step toward the solution. It retrieves data from
	// ctx, updates it, and returns the next operation. The caller must
	// perform the operation using data in ctx and then call Iterate again.
	Iterate(ctx *Context) (Operation, error)
}

// Context mediates communication between a Method and the driver loop.
// Only Dst is written by the caller; the rest is owned by Method.
type Context struct {
	// X holds the current approximate solution when Method commands
	// ComputeResidual or MajorIteration.
	X []float64

	// ResidualNorm is set by Method to the current residual-norm estimate
	// when it commands CheckResidualNorm.
	ResidualNorm float64

	// Converged is set by the caller in response to CheckResidualNorm to
	// indicate whether ResidualNorm satisfies the stopping criterion.
	Converged bool

	// Src and Dst are the source and destination vectors for MulVec,
	// PreconSolve and ComputeResidual. Src is set by Method; the caller
	// stores the operation's result in Dst.
	Src, Dst []float64
}

// NewContext returns a new Context sized for problems of dimension n.
func NewContext(n int) *Context {
	if n <= 0 {
		panic("linsolve: context size is not positive")
	}
	return &Context{
		X:   make([]float64, n),
		Src: make([]float64, n),
		Dst: make([]float64, n),
	}
}

// Reset reinitializes ctx for work on problems of dimension n, reusing
// the backing arrays when they are already large enough.
func (ctx *Context) Reset(n int) {
	if n <= 0 {
		panic("linsolve: dimension not positive")
	}
	ctx.X = resize(ctx.X, n)
	ctx.Src = resize(ctx.Src, n)
	ctx.Dst = resize(ctx.Dst, n)
}

func resize(s []float64, n int) []float64 {
	if cap(s) >= n {
		s = s[:n]
		for i := range s {
			s[i] = 0
		}
		return s
	}
	return make([]float64, n)
}

// Operation specifies the operation a Method commands the driver to
// perform.
type Operation uint

// Operations commanded by Method.Iterate.
const (
	NoOperation Operation = 0

	// MulVec computes A*x where x is stored in Context.Src; the result
	// must be placed in Context.Dst.
	MulVec Operation = 1 << (iota - 1)

	// PreconSolve solves M*z = r, where r is stored in Context.Src; the
	// solution z must be placed in Context.Dst.
	PreconSolve

	// Trans indicates that MulVec or PreconSolve must use the transpose:
	// Aᵀ*x or Mᵀ*z = r. Method commands Trans only bitwise-OR'd with
	// MulVec or PreconSolve.
	Trans

	// ComputeResidual computes b-A*x where x is stored in Context.X, and
	// stores the result in Context.Dst.
	ComputeResidual

	// CheckResidualNorm asks the caller to evaluate the stopping
	// criterion using Context.ResidualNorm and set Context.Converged.
	CheckResidualNorm

	// MajorIteration indicates Method has finished one iteration and
	// updated Context.X. If Context.Converged, the caller must terminate
	// the iterative process; otherwise it calls Iterate again.
	MajorIteration
)

const (
	eps          = 1.0 / (1 << 53)
	breakdownTol = eps * eps
)

// breakdownErr reports a vanished Krylov inner-product denominator as a
// typed ferr.SolverError so callers can distinguish it (ferr.DIVZERO) from
// the safe net's own MAXIT/STAG/TOLSMALL outcomes.
func breakdownErr(solver string, iter int, value float64) error {
	return ferr.New(ferr.DIVZERO, solver, iter, value)
}
