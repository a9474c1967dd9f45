// Package ferr defines the error taxonomy returned by solver entry points
// across the toolkit.
package ferr

import "fmt"

// Code classifies the outcome of a solver call. A Code is never an
// iteration count: a successful solve returns a nil error and the
// iteration count separately.
type Code int

const (
	// Success is never wrapped in a SolverError; it exists so Code has a
	// documented zero value distinct from the failure codes below.
	Success Code = iota

	// MAXIT: iteration cap reached without convergence.
	MAXIT
	// SOLSTAG: solution magnitude fell below the zero-solution floor.
	SOLSTAG
	// STAG: residual stagnated; restart budget exhausted.
	STAG
	// TOLSMALL: user tolerance below attainable precision.
	TOLSMALL
	// DIVZERO: Krylov inner product denominator vanished.
	DIVZERO
	// MISC: smoother/factorization internal failure (e.g. singular block).
	MISC
	// PRECTYPE: unknown preconditioner selector.
	PRECTYPE
	// SOLVERTYPE: unknown solver selector.
	SOLVERTYPE
	// ALLOCMEM: allocation failure.
	ALLOCMEM
	// WRONGFILE: malformed input file.
	WRONGFILE
	// OPENFILE: file could not be opened.
	OPENFILE
)

func (c Code) String() string {
	switch c {
	case Success:
		return "SUCCESS"
	case MAXIT:
		return "MAXIT"
	case SOLSTAG:
		return "SOLSTAG"
	case STAG:
		return "STAG"
	case TOLSMALL:
		return "TOLSMALL"
	case DIVZERO:
		return "DIVZERO"
	case MISC:
		return "MISC"
	case PRECTYPE:
		return "PRECTYPE"
	case SOLVERTYPE:
		return "SOLVER_TYPE"
	case ALLOCMEM:
		return "ALLOC_MEM"
	case WRONGFILE:
		return "WRONG_FILE"
	case OPENFILE:
		return "OPEN_FILE"
	default:
		return "UNKNOWN"
	}
}

// SolverError is returned by iteration-phase failures. The caller's
// solution vector (reported separately by the solver, not held here) is
// always the best iterate seen during the run, per the propagation
// policy: setup-phase failures are fatal and propagate as plain wrapped
// errors, while iteration-phase pathologies are caught and reported as a
// SolverError with the best-so-far solution left in the caller's Dst.
type SolverError struct {
	Code      Code
	Solver    string
	Iteration int
	ResNorm   float64
}

func (e *SolverError) Error() string {
	return fmt.Sprintf("%s: %s at iteration %d (residual norm %g)", e.Solver, e.Code, e.Iteration, e.ResNorm)
}

// Is reports whether target is a *SolverError with the same Code,
// supporting errors.Is(err, &SolverError{Code: ferr.MAXIT}).
func (e *SolverError) Is(target error) bool {
	t, ok := target.(*SolverError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// New constructs a SolverError.
func New(code Code, solver string, iter int, resNorm float64) *SolverError {
	return &SolverError{Code: code, Solver: solver, Iteration: iter, ResNorm: resNorm}
}
