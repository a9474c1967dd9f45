package amg

import (
	"fmt"

	"github.com/fasp-go/fasp/linsolve"
)

// Precon wraps h as a linsolve.PreconSolve: apply(r,z) ≈ M⁻¹r is one
// multigrid cycle, per spec.md §4.7's preconditioner adapter — zero z,
// copy r into the finest level's b, run the cycle, copy the finest
// level's x into z. The hierarchy's level vectors are reused across
// calls and RunCycle leaves x zeroed on every non-root level; the ILU,
// polynomial and Schwarz smoothers and the nonlinear-AMLI inner solve
// still allocate work vectors on every call. trans is accepted for signature
// compatibility with linsolve.PreconSolve but ignored — the cycle is an
// approximate inverse, not a literal operator with a meaningful
// transpose.
func (h *Hierarchy) Precon() linsolve.PreconSolve {
	return func(dst []float64, trans bool, rhs []float64) error {
		fine := h.Levels[0]
		copy(fine.B, rhs)
		for i := range fine.X {
			fine.X[i] = 0
		}
		if err := h.RunCycle(); err != nil {
			return err
		}
		copy(dst, fine.X)
		return nil
	}
}

// BlockDiagonalPrecond composes two independently built preconditioners
// for the two diagonal blocks of a 2×2 saddle-point system
// A = [[K, Bᵀ], [B, 0]] (spec.md §8 end-to-end scenario 3), applying
// each block's preconditioner to its own slice of the vector and leaving
// the off-diagonal coupling unpreconditioned — the simplest member of
// the block-preconditioner family, grounded on
// original_source/core/src/itsolver_stokes.c's fasp_precond_stokes_bdiag
// (block_dCSRmat split into an AMG-preconditioned velocity block and a
// diagonally-scaled pressure/Schur-complement block).
type BlockDiagonalPrecond struct {
	// N1 is the dimension of the first (e.g. velocity/K) block; the
	// remainder of the vector belongs to the second (e.g.
	// pressure/Schur-complement) block.
	N1 int

	// First preconditions the leading N1 entries (typically h.Precon()
	// of a hierarchy built on K).
	First linsolve.PreconSolve

	// Second preconditions the trailing entries (typically a diagonal
	// scaling of the Schur-complement approximation M in the original,
	// or another hierarchy's Precon() built on an approximate Schur
	// complement).
	Second linsolve.PreconSolve
}

// PreconSolve adapts p to linsolve.PreconSolve.
func (p *BlockDiagonalPrecond) PreconSolve() linsolve.PreconSolve {
	return func(dst []float64, trans bool, rhs []float64) error {
		if len(dst) != len(rhs) || len(dst) <= p.N1 {
			return fmt.Errorf("amg: BlockDiagonalPrecond: dst/rhs length %d incompatible with N1=%d", len(dst), p.N1)
		}
		if err := p.First(dst[:p.N1], trans, rhs[:p.N1]); err != nil {
			return err
		}
		return p.Second(dst[p.N1:], trans, rhs[p.N1:])
	}
}
