package linsolve

import (
	"math"

	"github.com/fasp-go/fasp/vecalg"
)

// BiCG implements the Bi-Conjugate Gradient method with preconditioning
// for solving A*x = b where A is nonsymmetric and nonsingular. It uses
// limited memory but convergence may be irregular, and it requires a
// multiplication with both A and Aᵀ at every iteration, so the Operator
// passed to Iterative must also implement sparse.Transposer. BiCGStab is
// a related method that avoids Aᵀ.
//
// References:
//   - Barrett, R. et al. (1994). Section 2.3.5 BiConjugate Gradient
//     (BiCG). In Templates for the Solution of Linear Systems (2nd ed.),
//     SIAM.
type BiCG struct {
	x, r, rt []float64
	p, pt    []float64
	z, zt    []float64

	rho, rhoPrev float64

	resume int
}

// Init initializes the data for a linear solve. See the Method interface.
func (b *BiCG) Init(x, residual []float64) {
	dim := len(x)
	if len(residual) != dim {
		panic("bicg: vector length mismatch")
	}

	b.x = append(b.x[:0], x...)
	b.r = append(b.r[:0], residual...)
	b.rt = append(b.rt[:0], b.r...)

	b.p = resize(b.p, dim)
	b.pt = resize(b.pt, dim)
	b.z = resize(b.z, dim)
	b.zt = resize(b.zt, dim)

	b.rhoPrev = 1
	b.resume = 1
}

// Iterate performs an iteration of the linear solve.
//
// BiCG commands: PreconSolve, PreconSolve|Trans, MulVec, MulVec|Trans,
// CheckResidualNorm, MajorIteration, NoOperation.
func (b *BiCG) Iterate(ctx *Context) (Operation, error) {
	switch b.resume {
	case 1:
		copy(ctx.Src, b.r)
		b.resume = 2
		return PreconSolve, nil
	case 2:
		copy(b.z, ctx.Dst)
		copy(ctx.Src, b.rt)
		b.resume = 3
		return PreconSolve | Trans, nil
	case 3:
		copy(b.zt, ctx.Dst)
		b.rho = vecalg.Dot(b.z, b.rt)
		if math.Abs(b.rho) < breakdownTol {
			b.resume = 0
			return NoOperation, breakdownErr("bicg", 0, b.rho)
		}
		beta := b.rho / b.rhoPrev
		vecalg.Axpby(1, b.z, beta, b.p)
		vecalg.Axpby(1, b.zt, beta, b.pt)
		copy(ctx.Src, b.p)
		b.resume = 4
		return MulVec, nil
	case 4:
		copy(b.z, ctx.Dst)
		copy(ctx.Src, b.pt)
		b.resume = 5
		return MulVec | Trans, nil
	case 5:
		copy(b.zt, ctx.Dst)
		alpha := b.rho / vecalg.Dot(b.pt, b.z)
		vecalg.Axpy(alpha, b.p, b.x)
		vecalg.Axpy(-alpha, b.zt, b.rt)
		vecalg.Axpy(-alpha, b.z, b.r)
		ctx.ResidualNorm = vecalg.Norm2(b.r)
		b.resume = 6
		return CheckResidualNorm, nil
	case 6:
		copy(ctx.X, b.x)
		if ctx.Converged {
			b.resume = 0
			return MajorIteration, nil
		}
		b.rhoPrev = b.rho
		b.resume = 1
		return MajorIteration, nil

	default:
		panic("bicg: Init not called")
	}
}
