package linsolve

import (
	"math"

	"github.com/fasp-go/fasp/param"
	"github.com/fasp-go/fasp/vecalg"
)

// BiCGStab implements the BiConjugate Gradient Stabilized method with
// preconditioning for solving A*x = b where A is nonsymmetric and
// nonsingular. It is a variant of BiCG with smoother convergence that
// does not require multiplication with Aᵀ.
//
// References:
//   - Barrett, R. et al. (1994). Section 2.3.8 Bi-CGSTAB. In Templates
//     for the Solution of Linear Systems (2nd ed.), SIAM.
type BiCGStab struct {
	x, r, rt []float64
	p        []float64
	phat     []float64
	shat     []float64
	t        []float64
	v        []float64

	rho, rhoPrev float64
	alpha        float64
	omega        float64

	resume int
}

// Init initializes the data for a linear solve. See the Method interface.
func (b *BiCGStab) Init(x, residual []float64) {
	dim := len(x)
	if len(residual) != dim {
		panic("bicgstab: vector length mismatch")
	}

	b.x = append(b.x[:0], x...)
	b.r = append(b.r[:0], residual...)
	b.rt = append(b.rt[:0], b.r...)

	b.p = resize(b.p, dim)
	b.phat = resize(b.phat, dim)
	b.shat = resize(b.shat, dim)
	b.t = resize(b.t, dim)
	b.v = resize(b.v, dim)

	b.rhoPrev = 1
	b.alpha = 0
	b.omega = 1

	b.resume = 1
}

// Iterate performs an iteration of the linear solve.
//
// BiCGStab commands: PreconSolve, MulVec, CheckResidualNorm,
// MajorIteration, NoOperation.
func (b *BiCGStab) Iterate(ctx *Context) (Operation, error) {
	switch b.resume {
	case 1:
		b.rho = vecalg.Dot(b.rt, b.r)
		if math.Abs(b.rho) < param.SmallReal {
			b.resume = 0
			return NoOperation, breakdownErr("bicgstab", 0, b.rho)
		}
		// p_i = r_{i-1} + beta*(p_{i-1} - omega*v_{i-1})
		beta := (b.rho / b.rhoPrev) * (b.alpha / b.omega)
		vecalg.Axpy(-b.omega, b.v, b.p)
		vecalg.Axpby(1, b.r, beta, b.p)
		copy(ctx.Src, b.p)
		b.resume = 2
		return PreconSolve, nil
	case 2:
		copy(b.phat, ctx.Dst)
		copy(ctx.Src, b.phat)
		b.resume = 3
		return MulVec, nil
	case 3:
		copy(b.v, ctx.Dst)
		rtv := vecalg.Dot(b.rt, b.v)
		if math.Abs(rtv) < param.SmallReal {
			// The alpha denominator vanishing is fatal: unlike omega, there
			// is no safe fallback value that keeps the recurrence valid.
			b.resume = 0
			return NoOperation, breakdownErr("bicgstab", 0, rtv)
		}
		b.alpha = b.rho / rtv
		vecalg.Axpy(b.alpha, b.phat, b.x)
		vecalg.Axpy(-b.alpha, b.v, b.r)
		ctx.ResidualNorm = vecalg.Norm2(b.r)
		b.resume = 4
		return CheckResidualNorm, nil
	case 4:
		copy(ctx.X, b.x)
		if ctx.Converged {
			b.resume = 0
			return MajorIteration, nil
		}
		copy(ctx.Src, b.r)
		b.resume = 5
		return PreconSolve, nil
	case 5:
		copy(b.shat, ctx.Dst)
		copy(ctx.Src, b.shat)
		b.resume = 6
		return MulVec, nil
	case 6:
		copy(b.t, ctx.Dst)
		tt := vecalg.Dot(b.t, b.t)
		if tt < param.SmallReal {
			// Unlike the alpha denominator, omega vanishing is survivable:
			// falling back to omega=0 degenerates this half-step to a no-op
			// rather than aborting the whole solve.
			b.omega = 0
		} else {
			b.omega = vecalg.Dot(b.t, b.r) / tt
		}
		vecalg.Axpy(b.omega, b.shat, b.x)
		vecalg.Axpy(-b.omega, b.t, b.r)
		ctx.ResidualNorm = vecalg.Norm2(b.r)
		b.resume = 7
		return CheckResidualNorm, nil
	case 7:
		copy(ctx.X, b.x)
		if ctx.Converged {
			b.resume = 0
			return MajorIteration, nil
		}
		b.rhoPrev = b.rho
		b.resume = 1
		return MajorIteration, nil

	default:
		panic("bicgstab: Init not called")
	}
}
