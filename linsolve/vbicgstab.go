package linsolve

import (
	"math"

	"github.com/fasp-go/fasp/param"
	"github.com/fasp-go/fasp/vecalg"
)

// VBiCGStab is BiCGStab's tolerant-of-nonlinear-preconditioners form
// (spec.md §4.5). Plain BiCGStab already invokes PreconSolve afresh every
// time rather than caching a linear M, so a drifting/nonlinear
// preconditioner does not corrupt any single step — but it does erode the
// bi-orthogonality between r and the shadow residual rt that the
// recurrence's rho = ⟨rt,r⟩ relies on, since rt was fixed at the last
// restart under a (possibly different) precondition. VBiCGStab guards
// against this by re-synchronizing rt to the fresh r, once, whenever rho
// collapses, before declaring a breakdown — giving the iteration a second
// chance instead of failing on the first sign of preconditioner drift.
type VBiCGStab struct {
	x, r, rt []float64
	p        []float64
	phat     []float64
	shat     []float64
	t        []float64
	v        []float64

	rho, rhoPrev float64
	alpha        float64
	omega        float64

	resynced bool
	resume   int
}

// Init initializes the data for a linear solve. See the Method interface.
func (b *VBiCGStab) Init(x, residual []float64) {
	dim := len(x)
	if len(residual) != dim {
		panic("vbicgstab: vector length mismatch")
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
	b.resynced = false

	b.resume = 1
}

// Iterate performs an iteration of the linear solve.
func (b *VBiCGStab) Iterate(ctx *Context) (Operation, error) {
	switch b.resume {
	case 1:
		b.rho = vecalg.Dot(b.rt, b.r)
		if math.Abs(b.rho) < param.SmallReal {
			if !b.resynced {
				// Preconditioner drift may have broken bi-orthogonality;
				// re-synchronize the shadow residual once and retry this
				// step before giving up.
				copy(b.rt, b.r)
				b.resynced = true
				b.rho = vecalg.Dot(b.rt, b.r)
			}
			if math.Abs(b.rho) < param.SmallReal {
				b.resume = 0
				return NoOperation, breakdownErr("vbicgstab", 0, b.rho)
			}
		}
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
			b.resume = 0
			return NoOperation, breakdownErr("vbicgstab", 0, rtv)
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
		b.resynced = false
		b.resume = 1
		return MajorIteration, nil

	default:
		panic("vbicgstab: Init not called")
	}
}
