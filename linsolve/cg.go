package linsolve

import "github.com/fasp-go/fasp/vecalg"

// CG implements the Conjugate Gradient method with preconditioning for
// solving A*x = b where A is symmetric positive definite. It needs
// minimal memory and is the right choice whenever A is SPD.
//
// References:
//   - Barrett, R. et al. (1994). Section 2.3.1 Conjugate Gradient Method.
//     In Templates for the Solution of Linear Systems (2nd ed.), SIAM.
type CG struct {
	x, r, p []float64

	rho, rhoPrev float64

	resume int
}

// Init initializes the data for a linear solve. See the Method interface.
func (cg *CG) Init(x, residual []float64) {
	dim := len(x)
	if len(residual) != dim {
		panic("cg: vector length mismatch")
	}

	cg.x = append(cg.x[:0], x...)
	cg.r = append(cg.r[:0], residual...)
	cg.p = resize(cg.p, dim)

	cg.rhoPrev = 1
	cg.resume = 1
}

// Iterate performs an iteration of the linear solve.
//
// CG commands: PreconSolve, MulVec, CheckResidualNorm, MajorIteration.
func (cg *CG) Iterate(ctx *Context) (Operation, error) {
	switch cg.resume {
	case 1:
		copy(ctx.Src, cg.r)
		cg.resume = 2
		return PreconSolve, nil // z_{i-1} = M^{-1} r_{i-1}
	case 2:
		z := ctx.Dst
		cg.rho = vecalg.Dot(cg.r, z) // ρ_{i-1} = r_{i-1}·z_{i-1}
		beta := cg.rho / cg.rhoPrev
		vecalg.Axpby(1, z, beta, cg.p) // p_i = z_{i-1} + β p_{i-1}
		copy(ctx.Src, cg.p)
		cg.resume = 3
		return MulVec, nil // A * p_i
	case 3:
		ap := ctx.Dst
		alpha := cg.rho / vecalg.Dot(cg.p, ap)
		vecalg.Axpy(alpha, cg.p, cg.x)  // x_i = x_{i-1} + α p_i
		vecalg.Axpy(-alpha, ap, cg.r)   // r_i = r_{i-1} - α A p_i
		ctx.ResidualNorm = vecalg.Norm2(cg.r)
		cg.resume = 4
		return CheckResidualNorm, nil
	case 4:
		copy(ctx.X, cg.x)
		if ctx.Converged {
			cg.resume = 0
			return MajorIteration, nil
		}
		cg.rhoPrev = cg.rho
		cg.resume = 1
		return MajorIteration, nil

	default:
		panic("cg: Init not called")
	}
}
