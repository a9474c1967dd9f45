package linsolve

import (
	"math"

	"github.com/fasp-go/fasp/vecalg"
	"gonum.org/v1/gonum/blas/blas64"
)

// GMRES implements the restarted, right-preconditioned Generalized
// Minimum Residual method with modified Gram-Schmidt orthogonalization
// for solving A*x = b where A is nonsymmetric and nonsingular. Right
// preconditioning means the preconditioner is applied to each Krylov
// basis vector before multiplying by A, and the accumulated
// preconditioned vectors Z are what the final solution update combines —
// so, unlike a left-preconditioned formulation, GMRES never assumes the
// preconditioner is the same linear operator across iterations of one
// cycle; VGMRES exists only for API symmetry with BiCGStab/VBiCGStab.
//
// References:
//   - Saad, Y., and Schultz, M. (1986). GMRES: A generalized minimal
//     residual algorithm for solving nonsymmetric linear systems.
//     SIAM J. Sci. Stat. Comput., 7(3), 856.
type GMRES struct {
	// Restart limits computation and storage costs: 1 <= Restart <= n.
	// If zero, n is used (guarantees convergence, at the cost of memory).
	Restart int

	m int

	v []float64 // (m+1) basis vectors of length n, row-major [k*n:(k+1)*n]
	z []float64 // m preconditioned vectors of length n
	h []float64 // (m+1)xm upper Hessenberg matrix, row-major [i*m+j]

	givs []givens

	n int
	x []float64
	y []float64
	s []float64

	k      int
	resume int
}

// Init initializes the data for a linear solve. See the Method interface.
func (g *GMRES) Init(x, residual []float64) {
	dim := len(x)
	if len(residual) != dim {
		panic("gmres: vector length mismatch")
	}

	g.n = dim
	g.m = g.Restart
	if g.m == 0 {
		g.m = dim
	}
	if g.m <= 0 || dim < g.m {
		panic("gmres: invalid value of Restart")
	}

	g.v = resize(g.v, (g.m+1)*dim)
	g.z = resize(g.z, g.m*dim)
	g.h = resize(g.h, (g.m+1)*g.m)

	copy(g.vcol(0), residual)

	if cap(g.givs) < g.m {
		g.givs = make([]givens, g.m)
	} else {
		g.givs = g.givs[:g.m]
		for i := range g.givs {
			g.givs[i] = givens{}
		}
	}

	g.x = append(g.x[:0], x...)
	g.y = resize(g.y, g.m+1)
	g.s = resize(g.s, g.m+1)

	g.resume = 1
}

// Iterate performs an iteration of the linear solve.
//
// GMRES commands: PreconSolve, MulVec, CheckResidualNorm,
// MajorIteration, ComputeResidual, NoOperation.
func (g *GMRES) Iterate(ctx *Context) (Operation, error) {
	switch g.resume {
	case 1:
		norm := vecalg.Norm2(g.vcol(0))
		if norm == 0 {
			g.resume = 0
			return NoOperation, breakdownErr("gmres", 0, norm)
		}
		vecalg.Scale(1/norm, g.vcol(0))
		for i := range g.s {
			g.s[i] = 0
		}
		g.s[0] = norm
		g.k = 0
		fallthrough
	case 3:
		copy(ctx.Src, g.vcol(g.k))
		g.resume = 4
		return PreconSolve, nil // z_k = M^{-1} v_k
	case 4:
		copy(g.zcol(g.k), ctx.Dst)
		copy(ctx.Src, g.zcol(g.k))
		g.resume = 5
		return MulVec, nil // w = A z_k
	case 5:
		vk1 := g.vcol(g.k + 1)
		copy(vk1, ctx.Dst)
		g.modifiedGS(g.k, vk1)
		g.qr(g.k)
		ctx.ResidualNorm = math.Abs(g.s[g.k+1])
		g.resume = 6
		return CheckResidualNorm, nil
	case 6:
		g.k++
		if g.k < g.m && !ctx.Converged {
			g.resume = 3
			return NoOperation, nil
		}
		g.solveLeastSquares(g.k)
		g.updateSolution(g.k)
		copy(ctx.X, g.x)
		if ctx.Converged {
			g.resume = 0
			return MajorIteration, nil
		}
		g.resume = 7
		return ComputeResidual, nil
	case 7:
		copy(g.vcol(0), ctx.Dst)
		g.resume = 1
		return MajorIteration, nil

	default:
		panic("gmres: Init not called")
	}
}

func (g *GMRES) vcol(j int) []float64 { return g.v[j*g.n : (j+1)*g.n] }
func (g *GMRES) zcol(j int) []float64 { return g.z[j*g.n : (j+1)*g.n] }

// hAt returns H[i,j] (i ranges over 0..m, j over 0..m-1).
func (g *GMRES) hAt(i, j int) float64    { return g.h[i*g.m+j] }
func (g *GMRES) hSet(i, j int, v float64) { g.h[i*g.m+j] = v }

// modifiedGS orthonormalizes w against the first k+1 columns of V using
// modified Gram-Schmidt, storing coefficients in column k of H.
func (g *GMRES) modifiedGS(k int, w []float64) {
	for j := 0; j <= k; j++ {
		vj := g.vcol(j)
		hjk := vecalg.Dot(vj, w)
		g.hSet(j, k, hjk)
		vecalg.Axpy(-hjk, vj, w)
	}
	norm := vecalg.Norm2(w)
	g.hSet(k+1, k, norm)
	if norm != 0 {
		vecalg.Scale(1/norm, w)
	}
}

// qr applies previous Givens rotations to column k of H, computes the
// next rotation to zero H[k+1,k], and applies it to H and to s.
func (g *GMRES) qr(k int) {
	for i := 0; i < k; i++ {
		hi, hi1 := g.givs[i].apply(g.hAt(i, k), g.hAt(i+1, k))
		g.hSet(i, k, hi)
		g.hSet(i+1, k, hi1)
	}

	c, s, _, _ := blas64.Rotg(g.hAt(k, k), g.hAt(k+1, k))
	g.givs[k] = givens{c: c, s: s}

	hkk, _ := g.givs[k].apply(g.hAt(k, k), g.hAt(k+1, k))
	g.hSet(k, k, hkk)

	sk, sk1 := g.givs[k].apply(g.s[k], g.s[k+1])
	g.s[k] = sk
	g.s[k+1] = sk1
}

// solveLeastSquares solves the k×k upper triangular system H*y=s by back
// substitution, writing into g.y[:k].
func (g *GMRES) solveLeastSquares(k int) {
	for i := k - 1; i >= 0; i-- {
		sum := g.s[i]
		for j := i + 1; j < k; j++ {
			sum -= g.hAt(i, j) * g.y[j]
		}
		g.y[i] = sum / g.hAt(i, i)
	}
}

// updateSolution sets x = x0 + sum_{j<k} y[j]*z_j, where z_j are the
// preconditioned basis vectors (right preconditioning).
func (g *GMRES) updateSolution(k int) {
	for j := 0; j < k; j++ {
		vecalg.Axpy(g.y[j], g.zcol(j), g.x)
	}
}

// givens is a Givens rotation.
type givens struct {
	c, s float64
}

func (giv *givens) apply(x, y float64) (float64, float64) {
	return giv.c*x + giv.s*y, giv.c*y - giv.s*x
}
