package linsolve

import "github.com/fasp-go/fasp/vecalg"

// GCG implements Generalized Conjugate Gradient for A*x = b where A is
// symmetric but possibly indefinite (spec.md §4.5). It builds a growing
// direction set p_0, p_1, ... and A-orthogonalizes each new direction
// against every previous one, so memory cost grows linearly with the
// iteration count — GCG is recommended only when the problem size and
// iteration budget make that acceptable and CG's positive-definiteness
// requirement does not hold.
type GCG struct {
	// MaxDirections caps the number of retained search directions before
	// GCG restarts from the current iterate with an empty direction set,
	// bounding memory use. Zero means "use 4*n", twice the driver's own
	// default iteration cap of 2*n.
	MaxDirections int

	x, r []float64

	dim int
	p   [][]float64 // retained search directions
	ap  [][]float64 // A*p_j, cached to avoid recomputing the A-inner-product

	resume int
	z      []float64 // preconditioned residual, scratch
}

// Init initializes the data for a linear solve. See the Method interface.
func (g *GCG) Init(x, residual []float64) {
	dim := len(x)
	if len(residual) != dim {
		panic("gcg: vector length mismatch")
	}
	g.dim = dim
	g.x = append(g.x[:0], x...)
	g.r = append(g.r[:0], residual...)
	g.p = g.p[:0]
	g.ap = g.ap[:0]
	g.z = resize(g.z, dim)
	if g.MaxDirections == 0 {
		g.MaxDirections = 4 * dim
	}
	g.resume = 1
}

// Iterate performs an iteration of the linear solve.
//
// GCG commands: PreconSolve, MulVec, CheckResidualNorm, MajorIteration.
func (g *GCG) Iterate(ctx *Context) (Operation, error) {
	switch g.resume {
	case 1:
		copy(ctx.Src, g.r)
		g.resume = 2
		return PreconSolve, nil // z = M^{-1} r
	case 2:
		copy(g.z, ctx.Dst)
		copy(ctx.Src, g.z)
		g.resume = 3
		return MulVec, nil // A*z, used to A-orthogonalize z against p_0..p_{k-1}
	case 3:
		az := append([]float64(nil), ctx.Dst...)
		pNew := append([]float64(nil), g.z...)
		apNew := az
		for j := range g.p {
			beta := vecalg.Dot(apNew, g.p[j]) / vecalg.Dot(g.ap[j], g.p[j])
			vecalg.Axpy(-beta, g.p[j], pNew)
			vecalg.Axpy(-beta, g.ap[j], apNew)
		}
		if len(g.p) >= g.MaxDirections {
			g.p = g.p[:0]
			g.ap = g.ap[:0]
		}
		g.p = append(g.p, pNew)
		g.ap = append(g.ap, apNew)

		k := len(g.p) - 1
		denom := vecalg.Dot(g.ap[k], g.p[k])
		if denom == 0 {
			g.resume = 0
			return NoOperation, breakdownErr("gcg", 0, denom)
		}
		alpha := vecalg.Dot(g.r, g.p[k]) / denom
		vecalg.Axpy(alpha, g.p[k], g.x)
		vecalg.Axpy(-alpha, g.ap[k], g.r)
		ctx.ResidualNorm = vecalg.Norm2(g.r)
		g.resume = 4
		return CheckResidualNorm, nil
	case 4:
		copy(ctx.X, g.x)
		if ctx.Converged {
			g.resume = 0
			return MajorIteration, nil
		}
		g.resume = 1
		return MajorIteration, nil

	default:
		panic("gcg: Init not called")
	}
}
