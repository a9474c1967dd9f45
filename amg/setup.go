package amg

import (
	"fmt"

	"github.com/fasp-go/fasp/block"
	"github.com/fasp-go/fasp/param"
	"github.com/fasp-go/fasp/parallel"
	"github.com/fasp-go/fasp/smoother"
	"github.com/fasp-go/fasp/sparse"
)

// smootherState holds whatever a level's configured smoother needs
// precomputed once at setup, per spec.md §5's "all allocations happen at
// setup" rule: the ILU factors, the polynomial recurrence coefficients,
// or the Schwarz subdomain inverses and their coloring. Jacobi and the
// Gauss-Seidel/SOR variants keep no state here.
type smootherState struct {
	ilu      *smoother.ILUFactors
	poly     *smoother.PolySetup
	schwarz  *smoother.SchwarzBlocks
	coloring parallel.Coloring
}

// Level is one level of an AMG hierarchy (spec.md §3): the system matrix
// A, prolongation P and restriction R (absent on the coarsest level),
// scratch vectors X/B/W, the CF-marker vector from setup, and
// precomputed smoother state. A hierarchy exclusively owns every level's
// matrices and scratch space.
type Level struct {
	A *sparse.CSR
	P *sparse.CSR
	R *sparse.CSR

	X, B, W []float64

	CF []Mark

	smoother smootherState
}

// CoarsestSolver solves A*x=b exactly (or to machine precision) on the
// coarsest level, per spec.md §4.7. The default is a cached dense LU
// (via the block package's general-n inverse, reusing C1's kernels); the
// UMFPACK-style external-factorization seam original_source/base/extra/
// interface/XtrUmfpack.c exposes is represented here as this
// pluggable interface rather than a binding, per spec.md's Non-goals
// (direct-solver bindings to third-party factorization libraries are
// out of scope).
type CoarsestSolver interface {
	Solve(b, x []float64) error
}

// denseLUSolver is the default CoarsestSolver: it densifies the coarsest
// A once at setup, inverts it with block.Invert, and applies the cached
// inverse with block.MatVec on every cycle call.
type denseLUSolver struct {
	n   int
	inv []float64
}

func newDenseLUSolver(a *sparse.CSR) (*denseLUSolver, error) {
	n := a.Row
	dense := make([]float64, n*n)
	for i := 0; i < n; i++ {
		a.DoRow(i, func(j int, v float64) { dense[i*n+j] = v })
	}
	if err := block.Invert(n, dense); err != nil {
		if _, ok := err.(*block.SingularBlockWarning); !ok {
			return nil, err
		}
	}
	return &denseLUSolver{n: n, inv: dense}, nil
}

func (d *denseLUSolver) Solve(b, x []float64) error {
	block.MatVec(d.n, d.inv, b, x)
	return nil
}

// Hierarchy is an AMG hierarchy L[0..K-1] (spec.md §3): L[0].A is the
// finest, user-provided matrix; L[K-1].A is small enough for
// CoarsestSolver to handle directly. Destroying a Hierarchy (letting it
// be garbage collected) releases every level it owns. Every cycle writes
// the levels' X/B/W scratch vectors, which all callers share, so a
// Hierarchy must not be used by more than one goroutine at a time.
type Hierarchy struct {
	Levels   []*Level
	Param    param.AMGParam
	Coarsest CoarsestSolver
}

// Setup builds the multigrid hierarchy for a by repeated strength
// computation, CF-splitting, interpolation-sparsity construction, and
// Galerkin coarsening, stopping once a level is small enough
// (p.CoarsestMaxN) or p.MaxLevels is reached, per spec.md §4.6-4.7.
func Setup(a *sparse.CSR, p param.AMGParam) (*Hierarchy, error) {
	p = p.WithDefaults()
	h := &Hierarchy{Param: p}

	cur := a
	for {
		lvl := &Level{A: cur}
		n := cur.Row
		lvl.X = make([]float64, n)
		lvl.B = make([]float64, n)
		lvl.W = make([]float64, n)
		if err := setupSmoother(lvl, p); err != nil {
			return nil, fmt.Errorf("amg: setup level %d smoother: %w", len(h.Levels), err)
		}
		h.Levels = append(h.Levels, lvl)

		if n <= p.CoarsestMaxN || len(h.Levels) >= p.MaxLevels {
			break
		}

		s := BuildStrength(cur, p)
		mark := Split(cur, s, p)
		pmat := BuildInterpolation(cur, s, mark)
		if pmat.Col == 0 || pmat.Col >= n {
			// No coarsening progress (every vertex isolated, or the
			// coarse space didn't shrink): stop here rather than loop.
			break
		}
		r := Restriction(pmat)
		coarse, err := galerkin(r, cur, pmat)
		if err != nil {
			return nil, fmt.Errorf("amg: galerkin coarsening at level %d: %w", len(h.Levels)-1, err)
		}

		lvl.P = pmat
		lvl.R = r
		lvl.CF = mark
		cur = coarse
	}

	coarsest := h.Levels[len(h.Levels)-1].A
	solver, err := newDenseLUSolver(coarsest)
	if err != nil {
		return nil, fmt.Errorf("amg: coarsest-level factorization: %w", err)
	}
	h.Coarsest = solver
	return h, nil
}

func setupSmoother(lvl *Level, p param.AMGParam) error {
	a := lvl.A
	switch p.Smoother {
	case param.SmootherPoly:
		n := a.Row
		dinv := make([]float64, n)
		a.DiagonalTo(dinv)
		for i := range dinv {
			if dinv[i] == 0 {
				dinv[i] = 1
			} else {
				dinv[i] = 1 / dinv[i]
			}
		}
		mu0 := smoother.EstimateMu0(a, dinv)
		lvl.smoother.poly = smoother.NewPolySetup(a, mu0)
	case param.SmootherILU:
		f, err := smoother.ILUSetup(a)
		if err != nil {
			return err
		}
		lvl.smoother.ilu = f
	case param.SmootherSchwarz:
		blocks, err := smoother.SchwarzSetup(a)
		if err != nil {
			return err
		}
		lvl.smoother.schwarz = blocks
		lvl.smoother.coloring = smoother.SchwarzColoring(blocks)
	default:
		// GS/SOR/symmetric-GS need no precomputed state beyond A itself.
	}
	return nil
}

// galerkin computes a_{l+1} = r*a*p as two sparse-sparse products, each
// computed by spgemm.
func galerkin(r, a, p *sparse.CSR) (*sparse.CSR, error) {
	ap, err := spgemm(a, p)
	if err != nil {
		return nil, err
	}
	return spgemm(r, ap)
}

// spgemm computes a*b for two CSR matrices via row-by-row accumulation
// into a map keyed by output column, then sorts and flattens each row.
// Structure and values are found in this single pass; there is no
// separate symbolic phase that sizes the output first.
func spgemm(a, b *sparse.CSR) (*sparse.CSR, error) {
	if a.Col != b.Row {
		return nil, fmt.Errorf("amg: spgemm: dimension mismatch (%d != %d)", a.Col, b.Row)
	}
	rows, cols := a.Row, b.Col
	ia := make([]int, rows+1)
	var ja []int
	var val []float64

	acc := make(map[int]float64, 32)
	for i := 0; i < rows; i++ {
		for k := range acc {
			delete(acc, k)
		}
		a.DoRow(i, func(k int, aik float64) {
			if aik == 0 {
				return
			}
			b.DoRow(k, func(j int, bkj float64) {
				acc[j] += aik * bkj
			})
		})
		ia[i] = len(ja)
		for j, v := range acc {
			if v == 0 {
				continue
			}
			ja = append(ja, j)
			val = append(val, v)
		}
	}
	ia[rows] = len(ja)

	out := sparse.NewCSR(rows, cols, ia, ja, val)
	out.SortRows()
	return out, nil
}
