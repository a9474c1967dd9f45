package smoother

import (
	"math"
	"math/rand"

	"github.com/fasp-go/fasp/sparse"
)

// CRResult reports the outcome of one compatible-relaxation measurement
// pass: the estimated contraction factor and whether it cleared the
// threshold, per spec.md §4.4 and
// original_source/base/src/coarsening_cr.c's fasp_amg_coarsening_cr.
type CRResult struct {
	Rho      float64
	Converged bool // true when Rho <= threshold (0.8 in the original)
}

// CRThreshold is the default contraction-factor threshold the original
// uses (tg = 0.8) to decide whether the current C-set is rich enough.
const CRThreshold = 0.8

// CompatibleRelaxation runs nu Gauss-Seidel-on-F-points sweeps starting
// from a random unit-scale initial guess on F and zero on C, then
// returns the contraction factor rho: the L2 norm of u over the F-points
// after the last sweep divided by that after the sweep before it, the
// measure the original's indset/CR loop
// uses to decide whether a candidate C-set is compatible.
func CompatibleRelaxation(a *sparse.CSR, cf []CFMark, nu int, seed int64) CRResult {
	n := a.Row
	u := make([]float64, n)
	rnd := rand.New(rand.NewSource(seed))
	for i := 0; i < n; i++ {
		if cf[i] == Coarse {
			u[i] = 0
		} else {
			u[i] = 1 + 0.1*(rnd.Float64()-0.5)
		}
	}

	fOnly := make([]int, 0, n)
	for i, m := range cf {
		if m == Fine {
			fOnly = append(fOnly, i)
		}
	}

	zero := make([]float64, n)
	var prevNorm, curNorm float64
	for sweep := 0; sweep < nu; sweep++ {
		gsSweepCSR(a, zero, u, 1, fOnly)
		var sumSq float64
		for _, i := range fOnly {
			sumSq += u[i] * u[i]
		}
		prevNorm = curNorm
		curNorm = math.Sqrt(sumSq)
	}

	var rho float64
	if prevNorm > 0 {
		rho = curNorm / prevNorm
	} else {
		rho = 0
	}

	return CRResult{Rho: rho, Converged: rho <= CRThreshold}
}
