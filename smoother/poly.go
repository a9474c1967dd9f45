package smoother

import (
	"math"

	"github.com/fasp-go/fasp/sparse"
	"github.com/fasp-go/fasp/vecalg"
)

// PolySetup precomputes the inverse diagonal and the recurrence
// coefficients for the Chebyshev-like polynomial smoother, given an
// estimated spectral lower bound mu0 for Dinv*A (its inf-norm inverse).
// Bandwidth is taken as [mu0, 4*mu0], per spec.md §4.4 and
// original_source/base/src/smoother_poly.c.
type PolySetup struct {
	Dinv []float64
	K    [6]float64 // K[1..5] hold the recurrence coefficients; K[0] unused
}

// NewPolySetup builds a PolySetup for matrix a. mu0 is the reciprocal of
// the infinity norm of Dinv*A (the original computes it once per level
// and reuses it across smoothing calls).
func NewPolySetup(a *sparse.CSR, mu0 float64) *PolySetup {
	n := a.Row
	dinv := make([]float64, n)
	a.DiagonalTo(dinv)
	for i, d := range dinv {
		dinv[i] = 1 / d
	}

	mu1 := 4 * mu0
	smu0, smu1 := math.Sqrt(mu0), math.Sqrt(mu1)

	var k [6]float64
	k[1] = (mu0 + mu1) / 2
	k[2] = (smu0 + smu1) * (smu0 + smu1) / 2
	k[3] = mu0 * mu1
	k[4] = 2 * k[3] / k[2]
	k[5] = (mu1 - 2*smu0*smu1 + mu0) / (mu1 + 2*smu0*smu1 + mu0)

	return &PolySetup{Dinv: dinv, K: k}
}

// EstimateMu0 returns 1/||Dinv*A||_inf for matrix a, the spectral lower
// bound the original uses to seed the polynomial bandwidth.
func EstimateMu0(a *sparse.CSR, dinv []float64) float64 {
	var norm float64
	for i := 0; i < a.Row; i++ {
		var rowSum float64
		for k := a.IA[i]; k < a.IA[i+1]; k++ {
			rowSum += math.Abs(a.Val[k])
		}
		rowSum *= dinv[i]
		if rowSum > norm {
			norm = rowSum
		}
	}
	if norm == 0 {
		return 1
	}
	return 1 / norm
}

// applyR computes vnew = R*r where R = q_deg(Dinv*A)*Dinv, via the
// three-term recurrence of original_source/base/src/smoother_poly.c's Rr.
func applyR(a *sparse.CSR, setup *PolySetup, r []float64, deg int) []float64 {
	n := len(r)
	k := setup.K
	dinv := setup.Dinv

	rbar := make([]float64, n)
	for i := range rbar {
		rbar[i] = dinv[i] * r[i]
	}

	v1 := make([]float64, n)
	a.SpMV(1, rbar, v1)
	v0 := make([]float64, n)
	for i := 0; i < n; i++ {
		v0[i] = k[1] * rbar[i]
		v1[i] = k[2]*rbar[i] - k[3]*dinv[i]*v1[i]
	}

	vnew := make([]float64, n)
	for j := 1; j < deg; j++ {
		a.SpMV(1, v1, rbar)
		for i := 0; i < n; i++ {
			rbar[i] = (r[i] - rbar[i]) * dinv[i]
			vnew[i] = v1[i] + k[5]*(v1[i]-v0[i]) + k[4]*rbar[i]
			v0[i] = v1[i]
			v1[i] = vnew[i]
		}
	}
	return v1
}

// PolySmoothCSR applies sweeps polynomial-smoother relaxations of degree
// deg to A*x=b, using the precomputed setup. Deterministic: relies only
// on fixed-order accumulation, never on concurrent reduction, so results
// are bitwise reproducible across runs (spec.md §4.4).
func PolySmoothCSR(a *sparse.CSR, setup *PolySetup, b, x []float64, deg, sweeps int) {
	n := len(x)
	r := make([]float64, n)
	for s := 0; s < sweeps; s++ {
		vecalg.Zero(r)
		a.SpMV(-1, x, r)
		vecalg.Axpyz(r, 1, b, r)
		correction := applyR(a, setup, r, deg)
		vecalg.Axpy(1, correction, x)
	}
}
