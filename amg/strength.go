package amg

import (
	"math"

	"github.com/fasp-go/fasp/param"
	"github.com/fasp-go/fasp/sparse"
)

// Strength is the directed strength-of-connection graph S (spec.md
// §4.6): S.Adj[i] lists, in no particular order, the columns j such that
// (i,j) is a strong off-diagonal coupling. Trans lists, for each vertex
// j, the rows i such that j ∈ S.Adj[i] — the transpose graph Sᵀ, used by
// CF-splitting's λ-measure (the in-degree of j in S).
type Strength struct {
	N     int
	Adj   [][]int
	Trans [][]int
}

// BuildStrength computes S for a by the policy in p.Coarsening, per
// spec.md §4.6. CoarseningCR uses the same modified-RS strength test as
// CoarseningModifiedRS (the compatible-relaxation variant only replaces
// CF-splitting's pass 1, not strength computation) — mirroring
// generate_S's dispatch in original_source/core/src/coarsening_rs.c,
// where coarsening_type 1 and 3 both call generate_S.
func BuildStrength(a *sparse.CSR, p param.AMGParam) *Strength {
	switch p.Coarsening {
	case param.CoarseningClassicalNeg:
		return buildStrengthRS(a, p.StrengthTheta, false)
	case param.CoarseningClassicalAbs:
		return buildStrengthRS(a, p.StrengthTheta, true)
	default: // CoarseningModifiedRS, CoarseningCR
		return buildStrengthModified(a, p.StrengthTheta, p.MaxRowSum)
	}
}

// buildStrengthModified implements generate_S: row_scale = min off-diag
// entry, row_sum = sum of the whole row (diagonal included) scaled by
// |a_ii|; if the scaled row sum exceeds theta_max (<1), every dependency
// of the row is weak;
// otherwise (i,j) is strong iff a_ij >= theta_str*row_scale.
func buildStrengthModified(a *sparse.CSR, thetaStr, thetaMax float64) *Strength {
	n := a.Row
	diag := make([]float64, n)
	a.DiagonalTo(diag)

	adj := make([][]int, n)
	for i := 0; i < n; i++ {
		rowScale, rowSum := 0.0, 0.0
		a.DoRow(i, func(j int, v float64) {
			rowSum += v
			if j == i {
				return
			}
			if v < rowScale {
				rowScale = v
			}
		})
		rowSumScaled := math.Abs(rowSum) / math.Max(param.SmallReal, math.Abs(diag[i]))

		if rowSumScaled > thetaMax && thetaMax < 1 {
			continue // every dependency of row i is weak
		}
		a.DoRow(i, func(j int, v float64) {
			if j == i {
				return
			}
			if v < thetaStr*rowScale {
				adj[i] = append(adj[i], j)
			}
		})
	}
	return newStrength(n, adj)
}

// buildStrengthRS implements generate_S_rs: amax[i] is the row's largest
// negative (useAbs=false) or absolute-value (useAbs=true) off-diagonal
// magnitude; (i,j) is strong iff that magnitude clears theta*amax[i].
func buildStrengthRS(a *sparse.CSR, theta float64, useAbs bool) *Strength {
	n := a.Row
	adj := make([][]int, n)
	for i := 0; i < n; i++ {
		amax := 0.0
		a.DoRow(i, func(j int, v float64) {
			if j == i {
				return
			}
			var mag float64
			if useAbs {
				mag = math.Abs(v)
			} else {
				mag = -v
			}
			if mag > amax {
				amax = mag
			}
		})
		a.DoRow(i, func(j int, v float64) {
			if j == i {
				return
			}
			var mag float64
			if useAbs {
				mag = math.Abs(v)
			} else {
				mag = -v
			}
			if mag >= theta*amax {
				adj[i] = append(adj[i], j)
			}
		})
	}
	return newStrength(n, adj)
}

func newStrength(n int, adj [][]int) *Strength {
	trans := make([][]int, n)
	for i, row := range adj {
		for _, j := range row {
			trans[j] = append(trans[j], i)
		}
	}
	return &Strength{N: n, Adj: adj, Trans: trans}
}
