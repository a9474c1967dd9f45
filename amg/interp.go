package amg

import (
	"math"

	"github.com/fasp-go/fasp/sparse"
)

// coarseIndex maps each Coarse vertex of a's row space to its row index
// in the coarse-level space (cumulative count of Coarse marks seen so
// far); Fine and Isolated vertices map to -1, per spec.md §3's sentinel
// convention.
func coarseIndex(mark []Mark) (idx []int, ncoarse int) {
	idx = make([]int, len(mark))
	for i, m := range mark {
		if m == Coarse {
			idx[i] = ncoarse
			ncoarse++
		} else {
			idx[i] = -1
		}
	}
	return idx, ncoarse
}

// BuildInterpolation constructs the prolongation P for level a given its
// CF-splitting mark and strength graph s, per spec.md §4.6: each fine row
// gets one nonzero per coarse strong neighbor (classical direct
// interpolation weights), each coarse row gets a single unit entry at its
// own coarse-grid index, and isolated rows are empty. P.Row = a.Row,
// P.Col = the number of Coarse vertices.
//
// Weights follow the classical Ruge-Stüben direct-interpolation formula
// (Trottenberg/Oosterlee/Schuller, the same reference
// original_source/core/src/coarsening_rs.c cites): for fine row i with
// coarse strong neighbors C_i, weak/strong neighbor sets are each split
// by sign, and the positive- and negative-sign mass of all off-diagonal
// neighbors is redistributed proportionally onto the same-signed strong
// coarse neighbors so the row's sum (hence constants) is preserved.
func BuildInterpolation(a *sparse.CSR, s *Strength, mark []Mark) *sparse.CSR {
	n := a.Row
	idx, ncoarse := coarseIndex(mark)

	ia := make([]int, n+1)
	var ja []int
	var val []float64

	diag := make([]float64, n)
	a.DiagonalTo(diag)

	for i := 0; i < n; i++ {
		ia[i] = len(ja)
		switch mark[i] {
		case Coarse:
			ja = append(ja, idx[i])
			val = append(val, 1.0)
		case Isolated:
			// empty row
		case Fine:
			jr, vr := fineInterpRow(a, s, mark, idx, diag[i], i)
			ja = append(ja, jr...)
			val = append(val, vr...)
		}
	}
	ia[n] = len(ja)

	return sparse.NewCSR(n, ncoarse, ia, ja, val)
}

func fineInterpRow(a *sparse.CSR, s *Strength, mark []Mark, idx []int, aii float64, i int) ([]int, []float64) {
	coarse := s.Adj[i]

	var sumStrongPos, sumStrongNeg float64
	var sumAllPos, sumAllNeg float64
	a.DoRow(i, func(j int, v float64) {
		if j == i {
			return
		}
		if v > 0 {
			sumAllPos += v
		} else if v < 0 {
			sumAllNeg += v
		}
	})
	for _, j := range coarse {
		if mark[j] != Coarse {
			continue
		}
		v := a.At(i, j)
		if v > 0 {
			sumStrongPos += v
		} else if v < 0 {
			sumStrongNeg += v
		}
	}

	var alpha, beta float64 // scale factors for negative / positive mass
	if sumStrongNeg != 0 {
		alpha = sumAllNeg / sumStrongNeg
	}
	if sumStrongPos != 0 {
		beta = sumAllPos / sumStrongPos
	}
	if math.Abs(aii) < 1e-300 {
		aii = 1e-300
	}

	var ja []int
	var val []float64
	for _, j := range coarse {
		if mark[j] != Coarse {
			continue
		}
		v := a.At(i, j)
		var w float64
		if v < 0 {
			w = -alpha * v / aii
		} else if v > 0 {
			w = -beta * v / aii
		} else {
			continue
		}
		ja = append(ja, idx[j])
		val = append(val, w)
	}
	return ja, val
}

// Restriction returns Pᵀ, the restriction operator paired with P under
// the default (non-Petrov-Galerkin) choice R=Pᵀ, per spec.md §3's
// A_{ℓ+1}=R_ℓ·A_ℓ·P_ℓ invariant with symmetric R/P.
func Restriction(p *sparse.CSR) *sparse.CSR {
	return p.Transpose()
}
