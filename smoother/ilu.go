package smoother

import (
	"github.com/fasp-go/fasp/block"
	"github.com/fasp-go/fasp/sparse"
)

// ILUFactors holds an incomplete LU factorization in the combined-CSR
// convention: L (unit lower triangular, diagonal implicit) and U (upper
// triangular, including diagonal) are stored in the nonzero pattern of a
// single CSR-shaped set of arrays, with Diag giving the position of each
// row's diagonal entry within JA/Val. This mirrors how FASP's ILU stores
// the factors in-place over the original matrix's sparsity pattern.
type ILUFactors struct {
	N    int
	IA   []int
	JA   []int
	Val  []float64
	Diag []int // Diag[i] = position within [IA[i],IA[i+1]) of column i
}

// ILUSetup computes a level-0 ILU factorization of a (same sparsity
// pattern as A, no fill-in), the simplest member of the ILU(k) family
// spec.md §4.4 names as the CSR ILU apply's companion setup step.
func ILUSetup(a *sparse.CSR) (*ILUFactors, error) {
	n := a.Row
	ia := append([]int(nil), a.IA...)
	ja := append([]int(nil), a.JA...)
	val := append([]float64(nil), a.Val...)
	diag := make([]int, n)

	// colPos[j] temporarily maps column index -> position in the row
	// currently being eliminated, for O(1) lookup during the IKJ sweep.
	colPos := make(map[int]int, 16)

	for i := 0; i < n; i++ {
		for p := ia[i]; p < ia[i+1]; p++ {
			colPos[ja[p]] = p
			if ja[p] == i {
				diag[i] = p
			}
		}
		for p := ia[i]; p < ia[i+1] && ja[p] < i; p++ {
			k := ja[p]
			pivot := val[diag[k]]
			if pivot == 0 {
				return nil, errSingularDiagonal(k)
			}
			factor := val[p] / pivot
			val[p] = factor
			for q := diag[k] + 1; q < ia[k+1]; q++ {
				j := ja[q]
				if pos, ok := colPos[j]; ok {
					val[pos] -= factor * val[q]
				}
			}
		}
		for p := ia[i]; p < ia[i+1]; p++ {
			delete(colPos, ja[p])
		}
		if val[diag[i]] == 0 {
			return nil, errSingularDiagonal(i)
		}
	}

	return &ILUFactors{N: n, IA: ia, JA: ja, Val: val, Diag: diag}, nil
}

// ILUApply solves L*U*x = r via forward then backward substitution,
// writing the result into x. r and x may not alias.
func ILUApply(f *ILUFactors, r, x []float64) {
	n := f.N
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		sum := r[i]
		for p := f.IA[i]; p < f.Diag[i]; p++ {
			sum -= f.Val[p] * y[f.JA[p]]
		}
		y[i] = sum
	}
	for i := n - 1; i >= 0; i-- {
		sum := y[i]
		for p := f.Diag[i] + 1; p < f.IA[i+1]; p++ {
			sum -= f.Val[p] * x[f.JA[p]]
		}
		x[i] = sum / f.Val[f.Diag[i]]
	}
}

// BlockILUApply is the BSR analogue of ILUApply: the same forward/
// backward substitution, but each entry is an nb×nb dense block handled
// through the block package's kernels instead of a scalar division.
func BlockILUApply(a *sparse.BSR, lower, upper map[[2]int][]float64, diagInv map[int][]float64, r, x []float64) {
	nb := a.NB
	n := a.Row
	y := make([]float64, n*nb)
	tmp := make([]float64, nb)
	for i := 0; i < n; i++ {
		copy(tmp, r[i*nb:i*nb+nb])
		for j := 0; j < i; j++ {
			blk, ok := lower[[2]int{i, j}]
			if !ok {
				continue
			}
			prod := make([]float64, nb)
			block.MatVec(nb, blk, y[j*nb:j*nb+nb], prod)
			for d := 0; d < nb; d++ {
				tmp[d] -= prod[d]
			}
		}
		copy(y[i*nb:i*nb+nb], tmp)
	}
	for i := n - 1; i >= 0; i-- {
		copy(tmp, y[i*nb:i*nb+nb])
		for j := i + 1; j < n; j++ {
			blk, ok := upper[[2]int{i, j}]
			if !ok {
				continue
			}
			prod := make([]float64, nb)
			block.MatVec(nb, blk, x[j*nb:j*nb+nb], prod)
			for d := 0; d < nb; d++ {
				tmp[d] -= prod[d]
			}
		}
		out := make([]float64, nb)
		block.MatVec(nb, diagInv[i], tmp, out)
		copy(x[i*nb:i*nb+nb], out)
	}
}
