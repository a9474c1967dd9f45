package smoother

import (
	"github.com/fasp-go/fasp/block"
	"github.com/fasp-go/fasp/sparse"
)

// JacobiCSR applies sweeps Jacobi relaxations to A*x=b:
//  x ← x + D⁻¹(b − A*x)
// where D is the (scalar) diagonal. Fails if any diagonal entry is zero.
func JacobiCSR(a *sparse.CSR, b, x []float64, sweeps int) error {
	n := a.Row
	dinv := make([]float64, n)
	a.DiagonalTo(dinv)
	for i, d := range dinv {
		if d == 0 {
			return errSingularDiagonal(i)
		}
		dinv[i] = 1 / d
	}

	r := make([]float64, n)
	for s := 0; s < sweeps; s++ {
		copy(r, b)
		a.SpMV(-1, x, r)
		for i := 0; i < n; i++ {
			x[i] += dinv[i] * r[i]
		}
	}
	return nil
}

// BlockJacobiSetup pre-inverts the diagonal nb×nb blocks of a BSR matrix
// once, returning the flattened inverse blocks for reuse across repeated
// BlockJacobiApply calls (spec.md §4.4: "requires pre-inversion of
// diagonal blocks, done once at setup").
func BlockJacobiSetup(a *sparse.BSR) ([]float64, error) {
	nb := a.NB
	dinv := make([]float64, a.Row*nb*nb)
	found := make([]bool, a.Row)
	blk := make([]float64, nb*nb)
	for i := 0; i < a.Row; i++ {
		for k := a.IA[i]; k < a.IA[i+1]; k++ {
			if a.JA[k] != i {
				continue
			}
			a.DiagonalBlockTo(k, blk)
			if err := block.Invert(nb, blk); err != nil {
				if _, ok := err.(*block.SingularBlockWarning); !ok {
					return nil, err
				}
			}
			copy(dinv[i*nb*nb:i*nb*nb+nb*nb], blk)
			found[i] = true
		}
		if !found[i] {
			return nil, errSingularDiagonal(i)
		}
	}
	return dinv, nil
}

// BlockJacobiApply applies sweeps block-Jacobi relaxations using
// precomputed inverse diagonal blocks dinv (see BlockJacobiSetup).
func BlockJacobiApply(a *sparse.BSR, dinv []float64, b, x []float64, sweeps int) {
	nb := a.NB
	n := a.Row * nb
	r := make([]float64, n)
	upd := make([]float64, nb)
	for s := 0; s < sweeps; s++ {
		copy(r, b)
		a.SpMV(-1, x, r)
		for i := 0; i < a.Row; i++ {
			block.MatVec(nb, dinv[i*nb*nb:i*nb*nb+nb*nb], r[i*nb:i*nb+nb], upd)
			for d := 0; d < nb; d++ {
				x[i*nb+d] += upd[d]
			}
		}
	}
}
