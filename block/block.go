// Package block implements the fixed-size dense kernels (C1) used
// throughout the toolkit for per-grid-point block operations: matvec,
// matmul, and in-place inversion for block sizes n ∈ {2,3,5,7} plus a
// general-n fallback.
//
// Specialized sizes use explicit cofactor/adjugate expansion (n ≤ 5); n ≥
// 7 and the general fallback go through partial-pivot LU via
// gonum.org/v1/gonum/lapack64, mirroring the approach
// gonum.org/v1/gonum/mat64's LU type uses to factorize a general.Dense.
// All matrices are stored row-major in a flat []float64 of length n*n.
package block

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/gonum/lapack/lapack64"
)

// SingularThreshold is the determinant magnitude below which a block is
// treated as near-singular (spec.md §4.1).
const SingularThreshold = 1e-22

// SingularBlockWarning is returned (never panicked) by Invert when a
// block's determinant falls below SingularThreshold. The caller may
// still use the salvaged pseudoinverse left in the output buffer.
type SingularBlockWarning struct {
	Det float64
}

func (w *SingularBlockWarning) Error() string {
	return fmt.Sprintf("block: near-singular block, |det|=%g below threshold %g", math.Abs(w.Det), SingularThreshold)
}

// MatVec computes y ← A*x for an n×n row-major block A.
func MatVec(n int, a, x, y []float64) {
	for i := 0; i < n; i++ {
		var sum float64
		row := a[i*n : i*n+n]
		for j := 0; j < n; j++ {
			sum += row[j] * x[j]
		}
		y[i] = sum
	}
}

// MatVecAdd computes y ← y + A*x.
func MatVecAdd(n int, a, x, y []float64) {
	for i := 0; i < n; i++ {
		var sum float64
		row := a[i*n : i*n+n]
		for j := 0; j < n; j++ {
			sum += row[j] * x[j]
		}
		y[i] += sum
	}
}

// MatVecSub computes y ← y − A*x.
func MatVecSub(n int, a, x, y []float64) {
	for i := 0; i < n; i++ {
		var sum float64
		row := a[i*n : i*n+n]
		for j := 0; j < n; j++ {
			sum += row[j] * x[j]
		}
		y[i] -= sum
	}
}

// MatVecAxpby computes y ← α*A*x + β*y.
func MatVecAxpby(n int, alpha float64, a, x []float64, beta float64, y []float64) {
	for i := 0; i < n; i++ {
		var sum float64
		row := a[i*n : i*n+n]
		for j := 0; j < n; j++ {
			sum += row[j] * x[j]
		}
		y[i] = alpha*sum + beta*y[i]
	}
}

// SaturationMatVecSub computes y_s ← y_s − A_ss*x_s where A_ss is the
// trailing (n-1)×(n-1) sub-block of the n×n block A, without
// materializing A_ss explicitly. Used by saddle-point block smoothers
// (spec.md §4.1).
func SaturationMatVecSub(n int, a, xs, ys []float64) {
	m := n - 1
	if m <= 0 {
		return
	}
	for i := 0; i < m; i++ {
		var sum float64
		row := a[(i+1)*n+1 : (i+1)*n+1+m]
		for j := 0; j < m; j++ {
			sum += row[j] * xs[j]
		}
		ys[i] -= sum
	}
}

// MatMul computes C ← A*B for n×n row-major blocks.
func MatMul(n int, a, b, c []float64) {
	for i := range c {
		c[i] = 0
	}
	for i := 0; i < n; i++ {
		ai := a[i*n : i*n+n]
		ci := c[i*n : i*n+n]
		for k := 0; k < n; k++ {
			aik := ai[k]
			if aik == 0 {
				continue
			}
			bk := b[k*n : k*n+n]
			for j := 0; j < n; j++ {
				ci[j] += aik * bk[j]
			}
		}
	}
}

// Invert computes A ← A⁻¹ in place for an n×n row-major block, returning
// a *SingularBlockWarning (non-nil but non-fatal) when the block is
// near-singular, per spec.md §4.1: the application may continue with the
// salvaged diagonally-regularized pseudoinverse.
func Invert(n int, a []float64) error {
	switch n {
	case 2:
		return invert2(a)
	case 3:
		return invert3(a)
	case 5:
		return invert5(a)
	default:
		return invertLU(n, a)
	}
}

func invert2(a []float64) error {
	det := a[0]*a[3] - a[1]*a[2]
	if math.Abs(det) < SingularThreshold {
		regularize(2, a)
		return &SingularBlockWarning{Det: det}
	}
	inv := 1 / det
	a0, a1, a2, a3 := a[0], a[1], a[2], a[3]
	a[0] = a3 * inv
	a[1] = -a1 * inv
	a[2] = -a2 * inv
	a[3] = a0 * inv
	return nil
}

// invert3 uses the explicit cofactor (adjugate) formula for a 3×3 block.
func invert3(a []float64) error {
	a00, a01, a02 := a[0], a[1], a[2]
	a10, a11, a12 := a[3], a[4], a[5]
	a20, a21, a22 := a[6], a[7], a[8]

	c00 := a11*a22 - a12*a21
	c01 := -(a10*a22 - a12*a20)
	c02 := a10*a21 - a11*a20
	det := a00*c00 + a01*c01 + a02*c02

	if math.Abs(det) < SingularThreshold {
		regularize(3, a)
		return &SingularBlockWarning{Det: det}
	}

	c10 := -(a01*a22 - a02*a21)
	c11 := a00*a22 - a02*a20
	c12 := -(a00*a21 - a01*a20)
	c20 := a01*a12 - a02*a11
	c21 := -(a00*a12 - a02*a10)
	c22 := a00*a11 - a01*a10

	inv := 1 / det
	// Adjugate is the transpose of the cofactor matrix.
	a[0], a[1], a[2] = c00*inv, c10*inv, c20*inv
	a[3], a[4], a[5] = c01*inv, c11*inv, c21*inv
	a[6], a[7], a[8] = c02*inv, c12*inv, c22*inv
	return nil
}

// invert5 computes the inverse of a 5×5 block via Laplace cofactor
// expansion of each 4×4 minor. Open question (spec.md §9): the FASP
// source's fasp_blas_smat_inv_nc5 is suspected of a copy-paste defect
// in one cofactor term; rather than transcribe it, this uses the
// standard adjugate/cofactor construction, validated by TestInvertSizes
// in block/block_test.go, which checks A·A⁻¹ = I on random
// well-conditioned blocks.
func invert5(a []float64) error {
	const n = 5
	cof := make([]float64, n*n)
	det := 0.0
	for j := 0; j < n; j++ {
		c := cofactor5(a, 0, j)
		cof[j] = c // row 0 cofactors, used for the determinant below
		det += a[j] * c
	}
	if math.Abs(det) < SingularThreshold {
		regularize(n, a)
		return &SingularBlockWarning{Det: det}
	}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i != 0 {
				cof[i*n+j] = cofactor5(a, i, j)
			}
		}
	}
	inv := 1 / det
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			// Adjugate transpose: inverse[i][j] = cofactor[j][i] / det.
			a[i*n+j] = cof[j*n+i] * inv
		}
	}
	return nil
}

// cofactor5 returns the (i,j) cofactor of the 5×5 row-major matrix a:
// (-1)^(i+j) times the determinant of the 4×4 minor obtained by deleting
// row i and column j.
func cofactor5(a []float64, i, j int) float64 {
	const n = 5
	var minor [16]float64
	k := 0
	for r := 0; r < n; r++ {
		if r == i {
			continue
		}
		for c := 0; c < n; c++ {
			if c == j {
				continue
			}
			minor[k] = a[r*n+c]
			k++
		}
	}
	d := det4(minor[:])
	if (i+j)%2 != 0 {
		d = -d
	}
	return d
}

// det4 computes the determinant of a 4×4 row-major matrix by cofactor
// expansion along the first row.
func det4(m []float64) float64 {
	minor := func(skipCol int) float64 {
		var s [9]float64
		k := 0
		for r := 1; r < 4; r++ {
			for c := 0; c < 4; c++ {
				if c == skipCol {
					continue
				}
				s[k] = m[r*4+c]
				k++
			}
		}
		return det3(s[:])
	}
	return m[0]*minor(0) - m[1]*minor(1) + m[2]*minor(2) - m[3]*minor(3)
}

func det3(m []float64) float64 {
	return m[0]*(m[4]*m[8]-m[5]*m[7]) -
		m[1]*(m[3]*m[8]-m[5]*m[6]) +
		m[2]*(m[3]*m[7]-m[4]*m[6])
}

// invertLU computes the inverse of a general n×n block via partial-pivot
// LU factorization and n triangular solves against the identity,
// following the technique gonum.org/v1/gonum/mat64's LU/Dense.Inverse
// machinery uses around lapack64.Getrf/Getrs.
func invertLU(n int, a []float64) error {
	lu := append([]float64(nil), a...)
	ipiv := make([]int, n)
	ok := lapack64.Getrf(blas64.General{Rows: n, Cols: n, Stride: n, Data: lu}, ipiv)

	det := 1.0
	for i := 0; i < n; i++ {
		det *= lu[i*n+i]
	}
	if !ok || math.Abs(det) < SingularThreshold {
		regularize(n, a)
		return &SingularBlockWarning{Det: det}
	}

	inv := make([]float64, n*n)
	for i := 0; i < n; i++ {
		inv[i*n+i] = 1
	}
	b := blas64.General{Rows: n, Cols: n, Stride: n, Data: inv}
	lapack64.Getrs(blas.NoTrans, blas64.General{Rows: n, Cols: n, Stride: n, Data: lu}, b, ipiv)
	copy(a, inv)
	return nil
}

// regularize replaces a near-singular block with a diagonally
// regularized pseudoinverse (1/a_ii on the diagonal, or 1/ε where
// |a_ii| < ε; zero off-diagonal) so that the application can continue, per spec.md §4.1's
// "proceed with the warning logged" contract.
func regularize(n int, a []float64) {
	const eps = 1e-10
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			a[i*n+j] = 0
		}
	}
	for i := 0; i < n; i++ {
		d := a[i*n+i]
		if math.Abs(d) < eps {
			d = eps
		}
		a[i*n+i] = 1 / d
	}
}
