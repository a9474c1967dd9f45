// Package smoother implements the relaxation schemes of C4: Jacobi,
// Gauss-Seidel (with ordering variants), SOR, a polynomial smoother, ILU
// apply, and block-Schwarz. Jacobi, Gauss-Seidel and SOR take
// (A, b, x, sweepCount, [orderInfo]) and mutate x in place; the
// polynomial and Schwarz smoothers also take the state their setup
// functions precompute, and ILUApply takes the factors, r and x, with no
// sweep count. The smoothers do not share one signature.
//
// Grounded on original_source/base/src/smoother_poly.c (polynomial
// bandwidth estimate + recurrence) and core/src/smoother_str.c (ordered
// STR sweeps); the block-diagonal inversion step reuses the block
// package the way Jacobi setup in the FASP sources pre-inverts diagonal
// blocks once at setup.
package smoother

import (
	"fmt"
)

// Order selects the row-visitation order for Gauss-Seidel/SOR sweeps,
// per spec.md §4.4.
type Order int

const (
	Ascending Order = iota
	Descending
	UserOrdered
	CFOrdered
)

// CFMark labels a row as coarse or fine for CF-ordered sweeps.
type CFMark int8

const (
	Fine CFMark = iota
	Coarse
)

// errSingularDiagonal reports that a required diagonal entry was zero.
func errSingularDiagonal(i int) error {
	return fmt.Errorf("smoother: singular diagonal at row %d", i)
}

