// Package sparse implements the sparse-matrix storage layer (C3):
// multiple schemas for the same mathematical object A ∈ ℝ^(m×n), their
// invariants, conversions between them, and the SpMV contract shared by
// the Krylov engine and the AMG cycle.
//
// Field naming (IA/JA/val for CSR, I/J/val for COO, and so on) follows
// spec.md §3 directly. The underlying row-pointer/column-index/value
// layout is the same one github.com/james-bowman/sparse's CSR type uses
// (there called Indptr/Ind/Data); the pack's andradeandrey-sparse and
// edaniels-sparse snippets both build on that library. The additional
// schemas spec.md requires (BSR, STR, block-CSR-of-CSR, CSRL) have no
// equivalent there and are grown in the same idiom, grounded on
// original_source/core/src/{smoother_str.c,sparse_csrl.c}.
package sparse

import "fmt"

// Operator is the matrix-vector-multiplication contract every schema
// implements: y ← α*A*x + y. A is never mutated by SpMV.
type Operator interface {
	Dims() (rows, cols int)
	SpMV(alpha float64, x, y []float64)
}

// Diagonal is implemented by schemas that can extract their diagonal
// entries in O(row) or better without a full scan.
type Diagonal interface {
	DiagonalTo(dst []float64)
}

// Transposer is implemented by schemas that can multiply by Aᵀ without
// materializing the transpose. The Krylov engine's BiCG-family methods
// require it of whatever Operator they are given.
type Transposer interface {
	SpMVTrans(alpha float64, x, y []float64)
}

func checkDims(name string, rows, cols, xLen, yLen int) {
	if xLen != cols {
		panic(fmt.Sprintf("sparse: %s: x has length %d, want %d", name, xLen, cols))
	}
	if yLen != rows {
		panic(fmt.Sprintf("sparse: %s: y has length %d, want %d", name, yLen, rows))
	}
}
