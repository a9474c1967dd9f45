// Package matio implements the external matrix/vector file formats of
// spec.md §6: plain CSR text, CSR+RHS combined, COO IJ format,
// MatrixMarket (general and symmetric), the structured STR format, BSR
// format, and dense/indexed vectors. Writers print values with %.15e (16
// significant digits), so a round trip reproduces each value to about one
// unit in the last place; it is not bit-exact in general. The CSR,
// CSR+RHS, COO and MatrixMarket formats keep 1-based indices on disk
// (fasp's convention, ported from original_source/core/src/io.c) and
// convert them to and from 0-based in-memory indices; the BSR format's
// IA/JA and the indexed-vector format store 0-based indices unchanged.
//
// The reader/writer split follows the teacher's
// linsolve/internal/mmarket.Reader: each format is a pair of plain
// functions over an io.Reader/io.Writer, reading tokens through a
// bufio.Scanner and writing through a bufio.Writer, returning plain wrapped
// errors on malformed input rather than panicking (matio never receives
// attacker-controlled input, but a corrupt or truncated file is routine).
package matio

import (
	"fmt"

	"github.com/fasp-go/fasp/ferr"
)

// wrongFormat reports a malformed input file, mirroring spec.md §7's
// WRONGFILE error kind.
func wrongFormat(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), &ferr.SolverError{Code: ferr.WRONGFILE, Solver: "matio"})
}

// openError wraps a file-open failure as spec.md §7's OPENFILE kind.
func openError(path string, err error) error {
	return fmt.Errorf("opening %q: %v: %w", path, err, &ferr.SolverError{Code: ferr.OPENFILE, Solver: "matio"})
}

// checkIA validates a decoded (0-based) IA array before it is handed to
// sparse.NewCSR, which panics on a malformed one — file input is never
// trusted enough to risk that panic.
func checkIA(ia []int) error {
	if len(ia) == 0 || ia[0] != 0 {
		return fmt.Errorf("IA[0] must decode to 0 (got on-disk value %d)", ia[0]+1)
	}
	for i := 1; i < len(ia); i++ {
		if ia[i] < ia[i-1] {
			return fmt.Errorf("IA must be nondecreasing (IA[%d]=%d < IA[%d]=%d)", i, ia[i], i-1, ia[i-1])
		}
	}
	return nil
}
