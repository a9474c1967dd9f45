package matio

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/fasp-go/fasp/sparse"
)

// ReadMatrixMarket reads a real-valued coordinate MatrixMarket file
// (general or symmetric), per spec.md §6 #4. The header-parsing and
// 1-based-to-0-based triple-reading shape is ported directly from the
// teacher's linsolve/internal/mmarket.Reader.Read, generalized from
// mmarket's triplet.Matrix accumulator to sparse.COO and extended with
// the symmetric-expansion rule original_source/core/src/io.c's
// fasp_dmtxsym_read implements: the diagonal is stored once, and every
// off-diagonal entry is stored twice (once at (i,j), once at (j,i)).
func ReadMatrixMarket(r io.Reader) (*sparse.CSR, error) {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 64*1024), 16*1024*1024)

	if !s.Scan() {
		return nil, wrongFormat("ReadMatrixMarket: empty file")
	}
	header := strings.Fields(s.Text())
	if len(header) < 5 || header[0] != "%%MatrixMarket" {
		return nil, wrongFormat("ReadMatrixMarket: missing %%%%MatrixMarket header")
	}
	if header[1] != "matrix" || header[2] != "coordinate" || header[3] != "real" {
		return nil, wrongFormat("ReadMatrixMarket: unsupported matrix type %v", header[1:4])
	}
	sym := header[4] == "symmetric"

	var nr, nc, nnz int
	for s.Scan() {
		line := strings.TrimSpace(s.Text())
		if line == "" || strings.HasPrefix(line, "%") {
			continue
		}
		n, err := fmt.Sscan(line, &nr, &nc, &nnz)
		if err != nil || n != 3 {
			return nil, wrongFormat("ReadMatrixMarket: malformed size line %q", line)
		}
		break
	}
	if sym && nr != nc {
		return nil, wrongFormat("ReadMatrixMarket: symmetric matrix must be square (%d != %d)", nr, nc)
	}

	coo := sparse.NewCOO(nr, nc)
	for k := 0; k < nnz; k++ {
		if !s.Scan() {
			return nil, wrongFormat("ReadMatrixMarket: truncated at entry %d", k)
		}
		var i, j int
		var v float64
		n, err := fmt.Sscan(s.Text(), &i, &j, &v)
		if err != nil || n != 3 {
			return nil, wrongFormat("ReadMatrixMarket: malformed entry %q", s.Text())
		}
		if i < 1 || nr < i || j < 1 || nc < j {
			return nil, wrongFormat("ReadMatrixMarket: index (%d,%d) out of bounds for %dx%d", i, j, nr, nc)
		}
		coo.Append(i-1, j-1, v)
		if sym && i != j {
			coo.Append(j-1, i-1, v)
		}
	}
	return coo.ToCSR(), nil
}

// WriteMatrixMarket writes a as a general real coordinate MatrixMarket
// file (spec.md §6 #4). WriteMatrixMarketSymmetric is the
// lower-triangle-only counterpart for symmetric matrices.
func WriteMatrixMarket(w io.Writer, a *sparse.CSR) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "%%MatrixMarket matrix coordinate real general")
	fmt.Fprintf(bw, "%d %d %d\n", a.Row, a.Col, a.NNZ())
	for i := 0; i < a.Row; i++ {
		a.DoRow(i, func(j int, v float64) {
			fmt.Fprintf(bw, "%d %d %.15e\n", i+1, j+1, v)
		})
	}
	return bw.Flush()
}

// WriteMatrixMarketSymmetric writes only the lower-triangle (including
// diagonal) entries of a, under the convention that the reader expands
// them back into a full symmetric matrix on read (spec.md §6 #4). It does
// not verify a is actually symmetric; the upper triangle is silently
// discarded.
func WriteMatrixMarketSymmetric(w io.Writer, a *sparse.CSR) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "%%MatrixMarket matrix coordinate real symmetric")

	nnz := 0
	for i := 0; i < a.Row; i++ {
		a.DoRow(i, func(j int, v float64) {
			if j <= i {
				nnz++
			}
		})
	}
	fmt.Fprintf(bw, "%d %d %d\n", a.Row, a.Col, nnz)
	for i := 0; i < a.Row; i++ {
		a.DoRow(i, func(j int, v float64) {
			if j <= i {
				fmt.Fprintf(bw, "%d %d %.15e\n", i+1, j+1, v)
			}
		})
	}
	return bw.Flush()
}
