package matio

import (
	"bufio"
	"fmt"
	"io"

	"github.com/fasp-go/fasp/sparse"
)

// ReadCOO reads the COO IJ format of spec.md §6 #3: a header line
// "nrow ncol nnz", then nnz lines "i j a_ij" with 1-based indices,
// grounded on original_source/core/src/io.c's fasp_dcoo_read.
func ReadCOO(r io.Reader) (*sparse.CSR, error) {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 64*1024), 16*1024*1024)
	newWordScanner(s)

	m, ok1 := scanInt(s)
	n, ok2 := scanInt(s)
	nnz, ok3 := scanInt(s)
	if !ok1 || !ok2 || !ok3 {
		return nil, wrongFormat("ReadCOO: missing header")
	}
	if m <= 0 || n <= 0 {
		return nil, wrongFormat("ReadCOO: dimensions %d x %d must be positive", m, n)
	}

	coo := sparse.NewCOO(m, n)
	for k := 0; k < nnz; k++ {
		i, ok1 := scanInt(s)
		j, ok2 := scanInt(s)
		v, ok3 := scanFloat(s)
		if !ok1 || !ok2 || !ok3 {
			return nil, wrongFormat("ReadCOO: truncated at entry %d", k)
		}
		if i < 1 || i > m || j < 1 || j > n {
			return nil, wrongFormat("ReadCOO: entry %d index (%d,%d) outside %d x %d", k, i, j, m, n)
		}
		coo.Append(i-1, j-1, v)
	}
	return coo.ToCSR(), nil
}

// WriteCOO writes a in the COO IJ format of spec.md §6 #3, converting
// 0-based in-memory indices to 1-based on-disk indices.
func WriteCOO(w io.Writer, a *sparse.CSR) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%d %d %d\n", a.Row, a.Col, a.NNZ())
	for i := 0; i < a.Row; i++ {
		a.DoRow(i, func(j int, v float64) {
			fmt.Fprintf(bw, "%d %d %.15e\n", i+1, j+1, v)
		})
	}
	return bw.Flush()
}
