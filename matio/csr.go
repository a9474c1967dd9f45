package matio

import (
	"bufio"
	"fmt"
	"io"

	"github.com/fasp-go/fasp/sparse"
)

// ReadCSR reads the plain CSR text format of spec.md §6 #1: a row count,
// then IA (nrow+1 values, 1-based on disk), then JA (nnz values, 1-based
// on disk), then the nnz nonzero values — grounded on
// original_source/core/src/io.c's fasp_dcsrvec_read, which decrements
// every on-disk IA/JA entry by one while reading.
func ReadCSR(r io.Reader) (*sparse.CSR, error) {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 64*1024), 16*1024*1024)
	newWordScanner(s)

	n, ok := scanInt(s)
	if !ok || n < 0 {
		return nil, wrongFormat("ReadCSR: missing or invalid row count")
	}

	ia := make([]int, n+1)
	for i := range ia {
		v, ok := scanInt(s)
		if !ok {
			return nil, wrongFormat("ReadCSR: truncated IA at entry %d", i)
		}
		ia[i] = v - 1
	}
	if err := checkIA(ia); err != nil {
		return nil, fmt.Errorf("ReadCSR: %w", err)
	}

	nnz := ia[n]
	ja := make([]int, nnz)
	for i := range ja {
		v, ok := scanInt(s)
		if !ok {
			return nil, wrongFormat("ReadCSR: truncated JA at entry %d", i)
		}
		ja[i] = v - 1
	}

	val := make([]float64, nnz)
	for i := range val {
		v, ok := scanFloat(s)
		if !ok {
			return nil, wrongFormat("ReadCSR: truncated values at entry %d", i)
		}
		val[i] = v
	}

	return sparse.NewCSR(n, n, ia, ja, val), nil
}

// WriteCSR writes a in the plain CSR text format of spec.md §6 #1,
// converting 0-based in-memory indices to 1-based on-disk indices.
func WriteCSR(w io.Writer, a *sparse.CSR) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, a.Row)
	for _, v := range a.IA {
		fmt.Fprintln(bw, v+1)
	}
	for _, v := range a.JA {
		fmt.Fprintln(bw, v+1)
	}
	for _, v := range a.Val {
		fmt.Fprintf(bw, "%.15e\n", v)
	}
	return bw.Flush()
}

// ReadCSRVec reads the combined CSR+RHS format of spec.md §6 #2: a CSR
// matrix immediately followed by a row count and that many RHS values,
// grounded on fasp_dcsrvec_read's two-file variant collapsed into one
// stream (fasp_dcsrvec2_read's single-file layout).
func ReadCSRVec(r io.Reader) (*sparse.CSR, []float64, error) {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 64*1024), 16*1024*1024)
	newWordScanner(s)

	n, ok := scanInt(s)
	if !ok || n < 0 {
		return nil, nil, wrongFormat("ReadCSRVec: missing or invalid row count")
	}

	ia := make([]int, n+1)
	for i := range ia {
		v, ok := scanInt(s)
		if !ok {
			return nil, nil, wrongFormat("ReadCSRVec: truncated IA at entry %d", i)
		}
		ia[i] = v - 1
	}
	if err := checkIA(ia); err != nil {
		return nil, nil, fmt.Errorf("ReadCSRVec: %w", err)
	}

	nnz := ia[n]
	ja := make([]int, nnz)
	for i := range ja {
		v, ok := scanInt(s)
		if !ok {
			return nil, nil, wrongFormat("ReadCSRVec: truncated JA at entry %d", i)
		}
		ja[i] = v - 1
	}

	val := make([]float64, nnz)
	for i := range val {
		v, ok := scanFloat(s)
		if !ok {
			return nil, nil, wrongFormat("ReadCSRVec: truncated values at entry %d", i)
		}
		val[i] = v
	}

	bn, ok := scanInt(s)
	if !ok {
		return nil, nil, wrongFormat("ReadCSRVec: missing RHS row count")
	}
	if bn != n {
		return nil, nil, wrongFormat("ReadCSRVec: RHS size %d does not match matrix size %d", bn, n)
	}
	b := make([]float64, bn)
	for i := range b {
		v, ok := scanFloat(s)
		if !ok {
			return nil, nil, wrongFormat("ReadCSRVec: truncated RHS at entry %d", i)
		}
		b[i] = v
	}

	return sparse.NewCSR(n, n, ia, ja, val), b, nil
}

// WriteCSRVec writes the combined CSR+RHS format of spec.md §6 #2.
func WriteCSRVec(w io.Writer, a *sparse.CSR, b []float64) error {
	if a.Row != len(b) {
		return fmt.Errorf("matio: WriteCSRVec: matrix rows %d != rhs length %d", a.Row, len(b))
	}
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, a.Row)
	for _, v := range a.IA {
		fmt.Fprintln(bw, v+1)
	}
	for _, v := range a.JA {
		fmt.Fprintln(bw, v+1)
	}
	for _, v := range a.Val {
		fmt.Fprintf(bw, "%.15e\n", v)
	}
	fmt.Fprintln(bw, len(b))
	for _, v := range b {
		fmt.Fprintf(bw, "%.15e\n", v)
	}
	return bw.Flush()
}
