package matio

import (
	"bufio"
	"fmt"
	"io"

	"github.com/fasp-go/fasp/param"
)

// ReadVector reads the plain dense vector format of spec.md §6 #7: a
// count n followed by n values, ported from
// original_source/core/src/io.c's fasp_dvec_read.
func ReadVector(r io.Reader) ([]float64, error) {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 64*1024), 16*1024*1024)
	newWordScanner(s)

	n, ok := scanInt(s)
	if !ok {
		return nil, wrongFormat("ReadVector: missing length")
	}
	v := make([]float64, n)
	for i := range v {
		val, ok := scanFloat(s)
		if !ok {
			return nil, wrongFormat("ReadVector: truncated at entry %d", i)
		}
		v[i] = val
	}
	return v, nil
}

// WriteVector writes v in the plain dense vector format of spec.md §6 #7.
func WriteVector(w io.Writer, v []float64) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, len(v))
	for _, x := range v {
		fmt.Fprintf(bw, "%.15e\n", x)
	}
	return bw.Flush()
}

// ReadIndexedVector reads the indexed dense-vector variant of spec.md §6
// #7: a count n followed by n "index value" pairs, which need not cover
// every position in [0,n) or appear in order; unvisited positions stay
// zero. Ported from original_source/core/src/io.c's
// fasp_dvecind_read, including its out-of-range/overflow warning (here
// surfaced as a WRONGFILE error rather than a printed warning, since
// silently dropping a bad index would corrupt the result).
func ReadIndexedVector(r io.Reader) ([]float64, error) {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 64*1024), 16*1024*1024)
	newWordScanner(s)

	n, ok := scanInt(s)
	if !ok {
		return nil, wrongFormat("ReadIndexedVector: missing length")
	}
	v := make([]float64, n)
	for k := 0; k < n; k++ {
		idx, ok1 := scanInt(s)
		val, ok2 := scanFloat(s)
		if !ok1 || !ok2 {
			return nil, wrongFormat("ReadIndexedVector: truncated at entry %d", k)
		}
		if idx < 0 || idx >= n || val > param.BigReal {
			return nil, wrongFormat("ReadIndexedVector: index=%d value=%g out of range for length %d", idx, val, n)
		}
		v[idx] = val
	}
	return v, nil
}

// WriteIndexedVector writes v in the indexed dense-vector format of
// spec.md §6 #7. The header count n doubles as both the vector's length
// and the number of "index value" pairs that follow (fasp_dvecind_read
// allocates a length-n vector and then reads exactly n pairs), so every
// position is emitted — there is no sparser on-disk encoding for this
// format without losing round-trip exactness.
func WriteIndexedVector(w io.Writer, v []float64) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, len(v))
	for i, x := range v {
		fmt.Fprintf(bw, "%d %.15e\n", i, x)
	}
	return bw.Flush()
}
