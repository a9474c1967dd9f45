package matio

import (
	"bufio"
	"fmt"
	"io"

	"github.com/fasp-go/fasp/sparse"
)

// ReadBSR reads the BSR format of spec.md §6 #6: "ROW COL NNZ", block
// size nb, storage manner, then length-prefixed IA, JA, and val arrays —
// ported from original_source/core/src/io.c's fasp_dbsr_read, which
// reads each array's own length before its values rather than deriving
// lengths from ROW/NNZ (the on-disk lengths are trusted and checked for
// consistency against the header here).
func ReadBSR(r io.Reader) (*sparse.BSR, error) {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 64*1024), 16*1024*1024)
	newWordScanner(s)

	row, ok1 := scanInt(s)
	col, ok2 := scanInt(s)
	nnz, ok3 := scanInt(s)
	if !ok1 || !ok2 || !ok3 {
		return nil, wrongFormat("ReadBSR: missing ROW COL NNZ header")
	}
	nb, ok := scanInt(s)
	if !ok {
		return nil, wrongFormat("ReadBSR: missing block size")
	}
	manner, ok := scanInt(s)
	if !ok {
		return nil, wrongFormat("ReadBSR: missing storage manner")
	}

	iaLen, ok := scanInt(s)
	if !ok || iaLen != row+1 {
		return nil, wrongFormat("ReadBSR: IA length %d does not match ROW+1=%d", iaLen, row+1)
	}
	ia := make([]int, iaLen)
	for i := range ia {
		v, ok := scanInt(s)
		if !ok {
			return nil, wrongFormat("ReadBSR: truncated IA at entry %d", i)
		}
		ia[i] = v
	}

	jaLen, ok := scanInt(s)
	if !ok || jaLen != nnz {
		return nil, wrongFormat("ReadBSR: JA length %d does not match NNZ=%d", jaLen, nnz)
	}
	ja := make([]int, jaLen)
	for i := range ja {
		v, ok := scanInt(s)
		if !ok {
			return nil, wrongFormat("ReadBSR: truncated JA at entry %d", i)
		}
		ja[i] = v
	}

	valLen, ok := scanInt(s)
	if !ok || valLen != nnz*nb*nb {
		return nil, wrongFormat("ReadBSR: val length %d does not match NNZ*nb*nb=%d", valLen, nnz*nb*nb)
	}
	val := make([]float64, valLen)
	for i := range val {
		v, ok := scanFloat(s)
		if !ok {
			return nil, wrongFormat("ReadBSR: truncated val at entry %d", i)
		}
		val[i] = v
	}

	if ia[row] != nnz {
		return nil, wrongFormat("ReadBSR: IA[ROW]=%d does not match declared NNZ=%d", ia[row], nnz)
	}

	m := sparse.NewBSR(row, col, nb, ia, ja, val)
	m.Manner = sparse.StorageManner(manner)
	return m, nil
}

// WriteBSR writes m in the BSR format of spec.md §6 #6.
func WriteBSR(w io.Writer, m *sparse.BSR) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%d %d %d\n", m.Row, m.Col, m.NNZ())
	fmt.Fprintln(bw, m.NB)
	fmt.Fprintln(bw, int(m.Manner))

	fmt.Fprintln(bw, len(m.IA))
	for _, v := range m.IA {
		fmt.Fprintln(bw, v)
	}
	fmt.Fprintln(bw, len(m.JA))
	for _, v := range m.JA {
		fmt.Fprintln(bw, v)
	}
	fmt.Fprintln(bw, len(m.Val))
	for _, v := range m.Val {
		fmt.Fprintf(bw, "%.15e\n", v)
	}
	return bw.Flush()
}
