package matio

import (
	"bufio"
	"fmt"
	"io"

	"github.com/fasp-go/fasp/sparse"
)

// ReadSTR reads the structured matrix format of spec.md §6 #5: grid
// dimensions nx ny nz, component count nc, band count nband, the
// diagonal-block length and values, then for each band an
// "offset length" pair followed by that many off-diagonal-block values —
// ported from original_source/core/src/io.c's fasp_dstr_read.
func ReadSTR(r io.Reader) (*sparse.STR, error) {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 64*1024), 16*1024*1024)
	newWordScanner(s)

	nx, ok1 := scanInt(s)
	ny, ok2 := scanInt(s)
	nz, ok3 := scanInt(s)
	if !ok1 || !ok2 || !ok3 {
		return nil, wrongFormat("ReadSTR: missing grid dimensions")
	}
	nc, ok := scanInt(s)
	if !ok {
		return nil, wrongFormat("ReadSTR: missing component count")
	}
	nband, ok := scanInt(s)
	if !ok {
		return nil, wrongFormat("ReadSTR: missing band count")
	}

	m := &sparse.STR{Nx: nx, Ny: ny, Nz: nz, Nc: nc, Offsets: make([]int, nband)}

	dn, ok := scanInt(s)
	if !ok {
		return nil, wrongFormat("ReadSTR: missing diagonal length")
	}
	m.Diag = make([]float64, dn)
	for i := range m.Diag {
		v, ok := scanFloat(s)
		if !ok {
			return nil, wrongFormat("ReadSTR: truncated diagonal at entry %d", i)
		}
		m.Diag[i] = v
	}

	m.OffDiag = make([][]float64, nband)
	for b := 0; b < nband; b++ {
		offset, ok1 := scanInt(s)
		n, ok2 := scanInt(s)
		if !ok1 || !ok2 {
			return nil, wrongFormat("ReadSTR: missing band %d header", b)
		}
		m.Offsets[b] = offset
		band := make([]float64, n)
		for i := range band {
			v, ok := scanFloat(s)
			if !ok {
				return nil, wrongFormat("ReadSTR: truncated band %d at entry %d", b, i)
			}
			band[i] = v
		}
		m.OffDiag[b] = band
	}
	return m, nil
}

// WriteSTR writes m in the structured matrix format of spec.md §6 #5.
func WriteSTR(w io.Writer, m *sparse.STR) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%d %d %d\n", m.Nx, m.Ny, m.Nz)
	fmt.Fprintln(bw, m.Nc)
	fmt.Fprintln(bw, len(m.Offsets))

	fmt.Fprintln(bw, len(m.Diag))
	for _, v := range m.Diag {
		fmt.Fprintf(bw, "%.15e\n", v)
	}

	for b, offset := range m.Offsets {
		band := m.OffDiag[b]
		fmt.Fprintf(bw, "%d %d\n", offset, len(band))
		for _, v := range band {
			fmt.Fprintf(bw, "%.15e\n", v)
		}
	}
	return bw.Flush()
}
