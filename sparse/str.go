package sparse

import "github.com/fasp-go/fasp/block"

// STR is a structured, grid-aligned banded matrix (spec.md §3): every
// grid point carries an nc×nc dense block; Diag stores the ngrid
// diagonal blocks consecutively, and each band at integer offset d
// (positive or negative) stores the (ngrid-|d|) off-diagonal blocks
// representing grid-index pairs (i, i+d) for max(0,-d) ≤ i <
// min(ngrid, ngrid-d).
type STR struct {
	Nx, Ny, Nz int
	Nc         int
	Offsets    []int
	Diag       []float64   // length Ngrid*Nc*Nc
	OffDiag    [][]float64 // OffDiag[b] has length (Ngrid-|Offsets[b]|)*Nc*Nc
}

// Ngrid returns nx*ny*nz.
func (m *STR) Ngrid() int { return m.Nx * m.Ny * m.Nz }

// Dims implements Operator.
func (m *STR) Dims() (int, int) {
	n := m.Ngrid() * m.Nc
	return n, n
}

// bandRange returns [lo, hi) the set of grid rows i for which band b (at
// offset d) stores a block, per spec.md §3.
func (m *STR) bandRange(d int) (lo, hi int) {
	ng := m.Ngrid()
	lo = 0
	if -d > 0 {
		lo = -d
	}
	hi = ng
	if ng-d < hi {
		hi = ng - d
	}
	return lo, hi
}

// SpMV implements Operator: y ← α*A*x + y. It iterates band by band,
// touching only the (i, i+d) pairs the band's offset permits so it never
// reads out-of-range blocks at band edges (spec.md §4.3).
func (m *STR) SpMV(alpha float64, x, y []float64) {
	rows, cols := m.Dims()
	checkDims("STR.SpMV", rows, cols, len(x), len(y))
	nc := m.Nc
	ng := m.Ngrid()
	tmp := make([]float64, nc)

	for i := 0; i < ng; i++ {
		blk := m.Diag[i*nc*nc : i*nc*nc+nc*nc]
		xs := x[i*nc : i*nc+nc]
		block.MatVec(nc, blk, xs, tmp)
		ys := y[i*nc : i*nc+nc]
		for r := 0; r < nc; r++ {
			ys[r] += alpha * tmp[r]
		}
	}

	for b, d := range m.Offsets {
		lo, hi := m.bandRange(d)
		band := m.OffDiag[b]
		for i := lo; i < hi; i++ {
			j := i + d
			pos := (i - lo) * nc * nc
			blk := band[pos : pos+nc*nc]
			xs := x[j*nc : j*nc+nc]
			block.MatVec(nc, blk, xs, tmp)
			ys := y[i*nc : i*nc+nc]
			for r := 0; r < nc; r++ {
				ys[r] += alpha * tmp[r]
			}
		}
	}
}

// DiagonalTo extracts the scalar diagonal (diagonal of each diagonal
// block).
func (m *STR) DiagonalTo(dst []float64) {
	rows, _ := m.Dims()
	if len(dst) != rows {
		panic("sparse: STR.DiagonalTo: destination length mismatch")
	}
	nc := m.Nc
	for i := 0; i < m.Ngrid(); i++ {
		blk := m.Diag[i*nc*nc : i*nc*nc+nc*nc]
		for d := 0; d < nc; d++ {
			dst[i*nc+d] = blk[d*nc+d]
		}
	}
}

// ToCSR expands the structured matrix into scalar CSR, used for
// round-tripping against other schemas (spec.md §8 "round-trip STR↔CSR").
func (m *STR) ToCSR() *CSR {
	ng := m.Ngrid()
	nc := m.Nc
	n := ng * nc
	coo := NewCOO(n, n)
	for i := 0; i < ng; i++ {
		blk := m.Diag[i*nc*nc : i*nc*nc+nc*nc]
		for r := 0; r < nc; r++ {
			for c := 0; c < nc; c++ {
				if v := blk[r*nc+c]; v != 0 {
					coo.Append(i*nc+r, i*nc+c, v)
				}
			}
		}
	}
	for b, d := range m.Offsets {
		lo, hi := m.bandRange(d)
		band := m.OffDiag[b]
		for i := lo; i < hi; i++ {
			j := i + d
			pos := (i - lo) * nc * nc
			blk := band[pos : pos+nc*nc]
			for r := 0; r < nc; r++ {
				for c := 0; c < nc; c++ {
					if v := blk[r*nc+c]; v != 0 {
						coo.Append(i*nc+r, j*nc+c, v)
					}
				}
			}
		}
	}
	return coo.ToCSR()
}
