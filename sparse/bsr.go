package sparse

import (
	"sort"

	"github.com/fasp-go/fasp/block"
)

// StorageManner selects row-major vs column-major layout within each
// dense block of a BSR matrix (spec.md §3).
type StorageManner int

const (
	// RowMajor is the default within-block layout.
	RowMajor StorageManner = iota
	ColMajor
)

// BSR is a block-compressed-sparse-row matrix: like CSR, but each
// "nonzero" is an nb×nb dense block stored contiguously in Val.
type BSR struct {
	Row, Col int // number of block-rows / block-columns
	NB       int // block size
	Manner   StorageManner
	IA       []int
	JA       []int
	Val      []float64 // length NNZ*NB*NB
}

// NewBSR constructs a BSR matrix from caller-owned slices.
func NewBSR(row, col, nb int, ia, ja []int, val []float64) *BSR {
	if len(ia) != row+1 {
		panic("sparse: BSR: IA must have length row+1")
	}
	nnz := ia[row]
	if len(ja) != nnz {
		panic("sparse: BSR: JA must have length IA[row]")
	}
	if len(val) != nnz*nb*nb {
		panic("sparse: BSR: Val must have length NNZ*nb*nb")
	}
	return &BSR{Row: row, Col: col, NB: nb, IA: ia, JA: ja, Val: val}
}

// Dims returns the scalar (unblocked) dimensions rows=Row*NB, cols=Col*NB.
func (m *BSR) Dims() (int, int) { return m.Row * m.NB, m.Col * m.NB }

// NNZ returns the number of stored nb×nb blocks.
func (m *BSR) NNZ() int {
	if m.NB == 0 {
		return 0
	}
	return len(m.Val) / (m.NB * m.NB)
}

// DiagonalBlockTo copies the raw row-major nb×nb block stored at
// position k into dst, converting from column-major storage if
// necessary. k is a position in JA/Val (as yielded while scanning IA),
// not a block-row/column pair; callers needing a specific diagonal block
// must first locate its k via IA/JA.
func (m *BSR) DiagonalBlockTo(k int, dst []float64) { m.blockAt(k, dst) }

// blockAt returns the raw row-major nb×nb block at stored position k,
// converting from column-major storage if necessary.
func (m *BSR) blockAt(k int, dst []float64) {
	nb := m.NB
	base := k * nb * nb
	if m.Manner == RowMajor {
		copy(dst, m.Val[base:base+nb*nb])
		return
	}
	for i := 0; i < nb; i++ {
		for j := 0; j < nb; j++ {
			dst[i*nb+j] = m.Val[base+j*nb+i]
		}
	}
}

// SpMV implements Operator: y ← α*A*x + y.
func (m *BSR) SpMV(alpha float64, x, y []float64) {
	rows, cols := m.Dims()
	checkDims("BSR.SpMV", rows, cols, len(x), len(y))
	nb := m.NB
	blk := make([]float64, nb*nb)
	tmp := make([]float64, nb)
	for i := 0; i < m.Row; i++ {
		for k := m.IA[i]; k < m.IA[i+1]; k++ {
			j := m.JA[k]
			m.blockAt(k, blk)
			xs := x[j*nb : j*nb+nb]
			block.MatVec(nb, blk, xs, tmp)
			ys := y[i*nb : i*nb+nb]
			for r := 0; r < nb; r++ {
				ys[r] += alpha * tmp[r]
			}
		}
	}
}

// DiagonalTo extracts the scalar diagonal of the expanded matrix
// (diagonal entries of each diagonal block); missing diagonal blocks
// yield zeros.
func (m *BSR) DiagonalTo(dst []float64) {
	rows, _ := m.Dims()
	if len(dst) != rows {
		panic("sparse: BSR.DiagonalTo: destination length mismatch")
	}
	nb := m.NB
	for i := range dst {
		dst[i] = 0
	}
	blk := make([]float64, nb*nb)
	for i := 0; i < m.Row; i++ {
		for k := m.IA[i]; k < m.IA[i+1]; k++ {
			if m.JA[k] != i {
				continue
			}
			m.blockAt(k, blk)
			for d := 0; d < nb; d++ {
				dst[i*nb+d] = blk[d*nb+d]
			}
		}
	}
}

// ToCSR expands the BSR matrix into scalar CSR form.
func (m *BSR) ToCSR() *CSR {
	rows, cols := m.Dims()
	nb := m.NB
	ia := make([]int, rows+1)
	var ja []int
	var val []float64
	blk := make([]float64, nb*nb)
	for bi := 0; bi < m.Row; bi++ {
		rowStarts := make([][]int, nb)
		rowVals := make([][]float64, nb)
		for k := m.IA[bi]; k < m.IA[bi+1]; k++ {
			bj := m.JA[k]
			m.blockAt(k, blk)
			for r := 0; r < nb; r++ {
				for c := 0; c < nb; c++ {
					v := blk[r*nb+c]
					rowStarts[r] = append(rowStarts[r], bj*nb+c)
					rowVals[r] = append(rowVals[r], v)
				}
			}
		}
		for r := 0; r < nb; r++ {
			ja = append(ja, rowStarts[r]...)
			val = append(val, rowVals[r]...)
			ia[bi*nb+r+1] = len(ja)
		}
	}
	_ = cols
	return &CSR{Row: rows, Col: cols, IA: ia, JA: ja, Val: val}
}

// CSRToBSR converts a scalar CSR matrix into BSR with block size nb.
// CSR.Row must be a multiple of nb (spec.md §4.3).
func CSRToBSR(a *CSR, nb int) *BSR {
	if a.Row%nb != 0 || a.Col%nb != 0 {
		panic("sparse: CSRToBSR: dimensions must be a multiple of nb")
	}
	browN := a.Row / nb
	bcolN := a.Col / nb

	// Discover, for each block-row, the set of block-columns touched.
	touched := make([]map[int]bool, browN)
	for bi := range touched {
		touched[bi] = make(map[int]bool)
	}
	for i := 0; i < a.Row; i++ {
		bi := i / nb
		for k := a.IA[i]; k < a.IA[i+1]; k++ {
			touched[bi][a.JA[k]/nb] = true
		}
	}

	ia := make([]int, browN+1)
	ja := make([]int, 0)
	for bi := 0; bi < browN; bi++ {
		cols := make([]int, 0, len(touched[bi]))
		for bj := range touched[bi] {
			cols = append(cols, bj)
		}
		sort.Ints(cols)
		ja = append(ja, cols...)
		ia[bi+1] = len(ja)
	}

	val := make([]float64, len(ja)*nb*nb)
	// Map (bi,bj) -> position in ja for quick lookup while scattering.
	blockPos := make([]map[int]int, browN)
	for bi := 0; bi < browN; bi++ {
		blockPos[bi] = make(map[int]int, ia[bi+1]-ia[bi])
		for p := ia[bi]; p < ia[bi+1]; p++ {
			blockPos[bi][ja[p]] = p
		}
	}
	for i := 0; i < a.Row; i++ {
		bi := i / nb
		r := i % nb
		for k := a.IA[i]; k < a.IA[i+1]; k++ {
			j := a.JA[k]
			bj := j / nb
			c := j % nb
			pos := blockPos[bi][bj]
			val[pos*nb*nb+r*nb+c] = a.Val[k]
		}
	}
	_ = bcolN
	return &BSR{Row: browN, Col: bcolN, NB: nb, IA: ia, JA: ja, Val: val}
}
