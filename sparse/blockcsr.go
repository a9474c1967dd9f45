package sparse

// BlockCSR is a two-level matrix where each block is itself a CSR matrix
// (or absent, represented by a nil entry), per spec.md §3. It is used
// for saddle-point systems such as A = [[K, Bᵀ], [B, 0]].
type BlockCSR struct {
	BRow, BCol int
	Blocks     []*CSR // length BRow*BCol, row-major; nil entries are absent
}

// NewBlockCSR returns a brow×bcol block matrix with all blocks absent.
func NewBlockCSR(brow, bcol int) *BlockCSR {
	return &BlockCSR{BRow: brow, BCol: bcol, Blocks: make([]*CSR, brow*bcol)}
}

// At returns the (bi,bj) block, or nil if absent.
func (m *BlockCSR) At(bi, bj int) *CSR { return m.Blocks[bi*m.BCol+bj] }

// Set installs blk as the (bi,bj) block.
func (m *BlockCSR) Set(bi, bj int, blk *CSR) { m.Blocks[bi*m.BCol+bj] = blk }

// Dims returns the total scalar dimensions, computed from the row/column
// counts of the diagonal-ish blocks: it requires that every populated
// block in block-row bi agree on row count, and every populated block in
// block-column bj agree on column count.
func (m *BlockCSR) Dims() (int, int) {
	rowOffsets, colOffsets := m.offsets()
	return rowOffsets[m.BRow], colOffsets[m.BCol]
}

// offsets returns the cumulative scalar row/column offset of each
// block-row/block-column boundary.
func (m *BlockCSR) offsets() (rowOff, colOff []int) {
	rowOff = make([]int, m.BRow+1)
	colOff = make([]int, m.BCol+1)
	for bi := 0; bi < m.BRow; bi++ {
		r := 0
		for bj := 0; bj < m.BCol; bj++ {
			if b := m.At(bi, bj); b != nil {
				r = b.Row
				break
			}
		}
		rowOff[bi+1] = rowOff[bi] + r
	}
	for bj := 0; bj < m.BCol; bj++ {
		c := 0
		for bi := 0; bi < m.BRow; bi++ {
			if b := m.At(bi, bj); b != nil {
				c = b.Col
				break
			}
		}
		colOff[bj+1] = colOff[bj] + c
	}
	return rowOff, colOff
}

// SpMV implements Operator: y ← α*A*x + y, dispatching to each present
// block's own SpMV against the matching slice of x and y.
func (m *BlockCSR) SpMV(alpha float64, x, y []float64) {
	rowOff, colOff := m.offsets()
	rows, cols := rowOff[m.BRow], colOff[m.BCol]
	checkDims("BlockCSR.SpMV", rows, cols, len(x), len(y))
	for bi := 0; bi < m.BRow; bi++ {
		ys := y[rowOff[bi]:rowOff[bi+1]]
		for bj := 0; bj < m.BCol; bj++ {
			blk := m.At(bi, bj)
			if blk == nil {
				continue
			}
			xs := x[colOff[bj]:colOff[bj+1]]
			blk.SpMV(alpha, xs, ys)
		}
	}
}
