package sparse

import "sort"

// CSR is a compressed-sparse-row matrix, per spec.md §3: IA[0..row] is
// non-decreasing with IA[0]=0 and IA[row]=nnz (=len(JA)=len(Val)); column
// indices within a row may be unsorted; each (i,j) pair appears at most
// once. Indexing is zero-based.
type CSR struct {
	Row, Col int
	IA       []int
	JA       []int
	Val      []float64
}

// NewCSR constructs a CSR matrix from caller-owned slices. The slices
// become owned by the returned matrix; callers must not mutate them
// afterwards (ownership is exclusive and copies are deep, per spec.md
// §3's ownership model — use Clone to get an independent copy).
func NewCSR(row, col int, ia, ja []int, val []float64) *CSR {
	if len(ia) != row+1 {
		panic("sparse: CSR: IA must have length row+1")
	}
	if ia[0] != 0 {
		panic("sparse: CSR: IA[0] must be 0")
	}
	nnz := ia[row]
	if len(ja) != nnz || len(val) != nnz {
		panic("sparse: CSR: JA/Val must have length IA[row]")
	}
	return &CSR{Row: row, Col: col, IA: ia, JA: ja, Val: val}
}

// Dims implements Operator.
func (m *CSR) Dims() (int, int) { return m.Row, m.Col }

// NNZ returns the number of stored nonzeros.
func (m *CSR) NNZ() int { return len(m.Val) }

// Clone returns a deep copy of m.
func (m *CSR) Clone() *CSR {
	return &CSR{
		Row: m.Row, Col: m.Col,
		IA:  append([]int(nil), m.IA...),
		JA:  append([]int(nil), m.JA...),
		Val: append([]float64(nil), m.Val...),
	}
}

// SpMV implements Operator: y ← α*A*x + y.
func (m *CSR) SpMV(alpha float64, x, y []float64) {
	checkDims("CSR.SpMV", m.Row, m.Col, len(x), len(y))
	for i := 0; i < m.Row; i++ {
		var sum float64
		for k := m.IA[i]; k < m.IA[i+1]; k++ {
			sum += m.Val[k] * x[m.JA[k]]
		}
		y[i] += alpha * sum
	}
}

// SpMVTrans implements Transposer: y ← α*Aᵀ*x + y, without materializing
// the transpose. Used by Krylov methods (BiCG, QMR-family) that need a
// multiplication with Aᵀ alongside A.
func (m *CSR) SpMVTrans(alpha float64, x, y []float64) {
	checkDims("CSR.SpMVTrans", m.Col, m.Row, len(y), len(x))
	for i := 0; i < m.Row; i++ {
		xi := alpha * x[i]
		if xi == 0 {
			continue
		}
		for k := m.IA[i]; k < m.IA[i+1]; k++ {
			y[m.JA[k]] += xi * m.Val[k]
		}
	}
}

// At returns A[i][j], scanning row i. Returns 0 if absent.
func (m *CSR) At(i, j int) float64 {
	for k := m.IA[i]; k < m.IA[i+1]; k++ {
		if m.JA[k] == j {
			return m.Val[k]
		}
	}
	return 0
}

// DiagonalTo implements Diagonal. Missing diagonal entries are set to
// zero without warning, per spec.md §4.3 (smoothers that require
// non-zero diagonals perform their own checks).
func (m *CSR) DiagonalTo(dst []float64) {
	if len(dst) != m.Row {
		panic("sparse: CSR.DiagonalTo: destination length mismatch")
	}
	for i := 0; i < m.Row; i++ {
		dst[i] = 0
		for k := m.IA[i]; k < m.IA[i+1]; k++ {
			if m.JA[k] == i {
				dst[i] = m.Val[k]
				break
			}
		}
	}
}

// SortRows sorts the column indices (and accompanying values) within
// each row in ascending order, in place.
func (m *CSR) SortRows() {
	for i := 0; i < m.Row; i++ {
		lo, hi := m.IA[i], m.IA[i+1]
		if hi-lo <= 1 {
			continue
		}
		ja := m.JA[lo:hi]
		val := m.Val[lo:hi]
		idx := make([]int, hi-lo)
		for k := range idx {
			idx[k] = k
		}
		sort.Slice(idx, func(a, b int) bool { return ja[idx[a]] < ja[idx[b]] })
		newJA := make([]int, hi-lo)
		newVal := make([]float64, hi-lo)
		for k, id := range idx {
			newJA[k] = ja[id]
			newVal[k] = val[id]
		}
		copy(ja, newJA)
		copy(val, newVal)
	}
}

// Transpose returns a new CSR holding Aᵀ, with column indices sorted
// within each resulting row (spec.md §4.3).
func (m *CSR) Transpose() *CSR {
	nnz := len(m.Val)
	ia := make([]int, m.Col+1)
	for k := 0; k < nnz; k++ {
		ia[m.JA[k]+1]++
	}
	for j := 0; j < m.Col; j++ {
		ia[j+1] += ia[j]
	}
	ja := make([]int, nnz)
	val := make([]float64, nnz)
	next := append([]int(nil), ia...)
	for i := 0; i < m.Row; i++ {
		for k := m.IA[i]; k < m.IA[i+1]; k++ {
			j := m.JA[k]
			pos := next[j]
			ja[pos] = i
			val[pos] = m.Val[k]
			next[j]++
		}
	}
	t := &CSR{Row: m.Col, Col: m.Row, IA: ia, JA: ja, Val: val}
	t.SortRows()
	return t
}

// RowNNZ returns the number of stored nonzeros in row i.
func (m *CSR) RowNNZ(i int) int { return m.IA[i+1] - m.IA[i] }

// DoRow calls fn for every stored (j, v) pair in row i.
func (m *CSR) DoRow(i int, fn func(j int, v float64)) {
	for k := m.IA[i]; k < m.IA[i+1]; k++ {
		fn(m.JA[k], m.Val[k])
	}
}
