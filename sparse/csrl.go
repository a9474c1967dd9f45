package sparse

import "sort"

// CSRL ("sorted-by-row-length") is a CSR variant where rows are permuted
// into groups of equal nonzero count, enabling vectorized SpMV over each
// group (spec.md §3). NZDifNum is the number of distinct row lengths;
// RowIndex[p] is the original row for permuted row p; RowStart marks the
// boundary between consecutive length groups (length NZDifNum+1).
type CSRL struct {
	Row, Col int
	NZDifNum int
	RowIndex []int // length Row: permuted-row -> original row
	RowStart []int // length NZDifNum+1
	IA       []int // length Row+1, over permuted rows
	JA       []int
	Val      []float64
}

// CSRToCSRL produces the permutation and group boundaries described in
// spec.md §4.3, grounded on original_source/core/src/sparse_csrl.c.
func CSRToCSRL(a *CSR) *CSRL {
	n := a.Row
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	rowLen := func(i int) int { return a.IA[i+1] - a.IA[i] }
	// Stable sort by ascending row length so rows of equal length stay
	// contiguous and retain their relative original order.
	sort.SliceStable(perm, func(x, y int) bool { return rowLen(perm[x]) < rowLen(perm[y]) })

	ia := make([]int, n+1)
	ja := make([]int, 0, len(a.JA))
	val := make([]float64, 0, len(a.Val))
	rowStart := []int{0}
	var distinct int
	prevLen := -1
	for p, orig := range perm {
		l := rowLen(orig)
		if l != prevLen {
			if prevLen != -1 {
				rowStart = append(rowStart, p)
			}
			distinct++
			prevLen = l
		}
		ia[p] = len(ja)
		for k := a.IA[orig]; k < a.IA[orig+1]; k++ {
			ja = append(ja, a.JA[k])
			val = append(val, a.Val[k])
		}
	}
	ia[n] = len(ja)
	rowStart = append(rowStart, n)

	return &CSRL{
		Row: n, Col: a.Col,
		NZDifNum: distinct,
		RowIndex: perm,
		RowStart: rowStart,
		IA:       ia, JA: ja, Val: val,
	}
}

// Dims implements Operator.
func (m *CSRL) Dims() (int, int) { return m.Row, m.Col }

// SpMV implements Operator: y ← α*A*x + y. y is indexed by the
// *original* row numbering; x is indexed by column as usual.
func (m *CSRL) SpMV(alpha float64, x, y []float64) {
	checkDims("CSRL.SpMV", m.Row, m.Col, len(x), len(y))
	for g := 0; g < m.NZDifNum; g++ {
		for p := m.RowStart[g]; p < m.RowStart[g+1]; p++ {
			var sum float64
			for k := m.IA[p]; k < m.IA[p+1]; k++ {
				sum += m.Val[k] * x[m.JA[k]]
			}
			y[m.RowIndex[p]] += alpha * sum
		}
	}
}

// ToCSR reconstructs the original-ordering CSR matrix.
func (m *CSRL) ToCSR() *CSR {
	ia := make([]int, m.Row+1)
	ja := make([]int, len(m.JA))
	val := make([]float64, len(m.Val))
	for p := 0; p < m.Row; p++ {
		orig := m.RowIndex[p]
		ia[orig+1] = m.IA[p+1] - m.IA[p]
	}
	for i := 0; i < m.Row; i++ {
		ia[i+1] += ia[i]
	}
	for p := 0; p < m.Row; p++ {
		orig := m.RowIndex[p]
		dst := ia[orig]
		for k := m.IA[p]; k < m.IA[p+1]; k++ {
			ja[dst] = m.JA[k]
			val[dst] = m.Val[k]
			dst++
		}
	}
	return &CSR{Row: m.Row, Col: m.Col, IA: ia, JA: ja, Val: val}
}
