package sparse

import "sort"

// COO is a coordinate-format sparse matrix: triple lists with no
// ordering requirement (spec.md §3). Appending an (i,j) pair that
// already exists is permitted; duplicates are summed on conversion to
// CSR, matching gonum.org/v1/gonum/linsolve's internal/triplet.Matrix
// append-without-dedup behavior.
type COO struct {
	Row, Col int
	I, J     []int
	Val      []float64
}

// NewCOO returns an empty row×col COO matrix.
func NewCOO(row, col int) *COO {
	if row <= 0 || col <= 0 {
		panic("sparse: COO: dimensions must be positive")
	}
	return &COO{Row: row, Col: col}
}

// Append adds a nonzero entry without checking for an existing entry at
// (i,j); duplicates are summed when the matrix is converted to CSR.
func (m *COO) Append(i, j int, v float64) {
	if i < 0 || m.Row <= i {
		panic("sparse: COO.Append: row index out of range")
	}
	if j < 0 || m.Col <= j {
		panic("sparse: COO.Append: column index out of range")
	}
	m.I = append(m.I, i)
	m.J = append(m.J, j)
	m.Val = append(m.Val, v)
}

// Dims implements Operator.
func (m *COO) Dims() (int, int) { return m.Row, m.Col }

// NNZ returns the number of stored (possibly duplicate) triples.
func (m *COO) NNZ() int { return len(m.Val) }

// SpMV implements Operator: y ← α*A*x + y.
func (m *COO) SpMV(alpha float64, x, y []float64) {
	checkDims("COO.SpMV", m.Row, m.Col, len(x), len(y))
	for k, v := range m.Val {
		y[m.I[k]] += alpha * v * x[m.J[k]]
	}
}

// ToCSR converts the COO matrix to CSR, stably preserving duplicate
// detection: entries that share an (i,j) pair are summed into a single
// stored value, per spec.md §4.3.
func (m *COO) ToCSR() *CSR {
	nnzRow := make([]int, m.Row+1)
	for _, i := range m.I {
		nnzRow[i+1]++
	}
	for i := 0; i < m.Row; i++ {
		nnzRow[i+1] += nnzRow[i]
	}

	n := len(m.I)
	order := make([]int, n)
	for k := range order {
		order[k] = k
	}
	// Stable sort by row then column so duplicates land adjacently and
	// in deterministic, first-seen-first order within a cell.
	sort.SliceStable(order, func(a, b int) bool {
		ka, kb := order[a], order[b]
		if m.I[ka] != m.I[kb] {
			return m.I[ka] < m.I[kb]
		}
		return m.J[ka] < m.J[kb]
	})

	ja := make([]int, 0, n)
	val := make([]float64, 0, n)
	ia := make([]int, m.Row+1)

	row := 0
	for k := 0; k < len(order); {
		idx := order[k]
		i := m.I[idx]
		for row <= i {
			ia[row] = len(ja)
			row++
		}
		j := m.J[idx]
		sum := m.Val[idx]
		k++
		for k < len(order) && m.I[order[k]] == i && m.J[order[k]] == j {
			sum += m.Val[order[k]]
			k++
		}
		ja = append(ja, j)
		val = append(val, sum)
	}
	for row <= m.Row {
		ia[row] = len(ja)
		row++
	}

	return &CSR{Row: m.Row, Col: m.Col, IA: ia, JA: ja, Val: val}
}

// CSRToCOO converts a CSR matrix to COO format (spec.md §4.3).
func CSRToCOO(a *CSR) *COO {
	m := NewCOO(a.Row, a.Col)
	m.I = make([]int, 0, len(a.Val))
	m.J = make([]int, 0, len(a.Val))
	m.Val = make([]float64, len(a.Val))
	copy(m.Val, a.Val)
	for i := 0; i < a.Row; i++ {
		for k := a.IA[i]; k < a.IA[i+1]; k++ {
			m.I = append(m.I, i)
			m.J = append(m.J, a.JA[k])
		}
	}
	return m
}
