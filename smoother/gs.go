package smoother

import "github.com/fasp-go/fasp/sparse"

// rowOrder returns the sequence of row indices to visit for the given
// Order, per spec.md §4.4.
func rowOrder(n int, order Order, perm []int, cf []CFMark, firstCoarse bool) []int {
	seq := make([]int, 0, n)
	switch order {
	case Ascending:
		for i := 0; i < n; i++ {
			seq = append(seq, i)
		}
	case Descending:
		for i := n - 1; i >= 0; i-- {
			seq = append(seq, i)
		}
	case UserOrdered:
		seq = append(seq, perm...)
	case CFOrdered:
		want := Coarse
		if !firstCoarse {
			want = Fine
		}
		for i := 0; i < n; i++ {
			if cf[i] == want {
				seq = append(seq, i)
			}
		}
		other := Fine
		if want == Fine {
			other = Coarse
		}
		for i := 0; i < n; i++ {
			if cf[i] == other {
				seq = append(seq, i)
			}
		}
	}
	return seq
}

// gsSweepCSR performs one Gauss-Seidel/SOR sweep over the given row
// order with relaxation weight omega. omega=1 reduces to plain GS.
func gsSweepCSR(a *sparse.CSR, b, x []float64, omega float64, order []int) error {
	for _, i := range order {
		var sum float64
		var diag float64
		for k := a.IA[i]; k < a.IA[i+1]; k++ {
			j := a.JA[k]
			if j == i {
				diag = a.Val[k]
				continue
			}
			sum += a.Val[k] * x[j]
		}
		if diag == 0 {
			return errSingularDiagonal(i)
		}
		xNew := (b[i] - sum) / diag
		x[i] += omega * (xNew - x[i])
	}
	return nil
}

// GaussSeidelCSR applies sweeps Gauss-Seidel relaxations in the given
// order (Ascending/Descending/UserOrdered/CFOrdered). For CFOrdered, two
// half-sweeps run: coarse points first if firstCoarse, else fine first.
func GaussSeidelCSR(a *sparse.CSR, b, x []float64, sweeps int, order Order, perm []int, cf []CFMark, firstCoarse bool) error {
	seq := rowOrder(a.Row, order, perm, cf, firstCoarse)
	for s := 0; s < sweeps; s++ {
		if err := gsSweepCSR(a, b, x, 1, seq); err != nil {
			return err
		}
	}
	return nil
}

// SORCSR applies sweeps SOR relaxations with weight omega ∈ (0,2) in the
// given order.
func SORCSR(a *sparse.CSR, b, x []float64, sweeps int, omega float64, order Order, perm []int, cf []CFMark, firstCoarse bool) error {
	seq := rowOrder(a.Row, order, perm, cf, firstCoarse)
	for s := 0; s < sweeps; s++ {
		if err := gsSweepCSR(a, b, x, omega, seq); err != nil {
			return err
		}
	}
	return nil
}

// GaussSeidelSTR applies ascending or descending Gauss-Seidel sweeps
// directly over a structured banded matrix, avoiding expansion to CSR.
// Grounded on original_source/core/src/smoother_str.c.
func GaussSeidelSTR(a *sparse.STR, b, x []float64, sweeps int, descending bool) error {
	ng := a.Ngrid()
	nc := a.Nc
	dinvBlocks := make([][]float64, ng)
	for i := 0; i < ng; i++ {
		blk := append([]float64(nil), a.Diag[i*nc*nc:i*nc*nc+nc*nc]...)
		dinvBlocks[i] = blk
	}

	// Pre-compute, for each grid point, the bands that touch it and on
	// which side, so a sweep can gather only already-updated or
	// not-yet-updated neighbors depending on direction.
	type touch struct {
		neighbor int
		blockOff int
		band     int
	}
	neighbors := make([][]touch, ng)
	for b, d := range a.Offsets {
		lo, hi := 0, ng
		if d < 0 {
			lo = -d
		}
		if ng-d < hi {
			hi = ng - d
		}
		for i := lo; i < hi; i++ {
			j := i + d
			pos := (i - lo) * nc * nc
			neighbors[i] = append(neighbors[i], touch{neighbor: j, blockOff: pos, band: b})
		}
	}

	tmp := make([]float64, nc)
	rhs := make([]float64, nc)
	for s := 0; s < sweeps; s++ {
		start, end, step := 0, ng, 1
		if descending {
			start, end, step = ng-1, -1, -1
		}
		for i := start; i != end; i += step {
			copy(rhs, b[i*nc:i*nc+nc])
			for _, t := range neighbors[i] {
				blk := a.OffDiag[t.band][t.blockOff : t.blockOff+nc*nc]
				xs := x[t.neighbor*nc : t.neighbor*nc+nc]
				for r := 0; r < nc; r++ {
					var sum float64
					row := blk[r*nc : r*nc+nc]
					for c := 0; c < nc; c++ {
						sum += row[c] * xs[c]
					}
					rhs[r] -= sum
				}
			}
			blk := dinvBlocks[i]
			var err error
			tmp, err = solveSmall(nc, blk, rhs, tmp)
			if err != nil {
				return err
			}
			copy(x[i*nc:i*nc+nc], tmp)
		}
	}
	return nil
}

// solveSmall solves blk*out = rhs for a small nc×nc dense block via
// Gauss elimination with partial pivoting, writing into out (reused
// across calls).
func solveSmall(nc int, blk, rhs, out []float64) ([]float64, error) {
	a := append([]float64(nil), blk...)
	r := append([]float64(nil), rhs...)
	for col := 0; col < nc; col++ {
		piv := col
		best := abs(a[col*nc+col])
		for row := col + 1; row < nc; row++ {
			if v := abs(a[row*nc+col]); v > best {
				best, piv = v, row
			}
		}
		if best == 0 {
			return out, errSingularDiagonal(col)
		}
		if piv != col {
			for k := 0; k < nc; k++ {
				a[col*nc+k], a[piv*nc+k] = a[piv*nc+k], a[col*nc+k]
			}
			r[col], r[piv] = r[piv], r[col]
		}
		pv := a[col*nc+col]
		for row := col + 1; row < nc; row++ {
			f := a[row*nc+col] / pv
			if f == 0 {
				continue
			}
			for k := col; k < nc; k++ {
				a[row*nc+k] -= f * a[col*nc+k]
			}
			r[row] -= f * r[col]
		}
	}
	for row := nc - 1; row >= 0; row-- {
		sum := r[row]
		for k := row + 1; k < nc; k++ {
			sum -= a[row*nc+k] * out[k]
		}
		out[row] = sum / a[row*nc+row]
	}
	return out, nil
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
