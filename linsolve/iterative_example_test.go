package linsolve_test

import (
	"math"
	"testing"

	"github.com/fasp-go/fasp/linsolve"
	"github.com/fasp-go/fasp/param"
	"github.com/fasp-go/fasp/sparse"
	"github.com/fasp-go/fasp/vecalg"
	"github.com/stretchr/testify/require"
)

// system represents a linear system A*x=b.
type system struct {
	A *sparse.CSR
	B []float64
}

// l2Projection returns a linear system whose solution is the L2 projection
// of f into the space of piecewise linear functions defined on the given
// grid, assembled element by element the way a finite-element mass matrix
// and load vector would be.
//
// References:
//   - M. Larson, F. Bengzon, The Finite Element Method: Theory,
//     Implementations, and Applications. Springer (2013), Section 1.3.
func l2Projection(grid []float64, f func(float64) float64) system {
	n := len(grid)

	coo := sparse.NewCOO(n, n)
	b := make([]float64, n)
	for i := 0; i < n-1; i++ {
		// h is the length of the i-th element.
		h := grid[i+1] - grid[i]
		coo.Append(i, i, h/3)
		coo.Append(i, i+1, h/6)
		coo.Append(i+1, i, h/6)
		coo.Append(i+1, i+1, h/3)

		b[i] += f(grid[i]) * h / 2
		b[i+1] += f(grid[i+1]) * h / 2
	}

	return system{A: coo.ToCSR(), B: b}
}

func TestL2ProjectionSolvesByCG(t *testing.T) {
	const (
		n  = 10
		x0 = 0.0
		x1 = 1.0
	)
	grid := make([]float64, n+1)
	for i := range grid {
		grid[i] = x0 + (x1-x0)*float64(i)/float64(n)
	}
	sys := l2Projection(grid, func(x float64) float64 {
		return x * math.Sin(x)
	})

	result, err := linsolve.Iterative(sys.A, sys.B, &linsolve.CG{}, &linsolve.Settings{
		Params: param.ITSParam{Tolerance: 1e-10},
	})
	require.NoError(t, err)
	require.Greater(t, result.Stats.Iterations, 0)

	res := make([]float64, len(sys.B))
	copy(res, sys.B)
	sys.A.SpMV(-1, result.X, res)
	require.Less(t, vecalg.Norm2(res), 1e-8)
}
