package linsolve

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/fasp-go/fasp/block"
	"github.com/fasp-go/fasp/sparse"
	"gonum.org/v1/gonum/lapack/testlapack"
)

const defaultTol = 1e-13

// testCase is a linear system A*x=b with a known solution, used to
// exercise every Method against matrices with different spectra and
// symmetry properties.
type testCase struct {
	name string

	op   sparse.Operator // Also implements sparse.Transposer
	b    []float64       // Right-hand side vector
	diag []float64       // Diagonal for the Jacobi preconditioner
	tol  float64         // Tolerance for the convergence criterion

	want []float64 // Expected solution
}

// Precon implements a Jacobi preconditioner from tc.diag, or the identity
// if tc.diag is nil.
func (tc *testCase) Precon(dst []float64, _ bool, rhs []float64) error {
	if tc.diag == nil {
		copy(dst, rhs)
		return nil
	}
	for i, d := range tc.diag {
		dst[i] = rhs[i] / d
	}
	return nil
}

// denseOperator wraps a row-major n×n dense matrix (and its transpose,
// built once when the operator is created) as a sparse.Operator/sparse.Transposer, the way the teacher
// wraps mat.Dense/mat.SymDense/mat.BandDense for its random test
// matrices. Matrix-vector products go through block.MatVecAxpby, the
// same dense kernel the AMG coarsest-level solver uses.
type denseOperator struct {
	n     int
	a, at []float64
}

func newDenseOperator(n int, a []float64) *denseOperator {
	at := make([]float64, n*n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			at[j*n+i] = a[i*n+j]
		}
	}
	return &denseOperator{n: n, a: a, at: at}
}

func (d *denseOperator) Dims() (int, int) { return d.n, d.n }

func (d *denseOperator) SpMV(alpha float64, x, y []float64) {
	block.MatVecAxpby(d.n, alpha, d.a, x, 1, y)
}

func (d *denseOperator) SpMVTrans(alpha float64, x, y []float64) {
	block.MatVecAxpby(d.n, alpha, d.at, x, 1, y)
}

// denseSolve returns the solution of a*x=b for a row-major n×n matrix a,
// via block.Invert, used to compute the reference "want" vector for a
// test fixture.
func denseSolve(n int, a []float64, b []float64) []float64 {
	inv := append([]float64(nil), a...)
	if err := block.Invert(n, inv); err != nil {
		panic(fmt.Sprintf("linsolve: bad test matrix: %v", err))
	}
	x := make([]float64, n)
	block.MatVec(n, inv, b, x)
	return x
}

func spdTestCases(rnd *rand.Rand) []testCase {
	return []testCase{
		newRandomSPD(1, rnd),
		newRandomSPD(2, rnd),
		newRandomSPD(3, rnd),
		newRandomSPD(4, rnd),
		newRandomSPD(5, rnd),
		newRandomSPD(10, rnd),
		newRandomSPD(20, rnd),
		newRandomSPD(50, rnd),
		newRandomDiagonal(2, rnd),
		newRandomDiagonal(3, rnd),
		newRandomDiagonal(4, rnd),
		newRandomDiagonal(5, rnd),
		newRandomDiagonal(10, rnd),
		newRandomDiagonal(20, rnd),
		newRandomDiagonal(50, rnd),
		newGreenbaum41(24, 0.001, 1, 0.4, rnd),
		newGreenbaum41(24, 0.001, 1, 0.6, rnd),
		newGreenbaum41(24, 0.001, 1, 0.8, rnd),
		newGreenbaum41(24, 0.001, 1, 1, rnd),
		newPoisson1D(32, random(rnd)),
		newPoisson2D(16, 16, one),
	}
}

// newRandomSPD returns a test case with a random symmetric
// positive-definite matrix of order n, and a random right-hand side.
func newRandomSPD(n int, rnd *rand.Rand) testCase {
	c := make([]float64, n*n)
	for i := range c {
		c[i] = rnd.NormFloat64()
	}
	// A = C*Cᵀ + n*I, guaranteed SPD.
	a := make([]float64, n*n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			var sum float64
			for k := 0; k < n; k++ {
				sum += c[i*n+k] * c[j*n+k]
			}
			a[i*n+j] = sum
		}
		a[i*n+i] += float64(n)
	}
	b := make([]float64, n)
	for i := range b {
		b[i] = 1 / math.Sqrt(float64(n))
	}
	want := denseSolve(n, a, b)

	diag := make([]float64, n)
	for i := range diag {
		diag[i] = a[i*n+i]
	}
	return testCase{
		name: fmt.Sprintf("Random SPD n=%v", n),
		op:   newDenseOperator(n, a),
		b:    b,
		tol:  defaultTol,
		diag: diag,
		want: want,
	}
}

// newRandomDiagonal returns a test case with a diagonal matrix with
// random positive elements, a random right-hand side and a known
// solution.
func newRandomDiagonal(n int, rnd *rand.Rand) testCase {
	a := make([]float64, n*n)
	diag := make([]float64, n)
	for i := 0; i < n; i++ {
		v := 1 + 10*rnd.Float64()
		a[i*n+i] = v
		diag[i] = v
	}
	b := make([]float64, n)
	for i := range b {
		b[i] = 1 / math.Sqrt(float64(n))
	}
	want := make([]float64, n)
	for i := range want {
		want[i] = b[i] / diag[i]
	}
	return testCase{
		name: fmt.Sprintf("Random diagonal n=%v", n),
		op:   newDenseOperator(n, a),
		b:    b,
		tol:  defaultTol,
		diag: diag,
		want: want,
	}
}

// newGreenbaum41 returns a test case with a symmetric positive-definite
// matrix A = U*D*Uᵀ, where U is a random orthogonal matrix and D is a
// diagonal matrix with entries
//
//	d_i = d_1 + (i-1)/(n-1)*(d_n-d_1)*rho^{n-i},   i = 2,...,n-1.
//
// This matrix is described in Section 4.1 of
//
//	Greenbaum, A. (1997). Iterative Methods for Solving Linear Systems. SIAM.
func newGreenbaum41(n int, d1, dn, rho float64, rnd *rand.Rand) testCase {
	if n < 2 || dn < d1 {
		panic("bad test")
	}
	d := make([]float64, n)
	d[0] = d1
	d[n-1] = dn
	for i := 1; i < n-1; i++ {
		d[i] = d1 + float64(i)/float64(n-1)*(dn-d1)*math.Pow(rho, float64(n-i-1))
	}
	a := make([]float64, n*n)
	testlapack.Dlagsy(n, 0, d, a, n, rnd, make([]float64, 2*n))

	b := make([]float64, n)
	for i := range b {
		b[i] = rnd.NormFloat64()
	}
	want := denseSolve(n, a, b)

	diag := make([]float64, n)
	for i := range diag {
		diag[i] = a[i*n+i]
	}
	return testCase{
		name: fmt.Sprintf("Greenbaum 4.1 n=%v,d_1=%v,d_n=%v,rho=%v", n, d1, dn, rho),
		op:   newDenseOperator(n, a),
		b:    b,
		tol:  defaultTol,
		diag: diag,
		want: want,
	}
}

func nonsym3x3() testCase {
	a := []float64{
		5, -1, 3,
		-1, 2, -2,
		3, -2, 3,
	}
	return testCase{
		name: "nonsym 3x3",
		op:   newDenseOperator(3, a),
		b:    []float64{7, -1, 4},
		diag: []float64{5, 2, 3},
		tol:  defaultTol,
		want: []float64{1, 1, 1},
	}
}

func nonsymTridiag(n int) testCase {
	coo := sparse.NewCOO(n, n)
	for i := 0; i < n; i++ {
		if i > 0 {
			coo.Append(i, i-1, -2)
		}
		coo.Append(i, i, 4)
		if i < n-1 {
			coo.Append(i, i+1, -1)
		}
	}
	b := make([]float64, n)
	for i := range b {
		switch i {
		case 0:
			b[i] = 3
		default:
			b[i] = 1
		case n - 1:
			b[i] = 2
		}
	}
	want := make([]float64, n)
	for i := range want {
		want[i] = 1
	}
	return testCase{
		name: fmt.Sprintf("Nonsym tridiag n=%v", n),
		op:   coo.ToCSR(),
		b:    b,
		tol:  defaultTol,
		want: want,
	}
}

// newPoisson1D returns a test case that arises from a finite-difference
// discretization of the Poisson equation -∂_x ∂_x u = f on [0,1].
func newPoisson1D(nx int, f func(float64, float64) float64) testCase {
	tc := newPDE(nx, 1, negOne, nil, zero, nil, zero, f)
	tc.name = fmt.Sprintf("Poisson 1D nx=%v", nx)
	return tc
}

// newPoisson2D returns a test case that arises from a finite-difference
// discretization of the Poisson equation -Δu = f on [0,1]×[0,1].
func newPoisson2D(nx, ny int, f func(float64, float64) float64) testCase {
	tc := newPDE(nx, ny, negOne, negOne, zero, zero, zero, f)
	tc.name = fmt.Sprintf("Poisson 2D nx=%v,ny=%v", nx, ny)
	tc.tol = 1e-12
	return tc
}

// newGreenbaum54 returns a test case with a general unsymmetric matrix
// A = V*D*V⁻¹, where V is a random matrix and D is a block-diagonal
// matrix with n1 complex and n2 real eigenvalues.
//
// This matrix is described in Section 5.4 of
//
//	Greenbaum, A. (1997). Iterative Methods for Solving Linear Systems. SIAM.
func newGreenbaum54(n1, n2 int, rnd *rand.Rand) testCase {
	n := 2*n1 + n2
	d := make([]float64, n*n)
	for i := 0; i < 2*n1; i += 2 {
		// The 2x2 block has eigenvalues a±b*i.
		a := rnd.Float64() + 1 // real part in [1,2)
		b := 2*rnd.Float64() - 1
		d[i*n+i] = a
		d[i*n+i+1] = b
		d[(i+1)*n+i] = -b
		d[(i+1)*n+i+1] = a
	}
	for i := 2 * n1; i < n; i++ {
		r := 9*rnd.Float64() + 1
		if rnd.Intn(2) == 0 {
			r *= -1
		}
		d[i*n+i] = r
	}
	v := make([]float64, n*n)
	for i := range v {
		v[i] = rnd.NormFloat64()
	}

	vd := make([]float64, n*n)
	block.MatMul(n, v, d, vd)

	vInv := append([]float64(nil), v...)
	if err := block.Invert(n, vInv); err != nil {
		panic(fmt.Sprintf("linsolve: bad test matrix: %v", err))
	}
	a := make([]float64, n*n)
	block.MatMul(n, vd, vInv, a)

	b := make([]float64, n)
	for i := range b {
		b[i] = rnd.NormFloat64()
	}
	want := denseSolve(n, a, b)

	return testCase{
		name: fmt.Sprintf("Greenbaum 5.4 n=%v,n1=%v,n2=%v", n, n1, n2),
		op:   newDenseOperator(n, a),
		b:    b,
		tol:  defaultTol,
		want: want,
	}
}

// newGreenbaum73 returns a test case that arises from a finite-difference
// discretization of -Δu + 40*(x*∂_x u + y*∂_y u) - 100*u = f.
//
// This test problem is described in Section 7.3 of
//
//	Greenbaum, A. (1997). Iterative Methods for Solving Linear Systems. SIAM.
func newGreenbaum73(nx, ny int, rnd *rand.Rand) testCase {
	tc := newPDE(nx, ny,
		negOne, negOne,
		func(x, _ float64) float64 { return 40 * x },
		func(_, y float64) float64 { return 40 * y },
		constant(-100), random(rnd))
	tc.name = fmt.Sprintf("Greenbaum 7.3 nx=%v,ny=%v", nx, ny)
	return tc
}

// newPDENonsymmetric returns a test case that arises from a
// finite-difference discretization of
//
//	Δu + henk*∂_x u + (∂_x henk/2)*u = f
//
// where henk(x,y) := 20*exp(3.5*(x^2 + y^2)).
//
// Adapted from http://www.netlib.org/templates/dftemplates.tgz
func newPDENonsymmetric(nx, ny int, rnd *rand.Rand) testCase {
	tc := newPDE(nx, ny, one, one, henk, zero, dhenkdx, random(rnd))
	tc.name = fmt.Sprintf("PDE Nonsymmetric nx=%v,ny=%v", nx, ny)
	return tc
}

func henk(x, y float64) float64 {
	return 20 * math.Exp(3.5*(x*x+y*y))
}

func dhenkdx(x, y float64) float64 {
	return 70 * x * math.Exp(3.5*(x*x+y*y))
}

// newPDEYang returns a test case that arises from a finite-difference
// discretization of Δu + 1000*∂_x u = f, which loses diagonal dominance
// due to the large advective coefficient.
//
// This test case corresponds to Eq. 4.7 in
//
//	Ulrike Meier Yang (1994), Preconditioned Conjugate Gradient-Like
//	Methods for Nonsymmetric Linear Systems.
func newPDEYang(nx, ny int, rnd *rand.Rand) testCase {
	tc := newPDE(nx, ny, one, one, constant(1000), zero, zero, random(rnd))
	tc.name = fmt.Sprintf("PDE Yang, Eq. 4.7 nx=%v,ny=%v", nx, ny)
	return tc
}

// newPDE returns a test case that arises from a finite-difference
// discretization of
//
//	∂_x (a ∂_x u) + ∂_y (b ∂_y u) + c ∂_x u + d ∂_y u + e u = f
//
// on the unit square [0,1]×[0,1] with zero Dirichlet boundary conditions.
//
// nx and ny must be positive. If ny is 1, a 1D variant of the equation on
// [0,1]×{0} is used, and b and d are not referenced.
func newPDE(nx, ny int, a, b, c, d, e, f func(float64, float64) float64) testCase {
	if nx <= 0 || ny <= 0 {
		panic("invalid mesh size")
	}

	var (
		coo  *sparse.COO
		rhs  []float64
		diag []float64
	)
	if ny == 1 {
		coo, rhs, diag = newPDESystem1D(nx, a, c, e, f)
	} else {
		coo, rhs, diag = newPDESystem2D(nx, ny, a, b, c, d, e, f)
	}
	csr := coo.ToCSR()
	n := len(rhs)
	dense := make([]float64, n*n)
	for i := 0; i < n; i++ {
		for k := csr.IA[i]; k < csr.IA[i+1]; k++ {
			dense[i*n+csr.JA[k]] = csr.Val[k]
		}
	}
	want := denseSolve(n, dense, rhs)

	return testCase{
		op:   csr,
		b:    rhs,
		tol:  defaultTol,
		diag: diag,
		want: want,
	}
}

// newPDESystem1D assembles the matrix, right-hand side, and diagonal for
// a 1-dimensional PDE problem.
func newPDESystem1D(nx int, a, b, c, f func(float64, float64) float64) (coo *sparse.COO, rhs, diag []float64) {
	h := 1 / float64(nx+1)
	coo = sparse.NewCOO(nx, nx)
	rhs = make([]float64, nx)
	diag = make([]float64, nx)
	var i int
	for ix := 0; ix < nx; ix++ {
		s := newStencil1D(ix, h, a, b, c)
		if ix > 0 {
			coo.Append(i, i-1, s.left)
		}
		coo.Append(i, i, s.center)
		diag[i] = s.center
		if ix < nx-1 {
			coo.Append(i, i+1, s.right)
		}
		x := float64(ix+1) * h
		rhs[i] = f(x, 0) * h * h
		i++
	}
	return coo, rhs, diag
}

type stencil1D struct {
	left, right float64
	center      float64
}

// newStencil1D returns a finite difference stencil approximating
// ∂_x (a ∂_x u) + b ∂_x u + c u at point [(i+1)*h].
func newStencil1D(i int, h float64, a, b, c func(float64, float64) float64) (s stencil1D) {
	x := float64(i+1) * h

	coeff := a(x+0.5*h, 0)
	s.center -= coeff
	s.right = coeff
	coeff = a(x-0.5*h, 0)
	s.center -= coeff
	s.left = coeff

	coeff = b(x, 0)
	s.right += 0.5 * h * coeff
	s.left -= 0.5 * h * coeff

	s.center += h * h * c(x, 0)
	return s
}

// newPDESystem2D assembles the matrix, right-hand side, and diagonal for
// a 2-dimensional PDE problem. Node (ix,iy) maps to index ix+iy*nx.
func newPDESystem2D(nx, ny int, a, b, c, d, e, f func(float64, float64) float64) (coo *sparse.COO, rhs, diag []float64) {
	h := 1 / float64(nx+1)
	n := nx * ny
	coo = sparse.NewCOO(n, n)
	rhs = make([]float64, n)
	diag = make([]float64, n)
	var i int
	for iy := 0; iy < ny; iy++ {
		y := float64(iy+1) * h
		for ix := 0; ix < nx; ix++ {
			s := newStencil2D(ix, iy, h, a, b, c, d, e)
			if iy > 0 {
				coo.Append(i, i-nx, s.down)
			}
			if ix > 0 {
				coo.Append(i, i-1, s.left)
			}
			coo.Append(i, i, s.center)
			diag[i] = s.center
			if ix < nx-1 {
				coo.Append(i, i+1, s.right)
			}
			if iy < ny-1 {
				coo.Append(i, i+nx, s.up)
			}
			x := float64(ix+1) * h
			rhs[i] = f(x, y) * h * h
			i++
		}
	}
	return coo, rhs, diag
}

type stencil2D struct {
	left, right float64
	up, down    float64
	center      float64
}

// newStencil2D returns a finite difference stencil approximating
// ∂_x (a ∂_x u) + ∂_y (b ∂_y u) + c ∂_x u + d ∂_y u + e u at point
// [(i+1)*h,(j+1)*h].
func newStencil2D(i, j int, h float64, a, b, c, d, e func(float64, float64) float64) (s stencil2D) {
	x := float64(i+1) * h
	y := float64(j+1) * h

	coeff := a(x+0.5*h, y)
	s.center -= coeff
	s.right = coeff
	coeff = a(x-0.5*h, y)
	s.center -= coeff
	s.left = coeff
	coeff = b(x+0.5*h, y)
	s.center -= coeff
	s.up = coeff
	coeff = b(x-0.5*h, y)
	s.center -= coeff
	s.down = coeff

	coeff = c(x, y)
	s.right += 0.5 * h * coeff
	s.left -= 0.5 * h * coeff
	coeff = d(x, y)
	s.up += 0.5 * h * coeff
	s.down -= 0.5 * h * coeff

	s.center += h * h * e(x, y)
	return s
}

func zero(_, _ float64) float64 { return 0 }
func one(_, _ float64) float64  { return 1 }
func negOne(_, _ float64) float64 {
	return -1
}

func constant(c float64) func(_, _ float64) float64 {
	return func(_, _ float64) float64 { return c }
}

func random(rnd *rand.Rand) func(_, _ float64) float64 {
	return func(_, _ float64) float64 { return rnd.NormFloat64() }
}
