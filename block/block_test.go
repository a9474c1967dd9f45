package block

import (
	"math"
	"math/rand"
	"testing"
)

func identity(n int) []float64 {
	id := make([]float64, n*n)
	for i := 0; i < n; i++ {
		id[i*n+i] = 1
	}
	return id
}

func frobeniusDiff(n int, a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	_ = n
	return math.Sqrt(sum)
}

func randomWellConditioned(n int, rnd *rand.Rand) []float64 {
	a := make([]float64, n*n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			a[i*n+j] = rnd.Float64()*2 - 1
		}
		a[i*n+i] += float64(n) * 2 // diagonally dominant => well conditioned
	}
	return a
}

func matmulCheck(t *testing.T, n int, a, inv []float64) {
	t.Helper()
	prod := make([]float64, n*n)
	MatMul(n, a, inv, prod)
	id := identity(n)
	if d := frobeniusDiff(n, prod, id); d > 1e-10 {
		t.Errorf("A*A^-1 != I, frobenius diff = %v", d)
	}
}

func TestInvertSizes(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	for _, n := range []int{2, 3, 5, 7, 9} {
		a := randomWellConditioned(n, rnd)
		orig := append([]float64(nil), a...)
		if err := Invert(n, a); err != nil {
			t.Fatalf("n=%d: unexpected error: %v", n, err)
		}
		matmulCheck(t, n, orig, a)
	}
}

func TestInvertSingularWarns(t *testing.T) {
	a := make([]float64, 9) // all-zero 3x3 block is exactly singular
	err := Invert(3, a)
	if err == nil {
		t.Fatal("expected singular-block warning")
	}
	if _, ok := err.(*SingularBlockWarning); !ok {
		t.Fatalf("expected *SingularBlockWarning, got %T", err)
	}
}

func TestMatVecVariants(t *testing.T) {
	n := 3
	a := []float64{1, 2, 0, 0, 1, 2, 2, 0, 1}
	x := []float64{1, 1, 1}
	y := make([]float64, n)
	MatVec(n, a, x, y)
	want := []float64{3, 3, 3}
	for i := range want {
		if y[i] != want[i] {
			t.Errorf("y[%d] = %v, want %v", i, y[i], want[i])
		}
	}

	y2 := []float64{1, 1, 1}
	MatVecAdd(n, a, x, y2)
	for i := range want {
		if y2[i] != want[i]+1 {
			t.Errorf("y2[%d] = %v, want %v", i, y2[i], want[i]+1)
		}
	}
}

func TestMatMulAssociative(t *testing.T) {
	rnd := rand.New(rand.NewSource(2))
	n := 5
	a := randomWellConditioned(n, rnd)
	b := randomWellConditioned(n, rnd)
	c := randomWellConditioned(n, rnd)

	bc := make([]float64, n*n)
	MatMul(n, b, c, bc)
	aBC := make([]float64, n*n)
	MatMul(n, a, bc, aBC)

	ab := make([]float64, n*n)
	MatMul(n, a, b, ab)
	abC := make([]float64, n*n)
	MatMul(n, ab, c, abC)

	var maxRel float64
	for i := range aBC {
		denom := math.Abs(aBC[i])
		if denom < 1 {
			denom = 1
		}
		rel := math.Abs(aBC[i]-abC[i]) / denom
		if rel > maxRel {
			maxRel = rel
		}
	}
	if maxRel > 1e-9 {
		t.Errorf("matmul not associative, max relative diff %v", maxRel)
	}
}

func TestSaturationMatVecSub(t *testing.T) {
	n := 3
	a := []float64{
		9, 0, 0,
		0, 2, 1,
		0, 3, 4,
	}
	xs := []float64{1, 1}
	ys := []float64{10, 10}
	SaturationMatVecSub(n, a, xs, ys)
	want := []float64{10 - (2 + 1), 10 - (3 + 4)}
	for i := range want {
		if ys[i] != want[i] {
			t.Errorf("ys[%d] = %v, want %v", i, ys[i], want[i])
		}
	}
}
