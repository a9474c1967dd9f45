package vecalg

import (
	"math"
	"testing"
)

func TestAxpy(t *testing.T) {
	x := []float64{1, 2, 3}
	y := []float64{1, 1, 1}
	Axpy(2, x, y)
	want := []float64{3, 5, 7}
	for i := range want {
		if y[i] != want[i] {
			t.Errorf("y[%d] = %v, want %v", i, y[i], want[i])
		}
	}
}

func TestAxpyLengthMismatch(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic on length mismatch")
		}
	}()
	Axpy(1, []float64{1, 2}, []float64{1, 2, 3})
}

func TestDot(t *testing.T) {
	got := Dot([]float64{1, 2, 3}, []float64{4, 5, 6})
	if got != 32 {
		t.Errorf("Dot = %v, want 32", got)
	}
}

func TestNorms(t *testing.T) {
	x := []float64{3, -4}
	if got := Norm1(x); got != 7 {
		t.Errorf("Norm1 = %v, want 7", got)
	}
	if got := Norm2(x); got != 5 {
		t.Errorf("Norm2 = %v, want 5", got)
	}
	if got := NormInf(x); got != 4 {
		t.Errorf("NormInf = %v, want 4", got)
	}
}

func TestHasNaN(t *testing.T) {
	if HasNaN([]float64{1, 2, 3}) {
		t.Error("unexpected NaN")
	}
	if !HasNaN([]float64{1, math.NaN(), 3}) {
		t.Error("expected NaN to be detected")
	}
	if !HasNaN([]float64{1, math.Inf(1), 3}) {
		t.Error("expected Inf to be detected")
	}
}

func TestAxpby(t *testing.T) {
	x := []float64{1, 1, 1}
	y := []float64{2, 2, 2}
	Axpby(2, x, 3, y)
	want := []float64{8, 8, 8}
	for i := range want {
		if y[i] != want[i] {
			t.Errorf("y[%d] = %v, want %v", i, y[i], want[i])
		}
	}
}
