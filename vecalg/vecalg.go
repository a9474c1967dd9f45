// Package vecalg provides vector-algebra helpers over contiguous
// []float64 slices: axpy-family updates, scaling, dot products and norms.
// The style follows gonum.org/v1/gonum's floats package: functions avoid
// allocation where possible and panic on length mismatch rather than
// returning an error, since a mismatched length is a programmer error,
// not a runtime condition callers are expected to recover from.
package vecalg

import "math"

func mustEqualLen(names string, lens ...int) {
	for i := 1; i < len(lens); i++ {
		if lens[i] != lens[0] {
			panic("vecalg: length mismatch in " + names)
		}
	}
}

// Axpy computes y ← α*x + y.
func Axpy(alpha float64, x, y []float64) {
	mustEqualLen("Axpy", len(x), len(y))
	if alpha == 1 {
		for i, v := range x {
			y[i] += v
		}
		return
	}
	for i, v := range x {
		y[i] += alpha * v
	}
}

// Axpyz computes z ← α*x + y, storing into z which may alias x or y.
func Axpyz(z []float64, alpha float64, x, y []float64) []float64 {
	mustEqualLen("Axpyz", len(x), len(y), len(z))
	for i := range x {
		z[i] = alpha*x[i] + y[i]
	}
	return z
}

// Axpby computes y ← α*x + β*y.
func Axpby(alpha float64, x []float64, beta float64, y []float64) {
	mustEqualLen("Axpby", len(x), len(y))
	for i, v := range x {
		y[i] = alpha*v + beta*y[i]
	}
}

// Scale computes x ← α*x.
func Scale(alpha float64, x []float64) {
	for i := range x {
		x[i] *= alpha
	}
}

// Dot returns the Euclidean inner product of x and y.
func Dot(x, y []float64) float64 {
	mustEqualLen("Dot", len(x), len(y))
	var sum float64
	for i, v := range x {
		sum += v * y[i]
	}
	return sum
}

// Copy copies src into dst, which must have the same length.
func Copy(dst, src []float64) {
	mustEqualLen("Copy", len(dst), len(src))
	copy(dst, src)
}

// Zero sets every element of x to zero.
func Zero(x []float64) {
	for i := range x {
		x[i] = 0
	}
}

// Norm1 returns the L¹ norm of x.
func Norm1(x []float64) float64 {
	var sum float64
	for _, v := range x {
		sum += math.Abs(v)
	}
	return sum
}

// Norm2 returns the L² (Euclidean) norm of x.
func Norm2(x []float64) float64 {
	var sum float64
	for _, v := range x {
		sum += v * v
	}
	return math.Sqrt(sum)
}

// NormInf returns the L^∞ norm of x (maximum absolute value).
func NormInf(x []float64) float64 {
	var m float64
	for _, v := range x {
		if a := math.Abs(v); a > m {
			m = a
		}
	}
	return m
}

// HasNaN reports whether x contains a NaN or an infinite value, used by
// the Krylov safe net to detect a collapsed iterate.
func HasNaN(x []float64) bool {
	for _, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return true
		}
	}
	return false
}
