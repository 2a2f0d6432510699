package features

import (
	"math"
	"sort"
)

// Vector is a sparse feature vector. Indices are strictly increasing and
// Values is parallel to Indices.
type Vector struct {
	Indices []int
	Values  []float64
	Dim     int
}

// At returns the component at index i.
func (x Vector) At(i int) float64 {
	j := sort.SearchInts(x.Indices, i)
	if j < len(x.Indices) && x.Indices[j] == i {
		return x.Values[j]
	}
	return 0
}

// IsZero reports whether every component is zero.
func (x Vector) IsZero() bool {
	for _, v := range x.Values {
		if v != 0 {
			return false
		}
	}
	return true
}

// SquaredNorm returns the squared Euclidean norm.
func (x Vector) SquaredNorm() float64 {
	var sum float64
	for _, v := range x.Values {
		sum += v * v
	}
	return sum
}

// Norm returns the Euclidean norm.
func (x Vector) Norm() float64 {
	return math.Sqrt(x.SquaredNorm())
}

// Normalize returns a copy scaled to unit L2 norm. A zero vector is returned unchanged.
func (x Vector) Normalize() Vector {
	out := Vector{
		Indices: append([]int(nil), x.Indices...),
		Values:  append([]float64(nil), x.Values...),
		Dim:     x.Dim,
	}
	n := x.Norm()
	if n == 0 {
		return out
	}
	for i := range out.Values {
		out.Values[i] /= n
	}
	return out
}

// Dot computes the dot product with a dense vector. Indices beyond len(dense) contribute zero.
func (x Vector) Dot(dense []float64) float64 {
	var sum float64
	for i, idx := range x.Indices {
		if idx < len(dense) {
			sum += x.Values[i] * dense[idx]
		}
	}
	return sum
}

// AddScaledTo adds scale*x to dense in place.
func (x Vector) AddScaledTo(dense []float64, scale float64) {
	for i, idx := range x.Indices {
		if idx < len(dense) {
			dense[idx] += scale * x.Values[i]
		}
	}
}

// ToDense converts to a dense slice of length Dim.
func (x Vector) ToDense() []float64 {
	dense := make([]float64, x.Dim)
	for i, idx := range x.Indices {
		if idx < x.Dim {
			dense[idx] = x.Values[i]
		}
	}
	return dense
}
