// Package embedding provides shared helpers for embedding adapters.
package embedding

import "math"

// Normalize scales v to unit L2 length in place and returns it. The
// vector index computes cosine similarity as a plain dot product, which
// is only correct for unit-length vectors. A zero vector is returned
// unchanged.
func Normalize(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return v
	}
	norm := math.Sqrt(sum)
	for i := range v {
		v[i] = float32(float64(v[i]) / norm)
	}
	return v
}
