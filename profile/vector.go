package profile

import "math"

// NormalizeVector normalizes a vector to unit length.
// Returns a new vector. If the input is a zero vector, returns a zero vector.
func NormalizeVector(v []float32) []float32 {
	if len(v) == 0 {
		return v
	}

	// Calculate magnitude
	var magnitude float32
	for _, val := range v {
		magnitude += val * val
	}
	magnitude = float32(math.Sqrt(float64(magnitude)))

	// Can't normalize zero vector
	if magnitude == 0 {
		result := make([]float32, len(v))
		return result
	}

	// Normalize
	result := make([]float32, len(v))
	for i, val := range v {
		result[i] = val / magnitude
	}
	return result
}

// MeanVector returns the element-wise arithmetic mean of the vectors.
// All vectors must share the same dimensionality (guaranteed when they
// come from one embedding model). Returns nil for an empty input.
func MeanVector(vectors [][]float32) []float32 {
	if len(vectors) == 0 {
		return nil
	}

	dim := len(vectors[0])
	sum := make([]float64, dim)
	for _, v := range vectors {
		for i, val := range v {
			sum[i] += float64(val)
		}
	}

	mean := make([]float32, dim)
	n := float64(len(vectors))
	for i := range sum {
		mean[i] = float32(sum[i] / n)
	}
	return mean
}
