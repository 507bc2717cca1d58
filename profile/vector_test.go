package profile

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeVector(t *testing.T) {
	t.Run("unit length", func(t *testing.T) {
		normalized := NormalizeVector([]float32{3, 4})

		var sumSquares float64
		for _, v := range normalized {
			sumSquares += float64(v) * float64(v)
		}
		assert.InDelta(t, 1.0, math.Sqrt(sumSquares), 1e-6)
		assert.InDelta(t, 0.6, normalized[0], 1e-6)
		assert.InDelta(t, 0.8, normalized[1], 1e-6)
	})

	t.Run("zero vector unchanged", func(t *testing.T) {
		normalized := NormalizeVector([]float32{0, 0, 0})
		assert.Equal(t, []float32{0, 0, 0}, normalized)
	})

	t.Run("empty vector", func(t *testing.T) {
		assert.Empty(t, NormalizeVector(nil))
	})
}

func TestMeanVector(t *testing.T) {
	t.Run("averages componentwise", func(t *testing.T) {
		mean := MeanVector([][]float32{
			{1, 2, 3},
			{3, 4, 5},
		})
		require.Len(t, mean, 3)
		assert.InDelta(t, 2.0, mean[0], 1e-6)
		assert.InDelta(t, 3.0, mean[1], 1e-6)
		assert.InDelta(t, 4.0, mean[2], 1e-6)
	})

	t.Run("single vector is identity", func(t *testing.T) {
		mean := MeanVector([][]float32{{0.5, -0.5}})
		assert.InDelta(t, 0.5, mean[0], 1e-6)
		assert.InDelta(t, -0.5, mean[1], 1e-6)
	})

	t.Run("no vectors", func(t *testing.T) {
		assert.Nil(t, MeanVector(nil))
	})
}
