package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComplexVectors(t *testing.T) {
	// Bilinear product, no conjugation
	{
		a := []complex128{1 + 1i, 2}
		b := []complex128{1 - 1i, 1i}
		assert.Equal(t, complex(2, 2), CVecDot(a, b))
	}
	// Elementwise reciprocal and product
	{
		a := []complex128{2i, 4}
		inv := CVecInv(a)
		assert.Equal(t, complex(0, -0.5), inv[0])
		assert.Equal(t, complex(0.25, 0), inv[1])
		p := CVecMul(a, inv)
		assert.Equal(t, complex(1, 0), p[0])
		assert.Equal(t, complex(1, 0), p[1])
	}
	// Component split round trip
	{
		v := []complex128{1 + 2i, 3 - 4i}
		assert.Equal(t, []float64{1, 3}, CVecReal(v))
		assert.Equal(t, []float64{2, -4}, CVecImag(v))
		vv := CVecAdd(CVecFromReal(CVecReal(v)), CVecScale(CVecFromReal(CVecImag(v)), 1i))
		assert.Equal(t, v, vv)
	}
	// Scale and subtract
	{
		a := []complex128{1, 1i}
		assert.Equal(t, []complex128{0, 0}, CVecSub(a, a))
		assert.Equal(t, []complex128{2 - 1i, 1 + 2i}, CVecScale(a, 2-1i))
	}
	// Length mismatches are programming errors
	{
		assert.Panics(t, func() { CVecDot([]complex128{1}, []complex128{1, 2}) })
	}
}
