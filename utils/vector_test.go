package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVector(t *testing.T) {
	N := 3
	v1 := NewVector(N).Set(1)
	require.Equal(t, 1., v1.V.RawVector().Data[N-1])
	v1.Set(2)
	require.Equal(t, 2., v1.V.RawVector().Data[N-1])

	M := 2
	v2 := NewVector(M).Set(3)
	A := v1.ToMatrix().Mul(v2.Transpose())
	nr, nc := A.Dims()
	require.Equal(t, N, nr)
	require.Equal(t, M, nc)

	v1.V.SetVec(0, 1)
	v1.V.SetVec(1, 2)
	v1.V.SetVec(2, 3)
	v2.V.SetVec(0, 2)
	/*
		Outer product:
		⎡2  3⎤
		⎢4  6⎥
		⎣6  9⎦
	*/
	vec := []float64{2, 3, 4, 6, 6, 9}
	A = v1.ToMatrix().Mul(v2.Transpose())
	require.Equal(t, vec, A.RawMatrix().Data)

	B := v1.Mul(v2)
	require.Equal(t, vec, B.RawMatrix().Data)
	// Linspace
	{
		req := NewVector(2).Linspace(-1, 1)
		assert.Equal(t, -1., req.AtVec(0))
		assert.Equal(t, 1., req.AtVec(1))
		req = NewVector(3).Linspace(-1, 1)
		assert.Equal(t, -1., req.AtVec(0))
		assert.Equal(t, 0., req.AtVec(1))
		assert.Equal(t, 1., req.AtVec(2))
	}
	// CumSum
	{
		v := NewVector(3, []float64{1, 2, 3})
		assert.Equal(t, []float64{1, 3, 6}, v.CumSum().Data())
	}
	// Concat
	{
		a := NewVector(2, []float64{0, 1}).Concat(NewVector(2, []float64{2, 3}))
		assert.Equal(t, []float64{0, 1, 2, 3}, a.Data())
		assert.Equal(t, 6., a.Sum())
	}
	// Scale and AddScalar
	{
		v := NewVectorConst(2, 2).Scale(3).AddScalar(-1)
		assert.Equal(t, []float64{5, 5}, v.Data())
	}
}
