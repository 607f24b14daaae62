package utils

import (
	"fmt"

	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

type Vector struct {
	V *mat.VecDense
}

func NewVector(n int, dataO ...[]float64) (R Vector) {
	var v *mat.VecDense
	if len(dataO) != 0 {
		if len(dataO[0]) != n {
			err := fmt.Errorf("mismatch in allocation: NewVector n = %v, len(data[0]) = %v\n", n, len(dataO[0]))
			panic(err)
		}
		v = mat.NewVecDense(n, dataO[0])
	} else {
		v = mat.NewVecDense(n, make([]float64, n))
	}
	R = Vector{v}
	return
}

func NewVectorConst(n int, val float64) Vector {
	return NewVector(n, ConstArray(n, val))
}

// Dims, At and T minimally satisfy the mat.Matrix interface.
func (v Vector) Dims() (r, c int)         { return v.V.Dims() }
func (v Vector) At(i, j int) float64      { return v.V.At(i, j) }
func (v Vector) T() mat.Matrix            { return v.V.T() }
func (v Vector) AtVec(i int) float64      { return v.V.AtVec(i) }
func (v Vector) RawVector() blas64.Vector { return v.V.RawVector() }
func (v Vector) Len() int                 { return v.V.Len() }
func (v Vector) Data() []float64          { return v.V.RawVector().Data }

// Chainable (extended) methods
func (v Vector) Set(val float64) Vector {
	var (
		data = v.V.RawVector().Data
	)
	for i := range data {
		data[i] = val
	}
	return v
}

func (v Vector) Scale(a float64) Vector {
	var (
		data = v.V.RawVector().Data
	)
	for i := range data {
		data[i] *= a
	}
	return v
}

func (v Vector) AddScalar(a float64) Vector {
	var (
		data = v.V.RawVector().Data
	)
	for i := range data {
		data[i] += a
	}
	return v
}

func (v Vector) Sub(a Vector) Vector { v.V.SubVec(v.V, a.V); return v }

func (v Vector) Apply(f func(float64) float64) Vector {
	var (
		data = v.V.RawVector().Data
	)
	for i, val := range data {
		data[i] = f(val)
	}
	return v
}

func (v Vector) POW(p int) Vector {
	var (
		data = v.V.RawVector().Data
	)
	for i, val := range data {
		data[i] = POW(val, p)
	}
	return v
}

func (v Vector) Linspace(xmin, xmax float64) Vector {
	var (
		data = v.V.RawVector().Data
		N    = len(data)
	)
	if N == 1 {
		data[0] = xmin
		return v
	}
	dx := (xmax - xmin) / float64(N-1)
	for i := range data {
		data[i] = xmin + float64(i)*dx
	}
	return v
}

func (v Vector) Copy() (R Vector) { // Does not change receiver
	var (
		data  = v.V.RawVector().Data
		dataR = make([]float64, len(data))
	)
	copy(dataR, data)
	R = NewVector(len(data), dataR)
	return
}

func (v Vector) CumSum() (R Vector) { // Does not change receiver
	// R[i] holds the running sum over v[0:i+1]
	var (
		data  = v.V.RawVector().Data
		dataR = make([]float64, len(data))
		sum   float64
	)
	for i, val := range data {
		sum += val
		dataR[i] = sum
	}
	R = NewVector(len(data), dataR)
	return
}

func (v Vector) Concat(a Vector) (R Vector) { // Does not change receiver
	var (
		dataV = v.V.RawVector().Data
		dataA = a.V.RawVector().Data
		N     = len(dataV) + len(dataA)
		dataR = make([]float64, N)
	)
	copy(dataR, dataV)
	copy(dataR[len(dataV):], dataA)
	R = NewVector(N, dataR)
	return
}

func (v Vector) Min() (min float64) {
	var (
		data = v.V.RawVector().Data
	)
	min = data[0]
	for _, val := range data {
		if val < min {
			min = val
		}
	}
	return
}

func (v Vector) Max() (max float64) {
	var (
		data = v.V.RawVector().Data
	)
	max = data[0]
	for _, val := range data {
		if val > max {
			max = val
		}
	}
	return
}

func (v Vector) Sum() float64 {
	return floats.Sum(v.V.RawVector().Data)
}

func (v Vector) ToMatrix() (R Matrix) {
	// Column matrix sharing the vector's backing store
	R = NewMatrix(v.Len(), 1, v.V.RawVector().Data)
	return
}

func (v Vector) Transpose() (R Matrix) {
	// Row matrix sharing the vector's backing store
	R = NewMatrix(1, v.Len(), v.V.RawVector().Data)
	return
}

func (v Vector) Mul(a Vector) (R Matrix) { // Outer product, does not change receiver
	var (
		nr, nc = v.Len(), a.Len()
		dataV  = v.V.RawVector().Data
		dataA  = a.V.RawVector().Data
	)
	R = NewMatrix(nr, nc)
	dataR := R.RawMatrix().Data
	for i := 0; i < nr; i++ {
		for j := 0; j < nc; j++ {
			dataR[j+nc*i] = dataV[i] * dataA[j]
		}
	}
	return
}
