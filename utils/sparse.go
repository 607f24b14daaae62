package utils

import (
	"fmt"

	"github.com/james-bowman/sparse"
	"gonum.org/v1/gonum/mat"
)

type DOK struct {
	M        *sparse.DOK
	readOnly bool
	name     string
}

func NewDOK(nr, nc int) (R DOK) {
	R = DOK{
		sparse.NewDOK(nr, nc),
		false,
		"unnamed - hint: pass a variable name to SetReadOnly()",
	}
	return
}

// Dims, At and T minimally satisfy the mat.Matrix interface.
func (m DOK) Dims() (r, c int)    { return m.M.Dims() }
func (m DOK) At(i, j int) float64 { return m.M.At(i, j) }
func (m DOK) T() mat.Matrix       { return m.M.T() }

func (m *DOK) SetReadOnly(name ...string) DOK {
	if len(name) != 0 {
		m.name = name[0]
	}
	m.readOnly = true
	return *m
}

func (m DOK) Set(i, j int, val float64) DOK { // Changes receiver
	m.checkWritable()
	m.M.Set(i, j, val)
	return m
}

func (m DOK) DoNonZero(fn func(i, j int, v float64)) { m.M.DoNonZero(fn) }

func (m DOK) ToCSR() CSR {
	return CSR{
		M:        m.M.ToCSR(),
		readOnly: m.readOnly,
		name:     m.name,
	}
}

func (m DOK) checkWritable() {
	if m.readOnly {
		err := fmt.Errorf("attempt to write to a read only matrix named: \"%v\"", m.name)
		panic(err)
	}
}

type CSR struct {
	M        *sparse.CSR
	readOnly bool
	name     string
}

func NewCSR(nr, nc int) (R CSR) {
	R = CSR{
		// row pointers of an empty matrix, valid for At and as a Mul receiver
		sparse.NewCSR(nr, nc, make([]int, nr+1), []int{}, []float64{}),
		false,
		"unnamed - hint: pass a variable name to SetReadOnly()",
	}
	return
}

// Dims, At and T minimally satisfy the mat.Matrix interface.
func (m CSR) Dims() (r, c int)    { return m.M.Dims() }
func (m CSR) At(i, j int) float64 { return m.M.At(i, j) }
func (m CSR) T() mat.Matrix       { return m.M.T() }
func (m CSR) NNZ() int            { return m.M.NNZ() }

func (m *CSR) SetReadOnly(name ...string) CSR {
	if len(name) != 0 {
		m.name = name[0]
	}
	m.readOnly = true
	return *m
}

func (m CSR) Set(i, j int, val float64) CSR { // Changes receiver
	m.checkWritable()
	m.M.Set(i, j, val)
	return m
}

func (m CSR) DoNonZero(fn func(i, j int, v float64)) { m.M.DoNonZero(fn) }

func (m CSR) MulVec(x []float64) (y []float64) {
	var (
		nr, nc = m.Dims()
	)
	if len(x) != nc {
		err := fmt.Errorf("dimension mismatch: matrix is %dx%d, vector length is %d", nr, nc, len(x))
		panic(err)
	}
	y = make([]float64, nr)
	m.M.DoNonZero(func(i, j int, v float64) {
		y[i] += v * x[j]
	})
	return
}

func (m CSR) MulTVec(x []float64) (y []float64) {
	// Transpose apply without forming the transpose
	var (
		nr, nc = m.Dims()
	)
	if len(x) != nr {
		err := fmt.Errorf("dimension mismatch: transposed matrix is %dx%d, vector length is %d", nc, nr, len(x))
		panic(err)
	}
	y = make([]float64, nc)
	m.M.DoNonZero(func(i, j int, v float64) {
		y[j] += v * x[i]
	})
	return
}

func (m CSR) MulVecC(x []complex128) (y []complex128) {
	var (
		nr, nc = m.Dims()
	)
	if len(x) != nc {
		err := fmt.Errorf("dimension mismatch: matrix is %dx%d, vector length is %d", nr, nc, len(x))
		panic(err)
	}
	y = make([]complex128, nr)
	m.M.DoNonZero(func(i, j int, v float64) {
		y[i] += complex(v, 0) * x[j]
	})
	return
}

func (m CSR) MulTVecC(x []complex128) (y []complex128) {
	// Transpose apply without forming the transpose
	var (
		nr, nc = m.Dims()
	)
	if len(x) != nr {
		err := fmt.Errorf("dimension mismatch: transposed matrix is %dx%d, vector length is %d", nc, nr, len(x))
		panic(err)
	}
	y = make([]complex128, nc)
	m.M.DoNonZero(func(i, j int, v float64) {
		y[j] += complex(v, 0) * x[i]
	})
	return
}

func (m CSR) checkWritable() {
	if m.readOnly {
		err := fmt.Errorf("attempt to write to a read only matrix named: \"%v\"", m.name)
		panic(err)
	}
}

func SparseEye(n int) (R CSR) {
	var (
		d = NewDOK(n, n)
	)
	for i := 0; i < n; i++ {
		d.Set(i, i, 1)
	}
	R = d.ToCSR()
	return
}

func SparseDiag(d []float64) (R CSR) {
	var (
		n   = len(d)
		dok = NewDOK(n, n)
	)
	for i, val := range d {
		if val != 0 {
			dok.Set(i, i, val)
		}
	}
	R = dok.ToCSR()
	return
}

func SparseScale(a float64, A CSR) (R CSR) {
	var (
		nr, nc = A.Dims()
		dok    = NewDOK(nr, nc)
	)
	A.DoNonZero(func(i, j int, v float64) {
		dok.Set(i, j, a*v)
	})
	R = dok.ToCSR()
	return
}

func SparseKron(A, B CSR) (R CSR) {
	var (
		ra, ca = A.Dims()
		rb, cb = B.Dims()
		dok    = NewDOK(ra*rb, ca*cb)
	)
	A.DoNonZero(func(ia, ja int, va float64) {
		B.DoNonZero(func(ib, jb int, vb float64) {
			dok.Set(ia*rb+ib, ja*cb+jb, va*vb)
		})
	})
	R = dok.ToCSR()
	return
}

func SparseVStack(A, B CSR) (R CSR) {
	var (
		ra, ca = A.Dims()
		rb, cb = B.Dims()
	)
	if ca != cb {
		err := fmt.Errorf("column mismatch in vertical stack: %d vs %d", ca, cb)
		panic(err)
	}
	dok := NewDOK(ra+rb, ca)
	A.DoNonZero(func(i, j int, v float64) {
		dok.Set(i, j, v)
	})
	B.DoNonZero(func(i, j int, v float64) {
		dok.Set(i+ra, j, v)
	})
	R = dok.ToCSR()
	return
}

func SparseTranspose(A CSR) (R CSR) {
	var (
		nr, nc = A.Dims()
		dok    = NewDOK(nc, nr)
	)
	A.DoNonZero(func(i, j int, v float64) {
		dok.Set(j, i, v)
	})
	R = dok.ToCSR()
	return
}

func SparseMul(A, B CSR) (R CSR) {
	var (
		ra, _ = A.Dims()
		_, cb = B.Dims()
	)
	R = NewCSR(ra, cb)
	R.M.Mul(A.M, B.M)
	return
}
