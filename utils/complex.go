package utils

import (
	"fmt"
)

/*
	Helpers for the complex-valued vectors carried by frequency domain fields.

	All functions allocate their result, leaving the arguments untouched, and
	CVecDot is the unconjugated (bilinear) product used for transpose identities.
*/

func CVecConst(N int, val complex128) (v []complex128) {
	v = make([]complex128, N)
	for i := range v {
		v[i] = val
	}
	return
}

func CVecFromReal(r []float64) (v []complex128) {
	v = make([]complex128, len(r))
	for i, val := range r {
		v[i] = complex(val, 0)
	}
	return
}

func CVecReal(v []complex128) (r []float64) {
	r = make([]float64, len(v))
	for i, val := range v {
		r[i] = real(val)
	}
	return
}

func CVecImag(v []complex128) (r []float64) {
	r = make([]float64, len(v))
	for i, val := range v {
		r[i] = imag(val)
	}
	return
}

func CVecScale(v []complex128, a complex128) (r []complex128) {
	r = make([]complex128, len(v))
	for i, val := range v {
		r[i] = a * val
	}
	return
}

func CVecAdd(a, b []complex128) (r []complex128) {
	cVecCheckLen("CVecAdd", a, b)
	r = make([]complex128, len(a))
	for i, val := range a {
		r[i] = val + b[i]
	}
	return
}

func CVecSub(a, b []complex128) (r []complex128) {
	cVecCheckLen("CVecSub", a, b)
	r = make([]complex128, len(a))
	for i, val := range a {
		r[i] = val - b[i]
	}
	return
}

func CVecMul(a, b []complex128) (r []complex128) { // Elementwise
	cVecCheckLen("CVecMul", a, b)
	r = make([]complex128, len(a))
	for i, val := range a {
		r[i] = val * b[i]
	}
	return
}

func CVecInv(a []complex128) (r []complex128) { // Elementwise reciprocal
	r = make([]complex128, len(a))
	for i, val := range a {
		r[i] = 1. / val
	}
	return
}

func CVecDot(a, b []complex128) (dot complex128) {
	cVecCheckLen("CVecDot", a, b)
	for i, val := range a {
		dot += val * b[i]
	}
	return
}

func cVecCheckLen(caller string, a, b []complex128) {
	if len(a) != len(b) {
		err := fmt.Errorf("%s: length mismatch: %d vs %d", caller, len(a), len(b))
		panic(err)
	}
}
