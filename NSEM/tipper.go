package NSEM

import (
	"fmt"

	"github.com/geoscope/goem/utils"
	"gonum.org/v1/gonum/mat"
)

/*
	PointTipper3D measures one element of the tipper

		T = Hz / Hhorizontal

	the transfer function from the horizontal magnetic field to the
	vertical one. Orientations zx and zy select which horizontal component
	drives the ratio.
*/
type PointTipper3D struct {
	PointReceiver
}

func NewPointTipper3D(locs utils.Matrix, orientation, component string,
	denomO ...utils.Matrix) (rx *PointTipper3D, err error) {
	base, err := newPointReceiver(locs, orientation, component,
		[]Orientation{"zx", "zy"}, denomO...)
	if err != nil {
		return
	}
	rx = &PointTipper3D{PointReceiver: base}
	return
}

func tipperPair(orient Orientation) pairProduct {
	switch orient {
	case "zx":
		return pairProduct{sHyPy, sHzPx, sHyPx, sHzPy}
	case "zy":
		return pairProduct{sHxPx, sHzPy, sHxPy, sHzPx}
	}
	panic(fmt.Errorf("tipper receiver cannot measure orientation %q", orient))
}

// EvalComplex projects the fields to the full complex tipper element.
func (rx *PointTipper3D) EvalComplex(src *Source, msh Mesh, f Fields3D) (t []complex128, err error) {
	pv := rx.bind(src, msh, f)
	t, _, err = pv.ratio(tipperPair(rx.Orientation))
	return
}

// Eval projects the fields to the receiver's real or imaginary datum.
func (rx *PointTipper3D) Eval(src *Source, msh Mesh, f Fields3D) (d []float64, err error) {
	t, err := rx.EvalComplex(src, msh, f)
	if err != nil {
		return
	}
	d = rx.Component.Extract(t)
	return
}

// EvalDeriv is the directional derivative of Eval along a solution
// perturbation v of length f.NumDOF().
func (rx *PointTipper3D) EvalDeriv(src *Source, msh Mesh, f Fields3D, v []complex128) (d []float64, err error) {
	pv := rx.bind(src, msh, f)
	dt, err := pv.ratioDeriv(tipperPair(rx.Orientation), v)
	if err != nil {
		return
	}
	d = rx.Component.Extract(dt)
	return
}

// EvalAdjoint applies the transpose of EvalDeriv to a data space vector,
// returning one gradient column per polarization.
func (rx *PointTipper3D) EvalAdjoint(src *Source, msh Mesh, f Fields3D, v []float64) (grad *mat.CDense, err error) {
	pv := rx.bind(src, msh, f)
	raw, err := pv.ratioAdjoint(tipperPair(rx.Orientation), v)
	if err != nil {
		return
	}
	grad = splitPolarizations(raw, rx.Component)
	return
}
