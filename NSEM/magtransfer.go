package NSEM

import (
	"fmt"

	"github.com/geoscope/goem/utils"
	"gonum.org/v1/gonum/mat"
)

/*
	PointHorizontalMagTransfer3D measures one element of the horizontal
	magnetic transfer tensor between two stations, in the Schmucker
	convention: the identity part of the tensor is subtracted, so the datum
	is the anomalous transfer

		M = Hd*(numerator cross products) - corr

	with corr 1 on the diagonal orientations and 0 off the diagonal. The
	numerator fields sample at the receiver's own station and the
	denominator fields at the reference station, which is what makes the
	spatially offset DenomLocs set meaningful here.
*/
type PointHorizontalMagTransfer3D struct {
	PointReceiver
}

func NewPointHorizontalMagTransfer3D(locs utils.Matrix, orientation, component string,
	denomO ...utils.Matrix) (rx *PointHorizontalMagTransfer3D, err error) {
	base, err := newPointReceiver(locs, orientation, component,
		[]Orientation{"xx", "xy", "yx", "yy"}, denomO...)
	if err != nil {
		return
	}
	rx = &PointHorizontalMagTransfer3D{PointReceiver: base}
	return
}

func magTransferPair(orient Orientation) (pp pairProduct, corr float64) {
	switch orient {
	case "xx":
		return pairProduct{sHxNumPx, sHyPy, sHxNumPy, sHyPx}, 1
	case "xy":
		return pairProduct{sHxNumPy, sHxPx, sHxNumPx, sHxPy}, 0
	case "yx":
		return pairProduct{sHyNumPx, sHyPy, sHyNumPy, sHyPx}, 0
	case "yy":
		return pairProduct{sHyNumPy, sHxPx, sHyNumPx, sHxPy}, 1
	}
	panic(fmt.Errorf("magnetic transfer receiver cannot measure orientation %q", orient))
}

// EvalComplex projects the fields to the full complex transfer element,
// Schmucker correction applied.
func (rx *PointHorizontalMagTransfer3D) EvalComplex(src *Source, msh Mesh, f Fields3D) (m []complex128, err error) {
	pp, corr := magTransferPair(rx.Orientation)
	pv := rx.bind(src, msh, f)
	rt, _, err := pv.ratio(pp)
	if err != nil {
		return
	}
	m = utils.CVecSub(rt, utils.CVecConst(len(rt), complex(corr, 0)))
	return
}

// Eval projects the fields to the receiver's real or imaginary datum.
func (rx *PointHorizontalMagTransfer3D) Eval(src *Source, msh Mesh, f Fields3D) (d []float64, err error) {
	m, err := rx.EvalComplex(src, msh, f)
	if err != nil {
		return
	}
	d = rx.Component.Extract(m)
	return
}

// EvalDeriv is the directional derivative of Eval along a solution
// perturbation v of length f.NumDOF(). The correction term is constant
// and drops out of both derivative modes.
func (rx *PointHorizontalMagTransfer3D) EvalDeriv(src *Source, msh Mesh, f Fields3D, v []complex128) (d []float64, err error) {
	pp, _ := magTransferPair(rx.Orientation)
	pv := rx.bind(src, msh, f)
	dm, err := pv.ratioDeriv(pp, v)
	if err != nil {
		return
	}
	d = rx.Component.Extract(dm)
	return
}

// EvalAdjoint applies the transpose of EvalDeriv to a data space vector,
// returning one gradient column per polarization.
func (rx *PointHorizontalMagTransfer3D) EvalAdjoint(src *Source, msh Mesh, f Fields3D, v []float64) (grad *mat.CDense, err error) {
	pp, _ := magTransferPair(rx.Orientation)
	pv := rx.bind(src, msh, f)
	raw, err := pv.ratioAdjoint(pp, v)
	if err != nil {
		return
	}
	grad = splitPolarizations(raw, rx.Component)
	return
}
