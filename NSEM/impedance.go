package NSEM

import (
	"fmt"

	"github.com/geoscope/goem/utils"
	"gonum.org/v1/gonum/mat"
)

/*
	PointImpedance3D measures one element of the impedance tensor

		Z = E / H

	resolved from the two polarization system. Each orientation combines a
	fixed set of cross polarization products; the sign pattern is part of
	the physics and a swapped sign silently corrupts just that orientation,
	so the combinations live in one table shared by evaluation and both
	derivative modes.
*/
type PointImpedance3D struct {
	PointReceiver
}

func NewPointImpedance3D(locs utils.Matrix, orientation, component string,
	denomO ...utils.Matrix) (rx *PointImpedance3D, err error) {
	base, err := newPointReceiver(locs, orientation, component,
		[]Orientation{"xx", "xy", "yx", "yy"}, denomO...)
	if err != nil {
		return
	}
	rx = &PointImpedance3D{PointReceiver: base}
	return
}

func impedancePair(orient Orientation) pairProduct {
	switch orient {
	case "xx":
		return pairProduct{sExPx, sHyPy, sExPy, sHyPx}
	case "xy":
		return pairProduct{sExPy, sHxPx, sExPx, sHxPy}
	case "yx":
		return pairProduct{sEyPx, sHyPy, sEyPy, sHyPx}
	case "yy":
		return pairProduct{sEyPy, sHxPx, sEyPx, sHxPy}
	}
	panic(fmt.Errorf("impedance receiver cannot measure orientation %q", orient))
}

// EvalComplex projects the fields to the full complex impedance element.
func (rx *PointImpedance3D) EvalComplex(src *Source, msh Mesh, f Fields3D) (z []complex128, err error) {
	pv := rx.bind(src, msh, f)
	z, _, err = pv.ratio(impedancePair(rx.Orientation))
	return
}

// Eval projects the fields to the receiver's real or imaginary datum.
func (rx *PointImpedance3D) Eval(src *Source, msh Mesh, f Fields3D) (d []float64, err error) {
	z, err := rx.EvalComplex(src, msh, f)
	if err != nil {
		return
	}
	d = rx.Component.Extract(z)
	return
}

// EvalDeriv is the directional derivative of Eval along a solution
// perturbation v of length f.NumDOF().
func (rx *PointImpedance3D) EvalDeriv(src *Source, msh Mesh, f Fields3D, v []complex128) (d []float64, err error) {
	pv := rx.bind(src, msh, f)
	dz, err := pv.ratioDeriv(impedancePair(rx.Orientation), v)
	if err != nil {
		return
	}
	d = rx.Component.Extract(dz)
	return
}

// EvalAdjoint applies the transpose of EvalDeriv to a data space vector,
// returning one gradient column per polarization.
func (rx *PointImpedance3D) EvalAdjoint(src *Source, msh Mesh, f Fields3D, v []float64) (grad *mat.CDense, err error) {
	pv := rx.bind(src, msh, f)
	raw, err := pv.ratioAdjoint(impedancePair(rx.Orientation), v)
	if err != nil {
		return
	}
	grad = splitPolarizations(raw, rx.Component)
	return
}

/*
	PointImpedance1D measures the plane wave impedance of a layered profile,

		Z = -e / h

	with the fixed yx orientation of the 1D magnetotelluric convention. The
	1D solve stores the electric field on the radial face family and the
	flux on the edge family, so the sampling kinds swap relative to the 3D
	receivers.
*/
type PointImpedance1D struct {
	Locs      utils.Matrix
	Component Component

	pex utils.CSR
	pbx utils.CSR
}

func NewPointImpedance1D(locs utils.Matrix, component string) (rx *PointImpedance1D, err error) {
	if locs.M == nil {
		err = fmt.Errorf("receiver needs at least one location")
		return
	}
	comp, err := ParseComponent(component)
	if err != nil {
		return
	}
	rx = &PointImpedance1D{Locs: locs, Component: comp}
	return
}

func (rx *PointImpedance1D) Orientation() Orientation { return "yx" }

func (rx *PointImpedance1D) NumData() int {
	n, _ := rx.Locs.Dims()
	return n
}

func (rx *PointImpedance1D) Locations() utils.Matrix {
	return rx.Locs
}

func (rx *PointImpedance1D) projections(msh Mesh) (pex, pbx utils.CSR, err error) {
	if rx.pex.M == nil {
		if rx.pex, err = msh.InterpolationMatrix(rx.Locs, "Fx"); err != nil {
			return
		}
	}
	if rx.pbx.M == nil {
		if rx.pbx, err = msh.InterpolationMatrix(rx.Locs, "Ex"); err != nil {
			return
		}
	}
	pex, pbx = rx.pex, rx.pbx
	return
}

func (rx *PointImpedance1D) samples(src *Source, msh Mesh, f Fields1D) (ex, hx []complex128, err error) {
	pex, pbx, err := rx.projections(msh)
	if err != nil {
		return
	}
	ex = pex.MulVecC(f.E1D(src))
	hx = utils.CVecScale(pbx.MulVecC(f.B1D(src)), complex(1/Mu0, 0))
	return
}

// EvalComplex projects the fields to the full complex impedance.
func (rx *PointImpedance1D) EvalComplex(src *Source, msh Mesh, f Fields1D) (z []complex128, err error) {
	ex, hx, err := rx.samples(src, msh, f)
	if err != nil {
		return
	}
	z = utils.CVecScale(utils.CVecMul(utils.CVecInv(hx), ex), -1)
	return
}

// Eval projects the fields to the receiver's real or imaginary datum.
func (rx *PointImpedance1D) Eval(src *Source, msh Mesh, f Fields1D) (d []float64, err error) {
	z, err := rx.EvalComplex(src, msh, f)
	if err != nil {
		return
	}
	d = rx.Component.Extract(z)
	return
}

// EvalDeriv applies the quotient rule Hd*(-de - Z*dh) along a solution
// perturbation v of length f.NumDOF().
func (rx *PointImpedance1D) EvalDeriv(src *Source, msh Mesh, f Fields1D, v []complex128) (d []float64, err error) {
	pex, pbx, err := rx.projections(msh)
	if err != nil {
		return
	}
	_, hx, err := rx.samples(src, msh, f)
	if err != nil {
		return
	}
	z, err := rx.EvalComplex(src, msh, f)
	if err != nil {
		return
	}
	var (
		hd = utils.CVecInv(hx)
		de = pex.MulVecC(f.EDeriv(src, v, false))
		dh = utils.CVecScale(pbx.MulVecC(f.BDeriv(src, v, false)), complex(1/Mu0, 0))
	)
	dz := utils.CVecMul(hd, utils.CVecSub(utils.CVecScale(de, -1), utils.CVecMul(z, dh)))
	d = rx.Component.Extract(dz)
	return
}

// EvalAdjoint applies the transpose of EvalDeriv to a data space vector,
// returning a single gradient column.
func (rx *PointImpedance1D) EvalAdjoint(src *Source, msh Mesh, f Fields1D, v []float64) (grad *mat.CDense, err error) {
	pex, pbx, err := rx.projections(msh)
	if err != nil {
		return
	}
	_, hx, err := rx.samples(src, msh, f)
	if err != nil {
		return
	}
	z, err := rx.EvalComplex(src, msh, f)
	if err != nil {
		return
	}
	var (
		hd = utils.CVecInv(hx)
		x  = utils.CVecMul(hd, utils.CVecFromReal(v))
		t1 = utils.CVecScale(f.EDeriv(src, pex.MulTVecC(x), true), -1)
		t2 = utils.CVecScale(f.BDeriv(src, pbx.MulTVecC(utils.CVecMul(z, x)), true), complex(1/Mu0, 0))
	)
	raw := utils.CVecSub(t1, t2)
	fac := complex(1, 0)
	if rx.Component == Imag {
		fac = 1i
	}
	grad = mat.NewCDense(len(raw), 1, nil)
	for i, ri := range raw {
		grad.Set(i, 0, fac*ri)
	}
	return
}
