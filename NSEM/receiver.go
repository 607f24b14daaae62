package NSEM

import (
	"errors"
	"fmt"

	"github.com/geoscope/goem/utils"
	"gonum.org/v1/gonum/mat"
)

// Mesh supplies station sampling of the discrete field spaces. The kind
// names follow the staggered grid families: Ex, Ey for edge fields and
// Fx, Fy, Fz for face fluxes.
type Mesh interface {
	InterpolationMatrix(locs utils.Matrix, kind string) (utils.CSR, error)
}

// Receiver is the bookkeeping surface shared by every receiver variant,
// used by surveys and data containers to size and index datum blocks.
type Receiver interface {
	NumData() int
	Locations() utils.Matrix
}

// ErrNotImplemented reports an evaluation on the bare receiver base, which
// carries no ratio formula of its own.
var ErrNotImplemented = errors.New("receiver variant must supply its own evaluation")

/*
	PointReceiver is the shared machinery of the 3D receiver variants:
	station locations, orientation and component tags, and a cache of
	interpolation matrices built against a fixed mesh.

	Two location sets support spatially offset transfer functions: Locs is
	the numerator sampling set and DenomLocs the denominator one. When
	DenomLocs is left zero both sides sample at Locs. Electric and vertical
	flux samples always use the numerator set, horizontal flux samples the
	denominator set, and the numerator side horizontal fluxes of the
	magnetic transfer variant use the numerator set again.

	The interpolation cache assumes the receiver geometry and the mesh stay
	fixed for the receiver's lifetime, and is not safe to populate from
	concurrent evaluations.
*/
type PointReceiver struct {
	Locs        utils.Matrix
	DenomLocs   utils.Matrix
	Orientation Orientation
	Component   Component

	pCache map[string]utils.CSR
}

func newPointReceiver(locs utils.Matrix, orientation, component string,
	allowed []Orientation, denomO ...utils.Matrix) (rx PointReceiver, err error) {
	if locs.M == nil {
		err = fmt.Errorf("receiver needs at least one location")
		return
	}
	nLoc, _ := locs.Dims()
	if nLoc == 0 {
		err = fmt.Errorf("receiver needs at least one location")
		return
	}
	if rx.Orientation, err = parseOrientation(orientation, allowed...); err != nil {
		return
	}
	if rx.Component, err = ParseComponent(component); err != nil {
		return
	}
	rx.Locs = locs
	if len(denomO) != 0 {
		nDen, _ := denomO[0].Dims()
		if nDen != nLoc {
			err = fmt.Errorf("denominator locations: %d rows, want %d to pair with the numerator set",
				nDen, nLoc)
			return
		}
		rx.DenomLocs = denomO[0]
	}
	rx.pCache = make(map[string]utils.CSR)
	return
}

func (rx *PointReceiver) NumData() int {
	n, _ := rx.Locs.Dims()
	return n
}

func (rx *PointReceiver) Locations() utils.Matrix {
	return rx.Locs
}

func (rx *PointReceiver) locNumerator() utils.Matrix {
	return rx.Locs
}

func (rx *PointReceiver) locDenominator() utils.Matrix {
	if rx.DenomLocs.M == nil {
		return rx.Locs
	}
	return rx.DenomLocs
}

// projection builds and caches the sampling matrix for one field kind and
// location side.
func (rx *PointReceiver) projection(msh Mesh, kind string, denom bool) (P utils.CSR, err error) {
	key := kind
	loc := rx.locNumerator()
	if denom {
		key += "/denom"
		loc = rx.locDenominator()
	}
	if P, ok := rx.pCache[key]; ok {
		return P, nil
	}
	if P, err = msh.InterpolationMatrix(loc, kind); err != nil {
		return
	}
	rx.pCache[key] = P
	return
}

// Eval on the bare receiver base has no formula to apply.
func (rx *PointReceiver) Eval(src *Source, msh Mesh, f Fields3D) ([]float64, error) {
	return nil, ErrNotImplemented
}

// EvalDeriv on the bare receiver base has no formula to apply.
func (rx *PointReceiver) EvalDeriv(src *Source, msh Mesh, f Fields3D, v []complex128) ([]float64, error) {
	return nil, ErrNotImplemented
}

// sample names one interpolated, polarized field component.
type sample int

const (
	sExPx sample = iota
	sExPy
	sEyPx
	sEyPy
	sHxPx
	sHxPy
	sHyPx
	sHyPy
	sHzPx
	sHzPy
	sHxNumPx
	sHxNumPy
	sHyNumPx
	sHyNumPy
)

func (s sample) projection() (kind string, denom bool) {
	switch s {
	case sExPx, sExPy:
		return "Ex", false
	case sEyPx, sEyPy:
		return "Ey", false
	case sHxPx, sHxPy:
		return "Fx", true
	case sHyPx, sHyPy:
		return "Fy", true
	case sHzPx, sHzPy:
		return "Fz", false
	case sHxNumPx, sHxNumPy:
		return "Fx", false
	case sHyNumPx, sHyNumPy:
		return "Fy", false
	}
	panic(fmt.Errorf("unknown field sample %d", s))
}

func (s sample) electric() bool {
	switch s {
	case sExPx, sExPy, sEyPx, sEyPy:
		return true
	}
	return false
}

func (s sample) xPolarized() bool {
	switch s {
	case sExPx, sEyPx, sHxPx, sHyPx, sHzPx, sHxNumPx, sHyNumPx:
		return true
	}
	return false
}

/*
	polarized binds one evaluation's source, mesh and field solution to a
	receiver. Sampled component values are memoized for the duration of the
	binding; the binding itself is discarded after each evaluation, so the
	receiver carries no call state between evaluations.
*/
type polarized struct {
	rx   *PointReceiver
	src  *Source
	msh  Mesh
	f    Fields3D
	vals map[sample][]complex128
}

func (rx *PointReceiver) bind(src *Source, msh Mesh, f Fields3D) *polarized {
	return &polarized{
		rx:   rx,
		src:  src,
		msh:  msh,
		f:    f,
		vals: make(map[sample][]complex128),
	}
}

func (pv *polarized) field(s sample) []complex128 {
	switch {
	case s.electric() && s.xPolarized():
		return pv.f.Epx(pv.src)
	case s.electric():
		return pv.f.Epy(pv.src)
	case s.xPolarized():
		return pv.f.Bpx(pv.src)
	default:
		return pv.f.Bpy(pv.src)
	}
}

func (pv *polarized) fieldDeriv(s sample, v []complex128, adjoint bool) []complex128 {
	switch {
	case s.electric() && s.xPolarized():
		return pv.f.EpxDeriv(pv.src, v, adjoint)
	case s.electric():
		return pv.f.EpyDeriv(pv.src, v, adjoint)
	case s.xPolarized():
		return pv.f.BpxDeriv(pv.src, v, adjoint)
	default:
		return pv.f.BpyDeriv(pv.src, v, adjoint)
	}
}

// value samples the component at the receiver locations, converting flux
// density to magnetic field.
func (pv *polarized) value(s sample) (val []complex128, err error) {
	var ok bool
	if val, ok = pv.vals[s]; ok {
		return
	}
	kind, denom := s.projection()
	P, err := pv.rx.projection(pv.msh, kind, denom)
	if err != nil {
		return nil, err
	}
	val = P.MulVecC(pv.field(s))
	if !s.electric() {
		val = utils.CVecScale(val, complex(1/Mu0, 0))
	}
	pv.vals[s] = val
	return
}

// deriv is the directional derivative of value along a solution
// perturbation v.
func (pv *polarized) deriv(s sample, v []complex128) (dv []complex128, err error) {
	kind, denom := s.projection()
	P, err := pv.rx.projection(pv.msh, kind, denom)
	if err != nil {
		return nil, err
	}
	dv = P.MulVecC(pv.fieldDeriv(s, v, false))
	if !s.electric() {
		dv = utils.CVecScale(dv, complex(1/Mu0, 0))
	}
	return
}

// derivAdjoint applies the transpose of deriv to a station space vector,
// returning a solution space vector.
func (pv *polarized) derivAdjoint(s sample, x []complex128) (r []complex128, err error) {
	kind, denom := s.projection()
	P, err := pv.rx.projection(pv.msh, kind, denom)
	if err != nil {
		return nil, err
	}
	r = pv.fieldDeriv(s, P.MulTVecC(x), true)
	if !s.electric() {
		r = utils.CVecScale(r, complex(1/Mu0, 0))
	}
	return
}

/*
	pairProduct is the cross polarization combination

		Q = a1*b1 - a2*b2

	that forms the numerator of every transfer function ratio, and also the
	horizontal field determinant itself. Holding the combination as data
	lets one product rule serve every orientation: the derivative and its
	transpose are generated from the same four terms, so the two modes
	cannot drift apart.
*/
type pairProduct struct {
	a1, b1, a2, b2 sample
}

// hdPair is the horizontal magnetic determinant hx_px*hy_py - hx_py*hy_px
// used to invert the two polarization system.
var hdPair = pairProduct{sHxPx, sHyPy, sHxPy, sHyPx}

func (pv *polarized) pairValue(pp pairProduct) (q []complex128, err error) {
	var a1, b1, a2, b2 []complex128
	if a1, err = pv.value(pp.a1); err != nil {
		return
	}
	if b1, err = pv.value(pp.b1); err != nil {
		return
	}
	if a2, err = pv.value(pp.a2); err != nil {
		return
	}
	if b2, err = pv.value(pp.b2); err != nil {
		return
	}
	q = utils.CVecSub(utils.CVecMul(a1, b1), utils.CVecMul(a2, b2))
	return
}

// pairDeriv expands the product rule across the four terms.
func (pv *polarized) pairDeriv(pp pairProduct, v []complex128) (dq []complex128, err error) {
	var a1, b1, a2, b2, da1, db1, da2, db2 []complex128
	if a1, err = pv.value(pp.a1); err != nil {
		return
	}
	if b1, err = pv.value(pp.b1); err != nil {
		return
	}
	if a2, err = pv.value(pp.a2); err != nil {
		return
	}
	if b2, err = pv.value(pp.b2); err != nil {
		return
	}
	if da1, err = pv.deriv(pp.a1, v); err != nil {
		return
	}
	if db1, err = pv.deriv(pp.b1, v); err != nil {
		return
	}
	if da2, err = pv.deriv(pp.a2, v); err != nil {
		return
	}
	if db2, err = pv.deriv(pp.b2, v); err != nil {
		return
	}
	dq = utils.CVecSub(
		utils.CVecAdd(utils.CVecMul(b1, da1), utils.CVecMul(a1, db1)),
		utils.CVecAdd(utils.CVecMul(a2, db2), utils.CVecMul(b2, da2)),
	)
	return
}

// pairAdjoint is the transpose of pairDeriv, mapping a station space
// vector back to the solution space.
func (pv *polarized) pairAdjoint(pp pairProduct, x []complex128) (r []complex128, err error) {
	var a1, b1, a2, b2 []complex128
	if a1, err = pv.value(pp.a1); err != nil {
		return
	}
	if b1, err = pv.value(pp.b1); err != nil {
		return
	}
	if a2, err = pv.value(pp.a2); err != nil {
		return
	}
	if b2, err = pv.value(pp.b2); err != nil {
		return
	}
	var t1, t2, t3, t4 []complex128
	if t1, err = pv.derivAdjoint(pp.a1, utils.CVecMul(b1, x)); err != nil {
		return
	}
	if t2, err = pv.derivAdjoint(pp.b1, utils.CVecMul(a1, x)); err != nil {
		return
	}
	if t3, err = pv.derivAdjoint(pp.b2, utils.CVecMul(a2, x)); err != nil {
		return
	}
	if t4, err = pv.derivAdjoint(pp.a2, utils.CVecMul(b2, x)); err != nil {
		return
	}
	r = utils.CVecSub(utils.CVecAdd(t1, t2), utils.CVecAdd(t3, t4))
	return
}

// ratio evaluates Hd*Q, the determinant normalized transfer function, and
// hands back the determinant diagonal alongside it. A degenerate
// polarization pair makes Hd infinite and the ratio follows IEEE
// semantics rather than erroring.
func (pv *polarized) ratio(pp pairProduct) (rt, hd []complex128, err error) {
	var q, den []complex128
	if q, err = pv.pairValue(pp); err != nil {
		return
	}
	if den, err = pv.pairValue(hdPair); err != nil {
		return
	}
	hd = utils.CVecInv(den)
	rt = utils.CVecMul(hd, q)
	return
}

// ratioDeriv applies the quotient rule Hd*(dQ - ratio*dD) along v.
func (pv *polarized) ratioDeriv(pp pairProduct, v []complex128) (dr []complex128, err error) {
	rt, hd, err := pv.ratio(pp)
	if err != nil {
		return nil, err
	}
	dq, err := pv.pairDeriv(pp, v)
	if err != nil {
		return nil, err
	}
	dhd, err := pv.pairDeriv(hdPair, v)
	if err != nil {
		return nil, err
	}
	dr = utils.CVecMul(hd, utils.CVecSub(dq, utils.CVecMul(rt, dhd)))
	return
}

// ratioAdjoint is the transpose of ratioDeriv applied to a real data
// space vector, returning the raw stacked polarization gradient.
func (pv *polarized) ratioAdjoint(pp pairProduct, v []float64) (raw []complex128, err error) {
	rt, hd, err := pv.ratio(pp)
	if err != nil {
		return nil, err
	}
	x := utils.CVecMul(hd, utils.CVecFromReal(v))
	t1, err := pv.pairAdjoint(pp, x)
	if err != nil {
		return nil, err
	}
	t2, err := pv.pairAdjoint(hdPair, utils.CVecMul(rt, x))
	if err != nil {
		return nil, err
	}
	raw = utils.CVecSub(t1, t2)
	return
}

// splitPolarizations reshapes a stacked adjoint result into one column per
// polarization. Imaginary component gradients are i times the real ones,
// the component maps being the same linear functional rotated a quarter
// turn.
func splitPolarizations(raw []complex128, comp Component) (grad *mat.CDense) {
	if len(raw)%2 != 0 {
		panic(fmt.Errorf("adjoint result length %d cannot stack two polarizations", len(raw)))
	}
	var (
		n   = len(raw) / 2
		fac = complex(1, 0)
	)
	if comp == Imag {
		fac = 1i
	}
	grad = mat.NewCDense(n, 2, nil)
	for i := 0; i < n; i++ {
		grad.Set(i, 0, fac*raw[i])
		grad.Set(i, 1, fac*raw[n+i])
	}
	return
}
