package MT1D

import (
	"math"
	"math/cmplx"

	"github.com/geoscope/goem/CYL1D"
	"github.com/geoscope/goem/NSEM"
	"github.com/geoscope/goem/utils"
)

/*
	HalfSpaceFields is the closed form plane wave solution over a uniform
	halfspace, laid out on the discrete spaces of a cylindrical mesh: the
	horizontal electric field on the radial face family and the flux on the
	edge family, both decaying as exp(-k d) with depth d below the mesh top.

	The single degree of freedom is the surface amplitude. The transfer
	function is invariant to it, which makes the exact derivative of any
	receiver ratio through these fields identically zero; the appraisal
	command uses that as an end to end consistency check.
*/
type HalfSpaceFields struct {
	Msh   *CYL1D.Mesh
	Sigma float64
	E0    complex128
}

func NewHalfSpaceFields(msh *CYL1D.Mesh, sigma float64) *HalfSpaceFields {
	return &HalfSpaceFields{Msh: msh, Sigma: sigma, E0: 1}
}

func (hs *HalfSpaceFields) NumDOF() int { return 1 }

func (hs *HalfSpaceFields) wavenumber(freq float64) complex128 {
	return cmplx.Sqrt(complex(0, 2*math.Pi*freq*NSEM.Mu0*hs.Sigma))
}

// shapeE is the unit amplitude electric field over the face family; only
// the radial faces carry the horizontal field.
func (hs *HalfSpaceFields) shapeE(freq float64) (s []complex128) {
	var (
		msh  = hs.Msh
		k    = hs.wavenumber(freq)
		zTop = msh.VectorNz().Max()
		gfr  = msh.GridFr()
	)
	s = make([]complex128, msh.NF())
	for i := 0; i < msh.NFr(); i++ {
		s[i] = cmplx.Exp(-k * complex(zTop-gfr.At(i, 1), 0))
	}
	return
}

// shapeB is the unit amplitude flux over the edge family, scaled so the
// receiver ratio -e/h lands on the intrinsic impedance i*w*mu0/k.
func (hs *HalfSpaceFields) shapeB(freq float64) (s []complex128) {
	var (
		msh   = hs.Msh
		k     = hs.wavenumber(freq)
		bCoef = -k / complex(0, 2*math.Pi*freq)
		zTop  = msh.VectorNz().Max()
		gn    = msh.GridN()
	)
	s = make([]complex128, msh.NE())
	for i := range s {
		s[i] = bCoef * cmplx.Exp(-k*complex(zTop-gn.At(i, 1), 0))
	}
	return
}

func (hs *HalfSpaceFields) E1D(src *NSEM.Source) []complex128 {
	return utils.CVecScale(hs.shapeE(src.Freq), hs.E0)
}

func (hs *HalfSpaceFields) B1D(src *NSEM.Source) []complex128 {
	return utils.CVecScale(hs.shapeB(src.Freq), hs.E0)
}

func (hs *HalfSpaceFields) EDeriv(src *NSEM.Source, v []complex128, adjoint bool) []complex128 {
	s := hs.shapeE(src.Freq)
	if adjoint {
		return []complex128{utils.CVecDot(s, v)}
	}
	return utils.CVecScale(s, v[0])
}

func (hs *HalfSpaceFields) BDeriv(src *NSEM.Source, v []complex128, adjoint bool) []complex128 {
	s := hs.shapeB(src.Freq)
	if adjoint {
		return []complex128{utils.CVecDot(s, v)}
	}
	return utils.CVecScale(s, v[0])
}

// HalfSpaceImpedance runs the receiver projection chain over a uniform
// halfspace, one complex impedance per frequency at the station.
func HalfSpaceImpedance(msh *CYL1D.Mesh, sigma float64, freqs []float64, station [2]float64) (z []complex128, err error) {
	locs := utils.NewMatrix(1, 2, []float64{station[0], station[1]})
	rx, err := NSEM.NewPointImpedance1D(locs, "real")
	if err != nil {
		return
	}
	hs := NewHalfSpaceFields(msh, sigma)
	z = make([]complex128, len(freqs))
	for k, freq := range freqs {
		zf, errF := rx.EvalComplex(NSEM.NewSource(freq, rx), msh, hs)
		if errF != nil {
			return nil, errF
		}
		z[k] = zf[0]
	}
	return
}
