package NSEM

import (
	"fmt"
	"math"

	"github.com/geoscope/goem/CYL1D"
	"github.com/geoscope/goem/utils"
)

// Mu0 is the vacuum magnetic permeability, used to convert flux density
// samples into magnetic field.
const Mu0 = 4.e-7 * math.Pi

func omega(freq float64) float64 {
	return 2 * math.Pi * freq
}

/*
	Field solution contracts.

	A field object holds the discrete frequency domain solution for each
	source of a survey. Receivers read it through one of the two interfaces
	below and never mutate it. The directional derivative methods expose the
	linear map from the solution degrees of freedom to each field component;
	with adjoint set they apply the transpose of that map, so that
	<x, Deriv(v)> == <DerivAdjoint(x), v> under the unconjugated pairing.
*/

// Fields3D is the two polarization solution consumed by the 3D receiver
// variants. The solution vector stacks the x polarization degrees of
// freedom ahead of the y polarization ones, so NumDOF is always even.
type Fields3D interface {
	NumDOF() int
	Epx(src *Source) []complex128
	Epy(src *Source) []complex128
	Bpx(src *Source) []complex128
	Bpy(src *Source) []complex128
	EpxDeriv(src *Source, v []complex128, adjoint bool) []complex128
	EpyDeriv(src *Source, v []complex128, adjoint bool) []complex128
	BpxDeriv(src *Source, v []complex128, adjoint bool) []complex128
	BpyDeriv(src *Source, v []complex128, adjoint bool) []complex128
}

// Fields1D is the single polarization solution consumed by the 1D
// impedance receiver.
type Fields1D interface {
	NumDOF() int
	E1D(src *Source) []complex128
	B1D(src *Source) []complex128
	EDeriv(src *Source, v []complex128, adjoint bool) []complex128
	BDeriv(src *Source, v []complex128, adjoint bool) []complex128
}

/*
	SolutionFields is the concrete Fields3D for solutions computed on a
	cylindrical mesh. The stored unknown is the edge electric field for both
	polarizations; the magnetic flux follows from Faraday's law,

		b = -1/(i w) curl e

	so the flux and its derivative are derived through the mesh edge curl
	rather than stored.
*/
type SolutionFields struct {
	Msh *CYL1D.Mesh
	sol map[*Source][]complex128
}

func NewSolutionFields(msh *CYL1D.Mesh) *SolutionFields {
	return &SolutionFields{
		Msh: msh,
		sol: make(map[*Source][]complex128),
	}
}

func (sf *SolutionFields) NumDOF() int {
	return 2 * sf.Msh.NE()
}

// Set stores the stacked (px, py) edge electric solution for a source,
// replacing any previous solution.
func (sf *SolutionFields) Set(src *Source, u []complex128) error {
	if len(u) != sf.NumDOF() {
		return fmt.Errorf("solution length %d, want %d for two polarizations of %d edges",
			len(u), sf.NumDOF(), sf.Msh.NE())
	}
	sf.sol[src] = u
	return nil
}

func (sf *SolutionFields) u(src *Source) []complex128 {
	u, ok := sf.sol[src]
	if !ok {
		panic(fmt.Errorf("no field solution stored for source at %v Hz", src.Freq))
	}
	return u
}

func (sf *SolutionFields) Epx(src *Source) []complex128 {
	return sf.u(src)[:sf.Msh.NE()]
}

func (sf *SolutionFields) Epy(src *Source) []complex128 {
	return sf.u(src)[sf.Msh.NE():]
}

func (sf *SolutionFields) faradayFactor(src *Source) complex128 {
	return -1 / (1i * complex(omega(src.Freq), 0))
}

func (sf *SolutionFields) Bpx(src *Source) []complex128 {
	return utils.CVecScale(sf.Msh.EdgeCurl().MulVecC(sf.Epx(src)), sf.faradayFactor(src))
}

func (sf *SolutionFields) Bpy(src *Source) []complex128 {
	return utils.CVecScale(sf.Msh.EdgeCurl().MulVecC(sf.Epy(src)), sf.faradayFactor(src))
}

// The electric derivatives slice out one polarization of the solution
// perturbation; their adjoints pad the complementary polarization with
// zeros so results always live in the full stacked space.
func (sf *SolutionFields) EpxDeriv(src *Source, v []complex128, adjoint bool) []complex128 {
	var (
		nE = sf.Msh.NE()
	)
	if adjoint {
		r := make([]complex128, 2*nE)
		copy(r, v)
		return r
	}
	return v[:nE]
}

func (sf *SolutionFields) EpyDeriv(src *Source, v []complex128, adjoint bool) []complex128 {
	var (
		nE = sf.Msh.NE()
	)
	if adjoint {
		r := make([]complex128, 2*nE)
		copy(r[nE:], v)
		return r
	}
	return v[nE:]
}

func (sf *SolutionFields) BpxDeriv(src *Source, v []complex128, adjoint bool) []complex128 {
	var (
		C   = sf.Msh.EdgeCurl()
		fac = sf.faradayFactor(src)
	)
	if adjoint {
		return sf.EpxDeriv(src, utils.CVecScale(C.MulTVecC(v), fac), true)
	}
	return utils.CVecScale(C.MulVecC(sf.EpxDeriv(src, v, false)), fac)
}

func (sf *SolutionFields) BpyDeriv(src *Source, v []complex128, adjoint bool) []complex128 {
	var (
		C   = sf.Msh.EdgeCurl()
		fac = sf.faradayFactor(src)
	)
	if adjoint {
		return sf.EpyDeriv(src, utils.CVecScale(C.MulTVecC(v), fac), true)
	}
	return utils.CVecScale(C.MulVecC(sf.EpyDeriv(src, v, false)), fac)
}
