package CYL1D

import (
	"fmt"

	"github.com/geoscope/goem/utils"
)

// GetMass produces the diagonal mass matrix for material property
// products on edges (loc 'e') or faces (loc 'f').
//
// materialProp may be nil for a unit property, a single value broadcast
// over the mesh, one value per cell, or one value per z layer of a
// layered earth model.
func (msh *Mesh) GetMass(materialProp []float64, loc byte) (M utils.CSR, err error) {
	var (
		nC, nCr, nCz = msh.NC(), msh.NCr(), msh.NCz()
		prop         []float64
		Av           utils.CSR
	)
	switch {
	case materialProp == nil:
		prop = utils.ConstArray(nC, 1)
	case len(materialProp) == 1:
		prop = utils.ConstArray(nC, materialProp[0])
	case len(materialProp) == nC:
		prop = materialProp
	case len(materialProp) == nCz:
		// one value per z layer, repeated across the radial cells
		prop = make([]float64, nC)
		for j := 0; j < nCz; j++ {
			for i := 0; i < nCr; i++ {
				prop[i+nCr*j] = materialProp[j]
			}
		}
	default:
		err = fmt.Errorf("materialProp incorrect shape: len = %d, want 1, nC = %d or nCz = %d", len(materialProp), nC, nCz)
		return
	}
	switch loc {
	case 'e':
		Av = msh.AveE2CC()
	case 'f':
		Av = msh.AveF2CC()
	default:
		err = fmt.Errorf("invalid mass matrix location %q, want 'e' or 'f'", loc)
		return
	}
	var (
		vol  = msh.Vol().Data()
		volP = make([]float64, nC)
	)
	for i, v := range vol {
		volP[i] = v * prop[i]
	}
	M = utils.SparseDiag(Av.MulTVec(volP))
	return
}

// GetEdgeMass is the mass matrix for products of edge functions w'*M(prop)*e.
func (msh *Mesh) GetEdgeMass(materialProp []float64) (utils.CSR, error) {
	return msh.GetMass(materialProp, 'e')
}

// GetFaceMass is the mass matrix for products of face functions w'*M(prop)*f.
func (msh *Mesh) GetFaceMass(materialProp []float64) (utils.CSR, error) {
	return msh.GetMass(materialProp, 'f')
}
