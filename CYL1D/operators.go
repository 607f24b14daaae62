package CYL1D

import (
	"github.com/geoscope/goem/utils"
)

/*
	Discrete operators, assembled MATLAB style from 1D stencils: kron up to
	the tensor product grid, then scale by the edge and face geometry. Row
	ordering of face quantities is radial faces first, matching Area.
*/

// EdgeCurl maps azimuthal edge circulations to face fluxes, (nF x nE).
// Columns are weighted by edge circumference and rows by inverse face
// area, so a field that is linear in r curls exactly.
func (msh *Mesh) EdgeCurl() utils.CSR {
	if msh.edgeCurl.M == nil {
		var (
			nCr, nCz = msh.NCr(), msh.NCz()
			nNz      = msh.NNz()
			area     = msh.Area().Data()
			edge     = msh.Edge().Data()
		)
		// 1D difference stencils
		dr := utils.NewDOK(nCr, nCr)
		for i := 0; i < nCr; i++ {
			dr.Set(i, i, 1)
			if i > 0 {
				dr.Set(i, i-1, -1)
			}
		}
		dz := utils.NewDOK(nCz, nNz)
		for j := 0; j < nCz; j++ {
			dz.Set(j, j, -1)
			dz.Set(j, j+1, 1)
		}

		// 2D difference stencils
		Dr := utils.SparseKron(utils.SparseEye(nNz), dr.ToCSR())
		Dz := utils.SparseScale(-1, utils.SparseKron(dz.ToCSR(), utils.SparseEye(nCr)))

		invArea := make([]float64, len(area))
		for i, a := range area {
			invArea[i] = 1. / a
		}
		C := utils.SparseMul(
			utils.SparseMul(utils.SparseDiag(invArea), utils.SparseVStack(Dz, Dr)),
			utils.SparseDiag(edge))
		msh.edgeCurl = C
		msh.edgeCurl.SetReadOnly("EdgeCurl")
	}
	return msh.edgeCurl
}

// AveE2CC averages azimuthal edge values onto cell centres, (nC x nE).
// Every row sums to one; the innermost cell centre lies on the axis and
// takes its full radial weight from the first edge ring.
func (msh *Mesh) AveE2CC() utils.CSR {
	if msh.aveE2CC.M == nil {
		az, ar := msh.averagingStencils()
		msh.aveE2CC = utils.SparseTranspose(utils.SparseKron(az, ar))
		msh.aveE2CC.SetReadOnly("AveE2CC")
	}
	return msh.aveE2CC
}

// AveF2CC averages face values onto cell centres, (nC x nF). Every row
// sums to two, one unit per face family.
func (msh *Mesh) AveF2CC() utils.CSR {
	if msh.aveF2CC.M == nil {
		var (
			nCr, nCz = msh.NCr(), msh.NCz()
		)
		az, ar := msh.averagingStencils()
		Afr := utils.SparseKron(utils.SparseEye(nCz), ar)
		Afz := utils.SparseKron(az, utils.SparseEye(nCr))
		msh.aveF2CC = utils.SparseTranspose(utils.SparseVStack(Afr, Afz))
		msh.aveF2CC.SetReadOnly("AveF2CC")
	}
	return msh.aveF2CC
}

// averagingStencils builds the 1D half weight stencils shared by the
// averaging operators: az spreads a z cell over its two bounding node
// planes, ar spreads an r cell over its bounding node rings with the
// axis override ar[0,0] = 1.
func (msh *Mesh) averagingStencils() (az, ar utils.CSR) {
	var (
		nCr, nCz = msh.NCr(), msh.NCz()
		nNz      = msh.NNz()
	)
	azD := utils.NewDOK(nNz, nCz)
	for j := 0; j < nCz; j++ {
		azD.Set(j, j, 0.5)
		azD.Set(j+1, j, 0.5)
	}
	arD := utils.NewDOK(nCr, nCr)
	for i := 0; i < nCr; i++ {
		arD.Set(i, i, 0.5)
		if i+1 < nCr {
			arD.Set(i, i+1, 0.5)
		}
	}
	arD.Set(0, 0, 1)
	az, ar = azD.ToCSR(), arD.ToCSR()
	return
}
