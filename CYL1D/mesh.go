package CYL1D

import (
	"fmt"
	"math"

	"github.com/geoscope/goem/utils"
)

/*
	Mesh is a cylindrically symmetric finite volume mesh: the tensor product
	of a radial cell spacing Hr with a vertical cell spacing Hz, rotated
	about the symmetry axis. There are no degrees of freedom on the axis
	itself, so the innermost node ring sits at radius Hr[0].

	Unknown orderings, radial index always cycling fastest:
		cells   cell centres, the innermost centre is on the axis
		nodes   node rings, axis ring excluded
		faces   radial faces first, vertical faces after
		edges   azimuthal edge rings, one through every node

	Geometry and operators are built on first access and cached; a Mesh is
	immutable once constructed.
*/
type Mesh struct {
	Hr, Hz utils.Vector // cell widths
	Z0     float64      // vertical origin offset

	vectorNr, vectorNz   utils.Vector
	vectorCCr, vectorCCz utils.Vector
	gridCC, gridN        utils.Matrix
	gridFr, gridFz       utils.Matrix
	edge, area, vol      utils.Vector

	edgeCurl, aveE2CC, aveF2CC utils.CSR
}

func NewMesh(h [][]float64, z0O ...float64) (msh *Mesh, err error) {
	if len(h) != 2 {
		err = fmt.Errorf("cell widths must be supplied as [radial, vertical], got %d groups", len(h))
		return
	}
	for dim, widths := range h {
		if len(widths) == 0 {
			err = fmt.Errorf("cell width group %d is empty", dim)
			return
		}
		for i, w := range widths {
			if w <= 0 {
				err = fmt.Errorf("cell widths must be positive: h[%d][%d] = %v", dim, i, w)
				return
			}
		}
	}
	if len(z0O) > 1 {
		err = fmt.Errorf("at most one vertical origin may be supplied, got %d values", len(z0O))
		return
	}
	msh = &Mesh{
		Hr: utils.NewVector(len(h[0]), h[0]).Copy(),
		Hz: utils.NewVector(len(h[1]), h[1]).Copy(),
	}
	if len(z0O) != 0 {
		msh.Z0 = z0O[0]
	}
	return
}

// Counts
func (msh *Mesh) NCr() int { return msh.Hr.Len() }
func (msh *Mesh) NCz() int { return msh.Hz.Len() }
func (msh *Mesh) NC() int  { return msh.NCr() * msh.NCz() }

// NNr counts node rings, the axis carries none
func (msh *Mesh) NNr() int { return msh.NCr() }
func (msh *Mesh) NNz() int { return msh.NCz() + 1 }
func (msh *Mesh) NN() int  { return msh.NNr() * msh.NNz() }

func (msh *Mesh) NFr() int { return msh.NNr() * msh.NCz() }
func (msh *Mesh) NFz() int { return msh.NNz() * msh.NCr() }
func (msh *Mesh) NF() int  { return msh.NFr() + msh.NFz() }

// NE counts azimuthal edge rings, one through every node
func (msh *Mesh) NE() int { return msh.NN() }

// Coordinate vectors
func (msh *Mesh) VectorNr() utils.Vector {
	if msh.vectorNr.V == nil {
		msh.vectorNr = msh.Hr.CumSum()
	}
	return msh.vectorNr
}

func (msh *Mesh) VectorNz() utils.Vector {
	if msh.vectorNz.V == nil {
		msh.vectorNz = utils.NewVector(1).Concat(msh.Hz.CumSum()).AddScalar(msh.Z0)
	}
	return msh.vectorNz
}

func (msh *Mesh) VectorCCr() utils.Vector {
	// The innermost centre is taken on the axis, the rest are radial cell midpoints
	if msh.vectorCCr.V == nil {
		var (
			nCr  = msh.NCr()
			hr   = msh.Hr.Data()
			cs   = msh.Hr.CumSum().Data()
			data = make([]float64, nCr)
		)
		for i := 1; i < nCr; i++ {
			data[i] = cs[i] - 0.5*hr[i]
		}
		msh.vectorCCr = utils.NewVector(nCr, data)
	}
	return msh.vectorCCr
}

func (msh *Mesh) VectorCCz() utils.Vector {
	if msh.vectorCCz.V == nil {
		var (
			nCz  = msh.NCz()
			hz   = msh.Hz.Data()
			cs   = msh.Hz.CumSum().Data()
			data = make([]float64, nCz)
		)
		for j := 0; j < nCz; j++ {
			data[j] = cs[j] - 0.5*hz[j] + msh.Z0
		}
		msh.vectorCCz = utils.NewVector(nCz, data)
	}
	return msh.vectorCCz
}

// Grids, one (r, z) row per unknown
func (msh *Mesh) GridCC() utils.Matrix {
	if msh.gridCC.M == nil {
		msh.gridCC = tensorGrid(msh.VectorCCr(), msh.VectorCCz())
		msh.gridCC.SetReadOnly("GridCC")
	}
	return msh.gridCC
}

func (msh *Mesh) GridN() utils.Matrix {
	if msh.gridN.M == nil {
		msh.gridN = tensorGrid(msh.VectorNr(), msh.VectorNz())
		msh.gridN.SetReadOnly("GridN")
	}
	return msh.gridN
}

func (msh *Mesh) GridFr() utils.Matrix {
	if msh.gridFr.M == nil {
		msh.gridFr = tensorGrid(msh.VectorNr(), msh.VectorCCz())
		msh.gridFr.SetReadOnly("GridFr")
	}
	return msh.gridFr
}

func (msh *Mesh) GridFz() utils.Matrix {
	if msh.gridFz.M == nil {
		msh.gridFz = tensorGrid(msh.VectorCCr(), msh.VectorNz())
		msh.gridFz.SetReadOnly("GridFz")
	}
	return msh.gridFz
}

func tensorGrid(r, z utils.Vector) (R utils.Matrix) {
	var (
		nr, nz = r.Len(), z.Len()
		rD, zD = r.Data(), z.Data()
	)
	R = utils.NewMatrix(nr*nz, 2)
	for j := 0; j < nz; j++ {
		for i := 0; i < nr; i++ {
			R.SetRow(i+nr*j, []float64{rD[i], zD[j]})
		}
	}
	return
}

// Edge returns the circumference of every azimuthal edge ring.
func (msh *Mesh) Edge() utils.Vector {
	if msh.edge.V == nil {
		msh.edge = msh.GridN().Col(0).Scale(2 * math.Pi)
	}
	return msh.edge
}

// Area returns the face areas, radial faces followed by vertical faces.
func (msh *Mesh) Area() utils.Vector {
	if msh.area.V == nil {
		var (
			nCr, nCz = msh.NCr(), msh.NCz()
			nNr, nNz = msh.NNr(), msh.NNz()
			nFr      = msh.NFr()
			vnr      = msh.VectorNr().Data()
			hz       = msh.Hz.Data()
			ring     = msh.ringAreas()
			data     = make([]float64, msh.NF())
		)
		for j := 0; j < nCz; j++ {
			for i := 0; i < nNr; i++ {
				data[i+nNr*j] = hz[j] * 2 * math.Pi * vnr[i]
			}
		}
		for j := 0; j < nNz; j++ {
			for i := 0; i < nCr; i++ {
				data[nFr+i+nCr*j] = ring[i]
			}
		}
		msh.area = utils.NewVector(msh.NF(), data)
	}
	return msh.area
}

// Vol returns the cell volumes.
func (msh *Mesh) Vol() utils.Vector {
	if msh.vol.V == nil {
		var (
			nCr, nCz = msh.NCr(), msh.NCz()
			hz       = msh.Hz.Data()
			ring     = msh.ringAreas()
			data     = make([]float64, msh.NC())
		)
		for j := 0; j < nCz; j++ {
			for i := 0; i < nCr; i++ {
				data[i+nCr*j] = hz[j] * ring[i]
			}
		}
		msh.vol = utils.NewVector(msh.NC(), data)
	}
	return msh.vol
}

// ringAreas gives the annulus area between consecutive node rings, the
// innermost is a full disc.
func (msh *Mesh) ringAreas() (ring []float64) {
	var (
		vnr = msh.VectorNr().Data()
	)
	ring = make([]float64, len(vnr))
	for i, r := range vnr {
		rIn := 0.
		if i > 0 {
			rIn = vnr[i-1]
		}
		ring[i] = math.Pi * (r*r - rIn*rIn)
	}
	return
}
