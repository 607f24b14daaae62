package CYL1D

import (
	"fmt"
	"math"

	"github.com/geoscope/goem/utils"
)

// InterpolationMatrix builds a sparse linear interpolation from a field
// space onto arbitrary receiver locations.
//
// kind selects the source grid: "Ex" and "Ey" sample azimuthal edges,
// giving an (nLoc x nE) matrix; "Fx" and "Fy" sample radial faces and
// "Fz" vertical faces, giving (nLoc x nF) matrices whose columns outside
// the face family are zero. Locations may be (r, z) pairs or cartesian
// (x, y, z) rows, which collapse onto the meridian plane through
// r = hypot(x, y). Coordinates beyond the grid clamp to its boundary.
func (msh *Mesh) InterpolationMatrix(locs utils.Matrix, kind string) (P utils.CSR, err error) {
	var (
		nLoc, nDim     = locs.Dims()
		rKnots, zKnots utils.Vector
		nCols, offset  int
	)
	if nDim != 2 && nDim != 3 {
		err = fmt.Errorf("locations must have 2 or 3 columns, got %d", nDim)
		return
	}
	switch kind {
	case "Ex", "Ey":
		rKnots, zKnots = msh.VectorNr(), msh.VectorNz()
		nCols = msh.NE()
	case "Fx", "Fy":
		rKnots, zKnots = msh.VectorNr(), msh.VectorCCz()
		nCols = msh.NF()
	case "Fz":
		rKnots, zKnots = msh.VectorCCr(), msh.VectorNz()
		nCols, offset = msh.NF(), msh.NFr()
	default:
		err = fmt.Errorf("unknown interpolation kind %q", kind)
		return
	}
	var (
		nr  = rKnots.Len()
		dok = utils.NewDOK(nLoc, nCols)
	)
	for l := 0; l < nLoc; l++ {
		var r, z float64
		if nDim == 2 {
			r, z = locs.At(l, 0), locs.At(l, 1)
		} else {
			r = math.Hypot(locs.At(l, 0), locs.At(l, 1))
			z = locs.At(l, 2)
		}
		ir, wr := interpWeights1D(rKnots.Data(), r)
		iz, wz := interpWeights1D(zKnots.Data(), z)
		for a, wa := range wr {
			for b, wb := range wz {
				w := wa * wb
				if w == 0 {
					continue
				}
				col := offset + (ir + a) + nr*(iz+b)
				dok.Set(l, col, dok.At(l, col)+w)
			}
		}
	}
	P = dok.ToCSR()
	return
}

// interpWeights1D gives the left knot index and the pair of linear hat
// weights for x on the knot vector g. Coordinates at or beyond either end
// collapse onto the end knot.
func interpWeights1D(g []float64, x float64) (i int, w [2]float64) {
	var (
		n = len(g)
	)
	switch {
	case n == 1 || x <= g[0]+utils.NODETOL:
		w[0] = 1
		return
	case x >= g[n-1]-utils.NODETOL:
		i = n - 2
		w[1] = 1
		return
	}
	for x > g[i+1] {
		i++
	}
	t := (x - g[i]) / (g[i+1] - g[i])
	w[0], w[1] = 1-t, t
	return
}
