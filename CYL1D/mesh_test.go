package CYL1D

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMesh(t *testing.T) {
	var (
		hr = []float64{1, 2, 3}
		hz = []float64{2, 2}
	)
	msh, err := NewMesh([][]float64{hr, hz}, -4)
	require.NoError(t, err)
	// Counts
	{
		assert.Equal(t, 3, msh.NCr())
		assert.Equal(t, 2, msh.NCz())
		assert.Equal(t, 6, msh.NC())
		assert.Equal(t, 3, msh.NNr()) // no axis ring
		assert.Equal(t, 3, msh.NNz())
		assert.Equal(t, 9, msh.NN())
		assert.Equal(t, 6, msh.NFr())
		assert.Equal(t, 9, msh.NFz())
		assert.Equal(t, 15, msh.NF())
		assert.Equal(t, 9, msh.NE())
	}
	// Coordinate vectors
	{
		assert.True(t, nearVec([]float64{1, 3, 6}, msh.VectorNr().Data(), 1.e-12))
		assert.True(t, nearVec([]float64{-4, -2, 0}, msh.VectorNz().Data(), 1.e-12))
		assert.True(t, nearVec([]float64{0, 2, 4.5}, msh.VectorCCr().Data(), 1.e-12))
		assert.True(t, nearVec([]float64{-3, -1}, msh.VectorCCz().Data(), 1.e-12))
	}
	// Grids, radial index fastest
	{
		gc := msh.GridCC()
		nr, nc := gc.Dims()
		assert.Equal(t, 6, nr)
		assert.Equal(t, 2, nc)
		assert.True(t, near(2, gc.At(1, 0)))
		assert.True(t, near(-3, gc.At(1, 1)))
		assert.True(t, near(4.5, gc.At(5, 0)))
		assert.True(t, near(-1, gc.At(5, 1)))
		gn := msh.GridN()
		assert.True(t, near(1, gn.At(0, 0)))
		assert.True(t, near(-4, gn.At(0, 1)))
		assert.True(t, near(6, gn.At(8, 0)))
		assert.True(t, near(0, gn.At(8, 1), 1.e-12))
		gfr := msh.GridFr()
		nr, _ = gfr.Dims()
		assert.Equal(t, 6, nr)
		assert.True(t, near(3, gfr.At(4, 0)))
		assert.True(t, near(-1, gfr.At(4, 1)))
		gfz := msh.GridFz()
		nr, _ = gfz.Dims()
		assert.Equal(t, 9, nr)
		assert.True(t, near(2, gfz.At(4, 0)))
		assert.True(t, near(-2, gfz.At(4, 1)))
	}
	// Geometry
	{
		edge := msh.Edge()
		require.Equal(t, 9, edge.Len())
		assert.True(t, near(2*math.Pi, edge.AtVec(0)))
		assert.True(t, near(12*math.Pi, edge.AtVec(8)))
		area := msh.Area()
		require.Equal(t, 15, area.Len())
		assert.True(t, near(4*math.Pi, area.AtVec(0)))
		assert.True(t, near(24*math.Pi, area.AtVec(2)))
		assert.True(t, near(math.Pi, area.AtVec(6))) // innermost z face is a disc
		assert.True(t, near(27*math.Pi, area.AtVec(14)))
		vol := msh.Vol()
		require.Equal(t, 6, vol.Len())
		assert.True(t, near(2*math.Pi, vol.AtVec(0)))
		assert.True(t, near(54*math.Pi, vol.AtVec(5)))
		// cells tile the cylinder
		R, H := msh.VectorNr().Max(), msh.Hz.Sum()
		assert.True(t, near(math.Pi*R*R*H, vol.Sum()))
	}
	// Memoization hands back the same backing objects
	{
		assert.True(t, msh.GridCC().M == msh.GridCC().M)
		assert.True(t, msh.VectorNr().V == msh.VectorNr().V)
		assert.True(t, msh.EdgeCurl().M == msh.EdgeCurl().M)
	}
	// Construction errors
	{
		_, err := NewMesh([][]float64{hr})
		assert.Error(t, err)
		_, err = NewMesh([][]float64{hr, {}})
		assert.Error(t, err)
		_, err = NewMesh([][]float64{hr, {1, -1}})
		assert.Error(t, err)
		_, err = NewMesh([][]float64{hr, hz}, 0, 0)
		assert.Error(t, err)
	}
	// Grids are read only
	{
		assert.Panics(t, func() { msh.GridN().Set(0, 0, 99) })
	}
}

func TestMeshDefaults(t *testing.T) {
	msh, err := NewMesh([][]float64{{1, 1}, {1}})
	require.NoError(t, err)
	assert.True(t, near(0.5, msh.VectorCCz().AtVec(0))) // z0 defaults to zero
	assert.True(t, nearVec([]float64{0, 1.5}, msh.VectorCCr().Data(), 1.e-12))
}

func nearVec(a, b []float64, tol float64) (l bool) {
	for i, val := range a {
		if !near(b[i], val, tol) {
			fmt.Printf("Diff = %v, Left[%d] = %v, Right[%d] = %v\n", math.Abs(val-b[i]), i, val, i, b[i])
			return false
		}
	}
	return true
}

func near(a, b float64, tolI ...float64) (l bool) {
	var (
		tol float64
	)
	if len(tolI) == 0 {
		tol = 1.e-08
	} else {
		tol = tolI[0]
	}
	bound := math.Max(tol, tol*math.Abs(a))
	if math.Abs(a-b) <= bound {
		l = true
	}
	return
}
