package CYL1D

import (
	"math"
	"testing"

	"github.com/geoscope/goem/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInterpolation(t *testing.T) {
	var (
		hr = []float64{1, 1, 1}
		hz = []float64{1, 1}
	)
	msh, err := NewMesh([][]float64{hr, hz})
	require.NoError(t, err)
	// Edge rings: r knots [1,2,3], z knots [0,1,2]
	// A location on a grid node reproduces the nodal sample
	{
		locs := utils.NewMatrix(1, 2, []float64{2, 1})
		P, err := msh.InterpolationMatrix(locs, "Ex")
		require.NoError(t, err)
		nr, nc := P.Dims()
		require.Equal(t, 1, nr)
		require.Equal(t, msh.NE(), nc)
		assert.True(t, near(1, P.At(0, 4)))
		e := make([]float64, msh.NE())
		for i := range e {
			e[i] = float64(i)
		}
		v := P.MulVec(e)
		assert.True(t, near(4, v[0]))
	}
	// A cell center averages its four surrounding nodes
	{
		locs := utils.NewMatrix(1, 2, []float64{1.5, 0.5})
		P, err := msh.InterpolationMatrix(locs, "Ex")
		require.NoError(t, err)
		assert.True(t, near(0.25, P.At(0, 0)))
		assert.True(t, near(0.25, P.At(0, 1)))
		assert.True(t, near(0.25, P.At(0, 3)))
		assert.True(t, near(0.25, P.At(0, 4)))
	}
	// Cartesian rows collapse onto the meridian plane
	{
		r := math.Hypot(1.2, 1.6)
		locs3 := utils.NewMatrix(1, 3, []float64{1.2, 1.6, 1})
		locs2 := utils.NewMatrix(1, 2, []float64{r, 1})
		P3, err := msh.InterpolationMatrix(locs3, "Ex")
		require.NoError(t, err)
		P2, err := msh.InterpolationMatrix(locs2, "Ex")
		require.NoError(t, err)
		for j := 0; j < msh.NE(); j++ {
			assert.True(t, near(P2.At(0, j), P3.At(0, j), 1.e-12))
		}
	}
	// Face kinds land in their own block of the face ordering
	{
		locs := utils.NewMatrix(1, 2, []float64{1, 0.5})
		Pfx, err := msh.InterpolationMatrix(locs, "Fx")
		require.NoError(t, err)
		nr, nc := Pfx.Dims()
		require.Equal(t, 1, nr)
		require.Equal(t, msh.NF(), nc)
		var rWeight, zWeight float64
		Pfx.DoNonZero(func(i, j int, v float64) {
			if j < msh.NFr() {
				rWeight += v
			} else {
				zWeight += v
			}
		})
		assert.True(t, near(1, rWeight))
		assert.True(t, near(0, zWeight, 1.e-15))

		Pfz, err := msh.InterpolationMatrix(locs, "Fz")
		require.NoError(t, err)
		rWeight, zWeight = 0, 0
		Pfz.DoNonZero(func(i, j int, v float64) {
			if j < msh.NFr() {
				rWeight += v
			} else {
				zWeight += v
			}
		})
		assert.True(t, near(0, rWeight, 1.e-15))
		assert.True(t, near(1, zWeight))
	}
	// Locations beyond the grid clamp to the boundary sample
	{
		locs := utils.NewMatrix(2, 2, []float64{
			99, 0.5,
			2, -37,
		})
		P, err := msh.InterpolationMatrix(locs, "Ex")
		require.NoError(t, err)
		// row 0 pins r to the outer ring, split between the two z planes
		assert.True(t, near(0.5, P.At(0, 2)))
		assert.True(t, near(0.5, P.At(0, 5)))
		// row 1 pins z to the lowest plane
		assert.True(t, near(1, P.At(1, 1)))
	}
	// Unknown kinds and malformed locations are rejected
	{
		locs := utils.NewMatrix(1, 2, []float64{1, 1})
		_, err := msh.InterpolationMatrix(locs, "Qq")
		assert.Error(t, err)
		_, err = msh.InterpolationMatrix(utils.NewMatrix(1, 4), "Ex")
		assert.Error(t, err)
	}
}
