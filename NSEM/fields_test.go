package NSEM

import (
	"math"
	"testing"

	"github.com/geoscope/goem/CYL1D"
	"github.com/geoscope/goem/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSolutionFields(t *testing.T) {
	msh, err := CYL1D.NewMesh([][]float64{{1, 1, 1}, {2, 2}})
	require.NoError(t, err)
	var (
		nE, nF = msh.NE(), msh.NF()
		nFr    = msh.NFr()
		// omega = 1 makes the Faraday factor exactly i
		src = NewSource(1 / (2 * math.Pi))
		f   = NewSolutionFields(msh)
	)
	require.Equal(t, 2*nE, f.NumDOF())
	assert.Error(t, f.Set(src, make([]complex128, 5)))

	// Store e = r as the x polarization and e = z as the y polarization;
	// both curl exactly on this mesh
	var (
		vnr = msh.VectorNr().Data()
		vnz = msh.VectorNz().Data()
		u   = make([]complex128, 2*nE)
	)
	for j := 0; j < msh.NNz(); j++ {
		for i := 0; i < msh.NNr(); i++ {
			u[i+msh.NNr()*j] = complex(vnr[i], 0)
			u[nE+i+msh.NNr()*j] = complex(vnz[j], 0)
		}
	}
	require.NoError(t, f.Set(src, u))
	assert.Equal(t, u[:nE], f.Epx(src))
	assert.Equal(t, u[nE:], f.Epy(src))

	// curl of e = r vanishes on radial faces and is 2 on vertical faces,
	// so b_px = 2i there
	{
		bpx := f.Bpx(src)
		require.Equal(t, nF, len(bpx))
		for k := 0; k < nFr; k++ {
			assert.True(t, near(0, real(bpx[k]), 1.e-12))
			assert.True(t, near(0, imag(bpx[k]), 1.e-12))
		}
		for k := nFr; k < nF; k++ {
			assert.True(t, near(0, real(bpx[k]), 1.e-12))
			assert.True(t, near(2, imag(bpx[k]), 1.e-12))
		}
	}
	// curl of e = z is -1 on every radial face and 2z/r weighted by the
	// annulus on vertical faces
	{
		bpy := f.Bpy(src)
		expected := []float64{
			-1, -1, -1, -1, -1, -1,
			0, 0, 0,
			4, 4. / 3., 4. / 5.,
			8, 8. / 3., 8. / 5.,
		}
		require.Equal(t, len(expected), len(bpy))
		for k := range expected {
			assert.True(t, near(0, real(bpy[k]), 1.e-12), "face %d", k)
			assert.True(t, near(expected[k], imag(bpy[k]), 1.e-12), "face %d", k)
		}
	}
	// The flux is linear in the solution
	assert.Equal(t, f.Bpx(src), f.BpxDeriv(src, u, false))
	assert.Equal(t, f.Bpy(src), f.BpyDeriv(src, u, false))

	// Electric derivatives slice, their adjoints pad
	{
		v := waveVec(2*nE, 0.7, 1.9, 0.1, 0.8)
		assert.Equal(t, v[:nE], f.EpxDeriv(src, v, false))
		assert.Equal(t, v[nE:], f.EpyDeriv(src, v, false))
		x := waveVec(nE, 1.1, 0.4, 2.0, 0.6)
		pad := f.EpyDeriv(src, x, true)
		require.Equal(t, 2*nE, len(pad))
		for i := 0; i < nE; i++ {
			assert.Equal(t, complex(0, 0), pad[i])
			assert.Equal(t, x[i], pad[nE+i])
		}
	}
	// Transpose identity for the flux derivatives under the unconjugated
	// pairing
	{
		v := waveVec(2*nE, 0.9, 1.3, 2.1, 0.4)
		x := waveVec(nF, 1.7, 0.3, 0.5, 1.2)
		for _, pair := range []struct {
			fwd, adj []complex128
		}{
			{f.BpxDeriv(src, v, false), f.BpxDeriv(src, x, true)},
			{f.BpyDeriv(src, v, false), f.BpyDeriv(src, x, true)},
		} {
			lhs := utils.CVecDot(x, pair.fwd)
			rhs := utils.CVecDot(pair.adj, v)
			assert.True(t, near(real(lhs), real(rhs), 1.e-12))
			assert.True(t, near(imag(lhs), imag(rhs), 1.e-12))
		}
	}
	// Reading a source with no stored solution is a programming error
	assert.Panics(t, func() { f.Epx(NewSource(60)) })
}
