package MT1D

import (
	"math"
	"testing"

	"github.com/geoscope/goem/CYL1D"
	"github.com/geoscope/goem/NSEM"
	"github.com/geoscope/goem/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLayerImpedance(t *testing.T) {
	// A halfspace recovers its own resistivity at 45 degrees phase for
	// every frequency
	{
		snd, err := NewSounding([]float64{0.01}, nil, []float64{0.1, 1, 10}, 1)
		require.NoError(t, err)
		for _, freq := range snd.Frequencies {
			rhoa, phase := RhoAPhase(freq, snd.LayerImpedance(freq))
			assert.True(t, near(100, rhoa, 1.e-12), "freq %v", freq)
			assert.True(t, near(45, phase, 1.e-12), "freq %v", freq)
		}
	}
	// A uniform stack is indistinguishable from the halfspace
	{
		stack, err := NewSounding([]float64{0.01, 0.01, 0.01}, []float64{100, 2000}, []float64{2}, 1)
		require.NoError(t, err)
		half, err := NewSounding([]float64{0.01}, nil, []float64{2}, 1)
		require.NoError(t, err)
		zs, zh := stack.LayerImpedance(2), half.LayerImpedance(2)
		assert.True(t, near(real(zh), real(zs), 1.e-12))
		assert.True(t, near(imag(zh), imag(zs), 1.e-12))
	}
	// A top layer many skin depths thick hides the basement
	{
		snd, err := NewSounding([]float64{0.1, 1}, []float64{50000}, []float64{10}, 1)
		require.NoError(t, err)
		rhoa, phase := RhoAPhase(10, snd.LayerImpedance(10))
		assert.True(t, near(10, rhoa, 1.e-08))
		assert.True(t, near(45, phase, 1.e-08))
	}
	// At low frequency a thin overburden becomes transparent and the
	// basement resistivity shows through
	{
		snd, err := NewSounding([]float64{1, 0.01}, []float64{100}, []float64{1.e-05}, 1)
		require.NoError(t, err)
		rhoa, _ := RhoAPhase(1.e-05, snd.LayerImpedance(1.e-05))
		assert.True(t, near(100, rhoa, 0.05))
	}
}

func TestSoundingConstruction(t *testing.T) {
	_, err := NewSounding(nil, nil, []float64{1})
	assert.Error(t, err)
	_, err = NewSounding([]float64{0.01, 0.1}, nil, []float64{1})
	assert.Error(t, err)
	_, err = NewSounding([]float64{-0.01}, nil, []float64{1})
	assert.Error(t, err)
	_, err = NewSounding([]float64{0.01, 0.1}, []float64{-5}, []float64{1})
	assert.Error(t, err)
	_, err = NewSounding([]float64{0.01}, nil, nil)
	assert.Error(t, err)
	_, err = NewSounding([]float64{0.01}, nil, []float64{0})
	assert.Error(t, err)

	// More workers than frequencies collapses to a serial sweep
	snd, err := NewSounding([]float64{0.01}, nil, []float64{1, 10}, 16)
	require.NoError(t, err)
	assert.Equal(t, 1, snd.ParallelDegree)
}

func TestSoundingRun(t *testing.T) {
	freqs := []float64{0.01, 0.1, 1, 10, 100}
	snd, err := NewSounding([]float64{0.5, 0.002}, []float64{800}, freqs, 2)
	require.NoError(t, err)
	require.Equal(t, 2, snd.ParallelDegree)
	snd.Run(false)
	require.Equal(t, len(freqs), len(snd.RhoA))
	// The parallel sweep fills every slot with the serial answer
	for k, freq := range freqs {
		z := snd.LayerImpedance(freq)
		rhoa, phase := RhoAPhase(freq, z)
		assert.True(t, near(real(z), real(snd.Z[k]), 1.e-14), "freq %v", freq)
		assert.True(t, near(imag(z), imag(snd.Z[k]), 1.e-14), "freq %v", freq)
		assert.True(t, near(rhoa, snd.RhoA[k], 1.e-14))
		assert.True(t, near(phase, snd.Phase[k], 1.e-14))
	}
}

func TestSynthesize(t *testing.T) {
	snd, err := NewSounding([]float64{0.02}, nil, []float64{1, 10}, 1)
	require.NoError(t, err)
	data, err := snd.Synthesize([2]float64{0, 0})
	require.NoError(t, err)
	require.Equal(t, 4, data.NumData())
	for _, src := range data.Survey.SrcList {
		z := snd.LayerImpedance(src.Freq)
		vals, err := data.GetSource(src)
		require.NoError(t, err)
		assert.True(t, nearVec([]float64{real(z), imag(z)}, vals, 1.e-14))
	}
	// The noise free copy matches and the uncertainty model applies
	assert.True(t, nearVec(data.Dobs, data.Dclean, 1.e-14))
	require.NoError(t, data.SetStandardDeviation([]float64{0.05}))
	unc, err := data.Uncertainty()
	require.NoError(t, err)
	for i, u := range unc {
		assert.True(t, near(0.05*math.Abs(data.Dobs[i]), u, 1.e-14))
	}
}

func TestHalfSpaceChain(t *testing.T) {
	// 100 m cells resolve the 1 Hz skin depth of the 100 Ohm.m halfspace
	// to a fraction of a percent
	msh, err := CYL1D.NewMesh([][]float64{{1}, utils.ConstArray(40, 100)}, -4000)
	require.NoError(t, err)
	var (
		sigma   = 0.01
		freqs   = []float64{1}
		station = [2]float64{0.5, -50}
	)
	z, err := HalfSpaceImpedance(msh, sigma, freqs, station)
	require.NoError(t, err)
	require.Equal(t, 1, len(z))

	// Projection chain against the closed form impedance
	{
		half, err := NewSounding([]float64{sigma}, nil, freqs, 1)
		require.NoError(t, err)
		zw := half.LayerImpedance(freqs[0])
		assert.True(t, near(real(zw), real(z[0]), 2.e-05))
		assert.True(t, near(imag(zw), imag(z[0]), 2.e-05))
		rhoa, phase := RhoAPhase(freqs[0], z[0])
		assert.True(t, near(1/sigma, rhoa, 5.e-03))
		assert.True(t, near(45, phase, 1.e-03))
	}
	// The ratio is invariant to the surface amplitude, so the exact
	// derivative along the single degree of freedom vanishes
	{
		locs := utils.NewMatrix(1, 2, []float64{station[0], station[1]})
		rx, err := NSEM.NewPointImpedance1D(locs, "real")
		require.NoError(t, err)
		hs := NewHalfSpaceFields(msh, sigma)
		src := NSEM.NewSource(freqs[0], rx)
		d, err := rx.EvalDeriv(src, msh, hs, []complex128{1})
		require.NoError(t, err)
		assert.True(t, near(0, d[0], 1.e-12))
		grad, err := rx.EvalAdjoint(src, msh, hs, []float64{1})
		require.NoError(t, err)
		nU, nCol := grad.Dims()
		require.Equal(t, 1, nU)
		require.Equal(t, 1, nCol)
		assert.True(t, near(0, real(grad.At(0, 0)), 1.e-12))
		assert.True(t, near(0, imag(grad.At(0, 0)), 1.e-12))
	}
}

func nearVec(a, b []float64, tol float64) (l bool) {
	for i, val := range a {
		if !near(b[i], val, tol) {
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
