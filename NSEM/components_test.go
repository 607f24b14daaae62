package NSEM

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComponents(t *testing.T) {
	for name, want := range map[string]Component{
		"real":       Real,
		"Re":         Real,
		"In-Phase":   Real,
		"imag":       Imag,
		"IM":         Imag,
		"Quadrature": Imag,
		"quad":       Imag,
	} {
		c, err := ParseComponent(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, c, name)
	}
	_, err := ParseComponent("amplitude")
	assert.Error(t, err)

	assert.Equal(t, "real", Real.String())
	assert.Equal(t, "imag", Imag.String())

	z := []complex128{1 + 2i, -3 - 4i}
	assert.True(t, nearVec([]float64{1, -3}, Real.Extract(z), 1.e-14))
	assert.True(t, nearVec([]float64{2, -4}, Imag.Extract(z), 1.e-14))
}

func TestOrientations(t *testing.T) {
	o, err := parseOrientation("XY", "xx", "xy", "yx", "yy")
	require.NoError(t, err)
	assert.Equal(t, Orientation("xy"), o)
	_, err = parseOrientation("zx", "xx", "xy", "yx", "yy")
	assert.Error(t, err)
}
