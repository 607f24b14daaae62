package NSEM

import (
	"fmt"
	"strings"
)

/*
	Natural source electromagnetic (NSEM) receiver projections.

	Receivers sample a frequency domain field solution at station locations
	and combine the samples into transfer function ratios: impedance tensor
	elements, tipper elements, or horizontal magnetic transfer functions.
	Each ratio has an exact directional derivative in both forward and
	transpose mode, so the package also serves as the sensitivity engine for
	gradient based inversion.
*/

// Component selects the real or imaginary part of a complex datum.
type Component int

const (
	Real Component = iota
	Imag
)

var componentSynonyms = map[string]Component{
	"real":         Real,
	"re":           Real,
	"in-phase":     Real,
	"inphase":      Real,
	"imag":         Imag,
	"im":           Imag,
	"quadrature":   Imag,
	"quad":         Imag,
	"out-of-phase": Imag,
}

// ParseComponent resolves a component name, accepting the customary
// synonyms for each part.
func ParseComponent(name string) (c Component, err error) {
	c, ok := componentSynonyms[strings.ToLower(name)]
	if !ok {
		err = fmt.Errorf("unknown component %q, must name the real or imaginary part", name)
	}
	return
}

func (c Component) String() string {
	if c == Imag {
		return "imag"
	}
	return "real"
}

// Extract pulls the selected part out of a complex valued datum vector.
func (c Component) Extract(z []complex128) (r []float64) {
	r = make([]float64, len(z))
	for i, zi := range z {
		if c == Imag {
			r[i] = imag(zi)
		} else {
			r[i] = real(zi)
		}
	}
	return
}

// Orientation is a tensor component pair such as "xy" or "zx".
type Orientation string

func parseOrientation(name string, allowed ...Orientation) (o Orientation, err error) {
	o = Orientation(strings.ToLower(name))
	for _, a := range allowed {
		if o == a {
			return
		}
	}
	err = fmt.Errorf("unknown orientation %q, must be one of %v", name, allowed)
	return
}
