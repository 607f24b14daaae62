package InputParameters

import (
	"fmt"

	"github.com/ghodss/yaml"
)

// Parameters obtained from the YAML input file
type SoundingParameters struct {
	Title          string    `yaml:"Title"`
	Conductivities []float64 `yaml:"Conductivities"` // Layer conductivities (S/m), surface layer first
	Thicknesses    []float64 `yaml:"Thicknesses"`    // Layer thicknesses (m), one fewer than conductivities
	Frequencies    []float64 `yaml:"Frequencies"`
	Hr             []float64 `yaml:"Hr"` // Radial cell widths for the half space mesh check
	Hz             []float64 `yaml:"Hz"` // Vertical cell widths, bottom cell first
	Z0             float64   `yaml:"Z0"` // Mesh origin depth (m), negative below the surface
	Station        []float64 `yaml:"Station"` // Receiver station (r, z) for synthetic data
	ProcLimit      int       `yaml:"ProcLimit"`
}

func (sp *SoundingParameters) Parse(data []byte) error {
	return yaml.Unmarshal(data, sp)
}

func (sp *SoundingParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", sp.Title)
	fmt.Printf("%v\t= Conductivities (S/m)\n", sp.Conductivities)
	fmt.Printf("%v\t\t= Thicknesses (m)\n", sp.Thicknesses)
	fmt.Printf("%v\t= Frequencies (Hz)\n", sp.Frequencies)
	fmt.Printf("%v\t\t= Hr (m)\n", sp.Hr)
	fmt.Printf("%v\t\t= Hz (m)\n", sp.Hz)
	fmt.Printf("%8.5g\t\t= Z0 (m)\n", sp.Z0)
	fmt.Printf("%v\t\t= Station (r, z)\n", sp.Station)
	fmt.Printf("[%d]\t\t\t\t= ProcLimit\n", sp.ProcLimit)
}
