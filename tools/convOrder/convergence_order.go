package main

import (
	"flag"
	"fmt"
	"math"

	"github.com/geoscope/goem/CYL1D"
	"github.com/geoscope/goem/NSEM"
	"github.com/geoscope/goem/model_problems/MT1D"
	"github.com/geoscope/goem/utils"
)

var (
	sigma     = 0.01
	freq      = 1.0
	baseCells = 8
	levels    = 5
)

func main() {
	sigmaPtr := flag.Float64("sigma", sigma, "half space conductivity (S/m)")
	freqPtr := flag.Float64("freq", freq, "sounding frequency (Hz)")
	basePtr := flag.Int("baseCells", baseCells, "vertical cell count of the coarsest mesh")
	levelsPtr := flag.Int("levels", levels, "number of refinement levels, doubling the cells each time")
	flag.Parse()
	sigma = *sigmaPtr
	freq = *freqPtr
	baseCells = *basePtr
	levels = *levelsPtr

	cs := NewConvergenceStudy(sigma, freq)
	for l := 0; l < levels; l++ {
		numCells := baseCells << l
		rhoaErr, phaseErr := chainError(sigma, freq, numCells)
		cs.Add(numCells, rhoaErr, phaseErr)
	}
	cs.Print()
}

// ConvergenceStudy collects the half space receiver chain errors over a
// sequence of vertical mesh refinements.
type ConvergenceStudy struct {
	sigma, freq       float64
	numCells          []int
	rhoaErr, phaseErr []float64
}

func NewConvergenceStudy(sigma, freq float64) *ConvergenceStudy {
	return &ConvergenceStudy{
		sigma: sigma,
		freq:  freq,
	}
}

func (cs *ConvergenceStudy) Add(numCells int, rhoaErr, phaseErr float64) {
	cs.numCells = append(cs.numCells, numCells)
	cs.rhoaErr = append(cs.rhoaErr, rhoaErr)
	cs.phaseErr = append(cs.phaseErr, phaseErr)
}

func (cs *ConvergenceStudy) Print() {
	fmt.Printf("Sigma = %v S/m, Freq = %v Hz\n", cs.sigma, cs.freq)
	fmt.Printf("%8s %14s %8s %14s %8s\n",
		"Cells", "RhoA RelErr", "Order", "Phase Err", "Order")
	for i := range cs.numCells {
		if i == 0 {
			fmt.Printf("%8d %14.4e %8s %14.4e %8s\n",
				cs.numCells[i], cs.rhoaErr[i], "", cs.phaseErr[i], "")
			continue
		}
		ordR := math.Log2(cs.rhoaErr[i-1] / cs.rhoaErr[i])
		ordP := math.Log2(cs.phaseErr[i-1] / cs.phaseErr[i])
		fmt.Printf("%8d %14.4e %8.3f %14.4e %8.3f\n",
			cs.numCells[i], cs.rhoaErr[i], ordR, cs.phaseErr[i], ordP)
	}
}

// chainError runs the analytic half space through the 1D impedance
// receiver on a uniform mesh spanning six skin depths and returns the
// apparent resistivity and phase errors against the exact values. The
// station sits at an irrational fraction of the skin depth so that no
// refinement level lands it on an interpolation knot.
func chainError(sigma, freq float64, numCells int) (rhoaErr, phaseErr float64) {
	skin := math.Sqrt(2 / (2 * math.Pi * freq * NSEM.Mu0 * sigma))
	depth := 6 * skin
	zSt := -depth / (2 * math.Pi)
	msh, err := CYL1D.NewMesh(
		[][]float64{{1}, utils.ConstArray(numCells, depth/float64(numCells))}, -depth)
	if err != nil {
		panic(err)
	}
	z, err := MT1D.HalfSpaceImpedance(msh, sigma, []float64{freq}, [2]float64{0.5, zSt})
	if err != nil {
		panic(err)
	}
	rhoa, phase := MT1D.RhoAPhase(freq, z[0])
	rhoaErr = math.Abs(rhoa-1/sigma) * sigma
	phaseErr = math.Abs(phase - 45)
	return
}
