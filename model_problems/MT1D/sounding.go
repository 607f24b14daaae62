package MT1D

import (
	"fmt"
	"math"
	"math/cmplx"
	"runtime"
	"sync"
	"time"

	"github.com/geoscope/goem/NSEM"
	"github.com/geoscope/goem/utils"
)

/*
	Magnetotelluric sounding over a layered halfspace.

	The earth model is a stack of uniform conductive layers over a basement
	halfspace. For each frequency the surface impedance follows from the
	Wait recursion, propagating the basement intrinsic impedance up through
	the stack; apparent resistivity and phase are then read off the
	impedance. Frequencies are independent, so the sweep runs one partition
	of the frequency list per worker.
*/
type Sounding struct {
	// Layers from the surface down, the last one a basement halfspace
	Conductivities []float64
	Thicknesses    []float64
	Frequencies    []float64

	ParallelDegree int
	Partitions     *utils.PartitionMap
	PlotOnce       sync.Once
	chart          *utils.LineChart

	Z     []complex128
	RhoA  []float64
	Phase []float64
}

func NewSounding(conductivities, thicknesses, frequencies []float64, procLimitO ...int) (snd *Sounding, err error) {
	if len(conductivities) == 0 {
		return nil, fmt.Errorf("sounding needs at least a basement conductivity")
	}
	if len(thicknesses) != len(conductivities)-1 {
		return nil, fmt.Errorf("%d thicknesses for %d layers, the basement extends to depth",
			len(thicknesses), len(conductivities))
	}
	for _, s := range conductivities {
		if s <= 0 {
			return nil, fmt.Errorf("conductivities must be positive, got %v", s)
		}
	}
	for _, h := range thicknesses {
		if h <= 0 {
			return nil, fmt.Errorf("layer thicknesses must be positive, got %v", h)
		}
	}
	if len(frequencies) == 0 {
		return nil, fmt.Errorf("sounding needs at least one frequency")
	}
	for _, f := range frequencies {
		if f <= 0 {
			return nil, fmt.Errorf("frequencies must be positive, got %v", f)
		}
	}
	snd = &Sounding{
		Conductivities: conductivities,
		Thicknesses:    thicknesses,
		Frequencies:    frequencies,
	}
	snd.setParallelDegree(procLimitO...)
	return
}

func (snd *Sounding) setParallelDegree(procLimitO ...int) {
	if len(procLimitO) != 0 && procLimitO[0] != 0 {
		snd.ParallelDegree = procLimitO[0]
	} else {
		snd.ParallelDegree = runtime.NumCPU()
	}
	runtime.GOMAXPROCS(runtime.NumCPU())
	if snd.ParallelDegree > len(snd.Frequencies) {
		snd.ParallelDegree = 1
	}
	snd.Partitions = utils.NewPartitionMap(snd.ParallelDegree, len(snd.Frequencies))
}

// LayerImpedance propagates the basement intrinsic impedance up through
// the layer stack at one frequency,
//
//	Z_j = z_j * (Z_j+1 + z_j*tanh(k_j*h_j)) / (z_j + Z_j+1*tanh(k_j*h_j))
//
// with k_j = sqrt(i*w*mu0*sigma_j) and intrinsic impedance z_j = i*w*mu0/k_j.
func (snd *Sounding) LayerImpedance(freq float64) (z complex128) {
	var (
		n   = len(snd.Conductivities)
		iwu = complex(0, 2*math.Pi*freq*NSEM.Mu0)
	)
	k := cmplx.Sqrt(iwu * complex(snd.Conductivities[n-1], 0))
	z = iwu / k
	for j := n - 2; j >= 0; j-- {
		kj := cmplx.Sqrt(iwu * complex(snd.Conductivities[j], 0))
		zj := iwu / kj
		th := cmplx.Tanh(kj * complex(snd.Thicknesses[j], 0))
		z = zj * (z + zj*th) / (zj + z*th)
	}
	return
}

// RhoAPhase converts an impedance into apparent resistivity and phase in
// degrees.
func RhoAPhase(freq float64, z complex128) (rhoa, phase float64) {
	var (
		w   = 2 * math.Pi * freq
		azs = cmplx.Abs(z)
	)
	rhoa = azs * azs / (w * NSEM.Mu0)
	phase = math.Atan2(imag(z), real(z)) * 180 / math.Pi
	return
}

// Run sweeps the frequency list, printing the sounding curve and
// optionally plotting apparent resistivity against period.
func (snd *Sounding) Run(showGraph bool, graphDelay ...time.Duration) {
	var (
		nFreq = len(snd.Frequencies)
		wg    = sync.WaitGroup{}
		pm    = snd.Partitions
	)
	fmt.Printf("Layered earth sounding: %d layers, %d frequencies, %d workers\n",
		len(snd.Conductivities), nFreq, snd.ParallelDegree)
	for j, s := range snd.Conductivities {
		if j < len(snd.Thicknesses) {
			fmt.Printf("  layer %d: sigma = %8.4g S/m, thickness = %8.4g m\n", j+1, s, snd.Thicknesses[j])
		} else {
			fmt.Printf("  basement: sigma = %8.4g S/m\n", s)
		}
	}
	snd.Z = make([]complex128, nFreq)
	snd.RhoA = make([]float64, nFreq)
	snd.Phase = make([]float64, nFreq)
	for np := 0; np < pm.ParallelDegree; np++ {
		wg.Add(1)
		go func(np int) {
			defer wg.Done()
			kMin, kMax := pm.GetBucketRange(np)
			for k := kMin; k < kMax; k++ {
				freq := snd.Frequencies[k]
				z := snd.LayerImpedance(freq)
				snd.Z[k] = z
				snd.RhoA[k], snd.Phase[k] = RhoAPhase(freq, z)
			}
		}(np)
	}
	wg.Wait()
	fmt.Printf("%14s %14s %12s\n", "freq [Hz]", "rho_a [Ohm.m]", "phase [deg]")
	for k, freq := range snd.Frequencies {
		fmt.Printf("%14.6g %14.5g %12.3f\n", freq, snd.RhoA[k], snd.Phase[k])
	}
	if showGraph {
		snd.plotCurve(graphDelay...)
	}
}

func (snd *Sounding) plotCurve(graphDelay ...time.Duration) {
	var (
		nFreq      = len(snd.Frequencies)
		logT, logR = make([]float64, nFreq), make([]float64, nFreq)
		delay      time.Duration
	)
	if len(graphDelay) != 0 {
		delay = graphDelay[0]
	}
	// Sounding curves are customarily drawn against period
	for k, freq := range snd.Frequencies {
		logT[k] = math.Log10(1 / freq)
		logR[k] = math.Log10(snd.RhoA[k])
	}
	var (
		xmin, xmax = utils.NewVector(nFreq, logT).Min(), utils.NewVector(nFreq, logT).Max()
		fmin, fmax = utils.NewVector(nFreq, logR).Min(), utils.NewVector(nFreq, logR).Max()
	)
	snd.PlotOnce.Do(func() {
		snd.chart = utils.NewLineChart(1920, 1280, xmin, xmax, fmin-0.5, fmax+0.5)
	})
	snd.chart.Plot(delay, logT, logR, 0.7, "log10 apparent resistivity")
}

// Synthesize packages the sounding as survey data at a surface station:
// one source per frequency carrying the real and imaginary impedance
// receivers, with the noise free values kept alongside.
func (snd *Sounding) Synthesize(station [2]float64) (data *NSEM.SyntheticData, err error) {
	locs := utils.NewMatrix(1, 2, []float64{station[0], station[1]})
	rxR, err := NSEM.NewPointImpedance1D(locs, "real")
	if err != nil {
		return
	}
	rxI, err := NSEM.NewPointImpedance1D(locs, "imag")
	if err != nil {
		return
	}
	srcs := make([]*NSEM.Source, len(snd.Frequencies))
	for k, freq := range snd.Frequencies {
		srcs[k] = NSEM.NewSource(freq, rxR, rxI)
	}
	if data, err = NSEM.NewSyntheticData(NSEM.NewSurvey(srcs...)); err != nil {
		return
	}
	for _, src := range srcs {
		z := snd.LayerImpedance(src.Freq)
		for _, blk := range []struct {
			rx   NSEM.Receiver
			vals []float64
		}{
			{rxR, []float64{real(z)}},
			{rxI, []float64{imag(z)}},
		} {
			if err = data.Set(src, blk.rx, blk.vals); err != nil {
				return
			}
			if err = data.SetClean(src, blk.rx, blk.vals); err != nil {
				return
			}
		}
	}
	return
}
