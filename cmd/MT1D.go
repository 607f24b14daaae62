/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"io/ioutil"
	"math"
	"os"
	"time"

	"github.com/geoscope/goem/CYL1D"
	"github.com/geoscope/goem/InputParameters"
	"github.com/geoscope/goem/model_problems/MT1D"

	"github.com/spf13/cobra"
)

type ModelMT1D struct {
	SoundingFile string
	Graph        bool
	Delay        time.Duration
}

// MT1DCmd represents the MT1D command
var MT1DCmd = &cobra.Command{
	Use:   "MT1D",
	Short: "Layered earth magnetotelluric sounding",
	Long: `Computes the surface impedance of a layered conductivity model over a
range of frequencies and reports apparent resistivity and phase,

goem MT1D -F sounding.yaml`,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			err error
		)
		fmt.Println("MT1D called")
		mmt := &ModelMT1D{}
		if mmt.SoundingFile, err = cmd.Flags().GetString("soundingFile"); err != nil {
			panic(err)
		}
		mmt.Graph, _ = cmd.Flags().GetBool("graph")
		dr, _ := cmd.Flags().GetInt("delay")
		mmt.Delay = time.Duration(time.Duration(dr) * time.Millisecond)
		sp := processSounding(mmt)
		RunMT1D(mmt, sp)
	},
}

func processSounding(mmt *ModelMT1D) (sp *InputParameters.SoundingParameters) {
	var (
		err error
	)
	if len(mmt.SoundingFile) == 0 {
		err := fmt.Errorf("must supply a sounding file (-F, --soundingFile) in YAML format")
		fmt.Printf("error: %s\n", err.Error())
		exampleFile := `
########################################
Title: "Two Layer Sounding"
Conductivities: [0.01, 0.1]
Thicknesses: [2000.]
Frequencies: [0.001, 0.01, 0.1, 1., 10., 100.]
Hr: [1.]           # optional half space mesh check
Hz: [100., 100.]
Z0: -200.
Station: [0.5, -50.]
ProcLimit: 0
########################################
`
		fmt.Printf("Example File:%s\n", exampleFile)
		os.Exit(1)
	}
	var data []byte
	if data, err = ioutil.ReadFile(mmt.SoundingFile); err != nil {
		panic(err)
	}
	sp = &InputParameters.SoundingParameters{}
	if err = sp.Parse(data); err != nil {
		panic(err)
	}
	return
}

func init() {
	rootCmd.AddCommand(MT1DCmd)
	MT1DCmd.Flags().StringP("soundingFile", "F", "", "YAML file describing the layered model:\n\t- Conductivities\n\t- Thicknesses\n\t- Frequencies")
	MT1DCmd.Flags().BoolP("graph", "g", false, "display a graph while computing solution")
	MT1DCmd.Flags().IntP("delay", "d", 0, "milliseconds of delay for plotting")
}

func RunMT1D(mmt *ModelMT1D, sp *InputParameters.SoundingParameters) {
	sp.Print()
	c, err := MT1D.NewSounding(sp.Conductivities, sp.Thicknesses, sp.Frequencies, sp.ProcLimit)
	if err != nil {
		fmt.Printf("error: %s\n", err.Error())
		os.Exit(1)
	}
	c.Run(mmt.Graph, mmt.Delay)
	if len(sp.Station) == 2 {
		printSynthetic(c, sp)
	}
	if len(sp.Conductivities) == 1 && len(sp.Hr) != 0 && len(sp.Hz) != 0 && len(sp.Station) == 2 {
		printHalfSpaceCheck(c, sp)
	}
}

// printSynthetic fills a synthetic data container with the recursion
// impedance at the station and prints it block by block.
func printSynthetic(c *MT1D.Sounding, sp *InputParameters.SoundingParameters) {
	sd, err := c.Synthesize([2]float64{sp.Station[0], sp.Station[1]})
	if err != nil {
		fmt.Printf("error: %s\n", err.Error())
		os.Exit(1)
	}
	fmt.Printf("\nSynthetic impedance data at station (%g, %g)\n", sp.Station[0], sp.Station[1])
	fmt.Printf("%14s %16s %16s %14s %12s\n",
		"Freq (Hz)", "Real(Z)", "Imag(Z)", "App Res (Ohmm)", "Phase (deg)")
	for _, src := range sd.Survey.SrcList {
		blk, err := sd.GetSource(src)
		if err != nil {
			panic(err)
		}
		rhoa, phase := MT1D.RhoAPhase(src.Freq, complex(blk[0], blk[1]))
		fmt.Printf("%14.6g %16.6g %16.6g %14.5g %12.3f\n",
			src.Freq, blk[0], blk[1], rhoa, phase)
	}
}

// printHalfSpaceCheck drives the 1D impedance receiver through the full
// mesh interpolation chain on an analytic half space and compares it
// against the layer recursion.
func printHalfSpaceCheck(c *MT1D.Sounding, sp *InputParameters.SoundingParameters) {
	msh, err := CYL1D.NewMesh([][]float64{sp.Hr, sp.Hz}, sp.Z0)
	if err != nil {
		fmt.Printf("error: %s\n", err.Error())
		os.Exit(1)
	}
	st := [2]float64{sp.Station[0], sp.Station[1]}
	zc, err := MT1D.HalfSpaceImpedance(msh, sp.Conductivities[0], sp.Frequencies, st)
	if err != nil {
		fmt.Printf("error: %s\n", err.Error())
		os.Exit(1)
	}
	fmt.Printf("\nHalf space receiver chain against the layer recursion\n")
	fmt.Printf("%14s %14s %14s %12s\n",
		"Freq (Hz)", "Chain Rho_a", "Exact Rho_a", "Rel Error")
	for i, freq := range sp.Frequencies {
		rc, _ := MT1D.RhoAPhase(freq, zc[i])
		re, _ := MT1D.RhoAPhase(freq, c.LayerImpedance(freq))
		fmt.Printf("%14.6g %14.5g %14.5g %12.2e\n",
			freq, rc, re, math.Abs(rc-re)/re)
	}
}
