package NSEM

import (
	"fmt"
	"math"

	"github.com/geoscope/goem/utils"
)

// Source is one natural source excitation at a single frequency, owning
// the receivers that measure its response. Sources are compared by
// identity, so the same *Source must be used for solving, storing fields
// and indexing data.
type Source struct {
	Freq   float64
	RxList []Receiver
}

func NewSource(freq float64, rxList ...Receiver) *Source {
	return &Source{Freq: freq, RxList: rxList}
}

func (src *Source) NumData() (nD int) {
	for _, rx := range src.RxList {
		nD += rx.NumData()
	}
	return
}

// Survey is an ordered collection of sources. The ordering fixes the
// layout of every data vector indexed against the survey.
type Survey struct {
	SrcList []*Source
}

func NewSurvey(srcList ...*Source) *Survey {
	return &Survey{SrcList: srcList}
}

func (sv *Survey) NumData() (nD int) {
	for _, src := range sv.SrcList {
		nD += src.NumData()
	}
	return
}

func (sv *Survey) Freqs() (freqs []float64) {
	freqs = make([]float64, len(sv.SrcList))
	for i, src := range sv.SrcList {
		freqs[i] = src.Freq
	}
	return
}

/*
	Data stores a survey sized vector of observed data along with its
	uncertainty model, addressable by (source, receiver) pair. Index ranges
	are laid out walking the survey's sources and each source's receivers
	in order, so the same survey always produces the same layout.

	Unset observations are NaN and a (source, receiver) block can only be
	written once; synthetic experiments that overwrite their data should
	use SyntheticData instead.
*/
type Data struct {
	Survey *Survey
	Dobs   []float64

	standardDeviation []float64
	noiseFloor        []float64

	index map[*Source]map[Receiver]utils.Index
}

func NewData(sv *Survey, dobsO ...[]float64) (d *Data, err error) {
	d = &Data{Survey: sv}
	if len(dobsO) != 0 {
		if len(dobsO[0]) != sv.NumData() {
			return nil, fmt.Errorf("observed data length %d, want %d for the survey",
				len(dobsO[0]), sv.NumData())
		}
		d.Dobs = make([]float64, sv.NumData())
		copy(d.Dobs, dobsO[0])
	} else {
		d.Dobs = make([]float64, sv.NumData())
		for i := range d.Dobs {
			d.Dobs[i] = math.NaN()
		}
	}
	d.index = make(map[*Source]map[Receiver]utils.Index)
	var bot, top int
	for _, src := range sv.SrcList {
		d.index[src] = make(map[Receiver]utils.Index)
		for _, rx := range src.RxList {
			top += rx.NumData()
			d.index[src][rx] = utils.NewRange(bot, top-1)
			bot += rx.NumData()
		}
	}
	return
}

func (d *Data) NumData() int {
	return len(d.Dobs)
}

func (d *Data) indexOf(src *Source, rx Receiver) (inds utils.Index, err error) {
	byRx, ok := d.index[src]
	if !ok {
		err = fmt.Errorf("source is not part of the survey")
		return
	}
	if inds, ok = byRx[rx]; !ok {
		err = fmt.Errorf("receiver is not listed under the source")
	}
	return
}

// Get copies out the datum block for a (source, receiver) pair.
func (d *Data) Get(src *Source, rx Receiver) (vals []float64, err error) {
	inds, err := d.indexOf(src, rx)
	if err != nil {
		return
	}
	vals = make([]float64, len(inds))
	for k, i := range inds {
		vals[k] = d.Dobs[i]
	}
	return
}

// GetSource concatenates the datum blocks of every receiver of a source.
func (d *Data) GetSource(src *Source) (vals []float64, err error) {
	if _, ok := d.index[src]; !ok {
		err = fmt.Errorf("source is not part of the survey")
		return
	}
	for _, rx := range src.RxList {
		block, err := d.Get(src, rx)
		if err != nil {
			return nil, err
		}
		vals = append(vals, block...)
	}
	return
}

// Set writes the datum block for a (source, receiver) pair. A block can
// only be written while its entries are still NaN.
func (d *Data) Set(src *Source, rx Receiver, vals []float64) (err error) {
	inds, err := d.indexOf(src, rx)
	if err != nil {
		return
	}
	if len(vals) != rx.NumData() {
		return fmt.Errorf("value length %d, want the receiver's %d data", len(vals), rx.NumData())
	}
	for _, i := range inds {
		if !math.IsNaN(d.Dobs[i]) {
			return fmt.Errorf("observed data cannot be overwritten, use a new Data or a SyntheticData")
		}
	}
	for k, i := range inds {
		d.Dobs[i] = vals[k]
	}
	return
}

func (d *Data) broadcast(name string, vals []float64) (out []float64, err error) {
	switch len(vals) {
	case 1:
		out = utils.ConstArray(d.NumData(), vals[0])
	case d.NumData():
		out = make([]float64, len(vals))
		copy(out, vals)
	default:
		err = fmt.Errorf("%s length %d, want 1 or %d", name, len(vals), d.NumData())
	}
	return
}

// SetStandardDeviation accepts either a single relative value broadcast
// over the survey or one value per datum.
func (d *Data) SetStandardDeviation(vals []float64) (err error) {
	d.standardDeviation, err = d.broadcast("standard deviation", vals)
	return
}

// SetNoiseFloor accepts either a single absolute value broadcast over the
// survey or one value per datum.
func (d *Data) SetNoiseFloor(vals []float64) (err error) {
	d.noiseFloor, err = d.broadcast("noise floor", vals)
	return
}

func (d *Data) StandardDeviation() []float64 { return d.standardDeviation }
func (d *Data) NoiseFloor() []float64        { return d.noiseFloor }

// Uncertainty combines the relative and absolute uncertainty models,
//
//	uncertainty = standard_deviation*|dobs| + noise_floor
//
// requiring at least one of the two to have been set.
func (d *Data) Uncertainty() (unc []float64, err error) {
	if d.standardDeviation == nil && d.noiseFloor == nil {
		err = fmt.Errorf("set the standard deviation and/or the noise floor before asking for uncertainties")
		return
	}
	unc = make([]float64, d.NumData())
	if d.standardDeviation != nil {
		for i := range unc {
			unc[i] += d.standardDeviation[i] * math.Abs(d.Dobs[i])
		}
	}
	if d.noiseFloor != nil {
		for i := range unc {
			unc[i] += d.noiseFloor[i]
		}
	}
	return
}

// SetUncertainty installs a directly specified uncertainty, clearing the
// relative model and storing the values as the floor.
func (d *Data) SetUncertainty(vals []float64) (err error) {
	d.standardDeviation = nil
	return d.SetNoiseFloor(vals)
}

// Deprecated: use StandardDeviation.
func (d *Data) Std() []float64 { return d.StandardDeviation() }

// Deprecated: use SetStandardDeviation.
func (d *Data) SetStd(vals []float64) error { return d.SetStandardDeviation(vals) }

// Deprecated: use NoiseFloor.
func (d *Data) Eps() []float64 { return d.NoiseFloor() }

// Deprecated: use SetNoiseFloor.
func (d *Data) SetEps(vals []float64) error { return d.SetNoiseFloor(vals) }

// SyntheticData is a Data variant for simulation output: it keeps the
// noise free data alongside and permits overwriting blocks.
type SyntheticData struct {
	Data
	Dclean []float64
}

func NewSyntheticData(sv *Survey) (d *SyntheticData, err error) {
	base, err := NewData(sv)
	if err != nil {
		return
	}
	d = &SyntheticData{Data: *base}
	d.Dclean = make([]float64, sv.NumData())
	for i := range d.Dclean {
		d.Dclean[i] = math.NaN()
	}
	return
}

// Set writes the datum block for a (source, receiver) pair, overwriting
// any previous values.
func (d *SyntheticData) Set(src *Source, rx Receiver, vals []float64) (err error) {
	inds, err := d.indexOf(src, rx)
	if err != nil {
		return
	}
	if len(vals) != rx.NumData() {
		return fmt.Errorf("value length %d, want the receiver's %d data", len(vals), rx.NumData())
	}
	for k, i := range inds {
		d.Dobs[i] = vals[k]
	}
	return
}

// SetClean writes the noise free datum block for a (source, receiver)
// pair, overwriting any previous values.
func (d *SyntheticData) SetClean(src *Source, rx Receiver, vals []float64) (err error) {
	inds, err := d.indexOf(src, rx)
	if err != nil {
		return
	}
	if len(vals) != rx.NumData() {
		return fmt.Errorf("value length %d, want the receiver's %d data", len(vals), rx.NumData())
	}
	for k, i := range inds {
		d.Dclean[i] = vals[k]
	}
	return
}
