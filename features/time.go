package features

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/cwbudde/algo-pipeline/signal"
)

// MAV computes the mean absolute value of each channel, optionally applying
// a weighting window to the rectified signal.
//
// The plain form weights all samples equally. MAV1 uses a rectangular
// window that de-emphasizes the first and last quarters of the window with
// weight 0.5. MAV2 uses a trapezoidal window ramping between 0 and 1 over
// the same quarters. A custom weight vector must match the chunk length.
type MAV struct {
	mode    mavMode
	custom  []float64
	weights []float64 // cached for the current chunk length
}

type mavMode int

const (
	mavPlain mavMode = iota
	mav1
	mav2
	mavCustom
)

// NewMAV returns the unweighted mean absolute value feature.
func NewMAV() *MAV {
	return &MAV{mode: mavPlain}
}

// NewMAV1 returns MAV with the rectangular de-emphasis window.
func NewMAV1() *MAV {
	return &MAV{mode: mav1}
}

// NewMAV2 returns MAV with the trapezoidal de-emphasis window.
func NewMAV2() *MAV {
	return &MAV{mode: mav2}
}

// NewMAVWeighted returns MAV with caller-supplied weights.
func NewMAVWeighted(weights []float64) *MAV {
	w := make([]float64, len(weights))
	copy(w, weights)
	return &MAV{mode: mavCustom, custom: w}
}

// FeaturesPerChannel returns 1.
func (m *MAV) FeaturesPerChannel() int { return 1 }

// Compute returns the weighted mean absolute value of each channel.
func (m *MAV) Compute(in *signal.Buffer) ([]float64, error) {
	n := in.Samples()
	if len(m.weights) != n {
		w, err := m.makeWeights(n)
		if err != nil {
			return nil, err
		}
		m.weights = w
	}

	tmp := make([]float64, n)
	out := perChannel(in, func(row []float64) float64 {
		for i, v := range row {
			tmp[i] = math.Abs(v)
		}
		vecmath.MulBlockInPlace(tmp, m.weights)
		return floats.Sum(tmp) / float64(n)
	})
	return out, nil
}

func (m *MAV) makeWeights(n int) ([]float64, error) {
	w := make([]float64, n)
	for i := range w {
		w[i] = 1
	}

	lo := int(math.Ceil(0.25*float64(n))) - 1
	hi := int(math.Floor(0.75 * float64(n)))

	switch m.mode {
	case mavPlain:
	case mav1:
		for i := 0; i < lo; i++ {
			w[i] = 0.5
		}
		for i := hi; i < n; i++ {
			w[i] = 0.5
		}
	case mav2:
		for i := 0; i < lo; i++ {
			w[i] = 4 * float64(i+1) / float64(n)
		}
		for i := hi; i < n; i++ {
			w[i] = 4 * float64(n-(i+1)) / float64(n)
		}
	case mavCustom:
		if len(m.custom) != n {
			return nil, fmt.Errorf("mav: %d weights for chunk of %d samples", len(m.custom), n)
		}
		copy(w, m.custom)
	}
	return w, nil
}

// MeanValue computes the mean of each channel.
type MeanValue struct{}

// NewMeanValue returns the mean value feature.
func NewMeanValue() *MeanValue { return &MeanValue{} }

// FeaturesPerChannel returns 1.
func (*MeanValue) FeaturesPerChannel() int { return 1 }

// Compute returns the mean of each channel.
func (*MeanValue) Compute(in *signal.Buffer) ([]float64, error) {
	return perChannel(in, func(row []float64) float64 {
		return stat.Mean(row, nil)
	}), nil
}

// WaveformLength computes the cumulative length of each channel's waveform,
// the sum of absolute differences between adjacent samples.
type WaveformLength struct{}

// NewWaveformLength returns the waveform length feature.
func NewWaveformLength() *WaveformLength { return &WaveformLength{} }

// FeaturesPerChannel returns 1.
func (*WaveformLength) FeaturesPerChannel() int { return 1 }

// Compute returns the waveform length of each channel.
func (*WaveformLength) Compute(in *signal.Buffer) ([]float64, error) {
	return perChannel(in, func(row []float64) float64 {
		var sum float64
		for _, d := range diff(row) {
			sum += math.Abs(d)
		}
		return sum
	}), nil
}

// WilsonAmplitude counts sample-to-sample amplitude changes exceeding a
// threshold.
type WilsonAmplitude struct {
	threshold float64
}

// NewWilsonAmplitude returns the Wilson amplitude feature.
func NewWilsonAmplitude(threshold float64) *WilsonAmplitude {
	return &WilsonAmplitude{threshold: threshold}
}

// FeaturesPerChannel returns 1.
func (*WilsonAmplitude) FeaturesPerChannel() int { return 1 }

// Compute returns the Wilson amplitude of each channel.
func (w *WilsonAmplitude) Compute(in *signal.Buffer) ([]float64, error) {
	return perChannel(in, func(row []float64) float64 {
		var count float64
		for _, d := range diff(row) {
			if math.Abs(d) >= w.threshold {
				count++
			}
		}
		return count
	}), nil
}

// ZeroCrossings counts sign changes between adjacent samples. The threshold
// discriminates true crossings from low-level noise about zero: a crossing
// only counts when the step between the two samples exceeds it.
type ZeroCrossings struct {
	threshold float64
}

// NewZeroCrossings returns the zero crossings feature.
func NewZeroCrossings(threshold float64) *ZeroCrossings {
	return &ZeroCrossings{threshold: threshold}
}

// FeaturesPerChannel returns 1.
func (*ZeroCrossings) FeaturesPerChannel() int { return 1 }

// Compute returns the thresholded zero-crossing count of each channel.
func (z *ZeroCrossings) Compute(in *signal.Buffer) ([]float64, error) {
	return perChannel(in, func(row []float64) float64 {
		var count float64
		for i := 0; i+1 < len(row); i++ {
			if math.Signbit(row[i]) != math.Signbit(row[i+1]) &&
				math.Abs(row[i+1]-row[i]) > z.threshold {
				count++
			}
		}
		return count
	}), nil
}

// SlopeSignChanges counts changes in the sign of the slope. The threshold
// requires at least one of the two adjacent slopes to be steeper than it.
type SlopeSignChanges struct {
	threshold float64
}

// NewSlopeSignChanges returns the slope sign changes feature.
func NewSlopeSignChanges(threshold float64) *SlopeSignChanges {
	return &SlopeSignChanges{threshold: threshold}
}

// FeaturesPerChannel returns 1.
func (*SlopeSignChanges) FeaturesPerChannel() int { return 1 }

// Compute returns the thresholded slope sign change count of each channel.
func (s *SlopeSignChanges) Compute(in *signal.Buffer) ([]float64, error) {
	return perChannel(in, func(row []float64) float64 {
		d := diff(row)
		var count float64
		for i := 0; i+1 < len(d); i++ {
			if math.Signbit(d[i]) != math.Signbit(d[i+1]) &&
				math.Max(math.Abs(d[i]), math.Abs(d[i+1])) > s.threshold {
				count++
			}
		}
		return count
	}), nil
}

// RootMeanSquare computes the RMS amplitude of each channel.
type RootMeanSquare struct{}

// NewRootMeanSquare returns the RMS feature.
func NewRootMeanSquare() *RootMeanSquare { return &RootMeanSquare{} }

// FeaturesPerChannel returns 1.
func (*RootMeanSquare) FeaturesPerChannel() int { return 1 }

// Compute returns the RMS of each channel.
func (*RootMeanSquare) Compute(in *signal.Buffer) ([]float64, error) {
	return perChannel(in, func(row []float64) float64 {
		if len(row) == 0 {
			return 0
		}
		return math.Sqrt(floats.Dot(row, row) / float64(len(row)))
	}), nil
}

// IntegratedAbsoluteValue sums the rectified signal of each channel
// (the "integrated EMG" feature).
type IntegratedAbsoluteValue struct{}

// NewIntegratedAbsoluteValue returns the integrated absolute value feature.
func NewIntegratedAbsoluteValue() *IntegratedAbsoluteValue {
	return &IntegratedAbsoluteValue{}
}

// FeaturesPerChannel returns 1.
func (*IntegratedAbsoluteValue) FeaturesPerChannel() int { return 1 }

// Compute returns the rectified sum of each channel.
func (*IntegratedAbsoluteValue) Compute(in *signal.Buffer) ([]float64, error) {
	return perChannel(in, func(row []float64) float64 {
		var sum float64
		for _, v := range row {
			sum += math.Abs(v)
		}
		return sum
	}), nil
}

// Variance computes the population variance of each channel.
type Variance struct{}

// NewVariance returns the variance feature.
func NewVariance() *Variance { return &Variance{} }

// FeaturesPerChannel returns 1.
func (*Variance) FeaturesPerChannel() int { return 1 }

// Compute returns the population variance of each channel.
func (*Variance) Compute(in *signal.Buffer) ([]float64, error) {
	return perChannel(in, popVariance), nil
}

// LogVariance computes log10 of the population variance of each channel.
// For mean-zero signals this scales with amplitude like RMS but compresses
// the range, which tends to linearize amplitude-to-intent mappings.
type LogVariance struct{}

// NewLogVariance returns the log-variance feature.
func NewLogVariance() *LogVariance { return &LogVariance{} }

// FeaturesPerChannel returns 1.
func (*LogVariance) FeaturesPerChannel() int { return 1 }

// Compute returns log10 of the population variance of each channel.
// A zero-variance channel yields -Inf.
func (*LogVariance) Compute(in *signal.Buffer) ([]float64, error) {
	return perChannel(in, func(row []float64) float64 {
		return math.Log10(popVariance(row))
	}), nil
}

// Skewness computes the population skewness of each channel.
type Skewness struct{}

// NewSkewness returns the skewness feature.
func NewSkewness() *Skewness { return &Skewness{} }

// FeaturesPerChannel returns 1.
func (*Skewness) FeaturesPerChannel() int { return 1 }

// Compute returns the population skewness of each channel. Zero-variance
// channels yield 0.
func (*Skewness) Compute(in *signal.Buffer) ([]float64, error) {
	return perChannel(in, func(row []float64) float64 {
		m2 := stat.Moment(2, row, nil)
		if m2 <= 0 {
			return 0
		}
		return stat.Moment(3, row, nil) / math.Pow(m2, 1.5)
	}), nil
}

// Kurtosis computes the excess kurtosis of each channel.
type Kurtosis struct{}

// NewKurtosis returns the kurtosis feature.
func NewKurtosis() *Kurtosis { return &Kurtosis{} }

// FeaturesPerChannel returns 1.
func (*Kurtosis) FeaturesPerChannel() int { return 1 }

// Compute returns the population excess kurtosis of each channel.
// Zero-variance channels yield 0.
func (*Kurtosis) Compute(in *signal.Buffer) ([]float64, error) {
	return perChannel(in, func(row []float64) float64 {
		m2 := stat.Moment(2, row, nil)
		if m2 <= 0 {
			return 0
		}
		return stat.Moment(4, row, nil)/(m2*m2) - 3
	}), nil
}

// Hjorth computes the three Hjorth parameters of each channel: activity
// (variance), mobility, and complexity.
type Hjorth struct{}

// NewHjorth returns the Hjorth parameters feature.
func NewHjorth() *Hjorth { return &Hjorth{} }

// FeaturesPerChannel returns 3.
func (*Hjorth) FeaturesPerChannel() int { return 3 }

// Compute returns activity, mobility, and complexity for each channel, in
// that feature order.
func (*Hjorth) Compute(in *signal.Buffer) ([]float64, error) {
	nch := in.Channels()
	out := make([]float64, 3*nch)
	for c := 0; c < nch; c++ {
		row := in.Row(c)
		d1 := diff(row)
		d2 := diff(d1)

		v0 := popVariance(row)
		v1 := popVariance(d1)
		v2 := popVariance(d2)

		var mobility, complexity float64
		if v0 > 0 {
			mobility = math.Sqrt(v1 / v0)
		}
		if v1 > 0 && mobility > 0 {
			complexity = math.Sqrt(v2/v1) / mobility
		}

		out[0*nch+c] = v0
		out[1*nch+c] = mobility
		out[2*nch+c] = complexity
	}
	return out, nil
}

// popVariance returns the population (biased) variance.
func popVariance(row []float64) float64 {
	if len(row) == 0 {
		return 0
	}
	return stat.Moment(2, row, nil)
}
