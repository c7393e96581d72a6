package features

import (
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-pipeline/signal"
)

// spectralEstimator holds the shared FFT machinery for frequency-domain
// features. The plan is cached and rebuilt only when the chunk length
// changes.
type spectralEstimator struct {
	sampleRate float64

	fftSize int
	plan    *algofft.Plan[complex128]
	in      []complex128
	out     []complex128
	power   []float64
}

func newSpectralEstimator(sampleRate float64) (*spectralEstimator, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("sample rate must be > 0: %f", sampleRate)
	}
	return &spectralEstimator{sampleRate: sampleRate}, nil
}

// powerSpectrum returns the one-sided power spectrum of row, bins 0..N/2.
// The returned slice is reused between calls.
func (s *spectralEstimator) powerSpectrum(row []float64) ([]float64, error) {
	fftSize := nextPowerOf2(len(row))
	if fftSize < 2 {
		return nil, fmt.Errorf("chunk too short for spectral features: %d samples", len(row))
	}

	if fftSize != s.fftSize {
		plan, err := algofft.NewPlan64(fftSize)
		if err != nil {
			return nil, err
		}
		s.plan = plan
		s.fftSize = fftSize
		s.in = make([]complex128, fftSize)
		s.out = make([]complex128, fftSize)
		s.power = make([]float64, fftSize/2+1)
	}

	for i := range s.in {
		if i < len(row) {
			s.in[i] = complex(row[i], 0)
		} else {
			s.in[i] = 0
		}
	}

	if err := s.plan.Forward(s.out, s.in); err != nil {
		return nil, err
	}

	bins := fftSize/2 + 1
	re := make([]float64, bins)
	im := make([]float64, bins)
	for i := 0; i < bins; i++ {
		re[i] = real(s.out[i])
		im[i] = imag(s.out[i])
	}
	vecmath.Power(s.power, re, im)
	return s.power, nil
}

// binFreq returns the center frequency in Hz of bin i.
func (s *spectralEstimator) binFreq(i int) float64 {
	return float64(i) * s.sampleRate / float64(s.fftSize)
}

// MeanFrequency computes the power-weighted mean frequency of each channel.
type MeanFrequency struct {
	est *spectralEstimator
}

// NewMeanFrequency returns the mean frequency feature for signals sampled
// at the given rate.
func NewMeanFrequency(sampleRate float64) (*MeanFrequency, error) {
	est, err := newSpectralEstimator(sampleRate)
	if err != nil {
		return nil, err
	}
	return &MeanFrequency{est: est}, nil
}

// FeaturesPerChannel returns 1.
func (*MeanFrequency) FeaturesPerChannel() int { return 1 }

// Compute returns the mean frequency of each channel. A channel with no
// spectral power yields 0.
func (m *MeanFrequency) Compute(in *signal.Buffer) ([]float64, error) {
	nch := in.Channels()
	out := make([]float64, nch)
	for c := 0; c < nch; c++ {
		power, err := m.est.powerSpectrum(in.Row(c))
		if err != nil {
			return nil, err
		}
		var total, weighted float64
		for i, p := range power {
			total += p
			weighted += m.est.binFreq(i) * p
		}
		if total > 0 {
			out[c] = weighted / total
		}
	}
	return out, nil
}

// MedianFrequency computes the frequency that splits each channel's
// spectral power in half.
type MedianFrequency struct {
	est *spectralEstimator
}

// NewMedianFrequency returns the median frequency feature for signals
// sampled at the given rate.
func NewMedianFrequency(sampleRate float64) (*MedianFrequency, error) {
	est, err := newSpectralEstimator(sampleRate)
	if err != nil {
		return nil, err
	}
	return &MedianFrequency{est: est}, nil
}

// FeaturesPerChannel returns 1.
func (*MedianFrequency) FeaturesPerChannel() int { return 1 }

// Compute returns the median frequency of each channel. A channel with no
// spectral power yields 0.
func (m *MedianFrequency) Compute(in *signal.Buffer) ([]float64, error) {
	nch := in.Channels()
	out := make([]float64, nch)
	for c := 0; c < nch; c++ {
		power, err := m.est.powerSpectrum(in.Row(c))
		if err != nil {
			return nil, err
		}
		var total float64
		for _, p := range power {
			total += p
		}
		if total == 0 {
			continue
		}
		half := total / 2
		var cum float64
		for i, p := range power {
			cum += p
			if cum >= half {
				out[c] = m.est.binFreq(i)
				break
			}
		}
	}
	return out, nil
}

// nextPowerOf2 returns the smallest power of two >= n.
func nextPowerOf2(n int) int {
	if n <= 1 {
		return 1
	}
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
