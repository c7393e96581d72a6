package features

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-pipeline/signal"
)

// sineAtBin returns n samples of a sinusoid whose frequency lands exactly
// on FFT bin k for an n-point transform.
func sineAtBin(n, k int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.Sin(2 * math.Pi * float64(k) * float64(i) / float64(n))
	}
	return out
}

func TestMeanFrequencyPureTone(t *testing.T) {
	// 2 Hz tone at 8 Hz sampling over 8 samples lands on bin 2 exactly.
	f, err := NewMeanFrequency(8)
	if err != nil {
		t.Fatalf("NewMeanFrequency() error: %v", err)
	}
	got, err := f.Compute(signal.FromRows([][]float64{sineAtBin(8, 2)}))
	if err != nil {
		t.Fatalf("Compute() error: %v", err)
	}
	if math.Abs(got[0]-2) > 1e-9 {
		t.Fatalf("mean frequency = %v, want 2", got[0])
	}
}

func TestMedianFrequencyPureTone(t *testing.T) {
	f, err := NewMedianFrequency(8)
	if err != nil {
		t.Fatalf("NewMedianFrequency() error: %v", err)
	}
	got, err := f.Compute(signal.FromRows([][]float64{sineAtBin(8, 2)}))
	if err != nil {
		t.Fatalf("Compute() error: %v", err)
	}
	if math.Abs(got[0]-2) > 1e-9 {
		t.Fatalf("median frequency = %v, want 2", got[0])
	}
}

func TestSpectralSilentChannel(t *testing.T) {
	f, err := NewMeanFrequency(100)
	if err != nil {
		t.Fatalf("NewMeanFrequency() error: %v", err)
	}
	got, err := f.Compute(signal.New(1, 16))
	if err != nil {
		t.Fatalf("Compute() error: %v", err)
	}
	if got[0] != 0 {
		t.Fatalf("mean frequency of silence = %v, want 0", got[0])
	}
}

func TestSpectralHigherToneMeansHigherMedian(t *testing.T) {
	lo, err := NewMedianFrequency(64)
	if err != nil {
		t.Fatalf("NewMedianFrequency() error: %v", err)
	}
	hi, err := NewMedianFrequency(64)
	if err != nil {
		t.Fatalf("NewMedianFrequency() error: %v", err)
	}
	a, err := lo.Compute(signal.FromRows([][]float64{sineAtBin(64, 4)}))
	if err != nil {
		t.Fatalf("Compute() error: %v", err)
	}
	b, err := hi.Compute(signal.FromRows([][]float64{sineAtBin(64, 20)}))
	if err != nil {
		t.Fatalf("Compute() error: %v", err)
	}
	if a[0] >= b[0] {
		t.Fatalf("median(4-bin tone) = %v not below median(20-bin tone) = %v", a[0], b[0])
	}
}

func TestSpectralInvalidSampleRate(t *testing.T) {
	if _, err := NewMeanFrequency(0); err == nil {
		t.Fatal("expected error for zero sample rate")
	}
	if _, err := NewMedianFrequency(-1); err == nil {
		t.Fatal("expected error for negative sample rate")
	}
}

func TestNextPowerOf2(t *testing.T) {
	cases := []struct{ n, want int }{
		{0, 1}, {1, 1}, {2, 2}, {3, 4}, {8, 8}, {9, 16}, {1000, 1024},
	}
	for _, c := range cases {
		if got := nextPowerOf2(c.n); got != c.want {
			t.Fatalf("nextPowerOf2(%d) = %d, want %d", c.n, got, c.want)
		}
	}
}
