// Package features provides per-channel feature computations for
// multichannel signal windows. Each feature consumes a channels-by-samples
// chunk and emits a fixed number of values per channel; a feature extractor
// block concatenates several features into one flat vector.
package features

import "github.com/cwbudde/algo-pipeline/signal"

// Feature computes one or more values per channel from a chunk.
//
// Compute returns a vector of FeaturesPerChannel() * channels values,
// ordered feature-index major with channel stride 1 inside each group:
// [f0c0, f0c1, ..., f0cC, f1c0, ...].
type Feature interface {
	Compute(in *signal.Buffer) ([]float64, error)
	FeaturesPerChannel() int
}

// perChannel evaluates fn on every channel and returns one value per channel.
func perChannel(in *signal.Buffer, fn func(row []float64) float64) []float64 {
	out := make([]float64, in.Channels())
	for c := range out {
		out[c] = fn(in.Row(c))
	}
	return out
}

// diff returns the first difference of row: out[i] = row[i+1] - row[i].
func diff(row []float64) []float64 {
	if len(row) < 2 {
		return nil
	}
	out := make([]float64, len(row)-1)
	for i := range out {
		out[i] = row[i+1] - row[i]
	}
	return out
}
