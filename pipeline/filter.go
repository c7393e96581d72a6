package pipeline

import (
	"fmt"

	"github.com/cwbudde/algo-pipeline/lfilter"
	"github.com/cwbudde/algo-pipeline/signal"
)

// Filter applies an IIR or FIR digital filter along the time axis,
// propagating filter state across calls so a chunked stream filters
// exactly like one continuous pass.
//
// When consecutive chunks share overlap samples of raw input (as produced
// by an upstream Windower), the filtered outputs agree on that overlapping
// region: before each call after the first, per-channel initial conditions
// are rebuilt from the previous call's input and output at the point where
// the new data begins.
type Filter struct {
	meta
	b, a    []float64
	overlap int

	xPrev *signal.Buffer
	yPrev *signal.Buffer
}

// NewFilter returns a filter with the given numerator and denominator
// coefficients. A nil or empty denominator means FIR (a = [1]).
// Coefficients are normalized so a[0] == 1. overlap is the number of
// samples consecutive chunks share.
func NewFilter(b, a []float64, overlap int, opts ...Option) (*Filter, error) {
	if overlap < 0 {
		return nil, fmt.Errorf("%w: overlap must be >= 0: %d", ErrConfig, overlap)
	}
	if len(a) == 0 {
		a = []float64{1}
	}
	bn, an, err := lfilter.Normalize(b, a)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfig, err)
	}
	cfg := applyOptions("Filter", opts...)
	return &Filter{meta: newMeta(cfg), b: bn, a: an, overlap: overlap}, nil
}

// Process filters the chunk, shape (channels, samples) in and out.
func (f *Filter) Process(data Data) (Data, error) {
	buf, ok := data.(*signal.Buffer)
	if !ok || buf.Rank() != 2 {
		return nil, fmt.Errorf("%w: filter requires a rank-2 chunk", ErrInvalidInput)
	}

	if f.xPrev != nil && buf.Channels() != f.xPrev.Channels() {
		return nil, fmt.Errorf("%w: %d channels after first seeing %d; call Clear before changing channel count",
			ErrShapeMismatch, buf.Channels(), f.xPrev.Channels())
	}

	out := signal.New(buf.Channels(), buf.Samples())
	for c := 0; c < buf.Channels(); c++ {
		var zi []float64
		if f.xPrev != nil {
			zi = lfilter.IC(f.b, f.a,
				f.history(f.yPrev.Row(c)),
				f.history(f.xPrev.Row(c)))
		}
		y, _ := lfilter.Apply(f.b, f.a, buf.Row(c), zi)
		copy(out.Row(c), y)
	}

	f.xPrev = buf.Clone()
	f.yPrev = out.Clone()

	return out, nil
}

// history returns the previous call's samples up to where the new chunk
// begins, most recent first: the overlapped tail is excluded so the
// reconstructed state corresponds to the seam between chunks.
func (f *Filter) history(row []float64) []float64 {
	end := len(row) - f.overlap
	if end < 0 {
		end = 0
	}
	out := make([]float64, end)
	for i := 0; i < end; i++ {
		out[i] = row[end-1-i]
	}
	return out
}

// Clear discards the stored previous input and output, so the next call
// behaves as a cold-started filter.
func (f *Filter) Clear() {
	f.xPrev = nil
	f.yPrev = nil
}
