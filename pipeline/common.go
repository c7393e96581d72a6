package pipeline

import (
	"fmt"

	"gonum.org/v1/gonum/stat"

	"github.com/cwbudde/algo-pipeline/signal"
)

// Orientation selects how Ensure2D promotes a rank-1 vector.
type Orientation int

const (
	// Row promotes a length-n vector to shape (1, n).
	Row Orientation = iota
	// Col promotes a length-n vector to shape (n, 1).
	Col
)

// Ensure2D promotes rank-1 input to rank 2 and passes rank-2 input through
// untouched. Place it in front of blocks that require a (channels, samples)
// chunk when the source emits flat vectors.
type Ensure2D struct {
	meta
	orientation Orientation
}

// NewEnsure2D returns a promoting block with the given orientation.
func NewEnsure2D(orientation Orientation, opts ...Option) (*Ensure2D, error) {
	if orientation != Row && orientation != Col {
		return nil, fmt.Errorf("%w: orientation must be Row or Col", ErrConfig)
	}
	cfg := applyOptions("Ensure2D", opts...)
	return &Ensure2D{meta: newMeta(cfg), orientation: orientation}, nil
}

// Process promotes the buffer if needed.
func (e *Ensure2D) Process(data Data) (Data, error) {
	buf, ok := data.(*signal.Buffer)
	if !ok {
		return nil, fmt.Errorf("%w: ensure2d requires a buffer", ErrInvalidInput)
	}
	if buf.Rank() == 2 {
		return buf, nil
	}
	vec := buf.Vector()
	if e.orientation == Row {
		return signal.FromRows([][]float64{vec}), nil
	}
	out := signal.New(len(vec), 1)
	for i, v := range vec {
		out.Set(i, 0, v)
	}
	return out, nil
}

// Clear is a no-op.
func (e *Ensure2D) Clear() {}

// Centerer subtracts the global mean of each chunk from every element.
type Centerer struct {
	meta
}

// NewCenterer returns a centering block.
func NewCenterer(opts ...Option) *Centerer {
	cfg := applyOptions("Centerer", opts...)
	return &Centerer{meta: newMeta(cfg)}
}

// Process returns the chunk with its overall mean removed.
func (c *Centerer) Process(data Data) (Data, error) {
	buf, ok := data.(*signal.Buffer)
	if !ok {
		return nil, fmt.Errorf("%w: centerer requires a buffer", ErrInvalidInput)
	}
	out := buf.Clone()
	if buf.Rank() == 1 {
		vec := out.Vector()
		mean := stat.Mean(vec, nil)
		for i := range vec {
			vec[i] -= mean
		}
		return out, nil
	}

	var sum float64
	n := 0
	for ch := 0; ch < buf.Channels(); ch++ {
		row := buf.Row(ch)
		sum += stat.Mean(row, nil) * float64(len(row))
		n += len(row)
	}
	mean := sum / float64(n)
	for ch := 0; ch < out.Channels(); ch++ {
		row := out.Row(ch)
		for i := range row {
			row[i] -= mean
		}
	}
	return out, nil
}

// Clear is a no-op.
func (c *Centerer) Clear() {}

// MinMaxScaler rescales each element along the last axis with fixed bounds:
// out[i] = (x[i] - min[i]) / (max[i] - min[i]).
type MinMaxScaler struct {
	meta
	min, max []float64
}

// NewMinMaxScaler returns a scaler with per-position bounds. The bound
// vectors must have equal nonzero length.
func NewMinMaxScaler(min, max []float64, opts ...Option) (*MinMaxScaler, error) {
	if len(min) == 0 || len(min) != len(max) {
		return nil, fmt.Errorf("%w: min and max must be 1D of equal length, got %d and %d",
			ErrConfig, len(min), len(max))
	}
	cfg := applyOptions("MinMaxScaler", opts...)
	return &MinMaxScaler{meta: newMeta(cfg), min: min, max: max}, nil
}

// Process scales the chunk. The last-axis length must equal the bound
// vectors' length.
func (s *MinMaxScaler) Process(data Data) (Data, error) {
	buf, ok := data.(*signal.Buffer)
	if !ok {
		return nil, fmt.Errorf("%w: scaler requires a buffer", ErrInvalidInput)
	}
	if buf.Samples() != len(s.min) {
		return nil, fmt.Errorf("%w: last axis of length %d, scaler bounds of length %d",
			ErrShapeMismatch, buf.Samples(), len(s.min))
	}
	out := buf.Clone()
	if buf.Rank() == 1 {
		s.scaleRow(out.Vector())
		return out, nil
	}
	for ch := 0; ch < out.Channels(); ch++ {
		s.scaleRow(out.Row(ch))
	}
	return out, nil
}

func (s *MinMaxScaler) scaleRow(row []float64) {
	for i := range row {
		row[i] = (row[i] - s.min[i]) / (s.max[i] - s.min[i])
	}
}

// Clear is a no-op.
func (s *MinMaxScaler) Clear() {}

// Callable wraps a plain function as a stateless block. Give anonymous
// functions an explicit name via WithName when they are looked up later.
type Callable struct {
	meta
	fn func(Data) (Data, error)
}

// NewCallable returns a block calling fn on every chunk.
func NewCallable(fn func(Data) (Data, error), opts ...Option) (*Callable, error) {
	if fn == nil {
		return nil, fmt.Errorf("%w: nil function", ErrConfig)
	}
	cfg := applyOptions("Callable", opts...)
	return &Callable{meta: newMeta(cfg), fn: fn}, nil
}

// Process calls the wrapped function.
func (c *Callable) Process(data Data) (Data, error) {
	return c.fn(data)
}

// Clear is a no-op.
func (c *Callable) Clear() {}
