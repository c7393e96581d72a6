package pipeline

import (
	"fmt"

	"github.com/cwbudde/algo-pipeline/model"
	"github.com/cwbudde/algo-pipeline/signal"
)

// Transformer wraps a fitted transformer as a block. WithInverse applies
// InverseTransform instead, which the wrapped model must support.
type Transformer struct {
	meta
	transform func(*signal.Buffer) (*signal.Buffer, error)
}

// NewTransformer returns a block calling the transformer on every chunk.
func NewTransformer(m model.Transformer, opts ...Option) (*Transformer, error) {
	if m == nil {
		return nil, fmt.Errorf("%w: nil transformer", ErrConfig)
	}
	cfg := applyOptions("Transformer", opts...)

	transform := m.Transform
	if cfg.inverse {
		inv, ok := m.(model.InvertibleTransformer)
		if !ok {
			return nil, fmt.Errorf("%w: model %T does not implement InverseTransform",
				ErrCapabilityMissing, m)
		}
		transform = inv.InverseTransform
	}

	return &Transformer{meta: newMeta(cfg), transform: transform}, nil
}

// Process runs the configured transform on the chunk.
func (t *Transformer) Process(data Data) (Data, error) {
	buf, ok := data.(*signal.Buffer)
	if !ok {
		return nil, fmt.Errorf("%w: transformer requires a buffer", ErrInvalidInput)
	}
	return t.transform(buf)
}

// Clear is a no-op.
func (t *Transformer) Clear() {}
