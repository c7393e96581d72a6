package pipeline

import (
	"fmt"

	"github.com/cwbudde/algo-pipeline/signal"
)

// Windower maintains a sliding window over incoming chunks.
//
// New samples are appended at the end of the window and the oldest samples
// are dropped, so consecutive outputs overlap implicitly whenever chunks
// are shorter than the window. Unseen history reads as zero. The chunk
// length may vary between calls; the channel count is fixed from the first
// chunk until Clear.
type Windower struct {
	meta
	length int
	win    *signal.Buffer
}

// NewWindower returns a windower emitting the most recent length samples
// per channel.
func NewWindower(length int, opts ...Option) (*Windower, error) {
	if length <= 0 {
		return nil, fmt.Errorf("%w: window length must be > 0: %d", ErrConfig, length)
	}
	cfg := applyOptions("Windower", opts...)
	return &Windower{meta: newMeta(cfg), length: length}, nil
}

// Process appends the chunk to the window and returns a copy of the full
// window, shape (channels, length).
func (w *Windower) Process(data Data) (Data, error) {
	buf, ok := data.(*signal.Buffer)
	if !ok || buf.Rank() != 2 {
		return nil, fmt.Errorf("%w: windower requires a rank-2 chunk", ErrInvalidInput)
	}

	n := buf.Samples()
	if n > w.length {
		return nil, fmt.Errorf("%w: chunk of %d samples exceeds window length %d",
			ErrInvalidInput, n, w.length)
	}

	if w.win == nil {
		w.win = signal.New(buf.Channels(), w.length)
	}
	if buf.Channels() != w.win.Channels() {
		return nil, fmt.Errorf("%w: %d channels after first seeing %d; call Clear before changing channel count",
			ErrShapeMismatch, buf.Channels(), w.win.Channels())
	}

	for c := 0; c < w.win.Channels(); c++ {
		row := w.win.Row(c)
		if n < w.length {
			copy(row, row[n:])
		}
		copy(row[w.length-n:], buf.Row(c))
	}

	return w.win.Clone(), nil
}

// Clear drops the window contents. The next chunk re-establishes the
// channel count and starts from zero-filled history.
func (w *Windower) Clear() {
	w.win = nil
}

// Length returns the window length in samples.
func (w *Windower) Length() int {
	return w.length
}
