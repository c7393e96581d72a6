package signal

import "math"

// Buffer is a dense float64 array exchanged between pipeline blocks.
//
// A rank-2 buffer holds multichannel data with axis 0 = channel and
// axis 1 = sample-in-time, stored row-major so each channel is a
// contiguous slice. A rank-1 buffer holds a flat vector, e.g. the
// concatenated output of a feature extractor.
type Buffer struct {
	data     []float64
	channels int
	samples  int
	rank     int
}

// New returns a zero-filled rank-2 buffer of the given shape.
// Non-positive dimensions are clamped to zero.
func New(channels, samples int) *Buffer {
	if channels < 0 {
		channels = 0
	}
	if samples < 0 {
		samples = 0
	}
	return &Buffer{
		data:     make([]float64, channels*samples),
		channels: channels,
		samples:  samples,
		rank:     2,
	}
}

// FromRows builds a rank-2 buffer from per-channel sample slices.
// All rows must have equal length; the data is copied.
func FromRows(rows [][]float64) *Buffer {
	if len(rows) == 0 {
		return New(0, 0)
	}
	b := New(len(rows), len(rows[0]))
	for c, row := range rows {
		copy(b.Row(c), row)
	}
	return b
}

// FromVector wraps a flat vector as a rank-1 buffer without copying.
func FromVector(v []float64) *Buffer {
	return &Buffer{data: v, channels: 1, samples: len(v), rank: 1}
}

// Rank returns 1 for flat vectors and 2 for channels-by-samples data.
func (b *Buffer) Rank() int {
	return b.rank
}

// Dims returns the channel and sample counts. For rank-1 buffers the
// channel count is 1.
func (b *Buffer) Dims() (channels, samples int) {
	return b.channels, b.samples
}

// Channels returns the channel count.
func (b *Buffer) Channels() int {
	return b.channels
}

// Samples returns the per-channel sample count.
func (b *Buffer) Samples() int {
	return b.samples
}

// Row returns the samples of channel c as a view into the buffer.
func (b *Buffer) Row(c int) []float64 {
	return b.data[c*b.samples : (c+1)*b.samples]
}

// Vector returns the underlying flat data. For rank-2 buffers this is the
// row-major concatenation of all channels.
func (b *Buffer) Vector() []float64 {
	return b.data
}

// At returns the sample at channel c, index i.
func (b *Buffer) At(c, i int) float64 {
	return b.data[c*b.samples+i]
}

// Set assigns the sample at channel c, index i.
func (b *Buffer) Set(c, i int, v float64) {
	b.data[c*b.samples+i] = v
}

// Clone returns a deep copy of the buffer.
func (b *Buffer) Clone() *Buffer {
	data := make([]float64, len(b.data))
	copy(data, b.data)
	return &Buffer{data: data, channels: b.channels, samples: b.samples, rank: b.rank}
}

// Zero sets all samples to 0.
func (b *Buffer) Zero() {
	for i := range b.data {
		b.data[i] = 0
	}
}

// Slice returns a rank-2 buffer covering sample indices [from, to) of every
// channel. The data is copied.
func (b *Buffer) Slice(from, to int) *Buffer {
	out := New(b.channels, to-from)
	for c := 0; c < b.channels; c++ {
		copy(out.Row(c), b.Row(c)[from:to])
	}
	return out
}

// Transpose returns a new rank-2 buffer with channels and samples swapped.
func (b *Buffer) Transpose() *Buffer {
	out := New(b.samples, b.channels)
	for c := 0; c < b.channels; c++ {
		row := b.Row(c)
		for i, v := range row {
			out.Set(i, c, v)
		}
	}
	return out
}

// Equal reports whether two buffers have the same rank, shape, and values
// within eps.
func (b *Buffer) Equal(other *Buffer, eps float64) bool {
	if b.rank != other.rank || b.channels != other.channels || b.samples != other.samples {
		return false
	}
	for i := range b.data {
		if math.Abs(b.data[i]-other.data[i]) > eps {
			return false
		}
	}
	return true
}
