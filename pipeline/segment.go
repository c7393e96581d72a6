package pipeline

import (
	"iter"

	"github.com/cwbudde/algo-pipeline/log"
	"github.com/cwbudde/algo-pipeline/signal"
)

// SegmentIndices yields (from, to) index pairs slicing n samples into
// segments of the given length, with overlap samples shared between
// consecutive segments. Only full-length segments are yielded; if the
// samples do not tile evenly a warning is logged and the tail is dropped.
// The sequence is restartable.
func SegmentIndices(n, length, overlap int) iter.Seq2[int, int] {
	skip := length - overlap
	if skip <= 0 || length <= 0 || n < 0 {
		log.GetLogger().Warnf("invalid segmentation: n=%d length=%d overlap=%d", n, length, overlap)
		return func(yield func(int, int) bool) {}
	}
	if (n-length)%skip != 0 {
		log.GetLogger().Warnf("%d samples cannot be chunked evenly into segments of length %d with overlap %d",
			n, length, overlap)
	}
	return func(yield func(int, int) bool) {
		for i := 0; i+length <= n; i += skip {
			if !yield(i, i+length) {
				return
			}
		}
	}
}

// Segment yields copies of consecutive sub-windows of the buffer, each of
// shape (channels, length), with overlap samples shared between
// consecutive segments. Rank-1 input is treated as a single channel.
// The sequence is restartable.
func Segment(buf *signal.Buffer, length, overlap int) iter.Seq[*signal.Buffer] {
	indices := SegmentIndices(buf.Samples(), length, overlap)
	return func(yield func(*signal.Buffer) bool) {
		for from, to := range indices {
			if !yield(buf.Slice(from, to)) {
				return
			}
		}
	}
}
