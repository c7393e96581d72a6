package pipeline

import (
	"fmt"
	"sort"

	"github.com/cwbudde/algo-pipeline/signal"
)

// selector picks a fixed subset of positions from a flat feature vector.
// The positions are resolved once at construction from an index map (as
// produced by a FeatureExtractor), deduplicated and numerically sorted,
// so the output ordering follows the extractor layout rather than the
// order names were requested in.
type selector struct {
	meta
	indices []int
	out     []float64
}

func newSelector(cfg config, kind string, index map[string][]int, names []string) (selector, error) {
	if len(names) == 0 {
		return selector{}, fmt.Errorf("%w: no %s names to select", ErrConfig, kind)
	}
	set := make(map[int]struct{})
	for _, name := range names {
		idx, ok := index[name]
		if !ok {
			return selector{}, fmt.Errorf("%w: unknown %s %q", ErrConfig, kind, name)
		}
		for _, i := range idx {
			set[i] = struct{}{}
		}
	}
	indices := make([]int, 0, len(set))
	for i := range set {
		indices = append(indices, i)
	}
	sort.Ints(indices)
	return selector{
		meta:    newMeta(cfg),
		indices: indices,
		out:     make([]float64, len(indices)),
	}, nil
}

// Process gathers the selected positions from a rank-1 vector. The
// returned buffer wraps internal storage reused on the next call.
func (s *selector) Process(data Data) (Data, error) {
	buf, ok := data.(*signal.Buffer)
	if !ok || buf.Rank() != 1 {
		return nil, fmt.Errorf("%w: selector requires a rank-1 vector", ErrInvalidInput)
	}
	vec := buf.Vector()
	for i, idx := range s.indices {
		if idx >= len(vec) {
			return nil, fmt.Errorf("%w: index %d out of range for vector of length %d",
				ErrShapeMismatch, idx, len(vec))
		}
		s.out[i] = vec[idx]
	}
	return signal.FromVector(s.out), nil
}

// Indices returns the sorted flat positions this selector gathers.
func (s *selector) Indices() []int {
	return s.indices
}

// Clear is a no-op; selectors are stateless between chunks.
func (s *selector) Clear() {}

// ChannelSelector keeps only the feature-vector positions belonging to the
// named channels, using the channel index map of the extractor that
// produced the vector.
type ChannelSelector struct {
	selector
}

// NewChannelSelector resolves the named channels against channelIndex.
func NewChannelSelector(channelIndex map[string][]int, channels []string, opts ...Option) (*ChannelSelector, error) {
	cfg := applyOptions("ChannelSelector", opts...)
	sel, err := newSelector(cfg, "channel", channelIndex, channels)
	if err != nil {
		return nil, err
	}
	return &ChannelSelector{selector: sel}, nil
}

// FeatureSelector keeps only the feature-vector positions belonging to the
// named features, using the feature index map of the extractor that
// produced the vector.
type FeatureSelector struct {
	selector
}

// NewFeatureSelector resolves the named features against featureIndex.
func NewFeatureSelector(featureIndex map[string][]int, features []string, opts ...Option) (*FeatureSelector, error) {
	cfg := applyOptions("FeatureSelector", opts...)
	sel, err := newSelector(cfg, "feature", featureIndex, features)
	if err != nil {
		return nil, err
	}
	return &FeatureSelector{selector: sel}, nil
}
