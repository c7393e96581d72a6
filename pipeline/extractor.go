package pipeline

import (
	"fmt"
	"strconv"

	"github.com/cwbudde/algo-pipeline/features"
	"github.com/cwbudde/algo-pipeline/signal"
)

// NamedFeature pairs a feature with the name its output positions are
// registered under.
type NamedFeature struct {
	Name    string
	Feature features.Feature
}

// FeatureExtractor computes every feature on each chunk and concatenates
// the results into one flat vector.
//
// Output layout: features in declared order; inside a feature's run the
// channel stride is 1 per feature index, so position = start + j*C + c for
// feature index j and channel c. FeatureIndices and ChannelIndices map
// names back to flat output positions for downstream selectors.
//
// When the channel count (or names) is supplied at construction the index
// maps are built eagerly; otherwise they stay empty until the first chunk,
// whose leading dimension fixes the channel count. Exactly one of the two
// paths runs per extractor instance between clears.
type FeatureExtractor struct {
	meta
	features []NamedFeature

	explicitNames []string // from options; survives Clear

	channelNames []string
	featureIdx   map[string][]int
	channelIdx   map[string][]int
	out          []float64
}

// NewFeatureExtractor returns an extractor over the given ordered features.
func NewFeatureExtractor(feats []NamedFeature, opts ...Option) (*FeatureExtractor, error) {
	cfg := applyOptions("FeatureExtractor", opts...)

	seen := make(map[string]struct{}, len(feats))
	for _, f := range feats {
		if f.Feature == nil {
			return nil, fmt.Errorf("%w: feature %q is nil", ErrConfig, f.Name)
		}
		if _, ok := seen[f.Name]; ok {
			return nil, fmt.Errorf("%w: duplicate feature name %q", ErrConfig, f.Name)
		}
		seen[f.Name] = struct{}{}
	}

	names := cfg.channelNames
	if cfg.channelCount > 0 && names != nil && len(names) != cfg.channelCount {
		return nil, fmt.Errorf("%w: %d channel names for %d channels",
			ErrConfig, len(names), cfg.channelCount)
	}
	if names == nil && cfg.channelCount > 0 {
		names = defaultChannelNames(cfg.channelCount)
	}

	ex := &FeatureExtractor{
		meta:          newMeta(cfg),
		features:      feats,
		explicitNames: names,
		featureIdx:    make(map[string][]int),
		channelIdx:    make(map[string][]int),
	}
	if names != nil {
		ex.buildIndices(names)
	}
	return ex, nil
}

// Process computes every feature in declared order and returns the
// concatenated rank-1 output vector. The returned buffer wraps internal
// storage reused on the next call.
func (ex *FeatureExtractor) Process(data Data) (Data, error) {
	buf, ok := data.(*signal.Buffer)
	if !ok || buf.Rank() != 2 {
		return nil, fmt.Errorf("%w: feature extractor requires a rank-2 chunk", ErrInvalidInput)
	}

	if ex.channelNames == nil {
		names := ex.explicitNames
		if names == nil {
			names = defaultChannelNames(buf.Channels())
		}
		ex.buildIndices(names)
	}
	if buf.Channels() != len(ex.channelNames) {
		return nil, fmt.Errorf("%w: %d channels, extractor indexed for %d; call Clear before changing channel count",
			ErrShapeMismatch, buf.Channels(), len(ex.channelNames))
	}

	for _, f := range ex.features {
		vals, err := f.Feature.Compute(buf)
		if err != nil {
			return nil, err
		}
		idx := ex.featureIdx[f.Name]
		if len(vals) != len(idx) {
			return nil, fmt.Errorf("%w: feature %q produced %d values, expected %d",
				ErrShapeMismatch, f.Name, len(vals), len(idx))
		}
		copy(ex.out[idx[0]:idx[0]+len(idx)], vals)
	}

	return signal.FromVector(ex.out), nil
}

// buildIndices computes both index maps and allocates the output buffer
// for the given channel names.
func (ex *FeatureExtractor) buildIndices(names []string) {
	ex.channelNames = names
	nch := len(names)

	total := 0
	for _, f := range ex.features {
		total += f.Feature.FeaturesPerChannel() * nch
	}
	ex.out = make([]float64, total)
	ex.featureIdx = make(map[string][]int, len(ex.features))
	ex.channelIdx = make(map[string][]int, nch)

	start := 0
	for _, f := range ex.features {
		fpc := f.Feature.FeaturesPerChannel()
		run := make([]int, fpc*nch)
		for i := range run {
			run[i] = start + i
		}
		ex.featureIdx[f.Name] = run

		for j := 0; j < fpc; j++ {
			for c, name := range names {
				ex.channelIdx[name] = append(ex.channelIdx[name], start+j*nch+c)
			}
		}
		start += fpc * nch
	}
}

// Clear discards the output buffer and both index maps, forcing
// re-inference on the next chunk. Needed before the channel count changes.
func (ex *FeatureExtractor) Clear() {
	ex.channelNames = nil
	ex.featureIdx = make(map[string][]int)
	ex.channelIdx = make(map[string][]int)
	ex.out = nil
}

// FeatureIndices maps each feature name to its contiguous run of flat
// output positions. Empty until the channel count is known.
func (ex *FeatureExtractor) FeatureIndices() map[string][]int {
	return ex.featureIdx
}

// ChannelIndices maps each channel name to its strided set of flat output
// positions across all features. Empty until the channel count is known.
func (ex *FeatureExtractor) ChannelIndices() map[string][]int {
	return ex.channelIdx
}

// NamedFeatures returns the features keyed by name.
func (ex *FeatureExtractor) NamedFeatures() map[string]features.Feature {
	out := make(map[string]features.Feature, len(ex.features))
	for _, f := range ex.features {
		out[f.Name] = f.Feature
	}
	return out
}

func defaultChannelNames(n int) []string {
	names := make([]string, n)
	for i := range names {
		names[i] = strconv.Itoa(i)
	}
	return names
}
