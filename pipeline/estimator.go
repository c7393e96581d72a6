package pipeline

import (
	"fmt"

	"github.com/cwbudde/algo-pipeline/log"
	"github.com/cwbudde/algo-pipeline/model"
	"github.com/cwbudde/algo-pipeline/signal"
)

// Estimator wraps a fitted predictor as a block. By default each chunk is
// passed to Predict; WithProba and WithLogProba switch to the probabilistic
// outputs, which the wrapped model must support.
type Estimator struct {
	meta
	predict func(*signal.Buffer) (*signal.Buffer, error)
}

// NewEstimator returns a block calling the predictor on every chunk. The
// requested prediction mode is capability-checked here, not at process
// time.
func NewEstimator(m model.Predictor, opts ...Option) (*Estimator, error) {
	if m == nil {
		return nil, fmt.Errorf("%w: nil predictor", ErrConfig)
	}
	cfg := applyOptions("Estimator", opts...)

	if cfg.proba && cfg.logProba {
		log.GetLogger().Warn("estimator configured with both proba and log-proba; using proba")
		cfg.logProba = false
	}

	var predict func(*signal.Buffer) (*signal.Buffer, error)
	switch {
	case cfg.proba:
		p, ok := m.(model.ProbabilisticPredictor)
		if !ok {
			return nil, fmt.Errorf("%w: model %T does not implement PredictProba",
				ErrCapabilityMissing, m)
		}
		predict = p.PredictProba
	case cfg.logProba:
		p, ok := m.(model.LogProbabilisticPredictor)
		if !ok {
			return nil, fmt.Errorf("%w: model %T does not implement PredictLogProba",
				ErrCapabilityMissing, m)
		}
		predict = p.PredictLogProba
	default:
		predict = m.Predict
	}

	return &Estimator{meta: newMeta(cfg), predict: predict}, nil
}

// Process runs the configured prediction on the chunk.
func (e *Estimator) Process(data Data) (Data, error) {
	buf, ok := data.(*signal.Buffer)
	if !ok {
		return nil, fmt.Errorf("%w: estimator requires a buffer", ErrInvalidInput)
	}
	return e.predict(buf)
}

// Clear is a no-op; the wrapped model holds the only state and it belongs
// to the model, not the pipeline.
func (e *Estimator) Clear() {}
