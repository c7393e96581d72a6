// Package model declares the capability interfaces an externally trained
// predictive or transforming model must expose to be wrapped as a pipeline
// block. The engine never trains a model and never inspects one beyond
// these interfaces.
package model

import "github.com/cwbudde/algo-pipeline/signal"

// Predictor produces a prediction for each input row.
type Predictor interface {
	Predict(in *signal.Buffer) (*signal.Buffer, error)
}

// ProbabilisticPredictor additionally exposes class probabilities.
type ProbabilisticPredictor interface {
	Predictor
	PredictProba(in *signal.Buffer) (*signal.Buffer, error)
}

// LogProbabilisticPredictor additionally exposes log class probabilities.
type LogProbabilisticPredictor interface {
	Predictor
	PredictLogProba(in *signal.Buffer) (*signal.Buffer, error)
}

// Transformer projects input data to another space.
type Transformer interface {
	Transform(in *signal.Buffer) (*signal.Buffer, error)
}

// InvertibleTransformer can also undo its projection.
type InvertibleTransformer interface {
	Transformer
	InverseTransform(in *signal.Buffer) (*signal.Buffer, error)
}
