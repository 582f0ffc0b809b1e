// Package model provides the interfaces and bookkeeping shared by the
// preprocessing and classification packages.
package model

import (
	"gonum.org/v1/gonum/mat"
)

// Transformer is a fitted transform applied to feature rows before inference.
type Transformer interface {
	// Transform returns a transformed copy of X.
	Transform(X mat.Matrix) (mat.Matrix, error)
}

// FittableTransformer is a Transformer that can also learn its parameters.
type FittableTransformer interface {
	Transformer

	// Fit learns the transform parameters from X.
	Fit(X mat.Matrix) error

	// FitTransform fits on X and returns the transformed X.
	FitTransform(X mat.Matrix) (mat.Matrix, error)
}

// Predictor is the interface for models that produce one label per row.
type Predictor interface {
	// Predict returns an n×1 matrix of class labels.
	Predict(X mat.Matrix) (mat.Matrix, error)
}

// ProbabilisticClassifier maps rows to per-class scores.
type ProbabilisticClassifier interface {
	// PredictProba returns an n×k matrix; column j is the score of Classes()[j].
	PredictProba(X mat.Matrix) (mat.Matrix, error)

	// Classes returns the class labels in score-column order.
	Classes() []int
}

// Classifier combines interfaces for classification models.
type Classifier interface {
	Predictor
	ProbabilisticClassifier

	// Score returns the mean accuracy on X against labels y.
	Score(X, y mat.Matrix) (float64, error)
}
