package linear_model

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/irisboard/core/model"
	"github.com/YuminosukeSato/irisboard/core/parallel"
	"github.com/YuminosukeSato/irisboard/pkg/errors"
)

// parallelRowThreshold is the batch size above which scoring is split
// across cores.
const parallelRowThreshold = 512

// LogisticRegression implements logistic regression inference.
// Coefficients come from an already fitted model; compatible with the layout of
// scikit-learn's coef_ / intercept_ / classes_.
type LogisticRegression struct {
	state *model.StateManager // State management (composition)

	multiClass string // Multi-class probability mapping: "multinomial" or "ovr"

	// Model parameters
	coef_      [][]float64 // Coefficients (n_classes x n_features or 1 x n_features for binary)
	intercept_ []float64   // Intercept terms
	classes_   []int       // Class labels in score-column order
	nClasses_  int         // Number of classes
	nFeatures_ int         // Number of features
}

// LogisticRegressionOption is a functional option for LogisticRegression
type LogisticRegressionOption func(*LogisticRegression)

// WithLRMultiClass sets how multiclass scores are turned into probabilities.
// "multinomial" applies softmax, "ovr" normalizes per-class sigmoids.
func WithLRMultiClass(multiClass string) LogisticRegressionOption {
	return func(lr *LogisticRegression) {
		lr.multiClass = multiClass
	}
}

// NewLogisticRegressionFromCoefficients restores a fitted classifier.
//
// coef has one row per class (or a single row for binary problems), intercept
// one entry per coef row, and classes the labels in column order. A nil
// classes slice means 0..k-1.
func NewLogisticRegressionFromCoefficients(coef [][]float64, intercept []float64, classes []int, opts ...LogisticRegressionOption) (*LogisticRegression, error) {
	if len(coef) == 0 || len(coef[0]) == 0 {
		return nil, errors.NewModelError("LogisticRegression.FromCoefficients", "empty coefficients", errors.ErrEmptyData)
	}
	if len(intercept) != len(coef) {
		return nil, errors.NewDimensionError("LogisticRegression.FromCoefficients", len(coef), len(intercept), 0)
	}

	nFeatures := len(coef[0])
	for i, row := range coef {
		if len(row) != nFeatures {
			return nil, errors.NewDimensionError(fmt.Sprintf("LogisticRegression.FromCoefficients[row %d]", i), nFeatures, len(row), 1)
		}
	}

	nClasses := len(coef)
	if nClasses == 1 {
		nClasses = 2
	}
	if classes == nil {
		classes = make([]int, nClasses)
		for i := range classes {
			classes[i] = i
		}
	}
	if len(classes) != nClasses {
		return nil, errors.NewDimensionError("LogisticRegression.FromCoefficients[classes]", nClasses, len(classes), 0)
	}

	lr := &LogisticRegression{
		state:      model.NewStateManager(),
		multiClass: "multinomial",
		nClasses_:  nClasses,
		nFeatures_: nFeatures,
		classes_:   append([]int(nil), classes...),
		intercept_: append([]float64(nil), intercept...),
		coef_:      make([][]float64, len(coef)),
	}
	for i, row := range coef {
		lr.coef_[i] = append([]float64(nil), row...)
	}

	for _, opt := range opts {
		opt(lr)
	}
	if lr.multiClass != "multinomial" && lr.multiClass != "ovr" {
		return nil, errors.NewValidationError("multi_class", `must be "multinomial" or "ovr"`, lr.multiClass)
	}

	lr.state.SetDimensions(nFeatures, 0)
	lr.state.SetFitted()
	return lr, nil
}

func (lr *LogisticRegression) validate(op string, X mat.Matrix) (int, error) {
	if err := lr.state.RequireFitted("LogisticRegression", op); err != nil {
		return 0, err
	}
	nSamples, nFeatures := X.Dims()
	if err := lr.state.RequireFeatures("LogisticRegression."+op, nFeatures); err != nil {
		return 0, err
	}
	return nSamples, nil
}

// DecisionFunction returns the raw linear scores, one column per coef row.
func (lr *LogisticRegression) DecisionFunction(X mat.Matrix) (mat.Matrix, error) {
	nSamples, err := lr.validate("DecisionFunction", X)
	if err != nil {
		return nil, err
	}

	scores := mat.NewDense(nSamples, len(lr.coef_), nil)
	parallel.ParallelizeWithThreshold(nSamples, parallelRowThreshold, func(start, end int) {
		row := make([]float64, lr.nFeatures_)
		for i := start; i < end; i++ {
			mat.Row(row, i, X)
			for k, w := range lr.coef_ {
				scores.Set(i, k, floats.Dot(row, w)+lr.intercept_[k])
			}
		}
	})
	return scores, nil
}

// PredictProba returns probability estimates for each class
func (lr *LogisticRegression) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	decision, err := lr.DecisionFunction(X)
	if err != nil {
		return nil, err
	}

	nSamples, _ := decision.Dims()
	probas := mat.NewDense(nSamples, lr.nClasses_, nil)
	scores := make([]float64, len(lr.coef_))

	for i := 0; i < nSamples; i++ {
		mat.Row(scores, i, decision)

		var row []float64
		switch {
		case len(lr.coef_) == 1:
			// Binary classification
			p1 := sigmoid(scores[0])
			row = []float64{1.0 - p1, p1}
		case lr.multiClass == "ovr":
			row = make([]float64, len(scores))
			for k, z := range scores {
				row[k] = sigmoid(z)
			}
			if sum := floats.Sum(row); sum > 0 {
				floats.Scale(1/sum, row)
			}
		default:
			row = softmax(scores)
		}

		if err := errors.CheckNumericalStability("LogisticRegression.PredictProba", row, i); err != nil {
			return nil, err
		}
		probas.SetRow(i, row)
	}

	return probas, nil
}

// Predict makes predictions for input data
func (lr *LogisticRegression) Predict(X mat.Matrix) (mat.Matrix, error) {
	probas, err := lr.PredictProba(X)
	if err != nil {
		return nil, err
	}

	nSamples, _ := probas.Dims()
	predictions := mat.NewDense(nSamples, 1, nil)
	row := make([]float64, lr.nClasses_)
	for i := 0; i < nSamples; i++ {
		mat.Row(row, i, probas)
		predictions.Set(i, 0, float64(lr.classes_[argmax(row)]))
	}
	return predictions, nil
}

// Score returns the mean accuracy on the given test data and labels
func (lr *LogisticRegression) Score(X, y mat.Matrix) (float64, error) {
	predictions, err := lr.Predict(X)
	if err != nil {
		return 0, err
	}

	nSamples, _ := X.Dims()
	yRows, _ := y.Dims()
	if yRows != nSamples {
		return 0, errors.NewDimensionError("LogisticRegression.Score", nSamples, yRows, 0)
	}
	if nSamples == 0 {
		return 0, errors.NewModelError("LogisticRegression.Score", "empty data", errors.ErrEmptyData)
	}

	correct := 0
	for i := 0; i < nSamples; i++ {
		if predictions.At(i, 0) == y.At(i, 0) {
			correct++
		}
	}
	return float64(correct) / float64(nSamples), nil
}

// Classes returns the class labels in probability-column order.
func (lr *LogisticRegression) Classes() []int {
	return append([]int(nil), lr.classes_...)
}

// ParameterCount returns the number of learned weights including intercepts.
func (lr *LogisticRegression) ParameterCount() int {
	return len(lr.coef_) * (lr.nFeatures_ + 1)
}

// sigmoid computes the sigmoid function
func sigmoid(z float64) float64 {
	return 1.0 / (1.0 + math.Exp(-z))
}

// softmax is shifted by the max score so large logits do not overflow.
func softmax(scores []float64) []float64 {
	maxScore := floats.Max(scores)
	out := make([]float64, len(scores))
	sum := 0.0
	for k, z := range scores {
		out[k] = math.Exp(z - maxScore)
		sum += out[k]
	}
	floats.Scale(1/sum, out)
	return out
}

// argmax keeps the first index on ties.
func argmax(values []float64) int {
	best := 0
	for k := 1; k < len(values); k++ {
		if values[k] > values[best] {
			best = k
		}
	}
	return best
}
