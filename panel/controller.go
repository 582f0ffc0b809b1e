// Package panel implements the prediction request/response cycle: turning a
// submitted feature vector into a stored class index, and rendering the
// stored index back as a label or a warning.
package panel

import (
	"context"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/irisboard/core/model"
	"github.com/YuminosukeSato/irisboard/pkg/errors"
	"github.com/YuminosukeSato/irisboard/pkg/log"
)

// UnknownClassMessage is shown when the stored index has no class label.
const UnknownClassMessage = "Unknown class prediction"

// ViewKind selects how a PredictionView is displayed.
type ViewKind int

const (
	// ViewNone means no prediction has been made; nothing is displayed.
	ViewNone ViewKind = iota
	// ViewLabel is a successful prediction with a known class label.
	ViewLabel
	// ViewUnknown is a stored index outside the class list.
	ViewUnknown
)

func (k ViewKind) String() string {
	switch k {
	case ViewNone:
		return "none"
	case ViewLabel:
		return "label"
	case ViewUnknown:
		return "unknown"
	default:
		return "invalid"
	}
}

// PredictionView is the display model of the current prediction.
type PredictionView struct {
	Kind    ViewKind
	Index   int
	Label   string
	Message string
}

// Prediction is the outcome of scoring one feature vector.
type Prediction struct {
	Index  int
	Scores []float64
}

// Controller runs submissions through the scaler and classifier. It holds no
// per-session data and is safe for concurrent use.
type Controller struct {
	columns    []string
	classNames []string
	scaler     model.Transformer
	classifier model.ProbabilisticClassifier
	logger     log.Logger
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the controller's logger.
func WithLogger(l log.Logger) Option {
	return func(c *Controller) {
		c.logger = l
	}
}

// NewController creates a Controller. columns is the feature order the scaler
// and classifier were fit on; classNames are the display names by index.
func NewController(columns, classNames []string, scaler model.Transformer, classifier model.ProbabilisticClassifier, opts ...Option) (*Controller, error) {
	if len(columns) == 0 {
		return nil, errors.NewValidationError("columns", "must not be empty", columns)
	}
	if scaler == nil || classifier == nil {
		return nil, errors.NewValueError("panel.NewController", "scaler and classifier are required")
	}

	c := &Controller{
		columns:    append([]string(nil), columns...),
		classNames: append([]string(nil), classNames...),
		scaler:     scaler,
		classifier: classifier,
		logger:     log.GetLoggerWithName("panel"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Columns returns the feature order used for prediction.
func (c *Controller) Columns() []string {
	return append([]string(nil), c.columns...)
}

// ClassNames returns the class display names by index.
func (c *Controller) ClassNames() []string {
	return append([]string(nil), c.classNames...)
}

// Predict scales vec and scores it without touching any state. A panic in
// the scaler or classifier is returned as an *errors.PanicError.
func (c *Controller) Predict(ctx context.Context, vec FeatureVector) (_ Prediction, err error) {
	defer errors.Recover(&err, "panel.Predict")

	if err := ctx.Err(); err != nil {
		return Prediction{}, err
	}

	ordered, err := vec.Reorder(c.columns)
	if err != nil {
		return Prediction{}, err
	}

	scaled, err := c.scaler.Transform(ordered.Matrix())
	if err != nil {
		return Prediction{}, errors.Wrap(err, "panel: scale features")
	}
	probas, err := c.classifier.PredictProba(scaled)
	if err != nil {
		return Prediction{}, errors.Wrap(err, "panel: score features")
	}

	var scores []float64
	if rows, cols := probas.Dims(); rows > 0 && cols > 0 {
		scores = mat.Row(nil, 0, probas)
	}
	return Prediction{Index: Argmax(scores), Scores: scores}, nil
}

// Submit predicts the class of vec, stores its index in state and returns the
// prediction. On error state is left untouched.
func (c *Controller) Submit(ctx context.Context, state *PredictionState, vec FeatureVector) (Prediction, error) {
	start := time.Now()

	p, err := c.Predict(ctx, vec)
	if err != nil {
		c.logger.Error("prediction failed", err, log.OperationKey, log.OperationSubmit)
		return Prediction{}, err
	}
	state.Set(p.Index)

	fields := []any{
		log.OperationKey, log.OperationSubmit,
		log.PredictionIndexKey, p.Index,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	}
	if p.Index >= 0 {
		fields = append(fields, log.ConfidenceKey, p.Scores[p.Index])
	}
	c.logger.Debug("prediction stored", fields...)
	return p, nil
}

// Render describes the stored prediction for display. It does not modify
// state.
func (c *Controller) Render(state PredictionState) PredictionView {
	index, ok := state.Get()
	if !ok {
		return PredictionView{Kind: ViewNone}
	}
	if label, ok := c.Label(index); ok {
		return PredictionView{Kind: ViewLabel, Index: index, Label: label}
	}
	return PredictionView{Kind: ViewUnknown, Index: index, Message: UnknownClassMessage}
}

// Label returns the class name for index.
func (c *Controller) Label(index int) (string, bool) {
	if index < 0 || index >= len(c.classNames) {
		return "", false
	}
	return c.classNames[index], true
}
