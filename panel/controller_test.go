package panel

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/irisboard/artifact"
	"github.com/YuminosukeSato/irisboard/dataset"
	"github.com/YuminosukeSato/irisboard/pkg/errors"
	"github.com/YuminosukeSato/irisboard/pkg/log"
)

var irisColumns = []string{
	dataset.SepalLength, dataset.SepalWidth, dataset.PetalLength, dataset.PetalWidth,
}

type identityScaler struct {
	seen mat.Matrix
}

func (s *identityScaler) Transform(X mat.Matrix) (mat.Matrix, error) {
	s.seen = X
	return X, nil
}

type failingScaler struct{}

func (failingScaler) Transform(mat.Matrix) (mat.Matrix, error) {
	return nil, errors.NewNotFittedError("StandardScaler", "Transform")
}

type fixedScores struct {
	scores []float64
	err    error
}

func (f fixedScores) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	if f.err != nil {
		return nil, f.err
	}
	if len(f.scores) == 0 {
		return &mat.Dense{}, nil
	}
	return mat.NewDense(1, len(f.scores), f.scores), nil
}

func (f fixedScores) Classes() []int {
	out := make([]int, len(f.scores))
	for i := range out {
		out[i] = i
	}
	return out
}

func newTestController(t *testing.T, scores []float64) (*Controller, *log.TestLogger) {
	t.Helper()
	logger, _ := log.NewTestLogger(log.LevelDebug)
	c, err := NewController(irisColumns, dataset.ClassNames, &identityScaler{}, fixedScores{scores: scores}, WithLogger(logger))
	require.NoError(t, err)
	return c, logger
}

func sample(t *testing.T, values ...float64) FeatureVector {
	t.Helper()
	vec, err := NewFeatureVector(irisColumns, values)
	require.NoError(t, err)
	return vec
}

func TestSubmitStoresArgmax(t *testing.T) {
	c, logger := newTestController(t, []float64{0.9, 0.05, 0.05})

	var state PredictionState
	p, err := c.Submit(context.Background(), &state, sample(t, 5.1, 3.5, 1.4, 0.2))
	require.NoError(t, err)
	assert.Equal(t, 0, p.Index)
	assert.Equal(t, []float64{0.9, 0.05, 0.05}, p.Scores)

	got, ok := state.Get()
	assert.True(t, ok)
	assert.Equal(t, 0, got)

	view := c.Render(state)
	assert.Equal(t, PredictionView{Kind: ViewLabel, Index: 0, Label: "setosa"}, view)
	assert.True(t, logger.ContainsMessage("prediction stored"))
	assert.True(t, logger.ContainsField(log.PredictionIndexKey, float64(0)))
}

func TestSubmitTieGoesToLowestIndex(t *testing.T) {
	c, _ := newTestController(t, []float64{0.1, 0.1, 0.1})

	var state PredictionState
	p, err := c.Submit(context.Background(), &state, sample(t, 5.8, 3.0, 4.3, 1.3))
	require.NoError(t, err)
	assert.Equal(t, 0, p.Index)
	assert.Equal(t, "setosa", c.Render(state).Label)
}

func TestRenderWithoutSubmission(t *testing.T) {
	c, _ := newTestController(t, []float64{1, 0, 0})

	var state PredictionState
	assert.Equal(t, PredictionView{Kind: ViewNone}, c.Render(state))
	assert.False(t, state.Present())
}

func TestShortScoreVector(t *testing.T) {
	c, _ := newTestController(t, []float64{0.3, 0.7})

	var state PredictionState
	p, err := c.Submit(context.Background(), &state, sample(t, 6.0, 2.9, 4.5, 1.5))
	require.NoError(t, err)
	assert.Equal(t, 1, p.Index)
	assert.Equal(t, PredictionView{Kind: ViewLabel, Index: 1, Label: "versicolor"}, c.Render(state))

	state.Set(2)
	assert.Equal(t, ViewLabel, c.Render(state).Kind)

	state.Set(3)
	assert.Equal(t, PredictionView{Kind: ViewUnknown, Index: 3, Message: UnknownClassMessage}, c.Render(state))
}

func TestRenderOutOfRangeIsWarning(t *testing.T) {
	logger, _ := log.NewTestLogger(log.LevelDebug)
	c, err := NewController(irisColumns, dataset.ClassNames[:2], &identityScaler{}, fixedScores{scores: []float64{0, 0, 1}}, WithLogger(logger))
	require.NoError(t, err)

	var state PredictionState
	p, err := c.Submit(context.Background(), &state, sample(t, 6.3, 3.3, 6.0, 2.5))
	require.NoError(t, err)
	assert.Equal(t, 2, p.Index)

	view := c.Render(state)
	assert.Equal(t, ViewUnknown, view.Kind)
	assert.Equal(t, "Unknown class prediction", view.Message)

	state.Set(-1)
	assert.Equal(t, ViewUnknown, c.Render(state).Kind)
}

func TestRenderIsIdempotent(t *testing.T) {
	c, _ := newTestController(t, []float64{0.2, 0.5, 0.3})

	var state PredictionState
	_, err := c.Submit(context.Background(), &state, sample(t, 5.8, 3.0, 4.3, 1.3))
	require.NoError(t, err)

	first := c.Render(state)
	for i := 0; i < 3; i++ {
		assert.Equal(t, first, c.Render(state))
	}
	got, _ := state.Get()
	assert.Equal(t, 1, got)
}

func TestSubmitEmptyScoresStoresMinusOne(t *testing.T) {
	c, _ := newTestController(t, nil)

	var state PredictionState
	p, err := c.Submit(context.Background(), &state, sample(t, 5.8, 3.0, 4.3, 1.3))
	require.NoError(t, err)
	assert.Equal(t, -1, p.Index)
	assert.Equal(t, ViewUnknown, c.Render(state).Kind)
}

func TestSubmitReordersColumns(t *testing.T) {
	scaler := &identityScaler{}
	c, err := NewController(irisColumns, dataset.ClassNames, scaler, fixedScores{scores: []float64{1, 0, 0}})
	require.NoError(t, err)

	vec, err := NewFeatureVector(
		[]string{dataset.PetalWidth, dataset.PetalLength, dataset.SepalWidth, dataset.SepalLength},
		[]float64{0.2, 1.4, 3.5, 5.1},
	)
	require.NoError(t, err)

	var state PredictionState
	_, err = c.Submit(context.Background(), &state, vec)
	require.NoError(t, err)
	assert.Equal(t, []float64{5.1, 3.5, 1.4, 0.2}, mat.Row(nil, 0, scaler.seen))
}

func TestSubmitErrorsLeaveStateUnchanged(t *testing.T) {
	tests := []struct {
		name       string
		scaler     interface{ Transform(mat.Matrix) (mat.Matrix, error) }
		classifier fixedScores
		vec        FeatureVector
	}{
		{
			name:       "scaler error",
			scaler:     failingScaler{},
			classifier: fixedScores{scores: []float64{1, 0, 0}},
			vec:        FeatureVector{Columns: irisColumns, Values: []float64{5.1, 3.5, 1.4, 0.2}},
		},
		{
			name:       "model error",
			scaler:     &identityScaler{},
			classifier: fixedScores{err: errors.NewDimensionError("PredictProba", 4, 3, 1)},
			vec:        FeatureVector{Columns: irisColumns, Values: []float64{5.1, 3.5, 1.4, 0.2}},
		},
		{
			name:       "missing column",
			scaler:     &identityScaler{},
			classifier: fixedScores{scores: []float64{1, 0, 0}},
			vec:        FeatureVector{Columns: irisColumns[:3], Values: []float64{5.1, 3.5, 1.4}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, _ := log.NewTestLogger(log.LevelDebug)
			c, err := NewController(irisColumns, dataset.ClassNames, tt.scaler, tt.classifier, WithLogger(logger))
			require.NoError(t, err)

			var state PredictionState
			state.Set(2)
			p, err := c.Submit(context.Background(), &state, tt.vec)
			require.Error(t, err)
			assert.Equal(t, Prediction{}, p)

			got, ok := state.Get()
			assert.True(t, ok)
			assert.Equal(t, 2, got)
			assert.True(t, logger.ContainsMessage("prediction failed"))
		})
	}
}

func TestSubmitCancelledContext(t *testing.T) {
	c, _ := newTestController(t, []float64{1, 0, 0})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var state PredictionState
	_, err := c.Submit(ctx, &state, sample(t, 5.1, 3.5, 1.4, 0.2))
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, state.Present())
}

func TestNewControllerValidation(t *testing.T) {
	_, err := NewController(nil, dataset.ClassNames, &identityScaler{}, fixedScores{})
	assert.Error(t, err)

	_, err = NewController(irisColumns, dataset.ClassNames, nil, fixedScores{})
	assert.Error(t, err)
}

func TestControllerWithDefaultArtifact(t *testing.T) {
	b, err := artifact.Load("")
	require.NoError(t, err)
	scaler, err := b.BuildScaler(nil)
	require.NoError(t, err)
	clf, err := b.Classifier()
	require.NoError(t, err)

	c, err := NewController(b.Columns, b.ClassNames, scaler, clf)
	require.NoError(t, err)

	tests := []struct {
		values []float64
		want   string
	}{
		{[]float64{5.1, 3.5, 1.4, 0.2}, "setosa"},
		{[]float64{5.7, 2.8, 4.1, 1.3}, "versicolor"},
		{[]float64{7.7, 3.0, 6.1, 2.3}, "virginica"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			var state PredictionState
			_, err := c.Submit(context.Background(), &state, sample(t, tt.values...))
			require.NoError(t, err)
			assert.Equal(t, tt.want, c.Render(state).Label)
		})
	}
}

type panickingClassifier struct{ fixedScores }

func (panickingClassifier) PredictProba(mat.Matrix) (mat.Matrix, error) {
	panic("index out of range")
}

func TestSubmitRecoversClassifierPanic(t *testing.T) {
	logger, _ := log.NewTestLogger(log.LevelDebug)
	c, err := NewController(irisColumns, dataset.ClassNames, &identityScaler{}, panickingClassifier{}, WithLogger(logger))
	require.NoError(t, err)

	var state PredictionState
	_, err = c.Submit(context.Background(), &state, sample(t, 5.1, 3.5, 1.4, 0.2))
	require.Error(t, err)

	pe, ok := errors.AsPanic(err)
	require.True(t, ok)
	assert.Equal(t, "panel.Predict", pe.Operation)
	assert.False(t, state.Present())
}
