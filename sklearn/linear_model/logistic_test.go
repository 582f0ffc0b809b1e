package linear_model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/irisboard/pkg/errors"
)

// threeClass separates classes along the sum of the last two features,
// the same shape as the petal-driven iris model.
func threeClass(t *testing.T, opts ...LogisticRegressionOption) *LogisticRegression {
	t.Helper()
	lr, err := NewLogisticRegressionFromCoefficients(
		[][]float64{
			{0, 0, -4, -4},
			{0, 0, 0, 0},
			{0, 0, 4, 4},
		},
		[]float64{-4, 0, -5},
		nil,
		opts...,
	)
	require.NoError(t, err)
	return lr
}

func TestLogisticRegression_PredictProba_Multinomial(t *testing.T) {
	lr := threeClass(t)

	X := mat.NewDense(3, 4, []float64{
		0, 0, -1.3, -1.3, // setosa-like
		0, 0, 0.2, 0.2, // versicolor-like
		0, 0, 1.1, 1.1, // virginica-like
	})

	probas, err := lr.PredictProba(X)
	require.NoError(t, err)

	rows, cols := probas.Dims()
	require.Equal(t, 3, rows)
	require.Equal(t, 3, cols)

	for i := 0; i < rows; i++ {
		sum := 0.0
		for j := 0; j < cols; j++ {
			p := probas.At(i, j)
			assert.GreaterOrEqual(t, p, 0.0)
			assert.LessOrEqual(t, p, 1.0)
			sum += p
		}
		assert.InDelta(t, 1.0, sum, 1e-9, "row %d", i)
	}

	preds, err := lr.Predict(X)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1, 2}, mat.Col(nil, 0, preds))
}

func TestLogisticRegression_PredictProba_OVR(t *testing.T) {
	lr := threeClass(t, WithLRMultiClass("ovr"))

	probas, err := lr.PredictProba(mat.NewDense(1, 4, []float64{0, 0, 1.1, 1.1}))
	require.NoError(t, err)

	row := mat.Row(nil, 0, probas)
	assert.InDelta(t, 1.0, row[0]+row[1]+row[2], 1e-9)
	assert.Equal(t, 2, argmax(row))
}

func TestLogisticRegression_Binary(t *testing.T) {
	lr, err := NewLogisticRegressionFromCoefficients([][]float64{{2}}, []float64{-2}, []int{0, 1})
	require.NoError(t, err)

	probas, err := lr.PredictProba(mat.NewDense(2, 1, []float64{0, 3}))
	require.NoError(t, err)
	_, cols := probas.Dims()
	assert.Equal(t, 2, cols)
	assert.InDelta(t, 1/(1+math.Exp(2)), probas.At(0, 1), 1e-12)

	preds, err := lr.Predict(mat.NewDense(2, 1, []float64{0, 3}))
	require.NoError(t, err)
	assert.Equal(t, 0.0, preds.At(0, 0))
	assert.Equal(t, 1.0, preds.At(1, 0))
}

func TestLogisticRegression_Score(t *testing.T) {
	lr := threeClass(t)
	X := mat.NewDense(4, 4, []float64{
		0, 0, -1.5, -1.2,
		0, 0, 0.1, 0.3,
		0, 0, 1.0, 1.4,
		0, 0, 1.0, 1.4,
	})
	y := mat.NewDense(4, 1, []float64{0, 1, 2, 1})

	score, err := lr.Score(X, y)
	require.NoError(t, err)
	assert.InDelta(t, 0.75, score, 1e-12)

	_, err = lr.Score(X, mat.NewDense(2, 1, nil))
	var dim *errors.DimensionError
	assert.True(t, errors.As(err, &dim))
}

func TestLogisticRegression_LargeBatchMatchesSequential(t *testing.T) {
	lr := threeClass(t)

	n := parallelRowThreshold * 3
	data := make([]float64, n*4)
	for i := 0; i < n; i++ {
		v := float64(i%7)/2 - 1.5
		data[i*4+2] = v
		data[i*4+3] = -v / 2
	}
	X := mat.NewDense(n, 4, data)

	batch, err := lr.DecisionFunction(X)
	require.NoError(t, err)

	for _, i := range []int{0, 1, n / 2, n - 1} {
		single, err := lr.DecisionFunction(mat.NewDense(1, 4, mat.Row(nil, i, X)))
		require.NoError(t, err)
		assert.Equal(t, mat.Row(nil, 0, single), mat.Row(nil, i, batch))
	}
}

func TestLogisticRegression_FromCoefficientsErrors(t *testing.T) {
	_, err := NewLogisticRegressionFromCoefficients(nil, nil, nil)
	assert.True(t, errors.Is(err, errors.ErrEmptyData))

	_, err = NewLogisticRegressionFromCoefficients([][]float64{{1, 2}, {1}}, []float64{0, 0}, nil)
	var dim *errors.DimensionError
	assert.True(t, errors.As(err, &dim))

	_, err = NewLogisticRegressionFromCoefficients([][]float64{{1}, {2}}, []float64{0}, nil)
	assert.True(t, errors.As(err, &dim))

	_, err = NewLogisticRegressionFromCoefficients([][]float64{{1}, {2}}, []float64{0, 0}, []int{0, 1, 2})
	assert.True(t, errors.As(err, &dim))

	_, err = NewLogisticRegressionFromCoefficients([][]float64{{1}, {2}}, []float64{0, 0}, nil, WithLRMultiClass("auto"))
	var val *errors.ValidationError
	assert.True(t, errors.As(err, &val))
}

func TestLogisticRegression_FeatureMismatch(t *testing.T) {
	lr := threeClass(t)
	_, err := lr.PredictProba(mat.NewDense(1, 3, nil))

	var dim *errors.DimensionError
	require.True(t, errors.As(err, &dim))
	assert.Equal(t, 4, dim.Expected)
	assert.Equal(t, 3, dim.Got)
}

func TestLogisticRegression_Metadata(t *testing.T) {
	lr := threeClass(t)
	assert.Equal(t, []int{0, 1, 2}, lr.Classes())
	assert.Equal(t, 15, lr.ParameterCount())
}

func TestArgmaxFirstWins(t *testing.T) {
	assert.Equal(t, 0, argmax([]float64{0.1, 0.1, 0.1}))
	assert.Equal(t, 1, argmax([]float64{0.1, 0.5, 0.5}))
}
