package dataset

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/irisboard/pkg/errors"
)

func TestLoad(t *testing.T) {
	ds, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 150, ds.Len())
	assert.Equal(t, CanonicalColumns, ds.Columns())
	assert.Equal(t, ClassNames, ds.ClassNames())
	assert.Equal(t, []int{50, 50, 50}, ds.ClassCounts())

	r, c := ds.Matrix().Dims()
	assert.Equal(t, 150, r)
	assert.Equal(t, 4, c)
	assert.Len(t, ds.Labels(), 150)
}

func TestBounds(t *testing.T) {
	ds, err := Load()
	require.NoError(t, err)

	tests := []struct {
		name string
		mean float64
		min  float64
		max  float64
	}{
		{SepalLength, 5.843333, 4.3, 7.9},
		{SepalWidth, 3.057333, 2.0, 4.4},
		{PetalLength, 3.758, 1.0, 6.9},
		{PetalWidth, 1.199333, 0.1, 2.5},
	}

	bounds := ds.Bounds()
	require.Len(t, bounds, len(tests))
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := bounds[i]
			assert.Equal(t, tt.name, b.Name)
			assert.InDelta(t, tt.mean, b.Mean, 1e-5)
			assert.Equal(t, tt.min, b.Min)
			assert.Equal(t, tt.max, b.Max)
			assert.True(t, b.Contains(b.Mean))
			assert.False(t, b.Contains(b.Max+0.01))
		})
	}
}

func TestBoundsFor(t *testing.T) {
	ds, err := Load()
	require.NoError(t, err)

	bounds, err := ds.BoundsFor([]string{PetalWidth, SepalLength})
	require.NoError(t, err)
	assert.Equal(t, PetalWidth, bounds[0].Name)
	assert.Equal(t, SepalLength, bounds[1].Name)

	_, err = ds.BoundsFor([]string{"stem length"})
	var val *errors.ValidationError
	assert.True(t, errors.As(err, &val))
}

func TestMatrixFor(t *testing.T) {
	ds, err := Load()
	require.NoError(t, err)

	X, err := ds.MatrixFor([]string{PetalLength, SepalLength})
	require.NoError(t, err)
	assert.Equal(t, 1.4, X.At(0, 0))
	assert.Equal(t, 5.1, X.At(0, 1))
}

func TestVizColumns(t *testing.T) {
	tests := []struct {
		name    string
		columns []string
		want    []string
	}{
		{"canonical", CanonicalColumns, CanonicalColumns},
		{"reordered", []string{PetalWidth, SepalLength}, []string{SepalLength, PetalWidth}},
		{"extra columns ignored", []string{"id", SepalWidth, "color"}, []string{SepalWidth}},
		{"none", []string{"id"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, VizColumns(tt.columns))
		})
	}
}

func TestParse(t *testing.T) {
	t.Run("unknown class appended", func(t *testing.T) {
		ds, err := Parse(strings.NewReader("a,b,species\n1,2,setosa\n3,4,hybrid\n"))
		require.NoError(t, err)
		assert.Equal(t, []string{"setosa", "versicolor", "virginica", "hybrid"}, ds.ClassNames())
		assert.Equal(t, []int{0, 3}, ds.Labels())
		assert.Equal(t, []int{1, 0, 0, 1}, ds.ClassCounts())
	})

	t.Run("bad number", func(t *testing.T) {
		_, err := Parse(strings.NewReader("a,species\nx,setosa\n"))
		var val *errors.ValidationError
		require.True(t, errors.As(err, &val))
		assert.Equal(t, "a", val.ParamName)
	})

	t.Run("empty", func(t *testing.T) {
		_, err := Parse(strings.NewReader(""))
		assert.True(t, errors.Is(err, errors.ErrEmptyData))

		_, err = Parse(strings.NewReader("a,species\n"))
		assert.True(t, errors.Is(err, errors.ErrEmptyData))
	})

	t.Run("unknown column", func(t *testing.T) {
		ds, err := Load()
		require.NoError(t, err)
		_, err = ds.Column("stem")
		assert.Error(t, err)
	})
}
