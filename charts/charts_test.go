package charts

import (
	"bytes"
	"encoding/xml"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/irisboard/dataset"
	"github.com/YuminosukeSato/irisboard/pkg/errors"
)

// wellFormed decodes every token of the document.
func wellFormed(t *testing.T, svg []byte) {
	t.Helper()
	dec := xml.NewDecoder(bytes.NewReader(svg))
	for {
		_, err := dec.Token()
		if err == io.EOF {
			return
		}
		require.NoError(t, err)
	}
}

func TestHistogram(t *testing.T) {
	ds, err := dataset.Load()
	require.NoError(t, err)

	for _, name := range dataset.CanonicalColumns {
		t.Run(name, func(t *testing.T) {
			values, err := ds.Column(name)
			require.NoError(t, err)

			svg, err := Histogram(values, name, MaxBins)
			require.NoError(t, err)
			assert.Contains(t, string(svg), "<svg")
			assert.Contains(t, string(svg), "Count")
			wellFormed(t, svg)
		})
	}
}

func TestHistogramClampsBins(t *testing.T) {
	svg, err := Histogram([]float64{1, 2, 2, 3}, "x", 500)
	require.NoError(t, err)
	wellFormed(t, svg)

	_, err = Histogram(nil, "empty", 10)
	assert.True(t, errors.Is(err, errors.ErrEmptyData))
}

func TestSpeciesPie(t *testing.T) {
	labels := []string{"setosa", "versicolor", "virginica"}
	counts := []int{50, 50, 50}

	plain, err := SpeciesPie(counts, labels, nil)
	require.NoError(t, err)
	wellFormed(t, plain)
	assert.Contains(t, string(plain), LegendTitle)
	for _, l := range labels {
		assert.Contains(t, string(plain), l)
	}

	one := 1
	highlighted, err := SpeciesPie(counts, labels, &one)
	require.NoError(t, err)
	wellFormed(t, highlighted)
	assert.NotEqual(t, plain, highlighted)

	outOfRange := 7
	ignored, err := SpeciesPie(counts, labels, &outOfRange)
	require.NoError(t, err)
	assert.Equal(t, plain, ignored)
}

func TestSpeciesPieErrors(t *testing.T) {
	_, err := SpeciesPie(nil, nil, nil)
	assert.Error(t, err)

	_, err = SpeciesPie([]int{1, 2}, []string{"a"}, nil)
	var dim *errors.DimensionError
	assert.True(t, errors.As(err, &dim))

	_, err = SpeciesPie([]int{1, -2}, []string{"a", "b"}, nil)
	assert.Error(t, err)
}

func TestSliceColors(t *testing.T) {
	two := 2
	colors, err := sliceColors(4, &two)
	require.NoError(t, err)
	require.Len(t, colors, 4)

	r, g, b, _ := colors[2].RGBA()
	assert.Equal(t, [3]uint32{0xffff, 0xa5a5, 0}, [3]uint32{r, g, b})
	assert.Equal(t, colors[0], colors[3])
}

func TestCache(t *testing.T) {
	c, err := NewCache(2)
	require.NoError(t, err)

	calls := 0
	render := func() ([]byte, error) {
		calls++
		return []byte("<svg/>"), nil
	}

	for i := 0; i < 3; i++ {
		got, err := c.Get("hist:0", render)
		require.NoError(t, err)
		assert.Equal(t, "<svg/>", string(got))
	}
	assert.Equal(t, 1, calls)

	_, err = c.Get("broken", func() ([]byte, error) { return nil, errors.New("boom") })
	assert.Error(t, err)
	assert.Equal(t, 1, c.Len())
}
