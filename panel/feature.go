package panel

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/irisboard/pkg/errors"
)

// FeatureVector is an ordered set of named measurements for one sample.
type FeatureVector struct {
	Columns []string
	Values  []float64
}

// NewFeatureVector pairs columns with values.
func NewFeatureVector(columns []string, values []float64) (FeatureVector, error) {
	if len(columns) != len(values) {
		return FeatureVector{}, errors.NewDimensionError("FeatureVector", len(columns), len(values), 1)
	}
	return FeatureVector{
		Columns: append([]string(nil), columns...),
		Values:  append([]float64(nil), values...),
	}, nil
}

// FeatureVectorFromMap builds a vector in the given column order. Every
// column must be present in m.
func FeatureVectorFromMap(columns []string, m map[string]float64) (FeatureVector, error) {
	values := make([]float64, len(columns))
	for i, name := range columns {
		v, ok := m[name]
		if !ok {
			return FeatureVector{}, errors.NewValidationError(name, "missing feature", nil)
		}
		values[i] = v
	}
	if len(m) != len(columns) {
		return FeatureVector{}, errors.NewDimensionError("FeatureVector", len(columns), len(m), 1)
	}
	return NewFeatureVector(columns, values)
}

// Len returns the number of features.
func (v FeatureVector) Len() int {
	return len(v.Values)
}

// Get returns the value of the named feature.
func (v FeatureVector) Get(name string) (float64, bool) {
	for i, c := range v.Columns {
		if c == name {
			return v.Values[i], true
		}
	}
	return 0, false
}

// Map returns the vector as name → value.
func (v FeatureVector) Map() map[string]float64 {
	m := make(map[string]float64, len(v.Columns))
	for i, c := range v.Columns {
		m[c] = v.Values[i]
	}
	return m
}

// Reorder returns the vector with its values arranged in columns order.
func (v FeatureVector) Reorder(columns []string) (FeatureVector, error) {
	if len(columns) != v.Len() {
		return FeatureVector{}, errors.NewDimensionError("FeatureVector.Reorder", len(columns), v.Len(), 1)
	}
	values := make([]float64, len(columns))
	for i, name := range columns {
		val, ok := v.Get(name)
		if !ok {
			return FeatureVector{}, errors.NewValidationError(name, "missing feature", nil)
		}
		values[i] = val
	}
	return FeatureVector{Columns: append([]string(nil), columns...), Values: values}, nil
}

// Matrix returns the vector as a 1×n matrix.
func (v FeatureVector) Matrix() *mat.Dense {
	return mat.NewDense(1, len(v.Values), append([]float64(nil), v.Values...))
}
