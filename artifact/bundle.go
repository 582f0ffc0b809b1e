// Package artifact loads the pre-fitted model bundle: the feature schema,
// class names, scaler parameters and classifier coefficients.
package artifact

import (
	"bytes"
	_ "embed"
	"fmt"

	"github.com/YuminosukeSato/irisboard/core/model"
	"github.com/YuminosukeSato/irisboard/dataset"
	"github.com/YuminosukeSato/irisboard/pkg/errors"
	"github.com/YuminosukeSato/irisboard/preprocessing"
	"github.com/YuminosukeSato/irisboard/sklearn/linear_model"
)

//go:embed default.json
var defaultBundle []byte

// Scaler kinds accepted in ScalerParams.Kind.
const (
	ScalerStandard = "standard"
	ScalerMinMax   = "minmax"
)

// ScalerParams are the fitted scaler statistics. Kind selects the scaler and
// defaults to ScalerStandard. A standard scaler reads Mean and Scale, a
// min-max scaler reads Min and Max. When the statistics for the kind are
// empty the scaler is fitted on the reference dataset at load time.
type ScalerParams struct {
	Kind  string    `json:"kind,omitempty"`
	Mean  []float64 `json:"mean,omitempty"`
	Scale []float64 `json:"scale,omitempty"`
	Min   []float64 `json:"min,omitempty"`
	Max   []float64 `json:"max,omitempty"`
}

func (p ScalerParams) kind() string {
	if p.Kind == "" {
		return ScalerStandard
	}
	return p.Kind
}

// ModelParams are the fitted classifier coefficients.
type ModelParams struct {
	Coef       [][]float64 `json:"coef"`
	Intercept  []float64   `json:"intercept"`
	MultiClass string      `json:"multi_class,omitempty"`
}

// Layer is one row of the "Model Details" summary.
type Layer struct {
	Name       string `json:"name"`
	Units      int    `json:"units"`
	Activation string `json:"activation,omitempty"`
}

// Bundle is the persisted form of a classifier and its preprocessing.
type Bundle struct {
	Name       string       `json:"name"`
	Columns    []string     `json:"columns"`
	ClassNames []string     `json:"class_names"`
	Scaler     ScalerParams `json:"scaler"`
	Model      ModelParams  `json:"model"`

	Description string  `json:"description,omitempty"`
	Layers      []Layer `json:"layers,omitempty"`
	Loss        string  `json:"loss,omitempty"`
	Parameters  int     `json:"parameters,omitempty"`
	SourceURL   string  `json:"source_url,omitempty"`
}

// Load reads a bundle from path. The encoding follows the extension (.json or
// .gob). An empty path loads the embedded default bundle.
func Load(path string) (*Bundle, error) {
	var b Bundle
	if path == "" {
		if err := model.LoadModelFromReader(&b, bytes.NewReader(defaultBundle), model.FormatJSON); err != nil {
			return nil, errors.Wrap(err, "artifact: embedded default")
		}
	} else if err := model.LoadModel(&b, path); err != nil {
		return nil, errors.Wrapf(err, "artifact: %s", path)
	}

	if err := b.Validate(); err != nil {
		return nil, err
	}
	return &b, nil
}

// Save writes the bundle to path using the encoding named by its extension.
func (b *Bundle) Save(path string) error {
	if err := b.Validate(); err != nil {
		return err
	}
	return model.SaveModel(b, path)
}

// Validate checks that the schema, scaler and coefficients agree in shape.
func (b *Bundle) Validate() error {
	if len(b.Columns) == 0 {
		return errors.NewValidationError("columns", "must not be empty", b.Columns)
	}
	seen := make(map[string]bool, len(b.Columns))
	for _, c := range b.Columns {
		if seen[c] {
			return errors.NewValidationError("columns", "duplicate column", c)
		}
		seen[c] = true
	}
	if len(b.ClassNames) < 2 {
		return errors.NewValidationError("class_names", "need at least two classes", b.ClassNames)
	}

	nFeatures := len(b.Columns)
	if err := b.Scaler.validate(nFeatures); err != nil {
		return err
	}

	wantRows := len(b.ClassNames)
	if wantRows == 2 && len(b.Model.Coef) == 1 {
		wantRows = 1
	}
	if len(b.Model.Coef) != wantRows {
		return errors.NewDimensionError("artifact.model.coef", wantRows, len(b.Model.Coef), 0)
	}
	for i, row := range b.Model.Coef {
		if len(row) != nFeatures {
			return errors.NewDimensionError(fmt.Sprintf("artifact.model.coef[%d]", i), nFeatures, len(row), 1)
		}
	}
	if len(b.Model.Intercept) != wantRows {
		return errors.NewDimensionError("artifact.model.intercept", wantRows, len(b.Model.Intercept), 0)
	}
	return nil
}

func (p ScalerParams) validate(nFeatures int) error {
	var pairs [2]struct {
		name   string
		values []float64
	}
	switch p.kind() {
	case ScalerStandard:
		pairs[0].name, pairs[0].values = "mean", p.Mean
		pairs[1].name, pairs[1].values = "scale", p.Scale
	case ScalerMinMax:
		pairs[0].name, pairs[0].values = "min", p.Min
		pairs[1].name, pairs[1].values = "max", p.Max
	default:
		return errors.NewValidationError("scaler.kind", `must be "standard" or "minmax"`, p.Kind)
	}

	if len(pairs[0].values) == 0 && len(pairs[1].values) == 0 {
		return nil
	}
	for _, pr := range pairs {
		if len(pr.values) != nFeatures {
			return errors.NewDimensionError("artifact.scaler."+pr.name, nFeatures, len(pr.values), 1)
		}
	}
	if p.kind() == ScalerMinMax {
		for j := range p.Min {
			if p.Max[j] < p.Min[j] {
				return errors.NewValidationError(fmt.Sprintf("scaler.max[%d]", j), "must not be below min", p.Max[j])
			}
		}
	}
	return nil
}

// BuildScaler builds the fitted scaler named by the bundle's scaler kind. When
// the bundle carries no statistics for that kind, ref is used to fit one over
// the bundle's columns.
func (b *Bundle) BuildScaler(ref *dataset.Dataset) (model.FittableTransformer, error) {
	switch b.Scaler.kind() {
	case ScalerMinMax:
		if len(b.Scaler.Min) > 0 {
			s, err := preprocessing.NewMinMaxScalerFromParams(b.Scaler.Min, b.Scaler.Max)
			if err != nil {
				return nil, err
			}
			return s, nil
		}
		return fitScaler(preprocessing.NewMinMaxScaler([2]float64{0, 1}), b.Columns, ref)
	case ScalerStandard:
		if len(b.Scaler.Mean) > 0 {
			s, err := preprocessing.NewStandardScalerFromParams(b.Scaler.Mean, b.Scaler.Scale)
			if err != nil {
				return nil, err
			}
			return s, nil
		}
		return fitScaler(preprocessing.NewStandardScalerDefault(), b.Columns, ref)
	default:
		return nil, errors.NewValidationError("scaler.kind", `must be "standard" or "minmax"`, b.Scaler.Kind)
	}
}

func fitScaler(s model.FittableTransformer, columns []string, ref *dataset.Dataset) (model.FittableTransformer, error) {
	if ref == nil {
		return nil, errors.NewModelError("artifact.BuildScaler", "no scaler parameters and no reference dataset", nil)
	}
	X, err := ref.MatrixFor(columns)
	if err != nil {
		return nil, errors.Wrap(err, "artifact.BuildScaler")
	}
	if err := s.Fit(X); err != nil {
		return nil, err
	}
	return s, nil
}

// Classifier builds the logistic regression classifier.
func (b *Bundle) Classifier() (*linear_model.LogisticRegression, error) {
	var opts []linear_model.LogisticRegressionOption
	if b.Model.MultiClass != "" {
		opts = append(opts, linear_model.WithLRMultiClass(b.Model.MultiClass))
	}
	return linear_model.NewLogisticRegressionFromCoefficients(b.Model.Coef, b.Model.Intercept, nil, opts...)
}

// ParameterCount returns the declared parameter count, or the number of
// classifier weights when none is declared.
func (b *Bundle) ParameterCount() int {
	if b.Parameters > 0 {
		return b.Parameters
	}
	n := 0
	for _, row := range b.Model.Coef {
		n += len(row)
	}
	return n + len(b.Model.Intercept)
}
