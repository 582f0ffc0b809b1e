package panel

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"unicode"

	"github.com/YuminosukeSato/irisboard/dataset"
	"github.com/YuminosukeSato/irisboard/pkg/errors"
)

const (
	helpDescriptionLimit = 40
	inputStep            = 0.01
)

// Field is one numeric input of the prediction form.
type Field struct {
	Name    string // feature column
	Key     string // form key
	Label   string
	Help    string
	Min     float64
	Max     float64
	Default float64
	Step    float64
	Column  int // 0 left, 1 right
}

// FieldValue is a Field together with the value to display in it.
type FieldValue struct {
	Field
	Value float64
}

// Form is the batched input form: values are only read on submit.
type Form struct {
	Fields []Field
}

// NewForm builds one field per column. bounds must be aligned with columns.
func NewForm(columns []string, bounds []dataset.FeatureBounds, descriptions map[string]string) (*Form, error) {
	if len(bounds) != len(columns) {
		return nil, errors.NewDimensionError("panel.NewForm", len(columns), len(bounds), 1)
	}

	f := &Form{Fields: make([]Field, len(columns))}
	for i, name := range columns {
		b := bounds[i]
		if b.Min > b.Max {
			return nil, errors.NewValidationError(name, "min exceeds max", [2]float64{b.Min, b.Max})
		}
		f.Fields[i] = Field{
			Name:    name,
			Key:     fieldKey(name),
			Label:   titleCase(name),
			Help:    helpText(descriptions[name], b.Mean),
			Min:     b.Min,
			Max:     b.Max,
			Default: b.Mean,
			Step:    inputStep,
			Column:  i % 2,
		}
	}
	return f, nil
}

// Columns returns the feature names in field order.
func (f *Form) Columns() []string {
	names := make([]string, len(f.Fields))
	for i, field := range f.Fields {
		names[i] = field.Name
	}
	return names
}

// Defaults returns the vector of default values.
func (f *Form) Defaults() FeatureVector {
	values := make([]float64, len(f.Fields))
	for i, field := range f.Fields {
		values[i] = field.Default
	}
	return FeatureVector{Columns: f.Columns(), Values: values}
}

// ParseForm reads one value per field. A missing or blank value takes the
// field default; a value that is not a number or lies outside [Min, Max]
// is rejected with a ValidationError.
func (f *Form) ParseForm(values url.Values) (FeatureVector, error) {
	vec := f.Defaults()
	for i, field := range f.Fields {
		raw := strings.TrimSpace(values.Get(field.Key))
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return FeatureVector{}, errors.NewValidationError(field.Label, "not a number", raw)
		}
		if err := field.check(v); err != nil {
			return FeatureVector{}, err
		}
		vec.Values[i] = v
	}
	return vec, nil
}

// Validate checks every value of vec against the field bounds.
func (f *Form) Validate(vec FeatureVector) error {
	for _, field := range f.Fields {
		v, ok := vec.Get(field.Name)
		if !ok {
			return errors.NewValidationError(field.Label, "missing feature", nil)
		}
		if err := field.check(v); err != nil {
			return err
		}
	}
	return nil
}

func (field Field) check(v float64) error {
	if !(v >= field.Min && v <= field.Max) {
		return errors.NewValidationError(field.Label,
			fmt.Sprintf("must be within [%.2f, %.2f]", field.Min, field.Max), v)
	}
	return nil
}

// Layout splits the fields into the left and right columns, filled with the
// values of vec. Fields missing from vec show their default.
func (f *Form) Layout(vec FeatureVector) [2][]FieldValue {
	var out [2][]FieldValue
	for _, field := range f.Fields {
		v, ok := vec.Get(field.Name)
		if !ok {
			v = field.Default
		}
		out[field.Column] = append(out[field.Column], FieldValue{Field: field, Value: v})
	}
	return out
}

// helpText truncates the description and appends the default value.
func helpText(desc string, mean float64) string {
	r := []rune(desc)
	if len(r) > helpDescriptionLimit {
		r = r[:helpDescriptionLimit]
	}
	return fmt.Sprintf("%s (default: %.2f)", string(r), mean)
}

// titleCase upper-cases every letter that follows a non-letter and
// lower-cases the rest: "sepal length (cm)" becomes "Sepal Length (Cm)".
func titleCase(s string) string {
	var b strings.Builder
	prevLetter := false
	for _, r := range s {
		isLetter := unicode.IsLetter(r)
		switch {
		case isLetter && !prevLetter:
			b.WriteRune(unicode.ToUpper(r))
		case isLetter:
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteRune(r)
		}
		prevLetter = isLetter
	}
	return b.String()
}

// fieldKey turns a column name into a form key: "sepal length (cm)"
// becomes "sepal_length_cm".
func fieldKey(name string) string {
	var b strings.Builder
	sep := false
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if sep && b.Len() > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r)
			sep = false
			continue
		}
		sep = true
	}
	return b.String()
}
