// Package dashboard wires the model bundle and the reference dataset into the
// pieces the page needs: the prediction controller, the input form, the
// performance report and the chart inputs.
package dashboard

import (
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/irisboard/artifact"
	"github.com/YuminosukeSato/irisboard/core/model"
	"github.com/YuminosukeSato/irisboard/dataset"
	"github.com/YuminosukeSato/irisboard/metrics"
	"github.com/YuminosukeSato/irisboard/panel"
	"github.com/YuminosukeSato/irisboard/pkg/errors"
	"github.com/YuminosukeSato/irisboard/pkg/log"
)

// Dashboard is built once at startup and read-only afterwards.
type Dashboard struct {
	Bundle     *artifact.Bundle
	Dataset    *dataset.Dataset
	Controller *panel.Controller
	Form       *panel.Form
	Report     *metrics.Report
	VizColumns []string

	scaler     model.Transformer
	classifier model.Classifier
}

// Build restores the scaler and classifier from b, derives the form from the
// statistics of ds and scores the classifier on ds.
func Build(b *artifact.Bundle, ds *dataset.Dataset, logger log.Logger) (*Dashboard, error) {
	if logger == nil {
		logger = log.GetLoggerWithName("dashboard")
	}

	scaler, err := b.BuildScaler(ds)
	if err != nil {
		return nil, err
	}
	clf, err := b.Classifier()
	if err != nil {
		return nil, err
	}

	ctrl, err := panel.NewController(b.Columns, b.ClassNames, scaler, clf,
		panel.WithLogger(logger.With(log.ComponentKey, "panel")))
	if err != nil {
		return nil, err
	}

	bounds, err := ds.BoundsFor(b.Columns)
	if err != nil {
		return nil, errors.Wrap(err, "dashboard: artifact columns are not in the reference dataset")
	}
	form, err := panel.NewForm(b.Columns, bounds, dataset.Descriptions)
	if err != nil {
		return nil, err
	}

	d := &Dashboard{
		Bundle:     b,
		Dataset:    ds,
		Controller: ctrl,
		Form:       form,
		VizColumns: dataset.VizColumns(ds.Columns()),
		scaler:     scaler,
		classifier: clf,
	}

	start := time.Now()
	d.Report, err = d.Evaluate()
	if err != nil {
		return nil, err
	}
	logger.Info("model evaluated",
		log.ModelNameKey, b.Name,
		log.OperationKey, log.OperationScore,
		log.SamplesKey, ds.Len(),
		log.FeaturesKey, len(b.Columns),
		log.ClassesKey, len(b.ClassNames),
		log.AccuracyKey, d.Report.Accuracy,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return d, nil
}

// Evaluate scores the classifier on the reference dataset. Dataset labels are
// matched to the bundle's classes by name.
func (d *Dashboard) Evaluate() (*metrics.Report, error) {
	yTrue, err := d.bundleLabels()
	if err != nil {
		return nil, err
	}

	X, err := d.Dataset.MatrixFor(d.Bundle.Columns)
	if err != nil {
		return nil, err
	}
	Xs, err := d.scaler.Transform(X)
	if err != nil {
		return nil, err
	}
	pred, err := d.classifier.Predict(Xs)
	if err != nil {
		return nil, err
	}

	yPred := make([]int, len(yTrue))
	for i, v := range mat.Col(nil, 0, pred) {
		yPred[i] = int(v)
	}
	return metrics.ClassificationReport(yTrue, yPred, len(d.Bundle.ClassNames))
}

func (d *Dashboard) bundleLabels() ([]int, error) {
	index := make(map[string]int, len(d.Bundle.ClassNames))
	for i, name := range d.Bundle.ClassNames {
		index[name] = i
	}
	names := d.Dataset.ClassNames()

	labels := d.Dataset.Labels()
	out := make([]int, len(labels))
	for i, l := range labels {
		k, ok := index[names[l]]
		if !ok {
			return nil, errors.NewValidationError("class", "reference class missing from the model", names[l])
		}
		out[i] = k
	}
	return out, nil
}

// SpeciesCounts returns the reference sample count of every model class, in
// model class order.
func (d *Dashboard) SpeciesCounts() ([]int, []string) {
	byName := make(map[string]int)
	names := d.Dataset.ClassNames()
	for i, c := range d.Dataset.ClassCounts() {
		byName[names[i]] = c
	}

	labels := append([]string(nil), d.Bundle.ClassNames...)
	counts := make([]int, len(labels))
	for i, name := range labels {
		counts[i] = byName[name]
	}
	return counts, labels
}
