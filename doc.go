// Package irisboard is a small web dashboard that classifies iris flowers
// from four measurements and explains the model behind the answer.
//
// The dashboard shows the distribution of every feature in the reference
// dataset, a form with one numeric input per feature, the predicted species
// after a submit, a pie chart of the species with the prediction
// highlighted, and a summary of the model and its performance.
//
// # Features
//
//   - Submit/render cycle: a submitted feature vector is scaled, scored and
//     reduced to a class index that is stored per browser session
//   - Safe rendering: a stored index outside the class list is shown as a
//     warning, never as a crash
//   - Embedded defaults: the reference dataset and a fitted model ship inside
//     the binary; a JSON or gob artifact can replace the model
//   - SVG charts rendered with gonum/plot and cached in memory
//   - Structured JSON logging with stack traces for every error
//
// # Quick Start
//
// Run the server with the embedded model:
//
//	irisboard serve --addr :8080
//
// Classify a single flower from the command line:
//
//	irisboard predict --sepal-length 5.1 --sepal-width 3.5 --petal-length 1.4 --petal-width 0.2
//
// Use the prediction cycle as a library:
//
//	b, err := artifact.Load("")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	ds, err := dataset.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	board, err := dashboard.Build(b, ds, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	var state panel.PredictionState
//	vec, _ := panel.NewFeatureVector(b.Columns, []float64{5.1, 3.5, 1.4, 0.2})
//	if _, err := board.Controller.Submit(ctx, &state, vec); err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(board.Controller.Render(state).Label) // setosa
//
// # Packages
//
//   - panel: the prediction controller, session prediction state and input form
//   - dataset: the embedded iris reference dataset and per-feature bounds
//   - preprocessing: StandardScaler and MinMaxScaler
//   - sklearn/linear_model: LogisticRegression restored from coefficients
//   - artifact: the model bundle format (JSON or gob)
//   - metrics: accuracy, confusion matrix and the per-class report
//   - charts: feature histograms and the species pie chart
//   - session: cookie-keyed, expiring per-browser state
//   - dashboard: assembles the pieces above at startup
//   - web: HTTP server, middleware, page and JSON API
//   - config: YAML configuration with environment overrides
//   - core/model: shared interfaces, fitted-state checks and persistence
//   - core/parallel: row-parallel helpers
//   - pkg/errors, pkg/log: typed errors and structured logging
//
// # Configuration
//
// Settings are read from a YAML file (--config) and then overridden by
// IRISBOARD_ADDR, IRISBOARD_LOG_LEVEL and IRISBOARD_MODEL_PATH. See
// config.DefaultConfig for every default.
package irisboard
