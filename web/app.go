// Package web serves the dashboard: the HTML page with its prediction form,
// the SVG charts and a small JSON API over the same prediction cycle.
package web

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/YuminosukeSato/irisboard/charts"
	"github.com/YuminosukeSato/irisboard/dashboard"
	"github.com/YuminosukeSato/irisboard/pkg/errors"
	"github.com/YuminosukeSato/irisboard/pkg/log"
	"github.com/YuminosukeSato/irisboard/session"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

const (
	pageTitle = "Iris Flower Species Classification"
	pageIntro = "This app demonstrates a multiclass classification task to predict the species of an " +
		"iris flower using four features: sepal length, sepal width, petal length, and petal width. " +
		"Target labels: Setosa, Versicolor, Virginica. Dataset: scikit-learn's Iris."
)

// App holds everything the handlers share. Per-browser data lives in the
// session store; everything else is read-only after NewApp.
type App struct {
	board    *dashboard.Dashboard
	sessions *session.Store
	charts   *charts.Cache
	page     *template.Template
	static   http.Handler
	logger   log.Logger
}

// Option configures an App.
type Option func(*App)

// WithLogger sets the application logger.
func WithLogger(l log.Logger) Option {
	return func(a *App) {
		a.logger = l
	}
}

// WithChartCache replaces the default chart cache.
func WithChartCache(c *charts.Cache) Option {
	return func(a *App) {
		a.charts = c
	}
}

// NewApp parses the page template and prepares the static file server.
func NewApp(board *dashboard.Dashboard, sessions *session.Store, opts ...Option) (*App, error) {
	if board == nil || sessions == nil {
		return nil, errors.NewValueError("web.NewApp", "dashboard and session store are required")
	}

	page, err := template.ParseFS(templateFS, "templates/index.html")
	if err != nil {
		return nil, errors.Wrap(err, "web: parse templates")
	}
	static, err := fs.Sub(staticFS, "static")
	if err != nil {
		return nil, errors.Wrap(err, "web: static files")
	}

	a := &App{
		board:    board,
		sessions: sessions,
		page:     page,
		static:   http.StripPrefix("/static/", http.FileServer(http.FS(static))),
		logger:   log.GetLoggerWithName("web"),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.charts == nil {
		if a.charts, err = charts.NewCache(charts.DefaultCacheSize); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// Routes returns the application's request multiplexer.
func (a *App) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", a.handleIndex)
	mux.HandleFunc("POST /predict", a.handleSubmit)
	mux.HandleFunc("GET /charts/features/{file}", a.handleHistogram)
	mux.HandleFunc("GET /charts/species.svg", a.handleSpeciesPie)
	mux.HandleFunc("POST /api/predict", a.handleAPIPredict)
	mux.HandleFunc("GET /api/prediction", a.handleAPIPrediction)
	mux.HandleFunc("GET /api/health", a.handleHealth)
	mux.Handle("GET /static/", a.static)
	return mux
}
