package web

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/YuminosukeSato/irisboard/artifact"
	"github.com/YuminosukeSato/irisboard/charts"
	"github.com/YuminosukeSato/irisboard/panel"
	"github.com/YuminosukeSato/irisboard/pkg/errors"
	"github.com/YuminosukeSato/irisboard/pkg/log"
)

type histogramRef struct {
	Index int
	Name  string
}

type performanceRow struct {
	Name      string
	Precision float64
	Recall    float64
	F1        float64
	Support   int
}

type pageData struct {
	Title       string
	Intro       string
	Histograms  []histogramRef
	Flash       string
	Layout      [2][]panel.FieldValue
	Prediction  panel.PredictionView
	Model       *artifact.Bundle
	Parameters  int
	Performance []performanceRow
	AccuracyPct float64
}

func (a *App) handleIndex(w http.ResponseWriter, r *http.Request) {
	st := a.sessions.Load(w, r)
	st.Lock()
	data := a.pageData()
	data.Flash = st.PopFlash()
	data.Layout = a.board.Form.Layout(st.Inputs)
	data.Prediction = a.board.Controller.Render(st.Prediction)
	st.Unlock()

	var buf bytes.Buffer
	if err := a.page.Execute(&buf, data); err != nil {
		a.logger.Error("render page failed", err, log.RequestIDKey, RequestID(r.Context()))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = buf.WriteTo(w)
}

func (a *App) pageData() pageData {
	b := a.board.Bundle
	data := pageData{
		Title:      pageTitle,
		Intro:      pageIntro,
		Model:      b,
		Parameters: b.ParameterCount(),
	}
	for i, name := range a.board.VizColumns {
		data.Histograms = append(data.Histograms, histogramRef{Index: i, Name: name})
	}

	report := a.board.Report
	for i, m := range report.Classes {
		name := strconv.Itoa(i)
		if label, ok := a.board.Controller.Label(i); ok {
			name = label
		}
		data.Performance = append(data.Performance, performanceRow{
			Name: name, Precision: m.Precision, Recall: m.Recall, F1: m.F1, Support: m.Support,
		})
	}
	data.AccuracyPct = report.Accuracy * 100
	return data
}

// handleSubmit runs the prediction for the submitted form and redirects back
// to the page, which shows the stored result.
func (a *App) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, http.StatusText(http.StatusRequestEntityTooLarge), http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	st := a.sessions.Load(w, r)
	st.Lock()
	defer st.Unlock()

	vec, err := a.board.Form.ParseForm(r.PostForm)
	if err != nil {
		st.Flash = flashMessage(err)
		a.logger.Warn("invalid submission",
			log.RequestIDKey, RequestID(r.Context()),
			log.SessionIDKey, st.ID().String(),
			"reason", err.Error(),
		)
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	if _, err := a.board.Controller.Submit(r.Context(), &st.Prediction, vec); err != nil {
		st.Flash = "Prediction failed. Please try again."
	} else {
		st.Inputs = vec
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (a *App) handleHistogram(w http.ResponseWriter, r *http.Request) {
	file := r.PathValue("file")
	idx, err := strconv.Atoi(strings.TrimSuffix(file, ".svg"))
	if err != nil || !strings.HasSuffix(file, ".svg") || idx < 0 || idx >= len(a.board.VizColumns) {
		http.NotFound(w, r)
		return
	}

	name := a.board.VizColumns[idx]
	svg, err := a.charts.Get("hist:"+strconv.Itoa(idx), func() ([]byte, error) {
		values, err := a.board.Dataset.Column(name)
		if err != nil {
			return nil, err
		}
		return charts.Histogram(values, name, charts.MaxBins)
	})
	a.writeSVG(w, r, svg, err)
}

// handleSpeciesPie draws the class distribution with the session's predicted
// class highlighted.
func (a *App) handleSpeciesPie(w http.ResponseWriter, r *http.Request) {
	st := a.sessions.Load(w, r)
	st.Lock()
	idx, ok := st.Prediction.Get()
	st.Unlock()

	counts, labels := a.board.SpeciesCounts()
	var highlight *int
	key := "pie:none"
	if ok && idx >= 0 && idx < len(labels) {
		highlight = &idx
		key = "pie:" + strconv.Itoa(idx)
	}

	svg, err := a.charts.Get(key, func() ([]byte, error) {
		return charts.SpeciesPie(counts, labels, highlight)
	})
	w.Header().Set("Cache-Control", "no-store")
	a.writeSVG(w, r, svg, err)
}

func (a *App) writeSVG(w http.ResponseWriter, r *http.Request, svg []byte, err error) {
	if err != nil {
		a.logger.Error("render chart failed", err,
			log.RequestIDKey, RequestID(r.Context()),
			log.PathKey, r.URL.Path,
		)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = w.Write(svg)
}

type predictRequest struct {
	Features map[string]float64 `json:"features"`
}

type predictResponse struct {
	Index  int       `json:"index"`
	Label  string    `json:"label,omitempty"`
	Known  bool      `json:"known"`
	Scores []float64 `json:"scores,omitempty"`
}

type predictionResponse struct {
	Present bool   `json:"present"`
	Index   *int   `json:"index,omitempty"`
	Kind    string `json:"kind,omitempty"`
	Label   string `json:"label,omitempty"`
	Message string `json:"message,omitempty"`
}

// handleAPIPredict scores a JSON feature map and stores the result in the
// caller's session, same as a form submission.
func (a *App) handleAPIPredict(w http.ResponseWriter, r *http.Request) {
	var req predictRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	vec, err := panel.FeatureVectorFromMap(a.board.Controller.Columns(), req.Features)
	if err == nil {
		err = a.board.Form.Validate(vec)
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	st := a.sessions.Load(w, r)
	st.Lock()
	defer st.Unlock()

	p, err := a.board.Controller.Submit(r.Context(), &st.Prediction, vec)
	if err != nil {
		a.logger.Error("api prediction failed", err, log.RequestIDKey, RequestID(r.Context()))
		writeError(w, http.StatusInternalServerError, "prediction failed")
		return
	}
	st.Inputs = vec

	resp := predictResponse{Index: p.Index, Scores: p.Scores}
	resp.Label, resp.Known = a.board.Controller.Label(p.Index)
	writeJSON(w, http.StatusOK, resp)
}

func (a *App) handleAPIPrediction(w http.ResponseWriter, r *http.Request) {
	st := a.sessions.Load(w, r)
	st.Lock()
	view := a.board.Controller.Render(st.Prediction)
	st.Unlock()

	if view.Kind == panel.ViewNone {
		writeJSON(w, http.StatusOK, predictionResponse{})
		return
	}
	idx := view.Index
	writeJSON(w, http.StatusOK, predictionResponse{
		Present: true,
		Index:   &idx,
		Kind:    view.Kind.String(),
		Label:   view.Label,
		Message: view.Message,
	})
}

func (a *App) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// flashMessage turns a form error into a sentence for the page.
func flashMessage(err error) string {
	var verr *errors.ValidationError
	if errors.As(err, &verr) {
		return fmt.Sprintf("%s %s.", verr.ParamName, verr.Reason)
	}
	return "Invalid input."
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

