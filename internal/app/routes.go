package app

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/felixbrock/ponygp/internal/chart"
	"github.com/felixbrock/ponygp/internal/domain"
	"github.com/felixbrock/ponygp/internal/runlog"
)

func (a App) index(w http.ResponseWriter, r *http.Request) *ComponentResponse {
	return &ComponentResponse{Component: a.ComponentBuilder.Index(), Code: http.StatusOK}
}

func (a App) notFound(w http.ResponseWriter, r *http.Request) *ComponentResponse {
	e := get404()
	return &ComponentResponse{Component: a.ComponentBuilder.Error(e.Code, e.Title, e.Msg), Code: e.Code}
}

// ponyGP shows the dataset recorded in the session. Without one the client
// is sent back to the upload form.
func (a App) ponyGP(w http.ResponseWriter, r *http.Request) *ComponentResponse {
	sessionId, ok := a.sessionId(r)
	if !ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return nil
	}

	path, err := a.SessionRepo.Get(r.Context(), sessionId, filePathKey)
	if errors.Is(err, ErrSessionValueNotFound) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return nil
	} else if err != nil {
		e := get500()
		return &ComponentResponse{Component: a.ComponentBuilder.Error(e.Code, e.Title, e.Msg), Code: e.Code, Error: err}
	}

	summary, err := a.inspect(r, path)

	// The page works without a summary, the failure is only logged.
	return &ComponentResponse{Component: a.ComponentBuilder.PonyGP(path, summary), Code: http.StatusOK, Error: err}
}

func (a App) inspect(r *http.Request, path string) (*domain.DatasetSummary, error) {
	reader, err := a.FileStore.Open(r.Context(), path)
	if err != nil {
		return nil, err
	}

	return a.InspectDataset(path, reader)
}

// fitness responds with the Chart.js configuration for the posted run log.
func (a App) fitness(w http.ResponseWriter, r *http.Request) *AppError {
	log, err := readRunLog(w, r, a.Config.MaxUploadBytes)
	if err != nil {
		return bodyError(err)
	}

	config := chart.NewConfig(runlog.Extract(log))

	w.Header().Set("Content-Type", "application/json")
	err = json.NewEncoder(w).Encode(config)
	if err != nil {
		slog.Error(fmt.Sprintf("Error occured: %s", err.Error()))
	}

	return nil
}

// fitnessChart renders the posted run log as a PNG or SVG image.
func (a App) fitnessChart(w http.ResponseWriter, r *http.Request) *AppError {
	query := r.URL.Query()

	format, err := chart.ParseFormat(query.Get("format"))
	if err != nil {
		return &AppError{Error: err, Message: "Unsupported chart format.", Code: http.StatusBadRequest}
	}

	size := chart.Size{}
	if size.Width, err = queryInt(query.Get("width")); err != nil {
		return get400().appError(err)
	}
	if size.Height, err = queryInt(query.Get("height")); err != nil {
		return get400().appError(err)
	}

	log, err := readRunLog(w, r, a.Config.MaxUploadBytes)
	if err != nil {
		return bodyError(err)
	}

	var buf bytes.Buffer
	err = chart.Render(&buf, runlog.Extract(log), format, size)
	if errors.Is(err, chart.ErrNoPoints) {
		return &AppError{Message: "No plottable fitness values.", Code: http.StatusUnprocessableEntity}
	} else if err != nil {
		return get500().appError(err)
	}

	w.Header().Set("Content-Type", format.ContentType())
	if _, err = buf.WriteTo(w); err != nil {
		slog.Error(fmt.Sprintf("Error occured: %s", err.Error()))
	}

	return nil
}

func health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"}) //nolint:errcheck
}

func bodyError(err error) *AppError {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return get413().appError(err)
	}
	return get400().appError(err)
}

// queryInt parses an optional positive integer query parameter.
func queryInt(v string) (int, error) {
	if v == "" {
		return 0, nil
	}

	n, err := strconv.Atoi(v)
	if err != nil || n < 0 || n > 4096 {
		return 0, fmt.Errorf("invalid size %q", v)
	}

	return n, nil
}
