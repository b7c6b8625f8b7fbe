package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/felixbrock/ponygp/internal/chart"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const runLog = "Generation: 0, Duration: 0.01, best solution: Genome: x0, Fitness: -2.5000\n" +
	"Generation: 1, Duration: 0.01, best solution: Genome: x0, Fitness: -1.2500\n" +
	"Generation: 2, Duration: 0.01, best solution: Genome: x0, Fitness: 0.0000\n"

func record(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestIndexRoute(t *testing.T) {
	h := testApp(newMemStore(), newMemSessions()).Handler()

	rec := record(h, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), `name="uploaded_file"`)
}

func TestNotFoundRoute(t *testing.T) {
	h := testApp(newMemStore(), newMemSessions()).Handler()

	rec := record(h, httptest.NewRequest(http.MethodGet, "/missing", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Not found")
}

func TestStaticRoute(t *testing.T) {
	h := testApp(newMemStore(), newMemSessions()).Handler()

	rec := record(h, httptest.NewRequest(http.MethodGet, "/static/style.css", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "max-width")
}

func TestPonyGPRedirectsWithoutSession(t *testing.T) {
	h := testApp(newMemStore(), newMemSessions()).Handler()

	rec := record(h, httptest.NewRequest(http.MethodGet, "/pony_gp.php", nil))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	req := httptest.NewRequest(http.MethodGet, "/pony_gp.php", nil)
	req.AddCookie(&http.Cookie{Name: "PONYSESSID", Value: "not-a-uuid"})
	rec = record(h, req)
	assert.Equal(t, http.StatusSeeOther, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/pony_gp.php", nil)
	req.AddCookie(&http.Cookie{Name: "PONYSESSID", Value: "0b5f8f2e-8d2a-4c55-9f0e-3b7a2a1c9d10"})
	rec = record(h, req)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
}

func TestPonyGPShowsDataset(t *testing.T) {
	store, sessions := newMemStore(), newMemSessions()
	h := testApp(store, sessions).Handler()

	up := postUpload(t, h, "data.csv", dataset)
	cookie := sessionCookie(up)
	require.NotNil(t, cookie)

	req := httptest.NewRequest(http.MethodGet, "/pony_gp.php", nil)
	req.AddCookie(cookie)
	rec := record(h, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "<code>uploads/data.csv</code>")
	assert.Contains(t, body, "x0, x1, y")
	assert.Contains(t, body, `<canvas id="performance"`)
}

func TestPonyGPWithoutDatasetSummary(t *testing.T) {
	store, sessions := newMemStore(), newMemSessions()
	require.NoError(t, sessions.Set(context.Background(), "0b5f8f2e-8d2a-4c55-9f0e-3b7a2a1c9d10", filePathKey, "uploads/gone.csv"))
	h := testApp(store, sessions).Handler()

	req := httptest.NewRequest(http.MethodGet, "/pony_gp.php", nil)
	req.AddCookie(&http.Cookie{Name: "PONYSESSID", Value: "0b5f8f2e-8d2a-4c55-9f0e-3b7a2a1c9d10"})
	rec := record(h, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<code>uploads/gone.csv</code>")
	assert.NotContains(t, rec.Body.String(), `class="dataset"`)
}

func TestPonyGPSessionError(t *testing.T) {
	sessions := newMemSessions()
	sessions.err = errors.New("database is locked")
	h := testApp(newMemStore(), sessions).Handler()

	req := httptest.NewRequest(http.MethodGet, "/pony_gp.php", nil)
	req.AddCookie(&http.Cookie{Name: "PONYSESSID", Value: "0b5f8f2e-8d2a-4c55-9f0e-3b7a2a1c9d10"})
	rec := record(h, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Internal server error")
}

func TestFitnessAPIText(t *testing.T) {
	h := testApp(newMemStore(), newMemSessions()).Handler()

	req := httptest.NewRequest(http.MethodPost, "/api/fitness", strings.NewReader(runLog))
	req.Header.Set("Content-Type", "text/plain")
	rec := record(h, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var config chart.Config
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &config))
	assert.Equal(t, []string{"Gen 0", "Gen 1", "Gen 2"}, config.Data.Labels)
	assert.Equal(t, []string{"-2.5000", "-1.2500", "0.0000"}, config.Data.Datasets[0].Data)
}

func TestFitnessAPIJSON(t *testing.T) {
	h := testApp(newMemStore(), newMemSessions()).Handler()

	body, err := json.Marshal(map[string]string{"log": runLog})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/fitness", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	rec := record(h, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var config chart.Config
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &config))
	assert.Len(t, config.Data.Datasets[0].Data, 3)
}

func TestFitnessAPIBadRequests(t *testing.T) {
	h := testApp(newMemStore(), newMemSessions()).Handler()

	tests := []struct {
		name        string
		body        string
		contentType string
	}{
		{"empty body", "", "text/plain"},
		{"malformed json", "{", "application/json"},
		{"null json", "null", "application/json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/fitness", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", tt.contentType)

			assert.Equal(t, http.StatusBadRequest, record(h, req).Code)
		})
	}
}

func TestFitnessAPITooLarge(t *testing.T) {
	a := testApp(newMemStore(), newMemSessions())
	a.Config.MaxUploadBytes = 16

	req := httptest.NewRequest(http.MethodPost, "/api/fitness", strings.NewReader(runLog))
	rec := record(a.Handler(), req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestFitnessChartRoute(t *testing.T) {
	h := testApp(newMemStore(), newMemSessions()).Handler()

	req := httptest.NewRequest(http.MethodPost, "/api/fitness/chart?format=png&width=400&height=200", strings.NewReader(runLog))
	rec := record(h, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG")))

	req = httptest.NewRequest(http.MethodPost, "/api/fitness/chart?format=svg", strings.NewReader(runLog))
	rec = record(h, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/svg+xml", rec.Header().Get("Content-Type"))
}

func TestFitnessChartErrors(t *testing.T) {
	h := testApp(newMemStore(), newMemSessions()).Handler()

	tests := []struct {
		name  string
		query string
		body  string
		code  int
	}{
		{"unsupported format", "?format=gif", runLog, http.StatusBadRequest},
		{"bad width", "?width=wide", runLog, http.StatusBadRequest},
		{"huge height", "?height=100000", runLog, http.StatusBadRequest},
		{"no points", "", "Generation: 0, Fitness: n/a\n", http.StatusUnprocessableEntity},
		{"no generations", "", "nothing to plot\n", http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/fitness/chart"+tt.query, strings.NewReader(tt.body))

			assert.Equal(t, tt.code, record(h, req).Code)
		})
	}
}

func TestGzipResponses(t *testing.T) {
	h := testApp(newMemStore(), newMemSessions()).Handler()

	req := httptest.NewRequest(http.MethodPost, "/api/fitness/chart?format=svg", strings.NewReader(runLog))
	req.Header.Set("Accept-Encoding", "gzip")
	rec := record(h, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "gzip", rec.Header().Get("Content-Encoding"))
}
