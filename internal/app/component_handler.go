package app

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/a-h/templ"
)

type ComponentResponse struct {
	Error       error
	Code        int
	ContentType string
	Component   templ.Component
}

// ComponentHandler renders the component of the returned response. A nil
// response means the handler has already written one, e.g. a redirect.
type ComponentHandler func(http.ResponseWriter, *http.Request) *ComponentResponse

func (ch ComponentHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	resp := ch(w, r)
	if resp == nil {
		return
	}

	if resp.Error != nil {
		slog.Error(fmt.Sprintf(`Error occured: %s`, resp.Error.Error()), "path", r.URL.Path)
	}

	var buf bytes.Buffer
	err := resp.Component.Render(r.Context(), &buf)
	if err != nil {
		slog.Error(fmt.Sprintf(`Error occured: %s`, err.Error()), "path", r.URL.Path)
		http.Error(w, "templ: failed to render template", http.StatusInternalServerError)
		return
	}

	contentType := resp.ContentType
	if contentType == "" {
		contentType = "text/html; charset=utf-8"
	}
	w.Header().Set("Content-Type", contentType)

	if resp.Code != 0 {
		w.WriteHeader(resp.Code)
	}

	if _, err = buf.WriteTo(w); err != nil {
		slog.Error(fmt.Sprintf(`Error occured: %s`, err.Error()), "path", r.URL.Path)
	}
}
