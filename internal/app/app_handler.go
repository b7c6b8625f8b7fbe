package app

import (
	"fmt"
	"log/slog"
	"net/http"
)

// AppError is a failure that is reported to the client as plain text.
type AppError struct {
	Error   error
	Message string
	Code    int
}

// AppHandler is a handler that writes its own successful response and
// returns an *AppError otherwise.
type AppHandler func(http.ResponseWriter, *http.Request) *AppError

func (fn AppHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	e := fn(w, r)
	if e == nil {
		return
	}

	if e.Error != nil {
		slog.Error(fmt.Sprintf(`Error occured: %s`, e.Error.Error()), "path", r.URL.Path, "code", e.Code)
	}

	http.Error(w, e.Message, e.Code)
}
