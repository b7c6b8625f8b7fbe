package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
)

type fitnessReq struct {
	Log string `json:"log"`
}

// readBody reads the whole request body, at most limit bytes of it.
func readBody(w http.ResponseWriter, r *http.Request, limit int64) ([]byte, error) {
	reader := http.MaxBytesReader(w, r.Body, limit)

	defer func() {
		err := reader.Close()
		if err != nil {
			slog.Error(fmt.Sprintf("Error occured: %s", err.Error()))
		}
	}()

	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	} else if len(content) == 0 {
		return nil, errors.New("no reader content error")
	}

	return content, nil
}

func readJSON[T any](content []byte) (*T, error) {
	var t *T
	err := json.Unmarshal(content, &t)

	if err != nil {
		return nil, err
	} else if t == nil {
		return nil, errors.New("null json content error")
	}

	return t, nil
}

// readRunLog accepts the run log either as the raw body or, for JSON
// requests, as {"log": "..."}.
func readRunLog(w http.ResponseWriter, r *http.Request, limit int64) (string, error) {
	content, err := readBody(w, r, limit)
	if err != nil {
		return "", err
	}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "application/json" {
		return string(content), nil
	}

	req, err := readJSON[fitnessReq](content)
	if err != nil {
		return "", err
	}

	return req.Log, nil
}
