package app

import (
	"context"
	"errors"
	"io"
)

var ErrSessionValueNotFound = errors.New("session value not found error")

// FileStore keeps uploaded datasets. Save returns the path the file was
// stored under, which is what the session records.
type FileStore interface {
	Save(ctx context.Context, name string, src io.Reader) (string, error)
	Open(ctx context.Context, path string) (io.ReadCloser, error)
}

type SessionRepo interface {
	Get(ctx context.Context, sessionId string, key string) (string, error)
	Set(ctx context.Context, sessionId string, key string, value string) error
}
