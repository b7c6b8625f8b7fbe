package persistence

import (
	"context"
	"sync"

	"github.com/felixbrock/ponygp/internal/app"
)

// MemSessionRepo keeps session values in process memory.
type MemSessionRepo struct {
	mu       sync.RWMutex
	sessions map[string]map[string]string
}

func NewMemSessionRepo() *MemSessionRepo {
	return &MemSessionRepo{
		sessions: make(map[string]map[string]string),
	}
}

func (r *MemSessionRepo) Get(ctx context.Context, sessionId string, key string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.sessions[sessionId][key]
	if !ok {
		return "", app.ErrSessionValueNotFound
	}

	return v, nil
}

func (r *MemSessionRepo) Set(ctx context.Context, sessionId string, key string, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	values, ok := r.sessions[sessionId]
	if !ok {
		values = make(map[string]string)
		r.sessions[sessionId] = values
	}
	values[key] = value

	return nil
}
