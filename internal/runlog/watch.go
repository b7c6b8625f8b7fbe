package runlog

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/felixbrock/ponygp/internal/domain"
	"github.com/fsnotify/fsnotify"
)

const debounce = 200 * time.Millisecond

// ReadFile extracts the fitnesses of the run log stored at path.
func ReadFile(path string) (domain.FitnessSeries, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return Extract(string(content)), nil
}

// Watch calls fn with the fitnesses of the run log at path once, and again
// every time the file is created or written, until ctx is done. The log does
// not have to exist yet; fn is first called once it appears.
//
// The parent directory is watched so runners that replace the file are seen.
func Watch(ctx context.Context, path string, fn func(domain.FitnessSeries) error) error {
	path = filepath.Clean(path)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	defer func() {
		err := watcher.Close()
		if err != nil {
			slog.Error(fmt.Sprintf("Error occured: %s", err.Error()))
		}
	}()

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}

	if err := emit(path, fn); err != nil {
		return err
	}

	// Runners flush the log line by line; coalesce bursts into one render.
	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			timer.Reset(debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error(fmt.Sprintf("Error occured: %s", err.Error()))

		case <-timer.C:
			if err := emit(path, fn); err != nil {
				return err
			}
		}
	}
}

// emit reads the run log and hands it to fn. A missing file means the run has
// not started yet, or is replacing the log, and is not an error.
func emit(path string, fn func(domain.FitnessSeries) error) error {
	fitnesses, err := ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Debug("run log not found, waiting", "path", path)
		return nil
	} else if err != nil {
		return err
	}

	return fn(fitnesses)
}
