package persistence

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/felixbrock/ponygp/internal/domain"
)

// DiskStore keeps uploads in a directory on the local filesystem.
type DiskStore struct {
	Dir string
}

// Save writes src to Dir/name through a temporary file that is renamed into
// place, so readers never see a partially written dataset.
func (s DiskStore) Save(ctx context.Context, name string, src io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	err := os.MkdirAll(s.Dir, 0755)
	if err != nil {
		return "", err
	}

	dest := filepath.Join(s.Dir, name)

	tmp, err := os.CreateTemp(s.Dir, ".upload-*")
	if err != nil {
		return "", err
	}

	defer func() {
		// No-op once the rename succeeded.
		if err := os.Remove(tmp.Name()); err != nil && !errors.Is(err, os.ErrNotExist) {
			slog.Error(fmt.Sprintf("Error occured: %s", err.Error()))
		}
	}()

	if _, err = io.Copy(tmp, src); err != nil {
		tmp.Close()
		return "", err
	}

	if err = tmp.Close(); err != nil {
		return "", err
	}

	if err = os.Chmod(tmp.Name(), 0644); err != nil {
		return "", err
	}

	if err = os.Rename(tmp.Name(), dest); err != nil {
		return "", err
	}

	return dest, nil
}

func (s DiskStore) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return os.Open(path)
}

// InspectDataset summarises a fitness-case CSV: the first record is the header,
// spaces are stripped from every cell and blank lines are ignored.
func InspectDataset(path string, reader io.ReadCloser) (*domain.DatasetSummary, error) {
	defer func() {
		err := reader.Close()
		if err != nil {
			slog.Error(fmt.Sprintf("Error occured: %s", err.Error()))
		}
	}()

	r := csv.NewReader(reader)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	summary := &domain.DatasetSummary{Path: path}

	for {
		record, err := r.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, err
		}

		if summary.Header == nil {
			summary.Header = removeSpaces(record)
			summary.Columns = len(record)
			continue
		}

		summary.Rows++
	}

	if summary.Header == nil {
		return nil, errors.New("empty dataset error")
	}

	return summary, nil
}

func removeSpaces(record []string) []string {
	cells := make([]string, len(record))
	for i, c := range record {
		cells[i] = strings.ReplaceAll(c, " ", "")
	}

	return cells
}
