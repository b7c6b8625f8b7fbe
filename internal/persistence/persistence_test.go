package persistence

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/felixbrock/ponygp/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const dataset = "x0, x1, y\n1, 2, 3\n\n4, 5, 9\n-1, 0.5, -0.5\n"

func TestDiskStoreSave(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	store := DiskStore{Dir: dir}

	path, err := store.Save(context.Background(), "data.csv", strings.NewReader(dataset))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "data.csv"), path)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, dataset, string(content))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file left behind")
}

func TestDiskStoreSaveOverwrites(t *testing.T) {
	store := DiskStore{Dir: t.TempDir()}
	ctx := context.Background()

	_, err := store.Save(ctx, "data.csv", strings.NewReader("old"))
	require.NoError(t, err)
	path, err := store.Save(ctx, "data.csv", strings.NewReader("new"))
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new", string(content))
}

func TestDiskStoreSaveUnwritableDir(t *testing.T) {
	// A regular file where the directory should be.
	blocker := filepath.Join(t.TempDir(), "uploads")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))

	_, err := DiskStore{Dir: blocker}.Save(context.Background(), "data.csv", strings.NewReader(dataset))
	require.Error(t, err)
}

func TestDiskStoreSaveCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := DiskStore{Dir: t.TempDir()}.Save(ctx, "data.csv", strings.NewReader(dataset))
	require.ErrorIs(t, err, context.Canceled)
}

func TestDiskStoreOpen(t *testing.T) {
	store := DiskStore{Dir: t.TempDir()}
	ctx := context.Background()

	path, err := store.Save(ctx, "data.csv", strings.NewReader(dataset))
	require.NoError(t, err)

	rc, err := store.Open(ctx, path)
	require.NoError(t, err)
	defer rc.Close()

	content, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, dataset, string(content))
}

func TestInspectDataset(t *testing.T) {
	summary, err := InspectDataset("uploads/data.csv", io.NopCloser(strings.NewReader(dataset)))
	require.NoError(t, err)

	assert.Equal(t, &domain.DatasetSummary{
		Path:    "uploads/data.csv",
		Header:  []string{"x0", "x1", "y"},
		Columns: 3,
		Rows:    3,
	}, summary)
}

func TestInspectDatasetEmpty(t *testing.T) {
	_, err := InspectDataset("uploads/empty.csv", io.NopCloser(strings.NewReader("")))
	require.Error(t, err)
}

func TestInspectDatasetMalformed(t *testing.T) {
	_, err := InspectDataset("uploads/bad.csv", io.NopCloser(strings.NewReader("a,\"b\nc\n")))
	require.Error(t, err)
}

func TestBlobStoreBlobName(t *testing.T) {
	store := BlobStore{Container: "datasets", Prefix: "uploads"}

	assert.Equal(t, "uploads/data.csv", store.blobName("data.csv"))
	assert.Equal(t, "data.csv", BlobStore{}.blobName("data.csv"))
}
