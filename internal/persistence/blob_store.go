package persistence

import (
	"context"
	"io"
	"path"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
)

// BlobStore keeps uploads as blobs named Prefix/name in an Azure Storage
// container.
type BlobStore struct {
	Client    *azblob.Client
	Container string
	Prefix    string
}

func NewBlobStore(connectionString string, container string, prefix string) (*BlobStore, error) {
	client, err := azblob.NewClientFromConnectionString(connectionString, nil)
	if err != nil {
		return nil, err
	}

	return &BlobStore{Client: client, Container: container, Prefix: prefix}, nil
}

func (s BlobStore) blobName(name string) string {
	return path.Join(s.Prefix, name)
}

func (s BlobStore) Save(ctx context.Context, name string, src io.Reader) (string, error) {
	blobName := s.blobName(name)

	_, err := s.Client.UploadStream(ctx, s.Container, blobName, src, nil)
	if err != nil {
		return "", err
	}

	return blobName, nil
}

func (s BlobStore) Open(ctx context.Context, blobName string) (io.ReadCloser, error) {
	resp, err := s.Client.DownloadStream(ctx, s.Container, blobName, nil)
	if err != nil {
		return nil, err
	}

	return resp.Body, nil
}
