package storage

import (
	"bytes"
	"context"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/google/uuid"
)

// ImageStore persists captured/cropped artwork images and hands back the
// public URL used to populate image_url fields
type ImageStore interface {
	Upload(ctx context.Context, data []byte, contentType string) (string, error)
}

type azureImageStore struct {
	client    *azblob.Client
	account   string
	container string
}

// NewAzureImageStore creates a blob-backed image store
func NewAzureImageStore(accountName, accountKey, container string) (ImageStore, error) {
	credential, err := azblob.NewSharedKeyCredential(accountName, accountKey)
	if err != nil {
		return nil, err
	}

	client, err := azblob.NewClientWithSharedKeyCredential(
		fmt.Sprintf("https://%s.blob.core.windows.net", accountName),
		credential,
		nil,
	)
	if err != nil {
		return nil, err
	}

	return &azureImageStore{client: client, account: accountName, container: container}, nil
}

// Upload stores the image under a random blob name and returns its public URL
func (s *azureImageStore) Upload(ctx context.Context, data []byte, contentType string) (string, error) {
	ext := "jpg"
	if contentType == "image/png" {
		ext = "png"
	}
	blobName := fmt.Sprintf("%s.%s", uuid.NewString(), ext)

	_, err := s.client.UploadStream(ctx, s.container, blobName, bytes.NewReader(data), nil)
	if err != nil {
		return "", fmt.Errorf("upload failed: %w", err)
	}

	return fmt.Sprintf("https://%s.blob.core.windows.net/%s/%s", s.account, s.container, blobName), nil
}
