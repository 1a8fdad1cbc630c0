// Package storage uploads spot images to Google Cloud Storage.
package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
)

const uploadTimeout = 50 * time.Second

type GCSUploader struct {
	cl         *storage.Client
	bucketName string
	uploadPath string
}

// NewGCSUploader opens a storage client using the default application
// credentials.
func NewGCSUploader(ctx context.Context, bucketName, uploadPath string) (*GCSUploader, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("storage.NewClient: %w", err)
	}
	return &GCSUploader{cl: client, bucketName: bucketName, uploadPath: uploadPath}, nil
}

// Upload writes body under a unique object name and returns its public url.
func (u *GCSUploader) Upload(ctx context.Context, name, contentType string, body io.Reader) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	objectPath := objectName(u.uploadPath, uuid.NewString(), name)

	wc := u.cl.Bucket(u.bucketName).Object(objectPath).NewWriter(ctx)
	wc.ContentType = contentType
	if _, err := io.Copy(wc, body); err != nil {
		_ = wc.Close()
		return "", fmt.Errorf("io.Copy: %w", err)
	}
	if err := wc.Close(); err != nil {
		return "", fmt.Errorf("Writer.Close: %w", err)
	}

	return publicURL(u.bucketName, objectPath), nil
}

func (u *GCSUploader) Close() error {
	return u.cl.Close()
}

// objectName prefixes the base of the client file name with id so that
// uploads never overwrite each other.
func objectName(uploadPath, id, filename string) string {
	base := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	if base == "." || base == "/" || base == "" {
		base = "image"
	}
	return strings.TrimSuffix(uploadPath, "/") + "/" + id + "_" + base
}

func publicURL(bucket, objectPath string) string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bucket, objectPath)
}
