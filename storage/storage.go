// Package storage keeps issue photos on local disk or in a MinIO bucket.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// PhotoStore persists a photo and returns the URL clients fetch it from.
type PhotoStore interface {
	Put(ctx context.Context, name string, r io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, name string) error
}

const MaxPhotoBytes = 5 << 20

var (
	ErrNotImage      = errors.New("photo must be a jpeg, png, gif or webp image")
	ErrPhotoTooLarge = errors.New("photo must be 5MB or smaller")
)

var imageTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
}

// Upload is a photo that has been received but not yet stored.
type Upload struct {
	store       PhotoStore
	header      *multipart.FileHeader
	ext         string
	contentType string
	name        string
}

// NewUpload checks the file looks like an image before anything is written.
func NewUpload(store PhotoStore, header *multipart.FileHeader) (*Upload, error) {
	ext := strings.ToLower(filepath.Ext(header.Filename))
	contentType, ok := imageTypes[ext]
	if !ok {
		return nil, ErrNotImage
	}
	if declared := header.Header.Get("Content-Type"); declared != "" && !strings.HasPrefix(declared, "image/") {
		return nil, ErrNotImage
	}
	if header.Size > MaxPhotoBytes {
		return nil, ErrPhotoTooLarge
	}
	return &Upload{store: store, header: header, ext: ext, contentType: contentType}, nil
}

// Store writes the photo under a random name and returns its URL.
func (u *Upload) Store(ctx context.Context) (string, error) {
	f, err := u.header.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	name := uuid.NewString() + u.ext
	url, err := u.store.Put(ctx, name, f, u.header.Size, u.contentType)
	if err != nil {
		return "", err
	}
	u.name = name
	return url, nil
}

// Discard removes a stored photo whose issue could not be saved.
func (u *Upload) Discard(ctx context.Context) error {
	if u.name == "" {
		return nil
	}
	if err := u.store.Delete(ctx, u.name); err != nil {
		return err
	}
	u.name = ""
	return nil
}
