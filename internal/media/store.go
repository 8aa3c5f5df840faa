package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/angelmondragon/showroom-backend/pkg/storage/gcs"
)

// ImageStore is the blob storage surface the reconciler drives.
type ImageStore interface {
	// Upload stores img under folder and returns its public URL.
	Upload(ctx context.Context, folder string, img *InlineImage) (string, error)
	// Delete removes the image behind a public URL. Missing objects are not an error.
	Delete(ctx context.Context, url string) error
}

// GCSImageStore stores images as <folder>/<uuid><ext> objects in one bucket.
type GCSImageStore struct {
	client *gcs.Client
}

func NewGCSImageStore(client *gcs.Client) (*GCSImageStore, error) {
	if client == nil {
		return nil, errors.New("gcs client is required")
	}
	return &GCSImageStore{client: client}, nil
}

func (s *GCSImageStore) Upload(ctx context.Context, folder string, img *InlineImage) (string, error) {
	if img == nil {
		return "", errors.New("image is required")
	}
	return s.client.Upload(ctx, ObjectName(folder, img.Extension), img.ContentType, bytes.NewReader(img.Data))
}

func (s *GCSImageStore) Delete(ctx context.Context, url string) error {
	name, ok := s.client.ObjectName(url)
	if !ok {
		// not one of ours; nothing to remove
		return nil
	}
	if err := s.client.Delete(ctx, name); err != nil {
		if errors.Is(err, gcs.ErrObjectNotFound) {
			return nil
		}
		return fmt.Errorf("delete image %s: %w", name, err)
	}
	return nil
}

// ObjectName builds a collision-free object path under folder.
func ObjectName(folder, ext string) string {
	if ext == "" {
		ext = ".png"
	}
	return path.Join(strings.Trim(folder, "/"), uuid.NewString()+ext)
}
