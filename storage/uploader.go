package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
)

// ErrStorageDisabled is returned by Disabled for every write.
var ErrStorageDisabled = errors.New("file storage is not configured")

type UploadResult struct {
	Key      string
	Location string
	ETag     string
}

type FileUploader interface {
	Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error)
	Delete(ctx context.Context, key string) error
	GetPublicURL(key string) string
}

var imageExtensions = map[string]string{
	"image/png":     ".png",
	"image/jpeg":    ".jpg",
	"image/gif":     ".gif",
	"image/webp":    ".webp",
	"image/svg+xml": ".svg",
}

// ImageExtension maps an accepted logo content type to its file extension.
func ImageExtension(contentType string) (string, bool) {
	ext, ok := imageExtensions[contentType]
	return ext, ok
}

// LogoKey builds a unique object key such as "logos/teams/12/<uuid>.png".
func LogoKey(kind string, id int, ext string) string {
	return fmt.Sprintf("logos/%s/%d/%s%s", kind, id, uuid.NewString(), ext)
}

// Disabled stands in when no object storage is configured.
type Disabled struct{}

func (Disabled) Upload(context.Context, string, string, io.Reader) (*UploadResult, error) {
	return nil, ErrStorageDisabled
}

func (Disabled) Delete(context.Context, string) error { return ErrStorageDisabled }

func (Disabled) GetPublicURL(string) string { return "" }
