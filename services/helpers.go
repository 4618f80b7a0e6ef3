package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/storage"
)

func logoURL(key *string, uploader storage.FileUploader) *string {
	if key == nil || *key == "" || uploader == nil {
		return nil
	}
	url := uploader.GetPublicURL(*key)
	if url == "" {
		return nil
	}
	return &url
}

// replaceLogo uploads a new logo for kind/id, stores its key through save and
// removes the previous object. It returns the new key.
func replaceLogo(
	ctx context.Context,
	uploader storage.FileUploader,
	logger *slog.Logger,
	kind string,
	id int,
	previous *string,
	contentType string,
	file io.Reader,
	save func(key *string) error,
) (string, error) {
	ext, ok := storage.ImageExtension(contentType)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedImage, contentType)
	}

	key := storage.LogoKey(kind, id, ext)
	if _, err := uploader.Upload(ctx, key, contentType, file); err != nil {
		if errors.Is(err, storage.ErrStorageDisabled) {
			return "", ErrStorageUnavailable
		}
		return "", fmt.Errorf("failed to upload %s logo: %w", kind, err)
	}

	if err := save(&key); err != nil {
		if delErr := uploader.Delete(context.Background(), key); delErr != nil {
			logger.Warn("failed to delete orphaned logo", slog.String("key", key), slog.Any("error", delErr))
		}
		return "", err
	}

	if previous != nil && *previous != "" && *previous != key {
		if err := uploader.Delete(ctx, *previous); err != nil {
			logger.Warn("failed to delete previous logo", slog.String("key", *previous), slog.Any("error", err))
		}
	}
	return key, nil
}

func parseDate(field, value string) (time.Time, error) {
	t, err := time.Parse(models.DateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s must be a date in YYYY-MM-DD format", ErrValidationFailed, field)
	}
	return t, nil
}

func containsInt(list []int, v int) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

func uniqueInts(list []int) []int {
	seen := make(map[int]bool, len(list))
	out := make([]int, 0, len(list))
	for _, v := range list {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
