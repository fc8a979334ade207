// Package storage hands out presigned upload URLs for blog and gallery images.
package storage

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mayurrohokale/Kindness-Corner-backend/pkg/config"
)

const uploadExpiry = 15 * time.Minute

var (
	ErrDisabled           = errors.New("uploads are not configured")
	ErrUnsupportedContent = errors.New("unsupported content type")
)

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

type Upload struct {
	Key       string    `json:"key"`
	UploadURL string    `json:"upload_url"`
	PublicURL string    `json:"public_url"`
	ExpiresAt time.Time `json:"expires_at"`
}

type Presigner interface {
	PresignPut(ctx context.Context, key, contentType string) (*Upload, error)
}

// New builds the presigner for the configured driver. An empty driver
// returns ErrDisabled.
func New(ctx context.Context, cfg *config.StorageConfig) (Presigner, error) {
	switch strings.ToLower(cfg.Driver) {
	case "":
		return nil, ErrDisabled
	case "s3":
		return NewS3Presigner(ctx, cfg)
	case "gcs":
		return NewGCSPresigner(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

// ImageKey returns images/<yyyy>/<mm>/<uuid><ext> for an allowed image type.
func ImageKey(contentType string, now time.Time) (string, error) {
	ext, ok := imageExtensions[strings.ToLower(contentType)]
	if !ok {
		return "", ErrUnsupportedContent
	}
	return fmt.Sprintf("images/%04d/%02d/%s%s", now.Year(), int(now.Month()), uuid.New(), ext), nil
}

func publicURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + path.Clean(key)
}
