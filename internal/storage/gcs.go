package storage

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"cloud.google.com/go/storage"
	"github.com/mayurrohokale/Kindness-Corner-backend/pkg/config"
	"google.golang.org/api/option"
)

// GCSPresigner signs V4 PUT URLs for a Google Cloud Storage bucket. Signing
// uses the service account from STORAGE_CREDENTIALS_FILE or the ambient
// application default credentials.
type GCSPresigner struct {
	bucket     *storage.BucketHandle
	publicBase string
	now        func() time.Time
}

func NewGCSPresigner(ctx context.Context, cfg *config.StorageConfig) (*GCSPresigner, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.Endpoint))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating gcs client: %w", err)
	}

	base := cfg.PublicURL
	if base == "" {
		base = "https://storage.googleapis.com/" + cfg.Bucket
	}

	return &GCSPresigner{
		bucket:     client.Bucket(cfg.Bucket),
		publicBase: base,
		now:        time.Now,
	}, nil
}

func (p *GCSPresigner) PresignPut(_ context.Context, key, contentType string) (*Upload, error) {
	expires := p.now().Add(uploadExpiry)
	url, err := p.bucket.SignedURL(key, &storage.SignedURLOptions{
		Scheme:      storage.SigningSchemeV4,
		Method:      http.MethodPut,
		ContentType: contentType,
		Expires:     expires,
	})
	if err != nil {
		return nil, fmt.Errorf("signing upload url: %w", err)
	}

	return &Upload{
		Key:       key,
		UploadURL: url,
		PublicURL: publicURL(p.publicBase, key),
		ExpiresAt: expires,
	}, nil
}
