package services

import (
	"context"
	"fmt"
	"io"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/jhzhou002/blog-yk/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Uploader stores images (cover images, avatars) in an S3 bucket and hands
// back the public URL. The rest of the system only ever sees the URL string.
type Uploader struct {
	uploader  *manager.Uploader
	bucket    string
	publicURL string
	logger    zerolog.Logger
}

// NewUploader builds an Uploader from the environment:
//   - S3_BUCKET: bucket name (required)
//   - S3_PUBLIC_URL: base URL images are served from; defaults to the
//     virtual-hosted bucket URL
//   - standard AWS_* variables for credentials and region
func NewUploader(ctx context.Context) (*Uploader, error) {
	cfg := config.New()

	bucket := config.GetString(cfg, "S3_BUCKET", "")
	if bucket == "" {
		return nil, fmt.Errorf("S3_BUCKET environment variable is required")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	client := s3.NewFromConfig(awsCfg)

	publicURL := config.GetString(cfg, "S3_PUBLIC_URL", "")
	if publicURL == "" {
		publicURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucket, awsCfg.Region)
	}

	return &Uploader{
		uploader:  manager.NewUploader(client),
		bucket:    bucket,
		publicURL: strings.TrimSuffix(publicURL, "/"),
		logger:    log.With().Str("service", "uploader").Logger(),
	}, nil
}

// UploadImage streams an image to the bucket under a random hex name inside
// folder (e.g. "covers", "avatars") and returns the public URL.
func (u *Uploader) UploadImage(ctx context.Context, folder, ext string, body io.Reader, contentType string) (string, error) {
	if ext == "" {
		ext = "jpg"
	}
	key := fmt.Sprintf("blog-yk/%s/%s.%s", folder, strings.ReplaceAll(uuid.New().String(), "-", ""), ext)

	_, err := u.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      &u.bucket,
		Key:         &key,
		Body:        body,
		ContentType: &contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}

	url := u.publicURL + "/" + key
	u.logger.Info().Str("key", key).Str("url", url).Msg("Uploaded image")
	return url, nil
}
