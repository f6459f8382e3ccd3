package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrValidation = errors.New("validation error")

const signedURLTTL = 15 * time.Minute

// ObjectStorage is the subset of the object store the archiver needs.
type ObjectStorage interface {
	EnsureBucket(ctx context.Context) error
	PutObject(ctx context.Context, key string, body *bytes.Reader, size int64, contentType string) error
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
}

// Archiver stores submitted campaign images so reviewers can see exactly
// what was screened. Archival is best effort from the pipeline's point of
// view: a storage failure never blocks a verdict.
type Archiver struct {
	storage ObjectStorage
	now     func() time.Time
}

func NewArchiver(storage ObjectStorage) *Archiver {
	return &Archiver{
		storage: storage,
		now:     time.Now,
	}
}

// Archive uploads one image payload and returns the object key it was
// stored under.
func (a *Archiver) Archive(ctx context.Context, campaignHash, imageID, contentType string, data []byte) (string, error) {
	if campaignHash == "" || imageID == "" || len(data) == 0 {
		return "", ErrValidation
	}
	if a.storage == nil {
		return "", fmt.Errorf("object storage is not configured")
	}

	if err := a.storage.EnsureBucket(ctx); err != nil {
		return "", fmt.Errorf("ensure bucket: %w", err)
	}

	if strings.TrimSpace(contentType) == "" {
		contentType = "application/octet-stream"
	}

	key := buildObjectKey(a.now().UTC(), campaignHash, imageID, contentType)
	if err := a.storage.PutObject(ctx, key, bytes.NewReader(data), int64(len(data)), contentType); err != nil {
		return "", fmt.Errorf("put object: %w", err)
	}

	return key, nil
}

// ReviewURL presigns a short-lived link to an archived image for the
// review UI.
func (a *Archiver) ReviewURL(ctx context.Context, objectKey string) (string, error) {
	if objectKey == "" {
		return "", ErrValidation
	}
	if a.storage == nil {
		return "", fmt.Errorf("object storage is not configured")
	}

	url, err := a.storage.PresignGet(ctx, objectKey, signedURLTTL)
	if err != nil {
		return "", fmt.Errorf("presign image url: %w", err)
	}
	return url, nil
}

func buildObjectKey(now time.Time, campaignHash, imageID, contentType string) string {
	ext := ".bin"
	switch contentType {
	case "image/jpeg":
		ext = ".jpg"
	case "image/png":
		ext = ".png"
	case "image/webp":
		ext = ".webp"
	}
	return fmt.Sprintf("campaigns/%s/%s/%s%s", now.Format("20060102"), campaignHash, imageID, ext)
}
