package media

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

type fakeStorage struct {
	objects map[string]string
}

func (f *fakeStorage) EnsureBucket(_ context.Context) error {
	return nil
}

func (f *fakeStorage) PutObject(_ context.Context, key string, _ *bytes.Reader, _ int64, contentType string) error {
	if f.objects == nil {
		f.objects = make(map[string]string)
	}
	f.objects[key] = contentType
	return nil
}

func (f *fakeStorage) PresignGet(_ context.Context, key string, _ time.Duration) (string, error) {
	return "https://signed.local/" + key, nil
}

func TestArchiveBuildsDatedObjectKey(t *testing.T) {
	storage := &fakeStorage{}
	arc := NewArchiver(storage)
	arc.now = func() time.Time { return time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC) }

	key, err := arc.Archive(context.Background(), "abc123", "img-1", "image/png", []byte("payload"))
	if err != nil {
		t.Fatalf("archive: %v", err)
	}
	if key != "campaigns/20250615/abc123/img-1.png" {
		t.Fatalf("unexpected object key: %q", key)
	}
	if storage.objects[key] != "image/png" {
		t.Fatalf("content type not forwarded: %q", storage.objects[key])
	}
}

func TestArchiveRejectsEmptyInput(t *testing.T) {
	arc := NewArchiver(&fakeStorage{})

	if _, err := arc.Archive(context.Background(), "", "img-1", "image/png", []byte("x")); !errors.Is(err, ErrValidation) {
		t.Fatalf("missing hash should be ErrValidation, got %v", err)
	}
	if _, err := arc.Archive(context.Background(), "abc", "img-1", "image/png", nil); !errors.Is(err, ErrValidation) {
		t.Fatalf("empty payload should be ErrValidation, got %v", err)
	}
}

func TestReviewURLPresignsKey(t *testing.T) {
	arc := NewArchiver(&fakeStorage{})

	url, err := arc.ReviewURL(context.Background(), "campaigns/20250615/abc/img-1.jpg")
	if err != nil {
		t.Fatalf("review url: %v", err)
	}
	if !strings.HasPrefix(url, "https://signed.local/campaigns/") {
		t.Fatalf("unexpected url: %q", url)
	}
}
