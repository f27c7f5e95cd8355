package resumes

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"findmyjob-backend/internal/extract"
	"findmyjob-backend/internal/shared/storage/object/local"
)

func newTestService(t *testing.T, maxBytes int64) *Service {
	t.Helper()
	svc := NewService(local.New(t.TempDir()), NewMemoryRepo(), maxBytes)
	svc.Now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }
	return svc
}

func TestUploadStoresTextResume(t *testing.T) {
	svc := newTestService(t, 0)
	ctx := context.Background()

	res, err := svc.Upload(ctx, "guest:abc", "resume.txt", strings.NewReader("Skills: Python, SQL"))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if res.ID == "" || res.StorageKey == "" {
		t.Fatalf("expected id and key, got %+v", res)
	}
	if res.MimeType != extract.MimeText {
		t.Fatalf("unexpected mime: %s", res.MimeType)
	}
	if res.StorageProvider != "local" {
		t.Fatalf("unexpected provider: %s", res.StorageProvider)
	}
	if res.SizeBytes != int64(len("Skills: Python, SQL")) {
		t.Fatalf("unexpected size: %d", res.SizeBytes)
	}

	got, err := svc.Get(ctx, "guest:abc", res.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	rc, err := svc.Open(ctx, got)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer rc.Close()
	body, _ := io.ReadAll(rc)
	if string(body) != "Skills: Python, SQL" {
		t.Fatalf("unexpected body: %q", body)
	}
}

func TestUploadRejectsUnsupportedType(t *testing.T) {
	svc := newTestService(t, 0)
	png := append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 32)...)

	_, err := svc.Upload(context.Background(), "guest:abc", "photo.png", bytes.NewReader(png))
	if !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("expected ErrUnsupportedType, got %v", err)
	}
}

func TestUploadRejectsOversizedFile(t *testing.T) {
	svc := newTestService(t, 8)

	_, err := svc.Upload(context.Background(), "guest:abc", "resume.txt", strings.NewReader("more than eight bytes"))
	if !errors.Is(err, ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge, got %v", err)
	}
}

func TestUploadRejectsBadFileName(t *testing.T) {
	svc := newTestService(t, 0)

	for _, name := range []string{"", "   ", "../etc/passwd"} {
		if _, err := svc.Upload(context.Background(), "guest:abc", name, strings.NewReader("x")); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("name %q: expected ErrInvalidInput, got %v", name, err)
		}
	}
}

func TestGetIsScopedToOwner(t *testing.T) {
	svc := newTestService(t, 0)
	ctx := context.Background()

	res, err := svc.Upload(ctx, "guest:abc", "resume.txt", strings.NewReader("go developer"))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if _, err := svc.Get(ctx, "guest:other", res.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for other user, got %v", err)
	}
	if _, err := svc.Get(ctx, "guest:abc", "not-a-uuid"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for malformed id, got %v", err)
	}
}
