package local

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"findmyjob-backend/internal/shared/storage/object"
)

func TestSaveOpenRoundTrip(t *testing.T) {
	store := New(t.TempDir())
	ctx := context.Background()

	obj, err := store.Save(ctx, "guest:abc", "my resume.txt", strings.NewReader("Python and SQL"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if obj.Size != int64(len("Python and SQL")) {
		t.Fatalf("unexpected size %d", obj.Size)
	}
	if !strings.HasPrefix(obj.MimeType, "text/plain") {
		t.Fatalf("unexpected mime %q", obj.MimeType)
	}
	if !strings.HasSuffix(obj.Key, "_my resume.txt") {
		t.Fatalf("unexpected key %q", obj.Key)
	}

	rc, err := store.Open(ctx, obj.Key)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer rc.Close()
	body, _ := io.ReadAll(rc)
	if string(body) != "Python and SQL" {
		t.Fatalf("unexpected body %q", body)
	}
}

func TestPutAndDelete(t *testing.T) {
	store := New(t.TempDir())
	ctx := context.Background()

	key := object.DerivedKey("owner/file.pdf", "extracted.txt")
	if _, err := store.Put(ctx, key, "text/plain", strings.NewReader("text")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := store.Delete(ctx, key); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := store.Delete(ctx, key); err != nil {
		t.Fatalf("Delete missing should succeed: %v", err)
	}
	if _, err := store.Open(ctx, key); err == nil {
		t.Fatalf("expected open of deleted key to fail")
	}
}

func TestRejectsTraversal(t *testing.T) {
	store := New(t.TempDir())
	if _, err := store.Open(context.Background(), "../secret"); !errors.Is(err, object.ErrInvalidKey) {
		t.Fatalf("expected ErrInvalidKey, got %v", err)
	}
	if _, err := store.Save(context.Background(), "u", "../x.pdf", strings.NewReader("x")); err == nil {
		t.Fatalf("expected invalid file name error")
	}
}
