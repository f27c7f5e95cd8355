package resumes

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"findmyjob-backend/internal/extract"
	"findmyjob-backend/internal/shared/storage/object"
	"findmyjob-backend/internal/shared/telemetry"
	"findmyjob-backend/internal/shared/util"
)

// DefaultMaxBytes caps an upload when the service is built without a limit.
const DefaultMaxBytes = 10 << 20

// Service contains business logic for resumes.
type Service struct {
	Store    object.Store
	Repo     Repo
	MaxBytes int64
	Now      func() time.Time
}

// NewService constructs a Service.
func NewService(store object.Store, repo Repo, maxBytes int64) *Service {
	return &Service{Store: store, Repo: repo, MaxBytes: maxBytes}
}

// Upload validates the file, saves it to object storage and records the resume.
func (s *Service) Upload(ctx context.Context, userID, fileName string, r io.Reader) (Resume, error) {
	name, err := util.SanitizeFileName(fileName)
	if err != nil {
		return Resume{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if r == nil {
		return Resume{}, fmt.Errorf("%w: file is required", ErrInvalidInput)
	}

	limit := s.maxBytes()
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return Resume{}, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > limit {
		return Resume{}, ErrTooLarge
	}

	mimeType := extract.NormalizeMimeType(http.DetectContentType(data), name, data)
	if !extract.Supported(mimeType, name, data) {
		return Resume{}, fmt.Errorf("%w: %s", ErrUnsupportedType, mimeType)
	}

	obj, err := s.Store.Save(ctx, userID, name, bytes.NewReader(data))
	if err != nil {
		return Resume{}, fmt.Errorf("save upload: %w", err)
	}

	res := Resume{
		ID:              uuid.NewString(),
		UserID:          userID,
		FileName:        fileName,
		MimeType:        mimeType,
		SizeBytes:       obj.Size,
		StorageProvider: s.Store.Provider(),
		StorageKey:      obj.Key,
		CreatedAt:       s.now(),
	}
	if err := s.Repo.Create(ctx, res); err != nil {
		if delErr := s.Store.Delete(ctx, obj.Key); delErr != nil {
			telemetry.Warn("resume.cleanup_failed", map[string]any{
				"storage_key": obj.Key,
				"error":       delErr,
			})
		}
		return Resume{}, fmt.Errorf("create resume: %w", err)
	}

	telemetry.Info("resume.uploaded", map[string]any{
		"resume_id":  res.ID,
		"user_id":    userID,
		"mime_type":  mimeType,
		"size_bytes": res.SizeBytes,
		"provider":   res.StorageProvider,
	})
	return res, nil
}

// Get returns one resume owned by userID.
func (s *Service) Get(ctx context.Context, userID, id string) (Resume, error) {
	id = strings.TrimSpace(id)
	if userID == "" || id == "" {
		return Resume{}, ErrInvalidInput
	}
	if _, err := uuid.Parse(id); err != nil {
		return Resume{}, ErrNotFound
	}
	return s.Repo.GetByID(ctx, userID, id)
}

// List returns the caller's resumes, newest first.
func (s *Service) List(ctx context.Context, userID string, limit, offset int) ([]Resume, error) {
	if userID == "" {
		return nil, ErrInvalidInput
	}
	return s.Repo.ListByUser(ctx, userID, limit, offset)
}

// Open streams the stored bytes of a resume.
func (s *Service) Open(ctx context.Context, res Resume) (io.ReadCloser, error) {
	if res.StorageKey == "" {
		return nil, ErrInvalidInput
	}
	rc, err := s.Store.Open(ctx, res.StorageKey)
	if err != nil {
		if errors.Is(err, object.ErrInvalidKey) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("open resume %s: %w", res.ID, err)
	}
	return rc, nil
}

func (s *Service) maxBytes() int64 {
	if s.MaxBytes > 0 {
		return s.MaxBytes
	}
	return DefaultMaxBytes
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}
