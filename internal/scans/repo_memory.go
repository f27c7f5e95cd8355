package scans

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu    sync.RWMutex
	scans map[string]Scan
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{scans: make(map[string]Scan)}
}

func (r *MemoryRepo) Create(ctx context.Context, scan Scan) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scans[scan.ID] = cloneScan(scan)
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Scan, error) {
	if err := ctx.Err(); err != nil {
		return Scan{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	scan, ok := r.scans[id]
	if !ok {
		return Scan{}, ErrNotFound
	}
	return cloneScan(scan), nil
}

// ListByUser returns scans for a user, newest first, honoring limit/offset.
func (r *MemoryRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Scan, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	list := make([]Scan, 0)
	for _, scan := range r.scans {
		if scan.UserID == userID {
			list = append(list, cloneScan(scan))
		}
	}
	r.mu.RUnlock()

	sort.SliceStable(list, func(i, j int) bool {
		if list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].ID > list[j].ID
		}
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	if offset < 0 {
		offset = 0
	}
	if offset >= len(list) {
		return []Scan{}, nil
	}
	end := len(list)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return list[offset:end], nil
}

func (r *MemoryRepo) MarkProcessing(ctx context.Context, id string, startedAt time.Time) error {
	return r.update(ctx, id, func(s *Scan) {
		s.Status = StatusProcessing
		s.StartedAt = &startedAt
		s.CompletedAt = nil
		s.ErrorMessage = ""
	})
}

func (r *MemoryRepo) Complete(ctx context.Context, id string, result Result, completedAt time.Time) error {
	return r.update(ctx, id, func(s *Scan) {
		s.Status = StatusCompleted
		s.Result = &result
		s.CompletedAt = &completedAt
		s.ErrorMessage = ""
	})
}

func (r *MemoryRepo) Fail(ctx context.Context, id string, message string, completedAt time.Time) error {
	return r.update(ctx, id, func(s *Scan) {
		s.Status = StatusFailed
		s.ErrorMessage = message
		s.CompletedAt = &completedAt
	})
}

func (r *MemoryRepo) update(ctx context.Context, id string, fn func(*Scan)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	scan, ok := r.scans[id]
	if !ok {
		return ErrNotFound
	}
	fn(&scan)
	r.scans[id] = cloneScan(scan)
	return nil
}

func cloneScan(s Scan) Scan {
	if s.Result != nil {
		res := *s.Result
		s.Result = &res
	}
	if s.StartedAt != nil {
		t := *s.StartedAt
		s.StartedAt = &t
	}
	if s.CompletedAt != nil {
		t := *s.CompletedAt
		s.CompletedAt = &t
	}
	return s
}

var _ Repo = (*MemoryRepo)(nil)
