package scans

import (
	"context"
	"time"
)

// Repo defines persistence operations for scans.
type Repo interface {
	Create(ctx context.Context, scan Scan) error
	GetByID(ctx context.Context, id string) (Scan, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]Scan, error)
	MarkProcessing(ctx context.Context, id string, startedAt time.Time) error
	Complete(ctx context.Context, id string, result Result, completedAt time.Time) error
	Fail(ctx context.Context, id string, message string, completedAt time.Time) error
}
