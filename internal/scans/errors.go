package scans

import "errors"

var (
	ErrNotFound          = errors.New("scan not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrQueueUnavailable  = errors.New("scan queue unavailable")
	ErrResumeUnavailable = errors.New("resume unavailable")
)
