package resumes

import "time"

// Resume is one uploaded resume file owned by a caller.
type Resume struct {
	ID              string
	UserID          string
	FileName        string
	MimeType        string
	SizeBytes       int64
	StorageProvider string
	StorageKey      string
	CreatedAt       time.Time
}
