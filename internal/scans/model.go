package scans

import (
	"time"

	"findmyjob-backend/internal/jobs"
)

type Status string

const (
	StatusQueued     Status = "queued"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// SuccessMessage is the message of every completed scan result.
const SuccessMessage = "File processed successfully!"

// Scan is one run of the pipeline over one resume.
type Scan struct {
	ID           string
	ResumeID     string
	UserID       string
	Status       Status
	Result       *Result
	ErrorMessage string
	CreatedAt    time.Time
	StartedAt    *time.Time
	CompletedAt  *time.Time
}

// Result is the body returned by the upload endpoint.
type Result struct {
	Message     string         `json:"message"`
	Filename    string         `json:"filename"`
	Skills      []string       `json:"skills"`
	MatchedJobs []string       `json:"matched_jobs"`
	NaukriJobs  []jobs.Listing `json:"naukri_jobs"`
	OtherJobs   []jobs.Listing `json:"other_jobs"`
	ScanID      string         `json:"scan_id,omitempty"`
}

// Normalized replaces nil lists with empty ones so they encode as [].
func (r Result) Normalized() Result {
	if r.Skills == nil {
		r.Skills = []string{}
	}
	if r.MatchedJobs == nil {
		r.MatchedJobs = []string{}
	}
	if r.NaukriJobs == nil {
		r.NaukriJobs = []jobs.Listing{}
	}
	if r.OtherJobs == nil {
		r.OtherJobs = []jobs.Listing{}
	}
	return r
}

// Terminal reports whether no further transitions are expected.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}
