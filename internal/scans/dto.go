package scans

import "time"

// ScanResponse is the outward-facing representation of a scan.
type ScanResponse struct {
	ScanID      string     `json:"scanId"`
	ResumeID    string     `json:"resumeId"`
	Status      Status     `json:"status"`
	Result      *Result    `json:"result,omitempty"`
	Error       string     `json:"error,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	StartedAt   *time.Time `json:"startedAt,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

func toResponse(scan Scan) ScanResponse {
	return ScanResponse{
		ScanID:      scan.ID,
		ResumeID:    scan.ResumeID,
		Status:      scan.Status,
		Result:      scan.Result,
		Error:       scan.ErrorMessage,
		CreatedAt:   scan.CreatedAt,
		StartedAt:   scan.StartedAt,
		CompletedAt: scan.CompletedAt,
	}
}

type matchRequest struct {
	Skills string `json:"skills"`
}
