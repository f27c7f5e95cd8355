package resumes

import "time"

// ResumeResponse is the outward-facing representation of a resume.
type ResumeResponse struct {
	ResumeID   string    `json:"resumeId"`
	FileName   string    `json:"fileName"`
	MimeType   string    `json:"mimeType"`
	SizeBytes  int64     `json:"sizeBytes"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// ToResponse maps a Resume onto its API shape.
func ToResponse(res Resume) ResumeResponse {
	return ResumeResponse{
		ResumeID:   res.ID,
		FileName:   res.FileName,
		MimeType:   res.MimeType,
		SizeBytes:  res.SizeBytes,
		UploadedAt: res.CreatedAt,
	}
}
