package scans

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"findmyjob-backend/internal/extract"
	"findmyjob-backend/internal/jobs"
	"findmyjob-backend/internal/jobs/naukri"
	"findmyjob-backend/internal/matching"
	"findmyjob-backend/internal/queue"
	"findmyjob-backend/internal/resumes"
	"findmyjob-backend/internal/shared/metrics"
	"findmyjob-backend/internal/shared/server/middleware"
	"findmyjob-backend/internal/shared/telemetry"
	"findmyjob-backend/internal/skills"
)

// Service runs the scan pipeline: upload, extract, skills, match, search.
type Service struct {
	Resumes  *resumes.Service
	Repo     Repo
	Skills   *skills.Extractor
	Matcher  *matching.Matcher
	Searcher *jobs.Searcher
	Queue    queue.Client
	Now      func() time.Time

	wg sync.WaitGroup
}

// Run uploads the file and scans it synchronously.
func (s *Service) Run(ctx context.Context, userID, fileName string, r io.Reader) (Scan, error) {
	res, err := s.Resumes.Upload(ctx, userID, fileName, r)
	if err != nil {
		return Scan{}, err
	}

	startedAt := s.now()
	scan := Scan{
		ID:        uuid.NewString(),
		ResumeID:  res.ID,
		UserID:    userID,
		Status:    StatusProcessing,
		CreatedAt: startedAt,
		StartedAt: &startedAt,
	}
	if err := s.Repo.Create(ctx, scan); err != nil {
		return Scan{}, fmt.Errorf("create scan: %w", err)
	}
	metrics.IncScanStarted()
	s.logStatus(ctx, scan, "->processing", nil)

	return s.execute(ctx, scan, res)
}

// Start queues a scan of an already uploaded resume. Without a queue the scan
// runs in a background goroutine detached from ctx.
func (s *Service) Start(ctx context.Context, userID, resumeID string) (Scan, error) {
	res, err := s.Resumes.Get(ctx, userID, resumeID)
	if err != nil {
		return Scan{}, err
	}

	scan := Scan{
		ID:        uuid.NewString(),
		ResumeID:  res.ID,
		UserID:    userID,
		Status:    StatusQueued,
		CreatedAt: s.now(),
	}
	if err := s.Repo.Create(ctx, scan); err != nil {
		return Scan{}, fmt.Errorf("create scan: %w", err)
	}
	s.logStatus(ctx, scan, "->queued", nil)

	if s.Queue == nil {
		bg := context.WithoutCancel(ctx)
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			if err := s.Process(bg, scan.ID); err != nil {
				telemetry.Error("scan.background_failed", map[string]any{
					"request_id": middleware.RequestIDFrom(bg),
					"scan_id":    scan.ID,
					"error":      err,
				})
			}
		}()
		return scan, nil
	}

	msg := queue.Message{
		ScanID:     scan.ID,
		RequestID:  middleware.RequestIDFrom(ctx),
		EnqueuedAt: s.now().Format(time.RFC3339),
		Version:    queue.MessageVersion,
	}
	if err := s.Queue.Send(ctx, msg); err != nil {
		s.fail(ctx, scan, fmt.Errorf("enqueue: %w", err))
		return Scan{}, fmt.Errorf("%w: %v", ErrQueueUnavailable, err)
	}
	return scan, nil
}

// Process runs a queued scan. Completed scans are left untouched so redelivered
// messages are harmless; failed scans are retried.
func (s *Service) Process(ctx context.Context, scanID string) (err error) {
	scan, err := s.Repo.GetByID(ctx, scanID)
	if err != nil {
		return fmt.Errorf("load scan %s: %w", scanID, err)
	}
	if scan.Status == StatusCompleted {
		telemetry.Info("scan.already_completed", map[string]any{
			"request_id": middleware.RequestIDFrom(ctx),
			"scan_id":    scan.ID,
		})
		return nil
	}

	defer func() {
		if rec := recover(); rec != nil {
			metrics.IncPanics()
			err = fmt.Errorf("scan %s panicked: %v", scanID, rec)
			s.fail(ctx, scan, err)
		}
	}()

	from := scan.Status
	startedAt := s.now()
	if err := s.Repo.MarkProcessing(ctx, scan.ID, startedAt); err != nil {
		return fmt.Errorf("mark processing %s: %w", scan.ID, err)
	}
	scan.Status = StatusProcessing
	scan.StartedAt = &startedAt
	scan.CompletedAt = nil
	metrics.IncScanStarted()
	s.logStatus(ctx, scan, string(from)+"->processing", nil)

	res, err := s.Resumes.Get(ctx, scan.UserID, scan.ResumeID)
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrResumeUnavailable, err)
		s.fail(ctx, scan, err)
		if errors.Is(err, resumes.ErrNotFound) {
			return nil
		}
		return err
	}

	_, err = s.execute(ctx, scan, res)
	return err
}

// Get returns one of the caller's scans.
func (s *Service) Get(ctx context.Context, userID, id string) (Scan, error) {
	id = strings.TrimSpace(id)
	if userID == "" || id == "" {
		return Scan{}, ErrInvalidInput
	}
	if _, err := uuid.Parse(id); err != nil {
		return Scan{}, ErrNotFound
	}
	scan, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return Scan{}, err
	}
	if scan.UserID != userID {
		return Scan{}, ErrNotFound
	}
	return scan, nil
}

// List returns the caller's scans, newest first.
func (s *Service) List(ctx context.Context, userID string, limit, offset int) ([]Scan, error) {
	if userID == "" {
		return nil, ErrInvalidInput
	}
	return s.Repo.ListByUser(ctx, userID, limit, offset)
}

// Suggest ranks job titles for a free-form skill list such as "python, sql".
func (s *Service) Suggest(input string) []matching.Score {
	list := matching.PreprocessSkills(input)
	if len(list) == 0 {
		return []matching.Score{}
	}
	return s.Matcher.Rank(list)
}

// SearchJobs queries every job board for q.
func (s *Service) SearchJobs(ctx context.Context, q jobs.Query) jobs.Results {
	if s.Searcher == nil {
		return jobs.Results{}
	}
	return s.Searcher.Search(ctx, q)
}

// Wait blocks until background scans started by Start have finished.
func (s *Service) Wait() {
	s.wg.Wait()
}

func (s *Service) execute(ctx context.Context, scan Scan, res resumes.Resume) (Scan, error) {
	result, err := s.analyze(ctx, scan.ID, res)
	if err != nil {
		return s.fail(ctx, scan, err), err
	}

	completedAt := s.now()
	if err := s.Repo.Complete(ctx, scan.ID, result, completedAt); err != nil {
		err = fmt.Errorf("store scan result: %w", err)
		return s.fail(ctx, scan, err), err
	}
	scan.Status = StatusCompleted
	scan.Result = &result
	scan.CompletedAt = &completedAt

	metrics.IncScanCompleted()
	metrics.ObserveScanDurationMs(durationMs(scan.StartedAt, &completedAt))
	s.logStatus(ctx, scan, "processing->completed", map[string]any{
		"skills":       len(result.Skills),
		"matched_jobs": len(result.MatchedJobs),
		"naukri_jobs":  len(result.NaukriJobs),
		"other_jobs":   len(result.OtherJobs),
		"duration_ms":  durationMs(scan.StartedAt, &completedAt),
	})
	return scan, nil
}

func (s *Service) analyze(ctx context.Context, scanID string, res resumes.Resume) (Result, error) {
	text, err := extract.ExtractText(ctx, s.Resumes.Store, res.StorageKey, res.MimeType, res.FileName)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Result{}, ctxErr
		}
		telemetry.Warn("scan.extract_failed", map[string]any{
			"request_id": middleware.RequestIDFrom(ctx),
			"scan_id":    scanID,
			"resume_id":  res.ID,
			"mime_type":  res.MimeType,
			"error":      err,
		})
		text = ""
	}

	var found []string
	if s.Skills != nil {
		found = s.Skills.Extract(text)
	} else {
		found = skills.Extract(text)
	}
	matched := s.Matcher.Suggest(found)
	naukriJobs, otherJobs := s.searchTop(ctx, matched)

	return Result{
		Message:     SuccessMessage,
		Filename:    res.FileName,
		Skills:      found,
		MatchedJobs: matched,
		NaukriJobs:  naukriJobs,
		OtherJobs:   otherJobs,
		ScanID:      scanID,
	}.Normalized(), nil
}

// searchTop searches the job boards for the best matched title.
func (s *Service) searchTop(ctx context.Context, matched []string) ([]jobs.Listing, []jobs.Listing) {
	if s.Searcher == nil || len(matched) == 0 {
		return nil, nil
	}
	results := s.Searcher.Search(ctx, jobs.Query{Keyword: matched[0], Experience: -1})

	var other []jobs.Listing
	for _, name := range s.Searcher.Providers() {
		if name == naukri.ProviderName {
			continue
		}
		other = append(other, results[name]...)
	}
	return results[naukri.ProviderName], other
}

func (s *Service) fail(ctx context.Context, scan Scan, cause error) Scan {
	msg := sanitizeError(cause)
	completedAt := s.now()
	if err := s.Repo.Fail(context.WithoutCancel(ctx), scan.ID, msg, completedAt); err != nil {
		telemetry.Error("scan.fail_update_failed", map[string]any{
			"request_id": middleware.RequestIDFrom(ctx),
			"scan_id":    scan.ID,
			"error":      err,
			"cause":      msg,
		})
	}
	from := scan.Status
	scan.Status = StatusFailed
	scan.ErrorMessage = msg
	scan.CompletedAt = &completedAt

	metrics.IncScanFailed()
	if scan.StartedAt != nil {
		metrics.ObserveScanDurationMs(durationMs(scan.StartedAt, &completedAt))
	}
	s.logStatus(ctx, scan, string(from)+"->failed", map[string]any{
		"error":       msg,
		"duration_ms": durationMs(scan.StartedAt, &completedAt),
	})
	return scan
}

func (s *Service) logStatus(ctx context.Context, scan Scan, transition string, extra map[string]any) {
	fields := map[string]any{
		"request_id":        middleware.RequestIDFrom(ctx),
		"user_id":           scan.UserID,
		"resume_id":         scan.ResumeID,
		"scan_id":           scan.ID,
		"status":            string(scan.Status),
		"status_transition": transition,
	}
	for k, v := range extra {
		fields[k] = v
	}
	telemetry.Info("scan.status", fields)
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func durationMs(startedAt, completedAt *time.Time) float64 {
	if startedAt == nil || completedAt == nil {
		return 0
	}
	return float64(completedAt.Sub(*startedAt).Microseconds()) / 1000.0
}

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	msg := strings.ReplaceAll(err.Error(), "\n", " ")
	msg = strings.ReplaceAll(msg, "\r", " ")
	msg = strings.TrimSpace(msg)
	const maxLen = 500
	if len(msg) > maxLen {
		msg = msg[:maxLen]
	}
	return msg
}
