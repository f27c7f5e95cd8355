package scans

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPGRepoCreateQueuedScan(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	scan := Scan{
		ID:        "scan-1",
		ResumeID:  "resume-1",
		UserID:    "guest:abc",
		Status:    StatusQueued,
		CreatedAt: time.Now().UTC(),
	}

	mock.ExpectExec("INSERT INTO scans").
		WithArgs(scan.ID, scan.ResumeID, scan.UserID, "queued", nil, nil, scan.CreatedAt, nil, nil).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := (&PGRepo{DB: db}).Create(context.Background(), scan); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoCompleteStoresResultJSON(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	completed := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	result := Result{Message: SuccessMessage, Filename: "cv.pdf", Skills: []string{"go"}}
	want := `{"message":"File processed successfully!","filename":"cv.pdf","skills":["go"],"matched_jobs":[],"naukri_jobs":[],"other_jobs":[]}`

	mock.ExpectExec("UPDATE scans SET status = 'completed'").
		WithArgs(want, completed, "scan-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := (&PGRepo{DB: db}).Complete(context.Background(), "scan-1", result, completed); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoFailUnknownScan(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectExec("UPDATE scans SET status = 'failed'").
		WithArgs("boom", sqlmock.AnyArg(), "missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = (&PGRepo{DB: db}).Fail(context.Background(), "missing", "boom", time.Now().UTC())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGRepoGetByIDDecodesResult(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	created := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "resume_id", "user_id", "status", "result", "error_message", "created_at", "started_at", "completed_at"}).
		AddRow("scan-1", "resume-1", "guest:abc", "completed",
			`{"message":"File processed successfully!","filename":"cv.pdf","skills":["sql"],"matched_jobs":["Data Analyst"]}`,
			nil, created, created, created.Add(time.Second))

	mock.ExpectQuery("SELECT (.+) FROM scans WHERE id = \\$1").
		WithArgs("scan-1").
		WillReturnRows(rows)

	scan, err := (&PGRepo{DB: db}).GetByID(context.Background(), "scan-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if scan.Status != StatusCompleted || scan.Result == nil || scan.CompletedAt == nil {
		t.Fatalf("unexpected scan: %+v", scan)
	}
	if scan.Result.MatchedJobs[0] != "Data Analyst" || scan.Result.NaukriJobs == nil {
		t.Fatalf("unexpected result: %+v", scan.Result)
	}
}
