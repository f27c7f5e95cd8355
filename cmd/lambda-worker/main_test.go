package main

import (
	"context"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/gin-gonic/gin"

	"findmyjob-backend/internal/bootstrap"
	"findmyjob-backend/internal/queue"
	"findmyjob-backend/internal/shared/config"
)

func TestHandlerReportsOnlyRetryableFailures(t *testing.T) {
	gin.SetMode(gin.TestMode)
	built, err := bootstrap.Build(config.Config{
		Env:             "local",
		ObjectStoreType: "local",
		LocalStoreDir:   t.TempDir(),
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	initOnce.Do(func() {})
	app = built
	defer func() { app = nil }()

	unknown, err := queue.EncodeMessage(queue.Message{ScanID: "00000000-0000-0000-0000-000000000000", Version: queue.MessageVersion})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	event := events.SQSEvent{Records: []events.SQSMessage{
		{MessageId: "bad-json", Body: "{nope"},
		{MessageId: "unknown-scan", Body: string(unknown)},
	}}

	resp, err := handler(context.Background(), event)
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	if len(resp.BatchItemFailures) != 0 {
		t.Fatalf("expected dropped messages not to be retried, got %+v", resp.BatchItemFailures)
	}
}
