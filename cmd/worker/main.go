package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqstypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"

	"findmyjob-backend/internal/bootstrap"
	"findmyjob-backend/internal/scans"
	"findmyjob-backend/internal/shared/config"
	"findmyjob-backend/internal/shared/metrics"
	"findmyjob-backend/internal/shared/telemetry"
	"findmyjob-backend/internal/workerproc"
)

const (
	defaultRegion            = "us-east-1"
	defaultVisibilitySeconds = 300
	defaultWorkerConcurrency = 4
)

func main() {
	cfg := config.Load()
	telemetry.SetLevel(cfg.LogLevel)
	defer telemetry.Sync()

	if cfg.QueueURL == "" {
		telemetry.Error("worker.config_invalid", map[string]any{"error": "RA_SQS_QUEUE_URL is required"})
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	visibilitySeconds := envInt("RA_SQS_VISIBILITY_TIMEOUT_SECONDS", defaultVisibilitySeconds)
	concurrency := envInt("RA_WORKER_CONCURRENCY", defaultWorkerConcurrency)

	region := cfg.AWSRegion
	if region == "" {
		region = defaultRegion
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		telemetry.Error("worker.aws_config_failed", map[string]any{"error": err})
		os.Exit(1)
	}
	var sqsClient sqsAPI = sqs.NewFromConfig(awsCfg)

	app, err := bootstrap.Build(cfg)
	if err != nil {
		telemetry.Error("worker.bootstrap_failed", map[string]any{"error": err})
		os.Exit(1)
	}
	defer app.Close()

	sem := make(chan struct{}, max(1, concurrency))
	var wg sync.WaitGroup

	telemetry.Info("worker.started", map[string]any{
		"queue_url":          cfg.QueueURL,
		"concurrency":        concurrency,
		"visibility_seconds": visibilitySeconds,
	})

pollLoop:
	for {
		select {
		case <-ctx.Done():
			break pollLoop
		default:
		}

		resp, err := sqsClient.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
			QueueUrl:            aws.String(cfg.QueueURL),
			MaxNumberOfMessages: 10,
			WaitTimeSeconds:     20,
			VisibilityTimeout:   int32(visibilitySeconds),
			AttributeNames:      []sqstypes.QueueAttributeName{sqstypes.QueueAttributeName("ApproximateReceiveCount")},
		})
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
				break pollLoop
			}
			telemetry.Warn("worker.receive_failed", map[string]any{"error": err})
			continue
		}

		for _, msg := range resp.Messages {
			select {
			case <-ctx.Done():
				break pollLoop
			case sem <- struct{}{}:
			}
			metrics.IncWorkerReceived()
			wg.Add(1)
			go func(m sqstypes.Message) {
				defer wg.Done()
				defer func() { <-sem }()
				// In-flight scans finish even after a shutdown signal.
				handleMessage(context.WithoutCancel(ctx), sqsClient, cfg.QueueURL, app.ScansService, m)
			}(msg)
		}
	}

	telemetry.Info("worker.draining", map[string]any{"timeout": cfg.ShutdownTimeout.String()})
	waitDone := make(chan struct{})
	go func() {
		wg.Wait()
		close(waitDone)
	}()
	select {
	case <-waitDone:
	case <-time.After(cfg.ShutdownTimeout):
		telemetry.Warn("worker.drain_timeout", nil)
	}
}

type sqsAPI interface {
	ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error)
	DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error)
}

func handleMessage(ctx context.Context, client sqsAPI, queueURL string, p workerproc.Processor, msg sqstypes.Message) {
	body := aws.ToString(msg.Body)

	decoded, meta, err := workerproc.ParseMessage(body)
	if err != nil {
		fields := baseFields(msg, decoded.ScanID, decoded.RequestID)
		fields["body_len"] = meta.BodyLen
		if meta.BodySHA != "" {
			fields["body_sha256"] = meta.BodySHA
		}
		fields["error"] = err
		telemetry.Error(parseFailureEvent(err), fields)
		if deleteMessage(ctx, client, queueURL, msg, decoded.ScanID, decoded.RequestID) {
			metrics.IncWorkerUnrecoverable()
		}
		return
	}

	telemetry.Info("worker.scan.received", baseFields(msg, decoded.ScanID, decoded.RequestID))

	if err := workerproc.HandleMessage(workerproc.WithParsedMessage(ctx, decoded), p, body); err != nil {
		fields := baseFields(msg, decoded.ScanID, decoded.RequestID)
		fields["error"] = err
		if errors.Is(err, scans.ErrNotFound) {
			telemetry.Error("worker.scan.unknown", fields)
			if deleteMessage(ctx, client, queueURL, msg, decoded.ScanID, decoded.RequestID) {
				metrics.IncWorkerUnrecoverable()
			}
			return
		}
		telemetry.Error("worker.scan.failed", fields)
		metrics.IncWorkerFailed()
		return
	}

	if deleteMessage(ctx, client, queueURL, msg, decoded.ScanID, decoded.RequestID) {
		telemetry.Info("worker.scan.completed", baseFields(msg, decoded.ScanID, decoded.RequestID))
		metrics.IncWorkerCompleted()
	}
}

func parseFailureEvent(err error) string {
	var (
		empty   workerproc.ErrEmptyBody
		missing workerproc.ErrMissingScanID
	)
	switch {
	case errors.As(err, &empty):
		return "worker.scan.empty_body"
	case errors.As(err, &missing):
		return "worker.scan.missing_id"
	default:
		return "worker.scan.decode_failed"
	}
}

func deleteMessage(ctx context.Context, client sqsAPI, queueURL string, msg sqstypes.Message, scanID, requestID string) bool {
	receipt := aws.ToString(msg.ReceiptHandle)
	if receipt == "" {
		fields := baseFields(msg, scanID, requestID)
		fields["error"] = "missing receipt handle"
		telemetry.Error("worker.scan.delete_failed", fields)
		return false
	}
	if _, err := client.DeleteMessage(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      aws.String(queueURL),
		ReceiptHandle: aws.String(receipt),
	}); err != nil {
		fields := baseFields(msg, scanID, requestID)
		fields["error"] = err
		telemetry.Error("worker.scan.delete_failed", fields)
		return false
	}
	return true
}

func baseFields(msg sqstypes.Message, scanID, requestID string) map[string]any {
	fields := map[string]any{
		"scan_id":        scanID,
		"sqs_message_id": aws.ToString(msg.MessageId),
		"receive_count":  receiveCount(msg),
	}
	if strings.TrimSpace(requestID) != "" {
		fields["request_id"] = requestID
	}
	return fields
}

func receiveCount(msg sqstypes.Message) int {
	raw := msg.Attributes["ApproximateReceiveCount"]
	if raw == "" {
		return 0
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return parsed
}

func envInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return val
}
