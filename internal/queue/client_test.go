package queue

import (
	"context"
	"errors"
	"testing"
)

func TestRecorderKeepsSendOrder(t *testing.T) {
	r := &Recorder{}
	for _, id := range []string{"scan-1", "scan-2"} {
		if err := r.Send(context.Background(), Message{ScanID: id}); err != nil {
			t.Fatalf("send %s: %v", id, err)
		}
	}
	sent := r.Sent()
	if len(sent) != 2 || sent[0].ScanID != "scan-1" || sent[1].ScanID != "scan-2" {
		t.Fatalf("unexpected messages: %+v", sent)
	}
}

func TestRecorderFailsWithErr(t *testing.T) {
	want := errors.New("queue down")
	r := &Recorder{Err: want}
	if err := r.Send(context.Background(), Message{ScanID: "scan-1"}); !errors.Is(err, want) {
		t.Fatalf("expected %v, got %v", want, err)
	}
	if len(r.Sent()) != 0 {
		t.Fatalf("expected nothing recorded")
	}
}

func TestRecorderHonorsCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := (&Recorder{}).Send(ctx, Message{ScanID: "scan-1"}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
