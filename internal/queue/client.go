package queue

import (
	"context"
	"sync"
)

// Client hands scan messages to a worker backend.
type Client interface {
	Send(ctx context.Context, msg Message) error
}

// Recorder is an in-process Client that keeps every sent message. When Err is
// set, Send fails with it and records nothing.
type Recorder struct {
	Err error

	mu   sync.Mutex
	sent []Message
}

func (r *Recorder) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.sent = append(r.sent, msg)
	return nil
}

// Sent returns a copy of the recorded messages in send order.
func (r *Recorder) Sent() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Message(nil), r.sent...)
}

var _ Client = (*Recorder)(nil)
