package push

import (
	"context"
	"sync"
)

// NoOpPublisher is a publisher that does nothing.
type NoOpPublisher struct{}

// Publish does nothing.
func (p *NoOpPublisher) Publish(ctx context.Context, userID int64, message Message) error {
	return nil
}

// CapturePublisher records published messages for tests.
type CapturePublisher struct {
	mu       sync.Mutex
	Messages []Message
	Err      error
}

// Publish records the message.
func (p *CapturePublisher) Publish(ctx context.Context, userID int64, message Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return p.Err
	}
	p.Messages = append(p.Messages, message)
	return nil
}

// Published returns a copy of the captured messages.
func (p *CapturePublisher) Published() []Message {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Message, len(p.Messages))
	copy(out, p.Messages)
	return out
}
