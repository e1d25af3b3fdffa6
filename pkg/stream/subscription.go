package stream

import (
	"context"
	"sync"
)

// Subscription is the handle for one open stream subscription. Close releases
// the underlying poller; it is safe to call multiple times and from a
// different goroutine than the one delivering events.
type Subscription struct {
	cancel    context.CancelFunc
	done      chan struct{}
	closeOnce sync.Once
}

func newSubscription(cancel context.CancelFunc) *Subscription {
	return &Subscription{
		cancel: cancel,
		done:   make(chan struct{}),
	}
}

// Close cancels the subscription and waits for the poller to stop, so no
// further batches are delivered after it returns. Writes triggered by batches
// already handed to the handler are not cancelled.
func (s *Subscription) Close() {
	s.closeOnce.Do(s.cancel)
	<-s.done
}

// Done reports poller termination; closed when the last batch has been
// delivered.
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}
