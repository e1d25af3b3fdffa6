// Package stream delivers transaction change events to consumers. It owns the
// subscription lifecycle and the classification of raw backend change records
// into typed changes; it contains no ledger business logic.
package stream

import (
	"context"

	"github.com/remy/cryptofolio-ledger/pkg/models"
)

// ChangeKind tags what happened to a document.
type ChangeKind string

const (
	Added    ChangeKind = "added"
	Modified ChangeKind = "modified"
	Removed  ChangeKind = "removed"
)

// Change is one classified change record. Transaction carries the full
// post-change document snapshot; for Removed it is the last known snapshot.
type Change struct {
	Kind        ChangeKind
	Transaction models.Transaction
}

// Batch is the ordered set of changes delivered by one stream message,
// already filtered to a single user's transactions.
type Batch struct {
	UserID  int64
	Changes []Change
}

// Handler processes one batch. Returning an error leaves the message on the
// queue for redelivery; delivery is at-least-once and handlers must tolerate
// seeing the same change again.
type Handler func(ctx context.Context, batch Batch) error

// Subscriber establishes live, per-user subscriptions to the change stream.
type Subscriber interface {
	// Subscribe opens a subscription for one user and delivers batches to the
	// handler in the order the backend emits them. Failure to open is returned
	// to the caller; transport failures after open are retried internally.
	Subscribe(ctx context.Context, userID int64, handler Handler) (*Subscription, error)
}
