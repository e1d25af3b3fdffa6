package scheduler

import (
	"context"
	"time"

	"github.com/remy/cryptofolio-ledger/pkg/models"
	"github.com/remy/cryptofolio-ledger/pkg/stream"
)

// Scheduler publishes transaction change events onto the change stream.
type Scheduler interface {
	// PublishChange emits one change event carrying the full post-change
	// snapshot. Ordering per transaction follows the order of calls.
	PublishChange(ctx context.Context, kind stream.ChangeKind, tx *models.Transaction) error

	// ScheduleRevaluation emits a delayed modified event for a future-dated
	// transaction so its balance contribution is re-evaluated once the date
	// passes. Delays beyond the queue's limit are left to the sweep job.
	ScheduleRevaluation(ctx context.Context, tx *models.Transaction, delay time.Duration) error
}
