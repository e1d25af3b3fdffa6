package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/remy/cryptofolio-ledger/pkg/storage"
	"github.com/remy/cryptofolio-ledger/pkg/stream"
)

// Reconciler converts the pending-to-validated transition observed on
// modified change records into a single notification-seen write per
// qualifying event.
type Reconciler struct {
	store  storage.TransactionWriter
	logger *slog.Logger
}

// NewReconciler creates a new Reconciler.
func NewReconciler(store storage.TransactionWriter, logger *slog.Logger) *Reconciler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reconciler{store: store, logger: logger}
}

// Reconcile inspects each change and issues the seen write for every
// modified record whose snapshot shows validated_at set and
// notification_seen still false. The guard is the snapshot accompanying
// this event, so a re-delivered event whose snapshot already reflects the
// write is a no-op without touching the store. Two events for the same
// transaction in flight at once race to the conditional write; the loser's
// ErrNotificationAlreadySeen is treated as success.
//
// Returns the ids of transactions whose validation was newly observed, and
// a joined error for write failures. Failures are not retried here; the
// transaction stays unseen and the next delivery re-evaluates it.
func (r *Reconciler) Reconcile(ctx context.Context, changes []stream.Change) ([]int64, error) {
	var validated []int64
	var errs []error
	for _, change := range changes {
		if change.Kind != stream.Modified {
			continue
		}

		tx := change.Transaction
		if tx.ValidatedAt == nil || tx.NotificationSeen {
			continue
		}

		if err := r.store.MarkNotificationSeen(ctx, tx.Id); err != nil {
			if errors.Is(err, storage.ErrNotificationAlreadySeen) {
				r.logger.Debug("notification already reconciled elsewhere", "transaction_id", tx.Id)
				validated = append(validated, tx.Id)
				continue
			}
			errs = append(errs, fmt.Errorf("transaction %d: %w", tx.Id, err))
			continue
		}

		validated = append(validated, tx.Id)
	}
	return validated, errors.Join(errs...)
}
