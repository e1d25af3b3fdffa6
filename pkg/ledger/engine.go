package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/remy/cryptofolio-ledger/pkg/push"
	"github.com/remy/cryptofolio-ledger/pkg/storage"
	"github.com/remy/cryptofolio-ledger/pkg/stream"
)

// Engine drives one user's reconciliation per delivered batch: reconcile
// validation transitions, refold the balance from the authoritative current
// set, publish the results. It is the stream.Handler for a subscription.
type Engine struct {
	store      storage.TransactionStore
	reconciler *Reconciler
	publisher  push.Publisher
	logger     *slog.Logger

	// now is injectable for tests; defaults to time.Now.
	now func() time.Time
}

// NewEngine creates a new Engine.
func NewEngine(store storage.TransactionStore, publisher push.Publisher, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	if publisher == nil {
		publisher = &push.NoOpPublisher{}
	}
	return &Engine{
		store:      store,
		reconciler: NewReconciler(store, logger),
		publisher:  publisher,
		logger:     logger,
		now:        time.Now,
	}
}

// HandleBatch processes one change batch. A returned error leaves the batch
// on the stream for redelivery; every step is safe to repeat.
func (e *Engine) HandleBatch(ctx context.Context, batch stream.Batch) error {
	validated, reconcileErr := e.reconciler.Reconcile(ctx, batch.Changes)

	// One message per validated transaction, even when the batch carries the
	// same event more than once.
	pending := make(map[int64]bool, len(validated))
	for _, id := range validated {
		pending[id] = true
	}
	for _, change := range batch.Changes {
		id := change.Transaction.Id
		if !pending[id] {
			continue
		}
		delete(pending, id)

		payload := push.TransactionValidatedPayload{
			UserID:        batch.UserID,
			TransactionID: id,
			Deposit:       change.Transaction.Deposit,
			Withdrawal:    change.Transaction.Withdrawal,
		}
		msg := push.Message{Type: push.MessageTypeTransactionValidated, Payload: payload}
		if err := e.publisher.Publish(ctx, batch.UserID, msg); err != nil {
			e.logger.Error("failed to publish validation message",
				"user_id", batch.UserID, "transaction_id", id, "error", err)
		}
	}

	balance, err := e.RecomputeBalance(ctx, batch.UserID)
	if err != nil {
		if reconcileErr != nil {
			return fmt.Errorf("reconcile: %w; recompute: %w", reconcileErr, err)
		}
		return err
	}

	msg := push.Message{
		Type:    push.MessageTypeBalanceUpdate,
		Payload: push.BalanceUpdatePayload{UserID: batch.UserID, Balance: balance},
	}
	if err := e.publisher.Publish(ctx, batch.UserID, msg); err != nil {
		e.logger.Error("failed to publish balance update", "user_id", batch.UserID, "error", err)
	}

	return reconcileErr
}

// RecomputeBalance folds the user's full current transaction set. The
// snapshot comes from the store, not from the batch, so replayed or
// reordered events cannot skew the result.
func (e *Engine) RecomputeBalance(ctx context.Context, userID int64) (float64, error) {
	transactions, err := e.store.ListTransactionsByUserID(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to load transactions for balance of user %d: %w", userID, err)
	}
	return Balance(transactions, e.now()), nil
}
