package storage

import (
	"context"
	"time"

	"github.com/remy/cryptofolio-ledger/pkg/models"
)

// TransactionReader defines the interface for reading transaction data.
type TransactionReader interface {
	// GetTransaction retrieves a transaction by its ID.
	GetTransaction(ctx context.Context, txID int64) (*models.Transaction, error)

	// ListTransactionsByUserID retrieves all transactions for a specific user.
	// This is the authoritative snapshot set the balance aggregator folds over.
	ListTransactionsByUserID(ctx context.Context, userID int64) ([]models.Transaction, error)

	// ListDueFutureTransactions retrieves validated transactions whose
	// transaction date was in the future when last evaluated and has now
	// passed, so their balances can be recomputed.
	ListDueFutureTransactions(ctx context.Context, now time.Time) ([]models.Transaction, error)
}

// TransactionWriter defines the interface for creating transactions and for
// the reconciler's single idempotent-intent mutation.
type TransactionWriter interface {
	// CreateTransaction stores a new pending transaction. The id is
	// client-generated; an id collision is an error, never an overwrite.
	CreateTransaction(ctx context.Context, tx *models.Transaction) error

	// MarkNotificationSeen sets notification_seen = true on the transaction,
	// conditional on the flag still being false. A lost race reports
	// ErrNotificationAlreadySeen so duplicate deliveries stay no-ops.
	MarkNotificationSeen(ctx context.Context, txID int64) error
}

// TransactionStore combines the reader and writer interfaces.
type TransactionStore interface {
	TransactionReader
	TransactionWriter
}
