package push

import (
	"context"
)

// Publisher defines the interface for delivering messages to one user's
// connected devices. Delivery is best effort; the ledger state a message
// describes is always recoverable from the store.
type Publisher interface {
	Publish(ctx context.Context, userID int64, message Message) error
}
