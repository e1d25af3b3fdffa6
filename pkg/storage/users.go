package storage

import (
	"context"

	"github.com/remy/cryptofolio-ledger/pkg/models"
)

// UserStore defines the interface for account lookup and push registration.
type UserStore interface {
	// GetUserByCredentials retrieves the user matching the email/password
	// pair, or ErrUserNotFound.
	GetUserByCredentials(ctx context.Context, email, password string) (*models.User, error)

	// UpdateFcmToken stores the device's current push token on the user record.
	UpdateFcmToken(ctx context.Context, userID int64, token string) error
}

// ConnectionStore defines the interface for the push endpoints registered by
// a user's signed-in devices.
type ConnectionStore interface {
	AddConnection(ctx context.Context, conn *models.Connection) error
	RemoveConnection(ctx context.Context, connectionID string) error
	GetConnectionsByUserID(ctx context.Context, userID int64) ([]string, error)
}
