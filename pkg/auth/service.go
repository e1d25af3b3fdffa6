// Package auth signs users in and maintains their push registration.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/remy/cryptofolio-ledger/pkg/session"
	"github.com/remy/cryptofolio-ledger/pkg/storage"
)

// ErrInvalidCredentials is returned when no account matches the email and
// password pair. Callers cannot distinguish a wrong password from an unknown
// email.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Service authenticates against the user store and caches the result.
type Service struct {
	store    storage.UserStore
	sessions session.Store
	logger   *slog.Logger
}

// NewService creates a new Service.
func NewService(store storage.UserStore, sessions session.Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, sessions: sessions, logger: logger}
}

// Login checks the credentials, registers the device's push token and caches
// the session. A failed token registration does not fail the login; the token
// is refreshed on the next sign-in.
func (s *Service) Login(ctx context.Context, email, password, fcmToken string) (*session.Session, error) {
	user, err := s.store.GetUserByCredentials(ctx, email, password)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if fcmToken != "" && fcmToken != user.FcmToken {
		if err := s.store.UpdateFcmToken(ctx, user.Id, fcmToken); err != nil {
			s.logger.Warn("failed to refresh push token", "id_user", user.Id, "error", err)
		}
	}

	sess := &session.Session{
		UserID:       user.Id,
		DisplayName:  user.UserName,
		ProfileImage: user.Pdp,
	}
	if s.sessions != nil {
		if err := s.sessions.Save(sess); err != nil {
			s.logger.Warn("failed to cache session", "id_user", user.Id, "error", err)
		}
	}
	return sess, nil
}

// Logout clears the cached session.
func (s *Service) Logout(_ context.Context) error {
	if s.sessions == nil {
		return nil
	}
	return s.sessions.Clear()
}
