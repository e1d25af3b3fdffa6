// Package favorites implements the favorite-asset membership toggle.
package favorites

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/remy/cryptofolio-ledger/pkg/models"
	"github.com/remy/cryptofolio-ledger/pkg/storage"
)

// Service toggles the (user, asset) membership relation. The toggle is a
// read-then-mutate against the remote store with no transactional guard;
// two near-simultaneous toggles for the same pair can both insert or both
// delete, and the store resolves that as last write wins.
type Service struct {
	store storage.FavoriteStore
}

// NewService creates a new Service.
func NewService(store storage.FavoriteStore) *Service {
	return &Service{store: store}
}

// Toggle flips the membership state and returns the new state: true when the
// asset is now a favorite. When toggling off, every matching record is
// deleted so duplicates left by earlier races are cleaned up too.
func (s *Service) Toggle(ctx context.Context, userID, cryptoID int64) (bool, error) {
	existing, err := s.store.FindFavorites(ctx, userID, cryptoID)
	if err != nil {
		return false, fmt.Errorf("failed to look up favorite (user %d, crypto %d): %w", userID, cryptoID, err)
	}

	if len(existing) > 0 {
		for _, fav := range existing {
			if err := s.store.DeleteFavorite(ctx, fav.Id); err != nil {
				return false, fmt.Errorf("failed to remove favorite (user %d, crypto %d): %w", userID, cryptoID, err)
			}
		}
		return false, nil
	}

	fav := &models.Favorite{
		Id:       uuid.New().String(),
		IdUser:   userID,
		IdCrypto: cryptoID,
	}
	if err := s.store.CreateFavorite(ctx, fav); err != nil {
		return false, fmt.Errorf("failed to add favorite (user %d, crypto %d): %w", userID, cryptoID, err)
	}

	return true, nil
}

// List returns the ids of the user's favorite assets.
func (s *Service) List(ctx context.Context, userID int64) ([]int64, error) {
	favorites, err := s.store.ListFavoritesByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites for user %d: %w", userID, err)
	}

	ids := make([]int64, 0, len(favorites))
	for _, fav := range favorites {
		ids = append(ids, fav.IdCrypto)
	}
	return ids, nil
}
