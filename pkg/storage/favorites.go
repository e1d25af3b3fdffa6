package storage

import (
	"context"

	"github.com/remy/cryptofolio-ledger/pkg/models"
)

// FavoriteStore defines the interface for the favorite membership relation.
// There is deliberately no conditional toggle here: the service layer reads
// then mutates, preserving the last-write-wins behavior of the client it
// replaces.
type FavoriteStore interface {
	// ListFavoritesByUserID retrieves all favorite records for a user.
	ListFavoritesByUserID(ctx context.Context, userID int64) ([]models.Favorite, error)

	// FindFavorites retrieves every record matching the (user, asset) pair.
	// More than one match means earlier concurrent toggles raced; callers
	// delete them all.
	FindFavorites(ctx context.Context, userID, cryptoID int64) ([]models.Favorite, error)

	// CreateFavorite inserts a new favorite record.
	CreateFavorite(ctx context.Context, fav *models.Favorite) error

	// DeleteFavorite removes a favorite record by its id.
	DeleteFavorite(ctx context.Context, favID string) error
}
