package storage

import (
	"context"

	"github.com/remy/cryptofolio-ledger/pkg/models"
)

// PriceStore defines the interface for reading asset metadata, quotes and
// crypto transaction history.
type PriceStore interface {
	// GetCrypto retrieves an asset's metadata record by id.
	GetCrypto(ctx context.Context, cryptoID int64) (*models.Crypto, error)

	// ListPricePoints retrieves the full quote time series. The caller folds
	// it down to the latest point per asset.
	ListPricePoints(ctx context.Context) ([]models.PricePoint, error)

	// ListCryptoTransactionsByUserID retrieves a user's crypto trade history.
	ListCryptoTransactionsByUserID(ctx context.Context, userID int64) ([]models.CryptoTransaction, error)
}
