// Package portfolio serves a user's crypto trade history.
package portfolio

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/remy/cryptofolio-ledger/pkg/models"
	"github.com/remy/cryptofolio-ledger/pkg/storage"
)

// Entry is one trade joined with its asset label.
type Entry struct {
	Id              int64   `json:"id"`
	IdCrypto        int64   `json:"id_crypto"`
	Label           string  `json:"label"`
	IsSale          bool    `json:"is_sale"`
	IsPurchase      bool    `json:"is_purchase"`
	Quantity        float64 `json:"quantity"`
	DateTransaction string  `json:"date_transaction"`
}

// Service joins a user's crypto trades with asset labels.
type Service struct {
	store  storage.PriceStore
	logger *slog.Logger
}

// NewService creates a new Service.
func NewService(store storage.PriceStore, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, logger: logger}
}

// History returns the user's trades, newest first. A trade whose asset has no
// label record keeps an empty label rather than dropping the trade; the trade
// list is the record of ownership and stays complete.
func (s *Service) History(ctx context.Context, userID int64) ([]Entry, error) {
	trades, err := s.store.ListCryptoTransactionsByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list crypto transactions for user %d: %w", userID, err)
	}

	labels := make(map[int64]string)
	entries := make([]Entry, 0, len(trades))
	for _, trade := range trades {
		label, seen := labels[trade.IdCrypto]
		if !seen {
			label = s.lookupLabel(ctx, trade.IdCrypto)
			labels[trade.IdCrypto] = label
		}
		entries = append(entries, Entry{
			Id:              trade.Id,
			IdCrypto:        trade.IdCrypto,
			Label:           label,
			IsSale:          trade.IsSale,
			IsPurchase:      trade.IsPurchase,
			Quantity:        trade.Quantity,
			DateTransaction: trade.DateTransaction,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return laterDate(entries[i].DateTransaction, entries[j].DateTransaction)
	})
	return entries, nil
}

func (s *Service) lookupLabel(ctx context.Context, cryptoID int64) string {
	crypto, err := s.store.GetCrypto(ctx, cryptoID)
	if err != nil {
		s.logger.Warn("no label for asset", "id_crypto", cryptoID, "error", err)
		return ""
	}
	return crypto.Label
}

// laterDate orders a before b when a's date is strictly later. Unparseable
// dates sort last so malformed records never displace real history.
func laterDate(a, b string) bool {
	at, aErr := models.ParseTimestamp(a)
	bt, bErr := models.ParseTimestamp(b)
	if aErr != nil {
		return false
	}
	if bErr != nil {
		return true
	}
	return at.After(bt)
}
