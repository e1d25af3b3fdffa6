// Package prices serves the latest quote per asset, joined with its label.
package prices

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/remy/cryptofolio-ledger/pkg/models"
	"github.com/remy/cryptofolio-ledger/pkg/storage"
)

const cacheKey = "prices:latest"

// AssetPrice is one asset's most recent quote.
type AssetPrice struct {
	IdCrypto  int64   `json:"id_crypto"`
	Label     string  `json:"label"`
	Cours     float64 `json:"cours"`
	DateCours string  `json:"date_cours"`
}

// Service folds the quote time series down to the latest point per asset.
type Service struct {
	store  storage.PriceStore
	cache  *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewService creates a new Service. The cache client may be nil, in which
// case every call folds from the store.
func NewService(store storage.PriceStore, cache *redis.Client, ttl time.Duration, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, cache: cache, ttl: ttl, logger: logger}
}

// Latest returns the most recent quote per asset, labelled and sorted by
// asset id. Assets with no label record are omitted rather than failing the
// whole listing.
func (s *Service) Latest(ctx context.Context) ([]AssetPrice, error) {
	if cached, ok := s.fromCache(ctx); ok {
		return cached, nil
	}

	points, err := s.store.ListPricePoints(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load price points: %w", err)
	}

	latest := LatestPerAsset(points)

	result := make([]AssetPrice, 0, len(latest))
	for _, point := range latest {
		crypto, err := s.store.GetCrypto(ctx, point.IdCrypto)
		if err != nil {
			s.logger.Warn("omitting asset without label", "id_crypto", point.IdCrypto, "error", err)
			continue
		}
		result = append(result, AssetPrice{
			IdCrypto:  point.IdCrypto,
			Label:     crypto.Label,
			Cours:     point.Cours,
			DateCours: point.DateCours,
		})
	}

	sort.Slice(result, func(i, j int) bool { return result[i].IdCrypto < result[j].IdCrypto })

	s.toCache(ctx, result)
	return result, nil
}

// LatestPerAsset reduces the time series to one point per asset, keeping the
// point with the greatest parseable timestamp. Points with unparseable dates
// are dropped. Equal timestamps keep the first point seen, so the fold is
// deterministic over a stable scan order.
func LatestPerAsset(points []models.PricePoint) []models.PricePoint {
	type dated struct {
		point models.PricePoint
		at    time.Time
	}

	latest := make(map[int64]dated)
	for _, point := range points {
		at, err := models.ParseTimestamp(point.DateCours)
		if err != nil {
			continue
		}
		current, seen := latest[point.IdCrypto]
		if !seen || at.After(current.at) {
			latest[point.IdCrypto] = dated{point: point, at: at}
		}
	}

	result := make([]models.PricePoint, 0, len(latest))
	for _, d := range latest {
		result = append(result, d.point)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].IdCrypto < result[j].IdCrypto })
	return result
}

func (s *Service) fromCache(ctx context.Context) ([]AssetPrice, bool) {
	if s.cache == nil {
		return nil, false
	}
	raw, err := s.cache.Get(ctx, cacheKey).Result()
	if err != nil {
		if err != redis.Nil {
			s.logger.Warn("price cache read failed", "error", err)
		}
		return nil, false
	}
	var cached []AssetPrice
	if err := json.Unmarshal([]byte(raw), &cached); err != nil {
		s.logger.Warn("price cache entry malformed, refolding", "error", err)
		return nil, false
	}
	return cached, true
}

func (s *Service) toCache(ctx context.Context, result []AssetPrice) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(result)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, cacheKey, raw, s.ttl).Err(); err != nil {
		s.logger.Warn("price cache write failed", "error", err)
	}
}
