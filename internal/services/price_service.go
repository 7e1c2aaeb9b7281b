package services

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"strings"
	"time"

	"gorm.io/gorm"

	"stocktracker/internal/cache"
	apperrors "stocktracker/internal/errors"
	"stocktracker/internal/logger"
	"stocktracker/internal/models"
	"stocktracker/internal/quotes"

	"github.com/shopspring/decimal"
)

// basePrices anchors synthetic quotes for well-known symbols while the
// provider is down. Anything else falls back to 100.
var basePrices = map[string]float64{
	"AAPL":  245.50,
	"TSLA":  425.75,
	"GOOGL": 175.30,
	"MSFT":  420.10,
	"AMZN":  185.60,
	"META":  512.25,
}

const defaultBasePrice = 100.0

// PriceConfig carries the tunables for the price service. Rand is the
// perturbation source for synthetic quotes in [0,1); nil means math/rand.
type PriceConfig struct {
	QuoteTimeout time.Duration
	QuoteTTL     time.Duration
	SyntheticTTL time.Duration
	Rand         func() float64
}

// priceService implements cache-aside quote lookups with degraded-mode
// fallback, and fronts the price history store.
type priceService struct {
	db       *gorm.DB
	cache    cache.Cache
	provider quotes.Provider
	cfg      PriceConfig
}

// NewPriceService creates a new PriceServicer.
func NewPriceService(db *gorm.DB, c cache.Cache, provider quotes.Provider, cfg PriceConfig) PriceServicer {
	if cfg.Rand == nil {
		cfg.Rand = rand.Float64
	}
	return &priceService{db: db, cache: c, provider: provider, cfg: cfg}
}

// quoteKey is the cache key for a symbol's current quote.
func quoteKey(symbol string) string {
	return "stock:" + strings.ToUpper(symbol)
}

// GetPrice returns the current quote for symbol. The cache is consulted
// first; on a miss the provider is queried with a bounded timeout. A
// provider failure of any kind degrades to a synthetic quote cached
// with a shorter TTL so the real provider is retried sooner. Only
// cache/store substrate failures are returned as errors.
func (s *priceService) GetPrice(ctx context.Context, symbol string) (*quotes.Quote, error) {
	symbol = strings.ToUpper(symbol)
	key := quoteKey(symbol)

	cached, err := s.cache.Get(ctx, key)
	if err == nil {
		var quote quotes.Quote
		if jsonErr := json.Unmarshal(cached, &quote); jsonErr == nil {
			return &quote, nil
		}
		// Corrupt entry; fall through to a fresh fetch.
		logger.Get().Warnw("discarding unreadable cached quote", "symbol", symbol)
	} else if !errors.Is(err, cache.ErrMiss) {
		return nil, apperrors.Wrap(apperrors.ErrPriceLookup, err)
	}

	fetchCtx, cancel := context.WithTimeout(ctx, s.cfg.QuoteTimeout)
	defer cancel()

	quote, err := s.provider.Fetch(fetchCtx, symbol)
	if err != nil {
		logger.Get().Warnw("quote provider failed, using synthetic price",
			"symbol", symbol,
			"provider", s.provider.Name(),
			"error", err,
		)
		return s.syntheticQuote(ctx, symbol)
	}

	if err := s.storeQuote(ctx, key, quote, s.cfg.QuoteTTL); err != nil {
		return nil, err
	}

	// History feeds VaR; synthetic prices never reach it.
	point := &models.PricePoint{
		Symbol:     quote.Symbol,
		Price:      quote.Price,
		Volume:     quote.Volume,
		RecordedAt: quote.Timestamp,
	}
	if err := s.db.Create(point).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrPriceLookup, err)
	}

	return quote, nil
}

// syntheticQuote fabricates a plausible quote from the base price table
// plus a small perturbation, and caches it with the shorter TTL.
func (s *priceService) syntheticQuote(ctx context.Context, symbol string) (*quotes.Quote, error) {
	base := defaultBasePrice
	if p, ok := basePrices[symbol]; ok {
		base = p
	}

	// Perturbation in [-2.5, +2.5).
	variation := (s.cfg.Rand() - 0.5) * 5

	price := decimal.NewFromFloat(base + variation).Round(2)
	change := decimal.NewFromFloat(variation).Round(2)
	changePercent := decimal.NewFromFloat(variation / base * 100).Round(2)

	quote := &quotes.Quote{
		Symbol:        symbol,
		Price:         price,
		Volume:        1000000,
		Change:        change,
		ChangePercent: changePercent,
		Timestamp:     time.Now().UTC(),
		IsSynthetic:   true,
	}

	logger.Get().Infow("serving synthetic price", "symbol", symbol, "price", price.String())

	if err := s.storeQuote(ctx, quoteKey(symbol), quote, s.cfg.SyntheticTTL); err != nil {
		return nil, err
	}
	return quote, nil
}

// storeQuote serializes a quote into the cache.
func (s *priceService) storeQuote(ctx context.Context, key string, quote *quotes.Quote, ttl time.Duration) error {
	payload, err := json.Marshal(quote)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrPriceLookup, err)
	}
	if err := s.cache.SetWithTTL(ctx, key, payload, ttl); err != nil {
		return apperrors.Wrap(apperrors.ErrPriceLookup, err)
	}
	return nil
}

// GetPrices returns quotes for each symbol in order.
func (s *priceService) GetPrices(ctx context.Context, symbols []string) ([]*quotes.Quote, error) {
	results := make([]*quotes.Quote, 0, len(symbols))
	for _, symbol := range symbols {
		quote, err := s.GetPrice(ctx, symbol)
		if err != nil {
			return nil, err
		}
		results = append(results, quote)
	}
	return results, nil
}

// GetHistory returns up to limit most recent price points for symbol,
// ordered oldest first.
func (s *priceService) GetHistory(symbol string, limit int) ([]models.PricePoint, error) {
	if limit <= 0 {
		limit = 100
	}

	var points []models.PricePoint
	if err := s.db.
		Where("symbol = ?", strings.ToUpper(symbol)).
		Order("recorded_at DESC").
		Limit(limit).
		Find(&points).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrHistoryUnavailable, err)
	}

	// Reverse into chronological order.
	for i, j := 0, len(points)-1; i < j; i, j = i+1, j-1 {
		points[i], points[j] = points[j], points[i]
	}
	return points, nil
}

// GetHistoryRange returns all price points for symbol between from and
// to inclusive, ordered oldest first.
func (s *priceService) GetHistoryRange(symbol string, from, to time.Time) ([]models.PricePoint, error) {
	var points []models.PricePoint
	if err := s.db.
		Where("symbol = ? AND recorded_at BETWEEN ? AND ?", strings.ToUpper(symbol), from, to).
		Order("recorded_at ASC").
		Find(&points).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrHistoryUnavailable, err)
	}
	return points, nil
}
