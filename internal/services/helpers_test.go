package services

import (
	"context"
	"strings"
	"time"

	apperrors "stocktracker/internal/errors"
	"stocktracker/internal/models"
	"stocktracker/internal/quotes"

	"github.com/shopspring/decimal"
)

func decimalFromFloat(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}

// stubPriceServicer serves fixed prices and history without touching a
// provider or database. Symbols listed in FailSymbols error out, which
// is how valuation and risk tests exercise partial failure.
type stubPriceServicer struct {
	Prices      map[string]float64
	History     map[string][]float64
	FailSymbols map[string]bool
}

func (s *stubPriceServicer) GetPrice(_ context.Context, symbol string) (*quotes.Quote, error) {
	symbol = strings.ToUpper(symbol)
	if s.FailSymbols[symbol] {
		return nil, apperrors.ErrPriceLookup
	}
	price, ok := s.Prices[symbol]
	if !ok {
		return nil, apperrors.ErrPriceLookup
	}
	return &quotes.Quote{
		Symbol:    symbol,
		Price:     decimal.NewFromFloat(price),
		Timestamp: time.Now().UTC(),
	}, nil
}

func (s *stubPriceServicer) GetPrices(ctx context.Context, symbols []string) ([]*quotes.Quote, error) {
	out := make([]*quotes.Quote, 0, len(symbols))
	for _, symbol := range symbols {
		q, err := s.GetPrice(ctx, symbol)
		if err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, nil
}

func (s *stubPriceServicer) GetHistory(symbol string, limit int) ([]models.PricePoint, error) {
	symbol = strings.ToUpper(symbol)
	if s.FailSymbols[symbol] {
		return nil, apperrors.ErrHistoryUnavailable
	}
	series := s.History[symbol]
	if limit > 0 && len(series) > limit {
		series = series[len(series)-limit:]
	}
	start := time.Now().AddDate(0, 0, -len(series))
	points := make([]models.PricePoint, 0, len(series))
	for i, p := range series {
		points = append(points, models.PricePoint{
			Symbol:     symbol,
			Price:      decimal.NewFromFloat(p),
			RecordedAt: start.AddDate(0, 0, i),
		})
	}
	return points, nil
}

func (s *stubPriceServicer) GetHistoryRange(symbol string, from, to time.Time) ([]models.PricePoint, error) {
	all, err := s.GetHistory(symbol, 0)
	if err != nil {
		return nil, err
	}
	out := make([]models.PricePoint, 0, len(all))
	for _, p := range all {
		if !p.RecordedAt.Before(from) && !p.RecordedAt.After(to) {
			out = append(out, p)
		}
	}
	return out, nil
}
