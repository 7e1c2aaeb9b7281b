package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"stocktracker/internal/cache"
	apperrors "stocktracker/internal/errors"
	"stocktracker/internal/logger"
	"stocktracker/internal/models"

	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/stat"
)

const (
	// One-tailed z-score for 95% confidence. Other confidence levels
	// are not supported.
	varZScore95 = 1.645

	varConfidence95 = 0.95

	// How many recent price points feed the return series per holding.
	varHistoryLimit = 60
)

// sectorMap classifies known symbols; everything else lands in "Other".
var sectorMap = map[string]string{
	// Technology
	"AAPL":  "Technology",
	"MSFT":  "Technology",
	"GOOGL": "Technology",
	"META":  "Technology",
	"NVDA":  "Technology",
	// Finance
	"JPM": "Finance",
	"BAC": "Finance",
	"GS":  "Finance",
	// Healthcare
	"JNJ": "Healthcare",
	"UNH": "Healthcare",
	"PFE": "Healthcare",
	// Consumer
	"AMZN": "Consumer",
	"WMT":  "Consumer",
	"KO":   "Consumer",
	// Energy
	"XOM": "Energy",
	"CVX": "Energy",
	// Industrial
	"BA":  "Industrial",
	"CAT": "Industrial",
}

// riskService derives portfolio risk metrics from valuations and price
// history. Each metric runs its own fresh valuation pass when invoked;
// results are cached, so the repeated provider traffic is bounded by
// the metric TTL.
type riskService struct {
	cache     cache.Cache
	valuation ValuationServicer
	prices    PriceServicer
	betas     BetaSource
	ttl       time.Duration
}

// NewRiskService creates a new RiskServicer with the given metric cache TTL.
func NewRiskService(c cache.Cache, valuation ValuationServicer, prices PriceServicer, betas BetaSource, ttl time.Duration) RiskServicer {
	return &riskService{cache: c, valuation: valuation, prices: prices, betas: betas, ttl: ttl}
}

// ComputeBeta returns the value-weighted average beta of the holdings.
// There is no sensible fallback for a failed beta computation, so
// errors propagate to the caller.
func (s *riskService) ComputeBeta(ctx context.Context, portfolioID string, holdings []models.Holding) (float64, error) {
	key := fmt.Sprintf("portfolio:%s:beta", portfolioID)

	var beta float64
	if ok, err := s.cachedMetric(ctx, key, &beta); err != nil {
		return 0, err
	} else if ok {
		return beta, nil
	}

	valuation, err := s.valuation.Valuate(ctx, holdings)
	if err != nil {
		return 0, apperrors.Wrap(apperrors.ErrComputation, err)
	}
	if !valuation.TotalValue.IsPositive() {
		return 0, nil
	}

	totalValue := valuation.TotalValue.InexactFloat64()
	weighted := 0.0
	for _, hv := range valuation.Holdings {
		if hv.CurrentValue == nil {
			continue
		}
		symbolBeta, err := s.betas.Beta(hv.Symbol)
		if err != nil {
			return 0, apperrors.Wrap(apperrors.ErrComputation, err)
		}
		weighted += symbolBeta * hv.CurrentValue.InexactFloat64() / totalValue
	}

	beta = math.Round(weighted*100) / 100
	if err := s.storeMetric(ctx, key, beta); err != nil {
		return 0, err
	}
	return beta, nil
}

// ComputeVaR estimates historical Value-at-Risk at the given confidence
// level (only 0.95 is supported). Per-holding return variances are
// weighted by position value and summed; cross-holding covariance is
// ignored, which is a known simplification of this model, not a bug.
func (s *riskService) ComputeVaR(ctx context.Context, portfolioID string, holdings []models.Holding, confidence float64) (*VaRResult, error) {
	if confidence != varConfidence95 {
		return nil, apperrors.WithMessage(apperrors.ErrComputation,
			fmt.Sprintf("unsupported confidence level %g: only 0.95 is available", confidence))
	}

	key := fmt.Sprintf("portfolio:%s:var:%g", portfolioID, confidence)

	var cached VaRResult
	if ok, err := s.cachedMetric(ctx, key, &cached); err != nil {
		return nil, err
	} else if ok {
		return &cached, nil
	}

	valuation, err := s.valuation.Valuate(ctx, holdings)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrComputation, err)
	}
	if !valuation.TotalValue.IsPositive() {
		return &VaRResult{VaR95: decimal.Zero, VaRPercent: decimal.Zero}, nil
	}
	totalValue := valuation.TotalValue.InexactFloat64()

	totalVariance := 0.0
	for _, holding := range holdings {
		points, err := s.prices.GetHistory(holding.Symbol, varHistoryLimit)
		if err != nil {
			// One symbol without history must not sink the whole estimate.
			logger.Get().Warnw("skipping symbol in VaR, history unavailable",
				"symbol", holding.Symbol, "error", err)
			continue
		}
		if len(points) < 2 {
			continue
		}

		returns := dailyReturns(points)
		if len(returns) == 0 {
			continue
		}
		_, variance := stat.PopMeanVariance(returns, nil)

		lastPrice := points[len(points)-1].Price.InexactFloat64()
		weight := holding.Quantity.InexactFloat64() * lastPrice / totalValue
		totalVariance += variance * weight
	}

	stdDev := math.Sqrt(totalVariance)
	var95 := totalValue * varZScore95 * stdDev
	varPercent := var95 / totalValue * 100

	result := &VaRResult{
		VaR95:      decimal.NewFromFloat(var95).Round(2),
		VaRPercent: decimal.NewFromFloat(varPercent).Round(2),
	}
	if err := s.storeMetric(ctx, key, result); err != nil {
		return nil, err
	}
	return result, nil
}

// ComputeSectorConcentration groups priced holdings by sector and
// computes each sector's share of total portfolio value. Holdings whose
// price lookup failed contribute nothing.
func (s *riskService) ComputeSectorConcentration(ctx context.Context, portfolioID string, holdings []models.Holding) (map[string]SectorExposure, error) {
	key := fmt.Sprintf("portfolio:%s:sectors", portfolioID)

	var cached map[string]SectorExposure
	if ok, err := s.cachedMetric(ctx, key, &cached); err != nil {
		return nil, err
	} else if ok {
		return cached, nil
	}

	valuation, err := s.valuation.Valuate(ctx, holdings)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrComputation, err)
	}

	type bucket struct {
		value   decimal.Decimal
		symbols []string
	}
	buckets := make(map[string]*bucket)
	for _, hv := range valuation.Holdings {
		if hv.CurrentValue == nil {
			continue
		}
		sector, ok := sectorMap[hv.Symbol]
		if !ok {
			sector = "Other"
		}
		b, ok := buckets[sector]
		if !ok {
			b = &bucket{value: decimal.Zero}
			buckets[sector] = b
		}
		b.value = b.value.Add(*hv.CurrentValue)
		b.symbols = append(b.symbols, hv.Symbol)
	}

	concentration := make(map[string]SectorExposure, len(buckets))
	for sector, b := range buckets {
		percent := decimal.Zero
		if valuation.TotalValue.IsPositive() {
			percent = b.value.Div(valuation.TotalValue).Mul(hundred).Round(2)
		}
		concentration[sector] = SectorExposure{
			Value:   b.value.Round(2),
			Percent: percent,
			Symbols: b.symbols,
		}
	}

	if err := s.storeMetric(ctx, key, concentration); err != nil {
		return nil, err
	}
	return concentration, nil
}

// cachedMetric loads a cached metric into out, reporting whether it was present.
func (s *riskService) cachedMetric(ctx context.Context, key string, out any) (bool, error) {
	payload, err := s.cache.Get(ctx, key)
	if errors.Is(err, cache.ErrMiss) {
		return false, nil
	}
	if err != nil {
		return false, apperrors.Wrap(apperrors.ErrComputation, err)
	}
	if err := json.Unmarshal(payload, out); err != nil {
		logger.Get().Warnw("discarding unreadable cached risk metric", "key", key)
		return false, nil
	}
	return true, nil
}

// storeMetric caches a computed metric for the configured TTL.
func (s *riskService) storeMetric(ctx context.Context, key string, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrComputation, err)
	}
	if err := s.cache.SetWithTTL(ctx, key, payload, s.ttl); err != nil {
		return apperrors.Wrap(apperrors.ErrComputation, err)
	}
	return nil
}

// dailyReturns converts a chronological price series into simple
// point-over-point returns.
func dailyReturns(points []models.PricePoint) []float64 {
	returns := make([]float64, 0, len(points)-1)
	for i := 1; i < len(points); i++ {
		prev := points[i-1].Price.InexactFloat64()
		if prev == 0 {
			continue
		}
		curr := points[i].Price.InexactFloat64()
		returns = append(returns, (curr-prev)/prev)
	}
	return returns
}
