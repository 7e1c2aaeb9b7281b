package services

import (
	"context"

	"stocktracker/internal/logger"
	"stocktracker/internal/models"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// valuationService computes portfolio valuations from current quotes.
type valuationService struct {
	prices PriceServicer
}

// NewValuationService creates a new ValuationServicer.
func NewValuationService(prices PriceServicer) ValuationServicer {
	return &valuationService{prices: prices}
}

// Valuate prices every holding and aggregates the portfolio totals.
// A failed price lookup marks that holding with PriceError and moves
// on; one bad symbol never aborts the batch. The errored holding still
// contributes its cost basis to the total cost basis.
func (s *valuationService) Valuate(ctx context.Context, holdings []models.Holding) (*ValuationResult, error) {
	result := &ValuationResult{
		TotalValue:      decimal.Zero,
		TotalCostBasis:  decimal.Zero,
		TotalPnL:        decimal.Zero,
		TotalPnLPercent: decimal.Zero,
		Holdings:        []HoldingValuation{},
	}
	if len(holdings) == 0 {
		return result, nil
	}

	totalValue := decimal.Zero
	totalCostBasis := decimal.Zero
	valuations := make([]HoldingValuation, 0, len(holdings))

	for _, holding := range holdings {
		costBasis := holding.CostBasis()
		totalCostBasis = totalCostBasis.Add(costBasis)

		quote, err := s.prices.GetPrice(ctx, holding.Symbol)
		if err != nil {
			logger.Get().Errorw("price lookup failed for holding",
				"symbol", holding.Symbol,
				"holding_id", holding.ID,
				"error", err,
			)
			valuations = append(valuations, HoldingValuation{
				Holding:           holding,
				CostBasis:         costBasis,
				AllocationPercent: decimal.Zero,
				PriceError:        true,
			})
			continue
		}

		currentValue := holding.Quantity.Mul(quote.Price)
		pnl := currentValue.Sub(costBasis)
		pnlPercent := decimal.Zero
		if !costBasis.IsZero() {
			pnlPercent = pnl.Div(costBasis).Mul(hundred)
		}

		price := quote.Price
		valuations = append(valuations, HoldingValuation{
			Holding:      holding,
			CurrentPrice: &price,
			CurrentValue: &currentValue,
			CostBasis:    costBasis,
			PnL:          &pnl,
			PnLPercent:   &pnlPercent,
		})

		totalValue = totalValue.Add(currentValue)
	}

	// Allocation is only meaningful once the total is known.
	if totalValue.IsPositive() {
		for i := range valuations {
			if valuations[i].CurrentValue != nil {
				valuations[i].AllocationPercent = valuations[i].CurrentValue.Div(totalValue).Mul(hundred)
			}
		}
	}

	totalPnL := totalValue.Sub(totalCostBasis)
	totalPnLPercent := decimal.Zero
	if totalCostBasis.IsPositive() {
		totalPnLPercent = totalPnL.Div(totalCostBasis).Mul(hundred)
	}

	result.TotalValue = totalValue.Round(2)
	result.TotalCostBasis = totalCostBasis.Round(2)
	result.TotalPnL = totalPnL.Round(2)
	result.TotalPnLPercent = totalPnLPercent.Round(2)
	result.Holdings = valuations
	return result, nil
}
