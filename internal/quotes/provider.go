// Package quotes defines the interface for fetching current trade data
// from external market data sources.
package quotes

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Quote is the latest trade data for a symbol. IsSynthetic marks quotes
// fabricated by the price service while the provider is unavailable.
type Quote struct {
	Symbol        string          `json:"symbol"`
	Price         decimal.Decimal `json:"price"`
	Volume        int64           `json:"volume"`
	Change        decimal.Decimal `json:"change"`
	ChangePercent decimal.Decimal `json:"change_percent"`
	Timestamp     time.Time       `json:"timestamp"`
	IsSynthetic   bool            `json:"is_synthetic"`
}

// ProviderError represents a failed quote fetch for a symbol. It covers
// timeouts, malformed payloads, and non-2xx responses alike.
type ProviderError struct {
	Symbol string
	Err    error
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	return fmt.Sprintf("failed to fetch quote for %s: %v", e.Symbol, e.Err)
}

// Unwrap returns the underlying cause.
func (e *ProviderError) Unwrap() error { return e.Err }

// Provider fetches the current quote for a single symbol.
type Provider interface {
	// Name returns the provider's display name (e.g., "Alpha Vantage").
	Name() string

	// Fetch returns the latest quote for symbol, or a *ProviderError.
	Fetch(ctx context.Context, symbol string) (*Quote, error)
}
