package services

import "strings"

// staticBetas holds published beta estimates for common symbols.
// TODO: replace with a regression against a market index once enough
// history accumulates in the price store.
var staticBetas = map[string]float64{
	"AAPL":  1.24,
	"MSFT":  0.92,
	"GOOGL": 1.05,
	"META":  1.28,
	"NVDA":  1.68,
	"AMZN":  1.15,
	"TSLA":  2.01,
	"JPM":   1.10,
	"BAC":   1.33,
	"GS":    1.27,
	"JNJ":   0.52,
	"UNH":   0.60,
	"PFE":   0.57,
	"WMT":   0.53,
	"KO":    0.58,
	"XOM":   0.88,
	"CVX":   0.90,
	"BA":    1.54,
	"CAT":   1.12,
}

// staticBetaSource serves betas from the static table, defaulting to
// the market beta of 1.0 for unknown symbols.
type staticBetaSource struct{}

// NewStaticBetaSource creates the default BetaSource.
func NewStaticBetaSource() BetaSource {
	return staticBetaSource{}
}

// Beta returns the symbol's beta estimate.
func (staticBetaSource) Beta(symbol string) (float64, error) {
	if beta, ok := staticBetas[strings.ToUpper(symbol)]; ok {
		return beta, nil
	}
	return 1.0, nil
}
