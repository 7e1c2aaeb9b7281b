package services

import (
	"context"
	"time"

	"stocktracker/internal/models"
	"stocktracker/internal/pagination"
	"stocktracker/internal/quotes"

	"github.com/shopspring/decimal"
)

// PortfolioServicer defines the contract for portfolio-related business logic.
type PortfolioServicer interface {
	CreatePortfolio(userID, name string) (*models.Portfolio, error)
	GetUserPortfolios(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Portfolio], error)
	GetPortfolioByID(id string) (*models.Portfolio, error)
	UpdatePortfolio(id, name string) (*models.Portfolio, error)
	DeletePortfolio(id string) error
}

// HoldingServicer defines the contract for holding-related business logic.
type HoldingServicer interface {
	CreateHolding(portfolioID, symbol string, quantity, purchasePrice decimal.Decimal, purchaseDate time.Time) (*models.Holding, error)
	GetPortfolioHoldings(portfolioID string) ([]models.Holding, error)
	GetHoldingByID(id string) (*models.Holding, error)
	UpdateHolding(id string, quantity, purchasePrice decimal.Decimal) (*models.Holding, error)
	DeleteHolding(id string) error
}

// AlertServicer defines the contract for alert-related business logic.
type AlertServicer interface {
	CreateAlert(portfolioID, symbol string, threshold decimal.Decimal, condition models.AlertCondition, email string) (*models.Alert, error)
	GetPortfolioAlerts(portfolioID string) ([]models.Alert, error)
	GetActiveAlerts() ([]models.Alert, error)
	DeactivateAlert(id string) (*models.Alert, error)
	DeleteAlert(id string) error
}

// PriceServicer is the single source of truth for "current price of
// symbol X". Provider outages are absorbed into synthetic quotes; the
// only errors returned are cache/store substrate failures.
type PriceServicer interface {
	GetPrice(ctx context.Context, symbol string) (*quotes.Quote, error)
	GetPrices(ctx context.Context, symbols []string) ([]*quotes.Quote, error)
	GetHistory(symbol string, limit int) ([]models.PricePoint, error)
	GetHistoryRange(symbol string, from, to time.Time) ([]models.PricePoint, error)
}

// HoldingValuation is one holding annotated with current market data.
// Pointer fields are nil when the price lookup failed for the symbol.
type HoldingValuation struct {
	models.Holding
	CurrentPrice      *decimal.Decimal `json:"current_price"`
	CurrentValue      *decimal.Decimal `json:"current_value"`
	CostBasis         decimal.Decimal  `json:"cost_basis"`
	PnL               *decimal.Decimal `json:"pnl"`
	PnLPercent        *decimal.Decimal `json:"pnl_percent"`
	AllocationPercent decimal.Decimal  `json:"allocation_percent"`
	PriceError        bool             `json:"price_error"`
}

// ValuationResult aggregates a portfolio's holdings at current prices.
// Aggregate figures are rounded to 2 decimal places; per-holding figures
// keep full precision.
type ValuationResult struct {
	TotalValue      decimal.Decimal    `json:"total_value"`
	TotalCostBasis  decimal.Decimal    `json:"total_cost_basis"`
	TotalPnL        decimal.Decimal    `json:"total_pnl"`
	TotalPnLPercent decimal.Decimal    `json:"total_pnl_percent"`
	Holdings        []HoldingValuation `json:"holdings"`
}

// ValuationServicer turns holdings plus current quotes into valuations.
type ValuationServicer interface {
	Valuate(ctx context.Context, holdings []models.Holding) (*ValuationResult, error)
}

// VaRResult is a historical Value-at-Risk estimate for a portfolio.
type VaRResult struct {
	VaR95      decimal.Decimal `json:"var95"`
	VaRPercent decimal.Decimal `json:"var_percent"`
}

// SectorExposure is one sector's share of total portfolio value.
type SectorExposure struct {
	Value   decimal.Decimal `json:"value"`
	Percent decimal.Decimal `json:"percent"`
	Symbols []string        `json:"symbols"`
}

// BetaSource supplies a per-symbol beta estimate. The default source is
// a static table; tests and future statistical models plug in here.
type BetaSource interface {
	Beta(symbol string) (float64, error)
}

// RiskServicer derives portfolio risk metrics. Each metric is cached
// for the configured TTL under its own key; portfolioID only
// namespaces the cache entries.
type RiskServicer interface {
	ComputeBeta(ctx context.Context, portfolioID string, holdings []models.Holding) (float64, error)
	ComputeVaR(ctx context.Context, portfolioID string, holdings []models.Holding, confidence float64) (*VaRResult, error)
	ComputeSectorConcentration(ctx context.Context, portfolioID string, holdings []models.Holding) (map[string]SectorExposure, error)
}
