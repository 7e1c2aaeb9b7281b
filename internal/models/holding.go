package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Holding represents a position in a single symbol within a portfolio.
// The identity columns (portfolio, symbol) are fixed at creation; only
// quantity and purchase price are mutable afterwards.
type Holding struct {
	Base
	PortfolioID   string          `gorm:"type:uuid;not null;index" json:"portfolio_id"`
	Symbol        string          `gorm:"not null" json:"symbol"`
	Quantity      decimal.Decimal `gorm:"type:numeric(18,4);not null" json:"quantity"`
	PurchasePrice decimal.Decimal `gorm:"type:numeric(18,4);not null" json:"purchase_price"`
	PurchaseDate  time.Time       `json:"purchase_date"`

	// Relationships
	Portfolio Portfolio `gorm:"foreignKey:PortfolioID" json:"-"`
}

// CostBasis returns the original investment amount, quantity x purchase price.
func (h *Holding) CostBasis() decimal.Decimal {
	return h.Quantity.Mul(h.PurchasePrice)
}
