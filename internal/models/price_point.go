package models

import (
	"time"

	"stocktracker/internal/uuid"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PricePoint is one observation in a symbol's price history series.
// Append-only; no Base embed, no soft deletes.
type PricePoint struct {
	ID         string          `gorm:"type:uuid;primaryKey" json:"id"`
	Symbol     string          `gorm:"not null;index:idx_price_points_symbol_time" json:"symbol"`
	Price      decimal.Decimal `gorm:"type:numeric(18,4);not null" json:"price"`
	Volume     int64           `gorm:"type:bigint;not null;default:0" json:"volume"`
	RecordedAt time.Time       `gorm:"not null;index:idx_price_points_symbol_time" json:"recorded_at"`
}

// BeforeCreate hook generates a UUIDv7 for new records
func (p *PricePoint) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New()
	}
	return nil
}
