package models

import (
	"github.com/shopspring/decimal"
)

// AlertCondition is the direction of a price threshold crossing.
type AlertCondition string

const (
	AlertConditionAbove AlertCondition = "above"
	AlertConditionBelow AlertCondition = "below"
)

// Valid reports whether the condition is one of the supported values.
func (c AlertCondition) Valid() bool {
	return c == AlertConditionAbove || c == AlertConditionBelow
}

// Alert is a user-configured price threshold watched by the alert monitor.
// Alerts are evaluated only while IsActive is true.
type Alert struct {
	Base
	PortfolioID    string          `gorm:"type:uuid;not null;index" json:"portfolio_id"`
	Symbol         string          `gorm:"not null" json:"symbol"`
	PriceThreshold decimal.Decimal `gorm:"type:numeric(18,4);not null" json:"price_threshold"`
	Condition      AlertCondition  `gorm:"not null" json:"condition"`
	Email          string          `gorm:"not null" json:"email"`
	IsActive       bool            `gorm:"not null;default:true" json:"is_active"`

	// Relationships
	Portfolio Portfolio `gorm:"foreignKey:PortfolioID" json:"-"`
}

// Triggered reports whether the alert condition holds at the given price.
func (a *Alert) Triggered(price decimal.Decimal) bool {
	switch a.Condition {
	case AlertConditionAbove:
		return price.GreaterThan(a.PriceThreshold)
	case AlertConditionBelow:
		return price.LessThan(a.PriceThreshold)
	default:
		return false
	}
}
