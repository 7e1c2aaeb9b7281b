package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"stocktracker/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestPortfolio creates a portfolio with a unique name.
func CreateTestPortfolio(t *testing.T, db *gorm.DB) *models.Portfolio {
	t.Helper()

	portfolio := &models.Portfolio{
		UserID: fmt.Sprintf("user-%d", nextID()),
		Name:   fmt.Sprintf("Test Portfolio %d", nextID()),
	}
	if err := db.Create(portfolio).Error; err != nil {
		t.Fatalf("failed to create test portfolio: %v", err)
	}
	return portfolio
}

// CreateTestHolding creates a holding with the given position.
func CreateTestHolding(t *testing.T, db *gorm.DB, portfolioID, symbol string, quantity, purchasePrice float64) *models.Holding {
	t.Helper()

	holding := &models.Holding{
		PortfolioID:   portfolioID,
		Symbol:        symbol,
		Quantity:      decimal.NewFromFloat(quantity),
		PurchasePrice: decimal.NewFromFloat(purchasePrice),
		PurchaseDate:  time.Now().Add(-24 * time.Hour),
	}
	if err := db.Create(holding).Error; err != nil {
		t.Fatalf("failed to create test holding: %v", err)
	}
	return holding
}

// CreateTestAlert creates an active alert on the portfolio.
func CreateTestAlert(t *testing.T, db *gorm.DB, portfolioID, symbol string, threshold float64, condition models.AlertCondition) *models.Alert {
	t.Helper()

	alert := &models.Alert{
		PortfolioID:    portfolioID,
		Symbol:         symbol,
		PriceThreshold: decimal.NewFromFloat(threshold),
		Condition:      condition,
		Email:          fmt.Sprintf("holder%d@test.com", nextID()),
		IsActive:       true,
	}
	if err := db.Create(alert).Error; err != nil {
		t.Fatalf("failed to create test alert: %v", err)
	}
	return alert
}

// CreateTestPricePoints records a chronological price series for symbol,
// one point per day ending yesterday.
func CreateTestPricePoints(t *testing.T, db *gorm.DB, symbol string, prices []float64) []models.PricePoint {
	t.Helper()

	points := make([]models.PricePoint, 0, len(prices))
	start := time.Now().AddDate(0, 0, -len(prices))
	for i, p := range prices {
		point := models.PricePoint{
			Symbol:     symbol,
			Price:      decimal.NewFromFloat(p),
			Volume:     1000,
			RecordedAt: start.AddDate(0, 0, i),
		}
		if err := db.Create(&point).Error; err != nil {
			t.Fatalf("failed to create test price point: %v", err)
		}
		points = append(points, point)
	}
	return points
}
