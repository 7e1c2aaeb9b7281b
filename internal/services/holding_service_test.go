package services

import (
	"testing"
	"time"

	"stocktracker/internal/testutil"

	"github.com/shopspring/decimal"
)

func TestCreateHolding(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewHoldingService(db)
		p := testutil.CreateTestPortfolio(t, db)

		holding, err := svc.CreateHolding(p.ID, "aapl", decimal.NewFromInt(10), decimal.NewFromFloat(100.50), time.Now())
		testutil.AssertNoError(t, err)

		if holding.Symbol != "AAPL" {
			t.Errorf("expected symbol uppercased to AAPL, got %s", holding.Symbol)
		}
		if !holding.Quantity.Equal(decimal.NewFromInt(10)) {
			t.Errorf("expected quantity 10, got %s", holding.Quantity)
		}
	})

	t.Run("missing_portfolio", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewHoldingService(db)

		_, err := svc.CreateHolding("00000000-0000-0000-0000-000000000000", "AAPL",
			decimal.NewFromInt(10), decimal.NewFromInt(100), time.Now())
		testutil.AssertAppError(t, err, "PORTFOLIO_NOT_FOUND")
	})

	t.Run("non_positive_quantity", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewHoldingService(db)
		p := testutil.CreateTestPortfolio(t, db)

		_, err := svc.CreateHolding(p.ID, "AAPL", decimal.Zero, decimal.NewFromInt(100), time.Now())
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("negative_price", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewHoldingService(db)
		p := testutil.CreateTestPortfolio(t, db)

		_, err := svc.CreateHolding(p.ID, "AAPL", decimal.NewFromInt(1), decimal.NewFromInt(-5), time.Now())
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestGetPortfolioHoldings(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewHoldingService(db)
	p1 := testutil.CreateTestPortfolio(t, db)
	p2 := testutil.CreateTestPortfolio(t, db)

	testutil.CreateTestHolding(t, db, p1.ID, "MSFT", 5, 400)
	testutil.CreateTestHolding(t, db, p1.ID, "AAPL", 10, 100)
	testutil.CreateTestHolding(t, db, p2.ID, "TSLA", 2, 425)

	holdings, err := svc.GetPortfolioHoldings(p1.ID)
	testutil.AssertNoError(t, err)

	if len(holdings) != 2 {
		t.Fatalf("expected 2 holdings, got %d", len(holdings))
	}
	// Ordered by symbol.
	if holdings[0].Symbol != "AAPL" || holdings[1].Symbol != "MSFT" {
		t.Errorf("expected AAPL, MSFT order, got %s, %s", holdings[0].Symbol, holdings[1].Symbol)
	}
}

func TestUpdateHolding(t *testing.T) {
	t.Run("adjusts_quantity", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewHoldingService(db)
		p := testutil.CreateTestPortfolio(t, db)
		h := testutil.CreateTestHolding(t, db, p.ID, "AAPL", 10, 100)

		updated, err := svc.UpdateHolding(h.ID, decimal.NewFromInt(20), decimal.Zero)
		testutil.AssertNoError(t, err)

		got, err := svc.GetHoldingByID(updated.ID)
		testutil.AssertNoError(t, err)
		if !got.Quantity.Equal(decimal.NewFromInt(20)) {
			t.Errorf("expected quantity 20, got %s", got.Quantity)
		}
		if !got.PurchasePrice.Equal(decimal.NewFromInt(100)) {
			t.Errorf("expected purchase price unchanged at 100, got %s", got.PurchasePrice)
		}
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewHoldingService(db)

		_, err := svc.UpdateHolding("00000000-0000-0000-0000-000000000000", decimal.NewFromInt(1), decimal.Zero)
		testutil.AssertAppError(t, err, "HOLDING_NOT_FOUND")
	})
}

func TestDeleteHolding(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewHoldingService(db)
	p := testutil.CreateTestPortfolio(t, db)
	h := testutil.CreateTestHolding(t, db, p.ID, "AAPL", 10, 100)

	testutil.AssertNoError(t, svc.DeleteHolding(h.ID))

	_, err := svc.GetHoldingByID(h.ID)
	testutil.AssertAppError(t, err, "HOLDING_NOT_FOUND")
}
