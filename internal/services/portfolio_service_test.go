package services

import (
	"testing"

	"stocktracker/internal/pagination"
	"stocktracker/internal/testutil"
)

func TestCreatePortfolio(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewPortfolioService(db)

		portfolio, err := svc.CreatePortfolio("user-1", "Growth")
		testutil.AssertNoError(t, err)

		if portfolio.ID == "" {
			t.Fatal("expected non-empty portfolio ID")
		}
		if portfolio.Name != "Growth" {
			t.Errorf("expected name Growth, got %s", portfolio.Name)
		}
	})

	t.Run("missing_name", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewPortfolioService(db)

		_, err := svc.CreatePortfolio("user-1", "  ")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("missing_user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewPortfolioService(db)

		_, err := svc.CreatePortfolio("", "Growth")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestGetUserPortfolios(t *testing.T) {
	t.Run("returns_user_portfolios_only", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewPortfolioService(db)

		_, err := svc.CreatePortfolio("user-1", "First")
		testutil.AssertNoError(t, err)
		_, err = svc.CreatePortfolio("user-1", "Second")
		testutil.AssertNoError(t, err)
		_, err = svc.CreatePortfolio("user-2", "Other")
		testutil.AssertNoError(t, err)

		page := pagination.PageRequest{Page: 1, PageSize: 20}
		result, err := svc.GetUserPortfolios("user-1", page)
		testutil.AssertNoError(t, err)

		if result.TotalItems != 2 {
			t.Errorf("expected 2 portfolios, got %d", result.TotalItems)
		}
	})
}

func TestGetPortfolioByID(t *testing.T) {
	t.Run("found_with_holdings", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewPortfolioService(db)
		p := testutil.CreateTestPortfolio(t, db)
		testutil.CreateTestHolding(t, db, p.ID, "AAPL", 10, 100)

		got, err := svc.GetPortfolioByID(p.ID)
		testutil.AssertNoError(t, err)

		if got.ID != p.ID {
			t.Errorf("expected portfolio %s, got %s", p.ID, got.ID)
		}
		if len(got.Holdings) != 1 {
			t.Errorf("expected 1 preloaded holding, got %d", len(got.Holdings))
		}
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewPortfolioService(db)

		_, err := svc.GetPortfolioByID("00000000-0000-0000-0000-000000000000")
		testutil.AssertAppError(t, err, "PORTFOLIO_NOT_FOUND")
	})
}

func TestUpdatePortfolio(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewPortfolioService(db)
	p := testutil.CreateTestPortfolio(t, db)

	updated, err := svc.UpdatePortfolio(p.ID, "Renamed")
	testutil.AssertNoError(t, err)

	if updated.Name != "Renamed" {
		t.Errorf("expected Renamed, got %s", updated.Name)
	}
}

func TestDeletePortfolio(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewPortfolioService(db)
	p := testutil.CreateTestPortfolio(t, db)

	testutil.AssertNoError(t, svc.DeletePortfolio(p.ID))

	_, err := svc.GetPortfolioByID(p.ID)
	testutil.AssertAppError(t, err, "PORTFOLIO_NOT_FOUND")
}
