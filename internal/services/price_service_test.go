package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"stocktracker/internal/cache"
	"stocktracker/internal/testutil"
)

func newTestPriceService(t *testing.T, provider *testutil.FakeProvider, c cache.Cache) PriceServicer {
	t.Helper()
	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, db) })

	return NewPriceService(db, c, provider, PriceConfig{
		QuoteTimeout: time.Second,
		QuoteTTL:     300 * time.Second,
		SyntheticTTL: 60 * time.Second,
		Rand:         func() float64 { return 0.5 }, // zero perturbation
	})
}

func TestGetPrice(t *testing.T) {
	ctx := context.Background()

	t.Run("fetches_and_caches_real_quote", func(t *testing.T) {
		provider := &testutil.FakeProvider{Prices: map[string]float64{"AAPL": 150.25}}
		svc := newTestPriceService(t, provider, cache.NewMemoryCache())

		quote, err := svc.GetPrice(ctx, "aapl")
		testutil.AssertNoError(t, err)

		if quote.Symbol != "AAPL" {
			t.Errorf("expected symbol AAPL, got %s", quote.Symbol)
		}
		if quote.IsSynthetic {
			t.Error("expected a real quote")
		}
		if !quote.Price.Equal(decimalFromFloat(150.25)) {
			t.Errorf("expected price 150.25, got %s", quote.Price)
		}

		// Second lookup is served from cache.
		_, err = svc.GetPrice(ctx, "AAPL")
		testutil.AssertNoError(t, err)
		if provider.Fetches() != 1 {
			t.Errorf("expected 1 provider fetch, got %d", provider.Fetches())
		}
	})

	t.Run("real_quote_appends_history", func(t *testing.T) {
		provider := &testutil.FakeProvider{Prices: map[string]float64{"AAPL": 150.25}}
		svc := newTestPriceService(t, provider, cache.NewMemoryCache())

		_, err := svc.GetPrice(ctx, "AAPL")
		testutil.AssertNoError(t, err)

		points, err := svc.GetHistory("AAPL", 10)
		testutil.AssertNoError(t, err)
		if len(points) != 1 {
			t.Fatalf("expected 1 history point, got %d", len(points))
		}
	})

	t.Run("provider_failure_degrades_to_synthetic", func(t *testing.T) {
		provider := &testutil.FakeProvider{} // every fetch fails
		svc := newTestPriceService(t, provider, cache.NewMemoryCache())

		quote, err := svc.GetPrice(ctx, "TSLA")
		testutil.AssertNoError(t, err)

		if !quote.IsSynthetic {
			t.Fatal("expected a synthetic quote")
		}
		// Rand is pinned to 0.5, so the perturbation is zero.
		if !quote.Price.Equal(decimalFromFloat(425.75)) {
			t.Errorf("expected base price 425.75, got %s", quote.Price)
		}
		if quote.Volume != 1000000 {
			t.Errorf("expected synthetic volume 1000000, got %d", quote.Volume)
		}
	})

	t.Run("unknown_symbol_synthetic_uses_default_base", func(t *testing.T) {
		provider := &testutil.FakeProvider{}
		svc := newTestPriceService(t, provider, cache.NewMemoryCache())

		quote, err := svc.GetPrice(ctx, "ZZZZ")
		testutil.AssertNoError(t, err)
		if !quote.Price.Equal(decimalFromFloat(100)) {
			t.Errorf("expected default base 100, got %s", quote.Price)
		}
	})

	t.Run("synthetic_quote_skips_history", func(t *testing.T) {
		provider := &testutil.FakeProvider{}
		svc := newTestPriceService(t, provider, cache.NewMemoryCache())

		_, err := svc.GetPrice(ctx, "TSLA")
		testutil.AssertNoError(t, err)

		points, err := svc.GetHistory("TSLA", 10)
		testutil.AssertNoError(t, err)
		if len(points) != 0 {
			t.Errorf("expected no history for synthetic quote, got %d points", len(points))
		}
	})

	t.Run("synthetic_ttl_expires_sooner", func(t *testing.T) {
		clock := testutil.NewManualClock(time.Now())
		provider := &testutil.FakeProvider{}
		svc := newTestPriceService(t, provider, cache.NewMemoryCacheWithClock(clock.Now))

		_, err := svc.GetPrice(ctx, "TSLA")
		testutil.AssertNoError(t, err)
		if provider.Fetches() != 1 {
			t.Fatalf("expected 1 fetch, got %d", provider.Fetches())
		}

		// Still inside the 60s synthetic TTL: cache serves the quote.
		clock.Advance(59 * time.Second)
		_, err = svc.GetPrice(ctx, "TSLA")
		testutil.AssertNoError(t, err)
		if provider.Fetches() != 1 {
			t.Errorf("expected cached synthetic at 59s, got %d fetches", provider.Fetches())
		}

		// Past the TTL the provider is retried.
		clock.Advance(2 * time.Second)
		_, err = svc.GetPrice(ctx, "TSLA")
		testutil.AssertNoError(t, err)
		if provider.Fetches() != 2 {
			t.Errorf("expected provider retry after synthetic TTL, got %d fetches", provider.Fetches())
		}
	})

	t.Run("provider_recovery_replaces_synthetic", func(t *testing.T) {
		clock := testutil.NewManualClock(time.Now())
		provider := &testutil.FakeProvider{}
		svc := newTestPriceService(t, provider, cache.NewMemoryCacheWithClock(clock.Now))

		quote, err := svc.GetPrice(ctx, "AAPL")
		testutil.AssertNoError(t, err)
		if !quote.IsSynthetic {
			t.Fatal("expected synthetic while provider is down")
		}

		provider.Prices = map[string]float64{"AAPL": 151}
		clock.Advance(61 * time.Second)

		quote, err = svc.GetPrice(ctx, "AAPL")
		testutil.AssertNoError(t, err)
		if quote.IsSynthetic {
			t.Error("expected a real quote after provider recovery")
		}
	})

	t.Run("cache_failure_is_fatal", func(t *testing.T) {
		provider := &testutil.FakeProvider{Prices: map[string]float64{"AAPL": 150}}
		svc := newTestPriceService(t, provider, &testutil.FailingCache{Err: errors.New("redis down")})

		_, err := svc.GetPrice(ctx, "AAPL")
		testutil.AssertAppError(t, err, "PRICE_LOOKUP_FAILED")
	})
}

func TestGetPrices(t *testing.T) {
	ctx := context.Background()
	provider := &testutil.FakeProvider{Prices: map[string]float64{"AAPL": 150, "MSFT": 420}}
	svc := newTestPriceService(t, provider, cache.NewMemoryCache())

	quotes, err := svc.GetPrices(ctx, []string{"AAPL", "MSFT"})
	testutil.AssertNoError(t, err)

	if len(quotes) != 2 {
		t.Fatalf("expected 2 quotes, got %d", len(quotes))
	}
	if quotes[0].Symbol != "AAPL" || quotes[1].Symbol != "MSFT" {
		t.Errorf("expected input order preserved, got %s %s", quotes[0].Symbol, quotes[1].Symbol)
	}
}

func TestGetHistory(t *testing.T) {
	t.Run("chronological_order_with_limit", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewPriceService(db, cache.NewMemoryCache(), &testutil.FakeProvider{}, PriceConfig{
			QuoteTimeout: time.Second,
			QuoteTTL:     300 * time.Second,
			SyntheticTTL: 60 * time.Second,
		})

		testutil.CreateTestPricePoints(t, db, "AAPL", []float64{100, 101, 102, 103, 104})

		points, err := svc.GetHistory("AAPL", 3)
		testutil.AssertNoError(t, err)

		if len(points) != 3 {
			t.Fatalf("expected 3 points, got %d", len(points))
		}
		// Most recent three, oldest first.
		for i, want := range []float64{102, 103, 104} {
			if !points[i].Price.Equal(decimalFromFloat(want)) {
				t.Errorf("point %d: expected %v, got %s", i, want, points[i].Price)
			}
		}
	})

	t.Run("range_query", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewPriceService(db, cache.NewMemoryCache(), &testutil.FakeProvider{}, PriceConfig{
			QuoteTimeout: time.Second,
			QuoteTTL:     300 * time.Second,
			SyntheticTTL: 60 * time.Second,
		})

		all := testutil.CreateTestPricePoints(t, db, "AAPL", []float64{100, 101, 102, 103})

		points, err := svc.GetHistoryRange("AAPL", all[1].RecordedAt, all[2].RecordedAt)
		testutil.AssertNoError(t, err)
		if len(points) != 2 {
			t.Fatalf("expected 2 points in range, got %d", len(points))
		}
	})

	t.Run("ignores_other_symbols", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewPriceService(db, cache.NewMemoryCache(), &testutil.FakeProvider{}, PriceConfig{
			QuoteTimeout: time.Second,
			QuoteTTL:     300 * time.Second,
			SyntheticTTL: 60 * time.Second,
		})

		testutil.CreateTestPricePoints(t, db, "AAPL", []float64{100})
		testutil.CreateTestPricePoints(t, db, "MSFT", []float64{400})

		points, err := svc.GetHistory("AAPL", 10)
		testutil.AssertNoError(t, err)
		if len(points) != 1 {
			t.Fatalf("expected 1 point, got %d", len(points))
		}
		if points[0].Symbol != "AAPL" {
			t.Errorf("expected AAPL point, got %s", points[0].Symbol)
		}
	})
}
