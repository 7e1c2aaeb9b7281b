package jobs

import (
	"testing"
	"time"

	"stocktracker/internal/testutil"
)

func TestPriceUpdatePumpRun(t *testing.T) {
	t.Run("refreshes_watch_list_in_order", func(t *testing.T) {
		prices := newCountingPrices(map[string]float64{"AAPL": 245, "GOOGL": 175, "MSFT": 420})
		pump := NewPriceUpdatePump(prices, []string{"AAPL", "GOOGL", "MSFT"}, 200*time.Millisecond)

		var pauses []time.Duration
		pump.sleep = func(d time.Duration) { pauses = append(pauses, d) }

		testutil.AssertNoError(t, pump.Run())

		for _, symbol := range []string{"AAPL", "GOOGL", "MSFT"} {
			if prices.lookupCount(symbol) != 1 {
				t.Errorf("expected 1 refresh for %s, got %d", symbol, prices.lookupCount(symbol))
			}
		}

		// Pacing applies between symbols, not after the last one.
		if len(pauses) != 2 {
			t.Fatalf("expected 2 pauses for 3 symbols, got %d", len(pauses))
		}
		for _, d := range pauses {
			if d != 200*time.Millisecond {
				t.Errorf("expected 200ms pause, got %s", d)
			}
		}
	})

	t.Run("failed_symbol_does_not_abort", func(t *testing.T) {
		prices := newCountingPrices(map[string]float64{"AAPL": 245, "MSFT": 420})
		pump := NewPriceUpdatePump(prices, []string{"AAPL", "FAIL", "MSFT"}, time.Millisecond)
		pump.sleep = func(time.Duration) {}

		testutil.AssertNoError(t, pump.Run())

		if prices.lookupCount("MSFT") != 1 {
			t.Errorf("expected MSFT refreshed after FAIL, got %d lookups", prices.lookupCount("MSFT"))
		}
	})

	t.Run("empty_watch_list", func(t *testing.T) {
		prices := newCountingPrices(nil)
		pump := NewPriceUpdatePump(prices, nil, time.Millisecond)

		testutil.AssertNoError(t, pump.Run())
	})
}
