package jobs

import (
	"context"
	"time"

	"stocktracker/internal/logger"
	"stocktracker/internal/scheduler"
	"stocktracker/internal/services"
)

// PriceUpdatePump keeps the quote cache and price history warm for a
// fixed watch list. Each pass walks the list in order with a short
// pause between symbols so the provider is never hit in a burst.
type PriceUpdatePump struct {
	prices  services.PriceServicer
	symbols []string
	delay   time.Duration
	runner  *scheduler.IntervalRunner

	// sleep is swappable so tests do not wait out real pauses.
	sleep func(time.Duration)
}

// NewPriceUpdatePump creates a stopped pump refreshing the given
// symbols, pausing delay between consecutive fetches.
func NewPriceUpdatePump(prices services.PriceServicer, symbols []string, delay time.Duration) *PriceUpdatePump {
	p := &PriceUpdatePump{
		prices:  prices,
		symbols: symbols,
		delay:   delay,
		sleep:   time.Sleep,
	}
	p.runner = scheduler.NewIntervalRunner(p)
	return p
}

// Start begins recurring refreshes at the given interval. The first
// pass runs immediately. Starting an already-running pump is a no-op.
func (p *PriceUpdatePump) Start(interval time.Duration) error {
	return p.runner.Start(interval)
}

// Stop halts refreshes and waits for any in-flight pass to finish.
func (p *PriceUpdatePump) Stop() {
	p.runner.Stop()
}

// Name identifies the job in scheduler logs.
func (p *PriceUpdatePump) Name() string {
	return "price-update-pump"
}

// Run executes one refresh pass over the watch list. A failed symbol is
// logged and the pass moves on; the pacing delay applies between every
// pair of consecutive symbols, successful or not.
func (p *PriceUpdatePump) Run() error {
	ctx := context.Background()

	for i, symbol := range p.symbols {
		if i > 0 {
			p.sleep(p.delay)
		}

		quote, err := p.prices.GetPrice(ctx, symbol)
		if err != nil {
			logger.Get().Errorw("watch list refresh failed", "symbol", symbol, "error", err)
			continue
		}

		logger.Get().Debugw("refreshed watch list price",
			"symbol", symbol,
			"price", quote.Price.String(),
			"synthetic", quote.IsSynthetic,
		)
	}

	return nil
}
