package testutil

import (
	"context"
	"strings"
	"sync"
	"time"

	"stocktracker/internal/quotes"

	"github.com/shopspring/decimal"
)

// FakeProvider is a quotes.Provider serving canned prices from a map.
// Symbols without an entry fail with Err (or a generic error if unset),
// which is how tests force the degraded synthetic path.
type FakeProvider struct {
	mu      sync.Mutex
	Prices  map[string]float64
	Err     error
	fetches int
}

// Name returns the provider's display name.
func (p *FakeProvider) Name() string { return "fake" }

// Fetch serves the canned price for symbol.
func (p *FakeProvider) Fetch(_ context.Context, symbol string) (*quotes.Quote, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.fetches++

	symbol = strings.ToUpper(symbol)
	price, ok := p.Prices[symbol]
	if !ok {
		if p.Err != nil {
			return nil, p.Err
		}
		return nil, &quotes.ProviderError{Symbol: symbol, Err: context.DeadlineExceeded}
	}

	return &quotes.Quote{
		Symbol:    symbol,
		Price:     decimal.NewFromFloat(price),
		Volume:    5000,
		Timestamp: time.Now().UTC(),
	}, nil
}

// Fetches reports how many times Fetch was called.
func (p *FakeProvider) Fetches() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.fetches
}

// FailingCache is a cache.Cache whose every operation fails with Err,
// for exercising substrate-failure paths.
type FailingCache struct {
	Err error
}

func (c *FailingCache) Get(context.Context, string) ([]byte, error) { return nil, c.Err }

func (c *FailingCache) SetWithTTL(context.Context, string, []byte, time.Duration) error {
	return c.Err
}

func (c *FailingCache) Delete(context.Context, string) error { return c.Err }

// SentMessage is one email recorded by FakeNotifier.
type SentMessage struct {
	To      string
	Subject string
	Body    string
}

// FakeNotifier records sent messages instead of delivering them.
type FakeNotifier struct {
	mu   sync.Mutex
	Err  error
	sent []SentMessage
}

// Send records the message, or fails with Err if set.
func (n *FakeNotifier) Send(to, subject, body string) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.Err != nil {
		return n.Err
	}
	n.sent = append(n.sent, SentMessage{To: to, Subject: subject, Body: body})
	return nil
}

// Sent returns a copy of the recorded messages.
func (n *FakeNotifier) Sent() []SentMessage {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]SentMessage, len(n.sent))
	copy(out, n.sent)
	return out
}

// StubBetaSource serves betas from a fixed map, defaulting to 1.0.
type StubBetaSource struct {
	Betas map[string]float64
}

// Beta returns the stubbed beta for symbol.
func (s *StubBetaSource) Beta(symbol string) (float64, error) {
	if b, ok := s.Betas[strings.ToUpper(symbol)]; ok {
		return b, nil
	}
	return 1.0, nil
}

// ManualClock is a settable clock for cache TTL tests.
type ManualClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewManualClock creates a clock frozen at start.
func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start}
}

// Now returns the current frozen time.
func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
