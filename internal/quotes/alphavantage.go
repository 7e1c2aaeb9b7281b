package quotes

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const alphaVantageBaseURL = "https://www.alphavantage.co/query"

// globalQuoteResponse is the Alpha Vantage GLOBAL_QUOTE payload. Field
// names carry the numbered prefixes the API actually uses.
type globalQuoteResponse struct {
	GlobalQuote struct {
		Symbol        string `json:"01. symbol"`
		Price         string `json:"05. price"`
		Volume        string `json:"06. volume"`
		Change        string `json:"09. change"`
		ChangePercent string `json:"10. change percent"`
	} `json:"Global Quote"`
}

// AlphaVantageProvider fetches quotes from the Alpha Vantage GLOBAL_QUOTE endpoint.
type AlphaVantageProvider struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string // overridable for tests
}

// NewAlphaVantageProvider creates a new Alpha Vantage quote provider.
func NewAlphaVantageProvider(httpClient *http.Client, apiKey string) *AlphaVantageProvider {
	return &AlphaVantageProvider{
		httpClient: httpClient,
		apiKey:     apiKey,
		baseURL:    alphaVantageBaseURL,
	}
}

// Name returns the provider's display name.
func (p *AlphaVantageProvider) Name() string { return "Alpha Vantage" }

// Fetch returns the latest quote for symbol. Any failure (request,
// status, decode, missing price) is reported as a *ProviderError.
func (p *AlphaVantageProvider) Fetch(ctx context.Context, symbol string) (*Quote, error) {
	params := url.Values{}
	params.Set("function", "GLOBAL_QUOTE")
	params.Set("symbol", symbol)
	params.Set("apikey", p.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, &ProviderError{Symbol: symbol, Err: fmt.Errorf("building request: %w", err)}
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, &ProviderError{Symbol: symbol, Err: fmt.Errorf("http request: %w", err)}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, &ProviderError{Symbol: symbol, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	var quoteResp globalQuoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&quoteResp); err != nil {
		return nil, &ProviderError{Symbol: symbol, Err: fmt.Errorf("decoding response: %w", err)}
	}

	raw := quoteResp.GlobalQuote
	if raw.Price == "" {
		// Rate-limited or unknown symbols come back as an empty object.
		return nil, &ProviderError{Symbol: symbol, Err: fmt.Errorf("no quote data for %s", symbol)}
	}

	price, err := decimal.NewFromString(raw.Price)
	if err != nil {
		return nil, &ProviderError{Symbol: symbol, Err: fmt.Errorf("parsing price %q: %w", raw.Price, err)}
	}

	return &Quote{
		Symbol:        strings.ToUpper(symbol),
		Price:         price,
		Volume:        parseVolume(raw.Volume),
		Change:        parseDecimal(raw.Change),
		ChangePercent: parsePercent(raw.ChangePercent),
		Timestamp:     time.Now().UTC(),
	}, nil
}

// parseVolume parses the volume field, defaulting to 0 on bad input.
func parseVolume(s string) int64 {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return v
}

// parseDecimal parses an optional decimal field, defaulting to zero.
func parseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// parsePercent parses a percent field like "1.0846%".
func parsePercent(s string) decimal.Decimal {
	return parseDecimal(strings.TrimSuffix(strings.TrimSpace(s), "%"))
}
