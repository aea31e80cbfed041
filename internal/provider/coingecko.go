package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"coinrates/internal/domain"
	"coinrates/internal/fetchx"

	"go.opentelemetry.io/otel/trace"
)

const coingeckoBaseURL = "https://api.coingecko.com/api/v3"

// CoinGeckoProvider fetches USD prices plus 24h change for all coins in a
// single call, keyed by CoinGecko coin id. It only covers the four coins
// with known ids; BNB is absent from its output and the whole result is
// rejected unless both BTC and ETH resolved.
type CoinGeckoProvider struct {
	client  *fetchx.Client
	baseURL string
	timeout time.Duration
	retries int
	tracer  trace.Tracer
	limiter *RateLimiter
}

// NewCoinGeckoProvider creates a provider with built-in rate limiting:
// the free tier allows roughly 8 calls per minute.
func NewCoinGeckoProvider(client *fetchx.Client, timeout time.Duration, retries int, tracer trace.Tracer) *CoinGeckoProvider {
	return &CoinGeckoProvider{
		client:  client,
		baseURL: coingeckoBaseURL,
		timeout: timeout,
		retries: retries,
		tracer:  tracer,
		limiter: NewRateLimiter(8, 7500*time.Millisecond),
	}
}

func (p *CoinGeckoProvider) Name() string { return "coingecko" }

func (p *CoinGeckoProvider) Accept(rates []domain.CryptoRate) bool { return len(rates) > 0 }

func (p *CoinGeckoProvider) FetchRates(ctx context.Context) ([]domain.CryptoRate, error) {
	ctx, span := p.tracer.Start(ctx, "coingecko.fetch-rates")
	defer span.End()

	if err := p.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	ids := make([]string, 0, len(domain.CoinGeckoID))
	for _, sym := range []string{"BTC", "ETH", "DOGE", "SOL"} {
		ids = append(ids, domain.CoinGeckoID[sym])
	}
	url := fmt.Sprintf("%s/simple/price?ids=%s&vs_currencies=usd&include_24hr_change=true",
		p.baseURL, strings.Join(ids, ","))

	body, err := p.client.GetWithRetry(ctx, url, p.timeout, p.retries)
	if err != nil {
		return nil, err
	}

	// Response shape: {"bitcoin": {"usd": 97000, "usd_24h_change": 2.34}, ...}
	var raw map[string]struct {
		USD       *float64 `json:"usd"`
		Change24h *float64 `json:"usd_24h_change"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("parse prices: %w", err)
	}

	btc, hasBTC := raw[domain.CoinGeckoID["BTC"]]
	eth, hasETH := raw[domain.CoinGeckoID["ETH"]]
	if !hasBTC || !hasETH || btc.USD == nil || eth.USD == nil {
		return nil, fmt.Errorf("response missing BTC or ETH")
	}

	// Build the fixed four-coin snapshot; coins the response skipped keep
	// a zero price rather than dropping out.
	var rates []domain.CryptoRate
	for _, symbol := range []string{"BTC", "ETH", "DOGE", "SOL"} {
		price := "0"
		change := "0.0"
		if entry, ok := raw[domain.CoinGeckoID[symbol]]; ok {
			if entry.USD != nil {
				price = formatFloat(*entry.USD)
			}
			if entry.Change24h != nil {
				change = formatFloat(*entry.Change24h)
			}
		}
		rates = append(rates, domain.CryptoRate{
			Symbol:    symbol,
			Name:      domain.CryptoName(symbol),
			PriceUSD:  price,
			Change24h: change,
		})
	}
	return rates, nil
}
