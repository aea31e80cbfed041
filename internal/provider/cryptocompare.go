package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"coinrates/internal/domain"
	"coinrates/internal/fetchx"

	"go.opentelemetry.io/otel/trace"
)

const cryptoCompareBaseURL = "https://min-api.cryptocompare.com"

// CryptoCompareProvider is the last fallback: a single pricemultifull
// call returning full-precision raw data for the target symbols.
type CryptoCompareProvider struct {
	client  *fetchx.Client
	baseURL string
	timeout time.Duration
	retries int
	tracer  trace.Tracer
}

func NewCryptoCompareProvider(client *fetchx.Client, timeout time.Duration, retries int, tracer trace.Tracer) *CryptoCompareProvider {
	return &CryptoCompareProvider{
		client:  client,
		baseURL: cryptoCompareBaseURL,
		timeout: timeout,
		retries: retries,
		tracer:  tracer,
	}
}

func (p *CryptoCompareProvider) Name() string { return "cryptocompare" }

func (p *CryptoCompareProvider) Accept(rates []domain.CryptoRate) bool { return len(rates) > 0 }

func (p *CryptoCompareProvider) FetchRates(ctx context.Context) ([]domain.CryptoRate, error) {
	ctx, span := p.tracer.Start(ctx, "cryptocompare.fetch-rates")
	defer span.End()

	url := p.baseURL + "/data/pricemultifull?fsyms=BTC,ETH,DOGE,SOL,USDT&tsyms=USD"
	body, err := p.client.GetWithRetry(ctx, url, p.timeout, p.retries)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Raw map[string]struct {
			USD struct {
				Price          float64 `json:"PRICE"`
				ChangePct24Hrs float64 `json:"CHANGEPCT24HOUR"`
			} `json:"USD"`
		} `json:"RAW"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("parse pricemultifull: %w", err)
	}
	if payload.Raw == nil {
		return nil, fmt.Errorf("response missing RAW section")
	}

	var rates []domain.CryptoRate
	for _, symbol := range []string{"BTC", "ETH", "DOGE", "SOL", "USDT"} {
		entry, ok := payload.Raw[symbol]
		if !ok {
			if symbol == "USDT" {
				rates = append(rates, domain.CryptoRate{
					Symbol:    "USDT",
					Name:      domain.CryptoName("USDT"),
					PriceUSD:  "1.0",
					Change24h: "0.0",
				})
			}
			continue
		}
		rates = append(rates, domain.CryptoRate{
			Symbol:    symbol,
			Name:      domain.CryptoName(symbol),
			PriceUSD:  formatFloat(entry.USD.Price),
			Change24h: formatFloat(entry.USD.ChangePct24Hrs),
		})
	}
	return rates, nil
}
