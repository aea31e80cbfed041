package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"time"

	"coinrates/internal/domain"
	"coinrates/internal/fetchx"

	"go.opentelemetry.io/otel/trace"
)

const okxBaseURL = "https://www.okx.com"

// OKXProvider pulls per-pair tickers from OKX. The endpoint has no direct
// 24h percent field, so the change is derived from last vs open24h.
type OKXProvider struct {
	client  *fetchx.Client
	baseURL string
	timeout time.Duration
	retries int
	tracer  trace.Tracer
}

func NewOKXProvider(client *fetchx.Client, timeout time.Duration, retries int, tracer trace.Tracer) *OKXProvider {
	return &OKXProvider{
		client:  client,
		baseURL: okxBaseURL,
		timeout: timeout,
		retries: retries,
		tracer:  tracer,
	}
}

func (p *OKXProvider) Name() string { return "okx" }

func (p *OKXProvider) Accept(rates []domain.CryptoRate) bool { return majority(rates) }

func (p *OKXProvider) FetchRates(ctx context.Context) ([]domain.CryptoRate, error) {
	ctx, span := p.tracer.Start(ctx, "okx.fetch-rates")
	defer span.End()

	var rates []domain.CryptoRate
	for _, symbol := range domain.RequiredCryptoSymbols {
		rate, err := p.fetchSymbol(ctx, symbol)
		if err != nil {
			log.Printf("okx: %s skipped: %v", symbol, err)
			continue
		}
		rates = append(rates, *rate)
	}
	return rates, nil
}

func (p *OKXProvider) fetchSymbol(ctx context.Context, symbol string) (*domain.CryptoRate, error) {
	url := fmt.Sprintf("%s/api/v5/market/ticker?instId=%s-USDT", p.baseURL, symbol)
	body, err := p.client.GetWithRetry(ctx, url, p.timeout, p.retries)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Code string `json:"code"`
		Data []struct {
			InstID  string `json:"instId"`
			Last    string `json:"last"`
			Open24h string `json:"open24h"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("parse ticker for %s: %w", symbol, err)
	}
	if payload.Code != "0" || len(payload.Data) == 0 {
		return nil, fmt.Errorf("ticker for %s unavailable (code %s)", symbol, payload.Code)
	}

	item := payload.Data[0]
	last, err := strconv.ParseFloat(item.Last, 64)
	if err != nil {
		return nil, fmt.Errorf("parse last price for %s: %w", symbol, err)
	}
	open24h, err := strconv.ParseFloat(item.Open24h, 64)
	if err != nil {
		return nil, fmt.Errorf("parse open24h for %s: %w", symbol, err)
	}
	if open24h == 0 {
		return nil, fmt.Errorf("zero open24h for %s", symbol)
	}
	change := strconv.FormatFloat((last-open24h)/open24h*100, 'f', 2, 64)

	return &domain.CryptoRate{
		Symbol:    symbol,
		Name:      domain.CryptoName(symbol),
		PriceUSD:  item.Last,
		Change24h: change,
	}, nil
}
