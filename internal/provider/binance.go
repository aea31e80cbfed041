package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"coinrates/internal/domain"
	"coinrates/internal/fetchx"

	"go.opentelemetry.io/otel/trace"
)

const (
	binanceFastBaseURL = "https://api1.binance.com"
	binanceBaseURL     = "https://api.binance.com"
)

type binancePrice struct {
	Symbol string `json:"symbol"`
	Price  string `json:"price"`
}

type binanceChange struct {
	Symbol             string `json:"symbol"`
	PriceChangePercent string `json:"priceChangePercent"`
}

// BinanceTickerProvider resolves each required symbol with two small
// per-pair calls (price, then 24h change). Individual lookups are cheap
// and less likely to be blocked than the bulk endpoints, so this is the
// primary source.
type BinanceTickerProvider struct {
	client  *fetchx.Client
	baseURL string
	timeout time.Duration
	retries int
	tracer  trace.Tracer
}

func NewBinanceTickerProvider(client *fetchx.Client, timeout time.Duration, retries int, tracer trace.Tracer) *BinanceTickerProvider {
	return &BinanceTickerProvider{
		client:  client,
		baseURL: binanceFastBaseURL,
		timeout: timeout,
		retries: retries,
		tracer:  tracer,
	}
}

func (p *BinanceTickerProvider) Name() string { return "binance-ticker" }

func (p *BinanceTickerProvider) Accept(rates []domain.CryptoRate) bool { return majority(rates) }

func (p *BinanceTickerProvider) FetchRates(ctx context.Context) ([]domain.CryptoRate, error) {
	ctx, span := p.tracer.Start(ctx, "binance-ticker.fetch-rates")
	defer span.End()

	var rates []domain.CryptoRate
	for _, symbol := range domain.RequiredCryptoSymbols {
		rate, err := p.fetchSymbol(ctx, symbol)
		if err != nil {
			log.Printf("binance-ticker: %s skipped: %v", symbol, err)
			continue
		}
		rates = append(rates, *rate)
	}
	return rates, nil
}

func (p *BinanceTickerProvider) fetchSymbol(ctx context.Context, symbol string) (*domain.CryptoRate, error) {
	priceURL := fmt.Sprintf("%s/api/v3/ticker/price?symbol=%sUSDT", p.baseURL, symbol)
	body, err := p.client.GetWithRetry(ctx, priceURL, p.timeout, p.retries)
	if err != nil {
		return nil, err
	}
	var price binancePrice
	if err := json.Unmarshal(body, &price); err != nil {
		return nil, fmt.Errorf("parse price for %s: %w", symbol, err)
	}

	changeURL := fmt.Sprintf("%s/api/v3/ticker/24hr?symbol=%sUSDT", p.baseURL, symbol)
	body, err = p.client.GetWithRetry(ctx, changeURL, p.timeout, p.retries)
	if err != nil {
		return nil, err
	}
	var change binanceChange
	if err := json.Unmarshal(body, &change); err != nil {
		return nil, fmt.Errorf("parse 24h change for %s: %w", symbol, err)
	}

	return &domain.CryptoRate{
		Symbol:    symbol,
		Name:      domain.CryptoName(symbol),
		PriceUSD:  price.Price,
		Change24h: change.PriceChangePercent,
	}, nil
}

// BinanceBulkProvider fetches the full price and 24h-change catalogs in
// two calls and picks the required USDT pairs out of them.
type BinanceBulkProvider struct {
	client  *fetchx.Client
	baseURL string
	timeout time.Duration
	retries int
	tracer  trace.Tracer
}

func NewBinanceBulkProvider(client *fetchx.Client, timeout time.Duration, retries int, tracer trace.Tracer) *BinanceBulkProvider {
	return &BinanceBulkProvider{
		client:  client,
		baseURL: binanceBaseURL,
		timeout: timeout,
		retries: retries,
		tracer:  tracer,
	}
}

func (p *BinanceBulkProvider) Name() string { return "binance-bulk" }

// Accept takes any result with at least one resolved pair: both bulk
// calls succeeding is already a strong signal the exchange is reachable.
func (p *BinanceBulkProvider) Accept(rates []domain.CryptoRate) bool {
	return countNonUSDT(rates) >= 1
}

func (p *BinanceBulkProvider) FetchRates(ctx context.Context) ([]domain.CryptoRate, error) {
	ctx, span := p.tracer.Start(ctx, "binance-bulk.fetch-rates")
	defer span.End()

	body, err := p.client.GetWithRetry(ctx, p.baseURL+"/api/v3/ticker/price", p.timeout, p.retries)
	if err != nil {
		return nil, err
	}
	var prices []binancePrice
	if err := json.Unmarshal(body, &prices); err != nil {
		return nil, fmt.Errorf("parse bulk prices: %w", err)
	}

	body, err = p.client.GetWithRetry(ctx, p.baseURL+"/api/v3/ticker/24hr", p.timeout, p.retries)
	if err != nil {
		return nil, err
	}
	var changes []binanceChange
	if err := json.Unmarshal(body, &changes); err != nil {
		return nil, fmt.Errorf("parse bulk 24h changes: %w", err)
	}

	priceByPair := make(map[string]string, len(prices))
	for _, item := range prices {
		priceByPair[item.Symbol] = item.Price
	}
	changeByPair := make(map[string]string, len(changes))
	for _, item := range changes {
		changeByPair[item.Symbol] = item.PriceChangePercent
	}

	var rates []domain.CryptoRate
	for _, symbol := range domain.RequiredCryptoSymbols {
		pair := symbol + "USDT"
		price, ok := priceByPair[pair]
		if !ok {
			continue
		}
		change := changeByPair[pair]
		if change == "" {
			change = "0.0"
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

// BinanceAvgProvider uses the avgPrice endpoint. It carries no 24h
// statistics, so change defaults to "0.0".
type BinanceAvgProvider struct {
	client  *fetchx.Client
	baseURL string
	timeout time.Duration
	retries int
	tracer  trace.Tracer
}

func NewBinanceAvgProvider(client *fetchx.Client, timeout time.Duration, retries int, tracer trace.Tracer) *BinanceAvgProvider {
	return &BinanceAvgProvider{
		client:  client,
		baseURL: binanceBaseURL,
		timeout: timeout,
		retries: retries,
		tracer:  tracer,
	}
}

func (p *BinanceAvgProvider) Name() string { return "binance-avgprice" }

func (p *BinanceAvgProvider) Accept(rates []domain.CryptoRate) bool { return majority(rates) }

func (p *BinanceAvgProvider) FetchRates(ctx context.Context) ([]domain.CryptoRate, error) {
	ctx, span := p.tracer.Start(ctx, "binance-avgprice.fetch-rates")
	defer span.End()

	var rates []domain.CryptoRate
	for _, symbol := range domain.RequiredCryptoSymbols {
		url := fmt.Sprintf("%s/api/v3/avgPrice?symbol=%sUSDT", p.baseURL, symbol)
		body, err := p.client.GetWithRetry(ctx, url, p.timeout, p.retries)
		if err != nil {
			log.Printf("binance-avgprice: %s skipped: %v", symbol, err)
			continue
		}
		var avg struct {
			Mins  int    `json:"mins"`
			Price string `json:"price"`
		}
		if err := json.Unmarshal(body, &avg); err != nil || avg.Price == "" {
			log.Printf("binance-avgprice: %s skipped: bad payload", symbol)
			continue
		}
		rates = append(rates, domain.CryptoRate{
			Symbol:    symbol,
			Name:      domain.CryptoName(symbol),
			PriceUSD:  avg.Price,
			Change24h: "0.0",
		})
	}
	return rates, nil
}
