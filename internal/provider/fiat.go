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

// FiatAggregator is a USD-based full-catalog rate source. All three
// upstreams share the same {base, rates} response shape, so a single type
// parameterized by URL and acceptance floor covers the chain.
type FiatAggregator struct {
	name      string
	url       string
	minAccept int
	client    *fetchx.Client
	timeout   time.Duration
	retries   int
	tracer    trace.Tracer
}

// NewExchangeRateHost is the primary fiat aggregator (accept >= 10 codes).
func NewExchangeRateHost(client *fetchx.Client, timeout time.Duration, retries int, tracer trace.Tracer) *FiatAggregator {
	return &FiatAggregator{
		name:      "exchangerate-host",
		url:       "https://api.exchangerate.host/latest?base=USD",
		minAccept: 10,
		client:    client,
		timeout:   timeout,
		retries:   retries,
		tracer:    tracer,
	}
}

// NewFrankfurter is the secondary aggregator. Its catalog is smaller, so
// the acceptance floor is lower (>= 5 codes).
func NewFrankfurter(client *fetchx.Client, timeout time.Duration, retries int, tracer trace.Tracer) *FiatAggregator {
	return &FiatAggregator{
		name:      "frankfurter",
		url:       "https://api.frankfurter.app/latest?from=USD",
		minAccept: 5,
		client:    client,
		timeout:   timeout,
		retries:   retries,
		tracer:    tracer,
	}
}

// NewOpenERAPI is the tertiary aggregator (accept >= 10 codes).
func NewOpenERAPI(client *fetchx.Client, timeout time.Duration, retries int, tracer trace.Tracer) *FiatAggregator {
	return &FiatAggregator{
		name:      "open-er-api",
		url:       "https://open.er-api.com/v6/latest/USD",
		minAccept: 10,
		client:    client,
		timeout:   timeout,
		retries:   retries,
		tracer:    tracer,
	}
}

func (p *FiatAggregator) Name() string { return p.name }

func (p *FiatAggregator) MinAccept() int { return p.minAccept }

func (p *FiatAggregator) FetchRates(ctx context.Context) ([]domain.FiatRate, error) {
	ctx, span := p.tracer.Start(ctx, "fiat."+p.name+".fetch-rates")
	defer span.End()

	body, err := p.client.GetWithRetry(ctx, p.url, p.timeout, p.retries)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Base  string             `json:"base"`
		Rates map[string]float64 `json:"rates"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("parse rates: %w", err)
	}
	if payload.Rates == nil || payload.Base != "USD" {
		return nil, fmt.Errorf("unexpected response shape (base %q)", payload.Base)
	}

	// Filter to the candidate list, keeping its order. USD is pinned to 1.
	var rates []domain.FiatRate
	for _, code := range domain.FiatCandidateCodes {
		var rate float64
		if code == "USD" {
			rate = 1
		} else {
			v, ok := payload.Rates[code]
			if !ok {
				continue
			}
			rate = v
		}
		rates = append(rates, domain.FiatRate{
			Code:      code,
			Name:      domain.FiatName(code),
			RateToUSD: formatFloat(rate),
			Symbol:    domain.FiatSymbol(code),
		})
	}
	return rates, nil
}
