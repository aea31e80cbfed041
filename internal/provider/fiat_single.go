package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"coinrates/internal/fetchx"

	"go.opentelemetry.io/otel/trace"
)

// The single-rate sources back the fiat enrichment passes. Each resolves
// one currency's USD rate; the resolver walks them in a fixed order and
// takes the first success. No retries here — a miss just moves the chain
// along, and the enrichment pass runs after the main budget is spent.

// CurrencyAPISource reads the fawazahmed0 currency-api CDN mirror, which
// serves one small JSON document per currency pair.
type CurrencyAPISource struct {
	baseURL string
	client  *fetchx.Client
	timeout time.Duration
	tracer  trace.Tracer
}

func NewCurrencyAPISource(client *fetchx.Client, timeout time.Duration, tracer trace.Tracer) *CurrencyAPISource {
	return &CurrencyAPISource{
		baseURL: "https://cdn.jsdelivr.net/gh/fawazahmed0/currency-api@1/latest/currencies/usd",
		client:  client,
		timeout: timeout,
		tracer:  tracer,
	}
}

func (s *CurrencyAPISource) Name() string { return "currency-api" }

func (s *CurrencyAPISource) FetchRate(ctx context.Context, code string) (float64, error) {
	ctx, span := s.tracer.Start(ctx, "fiat-single.currency-api")
	defer span.End()

	key := strings.ToLower(code)
	body, err := s.client.Get(ctx, fmt.Sprintf("%s/%s.json", s.baseURL, key), s.timeout)
	if err != nil {
		return 0, err
	}

	// Response shape: {"date": "...", "twd": 31.2}
	var payload map[string]json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		return 0, fmt.Errorf("parse %s rate: %w", code, err)
	}
	raw, ok := payload[key]
	if !ok {
		return 0, fmt.Errorf("%s missing from response", code)
	}
	var rate float64
	if err := json.Unmarshal(raw, &rate); err != nil {
		return 0, fmt.Errorf("parse %s rate value: %w", code, err)
	}
	if rate == 0 {
		return 0, fmt.Errorf("zero rate for %s", code)
	}
	return rate, nil
}

// ratesDocSource covers the sources that return a {rates: {...}} document:
// exchangerate.host filtered to one symbol, moneyconvert's full table and
// open.er-api's full table.
type ratesDocSource struct {
	name    string
	urlFor  func(code string) string
	client  *fetchx.Client
	timeout time.Duration
	tracer  trace.Tracer
}

func (s *ratesDocSource) Name() string { return s.name }

func (s *ratesDocSource) FetchRate(ctx context.Context, code string) (float64, error) {
	ctx, span := s.tracer.Start(ctx, "fiat-single."+s.name)
	defer span.End()

	body, err := s.client.Get(ctx, s.urlFor(code), s.timeout)
	if err != nil {
		return 0, err
	}

	var payload struct {
		Rates map[string]float64 `json:"rates"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return 0, fmt.Errorf("parse %s rate: %w", code, err)
	}
	rate, ok := payload.Rates[code]
	if !ok || rate == 0 {
		return 0, fmt.Errorf("%s missing from response", code)
	}
	return rate, nil
}

func NewExchangeRateHostSingle(client *fetchx.Client, timeout time.Duration, tracer trace.Tracer) SingleRateSource {
	return &ratesDocSource{
		name: "exchangerate-host",
		urlFor: func(code string) string {
			return "https://api.exchangerate.host/latest?base=USD&symbols=" + code
		},
		client:  client,
		timeout: timeout,
		tracer:  tracer,
	}
}

func NewMoneyConvertSource(client *fetchx.Client, timeout time.Duration, tracer trace.Tracer) SingleRateSource {
	return &ratesDocSource{
		name: "moneyconvert",
		urlFor: func(string) string {
			return "https://cdn.moneyconvert.net/api/latest.json"
		},
		client:  client,
		timeout: timeout,
		tracer:  tracer,
	}
}

func NewOpenERAPISingle(client *fetchx.Client, timeout time.Duration, tracer trace.Tracer) SingleRateSource {
	return &ratesDocSource{
		name: "open-er-api",
		urlFor: func(string) string {
			return "https://open.er-api.com/v6/latest/USD"
		},
		client:  client,
		timeout: timeout,
		tracer:  tracer,
	}
}
