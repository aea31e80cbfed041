package provider

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"coinrates/internal/domain"
	"coinrates/internal/fetchx"

	"go.opentelemetry.io/otel/trace"
)

var testTracer = trace.NewNoopTracerProvider().Tracer("test")

func makeRates(symbols ...string) []domain.CryptoRate {
	rates := make([]domain.CryptoRate, 0, len(symbols))
	for _, s := range symbols {
		rates = append(rates, domain.CryptoRate{Symbol: s, Name: s, PriceUSD: "1", Change24h: "0.0"})
	}
	return rates
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func fakeClient(fn roundTripFunc) *fetchx.Client {
	c := fetchx.New()
	c.HTTP = &http.Client{Transport: fn}
	c.RetryDelay = time.Millisecond
	return c
}

func jsonResponse(body string) *http.Response {
	return &http.Response{
		StatusCode: http.StatusOK,
		Status:     "200 OK",
		Body:       io.NopCloser(bytes.NewReader([]byte(body))),
		Header:     make(http.Header),
	}
}

func errorResponse(code int) *http.Response {
	return &http.Response{
		StatusCode: code,
		Status:     fmt.Sprintf("%d error", code),
		Body:       io.NopCloser(strings.NewReader("")),
		Header:     make(http.Header),
	}
}

func TestBinanceTickerFetchRatesSkipsFailedSymbols(t *testing.T) {
	t.Parallel()

	client := fakeClient(func(req *http.Request) (*http.Response, error) {
		pair := req.URL.Query().Get("symbol")
		if pair == "DOGEUSDT" {
			return errorResponse(http.StatusTooManyRequests), nil
		}
		if strings.Contains(req.URL.Path, "/ticker/price") {
			return jsonResponse(fmt.Sprintf(`{"symbol":%q,"price":"100.5"}`, pair)), nil
		}
		if strings.Contains(req.URL.Path, "/ticker/24hr") {
			return jsonResponse(fmt.Sprintf(`{"symbol":%q,"priceChangePercent":"2.5"}`, pair)), nil
		}
		t.Fatalf("unexpected path: %s", req.URL.Path)
		return nil, nil
	})

	p := NewBinanceTickerProvider(client, time.Second, 1, testTracer)
	rates, err := p.FetchRates(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rates) != 4 {
		t.Fatalf("expected 4 resolved symbols (DOGE skipped), got %d", len(rates))
	}
	for _, r := range rates {
		if r.Symbol == "DOGE" {
			t.Fatal("DOGE should have been skipped")
		}
		if r.PriceUSD != "100.5" || r.Change24h != "2.5" {
			t.Fatalf("unexpected rate: %+v", r)
		}
	}
	if !p.Accept(rates) {
		t.Fatal("4 of 5 should satisfy the majority threshold")
	}
}

func TestBinanceTickerAcceptThreshold(t *testing.T) {
	t.Parallel()

	p := NewBinanceTickerProvider(nil, time.Second, 1, testTracer)
	if p.Accept(makeRates("BTC", "ETH")) {
		t.Fatal("2 of 5 must not be accepted")
	}
	if !p.Accept(makeRates("BTC", "ETH", "SOL")) {
		t.Fatal("3 of 5 must be accepted")
	}
	if p.Accept(makeRates("BTC", "ETH", "USDT")) {
		t.Fatal("USDT must not count toward the threshold")
	}
}

func TestBinanceBulkFetchRates(t *testing.T) {
	t.Parallel()

	client := fakeClient(func(req *http.Request) (*http.Response, error) {
		if strings.Contains(req.URL.Path, "/ticker/price") {
			return jsonResponse(`[
				{"symbol":"BTCUSDT","price":"50000"},
				{"symbol":"ETHUSDT","price":"3000"},
				{"symbol":"XRPUSDT","price":"0.5"}
			]`), nil
		}
		return jsonResponse(`[
			{"symbol":"BTCUSDT","priceChangePercent":"1.2"}
		]`), nil
	})

	p := NewBinanceBulkProvider(client, time.Second, 1, testTracer)
	rates, err := p.FetchRates(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rates) != 2 {
		t.Fatalf("expected BTC and ETH only, got %d entries", len(rates))
	}
	if rates[0].Symbol != "BTC" || rates[0].Change24h != "1.2" {
		t.Fatalf("unexpected BTC entry: %+v", rates[0])
	}
	// ETH had no change entry in the 24hr list.
	if rates[1].Symbol != "ETH" || rates[1].Change24h != "0.0" {
		t.Fatalf("unexpected ETH entry: %+v", rates[1])
	}
	if !p.Accept(rates) {
		t.Fatal("bulk provider should accept any non-empty result")
	}
	if p.Accept(nil) {
		t.Fatal("bulk provider must reject an empty result")
	}
}

func TestBinanceAvgFetchRatesDefaultsChange(t *testing.T) {
	t.Parallel()

	client := fakeClient(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(`{"mins":5,"price":"123.4"}`), nil
	})

	p := NewBinanceAvgProvider(client, time.Second, 1, testTracer)
	rates, err := p.FetchRates(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rates) != 5 {
		t.Fatalf("expected all 5 symbols, got %d", len(rates))
	}
	for _, r := range rates {
		if r.PriceUSD != "123.4" || r.Change24h != "0.0" {
			t.Fatalf("unexpected rate: %+v", r)
		}
	}
}
