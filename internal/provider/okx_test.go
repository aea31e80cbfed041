package provider

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"
)

func okxTickerBody(inst, last, open string) string {
	return fmt.Sprintf(`{"code":"0","msg":"","data":[{"instId":%q,"last":%q,"open24h":%q}]}`, inst, last, open)
}

func TestOKXFetchRatesDerivesChange(t *testing.T) {
	t.Parallel()

	client := fakeClient(func(req *http.Request) (*http.Response, error) {
		inst := req.URL.Query().Get("instId")
		switch inst {
		case "BTC-USDT":
			return jsonResponse(okxTickerBody(inst, "110", "100")), nil
		default:
			return jsonResponse(okxTickerBody(inst, "2", "2")), nil
		}
	})

	p := NewOKXProvider(client, time.Second, 1, testTracer)
	rates, err := p.FetchRates(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(rates) != 5 {
		t.Fatalf("expected 5 rates, got %d", len(rates))
	}
	if rates[0].Symbol != "BTC" || rates[0].PriceUSD != "110" {
		t.Fatalf("unexpected BTC rate: %+v", rates[0])
	}
	if rates[0].Change24h != "10.00" {
		t.Fatalf("expected change 10.00, got %s", rates[0].Change24h)
	}
	if rates[1].Change24h != "0.00" {
		t.Fatalf("expected flat change 0.00, got %s", rates[1].Change24h)
	}
}

func TestOKXFetchRatesSkipsBadPayloads(t *testing.T) {
	t.Parallel()

	client := fakeClient(func(req *http.Request) (*http.Response, error) {
		inst := req.URL.Query().Get("instId")
		switch inst {
		case "DOGE-USDT":
			return jsonResponse(`{"code":"51001","msg":"instrument not found","data":[]}`), nil
		case "SOL-USDT":
			// open24h of zero would divide by zero; the symbol is skipped.
			return jsonResponse(okxTickerBody(inst, "150", "0")), nil
		default:
			return jsonResponse(okxTickerBody(inst, "100", "100")), nil
		}
	})

	p := NewOKXProvider(client, time.Second, 1, testTracer)
	rates, err := p.FetchRates(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(rates) != 3 {
		t.Fatalf("expected 3 rates, got %d", len(rates))
	}
	if !p.Accept(rates) {
		t.Fatal("3 of 5 must be accepted")
	}
}

func TestOKXAcceptNeedsMajority(t *testing.T) {
	t.Parallel()

	p := NewOKXProvider(fakeClient(nil), time.Second, 1, testTracer)
	if p.Accept(makeRates("BTC", "ETH")) {
		t.Fatal("2 of 5 must not be accepted")
	}
	if !p.Accept(makeRates("BTC", "ETH", "DOGE")) {
		t.Fatal("3 of 5 must be accepted")
	}
}
