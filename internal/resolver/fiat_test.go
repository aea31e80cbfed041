package resolver

import (
	"context"
	"errors"
	"testing"

	"coinrates/internal/domain"
	"coinrates/internal/provider"
)

type stubFiatProvider struct {
	name  string
	rates []domain.FiatRate
	err   error
	floor int
	calls int
}

func (s *stubFiatProvider) Name() string   { return s.name }
func (s *stubFiatProvider) MinAccept() int { return s.floor }

func (s *stubFiatProvider) FetchRates(context.Context) ([]domain.FiatRate, error) {
	s.calls++
	return s.rates, s.err
}

type stubSingleSource struct {
	name  string
	rate  float64
	err   error
	calls int
}

func (s *stubSingleSource) Name() string { return s.name }

func (s *stubSingleSource) FetchRate(context.Context, string) (float64, error) {
	s.calls++
	return s.rate, s.err
}

func fiatRates(codes ...string) []domain.FiatRate {
	var rates []domain.FiatRate
	for _, code := range codes {
		rates = append(rates, domain.FiatRate{
			Code:      code,
			Name:      domain.FiatName(code),
			RateToUSD: "1",
			Symbol:    domain.FiatSymbol(code),
		})
	}
	return rates
}

func TestFiatResolveChainAndFloors(t *testing.T) {
	t.Parallel()

	failing := &stubFiatProvider{name: "a", err: errors.New("down"), floor: 10}
	thin := &stubFiatProvider{name: "b", rates: fiatRates("USD", "EUR", "JPY"), floor: 5}
	good := &stubFiatProvider{name: "c", rates: fiatRates("USD", "TWD", "EUR", "JPY", "GBP", "CNY", "HKD", "KRW", "SGD", "AUD"), floor: 10}

	r := NewFiatResolver([]provider.FiatProvider{failing, thin, good}, nil, nil, testTracer)
	rates, err := r.Resolve(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if thin.calls != 1 || good.calls != 1 {
		t.Fatal("chain must walk providers in order")
	}
	if len(rates) != 10 {
		t.Fatalf("expected the accepted catalog, got %d rates", len(rates))
	}
}

func TestFiatResolveExhaustion(t *testing.T) {
	t.Parallel()

	a := &stubFiatProvider{name: "a", err: errors.New("down"), floor: 10}
	b := &stubFiatProvider{name: "b", rates: fiatRates("USD"), floor: 10}

	r := NewFiatResolver([]provider.FiatProvider{a, b}, nil, nil, testTracer)
	if _, err := r.Resolve(context.Background()); !errors.Is(err, ErrAllProvidersExhausted) {
		t.Fatalf("err = %v, want ErrAllProvidersExhausted", err)
	}
}

func TestFiatResolveEnrichesMissingCodes(t *testing.T) {
	t.Parallel()

	// Catalog covers TWD already but misses VND, RUB and SAR.
	agg := &stubFiatProvider{
		name:  "a",
		rates: fiatRates("USD", "TWD", "EUR", "JPY", "GBP"),
		floor: 5,
	}
	peg := &stubSingleSource{name: "peg", rate: 31.2}
	failing := &stubSingleSource{name: "s1", err: errors.New("missing")}
	working := &stubSingleSource{name: "s2", rate: 24500}

	r := NewFiatResolver(
		[]provider.FiatProvider{agg},
		[]provider.SingleRateSource{peg},
		[]provider.SingleRateSource{failing, working},
		testTracer,
	)
	rates, err := r.Resolve(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if peg.calls != 0 {
		t.Fatal("peg pass must be skipped when the catalog already has the code")
	}
	// Each ensured code walks the chain: first source fails, second fills in.
	if failing.calls != 3 || working.calls != 3 {
		t.Fatalf("ensure chain calls = %d/%d, want 3/3", failing.calls, working.calls)
	}

	have := make(map[string]string, len(rates))
	for _, rt := range rates {
		have[rt.Code] = rt.RateToUSD
	}
	for _, code := range domain.EnsuredFiatCodes {
		if have[code] != "24500" {
			t.Fatalf("%s = %q, want 24500", code, have[code])
		}
	}
}

func TestFiatResolvePegFallsThroughSources(t *testing.T) {
	t.Parallel()

	agg := &stubFiatProvider{
		name:  "a",
		rates: fiatRates("USD", "EUR", "JPY", "GBP", "CNY"),
		floor: 5,
	}
	first := &stubSingleSource{name: "p1", err: errors.New("no twd")}
	second := &stubSingleSource{name: "p2", rate: 31.45}
	ensure := &stubSingleSource{name: "s1", err: errors.New("missing")}

	r := NewFiatResolver(
		[]provider.FiatProvider{agg},
		[]provider.SingleRateSource{first, second},
		[]provider.SingleRateSource{ensure},
		testTracer,
	)
	rates, err := r.Resolve(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if first.calls != 1 || second.calls != 1 {
		t.Fatal("peg chain must stop at the first success")
	}

	found := false
	for _, rt := range rates {
		if rt.Code == domain.PegCurrency {
			found = true
			if rt.RateToUSD != "31.45" {
				t.Fatalf("peg rate = %s, want 31.45", rt.RateToUSD)
			}
			if rt.Name == "" || rt.Symbol == "" {
				t.Fatal("enriched rate missing display fields")
			}
		}
	}
	if !found {
		t.Fatal("peg currency missing after enrichment")
	}

	// No synthetic values: the ensured codes stay absent when every
	// source fails.
	for _, rt := range rates {
		for _, code := range domain.EnsuredFiatCodes {
			if rt.Code == code {
				t.Fatalf("%s must not be synthesized", code)
			}
		}
	}
}
