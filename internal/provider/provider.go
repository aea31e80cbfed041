package provider

import (
	"context"
	"strconv"

	"coinrates/internal/domain"
)

// CryptoProvider is one external crypto-rate source in the fallback chain.
// FetchRates returns whatever subset of the required symbols it could
// resolve; Accept decides whether that partial result is good enough to
// stop the chain. USDT is never required from a provider — the resolver
// appends it at a fixed 1.0.
type CryptoProvider interface {
	Name() string
	FetchRates(ctx context.Context) ([]domain.CryptoRate, error)
	Accept(rates []domain.CryptoRate) bool
}

// FiatProvider is one external fiat aggregator (base=USD, full catalog in
// one call). MinAccept is the minimum number of resolved candidate codes
// for the result to be accepted.
type FiatProvider interface {
	Name() string
	FetchRates(ctx context.Context) ([]domain.FiatRate, error)
	MinAccept() int
}

// SingleRateSource resolves one currency's USD rate. Used by the fiat
// enrichment passes for currencies the accepted aggregator missed.
type SingleRateSource interface {
	Name() string
	FetchRate(ctx context.Context, code string) (float64, error)
}

// countNonUSDT counts the symbols a provider actually resolved; the fixed
// USDT entry some sources emit does not count toward thresholds.
func countNonUSDT(rates []domain.CryptoRate) int {
	n := 0
	for _, r := range rates {
		if r.Symbol != "USDT" {
			n++
		}
	}
	return n
}

// majority is the "more than half of the required symbols" acceptance
// predicate shared by the per-symbol providers.
func majority(rates []domain.CryptoRate) bool {
	return countNonUSDT(rates)*2 > len(domain.RequiredCryptoSymbols)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
