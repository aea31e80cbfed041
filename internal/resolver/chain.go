package resolver

import (
	"time"

	"coinrates/internal/fetchx"
	"coinrates/internal/provider"

	"go.opentelemetry.io/otel/trace"
)

// DefaultCryptoResolver builds the production crypto chain. Order
// matters: per-symbol Binance first for freshest data, bulk catalogs and
// avgPrice as cheaper Binance fallbacks, then OKX, CoinGecko and
// CryptoCompare as independent upstreams.
func DefaultCryptoResolver(client *fetchx.Client, timeout time.Duration, attempts int, tracer trace.Tracer) *CryptoResolver {
	return NewCryptoResolver([]provider.CryptoProvider{
		provider.NewBinanceTickerProvider(client, timeout, attempts, tracer),
		provider.NewBinanceBulkProvider(client, timeout, attempts, tracer),
		provider.NewBinanceAvgProvider(client, timeout, attempts, tracer),
		provider.NewOKXProvider(client, timeout, attempts, tracer),
		provider.NewCoinGeckoProvider(client, timeout, attempts, tracer),
		provider.NewCryptoCompareProvider(client, timeout, attempts, tracer),
	}, tracer)
}

// DefaultFiatResolver builds the production fiat chain with its two
// enrichment source orders. The peg chain leads with the aggregators'
// sibling endpoints; the per-code chain leads with currency-api, which
// has the widest minor-currency coverage.
func DefaultFiatResolver(client *fetchx.Client, aggTimeout, singleTimeout time.Duration, attempts int, tracer trace.Tracer) *FiatResolver {
	providers := []provider.FiatProvider{
		provider.NewExchangeRateHost(client, aggTimeout, attempts, tracer),
		provider.NewFrankfurter(client, aggTimeout, attempts, tracer),
		provider.NewOpenERAPI(client, aggTimeout, attempts, tracer),
	}
	pegSources := []provider.SingleRateSource{
		provider.NewExchangeRateHostSingle(client, singleTimeout, tracer),
		provider.NewOpenERAPISingle(client, singleTimeout, tracer),
		provider.NewCurrencyAPISource(client, singleTimeout, tracer),
		provider.NewMoneyConvertSource(client, singleTimeout, tracer),
	}
	ensureSources := []provider.SingleRateSource{
		provider.NewCurrencyAPISource(client, singleTimeout, tracer),
		provider.NewExchangeRateHostSingle(client, singleTimeout, tracer),
		provider.NewMoneyConvertSource(client, singleTimeout, tracer),
		provider.NewOpenERAPISingle(client, singleTimeout, tracer),
	}
	return NewFiatResolver(providers, pegSources, ensureSources, tracer)
}
