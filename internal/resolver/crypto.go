package resolver

import (
	"context"
	"errors"
	"log"

	"coinrates/internal/domain"
	"coinrates/internal/provider"

	"go.opentelemetry.io/otel/trace"
)

// ErrAllProvidersExhausted is returned when every source in a fallback
// chain either failed or produced a result below its acceptance threshold.
// Resolvers never return a partial snapshot on total failure.
var ErrAllProvidersExhausted = errors.New("all rate providers exhausted")

// CryptoResolver walks an ordered provider chain and returns the first
// accepted result. Providers are tried strictly in order; a failure or a
// below-threshold result moves the chain along without aborting it.
type CryptoResolver struct {
	providers []provider.CryptoProvider
	tracer    trace.Tracer
}

func NewCryptoResolver(providers []provider.CryptoProvider, tracer trace.Tracer) *CryptoResolver {
	return &CryptoResolver{providers: providers, tracer: tracer}
}

// Resolve returns the accepted rate set with USDT appended at a fixed
// 1.0, or ErrAllProvidersExhausted when no provider produced an
// acceptable result.
func (r *CryptoResolver) Resolve(ctx context.Context) ([]domain.CryptoRate, error) {
	ctx, span := r.tracer.Start(ctx, "resolver.crypto")
	defer span.End()

	for _, p := range r.providers {
		rates, err := p.FetchRates(ctx)
		if err != nil {
			log.Printf("crypto resolver: %s failed: %v", p.Name(), err)
			continue
		}
		if !p.Accept(rates) {
			log.Printf("crypto resolver: %s returned %d rates, below threshold", p.Name(), len(rates))
			continue
		}
		log.Printf("crypto resolver: accepted %d rates from %s", len(rates), p.Name())
		return appendUSDT(rates), nil
	}
	return nil, ErrAllProvidersExhausted
}

// appendUSDT pins the stablecoin at parity unless the accepted provider
// already reported it.
func appendUSDT(rates []domain.CryptoRate) []domain.CryptoRate {
	for _, r := range rates {
		if r.Symbol == "USDT" {
			return rates
		}
	}
	return append(rates, domain.CryptoRate{
		Symbol:    "USDT",
		Name:      domain.CryptoName("USDT"),
		PriceUSD:  "1.0",
		Change24h: "0.0",
	})
}
