package resolver

import (
	"context"
	"log"
	"strconv"

	"coinrates/internal/domain"
	"coinrates/internal/provider"

	"go.opentelemetry.io/otel/trace"
)

// FiatResolver walks the aggregator chain for the full catalog, then runs
// two enrichment passes over single-rate sources: one for the peg
// currency and one for the codes aggregators commonly omit. Enrichment is
// best effort and never synthesizes a value; a currency no source can
// resolve simply stays out of the snapshot.
type FiatResolver struct {
	providers []provider.FiatProvider
	// pegSources resolve the peg currency; ensureSources resolve the
	// commonly-missing codes. The two chains have different orders.
	pegSources    []provider.SingleRateSource
	ensureSources []provider.SingleRateSource
	tracer        trace.Tracer
}

func NewFiatResolver(providers []provider.FiatProvider, pegSources, ensureSources []provider.SingleRateSource, tracer trace.Tracer) *FiatResolver {
	return &FiatResolver{
		providers:     providers,
		pegSources:    pegSources,
		ensureSources: ensureSources,
		tracer:        tracer,
	}
}

// Resolve returns the accepted catalog after enrichment, or
// ErrAllProvidersExhausted when every aggregator failed or came in under
// its floor.
func (r *FiatResolver) Resolve(ctx context.Context) ([]domain.FiatRate, error) {
	ctx, span := r.tracer.Start(ctx, "resolver.fiat")
	defer span.End()

	var rates []domain.FiatRate
	accepted := false
	for _, p := range r.providers {
		got, err := p.FetchRates(ctx)
		if err != nil {
			log.Printf("fiat resolver: %s failed: %v", p.Name(), err)
			continue
		}
		if len(got) < p.MinAccept() {
			log.Printf("fiat resolver: %s returned %d rates, floor is %d", p.Name(), len(got), p.MinAccept())
			continue
		}
		log.Printf("fiat resolver: accepted %d rates from %s", len(got), p.Name())
		rates = got
		accepted = true
		break
	}
	if !accepted {
		return nil, ErrAllProvidersExhausted
	}

	rates = r.ensure(ctx, rates, []string{domain.PegCurrency}, r.pegSources)
	rates = r.ensure(ctx, rates, domain.EnsuredFiatCodes, r.ensureSources)
	return rates, nil
}

// ensure appends each missing code by walking the given source chain and
// taking the first success. Codes the accepted catalog already covers are
// skipped without any network call.
func (r *FiatResolver) ensure(ctx context.Context, rates []domain.FiatRate, codes []string, sources []provider.SingleRateSource) []domain.FiatRate {
	have := make(map[string]bool, len(rates))
	for _, rt := range rates {
		have[rt.Code] = true
	}

	for _, code := range codes {
		if have[code] {
			continue
		}
		for _, s := range sources {
			v, err := s.FetchRate(ctx, code)
			if err != nil {
				log.Printf("fiat resolver: %s could not resolve %s: %v", s.Name(), code, err)
				continue
			}
			log.Printf("fiat resolver: %s resolved %s", s.Name(), code)
			rates = append(rates, domain.FiatRate{
				Code:      code,
				Name:      domain.FiatName(code),
				RateToUSD: formatRate(v),
				Symbol:    domain.FiatSymbol(code),
			})
			have[code] = true
			break
		}
	}
	return rates
}

func formatRate(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
