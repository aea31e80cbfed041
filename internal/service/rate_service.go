package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"coinrates/internal/domain"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/trace"
)

const ratesCacheKey = "rates:latest"

// ErrUnknownCurrency is returned by the conversion engine when either
// code is absent from the current snapshot.
var ErrUnknownCurrency = errors.New("unknown currency code")

type CryptoSource interface {
	Resolve(ctx context.Context) ([]domain.CryptoRate, error)
}

type FiatSource interface {
	Resolve(ctx context.Context) ([]domain.FiatRate, error)
}

type RedisClient interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
}

// SnapshotStore persists snapshot history. A nil store disables history.
type SnapshotStore interface {
	Insert(ctx context.Context, snapshot *domain.RateSnapshot) error
}

// RateService orchestrates the two resolver chains, the Redis
// write-through cache and the snapshot history.
type RateService struct {
	tracer   trace.Tracer
	crypto   CryptoSource
	fiat     FiatSource
	redis    RedisClient
	history  SnapshotStore
	cacheTTL time.Duration
}

func NewRateService(
	tracer trace.Tracer,
	crypto CryptoSource,
	fiat FiatSource,
	redisClient RedisClient,
	history SnapshotStore,
	cacheTTL time.Duration,
) *RateService {
	return &RateService{
		tracer:   tracer,
		crypto:   crypto,
		fiat:     fiat,
		redis:    redisClient,
		history:  history,
		cacheTTL: cacheTTL,
	}
}

// FetchSnapshot resolves crypto and fiat rates concurrently and returns a
// fresh snapshot. Either chain exhausting fails the whole fetch; there is
// no stale-data fallback here. Cache and history writes are best effort.
func (s *RateService) FetchSnapshot(ctx context.Context) (*domain.RateSnapshot, error) {
	ctx, span := s.tracer.Start(ctx, "rate-service.fetch-snapshot")
	defer span.End()

	type cryptoResult struct {
		rates []domain.CryptoRate
		err   error
	}
	type fiatResult struct {
		rates []domain.FiatRate
		err   error
	}

	cryptoCh := make(chan cryptoResult, 1)
	fiatCh := make(chan fiatResult, 1)
	go func() {
		rates, err := s.crypto.Resolve(ctx)
		cryptoCh <- cryptoResult{rates, err}
	}()
	go func() {
		rates, err := s.fiat.Resolve(ctx)
		fiatCh <- fiatResult{rates, err}
	}()

	crypto := <-cryptoCh
	fiat := <-fiatCh
	if crypto.err != nil {
		return nil, fmt.Errorf("resolve crypto rates: %w", crypto.err)
	}
	if fiat.err != nil {
		return nil, fmt.Errorf("resolve fiat rates: %w", fiat.err)
	}

	snapshot := domain.NewSnapshot(crypto.rates, fiat.rates)
	if s.redis != nil {
		if err := s.setCache(ctx, snapshot); err != nil {
			log.Printf("redis cache write error: %v", err)
		}
	}
	if s.history != nil {
		if err := s.history.Insert(ctx, snapshot); err != nil {
			log.Printf("snapshot history write error: %v", err)
		}
	}
	return snapshot, nil
}

// GetSnapshot returns the cached snapshot when one is still live, falling
// back to a full fetch on a miss.
func (s *RateService) GetSnapshot(ctx context.Context) (*domain.RateSnapshot, error) {
	ctx, span := s.tracer.Start(ctx, "rate-service.get-snapshot")
	defer span.End()

	if s.redis != nil {
		cached, err := s.getCache(ctx)
		if err != nil {
			log.Printf("redis cache read error: %v", err)
		}
		if cached != nil {
			return cached, nil
		}
	}
	return s.FetchSnapshot(ctx)
}

// RefreshSnapshot forces a fetch regardless of cache state. Used by the
// background job.
func (s *RateService) RefreshSnapshot(ctx context.Context) error {
	snapshot, err := s.FetchSnapshot(ctx)
	if err != nil {
		return err
	}
	log.Printf("Refreshed rates: %d crypto, %d fiat", len(snapshot.Crypto), len(snapshot.Fiat))
	return nil
}

// Convert converts amount between any two known currencies via the
// current snapshot.
func (s *RateService) Convert(ctx context.Context, amount float64, from, to string) (float64, error) {
	ctx, span := s.tracer.Start(ctx, "rate-service.convert")
	defer span.End()

	snapshot, err := s.GetSnapshot(ctx)
	if err != nil {
		return 0, err
	}
	return Convert(amount, from, to, snapshot)
}

// Convert pivots through USD: a crypto price multiplies into USD, a fiat
// rate divides into USD. The lookup is built crypto first, so a code
// present in both tables resolves to its fiat rate. No rounding here;
// presentation layers format the result.
func Convert(amount float64, from, to string, snapshot *domain.RateSnapshot) (float64, error) {
	usd := usdValues(snapshot)
	fromUSD, ok := usd[strings.ToUpper(from)]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownCurrency, from)
	}
	toUSD, ok := usd[strings.ToUpper(to)]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownCurrency, to)
	}
	return amount * fromUSD / toUSD, nil
}

// usdValues maps each known code to the USD value of one unit.
func usdValues(snapshot *domain.RateSnapshot) map[string]float64 {
	usd := make(map[string]float64, len(snapshot.Crypto)+len(snapshot.Fiat))
	for _, r := range snapshot.Crypto {
		price, err := strconv.ParseFloat(r.PriceUSD, 64)
		if err != nil || price == 0 {
			continue
		}
		usd[r.Symbol] = price
	}
	for _, r := range snapshot.Fiat {
		rate, err := strconv.ParseFloat(r.RateToUSD, 64)
		if err != nil || rate == 0 {
			continue
		}
		usd[r.Code] = 1 / rate
	}
	return usd
}

func (s *RateService) setCache(ctx context.Context, snapshot *domain.RateSnapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	return s.redis.Set(ctx, ratesCacheKey, data, s.cacheTTL).Err()
}

func (s *RateService) getCache(ctx context.Context) (*domain.RateSnapshot, error) {
	data, err := s.redis.Get(ctx, ratesCacheKey).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var snapshot domain.RateSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, err
	}
	return &snapshot, nil
}
