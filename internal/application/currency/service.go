package currency

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/marketplace/storefront/internal/domain/currency"
	"github.com/marketplace/storefront/internal/domain/shared"
	"github.com/marketplace/storefront/internal/infrastructure/cache"
	"github.com/marketplace/storefront/internal/infrastructure/persistence"
)

// Lister fetches the supported currency listing from the upstream API
type Lister interface {
	Enabled() bool
	FetchSupported(ctx context.Context) ([]currency.Currency, error)
}

// PreferenceStore persists the user's currency preference
type PreferenceStore interface {
	Get(key string) ([]byte, bool, error)
	Set(key string, value []byte) error
}

// Subscriber is notified after the user's currency preference changes
type Subscriber func(code string)

// Service owns the currency registry and everything derived from it:
// conversion, formatting, zone detection and the user's preference.
//
// The registry starts from the built-in table and is refreshed from the
// upstream listing when the cached snapshot goes stale. A failed refresh
// keeps serving the previous registry.
type Service struct {
	client    Lister
	rateCache cache.RateCache
	state     PreferenceStore
	logger    *zap.Logger

	refreshInterval time.Duration

	mu        sync.RWMutex
	registry  *currency.Registry
	fetchedAt time.Time

	subMu       sync.Mutex
	subscribers []Subscriber
}

// NewService creates the currency service seeded with the built-in
// currency table.
func NewService(client Lister, rateCache cache.RateCache, state PreferenceStore, refreshInterval time.Duration, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		client:          client,
		rateCache:       rateCache,
		state:           state,
		logger:          logger,
		refreshInterval: refreshInterval,
		registry:        currency.Fallback(),
	}
}

// Subscribe registers a callback invoked after every successful
// preference change. Used by the cart to recompute display prices.
func (s *Service) Subscribe(fn Subscriber) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

// Registry returns the current registry, refreshing it first if the
// snapshot has gone stale.
func (s *Service) Registry(ctx context.Context) *currency.Registry {
	s.refreshIfStale(ctx)

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.registry
}

// Supported returns the active currencies in listing order
func (s *Service) Supported(ctx context.Context) []currency.Currency {
	return s.Registry(ctx).Active()
}

// Info returns one currency by code
func (s *Service) Info(ctx context.Context, code string) (currency.Currency, error) {
	cur, ok := s.Registry(ctx).Get(code)
	if !ok {
		return currency.Currency{}, shared.ErrUnknownCurrency
	}
	return cur, nil
}

// Convert converts an amount between two currencies through the base.
// Unknown codes convert at rate 1.0 so a price is always produced.
func (s *Service) Convert(ctx context.Context, amount decimal.Decimal, from, to string) decimal.Decimal {
	converter := currency.NewConverter(s.Registry(ctx).Rates())
	return converter.Convert(amount, from, to)
}

// Format renders an amount in the display conventions of its currency
func (s *Service) Format(ctx context.Context, amount decimal.Decimal, code string) string {
	formatter := currency.NewFormatter(s.Registry(ctx))
	return formatter.Format(amount, code)
}

// ConvertAndFormat converts an amount to the target currency and
// formats the result in one step.
func (s *Service) ConvertAndFormat(ctx context.Context, amount decimal.Decimal, from, to string) (decimal.Decimal, string) {
	registry := s.Registry(ctx)
	converted := currency.NewConverter(registry.Rates()).Convert(amount, from, to)
	return converted, currency.NewFormatter(registry).Format(converted, to)
}

// DetectZone maps an IANA timezone to the likely local currency
func (s *Service) DetectZone(timezone string) string {
	return currency.DetectFromTimezone(timezone)
}

// Preference returns the persisted currency preference. When none is
// stored the base currency is returned.
func (s *Service) Preference(ctx context.Context) string {
	data, ok, err := s.state.Get(persistence.KeyUserCurrency)
	if err != nil {
		s.logger.Warn("Failed to load currency preference", zap.Error(err))
		return currency.BaseCode
	}
	if !ok {
		return currency.BaseCode
	}

	var code string
	if err := json.Unmarshal(data, &code); err != nil || code == "" {
		s.logger.Warn("Discarding corrupt currency preference")
		return currency.BaseCode
	}
	if _, known := s.Registry(ctx).Get(code); !known {
		return currency.BaseCode
	}
	return code
}

// SetPreference validates, persists and broadcasts a new currency
// preference. Subscribers run after the preference is durably stored.
func (s *Service) SetPreference(ctx context.Context, code string) (currency.Currency, error) {
	cur, ok := s.Registry(ctx).Get(code)
	if !ok {
		return currency.Currency{}, shared.ErrUnknownCurrency
	}
	if !cur.IsActive {
		return currency.Currency{}, shared.NewDomainError("CURRENCY_INACTIVE", "Currency is not available")
	}

	data, err := json.Marshal(cur.Code)
	if err != nil {
		return currency.Currency{}, err
	}
	if err := s.state.Set(persistence.KeyUserCurrency, data); err != nil {
		return currency.Currency{}, err
	}

	s.subMu.Lock()
	subscribers := make([]Subscriber, len(s.subscribers))
	copy(subscribers, s.subscribers)
	s.subMu.Unlock()

	for _, fn := range subscribers {
		fn(cur.Code)
	}

	return cur, nil
}

// refreshIfStale reloads the registry when the current snapshot is
// older than the refresh interval. Sources in order: shared cache,
// upstream API. On total failure the previous registry stays in place.
func (s *Service) refreshIfStale(ctx context.Context) {
	s.mu.RLock()
	fresh := !s.fetchedAt.IsZero() && time.Since(s.fetchedAt) < s.refreshInterval
	s.mu.RUnlock()
	if fresh {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// Re-check under the write lock, another request may have refreshed
	if !s.fetchedAt.IsZero() && time.Since(s.fetchedAt) < s.refreshInterval {
		return
	}

	if s.rateCache != nil {
		if snapshot, ok, err := s.rateCache.Get(ctx); err == nil && ok {
			if registry, err := currency.NewRegistry(snapshot.Currencies); err == nil {
				s.registry = registry
				s.fetchedAt = snapshot.FetchedAt
				return
			}
		}
	}

	if s.client == nil || !s.client.Enabled() {
		// No upstream configured, the built-in table is authoritative
		s.fetchedAt = time.Now()
		return
	}

	currencies, err := s.client.FetchSupported(ctx)
	if err != nil {
		s.logger.Warn("Currency refresh failed, keeping previous rates", zap.Error(err))
		// Back off for a full interval rather than hammering a dead upstream
		s.fetchedAt = time.Now()
		return
	}

	registry, err := currency.NewRegistry(currencies)
	if err != nil {
		s.logger.Warn("Upstream currency listing rejected", zap.Error(err))
		s.fetchedAt = time.Now()
		return
	}

	s.registry = registry
	s.fetchedAt = time.Now()

	if s.rateCache != nil {
		snapshot := &cache.Snapshot{Currencies: currencies, FetchedAt: s.fetchedAt}
		if err := s.rateCache.Set(ctx, snapshot); err != nil {
			s.logger.Warn("Failed to cache currency snapshot", zap.Error(err))
		}
	}

	s.logger.Info("Currency registry refreshed", zap.Int("currencies", len(currencies)))
}
