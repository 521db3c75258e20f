package currency

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/marketplace/storefront/internal/domain/currency"
	"github.com/marketplace/storefront/internal/domain/shared"
	"github.com/marketplace/storefront/internal/infrastructure/cache"
)

// MockLister is a mock upstream currency listing client
type MockLister struct {
	mock.Mock
}

func (m *MockLister) Enabled() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockLister) FetchSupported(ctx context.Context) ([]currency.Currency, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]currency.Currency), args.Error(1)
}

// memoryState is an in-memory PreferenceStore for tests
type memoryState struct {
	values map[string][]byte
}

func newMemoryState() *memoryState {
	return &memoryState{values: make(map[string][]byte)}
}

func (s *memoryState) Get(key string) ([]byte, bool, error) {
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *memoryState) Set(key string, value []byte) error {
	s.values[key] = value
	return nil
}

func disabledLister() *MockLister {
	lister := &MockLister{}
	lister.On("Enabled").Return(false)
	return lister
}

func newTestService(lister Lister) *Service {
	return NewService(lister, cache.NewMemoryRateCache(30*time.Minute), newMemoryState(), 30*time.Minute, nil)
}

func mustCurrency(t *testing.T, code, symbol, name, rate string, pos currency.Position, decimals int32) currency.Currency {
	t.Helper()
	c, err := currency.New(code, symbol, name, decimal.RequireFromString(rate), pos, decimals)
	require.NoError(t, err)
	return c
}

func TestSupported_UsesFallbackWithoutUpstream(t *testing.T) {
	svc := newTestService(disabledLister())

	supported := svc.Supported(context.Background())
	require.Len(t, supported, 14)
	assert.Equal(t, "XAF", supported[0].Code)
}

func TestInfo_UnknownCurrency(t *testing.T) {
	svc := newTestService(disabledLister())

	_, err := svc.Info(context.Background(), "ZZZ")
	assert.ErrorIs(t, err, shared.ErrUnknownCurrency)
}

func TestConvert_PivotsThroughBase(t *testing.T) {
	svc := newTestService(disabledLister())

	got := svc.Convert(context.Background(), decimal.NewFromInt(1000), "XAF", "USD")
	assert.True(t, got.Equal(decimal.RequireFromString("1.6")), "got %s", got)
}

func TestConvertAndFormat(t *testing.T) {
	svc := newTestService(disabledLister())

	converted, formatted := svc.ConvertAndFormat(context.Background(), decimal.NewFromInt(1000), "XAF", "USD")
	assert.True(t, converted.Equal(decimal.RequireFromString("1.6")))
	assert.Equal(t, "$1.60", formatted)
}

func TestRefresh_UsesUpstreamListing(t *testing.T) {
	upstream := []currency.Currency{
		mustCurrency(t, "XAF", "XAF", "Central African CFA Franc", "1", currency.PositionAfter, 0),
		mustCurrency(t, "USD", "$", "US Dollar", "0.002", currency.PositionBefore, 2),
	}

	lister := &MockLister{}
	lister.On("Enabled").Return(true)
	lister.On("FetchSupported", mock.Anything).Return(upstream, nil).Once()

	svc := newTestService(lister)

	// Upstream rate 0.002 replaces the fallback 0.0016
	got := svc.Convert(context.Background(), decimal.NewFromInt(1000), "XAF", "USD")
	assert.True(t, got.Equal(decimal.NewFromInt(2)), "got %s", got)

	// Within the refresh interval no second fetch happens
	_ = svc.Supported(context.Background())
	lister.AssertNumberOfCalls(t, "FetchSupported", 1)
}

func TestRefresh_FailedFetchKeepsPreviousRegistry(t *testing.T) {
	lister := &MockLister{}
	lister.On("Enabled").Return(true)
	lister.On("FetchSupported", mock.Anything).Return(nil, errors.New("upstream down"))

	svc := newTestService(lister)

	supported := svc.Supported(context.Background())
	require.Len(t, supported, 14, "fallback registry stays in place")

	// The failure is remembered for a full interval
	_ = svc.Supported(context.Background())
	lister.AssertNumberOfCalls(t, "FetchSupported", 1)
}

func TestRefresh_PrefersCachedSnapshot(t *testing.T) {
	rateCache := cache.NewMemoryRateCache(30 * time.Minute)
	snapshot := &cache.Snapshot{
		Currencies: []currency.Currency{
			mustCurrency(t, "XAF", "XAF", "Central African CFA Franc", "1", currency.PositionAfter, 0),
			mustCurrency(t, "EUR", "€", "Euro", "0.0015", currency.PositionBefore, 2),
		},
		FetchedAt: time.Now(),
	}
	require.NoError(t, rateCache.Set(context.Background(), snapshot))

	lister := &MockLister{}
	lister.On("Enabled").Return(true)

	svc := NewService(lister, rateCache, newMemoryState(), 30*time.Minute, nil)

	supported := svc.Supported(context.Background())
	require.Len(t, supported, 2)
	lister.AssertNotCalled(t, "FetchSupported", mock.Anything)
}

func TestPreference_DefaultsToBase(t *testing.T) {
	svc := newTestService(disabledLister())
	assert.Equal(t, currency.BaseCode, svc.Preference(context.Background()))
}

func TestSetPreference_PersistsAndNotifies(t *testing.T) {
	svc := newTestService(disabledLister())

	var notified []string
	svc.Subscribe(func(code string) { notified = append(notified, code) })

	cur, err := svc.SetPreference(context.Background(), "usd")
	require.NoError(t, err)
	assert.Equal(t, "USD", cur.Code)
	assert.Equal(t, "USD", svc.Preference(context.Background()))
	assert.Equal(t, []string{"USD"}, notified)
}

func TestSetPreference_UnknownCurrency(t *testing.T) {
	svc := newTestService(disabledLister())

	_, err := svc.SetPreference(context.Background(), "ZZZ")
	assert.ErrorIs(t, err, shared.ErrUnknownCurrency)
	assert.Equal(t, currency.BaseCode, svc.Preference(context.Background()))
}

func TestPreference_CorruptValueFallsBack(t *testing.T) {
	state := newMemoryState()
	state.values["userCurrency"] = []byte(`{not json`)

	svc := NewService(disabledLister(), cache.NewMemoryRateCache(time.Minute), state, time.Minute, nil)
	assert.Equal(t, currency.BaseCode, svc.Preference(context.Background()))
}

func TestDetectZone(t *testing.T) {
	svc := newTestService(disabledLister())

	assert.Equal(t, "XAF", svc.DetectZone("Africa/Douala"))
	assert.Equal(t, "NGN", svc.DetectZone("Africa/Lagos"))
	assert.Equal(t, "USD", svc.DetectZone("America/New_York"))
	assert.Equal(t, "XAF", svc.DetectZone("Pacific/Fiji"))
}
