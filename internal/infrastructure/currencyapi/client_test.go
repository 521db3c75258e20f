package currencyapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marketplace/storefront/internal/domain/currency"
)

func TestFetchSupported_ParsesListing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/currency/supported", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"success": true,
			"data": [
				{"code": "XAF", "symbol": "XAF", "name": "Central African Franc", "exchangeRate": "1", "position": "after"},
				{"code": "usd", "symbol": "$", "name": "US Dollar", "exchangeRate": "0.0016", "position": "before"},
				{"code": "", "symbol": "?", "name": "Broken", "exchangeRate": "1", "position": "before"}
			]
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	currencies, err := client.FetchSupported(context.Background())
	require.NoError(t, err)

	// The invalid third entry is skipped, the rest are normalized
	require.Len(t, currencies, 2)
	assert.Equal(t, "XAF", currencies[0].Code)
	assert.Equal(t, "USD", currencies[1].Code)
	assert.Equal(t, currency.PositionBefore, currencies[1].Position)
	assert.True(t, currencies[1].IsActive)
	assert.Equal(t, int32(2), currencies[1].Decimals)
}

func TestFetchSupported_UpstreamErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	_, err := client.FetchSupported(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestFetchSupported_RejectedEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success": false, "message": "service unavailable"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	_, err := client.FetchSupported(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "service unavailable")
}

func TestFetchSupported_EmptyListing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success": true, "data": []}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	_, err := client.FetchSupported(context.Background())
	require.Error(t, err)
}

func TestFetchSupported_NotConfigured(t *testing.T) {
	client := NewClient("", time.Second)
	assert.False(t, client.Enabled())

	_, err := client.FetchSupported(context.Background())
	require.Error(t, err)
}

func TestFetchSupported_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewClient(server.URL, time.Second)
	_, err := client.FetchSupported(ctx)
	require.Error(t, err)
}
