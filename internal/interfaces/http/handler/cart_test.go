package handler

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appcart "github.com/marketplace/storefront/internal/application/cart"
	appcurrency "github.com/marketplace/storefront/internal/application/currency"
	"github.com/marketplace/storefront/internal/infrastructure/cache"
	"github.com/marketplace/storefront/internal/interfaces/http/middleware"
)

func newStorefrontRouter(t *testing.T) (*gin.Engine, *appcart.Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()

	state := newMapState()
	currencySvc := appcurrency.NewService(nil, cache.NewMemoryRateCache(time.Minute), state, time.Minute, nil)
	cartSvc := appcart.NewService(state, appcurrency.NewCartGateway(currencySvc), currencySvc.Preference(context.Background()), nil)
	currencySvc.Subscribe(func(code string) {
		cartSvc.SetDisplayCurrency(context.Background(), code)
	})

	engine := gin.New()
	api := engine.Group("/api/v1")
	NewCartHandler(cartSvc).RegisterRoutes(api)
	NewCurrencyHandler(currencySvc).RegisterRoutes(api)
	return engine, cartSvc
}

func TestCartStartsEmpty(t *testing.T) {
	engine, _ := newStorefrontRouter(t)

	w, envelope := doJSON(t, engine, http.MethodGet, "/api/v1/cart", "")
	require.Equal(t, http.StatusOK, w.Code)
	data := envelope["data"].(map[string]any)
	assert.Equal(t, float64(0), data["itemCount"])
}

func TestCartAddItem(t *testing.T) {
	engine, _ := newStorefrontRouter(t)

	w, envelope := doJSON(t, engine, http.MethodPost, "/api/v1/cart/items",
		`{"productId": "p1", "name": "Widget", "price": "1000", "currency": "XAF", "quantity": 2}`)
	require.Equal(t, http.StatusCreated, w.Code)

	data := envelope["data"].(map[string]any)
	assert.Equal(t, float64(2), data["itemCount"])
	items := data["items"].([]any)
	require.Len(t, items, 1)
	assert.Equal(t, "p1", items[0].(map[string]any)["productId"])
}

func TestCartAddItem_Invalid(t *testing.T) {
	engine, _ := newStorefrontRouter(t)

	w, _ := doJSON(t, engine, http.MethodPost, "/api/v1/cart/items", `{"productId": "p1"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCartRemoveItem_NotFound(t *testing.T) {
	engine, _ := newStorefrontRouter(t)

	w, envelope := doJSON(t, engine, http.MethodDelete, "/api/v1/cart/items/nope", "")
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, false, envelope["success"])
}

func TestCartQuantityUpdate(t *testing.T) {
	engine, _ := newStorefrontRouter(t)

	w, _ := doJSON(t, engine, http.MethodPost, "/api/v1/cart/items",
		`{"productId": "p1", "name": "Widget", "price": "1000", "currency": "XAF"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w, envelope := doJSON(t, engine, http.MethodPut, "/api/v1/cart/items/p1/quantity", `{"quantity": 5}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(5), envelope["data"].(map[string]any)["itemCount"])

	// Zero removes the item
	w, envelope = doJSON(t, engine, http.MethodPut, "/api/v1/cart/items/p1/quantity", `{"quantity": 0}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(0), envelope["data"].(map[string]any)["itemCount"])
}

func TestCartClear(t *testing.T) {
	engine, _ := newStorefrontRouter(t)

	doJSON(t, engine, http.MethodPost, "/api/v1/cart/items",
		`{"productId": "p1", "name": "Widget", "price": "1000", "currency": "XAF"}`)

	w, envelope := doJSON(t, engine, http.MethodDelete, "/api/v1/cart", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(0), envelope["data"].(map[string]any)["itemCount"])
}

func TestPreferenceChangeRecomputesCart(t *testing.T) {
	engine, cartSvc := newStorefrontRouter(t)

	doJSON(t, engine, http.MethodPost, "/api/v1/cart/items",
		`{"productId": "p1", "name": "Widget", "price": "1000", "currency": "XAF"}`)

	w, _ := doJSON(t, engine, http.MethodPut, "/api/v1/currency/preference", `{"currency": "USD"}`)
	require.Equal(t, http.StatusOK, w.Code)
	cartSvc.Wait()

	_, envelope := doJSON(t, engine, http.MethodGet, "/api/v1/cart", "")
	data := envelope["data"].(map[string]any)
	assert.Equal(t, "USD", data["displayCurrency"])
	item := data["items"].([]any)[0].(map[string]any)
	assert.Equal(t, "USD", item["displayCurrency"])
	assert.InDelta(t, 1.6, item["displayPrice"].(float64), 1e-9)
	assert.InDelta(t, 1000, item["originalPrice"].(float64), 1e-9)
}
