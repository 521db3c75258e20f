package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appcurrency "github.com/marketplace/storefront/internal/application/currency"
	"github.com/marketplace/storefront/internal/infrastructure/cache"
	"github.com/marketplace/storefront/internal/interfaces/http/middleware"
)

type mapState struct {
	values map[string][]byte
}

func newMapState() *mapState { return &mapState{values: make(map[string][]byte)} }

func (s *mapState) Get(key string) ([]byte, bool, error) {
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *mapState) Set(key string, value []byte) error {
	s.values[key] = value
	return nil
}

func newCurrencyRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()

	svc := appcurrency.NewService(nil, cache.NewMemoryRateCache(time.Minute), newMapState(), time.Minute, nil)
	engine := gin.New()
	api := engine.Group("/api/v1")
	NewCurrencyHandler(svc).RegisterRoutes(api)
	return engine
}

func doJSON(t *testing.T, engine *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	var envelope map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	return w, envelope
}

func TestCurrencySupported(t *testing.T) {
	engine := newCurrencyRouter(t)

	w, envelope := doJSON(t, engine, http.MethodGet, "/api/v1/currency/supported", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, envelope["success"])

	data := envelope["data"].([]any)
	assert.Len(t, data, 14)
	first := data[0].(map[string]any)
	assert.Equal(t, "XAF", first["code"])
}

func TestCurrencyInfo(t *testing.T) {
	engine := newCurrencyRouter(t)

	w, envelope := doJSON(t, engine, http.MethodGet, "/api/v1/currency/info/usd", "")
	require.Equal(t, http.StatusOK, w.Code)
	data := envelope["data"].(map[string]any)
	assert.Equal(t, "USD", data["code"])
	assert.Equal(t, "$", data["symbol"])
}

func TestCurrencyInfo_Unknown(t *testing.T) {
	engine := newCurrencyRouter(t)

	w, envelope := doJSON(t, engine, http.MethodGet, "/api/v1/currency/info/ZZZ", "")
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, false, envelope["success"])
	errInfo := envelope["error"].(map[string]any)
	assert.Equal(t, "ERR_UNKNOWN_CURRENCY", errInfo["code"])
}

func TestCurrencyConvert(t *testing.T) {
	engine := newCurrencyRouter(t)

	w, envelope := doJSON(t, engine, http.MethodPost, "/api/v1/currency/convert",
		`{"price": "1000", "fromCurrency": "XAF", "toCurrency": "USD"}`)
	require.Equal(t, http.StatusOK, w.Code)
	data := envelope["data"].(map[string]any)
	assert.InDelta(t, 1.6, data["converted"].(float64), 1e-9)
}

func TestCurrencyConvert_MissingFields(t *testing.T) {
	engine := newCurrencyRouter(t)

	w, envelope := doJSON(t, engine, http.MethodPost, "/api/v1/currency/convert", `{"price": "10"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, false, envelope["success"])
}

func TestCurrencyConvertAndFormat(t *testing.T) {
	engine := newCurrencyRouter(t)

	w, envelope := doJSON(t, engine, http.MethodPost, "/api/v1/currency/convert-and-format",
		`{"price": "1000", "fromCurrency": "XAF", "toCurrency": "USD"}`)
	require.Equal(t, http.StatusOK, w.Code)
	data := envelope["data"].(map[string]any)
	assert.Equal(t, "$1.60", data["formatted"])
}

func TestCurrencyPreferenceRoundTrip(t *testing.T) {
	engine := newCurrencyRouter(t)

	w, envelope := doJSON(t, engine, http.MethodGet, "/api/v1/currency/preference", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "XAF", envelope["data"].(map[string]any)["currency"])

	w, _ = doJSON(t, engine, http.MethodPut, "/api/v1/currency/preference", `{"currency": "EUR"}`)
	require.Equal(t, http.StatusOK, w.Code)

	_, envelope = doJSON(t, engine, http.MethodGet, "/api/v1/currency/preference", "")
	assert.Equal(t, "EUR", envelope["data"].(map[string]any)["currency"])
}

func TestCurrencyPreference_Unknown(t *testing.T) {
	engine := newCurrencyRouter(t)

	w, _ := doJSON(t, engine, http.MethodPut, "/api/v1/currency/preference", `{"currency": "ZZZ"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCurrencyDetect(t *testing.T) {
	engine := newCurrencyRouter(t)

	w, envelope := doJSON(t, engine, http.MethodPost, "/api/v1/currency/detect",
		`{"timezone": "Africa/Lagos"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "NGN", envelope["data"].(map[string]any)["currency"])
}
