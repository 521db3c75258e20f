package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	appcurrency "github.com/marketplace/storefront/internal/application/currency"
)

// CurrencyHandler serves the currency registry, conversion and
// preference endpoints.
type CurrencyHandler struct {
	BaseHandler
	service *appcurrency.Service
}

// NewCurrencyHandler creates a new CurrencyHandler
func NewCurrencyHandler(service *appcurrency.Service) *CurrencyHandler {
	return &CurrencyHandler{service: service}
}

// RegisterRoutes registers currency routes
func (h *CurrencyHandler) RegisterRoutes(r *gin.RouterGroup) {
	group := r.Group("/currency")
	{
		group.GET("/supported", h.Supported)
		group.GET("/info/:code", h.Info)
		group.POST("/convert", h.Convert)
		group.POST("/format", h.Format)
		group.POST("/convert-and-format", h.ConvertAndFormat)
		group.GET("/preference", h.GetPreference)
		group.PUT("/preference", h.SetPreference)
		group.POST("/detect", h.Detect)
	}
}

// Supported returns the active currency listing
func (h *CurrencyHandler) Supported(c *gin.Context) {
	h.Success(c, h.service.Supported(c.Request.Context()))
}

// Info returns one currency by code
func (h *CurrencyHandler) Info(c *gin.Context) {
	cur, err := h.service.Info(c.Request.Context(), c.Param("code"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cur)
}

// ConvertRequest is the body for conversion endpoints
type ConvertRequest struct {
	Price decimal.Decimal `json:"price" binding:"required"`
	From  string          `json:"fromCurrency" binding:"required,currencycode"`
	To    string          `json:"toCurrency" binding:"required,currencycode"`
}

// ConvertResponse is the result of a conversion
type ConvertResponse struct {
	Price     decimal.Decimal `json:"price"`
	From      string          `json:"fromCurrency"`
	To        string          `json:"toCurrency"`
	Converted decimal.Decimal `json:"converted"`
	Formatted string          `json:"formatted,omitempty"`
}

// Convert converts an amount between currencies
func (h *CurrencyHandler) Convert(c *gin.Context) {
	var req ConvertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid conversion request: "+err.Error())
		return
	}

	converted := h.service.Convert(c.Request.Context(), req.Price, req.From, req.To)
	h.Success(c, ConvertResponse{
		Price:     req.Price,
		From:      req.From,
		To:        req.To,
		Converted: converted,
	})
}

// FormatRequest is the body for the format endpoint
type FormatRequest struct {
	Price    decimal.Decimal `json:"price" binding:"required"`
	Currency string          `json:"currency" binding:"required,currencycode"`
}

// FormatResponse is a formatted amount
type FormatResponse struct {
	Price     decimal.Decimal `json:"price"`
	Currency  string          `json:"currency"`
	Formatted string          `json:"formatted"`
}

// Format renders an amount in a currency's display conventions
func (h *CurrencyHandler) Format(c *gin.Context) {
	var req FormatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid format request: "+err.Error())
		return
	}

	h.Success(c, FormatResponse{
		Price:     req.Price,
		Currency:  req.Currency,
		Formatted: h.service.Format(c.Request.Context(), req.Price, req.Currency),
	})
}

// ConvertAndFormat converts and formats in one call
func (h *CurrencyHandler) ConvertAndFormat(c *gin.Context) {
	var req ConvertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid conversion request: "+err.Error())
		return
	}

	converted, formatted := h.service.ConvertAndFormat(c.Request.Context(), req.Price, req.From, req.To)
	h.Success(c, ConvertResponse{
		Price:     req.Price,
		From:      req.From,
		To:        req.To,
		Converted: converted,
		Formatted: formatted,
	})
}

// PreferenceResponse is the user's currency preference
type PreferenceResponse struct {
	Currency string `json:"currency"`
}

// GetPreference returns the persisted currency preference
func (h *CurrencyHandler) GetPreference(c *gin.Context) {
	h.Success(c, PreferenceResponse{Currency: h.service.Preference(c.Request.Context())})
}

// SetPreferenceRequest is the body for updating the preference
type SetPreferenceRequest struct {
	Currency string `json:"currency" binding:"required,currencycode"`
}

// SetPreference updates the currency preference. The cart recomputes
// its display prices as a side effect.
func (h *CurrencyHandler) SetPreference(c *gin.Context) {
	var req SetPreferenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid preference request: "+err.Error())
		return
	}

	cur, err := h.service.SetPreference(c.Request.Context(), req.Currency)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cur)
}

// DetectRequest is the body for timezone-based currency detection
type DetectRequest struct {
	Timezone string `json:"timezone" binding:"required"`
}

// DetectResponse is the detected currency
type DetectResponse struct {
	Timezone string `json:"timezone"`
	Currency string `json:"currency"`
}

// Detect maps an IANA timezone to the likely local currency
func (h *CurrencyHandler) Detect(c *gin.Context) {
	var req DetectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid detect request: "+err.Error())
		return
	}

	h.Success(c, DetectResponse{
		Timezone: req.Timezone,
		Currency: h.service.DetectZone(req.Timezone),
	})
}
