package handler

import (
	"github.com/gin-gonic/gin"

	appshipping "github.com/marketplace/storefront/internal/application/shipping"
)

// ShippingHandler serves the shipping quote endpoints
type ShippingHandler struct {
	BaseHandler
	service *appshipping.Service
}

// NewShippingHandler creates a new ShippingHandler
func NewShippingHandler(service *appshipping.Service) *ShippingHandler {
	return &ShippingHandler{service: service}
}

// RegisterRoutes registers shipping routes
func (h *ShippingHandler) RegisterRoutes(r *gin.RouterGroup) {
	group := r.Group("/shipping")
	{
		group.POST("/quote", h.Quote)
		group.GET("/zones", h.Zones)
		group.GET("/profiles", h.Profiles)
	}
}

// QuoteRequest is the body for a shipping quote
type QuoteRequest struct {
	City string `json:"city" binding:"required"`
}

// Quote quotes shipping for the current cart to a delivery city
func (h *ShippingHandler) Quote(c *gin.Context) {
	var req QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid quote request: "+err.Error())
		return
	}

	quote, err := h.service.QuoteForCity(c.Request.Context(), req.City)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, quote)
}

// Zones lists the standard shipping zones
func (h *ShippingHandler) Zones(c *gin.Context) {
	h.Success(c, h.service.Zones())
}

// Profiles lists the vendor shipping profiles
func (h *ShippingHandler) Profiles(c *gin.Context) {
	h.Success(c, h.service.Profiles())
}
