package handler

import (
	"github.com/gin-gonic/gin"

	appcart "github.com/marketplace/storefront/internal/application/cart"
)

// CartHandler serves the cart endpoints
type CartHandler struct {
	BaseHandler
	service *appcart.Service
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(service *appcart.Service) *CartHandler {
	return &CartHandler{service: service}
}

// RegisterRoutes registers cart routes
func (h *CartHandler) RegisterRoutes(r *gin.RouterGroup) {
	group := r.Group("/cart")
	{
		group.GET("", h.Get)
		group.POST("/items", h.AddItem)
		group.DELETE("/items/:productId", h.RemoveItem)
		group.PUT("/items/:productId/quantity", h.SetQuantity)
		group.DELETE("", h.Clear)
	}
}

// Get returns the current cart summary
func (h *CartHandler) Get(c *gin.Context) {
	h.Success(c, h.service.Summary(c.Request.Context()))
}

// AddItem adds a product to the cart
func (h *CartHandler) AddItem(c *gin.Context) {
	var req appcart.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid cart item: "+err.Error())
		return
	}

	summary, err := h.service.AddItem(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, summary)
}

// RemoveItem removes a product from the cart
func (h *CartHandler) RemoveItem(c *gin.Context) {
	summary, err := h.service.RemoveItem(c.Request.Context(), c.Param("productId"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}

// SetQuantityRequest is the body for quantity updates
type SetQuantityRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

// SetQuantity updates a product's quantity; zero removes it
func (h *CartHandler) SetQuantity(c *gin.Context) {
	var req SetQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid quantity request: "+err.Error())
		return
	}

	summary, err := h.service.SetQuantity(c.Request.Context(), c.Param("productId"), *req.Quantity)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}

// Clear empties the cart
func (h *CartHandler) Clear(c *gin.Context) {
	h.Success(c, h.service.Clear(c.Request.Context()))
}
