package cart

import (
	"github.com/shopspring/decimal"

	"github.com/marketplace/storefront/internal/domain/cart"
)

// AddItemRequest carries everything needed to add a product to the cart
type AddItemRequest struct {
	ProductID     string          `json:"productId" binding:"required"`
	Name          string          `json:"name" binding:"required"`
	Price         decimal.Decimal `json:"price" binding:"required"`
	Currency      string          `json:"currency" binding:"required,currencycode"`
	Quantity      int             `json:"quantity"`
	VendorID      string          `json:"vendorId"`
	VendorName    string          `json:"vendorName"`
	VendorProfile string          `json:"vendorProfile"`
}

// Summary is a snapshot of the cart in the current display currency
type Summary struct {
	Items           []cart.LineItem `json:"items"`
	ItemCount       int             `json:"itemCount"`
	Total           decimal.Decimal `json:"total"`
	FormattedTotal  string          `json:"formattedTotal"`
	DisplayCurrency string          `json:"displayCurrency"`
}
