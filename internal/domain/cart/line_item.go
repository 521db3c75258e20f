package cart

import (
	"strings"

	"github.com/marketplace/storefront/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// DefaultVendorID groups line items that carry no vendor of their own
const DefaultVendorID = "default"

// LineItem is one product entry in the cart.
//
// OriginalPrice/OriginalCurrency are set once when the product is added and
// never change; they are the source of truth for every recomputation.
// DisplayPrice/DisplayCurrency are derived and rewritten whenever the user's
// display currency changes.
type LineItem struct {
	ProductID        string          `json:"productId"`
	Name             string          `json:"name"`
	Quantity         int             `json:"quantity"`
	VendorID         string          `json:"vendorId"`
	VendorName       string          `json:"vendorName,omitempty"`
	VendorProfile    string          `json:"vendorProfile,omitempty"`
	OriginalPrice    decimal.Decimal `json:"originalPrice"`
	OriginalCurrency string          `json:"originalCurrency"`
	DisplayPrice     decimal.Decimal `json:"displayPrice"`
	DisplayCurrency  string          `json:"displayCurrency"`
}

// NewLineItem creates a validated line item. The display price starts out
// equal to the original price until the first recomputation.
func NewLineItem(productID, name string, price decimal.Decimal, currencyCode string, quantity int) (LineItem, error) {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return LineItem{}, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if strings.TrimSpace(name) == "" {
		return LineItem{}, shared.NewDomainError("INVALID_PRODUCT", "Product name cannot be empty")
	}
	if quantity < 1 {
		return LineItem{}, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be at least 1")
	}
	if price.IsNegative() {
		return LineItem{}, shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	currencyCode = strings.ToUpper(strings.TrimSpace(currencyCode))
	if currencyCode == "" {
		return LineItem{}, shared.NewDomainError("INVALID_CURRENCY", "Currency code cannot be empty")
	}

	return LineItem{
		ProductID:        productID,
		Name:             name,
		Quantity:         quantity,
		VendorID:         DefaultVendorID,
		OriginalPrice:    price,
		OriginalCurrency: currencyCode,
		DisplayPrice:     price,
		DisplayCurrency:  currencyCode,
	}, nil
}

// WithVendor attaches vendor information to the item
func (i LineItem) WithVendor(vendorID, vendorName, profile string) LineItem {
	vendorID = strings.TrimSpace(vendorID)
	if vendorID == "" {
		vendorID = DefaultVendorID
	}
	i.VendorID = vendorID
	i.VendorName = vendorName
	i.VendorProfile = profile
	return i
}

// LineTotal returns displayPrice * quantity
func (i LineItem) LineTotal() decimal.Decimal {
	return i.DisplayPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Validate checks a line item loaded from storage for required fields
func (i LineItem) Validate() error {
	if strings.TrimSpace(i.ProductID) == "" {
		return shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if i.Quantity < 1 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be at least 1")
	}
	if strings.TrimSpace(i.OriginalCurrency) == "" {
		return shared.NewDomainError("INVALID_CURRENCY", "Original currency cannot be empty")
	}
	if i.OriginalPrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	return nil
}
