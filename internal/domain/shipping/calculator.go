package shipping

import (
	"strconv"
	"strings"

	"github.com/marketplace/storefront/internal/domain/cart"
	"github.com/shopspring/decimal"
)

// VendorResult is the shipping outcome for a single vendor's slice of the cart
type VendorResult struct {
	VendorID       string          `json:"vendorId"`
	Zone           string          `json:"zone"`
	Cost           decimal.Decimal `json:"cost"`
	Currency       string          `json:"currency"`
	IsFree         bool            `json:"isFree"`
	DeliveryTime   string          `json:"deliveryTime"`
	ProcessingTime string          `json:"processingTime"`
	Subtotal       decimal.Decimal `json:"subtotal"`
}

// MarketplaceResult aggregates shipping across every vendor in the cart
type MarketplaceResult struct {
	VendorCount           int                     `json:"vendorCount"`
	Vendors               map[string]VendorResult `json:"vendorShipping"`
	TotalCost             decimal.Decimal         `json:"totalCost"`
	EstimatedDeliveryTime string                  `json:"estimatedDeliveryTime"`
}

// CalculateVendor computes shipping for one vendor: the zone is resolved from
// the delivery city under the vendor's profile, and shipping is free when the
// vendor subtotal reaches the zone's threshold.
func CalculateVendor(vendorID, city string, subtotal decimal.Decimal, profileID string) VendorResult {
	profile := ProfileByID(profileID)
	zone := profile.ZoneFor(city)

	result := VendorResult{
		VendorID:       vendorID,
		Zone:           zone.Name,
		Currency:       profile.Currency,
		DeliveryTime:   zone.DeliveryTime,
		ProcessingTime: profile.ProcessingTime,
		Subtotal:       subtotal,
	}

	if subtotal.GreaterThanOrEqual(zone.FreeShippingThreshold) {
		result.Cost = decimal.Zero
		result.IsFree = true
		return result
	}

	result.Cost = zone.BaseRate
	return result
}

// CalculateMarketplace computes shipping for a multi-vendor cart. Each vendor
// group is quoted independently; the estimate across vendors is the slowest
// delivery-time label, and the total is the sum of non-free vendor costs.
// Vendor costs are expressed in each profile's own currency.
func CalculateMarketplace(groups []cart.VendorGroup, city string) MarketplaceResult {
	result := MarketplaceResult{
		Vendors:   make(map[string]VendorResult, len(groups)),
		TotalCost: decimal.Zero,
	}

	for _, group := range groups {
		vendor := CalculateVendor(group.VendorID, city, group.Subtotal, group.Profile)
		result.Vendors[group.VendorID] = vendor
		result.VendorCount++

		if !vendor.IsFree {
			result.TotalCost = result.TotalCost.Add(vendor.Cost)
		}
		if slowerThan(vendor.DeliveryTime, result.EstimatedDeliveryTime) {
			result.EstimatedDeliveryTime = vendor.DeliveryTime
		}
	}

	return result
}

// slowerThan compares delivery-time labels like "2-3 business days" by their
// upper-bound day count, falling back to string order for unparseable labels.
func slowerThan(a, b string) bool {
	if b == "" {
		return true
	}
	da, aok := deliveryDays(a)
	db, bok := deliveryDays(b)
	if aok && bok {
		return da > db
	}
	return a > b
}

func deliveryDays(label string) (int, bool) {
	max := 0
	found := false
	for _, field := range strings.FieldsFunc(label, func(r rune) bool {
		return r < '0' || r > '9'
	}) {
		if n, err := strconv.Atoi(field); err == nil {
			found = true
			if n > max {
				max = n
			}
		}
	}
	return max, found
}
