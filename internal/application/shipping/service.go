package shipping

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/marketplace/storefront/internal/domain/cart"
	"github.com/marketplace/storefront/internal/domain/shared"
	"github.com/marketplace/storefront/internal/domain/shipping"
)

// CartReader is the slice of the cart service the shipping quote needs
type CartReader interface {
	VendorGroups() []cart.VendorGroup
	DisplayCurrency() string
}

// CurrencyGateway converts and formats amounts for presentation
type CurrencyGateway interface {
	Convert(ctx context.Context, amount decimal.Decimal, from, to string) (decimal.Decimal, error)
	Format(ctx context.Context, amount decimal.Decimal, code string) string
}

// VendorQuote is one vendor's share of a shipping quote, in the
// cart's display currency.
type VendorQuote struct {
	VendorID       string          `json:"vendorId"`
	Zone           string          `json:"zone"`
	Cost           decimal.Decimal `json:"cost"`
	FormattedCost  string          `json:"formattedCost"`
	Currency       string          `json:"currency"`
	IsFree         bool            `json:"isFree"`
	DeliveryTime   string          `json:"deliveryTime"`
	ProcessingTime string          `json:"processingTime"`
}

// Quote is a full marketplace shipping quote for the current cart
type Quote struct {
	City                  string                 `json:"city"`
	VendorCount           int                    `json:"vendorCount"`
	Vendors               map[string]VendorQuote `json:"vendorShipping"`
	TotalCost             decimal.Decimal        `json:"totalCost"`
	FormattedTotal        string                 `json:"formattedTotal"`
	Currency              string                 `json:"currency"`
	EstimatedDeliveryTime string                 `json:"estimatedDeliveryTime"`
}

// Service quotes shipping for the cart. Zone rates and thresholds are
// kept in the marketplace base currency; quotes are converted into the
// cart's display currency on the way out.
type Service struct {
	cart     CartReader
	currency CurrencyGateway
	logger   *zap.Logger
}

// NewService creates the shipping service
func NewService(cartReader CartReader, currency CurrencyGateway, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{cart: cartReader, currency: currency, logger: logger}
}

// QuoteForCity quotes shipping for the current cart to the given city
func (s *Service) QuoteForCity(ctx context.Context, city string) (Quote, error) {
	if strings.TrimSpace(city) == "" {
		return Quote{}, shared.NewDomainError("INVALID_CITY", "Delivery city cannot be empty")
	}

	groups := s.cart.VendorGroups()
	if len(groups) == 0 {
		return Quote{}, shared.NewDomainError("EMPTY_CART", "Cannot quote shipping for an empty cart")
	}

	display := s.cart.DisplayCurrency()

	// Thresholds are defined in the base currency, so each vendor's
	// subtotal is converted back before the free-shipping check.
	for idx := range groups {
		converted, err := s.currency.Convert(ctx, groups[idx].Subtotal, display, shipping.BaseCurrency)
		if err != nil {
			s.logger.Warn("Subtotal conversion failed, comparing as-is",
				zap.String("vendor_id", groups[idx].VendorID),
				zap.Error(err))
			continue
		}
		groups[idx].Subtotal = converted
	}

	result := shipping.CalculateMarketplace(groups, city)

	quote := Quote{
		City:                  city,
		VendorCount:           result.VendorCount,
		Vendors:               make(map[string]VendorQuote, len(result.Vendors)),
		Currency:              display,
		EstimatedDeliveryTime: result.EstimatedDeliveryTime,
	}

	for vendorID, vendor := range result.Vendors {
		cost := s.toDisplay(ctx, vendor.Cost, vendor.Currency, display)
		quote.Vendors[vendorID] = VendorQuote{
			VendorID:       vendor.VendorID,
			Zone:           vendor.Zone,
			Cost:           cost,
			FormattedCost:  s.currency.Format(ctx, cost, display),
			Currency:       display,
			IsFree:         vendor.IsFree,
			DeliveryTime:   vendor.DeliveryTime,
			ProcessingTime: vendor.ProcessingTime,
		}
	}

	quote.TotalCost = s.toDisplay(ctx, result.TotalCost, shipping.BaseCurrency, display)
	quote.FormattedTotal = s.currency.Format(ctx, quote.TotalCost, display)
	return quote, nil
}

func (s *Service) toDisplay(ctx context.Context, amount decimal.Decimal, from, to string) decimal.Decimal {
	converted, err := s.currency.Convert(ctx, amount, from, to)
	if err != nil {
		s.logger.Warn("Shipping cost conversion failed, returning base amount", zap.Error(err))
		return amount
	}
	return converted
}

// Zones returns the standard shipping zones
func (s *Service) Zones() []shipping.Zone {
	return shipping.Zones()
}

// Profiles returns the vendor shipping profiles
func (s *Service) Profiles() []shipping.Profile {
	return shipping.Profiles()
}
