package currency

import (
	"context"

	"github.com/shopspring/decimal"
)

// CartGateway adapts the currency service to the conversion interface
// the cart and shipping services consume.
type CartGateway struct {
	service *Service
}

// NewCartGateway creates the adapter
func NewCartGateway(service *Service) *CartGateway {
	return &CartGateway{service: service}
}

// Convert converts between currencies. Unknown codes pass through at
// rate 1.0, so the only failure mode is a cancelled context.
func (g *CartGateway) Convert(ctx context.Context, amount decimal.Decimal, from, to string) (decimal.Decimal, error) {
	if err := ctx.Err(); err != nil {
		return decimal.Zero, err
	}
	return g.service.Convert(ctx, amount, from, to), nil
}

// Format renders an amount in the currency's display conventions
func (g *CartGateway) Format(ctx context.Context, amount decimal.Decimal, code string) string {
	return g.service.Format(ctx, amount, code)
}
