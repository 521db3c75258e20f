package currency

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Converter converts monetary amounts between currencies by pivoting
// through the base currency. It is a pure function over a RateTable.
type Converter struct {
	rates *RateTable
}

// NewConverter creates a Converter over the given rate table
func NewConverter(rates *RateTable) *Converter {
	return &Converter{rates: rates}
}

// Convert converts amount from one currency to another, rounded to 2 decimal places.
//
// Unknown currency codes are treated as rate 1.0 so that conversion never fails
// outright; callers that need strict behavior should check the registry first.
func (c *Converter) Convert(amount decimal.Decimal, from, to string) decimal.Decimal {
	from = strings.ToUpper(strings.TrimSpace(from))
	to = strings.ToUpper(strings.TrimSpace(to))
	if from == to {
		return amount
	}

	fromRate := c.rateOrOne(from)
	toRate := c.rateOrOne(to)

	inBase := amount.Div(fromRate)
	return inBase.Mul(toRate).Round(2)
}

func (c *Converter) rateOrOne(code string) decimal.Decimal {
	if rate, ok := c.rates.Rate(code); ok && rate.IsPositive() {
		return rate
	}
	return decimal.NewFromInt(1)
}
