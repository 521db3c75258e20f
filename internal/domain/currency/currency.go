package currency

import (
	"strings"

	"github.com/marketplace/storefront/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Position indicates where the currency symbol is placed relative to the amount
type Position string

const (
	PositionBefore Position = "before"
	PositionAfter  Position = "after"
)

// BaseCode is the base currency all exchange rates are expressed against.
// The base always has rate 1.0 and acts as the pivot for any-to-any conversion.
const BaseCode = "XAF"

// Currency describes one supported currency and its exchange rate
// relative to the base currency (units of this currency per one base unit).
type Currency struct {
	Code     string          `json:"code"`
	Symbol   string          `json:"symbol"`
	Name     string          `json:"name"`
	Rate     decimal.Decimal `json:"exchangeRate"`
	Position Position        `json:"position"`
	Decimals int32           `json:"decimals"`
	IsActive bool            `json:"isActive"`
}

// New creates a validated Currency
func New(code, symbol, name string, rate decimal.Decimal, position Position, decimals int32) (Currency, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return Currency{}, shared.NewDomainError("INVALID_CODE", "Currency code cannot be empty")
	}
	if len(code) > 8 {
		return Currency{}, shared.NewDomainError("INVALID_CODE", "Currency code cannot exceed 8 characters")
	}
	if symbol == "" {
		symbol = code
	}
	if name == "" {
		return Currency{}, shared.NewDomainError("INVALID_NAME", "Currency name cannot be empty")
	}
	if !rate.IsPositive() {
		return Currency{}, shared.NewDomainError("INVALID_RATE", "Exchange rate must be positive")
	}
	if position != PositionBefore && position != PositionAfter {
		return Currency{}, shared.NewDomainError("INVALID_POSITION", "Symbol position must be 'before' or 'after'")
	}
	if decimals < 0 || decimals > 3 {
		return Currency{}, shared.NewDomainError("INVALID_DECIMALS", "Decimal places must be between 0 and 3")
	}
	return Currency{
		Code:     code,
		Symbol:   symbol,
		Name:     name,
		Rate:     rate,
		Position: position,
		Decimals: decimals,
		IsActive: true,
	}, nil
}

// IsBase returns true if this is the base currency
func (c Currency) IsBase() bool {
	return c.Code == BaseCode
}
