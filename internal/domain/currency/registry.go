package currency

import (
	"strings"

	"github.com/marketplace/storefront/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Registry holds the set of known currencies, preserving listing order.
// It is an immutable snapshot; loading a fresh currency list produces a new Registry.
type Registry struct {
	ordered []Currency
	byCode  map[string]Currency
}

// NewRegistry builds a Registry from a currency list.
// Duplicate codes are rejected; the base currency is required and pinned to rate 1.0.
func NewRegistry(currencies []Currency) (*Registry, error) {
	if len(currencies) == 0 {
		return nil, shared.NewDomainError("EMPTY_REGISTRY", "Currency registry cannot be empty")
	}

	r := &Registry{
		ordered: make([]Currency, 0, len(currencies)),
		byCode:  make(map[string]Currency, len(currencies)),
	}
	for _, c := range currencies {
		if _, ok := r.byCode[c.Code]; ok {
			return nil, shared.NewDomainError("DUPLICATE_CODE", "Duplicate currency code: "+c.Code)
		}
		if c.IsBase() {
			c.Rate = decimal.NewFromInt(1)
		}
		r.ordered = append(r.ordered, c)
		r.byCode[c.Code] = c
	}
	if _, ok := r.byCode[BaseCode]; !ok {
		return nil, shared.NewDomainError("MISSING_BASE", "Registry must contain the base currency "+BaseCode)
	}
	return r, nil
}

// Get returns the currency for a code (case-insensitive)
func (r *Registry) Get(code string) (Currency, bool) {
	c, ok := r.byCode[strings.ToUpper(strings.TrimSpace(code))]
	return c, ok
}

// Has reports whether the code is known to the registry
func (r *Registry) Has(code string) bool {
	_, ok := r.Get(code)
	return ok
}

// Active returns all active currencies in listing order
func (r *Registry) Active() []Currency {
	out := make([]Currency, 0, len(r.ordered))
	for _, c := range r.ordered {
		if c.IsActive {
			out = append(out, c)
		}
	}
	return out
}

// All returns every currency in listing order
func (r *Registry) All() []Currency {
	out := make([]Currency, len(r.ordered))
	copy(out, r.ordered)
	return out
}

// Rates extracts a RateTable snapshot from the registry
func (r *Registry) Rates() *RateTable {
	rates := make(map[string]decimal.Decimal, len(r.ordered))
	for _, c := range r.ordered {
		rates[c.Code] = c.Rate
	}
	return NewRateTable(rates)
}

// Fallback returns the built-in registry used when the upstream
// currency listing cannot be fetched. Rates are units per one XAF.
func Fallback() *Registry {
	r, err := NewRegistry(fallbackCurrencies())
	if err != nil {
		// The static table is validated by tests; this cannot happen at runtime.
		panic(err)
	}
	return r
}

func fallbackCurrencies() []Currency {
	mk := func(code, symbol, name, rate string, pos Position, decimals int32) Currency {
		return Currency{
			Code:     code,
			Symbol:   symbol,
			Name:     name,
			Rate:     decimal.RequireFromString(rate),
			Position: pos,
			Decimals: decimals,
			IsActive: true,
		}
	}
	return []Currency{
		mk("XAF", "XAF", "Central African CFA Franc", "1", PositionAfter, 0),
		mk("USD", "$", "US Dollar", "0.0016", PositionBefore, 2),
		mk("EUR", "€", "Euro", "0.0015", PositionBefore, 2),
		mk("GBP", "£", "British Pound", "0.0013", PositionBefore, 2),
		mk("NGN", "₦", "Nigerian Naira", "0.73", PositionBefore, 2),
		mk("GHS", "₵", "Ghanaian Cedi", "0.019", PositionBefore, 2),
		mk("KES", "KSh", "Kenyan Shilling", "0.24", PositionBefore, 2),
		mk("ZAR", "R", "South African Rand", "0.029", PositionBefore, 2),
		mk("EGP", "E£", "Egyptian Pound", "0.049", PositionBefore, 2),
		mk("MAD", "MAD", "Moroccan Dirham", "0.016", PositionAfter, 2),
		mk("TND", "TND", "Tunisian Dinar", "0.005", PositionAfter, 3),
		mk("DZD", "DZD", "Algerian Dinar", "0.22", PositionAfter, 2),
		mk("CAD", "C$", "Canadian Dollar", "0.0022", PositionBefore, 2),
		mk("AUD", "A$", "Australian Dollar", "0.0024", PositionBefore, 2),
	}
}
