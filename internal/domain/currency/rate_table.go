package currency

import (
	"strings"

	"github.com/shopspring/decimal"
)

// RateTable holds exchange rates keyed by currency code, expressed as
// units of the currency per one unit of the base currency.
// A RateTable is an immutable snapshot; refreshing rates swaps the whole table.
type RateTable struct {
	rates map[string]decimal.Decimal
}

// NewRateTable builds a rate table from a code -> rate map.
// Codes are normalized to upper case; the base rate is always 1.0.
func NewRateTable(rates map[string]decimal.Decimal) *RateTable {
	t := &RateTable{rates: make(map[string]decimal.Decimal, len(rates)+1)}
	for code, rate := range rates {
		t.rates[strings.ToUpper(strings.TrimSpace(code))] = rate
	}
	t.rates[BaseCode] = decimal.NewFromInt(1)
	return t
}

// FallbackRates returns the static rate table used before the first
// successful refresh, derived from the built-in currency list.
func FallbackRates() *RateTable {
	return Fallback().Rates()
}

// Rate returns the rate for a code and whether the code is known
func (t *RateTable) Rate(code string) (decimal.Decimal, bool) {
	r, ok := t.rates[strings.ToUpper(strings.TrimSpace(code))]
	return r, ok
}

// Has reports whether the table carries a rate for the code
func (t *RateTable) Has(code string) bool {
	_, ok := t.Rate(code)
	return ok
}

// Len returns the number of rates in the table
func (t *RateTable) Len() int {
	return len(t.rates)
}
