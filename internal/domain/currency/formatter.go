package currency

import (
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Formatter renders monetary amounts into display strings using
// the registry's currency metadata (symbol, placement, decimal places).
type Formatter struct {
	registry *Registry
	printer  *message.Printer
}

// NewFormatter creates a Formatter over the given registry
func NewFormatter(registry *Registry) *Formatter {
	return &Formatter{
		registry: registry,
		printer:  message.NewPrinter(language.English),
	}
}

// Format renders an amount with the currency's symbol and thousands separators.
// Unknown currency codes fall back to "<amount> <code>".
func (f *Formatter) Format(amount decimal.Decimal, code string) string {
	cur, ok := f.registry.Get(code)
	if !ok {
		return fmt.Sprintf("%s %s", amount.Round(2).String(), code)
	}

	value, _ := amount.Round(cur.Decimals).Float64()
	num := f.printer.Sprintf("%v", number.Decimal(value,
		number.MinFractionDigits(int(cur.Decimals)),
		number.MaxFractionDigits(int(cur.Decimals)),
	))

	if cur.Position == PositionBefore {
		return cur.Symbol + num
	}
	return num + " " + cur.Symbol
}
