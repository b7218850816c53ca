package pricing

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var currencySymbols = map[string]string{
	"PEN": "S/.",
	"USD": "$",
	"EUR": "€",
}

// CurrencySymbol returns the display symbol for an ISO currency code, falling
// back to the code itself.
func CurrencySymbol(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if sym, ok := currencySymbols[code]; ok {
		return sym
	}
	return code
}

// FormatCurrency renders value as "{symbol} {value with two decimals}".
func FormatCurrency(value decimal.Decimal, code string) string {
	return CurrencySymbol(code) + " " + value.StringFixed(2)
}

// Badge returns the discount badge text for a calculation, or nil when the
// price is not discounted or the discount percent is unknown.
func Badge(c PriceCalculation) *string {
	if !c.DiscountPercent.Valid {
		return nil
	}
	var label string
	switch {
	case c.IsPromo:
		label = "OFERTA"
	case c.IsWholesale:
		label = "MAYORISTA"
	default:
		return nil
	}
	text := fmt.Sprintf("%s -%s%%", label, c.DiscountPercent.Decimal.Round(0).String())
	return &text
}
