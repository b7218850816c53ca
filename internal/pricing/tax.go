package pricing

import "github.com/shopspring/decimal"

// IGVRate is the fixed sales tax rate applied to tax-exclusive totals.
var IGVRate = decimal.RequireFromString("0.18")

// TaxBreakdown splits a tax-exclusive subtotal into its tax and total parts.
type TaxBreakdown struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
	Rate     decimal.Decimal `json:"rate"`
}

// ComputeTax applies IGV to subtotal. Each field is rounded to cents from its
// own exact value, so Total is not necessarily Subtotal+Tax after rounding.
// Negative input is not rejected.
func ComputeTax(subtotal decimal.Decimal) TaxBreakdown {
	tax := subtotal.Mul(IGVRate)
	total := subtotal.Add(tax)
	return TaxBreakdown{
		Subtotal: roundCents(subtotal),
		Tax:      roundCents(tax),
		Total:    roundCents(total),
		Rate:     IGVRate,
	}
}

func roundCents(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
