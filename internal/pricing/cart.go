package pricing

import "github.com/shopspring/decimal"

// Totals aggregates a cart. It is derived from the lines on every mutation.
type Totals struct {
	Subtotal            decimal.Decimal `json:"subtotal"`
	TotalDiscount       decimal.Decimal `json:"totalDiscount"`
	GrandTotal          decimal.Decimal `json:"grandTotal"`
	DiscountedLineCount int             `json:"discountedLineCount"`
}

// CheckoutLine is the normalized per-line record sent for sale persistence.
type CheckoutLine struct {
	ProductID         string              `json:"productId"`
	Quantity          int                 `json:"quantity"`
	OriginalPrice     decimal.Decimal     `json:"originalPrice"`
	FinalPrice        decimal.Decimal     `json:"finalPrice"`
	PromoDiscount     decimal.Decimal     `json:"promoDiscount"`
	WholesaleDiscount decimal.Decimal     `json:"wholesaleDiscount"`
	LineSubtotal      decimal.Decimal     `json:"lineSubtotal"`
	LineDiscount      decimal.Decimal     `json:"lineDiscount"`
	LineTotal         decimal.Decimal     `json:"lineTotal"`
	IsPromo           bool                `json:"isPromo"`
	IsWholesale       bool                `json:"isWholesale"`
	Clamped           bool                `json:"clamped"`
	CustomPrice       decimal.NullDecimal `json:"customPrice"`
}

// PriceLine prices a single cart line, using the override reconciler when the
// line carries a custom price and the plain resolver otherwise.
func PriceLine(l Line) CheckoutLine {
	qty := decimal.NewFromInt(int64(l.Quantity))
	out := CheckoutLine{
		ProductID:   l.Product.ID,
		Quantity:    l.Quantity,
		CustomPrice: l.CustomPrice,
	}
	if l.HasOverride() {
		res := ResolveWithOverride(l.Product, l.Quantity, l.CustomPrice.Decimal)
		out.OriginalPrice = res.BasePrice
		out.FinalPrice = res.FinalPrice
		out.PromoDiscount = res.Discounts.Promo
		out.WholesaleDiscount = res.Discounts.Wholesale
		out.IsPromo = res.IsPromo
		out.IsWholesale = res.IsWholesale
		out.Clamped = res.Clamped
	} else {
		calc := Resolve(l.Product, l.Quantity)
		out.OriginalPrice = calc.BasePrice
		out.FinalPrice = calc.FinalPrice
		unitDiscount := calc.BasePrice.Sub(calc.FinalPrice)
		if calc.IsPromo {
			out.PromoDiscount = unitDiscount
		}
		if calc.IsWholesale {
			out.WholesaleDiscount = unitDiscount
		}
		out.IsPromo = calc.IsPromo
		out.IsWholesale = calc.IsWholesale
	}
	out.LineSubtotal = out.OriginalPrice.Mul(qty)
	out.LineTotal = out.FinalPrice.Mul(qty)
	out.LineDiscount = out.LineSubtotal.Sub(out.LineTotal)
	return out
}

// CheckoutLines projects every line into its normalized checkout record.
func CheckoutLines(lines []Line) []CheckoutLine {
	out := make([]CheckoutLine, 0, len(lines))
	for _, l := range lines {
		out = append(out, PriceLine(l))
	}
	return out
}

// Aggregate folds the lines into cart totals. The fold is commutative, so the
// order of lines does not change the result.
func Aggregate(lines []Line) Totals {
	return Summarize(CheckoutLines(lines))
}

// Summarize totals already priced checkout lines.
func Summarize(priced []CheckoutLine) Totals {
	t := Totals{
		Subtotal:      decimal.Zero,
		TotalDiscount: decimal.Zero,
	}
	for _, l := range priced {
		t.Subtotal = t.Subtotal.Add(l.LineSubtotal)
		t.TotalDiscount = t.TotalDiscount.Add(l.LineDiscount)
		if l.IsPromo || l.IsWholesale {
			t.DiscountedLineCount++
		}
	}
	t.GrandTotal = t.Subtotal.Sub(t.TotalDiscount)
	return t
}
