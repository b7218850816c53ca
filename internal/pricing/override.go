package pricing

import (
	"math"

	"github.com/shopspring/decimal"
)

// MinUnitPrice is the floor applied to reconciled override prices.
var MinUnitPrice = decimal.RequireFromString("0.01")

// Discounts holds absolute per-unit discount amounts.
type Discounts struct {
	Promo     decimal.Decimal `json:"promo"`
	Wholesale decimal.Decimal `json:"wholesale"`
}

// OverrideResult is the reconciled price for a line with an operator override.
type OverrideResult struct {
	BasePrice     decimal.Decimal `json:"basePrice"`
	FinalPrice    decimal.Decimal `json:"finalPrice"`
	Discounts     Discounts       `json:"discounts"`
	TotalDiscount decimal.Decimal `json:"totalDiscount"`
	IsPromo       bool            `json:"isPromo"`
	IsWholesale   bool            `json:"isWholesale"`
	Clamped       bool            `json:"clamped"`
}

// ResolveWithOverride keeps the absolute discount amounts implied by the
// product's configured promo and wholesale prices and subtracts them from the
// operator's custom base price.
//
// Unlike Resolve, promo and wholesale discounts are summed here: the custom
// price absorbs both. The result never drops below MinUnitPrice.
func ResolveWithOverride(p Product, qty int, customBasePrice decimal.Decimal) OverrideResult {
	reference := p.RetailPrice

	var d Discounts
	if p.PromoActive && p.PromoPrice.Valid {
		d.Promo = reference.Sub(p.PromoPrice.Decimal)
	}
	if QualifiesForWholesale(p, qty) {
		d.Wholesale = reference.Sub(p.WholesalePrice.Decimal)
	}
	total := d.Promo.Add(d.Wholesale)

	final := customBasePrice.Sub(total)
	clamped := false
	if final.LessThan(MinUnitPrice) {
		final = MinUnitPrice
		clamped = true
	}

	// Without a configured threshold the flag uses an unreachable one.
	threshold := math.MaxInt
	if p.WholesaleMinQty != nil {
		threshold = *p.WholesaleMinQty
	}

	return OverrideResult{
		BasePrice:     customBasePrice,
		FinalPrice:    final,
		Discounts:     d,
		TotalDiscount: total,
		IsPromo:       p.PromoActive,
		IsWholesale:   qty >= threshold,
		Clamped:       clamped,
	}
}
