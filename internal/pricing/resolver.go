package pricing

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// PriceCalculation is the resolver output for one product and quantity.
type PriceCalculation struct {
	BasePrice       decimal.Decimal     `json:"basePrice"`
	FinalPrice      decimal.Decimal     `json:"finalPrice"`
	DiscountPercent decimal.NullDecimal `json:"discountPercent"`
	IsPromo         bool                `json:"isPromo"`
	IsWholesale     bool                `json:"isWholesale"`
	Savings         decimal.NullDecimal `json:"savings"`
}

// Kind classifies the calculation for logs and metrics.
func (c PriceCalculation) Kind() string {
	switch {
	case c.IsPromo:
		return KindPromo
	case c.IsWholesale:
		return KindWholesale
	default:
		return KindNormal
	}
}

// Discount classifications.
const (
	KindNormal    = "normal"
	KindPromo     = "promo"
	KindWholesale = "wholesale"
	KindOverride  = "override"
)

// Resolve picks the unit price charged for qty units of p. Rules are checked
// in order and never combined: an active promo always beats wholesale.
func Resolve(p Product, qty int) PriceCalculation {
	calc := PriceCalculation{
		BasePrice:  p.RetailPrice,
		FinalPrice: p.RetailPrice,
	}
	switch {
	case p.PromoActive && p.PromoPrice.Valid:
		calc.FinalPrice = p.PromoPrice.Decimal
		calc.IsPromo = true
	case QualifiesForWholesale(p, qty):
		calc.FinalPrice = p.WholesalePrice.Decimal
		calc.IsWholesale = true
	}

	diff := calc.BasePrice.Sub(calc.FinalPrice)
	// A zero or negative base price would divide by zero; leave the percent unset.
	if calc.BasePrice.IsPositive() {
		if pct := diff.Div(calc.BasePrice).Mul(hundred); pct.IsPositive() {
			calc.DiscountPercent = decimal.NewNullDecimal(pct)
		}
	}
	if savings := diff.Mul(decimal.NewFromInt(int64(qty))); savings.IsPositive() {
		calc.Savings = decimal.NewNullDecimal(savings)
	}
	return calc
}

// QualifiesForWholesale reports whether qty reaches the product's wholesale threshold.
func QualifiesForWholesale(p Product, qty int) bool {
	return p.WholesalePrice.Valid && qty >= wholesaleThreshold(p)
}

// UnitsUntilWholesale returns how many more units are needed to reach the
// wholesale price, or nil when the product has no wholesale price.
func UnitsUntilWholesale(p Product, qty int) *int {
	if !p.WholesalePrice.Valid {
		return nil
	}
	remaining := wholesaleThreshold(p) - qty
	if remaining < 0 {
		remaining = 0
	}
	return &remaining
}
