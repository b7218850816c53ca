package pricing

import "github.com/shopspring/decimal"

// Product carries the catalog attributes the engine prices from. Optional
// fields are explicit: an invalid NullDecimal or a nil pointer means the
// feature is not configured, never zero.
type Product struct {
	ID              string
	UnitCost        decimal.NullDecimal
	RetailPrice     decimal.Decimal
	PromoActive     bool
	PromoPrice      decimal.NullDecimal
	WholesalePrice  decimal.NullDecimal
	WholesaleMinQty *int
}

// Line is a cart line as seen by the aggregator.
type Line struct {
	Product     Product
	Quantity    int
	CustomPrice decimal.NullDecimal
}

// HasOverride reports whether the operator entered a custom unit price.
func (l Line) HasOverride() bool {
	return l.CustomPrice.Valid
}

// Price wraps a decimal into a configured optional price.
func Price(d decimal.Decimal) decimal.NullDecimal {
	return decimal.NewNullDecimal(d)
}

// MinQty returns a pointer suitable for Product.WholesaleMinQty.
func MinQty(n int) *int {
	return &n
}

func wholesaleThreshold(p Product) int {
	if p.WholesaleMinQty != nil {
		return *p.WholesaleMinQty
	}
	return 1
}
