package pricing

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidRetailPrice is returned when the retail price is not positive.
	ErrInvalidRetailPrice = errors.New("retail price must be positive")
	// ErrRetailBelowCost indicates the retail price does not exceed the unit cost.
	ErrRetailBelowCost = errors.New("retail price must be greater than unit cost")
	// ErrPromoNotBelowRetail indicates a promo price that is not a discount.
	ErrPromoNotBelowRetail = errors.New("promo price must be lower than retail price")
	// ErrWholesaleNotBelowRetail indicates a wholesale price that is not a discount.
	ErrWholesaleNotBelowRetail = errors.New("wholesale price must be lower than retail price")
	// ErrInvalidWholesaleMinQty is returned for thresholds below one unit.
	ErrInvalidWholesaleMinQty = errors.New("wholesale minimum quantity must be at least 1")
	// ErrNegativePrice is returned when any configured price is negative.
	ErrNegativePrice = errors.New("prices cannot be negative")
)

// MarginInfo describes the gross margin of a product at its retail price.
type MarginInfo struct {
	Amount  decimal.NullDecimal `json:"amount"`
	Percent decimal.NullDecimal `json:"percent"`
}

// Margin computes the retail margin over unit cost. Both fields are unset when
// the product has no unit cost.
func Margin(p Product) MarginInfo {
	var m MarginInfo
	if !p.UnitCost.Valid {
		return m
	}
	amount := p.RetailPrice.Sub(p.UnitCost.Decimal)
	m.Amount = decimal.NewNullDecimal(amount)
	if p.RetailPrice.IsPositive() {
		m.Percent = decimal.NewNullDecimal(amount.Div(p.RetailPrice).Mul(hundred))
	}
	return m
}

// ValidateProduct checks the pricing invariants the catalog expects. The
// resolver itself never calls it and prices violating products mechanically.
func ValidateProduct(p Product) error {
	var errs []error
	if !p.RetailPrice.IsPositive() {
		errs = append(errs, ErrInvalidRetailPrice)
	}
	for _, v := range []decimal.NullDecimal{p.UnitCost, p.PromoPrice, p.WholesalePrice} {
		if v.Valid && v.Decimal.IsNegative() {
			errs = append(errs, ErrNegativePrice)
			break
		}
	}
	if p.UnitCost.Valid && !p.RetailPrice.GreaterThan(p.UnitCost.Decimal) {
		errs = append(errs, fmt.Errorf("%w: cost %s, retail %s", ErrRetailBelowCost, p.UnitCost.Decimal.StringFixed(2), p.RetailPrice.StringFixed(2)))
	}
	if p.PromoPrice.Valid && !p.PromoPrice.Decimal.LessThan(p.RetailPrice) {
		errs = append(errs, ErrPromoNotBelowRetail)
	}
	if p.WholesalePrice.Valid && !p.WholesalePrice.Decimal.LessThan(p.RetailPrice) {
		errs = append(errs, ErrWholesaleNotBelowRetail)
	}
	if p.WholesaleMinQty != nil && *p.WholesaleMinQty < 1 {
		errs = append(errs, ErrInvalidWholesaleMinQty)
	}
	return errors.Join(errs...)
}
