package pricing

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMargin(t *testing.T) {
	p := retail("10")
	p.UnitCost = Price(dec("6"))

	m := Margin(p)
	requireNullDecimal(t, "4", m.Amount)
	requireNullDecimal(t, "40", m.Percent)

	none := Margin(retail("10"))
	require.False(t, none.Amount.Valid)
	require.False(t, none.Percent.Valid)
}

func TestValidateProduct(t *testing.T) {
	ok := stackedProduct()
	ok.UnitCost = Price(dec("5"))
	require.NoError(t, ValidateProduct(ok))

	bad := Product{
		RetailPrice:     dec("10"),
		UnitCost:        Price(dec("12")),
		PromoPrice:      Price(dec("10")),
		WholesalePrice:  Price(dec("11")),
		WholesaleMinQty: MinQty(0),
	}
	err := ValidateProduct(bad)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrRetailBelowCost))
	require.True(t, errors.Is(err, ErrPromoNotBelowRetail))
	require.True(t, errors.Is(err, ErrWholesaleNotBelowRetail))
	require.True(t, errors.Is(err, ErrInvalidWholesaleMinQty))
	require.False(t, errors.Is(err, ErrInvalidRetailPrice))

	err = ValidateProduct(Product{RetailPrice: dec("0"), PromoPrice: Price(dec("-1"))})
	require.ErrorIs(t, err, ErrInvalidRetailPrice)
	require.ErrorIs(t, err, ErrNegativePrice)
}
