package pricing

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolveWithoutDiscounts(t *testing.T) {
	calc := Resolve(retail("10"), 3)

	requireDecimal(t, "10", calc.BasePrice)
	requireDecimal(t, "10", calc.FinalPrice)
	require.False(t, calc.IsPromo)
	require.False(t, calc.IsWholesale)
	require.False(t, calc.DiscountPercent.Valid)
	require.False(t, calc.Savings.Valid)
	require.Equal(t, KindNormal, calc.Kind())
}

func TestResolvePromo(t *testing.T) {
	p := retail("10")
	p.PromoActive = true
	p.PromoPrice = Price(dec("8"))

	calc := Resolve(p, 3)

	requireDecimal(t, "8", calc.FinalPrice)
	require.True(t, calc.IsPromo)
	require.False(t, calc.IsWholesale)
	requireNullDecimal(t, "20", calc.DiscountPercent)
	requireNullDecimal(t, "6", calc.Savings)
	require.Equal(t, KindPromo, calc.Kind())
}

func TestResolvePromoInactiveIgnoresPromoPrice(t *testing.T) {
	p := retail("10")
	p.PromoPrice = Price(dec("8"))

	calc := Resolve(p, 1)
	requireDecimal(t, "10", calc.FinalPrice)
	require.False(t, calc.IsPromo)
}

func TestResolvePromoActiveWithoutPrice(t *testing.T) {
	p := retail("10")
	p.PromoActive = true

	calc := Resolve(p, 1)
	requireDecimal(t, "10", calc.FinalPrice)
	require.False(t, calc.IsPromo)
}

func TestResolveWholesaleThreshold(t *testing.T) {
	p := retail("10")
	p.WholesalePrice = Price(dec("7"))
	p.WholesaleMinQty = MinQty(5)

	below := Resolve(p, 4)
	requireDecimal(t, "10", below.FinalPrice)
	require.False(t, below.IsWholesale)
	require.False(t, below.Savings.Valid)

	at := Resolve(p, 5)
	requireDecimal(t, "7", at.FinalPrice)
	require.True(t, at.IsWholesale)
	require.False(t, at.IsPromo)
	requireNullDecimal(t, "30", at.DiscountPercent)
	requireNullDecimal(t, "15", at.Savings)
	require.Equal(t, KindWholesale, at.Kind())
}

func TestResolveWholesaleDefaultsToOneUnit(t *testing.T) {
	p := retail("10")
	p.WholesalePrice = Price(dec("9"))

	calc := Resolve(p, 1)
	require.True(t, calc.IsWholesale)
	requireDecimal(t, "9", calc.FinalPrice)
}

func TestResolvePromoBeatsWholesale(t *testing.T) {
	p := retail("10")
	p.PromoActive = true
	p.PromoPrice = Price(dec("8"))
	p.WholesalePrice = Price(dec("7"))
	p.WholesaleMinQty = MinQty(5)

	calc := Resolve(p, 10)
	requireDecimal(t, "8", calc.FinalPrice)
	require.True(t, calc.IsPromo)
	require.False(t, calc.IsWholesale)
}

func TestResolveZeroBasePriceLeavesPercentUnset(t *testing.T) {
	p := retail("0")
	p.PromoActive = true
	p.PromoPrice = Price(dec("-1"))

	calc := Resolve(p, 2)
	require.True(t, calc.IsPromo)
	require.False(t, calc.DiscountPercent.Valid)
	requireNullDecimal(t, "2", calc.Savings)
}

func TestResolvePriceAboveRetailIsAppliedMechanically(t *testing.T) {
	p := retail("10")
	p.PromoActive = true
	p.PromoPrice = Price(dec("12"))

	calc := Resolve(p, 1)
	requireDecimal(t, "12", calc.FinalPrice)
	require.True(t, calc.IsPromo)
	require.False(t, calc.DiscountPercent.Valid)
	require.False(t, calc.Savings.Valid)
}

func TestUnitsUntilWholesale(t *testing.T) {
	require.Nil(t, UnitsUntilWholesale(retail("10"), 1))

	p := retail("10")
	p.WholesalePrice = Price(dec("7"))
	p.WholesaleMinQty = MinQty(6)

	cases := map[int]int{1: 5, 5: 1, 6: 0, 12: 0}
	for qty, want := range cases {
		got := UnitsUntilWholesale(p, qty)
		require.NotNil(t, got)
		require.Equalf(t, want, *got, "qty %d", qty)
	}
}
