package pricing

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func stackedProduct() Product {
	p := retail("10")
	p.PromoActive = true
	p.PromoPrice = Price(dec("8"))
	p.WholesalePrice = Price(dec("7"))
	p.WholesaleMinQty = MinQty(1)
	return p
}

func TestResolveWithOverrideKeepsAbsoluteDiscounts(t *testing.T) {
	res := ResolveWithOverride(stackedProduct(), 1, dec("6"))

	requireDecimal(t, "6", res.BasePrice)
	requireDecimal(t, "2", res.Discounts.Promo)
	requireDecimal(t, "3", res.Discounts.Wholesale)
	requireDecimal(t, "5", res.TotalDiscount)
	requireDecimal(t, "1", res.FinalPrice)
	require.True(t, res.IsPromo)
	require.True(t, res.IsWholesale)
	require.False(t, res.Clamped)
}

func TestResolveWithOverrideFloorsAtOneCent(t *testing.T) {
	for _, custom := range []string{"5", "4.99", "3", "0", "-10", "5.01"} {
		res := ResolveWithOverride(stackedProduct(), 1, dec(custom))
		require.Truef(t, res.FinalPrice.GreaterThanOrEqual(MinUnitPrice), "custom %s gave %s", custom, res.FinalPrice)
	}

	res := ResolveWithOverride(stackedProduct(), 1, dec("3"))
	requireDecimal(t, "0.01", res.FinalPrice)
	require.True(t, res.Clamped)

	res = ResolveWithOverride(stackedProduct(), 1, dec("5.01"))
	requireDecimal(t, "0.01", res.FinalPrice)
	require.False(t, res.Clamped)
}

func TestResolveWithOverrideWithoutDiscounts(t *testing.T) {
	res := ResolveWithOverride(retail("10"), 4, dec("12.50"))

	requireDecimal(t, "12.50", res.FinalPrice)
	require.True(t, res.TotalDiscount.IsZero())
	require.False(t, res.IsPromo)
	require.False(t, res.IsWholesale)
}

func TestResolveWithOverrideWholesaleBelowThreshold(t *testing.T) {
	p := retail("10")
	p.WholesalePrice = Price(dec("7"))
	p.WholesaleMinQty = MinQty(5)

	res := ResolveWithOverride(p, 4, dec("9"))
	require.True(t, res.Discounts.Wholesale.IsZero())
	requireDecimal(t, "9", res.FinalPrice)
	require.False(t, res.IsWholesale)
}

func TestResolveWithOverrideFlagsWithoutConfiguredThreshold(t *testing.T) {
	p := retail("10")
	p.WholesalePrice = Price(dec("7"))

	res := ResolveWithOverride(p, 3, dec("9"))
	// The discount uses the default one-unit threshold, the flag does not.
	requireDecimal(t, "3", res.Discounts.Wholesale)
	requireDecimal(t, "6", res.FinalPrice)
	require.False(t, res.IsWholesale)
}

func TestResolveWithOverridePromoFlagFollowsActiveFlag(t *testing.T) {
	p := retail("10")
	p.PromoActive = true

	res := ResolveWithOverride(p, 1, dec("9"))
	require.True(t, res.IsPromo)
	require.True(t, res.Discounts.Promo.IsZero())
}
