package pricing

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFormatCurrency(t *testing.T) {
	cases := []struct {
		value string
		code  string
		want  string
	}{
		{"12.5", "PEN", "S/. 12.50"},
		{"3", "usd", "$ 3.00"},
		{"0.999", "EUR", "€ 1.00"},
		{"7.1", "GBP", "GBP 7.10"},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, FormatCurrency(dec(tc.value), tc.code))
	}
}

func TestBadge(t *testing.T) {
	p := retail("9")
	p.PromoActive = true
	p.PromoPrice = Price(dec("6"))
	badge := Badge(Resolve(p, 1))
	require.NotNil(t, badge)
	require.Equal(t, "OFERTA -33%", *badge)

	w := retail("10")
	w.WholesalePrice = Price(dec("7"))
	badge = Badge(Resolve(w, 1))
	require.NotNil(t, badge)
	require.Equal(t, "MAYORISTA -30%", *badge)

	require.Nil(t, Badge(Resolve(retail("10"), 1)))
}

func TestBadgeWithoutPercent(t *testing.T) {
	require.Nil(t, Badge(PriceCalculation{IsPromo: true}))

	// promo priced at retail resolves as promo but saves nothing
	p := retail("10")
	p.PromoActive = true
	p.PromoPrice = Price(dec("10"))
	calc := Resolve(p, 1)
	require.True(t, calc.IsPromo)
	require.Nil(t, Badge(calc))

	require.Nil(t, Badge(Resolve(retail("0"), 1)))
}
