package dbgen

import (
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

type Product struct {
	ID              pgtype.UUID         `json:"id"`
	Sku             string              `json:"sku"`
	Name            string              `json:"name"`
	UnitCost        decimal.NullDecimal `json:"unit_cost"`
	RetailPrice     decimal.Decimal     `json:"retail_price"`
	PromoActive     bool                `json:"promo_active"`
	PromoPrice      decimal.NullDecimal `json:"promo_price"`
	WholesalePrice  decimal.NullDecimal `json:"wholesale_price"`
	WholesaleMinQty pgtype.Int4         `json:"wholesale_min_qty"`
	Active          bool                `json:"active"`
	CreatedAt       pgtype.Timestamptz  `json:"created_at"`
	UpdatedAt       pgtype.Timestamptz  `json:"updated_at"`
}

type Sale struct {
	ID                  pgtype.UUID         `json:"id"`
	CartID              string              `json:"cart_id"`
	TerminalID          pgtype.Text         `json:"terminal_id"`
	Currency            string              `json:"currency"`
	PaymentMethod       string              `json:"payment_method"`
	Subtotal            decimal.Decimal     `json:"subtotal"`
	TotalDiscount       decimal.Decimal     `json:"total_discount"`
	GrandTotal          decimal.Decimal     `json:"grand_total"`
	Tax                 decimal.Decimal     `json:"tax"`
	Total               decimal.Decimal     `json:"total"`
	AmountTendered      decimal.NullDecimal `json:"amount_tendered"`
	ChangeDue           decimal.NullDecimal `json:"change_due"`
	DiscountedLineCount int32               `json:"discounted_line_count"`
	Notes               pgtype.Text         `json:"notes"`
	CreatedAt           pgtype.Timestamptz  `json:"created_at"`
}

type SaleLine struct {
	ID                pgtype.UUID         `json:"id"`
	SaleID            pgtype.UUID         `json:"sale_id"`
	Position          int32               `json:"position"`
	ProductID         pgtype.UUID         `json:"product_id"`
	Sku               string              `json:"sku"`
	Name              string              `json:"name"`
	Quantity          int32               `json:"quantity"`
	OriginalPrice     decimal.Decimal     `json:"original_price"`
	FinalPrice        decimal.Decimal     `json:"final_price"`
	PromoDiscount     decimal.Decimal     `json:"promo_discount"`
	WholesaleDiscount decimal.Decimal     `json:"wholesale_discount"`
	LineSubtotal      decimal.Decimal     `json:"line_subtotal"`
	LineDiscount      decimal.Decimal     `json:"line_discount"`
	LineTotal         decimal.Decimal     `json:"line_total"`
	IsPromo           bool                `json:"is_promo"`
	IsWholesale       bool                `json:"is_wholesale"`
	Clamped           bool                `json:"clamped"`
	CustomPrice       decimal.NullDecimal `json:"custom_price"`
}
