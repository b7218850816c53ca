package dbgen

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

const saleColumns = `id, cart_id, terminal_id, currency, payment_method, subtotal, total_discount, grand_total, tax, total, amount_tendered, change_due, discounted_line_count, notes, created_at`

func scanSale(row interface{ Scan(...any) error }, i *Sale) error {
	return row.Scan(
		&i.ID,
		&i.CartID,
		&i.TerminalID,
		&i.Currency,
		&i.PaymentMethod,
		&i.Subtotal,
		&i.TotalDiscount,
		&i.GrandTotal,
		&i.Tax,
		&i.Total,
		&i.AmountTendered,
		&i.ChangeDue,
		&i.DiscountedLineCount,
		&i.Notes,
		&i.CreatedAt,
	)
}

const createSale = `-- name: CreateSale :one
INSERT INTO sales (cart_id, terminal_id, currency, payment_method, subtotal, total_discount, grand_total, tax, total, amount_tendered, change_due, discounted_line_count, notes)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
RETURNING ` + saleColumns + `
`

type CreateSaleParams struct {
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
}

func (q *Queries) CreateSale(ctx context.Context, arg CreateSaleParams) (Sale, error) {
	row := q.db.QueryRow(ctx, createSale,
		arg.CartID,
		arg.TerminalID,
		arg.Currency,
		arg.PaymentMethod,
		arg.Subtotal,
		arg.TotalDiscount,
		arg.GrandTotal,
		arg.Tax,
		arg.Total,
		arg.AmountTendered,
		arg.ChangeDue,
		arg.DiscountedLineCount,
		arg.Notes,
	)
	var i Sale
	err := scanSale(row, &i)
	return i, err
}

const createSaleLine = `-- name: CreateSaleLine :exec
INSERT INTO sale_lines (sale_id, position, product_id, sku, name, quantity, original_price, final_price, promo_discount, wholesale_discount, line_subtotal, line_discount, line_total, is_promo, is_wholesale, clamped, custom_price)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
`

type CreateSaleLineParams struct {
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

func (q *Queries) CreateSaleLine(ctx context.Context, arg CreateSaleLineParams) error {
	_, err := q.db.Exec(ctx, createSaleLine,
		arg.SaleID,
		arg.Position,
		arg.ProductID,
		arg.Sku,
		arg.Name,
		arg.Quantity,
		arg.OriginalPrice,
		arg.FinalPrice,
		arg.PromoDiscount,
		arg.WholesaleDiscount,
		arg.LineSubtotal,
		arg.LineDiscount,
		arg.LineTotal,
		arg.IsPromo,
		arg.IsWholesale,
		arg.Clamped,
		arg.CustomPrice,
	)
	return err
}

const getSaleByID = `-- name: GetSaleByID :one
SELECT ` + saleColumns + ` FROM sales WHERE id = $1
`

func (q *Queries) GetSaleByID(ctx context.Context, id pgtype.UUID) (Sale, error) {
	row := q.db.QueryRow(ctx, getSaleByID, id)
	var i Sale
	err := scanSale(row, &i)
	return i, err
}

const getSaleByCartID = `-- name: GetSaleByCartID :one
SELECT ` + saleColumns + ` FROM sales WHERE cart_id = $1
`

func (q *Queries) GetSaleByCartID(ctx context.Context, cartID string) (Sale, error) {
	row := q.db.QueryRow(ctx, getSaleByCartID, cartID)
	var i Sale
	err := scanSale(row, &i)
	return i, err
}

const listSaleLines = `-- name: ListSaleLines :many
SELECT id, sale_id, position, product_id, sku, name, quantity, original_price, final_price, promo_discount, wholesale_discount, line_subtotal, line_discount, line_total, is_promo, is_wholesale, clamped, custom_price
FROM sale_lines
WHERE sale_id = $1
ORDER BY position ASC
`

func (q *Queries) ListSaleLines(ctx context.Context, saleID pgtype.UUID) ([]SaleLine, error) {
	rows, err := q.db.Query(ctx, listSaleLines, saleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []SaleLine
	for rows.Next() {
		var i SaleLine
		if err := rows.Scan(
			&i.ID,
			&i.SaleID,
			&i.Position,
			&i.ProductID,
			&i.Sku,
			&i.Name,
			&i.Quantity,
			&i.OriginalPrice,
			&i.FinalPrice,
			&i.PromoDiscount,
			&i.WholesaleDiscount,
			&i.LineSubtotal,
			&i.LineDiscount,
			&i.LineTotal,
			&i.IsPromo,
			&i.IsWholesale,
			&i.Clamped,
			&i.CustomPrice,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
