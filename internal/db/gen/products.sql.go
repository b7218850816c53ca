package dbgen

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

const productColumns = `id, sku, name, unit_cost, retail_price, promo_active, promo_price, wholesale_price, wholesale_min_qty, active, created_at, updated_at`

func scanProduct(row interface{ Scan(...any) error }, i *Product) error {
	return row.Scan(
		&i.ID,
		&i.Sku,
		&i.Name,
		&i.UnitCost,
		&i.RetailPrice,
		&i.PromoActive,
		&i.PromoPrice,
		&i.WholesalePrice,
		&i.WholesaleMinQty,
		&i.Active,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
}

const countProducts = `-- name: CountProducts :one
SELECT COUNT(*) FROM products
WHERE ($1::text IS NULL OR lower(name) LIKE '%' || lower($1::text) || '%' OR sku = $1::text)
  AND ($2::boolean IS NULL OR active = $2::boolean)
`

type CountProductsParams struct {
	Q      interface{} `json:"q"`
	Active interface{} `json:"active"`
}

func (q *Queries) CountProducts(ctx context.Context, arg CountProductsParams) (int64, error) {
	row := q.db.QueryRow(ctx, countProducts, arg.Q, arg.Active)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const listProducts = `-- name: ListProducts :many
SELECT ` + productColumns + ` FROM products
WHERE ($1::text IS NULL OR lower(name) LIKE '%' || lower($1::text) || '%' OR sku = $1::text)
  AND ($2::boolean IS NULL OR active = $2::boolean)
ORDER BY name ASC, id ASC
OFFSET $3 LIMIT $4
`

type ListProductsParams struct {
	Q           interface{} `json:"q"`
	Active      interface{} `json:"active"`
	OffsetValue int32       `json:"offset_value"`
	LimitValue  int32       `json:"limit_value"`
}

func (q *Queries) ListProducts(ctx context.Context, arg ListProductsParams) ([]Product, error) {
	rows, err := q.db.Query(ctx, listProducts, arg.Q, arg.Active, arg.OffsetValue, arg.LimitValue)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Product
	for rows.Next() {
		var i Product
		if err := scanProduct(rows, &i); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const getProductByID = `-- name: GetProductByID :one
SELECT ` + productColumns + ` FROM products WHERE id = $1
`

func (q *Queries) GetProductByID(ctx context.Context, id pgtype.UUID) (Product, error) {
	row := q.db.QueryRow(ctx, getProductByID, id)
	var i Product
	err := scanProduct(row, &i)
	return i, err
}

const listProductsByIDs = `-- name: ListProductsByIDs :many
SELECT ` + productColumns + ` FROM products WHERE id = ANY($1::uuid[])
`

func (q *Queries) ListProductsByIDs(ctx context.Context, ids []pgtype.UUID) ([]Product, error) {
	rows, err := q.db.Query(ctx, listProductsByIDs, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Product
	for rows.Next() {
		var i Product
		if err := scanProduct(rows, &i); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const createProduct = `-- name: CreateProduct :one
INSERT INTO products (sku, name, unit_cost, retail_price, promo_active, promo_price, wholesale_price, wholesale_min_qty, active)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING ` + productColumns + `
`

type CreateProductParams struct {
	Sku             string              `json:"sku"`
	Name            string              `json:"name"`
	UnitCost        decimal.NullDecimal `json:"unit_cost"`
	RetailPrice     decimal.Decimal     `json:"retail_price"`
	PromoActive     bool                `json:"promo_active"`
	PromoPrice      decimal.NullDecimal `json:"promo_price"`
	WholesalePrice  decimal.NullDecimal `json:"wholesale_price"`
	WholesaleMinQty pgtype.Int4         `json:"wholesale_min_qty"`
	Active          bool                `json:"active"`
}

func (q *Queries) CreateProduct(ctx context.Context, arg CreateProductParams) (Product, error) {
	row := q.db.QueryRow(ctx, createProduct,
		arg.Sku,
		arg.Name,
		arg.UnitCost,
		arg.RetailPrice,
		arg.PromoActive,
		arg.PromoPrice,
		arg.WholesalePrice,
		arg.WholesaleMinQty,
		arg.Active,
	)
	var i Product
	err := scanProduct(row, &i)
	return i, err
}

const updateProduct = `-- name: UpdateProduct :one
UPDATE products
SET sku = $2, name = $3, unit_cost = $4, retail_price = $5, promo_active = $6,
    promo_price = $7, wholesale_price = $8, wholesale_min_qty = $9, active = $10,
    updated_at = now()
WHERE id = $1
RETURNING ` + productColumns + `
`

type UpdateProductParams struct {
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
}

func (q *Queries) UpdateProduct(ctx context.Context, arg UpdateProductParams) (Product, error) {
	row := q.db.QueryRow(ctx, updateProduct,
		arg.ID,
		arg.Sku,
		arg.Name,
		arg.UnitCost,
		arg.RetailPrice,
		arg.PromoActive,
		arg.PromoPrice,
		arg.WholesalePrice,
		arg.WholesaleMinQty,
		arg.Active,
	)
	var i Product
	err := scanProduct(row, &i)
	return i, err
}

const upsertProductBySku = `-- name: UpsertProductBySku :one
INSERT INTO products (sku, name, unit_cost, retail_price, promo_active, promo_price, wholesale_price, wholesale_min_qty, active)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (sku) DO UPDATE SET
    name = EXCLUDED.name,
    unit_cost = EXCLUDED.unit_cost,
    retail_price = EXCLUDED.retail_price,
    promo_active = EXCLUDED.promo_active,
    promo_price = EXCLUDED.promo_price,
    wholesale_price = EXCLUDED.wholesale_price,
    wholesale_min_qty = EXCLUDED.wholesale_min_qty,
    active = EXCLUDED.active,
    updated_at = now()
RETURNING ` + productColumns + `
`

func (q *Queries) UpsertProductBySku(ctx context.Context, arg CreateProductParams) (Product, error) {
	row := q.db.QueryRow(ctx, upsertProductBySku,
		arg.Sku,
		arg.Name,
		arg.UnitCost,
		arg.RetailPrice,
		arg.PromoActive,
		arg.PromoPrice,
		arg.WholesalePrice,
		arg.WholesaleMinQty,
		arg.Active,
	)
	var i Product
	err := scanProduct(row, &i)
	return i, err
}
