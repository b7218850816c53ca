package dbgen

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

type Querier interface {
	CountProducts(ctx context.Context, arg CountProductsParams) (int64, error)
	CreateProduct(ctx context.Context, arg CreateProductParams) (Product, error)
	CreateSale(ctx context.Context, arg CreateSaleParams) (Sale, error)
	CreateSaleLine(ctx context.Context, arg CreateSaleLineParams) error
	GetProductByID(ctx context.Context, id pgtype.UUID) (Product, error)
	GetSaleByCartID(ctx context.Context, cartID string) (Sale, error)
	GetSaleByID(ctx context.Context, id pgtype.UUID) (Sale, error)
	ListProducts(ctx context.Context, arg ListProductsParams) ([]Product, error)
	ListProductsByIDs(ctx context.Context, ids []pgtype.UUID) ([]Product, error)
	ListSaleLines(ctx context.Context, saleID pgtype.UUID) ([]SaleLine, error)
	UpdateProduct(ctx context.Context, arg UpdateProductParams) (Product, error)
	UpsertProductBySku(ctx context.Context, arg CreateProductParams) (Product, error)
}

var _ Querier = (*Queries)(nil)
