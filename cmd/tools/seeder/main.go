package main

import (
	"context"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/noah-isme/backend-pos/internal/catalog"
	dbgen "github.com/noah-isme/backend-pos/internal/db/gen"
	"github.com/noah-isme/backend-pos/internal/obs"
	"github.com/noah-isme/backend-pos/internal/pricing"
)

func main() {
	_ = godotenv.Load()
	logger := obs.NewLogger("console", "info")

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		logger.Fatal().Msg("DATABASE_URL is not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect database")
	}
	defer pool.Close()

	if err := seedProducts(ctx, dbgen.New(pool), logger); err != nil {
		logger.Fatal().Err(err).Msg("seed products")
	}
	logger.Info().Msg("seeding completed")
}

func seedProducts(ctx context.Context, q *dbgen.Queries, logger zerolog.Logger) error {
	for _, in := range demoProducts() {
		if err := catalog.ValidateInput(in); err != nil {
			logger.Warn().Err(err).Str("sku", in.SKU).Msg("skip invalid product")
			continue
		}
		row, err := q.UpsertProductBySku(ctx, in.Params())
		if err != nil {
			return err
		}
		logger.Info().Str("sku", row.Sku).Str("retail", row.RetailPrice.String()).Msg("product upserted")
	}
	return nil
}

func demoProducts() []catalog.ProductInput {
	inactive := false
	return []catalog.ProductInput{
		{SKU: "ARR-5KG", Name: "Arroz extra 5kg", UnitCost: money("14.00"), RetailPrice: decimal.RequireFromString("20.00"), PromoActive: true, PromoPrice: money("18.00")},
		{SKU: "ACE-1L", Name: "Aceite vegetal 1L", UnitCost: money("7.20"), RetailPrice: decimal.RequireFromString("10.00"), WholesalePrice: money("8.50"), WholesaleMinQty: pricing.MinQty(6)},
		{SKU: "AZU-1KG", Name: "Azucar rubia 1kg", UnitCost: money("3.10"), RetailPrice: decimal.RequireFromString("4.50"), WholesalePrice: money("4.00"), WholesaleMinQty: pricing.MinQty(12)},
		{SKU: "LEC-400", Name: "Leche evaporada 400g", UnitCost: money("2.60"), RetailPrice: decimal.RequireFromString("3.80"), PromoActive: true, PromoPrice: money("3.50"), WholesalePrice: money("3.20"), WholesaleMinQty: pricing.MinQty(24)},
		{SKU: "FID-500", Name: "Fideos spaghetti 500g", UnitCost: money("1.90"), RetailPrice: decimal.RequireFromString("2.90")},
		{SKU: "GAS-3L", Name: "Gaseosa 3L", UnitCost: money("6.00"), RetailPrice: decimal.RequireFromString("9.50"), PromoPrice: money("8.90")},
		{SKU: "DET-OLD", Name: "Detergente descontinuado", UnitCost: money("5.00"), RetailPrice: decimal.RequireFromString("7.00"), Active: &inactive},
	}
}

func money(s string) decimal.NullDecimal {
	return pricing.Price(decimal.RequireFromString(s))
}
