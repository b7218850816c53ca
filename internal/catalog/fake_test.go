package catalog_test

import (
	"context"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	dbgen "github.com/noah-isme/backend-pos/internal/db/gen"
)

const (
	riceID   = "0b8f6f1e-6a1c-4a57-9d57-0c1f3c6c1a01"
	oilID    = "0b8f6f1e-6a1c-4a57-9d57-0c1f3c6c1a02"
	sugarID  = "0b8f6f1e-6a1c-4a57-9d57-0c1f3c6c1a03"
	unknownID ="0b8f6f1e-6a1c-4a57-9d57-0c1f3c6c1aff"
)

type fakeQueries struct {
	mu        sync.Mutex
	products  map[pgtype.UUID]dbgen.Product
	listCalls int
	getCalls  int
}

func newFakeQueries(t *testing.T) *fakeQueries {
	t.Helper()
	created := pgtype.Timestamptz{Time: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC), Valid: true}
	f := &fakeQueries{products: map[pgtype.UUID]dbgen.Product{}}
	f.put(dbgen.Product{
		ID:          mustUUID(t, riceID),
		Sku:         "RICE-5KG",
		Name:        "Arroz Costeño 5kg",
		UnitCost:    decimal.NewNullDecimal(decimal.RequireFromString("14.00")),
		RetailPrice: decimal.RequireFromString("20.00"),
		PromoActive: true,
		PromoPrice:  decimal.NewNullDecimal(decimal.RequireFromString("18.00")),
		Active:      true,
		CreatedAt:   created,
		UpdatedAt:   created,
	})
	f.put(dbgen.Product{
		ID:              mustUUID(t, oilID),
		Sku:             "OIL-1L",
		Name:            "Aceite Primor 1L",
		RetailPrice:     decimal.RequireFromString("10.00"),
		WholesalePrice:  decimal.NewNullDecimal(decimal.RequireFromString("8.50")),
		WholesaleMinQty: pgtype.Int4{Int32: 6, Valid: true},
		Active:          true,
		CreatedAt:       created,
		UpdatedAt:       created,
	})
	f.put(dbgen.Product{
		ID:          mustUUID(t, sugarID),
		Sku:         "SUGAR-1KG",
		Name:        "Azúcar rubia 1kg",
		RetailPrice: decimal.RequireFromString("4.20"),
		Active:      false,
		CreatedAt:   created,
		UpdatedAt:   created,
	})
	return f
}

func (f *fakeQueries) put(p dbgen.Product) {
	f.products[p.ID] = p
}

func (f *fakeQueries) filtered(q, active any) []dbgen.Product {
	var out []dbgen.Product
	for _, p := range f.products {
		if s, ok := q.(string); ok && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(s)) && p.Sku != s {
			continue
		}
		if b, ok := active.(bool); ok && p.Active != b {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (f *fakeQueries) CountProducts(_ context.Context, arg dbgen.CountProductsParams) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.filtered(arg.Q, arg.Active))), nil
}

func (f *fakeQueries) ListProducts(_ context.Context, arg dbgen.ListProductsParams) ([]dbgen.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	all := f.filtered(arg.Q, arg.Active)
	start := int(arg.OffsetValue)
	if start > len(all) {
		return nil, nil
	}
	end := start + int(arg.LimitValue)
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], nil
}

func (f *fakeQueries) GetProductByID(_ context.Context, id pgtype.UUID) (dbgen.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getCalls++
	p, ok := f.products[id]
	if !ok {
		return dbgen.Product{}, pgx.ErrNoRows
	}
	return p, nil
}

func (f *fakeQueries) ListProductsByIDs(_ context.Context, ids []pgtype.UUID) ([]dbgen.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []dbgen.Product
	for _, id := range ids {
		if p, ok := f.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeQueries) CreateProduct(_ context.Context, arg dbgen.CreateProductParams) (dbgen.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.products {
		if p.Sku == arg.Sku {
			return dbgen.Product{}, &pgconn.PgError{Code: "23505", Message: "duplicate key value"}
		}
	}
	now := pgtype.Timestamptz{Time: time.Now().UTC(), Valid: true}
	p := dbgen.Product{
		ID:              pgtype.UUID{Bytes: uuid.New(), Valid: true},
		Sku:             arg.Sku,
		Name:            arg.Name,
		UnitCost:        arg.UnitCost,
		RetailPrice:     arg.RetailPrice,
		PromoActive:     arg.PromoActive,
		PromoPrice:      arg.PromoPrice,
		WholesalePrice:  arg.WholesalePrice,
		WholesaleMinQty: arg.WholesaleMinQty,
		Active:          arg.Active,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	f.put(p)
	return p, nil
}

func (f *fakeQueries) UpdateProduct(_ context.Context, arg dbgen.UpdateProductParams) (dbgen.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	existing, ok := f.products[arg.ID]
	if !ok {
		return dbgen.Product{}, pgx.ErrNoRows
	}
	existing.Sku = arg.Sku
	existing.Name = arg.Name
	existing.UnitCost = arg.UnitCost
	existing.RetailPrice = arg.RetailPrice
	existing.PromoActive = arg.PromoActive
	existing.PromoPrice = arg.PromoPrice
	existing.WholesalePrice = arg.WholesalePrice
	existing.WholesaleMinQty = arg.WholesaleMinQty
	existing.Active = arg.Active
	existing.UpdatedAt = pgtype.Timestamptz{Time: time.Now().UTC(), Valid: true}
	f.put(existing)
	return existing, nil
}

func mustUUID(t *testing.T, value string) pgtype.UUID {
	t.Helper()
	u, err := uuid.Parse(value)
	require.NoError(t, err)
	return pgtype.UUID{Bytes: u, Valid: true}
}
