package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	dbgen "github.com/noah-isme/backend-pos/internal/db/gen"
	"github.com/noah-isme/backend-pos/internal/pricing"
)

// Product is the catalog view of a sellable item. Null prices stay null on
// the wire so clients can tell "not configured" from zero.
type Product struct {
	ID              string              `json:"id"`
	SKU             string              `json:"sku"`
	Name            string              `json:"name"`
	UnitCost        decimal.NullDecimal `json:"unitCost"`
	RetailPrice     decimal.Decimal     `json:"retailPrice"`
	PromoActive     bool                `json:"promoActive"`
	PromoPrice      decimal.NullDecimal `json:"promoPrice"`
	WholesalePrice  decimal.NullDecimal `json:"wholesalePrice"`
	WholesaleMinQty *int                `json:"wholesaleMinQty"`
	Active          bool                `json:"active"`
	CreatedAt       time.Time           `json:"createdAt"`
	UpdatedAt       time.Time           `json:"updatedAt"`
}

// Pricing projects the product onto the attributes the engine prices from.
func (p Product) Pricing() pricing.Product {
	return pricing.Product{
		ID:              p.ID,
		UnitCost:        p.UnitCost,
		RetailPrice:     p.RetailPrice,
		PromoActive:     p.PromoActive,
		PromoPrice:      p.PromoPrice,
		WholesalePrice:  p.WholesalePrice,
		WholesaleMinQty: p.WholesaleMinQty,
	}
}

// ProductInput is the payload for creating or replacing a product.
type ProductInput struct {
	SKU             string              `json:"sku" validate:"required,max=64"`
	Name            string              `json:"name" validate:"required,max=200"`
	UnitCost        decimal.NullDecimal `json:"unitCost"`
	RetailPrice     decimal.Decimal     `json:"retailPrice"`
	PromoActive     bool                `json:"promoActive"`
	PromoPrice      decimal.NullDecimal `json:"promoPrice"`
	WholesalePrice  decimal.NullDecimal `json:"wholesalePrice"`
	WholesaleMinQty *int                `json:"wholesaleMinQty" validate:"omitempty,min=1"`
	Active          *bool               `json:"active"`
}

func (in ProductInput) pricing() pricing.Product {
	return pricing.Product{
		UnitCost:        in.UnitCost,
		RetailPrice:     in.RetailPrice,
		PromoActive:     in.PromoActive,
		PromoPrice:      in.PromoPrice,
		WholesalePrice:  in.WholesalePrice,
		WholesaleMinQty: in.WholesaleMinQty,
	}
}

// Params converts the input into insert parameters with prices rounded to cents.
func (in ProductInput) Params() dbgen.CreateProductParams {
	active := true
	if in.Active != nil {
		active = *in.Active
	}
	return dbgen.CreateProductParams{
		Sku:             in.SKU,
		Name:            in.Name,
		UnitCost:        roundNull(in.UnitCost),
		RetailPrice:     in.RetailPrice.Round(2),
		PromoActive:     in.PromoActive,
		PromoPrice:      roundNull(in.PromoPrice),
		WholesalePrice:  roundNull(in.WholesalePrice),
		WholesaleMinQty: int4(in.WholesaleMinQty),
		Active:          active,
	}
}

func fromRow(row dbgen.Product) Product {
	p := Product{
		ID:             uuidString(row.ID),
		SKU:            row.Sku,
		Name:           row.Name,
		UnitCost:       row.UnitCost,
		RetailPrice:    row.RetailPrice,
		PromoActive:    row.PromoActive,
		PromoPrice:     row.PromoPrice,
		WholesalePrice: row.WholesalePrice,
		Active:         row.Active,
	}
	if row.WholesaleMinQty.Valid {
		p.WholesaleMinQty = pricing.MinQty(int(row.WholesaleMinQty.Int32))
	}
	if row.CreatedAt.Valid {
		p.CreatedAt = row.CreatedAt.Time
	}
	if row.UpdatedAt.Valid {
		p.UpdatedAt = row.UpdatedAt.Time
	}
	return p
}

func roundNull(d decimal.NullDecimal) decimal.NullDecimal {
	if !d.Valid {
		return d
	}
	return decimal.NewNullDecimal(d.Decimal.Round(2))
}

func int4(n *int) pgtype.Int4 {
	if n == nil {
		return pgtype.Int4{}
	}
	return pgtype.Int4{Int32: int32(*n), Valid: true}
}

func uuidString(id pgtype.UUID) string {
	if !id.Valid {
		return ""
	}
	return uuid.UUID(id.Bytes).String()
}

// ParseID converts a textual product id into its database form.
func ParseID(raw string) (pgtype.UUID, error) {
	u, err := uuid.Parse(raw)
	if err != nil {
		return pgtype.UUID{}, err
	}
	return pgtype.UUID{Bytes: u, Valid: true}, nil
}
