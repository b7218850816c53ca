package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	dbgen "github.com/noah-isme/backend-pos/internal/db/gen"
	"github.com/noah-isme/backend-pos/internal/pricing"
)

// Sale is a recorded checkout, as consumed by receipt generation.
type Sale struct {
	ID             string               `json:"id"`
	CartID         string               `json:"cartId"`
	TerminalID     string               `json:"terminalId"`
	Currency       string               `json:"currency"`
	PaymentMethod  string               `json:"paymentMethod"`
	Totals         pricing.Totals       `json:"totals"`
	Tax            pricing.TaxBreakdown `json:"tax"`
	AmountTendered decimal.NullDecimal  `json:"amountTendered"`
	ChangeDue      decimal.NullDecimal  `json:"changeDue"`
	Notes          *string              `json:"notes"`
	Lines          []SaleLine           `json:"lines"`
	CreatedAt      time.Time            `json:"createdAt"`
}

// SaleLine is a persisted checkout line.
type SaleLine struct {
	Position int    `json:"position"`
	SKU      string `json:"sku"`
	Name     string `json:"name"`
	pricing.CheckoutLine
}

// Record is everything needed to persist one sale.
type Record struct {
	Sale  dbgen.CreateSaleParams
	Lines []dbgen.CreateSaleLineParams
}

// Store persists and loads sales.
type Store interface {
	RecordSale(ctx context.Context, rec Record) (Sale, error)
	GetSale(ctx context.Context, id string) (Sale, error)
	SaleForCart(ctx context.Context, cartID string) (Sale, error)
}

// PGStore writes sales to PostgreSQL.
type PGStore struct {
	Pool *pgxpool.Pool
	Q    *dbgen.Queries
}

// RecordSale inserts the sale header and its lines in one transaction.
func (s PGStore) RecordSale(ctx context.Context, rec Record) (Sale, error) {
	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Sale{}, fmt.Errorf("begin sale tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()
	qtx := s.Q.WithTx(tx)

	row, err := qtx.CreateSale(ctx, rec.Sale)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Sale{}, ErrAlreadyCheckedOut
		}
		return Sale{}, fmt.Errorf("create sale: %w", err)
	}
	lines := make([]dbgen.SaleLine, 0, len(rec.Lines))
	for _, l := range rec.Lines {
		l.SaleID = row.ID
		if err := qtx.CreateSaleLine(ctx, l); err != nil {
			return Sale{}, fmt.Errorf("create sale line %d: %w", l.Position, err)
		}
		lines = append(lines, lineRow(l))
	}
	if err := tx.Commit(ctx); err != nil {
		return Sale{}, fmt.Errorf("commit sale: %w", err)
	}
	return saleFromRows(row, lines), nil
}

// GetSale loads a sale with its lines.
func (s PGStore) GetSale(ctx context.Context, id string) (Sale, error) {
	pgID, err := parseUUID(id)
	if err != nil {
		return Sale{}, err
	}
	row, err := s.Q.GetSaleByID(ctx, pgID)
	return s.withLines(ctx, row, err)
}

// SaleForCart loads the sale recorded for cartID, if any.
func (s PGStore) SaleForCart(ctx context.Context, cartID string) (Sale, error) {
	row, err := s.Q.GetSaleByCartID(ctx, cartID)
	return s.withLines(ctx, row, err)
}

func (s PGStore) withLines(ctx context.Context, row dbgen.Sale, err error) (Sale, error) {
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Sale{}, ErrNotFound
		}
		return Sale{}, fmt.Errorf("get sale: %w", err)
	}
	lines, err := s.Q.ListSaleLines(ctx, row.ID)
	if err != nil {
		return Sale{}, fmt.Errorf("list sale lines: %w", err)
	}
	return saleFromRows(row, lines), nil
}

func lineRow(p dbgen.CreateSaleLineParams) dbgen.SaleLine {
	return dbgen.SaleLine{
		SaleID:            p.SaleID,
		Position:          p.Position,
		ProductID:         p.ProductID,
		Sku:               p.Sku,
		Name:              p.Name,
		Quantity:          p.Quantity,
		OriginalPrice:     p.OriginalPrice,
		FinalPrice:        p.FinalPrice,
		PromoDiscount:     p.PromoDiscount,
		WholesaleDiscount: p.WholesaleDiscount,
		LineSubtotal:      p.LineSubtotal,
		LineDiscount:      p.LineDiscount,
		LineTotal:         p.LineTotal,
		IsPromo:           p.IsPromo,
		IsWholesale:       p.IsWholesale,
		Clamped:           p.Clamped,
		CustomPrice:       p.CustomPrice,
	}
}

func saleFromRows(row dbgen.Sale, lines []dbgen.SaleLine) Sale {
	sale := Sale{
		ID:            uuidString(row.ID),
		CartID:        row.CartID,
		TerminalID:    row.TerminalID.String,
		Currency:      row.Currency,
		PaymentMethod: row.PaymentMethod,
		Totals: pricing.Totals{
			Subtotal:            row.Subtotal,
			TotalDiscount:       row.TotalDiscount,
			GrandTotal:          row.GrandTotal,
			DiscountedLineCount: int(row.DiscountedLineCount),
		},
		Tax: pricing.TaxBreakdown{
			Subtotal: row.GrandTotal,
			Tax:      row.Tax,
			Total:    row.Total,
			Rate:     pricing.IGVRate,
		},
		AmountTendered: row.AmountTendered,
		ChangeDue:      row.ChangeDue,
		Lines:          make([]SaleLine, 0, len(lines)),
	}
	if row.Notes.Valid {
		notes := row.Notes.String
		sale.Notes = &notes
	}
	if row.CreatedAt.Valid {
		sale.CreatedAt = row.CreatedAt.Time
	}
	for _, l := range lines {
		sale.Lines = append(sale.Lines, SaleLine{
			Position: int(l.Position),
			SKU:      l.Sku,
			Name:     l.Name,
			CheckoutLine: pricing.CheckoutLine{
				ProductID:         uuidString(l.ProductID),
				Quantity:          int(l.Quantity),
				OriginalPrice:     l.OriginalPrice,
				FinalPrice:        l.FinalPrice,
				PromoDiscount:     l.PromoDiscount,
				WholesaleDiscount: l.WholesaleDiscount,
				LineSubtotal:      l.LineSubtotal,
				LineDiscount:      l.LineDiscount,
				LineTotal:         l.LineTotal,
				IsPromo:           l.IsPromo,
				IsWholesale:       l.IsWholesale,
				Clamped:           l.Clamped,
				CustomPrice:       l.CustomPrice,
			},
		})
	}
	return sale
}

func parseUUID(id string) (pgtype.UUID, error) {
	u, err := uuid.Parse(id)
	if err != nil {
		return pgtype.UUID{}, fmt.Errorf("sale id must be a UUID: %w", ErrInvalidInput)
	}
	return pgtype.UUID{Bytes: u, Valid: true}, nil
}

func uuidString(id pgtype.UUID) string {
	if !id.Valid {
		return ""
	}
	return uuid.UUID(id.Bytes).String()
}
