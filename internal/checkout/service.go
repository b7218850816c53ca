// Package checkout turns a priced cart into a recorded sale.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/noah-isme/backend-pos/internal/cart"
	dbgen "github.com/noah-isme/backend-pos/internal/db/gen"
	"github.com/noah-isme/backend-pos/internal/obs"
	"github.com/noah-isme/backend-pos/internal/pricing"
)

var (
	// ErrNotFound indicates the sale does not exist.
	ErrNotFound = errors.New("sale not found")
	// ErrInvalidInput is returned for malformed ids or payloads.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInsufficientPayment is returned when the tendered cash does not cover the total.
	ErrInsufficientPayment = errors.New("amount tendered is below the sale total")
	// ErrAlreadyCheckedOut is returned when a sale for the cart already exists.
	ErrAlreadyCheckedOut = errors.New("cart already checked out")
)

// CartConsumer hands a priced cart to a callback and discards it on success.
type CartConsumer interface {
	Consume(ctx context.Context, id string, fn func(context.Context, cart.Priced) error) error
}

// Input is the checkout payload.
type Input struct {
	PaymentMethod  string              `json:"paymentMethod" validate:"required,oneof=cash card transfer wallet"`
	AmountTendered decimal.NullDecimal `json:"amountTendered"`
	Notes          *string             `json:"notes" validate:"omitempty,max=500"`
}

// Service records sales.
type Service struct {
	Carts    CartConsumer
	Store    Store
	Currency string
	Log      zerolog.Logger
}

// Checkout prices the cart, applies IGV to its grand total and records the
// sale. The cart is removed only after the sale is stored.
func (s *Service) Checkout(ctx context.Context, cartID string, in Input) (Sale, error) {
	if s == nil || s.Carts == nil || s.Store == nil {
		return Sale{}, errors.New("checkout service not configured")
	}
	tendered := in.AmountTendered
	if tendered.Valid {
		if tendered.Decimal.IsNegative() {
			return Sale{}, fmt.Errorf("amountTendered cannot be negative: %w", ErrInvalidInput)
		}
		tendered = decimal.NewNullDecimal(tendered.Decimal.Round(2))
	}
	currency := s.Currency
	if currency == "" {
		currency = "PEN"
	}

	var sale Sale
	err := s.Carts.Consume(ctx, cartID, func(ctx context.Context, priced cart.Priced) error {
		tax := pricing.ComputeTax(priced.Totals.GrandTotal)
		var change decimal.NullDecimal
		if tendered.Valid {
			if tendered.Decimal.LessThan(tax.Total) {
				return fmt.Errorf("%w: tendered %s, total %s", ErrInsufficientPayment,
					tendered.Decimal.StringFixed(2), tax.Total.StringFixed(2))
			}
			change = decimal.NewNullDecimal(tendered.Decimal.Sub(tax.Total))
		}
		rec, err := buildRecord(priced, tax, currency, in.PaymentMethod, tendered, change, in.Notes)
		if err != nil {
			return err
		}
		sale, err = s.Store.RecordSale(ctx, rec)
		return err
	})
	if errors.Is(err, cart.ErrNotFound) {
		// The cart is dropped once its sale is stored.
		if prior, lookupErr := s.Store.SaleForCart(ctx, strings.TrimSpace(cartID)); lookupErr == nil {
			return Sale{}, fmt.Errorf("%w: sale %s", ErrAlreadyCheckedOut, prior.ID)
		}
	}
	if err != nil {
		return Sale{}, err
	}

	if obs.SalesTotal != nil {
		obs.SalesTotal.WithLabelValues(sale.PaymentMethod).Inc()
	}
	if obs.SaleAmount != nil {
		obs.SaleAmount.WithLabelValues(sale.Currency).Observe(sale.Tax.Total.InexactFloat64())
	}
	s.Log.Info().
		Str("sale_id", sale.ID).
		Str("cart_id", sale.CartID).
		Str("terminal_id", sale.TerminalID).
		Str("payment_method", sale.PaymentMethod).
		Str("total", sale.Tax.Total.StringFixed(2)).
		Int("lines", len(sale.Lines)).
		Msg("sale recorded")
	return sale, nil
}

// Get loads a recorded sale.
func (s *Service) Get(ctx context.Context, id string) (Sale, error) {
	if s == nil || s.Store == nil {
		return Sale{}, errors.New("checkout service not configured")
	}
	return s.Store.GetSale(ctx, strings.TrimSpace(id))
}

func buildRecord(priced cart.Priced, tax pricing.TaxBreakdown, currency, method string, tendered, change decimal.NullDecimal, notes *string) (Record, error) {
	rec := Record{
		Sale: dbgen.CreateSaleParams{
			CartID:              priced.Cart.ID,
			TerminalID:          text(priced.Cart.TerminalID),
			Currency:            currency,
			PaymentMethod:       method,
			Subtotal:            priced.Totals.Subtotal.Round(2),
			TotalDiscount:       priced.Totals.TotalDiscount.Round(2),
			GrandTotal:          priced.Totals.GrandTotal.Round(2),
			Tax:                 tax.Tax,
			Total:               tax.Total,
			AmountTendered:      tendered,
			ChangeDue:           change,
			DiscountedLineCount: int32(priced.Totals.DiscountedLineCount),
		},
		Lines: make([]dbgen.CreateSaleLineParams, 0, len(priced.Lines)),
	}
	if notes != nil {
		rec.Sale.Notes = text(strings.TrimSpace(*notes))
	}
	for i, l := range priced.Lines {
		productID, err := parseUUID(l.ProductID)
		if err != nil {
			return Record{}, err
		}
		rec.Lines = append(rec.Lines, dbgen.CreateSaleLineParams{
			Position:          int32(i + 1),
			ProductID:         productID,
			Sku:               l.SKU,
			Name:              l.Name,
			Quantity:          int32(l.Quantity),
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
		})
	}
	return rec, nil
}

func text(s string) pgtype.Text {
	if s == "" {
		return pgtype.Text{}
	}
	return pgtype.Text{String: s, Valid: true}
}
