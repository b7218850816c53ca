// Package cart keeps POS carts in Redis and prices them with the pricing
// engine on every read.
package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/noah-isme/backend-pos/internal/catalog"
	"github.com/noah-isme/backend-pos/internal/obs"
	"github.com/noah-isme/backend-pos/internal/pricing"
)

var (
	// ErrNotFound indicates the requested cart could not be located.
	ErrNotFound = errors.New("cart not found")
	// ErrLineNotFound indicates the cart has no line for the product.
	ErrLineNotFound = errors.New("cart line not found")
	// ErrInvalidInput is returned when the provided payload is invalid.
	ErrInvalidInput = errors.New("invalid input")
	// ErrEmptyCart is returned when checking out a cart without lines.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrUnavailable is returned when a line references a product that is
	// missing or inactive in the catalog.
	ErrUnavailable = errors.New("product unavailable")
)

// ProductSource resolves catalog products by id.
type ProductSource interface {
	ProductsByID(ctx context.Context, ids []string) (map[string]catalog.Product, error)
}

// Locker serializes mutations on one cart.
type Locker interface {
	WithLock(ctx context.Context, key string, ttl time.Duration, fn func(context.Context) error) error
}

// Service encapsulates cart domain operations.
type Service struct {
	Store    Store
	Products ProductSource
	Locker   Locker
	LockTTL  time.Duration
	Currency string
	Now      func() time.Time
	Log      zerolog.Logger
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *Service) currency() string {
	if s.Currency == "" {
		return "PEN"
	}
	return s.Currency
}

// PricedLine is a cart line priced against the current catalog.
type PricedLine struct {
	pricing.CheckoutLine
	SKU   string  `json:"sku"`
	Name  string  `json:"name"`
	Badge *string `json:"badge"`
}

// Priced is a cart with every line resolved to a price.
type Priced struct {
	Cart        Cart
	Lines       []PricedLine
	Unavailable []string
	Totals      pricing.Totals
}

// View is the API representation of a priced cart.
type View struct {
	ID          string               `json:"id"`
	TerminalID  string               `json:"terminalId"`
	Currency    string               `json:"currency"`
	Lines       []PricedLine         `json:"lines"`
	Unavailable []string             `json:"unavailable"`
	Totals      pricing.Totals       `json:"totals"`
	Tax         pricing.TaxBreakdown `json:"tax"`
	Formatted   map[string]string    `json:"formatted"`
	CreatedAt   time.Time            `json:"createdAt"`
	UpdatedAt   time.Time            `json:"updatedAt"`
	ExpiresAt   time.Time            `json:"expiresAt"`
}

// AddLineInput adds units of a product to a cart.
type AddLineInput struct {
	ProductID   string              `json:"productId" validate:"required,uuid"`
	Quantity    int                 `json:"quantity" validate:"required,min=1,max=9999"`
	CustomPrice decimal.NullDecimal `json:"customPrice"`
}

// UpdateLineInput changes an existing line. Nil or invalid fields are left
// untouched; ClearCustomPrice drops the override.
type UpdateLineInput struct {
	Quantity         *int                `json:"quantity" validate:"omitempty,min=1,max=9999"`
	CustomPrice      decimal.NullDecimal `json:"customPrice"`
	ClearCustomPrice bool                `json:"clearCustomPrice"`
}

// Create opens an empty cart for a terminal.
func (s *Service) Create(ctx context.Context, terminalID string) (View, error) {
	now := s.now()
	c := Cart{
		ID:         uuid.NewString(),
		TerminalID: strings.TrimSpace(terminalID),
		Lines:      []Line{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	err := s.Store.Save(ctx, c)
	obs.ObserveCartOp("create", err)
	if err != nil {
		return View{}, err
	}
	return s.view(Priced{Cart: c, Lines: []PricedLine{}, Totals: pricing.Aggregate(nil)}), nil
}

// Get loads and prices a cart.
func (s *Service) Get(ctx context.Context, id string) (View, error) {
	if err := validID(id); err != nil {
		return View{}, err
	}
	c, err := s.Store.Load(ctx, id)
	if err != nil {
		return View{}, err
	}
	priced, err := s.Price(ctx, c)
	if err != nil {
		return View{}, err
	}
	return s.view(priced), nil
}

// MaxLineQuantity bounds the units held on one cart line.
const MaxLineQuantity = 9999

// AddLine adds units of a product, incrementing the line when the product is
// already in the cart. A custom price replaces any previous override.
func (s *Service) AddLine(ctx context.Context, id string, in AddLineInput) (View, error) {
	if in.Quantity < 1 || in.Quantity > MaxLineQuantity {
		return View{}, fmt.Errorf("quantity must be between 1 and %d: %w", MaxLineQuantity, ErrInvalidInput)
	}
	custom, err := normalizeCustomPrice(in.CustomPrice)
	if err != nil {
		return View{}, err
	}
	productID := strings.ToLower(strings.TrimSpace(in.ProductID))
	return s.mutate(ctx, "add_line", id, func(ctx context.Context, c *Cart) error {
		products, err := s.Products.ProductsByID(ctx, []string{productID})
		if err != nil {
			return err
		}
		if p, ok := products[productID]; !ok || !p.Active {
			return fmt.Errorf("%s: %w", productID, ErrUnavailable)
		}
		if i := c.find(productID); i >= 0 {
			if c.Lines[i].Quantity+in.Quantity > MaxLineQuantity {
				return fmt.Errorf("line would hold %d units, limit is %d: %w",
					c.Lines[i].Quantity+in.Quantity, MaxLineQuantity, ErrInvalidInput)
			}
			c.Lines[i].Quantity += in.Quantity
			if custom.Valid {
				c.Lines[i].CustomPrice = custom
			}
			return nil
		}
		c.Lines = append(c.Lines, Line{ProductID: productID, Quantity: in.Quantity, CustomPrice: custom})
		return nil
	})
}

// UpdateLine sets the quantity and/or override price of a line.
func (s *Service) UpdateLine(ctx context.Context, id, productID string, in UpdateLineInput) (View, error) {
	if in.Quantity != nil && (*in.Quantity < 1 || *in.Quantity > MaxLineQuantity) {
		return View{}, fmt.Errorf("quantity must be between 1 and %d: %w", MaxLineQuantity, ErrInvalidInput)
	}
	if in.ClearCustomPrice && in.CustomPrice.Valid {
		return View{}, fmt.Errorf("customPrice and clearCustomPrice are exclusive: %w", ErrInvalidInput)
	}
	custom, err := normalizeCustomPrice(in.CustomPrice)
	if err != nil {
		return View{}, err
	}
	productID = strings.ToLower(strings.TrimSpace(productID))
	return s.mutate(ctx, "update_line", id, func(_ context.Context, c *Cart) error {
		i := c.find(productID)
		if i < 0 {
			return ErrLineNotFound
		}
		if in.Quantity != nil {
			c.Lines[i].Quantity = *in.Quantity
		}
		switch {
		case in.ClearCustomPrice:
			c.Lines[i].CustomPrice = decimal.NullDecimal{}
		case custom.Valid:
			c.Lines[i].CustomPrice = custom
		}
		return nil
	})
}

// RemoveLine drops a product from the cart.
func (s *Service) RemoveLine(ctx context.Context, id, productID string) (View, error) {
	productID = strings.ToLower(strings.TrimSpace(productID))
	return s.mutate(ctx, "remove_line", id, func(_ context.Context, c *Cart) error {
		i := c.find(productID)
		if i < 0 {
			return ErrLineNotFound
		}
		c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
		return nil
	})
}

// Delete abandons a cart.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := validID(id); err != nil {
		return err
	}
	err := s.Locker.WithLock(ctx, lockKey(id), s.LockTTL, func(ctx context.Context) error {
		return s.Store.Delete(ctx, id)
	})
	obs.ObserveCartOp("delete", err)
	return err
}

// Consume prices the cart under its lock and hands it to fn. The cart is
// deleted only when fn succeeds, so a failed checkout leaves it intact.
func (s *Service) Consume(ctx context.Context, id string, fn func(context.Context, Priced) error) error {
	if err := validID(id); err != nil {
		return err
	}
	err := s.Locker.WithLock(ctx, lockKey(id), s.LockTTL, func(ctx context.Context) error {
		c, err := s.Store.Load(ctx, id)
		if err != nil {
			return err
		}
		if len(c.Lines) == 0 {
			return ErrEmptyCart
		}
		priced, err := s.Price(ctx, c)
		if err != nil {
			return err
		}
		if len(priced.Unavailable) > 0 {
			return fmt.Errorf("%s: %w", strings.Join(priced.Unavailable, ","), ErrUnavailable)
		}
		if err := fn(ctx, priced); err != nil {
			return err
		}
		if err := s.Store.Delete(ctx, id); err != nil && !errors.Is(err, ErrNotFound) {
			s.Log.Error().Err(err).Str("cart_id", id).Msg("consumed cart not deleted")
		}
		return nil
	})
	obs.ObserveCartOp("checkout", err)
	return err
}

// Price resolves every line against the current catalog. Lines whose product
// is missing or inactive are reported in Unavailable and left out of totals.
func (s *Service) Price(ctx context.Context, c Cart) (Priced, error) {
	out := Priced{Cart: c, Lines: make([]PricedLine, 0, len(c.Lines)), Unavailable: []string{}}
	ids := make([]string, 0, len(c.Lines))
	for _, l := range c.Lines {
		ids = append(ids, l.ProductID)
	}
	products, err := s.Products.ProductsByID(ctx, ids)
	if err != nil {
		return Priced{}, fmt.Errorf("load cart products: %w", err)
	}
	checkout := make([]pricing.CheckoutLine, 0, len(c.Lines))
	for _, l := range c.Lines {
		p, ok := products[l.ProductID]
		if !ok || !p.Active {
			out.Unavailable = append(out.Unavailable, l.ProductID)
			continue
		}
		line := pricing.Line{Product: p.Pricing(), Quantity: l.Quantity, CustomPrice: l.CustomPrice}
		priced := pricing.PriceLine(line)
		var badge *string
		if !line.HasOverride() {
			badge = pricing.Badge(pricing.Resolve(line.Product, line.Quantity))
		}
		out.Lines = append(out.Lines, PricedLine{CheckoutLine: priced, SKU: p.SKU, Name: p.Name, Badge: badge})
		checkout = append(checkout, priced)
	}
	out.Totals = pricing.Summarize(checkout)
	return out, nil
}

func (s *Service) mutate(ctx context.Context, op, id string, apply func(context.Context, *Cart) error) (View, error) {
	if err := validID(id); err != nil {
		return View{}, err
	}
	var priced Priced
	err := s.Locker.WithLock(ctx, lockKey(id), s.LockTTL, func(ctx context.Context) error {
		c, err := s.Store.Load(ctx, id)
		if err != nil {
			return err
		}
		if err := apply(ctx, &c); err != nil {
			return err
		}
		c.UpdatedAt = s.now()
		if err := s.Store.Save(ctx, c); err != nil {
			return err
		}
		priced, err = s.Price(ctx, c)
		return err
	})
	obs.ObserveCartOp(op, err)
	if err != nil {
		return View{}, err
	}
	return s.view(priced), nil
}

func (s *Service) view(p Priced) View {
	currency := s.currency()
	tax := pricing.ComputeTax(p.Totals.GrandTotal)
	return View{
		ID:          p.Cart.ID,
		TerminalID:  p.Cart.TerminalID,
		Currency:    currency,
		Lines:       p.Lines,
		Unavailable: nonNil(p.Unavailable),
		Totals:      p.Totals,
		Tax:         tax,
		Formatted: map[string]string{
			"subtotal":      pricing.FormatCurrency(p.Totals.Subtotal, currency),
			"totalDiscount": pricing.FormatCurrency(p.Totals.TotalDiscount, currency),
			"grandTotal":    pricing.FormatCurrency(p.Totals.GrandTotal, currency),
			"tax":           pricing.FormatCurrency(tax.Tax, currency),
			"total":         pricing.FormatCurrency(tax.Total, currency),
		},
		CreatedAt: p.Cart.CreatedAt,
		UpdatedAt: p.Cart.UpdatedAt,
		ExpiresAt: p.Cart.UpdatedAt.Add(s.Store.ttl()),
	}
}

func normalizeCustomPrice(d decimal.NullDecimal) (decimal.NullDecimal, error) {
	if !d.Valid {
		return d, nil
	}
	if d.Decimal.IsNegative() {
		return decimal.NullDecimal{}, fmt.Errorf("customPrice cannot be negative: %w", ErrInvalidInput)
	}
	return decimal.NewNullDecimal(d.Decimal.Round(2)), nil
}

func validID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("cart id must be a UUID: %w", ErrInvalidInput)
	}
	return nil
}

func lockKey(id string) string {
	return "cart:" + id
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
