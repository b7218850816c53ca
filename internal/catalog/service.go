package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/noah-isme/backend-pos/internal/common"
	dbgen "github.com/noah-isme/backend-pos/internal/db/gen"
	"github.com/noah-isme/backend-pos/internal/obs"
	"github.com/noah-isme/backend-pos/internal/pricing"
)

var (
	// ErrNotFound is returned when a product id does not exist.
	ErrNotFound = errors.New("catalog: product not found")
	// ErrInvalidInput wraps malformed ids and rejected product payloads.
	ErrInvalidInput = errors.New("catalog: invalid input")
)

const listCacheKey = "products:list:default"

type queryProvider interface {
	CountProducts(ctx context.Context, arg dbgen.CountProductsParams) (int64, error)
	ListProducts(ctx context.Context, arg dbgen.ListProductsParams) ([]dbgen.Product, error)
	GetProductByID(ctx context.Context, id pgtype.UUID) (dbgen.Product, error)
	ListProductsByIDs(ctx context.Context, ids []pgtype.UUID) ([]dbgen.Product, error)
	CreateProduct(ctx context.Context, arg dbgen.CreateProductParams) (dbgen.Product, error)
	UpdateProduct(ctx context.Context, arg dbgen.UpdateProductParams) (dbgen.Product, error)
}

// Service serves catalog reads and writes and previews prices per product.
type Service struct {
	queries      queryProvider
	cache        *Cache
	currency     string
	defaultLimit int
	maxLimit     int
	log          zerolog.Logger
}

// ServiceConfig groups Service dependencies.
type ServiceConfig struct {
	Queries      queryProvider
	Cache        *Cache
	Currency     string
	DefaultLimit int
	MaxLimit     int
	Logger       zerolog.Logger
}

// ListParams captures filters for product listing.
type ListParams struct {
	Query  string
	Active *bool
	Page   int
	Limit  int
}

// ProductListResult contains list data and pagination metadata.
type ProductListResult struct {
	Items []Product
	Total int64
	Page  int
	Limit int
}

// NewService constructs a Service instance.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Queries == nil {
		return nil, errors.New("catalog: queries provider is required")
	}
	maxLimit := cfg.MaxLimit
	if maxLimit < 1 {
		maxLimit = 100
	}
	defaultLimit := cfg.DefaultLimit
	if defaultLimit < 1 {
		defaultLimit = 20
	}
	if defaultLimit > maxLimit {
		defaultLimit = maxLimit
	}
	currency := strings.TrimSpace(cfg.Currency)
	if currency == "" {
		currency = "PEN"
	}
	return &Service{
		queries:      cfg.Queries,
		cache:        cfg.Cache,
		currency:     currency,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
		log:          cfg.Logger,
	}, nil
}

// Currency returns the ISO code prices are formatted in.
func (s *Service) Currency() string { return s.currency }

// ParseListParams normalises raw query values into typed filters.
func (s *Service) ParseListParams(values url.Values) (ListParams, error) {
	page, limit, err := common.ParsePagination(values, s.defaultLimit, s.maxLimit)
	if err != nil {
		return ListParams{}, err
	}
	params := ListParams{
		Query: strings.TrimSpace(values.Get("q")),
		Page:  page,
		Limit: limit,
	}
	if v := strings.TrimSpace(values.Get("active")); v != "" {
		b, err := parseBool(v)
		if err != nil {
			return params, common.BadRequest("active", "active must be true or false", err)
		}
		params.Active = &b
	}
	return params, nil
}

// List returns a page of products. The unfiltered first page is cached.
func (s *Service) List(ctx context.Context, params ListParams) (ProductListResult, error) {
	cacheable := params.Page == 1 && params.Limit == s.defaultLimit && params.Query == "" && params.Active == nil
	if cacheable {
		var cached cachedList
		if ok, err := s.cache.GetJSON(ctx, listCacheKey, &cached); err == nil && ok {
			return ProductListResult{Items: cached.Items, Total: cached.Total, Page: params.Page, Limit: params.Limit}, nil
		}
	}

	countParams := dbgen.CountProductsParams{
		Q:      optionalString(params.Query),
		Active: optionalBool(params.Active),
	}
	total, err := s.queries.CountProducts(ctx, countParams)
	if err != nil {
		return ProductListResult{}, fmt.Errorf("count products: %w", err)
	}
	offset := (params.Page - 1) * params.Limit
	if offset < 0 {
		offset = 0
	}
	rows, err := s.queries.ListProducts(ctx, dbgen.ListProductsParams{
		Q:           countParams.Q,
		Active:      countParams.Active,
		OffsetValue: int32(offset),
		LimitValue:  int32(params.Limit),
	})
	if err != nil {
		return ProductListResult{}, fmt.Errorf("list products: %w", err)
	}
	items := make([]Product, 0, len(rows))
	for _, row := range rows {
		items = append(items, fromRow(row))
	}
	if cacheable {
		if err := s.cache.SetJSON(ctx, listCacheKey, cachedList{Items: items, Total: total}); err != nil {
			s.log.Warn().Err(err).Msg("catalog list cache write failed")
		}
	}
	return ProductListResult{Items: items, Total: total, Page: params.Page, Limit: params.Limit}, nil
}

// Get returns a single product by id.
func (s *Service) Get(ctx context.Context, id string) (Product, error) {
	pgID, err := parseProductID(id)
	if err != nil {
		return Product{}, err
	}
	key := detailCacheKey(id)
	var cached Product
	if ok, err := s.cache.GetJSON(ctx, key, &cached); err == nil && ok {
		return cached, nil
	}
	row, err := s.queries.GetProductByID(ctx, pgID)
	if err != nil {
		return Product{}, s.mapNotFound(err, "get product")
	}
	p := fromRow(row)
	if err := s.cache.SetJSON(ctx, key, p); err != nil {
		s.log.Warn().Err(err).Str("product_id", id).Msg("catalog detail cache write failed")
	}
	return p, nil
}

// ProductsByID loads the given products straight from the database, bypassing
// the cache so carts always price against current data. Unknown ids are
// absent from the result.
func (s *Service) ProductsByID(ctx context.Context, ids []string) (map[string]Product, error) {
	out := make(map[string]Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	pgIDs := make([]pgtype.UUID, 0, len(ids))
	for _, id := range ids {
		pgID, err := parseProductID(id)
		if err != nil {
			return nil, err
		}
		pgIDs = append(pgIDs, pgID)
	}
	rows, err := s.queries.ListProductsByIDs(ctx, pgIDs)
	if err != nil {
		return nil, fmt.Errorf("list products by ids: %w", err)
	}
	for _, row := range rows {
		p := fromRow(row)
		out[p.ID] = p
	}
	return out, nil
}

// Create validates and inserts a product.
func (s *Service) Create(ctx context.Context, in ProductInput) (Product, error) {
	if err := ValidateInput(in); err != nil {
		return Product{}, err
	}
	row, err := s.queries.CreateProduct(ctx, in.Params())
	if err != nil {
		return Product{}, mapWriteError(err, "create product")
	}
	s.invalidate(ctx)
	return fromRow(row), nil
}

// Update validates and replaces a product.
func (s *Service) Update(ctx context.Context, id string, in ProductInput) (Product, error) {
	pgID, err := parseProductID(id)
	if err != nil {
		return Product{}, err
	}
	if err := ValidateInput(in); err != nil {
		return Product{}, err
	}
	cp := in.Params()
	row, err := s.queries.UpdateProduct(ctx, dbgen.UpdateProductParams{
		ID:              pgID,
		Sku:             cp.Sku,
		Name:            cp.Name,
		UnitCost:        cp.UnitCost,
		RetailPrice:     cp.RetailPrice,
		PromoActive:     cp.PromoActive,
		PromoPrice:      cp.PromoPrice,
		WholesalePrice:  cp.WholesalePrice,
		WholesaleMinQty: cp.WholesaleMinQty,
		Active:          cp.Active,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, s.mapNotFound(err, "update product")
		}
		return Product{}, mapWriteError(err, "update product")
	}
	s.invalidate(ctx, detailCacheKey(id))
	return fromRow(row), nil
}

// PricePreview describes what a product costs at a quantity, optionally with
// an operator override.
type PricePreview struct {
	ProductID           string                   `json:"productId"`
	Quantity            int                      `json:"quantity"`
	Currency            string                   `json:"currency"`
	Kind                string                   `json:"kind"`
	Calculation         pricing.PriceCalculation `json:"calculation"`
	Override            *pricing.OverrideResult  `json:"override,omitempty"`
	Badge               *string                  `json:"badge"`
	UnitPrice           decimal.Decimal          `json:"unitPrice"`
	UnitPriceFormatted  string                   `json:"unitPriceFormatted"`
	BasePriceFormatted  string                   `json:"basePriceFormatted"`
	LineTotal           decimal.Decimal          `json:"lineTotal"`
	LineTotalFormatted  string                   `json:"lineTotalFormatted"`
	UnitsUntilWholesale *int                     `json:"unitsUntilWholesale"`
}

// PricePreview resolves the unit price of a product for qty units. When
// customPrice is set the override reconciler decides the final price; the
// plain calculation is still returned for the badge.
func (s *Service) PricePreview(ctx context.Context, id string, qty int, customPrice decimal.NullDecimal) (PricePreview, error) {
	if qty < 1 {
		return PricePreview{}, common.BadRequest("qty", "qty must be a positive integer", ErrInvalidInput)
	}
	if customPrice.Valid && customPrice.Decimal.IsNegative() {
		return PricePreview{}, common.BadRequest("customPrice", "customPrice cannot be negative", ErrInvalidInput)
	}
	product, err := s.Get(ctx, id)
	if err != nil {
		return PricePreview{}, err
	}
	pp := product.Pricing()
	calc := pricing.Resolve(pp, qty)
	preview := PricePreview{
		ProductID:           product.ID,
		Quantity:            qty,
		Currency:            s.currency,
		Kind:                calc.Kind(),
		Calculation:         calc,
		Badge:               pricing.Badge(calc),
		UnitPrice:           calc.FinalPrice,
		BasePriceFormatted:  pricing.FormatCurrency(calc.BasePrice, s.currency),
		UnitsUntilWholesale: pricing.UnitsUntilWholesale(pp, qty),
	}
	clamped := false
	if customPrice.Valid {
		res := pricing.ResolveWithOverride(pp, qty, customPrice.Decimal.Round(2))
		preview.Override = &res
		preview.Kind = pricing.KindOverride
		preview.UnitPrice = res.FinalPrice
		preview.BasePriceFormatted = pricing.FormatCurrency(res.BasePrice, s.currency)
		clamped = res.Clamped
	}
	preview.UnitPriceFormatted = pricing.FormatCurrency(preview.UnitPrice, s.currency)
	preview.LineTotal = preview.UnitPrice.Mul(decimal.NewFromInt(int64(qty)))
	preview.LineTotalFormatted = pricing.FormatCurrency(preview.LineTotal, s.currency)
	obs.ObservePriceKind(preview.Kind, clamped)
	return preview, nil
}

// MarginReport is the margin tooling view of a product.
type MarginReport struct {
	ProductID   string              `json:"productId"`
	RetailPrice decimal.Decimal     `json:"retailPrice"`
	UnitCost    decimal.NullDecimal `json:"unitCost"`
	pricing.MarginInfo
}

// Margin reports the retail margin of a product.
func (s *Service) Margin(ctx context.Context, id string) (MarginReport, error) {
	product, err := s.Get(ctx, id)
	if err != nil {
		return MarginReport{}, err
	}
	return MarginReport{
		ProductID:   product.ID,
		RetailPrice: product.RetailPrice,
		UnitCost:    product.UnitCost,
		MarginInfo:  pricing.Margin(product.Pricing()),
	}, nil
}

func (s *Service) invalidate(ctx context.Context, keys ...string) {
	keys = append(keys, listCacheKey)
	if err := s.cache.Delete(ctx, keys...); err != nil {
		s.log.Warn().Err(err).Strs("keys", keys).Msg("catalog cache invalidation failed")
	}
}

func (s *Service) mapNotFound(err error, op string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return common.NotFound("product not found", ErrNotFound)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// ValidateInput checks the pricing rules of a product payload.
func ValidateInput(in ProductInput) error {
	if err := pricing.ValidateProduct(in.pricing()); err != nil {
		problems := strings.Split(err.Error(), "\n")
		appErr := common.BadRequest("", "product pricing is inconsistent", fmt.Errorf("%w: %w", ErrInvalidInput, err))
		appErr.Details = map[string]any{"problems": problems}
		return appErr
	}
	return nil
}

func mapWriteError(err error, op string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return common.Conflict("sku already exists", err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func parseProductID(id string) (pgtype.UUID, error) {
	pgID, err := ParseID(strings.TrimSpace(id))
	if err != nil {
		return pgtype.UUID{}, common.BadRequest("id", "product id must be a UUID", fmt.Errorf("%w: %w", ErrInvalidInput, err))
	}
	return pgID, nil
}

type cachedList struct {
	Items []Product `json:"items"`
	Total int64     `json:"total"`
}

func detailCacheKey(id string) string {
	return "products:detail:" + strings.ToLower(strings.TrimSpace(id))
}

func optionalString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func optionalBool(ptr *bool) any {
	if ptr == nil {
		return nil
	}
	return *ptr
}

func parseBool(value string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "1", "yes":
		return true, nil
	case "false", "0", "no":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean: %s", value)
	}
}
