package catalog

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/noah-isme/backend-pos/internal/common"
	"github.com/noah-isme/backend-pos/internal/pricing"
)

// Handler exposes catalog and pricing endpoints.
type Handler struct {
	service  *Service
	validate *validator.Validate
}

// HandlerConfig configures the Handler dependencies.
type HandlerConfig struct {
	Service   *Service
	Validator *validator.Validate
}

// NewHandler constructs a Handler.
func NewHandler(cfg HandlerConfig) *Handler {
	v := cfg.Validator
	if v == nil {
		v = common.NewValidator()
	}
	return &Handler{service: cfg.Service, validate: v}
}

// Products handles GET /api/v1/products.
func (h *Handler) Products(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	params, err := h.service.ParseListParams(r.URL.Query())
	if err != nil {
		h.writeError(w, err)
		return
	}
	result, err := h.service.List(r.Context(), params)
	if err != nil {
		h.writeError(w, err)
		return
	}
	w.Header().Set("X-Total-Count", strconv.FormatInt(result.Total, 10))
	common.JSON(w, http.StatusOK, map[string]any{
		"data":       result.Items,
		"pagination": common.Pagination{Page: result.Page, PerPage: result.Limit, TotalItems: int(result.Total)},
	})
}

// Product handles GET /api/v1/products/{id}.
func (h *Handler) Product(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	product, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.Data(w, http.StatusOK, product)
}

// Create handles POST /api/v1/products.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	var in ProductInput
	if err := common.DecodeJSON(r, &in); err != nil {
		h.writeError(w, err)
		return
	}
	if err := common.ValidateStruct(h.validate, in); err != nil {
		h.writeError(w, err)
		return
	}
	product, err := h.service.Create(r.Context(), in)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.Data(w, http.StatusCreated, product)
}

// Update handles PUT /api/v1/products/{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	var in ProductInput
	if err := common.DecodeJSON(r, &in); err != nil {
		h.writeError(w, err)
		return
	}
	if err := common.ValidateStruct(h.validate, in); err != nil {
		h.writeError(w, err)
		return
	}
	product, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.Data(w, http.StatusOK, product)
}

// Price handles GET /api/v1/products/{id}/price?qty=N&customPrice=X.
func (h *Handler) Price(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	query := r.URL.Query()
	qty := 1
	if v := strings.TrimSpace(query.Get("qty")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			h.writeError(w, common.BadRequest("qty", "qty must be a positive integer", err))
			return
		}
		qty = n
	}
	var custom decimal.NullDecimal
	if v := strings.TrimSpace(query.Get("customPrice")); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			h.writeError(w, common.BadRequest("customPrice", "customPrice must be a decimal number", err))
			return
		}
		custom = decimal.NewNullDecimal(d)
	}
	preview, err := h.service.PricePreview(r.Context(), chi.URLParam(r, "id"), qty, custom)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.Data(w, http.StatusOK, preview)
}

// Margin handles GET /api/v1/products/{id}/margin.
func (h *Handler) Margin(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	report, err := h.service.Margin(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.Data(w, http.StatusOK, report)
}

type taxRequest struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Currency string          `json:"currency" validate:"omitempty,len=3"`
}

type taxResponse struct {
	pricing.TaxBreakdown
	Formatted map[string]string `json:"formatted"`
}

// Tax handles POST /api/v1/pricing/tax. It is stateless and needs no service.
func (h *Handler) Tax(w http.ResponseWriter, r *http.Request) {
	var req taxRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	if err := common.ValidateStruct(h.validate, req); err != nil {
		h.writeError(w, err)
		return
	}
	currency := strings.ToUpper(req.Currency)
	if currency == "" && h.service != nil {
		currency = h.service.Currency()
	}
	if currency == "" {
		currency = "PEN"
	}
	tax := pricing.ComputeTax(req.Subtotal)
	common.Data(w, http.StatusOK, taxResponse{
		TaxBreakdown: tax,
		Formatted: map[string]string{
			"subtotal": pricing.FormatCurrency(tax.Subtotal, currency),
			"tax":      pricing.FormatCurrency(tax.Tax, currency),
			"total":    pricing.FormatCurrency(tax.Total, currency),
		},
	})
}

func (h *Handler) ready(w http.ResponseWriter) bool {
	if h.service == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "catalog service not configured", nil)
		return false
	}
	return true
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	common.WriteError(w, err)
}
