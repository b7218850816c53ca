package cart

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/backend-pos/internal/common"
	"github.com/noah-isme/backend-pos/internal/lock"
)

var defaultValidator = common.NewValidator()

// Handler wires cart services to HTTP.
type Handler struct {
	Svc       *Service
	Validator *validator.Validate
}

// Create handles POST /api/v1/carts. The cart is bound to the calling terminal.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	view, err := h.Svc.Create(r.Context(), common.TerminalID(r))
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.Data(w, http.StatusCreated, view)
}

// Get handles GET /api/v1/carts/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	view, err := h.Svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.Data(w, http.StatusOK, view)
}

// AddLine handles POST /api/v1/carts/{id}/lines.
func (h *Handler) AddLine(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	var in AddLineInput
	if err := common.DecodeJSON(r, &in); err != nil {
		h.writeError(w, err)
		return
	}
	if err := common.ValidateStruct(h.validator(), in); err != nil {
		h.writeError(w, err)
		return
	}
	view, err := h.Svc.AddLine(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.Data(w, http.StatusOK, view)
}

// UpdateLine handles PATCH /api/v1/carts/{id}/lines/{productId}.
func (h *Handler) UpdateLine(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	var in UpdateLineInput
	if err := common.DecodeJSON(r, &in); err != nil {
		h.writeError(w, err)
		return
	}
	if err := common.ValidateStruct(h.validator(), in); err != nil {
		h.writeError(w, err)
		return
	}
	view, err := h.Svc.UpdateLine(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "productId"), in)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.Data(w, http.StatusOK, view)
}

// RemoveLine handles DELETE /api/v1/carts/{id}/lines/{productId}.
func (h *Handler) RemoveLine(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	view, err := h.Svc.RemoveLine(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "productId"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.Data(w, http.StatusOK, view)
}

// Delete handles DELETE /api/v1/carts/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	if err := h.Svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ready(w http.ResponseWriter) bool {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "cart service not configured", nil)
		return false
	}
	return true
}

func (h *Handler) validator() *validator.Validate {
	if h.Validator == nil {
		return defaultValidator
	}
	return h.Validator
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	WriteError(w, err)
}

// WriteError maps cart errors to HTTP responses. Checkout reuses it for
// failures raised while consuming a cart.
func WriteError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "cart not found", nil)
	case errors.Is(err, ErrLineNotFound):
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "cart line not found", nil)
	case errors.Is(err, ErrInvalidInput):
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
	case errors.Is(err, ErrEmptyCart):
		common.JSONError(w, http.StatusUnprocessableEntity, "EMPTY_CART", "cart has no lines", nil)
	case errors.Is(err, ErrUnavailable):
		common.JSONError(w, http.StatusConflict, "PRODUCT_UNAVAILABLE", err.Error(), nil)
	case errors.Is(err, lock.ErrNotAcquired):
		common.JSONError(w, http.StatusConflict, "CART_BUSY", "cart is being modified, retry", nil)
	default:
		common.WriteError(w, err)
	}
}
