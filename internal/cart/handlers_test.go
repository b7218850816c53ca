package cart_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-pos/internal/cart"
	"github.com/noah-isme/backend-pos/internal/common"
)

type viewResponse struct {
	Data struct {
		ID         string `json:"id"`
		TerminalID string `json:"terminalId"`
		Lines      []struct {
			ProductID   string  `json:"productId"`
			Quantity    int     `json:"quantity"`
			CustomPrice *string `json:"customPrice"`
			FinalPrice  string  `json:"finalPrice"`
		} `json:"lines"`
		Totals struct {
			GrandTotal string `json:"grandTotal"`
		} `json:"totals"`
	} `json:"data"`
}

func newRouter(t *testing.T) http.Handler {
	t.Helper()
	f := newFixture(t)
	h := &cart.Handler{Svc: f.svc}
	r := chi.NewRouter()
	r.Post("/carts", h.Create)
	r.Get("/carts/{id}", h.Get)
	r.Delete("/carts/{id}", h.Delete)
	r.Post("/carts/{id}/lines", h.AddLine)
	r.Patch("/carts/{id}/lines/{productId}", h.UpdateLine)
	r.Delete("/carts/{id}/lines/{productId}", h.RemoveLine)
	return r
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	req.Header.Set(common.TerminalHeader, "till-7")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeView(t *testing.T, rec *httptest.ResponseRecorder) viewResponse {
	t.Helper()
	var v viewResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func TestCartHandlersFlow(t *testing.T) {
	r := newRouter(t)

	rec := do(t, r, http.MethodPost, "/carts", "")
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decodeView(t, rec)
	require.Equal(t, "till-7", created.Data.TerminalID)
	id := created.Data.ID

	rec = do(t, r, http.MethodPost, "/carts/"+id+"/lines", `{"productId":"`+riceID+`","quantity":2}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "36", decodeView(t, rec).Data.Totals.GrandTotal)

	rec = do(t, r, http.MethodPatch, "/carts/"+id+"/lines/"+riceID, `{"customPrice":"19.50"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	v := decodeView(t, rec)
	require.NotNil(t, v.Data.Lines[0].CustomPrice)
	require.Equal(t, "19.5", *v.Data.Lines[0].CustomPrice)
	require.Equal(t, "17.5", v.Data.Lines[0].FinalPrice)

	rec = do(t, r, http.MethodPatch, "/carts/"+id+"/lines/"+riceID, `{"clearCustomPrice":true}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Nil(t, decodeView(t, rec).Data.Lines[0].CustomPrice)

	rec = do(t, r, http.MethodDelete, "/carts/"+id+"/lines/"+riceID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Empty(t, decodeView(t, rec).Data.Lines)

	rec = do(t, r, http.MethodDelete, "/carts/"+id, "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, r, http.MethodGet, "/carts/"+id, "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCartHandlersRejectBadPayloads(t *testing.T) {
	r := newRouter(t)
	id := decodeView(t, do(t, r, http.MethodPost, "/carts", "")).Data.ID

	rec := do(t, r, http.MethodPost, "/carts/"+id+"/lines", `{"productId":"`+riceID+`","quantity":0}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, r, http.MethodPost, "/carts/"+id+"/lines", `{"productId":"nope","quantity":1}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, r, http.MethodPost, "/carts/"+id+"/lines", `{"productId":"`+soapID+`","quantity":1}`)
	require.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, r, http.MethodPatch, "/carts/"+id+"/lines/"+riceID, `{"quantity":2}`)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, r, http.MethodGet, "/carts/bogus", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
