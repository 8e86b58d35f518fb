package validators

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/angelmondragon/pedidos-storefront/pkg/errors"
)

type addItemBody struct {
	ProductID int64  `json:"product_id" validate:"required"`
	Note      string `json:"note"`
}

func withParam(r *http.Request, key, value string) *http.Request {
	rc := chi.NewRouteContext()
	rc.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rc))
}

func TestDecodeJSONBodyValidates(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"note":"x"}`))
	var body addItemBody
	err := DecodeJSONBody(req, &body)
	require.Error(t, err)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	assert.Equal(t, map[string]string{"product_id": "is required"}, typed.Details())
}

func TestDecodeJSONSkipsValidation(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"note":"x"}`))
	var body addItemBody
	require.NoError(t, DecodeJSON(req, &body))
	assert.Equal(t, "x", body.Note)
}

func TestDecodeJSONAcceptsEmptyBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", http.NoBody)
	var body addItemBody
	require.NoError(t, DecodeJSON(req, &body))

	err := DecodeJSONBody(httptest.NewRequest(http.MethodPost, "/", http.NoBody), &body)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))
}

func TestDecodeJSONRejectsUnknownFields(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"product_id":1,"extra":true}`))
	var body addItemBody
	err := DecodeJSON(req, &body)
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))
}

func TestPathInt64(t *testing.T) {
	req := withParam(httptest.NewRequest(http.MethodGet, "/", nil), "orderId", "42")
	id, err := PathInt64(req, "orderId")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	for _, raw := range []string{"", "abc", "0", "-3"} {
		req := withParam(httptest.NewRequest(http.MethodGet, "/", nil), "orderId", raw)
		_, err := PathInt64(req, "orderId")
		assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation), "raw=%q", raw)
	}
}

func TestQueryString(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?tienda=%20pizzeria%20", nil)
	assert.Equal(t, "pizzeria", QueryString(req, "tienda"))
	assert.Equal(t, "", QueryString(req, "missing"))
}
