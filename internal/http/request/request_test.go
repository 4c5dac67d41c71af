package request

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi"
	"github.com/go-playground/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/webshop/internal/models"
)

func withID(r *http.Request, id string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestID(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    int64
		wantErr bool
	}{
		{name: "число", raw: "42", want: 42},
		{name: "не число", raw: "abc", wantErr: true},
		{name: "ноль", raw: "0", wantErr: true},
		{name: "отрицательное", raw: "-5", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := withID(httptest.NewRequest(http.MethodGet, "/", nil), tt.raw)
			id, err := ID(r)
			if tt.wantErr {
				assert.True(t, errors.Is(err, models.ErrInvalidRequest))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, id)
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	var req models.LoginRequest
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"username":"admin","password":"admin123"}`))
	require.NoError(t, DecodeJSON(r, &req))
	assert.Equal(t, "admin", req.Username)

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{bad json`))
	assert.True(t, errors.Is(DecodeJSON(r, &req), models.ErrInvalidRequest))
}

func TestValidate(t *testing.T) {
	v := validator.New()

	_, ok := Validate(v, models.ArticleInput{Name: "Keyboard", SupplierEmail: "sales@example.com"})
	assert.True(t, ok)

	body, ok := Validate(v, models.ArticleInput{SupplierEmail: "broken"})
	assert.False(t, ok)
	assert.Contains(t, body.Error, "Name")
	assert.Contains(t, body.Error, "SupplierEmail")
}
