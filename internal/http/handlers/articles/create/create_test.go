package create

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/webshop/internal/models"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) CreateArticle(ctx context.Context, in models.ArticleInput) (*models.Article, error) {
	args := m.Called(ctx, in)
	a, _ := args.Get(0).(*models.Article)
	return a, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name         string
		body         string
		setupMock    func(m *MockService)
		wantStatus   int
		wantLocation string
		wantBody     string
	}{
		{
			name: "успешное создание",
			body: `{"name":"Keyboard","price":49.99,"supplierEmail":"sales@example.com"}`,
			setupMock: func(m *MockService) {
				m.On("CreateArticle", mock.Anything, mock.MatchedBy(func(in models.ArticleInput) bool {
					return in.Name == "Keyboard" && in.Price.Equal(decimal.RequireFromString("49.99"))
				})).Return(&models.Article{ID: 7, Name: "Keyboard", Price: decimal.RequireFromString("49.99")}, nil)
			},
			wantStatus:   http.StatusCreated,
			wantLocation: "/api/articles/7",
			wantBody:     `"id":7`,
		},
		{
			name:       "битый JSON",
			body:       `{"name":`,
			setupMock:  func(_ *MockService) {},
			wantStatus: http.StatusBadRequest,
			wantBody:   "invalid request body",
		},
		{
			name:       "нет email поставщика",
			body:       `{"name":"Keyboard","price":49.99}`,
			setupMock:  func(_ *MockService) {},
			wantStatus: http.StatusBadRequest,
			wantBody:   "SupplierEmail",
		},
		{
			name: "цена вне диапазона",
			body: `{"name":"Keyboard","price":0,"supplierEmail":"sales@example.com"}`,
			setupMock: func(m *MockService) {
				m.On("CreateArticle", mock.Anything, mock.Anything).
					Return(nil, models.NewError(models.ErrInvalidRequest, "Price must be between 0.01 and 1000000"))
			},
			wantStatus: http.StatusBadRequest,
			wantBody:   "Price must be between",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMock(svc)
			h := New(newNoopLogger(), svc)

			req := httptest.NewRequest(http.MethodPost, "/api/articles", strings.NewReader(tt.body))
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, tt.wantLocation, rr.Header().Get("Location"))
			assert.Contains(t, rr.Body.String(), tt.wantBody)
			svc.AssertExpectations(t)
		})
	}
}
