package list

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/webshop/internal/http/middlewarectx"
	"github.com/magabrotheeeer/webshop/internal/models"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) ListPackages(ctx context.Context, p *models.Principal) ([]models.SubscriptionPackage, error) {
	args := m.Called(ctx, p)
	res, _ := args.Get(0).([]models.SubscriptionPackage)
	return res, args.Error(1)
}

func TestHandler_PassesPrincipal(t *testing.T) {
	editor := &models.Principal{UserID: 2, Username: "editor", Role: models.RoleEditor}

	svc := new(MockService)
	svc.On("ListPackages", mock.Anything, editor).
		Return([]models.SubscriptionPackage{{ID: 1, Name: "Basic", IsActive: false}}, nil)
	h := New(slog.New(slog.NewTextHandler(io.Discard, nil)), svc)

	req := httptest.NewRequest(http.MethodGet, "/api/subscriptionpackages", nil)
	req = req.WithContext(middlewarectx.WithPrincipal(req.Context(), editor))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"isActive":false`)
	svc.AssertExpectations(t)
}

func TestHandler_AnonymousEmptyList(t *testing.T) {
	svc := new(MockService)
	svc.On("ListPackages", mock.Anything, (*models.Principal)(nil)).Return(nil, nil)
	h := New(slog.New(slog.NewTextHandler(io.Discard, nil)), svc)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/subscriptionpackages", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[]`, rr.Body.String())
}
