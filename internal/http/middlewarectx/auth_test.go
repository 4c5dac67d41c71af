package middlewarectx_test

import (
	"errors"
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

type SessionMock struct {
	mock.Mock
}

func (m *SessionMock) Load(r *http.Request) (*models.Principal, error) {
	args := m.Called(r)
	p, _ := args.Get(0).(*models.Principal)
	return p, args.Error(1)
}

type TokenMock struct {
	mock.Mock
}

func (m *TokenMock) ParseToken(tokenStr string) (*models.Principal, error) {
	args := m.Called(tokenStr)
	p, _ := args.Get(0).(*models.Principal)
	return p, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

var errNoSession = errors.New("no session")

func TestAuthenticate(t *testing.T) {
	sessionUser := &models.Principal{UserID: 1, Username: "admin", Role: models.RoleAdmin}
	tokenUser := &models.Principal{UserID: 2, Username: "editor", Role: models.RoleEditor}

	tests := []struct {
		name          string
		authHeader    string
		sessionResult *models.Principal
		tokenResult   *models.Principal
		tokenErr      error
		wantStatus    int
		wantPrincipal *models.Principal
		wantCalled    bool
	}{
		{
			name:          "сессия имеет приоритет над токеном",
			authHeader:    "Bearer ignored",
			sessionResult: sessionUser,
			wantStatus:    http.StatusOK,
			wantPrincipal: sessionUser,
			wantCalled:    true,
		},
		{
			name:          "валидный токен",
			authHeader:    "Bearer good",
			tokenResult:   tokenUser,
			wantStatus:    http.StatusOK,
			wantPrincipal: tokenUser,
			wantCalled:    true,
		},
		{
			name:       "аноним без заголовка",
			wantStatus: http.StatusOK,
			wantCalled: true,
		},
		{
			name:       "неверный префикс",
			authHeader: "Basic abc",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "просроченный токен",
			authHeader: "Bearer expired",
			tokenErr:   errors.New("token is expired"),
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sessions := new(SessionMock)
			if tt.sessionResult != nil {
				sessions.On("Load", mock.Anything).Return(tt.sessionResult, nil)
			} else {
				sessions.On("Load", mock.Anything).Return(nil, errNoSession)
			}
			tokens := new(TokenMock)
			if tt.tokenResult != nil || tt.tokenErr != nil {
				tokens.On("ParseToken", mock.Anything).Return(tt.tokenResult, tt.tokenErr)
			}

			called := false
			var got *models.Principal
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				got = middlewarectx.PrincipalFrom(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rr := httptest.NewRecorder()

			middlewarectx.Authenticate(newNoopLogger(), sessions, tokens)(next).ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, tt.wantCalled, called)
			assert.Equal(t, tt.wantPrincipal, got)
			if tt.sessionResult != nil {
				tokens.AssertNotCalled(t, "ParseToken", mock.Anything)
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name       string
		principal  *models.Principal
		minimum    models.Role
		wantStatus int
	}{
		{name: "аноним", minimum: models.RoleRegularUser, wantStatus: http.StatusUnauthorized},
		{name: "пользователь в зоне редактора", principal: &models.Principal{Role: models.RoleRegularUser}, minimum: models.RoleEditor, wantStatus: http.StatusForbidden},
		{name: "редактор в зоне админа", principal: &models.Principal{Role: models.RoleEditor}, minimum: models.RoleAdmin, wantStatus: http.StatusForbidden},
		{name: "редактор в зоне редактора", principal: &models.Principal{Role: models.RoleEditor}, minimum: models.RoleEditor, wantStatus: http.StatusOK},
		{name: "админ в зоне пользователя", principal: &models.Principal{Role: models.RoleAdmin}, minimum: models.RoleRegularUser, wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
			})
			req := httptest.NewRequest(http.MethodDelete, "/api/articles/1", nil)
			if tt.principal != nil {
				req = req.WithContext(middlewarectx.WithPrincipal(req.Context(), tt.principal))
			}
			rr := httptest.NewRecorder()

			middlewarectx.RequireRole(newNoopLogger(), tt.minimum)(next).ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
		})
	}
}
