package login

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/webshop/internal/models"
	"github.com/magabrotheeeer/webshop/internal/services/user"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Login(ctx context.Context, req models.LoginRequest) (*user.LoginResult, error) {
	args := m.Called(ctx, req)
	res, _ := args.Get(0).(*user.LoginResult)
	return res, args.Error(1)
}

type SessionMock struct {
	mock.Mock
}

func (m *SessionMock) Save(w http.ResponseWriter, r *http.Request, p models.Principal) error {
	return m.Called(w, r, p).Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestLoginHandler_ServeHTTP(t *testing.T) {
	admin := models.Principal{UserID: 1, Username: "admin", Role: models.RoleAdmin}
	result := &user.LoginResult{
		Principal: admin,
		Profile: models.UserProfile{
			ID:        1,
			Username:  "admin",
			FullName:  "System Administrator",
			Email:     "admin@webshop.com",
			Role:      "Admin",
			RoleLevel: 3,
		},
		Token: "tok",
	}

	tests := []struct {
		name        string
		body        any
		setup       func(svc *ServiceMock, sess *SessionMock)
		wantStatus  int
		wantError   string
		wantProfile bool
	}{
		{
			name: "успешный вход",
			body: models.LoginRequest{Username: "admin", Password: "admin123"},
			setup: func(svc *ServiceMock, sess *SessionMock) {
				svc.On("Login", mock.Anything, models.LoginRequest{Username: "admin", Password: "admin123"}).Return(result, nil)
				sess.On("Save", mock.Anything, mock.Anything, admin).Return(nil)
			},
			wantStatus:  http.StatusOK,
			wantProfile: true,
		},
		{
			name: "неверный пароль",
			body: models.LoginRequest{Username: "admin", Password: "wrong"},
			setup: func(svc *ServiceMock, _ *SessionMock) {
				svc.On("Login", mock.Anything, mock.Anything).
					Return(nil, models.NewError(models.ErrUnauthorized, "Invalid username or password"))
			},
			wantStatus: http.StatusUnauthorized,
			wantError:  "Invalid username or password",
		},
		{
			name: "пустые поля",
			body: models.LoginRequest{},
			setup: func(svc *ServiceMock, _ *SessionMock) {
				svc.On("Login", mock.Anything, mock.Anything).
					Return(nil, models.NewError(models.ErrInvalidRequest, "Username and password are required"))
			},
			wantStatus: http.StatusBadRequest,
			wantError:  "Username and password are required",
		},
		{
			name: "сессия не сохранилась",
			body: models.LoginRequest{Username: "admin", Password: "admin123"},
			setup: func(svc *ServiceMock, sess *SessionMock) {
				svc.On("Login", mock.Anything, mock.Anything).Return(result, nil)
				sess.On("Save", mock.Anything, mock.Anything, admin).Return(errors.New("securecookie: encode failed"))
			},
			wantStatus: http.StatusInternalServerError,
			wantError:  "Internal server error",
		},
		{
			name:       "битый JSON",
			body:       "not a json",
			setup:      func(_ *ServiceMock, _ *SessionMock) {},
			wantStatus: http.StatusBadRequest,
			wantError:  "invalid request body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(ServiceMock)
			sess := new(SessionMock)
			tt.setup(svc, sess)
			handler := New(newNoopLogger(), svc, sess)

			var body []byte
			if s, ok := tt.body.(string); ok {
				body = []byte(s)
			} else {
				body, _ = json.Marshal(tt.body)
			}
			req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			var got map[string]any
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
			if tt.wantProfile {
				assert.Equal(t, "admin", got["username"])
				assert.Equal(t, "Admin", got["role"])
				assert.EqualValues(t, 3, got["roleLevel"])
				assert.Equal(t, "tok", got["token"])
			} else {
				assert.Equal(t, tt.wantError, got["error"])
			}
			svc.AssertExpectations(t)
			sess.AssertExpectations(t)
		})
	}
}
