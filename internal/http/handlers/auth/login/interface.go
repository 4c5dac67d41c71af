package login

import (
	"context"
	"net/http"

	"github.com/magabrotheeeer/webshop/internal/models"
	"github.com/magabrotheeeer/webshop/internal/services/user"
)

// Service проверяет учётные данные.
type Service interface {
	Login(ctx context.Context, req models.LoginRequest) (*user.LoginResult, error)
}

// SessionStore сохраняет участника в cookie-сессии.
type SessionStore interface {
	Save(w http.ResponseWriter, r *http.Request, p models.Principal) error
}
