package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/webshop/internal/lib/password"
	"github.com/magabrotheeeer/webshop/internal/models"
)

var errBadCredentials = models.NewError(models.ErrUnauthorized, "Invalid username or password")

// LoginResult профиль вошедшего пользователя и выданный ему токен.
type LoginResult struct {
	Principal models.Principal
	Profile   models.UserProfile
	Token     string
}

// Login проверяет учётные данные активного пользователя.
func (s *Service) Login(ctx context.Context, req models.LoginRequest) (*LoginResult, error) {
	const op = "services.user.Login"

	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		return nil, models.NewError(models.ErrInvalidRequest, "Username and password are required")
	}

	u, err := s.repo.GetUserByUsername(ctx, username)
	if errors.Is(err, models.ErrNotFound) {
		return nil, errBadCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !u.IsActive {
		return nil, errBadCredentials
	}
	if err := password.CompareHash(u.PasswordHash, req.Password); err != nil {
		return nil, errBadCredentials
	}

	s.touchLastLogin(ctx, u.ID)

	p := models.Principal{UserID: u.ID, Username: u.Username, Role: u.Role}
	token, err := s.tokens.GenerateToken(p)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("user logged in", slog.Int64("user_id", u.ID), slog.String("role", u.Role.String()))
	return &LoginResult{Principal: p, Profile: u.Profile(), Token: token}, nil
}

// Current возвращает профиль участника. Удалённый или отключённый пользователь
// считается неаутентифицированным.
func (s *Service) Current(ctx context.Context, p *models.Principal) (*models.UserProfile, error) {
	const op = "services.user.Current"
	if p == nil {
		return nil, models.NewError(models.ErrUnauthorized, "Not authenticated")
	}
	u, err := s.repo.GetUser(ctx, p.UserID)
	if errors.Is(err, models.ErrNotFound) {
		return nil, models.NewError(models.ErrUnauthorized, "Not authenticated")
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !u.IsActive {
		return nil, models.NewError(models.ErrUnauthorized, "Not authenticated")
	}
	profile := u.Profile()
	return &profile, nil
}
