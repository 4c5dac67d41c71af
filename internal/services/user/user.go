// Package user аутентификация и управление учётными записями.
package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/magabrotheeeer/webshop/internal/lib/password"
	"github.com/magabrotheeeer/webshop/internal/lib/sl"
	"github.com/magabrotheeeer/webshop/internal/models"
)

// Repository описывает контракт для работы с пользователями в базе данных.
type Repository interface {
	CreateUser(ctx context.Context, user models.User) (int64, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUser(ctx context.Context, id int64) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	EmailExists(ctx context.Context, email string, excludeID int64) (bool, error)
	UpdateUser(ctx context.Context, user models.User) (int, error)
	UpdateLastLogin(ctx context.Context, id int64, at time.Time) error
	DeleteUser(ctx context.Context, id int64) (int, error)
	CountUsers(ctx context.Context) (int, error)
}

// TokenMaker выпускает bearer-токены.
type TokenMaker interface {
	GenerateToken(p models.Principal) (string, error)
}

// Учётная запись, создаваемая в пустой базе.
const (
	DefaultAdminUsername = "admin"
	DefaultAdminPassword = "admin123"
)

// Service вход в систему и администрирование пользователей.
type Service struct {
	repo   Repository
	tokens TokenMaker
	log    *slog.Logger
	now    func() time.Time
}

// NewService создает новый экземпляр Service.
func NewService(repo Repository, tokens TokenMaker, log *slog.Logger) *Service {
	return &Service{repo: repo, tokens: tokens, log: log, now: time.Now}
}

var (
	errUserNotFound    = models.NewError(models.ErrNotFound, "User not found")
	errUsernameTaken   = models.NewError(models.ErrInvalidRequest, "Username already exists")
	errEmailTaken      = models.NewError(models.ErrInvalidRequest, "Email already exists")
	errCannotSelfErase = models.NewError(models.ErrInvalidRequest, "Cannot delete your own account")
)

// List возвращает пользователей, упорядоченных по полному имени.
func (s *Service) List(ctx context.Context) ([]models.UserView, error) {
	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]models.UserView, 0, len(users))
	for i := range users {
		result = append(result, users[i].View())
	}
	return result, nil
}

// Create регистрирует пользователя. Username и email должны быть уникальны.
func (s *Service) Create(ctx context.Context, req models.CreateUserRequest) (*models.UserView, error) {
	const op = "services.user.Create"

	username := strings.TrimSpace(req.Username)
	email := strings.TrimSpace(req.Email)
	if !req.Role.Valid() {
		return nil, models.NewError(models.ErrInvalidRequest, "Invalid role")
	}

	taken, err := s.repo.UsernameExists(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if taken {
		return nil, errUsernameTaken
	}
	taken, err = s.repo.EmailExists(ctx, email, 0)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if taken {
		return nil, errEmailTaken
	}

	hash, err := password.GetHash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	u := models.User{
		Username:     username,
		PasswordHash: hash,
		FullName:     strings.TrimSpace(req.FullName),
		Email:        email,
		Role:         req.Role,
		IsActive:     true,
	}
	id, err := s.repo.CreateUser(ctx, u)
	if err != nil {
		return nil, duplicateError(op, err)
	}

	created, err := s.repo.GetUser(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("user created", slog.Int64("id", id), slog.String("role", u.Role.String()))
	view := created.View()
	return &view, nil
}

// Update частично изменяет пользователя.
func (s *Service) Update(ctx context.Context, id int64, req models.UpdateUserRequest) error {
	const op = "services.user.Update"

	u, err := s.repo.GetUser(ctx, id)
	if errors.Is(err, models.ErrNotFound) {
		return errUserNotFound
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if req.FullName != nil {
		u.FullName = strings.TrimSpace(*req.FullName)
	}
	if req.Email != nil {
		email := strings.TrimSpace(*req.Email)
		if email != u.Email {
			taken, err := s.repo.EmailExists(ctx, email, id)
			if err != nil {
				return fmt.Errorf("%s: %w", op, err)
			}
			if taken {
				return errEmailTaken
			}
			u.Email = email
		}
	}
	if req.Role != nil {
		if !req.Role.Valid() {
			return models.NewError(models.ErrInvalidRequest, "Invalid role")
		}
		u.Role = *req.Role
	}
	if req.IsActive != nil {
		u.IsActive = *req.IsActive
	}
	if req.NewPassword != nil && *req.NewPassword != "" {
		if len(*req.NewPassword) < password.MinLength {
			return models.NewError(models.ErrInvalidRequest, "Password must be at least 6 characters")
		}
		hash, err := password.GetHash(*req.NewPassword)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		u.PasswordHash = hash
	}

	n, err := s.repo.UpdateUser(ctx, *u)
	if err != nil {
		return duplicateError(op, err)
	}
	if n == 0 {
		return errUserNotFound
	}
	return nil
}

// Delete удаляет пользователя. Удалить собственную учётную запись нельзя.
func (s *Service) Delete(ctx context.Context, actor *models.Principal, id int64) error {
	const op = "services.user.Delete"
	if actor != nil && actor.UserID == id {
		return errCannotSelfErase
	}
	n, err := s.repo.DeleteUser(ctx, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return errUserNotFound
	}
	s.log.Info("user deleted", slog.Int64("id", id))
	return nil
}

// EnsureDefaultAdmin создаёт администратора, если в базе нет ни одного пользователя.
func (s *Service) EnsureDefaultAdmin(ctx context.Context) error {
	const op = "services.user.EnsureDefaultAdmin"
	count, err := s.repo.CountUsers(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if count > 0 {
		return nil
	}

	hash, err := password.GetHash(DefaultAdminPassword)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	_, err = s.repo.CreateUser(ctx, models.User{
		Username:     DefaultAdminUsername,
		PasswordHash: hash,
		FullName:     "System Administrator",
		Email:        "admin@webshop.com",
		Role:         models.RoleAdmin,
		IsActive:     true,
	})
	if errors.Is(err, models.ErrDuplicate) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Warn("default admin account created, change its password", slog.String("username", DefaultAdminUsername))
	return nil
}

// duplicateError переводит нарушение уникальности в понятную клиенту ошибку.
func duplicateError(op string, err error) error {
	if !errors.Is(err, models.ErrDuplicate) {
		return fmt.Errorf("%s: %w", op, err)
	}
	if strings.Contains(err.Error(), "email") {
		return errEmailTaken
	}
	return errUsernameTaken
}

func (s *Service) touchLastLogin(ctx context.Context, id int64) {
	if err := s.repo.UpdateLastLogin(ctx, id, s.now().UTC()); err != nil {
		s.log.Warn("failed to update last login", slog.Int64("user_id", id), sl.Err(err))
	}
}
