// Package catalog бизнес-логика товаров и пакетов подписки: CRUD,
// кеширование чтения и защита от удаления сущностей с историей заказов.
package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/webshop/internal/models"
)

// Repository методы хранилища для каталога.
type Repository interface {
	ListArticles(ctx context.Context) ([]models.Article, error)
	GetArticle(ctx context.Context, id int64) (*models.Article, error)
	CreateArticle(ctx context.Context, a models.Article) (*models.Article, error)
	UpdateArticle(ctx context.Context, a models.Article) (int, error)
	DeleteArticle(ctx context.Context, id int64) (int, error)
	CountArticleOrders(ctx context.Context, id int64) (int, error)

	ListPackages(ctx context.Context, includeInactive bool) ([]models.SubscriptionPackage, error)
	GetPackage(ctx context.Context, id int64) (*models.SubscriptionPackage, error)
	CreatePackage(ctx context.Context, p models.SubscriptionPackage) (*models.SubscriptionPackage, error)
	UpdatePackage(ctx context.Context, p models.SubscriptionPackage) (int, error)
	DeactivatePackage(ctx context.Context, id int64) (int, error)
	DeletePackage(ctx context.Context, id int64) (int, error)
	CountPackageOrders(ctx context.Context, id int64) (int, error)
}

// Cache описывает методы для кеширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(ctx context.Context, key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	// Invalidate удаляет значения из кеша.
	Invalidate(ctx context.Context, keys ...string) error
}

// Service бизнес-логика каталога.
type Service struct {
	repo     Repository
	cache    Cache
	cacheTTL time.Duration
	log      *slog.Logger
}

// NewService создает новый экземпляр Service.
func NewService(repo Repository, cache Cache, cacheTTL time.Duration, log *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		cache:    cache,
		cacheTTL: cacheTTL,
		log:      log,
	}
}

func articleKey(id int64) string { return fmt.Sprintf("article:%d", id) }

func packageKey(id int64) string { return fmt.Sprintf("package:%d", id) }

// cached читает значение из кеша. Ошибка кеша считается промахом.
func (s *Service) cached(ctx context.Context, key string, result any) bool {
	found, err := s.cache.Get(ctx, key, result)
	if err != nil {
		s.log.Warn("failed to read from cache", slog.String("key", key), slog.Any("err", err))
		return false
	}
	return found
}

func (s *Service) remember(ctx context.Context, key string, value any) {
	if err := s.cache.Set(ctx, key, value, s.cacheTTL); err != nil {
		s.log.Warn("failed to cache value", slog.String("key", key), slog.Any("err", err))
	}
}

func (s *Service) forget(ctx context.Context, key string) {
	if err := s.cache.Invalidate(ctx, key); err != nil {
		s.log.Warn("failed to remove from cache", slog.String("key", key), slog.Any("err", err))
	}
}

func idMismatch(pathID, bodyID int64) error {
	if bodyID != 0 && bodyID != pathID {
		return models.NewError(models.ErrInvalidRequest, "ID mismatch")
	}
	return nil
}
