package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/webshop/internal/models"
)

func validateArticlePrice(in models.ArticleInput) error {
	if in.Price.LessThan(models.MinArticlePrice) || in.Price.GreaterThan(models.MaxArticlePrice) {
		return models.NewError(models.ErrInvalidRequest, "Price must be between 0.01 and 1000000")
	}
	return nil
}

func articleFromInput(in models.ArticleInput) models.Article {
	return models.Article{
		Name:          strings.TrimSpace(in.Name),
		Description:   in.Description,
		Price:         in.Price,
		SupplierEmail: strings.TrimSpace(in.SupplierEmail),
	}
}

// ListArticles возвращает товары, новые первыми.
func (s *Service) ListArticles(ctx context.Context) ([]models.Article, error) {
	return s.repo.ListArticles(ctx)
}

// GetArticle возвращает товар по ID, используя кеш или репозиторий.
func (s *Service) GetArticle(ctx context.Context, id int64) (*models.Article, error) {
	key := articleKey(id)
	var result models.Article
	if s.cached(ctx, key, &result) {
		return &result, nil
	}

	a, err := s.repo.GetArticle(ctx, id)
	if errors.Is(err, models.ErrNotFound) {
		return nil, models.NewError(models.ErrNotFound, "Article not found")
	}
	if err != nil {
		return nil, err
	}
	s.remember(ctx, key, a)
	return a, nil
}

// CreateArticle добавляет товар в каталог.
func (s *Service) CreateArticle(ctx context.Context, in models.ArticleInput) (*models.Article, error) {
	if err := validateArticlePrice(in); err != nil {
		return nil, err
	}
	created, err := s.repo.CreateArticle(ctx, articleFromInput(in))
	if err != nil {
		return nil, err
	}
	s.log.Info("article created", slog.Int64("id", created.ID))
	s.remember(ctx, articleKey(created.ID), created)
	return created, nil
}

// UpdateArticle изменяет товар. Цены в уже оформленных заказах не меняются.
func (s *Service) UpdateArticle(ctx context.Context, id int64, in models.ArticleInput) error {
	if err := idMismatch(id, in.ID); err != nil {
		return err
	}
	if err := validateArticlePrice(in); err != nil {
		return err
	}

	a := articleFromInput(in)
	a.ID = id
	n, err := s.repo.UpdateArticle(ctx, a)
	if err != nil {
		return err
	}
	if n == 0 {
		return models.NewError(models.ErrNotFound, "Article not found")
	}
	s.forget(ctx, articleKey(id))
	return nil
}

// DeleteArticle удаляет товар, если он ни разу не покупался.
func (s *Service) DeleteArticle(ctx context.Context, id int64) error {
	if _, err := s.repo.GetArticle(ctx, id); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.NewError(models.ErrNotFound, "Article not found")
		}
		return err
	}

	count, err := s.repo.CountArticleOrders(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return historyConflict(count)
	}

	n, err := s.repo.DeleteArticle(ctx, id)
	if errors.Is(err, models.ErrReferenceViolation) {
		// товар купили между проверкой и удалением
		count, cerr := s.repo.CountArticleOrders(ctx, id)
		if cerr != nil {
			return cerr
		}
		return historyConflict(count)
	}
	if err != nil {
		return err
	}
	if n == 0 {
		return models.NewError(models.ErrNotFound, "Article not found")
	}

	s.forget(ctx, articleKey(id))
	s.log.Info("article deleted", slog.Int64("id", id))
	return nil
}

func historyConflict(count int) error {
	return models.NewError(models.ErrHasHistory, "Cannot delete article that has been purchased").
		WithMessage(fmt.Sprintf("This article appears in %d order(s). "+
			"Articles that have been purchased cannot be deleted to maintain order history integrity.", count))
}
