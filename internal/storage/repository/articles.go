package repository

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/webshop/internal/models"
)

const articleColumns = `id, name, description, price, supplier_email, date_created`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanArticle(row rowScanner) (*models.Article, error) {
	var a models.Article
	if err := row.Scan(&a.ID, &a.Name, &a.Description, &a.Price, &a.SupplierEmail, &a.DateCreated); err != nil {
		return nil, err
	}
	return &a, nil
}

// ListArticles возвращает все товары, новые первыми.
func (s *Storage) ListArticles(ctx context.Context) ([]models.Article, error) {
	const op = "storage.ListArticles"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	query := `SELECT ` + articleColumns + `
			  FROM articles
			  ORDER BY date_created DESC, id DESC`
	rows, err := s.q(ctx).QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	result := make([]models.Article, 0)
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// GetArticle возвращает товар по ID или models.ErrNotFound.
func (s *Storage) GetArticle(ctx context.Context, id int64) (*models.Article, error) {
	const op = "storage.GetArticle"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	query := `SELECT ` + articleColumns + ` FROM articles WHERE id = $1`
	a, err := scanArticle(s.q(ctx).QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, translate(err))
	}
	return a, nil
}

// GetArticlesByIDs возвращает найденные товары из списка. Отсутствующие ID пропускаются.
func (s *Storage) GetArticlesByIDs(ctx context.Context, ids []int64) ([]models.Article, error) {
	const op = "storage.GetArticlesByIDs"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	query := `SELECT ` + articleColumns + `
			  FROM articles
			  WHERE id = ANY($1)
			  ORDER BY id`
	rows, err := s.q(ctx).QueryContext(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	result := make([]models.Article, 0, len(ids))
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// CreateArticle вставляет товар и возвращает его с ID и датой создания.
func (s *Storage) CreateArticle(ctx context.Context, a models.Article) (*models.Article, error) {
	const op = "storage.CreateArticle"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	query := `INSERT INTO articles (name, description, price, supplier_email)
			  VALUES ($1, $2, $3, $4)
			  RETURNING ` + articleColumns
	created, err := scanArticle(s.q(ctx).QueryRowContext(ctx, query,
		a.Name, a.Description, a.Price, a.SupplierEmail))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, translate(err))
	}
	return created, nil
}

// UpdateArticle обновляет товар и возвращает количество изменённых строк.
// Строки существующих заказов не затрагиваются: цена в них зафиксирована.
func (s *Storage) UpdateArticle(ctx context.Context, a models.Article) (int, error) {
	const op = "storage.UpdateArticle"
	if err := checkCtx(ctx, op); err != nil {
		return 0, err
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	query := `UPDATE articles
			  SET name = $1, description = $2, price = $3, supplier_email = $4
			  WHERE id = $5`
	res, err := s.q(ctx).ExecContext(ctx, query, a.Name, a.Description, a.Price, a.SupplierEmail, a.ID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, translate(err))
	}
	return rowsAffected(res, op)
}

// DeleteArticle удаляет товар и возвращает количество удалённых строк.
func (s *Storage) DeleteArticle(ctx context.Context, id int64) (int, error) {
	const op = "storage.DeleteArticle"
	if err := checkCtx(ctx, op); err != nil {
		return 0, err
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	res, err := s.q(ctx).ExecContext(ctx, `DELETE FROM articles WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, translate(err))
	}
	return rowsAffected(res, op)
}

// CountArticleOrders считает заказы любого статуса, в которых есть товар.
func (s *Storage) CountArticleOrders(ctx context.Context, id int64) (int, error) {
	const op = "storage.CountArticleOrders"
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var count int
	query := `SELECT COUNT(DISTINCT order_id) FROM order_items WHERE article_id = $1`
	if err := s.q(ctx).QueryRowContext(ctx, query, id).Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}
