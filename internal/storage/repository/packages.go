package repository

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/webshop/internal/models"
)

const packageColumns = `id, name, description, price, includes_physical_magazine, is_active, date_created`

func scanPackage(row rowScanner) (*models.SubscriptionPackage, error) {
	var p models.SubscriptionPackage
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price,
		&p.IncludesPhysicalMagazine, &p.IsActive, &p.DateCreated); err != nil {
		return nil, err
	}
	return &p, nil
}

// ListPackages возвращает пакеты подписок, новые первыми.
// При includeInactive=false снятые с продажи пакеты не попадают в выборку.
func (s *Storage) ListPackages(ctx context.Context, includeInactive bool) ([]models.SubscriptionPackage, error) {
	const op = "storage.ListPackages"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	query := `SELECT ` + packageColumns + `
			  FROM subscription_packages
			  WHERE ($1 OR is_active)
			  ORDER BY date_created DESC, id DESC`
	rows, err := s.q(ctx).QueryContext(ctx, query, includeInactive)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	result := make([]models.SubscriptionPackage, 0)
	for rows.Next() {
		p, err := scanPackage(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// GetPackage возвращает пакет по ID или models.ErrNotFound.
func (s *Storage) GetPackage(ctx context.Context, id int64) (*models.SubscriptionPackage, error) {
	const op = "storage.GetPackage"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	query := `SELECT ` + packageColumns + ` FROM subscription_packages WHERE id = $1`
	p, err := scanPackage(s.q(ctx).QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, translate(err))
	}
	return p, nil
}

// CreatePackage вставляет пакет подписки.
func (s *Storage) CreatePackage(ctx context.Context, p models.SubscriptionPackage) (*models.SubscriptionPackage, error) {
	const op = "storage.CreatePackage"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	query := `INSERT INTO subscription_packages (name, description, price, includes_physical_magazine, is_active)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING ` + packageColumns
	created, err := scanPackage(s.q(ctx).QueryRowContext(ctx, query,
		p.Name, p.Description, p.Price, p.IncludesPhysicalMagazine, p.IsActive))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, translate(err))
	}
	return created, nil
}

// UpdatePackage обновляет пакет и возвращает количество изменённых строк.
func (s *Storage) UpdatePackage(ctx context.Context, p models.SubscriptionPackage) (int, error) {
	const op = "storage.UpdatePackage"
	if err := checkCtx(ctx, op); err != nil {
		return 0, err
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	query := `UPDATE subscription_packages
			  SET name = $1, description = $2, price = $3, includes_physical_magazine = $4, is_active = $5
			  WHERE id = $6`
	res, err := s.q(ctx).ExecContext(ctx, query,
		p.Name, p.Description, p.Price, p.IncludesPhysicalMagazine, p.IsActive, p.ID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, translate(err))
	}
	return rowsAffected(res, op)
}

// DeactivatePackage снимает пакет с продажи.
func (s *Storage) DeactivatePackage(ctx context.Context, id int64) (int, error) {
	const op = "storage.DeactivatePackage"
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	res, err := s.q(ctx).ExecContext(ctx, `UPDATE subscription_packages SET is_active = FALSE WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return rowsAffected(res, op)
}

// DeletePackage удаляет пакет и возвращает количество удалённых строк.
func (s *Storage) DeletePackage(ctx context.Context, id int64) (int, error) {
	const op = "storage.DeletePackage"
	if err := checkCtx(ctx, op); err != nil {
		return 0, err
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	res, err := s.q(ctx).ExecContext(ctx, `DELETE FROM subscription_packages WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, translate(err))
	}
	return rowsAffected(res, op)
}

// CountPackageOrders считает заказы любого статуса с этим пакетом.
func (s *Storage) CountPackageOrders(ctx context.Context, id int64) (int, error) {
	const op = "storage.CountPackageOrders"
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var count int
	query := `SELECT COUNT(*) FROM orders WHERE subscription_package_id = $1`
	if err := s.q(ctx).QueryRowContext(ctx, query, id).Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}
