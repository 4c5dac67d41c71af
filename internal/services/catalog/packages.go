package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/webshop/internal/models"
)

func validatePackagePrice(in models.SubscriptionPackageInput) error {
	if in.Price.IsNegative() {
		return models.NewError(models.ErrInvalidRequest, "Price cannot be negative")
	}
	return nil
}

// ListPackages возвращает пакеты подписки. Снятые с продажи видят только Editor и Admin.
func (s *Service) ListPackages(ctx context.Context, p *models.Principal) ([]models.SubscriptionPackage, error) {
	return s.repo.ListPackages(ctx, p.Can(models.RoleEditor))
}

// GetPackage возвращает пакет по ID. Для анонимов и RegularUser неактивный пакет не существует.
func (s *Service) GetPackage(ctx context.Context, id int64, p *models.Principal) (*models.SubscriptionPackage, error) {
	pkg, err := s.loadPackage(ctx, id)
	if err != nil {
		return nil, err
	}
	if !pkg.IsActive && !p.Can(models.RoleEditor) {
		return nil, models.NewError(models.ErrNotFound, "Subscription package not found")
	}
	return pkg, nil
}

func (s *Service) loadPackage(ctx context.Context, id int64) (*models.SubscriptionPackage, error) {
	key := packageKey(id)
	var result models.SubscriptionPackage
	if s.cached(ctx, key, &result) {
		return &result, nil
	}

	pkg, err := s.repo.GetPackage(ctx, id)
	if errors.Is(err, models.ErrNotFound) {
		return nil, models.NewError(models.ErrNotFound, "Subscription package not found")
	}
	if err != nil {
		return nil, err
	}
	s.remember(ctx, key, pkg)
	return pkg, nil
}

// CreatePackage добавляет пакет подписки. По умолчанию пакет активен.
func (s *Service) CreatePackage(ctx context.Context, in models.SubscriptionPackageInput) (*models.SubscriptionPackage, error) {
	if err := validatePackagePrice(in); err != nil {
		return nil, err
	}
	pkg := models.SubscriptionPackage{
		Name:                     strings.TrimSpace(in.Name),
		Description:              in.Description,
		Price:                    in.Price,
		IncludesPhysicalMagazine: in.IncludesPhysicalMagazine,
		IsActive:                 in.IsActive == nil || *in.IsActive,
	}
	created, err := s.repo.CreatePackage(ctx, pkg)
	if err != nil {
		return nil, err
	}
	s.log.Info("subscription package created", slog.Int64("id", created.ID))
	s.remember(ctx, packageKey(created.ID), created)
	return created, nil
}

// UpdatePackage изменяет пакет. Если isActive не передан, признак не меняется.
func (s *Service) UpdatePackage(ctx context.Context, id int64, in models.SubscriptionPackageInput) error {
	if err := idMismatch(id, in.ID); err != nil {
		return err
	}
	if err := validatePackagePrice(in); err != nil {
		return err
	}

	current, err := s.repo.GetPackage(ctx, id)
	if errors.Is(err, models.ErrNotFound) {
		return models.NewError(models.ErrNotFound, "Subscription package not found")
	}
	if err != nil {
		return err
	}

	current.Name = strings.TrimSpace(in.Name)
	current.Description = in.Description
	current.Price = in.Price
	current.IncludesPhysicalMagazine = in.IncludesPhysicalMagazine
	if in.IsActive != nil {
		current.IsActive = *in.IsActive
	}

	n, err := s.repo.UpdatePackage(ctx, *current)
	if err != nil {
		return err
	}
	if n == 0 {
		return models.NewError(models.ErrNotFound, "Subscription package not found")
	}
	s.forget(ctx, packageKey(id))
	return nil
}

// DeletePackage удаляет пакет. Пакет, на который ссылаются заказы,
// вместо удаления снимается с продажи.
func (s *Service) DeletePackage(ctx context.Context, id int64) (*models.PackageDeletion, error) {
	if _, err := s.repo.GetPackage(ctx, id); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.NewError(models.ErrNotFound, "Subscription package not found")
		}
		return nil, err
	}

	count, err := s.repo.CountPackageOrders(ctx, id)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		_, err = s.repo.DeletePackage(ctx, id)
		if err == nil {
			s.forget(ctx, packageKey(id))
			s.log.Info("subscription package deleted", slog.Int64("id", id))
			return &models.PackageDeletion{}, nil
		}
		if !errors.Is(err, models.ErrReferenceViolation) {
			return nil, err
		}
		if count, err = s.repo.CountPackageOrders(ctx, id); err != nil {
			return nil, err
		}
	}

	if _, err := s.repo.DeactivatePackage(ctx, id); err != nil {
		return nil, err
	}
	s.forget(ctx, packageKey(id))
	s.log.Info("subscription package deactivated", slog.Int64("id", id), slog.Int("orders", count))
	return &models.PackageDeletion{
		Deactivated: true,
		Message: fmt.Sprintf("Subscription package is referenced by %d order(s) and has been deactivated instead of deleted.",
			count),
	}, nil
}
