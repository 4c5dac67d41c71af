// Package order реализует оформление заказов, смену статуса и удаление заказов.
//
// Правила оформления проверяются по порядку, первая нарушенная возвращает ошибку,
// и в хранилище ничего не пишется. Проверки, зависящие от истории покупателя,
// выполняются под транзакционной блокировкой по номеру телефона.
package order

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/magabrotheeeer/webshop/internal/lib/sl"
	"github.com/magabrotheeeer/webshop/internal/metrics"
	"github.com/magabrotheeeer/webshop/internal/models"
	"github.com/magabrotheeeer/webshop/internal/services/notification"
)

// Repository методы хранилища, нужные сервису заказов.
type Repository interface {
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
	InCustomerTx(ctx context.Context, phone string, fn func(ctx context.Context) error) error

	HasActiveSubscription(ctx context.Context, phone string) (bool, error)
	PurchasedArticleNames(ctx context.Context, phone string, ids []int64) ([]string, error)
	GetPackage(ctx context.Context, id int64) (*models.SubscriptionPackage, error)
	GetArticlesByIDs(ctx context.Context, ids []int64) ([]models.Article, error)

	CreateOrder(ctx context.Context, order *models.Order) (int64, error)
	GetOrder(ctx context.Context, id int64) (*models.Order, error)
	GetOrderDetails(ctx context.Context, id int64) (*models.OrderDetails, error)
	ListOrderDetails(ctx context.Context) ([]models.OrderDetails, error)
	UpdateOrderStatus(ctx context.Context, id int64, status models.OrderStatus) (int, error)
	DeleteOrderItems(ctx context.Context, orderID int64) (int, error)
	DeleteOrder(ctx context.Context, id int64) (int, error)
}

// Dispatcher ставит SMS в фоновую отправку.
type Dispatcher interface {
	Dispatch(to, text string)
}

// Metrics счётчики заказов.
type Metrics interface {
	OrderCreated()
	OrderConflict(reason string)
}

// Service бизнес-логика заказов.
type Service struct {
	repo     Repository
	notifier Dispatcher
	metrics  Metrics
	log      *slog.Logger

	now         func() time.Time
	numberToken func() string
}

// NewService создаёт Service.
func NewService(repo Repository, notifier Dispatcher, m Metrics, log *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		notifier: notifier,
		metrics:  m,
		log:      log,
		now:      time.Now,
		numberToken: func() string {
			return uuid.New().String()[:8]
		},
	}
}

// NewOrderNumber формирует номер вида ORD-yyyyMMdd-XXXXXXXX по дате в UTC.
func NewOrderNumber(at time.Time, token string) string {
	return "ORD-" + at.UTC().Format("20060102") + "-" + strings.ToUpper(token)
}

// CreateOrder оформляет заказ и возвращает его вместе с товарами и пакетом.
// Подтверждение по SMS отправляется после фиксации транзакции и на результат не влияет.
func (s *Service) CreateOrder(ctx context.Context, req models.CreateOrderRequest) (*models.OrderDetails, error) {
	const op = "services.order.CreateOrder"

	phone := strings.TrimSpace(req.CustomerPhoneNumber)
	if phone == "" {
		return nil, models.NewError(models.ErrInvalidRequest, "Phone number is required")
	}
	if len(req.ArticleIDs) == 0 && req.SubscriptionPackageID == nil {
		return nil, models.NewError(models.ErrInvalidRequest, "Order must contain at least one article or subscription package")
	}

	var details *models.OrderDetails
	err := s.repo.InCustomerTx(ctx, phone, func(ctx context.Context) error {
		if req.SubscriptionPackageID != nil {
			subscribed, err := s.repo.HasActiveSubscription(ctx, phone)
			if err != nil {
				return err
			}
			if subscribed {
				s.metrics.OrderConflict(metrics.ReasonAlreadySubscribed)
				return models.NewError(models.ErrAlreadySubscribed, "Customer already has an active subscription").
					WithMessage("Each customer can have at most one subscription agreement. " +
						"Please cancel the existing subscription before purchasing a new one.")
			}
		}

		if hasDuplicates(req.ArticleIDs) {
			s.metrics.OrderConflict(metrics.ReasonDuplicateArticle)
			return models.NewError(models.ErrInvalidRequest, "Cannot order the same article multiple times in one order")
		}

		if len(req.ArticleIDs) > 0 {
			names, err := s.repo.PurchasedArticleNames(ctx, phone, req.ArticleIDs)
			if err != nil {
				return err
			}
			if len(names) > 0 {
				s.metrics.OrderConflict(metrics.ReasonAlreadyPurchased)
				return models.PurchaseConflict(names)
			}
		}

		var pkg *models.SubscriptionPackage
		if req.SubscriptionPackageID != nil {
			p, err := s.repo.GetPackage(ctx, *req.SubscriptionPackageID)
			if errors.Is(err, models.ErrNotFound) || (err == nil && !p.IsActive) {
				return models.NewError(models.ErrNotFound, "Subscription package not found")
			}
			if err != nil {
				return err
			}
			pkg = p
		}

		var articles []models.Article
		if len(req.ArticleIDs) > 0 {
			found, err := s.repo.GetArticlesByIDs(ctx, req.ArticleIDs)
			if err != nil {
				return err
			}
			if len(found) != len(req.ArticleIDs) {
				return models.NewError(models.ErrNotFound, "One or more articles not found")
			}
			articles = inRequestOrder(found, req.ArticleIDs)
		}

		order := s.buildOrder(phone, articles, pkg)
		if _, err := s.repo.CreateOrder(ctx, order); err != nil {
			return err
		}
		details = toDetails(order, articles, pkg)
		return nil
	})
	if err != nil {
		var domainErr *models.Error
		if !errors.As(err, &domainErr) {
			err = fmt.Errorf("%s: %w", op, err)
		}
		return nil, err
	}

	s.metrics.OrderCreated()
	s.log.Info("order created",
		slog.Int64("id", details.ID),
		slog.String("order_number", details.OrderNumber),
		slog.String("total", details.TotalPrice.StringFixed(2)))
	s.notifier.Dispatch(details.CustomerPhoneNumber,
		notification.OrderConfirmedText(details.OrderNumber, details.TotalPrice))

	return details, nil
}

func (s *Service) buildOrder(phone string, articles []models.Article, pkg *models.SubscriptionPackage) *models.Order {
	order := &models.Order{
		OrderNumber:         NewOrderNumber(s.now(), s.numberToken()),
		CustomerPhoneNumber: phone,
		Status:              models.StatusPending,
		TotalPrice:          decimal.Zero,
		Items:               make([]models.OrderItem, 0, len(articles)),
	}
	for _, a := range articles {
		item := models.OrderItem{ArticleID: a.ID, Quantity: 1, Price: a.Price}
		order.Items = append(order.Items, item)
		order.TotalPrice = order.TotalPrice.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	if pkg != nil {
		id := pkg.ID
		order.SubscriptionPackageID = &id
		order.TotalPrice = order.TotalPrice.Add(pkg.Price)
	}
	return order
}

func toDetails(order *models.Order, articles []models.Article, pkg *models.SubscriptionPackage) *models.OrderDetails {
	d := &models.OrderDetails{
		ID:                  order.ID,
		OrderNumber:         order.OrderNumber,
		CustomerPhoneNumber: order.CustomerPhoneNumber,
		Status:              order.Status,
		TotalPrice:          order.TotalPrice,
		DateCreated:         order.DateCreated,
		Articles:            make([]models.OrderArticle, 0, len(order.Items)),
	}
	for i, item := range order.Items {
		d.Articles = append(d.Articles, models.OrderArticle{
			ArticleID: item.ArticleID,
			Name:      articles[i].Name,
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
	}
	if pkg != nil {
		d.SubscriptionPackage = &models.PackageSummary{ID: pkg.ID, Name: pkg.Name, Price: pkg.Price}
	}
	return d
}

func hasDuplicates(ids []int64) bool {
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			return true
		}
		seen[id] = struct{}{}
	}
	return false
}

// inRequestOrder упорядочивает товары так же, как они перечислены в запросе.
func inRequestOrder(found []models.Article, ids []int64) []models.Article {
	byID := make(map[int64]models.Article, len(found))
	for _, a := range found {
		byID[a.ID] = a
	}
	result := make([]models.Article, 0, len(ids))
	for _, id := range ids {
		result = append(result, byID[id])
	}
	return result
}

// UpdateStatus меняет статус заказа. Переходы между статусами не ограничены.
// Неудачная отправка SMS не влияет на результат.
func (s *Service) UpdateStatus(ctx context.Context, id int64, status string) error {
	const op = "services.order.UpdateStatus"

	newStatus, ok := models.ParseOrderStatus(status)
	if !ok {
		return models.NewError(models.ErrInvalidRequest, "Invalid status. Must be one of: Pending, Confirmed, Cancelled")
	}

	order, err := s.repo.GetOrder(ctx, id)
	if errors.Is(err, models.ErrNotFound) {
		return models.NewError(models.ErrNotFound, "Order not found")
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	n, err := s.repo.UpdateOrderStatus(ctx, id, newStatus)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return models.NewError(models.ErrNotFound, "Order not found")
	}

	s.log.Info("order status updated",
		slog.Int64("id", id),
		slog.String("from", string(order.Status)),
		slog.String("to", string(newStatus)))
	s.notifier.Dispatch(order.CustomerPhoneNumber, notification.StatusChangedText(order.OrderNumber, newStatus))
	return nil
}

// DeleteOrder удаляет заказ вместе со строками. Подтверждённые заказы удалять нельзя.
func (s *Service) DeleteOrder(ctx context.Context, id int64) error {
	const op = "services.order.DeleteOrder"

	err := s.repo.InTx(ctx, func(ctx context.Context) error {
		order, err := s.repo.GetOrder(ctx, id)
		if errors.Is(err, models.ErrNotFound) {
			return models.NewError(models.ErrNotFound, "Order not found")
		}
		if err != nil {
			return err
		}
		if order.Status == models.StatusConfirmed {
			return models.NewError(models.ErrCannotDelete, "Cannot delete confirmed orders").
				WithMessage("Confirmed orders cannot be deleted. Please cancel the order first if needed.")
		}

		if _, err := s.repo.DeleteOrderItems(ctx, id); err != nil {
			return err
		}
		n, err := s.repo.DeleteOrder(ctx, id)
		if err != nil {
			return err
		}
		if n == 0 {
			return models.NewError(models.ErrNotFound, "Order not found")
		}
		return nil
	})
	if err != nil {
		var domainErr *models.Error
		if errors.As(err, &domainErr) {
			return err
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("order deleted", slog.Int64("id", id))
	return nil
}

// Get возвращает заказ с товарами и пакетом.
func (s *Service) Get(ctx context.Context, id int64) (*models.OrderDetails, error) {
	details, err := s.repo.GetOrderDetails(ctx, id)
	if errors.Is(err, models.ErrNotFound) {
		return nil, models.NewError(models.ErrNotFound, "Order not found")
	}
	if err != nil {
		s.log.Error("failed to read order", slog.Int64("id", id), sl.Err(err))
		return nil, err
	}
	return details, nil
}

// List возвращает все заказы, новые первыми.
func (s *Service) List(ctx context.Context) ([]models.OrderDetails, error) {
	return s.repo.ListOrderDetails(ctx)
}
