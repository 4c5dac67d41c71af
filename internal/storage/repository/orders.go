package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/magabrotheeeer/webshop/internal/models"
)

// HasActiveSubscription сообщает, есть ли у покупателя неотменённый заказ с пакетом подписки.
func (s *Storage) HasActiveSubscription(ctx context.Context, phone string) (bool, error) {
	const op = "storage.HasActiveSubscription"
	if err := checkCtx(ctx, op); err != nil {
		return false, err
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var exists bool
	query := `SELECT EXISTS (
				SELECT 1 FROM orders
				WHERE customer_phone_number = $1
				  AND subscription_package_id IS NOT NULL
				  AND status <> $2
			  )`
	if err := s.q(ctx).QueryRowContext(ctx, query, phone, models.StatusCancelled).Scan(&exists); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}

// PurchasedArticleNames возвращает названия товаров из ids, которые покупатель
// уже купил в неотменённых заказах.
func (s *Storage) PurchasedArticleNames(ctx context.Context, phone string, ids []int64) ([]string, error) {
	const op = "storage.PurchasedArticleNames"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	query := `SELECT DISTINCT a.name
			  FROM order_items oi
			  JOIN orders o ON o.id = oi.order_id
			  JOIN articles a ON a.id = oi.article_id
			  WHERE o.customer_phone_number = $1
			    AND o.status <> $2
			    AND oi.article_id = ANY($3)
			  ORDER BY a.name`
	rows, err := s.q(ctx).QueryContext(ctx, query, phone, models.StatusCancelled, ids)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return names, nil
}

// CreateOrder вставляет заказ и его строки. Вызывать внутри транзакции,
// иначе при ошибке на строках останется заказ без товаров.
func (s *Storage) CreateOrder(ctx context.Context, order *models.Order) (int64, error) {
	const op = "storage.CreateOrder"
	if err := checkCtx(ctx, op); err != nil {
		return 0, err
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	q := s.q(ctx)
	query := `INSERT INTO orders (order_number, customer_phone_number, status, total_price, subscription_package_id)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING id, date_created`
	err := q.QueryRowContext(ctx, query,
		order.OrderNumber, order.CustomerPhoneNumber, order.Status, order.TotalPrice,
		order.SubscriptionPackageID).Scan(&order.ID, &order.DateCreated)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, translate(err))
	}

	itemQuery := `INSERT INTO order_items (order_id, article_id, quantity, price)
				  VALUES ($1, $2, $3, $4)
				  RETURNING id`
	for i := range order.Items {
		item := &order.Items[i]
		item.OrderID = order.ID
		if err := q.QueryRowContext(ctx, itemQuery,
			item.OrderID, item.ArticleID, item.Quantity, item.Price).Scan(&item.ID); err != nil {
			return 0, fmt.Errorf("%s: item: %w", op, translate(err))
		}
	}
	return order.ID, nil
}

// GetOrder возвращает заказ без строк или models.ErrNotFound.
func (s *Storage) GetOrder(ctx context.Context, id int64) (*models.Order, error) {
	const op = "storage.GetOrder"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	query := `SELECT id, order_number, customer_phone_number, status, total_price, date_created, subscription_package_id
			  FROM orders WHERE id = $1`
	var (
		o         models.Order
		packageID sql.NullInt64
	)
	err := s.q(ctx).QueryRowContext(ctx, query, id).Scan(&o.ID, &o.OrderNumber, &o.CustomerPhoneNumber,
		&o.Status, &o.TotalPrice, &o.DateCreated, &packageID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, translate(err))
	}
	if packageID.Valid {
		o.SubscriptionPackageID = &packageID.Int64
	}
	return &o, nil
}

// GetOrderDetails возвращает заказ с товарами и пакетом или models.ErrNotFound.
func (s *Storage) GetOrderDetails(ctx context.Context, id int64) (*models.OrderDetails, error) {
	const op = "storage.GetOrderDetails"
	orders, err := s.orderDetails(ctx, op, `WHERE o.id = $1`, id)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, fmt.Errorf("%s: %w", op, models.ErrNotFound)
	}
	return &orders[0], nil
}

// ListOrderDetails возвращает все заказы, новые первыми.
func (s *Storage) ListOrderDetails(ctx context.Context) ([]models.OrderDetails, error) {
	return s.orderDetails(ctx, "storage.ListOrderDetails", "")
}

func (s *Storage) orderDetails(ctx context.Context, op, where string, args ...any) ([]models.OrderDetails, error) {
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	q := s.q(ctx)
	query := `SELECT o.id, o.order_number, o.customer_phone_number, o.status, o.total_price, o.date_created,
				     p.id, p.name, p.price
			  FROM orders o
			  LEFT JOIN subscription_packages p ON p.id = o.subscription_package_id
			  ` + where + `
			  ORDER BY o.date_created DESC, o.id DESC`
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result := make([]models.OrderDetails, 0)
	index := make(map[int64]int)
	ids := make([]int64, 0)
	for rows.Next() {
		var (
			d        models.OrderDetails
			pkgID    sql.NullInt64
			pkgName  sql.NullString
			pkgPrice decimal.NullDecimal
		)
		if err := rows.Scan(&d.ID, &d.OrderNumber, &d.CustomerPhoneNumber, &d.Status, &d.TotalPrice,
			&d.DateCreated, &pkgID, &pkgName, &pkgPrice); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if pkgID.Valid {
			d.SubscriptionPackage = &models.PackageSummary{ID: pkgID.Int64, Name: pkgName.String, Price: pkgPrice.Decimal}
		}
		d.Articles = make([]models.OrderArticle, 0)
		index[d.ID] = len(result)
		ids = append(ids, d.ID)
		result = append(result, d)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := rows.Close(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if len(ids) == 0 {
		return result, nil
	}

	itemQuery := `SELECT oi.order_id, oi.article_id, a.name, oi.quantity, oi.price
				  FROM order_items oi
				  JOIN articles a ON a.id = oi.article_id
				  WHERE oi.order_id = ANY($1)
				  ORDER BY oi.id`
	itemRows, err := q.QueryContext(ctx, itemQuery, ids)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var (
			orderID int64
			item    models.OrderArticle
		)
		if err := itemRows.Scan(&orderID, &item.ArticleID, &item.Name, &item.Quantity, &item.Price); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if i, ok := index[orderID]; ok {
			result[i].Articles = append(result[i].Articles, item)
		}
	}
	if err := itemRows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateOrderStatus меняет статус заказа и возвращает количество изменённых строк.
func (s *Storage) UpdateOrderStatus(ctx context.Context, id int64, status models.OrderStatus) (int, error) {
	const op = "storage.UpdateOrderStatus"
	if err := checkCtx(ctx, op); err != nil {
		return 0, err
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	res, err := s.q(ctx).ExecContext(ctx, `UPDATE orders SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return rowsAffected(res, op)
}

// DeleteOrderItems удаляет строки заказа.
func (s *Storage) DeleteOrderItems(ctx context.Context, orderID int64) (int, error) {
	const op = "storage.DeleteOrderItems"
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	res, err := s.q(ctx).ExecContext(ctx, `DELETE FROM order_items WHERE order_id = $1`, orderID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return rowsAffected(res, op)
}

// DeleteOrder удаляет заказ и возвращает количество удалённых строк.
func (s *Storage) DeleteOrder(ctx context.Context, id int64) (int, error) {
	const op = "storage.DeleteOrder"
	if err := checkCtx(ctx, op); err != nil {
		return 0, err
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	res, err := s.q(ctx).ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, translate(err))
	}
	return rowsAffected(res, op)
}
