package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus статус заказа.
type OrderStatus string

// Допустимые статусы заказа.
const (
	StatusPending   OrderStatus = "Pending"
	StatusConfirmed OrderStatus = "Confirmed"
	StatusCancelled OrderStatus = "Cancelled"
)

// ParseOrderStatus проверяет, что строка входит в закрытый набор статусов.
// Сравнение регистрозависимое.
func ParseOrderStatus(s string) (OrderStatus, bool) {
	switch OrderStatus(s) {
	case StatusPending, StatusConfirmed, StatusCancelled:
		return OrderStatus(s), true
	}
	return "", false
}

// Order заказ покупателя.
type Order struct {
	ID                    int64           `json:"id"`
	OrderNumber           string          `json:"orderNumber"`
	CustomerPhoneNumber   string          `json:"customerPhoneNumber"`
	Status                OrderStatus     `json:"status"`
	TotalPrice            decimal.Decimal `json:"totalPrice"`
	DateCreated           time.Time       `json:"dateCreated"`
	SubscriptionPackageID *int64          `json:"subscriptionPackageId,omitempty"`
	Items                 []OrderItem     `json:"-"`
}

// OrderItem строка заказа. Price фиксируется при создании и больше не меняется.
type OrderItem struct {
	ID        int64           `json:"id"`
	OrderID   int64           `json:"orderId"`
	ArticleID int64           `json:"articleId"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

// OrderArticle строка заказа вместе с названием товара.
type OrderArticle struct {
	ArticleID int64           `json:"articleId"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

// PackageSummary краткие данные пакета подписки в составе заказа.
type PackageSummary struct {
	ID    int64           `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// OrderDetails заказ с товарами и пакетом для ответа API.
type OrderDetails struct {
	ID                  int64           `json:"id"`
	OrderNumber         string          `json:"orderNumber"`
	CustomerPhoneNumber string          `json:"customerPhoneNumber"`
	Status              OrderStatus     `json:"status"`
	TotalPrice          decimal.Decimal `json:"totalPrice"`
	DateCreated         time.Time       `json:"dateCreated"`
	Articles            []OrderArticle  `json:"articles"`
	SubscriptionPackage *PackageSummary `json:"subscriptionPackage"`
}

// CreateOrderRequest запрос на оформление заказа.
type CreateOrderRequest struct {
	CustomerPhoneNumber   string  `json:"customerPhoneNumber"`
	ArticleIDs            []int64 `json:"articleIds"`
	SubscriptionPackageID *int64  `json:"subscriptionPackageId"`
}

// UpdateOrderStatusRequest запрос на смену статуса заказа.
type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}

// SMSMessage сообщение для отправки через очередь уведомлений.
type SMSMessage struct {
	To      string `json:"to"`
	Content string `json:"content"`
}
