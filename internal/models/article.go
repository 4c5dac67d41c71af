// Package models содержит доменные структуры магазина: товары, пакеты подписок,
// заказы и пользователей, а также таксономию ошибок бизнес-логики.
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Цены в JSON передаются числами.
	decimal.MarshalJSONWithoutQuotes = true
}

// Article представляет товар каталога.
type Article struct {
	ID            int64           `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description,omitempty"`
	Price         decimal.Decimal `json:"price"`
	SupplierEmail string          `json:"supplierEmail"`
	DateCreated   time.Time       `json:"dateCreated"`
}

// ArticleInput используется для приёма данных товара из JSON-запроса.
// Цена проверяется отдельно, validator не умеет сравнивать decimal.
type ArticleInput struct {
	ID            int64           `json:"id,omitempty"`
	Name          string          `json:"name" validate:"required,max=200"`
	Description   string          `json:"description" validate:"max=1000"`
	Price         decimal.Decimal `json:"price"`
	SupplierEmail string          `json:"supplierEmail" validate:"required,email"`
}

var (
	// MinArticlePrice нижняя граница цены товара.
	MinArticlePrice = decimal.RequireFromString("0.01")
	// MaxArticlePrice верхняя граница цены товара.
	MaxArticlePrice = decimal.NewFromInt(1_000_000)
)
