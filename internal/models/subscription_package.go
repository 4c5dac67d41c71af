package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SubscriptionPackage представляет пакет подписки.
// IsActive=false означает, что пакет снят с продажи, но сохранён ради истории заказов.
type SubscriptionPackage struct {
	ID                       int64           `json:"id"`
	Name                     string          `json:"name"`
	Description              string          `json:"description,omitempty"`
	Price                    decimal.Decimal `json:"price"`
	IncludesPhysicalMagazine bool            `json:"includesPhysicalMagazine"`
	IsActive                 bool            `json:"isActive"`
	DateCreated              time.Time       `json:"dateCreated"`
}

// SubscriptionPackageInput данные пакета из JSON-запроса.
type SubscriptionPackageInput struct {
	ID                       int64           `json:"id,omitempty"`
	Name                     string          `json:"name" validate:"required,max=200"`
	Description              string          `json:"description" validate:"max=1000"`
	Price                    decimal.Decimal `json:"price"`
	IncludesPhysicalMagazine bool            `json:"includesPhysicalMagazine"`
	IsActive                 *bool           `json:"isActive,omitempty"`
}

// PackageDeletion результат удаления пакета.
// При наличии заказов пакет не удаляется, а деактивируется.
type PackageDeletion struct {
	Deactivated bool   `json:"deactivated"`
	Message     string `json:"message,omitempty"`
}
