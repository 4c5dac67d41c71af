package repository

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/magabrotheeeer/webshop/internal/migrations"
	"github.com/magabrotheeeer/webshop/internal/models"
)

// TestDataFactory содержит методы для создания тестовых данных
type TestDataFactory struct {
	storage *Storage
}

// NewTestDataFactory создает новую фабрику тестовых данных
func NewTestDataFactory(storage *Storage) *TestDataFactory {
	return &TestDataFactory{storage: storage}
}

// CreateArticle создает тестовый товар
func (f *TestDataFactory) CreateArticle(t *testing.T, name, price string) models.Article {
	var a models.Article
	err := f.storage.DB.QueryRow(`INSERT INTO articles (name, description, price, supplier_email)
		VALUES ($1, '', $2, 'supplier@example.com')
		RETURNING id, name, price`, name, price).Scan(&a.ID, &a.Name, &a.Price)
	require.NoError(t, err)
	return a
}

// CreatePackage создает тестовый пакет подписки
func (f *TestDataFactory) CreatePackage(t *testing.T, name, price string) models.SubscriptionPackage {
	var p models.SubscriptionPackage
	err := f.storage.DB.QueryRow(`INSERT INTO subscription_packages (name, price)
		VALUES ($1, $2)
		RETURNING id, name, price, is_active`, name, price).Scan(&p.ID, &p.Name, &p.Price, &p.IsActive)
	require.NoError(t, err)
	return p
}

// CreateOrder создает тестовый заказ с товарами по их текущим ценам
func (f *TestDataFactory) CreateOrder(t *testing.T, number, phone string, status models.OrderStatus,
	packageID *int64, articles ...models.Article) int64 {
	total := decimal.Zero
	items := make([]models.OrderItem, 0, len(articles))
	for _, a := range articles {
		total = total.Add(a.Price)
		items = append(items, models.OrderItem{ArticleID: a.ID, Quantity: 1, Price: a.Price})
	}

	order := &models.Order{
		OrderNumber:           number,
		CustomerPhoneNumber:   phone,
		Status:                status,
		TotalPrice:            total,
		SubscriptionPackageID: packageID,
		Items:                 items,
	}
	id, err := f.storage.CreateOrder(context.Background(), order)
	require.NoError(t, err)
	return id
}

// CreateUser создает тестового пользователя
func (f *TestDataFactory) CreateUser(t *testing.T, username, email string, role models.Role) int64 {
	id, err := f.storage.CreateUser(context.Background(), models.User{
		Username:     username,
		PasswordHash: "hashedpassword",
		FullName:     "Test " + username,
		Email:        email,
		Role:         role,
		IsActive:     true,
	})
	require.NoError(t, err)
	return id
}

// TestVerification содержит общие функции для проверки результатов тестов
type TestVerification struct {
	storage *Storage
}

// NewTestVerification создает новый объект для проверки результатов
func NewTestVerification(storage *Storage) *TestVerification {
	return &TestVerification{storage: storage}
}

// CountRows возвращает количество строк в таблице по условию
func (v *TestVerification) CountRows(t *testing.T, table, where string, args ...any) int {
	var count int
	err := v.storage.DB.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s", table, where), args...).Scan(&count)
	require.NoError(t, err)
	return count
}

// setupTestDatabase создает тестовую БД с контейнером PostgreSQL и применяет миграции
func setupTestDatabase(t *testing.T) (*Storage, func()) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:15-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_DB":       "testdb",
			"POSTGRES_USER":     "testuser",
			"POSTGRES_PASSWORD": "testpass",
		},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort("5432/tcp"),
			wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
		).WithDeadline(3 * time.Minute),
	}

	postgresContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err, "failed to start container")

	port, err := postgresContainer.MappedPort(ctx, nat.Port("5432/tcp"))
	require.NoError(t, err, "Failed to get port")

	host, err := postgresContainer.Host(ctx)
	require.NoError(t, err, "Failed to get host")

	connStr := fmt.Sprintf("postgres://testuser:testpass@%s:%s/testdb?sslmode=disable", host, port.Port())

	// Пробуем подключиться несколько раз с ретраями
	var storage *Storage
	for i := 0; i < 10; i++ {
		storage, err = New(connStr, 10*time.Second)
		if err == nil {
			break
		}
		time.Sleep(1 * time.Second)
	}
	require.NoError(t, err, "Failed to create storage after retries")

	migrationsPath, err := filepath.Abs("../../../migrations")
	require.NoError(t, err)
	require.NoError(t, migrations.Run(storage.DB, migrationsPath), "Failed to apply migrations")

	// Сид каталога мешает точным проверкам, тесты создают свои данные
	_, err = storage.DB.Exec(`TRUNCATE order_items, orders, articles, subscription_packages, users RESTART IDENTITY CASCADE`)
	require.NoError(t, err)

	cleanup := func() {
		if storage != nil && storage.DB != nil {
			_ = storage.DB.Close()
		}
		if postgresContainer != nil {
			_ = postgresContainer.Terminate(ctx)
		}
	}

	return storage, cleanup
}
