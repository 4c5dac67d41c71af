package repository

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/webshop/internal/models"
)

const testPhone = "+38640000000"

func TestStorage_OrderRoundTrip(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	factory := NewTestDataFactory(storage)
	camera := factory.CreateArticle(t, "Professional Camera XYZ", "999.99")
	phone := factory.CreateArticle(t, "Smartphone Pro Max", "799.99")
	pkg := factory.CreatePackage(t, "Monthly Digital Access", "9.99")

	id := factory.CreateOrder(t, "ORD-20240101-ABCDEF12", testPhone, models.StatusPending, &pkg.ID, camera, phone)

	// Смена цены товара не должна менять строки заказа
	camera.Price = decimal.RequireFromString("1.00")
	n, err := storage.UpdateArticle(ctx, models.Article{
		ID: camera.ID, Name: camera.Name, Price: camera.Price, SupplierEmail: "x@example.com",
	})
	require.NoError(t, err)
	require.Equal(t, 1, n)

	details, err := storage.GetOrderDetails(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "ORD-20240101-ABCDEF12", details.OrderNumber)
	assert.Equal(t, models.StatusPending, details.Status)
	assert.True(t, decimal.RequireFromString("1799.98").Equal(details.TotalPrice))
	require.Len(t, details.Articles, 2)
	assert.Equal(t, "Professional Camera XYZ", details.Articles[0].Name)
	assert.True(t, decimal.RequireFromString("999.99").Equal(details.Articles[0].Price))
	require.NotNil(t, details.SubscriptionPackage)
	assert.Equal(t, "Monthly Digital Access", details.SubscriptionPackage.Name)

	_, err = storage.GetOrderDetails(ctx, id+100)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestStorage_ListOrderDetails(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	a1 := factory.CreateArticle(t, "A1", "10.00")
	first := factory.CreateOrder(t, "ORD-1", testPhone, models.StatusPending, nil, a1)
	second := factory.CreateOrder(t, "ORD-2", "+38641111111", models.StatusConfirmed, nil)

	list, err := storage.ListOrderDetails(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second, list[0].ID)
	assert.Equal(t, first, list[1].ID)
	assert.Empty(t, list[0].Articles)
	assert.Nil(t, list[0].SubscriptionPackage)
	assert.Len(t, list[1].Articles, 1)
}

func TestStorage_ConflictQueries(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	factory := NewTestDataFactory(storage)
	a1 := factory.CreateArticle(t, "A1", "10.00")
	a2 := factory.CreateArticle(t, "A2", "20.00")
	a3 := factory.CreateArticle(t, "A3", "30.00")
	pkg := factory.CreatePackage(t, "P", "5.00")

	factory.CreateOrder(t, "ORD-1", testPhone, models.StatusPending, nil, a1)
	factory.CreateOrder(t, "ORD-2", testPhone, models.StatusCancelled, &pkg.ID, a2)

	tests := []struct {
		name  string
		ids   []int64
		want  []string
		phone string
	}{
		{name: "active order blocks article", ids: []int64{a1.ID, a3.ID}, want: []string{"A1"}, phone: testPhone},
		{name: "cancelled order is ignored", ids: []int64{a2.ID}, want: nil, phone: testPhone},
		{name: "other customer is free", ids: []int64{a1.ID}, want: nil, phone: "+38649999999"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := storage.PurchasedArticleNames(ctx, tt.phone, tt.ids)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	subscribed, err := storage.HasActiveSubscription(ctx, testPhone)
	require.NoError(t, err)
	assert.False(t, subscribed, "cancelled subscription order must not count")

	factory.CreateOrder(t, "ORD-3", testPhone, models.StatusConfirmed, &pkg.ID)
	subscribed, err = storage.HasActiveSubscription(ctx, testPhone)
	require.NoError(t, err)
	assert.True(t, subscribed)
}

func TestStorage_InCustomerTx_SerializesCustomer(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	factory := NewTestDataFactory(storage)
	a1 := factory.CreateArticle(t, "A1", "10.00")
	errDuplicate := errors.New("duplicate purchase")

	place := func(number string) error {
		return storage.InCustomerTx(ctx, testPhone, func(ctx context.Context) error {
			names, err := storage.PurchasedArticleNames(ctx, testPhone, []int64{a1.ID})
			if err != nil {
				return err
			}
			if len(names) > 0 {
				return errDuplicate
			}
			_, err = storage.CreateOrder(ctx, &models.Order{
				OrderNumber:         number,
				CustomerPhoneNumber: testPhone,
				Status:              models.StatusPending,
				TotalPrice:          a1.Price,
				Items:               []models.OrderItem{{ArticleID: a1.ID, Quantity: 1, Price: a1.Price}},
			})
			return err
		})
	}

	var wg sync.WaitGroup
	results := make([]error, 5)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = place("ORD-C-" + string(rune('A'+i)))
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range results {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, errDuplicate)
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, NewTestVerification(storage).CountRows(t, "orders", "customer_phone_number = $1", testPhone))
}

func TestStorage_InTx_RollbackOnError(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	factory := NewTestDataFactory(storage)
	a1 := factory.CreateArticle(t, "A1", "10.00")
	id := factory.CreateOrder(t, "ORD-1", testPhone, models.StatusPending, nil, a1)

	boom := errors.New("boom")
	err := storage.InTx(ctx, func(ctx context.Context) error {
		if _, err := storage.DeleteOrderItems(ctx, id); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	verification := NewTestVerification(storage)
	assert.Equal(t, 1, verification.CountRows(t, "order_items", "order_id = $1", id))

	err = storage.InTx(ctx, func(ctx context.Context) error {
		if _, err := storage.DeleteOrderItems(ctx, id); err != nil {
			return err
		}
		_, err := storage.DeleteOrder(ctx, id)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, 0, verification.CountRows(t, "order_items", "order_id = $1", id))
	assert.Equal(t, 0, verification.CountRows(t, "orders", "id = $1", id))
}

func TestStorage_ArticleReferences(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	factory := NewTestDataFactory(storage)
	a1 := factory.CreateArticle(t, "A1", "10.00")
	free := factory.CreateArticle(t, "Free", "10.00")
	factory.CreateOrder(t, "ORD-1", testPhone, models.StatusCancelled, nil, a1)
	factory.CreateOrder(t, "ORD-2", "+38641111111", models.StatusPending, nil, a1)

	count, err := storage.CountArticleOrders(ctx, a1.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	_, err = storage.DeleteArticle(ctx, a1.ID)
	assert.ErrorIs(t, err, models.ErrReferenceViolation)

	n, err := storage.DeleteArticle(ctx, free.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestStorage_Packages(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	factory := NewTestDataFactory(storage)
	used := factory.CreatePackage(t, "Used", "9.99")
	factory.CreatePackage(t, "Other", "19.99")
	factory.CreateOrder(t, "ORD-1", testPhone, models.StatusPending, &used.ID)

	count, err := storage.CountPackageOrders(ctx, used.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	n, err := storage.DeactivatePackage(ctx, used.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	active, err := storage.ListPackages(ctx, false)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Other", active[0].Name)

	all, err := storage.ListPackages(ctx, true)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = storage.DeletePackage(ctx, used.ID)
	assert.ErrorIs(t, err, models.ErrReferenceViolation)
}

func TestStorage_Users(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	factory := NewTestDataFactory(storage)
	zed := factory.CreateUser(t, "zed", "zed@example.com", models.RoleEditor)
	factory.CreateUser(t, "amy", "amy@example.com", models.RoleAdmin)

	_, err := storage.CreateUser(ctx, models.User{
		Username: "zed", PasswordHash: "x", FullName: "Other", Email: "other@example.com", Role: models.RoleRegularUser,
	})
	assert.ErrorIs(t, err, models.ErrDuplicate)

	exists, err := storage.UsernameExists(ctx, "amy")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = storage.EmailExists(ctx, "zed@example.com", zed)
	require.NoError(t, err)
	assert.False(t, exists, "own email must be excluded")

	users, err := storage.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "amy", users[0].Username)

	u, err := storage.GetUserByUsername(ctx, "zed")
	require.NoError(t, err)
	assert.Equal(t, models.RoleEditor, u.Role)
	assert.Nil(t, u.LastLogin)

	require.NoError(t, storage.UpdateLastLogin(ctx, zed, u.DateCreated))
	u, err = storage.GetUser(ctx, zed)
	require.NoError(t, err)
	require.NotNil(t, u.LastLogin)

	n, err := storage.DeleteUser(ctx, zed)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = storage.GetUser(ctx, zed)
	assert.ErrorIs(t, err, models.ErrNotFound)
}
