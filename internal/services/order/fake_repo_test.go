package order

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/magabrotheeeer/webshop/internal/models"
)

// memRepo хранилище в памяти с теми же правилами выборки, что и PostgreSQL.
// InCustomerTx сериализует вызовы, как advisory-блокировка.
type memRepo struct {
	txMu sync.Mutex
	mu   sync.Mutex

	articles map[int64]models.Article
	packages map[int64]models.SubscriptionPackage
	orders   map[int64]*models.Order
	nextID   int64

	createErr error
}

func newMemRepo() *memRepo {
	return &memRepo{
		articles: map[int64]models.Article{},
		packages: map[int64]models.SubscriptionPackage{},
		orders:   map[int64]*models.Order{},
	}
}

func (r *memRepo) addArticle(id int64, name, price string) models.Article {
	a := models.Article{ID: id, Name: name, Price: decimal.RequireFromString(price), SupplierEmail: "s@example.com"}
	r.articles[id] = a
	return a
}

func (r *memRepo) addPackage(id int64, name, price string, active bool) models.SubscriptionPackage {
	p := models.SubscriptionPackage{ID: id, Name: name, Price: decimal.RequireFromString(price), IsActive: active}
	r.packages[id] = p
	return p
}

func (r *memRepo) orderCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.orders)
}

func (r *memRepo) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (r *memRepo) InCustomerTx(ctx context.Context, _ string, fn func(ctx context.Context) error) error {
	r.txMu.Lock()
	defer r.txMu.Unlock()
	return fn(ctx)
}

func (r *memRepo) HasActiveSubscription(_ context.Context, phone string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.orders {
		if o.CustomerPhoneNumber == phone && o.SubscriptionPackageID != nil && o.Status != models.StatusCancelled {
			return true, nil
		}
	}
	return false, nil
}

func (r *memRepo) PurchasedArticleNames(_ context.Context, phone string, ids []int64) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	wanted := map[int64]bool{}
	for _, id := range ids {
		wanted[id] = true
	}
	seen := map[string]bool{}
	var names []string
	for _, o := range r.orders {
		if o.CustomerPhoneNumber != phone || o.Status == models.StatusCancelled {
			continue
		}
		for _, it := range o.Items {
			name := r.articles[it.ArticleID].Name
			if wanted[it.ArticleID] && !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	sort.Strings(names)
	return names, nil
}

func (r *memRepo) GetPackage(_ context.Context, id int64) (*models.SubscriptionPackage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.packages[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &p, nil
}

// GetArticlesByIDs отдаёт товары в порядке убывания ID, как попало.
func (r *memRepo) GetArticlesByIDs(_ context.Context, ids []int64) ([]models.Article, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []models.Article
	for _, id := range ids {
		if a, ok := r.articles[id]; ok {
			result = append(result, a)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID > result[j].ID })
	return result, nil
}

func (r *memRepo) CreateOrder(_ context.Context, order *models.Order) (int64, error) {
	if r.createErr != nil {
		return 0, r.createErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	order.ID = r.nextID
	order.DateCreated = time.Date(2024, 3, 15, 10, 0, 0, int(r.nextID), time.UTC)
	stored := *order
	stored.Items = make([]models.OrderItem, len(order.Items))
	for i := range order.Items {
		order.Items[i].ID = r.nextID*100 + int64(i)
		order.Items[i].OrderID = order.ID
		stored.Items[i] = order.Items[i]
	}
	r.orders[order.ID] = &stored
	return order.ID, nil
}

func (r *memRepo) GetOrder(_ context.Context, id int64) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *o
	cp.Items = nil
	return &cp, nil
}

func (r *memRepo) details(o *models.Order) models.OrderDetails {
	d := models.OrderDetails{
		ID:                  o.ID,
		OrderNumber:         o.OrderNumber,
		CustomerPhoneNumber: o.CustomerPhoneNumber,
		Status:              o.Status,
		TotalPrice:          o.TotalPrice,
		DateCreated:         o.DateCreated,
		Articles:            []models.OrderArticle{},
	}
	for _, it := range o.Items {
		d.Articles = append(d.Articles, models.OrderArticle{
			ArticleID: it.ArticleID, Name: r.articles[it.ArticleID].Name, Quantity: it.Quantity, Price: it.Price,
		})
	}
	if o.SubscriptionPackageID != nil {
		p := r.packages[*o.SubscriptionPackageID]
		d.SubscriptionPackage = &models.PackageSummary{ID: p.ID, Name: p.Name, Price: p.Price}
	}
	return d
}

func (r *memRepo) GetOrderDetails(_ context.Context, id int64) (*models.OrderDetails, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	d := r.details(o)
	return &d, nil
}

func (r *memRepo) ListOrderDetails(_ context.Context) ([]models.OrderDetails, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]models.OrderDetails, 0, len(r.orders))
	for _, o := range r.orders {
		result = append(result, r.details(o))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].DateCreated.After(result[j].DateCreated) })
	return result, nil
}

func (r *memRepo) UpdateOrderStatus(_ context.Context, id int64, status models.OrderStatus) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return 0, nil
	}
	o.Status = status
	return 1, nil
}

func (r *memRepo) DeleteOrderItems(_ context.Context, orderID int64) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[orderID]
	if !ok {
		return 0, nil
	}
	n := len(o.Items)
	o.Items = nil
	return n, nil
}

func (r *memRepo) DeleteOrder(_ context.Context, id int64) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return 0, nil
	}
	if len(o.Items) > 0 {
		return 0, models.ErrReferenceViolation
	}
	delete(r.orders, id)
	return 1, nil
}

type sentSMS struct {
	to   string
	text string
}

type dispatcherStub struct {
	mu   sync.Mutex
	sent []sentSMS
}

func (d *dispatcherStub) Dispatch(to, text string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sent = append(d.sent, sentSMS{to: to, text: text})
}

type metricsStub struct {
	mu        sync.Mutex
	created   int
	conflicts map[string]int
}

func (m *metricsStub) OrderCreated() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.created++
}

func (m *metricsStub) OrderConflict(reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.conflicts == nil {
		m.conflicts = map[string]int{}
	}
	m.conflicts[reason]++
}
