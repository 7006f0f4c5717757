package clients

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/tm-acme-shop/acme-shop-orders-admin/internal/apperrors"
	"github.com/tm-acme-shop/acme-shop-orders-admin/internal/models"
)

// NOTE: the mock clients double as the in-memory backend for API mode
// "memory", which runs the service without a remote API.

var (
	_ OrderClient    = (*MockOrderClient)(nil)
	_ CustomerClient = (*MockCustomerClient)(nil)
	_ ProductClient  = (*MockProductClient)(nil)
)

// MockOrderClient is an in-memory OrderClient.
type MockOrderClient struct {
	mu     sync.Mutex
	orders []models.Order
	nextID int

	// Err, when set, is returned by every call.
	Err error
	// Calls counts List calls.
	Calls int
}

// NewMockOrderClient creates a mock seeded with orders. Seed orders without
// an id get one assigned.
func NewMockOrderClient(seed ...models.Order) *MockOrderClient {
	m := &MockOrderClient{nextID: 1}
	for _, o := range seed {
		if n, err := strconv.Atoi(o.ID); err == nil && n >= m.nextID {
			m.nextID = n + 1
		}
	}
	for _, o := range seed {
		if o.ID == "" {
			o.ID = m.allocateID()
		}
		m.orders = append(m.orders, cloneOrder(o))
	}
	return m
}

func (m *MockOrderClient) allocateID() string {
	id := strconv.Itoa(m.nextID)
	m.nextID++
	return id
}

func (m *MockOrderClient) List(ctx context.Context, params ListParams) ([]models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}

	needle := strings.ToLower(params.Search)
	var out []models.Order
	for _, o := range m.orders {
		if needle != "" && !strings.Contains(strings.ToLower(o.OrderNo+" "+o.Customer.Name+" "+string(o.Status)), needle) {
			continue
		}
		out = append(out, cloneOrder(o))
	}

	if params.Limit > 0 {
		page := params.Page
		if page < 1 {
			page = 1
		}
		start := (page - 1) * params.Limit
		if start >= len(out) {
			return []models.Order{}, nil
		}
		end := start + params.Limit
		if end > len(out) {
			end = len(out)
		}
		out = out[start:end]
	}
	return out, nil
}

func (m *MockOrderClient) Get(ctx context.Context, id string) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}

	for _, o := range m.orders {
		if o.ID == id {
			found := cloneOrder(o)
			return &found, nil
		}
	}
	return nil, fmt.Errorf("orders %s: %w", id, apperrors.ErrNotFound)
}

func (m *MockOrderClient) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}

	created := cloneOrder(*order)
	created.ID = m.allocateID()
	m.orders = append(m.orders, created)

	out := cloneOrder(created)
	return &out, nil
}

func (m *MockOrderClient) Update(ctx context.Context, id string, order *models.Order) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}

	for i := range m.orders {
		if m.orders[i].ID == id {
			updated := cloneOrder(*order)
			updated.ID = id
			m.orders[i] = updated

			out := cloneOrder(updated)
			return &out, nil
		}
	}
	return nil, fmt.Errorf("orders %s: %w", id, apperrors.ErrNotFound)
}

func (m *MockOrderClient) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}

	for i := range m.orders {
		if m.orders[i].ID == id {
			m.orders = append(m.orders[:i], m.orders[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("orders %s: %w", id, apperrors.ErrNotFound)
}

func cloneOrder(o models.Order) models.Order {
	o.Items = append([]models.OrderItem(nil), o.Items...)
	return o
}

// MockCustomerClient is an in-memory CustomerClient.
type MockCustomerClient struct {
	mu        sync.Mutex
	customers []models.Customer
	nextID    int

	Err error
}

// NewMockCustomerClient creates a mock seeded with customers.
func NewMockCustomerClient(seed ...models.Customer) *MockCustomerClient {
	return &MockCustomerClient{
		customers: append([]models.Customer(nil), seed...),
		nextID:    len(seed) + 1,
	}
}

func (m *MockCustomerClient) List(ctx context.Context) ([]models.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	return append([]models.Customer(nil), m.customers...), nil
}

func (m *MockCustomerClient) Create(ctx context.Context, name string) (*models.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}

	customer := models.Customer{ID: "c" + strconv.Itoa(m.nextID), Name: name}
	m.nextID++
	m.customers = append(m.customers, customer)
	return &customer, nil
}

// MockProductClient is an in-memory ProductClient.
type MockProductClient struct {
	mu       sync.Mutex
	products []models.Product
	nextID   int

	Err error
}

// NewMockProductClient creates a mock seeded with products.
func NewMockProductClient(seed ...models.Product) *MockProductClient {
	return &MockProductClient{
		products: append([]models.Product(nil), seed...),
		nextID:   len(seed) + 1,
	}
}

func (m *MockProductClient) List(ctx context.Context) ([]models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	return append([]models.Product(nil), m.products...), nil
}

func (m *MockProductClient) Get(ctx context.Context, id string) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}

	for _, p := range m.products {
		if p.ID == id {
			found := p
			return &found, nil
		}
	}
	return nil, fmt.Errorf("products %s: %w", id, apperrors.ErrNotFound)
}

func (m *MockProductClient) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}

	created := *product
	created.ID = "p" + strconv.Itoa(m.nextID)
	m.nextID++
	m.products = append(m.products, created)
	return &created, nil
}

func (m *MockProductClient) Update(ctx context.Context, id string, product *models.Product) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}

	for i := range m.products {
		if m.products[i].ID == id {
			updated := *product
			updated.ID = id
			m.products[i] = updated
			return &updated, nil
		}
	}
	return nil, fmt.Errorf("products %s: %w", id, apperrors.ErrNotFound)
}

func (m *MockProductClient) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}

	for i := range m.products {
		if m.products[i].ID == id {
			m.products = append(m.products[:i], m.products[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("products %s: %w", id, apperrors.ErrNotFound)
}
