package clients

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tm-acme-shop/acme-shop-orders-admin/internal/apperrors"
	"github.com/tm-acme-shop/acme-shop-orders-admin/internal/config"
	"github.com/tm-acme-shop/acme-shop-orders-admin/internal/middleware"
	"github.com/tm-acme-shop/acme-shop-orders-admin/internal/models"
)

func testLogger() *logrus.Entry {
	logger, _ := test.NewNullLogger()
	return logrus.NewEntry(logger)
}

func testConfig(url string) config.ServiceConfig {
	return config.ServiceConfig{BaseURL: url + "/", Timeout: 2 * time.Second, APIKey: "secret"}
}

func TestHTTPOrderClient_List(t *testing.T) {
	var gotQuery, gotAuth, gotRequestID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/orders", r.URL.Path)
		gotQuery = r.URL.RawQuery
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get(middleware.HeaderRequestID)

		_ = json.NewEncoder(w).Encode([]models.Order{
			{ID: "1", OrderNo: "SO-2024-101", Status: models.OrderStatusPending},
			{ID: "2", OrderNo: "SO-2024-102", Status: models.OrderStatusCompleted},
		})
	}))
	defer srv.Close()

	client := NewHTTPOrderClient(testConfig(srv.URL), testLogger(), nil)
	ctx := middleware.WithRequestID(context.Background(), "req-1")

	orders, err := client.List(ctx, ListParams{Page: 2, Limit: 10, Search: "alice"})
	require.NoError(t, err)

	require.Len(t, orders, 2)
	assert.Equal(t, "SO-2024-102", orders[1].OrderNo)
	assert.Equal(t, "_limit=10&_page=2&q=alice", gotQuery)
	assert.Equal(t, "Bearer secret", gotAuth)
	assert.Equal(t, "req-1", gotRequestID)
}

func TestHTTPOrderClient_GetNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/orders/42", r.URL.Path)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewHTTPOrderClient(testConfig(srv.URL), testLogger(), nil)

	order, err := client.Get(context.Background(), "42")
	assert.Nil(t, order)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestHTTPOrderClient_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewHTTPOrderClient(testConfig(srv.URL), testLogger(), nil)

	_, err := client.List(context.Background(), ListParams{})
	ue, ok := apperrors.AsUpstream(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadGateway, ue.StatusCode)
}

func TestHTTPOrderClient_CreateStripsID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		_, hasID := body["id"]
		assert.False(t, hasID)
		assert.Equal(t, "SO-2024-500", body["orderNo"])

		body["id"] = "77"
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(body)
	}))
	defer srv.Close()

	client := NewHTTPOrderClient(testConfig(srv.URL), testLogger(), nil)

	created, err := client.Create(context.Background(), &models.Order{ID: "ignored", OrderNo: "SO-2024-500"})
	require.NoError(t, err)
	assert.Equal(t, "77", created.ID)
	assert.Equal(t, "SO-2024-500", created.OrderNo)
}

func TestHTTPOrderClient_UpdateAndDelete(t *testing.T) {
	var methods []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		methods = append(methods, r.Method+" "+r.URL.Path)
		switch r.Method {
		case http.MethodPut:
			var order models.Order
			require.NoError(t, json.NewDecoder(r.Body).Decode(&order))
			assert.Equal(t, "9", order.ID)
			_ = json.NewEncoder(w).Encode(order)
		case http.MethodDelete:
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("{}"))
		}
	}))
	defer srv.Close()

	client := NewHTTPOrderClient(testConfig(srv.URL), testLogger(), nil)

	updated, err := client.Update(context.Background(), "9", &models.Order{OrderNo: "SO-2024-900"})
	require.NoError(t, err)
	assert.Equal(t, "9", updated.ID)

	require.NoError(t, client.Delete(context.Background(), "9"))
	assert.Equal(t, []string{"PUT /orders/9", "DELETE /orders/9"}, methods)
}

func TestHTTPCustomerClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/customers", r.URL.Path)
		switch r.Method {
		case http.MethodGet:
			_ = json.NewEncoder(w).Encode([]models.Customer{{ID: "c1", Name: "Alice"}})
		case http.MethodPost:
			var body struct {
				Name string `json:"name"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(models.Customer{ID: "c2", Name: body.Name})
		}
	}))
	defer srv.Close()

	client := NewHTTPCustomerClient(testConfig(srv.URL), testLogger(), nil)

	customers, err := client.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []models.Customer{{ID: "c1", Name: "Alice"}}, customers)

	created, err := client.Create(context.Background(), "Bob")
	require.NoError(t, err)
	assert.Equal(t, models.Customer{ID: "c2", Name: "Bob"}, *created)
}

func TestHTTPProductClient_List(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products", r.URL.Path)
		_ = json.NewEncoder(w).Encode([]models.Product{{ID: "p1", Name: "Laptop", Price: 800}})
	}))
	defer srv.Close()

	client := NewHTTPProductClient(testConfig(srv.URL), testLogger(), nil)

	products, err := client.List(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, 800.0, products[0].Price)
}

func TestMockOrderClient_LifecycleAndPaging(t *testing.T) {
	ctx := context.Background()
	client := NewMockOrderClient(
		models.Order{ID: "5", OrderNo: "SO-1"},
		models.Order{OrderNo: "SO-2"},
	)

	created, err := client.Create(ctx, &models.Order{OrderNo: "SO-3"})
	require.NoError(t, err)
	assert.Equal(t, "7", created.ID)

	page, err := client.List(ctx, ListParams{Page: 2, Limit: 2})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "SO-3", page[0].OrderNo)

	require.NoError(t, client.Delete(ctx, "5"))
	_, err = client.Get(ctx, "5")
	assert.True(t, apperrors.IsNotFound(err))

	_, err = client.Update(ctx, "404", &models.Order{})
	assert.True(t, apperrors.IsNotFound(err))
}
