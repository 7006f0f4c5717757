package query

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tm-acme-shop/acme-shop-orders-admin/internal/models"
)

func TestSort_CustomerCaseInsensitive(t *testing.T) {
	orders := []models.Order{
		{OrderNo: "A", Customer: models.Customer{Name: "carol"}},
		{OrderNo: "B", Customer: models.Customer{Name: "Bob"}},
		{OrderNo: "C", Customer: models.Customer{Name: "alice"}},
		{OrderNo: "D", Customer: models.Customer{Name: "BOB"}},
	}

	Sort(orders, "customer", Asc)
	assert.Equal(t, []string{"C", "B", "D", "A"}, orderNos(orders))
}

func TestSort_OrderDateChronological(t *testing.T) {
	orders := []models.Order{
		{OrderNo: "A", OrderDate: "2024-10-01"},
		{OrderNo: "B", OrderDate: "2024-09-30T23:00:00Z"},
		{OrderNo: "C", OrderDate: "2023-12-31"},
	}

	Sort(orders, "orderDate", Asc)
	assert.Equal(t, []string{"C", "B", "A"}, orderNos(orders))
}

func TestSort_TotalNumeric(t *testing.T) {
	orders := []models.Order{
		{OrderNo: "A", Total: 100},
		{OrderNo: "B", Total: 9.5},
		{OrderNo: "C", Total: math.NaN()},
		{OrderNo: "D", Total: 20},
	}

	Sort(orders, "total", Asc)
	// Lexical ordering would put 100 before 20 and 9.5.
	assert.Equal(t, []string{"C", "B", "D", "A"}, orderNos(orders))
}

func TestSort_StableBothDirections(t *testing.T) {
	orders := []models.Order{
		{OrderNo: "A", Status: models.OrderStatusPending},
		{OrderNo: "B", Status: models.OrderStatusCompleted},
		{OrderNo: "C", Status: models.OrderStatusPending},
		{OrderNo: "D", Status: models.OrderStatusCompleted},
		{OrderNo: "E", Status: models.OrderStatusPending},
	}

	asc := append([]models.Order(nil), orders...)
	Sort(asc, "status", Asc)
	assert.Equal(t, []string{"B", "D", "A", "C", "E"}, orderNos(asc))

	desc := append([]models.Order(nil), orders...)
	Sort(desc, "status", Desc)
	assert.Equal(t, []string{"A", "C", "E", "B", "D"}, orderNos(desc))
}

func TestSort_NullKeysPlacement(t *testing.T) {
	orders := []models.Order{
		{OrderNo: "A", OrderDate: "2024-05-01"},
		{OrderNo: "B", OrderDate: ""},
		{OrderNo: "C", OrderDate: "2024-01-01"},
		{OrderNo: "D", OrderDate: "garbage"},
	}

	asc := append([]models.Order(nil), orders...)
	Sort(asc, "orderDate", Asc)
	assert.Equal(t, []string{"B", "D", "C", "A"}, orderNos(asc))

	desc := append([]models.Order(nil), orders...)
	Sort(desc, "orderDate", Desc)
	assert.Equal(t, []string{"A", "C", "B", "D"}, orderNos(desc))
}

func TestSort_UnknownFieldKeepsInputOrder(t *testing.T) {
	orders := []models.Order{{OrderNo: "B"}, {OrderNo: "A"}, {OrderNo: "C"}}

	Sort(orders, "warehouse", Desc)
	assert.Equal(t, []string{"B", "A", "C"}, orderNos(orders))
}

func TestRegisterSortKey(t *testing.T) {
	RegisterSortKey("itemCount", func(o models.Order) Key { return NumKey(float64(len(o.Items))) })
	t.Cleanup(func() {
		sortKeysMu.Lock()
		delete(sortKeys, "itemCount")
		sortKeysMu.Unlock()
	})

	orders := []models.Order{
		{OrderNo: "A", Items: make([]models.OrderItem, 3)},
		{OrderNo: "B"},
		{OrderNo: "C", Items: make([]models.OrderItem, 1)},
	}

	Sort(orders, "itemCount", Asc)
	assert.Equal(t, []string{"B", "C", "A"}, orderNos(orders))
	require.Contains(t, SortFields(), "itemCount")
}

func TestSortFields_Builtins(t *testing.T) {
	fields := SortFields()
	for _, f := range []string{"customer", "id", "orderDate", "orderNo", "status", "total"} {
		assert.Contains(t, fields, f)
	}
}
