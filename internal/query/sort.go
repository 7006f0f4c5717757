package query

import (
	"cmp"
	"math"
	"slices"
	"strings"
	"sync"

	"github.com/tm-acme-shop/acme-shop-orders-admin/internal/models"
)

// Key is a sort key extracted from an order. Null keys sort before every
// defined key in ascending order and after them in descending order.
type Key struct {
	Null bool
	Num  float64
	Text string
}

// TextKey is a case-insensitive string key.
func TextKey(s string) Key { return Key{Text: strings.ToLower(s)} }

// NumKey is a numeric key. NaN counts as zero.
func NumKey(v float64) Key {
	if math.IsNaN(v) {
		v = 0
	}
	return Key{Num: v}
}

// NullKey marks a value that could not be computed.
func NullKey() Key { return Key{Null: true} }

// SortKeyFunc extracts the sort key for one field of an order.
type SortKeyFunc func(models.Order) Key

var (
	sortKeysMu sync.RWMutex
	sortKeys   = map[string]SortKeyFunc{
		"customer": func(o models.Order) Key { return TextKey(o.Customer.Name) },
		"orderDate": func(o models.Order) Key {
			d, ok := ParseDate(o.OrderDate)
			if !ok {
				return NullKey()
			}
			return NumKey(float64(d.Unix()))
		},
		"total":   func(o models.Order) Key { return NumKey(o.Total) },
		"orderNo": func(o models.Order) Key { return TextKey(o.OrderNo) },
		"status":  func(o models.Order) Key { return TextKey(string(o.Status)) },
		"id":      func(o models.Order) Key { return TextKey(o.ID) },
	}
)

// RegisterSortKey adds or replaces the key extractor for a sort field.
func RegisterSortKey(field string, fn SortKeyFunc) {
	sortKeysMu.Lock()
	defer sortKeysMu.Unlock()
	sortKeys[field] = fn
}

// SortFields lists the registered sort field names in lexical order.
func SortFields() []string {
	sortKeysMu.RLock()
	defer sortKeysMu.RUnlock()

	fields := make([]string, 0, len(sortKeys))
	for name := range sortKeys {
		fields = append(fields, name)
	}
	slices.Sort(fields)
	return fields
}

func sortKeyFor(field string) SortKeyFunc {
	sortKeysMu.RLock()
	defer sortKeysMu.RUnlock()

	if fn, ok := sortKeys[strings.TrimSpace(field)]; ok {
		return fn
	}
	// Unknown fields have no value on any order, so every key is empty.
	return func(models.Order) Key { return TextKey("") }
}

// Sort orders in place by field. The sort is stable in both directions.
func Sort(orders []models.Order, field string, dir Direction) {
	keyFn := sortKeyFor(field)

	type keyed struct {
		key   Key
		order models.Order
	}
	rows := make([]keyed, len(orders))
	for i, o := range orders {
		rows[i] = keyed{key: keyFn(o), order: o}
	}

	slices.SortStableFunc(rows, func(a, b keyed) int {
		c := compareKeys(a.key, b.key)
		if dir == Desc {
			return -c
		}
		return c
	})

	for i, r := range rows {
		orders[i] = r.order
	}
}

func compareKeys(a, b Key) int {
	switch {
	case a.Null && b.Null:
		return 0
	case a.Null:
		return -1
	case b.Null:
		return 1
	}
	if c := cmp.Compare(a.Num, b.Num); c != 0 {
		return c
	}
	return strings.Compare(a.Text, b.Text)
}
