package query

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tm-acme-shop/acme-shop-orders-admin/internal/apperrors"
)

func TestSerialize_OmitsEmptyAndDefaults(t *testing.T) {
	params := Serialize(Query{
		Search:   "alice",
		SortBy:   DefaultSortBy,
		SortDir:  DefaultSortDir,
		Page:     DefaultPage,
		PageSize: DefaultPageSize,
	})

	assert.Equal(t, map[string]string{"search": "alice"}, params)
	assert.Empty(t, Serialize(Query{}))
}

func TestSerialize_AllFields(t *testing.T) {
	params := Serialize(Query{
		Search:   "so-2024",
		Status:   "Completed",
		From:     "2024-01-01",
		To:       "2024-06-30",
		SortBy:   "total",
		SortDir:  Asc,
		Page:     3,
		PageSize: 25,
	})

	assert.Equal(t, map[string]string{
		"search":   "so-2024",
		"status":   "Completed",
		"from":     "2024-01-01",
		"to":       "2024-06-30",
		"sortBy":   "total",
		"sortDir":  "asc",
		"page":     "3",
		"pageSize": "25",
	}, params)
}

func TestParse_RoundTrip(t *testing.T) {
	queries := []Query{
		{Search: "so-2024", Status: "Completed", From: "2024-01-01", To: "2024-06-30", SortBy: "total", SortDir: Asc, Page: 3, PageSize: 25},
		{Search: "bob"},
		{Status: "Cancelled", Page: 2},
		{SortBy: "customer", PageSize: 50},
		{Search: " SO ", Status: " Pending", From: " 2024-01-01", To: "2024-06-30 ", SortBy: " total", SortDir: Asc, Page: 4, PageSize: 20},
		{Page: -2},
		{},
	}

	for _, q := range queries {
		parsed, err := Parse(Serialize(q))
		require.NoError(t, err)
		assert.Equal(t, q.WithDefaults(), parsed)
	}
}

func TestParse_AbsentKeysTakeDefaults(t *testing.T) {
	q, err := Parse(map[string]string{})
	require.NoError(t, err)

	assert.Equal(t, Query{SortBy: "orderDate", SortDir: Desc, Page: 1, PageSize: 10}, q)
}

func TestParse_Lenient(t *testing.T) {
	q, err := Parse(map[string]string{
		"page":     "two",
		"pageSize": "",
		"sortDir":  "SIDEWAYS",
		"search":   "  alice  ",
	})
	require.NoError(t, err)

	assert.Equal(t, 1, q.Page)
	assert.Equal(t, 10, q.PageSize)
	assert.Equal(t, Desc, q.SortDir)
	assert.Equal(t, "  alice  ", q.Search)
}

func TestParse_KeepsTextVerbatim(t *testing.T) {
	q := Query{Search: " SO ", Status: "Pending", SortBy: "total", SortDir: Asc, Page: 2, PageSize: 5}

	parsed, err := Parse(Serialize(q))
	require.NoError(t, err)
	assert.Equal(t, q, parsed)
	assert.Equal(t, " SO ", parsed.Search)
}

func TestParse_SortDirCaseInsensitive(t *testing.T) {
	q, err := Parse(map[string]string{"sortDir": "ASC"})
	require.NoError(t, err)
	assert.Equal(t, Asc, q.SortDir)
}

func TestParse_RejectsNonPositivePageSize(t *testing.T) {
	for _, params := range []map[string]string{
		{"pageSize": "0"},
		{"pageSize": "-5"},
	} {
		_, err := Parse(params)
		require.Error(t, err)

		ve, ok := apperrors.AsValidation(err)
		require.True(t, ok)
		assert.Equal(t, "pageSize", ve.Field)
	}
}

func TestParse_PageBelowOneIsOutOfRange(t *testing.T) {
	for raw, want := range map[string]int{"0": -1, "-4": -4} {
		q, err := Parse(map[string]string{"page": raw, "pageSize": "2"})
		require.NoError(t, err)
		assert.Equal(t, want, q.Page)

		result, err := Run(sampleOrders(), q)
		require.NoError(t, err)
		assert.Empty(t, result.Page)
		assert.Equal(t, 3, result.TotalPages)
	}
}

func TestValuesRoundTrip(t *testing.T) {
	q := Query{Search: "alice & bob", Status: "Pending", SortBy: "customer", SortDir: Asc, Page: 2, PageSize: 5}

	encoded := Values(q).Encode()
	decoded, err := url.ParseQuery(encoded)
	require.NoError(t, err)

	parsed, err := FromValues(decoded)
	require.NoError(t, err)
	assert.Equal(t, q, parsed)
}
