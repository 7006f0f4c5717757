package query

import (
	"strings"
	"time"

	"github.com/tm-acme-shop/acme-shop-orders-admin/internal/models"
)

const dateLayout = "2006-01-02"

// Run filters, sorts and paginates orders. The input slice is not modified.
//
// A zero Page or PageSize is unset and takes its default, so PageSize 0
// pages by DefaultPageSize. A Page outside 1..TotalPages yields an empty
// page. An empty result still reports one page so list views always have a
// page selector to render.
func Run(orders []models.Order, q Query) (Result, error) {
	if err := q.Validate(); err != nil {
		return Result{}, err
	}
	q = q.WithDefaults()

	matched := Filter(orders, q)
	Sort(matched, q.SortBy, q.SortDir)

	pages := pageCount(len(matched), q.PageSize)
	result := Result{
		Page:         []models.Order{},
		TotalPages:   pages,
		TotalMatches: len(matched),
	}
	if pages == 0 {
		result.TotalPages = 1
	}

	if q.Page >= 1 && q.Page <= pages {
		start := (q.Page - 1) * q.PageSize
		end := start + q.PageSize
		if end > len(matched) {
			end = len(matched)
		}
		result.Page = matched[start:end]
	}

	return result, nil
}

// Filter returns the orders matching every filter set on q, in input order.
func Filter(orders []models.Order, q Query) []models.Order {
	needle := strings.ToLower(strings.TrimSpace(q.Search))
	status := strings.TrimSpace(q.Status)

	matched := make([]models.Order, 0, len(orders))
	for _, o := range orders {
		if needle != "" && !matchesSearch(o, needle) {
			continue
		}
		if status != "" && string(o.Status) != status {
			continue
		}
		if !inDateRange(o.OrderDate, q.From, q.To) {
			continue
		}
		matched = append(matched, o)
	}
	return matched
}

func matchesSearch(o models.Order, needle string) bool {
	for _, field := range []string{o.OrderNo, o.Customer.Name, string(o.Status)} {
		if field != "" && strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

// inDateRange compares calendar dates. Unparsable dates never match.
func inDateRange(orderDate, from, to string) bool {
	from, to = strings.TrimSpace(from), strings.TrimSpace(to)
	if from == "" && to == "" {
		return true
	}

	date, ok := ParseDate(orderDate)
	if !ok {
		return false
	}

	if from != "" {
		lower, ok := ParseDate(from)
		if !ok || date.Before(lower) {
			return false
		}
	}
	if to != "" {
		upper, ok := ParseDate(to)
		if !ok || date.After(upper) {
			return false
		}
	}
	return true
}

// ParseDate parses a YYYY-MM-DD date or an RFC 3339 timestamp and returns
// its calendar date at UTC midnight.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		y, m, d := t.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), true
	}
	return time.Time{}, false
}

func pageCount(matches, pageSize int) int {
	return (matches + pageSize - 1) / pageSize
}
