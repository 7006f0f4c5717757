package query

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/tm-acme-shop/acme-shop-orders-admin/internal/apperrors"
)

// Parameter names used in list URLs.
const (
	ParamSearch   = "search"
	ParamStatus   = "status"
	ParamFrom     = "from"
	ParamTo       = "to"
	ParamSortBy   = "sortBy"
	ParamSortDir  = "sortDir"
	ParamPage     = "page"
	ParamPageSize = "pageSize"
)

// Serialize encodes q as flat parameters. Empty fields and fields equal to
// their default are left out.
func Serialize(q Query) map[string]string {
	params := make(map[string]string)

	setIfNotEmpty(params, ParamSearch, q.Search)
	setIfNotEmpty(params, ParamStatus, q.Status)
	setIfNotEmpty(params, ParamFrom, q.From)
	setIfNotEmpty(params, ParamTo, q.To)

	if q.SortBy != "" && q.SortBy != DefaultSortBy {
		params[ParamSortBy] = q.SortBy
	}
	if (q.SortDir == Asc || q.SortDir == Desc) && q.SortDir != DefaultSortDir {
		params[ParamSortDir] = string(q.SortDir)
	}
	if q.Page != 0 && q.Page != DefaultPage {
		params[ParamPage] = strconv.Itoa(q.Page)
	}
	if q.PageSize > 0 && q.PageSize != DefaultPageSize {
		params[ParamPageSize] = strconv.Itoa(q.PageSize)
	}

	return params
}

// Parse decodes flat parameters into a Query with defaults filled in.
// Text values are kept as given; Filter and Sort ignore surrounding spaces.
// Missing or non-numeric numbers take their default. An explicit page below
// one is kept as an out-of-range page, while a page size below one is
// rejected.
func Parse(params map[string]string) (Query, error) {
	q := Query{
		Search: params[ParamSearch],
		Status: params[ParamStatus],
		From:   params[ParamFrom],
		To:     params[ParamTo],
		SortBy: params[ParamSortBy],
	}

	switch dir := Direction(strings.ToLower(strings.TrimSpace(params[ParamSortDir]))); dir {
	case Asc, Desc:
		q.SortDir = dir
	}

	q.Page = parsePage(params)

	var err error
	if q.PageSize, err = parsePageSize(params); err != nil {
		return Query{}, err
	}

	return q.WithDefaults(), nil
}

// Values is Serialize in url.Values form.
func Values(q Query) url.Values {
	values := url.Values{}
	for k, v := range Serialize(q) {
		values.Set(k, v)
	}
	return values
}

// FromValues is Parse over url.Values. Only the first value of each key is used.
func FromValues(values url.Values) (Query, error) {
	params := make(map[string]string, len(values))
	for k := range values {
		params[k] = values.Get(k)
	}
	return Parse(params)
}

// parseInt returns the integer under key and whether one was present.
func parseInt(params map[string]string, key string) (int, bool) {
	raw := strings.TrimSpace(params[key])
	if raw == "" {
		return 0, false
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return n, true
}

// parsePage maps an explicit "0" to -1 because a zero Page means unset.
func parsePage(params map[string]string) int {
	n, ok := parseInt(params, ParamPage)
	if !ok {
		return 0
	}
	if n == 0 {
		return -1
	}
	return n
}

func parsePageSize(params map[string]string) (int, error) {
	n, ok := parseInt(params, ParamPageSize)
	if !ok {
		return 0, nil
	}
	if n < 1 {
		return 0, apperrors.NewValidationError(ParamPageSize, ParamPageSize+" must be at least 1")
	}
	return n, nil
}

func setIfNotEmpty(params map[string]string, key, value string) {
	if value != "" {
		params[key] = value
	}
}
