package dataprovider

import (
	"encoding/json"
	"fmt"
	"net/url"
)

// PaginationMode - кто нарезает страницы: сервер (через range) или вызывающий.
type PaginationMode string

const (
	PaginationServer PaginationMode = "server"
	PaginationClient PaginationMode = "client"
	PaginationOff    PaginationMode = "off"
)

const (
	DefaultCurrent  = 1
	DefaultPageSize = 10
)

// Pagination - запрошенная страница; нулевые значения дают страницу 1 по 10 записей в режиме server.
type Pagination struct {
	Current  int
	PageSize int
	Mode     PaginationMode
}

type Order string

const (
	OrderAsc  Order = "asc"
	OrderDesc Order = "desc"
)

// Sorter - сортировка по одному полю
type Sorter struct {
	Field string
	Order Order
}

// Filter ограничивает список. У логических фильтров задан Field, у условных ("or"/"and")
// Field пуст, а в Value лежат вложенные []Filter.
type Filter struct {
	Field    string
	Operator string
	Value    any
	Key      string
}

// ListParams - абстрактный запрос списка
type ListParams struct {
	Pagination Pagination
	Sorters    []Sorter
	Filters    []Filter
}

// Normalized подставляет значения по умолчанию.
func (p Pagination) Normalized() Pagination {
	if p.Current < 1 {
		p.Current = DefaultCurrent
	}
	if p.PageSize < 1 {
		p.PageSize = DefaultPageSize
	}
	if p.Mode == "" {
		p.Mode = PaginationServer
	}
	return p
}

// Range возвращает [offset, offset+pageSize] для страницы.
func (p Pagination) Range() [2]int {
	p = p.Normalized()
	start := (p.Current - 1) * p.PageSize
	return [2]int{start, p.Current * p.PageSize}
}

// MarshalJSON кодирует фильтр как {"field","operator","value"} или {"key","operator","value"}.
func (f Filter) MarshalJSON() ([]byte, error) {
	if f.Field == "" {
		out := struct {
			Key      string `json:"key,omitempty"`
			Operator string `json:"operator"`
			Value    any    `json:"value"`
		}{f.Key, f.Operator, f.Value}
		return json.Marshal(out)
	}

	out := struct {
		Field    string `json:"field"`
		Operator string `json:"operator"`
		Value    any    `json:"value"`
	}{f.Field, f.Operator, f.Value}
	return json.Marshal(out)
}

// encodeQuery собирает параметры range/sort/filter.
// coerce применяется к фильтрам перед кодированием, nil оставляет их как есть.
func encodeQuery(params ListParams, coerce func([]Filter) []Filter) (url.Values, error) {
	values := url.Values{}

	pagination := params.Pagination.Normalized()
	if pagination.Mode == PaginationServer {
		r := pagination.Range()
		data, err := json.Marshal(r)
		if err != nil {
			return nil, fmt.Errorf("ошибка кодирования range: %w", err)
		}
		values.Set("range", string(data))
	}

	if len(params.Sorters) > 0 {
		pairs := make([][2]string, 0, len(params.Sorters))
		for _, s := range params.Sorters {
			pairs = append(pairs, [2]string{s.Field, string(s.Order)})
		}
		data, err := json.Marshal(pairs)
		if err != nil {
			return nil, fmt.Errorf("ошибка кодирования sort: %w", err)
		}
		values.Set("sort", string(data))
	}

	if len(params.Filters) > 0 {
		filters := params.Filters
		if coerce != nil {
			filters = coerce(filters)
		}
		data, err := json.Marshal(filters)
		if err != nil {
			return nil, fmt.Errorf("ошибка кодирования filter: %w", err)
		}
		values.Set("filter", string(data))
	}

	return values, nil
}
