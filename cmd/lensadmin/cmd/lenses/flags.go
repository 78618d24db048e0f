package lenses

import (
	"fmt"
	"strings"

	"lensadmin/internal/dataprovider"
)

// parseSort разбирает "field" или "field:asc|desc".
func parseSort(raw string) (dataprovider.Sorter, error) {
	field, order, found := strings.Cut(strings.TrimSpace(raw), ":")
	if field == "" {
		return dataprovider.Sorter{}, fmt.Errorf("пустое поле сортировки: %q", raw)
	}
	if !found {
		return dataprovider.Sorter{Field: field, Order: dataprovider.OrderAsc}, nil
	}

	switch dataprovider.Order(strings.ToLower(order)) {
	case dataprovider.OrderAsc:
		return dataprovider.Sorter{Field: field, Order: dataprovider.OrderAsc}, nil
	case dataprovider.OrderDesc:
		return dataprovider.Sorter{Field: field, Order: dataprovider.OrderDesc}, nil
	}
	return dataprovider.Sorter{}, fmt.Errorf("неизвестное направление сортировки %q, ожидается asc или desc", order)
}

// buildSorters применяет --sort, затем --toggle по порядку.
// В режиме single каждая сортировка заменяет предыдущие.
func buildSorters(sorts, toggles []string, single bool) ([]dataprovider.Sorter, error) {
	state := dataprovider.NewSorters(single)
	for _, raw := range sorts {
		s, err := parseSort(raw)
		if err != nil {
			return nil, err
		}
		state.Set(s.Field, s.Order)
	}
	for _, field := range toggles {
		field = strings.TrimSpace(field)
		if field == "" {
			return nil, fmt.Errorf("пустое поле в --toggle")
		}
		state.Toggle(field)
	}
	return state.List(), nil
}

var nullOperators = map[string]bool{"null": true, "nnull": true}

// parseFilter разбирает "field=value", "field:op=value" или "field:null".
func parseFilter(raw string) (dataprovider.Filter, error) {
	left, value, hasValue := strings.Cut(raw, "=")
	field, op, hasOp := strings.Cut(strings.TrimSpace(left), ":")
	field = strings.TrimSpace(field)
	if field == "" {
		return dataprovider.Filter{}, fmt.Errorf("пустое поле фильтра: %q", raw)
	}

	if !hasOp {
		op = "eq"
	}
	op = strings.ToLower(strings.TrimSpace(op))
	if op == "" {
		return dataprovider.Filter{}, fmt.Errorf("пустой оператор фильтра: %q", raw)
	}

	if nullOperators[op] {
		if hasValue {
			return dataprovider.Filter{}, fmt.Errorf("оператор %s не принимает значение: %q", op, raw)
		}
		return dataprovider.Filter{Field: field, Operator: op, Value: true}, nil
	}
	if !hasValue {
		return dataprovider.Filter{}, fmt.Errorf("фильтр без значения: %q, ожидается field[:op]=value", raw)
	}

	return dataprovider.Filter{Field: field, Operator: op, Value: value}, nil
}

// buildFilters разбирает все --filter; при anyOf они объединяются условием or.
func buildFilters(raw []string, anyOf bool) ([]dataprovider.Filter, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	filters := make([]dataprovider.Filter, 0, len(raw))
	for _, r := range raw {
		f, err := parseFilter(r)
		if err != nil {
			return nil, err
		}
		filters = append(filters, f)
	}

	if anyOf && len(filters) > 1 {
		return []dataprovider.Filter{{Operator: "or", Value: filters}}, nil
	}
	return filters, nil
}
