package fakeapi

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"lensadmin/internal/domain/lens"

	"github.com/shopspring/decimal"
)

type filterDirective struct {
	Field    string `json:"field"`
	Operator string `json:"operator"`
	Value    any    `json:"value"`
	Key      string `json:"key"`

	nested []filterDirective
}

func (f *filterDirective) conditional() bool {
	return f.Field == "" && (f.Operator == "or" || f.Operator == "and")
}

// resolve проверяет поля директивы и раскрывает вложенные фильтры условных директив.
func (f *filterDirective) resolve() error {
	if f.conditional() {
		data, err := json.Marshal(f.Value)
		if err != nil {
			return fmt.Errorf("conditional filter value must be a list of directives")
		}
		if err := json.Unmarshal(data, &f.nested); err != nil {
			return fmt.Errorf("conditional filter value must be a list of directives")
		}
		for i := range f.nested {
			if err := f.nested[i].resolve(); err != nil {
				return err
			}
		}
		return nil
	}

	if _, ok := fieldValue(lens.Lens{}, f.Field); !ok {
		return fmt.Errorf("requested filter on field %s but field doesn't exist", f.Field)
	}
	return nil
}

type listQuery struct {
	hasRange bool
	start    int
	end      int
	sort     [][2]string
	filters  []filterDirective
}

func parseQuery(input *listInput) (*listQuery, error) {
	q := &listQuery{}

	if input.Range != "" {
		var r []int
		if err := json.Unmarshal([]byte(input.Range), &r); err != nil || len(r) != 2 {
			return nil, fmt.Errorf("range must be [start, end]")
		}
		if r[1] < r[0] {
			return nil, fmt.Errorf("range end cannot be less than range start")
		}
		q.hasRange, q.start, q.end = true, r[0], r[1]
	}

	if input.Sort != "" {
		if err := json.Unmarshal([]byte(input.Sort), &q.sort); err != nil {
			return nil, fmt.Errorf("sort must be [[field, order], ...]")
		}
		for _, s := range q.sort {
			if _, ok := fieldValue(lens.Lens{}, s[0]); !ok {
				return nil, fmt.Errorf("requested sort on field %s but field doesn't exist", s[0])
			}
		}
	}

	if input.Filter != "" {
		if err := json.Unmarshal([]byte(input.Filter), &q.filters); err != nil {
			return nil, fmt.Errorf("filter must be a list of directives")
		}
		for i := range q.filters {
			if err := q.filters[i].resolve(); err != nil {
				return nil, err
			}
		}
	}

	return q, nil
}

// apply фильтрует, сортирует и нарезает items; возвращает страницу и число записей до нарезки.
func (q *listQuery) apply(items []lens.Lens) ([]lens.Lens, int) {
	filtered := make([]lens.Lens, 0, len(items))
	for _, l := range items {
		if q.matches(l) {
			filtered = append(filtered, l)
		}
	}

	if len(q.sort) > 0 {
		sort.SliceStable(filtered, func(i, j int) bool {
			for _, s := range q.sort {
				a, _ := fieldValue(filtered[i], s[0])
				b, _ := fieldValue(filtered[j], s[0])
				c := compare(a, b)
				if c == 0 {
					continue
				}
				if strings.EqualFold(s[1], "desc") {
					return c > 0
				}
				return c < 0
			}
			return false
		})
	}

	total := len(filtered)
	if !q.hasRange {
		return filtered, total
	}
	if q.start >= total {
		return []lens.Lens{}, 0
	}
	end := q.end
	if end > total {
		end = total
	}
	return filtered[q.start:end], total
}

func (q *listQuery) matches(l lens.Lens) bool {
	for _, f := range q.filters {
		if !matchDirective(l, f) {
			return false
		}
	}
	return true
}

// matchDirective: пустой or не совпадает ни с чем, пустой and совпадает со всем.
func matchDirective(l lens.Lens, f filterDirective) bool {
	if f.conditional() {
		for _, n := range f.nested {
			ok := matchDirective(l, n)
			if f.Operator == "or" && ok {
				return true
			}
			if f.Operator == "and" && !ok {
				return false
			}
		}
		return f.Operator == "and"
	}

	actual, _ := fieldValue(l, f.Field)
	return matchOne(actual, f.Operator, f.Value)
}

func matchOne(actual any, operator string, want any) bool {
	switch w := want.(type) {
	case float64:
		a, ok := actual.(decimal.Decimal)
		if !ok {
			return false
		}
		return compareOp(a.Cmp(decimal.NewFromFloat(w)), operator)
	case string:
		// Числовые поля сравниваются как числа и тогда, когда значение пришло строкой.
		if a, ok := actual.(decimal.Decimal); ok && operator != "contains" {
			if d, err := decimal.NewFromString(w); err == nil {
				return compareOp(a.Cmp(d), operator)
			}
		}
		s := fmt.Sprint(actual)
		switch operator {
		case "contains":
			return strings.Contains(strings.ToLower(s), strings.ToLower(w))
		case "ne":
			return s != w
		default:
			return s == w
		}
	default:
		return false
	}
}

func compareOp(c int, operator string) bool {
	switch operator {
	case "ne":
		return c != 0
	case "lt":
		return c < 0
	case "lte":
		return c <= 0
	case "gt":
		return c > 0
	case "gte":
		return c >= 0
	default:
		return c == 0
	}
}

// fieldValue возвращает сравнимое значение: decimal.Decimal для чисел, string для текста.
func fieldValue(l lens.Lens, field string) (any, bool) {
	switch field {
	case "id":
		return decimal.NewFromInt(l.ID), true
	case "lens_type":
		return string(l.LensType), true
	case "sphere":
		return l.Sphere, true
	case "cylinder":
		return l.Cylinder, true
	case "unit_price":
		return l.UnitPrice, true
	case "quantity":
		return decimal.NewFromInt(int64(l.Quantity)), true
	case "storage_limit":
		if l.StorageLimit == nil {
			return decimal.NewFromInt(-1), true
		}
		return decimal.NewFromInt(int64(*l.StorageLimit)), true
	case "comment":
		if l.Comment == nil {
			return "", true
		}
		return *l.Comment, true
	case "created_at":
		return strconv.FormatInt(l.CreatedAt.UnixNano(), 10), true
	case "updated_at":
		return strconv.FormatInt(l.UpdatedAt.UnixNano(), 10), true
	default:
		return nil, false
	}
}

func compare(a, b any) int {
	switch av := a.(type) {
	case decimal.Decimal:
		bv, _ := b.(decimal.Decimal)
		return av.Cmp(bv)
	case string:
		bv, _ := b.(string)
		return strings.Compare(av, bv)
	}
	return 0
}
