package client

import (
	"context"
	"fmt"
	"sort"
	"strings"
	gosync "sync"
	"time"

	"github.com/shopspring/decimal"

	"lensadmin/internal/dataprovider"
	"lensadmin/internal/domain/lens"
)

// MemoryStorage - временное in-memory хранилище, если SQLite недоступен
type MemoryStorage struct {
	mu     gosync.RWMutex
	lenses map[int64]lens.Lens
	snap   *Snapshot
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		lenses: make(map[int64]lens.Lens),
	}
}

func (m *MemoryStorage) ReplaceAll(_ context.Context, lenses []lens.Lens, snap Snapshot) error {
	next := make(map[int64]lens.Lens, len(lenses))
	for _, l := range lenses {
		next[l.ID] = l
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.lenses = next
	m.snap = &snap
	return nil
}

func (m *MemoryStorage) List(_ context.Context, params dataprovider.ListParams) ([]lens.Lens, int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	matched := make([]lens.Lens, 0, len(m.lenses))
	for _, l := range m.lenses {
		ok, err := matchAll(l, params.Filters)
		if err != nil {
			return nil, 0, err
		}
		if ok {
			matched = append(matched, l)
		}
	}

	for _, s := range params.Sorters {
		if _, err := lookupField(s.Field); err != nil {
			return nil, 0, err
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		for _, s := range params.Sorters {
			c := compareLenses(matched[i], matched[j], s.Field)
			if c == 0 {
				continue
			}
			if s.Order == dataprovider.OrderDesc {
				return c > 0
			}
			return c < 0
		}
		return matched[i].ID < matched[j].ID
	})

	total := int64(len(matched))
	offset, limit := pageBounds(params.Pagination)
	if offset >= len(matched) {
		return []lens.Lens{}, total, nil
	}
	matched = matched[offset:]
	if limit >= 0 && limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, total, nil
}

func (m *MemoryStorage) Get(_ context.Context, id int64) (*lens.Lens, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	l, ok := m.lenses[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	return &l, nil
}

func (m *MemoryStorage) LastSnapshot(_ context.Context) (*Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.snap == nil {
		return nil, nil
	}
	snap := *m.snap
	return &snap, nil
}

func (m *MemoryStorage) Close() error {
	return nil
}

func matchAll(l lens.Lens, filters []dataprovider.Filter) (bool, error) {
	for _, f := range filters {
		ok, err := matchFilter(l, f)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

func matchFilter(l lens.Lens, f dataprovider.Filter) (bool, error) {
	if isConditional(f) {
		nested, err := nestedFilters(f)
		if err != nil {
			return false, err
		}
		if f.Operator == "and" {
			return matchAll(l, nested)
		}
		for _, n := range nested {
			ok, err := matchFilter(l, n)
			if err != nil {
				return false, err
			}
			if ok {
				return true, nil
			}
		}
		return false, nil
	}

	kind, err := lookupField(f.Field)
	if err != nil {
		return false, err
	}

	value, null := fieldOf(l, f.Field)
	switch f.Operator {
	case "null":
		return null, nil
	case "nnull":
		return !null, nil
	}
	if null {
		return false, nil
	}

	if kind == kindInt || kind == kindDecimal {
		arg, err := numericArg(f.Field, f.Value)
		if err != nil {
			return false, err
		}
		return compareOp(f.Operator, value.(decimal.Decimal).Cmp(arg))
	}

	text := value.(string)
	arg := fmt.Sprint(f.Value)
	switch f.Operator {
	case "contains":
		return strings.Contains(strings.ToLower(text), strings.ToLower(arg)), nil
	case "ncontains":
		return !strings.Contains(strings.ToLower(text), strings.ToLower(arg)), nil
	}
	return compareOp(f.Operator, strings.Compare(text, arg))
}

func compareOp(op string, c int) (bool, error) {
	switch op {
	case "eq":
		return c == 0, nil
	case "ne":
		return c != 0, nil
	case "lt":
		return c < 0, nil
	case "lte":
		return c <= 0, nil
	case "gt":
		return c > 0, nil
	case "gte":
		return c >= 0, nil
	}
	return false, fmt.Errorf("%w: оператор %q", ErrUnsupportedFilter, op)
}

// fieldOf возвращает значение поля: decimal.Decimal для числовых полей, string для остальных.
func fieldOf(l lens.Lens, field string) (any, bool) {
	switch field {
	case "id":
		return decimal.NewFromInt(l.ID), false
	case "lens_type":
		return string(l.LensType), false
	case "sphere":
		return l.Sphere, false
	case "cylinder":
		return l.Cylinder, false
	case "unit_price":
		return l.UnitPrice, false
	case "quantity":
		return decimal.NewFromInt(int64(l.Quantity)), false
	case "storage_limit":
		if l.StorageLimit == nil {
			return nil, true
		}
		return decimal.NewFromInt(int64(*l.StorageLimit)), false
	case "comment":
		if l.Comment == nil {
			return nil, true
		}
		return *l.Comment, false
	case "created_at":
		return formatTime(l.CreatedAt), false
	case "updated_at":
		return formatTime(l.UpdatedAt), false
	}
	return nil, true
}

// compareLenses сравнивает две записи по полю; null меньше любого значения.
func compareLenses(a, b lens.Lens, field string) int {
	va, nullA := fieldOf(a, field)
	vb, nullB := fieldOf(b, field)
	switch {
	case nullA && nullB:
		return 0
	case nullA:
		return -1
	case nullB:
		return 1
	}

	if da, ok := va.(decimal.Decimal); ok {
		return da.Cmp(vb.(decimal.Decimal))
	}
	return strings.Compare(va.(string), vb.(string))
}

// timeLayout - фиксированная ширина, чтобы строки сравнивались как время
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}
