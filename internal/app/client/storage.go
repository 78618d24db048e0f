package client

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"lensadmin/internal/dataprovider"
	"lensadmin/internal/domain/lens"
)

var (
	ErrNotFound          = errors.New("линза не найдена в локальной копии")
	ErrUnsupportedFilter = errors.New("фильтр не поддерживается")
)

// Snapshot - сведения о последней выгрузке инвентаря в локальную копию
type Snapshot struct {
	APIURL   string    `json:"api_url"`
	Total    int64     `json:"total"`
	PulledAt time.Time `json:"pulled_at"`
}

// Storage - локальная копия инвентаря для просмотра без сети
type Storage interface {
	// ReplaceAll атомарно заменяет содержимое копии
	ReplaceAll(ctx context.Context, lenses []lens.Lens, snap Snapshot) error
	// List возвращает страницу и общее число записей, подходящих под фильтры
	List(ctx context.Context, params dataprovider.ListParams) ([]lens.Lens, int64, error)
	Get(ctx context.Context, id int64) (*lens.Lens, error)
	// LastSnapshot возвращает nil, если выгрузок еще не было
	LastSnapshot(ctx context.Context) (*Snapshot, error)
	Close() error
}

type fieldKind int

const (
	kindInt fieldKind = iota
	kindDecimal
	kindText
	kindTime
)

// localFields - поля, по которым локальная копия умеет сортировать и фильтровать
var localFields = map[string]fieldKind{
	"id":            kindInt,
	"lens_type":     kindText,
	"sphere":        kindDecimal,
	"cylinder":      kindDecimal,
	"unit_price":    kindDecimal,
	"quantity":      kindInt,
	"storage_limit": kindInt,
	"comment":       kindText,
	"created_at":    kindTime,
	"updated_at":    kindTime,
}

func lookupField(field string) (fieldKind, error) {
	kind, ok := localFields[field]
	if !ok {
		return 0, fmt.Errorf("%w: неизвестное поле %q", ErrUnsupportedFilter, field)
	}
	return kind, nil
}

// numericArg приводит значение фильтра к числу для сравнения с числовым полем.
func numericArg(field string, v any) (decimal.Decimal, error) {
	switch val := v.(type) {
	case decimal.Decimal:
		return val, nil
	case int:
		return decimal.NewFromInt(int64(val)), nil
	case int64:
		return decimal.NewFromInt(val), nil
	case float64:
		return decimal.NewFromFloat(val), nil
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(val))
		if err != nil {
			return decimal.Zero, fmt.Errorf("%w: %s: %q не число", ErrUnsupportedFilter, field, val)
		}
		return d, nil
	case nil:
		return decimal.Zero, fmt.Errorf("%w: %s: пустое значение", ErrUnsupportedFilter, field)
	default:
		return numericArg(field, fmt.Sprint(val))
	}
}

// nestedFilters достает вложенные фильтры условного фильтра or/and.
func nestedFilters(f dataprovider.Filter) ([]dataprovider.Filter, error) {
	nested, ok := f.Value.([]dataprovider.Filter)
	if !ok {
		return nil, fmt.Errorf("%w: %s ожидает список фильтров", ErrUnsupportedFilter, f.Operator)
	}
	return nested, nil
}

func isConditional(f dataprovider.Filter) bool {
	return f.Field == "" && (f.Operator == "or" || f.Operator == "and")
}

// pageBounds возвращает offset и limit для режима пагинации; limit < 0 - без ограничения.
func pageBounds(p dataprovider.Pagination) (offset, limit int) {
	p = p.Normalized()
	if p.Mode == dataprovider.PaginationOff {
		return 0, -1
	}
	r := p.Range()
	return r[0], r[1] - r[0]
}
