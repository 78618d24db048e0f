package dataprovider

import (
	"encoding/json"
	"math"
	"reflect"
	"strconv"
	"strings"
)

// NumericFilterFields - поля, значения фильтров по которым приводятся к числам
// при включенной проверке фильтров. Из форм они приходят строками.
var NumericFilterFields = []string{"id", "sphere", "cylinder"}

// coerceNumericFilters возвращает копию фильтров с числовыми значениями.
// Условные фильтры не меняются.
func coerceNumericFilters(filters []Filter) []Filter {
	out := make([]Filter, len(filters))
	for i, f := range filters {
		out[i] = f
		if f.Field != "" && isNumericField(f.Field) {
			out[i].Value = toNumber(f.Value)
		}
	}
	return out
}

func isNumericField(field string) bool {
	for _, name := range NumericFilterFields {
		if name == field {
			return true
		}
	}
	return false
}

// toNumber повторяет Number() из JavaScript: пустая строка и nil дают 0,
// bool дает 0/1, массив из одного элемента - число этого элемента, пустой массив - 0.
// Все, что не разбирается, и нечисловые результаты (NaN, ±Inf) становятся null.
func toNumber(v any) any {
	switch val := v.(type) {
	case nil:
		return 0
	case bool:
		if val {
			return 1
		}
		return 0
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return val
	case float32:
		return finite(float64(val), val)
	case float64:
		return finite(val, val)
	case json.Number:
		return toNumber(val.String())
	case string:
		s := strings.TrimSpace(val)
		if s == "" {
			return 0
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil
		}
		return finite(f, f)
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil
	}
	switch rv.Len() {
	case 0:
		return 0
	case 1:
		// Number([true]) - это Number("true"), то есть NaN.
		elem := rv.Index(0).Interface()
		if _, ok := elem.(bool); ok {
			return nil
		}
		return toNumber(elem)
	default:
		return nil
	}
}

// finite возвращает v, если f конечно, иначе nil: JSON не умеет NaN и Inf.
func finite(f float64, v any) any {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return v
}
