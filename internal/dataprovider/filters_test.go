package dataprovider

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCoerceNumericFilters(t *testing.T) {
	filters := []Filter{
		{Field: "id", Operator: "eq", Value: "12"},
		{Field: "sphere", Operator: "eq", Value: "-2.25"},
		{Field: "cylinder", Operator: "eq", Value: ""},
		{Field: "lens_type", Operator: "eq", Value: "1.67"},
		{Field: "quantity", Operator: "gt", Value: "5"},
		{Operator: "or", Value: []Filter{{Field: "id", Value: "1"}}},
	}

	got := coerceNumericFilters(filters)

	assert.Equal(t, float64(12), got[0].Value)
	assert.Equal(t, -2.25, got[1].Value)
	assert.Equal(t, 0, got[2].Value)
	assert.Equal(t, "1.67", got[3].Value)
	assert.Equal(t, "5", got[4].Value)
	assert.Equal(t, filters[5].Value, got[5].Value)
}

func TestToNumber(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want any
	}{
		{"nil", nil, 0},
		{"true", true, 1},
		{"false", false, 0},
		{"int", 7, 7},
		{"float", 1.5, 1.5},
		{"json number", json.Number("4"), float64(4)},
		{"padded string", "  3.5 ", 3.5},
		{"garbage", "abc", nil},
		{"infinity", "Infinity", nil},
		{"inf", "-inf", nil},
		{"nan", "NaN", nil},
		{"overflow", "1e400", nil},
		{"float inf", math.Inf(1), nil},
		{"float nan", math.NaN(), nil},
		{"float32 inf", float32(math.Inf(-1)), nil},
		{"float32", float32(2.5), float32(2.5)},
		{"single element slice", []string{"5"}, float64(5)},
		{"single number slice", []any{2.5}, 2.5},
		{"single bool slice", []any{true}, nil},
		{"empty slice", []string{}, 0},
		{"two element slice", []string{"1", "2"}, nil},
		{"map", map[string]any{}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, toNumber(tt.in))
		})
	}
}
