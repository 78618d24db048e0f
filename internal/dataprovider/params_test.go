package dataprovider

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPagination_Range(t *testing.T) {
	for current := 1; current <= 5; current++ {
		for _, size := range []int{1, 7, 10, 25} {
			got := Pagination{Current: current, PageSize: size}.Range()
			want := [2]int{(current - 1) * size, current * size}
			assert.Equal(t, want, got, "current=%d pageSize=%d", current, size)
		}
	}
}

func TestPagination_Normalized(t *testing.T) {
	got := Pagination{}.Normalized()

	assert.Equal(t, Pagination{Current: 1, PageSize: 10, Mode: PaginationServer}, got)
}

func TestEncodeQuery(t *testing.T) {
	tests := []struct {
		name   string
		params ListParams
		want   map[string]string
	}{
		{
			name: "page two sorted by id",
			params: ListParams{
				Pagination: Pagination{Current: 2, PageSize: 10},
				Sorters:    []Sorter{{Field: "id", Order: OrderAsc}},
			},
			want: map[string]string{
				"range": "[10,20]",
				"sort":  `[["id","asc"]]`,
			},
		},
		{
			name:   "defaults only",
			params: ListParams{},
			want:   map[string]string{"range": "[0,10]"},
		},
		{
			name: "client pagination omits range",
			params: ListParams{
				Pagination: Pagination{Current: 3, PageSize: 5, Mode: PaginationClient},
				Sorters:    []Sorter{{Field: "sphere", Order: OrderDesc}, {Field: "id", Order: OrderAsc}},
			},
			want: map[string]string{"sort": `[["sphere","desc"],["id","asc"]]`},
		},
		{
			name: "filters encoded as directives",
			params: ListParams{
				Pagination: Pagination{Mode: PaginationOff},
				Filters: []Filter{
					{Field: "lens_type", Operator: "eq", Value: "CR39"},
					{Operator: "or", Value: []Filter{{Field: "quantity", Operator: "lt", Value: 5}}},
				},
			},
			want: map[string]string{
				"filter": `[{"field":"lens_type","operator":"eq","value":"CR39"},{"operator":"or","value":[{"field":"quantity","operator":"lt","value":5}]}]`,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, err := encodeQuery(tt.params, nil)
			require.NoError(t, err)

			got := map[string]string{}
			for k := range values {
				got[k] = values.Get(k)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("encodeQuery() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEncodeQuery_AppliesCoercion(t *testing.T) {
	params := ListParams{Filters: []Filter{{Field: "id", Operator: "eq", Value: "3"}}}

	values, err := encodeQuery(params, coerceNumericFilters)
	require.NoError(t, err)

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal([]byte(values.Get("filter")), &decoded))
	assert.Equal(t, float64(3), decoded[0]["value"])
	assert.Equal(t, "3", params.Filters[0].Value, "caller filters must not be mutated")
}

func TestEncodeQuery_NonFiniteBecomesNull(t *testing.T) {
	for _, v := range []any{"Infinity", "inf", "-Infinity", "NaN", "1e400", math.Inf(1), math.NaN()} {
		params := ListParams{Filters: []Filter{{Field: "sphere", Operator: "eq", Value: v}}}

		values, err := encodeQuery(params, coerceNumericFilters)
		require.NoError(t, err, "%v", v)
		assert.JSONEq(t, `[{"field":"sphere","operator":"eq","value":null}]`, values.Get("filter"), "%v", v)
	}
}
