package client

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lensadmin/internal/dataprovider"
	"lensadmin/internal/domain/lens"
)

// fixtureLenses - встроенный набор с одной позицией без лимита хранения (id 3)
func fixtureLenses(t *testing.T) []lens.Lens {
	t.Helper()

	created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	out := make([]lens.Lens, 0, 10)
	for i, f := range BuiltinSeed() {
		req, err := f.CreateRequest()
		require.NoError(t, err)
		price, err := decimal.NewFromString(req.UnitPrice)
		require.NoError(t, err)

		l := lens.Lens{
			ID:           req.ID,
			LensType:     req.LensType,
			Sphere:       req.Sphere,
			Cylinder:     req.Cylinder,
			UnitPrice:    price,
			Quantity:     req.Quantity,
			StorageLimit: req.StorageLimit,
			CreatedAt:    created.Add(time.Duration(i) * time.Hour),
			UpdatedAt:    created.Add(time.Duration(i) * time.Hour),
		}
		if req.Comment != "" {
			c := req.Comment
			l.Comment = &c
		}
		if l.ID == 3 {
			l.StorageLimit = nil
		}
		out = append(out, l)
	}
	return out
}

type storageFactory func(t *testing.T) Storage

func storages() map[string]storageFactory {
	return map[string]storageFactory{
		"memory": func(t *testing.T) Storage {
			return NewMemoryStorage()
		},
		"sqlite": func(t *testing.T) Storage {
			s, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "lenses.db"))
			require.NoError(t, err)
			t.Cleanup(func() { _ = s.Close() })
			return s
		},
	}
}

func ids(lenses []lens.Lens) []int64 {
	out := make([]int64, 0, len(lenses))
	for _, l := range lenses {
		out = append(out, l.ID)
	}
	return out
}

func filter(field, op string, value any) dataprovider.Filter {
	return dataprovider.Filter{Field: field, Operator: op, Value: value}
}

func TestStorage_List(t *testing.T) {
	all := dataprovider.Pagination{Mode: dataprovider.PaginationOff}

	tests := []struct {
		name      string
		params    dataprovider.ListParams
		wantIDs   []int64
		wantTotal int64
	}{
		{
			name:      "default page",
			params:    dataprovider.ListParams{},
			wantIDs:   []int64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10},
			wantTotal: 10,
		},
		{
			name: "sphere lte from string",
			params: dataprovider.ListParams{
				Pagination: all,
				Filters:    []dataprovider.Filter{filter("sphere", "lte", "-3.5")},
			},
			wantIDs:   []int64{4, 5, 8, 9},
			wantTotal: 4,
		},
		{
			name: "lens type eq",
			params: dataprovider.ListParams{
				Pagination: all,
				Filters:    []dataprovider.Filter{filter("lens_type", "eq", "Trivex")},
			},
			wantIDs:   []int64{3, 6, 9, 10},
			wantTotal: 4,
		},
		{
			name: "id eq coerced number",
			params: dataprovider.ListParams{
				Pagination: all,
				Filters:    []dataprovider.Filter{filter("id", "eq", float64(7))},
			},
			wantIDs:   []int64{7},
			wantTotal: 1,
		},
		{
			name: "comment contains ignores case",
			params: dataprovider.ListParams{
				Pagination: all,
				Filters:    []dataprovider.Filter{filter("comment", "contains", "LOREM")},
			},
			wantIDs:   []int64{9},
			wantTotal: 1,
		},
		{
			name: "or conditional",
			params: dataprovider.ListParams{
				Pagination: all,
				Filters: []dataprovider.Filter{{
					Operator: "or",
					Value: []dataprovider.Filter{
						filter("lens_type", "eq", "CR39"),
						filter("quantity", "gte", 27),
					},
				}},
			},
			wantIDs:   []int64{1, 7, 8},
			wantTotal: 3,
		},
		{
			name: "filters combine with and",
			params: dataprovider.ListParams{
				Pagination: all,
				Filters: []dataprovider.Filter{
					filter("lens_type", "eq", "Trivex"),
					filter("cylinder", "lt", "0"),
				},
			},
			wantIDs:   []int64{3, 6, 9},
			wantTotal: 3,
		},
		{
			name: "null storage limit",
			params: dataprovider.ListParams{
				Pagination: all,
				Filters:    []dataprovider.Filter{filter("storage_limit", "null", nil)},
			},
			wantIDs:   []int64{3},
			wantTotal: 1,
		},
		{
			name: "null never matches comparisons",
			params: dataprovider.ListParams{
				Pagination: all,
				Filters:    []dataprovider.Filter{filter("storage_limit", "ne", 100)},
			},
			wantIDs:   []int64{2, 4, 5, 9, 10},
			wantTotal: 5,
		},
		{
			name: "sort desc with client page 1",
			params: dataprovider.ListParams{
				Pagination: dataprovider.Pagination{Current: 1, PageSize: 3, Mode: dataprovider.PaginationClient},
				Sorters:    []dataprovider.Sorter{{Field: "unit_price", Order: dataprovider.OrderDesc}},
			},
			wantIDs:   []int64{5, 4, 9},
			wantTotal: 10,
		},
		{
			name: "ties broken by id",
			params: dataprovider.ListParams{
				Pagination: dataprovider.Pagination{Current: 2, PageSize: 3, Mode: dataprovider.PaginationClient},
				Sorters:    []dataprovider.Sorter{{Field: "unit_price", Order: dataprovider.OrderDesc}},
			},
			wantIDs:   []int64{6, 10, 8},
			wantTotal: 10,
		},
		{
			name: "sort text without pagination",
			params: dataprovider.ListParams{
				Pagination: all,
				Sorters:    []dataprovider.Sorter{{Field: "lens_type", Order: dataprovider.OrderAsc}},
			},
			wantIDs:   []int64{1, 7, 4, 5, 2, 8, 3, 6, 9, 10},
			wantTotal: 10,
		},
		{
			name: "page past the end",
			params: dataprovider.ListParams{
				Pagination: dataprovider.Pagination{Current: 5, PageSize: 3, Mode: dataprovider.PaginationClient},
			},
			wantIDs:   []int64{},
			wantTotal: 10,
		},
	}

	for name, factory := range storages() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := factory(t)
			require.NoError(t, s.ReplaceAll(ctx, fixtureLenses(t), Snapshot{APIURL: "http://api", Total: 10, PulledAt: time.Now()}))

			for _, tt := range tests {
				t.Run(tt.name, func(t *testing.T) {
					got, total, err := s.List(ctx, tt.params)
					require.NoError(t, err)
					assert.Equal(t, tt.wantIDs, ids(got))
					assert.Equal(t, tt.wantTotal, total)
				})
			}
		})
	}
}

func TestStorage_ListErrors(t *testing.T) {
	tests := []struct {
		name   string
		params dataprovider.ListParams
	}{
		{name: "unknown filter field", params: dataprovider.ListParams{Filters: []dataprovider.Filter{filter("color", "eq", "red")}}},
		{name: "unknown sort field", params: dataprovider.ListParams{Sorters: []dataprovider.Sorter{{Field: "color", Order: dataprovider.OrderAsc}}}},
		{name: "not a number", params: dataprovider.ListParams{Filters: []dataprovider.Filter{filter("sphere", "eq", "abc")}}},
		{name: "unknown operator", params: dataprovider.ListParams{Filters: []dataprovider.Filter{filter("quantity", "between", 5)}}},
		{name: "or without nested filters", params: dataprovider.ListParams{Filters: []dataprovider.Filter{{Operator: "or", Value: "x"}}}},
	}

	for name, factory := range storages() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := factory(t)
			require.NoError(t, s.ReplaceAll(ctx, fixtureLenses(t), Snapshot{PulledAt: time.Now()}))

			for _, tt := range tests {
				t.Run(tt.name, func(t *testing.T) {
					_, _, err := s.List(ctx, tt.params)
					assert.ErrorIs(t, err, ErrUnsupportedFilter)
				})
			}
		})
	}
}

func TestStorage_GetAndSnapshot(t *testing.T) {
	for name, factory := range storages() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := factory(t)

			snap, err := s.LastSnapshot(ctx)
			require.NoError(t, err)
			assert.Nil(t, snap)

			fixture := fixtureLenses(t)
			deleted := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
			fixture[1].DeletedAt = &deleted

			pulled := time.Date(2024, 7, 1, 12, 30, 0, 123000000, time.UTC)
			require.NoError(t, s.ReplaceAll(ctx, fixture, Snapshot{APIURL: "http://api", Total: 10, PulledAt: pulled}))

			got, err := s.Get(ctx, 9)
			require.NoError(t, err)
			if diff := cmp.Diff(fixture[8], *got); diff != "" {
				t.Errorf("Get(9) mismatch (-want +got):\n%s", diff)
			}

			got, err = s.Get(ctx, 2)
			require.NoError(t, err)
			if diff := cmp.Diff(fixture[1], *got); diff != "" {
				t.Errorf("Get(2) mismatch (-want +got):\n%s", diff)
			}

			_, err = s.Get(ctx, 404)
			assert.ErrorIs(t, err, ErrNotFound)

			snap, err = s.LastSnapshot(ctx)
			require.NoError(t, err)
			require.NotNil(t, snap)
			assert.Equal(t, "http://api", snap.APIURL)
			assert.Equal(t, int64(10), snap.Total)
			assert.True(t, pulled.Equal(snap.PulledAt))

			// Повторная выгрузка полностью заменяет копию
			require.NoError(t, s.ReplaceAll(ctx, fixture[:2], Snapshot{APIURL: "http://api", Total: 2, PulledAt: pulled.Add(time.Hour)}))
			list, total, err := s.List(ctx, dataprovider.ListParams{})
			require.NoError(t, err)
			assert.Equal(t, []int64{1, 2}, ids(list))
			assert.Equal(t, int64(2), total)

			snap, err = s.LastSnapshot(ctx)
			require.NoError(t, err)
			assert.Equal(t, int64(2), snap.Total)
		})
	}
}
