package lenses

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"lensadmin/internal/dataprovider"
	"lensadmin/internal/domain/lens"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func sampleLenses() []lens.Lens {
	created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	limit := 100
	comment := strings.Repeat("абвгд", 8)
	return []lens.Lens{
		{
			ID:           1,
			LensType:     lens.Type("CR39"),
			Sphere:       decimal.RequireFromString("-2"),
			Cylinder:     decimal.RequireFromString("-0.75"),
			UnitPrice:    decimal.RequireFromString("45"),
			Quantity:     42,
			StorageLimit: &limit,
			CreatedAt:    created,
			UpdatedAt:    created,
		},
		{
			ID:        2,
			LensType:  lens.Type("Trivex"),
			Sphere:    decimal.RequireFromString("1.75"),
			Cylinder:  decimal.Zero,
			UnitPrice: decimal.RequireFromString("75.5"),
			Quantity:  10,
			Comment:   &comment,
			CreatedAt: created,
			UpdatedAt: created,
		},
	}
}

func TestValidateFormat(t *testing.T) {
	for _, f := range []string{formatTable, formatJSON, formatCSV, formatYAML} {
		assert.NoError(t, validateFormat(f))
	}
	assert.Error(t, validateFormat("xml"))
}

func TestPrintTable(t *testing.T) {
	res := &dataprovider.ListResult[lens.Lens]{Data: sampleLenses(), Total: 12, TotalKnown: true}

	var buf bytes.Buffer
	require.NoError(t, printList(&buf, formatTable, res, dataprovider.Pagination{Current: 1, PageSize: 10}))

	out := buf.String()
	assert.Contains(t, out, "CR39")
	assert.Contains(t, out, "-2.00")
	assert.Contains(t, out, "75.50")
	assert.Contains(t, out, "∞")
	assert.Contains(t, out, strings.Repeat("абвгд", 6)+"…")
	assert.NotContains(t, out, strings.Repeat("абвгд", 7))
	assert.Contains(t, out, "Страница 1 из 2, всего линз: 12")
}

func TestPrintTable_Empty(t *testing.T) {
	var buf bytes.Buffer
	res := &dataprovider.ListResult[lens.Lens]{TotalKnown: true}
	require.NoError(t, printList(&buf, formatTable, res, dataprovider.Pagination{}))
	assert.Equal(t, "Линзы не найдены\n", buf.String())
}

func TestPageSummary(t *testing.T) {
	tests := []struct {
		name string
		res  *dataprovider.ListResult[lens.Lens]
		p    dataprovider.Pagination
		want string
	}{
		{
			name: "unknown total",
			res:  &dataprovider.ListResult[lens.Lens]{Data: make([]lens.Lens, 3)},
			p:    dataprovider.Pagination{Current: 4},
			want: "Страница 4, показано: 3, всего: неизвестно",
		},
		{
			name: "no pagination",
			res:  &dataprovider.ListResult[lens.Lens]{Total: 7, TotalKnown: true},
			p:    dataprovider.Pagination{Mode: dataprovider.PaginationOff},
			want: "Всего линз: 7",
		},
		{
			name: "exact pages",
			res:  &dataprovider.ListResult[lens.Lens]{Total: 20, TotalKnown: true},
			p:    dataprovider.Pagination{Current: 2, PageSize: 10},
			want: "Страница 2 из 2, всего линз: 20",
		},
		{
			name: "zero total",
			res:  &dataprovider.ListResult[lens.Lens]{TotalKnown: true},
			p:    dataprovider.Pagination{},
			want: "Страница 1 из 1, всего линз: 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, pageSummary(tt.res, tt.p))
		})
	}
}

func TestPrintList_JSON(t *testing.T) {
	var buf bytes.Buffer
	res := &dataprovider.ListResult[lens.Lens]{Data: sampleLenses()[:1]}
	require.NoError(t, printList(&buf, formatJSON, res, dataprovider.Pagination{}))

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Nil(t, got["total"])
	require.Len(t, got["data"], 1)

	item := got["data"].([]any)[0].(map[string]any)
	assert.Equal(t, float64(-2), item["sphere"])
	assert.Equal(t, float64(100), item["storage_limit"])

	buf.Reset()
	res.Total, res.TotalKnown = 1, true
	require.NoError(t, printList(&buf, formatJSON, res, dataprovider.Pagination{}))
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, float64(1), got["total"])
}

func TestPrintList_CSV(t *testing.T) {
	var buf bytes.Buffer
	res := &dataprovider.ListResult[lens.Lens]{Data: sampleLenses(), Total: 2, TotalKnown: true}
	require.NoError(t, printList(&buf, formatCSV, res, dataprovider.Pagination{}))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, "id", records[0][0])
	assert.Equal(t, []string{"1", "CR39", "-2.00", "-0.75", "45.00", "42", "100", ""}, records[1][:8])
	assert.Equal(t, "", records[2][6])
	assert.Equal(t, strings.Repeat("абвгд", 8), records[2][7])
	assert.Equal(t, "2024-05-01T10:00:00Z", records[2][8])
}

func TestPrintList_YAML(t *testing.T) {
	var buf bytes.Buffer
	res := &dataprovider.ListResult[lens.Lens]{Data: sampleLenses()}
	require.NoError(t, printList(&buf, formatYAML, res, dataprovider.Pagination{}))

	var rows []lensRow
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, "Trivex", rows[1].LensType)
	assert.Equal(t, "75.50", rows[1].UnitPrice)
	assert.Nil(t, rows[1].StorageLimit)
	require.NotNil(t, rows[0].StorageLimit)
	assert.Equal(t, 100, *rows[0].StorageLimit)
}

func TestPrintLens_Table(t *testing.T) {
	l := sampleLenses()[1]

	var buf bytes.Buffer
	require.NoError(t, printLens(&buf, formatTable, &l))

	out := buf.String()
	assert.Contains(t, out, "Trivex")
	assert.Contains(t, out, "755.00")
	assert.Contains(t, out, "∞")
	assert.Contains(t, out, strings.Repeat("абвгд", 8))
	assert.NotContains(t, out, "Удалено")
}
