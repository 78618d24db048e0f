package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"

	"lensadmin/internal/app/client/config"
	"lensadmin/internal/dataprovider"
	"lensadmin/internal/domain/lens"
	"lensadmin/internal/testutil/fakeapi"
)

func seedLenses(n int) []lens.Lens {
	out := make([]lens.Lens, 0, n)
	created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	for i := 1; i <= n; i++ {
		out = append(out, lens.Lens{
			ID:        int64(i),
			LensType:  lens.Types[i%len(lens.Types)],
			Sphere:    decimal.NewFromFloat(-0.25 * float64(i)),
			Cylinder:  decimal.NewFromFloat(-0.5),
			UnitPrice: decimal.NewFromInt(int64(40 + i)),
			Quantity:  i,
			CreatedAt: created,
			UpdatedAt: created,
		})
	}
	return out
}

func testConfig(t *testing.T, apiURL string) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		Env:            config.EnvLocal,
		APIURL:         apiURL,
		LogLevel:       "debug",
		RequestTimeout: 5,
		PageSize:       10,
		ConfigDir:      dir,
		DataPath:       filepath.Join(dir, "lenses.db"),
	}
}

func newTestApp(t *testing.T, srv *fakeapi.Server, opts ...Option) *App {
	t.Helper()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	app, err := New(testConfig(t, srv.URL()), log, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })
	return app
}

func TestNew_Errors(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	_, err := New(nil, log)
	assert.Error(t, err)

	cfg := testConfig(t, "not a url")
	_, err = New(cfg, log, WithStorage(NewMemoryStorage()))
	assert.Error(t, err)
}

func TestApp_ListLenses(t *testing.T) {
	srv := fakeapi.Start(t, seedLenses(25)...)
	app := newTestApp(t, srv)

	res, err := app.ListLenses(context.Background(), dataprovider.ListParams{
		Pagination: dataprovider.Pagination{Current: 3, PageSize: 10},
		Sorters:    []dataprovider.Sorter{{Field: "id", Order: dataprovider.OrderAsc}},
	})
	require.NoError(t, err)

	assert.Equal(t, int64(25), res.Total)
	assert.True(t, res.TotalKnown)
	assert.Equal(t, []int64{21, 22, 23, 24, 25}, ids(res.Data))
	assert.Equal(t, "[20,30]", srv.LastRequest().Query.Get("range"))
	assert.Equal(t, "LensAdmin-Client/1.0", srv.LastRequest().Header.Get("User-Agent"))
}

func TestApp_ListLenses_FilterValidation(t *testing.T) {
	srv := fakeapi.Start(t, seedLenses(8)...)

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := testConfig(t, srv.URL())
	cfg.FilterValidation = true
	app, err := New(cfg, log, WithStorage(NewMemoryStorage()))
	require.NoError(t, err)

	res, err := app.ListLenses(context.Background(), dataprovider.ListParams{
		Filters: []dataprovider.Filter{{Field: "sphere", Operator: "eq", Value: "-1.00"}},
	})
	require.NoError(t, err)

	assert.Equal(t, `[{"field":"sphere","operator":"eq","value":-1}]`, srv.LastRequest().Query.Get("filter"))
	assert.Equal(t, []int64{4}, ids(res.Data))
}

func TestApp_GetLens(t *testing.T) {
	srv := fakeapi.Start(t, seedLenses(3)...)
	app := newTestApp(t, srv)

	l, err := app.GetLens(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, int64(2), l.ID)
	assert.Equal(t, "/api/inventory/lenses/2", srv.LastRequest().Path)

	_, err = app.GetLens(context.Background(), 99)
	require.Error(t, err)

	httpErr, ok := dataprovider.AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, httpErr.StatusCode())
	assert.Contains(t, string(httpErr.Body), "Product with ID 99 not found")
}

func TestApp_CreateLens(t *testing.T) {
	srv := fakeapi.Start(t)
	app := newTestApp(t, srv)

	created, err := app.CreateLens(context.Background(), lens.Form{
		ID:        "11",
		LensType:  "Trivex",
		Sphere:    "-1.25",
		Cylinder:  "-0.5",
		UnitPrice: "45",
		Comment:   "новая партия",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(11), created.ID)
	assert.Equal(t, 0, created.Quantity)
	assert.Nil(t, created.StorageLimit)

	req := srv.LastRequest()
	assert.Equal(t, http.MethodPost, req.Method)

	var body map[string]any
	require.NoError(t, json.Unmarshal(req.Body, &body))
	assert.Equal(t, "45.00", body["unit_price"])
	assert.Equal(t, float64(0), body["quantity"])
	assert.Nil(t, body["storage_limit"])
	assert.Contains(t, body, "storage_limit")

	stored, ok := srv.Lens(11)
	require.True(t, ok)
	assert.True(t, stored.UnitPrice.Equal(decimal.NewFromInt(45)))
}

func TestApp_CreateLens_InvalidForm(t *testing.T) {
	srv := fakeapi.Start(t)
	app := newTestApp(t, srv)

	_, err := app.CreateLens(context.Background(), lens.Form{ID: "1", Sphere: "0", Cylinder: "0", UnitPrice: "10"})
	assert.ErrorIs(t, err, lens.ErrInvalidForm)

	_, err = app.CreateLens(context.Background(), lens.Form{LensType: "CR39"})
	assert.ErrorIs(t, err, lens.ErrMissingID)

	assert.Empty(t, srv.Requests())
}

func TestApp_CreateLens_Duplicate(t *testing.T) {
	srv := fakeapi.Start(t, seedLenses(1)...)
	app := newTestApp(t, srv)

	_, err := app.CreateLens(context.Background(), lens.Form{
		ID: "1", LensType: "CR39", Sphere: "0", Cylinder: "0", UnitPrice: "40",
	})
	require.Error(t, err)

	httpErr, ok := dataprovider.AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusForbidden, httpErr.StatusCode())
}

func TestApp_UpdateLens(t *testing.T) {
	srv := fakeapi.Start(t, seedLenses(3)...)
	app := newTestApp(t, srv)

	quantity := "17"
	comment := "пересчет склада"
	updated, err := app.UpdateLens(context.Background(), 2, lens.Patch{
		Quantity: &quantity,
		Comment:  &comment,
		Notes:    "инвентаризация",
		Source:   "cli",
	})
	require.NoError(t, err)
	assert.Equal(t, 17, updated.Quantity)
	require.NotNil(t, updated.Comment)
	assert.Equal(t, comment, *updated.Comment)

	reqs := srv.Requests()
	require.Len(t, reqs, 2)
	assert.Equal(t, http.MethodGet, reqs[0].Method)
	assert.Equal(t, http.MethodPut, reqs[1].Method)
	assert.Equal(t, "/api/inventory/lenses/2", reqs[1].Path)

	var body map[string]any
	require.NoError(t, json.Unmarshal(reqs[1].Body, &body))
	for _, readOnly := range []string{"id", "created_at", "updated_at", "deleted_at"} {
		assert.NotContains(t, body, readOnly)
	}
	assert.Equal(t, "инвентаризация", body["update_notes"])
	assert.Equal(t, "cli", body["update_source"])
}

func TestApp_UpdateLens_NoChanges(t *testing.T) {
	srv := fakeapi.Start(t, seedLenses(1)...)
	app := newTestApp(t, srv)

	_, err := app.UpdateLens(context.Background(), 1, lens.Patch{Notes: "только заметка"})
	assert.ErrorIs(t, err, lens.ErrNoChanges)

	for _, r := range srv.Requests() {
		assert.NotEqual(t, http.MethodPut, r.Method)
	}
}

func TestApp_UpdateLens_Invalid(t *testing.T) {
	srv := fakeapi.Start(t, seedLenses(1)...)
	app := newTestApp(t, srv)

	negative := "-3"
	_, err := app.UpdateLens(context.Background(), 1, lens.Patch{Quantity: &negative})
	assert.ErrorIs(t, err, lens.ErrInvalidForm)
}

func TestApp_DeleteLens(t *testing.T) {
	srv := fakeapi.Start(t, seedLenses(1)...)
	app := newTestApp(t, srv)

	err := app.DeleteLens(context.Background(), 1)
	assert.ErrorIs(t, err, dataprovider.ErrNotImplemented)

	_, isHTTP := dataprovider.AsHTTPError(err)
	assert.False(t, isHTTP)
	assert.Empty(t, srv.Requests())

	_, ok := srv.Lens(1)
	assert.True(t, ok)
}

func TestContext(t *testing.T) {
	_, err := FromContext(context.Background())
	assert.Error(t, err)

	srv := fakeapi.Start(t)
	app := newTestApp(t, srv)

	got, err := FromContext(WithApp(context.Background(), app))
	require.NoError(t, err)
	assert.Same(t, app, got)
	assert.Equal(t, srv.URL(), got.APIURL())
}

func TestApp_FallsBackToMemoryStorage(t *testing.T) {
	srv := fakeapi.Start(t)

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := testConfig(t, srv.URL())
	// Путь к базе внутри файла - SQLite открыть не получится
	cfg.DataPath = filepath.Join(cfg.ConfigDir, "lenses.db", "nested.db")
	require.NoError(t, os.WriteFile(filepath.Join(cfg.ConfigDir, "lenses.db"), []byte("x"), 0600))

	app, err := New(cfg, log)
	require.NoError(t, err)

	_, isMemory := app.storage.(*MemoryStorage)
	assert.True(t, isMemory)
}
