package client

import (
	"context"
	"fmt"
	"time"

	"lensadmin/internal/dataprovider"
	"lensadmin/internal/domain/lens"
)

// PullResult - итог выгрузки инвентаря в локальную копию
type PullResult struct {
	Fetched  int
	Pages    int
	Snapshot Snapshot
}

// Pull постранично выгружает весь инвентарь и заменяет им локальную копию.
func (a *App) Pull(ctx context.Context, pageSize int) (*PullResult, error) {
	if pageSize < 1 {
		pageSize = a.config.PageSize
	}

	var (
		all   []lens.Lens
		pages int
		total int64
		known bool
	)
	for current := 1; ; current++ {
		page, err := a.ListLenses(ctx, dataprovider.ListParams{
			Pagination: dataprovider.Pagination{
				Current:  current,
				PageSize: pageSize,
				Mode:     dataprovider.PaginationServer,
			},
			Sorters: []dataprovider.Sorter{{Field: "id", Order: dataprovider.OrderAsc}},
		})
		if err != nil {
			return nil, err
		}
		pages++
		all = append(all, page.Data...)
		total, known = page.Total, page.TotalKnown

		a.log.Debug("Страница выгружена", "page", current, "records", len(page.Data), "total", total)

		if len(page.Data) == 0 {
			break
		}
		if known && int64(len(all)) >= total {
			break
		}
		if !known && len(page.Data) < pageSize {
			break
		}
	}

	if !known {
		total = int64(len(all))
	}

	snap := Snapshot{
		APIURL:   a.APIURL(),
		Total:    total,
		PulledAt: time.Now().UTC(),
	}
	if err := a.storage.ReplaceAll(ctx, all, snap); err != nil {
		return nil, fmt.Errorf("ошибка сохранения локальной копии: %w", err)
	}

	a.log.Info("Локальная копия обновлена", "records", len(all), "pages", pages)
	return &PullResult{Fetched: len(all), Pages: pages, Snapshot: snap}, nil
}

// ListOffline листает локальную копию с локальной сортировкой, фильтрацией и пагинацией.
func (a *App) ListOffline(ctx context.Context, params dataprovider.ListParams) (*dataprovider.ListResult[lens.Lens], error) {
	data, total, err := a.storage.List(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения локальной копии: %w", err)
	}
	return &dataprovider.ListResult[lens.Lens]{Data: data, Total: total, TotalKnown: true}, nil
}

func (a *App) GetOffline(ctx context.Context, id int64) (*lens.Lens, error) {
	return a.storage.Get(ctx, id)
}

// LastSnapshot возвращает сведения о последней выгрузке или nil.
func (a *App) LastSnapshot(ctx context.Context) (*Snapshot, error) {
	return a.storage.LastSnapshot(ctx)
}
