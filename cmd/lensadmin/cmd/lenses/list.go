package lenses

import (
	"fmt"

	"lensadmin/internal/app/client"
	"lensadmin/internal/dataprovider"
	"lensadmin/internal/domain/lens"

	"github.com/spf13/cobra"
)

type listOptions struct {
	page       int
	perPage    int
	all        bool
	sorts      []string
	toggles    []string
	singleSort bool
	filters    []string
	anyOf      bool
	offline    bool
	format     string
}

func newListCmd() *cobra.Command {
	opts := &listOptions{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Список линз",
		Long: `Просмотр инвентаря постранично с сортировкой и фильтрами.

Сортировка: --sort field[:asc|desc], можно несколько раз. --toggle field
переключает направление по циклу asc -> desc -> без сортировки.
Фильтры: --filter field[:op]=value, операторы eq, ne, lt, lte, gt, gte,
contains, ncontains, а также field:null и field:nnull. Без --filter
фильтры сбрасываются и параметр filter не передается.

С --offline список строится по локальной копии (см. lenses pull).`,
		Example: `  lensadmin lenses list --page 2 --sort id:asc
  lensadmin lenses list --filter lens_type=Trivex --filter sphere:lte=-2
  lensadmin lenses list --offline --sort unit_price:desc --format csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := client.FromContext(cmd.Context())
			if err != nil {
				return err
			}

			format, err := outputFormat(cmd, opts.format)
			if err != nil {
				return err
			}

			params, err := opts.params(app.Config().PageSize)
			if err != nil {
				return err
			}

			var res *dataprovider.ListResult[lens.Lens]
			if opts.offline {
				res, err = app.ListOffline(cmd.Context(), params)
			} else {
				res, err = app.ListLenses(cmd.Context(), params)
			}
			if err != nil {
				return describe(err)
			}

			return printList(cmd.OutOrStdout(), format, res, params.Pagination)
		},
	}

	cmd.Flags().IntVarP(&opts.page, "page", "p", 1, "номер страницы")
	cmd.Flags().IntVar(&opts.perPage, "per-page", 0, "записей на странице (по умолчанию PAGE_SIZE)")
	cmd.Flags().BoolVar(&opts.all, "all", false, "без пагинации")
	cmd.Flags().StringArrayVarP(&opts.sorts, "sort", "s", nil, "сортировка field[:asc|desc]")
	cmd.Flags().StringArrayVar(&opts.toggles, "toggle", nil, "переключить сортировку по полю")
	cmd.Flags().BoolVar(&opts.singleSort, "single-sort", false, "только одна сортировка: последняя заменяет остальные")
	cmd.Flags().StringArrayVar(&opts.filters, "filter", nil, "фильтр field[:op]=value")
	cmd.Flags().BoolVar(&opts.anyOf, "any", false, "объединить фильтры через or")
	cmd.Flags().BoolVar(&opts.offline, "offline", false, "читать локальную копию")
	cmd.Flags().StringVarP(&opts.format, "format", "f", formatTable, "формат вывода (table, json, csv, yaml)")

	return cmd
}

// params собирает абстрактный запрос списка из флагов.
func (o *listOptions) params(defaultPageSize int) (dataprovider.ListParams, error) {
	if o.page < 1 {
		return dataprovider.ListParams{}, fmt.Errorf("номер страницы должен быть больше нуля: %d", o.page)
	}
	if o.perPage < 0 {
		return dataprovider.ListParams{}, fmt.Errorf("размер страницы не может быть отрицательным: %d", o.perPage)
	}

	pageSize := o.perPage
	if pageSize == 0 {
		pageSize = defaultPageSize
	}

	mode := dataprovider.PaginationServer
	switch {
	case o.all:
		mode = dataprovider.PaginationOff
	case o.offline:
		mode = dataprovider.PaginationClient
	}

	sorters, err := buildSorters(o.sorts, o.toggles, o.singleSort)
	if err != nil {
		return dataprovider.ListParams{}, err
	}
	filters, err := buildFilters(o.filters, o.anyOf)
	if err != nil {
		return dataprovider.ListParams{}, err
	}

	return dataprovider.ListParams{
		Pagination: dataprovider.Pagination{Current: o.page, PageSize: pageSize, Mode: mode},
		Sorters:    sorters,
		Filters:    filters,
	}, nil
}
