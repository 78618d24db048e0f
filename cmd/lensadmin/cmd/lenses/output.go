package lenses

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"lensadmin/internal/dataprovider"
	"lensadmin/internal/domain/lens"

	"gopkg.in/yaml.v3"
)

// commentPreviewLen - сколько символов комментария показывать в таблице
const commentPreviewLen = 30

const (
	formatTable = "table"
	formatJSON  = "json"
	formatCSV   = "csv"
	formatYAML  = "yaml"
)

func validateFormat(format string) error {
	switch format {
	case formatTable, formatJSON, formatCSV, formatYAML:
		return nil
	}
	return fmt.Errorf("неизвестный формат вывода %q (table, json, csv, yaml)", format)
}

// lensRow - запись в виде для YAML и CSV
type lensRow struct {
	ID           int64   `yaml:"id"`
	LensType     string  `yaml:"lens_type"`
	Sphere       string  `yaml:"sphere"`
	Cylinder     string  `yaml:"cylinder"`
	UnitPrice    string  `yaml:"unit_price"`
	Quantity     int     `yaml:"quantity"`
	StorageLimit *int    `yaml:"storage_limit"`
	Comment      *string `yaml:"comment"`
	CreatedAt    string  `yaml:"created_at"`
	UpdatedAt    string  `yaml:"updated_at"`
}

func toRow(l lens.Lens) lensRow {
	return lensRow{
		ID:           l.ID,
		LensType:     string(l.LensType),
		Sphere:       l.Sphere.StringFixed(2),
		Cylinder:     l.Cylinder.StringFixed(2),
		UnitPrice:    l.UnitPrice.StringFixed(2),
		Quantity:     l.Quantity,
		StorageLimit: l.StorageLimit,
		Comment:      l.Comment,
		CreatedAt:    l.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    l.UpdatedAt.Format(time.RFC3339),
	}
}

// printList выводит страницу в выбранном формате.
func printList(w io.Writer, format string, res *dataprovider.ListResult[lens.Lens], p dataprovider.Pagination) error {
	switch format {
	case formatJSON:
		return printJSON(w, listJSON{Data: res.Data, Total: totalOrNil(res)})
	case formatYAML:
		rows := make([]lensRow, 0, len(res.Data))
		for _, l := range res.Data {
			rows = append(rows, toRow(l))
		}
		return printYAML(w, rows)
	case formatCSV:
		return printCSV(w, res.Data)
	default:
		return printTable(w, res, p)
	}
}

type listJSON struct {
	Data  []lens.Lens `json:"data"`
	Total *int64      `json:"total"`
}

func totalOrNil(res *dataprovider.ListResult[lens.Lens]) *int64 {
	if !res.TotalKnown {
		return nil
	}
	total := res.Total
	return &total
}

func printTable(w io.Writer, res *dataprovider.ListResult[lens.Lens], p dataprovider.Pagination) error {
	if len(res.Data) == 0 {
		fmt.Fprintln(w, "Линзы не найдены")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "ID\tТип\tСфера\tЦилиндр\tЦена\tКол-во\tЛимит\tКомментарий\t\n")
	fmt.Fprintf(tw, "---\t---\t---\t---\t---\t---\t---\t---\t\n")

	for _, l := range res.Data {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%d\t%s\t%s\t\n",
			l.ID,
			l.LensType,
			l.Sphere.StringFixed(2),
			l.Cylinder.StringFixed(2),
			l.UnitPrice.StringFixed(2),
			l.Quantity,
			limitString(l.StorageLimit),
			l.CommentPreview(commentPreviewLen),
		)
	}

	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, pageSummary(res, p))
	return nil
}

// pageSummary - строка под таблицей: страница и общее число записей.
func pageSummary(res *dataprovider.ListResult[lens.Lens], p dataprovider.Pagination) string {
	p = p.Normalized()
	if !res.TotalKnown {
		return fmt.Sprintf("Страница %d, показано: %d, всего: неизвестно", p.Current, len(res.Data))
	}
	if p.Mode == dataprovider.PaginationOff {
		return fmt.Sprintf("Всего линз: %d", res.Total)
	}

	pages := (res.Total + int64(p.PageSize) - 1) / int64(p.PageSize)
	if pages == 0 {
		pages = 1
	}
	return fmt.Sprintf("Страница %d из %d, всего линз: %d", p.Current, pages, res.Total)
}

func limitString(limit *int) string {
	if limit == nil {
		return "∞"
	}
	return strconv.Itoa(*limit)
}

func printLens(w io.Writer, format string, l *lens.Lens) error {
	switch format {
	case formatJSON:
		return printJSON(w, l)
	case formatYAML:
		return printYAML(w, toRow(*l))
	case formatCSV:
		return printCSV(w, []lens.Lens{*l})
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "ID:\t%d\n", l.ID)
	fmt.Fprintf(tw, "Тип:\t%s (%s)\n", l.LensType, l.LensType.DisplayName())
	fmt.Fprintf(tw, "Сфера:\t%s\n", l.Sphere.StringFixed(2))
	fmt.Fprintf(tw, "Цилиндр:\t%s\n", l.Cylinder.StringFixed(2))
	fmt.Fprintf(tw, "Цена:\t%s\n", l.UnitPrice.StringFixed(2))
	fmt.Fprintf(tw, "Количество:\t%d\n", l.Quantity)
	fmt.Fprintf(tw, "Лимит хранения:\t%s\n", limitString(l.StorageLimit))
	fmt.Fprintf(tw, "Стоимость остатка:\t%s\n", l.Value().StringFixed(2))
	if l.Comment != nil {
		fmt.Fprintf(tw, "Комментарий:\t%s\n", *l.Comment)
	}
	fmt.Fprintf(tw, "Создано:\t%s\n", l.CreatedAt.Local().Format(time.DateTime))
	fmt.Fprintf(tw, "Обновлено:\t%s\n", l.UpdatedAt.Local().Format(time.DateTime))
	if l.DeletedAt != nil {
		fmt.Fprintf(tw, "Удалено:\t%s\n", l.DeletedAt.Local().Format(time.DateTime))
	}
	return tw.Flush()
}

func printJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func printYAML(w io.Writer, v any) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(v); err != nil {
		return err
	}
	return encoder.Close()
}

func printCSV(w io.Writer, lenses []lens.Lens) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{
		"id", "lens_type", "sphere", "cylinder", "unit_price",
		"quantity", "storage_limit", "comment", "created_at", "updated_at",
	}); err != nil {
		return err
	}

	for _, l := range lenses {
		row := toRow(l)
		limit := ""
		if row.StorageLimit != nil {
			limit = strconv.Itoa(*row.StorageLimit)
		}
		comment := ""
		if row.Comment != nil {
			comment = *row.Comment
		}
		if err := cw.Write([]string{
			strconv.FormatInt(row.ID, 10), row.LensType, row.Sphere, row.Cylinder, row.UnitPrice,
			strconv.Itoa(row.Quantity), limit, comment, row.CreatedAt, row.UpdatedAt,
		}); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
