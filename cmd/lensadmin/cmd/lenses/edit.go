package lenses

import (
	"errors"
	"fmt"

	"lensadmin/internal/app/client"
	"lensadmin/internal/domain/lens"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newEditCmd() *cobra.Command {
	var (
		values lens.Patch
		raw    struct {
			lensType, sphere, cylinder, price, quantity, limit, comment string
		}
		format string
	)

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Изменить линзу",
		Long: `Изменение позиции инвентаря. Передаются только указанные флагами поля;
ID и временные метки не редактируются. Пустой --limit снимает лимит хранения,
пустой --comment удаляет комментарий.`,
		Example: `  lensadmin lenses edit 4 --quantity 30 --notes "приход от поставщика" --source cli`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := client.FromContext(cmd.Context())
			if err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			out, err := outputFormat(cmd, format)
			if err != nil {
				return err
			}

			changed := func(name string, v string) *string {
				if !cmd.Flags().Changed(name) {
					return nil
				}
				return &v
			}
			values.LensType = changed("type", raw.lensType)
			values.Sphere = changed("sphere", raw.sphere)
			values.Cylinder = changed("cylinder", raw.cylinder)
			values.UnitPrice = changed("price", raw.price)
			values.Quantity = changed("quantity", raw.quantity)
			values.StorageLimit = changed("limit", raw.limit)
			values.Comment = changed("comment", raw.comment)

			updated, err := app.UpdateLens(cmd.Context(), id, values)
			if errors.Is(err, lens.ErrNoChanges) {
				return fmt.Errorf("%w: укажите хотя бы одно поле", err)
			}
			if err != nil {
				return describe(err)
			}

			if out != formatTable {
				return printLens(cmd.OutOrStdout(), out, updated)
			}
			fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("Линза %d обновлена", updated.ID))
			return printLens(cmd.OutOrStdout(), out, updated)
		},
	}

	cmd.Flags().StringVarP(&raw.lensType, "type", "t", "", "тип линзы")
	cmd.Flags().StringVar(&raw.sphere, "sphere", "", "сфера, дптр")
	cmd.Flags().StringVar(&raw.cylinder, "cylinder", "", "цилиндр, дптр")
	cmd.Flags().StringVar(&raw.price, "price", "", "цена за единицу")
	cmd.Flags().StringVar(&raw.quantity, "quantity", "", "количество")
	cmd.Flags().StringVar(&raw.limit, "limit", "", "лимит хранения (пусто - без лимита)")
	cmd.Flags().StringVar(&raw.comment, "comment", "", "комментарий (пусто - удалить)")
	cmd.Flags().StringVar(&values.Notes, "notes", "", "примечание к изменению")
	cmd.Flags().StringVar(&values.Source, "source", "", "источник изменения")
	cmd.Flags().StringVarP(&format, "format", "f", formatTable, "формат вывода (table, json, csv, yaml)")

	return cmd
}
