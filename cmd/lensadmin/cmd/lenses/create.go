package lenses

import (
	"fmt"

	"lensadmin/internal/app/client"
	"lensadmin/internal/domain/lens"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newCreateCmd() *cobra.Command {
	var (
		form        lens.Form
		interactive bool
		format      string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Создать линзу",
		Long: `Создание новой позиции инвентаря.

ID задается вручную и после создания не меняется. Цена округляется до
двух знаков, пустое количество считается нулем, пустой лимит хранения -
отсутствием лимита. Недостающие поля запрашиваются интерактивно, если
ввод идет из терминала или указан --interactive.`,
		Example: `  lensadmin lenses create --id 11 --type Trivex --sphere -1.25 --cylinder -0.5 --price 45`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := client.FromContext(cmd.Context())
			if err != nil {
				return err
			}
			out, err := outputFormat(cmd, format)
			if err != nil {
				return err
			}

			if interactive || stdinIsTerminal() {
				p := newPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
				if err := p.fillForm(&form); err != nil {
					return err
				}
			}

			created, err := app.CreateLens(cmd.Context(), form)
			if err != nil {
				return describe(err)
			}

			if out != formatTable {
				return printLens(cmd.OutOrStdout(), out, created)
			}
			fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("Линза %d создана", created.ID))
			return printLens(cmd.OutOrStdout(), out, created)
		},
	}

	cmd.Flags().StringVar(&form.ID, "id", "", "ID линзы")
	cmd.Flags().StringVarP(&form.LensType, "type", "t", "", "тип линзы (CR39, Polycarbonate, Trivex, High Index 1.67, High Index 1.74)")
	cmd.Flags().StringVar(&form.Sphere, "sphere", "", "сфера, дптр")
	cmd.Flags().StringVar(&form.Cylinder, "cylinder", "", "цилиндр, дптр")
	cmd.Flags().StringVar(&form.UnitPrice, "price", "", "цена за единицу")
	cmd.Flags().StringVar(&form.Quantity, "quantity", "", "количество (по умолчанию 0)")
	cmd.Flags().StringVar(&form.StorageLimit, "limit", "", "лимит хранения (по умолчанию без лимита)")
	cmd.Flags().StringVar(&form.Comment, "comment", "", "комментарий")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "запросить недостающие поля")
	cmd.Flags().StringVarP(&format, "format", "f", formatTable, "формат вывода (table, json, csv, yaml)")

	return cmd
}
