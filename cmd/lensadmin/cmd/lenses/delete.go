package lenses

import (
	"fmt"

	"lensadmin/internal/app/client"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newDeleteCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Удалить линзу",
		Long: `Удаление позиции инвентаря.

REST API не поддерживает удаление: после подтверждения команда
сообщает об ошибке, запрос на сервер не отправляется.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := client.FromContext(cmd.Context())
			if err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			if !yes {
				p := newPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
				ok, err := p.confirm(fmt.Sprintf("Удалить линзу %d?", id))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "Отменено")
					return nil
				}
			}

			if err := app.DeleteLens(cmd.Context(), id); err != nil {
				return describe(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("Линза %d удалена", id))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "не спрашивать подтверждение")

	return cmd
}
