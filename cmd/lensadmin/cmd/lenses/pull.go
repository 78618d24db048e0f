package lenses

import (
	"fmt"
	"time"

	"lensadmin/internal/app/client"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newPullCmd() *cobra.Command {
	var pageSize int

	cmd := &cobra.Command{
		Use:   "pull",
		Short: "Обновить локальную копию",
		Long: `Постранично выгружает весь инвентарь и заменяет им локальную копию.
Копию можно просматривать командами list --offline и show --offline.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := client.FromContext(cmd.Context())
			if err != nil {
				return err
			}

			start := time.Now()
			res, err := app.Pull(cmd.Context(), pageSize)
			if err != nil {
				return describe(err)
			}

			if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
				return printJSON(cmd.OutOrStdout(), res.Snapshot)
			}
			fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("Локальная копия обновлена"))
			fmt.Fprintf(cmd.OutOrStdout(), "Линз: %d, страниц: %d, за %s\n",
				res.Fetched, res.Pages, time.Since(start).Round(time.Millisecond))
			return nil
		},
	}

	cmd.Flags().IntVar(&pageSize, "page-size", 100, "записей в одном запросе")

	return cmd
}
