package cmd

import (
	"fmt"
	"time"

	"lensadmin/internal/app/client"
	"lensadmin/internal/dataprovider"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Состояние клиента",
		Long:  `Показывает адрес API, доступность сервера и сведения о локальной копии.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := client.FromContext(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			fmt.Fprintf(out, "API:         %s\n", app.APIURL())
			fmt.Fprintf(out, "Окружение:   %s\n", app.Config().Env)

			res, err := app.ListLenses(cmd.Context(), dataprovider.ListParams{
				Pagination: dataprovider.Pagination{Current: 1, PageSize: 1},
			})
			switch {
			case err != nil:
				fmt.Fprintf(out, "Сервер:      %s (%v)\n", color.RedString("недоступен"), err)
			case res.TotalKnown:
				fmt.Fprintf(out, "Сервер:      %s, линз: %d\n", color.GreenString("доступен"), res.Total)
			default:
				fmt.Fprintf(out, "Сервер:      %s, число линз неизвестно\n", color.GreenString("доступен"))
			}

			snap, err := app.LastSnapshot(cmd.Context())
			if err != nil {
				return err
			}
			if snap == nil {
				fmt.Fprintln(out, "Локальная копия: нет (выполните lensadmin lenses pull)")
				return nil
			}
			fmt.Fprintf(out, "Локальная копия: %d линз, выгружена %s с %s\n",
				snap.Total, snap.PulledAt.Local().Format(time.DateTime), snap.APIURL)
			return nil
		},
	}
}
