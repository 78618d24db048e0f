package lenses

import (
	"lensadmin/internal/app/client"
	"lensadmin/internal/domain/lens"

	"github.com/spf13/cobra"
)

func newShowCmd() *cobra.Command {
	var (
		offline bool
		format  string
	)

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Показать линзу",
		Args:  cobra.ExactArgs(1),
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

			var l *lens.Lens
			if offline {
				l, err = app.GetOffline(cmd.Context(), id)
			} else {
				l, err = app.GetLens(cmd.Context(), id)
			}
			if err != nil {
				return describe(err)
			}

			return printLens(cmd.OutOrStdout(), out, l)
		},
	}

	cmd.Flags().BoolVar(&offline, "offline", false, "читать локальную копию")
	cmd.Flags().StringVarP(&format, "format", "f", formatTable, "формат вывода (table, json, csv, yaml)")

	return cmd
}
