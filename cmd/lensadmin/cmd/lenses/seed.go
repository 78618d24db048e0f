package lenses

import (
	"errors"
	"fmt"

	"lensadmin/internal/app/client"
	"lensadmin/internal/domain/lens"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newSeedCmd() *cobra.Command {
	var (
		file     string
		fake     int
		startID  int64
		fakeSeed uint64
		perSec   float64
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Заполнить инвентарь тестовыми данными",
		Long: `Создает линзы через API, по одному запросу на запись.

Без флагов используется встроенный набор из десяти линз. --file читает
YAML-список в формате тела POST /lenses, --fake N генерирует N случайных
линз. --rate ограничивает число запросов в секунду.`,
		Example: `  lensadmin lenses seed
  lensadmin lenses seed --file lenses.yaml
  lensadmin lenses seed --fake 500 --start-id 1000 --rate 20`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := client.FromContext(cmd.Context())
			if err != nil {
				return err
			}

			if file != "" && fake > 0 {
				return errors.New("укажите либо --file, либо --fake")
			}

			var forms []lens.Form
			switch {
			case file != "":
				if forms, err = client.LoadSeedFile(file); err != nil {
					return err
				}
			case fake > 0:
				forms = client.FakeSeed(fake, startID, fakeSeed)
			default:
				forms = client.BuiltinSeed()
			}

			res, err := app.Seed(cmd.Context(), forms, client.NewSeedLimiter(perSec))
			if res != nil {
				out := cmd.OutOrStdout()
				fmt.Fprintln(out, color.GreenString("Создано линз: %d", len(res.Created)))
				if len(res.Failed) > 0 {
					fmt.Fprintln(out, color.YellowString("Не удалось создать: %d", len(res.Failed)))
					for _, f := range res.Failed {
						fmt.Fprintf(out, "  id %s: %v\n", f.ID, describe(f.Err))
					}
				}
			}
			return err
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "YAML-файл с линзами")
	cmd.Flags().IntVar(&fake, "fake", 0, "сгенерировать N случайных линз")
	cmd.Flags().Int64Var(&startID, "start-id", 1000, "первый id для --fake")
	cmd.Flags().Uint64Var(&fakeSeed, "fake-seed", 0, "зерно генератора (0 - случайное)")
	cmd.Flags().Float64Var(&perSec, "rate", 0, "запросов в секунду (0 - без ограничения)")

	return cmd
}
