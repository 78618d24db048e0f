package lenses

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// NewCommand - родительская команда для всех операций с линзами
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "lenses",
		Aliases: []string{"lens"},
		Short:   "Управление линзами",
		Long:    `Просмотр, создание и редактирование позиций складского учета линз.`,
	}

	cmd.AddCommand(
		newListCmd(),
		newShowCmd(),
		newCreateCmd(),
		newEditCmd(),
		newDeleteCmd(),
		newPullCmd(),
		newSeedCmd(),
	)

	return cmd
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("некорректный id: %q", arg)
	}
	return id, nil
}
