// cmd/lensadmin/cmd/root.go
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"lensadmin/cmd/lensadmin/cmd/lenses"
	"lensadmin/internal/app/client"
	"lensadmin/internal/app/client/config"
	"lensadmin/internal/utils/logger"

	"github.com/spf13/cobra"
)

type rootOptions struct {
	cfgFile    string
	apiURL     string
	debug      bool
	jsonOutput bool
}

// NewRootCmd собирает дерево команд lensadmin.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "lensadmin",
		Short: "LensAdmin - администрирование складского учета линз",
		Long: `LensAdmin - консольный клиент REST API складского учета линз.

Позволяет просматривать инвентарь постранично с сортировкой и фильтрами,
создавать и редактировать позиции, а также держать локальную копию
инвентаря для просмотра без сети.`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return setupApp(cmd, opts)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Глобальные флаги
	rootCmd.PersistentFlags().StringVar(&opts.cfgFile, "config", "", "конфигурационный файл (YAML)")
	rootCmd.PersistentFlags().StringVar(&opts.apiURL, "api", "", "базовый URL REST API инвентаря")
	rootCmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "включить отладочный режим")
	rootCmd.PersistentFlags().BoolVar(&opts.jsonOutput, "json", false, "вывод в формате JSON")

	rootCmd.AddCommand(lenses.NewCommand())
	rootCmd.AddCommand(newStatusCmd())

	return rootCmd
}

// Execute запускает CLI и завершает процесс с кодом 1 при ошибке.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := Run(ctx, NewRootCmd()); err != nil {
		fmt.Fprintf(os.Stderr, "Ошибка: %v\n", err)
		stop()
		os.Exit(1)
	}
}

// Run выполняет дерево команд и закрывает приложение в любом случае:
// cobra не вызывает PersistentPostRun, если команда вернула ошибку.
func Run(ctx context.Context, root *cobra.Command) error {
	err := root.ExecuteContext(ctx)

	app, appErr := client.FromContext(root.Context())
	if appErr != nil {
		return err
	}
	if closeErr := app.Close(); closeErr != nil && err == nil {
		return closeErr
	}
	return err
}

func setupApp(cmd *cobra.Command, opts *rootOptions) error {
	if skipSetup(cmd) {
		return nil
	}

	// Загружаем конфигурацию
	cfg, err := config.Load(opts.cfgFile)
	if err != nil {
		return fmt.Errorf("ошибка загрузки конфигурации: %w", err)
	}

	// Переопределяем настройки из флагов командной строки
	if opts.apiURL != "" {
		cfg.APIURL = opts.apiURL
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("ошибка конфигурации: %w", err)
		}
	}

	level := cfg.LogLevel
	if opts.debug {
		level = "debug"
	}
	log := logger.NewWithLevel(cfg.Env, level)

	// Создаем приложение
	app, err := client.New(cfg, log)
	if err != nil {
		return fmt.Errorf("ошибка инициализации приложения: %w", err)
	}

	// Корню тоже, чтобы Run закрыл приложение после выполнения.
	ctx := client.WithApp(cmd.Context(), app)
	cmd.SetContext(ctx)
	cmd.Root().SetContext(ctx)
	return nil
}

// skipSetup - справке и автодополнению приложение не нужно
func skipSetup(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		switch c.Name() {
		case "help", "completion", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
			return true
		}
	}
	return false
}
