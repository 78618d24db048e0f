package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/exp/slog"

	"lensadmin/internal/app/client/config"
	"lensadmin/internal/dataprovider"
	"lensadmin/internal/domain/lens"
)

type App struct {
	config    *config.Config
	log       *slog.Logger
	provider  *dataprovider.Provider
	lenses    *dataprovider.Resource[lens.Lens]
	storage   Storage
	validator *lens.Validator
}

type options struct {
	httpClient *http.Client
	storage    Storage
}

type Option func(*options)

// WithHTTPClient подменяет HTTP-клиент адаптера.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		o.httpClient = c
	}
}

// WithStorage подменяет локальную копию (по умолчанию SQLite в cfg.DataPath).
func WithStorage(s Storage) Option {
	return func(o *options) {
		o.storage = s
	}
}

func New(cfg *config.Config, log *slog.Logger, opts ...Option) (*App, error) {
	if cfg == nil {
		return nil, errors.New("конфигурация не задана")
	}
	if log == nil {
		return nil, errors.New("логгер не задан")
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.httpClient == nil {
		o.httpClient = newHTTPClient(cfg)
	}

	provider, err := dataprovider.New(cfg.APIURL,
		dataprovider.WithHTTPClient(o.httpClient),
		dataprovider.WithLogger(log.With("component", "dataprovider")),
		dataprovider.WithFilterValidation(cfg.FilterValidation),
		dataprovider.WithUserAgent(userAgent),
	)
	if err != nil {
		return nil, fmt.Errorf("ошибка инициализации адаптера данных: %w", err)
	}

	// Инициализируем локальное хранилище (используем SQLite)
	storage := o.storage
	if storage == nil {
		storage = openStorage(cfg, log)
	}

	return &App{
		config:    cfg,
		log:       log,
		provider:  provider,
		lenses:    dataprovider.NewResource[lens.Lens](provider, lens.Resource),
		storage:   storage,
		validator: lens.NewValidator(),
	}, nil
}

func openStorage(cfg *config.Config, log *slog.Logger) Storage {
	if err := cfg.EnsureDirs(); err != nil {
		log.Warn("Не удалось создать директории, используем память", "error", err)
		return NewMemoryStorage()
	}

	sqliteStorage, err := NewSQLiteStorage(cfg.DataPath)
	if err != nil {
		log.Warn("Не удалось инициализировать SQLite, используем память", "error", err)
		return NewMemoryStorage()
	}
	return sqliteStorage
}

// APIURL возвращает адрес REST API, с которым работает клиент.
func (a *App) APIURL() string {
	return a.provider.APIURL()
}

// Config возвращает конфигурацию клиента.
func (a *App) Config() *config.Config {
	return a.config
}

func (a *App) Close() error {
	if err := a.storage.Close(); err != nil {
		return fmt.Errorf("ошибка закрытия локального хранилища: %w", err)
	}
	return nil
}

type appKey struct{}

// WithApp кладет приложение в контекст команды.
func WithApp(ctx context.Context, app *App) context.Context {
	return context.WithValue(ctx, appKey{}, app)
}

// FromContext достает приложение из контекста команды.
func FromContext(ctx context.Context) (*App, error) {
	app, ok := ctx.Value(appKey{}).(*App)
	if !ok || app == nil {
		return nil, errors.New("приложение не инициализировано")
	}
	return app, nil
}
