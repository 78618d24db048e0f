package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"
)

const (
	DefaultAPIURL         = "http://localhost:8000/api/inventory"
	defaultEnv            = EnvLocal
	defaultConfigDir      = ".lensadmin"
	defaultRequestTimeout = 30
	defaultPageSize       = 10
	dataFileName          = "lenses.db"
)

type Config struct {
	Env              string `mapstructure:"app_env"`
	APIURL           string `mapstructure:"api_url"`
	LogLevel         string `mapstructure:"log_level"`
	RequestTimeout   int    `mapstructure:"request_timeout_seconds"`
	PageSize         int    `mapstructure:"page_size"`
	FilterValidation bool   `mapstructure:"filter_validation"`
	ConfigDir        string `mapstructure:"config_dir"`
	DataPath         string `mapstructure:"data_path"`
}

// Load загружает конфигурацию клиента из .env, переменных окружения
// и (если указан) YAML-файла configFile.
func Load(configFile string) (*Config, error) {
	loadDotEnv()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("APP_ENV", defaultEnv)
	v.SetDefault("API_URL", DefaultAPIURL)
	// Пустой уровень - уровень по умолчанию для окружения
	v.SetDefault("LOG_LEVEL", "")
	v.SetDefault("REQUEST_TIMEOUT_SECONDS", defaultRequestTimeout)
	v.SetDefault("PAGE_SIZE", defaultPageSize)
	v.SetDefault("FILTER_VALIDATION", false)
	v.SetDefault("CONFIG_DIR", defaultConfigDir)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, defaultConfigDir))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("ошибка чтения файла конфигурации: %w", err)
		}
		// Конфиг не найден, используем значения по умолчанию
	}

	configDir := v.GetString("CONFIG_DIR")
	if configDir == defaultConfigDir {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			homeDir = "."
		}
		configDir = filepath.Join(homeDir, configDir)
	}

	dataPath := v.GetString("DATA_PATH")
	if dataPath == "" {
		dataPath = filepath.Join(configDir, dataFileName)
	}

	cfg := &Config{
		Env:              v.GetString("APP_ENV"),
		APIURL:           v.GetString("API_URL"),
		LogLevel:         v.GetString("LOG_LEVEL"),
		RequestTimeout:   v.GetInt("REQUEST_TIMEOUT_SECONDS"),
		PageSize:         v.GetInt("PAGE_SIZE"),
		FilterValidation: v.GetBool("FILTER_VALIDATION"),
		ConfigDir:        configDir,
		DataPath:         dataPath,
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("ошибка конфигурации: %w", err)
	}

	return cfg, nil
}

// MustLoad как Load, но паникует при ошибке.
func MustLoad() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(err)
	}
	return cfg
}

func loadDotEnv() {
	// Ищем .env относительно места запуска
	envPath := ".env"
	if _, err := os.Stat(envPath); os.IsNotExist(err) {
		envPath = "../.env"
	}

	if _, err := os.Stat(envPath); err == nil {
		if err := godotenv.Load(envPath); err != nil {
			fmt.Fprintf(os.Stderr, "Ошибка загрузки .env файла: %v\n", err)
		}
	}
}

func (c *Config) Validate() error {
	switch c.Env {
	case EnvLocal, EnvDev, EnvProd:
	default:
		return fmt.Errorf("неизвестное окружение app_env: %q", c.Env)
	}

	if c.APIURL == "" {
		return errors.New("api_url не может быть пустым")
	}
	u, err := url.Parse(c.APIURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("api_url должен быть абсолютным URL: %q", c.APIURL)
	}

	if c.PageSize < 1 {
		return fmt.Errorf("page_size должен быть больше нуля: %d", c.PageSize)
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("request_timeout_seconds не может быть отрицательным: %d", c.RequestTimeout)
	}

	return nil
}

// EnsureDirs создает директорию конфигурации и директорию локальной базы.
func (c *Config) EnsureDirs() error {
	if err := os.MkdirAll(c.ConfigDir, 0700); err != nil {
		return fmt.Errorf("ошибка создания директории конфигурации: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(c.DataPath), 0700); err != nil {
		return fmt.Errorf("ошибка создания директории данных: %w", err)
	}
	return nil
}

// Timeout возвращает таймаут HTTP-запросов; 0 - без таймаута.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.RequestTimeout) * time.Second
}

// IsProd проверяет, prod ли окружение
func (c *Config) IsProd() bool {
	return c.Env == EnvProd
}

// IsDev проверяет, dev ли окружение
func (c *Config) IsDev() bool {
	return c.Env == EnvDev
}

// IsLocal проверяет, local ли окружение
func (c *Config) IsLocal() bool {
	return c.Env == EnvLocal || c.Env == ""
}
