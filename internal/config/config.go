package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"net"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	Env        string           `yaml:"env" env:"ENV" env-default:"local"` // local, dev, prod
	HTTPServer HTTPServerConfig `yaml:"http_server"`
	Database   DatabaseConfig   `yaml:"database"`
	Migrations MigrationsConfig `yaml:"migrations"`
}

// HTTPServerConfig структура http сервера
type HTTPServerConfig struct {
	Address     string        `yaml:"address" env:"HTTP_ADDRESS" env-default:"localhost:8080"`
	Timeout     time.Duration `yaml:"timeout" env-default:"4s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// DatabaseConfig параметры подключения к postgres.
// Переменные окружения DB_* всегда имеют приоритет над файлом.
type DatabaseConfig struct {
	Host     string `yaml:"host" env:"DB_HOST" env-default:"localhost"`
	Port     int    `yaml:"port" env:"DB_PORT" env-default:"5432"`
	User     string `yaml:"user" env:"DB_USER" env-required:"true"`
	Password string `yaml:"-" env:"DB_PASSWORD" env-required:"true"`
	Name     string `yaml:"name" env:"DB_NAME" env-required:"true"`
	SSLMode  string `yaml:"sslmode" env:"DB_SSLMODE" env-default:"disable"`
}

type MigrationsConfig struct {
	Path  string `yaml:"path" env:"MIGRATIONS_PATH" env-default:"./migrations"`
	Table string `yaml:"table" env-default:"migrations"`
}

var configPathFlag = flag.String("config", "", "path to config file")

// DSN собирает строку подключения для database/sql
func (d DatabaseConfig) DSN() string {
	return d.url(nil).String()
}

// MigrateDSN собирает строку подключения для golang-migrate с отдельной таблицей версий
func (d DatabaseConfig) MigrateDSN(migrationsTable string) string {
	return d.url(url.Values{"x-migrations-table": {migrationsTable}}).String()
}

func (d DatabaseConfig) url(extra url.Values) *url.URL {
	query := url.Values{"sslmode": {d.SSLMode}}
	for k, v := range extra {
		query[k] = v
	}
	return &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     net.JoinHostPort(d.Host, strconv.Itoa(d.Port)),
		Path:     "/" + d.Name,
		RawQuery: query.Encode(),
	}
}

// MustLoad - если не загружаем - паникуем.
// Файл конфигурации необязателен: без него все берется из окружения.
// flag.Parse должен быть вызван до MustLoad.
func MustLoad() *Config {
	if err := loadDotEnv(".env"); err != nil {
		panic(err)
	}

	path := fetchConfigPath()
	if path == "" {
		cfg, err := LoadEnv()
		if err != nil {
			panic(err)
		}
		return cfg
	}
	return MustLoadByPath(path)
}

func fetchConfigPath() string {
	if *configPathFlag != "" {
		return *configPathFlag
	}
	return os.Getenv("CONFIG_PATH")
}

func MustLoadByPath(configPath string) *Config {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file not found: " + configPath)
	}

	cfg, err := Load(configPath)
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load читает файл и переменные окружения
func Load(configPath string) (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("can't read config file %s: %w", configPath, err)
	}
	return &cfg, nil
}

// LoadEnv читает конфигурацию только из переменных окружения
func LoadEnv() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("can't read config from environment: %w", err)
	}
	return &cfg, nil
}

// loadDotEnv подгружает .env, если он есть; уже заданные переменные не перезаписываются
func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("can't load %s: %w", path, err)
	}
	return nil
}
