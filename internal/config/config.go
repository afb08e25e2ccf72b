// Package config предоставялет структуры и функции для парсинга и загрузки конфига.
//
// Конфиг читается из YAML-файла, путь к которому задаётся переменной CONFIG_PATH,
// значения из окружения перекрывают значения из файла. Перед чтением подгружается
// файл .env, если он существует.
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Окружения запуска.
const (
	EnvLocal       = "local"
	EnvDevelopment = "development"
	EnvTesting     = "testing"
	EnvProduction  = "production"
)

// Драйверы хранилища.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// DefaultSessionSecret используется только вне production.
const DefaultSessionSecret = "dev-secret-key"

// Config общая структура для хранения настроек.
type Config struct {
	Env             string `yaml:"env" env:"APP_ENV" env-default:"development"`
	Storage         `yaml:"storage"`
	HTTPServer      `yaml:"http_server"`
	GRPCHealth      `yaml:"grpc_health"`
	RedisConnection `yaml:"redis_connection"`
	RabbitMQ        `yaml:"rabbitmq"`
	Session         `yaml:"session"`
	SMTP            `yaml:"smtp"`
	RateLimit       `yaml:"rate_limit"`
}

// Storage структура для настройки хранилища.
type Storage struct {
	Driver         string `yaml:"driver" env:"STORAGE_DRIVER" env-default:"sqlite"`
	DSN            string `yaml:"dsn" env:"DATABASE_URL" env-default:"news_flash.db"`
	SkipMigrations bool   `yaml:"skip_migrations" env:"STORAGE_SKIP_MIGRATIONS"`
}

// HTTPServer структура для настройки сервера.
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp" env:"HTTP_ADDRESS" env-default:"127.0.0.1:5000"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp" env-default:"5s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// GRPCHealth структура для настройки gRPC health-сервера. Пустой адрес отключает сервер.
type GRPCHealth struct {
	AddressGRPC   string        `yaml:"addressgrpc" env:"GRPC_HEALTH_ADDRESS"`
	CheckInterval time.Duration `yaml:"check_interval" env-default:"10s"`
}

// RedisConnection структура для настройки подключения к redis. Пустой адрес отключает кеш.
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis" env:"REDIS_ADDRESS"`
	Password     string        `yaml:"password" env:"REDIS_PASSWORD"`
	User         string        `yaml:"user"`
	DB           int           `yaml:"db"`
	MaxRetries   int           `yaml:"max_retries" env-default:"3"`
	DialTimeout  time.Duration `yaml:"dial_timeout" env-default:"5s"`
	TimeoutRedis time.Duration `yaml:"timeoutredis" env-default:"3s"`
	ListTTL      time.Duration `yaml:"list_ttl" env-default:"1m"`
}

// RabbitMQ структура для настройки брокера. Пустой URL отключает публикацию событий.
type RabbitMQ struct {
	URL        string        `yaml:"url" env:"RABBITMQ_URL"`
	MaxRetries int           `yaml:"max_retries" env-default:"5"`
	RetryDelay time.Duration `yaml:"retry_delay" env-default:"2s"`
	Workers    int           `yaml:"workers" env-default:"4"`
}

// Session структура для настройки сессий администратора.
type Session struct {
	SecretKey  string        `yaml:"secret_key" env:"SECRET_KEY" env-default:"dev-secret-key"`
	TTL        time.Duration `yaml:"ttl" env-default:"12h"`
	CookieName string        `yaml:"cookie_name" env-default:"newsletter_session"`
	Secure     bool          `yaml:"secure" env:"SESSION_COOKIE_SECURE"`
}

// SMTP структура для настройки отправки писем.
type SMTP struct {
	SMTPHost string `yaml:"host" env:"SMTP_HOST"`
	SMTPPort string `yaml:"port" env:"SMTP_PORT" env-default:"587"`
	SMTPUser string `yaml:"user" env:"SMTP_USER"`
	SMTPPass string `yaml:"password" env:"SMTP_PASSWORD"`
	SMTPFrom string `yaml:"from" env:"SMTP_FROM"`
}

// RateLimit структура для ограничения попыток входа с одного адреса.
type RateLimit struct {
	LoginRPS   float64 `yaml:"login_rps" env-default:"0.2"`
	LoginBurst int     `yaml:"login_burst" env-default:"5"`
	// TrustProxyHeaders включает разбор X-Forwarded-For и X-Real-IP.
	// Включать только за доверенным reverse proxy.
	TrustProxyHeaders bool `yaml:"trust_proxy_headers" env:"TRUST_PROXY_HEADERS" env-default:"false"`
}

// Load читает конфиг из файла path и переменных окружения.
// Пустой path означает чтение только из окружения.
func Load(path string) (*Config, error) {
	const op = "config.Load"

	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			return nil, fmt.Errorf("%s: load .env: %w", op, err)
		}
	}

	var cfg Config
	if path == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	} else {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: file %s does not exist", op, path)
		}
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &cfg, nil
}

// MustLoad загружает конфиг по пути из CONFIG_PATH и завершает процесс при ошибке.
func MustLoad() *Config {
	cfg, err := Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return cfg
}

// Validate проверяет согласованность настроек.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	if c.Storage.DSN == "" {
		return errors.New("storage dsn is empty")
	}
	if c.IsProduction() && (c.Session.SecretKey == "" || c.Session.SecretKey == DefaultSessionSecret) {
		return errors.New("session secret_key must be set in production")
	}
	if c.Session.TTL <= 0 {
		return errors.New("session ttl must be positive")
	}
	return nil
}

// IsProduction сообщает, запущен ли сервис в production-окружении.
func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

func (c *Config) String() string {
	return fmt.Sprintf(
		"Env: %s\n"+
			"Storage:\n"+
			"  Driver: %s\n"+
			"  SkipMigrations: %t\n"+
			"HTTPServer:\n"+
			"  Address: %s\n"+
			"  Timeout: %s\n"+
			"  IdleTimeout: %s\n"+
			"GRPCHealth:\n"+
			"  Address: %s\n"+
			"RedisConnection:\n"+
			"  Addr: %s\n"+
			"  DB: %d\n"+
			"RabbitMQ enabled: %t\n"+
			"Session:\n"+
			"  TTL: %s\n"+
			"  Secure: %t\n",
		c.Env,
		c.Storage.Driver,
		c.Storage.SkipMigrations,
		c.AddressHTTP,
		c.TimeoutHTTP,
		c.IdleTimeout,
		c.AddressGRPC,
		c.AddressRedis,
		c.DB,
		c.RabbitMQ.URL != "",
		c.Session.TTL,
		c.Session.Secure,
	)
}
