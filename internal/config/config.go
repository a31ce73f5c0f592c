package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Режимы аутентификации
const (
	AuthModeJWT    = "jwt"
	AuthModeHeader = "header"
)

// Config конфигурация сервиса
type Config struct {
	Server      ServerConfig      `toml:"server"`
	Database    DatabaseConfig    `toml:"database"`
	Logs        LogsConfig        `toml:"logs"`
	Metrics     MetricsConfig     `toml:"metrics"`
	Tracing     TracingConfig     `toml:"tracing"`
	Auth        AuthConfig        `toml:"auth"`
	UserService UserServiceConfig `toml:"user_service"`
	Booking     BookingConfig     `toml:"booking"`
	RateLimit   RateLimitConfig   `toml:"rate_limit"`
	Storage     StorageConfig     `toml:"storage"`
	Jobs        JobsConfig        `toml:"jobs"`
}

// ServerConfig настройки HTTP сервера (таймауты в секундах)
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// DatabaseConfig настройки PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
}

// DSN строка подключения lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// LogsConfig настройки логирования
type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// MetricsConfig настройки Prometheus
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// TracingConfig настройки OpenTelemetry
type TracingConfig struct {
	Enabled      bool   `toml:"enabled"`
	ServiceName  string `toml:"service_name"`
	OTLPEndpoint string `toml:"otlp_endpoint"`
	Insecure     bool   `toml:"insecure"`
}

// AuthConfig настройки проверки principal
type AuthConfig struct {
	Mode      string `toml:"mode"` // jwt | header
	JWTSecret string `toml:"jwt_secret"`
	Issuer    string `toml:"issuer"`
}

// UserServiceConfig внешний UserService (используется в режиме header)
type UserServiceConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"` // секунды
}

// BookingConfig параметры записи
type BookingConfig struct {
	Timezone string `toml:"timezone"`
	PageSize int    `toml:"page_size"`
}

// Location часовой пояс, в котором интерпретируются дата и время записи
func (b BookingConfig) Location() (*time.Location, error) {
	return time.LoadLocation(b.Timezone)
}

// RateLimitConfig ограничение частоты создания записей (Redis)
type RateLimitConfig struct {
	Enabled       bool   `toml:"enabled"`
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
	Limit         int    `toml:"limit"`
	WindowSeconds int    `toml:"window_seconds"`
	Prefix        string `toml:"prefix"`
	FailOpen      bool   `toml:"fail_open"`
}

// StorageConfig файловое хранилище изображений услуг
type StorageConfig struct {
	ImagesDir string `toml:"images_dir"`
}

// JobsConfig фоновые задачи
type JobsConfig struct {
	StatusGaugeSpec string `toml:"status_gauge_spec"` // cron-выражение, пусто = выключено
}

// Default конфигурация по умолчанию
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     15,
			WriteTimeout:    15,
			IdleTimeout:     60,
			ShutdownTimeout: 10,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			User:            "postgres",
			DBName:          "appointments",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs: LogsConfig{Level: "info"},
		Metrics: MetricsConfig{
			Path:        "/metrics",
			ServiceName: "smc_appointment_service",
		},
		Tracing: TracingConfig{ServiceName: "smc-appointment-service"},
		Auth:    AuthConfig{Mode: AuthModeJWT},
		UserService: UserServiceConfig{
			Timeout: 5,
		},
		Booking: BookingConfig{
			Timezone: "UTC",
			PageSize: 10,
		},
		RateLimit: RateLimitConfig{
			Limit:         20,
			WindowSeconds: 60,
			Prefix:        "rl:appointments",
			FailOpen:      true,
		},
		Jobs: JobsConfig{StatusGaugeSpec: "@every 1m"},
	}
}

// Load читает .env (если есть), затем TOML файл, затем переопределения из окружения
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	overrides := map[string]*string{
		"DB_HOST":                     &c.Database.Host,
		"DB_USER":                     &c.Database.User,
		"DB_PASSWORD":                 &c.Database.Password,
		"DB_NAME":                     &c.Database.DBName,
		"JWT_SECRET":                  &c.Auth.JWTSecret,
		"REDIS_ADDR":                  &c.RateLimit.RedisAddr,
		"REDIS_PASSWORD":              &c.RateLimit.RedisPassword,
		"OTEL_EXPORTER_OTLP_ENDPOINT": &c.Tracing.OTLPEndpoint,
		"USER_SERVICE_URL":            &c.UserService.URL,
	}
	for env, target := range overrides {
		if v, ok := os.LookupEnv(env); ok && v != "" {
			*target = v
		}
	}
}

// Validate проверяет согласованность настроек
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("server.http_port out of range: %d", c.Server.HTTPPort)
	}
	if c.Database.Host == "" || c.Database.DBName == "" {
		return errors.New("database.host and database.dbname are required")
	}

	switch c.Auth.Mode {
	case AuthModeJWT:
		if c.Auth.JWTSecret == "" {
			return errors.New("auth.jwt_secret is required in jwt mode")
		}
	case AuthModeHeader:
		if c.UserService.URL == "" {
			return errors.New("user_service.url is required in header mode")
		}
	default:
		return fmt.Errorf("unknown auth.mode %q", c.Auth.Mode)
	}

	if _, err := c.Booking.Location(); err != nil {
		return fmt.Errorf("invalid booking.timezone: %w", err)
	}
	if c.Booking.PageSize <= 0 {
		return errors.New("booking.page_size must be positive")
	}
	if c.RateLimit.Enabled && c.RateLimit.RedisAddr == "" {
		return errors.New("rate_limit.redis_addr is required when rate limiting is enabled")
	}
	return nil
}
