package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config конфигурация сервиса
type Config struct {
	Server          ServerConfig          `toml:"server"`
	Database        DatabaseConfig        `toml:"database"`
	Logs            LogsConfig            `toml:"logs"`
	Metrics         MetricsConfig         `toml:"metrics"`
	Redis           RedisConfig           `toml:"redis"`
	Availability    AvailabilityConfig    `toml:"availability"`
	CalendarService CalendarServiceConfig `toml:"calendar_service"`
	RateLimit       RateLimitConfig       `toml:"rate_limit"`
}

// ServerConfig настройки HTTP сервера (таймауты в секундах)
type ServerConfig struct {
	HTTPPort        int      `toml:"http_port"`
	ReadTimeout     int      `toml:"read_timeout"`
	WriteTimeout    int      `toml:"write_timeout"`
	IdleTimeout     int      `toml:"idle_timeout"`
	ShutdownTimeout int      `toml:"shutdown_timeout"`
	AllowedOrigins  []string `toml:"allowed_origins"`
	AllowedHeaders  []string `toml:"allowed_headers"`
}

// DatabaseConfig настройки подключения к PostgreSQL
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

type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// RedisConfig кэш политик планирования (необязательный)
type RedisConfig struct {
	Enabled   bool   `toml:"enabled"`
	Addr      string `toml:"addr"`
	Password  string `toml:"password"`
	DB        int    `toml:"db"`
	PolicyTTL int    `toml:"policy_ttl"` // секунды
}

// AvailabilityConfig параметры расчёта доступности
type AvailabilityConfig struct {
	RequestTimeout       int  `toml:"request_timeout"` // секунды, 0 без ограничения
	MaxParallelResources int  `toml:"max_parallel_resources"`
	AllowPartialSources  bool `toml:"allow_partial_sources"`
}

// CalendarServiceConfig интеграция с внешними календарями сотрудников
type CalendarServiceConfig struct {
	Enabled bool   `toml:"enabled"`
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"` // секунды
}

type RateLimitConfig struct {
	Enabled bool    `toml:"enabled"`
	RPS     float64 `toml:"rps"`
	Burst   int     `toml:"burst"`
	// IdleTTL и CleanupInterval в секундах
	IdleTTL         int `toml:"idle_ttl"`
	CleanupInterval int `toml:"cleanup_interval"`
	// TrustForwardedFor включать только за доверенным reverse proxy
	TrustForwardedFor bool `toml:"trust_forwarded_for"`
}

// Load загружает конфигурацию из TOML файла поверх значений по умолчанию
func Load(path string) (*Config, error) {
	cfg := defaults()

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config %s: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     10,
			WriteTimeout:    30,
			IdleTimeout:     60,
			ShutdownTimeout: 15,
			AllowedOrigins:  []string{"*"},
			AllowedHeaders:  []string{"Content-Type", "Authorization", "apikey", "x-client-info"},
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs: LogsConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Enabled:     true,
			Path:        "/metrics",
			ServiceName: "smc-schedulingservice",
		},
		Redis: RedisConfig{
			Addr:      "localhost:6379",
			PolicyTTL: 300,
		},
		Availability: AvailabilityConfig{
			RequestTimeout:       20,
			MaxParallelResources: 8,
		},
		CalendarService: CalendarServiceConfig{
			Timeout: 5,
		},
		RateLimit: RateLimitConfig{
			RPS:             10,
			Burst:           20,
			IdleTTL:         600,
			CleanupInterval: 60,
		},
	}
}

func (c *Config) validate() error {
	var errs []error

	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		errs = append(errs, fmt.Errorf("server.http_port must be between 1 and 65535"))
	}
	if c.Database.DBName == "" {
		errs = append(errs, fmt.Errorf("database.dbname is required"))
	}
	if c.Database.User == "" {
		errs = append(errs, fmt.Errorf("database.user is required"))
	}
	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		errs = append(errs, fmt.Errorf("metrics.path must start with /"))
	}
	if c.Redis.Enabled && c.Redis.Addr == "" {
		errs = append(errs, fmt.Errorf("redis.addr is required when redis is enabled"))
	}
	if c.Redis.PolicyTTL <= 0 {
		errs = append(errs, fmt.Errorf("redis.policy_ttl must be positive"))
	}
	if c.Availability.RequestTimeout < 0 {
		errs = append(errs, fmt.Errorf("availability.request_timeout must not be negative"))
	}
	if c.CalendarService.Enabled && c.CalendarService.URL == "" {
		errs = append(errs, fmt.Errorf("calendar_service.url is required when the integration is enabled"))
	}
	if c.RateLimit.Enabled && (c.RateLimit.RPS <= 0 || c.RateLimit.Burst <= 0) {
		errs = append(errs, fmt.Errorf("rate_limit.rps and rate_limit.burst must be positive"))
	}
	if c.RateLimit.Enabled && (c.RateLimit.IdleTTL <= 0 || c.RateLimit.CleanupInterval <= 0) {
		errs = append(errs, fmt.Errorf("rate_limit.idle_ttl and rate_limit.cleanup_interval must be positive"))
	}

	return errors.Join(errs...)
}

// DSN строка подключения к PostgreSQL для lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

func (r RedisConfig) TTL() time.Duration {
	return time.Duration(r.PolicyTTL) * time.Second
}

func (r RateLimitConfig) IdleTTLDuration() time.Duration {
	return time.Duration(r.IdleTTL) * time.Second
}

func (r RateLimitConfig) CleanupIntervalDuration() time.Duration {
	return time.Duration(r.CleanupInterval) * time.Second
}

func (a AvailabilityConfig) Timeout() time.Duration {
	return time.Duration(a.RequestTimeout) * time.Second
}
