package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Config конфигурация сервиса
type Config struct {
	Server         ServerConfig         `toml:"server"`
	Database       DatabaseConfig       `toml:"database"`
	Logs           LogsConfig           `toml:"logs"`
	Metrics        MetricsConfig        `toml:"metrics"`
	Redis          RedisConfig          `toml:"redis"`
	RabbitMQ       RabbitMQConfig       `toml:"rabbitmq"`
	PaymentService PaymentServiceConfig `toml:"payment_service"`
	GeoService     GeoServiceConfig     `toml:"geo_service"`
	Billing        BillingConfig        `toml:"billing"`
}

// ServerConfig настройки HTTP сервера
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`     // секунды
	WriteTimeout    int `toml:"write_timeout"`    // секунды
	IdleTimeout     int `toml:"idle_timeout"`     // секунды
	ShutdownTimeout int `toml:"shutdown_timeout"` // секунды
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

// DSN возвращает строку подключения к PostgreSQL
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// LogsConfig настройки логирования
type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// MetricsConfig настройки Prometheus метрик
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	ServiceName string `toml:"service_name"`
	Path        string `toml:"path"`
}

// RedisConfig настройки распределенных блокировок слотов.
// При выключенном Redis admission-проверки сериализует транзакция БД.
type RedisConfig struct {
	Enabled    bool   `toml:"enabled"`
	Addr       string `toml:"addr"`
	Password   string `toml:"password"`
	LockTTLSec int    `toml:"lock_ttl"` // секунды
}

// RabbitMQConfig настройки публикации доменных событий
type RabbitMQConfig struct {
	Enabled  bool   `toml:"enabled"`
	URL      string `toml:"url"`
	Exchange string `toml:"exchange"`
}

// PaymentServiceConfig настройки клиента платежного сервиса
type PaymentServiceConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"` // секунды
}

// GeoServiceConfig настройки клиента геосервиса
type GeoServiceConfig struct {
	Enabled bool   `toml:"enabled"`
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"` // секунды
	// Strict отклоняет бронирования при недоступном геосервисе;
	// по умолчанию деградация пропускает заказ без проверки
	Strict bool `toml:"strict"`
}

// ChargeConfig описание платы за выезд или платформенного сбора
type ChargeConfig struct {
	Name           string   `toml:"name"`
	Amount         int64    `toml:"amount"` // в минорных единицах
	IsTaxInclusive bool     `toml:"is_tax_inclusive"`
	TaxRatePercent *float64 `toml:"tax_rate_percent"`
}

// BillingConfig ценовая политика платформы
type BillingConfig struct {
	DefaultTaxRatePercent float64        `toml:"default_tax_rate_percent"`
	VisitingCharge        *ChargeConfig  `toml:"visiting_charge"`
	PlatformFees          []ChargeConfig `toml:"platform_fees"`
	ProviderFee           FeeConfig      `toml:"provider_fee"`
}

// FeeConfig комиссия платформы с бронирования исполнителя
type FeeConfig struct {
	Type    string  `toml:"type"`    // fixed | percentage
	Percent float64 `toml:"percent"` // для percentage
	Flat    int64   `toml:"flat"`    // для fixed, в минорных единицах
}

// Load загружает конфигурацию из TOML файла
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Server.HTTPPort <= 0 {
		return fmt.Errorf("config: server.http_port must be positive")
	}
	if c.Database.Host == "" || c.Database.DBName == "" {
		return fmt.Errorf("config: database.host and database.dbname are required")
	}
	if c.Billing.DefaultTaxRatePercent < 0 || c.Billing.DefaultTaxRatePercent > 100 {
		return fmt.Errorf("config: billing.default_tax_rate_percent must be in 0..100")
	}
	switch c.Billing.ProviderFee.Type {
	case "fixed", "percentage":
	default:
		return fmt.Errorf("config: billing.provider_fee.type must be fixed or percentage")
	}
	if c.Redis.Enabled && c.Redis.Addr == "" {
		return fmt.Errorf("config: redis.addr is required when redis is enabled")
	}
	if c.RabbitMQ.Enabled && c.RabbitMQ.URL == "" {
		return fmt.Errorf("config: rabbitmq.url is required when rabbitmq is enabled")
	}
	return nil
}
