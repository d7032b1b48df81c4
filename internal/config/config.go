package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Config конфигурация сервиса, загружается из config.toml
type Config struct {
	Server         ServerConfig         `toml:"server"`
	Database       DatabaseConfig       `toml:"database"`
	Redis          RedisConfig          `toml:"redis"`
	RabbitMQ       RabbitMQConfig       `toml:"rabbitmq"`
	PaymentGateway PaymentGatewayConfig `toml:"payment_gateway"`
	UserService    ServiceClientConfig  `toml:"user_service"`
	CatalogService ServiceClientConfig  `toml:"catalog_service"`
	Logs           LogsConfig           `toml:"logs"`
	Metrics        MetricsConfig        `toml:"metrics"`

	// Доменные таблицы ставок. Передаются в компоненты через конструкторы,
	// чтобы тесты могли подставлять свои таблицы.
	Pricing   PricingConfig   `toml:"pricing"`
	Proximity ProximityConfig `toml:"proximity"`
	Escrow    EscrowConfig    `toml:"escrow"`
	SLA       SLAConfig       `toml:"sla"`
	Matching  MatchingConfig  `toml:"matching"`
}

// ServerConfig настройки HTTP сервера
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
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
	ConnMaxLifetime int    `toml:"conn_max_lifetime"`
}

// DSN возвращает строку подключения к PostgreSQL
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// RedisConfig настройки подключения к Redis (live-локации)
type RedisConfig struct {
	Addr        string `toml:"addr"`
	Password    string `toml:"password"`
	DB          int    `toml:"db"`
	LocationTTL int    `toml:"location_ttl"` // TTL координат в секундах
}

// RabbitMQConfig настройки подключения к RabbitMQ (уведомления)
type RabbitMQConfig struct {
	URL      string `toml:"url"`
	Exchange string `toml:"exchange"`
	Enabled  bool   `toml:"enabled"`
}

// PaymentGatewayConfig настройки платежного шлюза
type PaymentGatewayConfig struct {
	PublicKey string `toml:"public_key"`
	SecretKey string `toml:"secret_key"`
	Currency  string `toml:"currency"`
	Timeout   int    `toml:"timeout"` // секунды, таймаут capture
}

// ServiceClientConfig настройки HTTP клиента внешнего сервиса
type ServiceClientConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"`
}

// LogsConfig настройки логирования
type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// MetricsConfig настройки метрик
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// PricingConfig таблицы множителей ценообразования
type PricingConfig struct {
	JobSizeMultipliers  map[string]float64 `toml:"job_size_multipliers"` // small/medium/large
	LocationMultipliers map[string]float64 `toml:"location_multipliers"` // подстрока адреса -> множитель
	DefaultMultiplier   float64            `toml:"default_multiplier"`   // для неизвестных адресов
}

// ProximityConfig параметры proximity gate
type ProximityConfig struct {
	ThresholdMeters float64 `toml:"threshold_meters"`  // порог co-presence
	MinDwellMinutes int     `toml:"min_dwell_minutes"` // минимальное непрерывное время рядом
}

// EscrowConfig параметры эскроу
type EscrowConfig struct {
	CommissionRate float64 `toml:"commission_rate"` // доля платформы, 0..1
}

// SLAConfig параметры контроля SLA
type SLAConfig struct {
	ToleranceFraction  float64 `toml:"tolerance_fraction"`   // допустимое превышение длительности, 0..1
	PenaltyRate        float64 `toml:"penalty_rate"`         // штраф за единицу превышения
	MaxPenaltyFraction float64 `toml:"max_penalty_fraction"` // максимум штрафа от net payout
}

// MatchingConfig параметры подбора исполнителей
type MatchingConfig struct {
	MaxSearchRadiusKm float64 `toml:"max_search_radius_km"`
}

// Load загружает конфигурацию из TOML файла
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("config: failed to decode %s: %w", path, err)
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
	if c.Escrow.CommissionRate < 0 || c.Escrow.CommissionRate >= 1 {
		return fmt.Errorf("config: escrow.commission_rate must be in [0, 1)")
	}
	if c.Proximity.ThresholdMeters <= 0 {
		return fmt.Errorf("config: proximity.threshold_meters must be positive")
	}
	if c.Proximity.MinDwellMinutes <= 0 {
		return fmt.Errorf("config: proximity.min_dwell_minutes must be positive")
	}
	if c.Matching.MaxSearchRadiusKm <= 0 {
		return fmt.Errorf("config: matching.max_search_radius_km must be positive")
	}
	return nil
}
