// File: internal/config/config.go
package config

import "time"

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Kafka     KafkaConfig     `mapstructure:"kafka"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Payment   PaymentConfig   `mapstructure:"payment"`
	Screening ScreeningConfig `mapstructure:"screening"`
	Credit    CreditConfig    `mapstructure:"credit"`
	Cleanup   CleanupConfig   `mapstructure:"cleanup"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	// DevEndpoints exposes destructive development-only routes (verification reset).
	DevEndpoints bool `mapstructure:"dev_endpoints"`
}

type DatabaseConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	DBName         string `mapstructure:"dbname"`
	SSLMode        string `mapstructure:"sslmode"`
	AutoMigrate    bool   `mapstructure:"auto_migrate"`
	MigrationsPath string `mapstructure:"migrations_path"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type KafkaConfig struct {
	Enabled bool     `mapstructure:"enabled"`
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
	Issuer    string `mapstructure:"issuer"`
}

// PaymentConfig configures the Stripe gateway. VerificationFeeAmount is in
// minor currency units (cents).
type PaymentConfig struct {
	StripeSecretKey       string `mapstructure:"stripe_secret_key"`
	StripeWebhookSecret   string `mapstructure:"stripe_webhook_secret"`
	VerificationFeeAmount int64  `mapstructure:"verification_fee_amount"`
	Currency              string `mapstructure:"currency"`
}

type ScreeningConfig struct {
	BaseURL       string        `mapstructure:"base_url"`
	Account       string        `mapstructure:"account"`
	Username      string        `mapstructure:"username"`
	Password      string        `mapstructure:"password"`
	WebhookSecret string        `mapstructure:"webhook_secret"`
	Timeout       time.Duration `mapstructure:"timeout"`
}

type CreditConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	APIKey  string        `mapstructure:"api_key"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// CleanupConfig controls the cron job that removes abandoned NOT_STARTED and
// PENDING verification attempts. It never touches validUntil expiry, which is
// evaluated lazily on status reads.
type CleanupConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Schedule string        `mapstructure:"schedule"`
	MaxAge   time.Duration `mapstructure:"max_age"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}
