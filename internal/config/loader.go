// File: internal/config/loader.go
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// LoadConfig loads configuration from an environment-keyed YAML file and
// environment variables. Environment variables use the VERIFICATION_ prefix
// with dots replaced by underscores, e.g. VERIFICATION_SERVER_PORT.
func LoadConfig() (*Config, error) {
	// Local development convenience; ignored when no .env exists.
	_ = godotenv.Load()

	setDefaults()

	env := strings.ToLower(os.Getenv("APP_ENV"))
	if env == "" {
		env = "development"
	}

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		viper.SetConfigFile(path)
	} else {
		viper.SetConfigName(fmt.Sprintf("config.%s", env))
		viper.SetConfigType("yaml")
		viper.AddConfigPath("./configs")
		viper.AddConfigPath(".")
		viper.AddConfigPath("/etc/verification-service")
	}

	viper.SetEnvPrefix("VERIFICATION")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		// Missing config file is fine, environment variables take over.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", "10s")
	viper.SetDefault("server.write_timeout", "10s")
	viper.SetDefault("server.idle_timeout", "60s")
	viper.SetDefault("server.shutdown_timeout", "15s")
	viper.SetDefault("database.sslmode", "disable")
	viper.SetDefault("database.migrations_path", "migrations")
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")
	viper.SetDefault("payment.verification_fee_amount", 2500)
	viper.SetDefault("payment.currency", "usd")
	viper.SetDefault("screening.timeout", "30s")
	viper.SetDefault("credit.timeout", "30s")
	viper.SetDefault("cleanup.schedule", "0 3 * * *")
	viper.SetDefault("cleanup.max_age", "168h")
	viper.SetDefault("metrics.enabled", true)
}
