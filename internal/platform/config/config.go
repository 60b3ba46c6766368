package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	MigrationsDir string

	// External clock service
	TimestampServiceURL     string
	TimestampServiceTimeout time.Duration

	// Event publishing (optional; empty brokers disables Kafka)
	KafkaBrokers []string
	KafkaTopic   string

	// Rate limiting, in ulule/limiter format (e.g. "100-M")
	RateLimit string

	// CORS
	AllowedOrigins []string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("MIGRATIONS_DIR", "migrations")
	viper.SetDefault("TIMESTAMP_SERVICE_URL", "")
	viper.SetDefault("TIMESTAMP_SERVICE_TIMEOUT", "2s")
	viper.SetDefault("KAFKA_BROKERS", "")
	viper.SetDefault("KAFKA_TOPIC", "transaction_completed")
	viper.SetDefault("RATE_LIMIT", "100-M")
	viper.SetDefault("ALLOWED_ORIGINS", "*")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.MigrationsDir = viper.GetString("MIGRATIONS_DIR")

	cfg.TimestampServiceURL = viper.GetString("TIMESTAMP_SERVICE_URL")
	if cfg.TimestampServiceURL == "" {
		log.Println("Warning: TIMESTAMP_SERVICE_URL not set. Transactions will carry no external timestamp.")
	}

	timeoutStr := viper.GetString("TIMESTAMP_SERVICE_TIMEOUT")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		timeout = 2 * time.Second
		if timeoutStr != "" {
			log.Printf("Warning: Invalid value for TIMESTAMP_SERVICE_TIMEOUT ('%s'). Defaulting to %s.\n", timeoutStr, timeout.String())
		}
	}
	cfg.TimestampServiceTimeout = timeout

	if brokers := viper.GetString("KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = splitAndTrim(brokers)
	}
	cfg.KafkaTopic = viper.GetString("KAFKA_TOPIC")

	cfg.RateLimit = viper.GetString("RATE_LIMIT")
	cfg.AllowedOrigins = splitAndTrim(viper.GetString("ALLOWED_ORIGINS"))

	return cfg, nil
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
