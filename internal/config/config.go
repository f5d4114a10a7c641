package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	DatabaseURL        string
	RedisURL           string
	KafkaBrokers       string
	KafkaTopic         string
	OTelEndpoint       string
	Port               string
	MidtransServerKey  string
	MidtransProduction bool
	OrderDirectoryTTL  time.Duration
	ShutdownTimeout    time.Duration
}

// Load reads the configuration from the process environment.
func Load() *Config {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "3000")
	v.SetDefault("REDIS_URL", "localhost:6379")
	v.SetDefault("KAFKA_TOPIC", "balance.credited")
	v.SetDefault("MIDTRANS_PRODUCTION", false)
	v.SetDefault("ORDER_DIRECTORY_TTL", 72*time.Hour)
	v.SetDefault("SHUTDOWN_TIMEOUT", 5*time.Second)

	return &Config{
		DatabaseURL:        v.GetString("DATABASE_URL"),
		RedisURL:           v.GetString("REDIS_URL"),
		KafkaBrokers:       v.GetString("KAFKA_BROKERS"),
		KafkaTopic:         v.GetString("KAFKA_TOPIC"),
		OTelEndpoint:       v.GetString("OTEL_EXPORTER_ENDPOINT"),
		Port:               v.GetString("PORT"),
		MidtransServerKey:  v.GetString("MIDTRANS_SERVER_KEY"),
		MidtransProduction: v.GetBool("MIDTRANS_PRODUCTION"),
		OrderDirectoryTTL:  v.GetDuration("ORDER_DIRECTORY_TTL"),
		ShutdownTimeout:    v.GetDuration("SHUTDOWN_TIMEOUT"),
	}
}
