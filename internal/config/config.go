package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// The values are read by viper from a config file or environment variables.
type Config struct {
	AppName    string           `mapstructure:"APP_NAME"`
	AppVersion string           `mapstructure:"APP_VERSION"`
	LogLevel   string           `mapstructure:"LOG_LEVEL"`
	Database   DatabaseConfig   `mapstructure:"DATABASE"`
	Redis      RedisConfig      `mapstructure:"REDIS"`
	Kafka      KafkaConfig      `mapstructure:"KAFKA"`
	Pagination PaginationConfig `mapstructure:"PAGINATION"`
}

// DatabaseConfig holds configuration for the database.
type DatabaseConfig struct {
	Type     string `mapstructure:"TYPE"`
	Host     string `mapstructure:"HOST"`
	Port     int    `mapstructure:"PORT"`
	User     string `mapstructure:"USER"`
	Password string `mapstructure:"PASSWORD"`
	DBName   string `mapstructure:"DB_NAME"`
	SSLMode  string `mapstructure:"SSL_MODE"`
}

// RedisConfig holds configuration for Redis.
type RedisConfig struct {
	Addr     string        `mapstructure:"ADDR"`
	Password string        `mapstructure:"PASSWORD"`
	DB       int           `mapstructure:"DB"`
	CacheTTL time.Duration `mapstructure:"CACHE_TTL"` // TTL for cached reaction tallies
}

// KafkaConfig holds configuration for Kafka.
type KafkaConfig struct {
	Brokers            []string `mapstructure:"BROKERS"`
	ClientID           string   `mapstructure:"CLIENT_ID"`
	NotificationsTopic string   `mapstructure:"NOTIFICATIONS_TOPIC"` // post-mutation notification events
	ConsumerGroup      string   `mapstructure:"CONSUMER_GROUP"`      // cmd/notifier consumer group
	Protocol           string   `mapstructure:"PROTOCOL"`
}

// PaginationConfig holds defaults for list operations.
type PaginationConfig struct {
	DefaultPageSize int `mapstructure:"DEFAULT_PAGE_SIZE"`
	MaxPageSize     int `mapstructure:"MAX_PAGE_SIZE"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (config Config, err error) {
	v := viper.New()

	v.SetDefault("APP_NAME", "Social-Go")
	v.SetDefault("APP_VERSION", "0.0.1")
	v.SetDefault("LOG_LEVEL", "info")

	// Database defaults (PostgreSQL)
	v.SetDefault("DATABASE.TYPE", "postgres")
	v.SetDefault("DATABASE.HOST", "localhost")
	v.SetDefault("DATABASE.PORT", 5432)
	v.SetDefault("DATABASE.USER", "postgres")
	v.SetDefault("DATABASE.PASSWORD", "password")
	v.SetDefault("DATABASE.DB_NAME", "social_go_db")
	v.SetDefault("DATABASE.SSL_MODE", "disable")

	// Redis defaults
	v.SetDefault("REDIS.ADDR", "localhost:6379")
	v.SetDefault("REDIS.PASSWORD", "")
	v.SetDefault("REDIS.DB", 0)
	v.SetDefault("REDIS.CACHE_TTL", 5*time.Minute)

	// Kafka defaults
	v.SetDefault("KAFKA.BROKERS", []string{"localhost:9092"})
	v.SetDefault("KAFKA.CLIENT_ID", "social-go-client")
	v.SetDefault("KAFKA.NOTIFICATIONS_TOPIC", "social-notifications")
	v.SetDefault("KAFKA.CONSUMER_GROUP", "social-notifier-group")
	v.SetDefault("KAFKA.PROTOCOL", "plaintext")

	// Pagination defaults
	v.SetDefault("PAGINATION.DEFAULT_PAGE_SIZE", 10)
	v.SetDefault("PAGINATION.MAX_PAGE_SIZE", 100)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.AutomaticEnv()
	// Nested keys map to env vars with underscores: DATABASE.HOST -> DATABASE_HOST.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err = v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Config file was found but another error was produced.
			return
		}
		// Config file not found; defaults plus env vars are enough.
		err = nil
	}

	err = v.Unmarshal(&config)
	return
}
