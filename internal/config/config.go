package config

import (
	"os"
	"strconv"
	"time"

	_ "github.com/joho/godotenv/autoload"
)

type Config struct {
	Server    ServerConfig
	Redis     RedisConfig
	MySQL     MySQLConfig
	Currency  CurrencyConfig
	Reminder  ReminderConfig
	Checkout  CheckoutConfig
	RateLimit RateLimitConfig
}

type ServerConfig struct {
	Port string
	Host string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	PoolSize int
}

type MySQLConfig struct {
	Host     string
	User     string
	Password string
	Database string
}

// CurrencyConfig controls how amounts are rendered in notifications and
// progress responses.
type CurrencyConfig struct {
	Code   string
	Locale string
}

type ReminderConfig struct {
	Interval   time.Duration
	WindowDays int
	BatchSize  int
}

type CheckoutConfig struct {
	BankName string
	BankCode string
	TTL      time.Duration
}

type RateLimitConfig struct {
	RequestsPerMinute int
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8072"),
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			PoolSize: getEnvAsInt("REDIS_POOL_SIZE", 100),
		},
		MySQL: MySQLConfig{
			Host:     getEnv("MYSQL_HOST", "localhost:3306"),
			User:     getEnv("MYSQL_USER", "sunpay"),
			Password: getEnv("MYSQL_PASSWORD", "sunpay123"),
			Database: getEnv("MYSQL_DATABASE", "sunpay"),
		},
		Currency: CurrencyConfig{
			Code:   getEnv("CURRENCY_CODE", "NGN"),
			Locale: getEnv("CURRENCY_LOCALE", "en-NG"),
		},
		Reminder: ReminderConfig{
			Interval:   getEnvAsDuration("REMINDER_INTERVAL", 1*time.Hour),
			WindowDays: getEnvAsInt("REMINDER_WINDOW_DAYS", 3),
			BatchSize:  getEnvAsInt("REMINDER_BATCH_SIZE", 500),
		},
		Checkout: CheckoutConfig{
			BankName: getEnv("CHECKOUT_BANK_NAME", "Wema Bank"),
			BankCode: getEnv("CHECKOUT_BANK_CODE", "945"),
			TTL:      getEnvAsDuration("CHECKOUT_TTL", 24*time.Hour),
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: getEnvAsInt("RATE_LIMIT_PER_MINUTE", 600),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil || value <= 0 {
		return defaultValue
	}
	return value
}
