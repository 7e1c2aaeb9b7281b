package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	// Server
	Port string

	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Cache
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Quote provider
	AlphaVantageKey string
	QuoteTimeout    time.Duration
	QuoteCacheTTL   time.Duration
	// Synthetic quotes get a shorter TTL so a real fetch is retried sooner
	// while the provider is down.
	SyntheticCacheTTL time.Duration

	// Risk analytics
	RiskCacheTTL time.Duration

	// Price update pump
	PriceUpdateInterval time.Duration
	PriceUpdateSymbols  []string
	PriceFetchDelay     time.Duration

	// Alert monitoring
	AlertCheckInterval  time.Duration
	AlertAutoDeactivate bool

	// SMTP
	SMTPHost     string
	SMTPPort     string
	SMTPUser     string
	SMTPPassword string
	SMTPFrom     string
}

var appConfig *Config

// Load loads configuration from environment variables
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	config := &Config{
		Port: getEnv("PORT", "8080"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "stocktracker"),
		DBPassword: getEnv("DB_PASSWORD", "stocktracker"),
		DBName:     getEnv("DB_NAME", "stocktracker"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       0,

		AlphaVantageKey:   getEnv("ALPHA_VANTAGE_API_KEY", ""),
		QuoteTimeout:      getDuration("QUOTE_TIMEOUT", 5*time.Second),
		QuoteCacheTTL:     getDuration("QUOTE_CACHE_TTL", 300*time.Second),
		SyntheticCacheTTL: getDuration("SYNTHETIC_CACHE_TTL", 60*time.Second),

		RiskCacheTTL: getDuration("RISK_CACHE_TTL", 24*time.Hour),

		PriceUpdateInterval: getDuration("PRICE_UPDATE_INTERVAL", 30*time.Second),
		PriceUpdateSymbols:  getSymbols("PRICE_UPDATE_SYMBOLS", []string{"AAPL", "GOOGL", "MSFT", "AMZN", "TSLA"}),
		PriceFetchDelay:     getDuration("PRICE_FETCH_DELAY", 200*time.Millisecond),

		AlertCheckInterval:  getDuration("ALERT_CHECK_INTERVAL", 60*time.Second),
		AlertAutoDeactivate: getBool("ALERT_AUTO_DEACTIVATE", false),

		SMTPHost:     getEnv("SMTP_HOST", "localhost"),
		SMTPPort:     getEnv("SMTP_PORT", "587"),
		SMTPUser:     getEnv("SMTP_USER", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		SMTPFrom:     getEnv("SMTP_FROM", "alerts@stocktracker.local"),
	}

	appConfig = config
	return config, nil
}

// Get returns the application configuration
func Get() *Config {
	if appConfig == nil {
		var err error
		appConfig, err = Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	return appConfig
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		log.Printf("Warning: invalid %s value '%s', falling back to %v\n", key, raw, defaultValue)
		return defaultValue
	}
	return d
}

func getBool(key string, defaultValue bool) bool {
	switch strings.ToLower(os.Getenv(key)) {
	case "true", "1":
		return true
	case "false", "0":
		return false
	default:
		return defaultValue
	}
}

// getSymbols parses a comma-separated watch-list, uppercasing each entry.
func getSymbols(key string, defaultValue []string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	parts := strings.Split(raw, ",")
	symbols := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.ToUpper(strings.TrimSpace(p)); s != "" {
			symbols = append(symbols, s)
		}
	}
	if len(symbols) == 0 {
		return defaultValue
	}
	return symbols
}
