package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
// All environment variables are read here and nowhere else.
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Database
	Database DatabaseConfig

	// Redis
	Redis RedisConfig

	// External data sources
	Yahoo     YahooConfig
	Exchanges map[string]ExchangeConfig

	// Screening
	Thresholds Thresholds
	Workers    int
	TopN       int

	// Cache
	CacheTTL time.Duration

	// Rate limiting
	FetchCallsPerMinute int

	// Output
	ReportDir string

	// Logging
	LogLevel  string
	LogFormat string
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	URL string

	// Connection Pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// YahooConfig holds Yahoo Finance API configuration
type YahooConfig struct {
	BaseURL string
}

// ExchangeConfig describes one stock exchange in the universe
type ExchangeConfig struct {
	Name       string
	Suffix     string // ticker suffix, e.g. ".OL"
	ListingURL string
	MIC        string // market identifier code for the Nasdaq Nordic API
}

// Thresholds holds the screening criteria thresholds
type Thresholds struct {
	MinROIC         float64 // per-year ROIC floor, exclusive
	ROICYears       int     // annual periods required for ROIC history
	GrowthYears     int     // annual periods required for growth consistency
	MaxDebtToEquity float64
	MinCFYield      float64 // FCF / revenue floor, inclusive
}

// Load reads configuration from environment variables.
// Only this function calls os.Getenv().
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("ENV", "development"),

		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 2),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", true),
		},

		Yahoo: YahooConfig{
			BaseURL: getEnv("YAHOO_BASE_URL", "https://query2.finance.yahoo.com"),
		},

		Exchanges: defaultExchanges(),

		Thresholds: Thresholds{
			MinROIC:         getEnvAsFloat("MIN_ROIC", 0.10),
			ROICYears:       getEnvAsInt("ROIC_YEARS", 6),
			GrowthYears:     getEnvAsInt("GROWTH_YEARS", 5),
			MaxDebtToEquity: getEnvAsFloat("MAX_DEBT_TO_EQUITY", 0.5),
			MinCFYield:      getEnvAsFloat("MIN_CF_YIELD", 0.05),
		},

		Workers: getEnvAsInt("SCREEN_WORKERS", 8),
		TopN:    getEnvAsInt("SCREEN_TOP_N", 10),

		CacheTTL:            getEnvAsDuration("CACHE_TTL", "24h"),
		FetchCallsPerMinute: getEnvAsInt("FETCH_CALLS_PER_MINUTE", 30),

		ReportDir: getEnv("REPORT_DIR", "output"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "console"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// defaultExchanges returns the Nordic exchanges covered by the screen
func defaultExchanges() map[string]ExchangeConfig {
	return map[string]ExchangeConfig{
		"oslo": {
			Name:       "Oslo Bors",
			Suffix:     ".OL",
			ListingURL: getEnv("OSLO_LISTING_URL", "https://live.euronext.com/pd_es/data/stocks/download?mics=XOSL"),
		},
		"stockholm": {
			Name:       "Nasdaq Stockholm",
			Suffix:     ".ST",
			ListingURL: getEnv("STOCKHOLM_LISTING_URL", "https://www.nasdaqomxnordic.com/shares/listed-companies/stockholm"),
			MIC:        "XSTO",
		},
		"copenhagen": {
			Name:       "Nasdaq Copenhagen",
			Suffix:     ".CO",
			ListingURL: getEnv("COPENHAGEN_LISTING_URL", "https://www.nasdaqomxnordic.com/shares/listed-companies/copenhagen"),
			MIC:        "XCSE",
		},
	}
}

// validate checks if required configuration values are set
func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.Workers < 1 {
		return fmt.Errorf("SCREEN_WORKERS must be >= 1")
	}

	if c.Thresholds.ROICYears < 1 || c.Thresholds.GrowthYears < 2 {
		return fmt.Errorf("invalid threshold configuration: roic_years=%d growth_years=%d",
			c.Thresholds.ROICYears, c.Thresholds.GrowthYears)
	}

	return nil
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{
		".env",
	}

	// Also try relative to executable
	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
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

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
