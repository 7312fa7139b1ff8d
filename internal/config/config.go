package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Database drivers supported by the record store.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	App      AppConfig
	Store    StoreClientConfig
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DatabaseConfig holds record store persistence settings
type DatabaseConfig struct {
	Driver          string
	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	SQLitePath      string
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     string
	Password string
	DB       int
	CacheTTL time.Duration
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Environment        string
	LogLevel           string
	PublicBaseURL      string // e.g. "https://assets.example.com"
	ViewerPath         string
	QRSize             int
	FallbackInline     bool
	RateLimitEnabled   bool
	RateLimitPerMinute int
	EnableMetrics      bool
}

// StoreClientConfig points the CLI (or any remote producer) at a record store.
type StoreClientConfig struct {
	URL     string
	APIKey  string
	Timeout time.Duration
}

// Load reads configuration from environment variables.
// A .env file in the working directory is loaded first when present;
// variables already set in the environment win.
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile is Load with an explicit .env path. A missing file is not an error.
func LoadFile(envFile string) (*Config, error) {
	var err error
	if envFile != "" {
		err = godotenv.Load(envFile)
	} else {
		err = godotenv.Load()
	}
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed loading env file: %w", err)
	}

	port := getEnv("SERVER_PORT", "8080")

	cfg := &Config{
		Server: ServerConfig{
			Port:         port,
			ReadTimeout:  parseDuration("SERVER_READ_TIMEOUT", "10s"),
			WriteTimeout: parseDuration("SERVER_WRITE_TIMEOUT", "10s"),
			IdleTimeout:  parseDuration("SERVER_IDLE_TIMEOUT", "120s"),
		},
		Database: DatabaseConfig{
			Driver:          strings.ToLower(getEnv("DB_DRIVER", DriverPostgres)),
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "assetqr"),
			Password:        getEnv("DB_PASSWORD", "dev_password_123"),
			DBName:          getEnv("DB_NAME", "assetqr"),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:    parseInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    parseInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: parseDuration("DB_CONN_MAX_LIFETIME", "5m"),
			SQLitePath:      getEnv("SQLITE_PATH", "file:assets.sqlite?_journal_mode=wal"),
		},
		Redis: RedisConfig{
			Enabled:  parseBool("REDIS_ENABLED", false),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       parseInt("REDIS_DB", 0),
			CacheTTL: parseDuration("REDIS_CACHE_TTL", "1h"),
		},
		App: AppConfig{
			Environment:        getEnv("APP_ENV", "development"),
			LogLevel:           getEnv("LOG_LEVEL", "info"),
			PublicBaseURL:      strings.TrimSuffix(getEnv("PUBLIC_BASE_URL", "http://localhost:"+port), "/"),
			ViewerPath:         getEnv("VIEWER_PATH", "/view"),
			QRSize:             parseInt("QR_SIZE", 512),
			FallbackInline:     parseBool("FALLBACK_INLINE", true),
			RateLimitEnabled:   parseBool("RATE_LIMIT_ENABLED", true),
			RateLimitPerMinute: parseInt("RATE_LIMIT_REQUESTS_PER_MINUTE", 100),
			EnableMetrics:      parseBool("ENABLE_METRICS", true),
		},
		Store: StoreClientConfig{
			URL:     strings.TrimSuffix(getEnv("STORE_URL", "http://localhost:"+port), "/"),
			APIKey:  getEnv("STORE_API_KEY", ""),
			Timeout: parseDuration("STORE_TIMEOUT", "15s"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverPostgres, DriverSQLite, DriverMemory:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q (want %s, %s or %s)", c.Database.Driver, DriverPostgres, DriverSQLite, DriverMemory)
	}

	if !strings.HasPrefix(c.App.ViewerPath, "/") {
		return fmt.Errorf("VIEWER_PATH must start with '/': %q", c.App.ViewerPath)
	}

	return nil
}

// ViewerURL is the absolute URL codes point at, e.g. "http://localhost:8080/view".
func (c *AppConfig) ViewerURL() string {
	return c.PublicBaseURL + c.ViewerPath
}

// DatabaseDSN returns the PostgreSQL connection string
func (c *DatabaseConfig) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// RedisAddr returns the Redis address in host:port format
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func parseBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func parseDuration(key string, defaultValue string) time.Duration {
	value := getEnv(key, defaultValue)
	duration, err := time.ParseDuration(value)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}
	return duration
}
