package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Supported database drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	DBDriver string

	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	SQLitePath string

	ConnectRetries int
	MaxConcurrency int
	PredictChunk   int

	TestSize    float64
	SplitSeed   int64
	RidgeLambda float64

	LogLevel   string
	ExportPath string
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		DBDriver: getEnv("DB_DRIVER", DriverPostgres),

		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "sales"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "sales123"),
		PostgresDB:       getEnv("POSTGRES_DB", "big_market_sales"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		SQLitePath: getEnv("SQLITE_PATH", "./data/big_market_sales.db"),

		ConnectRetries: getEnvInt("DB_CONNECT_RETRIES", 10),
		MaxConcurrency: getEnvInt("MAX_CONCURRENCY", 4),
		PredictChunk:   getEnvInt("PREDICT_CHUNK", 500),

		TestSize:    getEnvFloat("TEST_SIZE", 0.2),
		SplitSeed:   int64(getEnvInt("SPLIT_SEED", 42)),
		RidgeLambda: getEnvFloat("RIDGE_LAMBDA", 1e-3),

		LogLevel:   getEnv("LOG_LEVEL", "info"),
		ExportPath: getEnv("EXPORT_PATH", "./output/predictions.xlsx"),
	}
}

// DSN returns the connection string for the configured driver.
func (c *Config) DSN() string {
	if c.DBDriver == DriverSQLite {
		return "file:" + c.SQLitePath + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	}
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

// Redacted returns the DSN with the password masked, for logging.
func (c *Config) Redacted() string {
	if c.DBDriver == DriverSQLite {
		return c.DSN()
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.PostgresUser, "xxxxx"),
		Host:   c.PostgresHost + ":" + c.PostgresPort,
		Path:   c.PostgresDB,
	}
	return u.String()
}

// Validate rejects settings the rest of the program cannot work with.
func (c *Config) Validate() error {
	switch c.DBDriver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("config: unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.TestSize <= 0 || c.TestSize >= 1 {
		return fmt.Errorf("config: TEST_SIZE must be in (0, 1), got %g", c.TestSize)
	}
	if c.RidgeLambda < 0 {
		return fmt.Errorf("config: RIDGE_LAMBDA must be >= 0, got %g", c.RidgeLambda)
	}
	if c.MaxConcurrency < 1 {
		return fmt.Errorf("config: MAX_CONCURRENCY must be >= 1, got %d", c.MaxConcurrency)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if val := os.Getenv(key); val != "" {
		f, err := strconv.ParseFloat(val, 64)
		if err == nil {
			return f
		}
	}
	return fallback
}
