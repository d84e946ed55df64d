package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"

	DefaultJWTSecret = "jwt-secret-string"
)

type Config struct {
	Port    string
	GinMode string

	DBDriver       string
	DatabaseURL    string
	DBHost         string
	DBPort         string
	DBUser         string
	DBPassword     string
	DBName         string
	SQLitePath     string
	DBMaxOpenConns int
	DBMaxIdleConns int

	JWTSecret    string
	JWTExpiresIn time.Duration

	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	AuthRateLimit   int
	AuthRateWindow  time.Duration
	CORSAllowOrigin []string

	LogLevel  string
	LogFormat string

	OpenAIAPIKey string
	OpenAIModel  string
}

// Load reads configuration from the environment, after merging an optional .env file.
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		Port:    getEnv("PORT", "5001"),
		GinMode: getEnv("GIN_MODE", "debug"),

		DatabaseURL:    normalizeDatabaseURL(os.Getenv("DATABASE_URL")),
		DBHost:         getEnv("DB_HOST", "localhost"),
		DBPort:         os.Getenv("DB_PORT"),
		DBUser:         getEnv("DB_USER", "todouser"),
		DBPassword:     getEnv("DB_PASSWORD", "todopassword"),
		DBName:         getEnv("DB_NAME", "todoapp"),
		SQLitePath:     getEnv("SQLITE_PATH", "todoapp.db"),
		DBMaxOpenConns: getEnvInt("DB_MAX_OPEN_CONNS", 10),
		DBMaxIdleConns: getEnvInt("DB_MAX_IDLE_CONNS", 5),

		JWTSecret:    getEnv("JWT_SECRET_KEY", DefaultJWTSecret),
		JWTExpiresIn: getEnvDuration("JWT_EXPIRES_IN", 7*24*time.Hour),

		RedisAddr:       os.Getenv("REDIS_ADDR"),
		RedisPassword:   os.Getenv("REDIS_PASSWORD"),
		RedisDB:         getEnvInt("REDIS_DB", 0),
		AuthRateLimit:   getEnvInt("AUTH_RATE_LIMIT", 20),
		AuthRateWindow:  getEnvDuration("AUTH_RATE_WINDOW", time.Minute),
		CORSAllowOrigin: splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),

		OpenAIAPIKey: os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:  getEnv("OPENAI_MODEL", "gpt-4o"),
	}

	cfg.DBDriver = resolveDriver(os.Getenv("DB_DRIVER"), cfg.DatabaseURL)
	return cfg
}

// IsProduction reports whether Gin runs in release mode.
func (c *Config) IsProduction() bool {
	return c.GinMode == "release"
}

// normalizeDatabaseURL rewrites the legacy postgres:// scheme some hosts hand out.
func normalizeDatabaseURL(url string) string {
	if strings.HasPrefix(url, "postgres://") {
		return "postgresql://" + strings.TrimPrefix(url, "postgres://")
	}
	return url
}

func resolveDriver(explicit, databaseURL string) string {
	switch strings.ToLower(strings.TrimSpace(explicit)) {
	case DriverPostgres, "postgresql":
		return DriverPostgres
	case DriverMySQL:
		return DriverMySQL
	case DriverSQLite, "sqlite3":
		return DriverSQLite
	}

	switch {
	case strings.HasPrefix(databaseURL, "postgresql://"):
		return DriverPostgres
	case strings.HasPrefix(databaseURL, "mysql://"):
		return DriverMySQL
	default:
		return DriverSQLite
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return n
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return defaultValue
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
