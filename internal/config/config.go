package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const envDevelopment = "development"

// devJWTSecret is only used when APP_ENV=development and no secret is set.
const devJWTSecret = "dev-secret-change-me-0123456789abcdef"

// Config aggregates runtime configuration for the service.
type Config struct {
	App      AppConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Logger   LoggerConfig
	Auth     AuthConfig
	Cache    CacheConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	MigrationsDir  string
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level       string
	Encoding    string
	Development bool
}

// AuthConfig defines token signing parameters.
//
// VerifyUserID, VerifyServiceID and ServiceTokenTTLMinutes switch on checks
// that are off by default: user_id comparison, the serviceId claim and
// service token expiry.
type AuthConfig struct {
	JWTSecret              string
	VerifyUserID           bool
	VerifyServiceID        bool
	ServiceTokenTTLMinutes int
}

// CacheConfig controls the Redis-backed service registry cache.
type CacheConfig struct {
	ServiceRegistryTTLSeconds int
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	maxConns := int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10))
	minConns := int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2))
	runMigrations := getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true)
	connMaxIdle := int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30))
	connMaxLife := int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300))

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "authentication-service"),
			Env:                   getEnv("APP_ENV", envDevelopment),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       maxConns,
			MinConns:       minConns,
			RunMigrations:  runMigrations,
			MigrationsDir:  getEnv("POSTGRES_MIGRATIONS_DIR", "migrations"),
			ConnMaxIdleSec: connMaxIdle,
			ConnMaxLifeSec: connMaxLife,
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level:       getEnv("LOG_LEVEL", "info"),
			Encoding:    getEnv("LOG_ENCODING", "json"),
			Development: getEnv("APP_ENV", envDevelopment) == envDevelopment,
		},
		Auth: AuthConfig{
			JWTSecret:              os.Getenv("AUTH_JWT_SECRET"),
			VerifyUserID:           getEnvAsBool("AUTH_VERIFY_USER_ID", false),
			VerifyServiceID:        getEnvAsBool("AUTH_VERIFY_SERVICE_ID", false),
			ServiceTokenTTLMinutes: getEnvAsInt("AUTH_SERVICE_TOKEN_TTL_MINUTES", 0),
		},
		Cache: CacheConfig{
			ServiceRegistryTTLSeconds: getEnvAsInt("CACHE_SERVICE_REGISTRY_TTL_SECONDS", 300),
		},
	}

	if cfg.Auth.JWTSecret == "" {
		if cfg.App.Env != envDevelopment {
			return nil, errors.New("AUTH_JWT_SECRET is required")
		}
		cfg.Auth.JWTSecret = devJWTSecret
	}

	if cfg.Auth.ServiceTokenTTLMinutes < 0 {
		return nil, fmt.Errorf("invalid AUTH_SERVICE_TOKEN_TTL_MINUTES: %d", cfg.Auth.ServiceTokenTTLMinutes)
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// ServiceTokenTTL returns the optional service token lifetime; zero means
// service tokens carry no exp claim.
func (a AuthConfig) ServiceTokenTTL() time.Duration {
	if a.ServiceTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(a.ServiceTokenTTLMinutes) * time.Minute
}

// ServiceRegistryTTL returns how long service records stay cached.
func (c CacheConfig) ServiceRegistryTTL() time.Duration {
	if c.ServiceRegistryTTLSeconds <= 0 {
		return 0
	}
	return time.Duration(c.ServiceRegistryTTLSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
