package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Revocation backends understood by AuthConfig.RevocationBackend.
const (
	RevocationBackendRedis  = "redis"
	RevocationBackendMemory = "memory"
)

const (
	envDevelopment   = "development"
	defaultJWTSecret = "dev-secret"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App          AppConfig
	Postgres     PostgresConfig
	Redis        RedisConfig
	Logger       LoggerConfig
	Auth         AuthConfig
	Notification NotificationConfig
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
	Addr        string
	Password    string
	DB          int
	OpTimeoutMs int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	JWTSecret             string
	AccessTokenTTLMinutes int
	RefreshTokenTTLHours  int
	RevocationTTLMinutes  int
	RevocationBackend     string
	LinkMaxAgeSeconds     int
	BcryptCost            int
	CookieSecure          bool
}

// NotificationConfig controls how account mail jobs leave the service.
type NotificationConfig struct {
	EmailFrom    string
	Domain       string
	KafkaBrokers []string
	KafkaTopic   string
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

	backend := strings.ToLower(getEnv("AUTH_REVOCATION_BACKEND", RevocationBackendRedis))
	if backend != RevocationBackendRedis && backend != RevocationBackendMemory {
		return nil, fmt.Errorf("invalid AUTH_REVOCATION_BACKEND: %q", backend)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "shop-service"),
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
			Addr:        getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password:    os.Getenv("REDIS_PASSWORD"),
			DB:          redisDB,
			OpTimeoutMs: getEnvAsInt("REDIS_OP_TIMEOUT_MS", 250),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			JWTSecret:             getEnv("AUTH_JWT_SECRET", defaultJWTSecret),
			AccessTokenTTLMinutes: getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_MINUTES", 30),
			RefreshTokenTTLHours:  getEnvAsInt("AUTH_REFRESH_TOKEN_TTL_HOURS", 48),
			RevocationTTLMinutes:  getEnvAsInt("AUTH_REVOCATION_TTL_MINUTES", 0),
			RevocationBackend:     backend,
			LinkMaxAgeSeconds:     getEnvAsInt("AUTH_LINK_MAX_AGE_SECONDS", 86400),
			BcryptCost:            getEnvAsInt("AUTH_BCRYPT_COST", 12),
			CookieSecure:          getEnvAsBool("AUTH_COOKIE_SECURE", true),
		},
		Notification: NotificationConfig{
			EmailFrom:    getEnv("NOTIFY_EMAIL_FROM", "noreply@example.com"),
			Domain:       getEnv("NOTIFY_DOMAIN", "http://localhost:8080/"),
			KafkaBrokers: getEnvAsList("NOTIFY_KAFKA_BROKERS"),
			KafkaTopic:   getEnv("NOTIFY_KAFKA_TOPIC", "shop.mail"),
		},
	}

	if cfg.Auth.JWTSecret == defaultJWTSecret && cfg.App.Env != envDevelopment {
		return nil, fmt.Errorf("AUTH_JWT_SECRET must be set when APP_ENV is %q", cfg.App.Env)
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

// OpTimeout bounds a single Redis round trip.
func (r RedisConfig) OpTimeout() time.Duration {
	if r.OpTimeoutMs <= 0 {
		return 250 * time.Millisecond
	}
	return time.Duration(r.OpTimeoutMs) * time.Millisecond
}

// AccessTTL returns the access token lifetime.
func (a AuthConfig) AccessTTL() time.Duration {
	if a.AccessTokenTTLMinutes <= 0 {
		return 30 * time.Minute
	}
	return time.Duration(a.AccessTokenTTLMinutes) * time.Minute
}

// RefreshTTL returns the refresh token lifetime.
func (a AuthConfig) RefreshTTL() time.Duration {
	if a.RefreshTokenTTLHours <= 0 {
		return 48 * time.Hour
	}
	return time.Duration(a.RefreshTokenTTLHours) * time.Hour
}

// RevocationTTL returns how long a blocklist entry lives. It never drops below the
// longest token lifetime, otherwise a revoked token could become valid again.
func (a AuthConfig) RevocationTTL() time.Duration {
	ttl := time.Duration(a.RevocationTTLMinutes) * time.Minute
	longest := a.RefreshTTL()
	if access := a.AccessTTL(); access > longest {
		longest = access
	}
	if ttl < longest {
		return longest
	}
	return ttl
}

// LinkMaxAge returns the server-side max age of email links.
func (a AuthConfig) LinkMaxAge() time.Duration {
	if a.LinkMaxAgeSeconds <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(a.LinkMaxAgeSeconds) * time.Second
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

func getEnvAsList(key string) []string {
	val := os.Getenv(key)
	if val == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
