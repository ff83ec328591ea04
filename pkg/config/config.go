package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

type Config struct {
	Port              string
	Storage           string
	DatabaseURL       string
	MigrateOnStart    bool
	JWTSecret         string
	JWTIssuer         string
	JWTTTLMinutes     int
	BcryptCost        int
	HashWorkers       int
	PasswordMinLength int
	LogFormat         string
	LogLevel          string
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
}

// Load reads environment variables, optionally from a .env file if present.
func Load() Config {
	// Try to load .env if it exists; ignore error if file not found
	_ = godotenv.Load()

	cfg := Config{
		Port:              getEnv("PORT", "8080"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		MigrateOnStart:    getEnvBool("MIGRATE_ON_START", true),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		JWTIssuer:         getEnv("JWT_ISSUER", "webshop"),
		JWTTTLMinutes:     getEnvInt("JWT_TTL_MINUTES", 24*60),
		BcryptCost:        getEnvInt("BCRYPT_COST", 12),
		HashWorkers:       getEnvInt("HASH_WORKERS", 0),
		PasswordMinLength: getEnvInt("PASSWORD_MIN_LENGTH", 6),
		LogFormat:         getEnv("LOG_FORMAT", "json"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		ReadTimeout:       getEnvDuration("HTTP_READ_TIMEOUT", 10*time.Second),
		WriteTimeout:      getEnvDuration("HTTP_WRITE_TIMEOUT", 10*time.Second),
	}
	cfg.Storage = strings.ToLower(getEnv("STORAGE", ""))
	if cfg.Storage == "" {
		cfg.Storage = StorageMemory
		if cfg.DatabaseURL != "" {
			cfg.Storage = StoragePostgres
		}
	}
	return cfg
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	switch c.Storage {
	case StorageMemory:
	case StoragePostgres:
		if c.DatabaseURL == "" {
			return errors.New("config: DATABASE_URL is required when STORAGE=postgres")
		}
	default:
		return fmt.Errorf("config: unknown STORAGE %q", c.Storage)
	}
	if c.JWTSecret != "" && len(c.JWTSecret) < 32 {
		return errors.New("config: JWT_SECRET must be at least 32 bytes")
	}
	if c.JWTTTLMinutes <= 0 {
		return errors.New("config: JWT_TTL_MINUTES must be positive")
	}
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		return errors.New("config: BCRYPT_COST must be between 4 and 31")
	}
	if c.HashWorkers < 0 {
		return errors.New("config: HASH_WORKERS must not be negative")
	}
	if c.PasswordMinLength < 1 {
		return errors.New("config: PASSWORD_MIN_LENGTH must be positive")
	}
	return nil
}

// TokenTTL is the lifetime of issued session tokens.
func (c Config) TokenTTL() time.Duration {
	return time.Duration(c.JWTTTLMinutes) * time.Minute
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return def
}
