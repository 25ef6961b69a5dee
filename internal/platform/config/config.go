package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	LedgerBackendFile     = "file"
	LedgerBackendPostgres = "postgres"
)

type Config struct {
	Addr                 string
	Environment          string
	LogLevel             string
	LedgerBackend        string
	LedgerPath           string
	DatabaseURL          string
	RunMigrations        bool
	JWTSecret            string
	TokenTTL             time.Duration
	OperatorID           string
	OperatorPasswordHash string
	OwnerAName           string
	OwnerBName           string
	MaxUploadBytes       int64
	MetricsEnabled       bool
}

type lookupFunc func(key string) string

func Load() Config {
	return load(os.Getenv)
}

// LoadFile reads a YAML file keyed by the environment variable names, for
// example "LEDGER_PATH: /var/lib/dailypay/state.json". Environment variables
// still take precedence over the file.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	values := map[string]string{}
	if err := yaml.Unmarshal(data, &values); err != nil {
		return Config{}, fmt.Errorf("config: decode %s: %w", path, err)
	}
	return load(func(key string) string {
		if value := os.Getenv(key); value != "" {
			return value
		}
		return values[key]
	}), nil
}

// FromEnvironment loads CONFIG_FILE when it is set and falls back to the
// environment alone otherwise.
func FromEnvironment() (Config, error) {
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		return LoadFile(path)
	}
	return Load(), nil
}

func load(lookup lookupFunc) Config {
	return Config{
		Addr:                 lookup.getEnv("APP_ADDR", ":8080"),
		Environment:          lookup.getEnv("APP_ENV", "development"),
		LogLevel:             lookup.getEnv("LOG_LEVEL", "info"),
		LedgerBackend:        strings.ToLower(lookup.getEnv("LEDGER_BACKEND", LedgerBackendFile)),
		LedgerPath:           lookup.getEnv("LEDGER_PATH", "state.json"),
		DatabaseURL:          lookup.getEnv("DATABASE_URL", ""),
		RunMigrations:        lookup.getEnvBool("RUN_MIGRATIONS", true),
		JWTSecret:            lookup.getEnv("JWT_SECRET", ""),
		TokenTTL:             lookup.getEnvDuration("TOKEN_TTL", 12*time.Hour),
		OperatorID:           lookup.getEnv("OPERATOR_ID", ""),
		OperatorPasswordHash: lookup.getEnv("OPERATOR_PASSWORD_HASH", ""),
		OwnerAName:           lookup.getEnv("OWNER_A_NAME", "Ivan"),
		OwnerBName:           lookup.getEnv("OWNER_B_NAME", "Julian"),
		MaxUploadBytes:       lookup.getEnvInt64("MAX_UPLOAD_BYTES", 10<<20),
		MetricsEnabled:       lookup.getEnvBool("METRICS_ENABLED", true),
	}
}

func (l lookupFunc) getEnv(key, fallback string) string {
	if value := l(key); value != "" {
		return value
	}
	return fallback
}

func (l lookupFunc) getEnvBool(key string, fallback bool) bool {
	value := l(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func (l lookupFunc) getEnvInt64(key string, fallback int64) int64 {
	value := l(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func (l lookupFunc) getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := l(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

// ValidateLedger checks only what is needed to open the ledger, for tools
// that do not serve HTTP.
func (c Config) ValidateLedger() error {
	switch c.LedgerBackend {
	case LedgerBackendFile:
		if strings.TrimSpace(c.LedgerPath) == "" {
			return fmt.Errorf("LEDGER_PATH is required for the file ledger")
		}
	case LedgerBackendPostgres:
		if strings.TrimSpace(c.DatabaseURL) == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres ledger")
		}
	default:
		return fmt.Errorf("LEDGER_BACKEND must be %q or %q", LedgerBackendFile, LedgerBackendPostgres)
	}
	return nil
}

func (c Config) Validate() error {
	if err := c.ValidateLedger(); err != nil {
		return err
	}
	if strings.TrimSpace(c.JWTSecret) == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.Environment == "production" && len(c.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters in production")
	}
	if strings.TrimSpace(c.OperatorID) == "" {
		return fmt.Errorf("OPERATOR_ID is required")
	}
	if strings.TrimSpace(c.OperatorPasswordHash) == "" {
		return fmt.Errorf("OPERATOR_PASSWORD_HASH is required")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive")
	}
	if c.MaxUploadBytes < 1024 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be at least 1024")
	}
	return nil
}
