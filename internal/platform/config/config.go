package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage drivers.
const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

// DefaultVaultAccountID is the system account seeded by the initial migration.
const DefaultVaultAccountID = "00000000-0000-0000-0000-000000000001"

// Config holds application configuration.
type Config struct {
	Port          string `mapstructure:"PORT"`
	IsProduction  bool   `mapstructure:"IS_PRODUCTION"`
	StorageDriver string `mapstructure:"STORAGE_DRIVER"`
	DatabaseURL   string `mapstructure:"PGSQL_URL"`
	EnableDBCheck bool   `mapstructure:"ENABLE_DB_CHECK"`
	RunMigrations bool   `mapstructure:"RUN_MIGRATIONS"`
	MigrationsDir string `mapstructure:"MIGRATIONS_DIR"`

	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	// Refresh Token Config
	RefreshTokenSecret         string
	RefreshTokenExpiryDuration time.Duration

	// Transaction engine
	LockTimeout    time.Duration
	VaultAccountID string `mapstructure:"VAULT_ACCOUNT_ID"`

	// Edge
	RateLimit          string   `mapstructure:"RATE_LIMIT"`
	LoginRateLimit     string   `mapstructure:"LOGIN_RATE_LIMIT"`
	CORSAllowedOrigins []string `mapstructure:"CORS_ALLOWED_ORIGINS"`

	// Optional infrastructure
	RedisURL         string `mapstructure:"REDIS_URL"`
	RabbitMQURL      string `mapstructure:"RABBITMQ_URL"`
	RabbitMQExchange string `mapstructure:"RABBITMQ_EXCHANGE"`
	PosthogAPIKey    string `mapstructure:"POSTHOG_API_KEY"`
	PosthogEndpoint  string `mapstructure:"POSTHOG_ENDPOINT"`

	// Bootstrap admin, created at start-up when both are set
	AdminName     string `mapstructure:"ADMIN_NAME"`
	AdminEmail    string `mapstructure:"ADMIN_EMAIL"`
	AdminPassword string `mapstructure:"ADMIN_PASSWORD"`
}

const (
	insecureJWTSecret          = "a-very-secret-key-should-be-longer-and-random"
	insecureRefreshTokenSecret = "default_insecure_refresh_secret_please_change_this"
)

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("STORAGE_DRIVER", StoragePostgres)
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("ENABLE_DB_CHECK", true)
	v.SetDefault("RUN_MIGRATIONS", true)
	v.SetDefault("MIGRATIONS_DIR", "file://migrations")
	v.SetDefault("JWT_SECRET", insecureJWTSecret)
	v.SetDefault("JWT_EXPIRY_DURATION", "15m")
	v.SetDefault("JWT_ISSUER", "bank-backoffice-api")
	v.SetDefault("REFRESH_TOKEN_SECRET", insecureRefreshTokenSecret)
	v.SetDefault("REFRESH_TOKEN_EXPIRY_DURATION", "168h")
	v.SetDefault("LOCK_TIMEOUT", "2s")
	v.SetDefault("VAULT_ACCOUNT_ID", DefaultVaultAccountID)
	v.SetDefault("RATE_LIMIT", "100-15M")
	v.SetDefault("LOGIN_RATE_LIMIT", "5-M")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("RABBITMQ_EXCHANGE", "bank.events")
	v.SetDefault("POSTHOG_ENDPOINT", "https://eu.i.posthog.com")
	v.SetDefault("ADMIN_NAME", "Administrator")
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Port:             v.GetString("PORT"),
		IsProduction:     v.GetBool("IS_PRODUCTION"),
		StorageDriver:    strings.ToLower(strings.TrimSpace(v.GetString("STORAGE_DRIVER"))),
		DatabaseURL:      v.GetString("PGSQL_URL"),
		EnableDBCheck:    v.GetBool("ENABLE_DB_CHECK"),
		RunMigrations:    v.GetBool("RUN_MIGRATIONS"),
		MigrationsDir:    v.GetString("MIGRATIONS_DIR"),
		JWTSecret:        v.GetString("JWT_SECRET"),
		JWTIssuer:        v.GetString("JWT_ISSUER"),
		VaultAccountID:   v.GetString("VAULT_ACCOUNT_ID"),
		RateLimit:        v.GetString("RATE_LIMIT"),
		LoginRateLimit:   v.GetString("LOGIN_RATE_LIMIT"),
		RedisURL:         v.GetString("REDIS_URL"),
		RabbitMQURL:      v.GetString("RABBITMQ_URL"),
		RabbitMQExchange: v.GetString("RABBITMQ_EXCHANGE"),
		PosthogAPIKey:    v.GetString("POSTHOG_API_KEY"),
		PosthogEndpoint:  v.GetString("POSTHOG_ENDPOINT"),
		AdminName:        v.GetString("ADMIN_NAME"),
		AdminEmail:       v.GetString("ADMIN_EMAIL"),
		AdminPassword:    v.GetString("ADMIN_PASSWORD"),
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	switch cfg.StorageDriver {
	case StorageMemory:
	case StoragePostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("PGSQL_URL is required when STORAGE_DRIVER=%s", StoragePostgres)
		}
	default:
		return nil, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.StorageDriver)
	}

	if cfg.JWTSecret == "" || cfg.JWTSecret == insecureJWTSecret {
		if cfg.IsProduction {
			return nil, fmt.Errorf("JWT_SECRET must be set in production")
		}
		cfg.JWTSecret = insecureJWTSecret
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	// JWT_REFRESH_SECRET is accepted as an older name for the same key.
	cfg.RefreshTokenSecret = v.GetString("REFRESH_TOKEN_SECRET")
	if legacy := v.GetString("JWT_REFRESH_SECRET"); legacy != "" && (cfg.RefreshTokenSecret == "" || cfg.RefreshTokenSecret == insecureRefreshTokenSecret) {
		cfg.RefreshTokenSecret = legacy
	}
	if cfg.RefreshTokenSecret == "" || cfg.RefreshTokenSecret == insecureRefreshTokenSecret {
		if cfg.IsProduction {
			return nil, fmt.Errorf("REFRESH_TOKEN_SECRET must be set in production")
		}
		cfg.RefreshTokenSecret = insecureRefreshTokenSecret
		log.Println("Warning: REFRESH_TOKEN_SECRET is not set, using default insecure secret. THIS IS NOT FOR PRODUCTION.")
	}

	cfg.JWTExpiryDuration = parseDuration(v, "JWT_EXPIRY_DURATION", 15*time.Minute)
	cfg.RefreshTokenExpiryDuration = parseDuration(v, "REFRESH_TOKEN_EXPIRY_DURATION", 7*24*time.Hour)
	cfg.LockTimeout = parseDuration(v, "LOCK_TIMEOUT", 2*time.Second)

	for _, origin := range strings.Split(v.GetString("CORS_ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
		}
	}

	if cfg.VaultAccountID == "" {
		log.Println("Warning: VAULT_ACCOUNT_ID is empty. Deposits and withdrawals must name both accounts.")
	}

	return cfg, nil
}

func parseDuration(v *viper.Viper, key string, fallback time.Duration) time.Duration {
	raw := v.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, fallback)
		}
		return fallback
	}
	return d
}
