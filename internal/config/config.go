package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

// DefaultSchedule fires at midnight on the first day of every month.
const DefaultSchedule = "0 0 1 * *"

// Config is the typed view of the process environment.
type Config struct {
	Env           string
	Port          string
	JWTSecret     string
	CardCipherKey string
	DB            DBConfig
	Redis         RedisConfig
	Cache         CacheConfig
	Reconcile     ReconcileConfig
}

// DBConfig holds the PostgreSQL connection and pool settings.
type DBConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// DSN renders the connection string understood by the gorm postgres driver.
func (c DBConfig) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		c.Host, c.User, c.Password, c.Name, c.Port)
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type CacheConfig struct {
	// CollectionTTL applies to card and policy collections. Reference
	// collections (banks, account types, companies) never expire.
	CollectionTTL time.Duration
}

// ReconcileConfig drives the status reconciliation scheduler.
type ReconcileConfig struct {
	CardSchedule   string
	PolicySchedule string
	Location       *time.Location
	RunOnStartup   bool
	// LeaseTTL caps how long a sweep holds its cross-process lease.
	LeaseTTL time.Duration
}

// LoadEnv loads variables from a .env file if present.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file found: %v", err)
	}
}

// Load reads the environment into a Config and validates the parts that
// would otherwise fail late (timezone, cron expressions, cipher key).
func Load() (*Config, error) {
	cfg := &Config{
		Env:           GetEnv("ENV", "development"),
		Port:          GetEnv("PORT", "3000"),
		JWTSecret:     GetEnv("JWT_SECRET", ""),
		CardCipherKey: GetEnv("CARD_CIPHER_KEY", ""),
		DB: DBConfig{
			Host:            GetEnv("DB_HOST", "localhost"),
			Port:            GetEnv("DB_PORT", "5432"),
			User:            GetEnv("DB_USER", "postgres"),
			Password:        GetEnv("DB_PASSWORD", "postgres"),
			Name:            GetEnv("DB_NAME", "agency"),
			MaxIdleConns:    GetIntEnv("DB_MAX_IDLE_CONNS", 10),
			MaxOpenConns:    GetIntEnv("DB_MAX_OPEN_CONNS", 100),
			ConnMaxLifetime: GetDurationEnv("DB_CONN_MAX_LIFETIME", time.Hour),
			ConnMaxIdleTime: GetDurationEnv("DB_CONN_MAX_IDLE_TIME", 30*time.Minute),
		},
		Redis: RedisConfig{
			Host:     GetEnv("REDIS_HOST", "localhost"),
			Port:     GetEnv("REDIS_PORT", "6379"),
			Password: GetEnv("REDIS_PASSWORD", ""),
			DB:       GetIntEnv("REDIS_DB", 0),
		},
		Cache: CacheConfig{
			CollectionTTL: GetDurationEnv("CACHE_COLLECTION_TTL", 32400*time.Second),
		},
		Reconcile: ReconcileConfig{
			CardSchedule:   GetEnv("RECONCILE_CARD_SCHEDULE", DefaultSchedule),
			PolicySchedule: GetEnv("RECONCILE_POLICY_SCHEDULE", DefaultSchedule),
			RunOnStartup:   GetBoolEnv("RECONCILE_ON_STARTUP", true),
			LeaseTTL:       GetDurationEnv("RECONCILE_LEASE_TTL", 2*time.Hour),
		},
	}

	loc, err := time.LoadLocation(GetEnv("RECONCILE_TIMEZONE", "UTC"))
	if err != nil {
		return nil, fmt.Errorf("invalid RECONCILE_TIMEZONE: %w", err)
	}
	cfg.Reconcile.Location = loc

	if _, err := cron.ParseStandard(cfg.Reconcile.CardSchedule); err != nil {
		return nil, fmt.Errorf("invalid RECONCILE_CARD_SCHEDULE %q: %w", cfg.Reconcile.CardSchedule, err)
	}
	if _, err := cron.ParseStandard(cfg.Reconcile.PolicySchedule); err != nil {
		return nil, fmt.Errorf("invalid RECONCILE_POLICY_SCHEDULE %q: %w", cfg.Reconcile.PolicySchedule, err)
	}

	if cfg.IsProduction() {
		if cfg.JWTSecret == "" {
			return nil, fmt.Errorf("JWT_SECRET must be set in production")
		}
		if cfg.CardCipherKey == "" {
			return nil, fmt.Errorf("CARD_CIPHER_KEY must be set in production")
		}
	}

	return cfg, nil
}

// IsProduction checks if the app runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// GetEnv returns an environment variable or a default value.
func GetEnv(key, defaultVal string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return defaultVal
}

// GetIntEnv returns an int environment variable or a default value.
func GetIntEnv(key string, defaultVal int) int {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

// GetBoolEnv returns a bool environment variable or a default value.
func GetBoolEnv(key string, defaultVal bool) bool {
	if val, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}

// GetDurationEnv returns a duration environment variable or a default value.
func GetDurationEnv(key string, defaultVal time.Duration) time.Duration {
	if val, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}
