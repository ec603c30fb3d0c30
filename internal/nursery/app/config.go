package app

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

const (
	StateStoreMemory = "memory"
	StateStoreRedis  = "redis"
)

type Config struct {
	Issuer         string // Optional: issuer claim for client tokens (default: nursery)
	BootstrapToken string // Optional: token required to perform bootstrap

	DatabaseFile   string // Optional: path to SQLite database file (default: ./nursery.db)
	PepperFile     string // Optional: path to file containing pepper for password hashing (default: ./pepper)
	SigningKeyFile string // Optional: path to the Ed25519 PEM key for client tokens (default: ./signing.pem)

	StateStore string // Optional: where sign-ins live (memory, redis) (default: memory)
	RedisURL   string // Required when StateStore is redis, e.g. redis://localhost:6379/0

	ProfileTimeout       time.Duration // Profile fetch/create bound per resolution (default: 5s)
	LandingWait          time.Duration // How long /landing waits for a settled session (default: 10s)
	SessionTTL           time.Duration // Lifetime of a sign-in (default: 7 days)
	ClientIdleTimeout    time.Duration // Idle client runtimes are evicted after this (default: 30m)
	HousekeepingInterval time.Duration // Housekeeping interval (default: 1m)
	CookieSecure         bool          // Mark the client cookie Secure (default: false)

	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

// LoadEnvFile loads .env from the working directory when there is one.
// Variables already set in the environment win.
func LoadEnvFile() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env file: %w", err)
	}
	return nil
}

func LoadConfig() Config {
	cfg := Config{
		Issuer:         getEnvOrDefault("NURSERY_ISSUER", "nursery"),
		BootstrapToken: os.Getenv("BOOTSTRAP_TOKEN"), // Optional: if set, required to perform bootstrap

		DatabaseFile:   getEnvOrDefault("NURSERY_DATABASE_FILE", "nursery.db"),
		PepperFile:     getEnvOrDefault("NURSERY_PEPPER_FILE", "pepper"),
		SigningKeyFile: getEnvOrDefault("NURSERY_SIGNING_KEY_FILE", "signing.pem"),

		StateStore: strings.ToLower(getEnvOrDefault("STATE_STORE", StateStoreMemory)),
		RedisURL:   os.Getenv("REDIS_URL"),

		ProfileTimeout:       getEnvDurationOrDefault("PROFILE_TIMEOUT", 5*time.Second),
		LandingWait:          getEnvDurationOrDefault("LANDING_WAIT", 10*time.Second),
		SessionTTL:           getEnvDurationOrDefault("SESSION_TTL", 7*24*time.Hour),
		ClientIdleTimeout:    getEnvDurationOrDefault("CLIENT_IDLE_TIMEOUT", 30*time.Minute),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Minute),
		CookieSecure:         getEnvBoolOrDefault("COOKIE_SECURE", false),

		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}

	return cfg
}

// Validate reports settings that cannot work together.
func (c Config) Validate() error {
	switch c.StateStore {
	case StateStoreMemory:
	case StateStoreRedis:
		if c.RedisURL == "" {
			return errors.New("REDIS_URL is required when STATE_STORE=redis")
		}
	default:
		return fmt.Errorf("unknown STATE_STORE %q (want memory or redis)", c.StateStore)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid PORT %d", c.Port)
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if b, err := strconv.ParseBool(value); err == nil {
		return b
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Bare integers are seconds
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}

	return defaultValue
}
