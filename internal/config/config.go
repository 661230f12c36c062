// Package config loads application configuration from environment
// variables.  The CLI loads a .env file first when one is present.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Store backends.
const (
	StoreMySQL  = "mysql"
	StoreMemory = "memory"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.
type Config struct {
	Env      string // APP_ENV (dev/test/prod)
	Port     string // APP_PORT
	Store    string // STORE: mysql (default) or memory
	LogLevel string // LOG_LEVEL: debug, info, warn, error

	DBUser string // DB_USER
	DBPass string // DB_PASS (empty allowed)
	DBHost string // DB_HOST
	DBPort string // DB_PORT
	DBName string // DB_NAME

	JWTSecret    string // JWT_SECRET
	AccessTTLMin int    // ACCESS_TOKEN_TTL_MIN
	BcryptCost   int    // BCRYPT_COST

	RabbitMQURL    string        // RABBITMQ_URL, empty disables event publishing
	PublishTimeout time.Duration // RABBITMQ_PUBLISH_TIMEOUT
	EventBuffer    int           // RABBITMQ_EVENT_BUFFER, events queued while the broker is slow

	Sweep SweepConfig
}

// SweepConfig controls the background completion of past bookings.  It is
// off unless explicitly enabled.
type SweepConfig struct {
	Enabled  bool   // COMPLETION_SWEEP_ENABLED
	Schedule string // COMPLETION_SWEEP_SCHEDULE, five field cron expression
}

// Load reads configuration values from environment variables.  Every
// missing or malformed required variable is reported in the returned
// error.
func Load() (Config, error) {
	r := &reader{}
	cfg := Config{
		Env:      r.must("APP_ENV"),
		Port:     r.must("APP_PORT"),
		Store:    strings.ToLower(envStr("STORE", StoreMySQL)),
		LogLevel: envStr("LOG_LEVEL", "info"),

		JWTSecret:    r.must("JWT_SECRET"),
		AccessTTLMin: r.mustInt("ACCESS_TOKEN_TTL_MIN"),
		BcryptCost:   r.mustInt("BCRYPT_COST"),

		RabbitMQURL:    os.Getenv("RABBITMQ_URL"),
		PublishTimeout: envDur("RABBITMQ_PUBLISH_TIMEOUT", 3*time.Second),
		EventBuffer:    envInt("RABBITMQ_EVENT_BUFFER", 256),

		Sweep: SweepConfig{
			Enabled:  envBool("COMPLETION_SWEEP_ENABLED", false),
			Schedule: envStr("COMPLETION_SWEEP_SCHEDULE", "0 3 * * *"),
		},
	}
	switch cfg.Store {
	case StoreMySQL:
		cfg.DBUser = r.must("DB_USER")
		cfg.DBPass = os.Getenv("DB_PASS")
		cfg.DBHost = r.must("DB_HOST")
		cfg.DBPort = r.must("DB_PORT")
		cfg.DBName = r.must("DB_NAME")
	case StoreMemory:
	default:
		r.errs = append(r.errs, fmt.Errorf("invalid STORE %q: want %s or %s", cfg.Store, StoreMySQL, StoreMemory))
	}
	return cfg, errors.Join(r.errs...)
}

// LoadDB reads only the database variables, for the db subcommands.
func LoadDB() (Config, error) {
	r := &reader{}
	cfg := Config{
		Store:    StoreMySQL,
		LogLevel: envStr("LOG_LEVEL", "info"),
		DBUser:   r.must("DB_USER"),
		DBPass:   os.Getenv("DB_PASS"),
		DBHost:   r.must("DB_HOST"),
		DBPort:   r.must("DB_PORT"),
		DBName:   r.must("DB_NAME"),
	}
	return cfg, errors.Join(r.errs...)
}

// AccessTTL is the lifetime of issued access tokens.
func (c Config) AccessTTL() time.Duration {
	return time.Duration(c.AccessTTLMin) * time.Minute
}

type reader struct{ errs []error }

// must retrieves the value of a required environment variable.
func (r *reader) must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		r.errs = append(r.errs, fmt.Errorf("missing required env var: %s", key))
	}
	return v
}

// mustInt is like must() but converts the retrieved string into an integer.
func (r *reader) mustInt(key string) int {
	s := r.must(key)
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("invalid int for %s: %q", key, s))
	}
	return n
}
