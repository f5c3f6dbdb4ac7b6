package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Defaults
const (
	DefaultPort         = 3318
	DefaultDatabaseType = "postgres"
	DefaultSessionTTL   = 30 * time.Minute
)

type Config struct {
	Port          int
	DatabaseURL   string
	DatabaseType  string
	SessionSecret string
	AdminKeyHash  string
	ReceiptSalt   string
	SessionTTL    time.Duration
}

// ParseFlags validates flags and fills the rest from the environment.
// A .env file (or the one named by -env) is loaded first; it never overrides
// variables that are already set.
func ParseFlags(args []string) (Config, error) {
	var cfg Config
	var envFile string
	var ttl string

	fs := flag.NewFlagSet("campus-vote", flag.ContinueOnError)

	fs.StringVar(&envFile, "env", ".env", "Path to an optional .env file")

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (postgres or sqlite)")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.SessionSecret, "session-secret", "", "Voter session signing secret (prefer env)")
	fs.StringVar(&cfg.AdminKeyHash, "admin-key-hash", "", "bcrypt hash of the admin key (prefer env)")
	fs.StringVar(&cfg.ReceiptSalt, "receipt-salt", "", "Receipt code and IP hash salt (prefer env)")
	fs.StringVar(&ttl, "session-ttl", "", "Voter session lifetime, e.g. 30m")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = DefaultPort
		}
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = DefaultDatabaseType
		}
	}
	if cfg.DatabaseType != "postgres" && cfg.DatabaseType != "sqlite" {
		return Config{}, fmt.Errorf("unsupported database type %q (use postgres or sqlite)", cfg.DatabaseType)
	}

	// Secrets - MUST be provided
	if cfg.SessionSecret == "" {
		cfg.SessionSecret = os.Getenv("SESSION_SECRET")
	}
	if cfg.SessionSecret == "" {
		return Config{}, errors.New("SESSION_SECRET required")
	}

	if cfg.AdminKeyHash == "" {
		cfg.AdminKeyHash = os.Getenv("ADMIN_KEY_HASH")
	}
	if cfg.AdminKeyHash == "" {
		return Config{}, errors.New("ADMIN_KEY_HASH required")
	}

	if cfg.ReceiptSalt == "" {
		cfg.ReceiptSalt = os.Getenv("RECEIPT_SALT")
	}
	if cfg.ReceiptSalt == "" {
		return Config{}, errors.New("RECEIPT_SALT required")
	}

	if ttl == "" {
		ttl = os.Getenv("SESSION_TTL")
	}
	cfg.SessionTTL = DefaultSessionTTL
	if ttl != "" {
		d, err := time.ParseDuration(ttl)
		if err != nil || d <= 0 {
			return Config{}, fmt.Errorf("invalid session TTL %q", ttl)
		}
		cfg.SessionTTL = d
	}

	return cfg, nil
}
