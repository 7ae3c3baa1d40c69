package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config holds runtime configuration sourced from env vars.
type Config struct {
	Port          string
	AppEnv        string
	DatabaseURL   string
	StorageDriver string

	JWTSecret  string
	JWTIssuer  string
	JWTTTL     time.Duration
	BcryptCost int

	CORSOrigins []string
	LogLevel    string
	LogFormat   string

	UploadDir      string
	UploadMaxBytes int64

	FCMProjectID       string
	FCMCredentialsFile string
	NotifyTimeout      time.Duration
	NotifyConcurrency  int

	// Seed account used by the seed command.
	AdminEmail    string
	AdminPassword string
}

// Load reads configuration from the environment and performs minimal validation.
func Load() (Config, error) {
	var errs []error

	cfg := Config{
		Port:               fallback(os.Getenv("PORT"), "5000"),
		AppEnv:             strings.ToLower(fallback(os.Getenv("APP_ENV"), "production")),
		DatabaseURL:        strings.TrimSpace(os.Getenv("DATABASE_URL")),
		StorageDriver:      strings.ToLower(fallback(os.Getenv("STORAGE_DRIVER"), DriverPostgres)),
		JWTSecret:          strings.TrimSpace(os.Getenv("JWT_SECRET")),
		JWTIssuer:          fallback(os.Getenv("JWT_ISSUER"), "eventus-backend"),
		CORSOrigins:        parseCSV(fallback(os.Getenv("CORS_ALLOWED_ORIGINS"), "*")),
		LogLevel:           fallback(os.Getenv("LOG_LEVEL"), "info"),
		LogFormat:          fallback(os.Getenv("LOG_FORMAT"), "json"),
		UploadDir:          fallback(os.Getenv("UPLOAD_DIR"), "uploads"),
		FCMProjectID:       fallback(os.Getenv("FCM_PROJECT_ID"), "event-us-af71c"),
		FCMCredentialsFile: strings.TrimSpace(os.Getenv("FCM_CREDENTIALS_FILE")),
		AdminEmail:         fallback(os.Getenv("ADMIN_EMAIL"), "admin@eventus.com"),
		AdminPassword:      fallback(os.Getenv("ADMIN_PASSWORD"), "admin123"),
	}

	ttl, err := ParseTTL(fallback(os.Getenv("JWT_TTL"), "7d"))
	if err != nil {
		errs = append(errs, fmt.Errorf("JWT_TTL: %w", err))
	}
	cfg.JWTTTL = ttl

	cfg.BcryptCost = intOr(os.Getenv("BCRYPT_COST"), 10, &errs, "BCRYPT_COST")
	cfg.NotifyConcurrency = intOr(os.Getenv("NOTIFY_CONCURRENCY"), 8, &errs, "NOTIFY_CONCURRENCY")
	cfg.UploadMaxBytes = int64(intOr(os.Getenv("UPLOAD_MAX_BYTES"), 10<<20, &errs, "UPLOAD_MAX_BYTES"))

	cfg.NotifyTimeout = 10 * time.Second
	if raw := strings.TrimSpace(os.Getenv("NOTIFY_TIMEOUT")); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			errs = append(errs, fmt.Errorf("NOTIFY_TIMEOUT: invalid duration %q", raw))
		} else {
			cfg.NotifyTimeout = d
		}
	}

	switch cfg.StorageDriver {
	case DriverPostgres:
		if cfg.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required"))
		}
	case DriverMemory:
	default:
		errs = append(errs, fmt.Errorf("STORAGE_DRIVER must be %q or %q", DriverPostgres, DriverMemory))
	}
	if cfg.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}

	if err := errors.Join(errs...); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// HTTPAddress returns the host:port pair for the HTTP server to bind to.
func (c Config) HTTPAddress() string {
	return fmt.Sprintf(":%s", c.Port)
}

// IsDevelopment reports whether internal error details may be sent to clients.
func (c Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// ParseTTL accepts a Go duration ("90m", "12h") or a whole number of days ("7d").
func ParseTTL(raw string) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if days, ok := strings.CutSuffix(raw, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil || n <= 0 {
			return 0, fmt.Errorf("invalid day count %q", raw)
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid duration %q", raw)
	}
	return d, nil
}

func intOr(raw string, def int, errs *[]error, name string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		*errs = append(*errs, fmt.Errorf("%s: invalid positive integer %q", name, raw))
		return def
	}
	return n
}

func fallback(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return strings.TrimSpace(value)
}

func parseCSV(input string) []string {
	parts := strings.Split(input, ",")
	var out []string
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
