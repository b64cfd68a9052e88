package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

const (
	BackendFirestore = "firestore"
	BackendPostgres  = "postgres"
	BackendMemory    = "memory"

	AuthClerk    = "clerk"
	AuthFirebase = "firebase"
)

type Config struct {
	Port        string
	Environment string

	LogLevel    string
	LogFile     string
	LogToStdout bool
	LogJSON     bool
	SentryDSN   string

	StoreBackend        string
	DatabaseURL         string
	FirebaseProjectID   string
	FirebaseCredentials string // base64 service account JSON
	FirebaseCredsFile   string
	LocalCacheMB        int

	AuthProvider         string
	ClerkSecretKey       string
	ClerkWebhookSecret   string
	RequireVerifiedEmail bool

	Timezone   *time.Location
	Milestones []int

	RateLimitRPS   float64
	RateLimitBurst int

	MetricsUser string
	MetricsPass string
	PprofSecret string
	PushEnabled bool
}

// Load reads .env when present, then the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debugln("No .env file found")
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a getenv function and validates it.
func FromEnv(getenv func(string) string) (*Config, error) {
	r := reader{getenv: getenv}

	cfg := &Config{
		Port:        r.str("PORT", "3333"),
		Environment: r.str("ENV", "development"),

		LogLevel:    r.str("LOG_LEVEL", "info"),
		LogFile:     r.str("LOG_FILE", ""),
		LogToStdout: r.boolean("LOG_TO_STDOUT", true),
		LogJSON:     r.boolean("LOG_JSON", false),
		SentryDSN:   r.str("SENTRY_DSN", ""),

		StoreBackend:        strings.ToLower(r.str("STORE_BACKEND", BackendFirestore)),
		DatabaseURL:         r.str("DATABASE_URL", ""),
		FirebaseProjectID:   r.str("FIREBASE_PROJECT_ID", ""),
		FirebaseCredentials: r.str("FCM_SERVICE_ACCOUNT_JSON", ""),
		FirebaseCredsFile:   r.str("FIREBASE_CREDENTIALS_FILE", ""),
		LocalCacheMB:        r.integer("LOCAL_CACHE_MB", 64),

		AuthProvider:         strings.ToLower(r.str("AUTH_PROVIDER", AuthClerk)),
		ClerkSecretKey:       r.str("CLERK_SECRET_KEY", ""),
		ClerkWebhookSecret:   r.str("CLERK_WEBHOOK_SECRET", ""),
		RequireVerifiedEmail: r.boolean("REQUIRE_VERIFIED_EMAIL", true),

		Milestones: r.ints("MILESTONE_DAYS", []int{3, 7, 14, 30}),

		RateLimitRPS:   r.float("RATE_LIMIT_RPS", 5),
		RateLimitBurst: r.integer("RATE_LIMIT_BURST", 30),

		MetricsUser: r.str("METRICS_USER", ""),
		MetricsPass: r.str("METRICS_PASS", ""),
		PprofSecret: r.str("PPROF_SECRET", ""),
		PushEnabled: r.boolean("PUSH_ENABLED", false),
	}

	tz := r.str("TIMEZONE", "Local")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("TIMEZONE: %w", err))
	}
	cfg.Timezone = loc

	if err := errors.Join(r.errs...); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.StoreBackend {
	case BackendFirestore, BackendMemory:
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required for the postgres backend")
		}
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend)
	}

	switch c.AuthProvider {
	case AuthFirebase:
	case AuthClerk:
		if c.ClerkSecretKey == "" {
			return errors.New("CLERK_SECRET_KEY is required for clerk auth")
		}
	default:
		return fmt.Errorf("unknown AUTH_PROVIDER %q", c.AuthProvider)
	}

	if c.LocalCacheMB < 0 {
		return fmt.Errorf("LOCAL_CACHE_MB must not be negative, got %d", c.LocalCacheMB)
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0 {
		return errors.New("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
	}
	for _, m := range c.Milestones {
		if m <= 0 {
			return fmt.Errorf("MILESTONE_DAYS entries must be positive, got %d", m)
		}
	}
	return nil
}

// FirebaseNeeded reports whether any configured component talks to Firebase.
func (c *Config) FirebaseNeeded() bool {
	return c.StoreBackend == BackendFirestore || c.AuthProvider == AuthFirebase || c.PushEnabled
}

type reader struct {
	getenv func(string) string
	errs   []error
}

func (r *reader) str(key, def string) string {
	if v := strings.TrimSpace(r.getenv(key)); v != "" {
		return v
	}
	return def
}

func (r *reader) boolean(key string, def bool) bool {
	v := r.str(key, "")
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return b
}

func (r *reader) integer(key string, def int) int {
	v := r.str(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return n
}

func (r *reader) float(key string, def float64) float64 {
	v := r.str(key, "")
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return f
}

// ints parses a comma separated list such as "3,7,14,30".
func (r *reader) ints(key string, def []int) []int {
	v := r.str(key, "")
	if v == "" {
		return def
	}
	var out []int
	for _, part := range strings.Split(v, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			r.errs = append(r.errs, fmt.Errorf("%s: %w", key, err))
			return def
		}
		out = append(out, n)
	}
	return out
}
