package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage backends.
const (
	StorageFile     = "file"
	StoragePostgres = "postgres"
)

// Rate limiter backends.
const (
	RateLimitMemory = "memory"
	RateLimitRedis  = "redis"
)

// DevSessionSecret signs sessions only when admin login is disabled outside production.
const DevSessionSecret = "dev-secret"

// Config aggregates runtime configuration for the service.
type Config struct {
	App          AppConfig
	Postgres     PostgresConfig
	Redis        RedisConfig
	Logger       LoggerConfig
	Storage      StorageConfig
	RateLimit    RateLimitConfig
	Admin        AdminConfig
	Notification NotificationConfig
	Metrics      MetricsConfig
	Sentry       SentryConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
	CORSOrigins           string
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// StorageConfig selects the submission store.
type StorageConfig struct {
	Backend            string
	DataDir            string
	EnforceUniqueEmail bool
}

// RateLimitConfig configures submission throttling.
type RateLimitConfig struct {
	Backend       string
	MaxRequests   int
	Window        time.Duration
	SweepInterval time.Duration
}

// AdminConfig configures the admin session gate.
type AdminConfig struct {
	Password      string
	PasswordHash  string
	SessionSecret string
	SessionTTL    time.Duration
	SecureCookie  bool

	// ReportTimezone names the zone used for report date bounds.
	ReportTimezone string
}

// NotificationConfig holds the fan-out integrations. Empty values disable a channel.
type NotificationConfig struct {
	WebhookURL        string
	AdminEmail        string
	SMTPHost          string
	SMTPPort          int
	SMTPUser          string
	SMTPPassword      string
	EmailFrom         string
	SheetsSpreadsheet string
	SheetsCredentials string
	SendTimeout       time.Duration
	QueueSize         int
	Workers           int
}

// MetricsConfig holds public counter baselines and cache lifetimes.
type MetricsConfig struct {
	SupportersBaseline int
	YouthBaseline      int
	BusinessesBaseline int
	CacheTTL           time.Duration
	QuotesCacheTTL     time.Duration
}

// SentryConfig enables error reporting when DSN is set.
type SentryConfig struct {
	DSN string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	backend := strings.ToLower(getEnv("STORAGE_BACKEND", StorageFile))
	rlBackend := strings.ToLower(getEnv("RATE_LIMIT_BACKEND", RateLimitMemory))
	appEnv := getEnv("APP_ENV", "development")

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "community-registry"),
			Env:                   appEnv,
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
			CORSOrigins:           getEnv("CORS_ALLOWED_ORIGINS", "*"),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Enabled:  getEnvAsBool("REDIS_ENABLED", rlBackend == RateLimitRedis),
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Storage: StorageConfig{
			Backend:            backend,
			DataDir:            getEnv("STORAGE_DATA_DIR", "data"),
			EnforceUniqueEmail: getEnvAsBool("SUBMISSIONS_ENFORCE_UNIQUE_EMAIL", backend == StorageFile),
		},
		RateLimit: RateLimitConfig{
			Backend:       rlBackend,
			MaxRequests:   getEnvAsInt("RATE_LIMIT_MAX_REQUESTS", 5),
			Window:        time.Duration(getEnvAsInt("RATE_LIMIT_WINDOW_MS", 60000)) * time.Millisecond,
			SweepInterval: getEnvAsDuration("RATE_LIMIT_SWEEP_INTERVAL", 5*time.Minute),
		},
		Admin: AdminConfig{
			Password:       os.Getenv("ADMIN_PASSWORD"),
			PasswordHash:   os.Getenv("ADMIN_PASSWORD_HASH"),
			SessionSecret:  getEnv("ADMIN_SESSION_SECRET", DevSessionSecret),
			SessionTTL:     getEnvAsDuration("ADMIN_SESSION_TTL", 12*time.Hour),
			SecureCookie:   getEnvAsBool("ADMIN_SECURE_COOKIE", appEnv == "production"),
			ReportTimezone: getEnv("REPORT_TIMEZONE", "UTC"),
		},
		Notification: NotificationConfig{
			WebhookURL:        os.Getenv("GOOGLE_SHEETS_WEBHOOK_URL"),
			AdminEmail:        getEnv("ADMIN_EMAIL", "admin@example.com"),
			SMTPHost:          getEnv("SMTP_HOST", "smtp.gmail.com"),
			SMTPPort:          getEnvAsInt("SMTP_PORT", 587),
			SMTPUser:          os.Getenv("SMTP_USER"),
			SMTPPassword:      os.Getenv("SMTP_PASSWORD"),
			EmailFrom:         os.Getenv("NOTIFY_EMAIL_FROM"),
			SheetsSpreadsheet: os.Getenv("GOOGLE_SHEETS_SPREADSHEET_ID"),
			SheetsCredentials: os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"),
			SendTimeout:       getEnvAsDuration("NOTIFY_SEND_TIMEOUT", 10*time.Second),
			QueueSize:         getEnvAsInt("NOTIFY_QUEUE_SIZE", 256),
			Workers:           getEnvAsInt("NOTIFY_WORKERS", 2),
		},
		Metrics: MetricsConfig{
			SupportersBaseline: getEnvAsInt("SUPPORTERS_OFFSET", 0),
			YouthBaseline:      getEnvAsInt("YOUTH_PARENTS_OFFSET", 0),
			BusinessesBaseline: getEnvAsInt("BUSINESSES_OFFSET", 0),
			CacheTTL:           getEnvAsDuration("METRICS_CACHE_TTL", time.Minute),
			QuotesCacheTTL:     getEnvAsDuration("QUOTES_CACHE_TTL", 5*time.Minute),
		},
		Sentry: SentryConfig{
			DSN: os.Getenv("SENTRY_DSN"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects combinations the service cannot start with.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case StorageFile:
	case StoragePostgres:
		if c.Postgres.DSN == "" {
			return fmt.Errorf("STORAGE_BACKEND=postgres requires POSTGRES_DSN")
		}
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q", c.Storage.Backend)
	}
	switch c.RateLimit.Backend {
	case RateLimitMemory:
	case RateLimitRedis:
		if !c.Redis.Enabled {
			return fmt.Errorf("RATE_LIMIT_BACKEND=redis requires REDIS_ENABLED")
		}
	default:
		return fmt.Errorf("unknown RATE_LIMIT_BACKEND %q", c.RateLimit.Backend)
	}
	if c.RateLimit.MaxRequests <= 0 || c.RateLimit.Window <= 0 {
		return fmt.Errorf("rate limit max and window must be positive")
	}
	if _, err := time.LoadLocation(c.Admin.ReportTimezone); err != nil {
		return fmt.Errorf("invalid REPORT_TIMEZONE: %w", err)
	}
	if c.Admin.needsSecret(c.App.Env) && !c.Admin.hasSecret() {
		return fmt.Errorf("ADMIN_SESSION_SECRET must be set to a non-default value when admin login is enabled or APP_ENV=production")
	}
	return nil
}

func (a AdminConfig) needsSecret(env string) bool {
	return env == "production" || a.Password != "" || a.PasswordHash != ""
}

func (a AdminConfig) hasSecret() bool {
	secret := strings.TrimSpace(a.SessionSecret)
	return secret != "" && secret != DevSessionSecret
}

// Location returns the report time zone, falling back to UTC.
func (a AdminConfig) Location() *time.Location {
	loc, err := time.LoadLocation(a.ReportTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
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

// EmailEnabled reports whether SMTP credentials are present.
func (n NotificationConfig) EmailEnabled() bool {
	return n.SMTPUser != "" && n.SMTPPassword != ""
}

// Sender returns the From address for notification mail.
func (n NotificationConfig) Sender() string {
	if n.EmailFrom != "" {
		return n.EmailFrom
	}
	return n.SMTPUser
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

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(val)
	if err != nil {
		return fallback
	}
	return parsed
}
