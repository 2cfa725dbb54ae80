package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Server    ServerConfig
	Slack     SlackConfig
	License   LicenseConfig
	Bootstrap BootstrapConfig
	Log       LogConfig
	// SelfHosted silences the production-only warnings.
	SelfHosted bool
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string //nolint:gosec // G117: DB connection config
	DBName   string
	SSLMode  string
	MaxConns int
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Addr     string
	Password string //nolint:gosec // G117: Redis connection config
	DB       int
}

// JWTConfig holds JWT authentication settings.
type JWTConfig struct {
	Secret     string //nolint:gosec // G117: JWT signing secret config
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	CORSOrigins    []string
	RateLimitRPS   float64
	RateLimitBurst int
	// ConsoleURL is the public base URL of the web console, used in chat links.
	ConsoleURL string
}

// SlackConfig holds Slack integration settings. An empty bot token disables Slack.
type SlackConfig struct {
	BotToken      string
	SigningSecret string
	// NotifyChannel receives a card for every HIGH priority action item.
	NotifyChannel string
}

// Enabled reports whether Slack is configured.
func (c *SlackConfig) Enabled() bool {
	return c.BotToken != ""
}

// LicenseConfig caps member seats for every company. MaxUsers 0 means unlimited.
type LicenseConfig struct {
	ID        string
	Org       string
	MaxUsers  int
	ExpiresAt time.Time
}

// BootstrapConfig seeds a company and its first admin on startup. Empty AdminEmail
// skips seeding.
type BootstrapConfig struct {
	CompanyID     uuid.UUID
	CompanyName   string
	CompanySeats  int
	AdminEmail    string
	AdminPassword string //nolint:gosec // G117: bootstrap credential config
	AdminName     string
}

// LogConfig controls the global zerolog logger.
type LogConfig struct {
	Level  string
	Format string // "json" or "text"
}

// Load reads configuration from environment variables. A .env file in the working
// directory is loaded first when present; real environment variables win.
// Defaults are safe for local development only. In production,
// sensitive values (JWT secret, DB password) must be set explicitly.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config.Load: .env: %w", err)
	}

	var errs []error
	intVar := func(key string, fallback int) int {
		n, err := getEnvInt(key, fallback)
		errs = append(errs, err)
		return n
	}
	durVar := func(key string, fallback time.Duration) time.Duration {
		d, err := getEnvDuration(key, fallback)
		errs = append(errs, err)
		return d
	}

	selfHosted, err := getEnvBool("ACTIONFEED_SELF_HOSTED", false)
	errs = append(errs, err)
	rps, err := getEnvFloat("ACTIONFEED_RATE_LIMIT_RPS", 10)
	errs = append(errs, err)
	expires, err := getEnvTime("ACTIONFEED_LICENSE_EXPIRES_AT")
	errs = append(errs, err)
	companyID, err := getEnvUUID("ACTIONFEED_BOOTSTRAP_COMPANY_ID")
	errs = append(errs, err)

	cfg := &Config{
		Database: DatabaseConfig{
			Host:     getEnv("ACTIONFEED_DB_HOST", "localhost"),
			Port:     intVar("ACTIONFEED_DB_PORT", 5432),
			User:     getEnv("ACTIONFEED_DB_USER", "actionfeed"),
			Password: getEnv("ACTIONFEED_DB_PASSWORD", ""),
			DBName:   getEnv("ACTIONFEED_DB_NAME", "actionfeed_dev"),
			SSLMode:  getEnv("ACTIONFEED_DB_SSLMODE", "disable"),
			MaxConns: intVar("ACTIONFEED_DB_MAX_CONNS", 25),
		},
		Redis: RedisConfig{
			Addr:     getEnv("ACTIONFEED_REDIS_ADDR", "localhost:6379"),
			Password: getEnv("ACTIONFEED_REDIS_PASSWORD", ""),
			DB:       intVar("ACTIONFEED_REDIS_DB", 0),
		},
		JWT: JWTConfig{
			Secret:     getEnv("ACTIONFEED_JWT_SECRET", ""),
			AccessTTL:  durVar("ACTIONFEED_JWT_ACCESS_TTL", 15*time.Minute),
			RefreshTTL: durVar("ACTIONFEED_JWT_REFRESH_TTL", 7*24*time.Hour),
		},
		Server: ServerConfig{
			Addr:           getEnv("ACTIONFEED_SERVER_ADDR", ":8080"),
			ReadTimeout:    durVar("ACTIONFEED_SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:   durVar("ACTIONFEED_SERVER_WRITE_TIMEOUT", 30*time.Second),
			CORSOrigins:    getEnvList("ACTIONFEED_CORS_ORIGINS", []string{"http://localhost:3000"}),
			RateLimitRPS:   rps,
			RateLimitBurst: intVar("ACTIONFEED_RATE_LIMIT_BURST", 20),
			ConsoleURL:     strings.TrimRight(getEnv("ACTIONFEED_CONSOLE_URL", "http://localhost:3000"), "/"),
		},
		Slack: SlackConfig{
			BotToken:      getEnv("ACTIONFEED_SLACK_BOT_TOKEN", ""),
			SigningSecret: getEnv("ACTIONFEED_SLACK_SIGNING_SECRET", ""),
			NotifyChannel: getEnv("ACTIONFEED_SLACK_NOTIFY_CHANNEL", ""),
		},
		License: LicenseConfig{
			ID:        getEnv("ACTIONFEED_LICENSE_ID", ""),
			Org:       getEnv("ACTIONFEED_LICENSE_ORG", ""),
			MaxUsers:  intVar("ACTIONFEED_LICENSE_MAX_USERS", 0),
			ExpiresAt: expires,
		},
		Bootstrap: BootstrapConfig{
			CompanyID:     companyID,
			CompanyName:   getEnv("ACTIONFEED_BOOTSTRAP_COMPANY_NAME", "Default"),
			CompanySeats:  intVar("ACTIONFEED_BOOTSTRAP_COMPANY_SEATS", 0),
			AdminEmail:    getEnv("ACTIONFEED_BOOTSTRAP_ADMIN_EMAIL", ""),
			AdminPassword: getEnv("ACTIONFEED_BOOTSTRAP_ADMIN_PASSWORD", ""),
			AdminName:     getEnv("ACTIONFEED_BOOTSTRAP_ADMIN_NAME", "Admin"),
		},
		Log: LogConfig{
			Level:  strings.ToLower(getEnv("ACTIONFEED_LOG_LEVEL", "info")),
			Format: strings.ToLower(getEnv("ACTIONFEED_LOG_FORMAT", "json")),
		},
		SelfHosted: selfHosted,
	}

	if joined := errors.Join(errs...); joined != nil {
		return nil, fmt.Errorf("config.Load: %w", joined)
	}

	err = cfg.validate()
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	return cfg, nil
}

// validate checks required fields and value bounds.
func (c *Config) validate() error {
	// JWT secret is required (no insecure default).
	if c.JWT.Secret == "" {
		return errors.New("ACTIONFEED_JWT_SECRET is required")
	}
	if len(c.JWT.Secret) < 32 {
		return errors.New("ACTIONFEED_JWT_SECRET must be at least 32 characters")
	}

	if c.Database.SSLMode == "disable" && !c.SelfHosted {
		log.Warn().Msg("ACTIONFEED_DB_SSLMODE=disable is insecure for production; set to 'require' or 'verify-full'")
	}

	// Bounds checks.
	if c.Database.Port < 1 || c.Database.Port > 65535 {
		return fmt.Errorf("ACTIONFEED_DB_PORT must be 1-65535, got %d", c.Database.Port)
	}
	if c.Database.MaxConns < 1 {
		return fmt.Errorf("ACTIONFEED_DB_MAX_CONNS must be >= 1, got %d", c.Database.MaxConns)
	}
	if c.JWT.AccessTTL <= 0 {
		return fmt.Errorf("ACTIONFEED_JWT_ACCESS_TTL must be positive, got %s", c.JWT.AccessTTL)
	}
	if c.JWT.RefreshTTL <= 0 {
		return fmt.Errorf("ACTIONFEED_JWT_REFRESH_TTL must be positive, got %s", c.JWT.RefreshTTL)
	}
	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("ACTIONFEED_SERVER_READ_TIMEOUT must be positive, got %s", c.Server.ReadTimeout)
	}
	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("ACTIONFEED_SERVER_WRITE_TIMEOUT must be positive, got %s", c.Server.WriteTimeout)
	}
	if c.Server.RateLimitRPS <= 0 || c.Server.RateLimitBurst < 1 {
		return fmt.Errorf("ACTIONFEED_RATE_LIMIT_RPS and _BURST must be positive, got %g/%d",
			c.Server.RateLimitRPS, c.Server.RateLimitBurst)
	}
	if c.License.MaxUsers < 0 {
		return fmt.Errorf("ACTIONFEED_LICENSE_MAX_USERS must be >= 0, got %d", c.License.MaxUsers)
	}
	if c.Slack.Enabled() && c.Slack.SigningSecret == "" {
		return errors.New("ACTIONFEED_SLACK_SIGNING_SECRET is required when a bot token is set")
	}
	if c.Bootstrap.AdminEmail != "" {
		if c.Bootstrap.AdminPassword == "" {
			return errors.New("ACTIONFEED_BOOTSTRAP_ADMIN_PASSWORD is required with ACTIONFEED_BOOTSTRAP_ADMIN_EMAIL")
		}
		if c.Bootstrap.CompanyID == uuid.Nil {
			return errors.New("ACTIONFEED_BOOTSTRAP_COMPANY_ID is required with ACTIONFEED_BOOTSTRAP_ADMIN_EMAIL")
		}
	}
	switch c.Log.Format {
	case "json", "text":
	default:
		return fmt.Errorf("ACTIONFEED_LOG_FORMAT must be json or text, got %q", c.Log.Format)
	}

	return nil
}

// DSN returns the PostgreSQL connection string.
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("parsing %s=%q as int: %w", key, v, err)
	}
	return n, nil
}

func getEnvFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing %s=%q as float: %w", key, v, err)
	}
	return f, nil
}

func getEnvBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("parsing %s=%q as bool: %w", key, v, err)
	}
	return b, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("parsing %s=%q as duration: %w", key, v, err)
	}
	return d, nil
}

// getEnvTime parses an RFC 3339 timestamp. Unset gives the zero time.
func getEnvTime(key string) (time.Time, error) {
	v := os.Getenv(key)
	if v == "" {
		return time.Time{}, nil
	}
	ts, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing %s=%q as RFC 3339 time: %w", key, v, err)
	}
	return ts, nil
}

// getEnvUUID parses a UUID. Unset gives uuid.Nil.
func getEnvUUID(key string) (uuid.UUID, error) {
	v := os.Getenv(key)
	if v == "" {
		return uuid.Nil, nil
	}
	id, err := uuid.Parse(v)
	if err != nil {
		return uuid.Nil, fmt.Errorf("parsing %s=%q as uuid: %w", key, v, err)
	}
	return id, nil
}

func getEnvList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parts := strings.Split(v, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
