package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Application
	AppName string
	AppEnv  string
	AppURL  string
	Port    string

	// Database (optional driver switch via ENV, default: sqlite)
	DBDriver     string
	DBConnection string

	// Sessions
	SessionSecret   string
	SessionExpiry   time.Duration // Browser-session logins
	RememberExpiry  time.Duration // "Remember me" logins
	LoginFlowExpiry time.Duration // Pending federated logins
	LoginFlowStore  string        // "sql" or "redis"
	RedisURL        string

	// Login rate limiting, per client IP and endpoint
	AuthRateLimit  int
	AuthRateWindow time.Duration

	// Identity
	NicknameMaxAttempts int

	// Timeline
	PostsPerPage int

	// Federated login
	GoogleClientID     string
	GoogleClientSecret string
	GitHubClientID     string
	GitHubClientSecret string

	// Email
	EmailFrom    string
	ResendAPIKey string
	AdminEmails  []string

	// Observability (optional)
	SentryDSN string
}

func Load() *Config {
	// Load .env file if it exists
	err := godotenv.Load()
	if err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg := &Config{
		// Application
		AppName: envString("APP_NAME", "Microblog"),
		AppEnv:  envRequired("APP_ENV"), // Required: 'development' or 'production'
		AppURL:  envRequired("APP_URL"), // Required: base URL for OAuth redirects and email links
		Port:    envString("PORT", "8090"),

		// Database
		DBDriver:     envString("DB_DRIVER", "sqlite"),
		DBConnection: envString("DB_CONNECTION", defaultDBConnection),

		// Sessions
		SessionSecret:   envRequired("SESSION_SECRET"),
		SessionExpiry:   envDuration("SESSION_EXPIRY", 24*time.Hour),
		RememberExpiry:  envDuration("REMEMBER_EXPIRY", 365*24*time.Hour),
		LoginFlowExpiry: envDuration("LOGIN_FLOW_EXPIRY", 10*time.Minute),
		LoginFlowStore:  envString("LOGIN_FLOW_STORE", "sql"),
		RedisURL:        envString("REDIS_URL", ""),

		AuthRateLimit:  envInt("AUTH_RATE_LIMIT", 5),
		AuthRateWindow: envDuration("AUTH_RATE_WINDOW", 15*time.Minute),

		// Identity
		NicknameMaxAttempts: envInt("NICKNAME_MAX_ATTEMPTS", 100),

		// Timeline
		PostsPerPage: envInt("POSTS_PER_PAGE", 20),

		// Federated login
		GoogleClientID:     envString("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: envString("GOOGLE_CLIENT_SECRET", ""),
		GitHubClientID:     envString("GITHUB_CLIENT_ID", ""),
		GitHubClientSecret: envString("GITHUB_CLIENT_SECRET", ""),

		// Email (RESEND_API_KEY optional in development, required in production)
		EmailFrom:    envString("EMAIL_FROM", "noreply@example.com"),
		ResendAPIKey: envString("RESEND_API_KEY", ""),
		AdminEmails:  envList("ADMIN_EMAILS"),

		// Observability
		SentryDSN: envString("SENTRY_DSN", ""),
	}

	if cfg.IsProduction() {
		validateProduction(cfg)
	}

	return cfg
}

const defaultDBConnection = "./data/microblog.db?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)"

// LoadDatabase reads only the database settings. Used by the db CLI,
// which has no use for session secrets or OAuth credentials.
func LoadDatabase() *Config {
	err := godotenv.Load()
	if err != nil {
		slog.Debug("no .env file found, using environment variables")
	}

	return &Config{
		AppName:      envString("APP_NAME", "Microblog"),
		AppEnv:       envString("APP_ENV", "development"),
		DBDriver:     envString("DB_DRIVER", "sqlite"),
		DBConnection: envString("DB_CONNECTION", defaultDBConnection),
	}
}

// validateProduction ensures all required services are configured for production deployments.
// Development allows email to fall back to log mode for easier local testing.
func validateProduction(cfg *Config) {
	if cfg.ResendAPIKey == "" {
		slog.Error("production deployment requires RESEND_API_KEY",
			"hint", "set APP_ENV=development for local testing with email log mode")
		os.Exit(1)
	}
	if cfg.LoginFlowStore == "redis" && cfg.RedisURL == "" {
		slog.Error("LOGIN_FLOW_STORE=redis requires REDIS_URL")
		os.Exit(1)
	}
}

func envString(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		value = def
	}
	return value
}

func envInt(key string, def int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		slog.Warn("config invalid positive int, using default", "key", key, "value", v, "default", def)
		return def
	}
	return n
}

func envDuration(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("config invalid duration, using default", "key", key, "value", v, "default", def)
		return def
	}
	return d
}

func envList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func envRequired(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	slog.Error("config required env var missing", "key", key)
	os.Exit(1)
	return ""
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Sanitized returns a copy of the config with only public/safe fields.
// Safe to expose in ctx and templates.
func (c *Config) Sanitized() *Config {
	return &Config{
		AppName:      c.AppName,
		AppEnv:       c.AppEnv,
		AppURL:       c.AppURL,
		Port:         c.Port,
		PostsPerPage: c.PostsPerPage,
	}
}
