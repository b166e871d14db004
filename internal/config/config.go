package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultPort            = "4000"
	defaultDatabaseURL     = "safaribook.db"
	defaultJWTSecret       = "change-me-jwt-secret"
	defaultJWTTTL          = "168h"
	defaultUploadDir       = "./uploads"
	defaultUploadMaxBytes  = "10485760"
	defaultCacheTTL        = "300s"
	defaultEmailPort       = "465"
	defaultMailQueueSize   = "256"
	defaultMailWorkers     = "2"
	defaultMailMaxAttempts = "3"
	defaultMailRetryDelay  = "5s"
	defaultSiteBaseURL     = "https://jawaiunfiltered.com"
	defaultLogLevel        = "info"
)

type Config struct {
	AppEnv      string
	Port        string
	DatabaseURL string
	LogLevel    string

	JWTSecret string
	JWTTTL    time.Duration

	UploadDir      string
	UploadMaxBytes int64

	CORSAllowedOrigins []string
	CacheTTL           time.Duration
	SiteBaseURL        string

	Mail MailConfig
}

type MailConfig struct {
	Host        string
	Port        int
	User        string
	Password    string
	AdminEmail  string
	QueueSize   int
	Workers     int
	MaxAttempts int
	RetryDelay  time.Duration
}

// Enabled reports whether SMTP credentials are configured.
func (m MailConfig) Enabled() bool {
	return m.Host != "" && m.User != ""
}

// Load reads .env (when present) and the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("config: .env not loaded: %v", err)
	}

	cfg := &Config{}
	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = strings.TrimSpace(os.Getenv("ENV"))
	}
	if appEnv == "" {
		appEnv = "dev"
	}
	cfg.AppEnv = strings.ToLower(appEnv)

	cfg.Port = strings.TrimSpace(getEnv("PORT", defaultPort))
	cfg.DatabaseURL = strings.TrimSpace(getEnv("DATABASE_URL", defaultDatabaseURL))
	cfg.LogLevel = strings.TrimSpace(getEnv("LOG_LEVEL", defaultLogLevel))
	cfg.JWTSecret = strings.TrimSpace(getEnv("JWT_SECRET", defaultJWTSecret))
	cfg.UploadDir = strings.TrimSpace(getEnv("UPLOAD_DIR", defaultUploadDir))
	cfg.SiteBaseURL = strings.TrimRight(strings.TrimSpace(getEnv("SITE_BASE_URL", defaultSiteBaseURL)), "/")
	cfg.CORSAllowedOrigins = splitList(os.Getenv("CORS_ALLOWED_ORIGINS"))

	var err error
	if cfg.JWTTTL, err = parseDurationEnv("JWT_TTL", defaultJWTTTL); err != nil {
		return nil, err
	}
	if cfg.CacheTTL, err = parseDurationEnv("CACHE_TTL", defaultCacheTTL); err != nil {
		return nil, err
	}
	if cfg.UploadMaxBytes, err = parseInt64Env("UPLOAD_MAX_BYTES", defaultUploadMaxBytes); err != nil {
		return nil, err
	}

	cfg.Mail.Host = strings.TrimSpace(os.Getenv("EMAIL_HOST"))
	cfg.Mail.User = strings.TrimSpace(os.Getenv("EMAIL_USER"))
	cfg.Mail.Password = os.Getenv("EMAIL_PASS")
	cfg.Mail.AdminEmail = strings.TrimSpace(getEnv("ADMIN_EMAIL", cfg.Mail.User))
	if cfg.Mail.Port, err = parseIntEnv("EMAIL_PORT", defaultEmailPort); err != nil {
		return nil, err
	}
	if cfg.Mail.QueueSize, err = parseIntEnv("MAIL_QUEUE_SIZE", defaultMailQueueSize); err != nil {
		return nil, err
	}
	if cfg.Mail.Workers, err = parseIntEnv("MAIL_WORKERS", defaultMailWorkers); err != nil {
		return nil, err
	}
	if cfg.Mail.MaxAttempts, err = parseIntEnv("MAIL_MAX_ATTEMPTS", defaultMailMaxAttempts); err != nil {
		return nil, err
	}
	if cfg.Mail.RetryDelay, err = parseDurationEnv("MAIL_RETRY_DELAY", defaultMailRetryDelay); err != nil {
		return nil, err
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validateConfig(cfg *Config) error {
	if cfg.Port == "" {
		return fmt.Errorf("PORT must not be empty")
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL must not be empty")
	}
	if cfg.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be > 0")
	}
	if cfg.CacheTTL < 0 {
		return fmt.Errorf("CACHE_TTL must be >= 0")
	}
	if cfg.UploadMaxBytes <= 0 {
		return fmt.Errorf("UPLOAD_MAX_BYTES must be > 0")
	}
	if cfg.Mail.QueueSize <= 0 || cfg.Mail.Workers <= 0 || cfg.Mail.MaxAttempts <= 0 {
		return fmt.Errorf("MAIL_QUEUE_SIZE, MAIL_WORKERS and MAIL_MAX_ATTEMPTS must be > 0")
	}

	if IsProdLike(cfg.AppEnv) {
		if isEmptyOrDefault(cfg.JWTSecret, defaultJWTSecret) {
			return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
		}
		if !cfg.Mail.Enabled() {
			log.Printf("config: EMAIL_HOST/EMAIL_USER not set, notifications will only be logged")
		}
	}
	return nil
}

func IsProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}

func parseDurationEnv(name, fallback string) (time.Duration, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func parseIntEnv(name, fallback string) (int, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return n, nil
}

func parseInt64Env(name, fallback string) (int64, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return n, nil
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
