package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	DB        DBConfig
	JWT       JWTConfig
	S3        S3Config
	Log       LogConfig
	CORS      CORSConfig
	Email     EmailConfig
	Redis     RedisConfig
	Draft     DraftConfig
	Wizard    WizardConfig
	Upload    UploadConfig
	Scorer    ScorerConfig
	RateLimit RateLimitConfig
	Janitor   JanitorConfig
}

// EmailConfig holds email delivery settings.
type EmailConfig struct {
	Provider    string `mapstructure:"provider"`
	Region      string `mapstructure:"region"`
	FromAddress string `mapstructure:"from_address"`
	FromName    string `mapstructure:"from_name"`
	FrontendURL string `mapstructure:"frontend_url"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// JWTConfig holds JWT signing and expiry settings.
type JWTConfig struct {
	Secret             string        `mapstructure:"secret"`
	AccessTokenExpiry  time.Duration `mapstructure:"access_expiry"`
	RefreshTokenExpiry time.Duration `mapstructure:"refresh_expiry"`
	Issuer             string        `mapstructure:"issuer"`
	LoginPath          string        `mapstructure:"login_path"`
}

// S3Config holds AWS S3 settings.
type S3Config struct {
	Region    string `mapstructure:"region"`
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// RedisConfig holds the draft store connection settings.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// DraftConfig selects and tunes the draft store.
type DraftConfig struct {
	Provider string        `mapstructure:"provider"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// WizardConfig holds multi-step application settings.
type WizardConfig struct {
	PendingTimeout time.Duration `mapstructure:"pending_timeout"`
	ApplicationFee int64         `mapstructure:"application_fee"`
	Currency       string        `mapstructure:"currency"`
	HomeCountry    string        `mapstructure:"home_country"`
}

// UploadConfig holds per-category upload limits.
type UploadConfig struct {
	MaxFileSizeMB   int64         `mapstructure:"max_file_size_mb"`
	MaxClaims       int           `mapstructure:"max_claims"`
	MaxAbstract     int           `mapstructure:"max_abstract"`
	MaxDrawings     int           `mapstructure:"max_drawings"`
	MaxSupporting   int           `mapstructure:"max_supporting"`
	FailedRetention time.Duration `mapstructure:"failed_retention"`
}

// ScorerConfig holds settings for the external likelihood scoring service.
type ScorerConfig struct {
	BaseURL     string `mapstructure:"base_url"`
	APIKey      string `mapstructure:"api_key"`
	TimeoutSecs int    `mapstructure:"timeout_secs"`
}

// RateLimitConfig holds per-client request limits.
type RateLimitConfig struct {
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

// JanitorConfig holds cleanup schedule settings.
type JanitorConfig struct {
	Schedule string `mapstructure:"schedule"`
}

// Load reads configuration from environment variables with the PATENTDESK_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("PATENTDESK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "patentdesk")
	v.SetDefault("db.password", "patentdesk_secret")
	v.SetDefault("db.name", "patentdesk_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// JWT defaults
	v.SetDefault("jwt.secret", "change-me-in-production")
	v.SetDefault("jwt.access_expiry", "30m")
	v.SetDefault("jwt.refresh_expiry", "168h")
	v.SetDefault("jwt.issuer", "patentdesk")
	v.SetDefault("jwt.login_path", "/login")

	// S3 defaults
	v.SetDefault("s3.region", "eu-central-1")
	v.SetDefault("s3.bucket", "patentdesk-uploads")
	v.SetDefault("s3.endpoint", "")

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Email defaults
	v.SetDefault("email.provider", "noop")
	v.SetDefault("email.region", "eu-central-1")
	v.SetDefault("email.from_address", "noreply@patentdesk.local")
	v.SetDefault("email.from_name", "Patent Desk")
	v.SetDefault("email.frontend_url", "http://localhost:3000")

	// Draft store defaults
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("draft.provider", "redis")
	v.SetDefault("draft.ttl", "24h")

	// Wizard defaults
	v.SetDefault("wizard.pending_timeout", "5s")
	v.SetDefault("wizard.application_fee", 1500)
	v.SetDefault("wizard.currency", "TRY")
	v.SetDefault("wizard.home_country", "TR")

	// Upload defaults
	v.SetDefault("upload.max_file_size_mb", 10)
	v.SetDefault("upload.max_claims", 2)
	v.SetDefault("upload.max_abstract", 1)
	v.SetDefault("upload.max_drawings", 2)
	v.SetDefault("upload.max_supporting", 2)
	v.SetDefault("upload.failed_retention", "24h")

	// Scorer defaults
	v.SetDefault("scorer.base_url", "http://localhost:8090")
	v.SetDefault("scorer.api_key", "")
	v.SetDefault("scorer.timeout_secs", 60)

	v.SetDefault("rate_limit.requests_per_second", 10)
	v.SetDefault("rate_limit.burst", 20)

	v.SetDefault("janitor.schedule", "@every 1h")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                    "PATENTDESK_SERVER_PORT",
		"server.read_timeout":            "PATENTDESK_SERVER_READ_TIMEOUT",
		"server.write_timeout":           "PATENTDESK_SERVER_WRITE_TIMEOUT",
		"server.environment":             "PATENTDESK_SERVER_ENVIRONMENT",
		"db.host":                        "PATENTDESK_DB_HOST",
		"db.port":                        "PATENTDESK_DB_PORT",
		"db.user":                        "PATENTDESK_DB_USER",
		"db.password":                    "PATENTDESK_DB_PASSWORD",
		"db.name":                        "PATENTDESK_DB_NAME",
		"db.sslmode":                     "PATENTDESK_DB_SSLMODE",
		"db.max_open":                    "PATENTDESK_DB_MAX_OPEN",
		"db.max_idle":                    "PATENTDESK_DB_MAX_IDLE",
		"jwt.secret":                     "PATENTDESK_JWT_SECRET",
		"jwt.access_expiry":              "PATENTDESK_JWT_ACCESS_EXPIRY",
		"jwt.refresh_expiry":             "PATENTDESK_JWT_REFRESH_EXPIRY",
		"jwt.issuer":                     "PATENTDESK_JWT_ISSUER",
		"jwt.login_path":                 "PATENTDESK_JWT_LOGIN_PATH",
		"s3.region":                      "PATENTDESK_S3_REGION",
		"s3.bucket":                      "PATENTDESK_S3_BUCKET",
		"s3.endpoint":                    "PATENTDESK_S3_ENDPOINT",
		"s3.access_key":                  "PATENTDESK_S3_ACCESS_KEY",
		"s3.secret_key":                  "PATENTDESK_S3_SECRET_KEY",
		"log.level":                      "PATENTDESK_LOG_LEVEL",
		"log.format":                     "PATENTDESK_LOG_FORMAT",
		"cors.allowed_origins":           "PATENTDESK_CORS_ALLOWED_ORIGINS",
		"email.provider":                 "PATENTDESK_EMAIL_PROVIDER",
		"email.region":                   "PATENTDESK_EMAIL_REGION",
		"email.from_address":             "PATENTDESK_EMAIL_FROM_ADDRESS",
		"email.from_name":                "PATENTDESK_EMAIL_FROM_NAME",
		"email.frontend_url":             "PATENTDESK_EMAIL_FRONTEND_URL",
		"redis.addr":                     "PATENTDESK_REDIS_ADDR",
		"redis.password":                 "PATENTDESK_REDIS_PASSWORD",
		"redis.db":                       "PATENTDESK_REDIS_DB",
		"draft.provider":                 "PATENTDESK_DRAFT_PROVIDER",
		"draft.ttl":                      "PATENTDESK_DRAFT_TTL",
		"wizard.pending_timeout":         "PATENTDESK_WIZARD_PENDING_TIMEOUT",
		"wizard.application_fee":         "PATENTDESK_WIZARD_APPLICATION_FEE",
		"wizard.currency":                "PATENTDESK_WIZARD_CURRENCY",
		"wizard.home_country":            "PATENTDESK_WIZARD_HOME_COUNTRY",
		"upload.max_file_size_mb":        "PATENTDESK_UPLOAD_MAX_FILE_SIZE_MB",
		"upload.max_claims":              "PATENTDESK_UPLOAD_MAX_CLAIMS",
		"upload.max_abstract":            "PATENTDESK_UPLOAD_MAX_ABSTRACT",
		"upload.max_drawings":            "PATENTDESK_UPLOAD_MAX_DRAWINGS",
		"upload.max_supporting":          "PATENTDESK_UPLOAD_MAX_SUPPORTING",
		"upload.failed_retention":        "PATENTDESK_UPLOAD_FAILED_RETENTION",
		"scorer.base_url":                "PATENTDESK_SCORER_BASE_URL",
		"scorer.api_key":                 "PATENTDESK_SCORER_API_KEY",
		"scorer.timeout_secs":            "PATENTDESK_SCORER_TIMEOUT_SECS",
		"rate_limit.requests_per_second": "PATENTDESK_RATE_LIMIT_REQUESTS_PER_SECOND",
		"rate_limit.burst":               "PATENTDESK_RATE_LIMIT_BURST",
		"janitor.schedule":               "PATENTDESK_JANITOR_SCHEDULE",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if PATENTDESK_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("PATENTDESK_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.JWT = JWTConfig{
		Secret:             v.GetString("jwt.secret"),
		AccessTokenExpiry:  v.GetDuration("jwt.access_expiry"),
		RefreshTokenExpiry: v.GetDuration("jwt.refresh_expiry"),
		Issuer:             v.GetString("jwt.issuer"),
		LoginPath:          v.GetString("jwt.login_path"),
	}
	cfg.S3 = S3Config{
		Region:    v.GetString("s3.region"),
		Bucket:    v.GetString("s3.bucket"),
		Endpoint:  v.GetString("s3.endpoint"),
		AccessKey: v.GetString("s3.access_key"),
		SecretKey: v.GetString("s3.secret_key"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: corsOrigins,
	}

	cfg.Email = EmailConfig{
		Provider:    v.GetString("email.provider"),
		Region:      v.GetString("email.region"),
		FromAddress: v.GetString("email.from_address"),
		FromName:    v.GetString("email.from_name"),
		FrontendURL: v.GetString("email.frontend_url"),
	}

	cfg.Redis = RedisConfig{
		Addr:     v.GetString("redis.addr"),
		Password: v.GetString("redis.password"),
		DB:       v.GetInt("redis.db"),
	}
	cfg.Draft = DraftConfig{
		Provider: v.GetString("draft.provider"),
		TTL:      v.GetDuration("draft.ttl"),
	}

	cfg.Wizard = WizardConfig{
		PendingTimeout: v.GetDuration("wizard.pending_timeout"),
		ApplicationFee: v.GetInt64("wizard.application_fee"),
		Currency:       v.GetString("wizard.currency"),
		HomeCountry:    v.GetString("wizard.home_country"),
	}

	cfg.Upload = UploadConfig{
		MaxFileSizeMB:   v.GetInt64("upload.max_file_size_mb"),
		MaxClaims:       v.GetInt("upload.max_claims"),
		MaxAbstract:     v.GetInt("upload.max_abstract"),
		MaxDrawings:     v.GetInt("upload.max_drawings"),
		MaxSupporting:   v.GetInt("upload.max_supporting"),
		FailedRetention: v.GetDuration("upload.failed_retention"),
	}

	cfg.Scorer = ScorerConfig{
		BaseURL:     v.GetString("scorer.base_url"),
		APIKey:      v.GetString("scorer.api_key"),
		TimeoutSecs: v.GetInt("scorer.timeout_secs"),
	}

	cfg.RateLimit = RateLimitConfig{
		RequestsPerSecond: v.GetFloat64("rate_limit.requests_per_second"),
		Burst:             v.GetInt("rate_limit.burst"),
	}

	cfg.Janitor = JanitorConfig{
		Schedule: v.GetString("janitor.schedule"),
	}

	return cfg, nil
}
