package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"
)

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// MinIOConfig holds object storage settings for MinIO.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// AuthConfig holds session token settings.
type AuthConfig struct {
	JWTSecret    string
	TokenTTLMin  int
	CookieSecure bool
}

// TokenTTL returns the configured session lifetime.
func (a AuthConfig) TokenTTL() time.Duration {
	if a.TokenTTLMin <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(a.TokenTTLMin) * time.Minute
}

// LimitsConfig bounds request payloads.
type LimitsConfig struct {
	UploadMaxBytes         int64
	CSVMaxBytes            int64
	CSVMaxRows             int
	AttachmentURLExpirySec int
}

// AttachmentURLExpiry returns the lifetime of presigned attachment URLs.
func (l LimitsConfig) AttachmentURLExpiry() time.Duration {
	if l.AttachmentURLExpirySec <= 0 {
		return 15 * time.Minute
	}
	return time.Duration(l.AttachmentURLExpirySec) * time.Second
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost  string
	Port     string
	Timezone string
	LogLevel string
	Database DatabaseConfig
	MinIO    MinIOConfig
	Auth     AuthConfig
	Limits   LimitsConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		AppHost:  getEnv("APP_HOST", "localhost:8080"),
		Port:     getEnv("PORT", "8080"),
		Timezone: getEnv("APP_TIMEZONE", "UTC"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Database: DatabaseConfig{
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", ""),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
		Auth: AuthConfig{
			JWTSecret:    getEnv("AUTH_JWT_SECRET", ""),
			TokenTTLMin:  getEnvInt("AUTH_TOKEN_TTL_MIN", 1440),
			CookieSecure: getEnvBool("AUTH_COOKIE_SECURE", false),
		},
		Limits: LimitsConfig{
			UploadMaxBytes:         getEnvInt64("UPLOAD_MAX_BYTES", 20<<20),
			CSVMaxBytes:            getEnvInt64("CSV_MAX_BYTES", 5<<20),
			CSVMaxRows:             getEnvInt("CSV_MAX_ROWS", 5000),
			AttachmentURLExpirySec: getEnvInt("ATTACHMENT_URL_EXPIRY_SEC", 900),
		},
	}
}

// Validate reports configuration values the API cannot start without.
func (c *AppConfig) Validate() error {
	var errs []error
	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("AUTH_JWT_SECRET is required"))
	} else if len(c.Auth.JWTSecret) < 32 {
		errs = append(errs, errors.New("AUTH_JWT_SECRET must be at least 32 bytes"))
	}
	if c.Limits.UploadMaxBytes <= 0 {
		errs = append(errs, errors.New("UPLOAD_MAX_BYTES must be positive"))
	}
	if c.Limits.CSVMaxRows <= 0 {
		errs = append(errs, errors.New("CSV_MAX_ROWS must be positive"))
	}
	return errors.Join(errs...)
}

// Location returns the configured timezone, falling back to UTC.
func (c *AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Debug reports whether debug logging is enabled.
func (c *AppConfig) Debug() bool {
	return strings.EqualFold(c.LogLevel, "debug")
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}

func getEnvInt64(key string, def int64) int64 {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.ParseInt(v, 10, 64)
		if err == nil {
			return i
		}
	}
	return def
}
