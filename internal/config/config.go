package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	App      AppConfig
	OSS      OSSConfig
	Mail     MailConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

// ServerConfig holds server settings
type ServerConfig struct {
	Port string
}

// AppConfig holds application-specific settings
type AppConfig struct {
	JWTSecret   string
	MaxUploadMB int64
}

// OSSConfig holds object storage settings
type OSSConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	PublicURL string
}

// MailConfig holds Mailtrap email settings
type MailConfig struct {
	APIKey      string
	FromEmail   string
	FromName    string
	AdminEmails []string
	BaseURL     string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	config := &Config{
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", "avoidxray"),
		},
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
		},
		App: AppConfig{
			JWTSecret:   getEnv("JWT_SECRET", ""),
			MaxUploadMB: getEnvInt64("MAX_UPLOAD_MB", 10),
		},
		OSS: OSSConfig{
			Endpoint:  getEnv("OSS_ENDPOINT", ""),
			AccessKey: getEnv("OSS_ACCESS_KEY", ""),
			SecretKey: getEnv("OSS_SECRET_KEY", ""),
			Bucket:    getEnv("OSS_BUCKET", ""),
			UseSSL:    getEnv("OSS_USE_SSL", "true") == "true",
			PublicURL: getEnv("OSS_PUBLIC_URL", ""),
		},
		Mail: MailConfig{
			APIKey:      getEnv("MAILTRAP_API_KEY", ""),
			FromEmail:   getEnv("MAIL_FROM_EMAIL", "noreply@avoidxray.com"),
			FromName:    getEnv("MAIL_FROM_NAME", "AVOID X RAY"),
			AdminEmails: splitList(getEnv("ADMIN_EMAILS", "")),
			BaseURL:     getEnv("BASE_URL", "http://localhost:8080"),
		},
	}

	// Validate required fields
	if config.App.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	if config.OSS.Endpoint == "" || config.OSS.Bucket == "" {
		return nil, fmt.Errorf("OSS_ENDPOINT and OSS_BUCKET are required")
	}

	return config, nil
}

// GetDSN returns the PostgreSQL connection string
func (c *Config) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
	)
}

// MaxUploadBytes returns the image upload ceiling in bytes
func (c *Config) MaxUploadBytes() int64 {
	return c.App.MaxUploadMB * 1024 * 1024
}

// getEnv gets an environment variable with a fallback default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt64(key string, defaultValue int64) int64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return defaultValue
	}
	return n
}

func splitList(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
