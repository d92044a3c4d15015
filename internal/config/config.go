package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// URL returns the database URL form used by the migration runner.
func (c DatabaseConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode)
}

// DSN returns the keyword/value DSN form used by the GORM driver.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// StripeConfig holds payment provider credentials.
type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
}

// SessionConfig holds the admin session cookie keys and the bcrypt hash of
// the admin password.
type SessionConfig struct {
	HashKey           string
	BlockKey          string
	AdminPasswordHash string
}

// USPSConfig holds the postal validator credentials and service area.
type USPSConfig struct {
	UserID      string
	AllowedZips []string
}

// ServiceConfig holds all configuration for the booking service.
type ServiceConfig struct {
	Port         string
	AppEnv       string
	SiteURL      string
	DBConfig     DatabaseConfig
	StripeConfig StripeConfig
	Session      SessionConfig
	USPS         USPSConfig
	KafkaBrokers []string
}

// Load reads configuration from environment variables with the GIFTWRAP prefix.
func Load() (*ServiceConfig, error) {
	v := viper.New()
	v.SetEnvPrefix("GIFTWRAP")
	v.AutomaticEnv()

	v.SetDefault("SERVICE_PORT", "8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("SITE_URL", "http://localhost:3000")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("DB_NAME", "giftwrap")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("USPS_ALLOWED_ZIPS", []string{"32222", "32244", "32065", "32068"})

	cfg := &ServiceConfig{
		Port:    ":" + v.GetString("SERVICE_PORT"),
		AppEnv:  v.GetString("APP_ENV"),
		SiteURL: v.GetString("SITE_URL"),
		DBConfig: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		StripeConfig: StripeConfig{
			SecretKey:     v.GetString("STRIPE_SECRET_KEY"),
			WebhookSecret: v.GetString("STRIPE_WEBHOOK_SECRET"),
		},
		Session: SessionConfig{
			HashKey:           v.GetString("SESSION_HASH_KEY"),
			BlockKey:          v.GetString("SESSION_BLOCK_KEY"),
			AdminPasswordHash: v.GetString("ADMIN_PASSWORD_HASH"),
		},
		USPS: USPSConfig{
			UserID:      v.GetString("USPS_USER_ID"),
			AllowedZips: v.GetStringSlice("USPS_ALLOWED_ZIPS"),
		},
		KafkaBrokers: v.GetStringSlice("KAFKA_BROKERS"),
	}

	if cfg.Session.HashKey == "" {
		return nil, fmt.Errorf("GIFTWRAP_SESSION_HASH_KEY is required")
	}
	if cfg.Session.AdminPasswordHash == "" {
		return nil, fmt.Errorf("GIFTWRAP_ADMIN_PASSWORD_HASH is required")
	}

	return cfg, nil
}
