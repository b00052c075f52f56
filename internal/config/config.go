package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server       ServerConfig       `yaml:"server"`
	Database     DatabaseConfig     `yaml:"database"`
	Verification VerificationConfig `yaml:"verification"`
	Payment      PaymentConfig      `yaml:"payment"`
	Log          LogConfig          `yaml:"log"`
	Scheduler    SchedulerConfig    `yaml:"scheduler"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// DatabaseConfig contains PostgreSQL connection settings
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"ssl_mode"`
}

// VerificationConfig contains settings for the external image-verification engine
type VerificationConfig struct {
	BaseURL        string `yaml:"base_url"`
	APIKey         string `yaml:"api_key"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	// MaxAttempts is the retry-exhaustion threshold: a RETRY decision at or
	// past this attempt number escalates the rental to DISPUTED.
	MaxAttempts       int `yaml:"max_attempts"`
	RetryAfterMinutes int `yaml:"retry_after_minutes"`
}

// PaymentConfig contains payment gateway redirect settings
type PaymentConfig struct {
	CheckoutBaseURL string `yaml:"checkout_base_url"`
	Currency        string `yaml:"currency"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// SchedulerConfig contains cron schedule settings
type SchedulerConfig struct {
	SendReturnReminders       string `yaml:"send_return_reminders"`
	CancelExpiredRentals      string `yaml:"cancel_expired_rentals"`
	RetryPendingVerifications string `yaml:"retry_pending_verifications"`
	// PendingRentalMaxAgeHours is how long a PENDING rental may sit unpaid
	// before the cleanup job cancels it.
	PendingRentalMaxAgeHours int `yaml:"pending_rental_max_age_hours"`
}

// Load reads configuration from a YAML file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.overrideWithEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// overrideWithEnv overrides config values with environment variables
func (c *Config) overrideWithEnv() {
	// Database
	if val := os.Getenv("DB_HOST"); val != "" {
		c.Database.Host = val
	}
	if val := os.Getenv("DB_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Database.Port)
	}
	if val := os.Getenv("DB_USER"); val != "" {
		c.Database.User = val
	}
	if val := os.Getenv("DB_PASSWORD"); val != "" {
		c.Database.Password = val
	}
	if val := os.Getenv("DB_NAME"); val != "" {
		c.Database.Database = val
	}
	if val := os.Getenv("DB_SSL_MODE"); val != "" {
		c.Database.SSLMode = val
	}

	// Verification engine
	if val := os.Getenv("ML_SERVICE_URL"); val != "" {
		c.Verification.BaseURL = val
	}
	if val := os.Getenv("ML_SERVICE_API_KEY"); val != "" {
		c.Verification.APIKey = val
	}

	// Payment gateway
	if val := os.Getenv("PAYMENT_CHECKOUT_URL"); val != "" {
		c.Payment.CheckoutBaseURL = val
	}

	// Server
	if val := os.Getenv("SERVER_HOST"); val != "" {
		c.Server.Host = val
	}
	if val := os.Getenv("SERVER_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Server.Port)
	}

	// Log
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.Log.Level = val
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		c.Log.Format = val
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}
	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}

	if c.Verification.BaseURL == "" {
		return fmt.Errorf("verification engine base URL is required")
	}

	// Verification defaults
	if c.Verification.TimeoutSeconds == 0 {
		c.Verification.TimeoutSeconds = 30
	}
	if c.Verification.MaxAttempts == 0 {
		c.Verification.MaxAttempts = 10
	}
	if c.Verification.RetryAfterMinutes == 0 {
		c.Verification.RetryAfterMinutes = 30
	}

	// Payment defaults
	if c.Payment.Currency == "" {
		c.Payment.Currency = "PHP"
	}

	// Scheduler defaults
	if c.Scheduler.SendReturnReminders == "" {
		c.Scheduler.SendReturnReminders = "0 0 9 * * *" // 9 AM UTC
	}
	if c.Scheduler.CancelExpiredRentals == "" {
		c.Scheduler.CancelExpiredRentals = "0 0 2 * * *" // 2 AM UTC
	}
	if c.Scheduler.RetryPendingVerifications == "" {
		c.Scheduler.RetryPendingVerifications = "0 */30 * * * *" // every 30 minutes
	}
	if c.Scheduler.PendingRentalMaxAgeHours == 0 {
		c.Scheduler.PendingRentalMaxAgeHours = 24
	}

	return nil
}

// GetDatabaseConnectionString returns a PostgreSQL connection string
func (c *Config) GetDatabaseConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Database,
		c.Database.SSLMode,
	)
}

// GetServerAddress returns the HTTP server address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
