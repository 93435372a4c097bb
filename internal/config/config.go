package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the consent core
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Consent  ConsentConfig  `mapstructure:"consent"`
	Worker   WorkerConfig   `mapstructure:"worker"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Type            string        `mapstructure:"type"`
	Hostname        string        `mapstructure:"hostname"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Database        string        `mapstructure:"database"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	// OffsetBeforeLimit switches the bind order of the pagination
	// placeholders for dialects that page with OFFSET ... FETCH NEXT.
	OffsetBeforeLimit bool `mapstructure:"offset_before_limit"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ConsentConfig holds consent-related configuration
type ConsentConfig struct {
	DefaultOrgID           string `mapstructure:"default_org_id"`
	ExpiredStatus          string `mapstructure:"expired_status"`
	ExpiryEligibleStatuses string `mapstructure:"expiry_eligible_statuses"`
}

// WorkerConfig holds expiry worker configuration
type WorkerConfig struct {
	Interval time.Duration `mapstructure:"interval"`
}

var globalConfig *Config

// Load reads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath("../configs")
		v.AddConfigPath(".")
	}

	v.AutomaticEnv()
	v.SetEnvPrefix("CONSENT_CORE")

	v.SetDefault("database.type", "mysql")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 5*time.Minute)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("consent.default_org_id", "DEFAULT_ORG")
	v.SetDefault("consent.expired_status", "Expired")
	v.SetDefault("worker.interval", time.Hour)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	globalConfig = &config
	return &config, nil
}

// validateConfig validates the configuration
func validateConfig(config *Config) error {
	if config.Database.Hostname == "" {
		return fmt.Errorf("database hostname is required")
	}

	if config.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}

	if config.Consent.DefaultOrgID == "" {
		return fmt.Errorf("default org ID is required")
	}

	if config.Worker.Interval <= 0 {
		return fmt.Errorf("invalid worker interval: %s", config.Worker.Interval)
	}

	return nil
}

// Get returns the global configuration
func Get() *Config {
	return globalConfig
}

// SetGlobal sets the global configuration (for testing purposes)
func SetGlobal(cfg *Config) {
	globalConfig = cfg
}

// GetDSN returns the database connection string
func (d *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&multiStatements=true",
		d.User,
		d.Password,
		d.Hostname,
		d.Port,
		d.Database,
	)
}

// LimitBeforeOffset reports whether pagination binds the limit value ahead
// of the offset value for this database.
func (d *DatabaseConfig) LimitBeforeOffset() bool {
	return !d.OffsetBeforeLimit
}
