package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server       ServerConfig       `yaml:"server"`
	Database     DatabaseConfig     `yaml:"database"`
	JWT          JWTConfig          `yaml:"jwt"`
	Storage      StorageConfig      `yaml:"storage"`
	Translation  TranslationConfig  `yaml:"translation"`
	Registration RegistrationConfig `yaml:"registration"`
	Pagination   PaginationConfig   `yaml:"pagination"`
	SendGrid     SendGridConfig     `yaml:"sendgrid"`
	Log          LogConfig          `yaml:"log"`
	Scheduler    SchedulerConfig    `yaml:"scheduler"`
}

// ServerConfig contains HTTP and gRPC listener settings
type ServerConfig struct {
	Host               string   `yaml:"host"`
	Port               int      `yaml:"port"`
	GRPCPort           int      `yaml:"grpc_port"`
	CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`
}

// DatabaseConfig contains connection settings. Driver is "postgres" or "sqlite".
type DatabaseConfig struct {
	Driver   string `yaml:"driver"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"ssl_mode"`
	Path     string `yaml:"path"` // sqlite only
}

// JWTConfig contains JWT token settings
type JWTConfig struct {
	Secret            string `yaml:"secret"`
	AccessTokenExpiry int    `yaml:"access_token_expiry_minutes"`
}

// StorageConfig contains encrypted file store settings
type StorageConfig struct {
	DataDir             string `yaml:"data_dir"`
	TempDir             string `yaml:"temp_dir"`
	TransientTTLMinutes int    `yaml:"transient_ttl_minutes"`
}

// TranslationConfig contains the translation vendor credentials
type TranslationConfig struct {
	AppKey         string `yaml:"app_key"`
	AppSecret      string `yaml:"app_secret"`
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// RegistrationConfig contains account provisioning defaults
type RegistrationConfig struct {
	DefaultStorageQuota int64 `yaml:"default_storage_quota"`
}

// PaginationConfig bounds list endpoints
type PaginationConfig struct {
	DefaultLimit int `yaml:"default_limit"`
	MaxLimit     int `yaml:"max_limit"`
}

// SendGridConfig contains email delivery settings. An empty APIKey logs mail instead of sending it.
type SendGridConfig struct {
	APIKey    string `yaml:"api_key"`
	FromEmail string `yaml:"from_email"`
	FromName  string `yaml:"from_name"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// SchedulerConfig contains cron schedule settings
type SchedulerConfig struct {
	PurgeTransientFiles       string `yaml:"purge_transient_files"`
	PendingRegistrationDigest string `yaml:"pending_registration_digest"`
}

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	defaultStorageQuota = 10_000_000_000 // 10 GB
)

// Load reads configuration from a YAML file, then applies .env and environment overrides
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// A missing .env is normal outside local development
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
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
	if val := os.Getenv("DB_DRIVER"); val != "" {
		c.Database.Driver = val
	}
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
	if val := os.Getenv("DB_PATH"); val != "" {
		c.Database.Path = val
	}

	// JWT
	if val := os.Getenv("JWT_SECRET"); val != "" {
		c.JWT.Secret = val
	}

	// Server
	if val := os.Getenv("SERVER_HOST"); val != "" {
		c.Server.Host = val
	}
	if val := os.Getenv("SERVER_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Server.Port)
	}
	if val := os.Getenv("GRPC_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Server.GRPCPort)
	}
	if val := os.Getenv("CORS_ALLOWED_ORIGINS"); val != "" {
		c.Server.CORSAllowedOrigins = strings.Split(val, ",")
	}

	// Storage
	if val := os.Getenv("STORAGE_DATA_DIR"); val != "" {
		c.Storage.DataDir = val
	}
	if val := os.Getenv("STORAGE_TEMP_DIR"); val != "" {
		c.Storage.TempDir = val
	}

	// Translation
	if val := os.Getenv("TRANSLATION_APP_KEY"); val != "" {
		c.Translation.AppKey = val
	}
	if val := os.Getenv("TRANSLATION_APP_SECRET"); val != "" {
		c.Translation.AppSecret = val
	}
	if val := os.Getenv("TRANSLATION_BASE_URL"); val != "" {
		c.Translation.BaseURL = val
	}

	// SendGrid
	if val := os.Getenv("SENDGRID_API_KEY"); val != "" {
		c.SendGrid.APIKey = val
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

// Validate checks if the configuration is valid and fills in defaults
func (c *Config) Validate() error {
	// Server validation
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.GRPCPort < 0 || c.Server.GRPCPort > 65535 {
		return fmt.Errorf("invalid gRPC port: %d", c.Server.GRPCPort)
	}

	// Database validation
	if c.Database.Driver == "" {
		c.Database.Driver = DriverPostgres
	}
	switch c.Database.Driver {
	case DriverPostgres:
		if c.Database.Host == "" {
			return fmt.Errorf("database host is required")
		}
		if c.Database.User == "" {
			return fmt.Errorf("database user is required")
		}
		if c.Database.Database == "" {
			return fmt.Errorf("database name is required")
		}
		if c.Database.SSLMode == "" {
			c.Database.SSLMode = "disable"
		}
	case DriverSQLite:
		if c.Database.Path == "" {
			return fmt.Errorf("database path is required for sqlite")
		}
	default:
		return fmt.Errorf("unsupported database driver: %s", c.Database.Driver)
	}

	// JWT validation
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT secret must be at least 32 characters")
	}
	if c.JWT.AccessTokenExpiry <= 0 {
		c.JWT.AccessTokenExpiry = 60
	}

	// Storage validation
	if c.Storage.DataDir == "" {
		return fmt.Errorf("storage data directory is required")
	}
	if c.Storage.TempDir == "" {
		c.Storage.TempDir = os.TempDir()
	}
	if c.Storage.TransientTTLMinutes <= 0 {
		c.Storage.TransientTTLMinutes = 60
	}

	// Translation defaults; credentials stay optional and are checked per request
	if c.Translation.BaseURL == "" {
		c.Translation.BaseURL = "https://openapi.youdao.com"
	}
	if c.Translation.TimeoutSeconds <= 0 {
		c.Translation.TimeoutSeconds = 60
	}

	// Registration defaults
	if c.Registration.DefaultStorageQuota <= 0 {
		c.Registration.DefaultStorageQuota = defaultStorageQuota
	}

	// Pagination defaults
	if c.Pagination.DefaultLimit <= 0 {
		c.Pagination.DefaultLimit = 50
	}
	if c.Pagination.MaxLimit <= 0 {
		c.Pagination.MaxLimit = 100
	}
	if c.Pagination.DefaultLimit > c.Pagination.MaxLimit {
		return fmt.Errorf("pagination default limit %d exceeds max limit %d", c.Pagination.DefaultLimit, c.Pagination.MaxLimit)
	}

	// Scheduler defaults
	if c.Scheduler.PurgeTransientFiles == "" {
		c.Scheduler.PurgeTransientFiles = "0 */15 * * * *" // Every 15 minutes
	}
	if c.Scheduler.PendingRegistrationDigest == "" {
		c.Scheduler.PendingRegistrationDigest = "0 0 8 * * *" // Daily at 8 AM UTC
	}

	return nil
}

// GetDatabaseConnectionString returns the DSN for the configured driver
func (c *Config) GetDatabaseConnectionString() string {
	if c.Database.Driver == DriverSQLite {
		return c.Database.Path
	}
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

// GetGRPCAddress returns the gRPC health server address, or "" when disabled
func (c *Config) GetGRPCAddress() string {
	if c.Server.GRPCPort == 0 {
		return ""
	}
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.GRPCPort)
}

// TranslationConfigured reports whether vendor credentials are present
func (c *Config) TranslationConfigured() bool {
	return c.Translation.AppKey != "" && c.Translation.AppSecret != ""
}
