package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/franciscosanchezn/thunder-road-api/internal/database"
	"github.com/sirupsen/logrus"
)

// Create a new instance of the logger
// Configure it to log at the desired level
// and format it as JSON for structured logging
var log = logrus.New()

func init() {
	log.SetFormatter(&logrus.JSONFormatter{})
	environment := GetEnvWithDefault("APP_ENV", "development")
	switch environment {
	case "development":
		log.SetLevel(logrus.DebugLevel)
	case "production":
		log.SetLevel(logrus.ErrorLevel)
	default:
		// Default to info level for other environments
		log.SetLevel(logrus.InfoLevel)
	}
}

const defaultJWTSecret = "secret"

// Config used for the application configuration, loading the input from environment variables
type Config struct {
	// Server Configuration
	Environment    string        `json:"environment"`
	Port           int           `json:"port"`
	Host           string        `json:"host"`
	FrontendURL    string        `json:"frontend_url"`
	RequestTimeout time.Duration `json:"request_timeout"`
	TrustedProxies []string      `json:"trusted_proxies"`

	// Database configuration
	DBDriver    string `json:"db_driver"`
	DatabaseURL string `json:"database_url"`
	DBHost      string `json:"db_host"`
	DBPort      string `json:"db_port"`
	DBName      string `json:"db_name"`
	DBUser      string `json:"db_user"`
	DBPassword  string `json:"db_password"`
	DBSSLMode   string `json:"db_sslmode"`
	DBPath      string `json:"db_path"`

	// Logging configuration, empty keeps the APP_ENV default
	LogLevel string `json:"log_level"`

	// Security Configuration
	JWTSecret     string `json:"jwt_secret"`
	AdminDevAuth  bool   `json:"admin_dev_auth"`
	AdminEmail    string `json:"admin_email"`
	AdminPassword string `json:"admin_password"`

	// Menu
	MenuCacheTTL time.Duration `json:"menu_cache_ttl"`

	// Media uploads
	UploadDir      string `json:"upload_dir"`
	MaxUploadBytes int64  `json:"max_upload_bytes"`

	// Contact form throttling
	ContactRateLimit  int           `json:"contact_rate_limit"`
	ContactRateWindow time.Duration `json:"contact_rate_window"`
}

// String returns a string representation of Config with sensitive data masked
func (c *Config) String() string {
	return fmt.Sprintf("Config{Environment: %s, Port: %d, Host: %s, FrontendURL: %s, DBDriver: %s, DatabaseURL: %s, DBHost: %s, DBName: %s, DBUser: %s, DBPassword: [REDACTED], DBPath: %s, LogLevel: %s, JWTSecret: [REDACTED], AdminDevAuth: %t, MenuCacheTTL: %s, UploadDir: %s, RequestTimeout: %s, TrustedProxies: %v}",
		c.Environment, c.Port, c.Host, c.FrontendURL, c.DBDriver, maskDatabaseURL(c.DatabaseURL), c.DBHost, c.DBName, c.DBUser,
		c.DBPath, c.LogLevel, c.AdminDevAuth, c.MenuCacheTTL, c.UploadDir, c.RequestTimeout, c.TrustedProxies)
}

// maskDatabaseURL masks password in database URL
func maskDatabaseURL(dbURL string) string {
	if dbURL == "" {
		return ""
	}

	parsed, err := url.Parse(dbURL)
	if err != nil {
		return "[REDACTED_INVALID_URL]"
	}

	if parsed.User != nil {
		// Replace password with [REDACTED]
		parsed.User = url.UserPassword(parsed.User.Username(), "[REDACTED]")
	}

	return parsed.String()
}

// LoadConfig read the proper configuration from environment variables and returns a Config struct
// It also validates formats like DatabaseURL and the durations
// Returns an error if any environment variable is invalid
func LoadConfig() (*Config, error) {
	log.Info("Loading configuration from environment variables")
	port, err := strconv.Atoi(GetEnvWithDefault("APP_PORT", "5000"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	dbURL := GetEnvWithDefault("DATABASE_URL", "")
	if dbURL != "" {
		// validate URL with net/url
		if _, err := url.ParseRequestURI(dbURL); err != nil {
			return nil, fmt.Errorf("invalid DATABASE_URL format: %w", err)
		}
	}

	cacheTTL, err := parseDuration("MENU_CACHE_TTL", "5s")
	if err != nil {
		return nil, err
	}
	requestTimeout, err := parseDuration("REQUEST_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	contactWindow, err := parseDuration("CONTACT_RATE_WINDOW", "1h")
	if err != nil {
		return nil, err
	}

	config := &Config{
		Environment:       GetEnvWithDefault("APP_ENV", "development"),
		Port:              port,
		Host:              GetEnvWithDefault("APP_HOST", "localhost"),
		FrontendURL:       GetEnvWithDefault("FRONTEND_URL", "http://localhost:3000"),
		RequestTimeout:    requestTimeout,
		DBDriver:          strings.ToLower(GetEnvWithDefault("DB_DRIVER", "sqlite")),
		DatabaseURL:       dbURL,
		DBHost:            GetEnvWithDefault("DB_HOST", "localhost"),
		DBPort:            GetEnvWithDefault("DB_PORT", "5432"),
		DBName:            GetEnvWithDefault("DB_NAME", "thunder_road"),
		DBUser:            GetEnvWithDefault("DB_USER", "postgres"),
		DBPassword:        GetEnvWithDefault("DB_PASSWORD", ""),
		DBSSLMode:         GetEnvWithDefault("DB_SSLMODE", "disable"),
		DBPath:            GetEnvWithDefault("DB_PATH", "thunder_road.sqlite"),
		TrustedProxies:    splitList(GetEnvWithDefault("TRUSTED_PROXIES", "")),
		LogLevel:          GetEnvWithDefault("LOG_LEVEL", ""),
		JWTSecret:         GetEnvWithDefault("JWT_SECRET", defaultJWTSecret),
		AdminDevAuth:      GetEnvAsType("ADMIN_DEV_AUTH", false),
		AdminEmail:        GetEnvWithDefault("ADMIN_EMAIL", ""),
		AdminPassword:     GetEnvWithDefault("ADMIN_PASSWORD", ""),
		MenuCacheTTL:      cacheTTL,
		UploadDir:         GetEnvWithDefault("UPLOAD_DIR", "uploads"),
		MaxUploadBytes:    int64(GetEnvAsType("UPLOAD_MAX_BYTES", 5*1024*1024)),
		ContactRateLimit:  GetEnvAsType("CONTACT_RATE_LIMIT", 6),
		ContactRateWindow: contactWindow,
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	log.Infof("Configuration loaded: %s", config.String())
	return config, nil
}

// Validate checks the combinations LoadConfig cannot check key by key
func (c *Config) Validate() error {
	switch c.DBDriver {
	case "sqlite", "postgres", "postgresql":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q (supported: sqlite, postgres)", c.DBDriver)
	}
	if u, err := url.Parse(c.FrontendURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid FRONTEND_URL %q: expected an http(s) origin", c.FrontendURL)
	}
	if c.Environment == "production" && c.JWTSecret == defaultJWTSecret {
		return errors.New("JWT_SECRET must be set in production")
	}
	if c.Environment == "production" && c.AdminDevAuth {
		return errors.New("ADMIN_DEV_AUTH cannot be enabled in production")
	}
	if c.MenuCacheTTL <= 0 {
		return errors.New("MENU_CACHE_TTL must be positive")
	}
	if c.RequestTimeout <= 0 {
		return errors.New("REQUEST_TIMEOUT must be positive")
	}
	if c.MaxUploadBytes <= 0 {
		return errors.New("UPLOAD_MAX_BYTES must be positive")
	}
	if c.ContactRateLimit <= 0 || c.ContactRateWindow <= 0 {
		return errors.New("CONTACT_RATE_LIMIT and CONTACT_RATE_WINDOW must be positive")
	}
	return nil
}

// splitList reads a comma separated value, dropping blank entries
func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

func parseDuration(key, defaultValue string) (time.Duration, error) {
	d, err := time.ParseDuration(GetEnvWithDefault(key, defaultValue))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

// Helper to get environment with default values
func GetEnvWithDefault(key, defaultValue string) string {
	log.Tracef("Getting environment variable: %s", key)
	value := os.Getenv(key)
	if value == "" {
		log.Debugf("Environment variable %s not set, using default value", key)
		return defaultValue
	}
	return value
}

// GetEnvAsType retrieves an environment variable and converts it to the specified type
// using generic type handling.
func GetEnvAsType[T any](key string, defaultValue T) T {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var result T
	switch any(result).(type) {
	case int:
		intValue, err := strconv.Atoi(value)
		if err != nil {
			return defaultValue
		}
		return any(intValue).(T)
	case string:
		return any(value).(T)
	case bool:
		boolValue, err := strconv.ParseBool(value)
		if err != nil {
			return defaultValue
		}
		return any(boolValue).(T)
	case time.Duration:
		d, err := time.ParseDuration(value)
		if err != nil {
			return defaultValue
		}
		return any(d).(T)
	default:
		return defaultValue // Fallback for unsupported types
	}
}

// Database maps the DB_* settings onto the connection settings of the database package
func (c *Config) Database() database.DatabaseConfig {
	return database.DatabaseConfig{
		Driver:   c.DBDriver,
		URL:      c.DatabaseURL,
		Host:     c.DBHost,
		Port:     c.DBPort,
		User:     c.DBUser,
		Password: c.DBPassword,
		Name:     c.DBName,
		SSLMode:  c.DBSSLMode,
		Path:     c.DBPath,
	}
}
