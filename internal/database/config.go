package database

import (
	"fmt"
	"strings"
	"time"
)

// DatabaseConfig holds database connection configuration
type DatabaseConfig struct {
	// Driver specifies the database driver (postgres, sqlite)
	Driver string

	// URL overrides the individual PostgreSQL fields when set
	URL string

	// PostgreSQL-specific configuration
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string

	// SQLite-specific configuration
	Path string

	// MaxRetries is the number of connection attempts (default 5)
	MaxRetries int
	// RetryDelay is the first backoff delay, doubled after each attempt (default 1s)
	RetryDelay time.Duration
}

// String returns a string representation with sensitive data masked
func (c *DatabaseConfig) String() string {
	return fmt.Sprintf("DatabaseConfig{Driver: %s, Host: %s, Port: %s, User: %s, Password: [REDACTED], Name: %s, SSLMode: %s, Path: %s}",
		c.Driver, c.Host, c.Port, c.User, c.Name, c.SSLMode, c.Path)
}

// DSN builds a Data Source Name string based on the driver
func (c *DatabaseConfig) DSN() string {
	switch strings.ToLower(c.Driver) {
	case "postgres", "postgresql":
		if c.URL != "" {
			return c.URL
		}
		return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
			c.Host, c.User, c.Password, c.Name, c.Port, c.SSLMode)
	case "sqlite", "":
		return sqliteDSN(c.Path)
	default:
		return ""
	}
}

// sqliteDSN turns foreign key enforcement on; SQLite leaves it off per connection
func sqliteDSN(path string) string {
	if path == "" {
		path = "file::memory:"
	}
	if strings.Contains(path, "_foreign_keys") {
		return path
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_foreign_keys=on"
}

func (c *DatabaseConfig) retries() (int, time.Duration) {
	maxRetries, delay := c.MaxRetries, c.RetryDelay
	if maxRetries <= 0 {
		maxRetries = 5
	}
	if delay <= 0 {
		delay = time.Second
	}
	return maxRetries, delay
}
