package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"time"
)

type Config struct {
	// portal view server
	PortalPort string
	APIBaseURL string

	HTTPTimeout    time.Duration
	RetryBase      time.Duration
	DebounceWindow time.Duration

	// session store; empty RedisAddr keeps the session in memory
	RedisAddr  string
	RedisDB    int
	SessionTTL time.Duration

	LogLevel  string
	LogFormat string // "json" or "console"

	// devapi
	DevAPIPort   string
	DBDriver     string // "sqlite" or "mysql"
	SQLitePath   string
	MySQLHost    string
	MySQLPort    string
	MySQLDB      string
	MySQLUser    string
	MySQLPass    string
	JWTSecret    string
	TokenTTL     time.Duration
	IdempTTLSecs int
	// DocumentRoot holds the uploads/ directory served to staff
	DocumentRoot string
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getint(k string, d int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return d
}

func getduration(k string, d time.Duration) time.Duration {
	if v := os.Getenv(k); v != "" {
		if dur, err := time.ParseDuration(v); err == nil {
			return dur
		}
	}
	return d
}

func Load() *Config {
	return &Config{
		PortalPort: getenv("PORTAL_PORT", "4200"),
		APIBaseURL: getenv("API_BASE_URL", "http://localhost:8080/api"),

		HTTPTimeout:    getduration("HTTP_TIMEOUT", 30*time.Second),
		RetryBase:      getduration("RETRY_BASE", time.Second),
		DebounceWindow: getduration("SEARCH_DEBOUNCE", 300*time.Millisecond),

		RedisAddr:  getenv("REDIS_ADDR", ""),
		RedisDB:    getint("REDIS_DB", 0),
		SessionTTL: getduration("SESSION_TTL", 24*time.Hour),

		LogLevel:  getenv("LOG_LEVEL", "info"),
		LogFormat: getenv("LOG_FORMAT", "console"),

		DevAPIPort:   getenv("DEVAPI_PORT", "8080"),
		DBDriver:     getenv("DB_DRIVER", "sqlite"),
		SQLitePath:   getenv("SQLITE_PATH", "file:devapi.db?cache=shared"),
		MySQLHost:    getenv("MYSQL_HOST", "mysql"),
		MySQLPort:    getenv("MYSQL_PORT", "3306"),
		MySQLDB:      getenv("MYSQL_DB", "lending"),
		MySQLUser:    getenv("MYSQL_USER", "lending"),
		MySQLPass:    getenv("MYSQL_PASS", "lending"),
		JWTSecret:    getenv("JWT_SECRET", "dev-secret-change-me"),
		TokenTTL:     getduration("TOKEN_TTL", 8*time.Hour),
		IdempTTLSecs: getint("IDEMPOTENCY_TTL_SECONDS", 300),
		DocumentRoot: getenv("DOCUMENT_ROOT", "."),
	}
}

// Validate checks the settings the portal needs.
func (c *Config) Validate() error {
	if c.PortalPort == "" {
		return errors.New("missing PORTAL_PORT")
	}
	u, err := url.Parse(c.APIBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid API_BASE_URL %q", c.APIBaseURL)
	}
	if c.DebounceWindow < 0 || c.RetryBase < 0 {
		return errors.New("SEARCH_DEBOUNCE and RETRY_BASE must not be negative")
	}
	return nil
}

// ValidateDevAPI checks the settings the development API needs.
func (c *Config) ValidateDevAPI() error {
	if c.DevAPIPort == "" {
		return errors.New("missing DEVAPI_PORT")
	}
	if c.JWTSecret == "" {
		return errors.New("missing JWT_SECRET")
	}
	switch c.DBDriver {
	case "sqlite":
		if c.SQLitePath == "" {
			return errors.New("missing SQLITE_PATH")
		}
	case "mysql":
		if c.MySQLHost == "" || c.MySQLPort == "" || c.MySQLDB == "" || c.MySQLUser == "" {
			return errors.New("missing MySQL config (MYSQL_HOST/PORT/DB/USER)")
		}
		// ensure port is valid
		if _, err := net.LookupPort("tcp", c.MySQLPort); err != nil {
			return fmt.Errorf("invalid MYSQL_PORT %q: %w", c.MySQLPort, err)
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	return nil
}

func (c *Config) mysqlAddr() string { return net.JoinHostPort(c.MySQLHost, c.MySQLPort) }

func (c *Config) MySQLDSN() string {
	// parseTime needed for DATETIME
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true&charset=utf8mb4,utf8",
		c.MySQLUser, c.MySQLPass, c.mysqlAddr(), c.MySQLDB)
}
