// Package config loads the Odoo connection settings and server options.
// Values come from environment variables, an optional .env file and command-line flags.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// DefaultTimeout bounds a whole tool operation (authenticate plus one call)
	DefaultTimeout = 30 * time.Second

	// DefaultMaxConcurrent limits parallel XML-RPC calls
	DefaultMaxConcurrent = 5

	// DefaultUserAgent identifies the server to Odoo
	DefaultUserAgent = "odoo-crm-mcp-server/1.0 (github.com/olgasafonova/odoo-crm-mcp-server)"

	// DefaultEnvFile is loaded when present
	DefaultEnvFile = ".env"

	// MinTimeout rejects unitless ODOO_TIMEOUT values, which parse as nanoseconds
	MinTimeout = time.Second
)

// Config holds Odoo connection settings and server options
type Config struct {
	// URL is the Odoo base URL (e.g., https://mycompany.odoo.com)
	URL string

	// Database is the Odoo database name
	Database string

	// Username is the login used for XML-RPC authentication
	Username string

	// Password is the user's password or API key
	Password string

	// Timeout for a single tool operation
	Timeout time.Duration

	// UserAgent sent with every XML-RPC request
	UserAgent string

	// MaxConcurrent caps in-flight XML-RPC calls
	MaxConcurrent int

	// LogLevel is one of debug, info, warn, error
	LogLevel string

	// AuthToken, when set, is required as a bearer token in HTTP mode
	AuthToken string

	// HTTPAddr enables the streamable HTTP transport when non-empty (--http or MCP_HTTP_ADDR)
	HTTPAddr string
}

// Init wires environment variables, the .env file and flags into v.
// Variables already present in the process environment win over the .env file.
func Init(v *viper.Viper, flags *pflag.FlagSet) error {
	v.AutomaticEnv()
	setDefaults(v)

	if flags != nil {
		bindings := map[string]string{
			KeyEnvFile:  "env-file",
			KeyLogLevel: "log-level",
			KeyHTTPAddr: "http",
		}
		for key, name := range bindings {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	path := v.GetString(KeyEnvFile)
	return loadEnvFile(path, path != DefaultEnvFile)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyTimeout, DefaultTimeout)
	v.SetDefault(KeyUserAgent, DefaultUserAgent)
	v.SetDefault(KeyMaxConcurrent, DefaultMaxConcurrent)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyEnvFile, DefaultEnvFile)
}

// loadEnvFile loads KEY=VALUE pairs into the process environment.
// A missing default file is not an error; a missing explicit file is.
func loadEnvFile(path string, explicit bool) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return nil
		}
		return fmt.Errorf("env file %s: %w", path, err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

// Load builds a Config from v. ODOO_URL, ODOO_DB, ODOO_USER and ODOO_PASSWORD are required.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		URL:           strings.TrimRight(strings.TrimSpace(v.GetString(KeyURL)), "/"),
		Database:      v.GetString(KeyDatabase),
		Username:      v.GetString(KeyUser),
		Password:      v.GetString(KeyPassword),
		Timeout:       v.GetDuration(KeyTimeout),
		UserAgent:     v.GetString(KeyUserAgent),
		MaxConcurrent: v.GetInt(KeyMaxConcurrent),
		LogLevel:      strings.ToLower(v.GetString(KeyLogLevel)),
		AuthToken:     v.GetString(KeyAuthToken),
		HTTPAddr:      v.GetString(KeyHTTPAddr),
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = DefaultMaxConcurrent
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports missing or malformed connection settings
func (c *Config) Validate() error {
	var missing []string
	if c.URL == "" {
		missing = append(missing, "ODOO_URL")
	}
	if c.Database == "" {
		missing = append(missing, "ODOO_DB")
	}
	if c.Username == "" {
		missing = append(missing, "ODOO_USER")
	}
	if c.Password == "" {
		missing = append(missing, "ODOO_PASSWORD")
	}
	if len(missing) > 0 {
		return fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}

	if c.Timeout > 0 && c.Timeout < MinTimeout {
		return fmt.Errorf("invalid ODOO_TIMEOUT %v: must be at least %v and carry a unit (e.g. 30s)", c.Timeout, MinTimeout)
	}

	u, err := url.Parse(c.URL)
	if err != nil {
		return fmt.Errorf("invalid ODOO_URL %q: %w", c.URL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid ODOO_URL %q: scheme must be http or https", c.URL)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid ODOO_URL %q: missing host", c.URL)
	}
	return nil
}

// SlogLevel maps LogLevel to a slog.Level, defaulting to info
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LogValue keeps the password out of log output
func (c *Config) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("url", c.URL),
		slog.String("database", c.Database),
		slog.String("user", c.Username),
		slog.Duration("timeout", c.Timeout),
		slog.Int("max_concurrent", c.MaxConcurrent),
	)
}
