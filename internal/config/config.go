package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/rs/zerolog"
)

// ConfigFileEnv names the environment variable pointing at an optional YAML config file.
const ConfigFileEnv = "CONFIG_FILE"

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host              string `koanf:"host"`
	Port              string `koanf:"port"`
	User              string `koanf:"user"`
	Password          string `koanf:"password"`
	Name              string `koanf:"name"`
	SSLMode           string `koanf:"sslmode"`
	MaxOpenConns      int    `koanf:"max_open_conns"`
	ConnectTimeoutSec int    `koanf:"connect_timeout_sec"`
}

// AppConfig is the centralized configuration struct for the application.
// It is loaded once at startup and passed to the components that need it.
type AppConfig struct {
	Port     string         `koanf:"port"`
	LogLevel string         `koanf:"log_level"`
	Database DatabaseConfig `koanf:"database"`

	// RequestTimeoutSec bounds each request, store calls included. 0 disables it.
	RequestTimeoutSec int `koanf:"request_timeout_sec"`
}

// envKeys maps the supported environment variables to config keys.
var envKeys = map[string]string{
	"PORT":                   "port",
	"LOG_LEVEL":              "log_level",
	"REQUEST_TIMEOUT_SEC":    "request_timeout_sec",
	"DB_HOST":                "database.host",
	"DB_PORT":                "database.port",
	"DB_USER":                "database.user",
	"DB_PASSWORD":            "database.password",
	"DB_NAME":                "database.name",
	"DB_SSLMODE":             "database.sslmode",
	"DB_MAX_OPEN_CONNS":      "database.max_open_conns",
	"DB_CONNECT_TIMEOUT_SEC": "database.connect_timeout_sec",
}

// Defaults returns the configuration used when neither file nor env provide a value.
// Credentials and host have no defaults.
func Defaults() *AppConfig {
	return &AppConfig{
		Port:     "8080",
		LogLevel: "info",
		Database: DatabaseConfig{
			Port:              "5432",
			Name:              "postgres",
			SSLMode:           "disable",
			ConnectTimeoutSec: 5,
		},
	}
}

// Load builds an AppConfig by layering, from low to high precedence:
//  1. Defaults()
//  2. the YAML file named by CONFIG_FILE, if set
//  3. environment variables (a .env file can be auto-loaded by importing
//     _ "github.com/joho/godotenv/autoload")
//
// Empty environment variables are ignored. The result is validated.
func Load() (*AppConfig, error) {
	k := koanf.New(".")

	if path := os.Getenv(ConfigFileEnv); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	envProvider := env.ProviderWithValue("", ".", func(key, value string) (string, interface{}) {
		mapped, ok := envKeys[key]
		if !ok || value == "" {
			return "", nil
		}
		return mapped, value
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := Defaults()
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports missing required settings.
func (c *AppConfig) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("invalid config: port is required")
	}
	if c.RequestTimeoutSec < 0 {
		return fmt.Errorf("invalid config: request_timeout_sec must not be negative")
	}
	return c.Database.Validate()
}

// Validate reports missing connection settings.
func (c DatabaseConfig) Validate() error {
	var missing []string
	if c.Host == "" {
		missing = append(missing, "host")
	}
	if c.Port == "" {
		missing = append(missing, "port")
	}
	if c.User == "" {
		missing = append(missing, "user")
	}
	if c.Password == "" {
		missing = append(missing, "password")
	}
	if c.Name == "" {
		missing = append(missing, "name")
	}
	if len(missing) > 0 {
		return fmt.Errorf("invalid database config: missing %s", strings.Join(missing, ", "))
	}
	return nil
}

// String omits the password.
func (c DatabaseConfig) String() string {
	return fmt.Sprintf("postgres://%s@%s:%s/%s?sslmode=%s", c.User, c.Host, c.Port, c.Name, c.SSLMode)
}

// MarshalZerologObject lets the config be logged without its password.
func (c DatabaseConfig) MarshalZerologObject(e *zerolog.Event) {
	e.Str("host", c.Host).
		Str("port", c.Port).
		Str("user", c.User).
		Str("name", c.Name).
		Str("sslmode", c.SSLMode).
		Int("max_open_conns", c.MaxOpenConns)
}
