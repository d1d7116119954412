// Package config builds the immutable service configuration.
//
// Values are resolved once at startup in three layers: built-in defaults,
// then an optional YAML file named by CONFIG_FILE, then environment
// variables. The resulting Config is passed by value into every component
// and never re-read per request.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is returned by Validate (wrapped) when a value is unusable.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds all service configuration.
type Config struct {
	Port     int            `yaml:"port"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// DatabaseConfig holds connection and pool settings.
type DatabaseConfig struct {
	// Driver is "mysql" or "sqlite".
	Driver   string `yaml:"driver"`
	Host     string `yaml:"host"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	Port     int    `yaml:"port"`
	// Path is the SQLite DSN, only used when Driver is "sqlite".
	Path string `yaml:"path"`

	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

// AuthConfig holds the token secret and the single accepted login.
type AuthConfig struct {
	Secret   string `yaml:"secret"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// LoggingConfig selects log level, output format and the access log file.
type LoggingConfig struct {
	Level     string `yaml:"level"`
	Format    string `yaml:"format"`
	AccessLog string `yaml:"access_log"`
}

// Driver names accepted in DatabaseConfig.Driver.
const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		Port: 8084,
		Database: DatabaseConfig{
			Driver:          DriverMySQL,
			Host:            "localhost",
			User:            "root",
			Password:        "2701",
			Name:            "nintendo",
			Port:            3306,
			Path:            "nintendo.db",
			MaxOpenConns:    10,
			MaxIdleConns:    5,
			ConnMaxLifetime: 5 * time.Minute,
		},
		Auth: AuthConfig{
			Secret:   "mi_clave_secreta_para_los_tokens_jwt",
			Username: "a",
			Password: "a",
		},
		Logging: LoggingConfig{
			Level:     "info",
			Format:    "text",
			AccessLog: "access.log",
		},
	}
}

// Load resolves the configuration from defaults, CONFIG_FILE and the environment.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return Config{}, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return nil
}

// applyEnv overrides fields from the environment. The lower-case database
// names are kept for compatibility with existing deployments.
func (c *Config) applyEnv() error {
	var err error
	if c.Port, err = getenvInt("PORT", c.Port); err != nil {
		return err
	}

	c.Database.Driver = getenv("DB_DRIVER", c.Database.Driver)
	c.Database.Host = getenv("host", c.Database.Host)
	c.Database.User = getenv("user", c.Database.User)
	c.Database.Password = getenv("password", c.Database.Password)
	c.Database.Name = getenv("database", c.Database.Name)
	c.Database.Path = getenv("DB_PATH", c.Database.Path)
	if c.Database.Port, err = getenvInt("dbport", c.Database.Port); err != nil {
		return err
	}
	if c.Database.MaxOpenConns, err = getenvInt("DB_MAX_OPEN_CONNS", c.Database.MaxOpenConns); err != nil {
		return err
	}
	if c.Database.MaxIdleConns, err = getenvInt("DB_MAX_IDLE_CONNS", c.Database.MaxIdleConns); err != nil {
		return err
	}

	c.Auth.Secret = getenv("JWT_SECRET", c.Auth.Secret)
	c.Auth.Username = getenv("LOGIN_USERNAME", c.Auth.Username)
	c.Auth.Password = getenv("LOGIN_PASSWORD", c.Auth.Password)

	c.Logging.Level = getenv("LOG_LEVEL", c.Logging.Level)
	c.Logging.Format = getenv("LOG_FORMAT", c.Logging.Format)
	// An explicitly empty ACCESS_LOG sends access lines to the main logger.
	if v, ok := os.LookupEnv("ACCESS_LOG"); ok {
		c.Logging.AccessLog = v
	}
	return nil
}

// Validate checks the configuration for values the server cannot run with.
func (c Config) Validate() error {
	var problems []string

	if c.Port <= 0 || c.Port > 65535 {
		problems = append(problems, fmt.Sprintf("port %d out of range", c.Port))
	}
	switch c.Database.Driver {
	case DriverMySQL:
		if c.Database.Host == "" || c.Database.Name == "" {
			problems = append(problems, "database host and name are required for mysql")
		}
		if c.Database.Port <= 0 || c.Database.Port > 65535 {
			problems = append(problems, fmt.Sprintf("database port %d out of range", c.Database.Port))
		}
	case DriverSQLite:
		if c.Database.Path == "" {
			problems = append(problems, "database path is required for sqlite")
		}
	default:
		problems = append(problems, fmt.Sprintf("unknown database driver %q", c.Database.Driver))
	}
	if c.Database.MaxOpenConns <= 0 {
		problems = append(problems, "max_open_conns must be positive")
	}
	if c.Database.MaxIdleConns < 0 || c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		problems = append(problems, "max_idle_conns must be between 0 and max_open_conns")
	}
	if c.Auth.Secret == "" {
		problems = append(problems, "auth secret is required")
	}
	if c.Auth.Username == "" || c.Auth.Password == "" {
		problems = append(problems, "login username and password are required")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

// Addr returns the listen address for the HTTP server.
func (c Config) Addr() string {
	return ":" + strconv.Itoa(c.Port)
}

// getenv returns the value of the named environment variable, or fallback
// if the variable is not set or is empty.
func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q is not an integer", ErrInvalidConfig, key, v)
	}
	return n, nil
}
