// Package config loads the moneymanager configuration.
//
// Defaults are overridden by configuration files (TOML, or YAML for the .yaml
// and .yml extensions), then by MM_* environment variables. A .env file can
// provide those variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Storage drivers.
const (
	DriverFile     = "file"
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

// Config is the moneymanager configuration.
type Config struct {
	Account AccountConfig `toml:"account" yaml:"account"`
	Storage StorageConfig `toml:"storage" yaml:"storage"`
	Logging LoggingConfig `toml:"logging" yaml:"logging"`
	Server  ServerConfig  `toml:"server" yaml:"server"`
	Kafka   KafkaConfig   `toml:"kafka" yaml:"kafka"`
}

// AccountConfig describes the single tracked account.
type AccountConfig struct {
	Name       string   `toml:"name" yaml:"name"`             // initial and default account name
	Currency   string   `toml:"currency" yaml:"currency"`     // ISO 4217 code used for display
	Categories []string `toml:"categories" yaml:"categories"` // categories offered to the user
}

// StorageConfig selects and configures the Store.
type StorageConfig struct {
	Driver          string `toml:"driver" yaml:"driver"`
	Path            string `toml:"path" yaml:"path"` // directory of the file driver
	DSN             string `toml:"dsn" yaml:"dsn"`   // connection string of the SQL drivers
	MaxOpenConns    int    `toml:"max_open_conns" yaml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns" yaml:"max_idle_conns"`
	ConnMaxLifetime string `toml:"conn_max_lifetime" yaml:"conn_max_lifetime"`
	LogLevel        string `toml:"log_level" yaml:"log_level"` // SQL logging: silent, error, warn, info
}

// GetConnMaxLifetime returns the parsed connection lifetime, one hour by default.
func (c *StorageConfig) GetConnMaxLifetime() time.Duration {
	d, err := time.ParseDuration(c.ConnMaxLifetime)
	if err != nil {
		return time.Hour
	}
	return d
}

type LoggingConfig struct {
	Level  string `toml:"level" yaml:"level"`
	Format string `toml:"format" yaml:"format"` // text or json
}

type ServerConfig struct {
	Addr string `toml:"addr" yaml:"addr"`
}

// KafkaConfig enables event publishing when Brokers is not empty.
type KafkaConfig struct {
	Brokers []string `toml:"brokers" yaml:"brokers"`
	Topic   string   `toml:"topic" yaml:"topic"`
}

// Enabled reports whether events are to be published.
func (c KafkaConfig) Enabled() bool { return len(c.Brokers) > 0 }

// NewDefaultConfig returns the configuration used when nothing is set.
func NewDefaultConfig() *Config {
	return &Config{
		Account: AccountConfig{
			Name:     "personal",
			Currency: "INR",
			Categories: []string{
				"Food", "Self Development", "Transportation", "Beauty", "Household",
				"Health", "Apparel", "Education", "Gift",
			},
		},
		Storage: StorageConfig{
			Driver:          DriverFile,
			Path:            defaultDataPath(),
			MaxOpenConns:    10,
			MaxIdleConns:    5,
			ConnMaxLifetime: "1h",
			LogLevel:        "warn",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Server: ServerConfig{
			Addr: "127.0.0.1:8080",
		},
		Kafka: KafkaConfig{
			Topic: "moneymanager.events",
		},
	}
}

func defaultDataPath() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "moneymanager")
	}
	return "moneymanager"
}

// LoadDotEnv loads the environment files that exist. Variables already set are kept.
func LoadDotEnv(paths ...string) error {
	var existing []string
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			existing = append(existing, path)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	if err := godotenv.Load(existing...); err != nil {
		return fmt.Errorf("failed to load environment files %v: %w", existing, err)
	}
	return nil
}

// Load returns the default configuration merged with each existing file in
// order (later files override earlier ones), then with environment overrides.
func Load(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for _, path := range paths {
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue // Skip missing files
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			err = yaml.Unmarshal(data, config)
		default:
			err = toml.Unmarshal(data, config)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config.
func applyEnvOverrides(config *Config) {
	if v := os.Getenv("MM_ACCOUNT_NAME"); v != "" {
		config.Account.Name = v
	}
	if v := os.Getenv("MM_CURRENCY"); v != "" {
		config.Account.Currency = strings.ToUpper(v)
	}
	if v := os.Getenv("MM_CATEGORIES"); v != "" {
		config.Account.Categories = splitList(v)
	}
	if v := os.Getenv("MM_STORAGE_DRIVER"); v != "" {
		config.Storage.Driver = strings.ToLower(v)
	}
	if v := os.Getenv("MM_STORAGE_PATH"); v != "" {
		config.Storage.Path = v
	}
	if v := os.Getenv("MM_STORAGE_DSN"); v != "" {
		config.Storage.DSN = v
	}
	if v := os.Getenv("MM_STORAGE_MAX_OPEN_CONNS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.Storage.MaxOpenConns = n
		}
	}
	if v := os.Getenv("MM_LOG_LEVEL"); v != "" {
		config.Logging.Level = v
	}
	if v := os.Getenv("MM_LOG_FORMAT"); v != "" {
		config.Logging.Format = v
	}
	if v := os.Getenv("MM_SERVER_ADDR"); v != "" {
		config.Server.Addr = v
	}
	if v := os.Getenv("MM_KAFKA_BROKERS"); v != "" {
		config.Kafka.Brokers = splitList(v)
	}
	if v := os.Getenv("MM_KAFKA_TOPIC"); v != "" {
		config.Kafka.Topic = v
	}
}

// splitList splits a comma separated list, dropping empty items.
func splitList(s string) []string {
	var items []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// Validate checks that the configuration can be used.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Account.Name) == "" {
		return fmt.Errorf("account.name is required")
	}
	switch c.Storage.Driver {
	case DriverMemory:
	case DriverFile:
		if c.Storage.Path == "" {
			return fmt.Errorf("storage.path is required by the %q driver", c.Storage.Driver)
		}
	case DriverPostgres, DriverMySQL:
		if c.Storage.DSN == "" {
			return fmt.Errorf("storage.dsn is required by the %q driver", c.Storage.Driver)
		}
	default:
		return fmt.Errorf("unknown storage.driver %q, want one of file, memory, postgres, mysql", c.Storage.Driver)
	}
	if c.Kafka.Enabled() && c.Kafka.Topic == "" {
		return fmt.Errorf("kafka.topic is required when kafka.brokers is set")
	}
	return nil
}
