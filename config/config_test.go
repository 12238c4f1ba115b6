package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()
	assert.Equal(t, "personal", cfg.Account.Name)
	assert.Equal(t, "INR", cfg.Account.Currency)
	assert.Len(t, cfg.Account.Categories, 9)
	assert.Equal(t, DriverFile, cfg.Storage.Driver)
	assert.Equal(t, "127.0.0.1:8080", cfg.Server.Addr)
	assert.False(t, cfg.Kafka.Enabled())
	assert.NoError(t, cfg.Validate())
}

func TestLoad_TOML(t *testing.T) {
	path := writeFile(t, "mm.toml", `
[account]
name = "Alice"
currency = "EUR"
categories = ["Rent", "Food"]

[storage]
driver = "postgres"
dsn = "postgres://localhost/mm?sslmode=disable"
conn_max_lifetime = "5m"

[kafka]
brokers = ["localhost:9092"]
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Alice", cfg.Account.Name)
	assert.Equal(t, "EUR", cfg.Account.Currency)
	assert.Equal(t, []string{"Rent", "Food"}, cfg.Account.Categories)
	assert.Equal(t, DriverPostgres, cfg.Storage.Driver)
	assert.Equal(t, 5*time.Minute, cfg.Storage.GetConnMaxLifetime())
	assert.True(t, cfg.Kafka.Enabled())
	assert.Equal(t, "moneymanager.events", cfg.Kafka.Topic, "default kept")
	assert.Equal(t, "info", cfg.Logging.Level, "default kept")
}

func TestLoad_YAML(t *testing.T) {
	path := writeFile(t, "mm.yaml", `
account:
  name: Bob
storage:
  driver: mysql
  dsn: "mm:mm@tcp(localhost:3306)/mm?parseTime=true"
  max_open_conns: 3
logging:
  format: json
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Bob", cfg.Account.Name)
	assert.Equal(t, "INR", cfg.Account.Currency)
	assert.Equal(t, DriverMySQL, cfg.Storage.Driver)
	assert.Equal(t, 3, cfg.Storage.MaxOpenConns)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoad_MergesInOrderAndSkipsMissing(t *testing.T) {
	first := writeFile(t, "a.toml", "[account]\nname = \"first\"\ncurrency = \"USD\"\n")
	second := writeFile(t, "b.toml", "[account]\nname = \"second\"\n")
	cfg, err := Load(first, filepath.Join(t.TempDir(), "missing.toml"), second, "")
	require.NoError(t, err)
	assert.Equal(t, "second", cfg.Account.Name)
	assert.Equal(t, "USD", cfg.Account.Currency)
}

func TestLoad_ParseError(t *testing.T) {
	path := writeFile(t, "bad.toml", "[account\n")
	_, err := Load(path)
	assert.ErrorContains(t, err, "failed to parse config file")
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("MM_ACCOUNT_NAME", "Kshiti")
	t.Setenv("MM_CURRENCY", "usd")
	t.Setenv("MM_CATEGORIES", "Food, Rent,,Gift")
	t.Setenv("MM_STORAGE_DRIVER", "MEMORY")
	t.Setenv("MM_KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("MM_SERVER_ADDR", "127.0.0.1:9090")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "Kshiti", cfg.Account.Name)
	assert.Equal(t, "USD", cfg.Account.Currency)
	assert.Equal(t, []string{"Food", "Rent", "Gift"}, cfg.Account.Categories)
	assert.Equal(t, DriverMemory, cfg.Storage.Driver)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "127.0.0.1:9090", cfg.Server.Addr)
}

func TestLoadDotEnv(t *testing.T) {
	path := writeFile(t, ".env", "MM_TEST_DOTENV_VALUE=from-file\n")
	t.Setenv("MM_TEST_DOTENV_VALUE", "")
	os.Unsetenv("MM_TEST_DOTENV_VALUE")

	require.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), "missing.env"), path))
	assert.Equal(t, "from-file", os.Getenv("MM_TEST_DOTENV_VALUE"))

	// Variables already set are kept.
	t.Setenv("MM_TEST_DOTENV_VALUE", "from-env")
	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "from-env", os.Getenv("MM_TEST_DOTENV_VALUE"))
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name   string
		modify func(*Config)
		ok     bool
	}{
		{"defaults", func(c *Config) {}, true},
		{"memory", func(c *Config) { c.Storage.Driver = DriverMemory; c.Storage.Path = "" }, true},
		{"empty name", func(c *Config) { c.Account.Name = " " }, false},
		{"unknown driver", func(c *Config) { c.Storage.Driver = "sqlite" }, false},
		{"file without path", func(c *Config) { c.Storage.Path = "" }, false},
		{"postgres without dsn", func(c *Config) { c.Storage.Driver = DriverPostgres }, false},
		{"mysql with dsn", func(c *Config) { c.Storage.Driver = DriverMySQL; c.Storage.DSN = "x" }, true},
		{"kafka without topic", func(c *Config) { c.Kafka = KafkaConfig{Brokers: []string{"k"}} }, false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			tc.modify(cfg)
			err := cfg.Validate()
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger("", "")
	require.NoError(t, err)
	assert.Equal(t, logrus.InfoLevel, logger.GetLevel())
	assert.IsType(t, &logrus.TextFormatter{}, logger.Formatter)

	logger, err = NewLogger("debug", "json")
	require.NoError(t, err)
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, logger.Formatter)

	_, err = NewLogger("loud", "text")
	assert.Error(t, err)
	_, err = NewLogger("info", "xml")
	assert.Error(t, err)
}

func TestStorageConfig_RedactedDSN(t *testing.T) {
	tests := []struct {
		name   string
		driver string
		dsn    string
		want   string
	}{
		{"empty", DriverPostgres, "", ""},
		{"postgres url", DriverPostgres, "postgres://mm:secret@db:5432/money?sslmode=disable", "postgres://mm:xxxxx@db:5432/money?sslmode=disable"},
		{"postgres url without password", DriverPostgres, "postgres://mm@db/money", "postgres://mm@db/money"},
		{"postgres key value", DriverPostgres, "host=db user=mm password=secret dbname=money", "host=db user=mm password=xxxxx dbname=money"},
		{"postgres quoted", DriverPostgres, "host=db password='se cret' dbname=money", "host=db password=xxxxx dbname=money"},
		{"mysql", DriverMySQL, "mm:secret@tcp(db:3306)/money", "mm:xxxxx@tcp(db:3306)/money"},
		{"mysql without password", DriverMySQL, "mm@tcp(db:3306)/money", "mm@tcp(db:3306)/money"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StorageConfig{Driver: tt.driver, DSN: tt.dsn}.RedactedDSN()
			// the mysql driver may append its own parameters.
			assert.True(t, strings.HasPrefix(got, tt.want), "got %q, want %q", got, tt.want)
			assert.NotContains(t, got, "secret")
			assert.NotContains(t, got, "se cret")
		})
	}
}
