package mysql

import (
	"fmt"
	"time"
)

// Config holds the MySQL connection and pool settings.
type Config struct {
	// DSN, if set, is used as is. Otherwise it is built from the other fields.
	DSN string

	Host     string
	Port     int // defaults to 3306
	User     string
	Password string
	DBName   string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration

	// LogLevel is the SQL log level: "silent", "error", "warn" or "info".
	LogLevel string

	MaxRetries    int           // connection attempts, defaults to 10
	RetryInterval time.Duration // pause between attempts, defaults to 2s
}

// dsn returns the data source name.
// Format: user:password@tcp(host:port)/dbname?charset=utf8mb4&parseTime=True&loc=Local
func (c *Config) dsn() string {
	if c.DSN != "" {
		return c.DSN
	}
	port := c.Port
	if port == 0 {
		port = 3306
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.User,
		c.Password,
		c.Host,
		port,
		c.DBName,
	)
}

func (c *Config) retries() (int, time.Duration) {
	n, d := c.MaxRetries, c.RetryInterval
	if n <= 0 {
		n = 10
	}
	if d <= 0 {
		d = 2 * time.Second
	}
	return n, d
}
