package config

import (
	"net/url"
	"regexp"

	mysqldriver "github.com/go-sql-driver/mysql"
)

// redacted replaces passwords in printed connection strings.
const redacted = "xxxxx"

// keyValuePassword matches the password of a libpq "key=value" connection string.
var keyValuePassword = regexp.MustCompile(`(?i)(\bpassword\s*=\s*)('(?:[^'\\]|\\.)*'|\S+)`)

// mysqlPassword matches the password of a "user:password@" MySQL DSN that does not parse.
var mysqlPassword = regexp.MustCompile(`^([^:@/]*):[^@]*@`)

// RedactedDSN returns the DSN with its password replaced, for display.
func (c StorageConfig) RedactedDSN() string {
	if c.DSN == "" {
		return ""
	}
	switch c.Driver {
	case DriverMySQL:
		cfg, err := mysqldriver.ParseDSN(c.DSN)
		if err != nil {
			return mysqlPassword.ReplaceAllString(c.DSN, "${1}:"+redacted+"@")
		}
		if cfg.Passwd != "" {
			cfg.Passwd = redacted
		}
		return cfg.FormatDSN()
	default:
		if u, err := url.Parse(c.DSN); err == nil && u.Scheme != "" && u.User != nil {
			return u.Redacted()
		}
		return keyValuePassword.ReplaceAllString(c.DSN, "${1}"+redacted)
	}
}
