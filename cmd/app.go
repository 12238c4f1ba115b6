// Package cmd implements the mm command line application to track personal finances.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/etnz/moneymanager"
	"github.com/etnz/moneymanager/config"
	"github.com/etnz/moneymanager/kafka"
	"github.com/etnz/moneymanager/mysql"
	"github.com/etnz/moneymanager/postgres"
	"github.com/google/subcommands"
	"github.com/sirupsen/logrus"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&recordCmd{kind: moneymanager.Debit}, "transactions")
	c.Register(&recordCmd{kind: moneymanager.Credit}, "transactions")
	c.Register(&recordCmd{kind: moneymanager.Transfer}, "transactions")

	c.Register(&overviewCmd{}, "reports")
	c.Register(&statementCmd{}, "reports")
	c.Register(&chartCmd{}, "reports")

	c.Register(&resetCmd{}, "account")
	c.Register(&reconcileCmd{}, "account")
	c.Register(&categoriesCmd{}, "account")
	c.Register(&configCmd{}, "account")

	c.Register(&serveCmd{}, "server")
	c.Register(&topicCmd{}, "help")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var configFile = flag.String("config", os.Getenv(EnvConfigFile), "Path to the configuration file (TOML, or YAML with a .yaml extension). Defaults to moneymanager.toml in the current directory then in the user config directory.")
var envFile = flag.String("env-file", ".env", "Path to an optional file of MM_* environment variables")
var plainOutput = flag.Bool("plain", false, "Print reports as raw markdown")
var Verbose = flag.Bool("v", false, "Enable debug logging")

// stdout and stdin are replaced in tests.
var (
	stdout io.Writer = os.Stdout
	stdin  io.Reader = os.Stdin
)

// configPaths returns the configuration files to load, in order.
func configPaths() []string {
	if *configFile != "" {
		return []string{*configFile}
	}
	paths := []string{}
	if dir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(dir, "moneymanager", "moneymanager.toml"))
	}
	// the local file wins.
	return append(paths, "moneymanager.toml")
}

// LoadConfig loads the environment file then the configuration.
func LoadConfig() (*config.Config, error) {
	if err := config.LoadDotEnv(*envFile); err != nil {
		return nil, err
	}
	cfg, err := config.Load(configPaths()...)
	if err != nil {
		return nil, err
	}
	if *Verbose {
		cfg.Logging.Level = "debug"
	}
	return cfg, nil
}

// session is an open ledger and everything needed to close it.
type session struct {
	cfg       *config.Config
	log       *logrus.Logger
	ledger    *moneymanager.Ledger
	publisher *kafka.Publisher
}

// Close closes the ledger and the publisher.
func (s *session) Close() error {
	err := s.ledger.Close()
	if s.publisher != nil {
		err = errors.Join(err, s.publisher.Close())
	}
	return err
}

// openSession loads the configuration and opens the ledger on the configured store.
// The ledger is reconciled unless raw is set.
func openSession(ctx context.Context, raw bool) (*session, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	log, err := cfg.Logger()
	if err != nil {
		return nil, err
	}
	store, err := openStore(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	s := &session{cfg: cfg, log: log}
	opts := []moneymanager.Option{moneymanager.WithLogger(log)}
	if cfg.Kafka.Enabled() {
		s.publisher = kafka.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		opts = append(opts, moneymanager.WithPublisher(s.publisher))
	}

	if raw {
		s.ledger = moneymanager.NewLedger(store, cfg.Account.Name, opts...)
		return s, nil
	}
	s.ledger, err = moneymanager.Open(ctx, store, cfg.Account.Name, opts...)
	if err != nil {
		store.Close()
		if s.publisher != nil {
			s.publisher.Close()
		}
		return nil, err
	}
	return s, nil
}

// openStore opens the store selected by the configuration.
func openStore(ctx context.Context, cfg *config.Config, log *logrus.Logger) (moneymanager.Store, error) {
	switch cfg.Storage.Driver {
	case config.DriverMemory:
		return moneymanager.NewMemoryStore(), nil
	case config.DriverFile:
		return moneymanager.OpenFileStore(cfg.Storage.Path)
	case config.DriverPostgres:
		return postgres.Open(ctx, cfg.Storage.DSN, log)
	case config.DriverMySQL:
		return mysql.Open(ctx, mysql.Config{
			DSN:             cfg.Storage.DSN,
			MaxOpenConns:    cfg.Storage.MaxOpenConns,
			MaxIdleConns:    cfg.Storage.MaxIdleConns,
			ConnMaxLifetime: cfg.Storage.GetConnMaxLifetime(),
			LogLevel:        cfg.Storage.LogLevel,
		}, log)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

// withSession runs fn on a reconciled session and reports errors on stderr.
func withSession(ctx context.Context, fn func(s *session) subcommands.ExitStatus) subcommands.ExitStatus {
	return runSession(ctx, false, fn)
}

func runSession(ctx context.Context, raw bool, fn func(s *session) subcommands.ExitStatus) subcommands.ExitStatus {
	s, err := openSession(ctx, raw)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening the account: %v\n", err)
		return subcommands.ExitFailure
	}
	defer func() {
		if err := s.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Error closing the account: %v\n", err)
		}
	}()
	return fn(s)
}
