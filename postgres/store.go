// Package postgres implements moneymanager.Store on PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/etnz/moneymanager"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

// Store is a moneymanager.Store on a PostgreSQL database.
type Store struct {
	db  *sql.DB
	log *logrus.Logger
}

var (
	_ moneymanager.Store     = (*Store)(nil)
	_ moneymanager.Committer = (*Store)(nil)
)

// Open connects to the database at dsn and creates the schema.
func Open(ctx context.Context, dsn string, log *logrus.Logger) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, unavailable("failed to open database", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, unavailable("failed to reach database", err)
	}
	s, err := New(ctx, db, log)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// New returns a store on an existing connection pool, creating the schema if needed.
func New(ctx context.Context, db *sql.DB, log *logrus.Logger) (*Store, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return nil, unavailable("failed to create schema", err)
	}
	log.Debug("postgres schema ready")
	return &Store{db: db, log: log}, nil
}

func unavailable(msg string, err error) error {
	return fmt.Errorf("%w: %s: %w", moneymanager.ErrStorageUnavailable, msg, err)
}

func logTable(k moneymanager.Kind) (string, error) {
	table, ok := logTables[k]
	if !ok {
		return "", fmt.Errorf("%w: %q", moneymanager.ErrUnknownKind, k)
	}
	return table, nil
}

// execer is implemented by *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *Store) Summary(ctx context.Context) (moneymanager.Summary, error) {
	const query = `SELECT name, debit_total, credit_total, net_total, balance FROM account_summary LIMIT 1`
	var sum moneymanager.Summary
	err := s.db.QueryRowContext(ctx, query).Scan(&sum.Name, &sum.DebitTotal, &sum.CreditTotal, &sum.NetTotal, &sum.Balance)
	if errors.Is(err, sql.ErrNoRows) {
		return moneymanager.Summary{}, moneymanager.ErrNotInitialized
	}
	if err != nil {
		return moneymanager.Summary{}, unavailable("failed to read summary", err)
	}
	return sum, nil
}

func (s *Store) PutSummary(ctx context.Context, sum moneymanager.Summary) error {
	return s.inTx(ctx, func(tx *sql.Tx) error { return putSummary(ctx, tx, sum) })
}

// putSummary upserts the single summary row, any row of another name is removed.
func putSummary(ctx context.Context, ex execer, sum moneymanager.Summary) error {
	if _, err := ex.ExecContext(ctx, `DELETE FROM account_summary WHERE name <> $1`, sum.Name); err != nil {
		return unavailable("failed to write summary", err)
	}
	const query = `INSERT INTO account_summary (name, debit_total, credit_total, net_total, balance)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (name) DO UPDATE SET
		debit_total = EXCLUDED.debit_total,
		credit_total = EXCLUDED.credit_total,
		net_total = EXCLUDED.net_total,
		balance = EXCLUDED.balance`
	if _, err := ex.ExecContext(ctx, query, sum.Name, sum.DebitTotal, sum.CreditTotal, sum.NetTotal, sum.Balance); err != nil {
		return unavailable("failed to write summary", err)
	}
	return nil
}

func (s *Store) Append(ctx context.Context, k moneymanager.Kind, r moneymanager.Record) error {
	return appendRecord(ctx, s.db, k, r)
}

func appendRecord(ctx context.Context, ex execer, k moneymanager.Kind, r moneymanager.Record) error {
	table, err := logTable(k)
	if err != nil {
		return err
	}
	query := `INSERT INTO ` + table + ` (id, amount, date, category, note) VALUES ($1, $2, $3, $4, $5)`
	if _, err := ex.ExecContext(ctx, query, r.ID, r.Amount, r.Date, r.Category, r.Note); err != nil {
		return unavailable("failed to append to "+table, err)
	}
	return nil
}

func (s *Store) AppendStatement(ctx context.Context, r moneymanager.Record) error {
	return appendStatement(ctx, s.db, r)
}

func appendStatement(ctx context.Context, ex execer, r moneymanager.Record) error {
	if !r.Kind.Valid() {
		return fmt.Errorf("%w: %q", moneymanager.ErrUnknownKind, r.Kind)
	}
	const query = `INSERT INTO statement_log (id, date, amount, kind, category, note) VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := ex.ExecContext(ctx, query, r.ID, r.Date, r.Amount, string(r.Kind), r.Category, r.Note); err != nil {
		return unavailable("failed to append to statement_log", err)
	}
	return nil
}

// Commit applies the entry in a single transaction.
func (s *Store) Commit(ctx context.Context, e moneymanager.Entry) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if err := appendRecord(ctx, tx, e.Record.Kind, e.Record); err != nil {
			return err
		}
		if err := appendStatement(ctx, tx, e.Record); err != nil {
			return err
		}
		if e.Summary != nil {
			return putSummary(ctx, tx, *e.Summary)
		}
		return nil
	})
}

func (s *Store) Reset(ctx context.Context, name string) error {
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		if err := clearTables(ctx, tx); err != nil {
			return err
		}
		return putSummary(ctx, tx, moneymanager.NewSummary(name))
	})
	if err != nil {
		return err
	}
	s.log.WithField("account", name).Info("postgres tables reset")
	return nil
}

// inTx runs fn in a transaction, committed if fn succeeds and rolled back otherwise.
func (s *Store) inTx(ctx context.Context, fn func(tx *sql.Tx) error) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return unavailable("failed to begin transaction", err)
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				s.log.WithError(rerr).Warn("rollback failed")
			}
		}
	}()
	if err = fn(tx); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return unavailable("failed to commit transaction", err)
	}
	return nil
}

func (s *Store) Records(ctx context.Context, k moneymanager.Kind) ([]moneymanager.Record, error) {
	table, err := logTable(k)
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `SELECT id, amount, date, category, note FROM `+table+` ORDER BY seq`)
	if err != nil {
		return nil, unavailable("failed to read "+table, err)
	}
	defer rows.Close()

	var records []moneymanager.Record
	for rows.Next() {
		r := moneymanager.Record{Kind: k}
		if err := rows.Scan(&r.ID, &r.Amount, &r.Date, &r.Category, &r.Note); err != nil {
			return nil, unavailable("failed to read "+table, err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("failed to read "+table, err)
	}
	return records, nil
}

func (s *Store) Statements(ctx context.Context) ([]moneymanager.Record, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, date, amount, kind, category, note FROM statement_log ORDER BY seq`)
	if err != nil {
		return nil, unavailable("failed to read statement_log", err)
	}
	defer rows.Close()

	var records []moneymanager.Record
	for rows.Next() {
		var r moneymanager.Record
		var kind string
		if err := rows.Scan(&r.ID, &r.Date, &r.Amount, &kind, &r.Category, &r.Note); err != nil {
			return nil, unavailable("failed to read statement_log", err)
		}
		if r.Kind, err = moneymanager.ParseKind(kind); err != nil {
			return nil, unavailable("failed to read statement_log", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("failed to read statement_log", err)
	}
	return records, nil
}

// Close closes the connection pool.
func (s *Store) Close() error { return s.db.Close() }

// Clear deletes every row, leaving an uninitialized account.
func (s *Store) Clear(ctx context.Context) error {
	return s.inTx(ctx, func(tx *sql.Tx) error { return clearTables(ctx, tx) })
}

func clearTables(ctx context.Context, ex execer) error {
	for _, table := range allTables {
		if _, err := ex.ExecContext(ctx, `DELETE FROM `+table); err != nil {
			return unavailable("failed to clear "+table, err)
		}
	}
	return nil
}
