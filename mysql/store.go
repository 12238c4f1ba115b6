// Package mysql implements moneymanager.Store on MySQL, using GORM.
//
// Amounts are stored as DECIMAL(65,3): values with more than three decimals
// are refused with moneymanager.ErrInvalidAmount rather than rounded.
package mysql

import (
	"context"
	"errors"
	"fmt"

	"github.com/etnz/moneymanager"
	"github.com/etnz/moneymanager/date"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// sqlSummary is a row of the account_summary table.
type sqlSummary struct {
	Name        string          `gorm:"primaryKey;size:191"`
	DebitTotal  decimal.Decimal `gorm:"type:decimal(65,3);not null"`
	CreditTotal decimal.Decimal `gorm:"type:decimal(65,3);not null"`
	NetTotal    decimal.Decimal `gorm:"type:decimal(65,3);not null"`
	Balance     decimal.Decimal `gorm:"type:decimal(65,3);not null"`
}

func (*sqlSummary) TableName() string { return "account_summary" }

// sqlRecord is a row of the debit_log, credit_log and transfer_log tables.
type sqlRecord struct {
	Seq      uint64          `gorm:"column:seq;primaryKey;autoIncrement"`
	RecordID string          `gorm:"column:id;size:64;uniqueIndex;not null"`
	Amount   decimal.Decimal `gorm:"type:decimal(65,3);not null"`
	Date     date.Date       `gorm:"type:varchar(10);not null"`
	Category string          `gorm:"size:191;not null"`
	Note     string          `gorm:"type:text;not null"`
}

// sqlStatement is a row of the statement_log table.
type sqlStatement struct {
	Seq      uint64          `gorm:"column:seq;primaryKey;autoIncrement"`
	RecordID string          `gorm:"column:id;size:64;uniqueIndex;not null"`
	Date     date.Date       `gorm:"type:varchar(10);not null"`
	Amount   decimal.Decimal `gorm:"type:decimal(65,3);not null"`
	Kind     string          `gorm:"size:11;not null"`
	Category string          `gorm:"size:191;not null"`
	Note     string          `gorm:"type:text;not null"`
}

func (*sqlStatement) TableName() string { return "statement_log" }

var logTables = map[moneymanager.Kind]string{
	moneymanager.Debit:    "debit_log",
	moneymanager.Credit:   "credit_log",
	moneymanager.Transfer: "transfer_log",
}

var allTables = []string{"debit_log", "credit_log", "transfer_log", "statement_log", "account_summary"}

// Store is a moneymanager.Store on a MySQL database.
type Store struct {
	client *Client
	log    *logrus.Logger
}

var (
	_ moneymanager.Store     = (*Store)(nil)
	_ moneymanager.Committer = (*Store)(nil)
)

// Open connects to MySQL and migrates the schema.
func Open(ctx context.Context, cfg Config, log *logrus.Logger) (*Store, error) {
	client, err := NewClient(cfg, log)
	if err != nil {
		return nil, unavailable("failed to open database", err)
	}
	s, err := New(ctx, client, log)
	if err != nil {
		client.Close()
		return nil, err
	}
	return s, nil
}

// New returns a store on an existing client, migrating the schema if needed.
func New(ctx context.Context, client *Client, log *logrus.Logger) (*Store, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	db := client.DB().WithContext(ctx)
	if err := db.AutoMigrate(&sqlSummary{}, &sqlStatement{}); err != nil {
		return nil, unavailable("failed to migrate schema", err)
	}
	for _, k := range moneymanager.Kinds() {
		if err := db.Table(logTables[k]).AutoMigrate(&sqlRecord{}); err != nil {
			return nil, unavailable("failed to migrate "+logTables[k], err)
		}
	}
	log.Debug("mysql schema ready")
	return &Store{client: client, log: log}, nil
}

// amountScale is the number of decimals of the amount columns.
const amountScale = 3

// checkScale refuses amounts the DECIMAL columns would round.
func checkScale(amounts ...decimal.Decimal) error {
	for _, a := range amounts {
		if !a.Equal(a.Truncate(amountScale)) {
			return fmt.Errorf("%w: %s has more than %d decimals", moneymanager.ErrInvalidAmount, a, amountScale)
		}
	}
	return nil
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

func (s *Store) db(ctx context.Context) *gorm.DB { return s.client.DB().WithContext(ctx) }

func (s *Store) Summary(ctx context.Context) (moneymanager.Summary, error) {
	var row sqlSummary
	err := s.db(ctx).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return moneymanager.Summary{}, moneymanager.ErrNotInitialized
	}
	if err != nil {
		return moneymanager.Summary{}, unavailable("failed to read summary", err)
	}
	return moneymanager.Summary{
		Name:        row.Name,
		DebitTotal:  row.DebitTotal,
		CreditTotal: row.CreditTotal,
		NetTotal:    row.NetTotal,
		Balance:     row.Balance,
	}, nil
}

func (s *Store) PutSummary(ctx context.Context, sum moneymanager.Summary) error {
	return s.transaction(ctx, func(tx *gorm.DB) error { return putSummary(tx, sum) })
}

// putSummary upserts the single summary row, any row of another name is removed.
func putSummary(tx *gorm.DB, sum moneymanager.Summary) error {
	if err := checkScale(sum.DebitTotal, sum.CreditTotal, sum.NetTotal, sum.Balance); err != nil {
		return err
	}
	if err := tx.Where("name <> ?", sum.Name).Delete(&sqlSummary{}).Error; err != nil {
		return unavailable("failed to write summary", err)
	}
	row := sqlSummary{
		Name:        sum.Name,
		DebitTotal:  sum.DebitTotal,
		CreditTotal: sum.CreditTotal,
		NetTotal:    sum.NetTotal,
		Balance:     sum.Balance,
	}
	if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&row).Error; err != nil {
		return unavailable("failed to write summary", err)
	}
	return nil
}

func (s *Store) Append(ctx context.Context, k moneymanager.Kind, r moneymanager.Record) error {
	return appendRecord(s.db(ctx), k, r)
}

func appendRecord(tx *gorm.DB, k moneymanager.Kind, r moneymanager.Record) error {
	table, err := logTable(k)
	if err != nil {
		return err
	}
	if err := checkScale(r.Amount); err != nil {
		return err
	}
	row := sqlRecord{
		RecordID: r.ID,
		Amount:   r.Amount,
		Date:     r.Date,
		Category: r.Category,
		Note:     r.Note,
	}
	if err := tx.Table(table).Create(&row).Error; err != nil {
		return unavailable("failed to append to "+table, err)
	}
	return nil
}

func (s *Store) AppendStatement(ctx context.Context, r moneymanager.Record) error {
	return appendStatement(s.db(ctx), r)
}

func appendStatement(tx *gorm.DB, r moneymanager.Record) error {
	if !r.Kind.Valid() {
		return fmt.Errorf("%w: %q", moneymanager.ErrUnknownKind, r.Kind)
	}
	if err := checkScale(r.Amount); err != nil {
		return err
	}
	row := sqlStatement{
		RecordID: r.ID,
		Date:     r.Date,
		Amount:   r.Amount,
		Kind:     string(r.Kind),
		Category: r.Category,
		Note:     r.Note,
	}
	if err := tx.Create(&row).Error; err != nil {
		return unavailable("failed to append to statement_log", err)
	}
	return nil
}

// Commit applies the entry in a single transaction.
func (s *Store) Commit(ctx context.Context, e moneymanager.Entry) error {
	return s.transaction(ctx, func(tx *gorm.DB) error {
		if err := appendRecord(tx, e.Record.Kind, e.Record); err != nil {
			return err
		}
		if err := appendStatement(tx, e.Record); err != nil {
			return err
		}
		if e.Summary != nil {
			return putSummary(tx, *e.Summary)
		}
		return nil
	})
}

func (s *Store) Reset(ctx context.Context, name string) error {
	err := s.transaction(ctx, func(tx *gorm.DB) error {
		if err := clearTables(tx); err != nil {
			return err
		}
		return putSummary(tx, moneymanager.NewSummary(name))
	})
	if err != nil {
		return err
	}
	s.log.WithField("account", name).Info("mysql tables reset")
	return nil
}

// Clear deletes every row, leaving an uninitialized account.
func (s *Store) Clear(ctx context.Context) error {
	return s.transaction(ctx, clearTables)
}

func clearTables(tx *gorm.DB) error {
	for _, table := range allTables {
		if err := tx.Exec("DELETE FROM " + table).Error; err != nil {
			return unavailable("failed to clear "+table, err)
		}
	}
	return nil
}

// transaction runs fn in a database transaction. Errors already wrapped by
// fn are returned as is.
func (s *Store) transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	err := s.db(ctx).Transaction(fn)
	if err != nil && !errors.Is(err, moneymanager.ErrStorageUnavailable) &&
		!errors.Is(err, moneymanager.ErrUnknownKind) && !errors.Is(err, moneymanager.ErrInvalidAmount) {
		return unavailable("transaction failed", err)
	}
	return err
}

func (s *Store) Records(ctx context.Context, k moneymanager.Kind) ([]moneymanager.Record, error) {
	table, err := logTable(k)
	if err != nil {
		return nil, err
	}
	var rows []sqlRecord
	if err := s.db(ctx).Table(table).Order("seq").Find(&rows).Error; err != nil {
		return nil, unavailable("failed to read "+table, err)
	}
	records := make([]moneymanager.Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, moneymanager.Record{
			ID:       row.RecordID,
			Kind:     k,
			Amount:   row.Amount,
			Date:     row.Date,
			Category: row.Category,
			Note:     row.Note,
		})
	}
	return records, nil
}

func (s *Store) Statements(ctx context.Context) ([]moneymanager.Record, error) {
	var rows []sqlStatement
	if err := s.db(ctx).Order("seq").Find(&rows).Error; err != nil {
		return nil, unavailable("failed to read statement_log", err)
	}
	records := make([]moneymanager.Record, 0, len(rows))
	for _, row := range rows {
		kind, err := moneymanager.ParseKind(row.Kind)
		if err != nil {
			return nil, unavailable("failed to read statement_log", err)
		}
		records = append(records, moneymanager.Record{
			ID:       row.RecordID,
			Kind:     kind,
			Amount:   row.Amount,
			Date:     row.Date,
			Category: row.Category,
			Note:     row.Note,
		})
	}
	return records, nil
}

// Close closes the connection pool.
func (s *Store) Close() error { return s.client.Close() }
