package moneymanager

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/etnz/moneymanager/date"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Ledger is the single writer of an account. It keeps the summary and the
// transaction logs consistent.
//
// Every operation holds the ledger lock for its whole read-modify-write, so
// concurrent calls are serialized and no update is lost.
type Ledger struct {
	mu        sync.Mutex
	store     Store
	account   string
	log       *logrus.Logger
	publisher Publisher
	newID     func() string
	now       func() time.Time
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithLogger sets the logger, by default nothing is logged.
func WithLogger(log *logrus.Logger) Option {
	return func(l *Ledger) {
		if log != nil {
			l.log = log
		}
	}
}

// WithPublisher sets the publisher notified after each committed operation.
func WithPublisher(p Publisher) Option {
	return func(l *Ledger) { l.publisher = p }
}

// WithIDGenerator replaces the record ID generator (UUIDs by default).
func WithIDGenerator(gen func() string) Option {
	return func(l *Ledger) {
		if gen != nil {
			l.newID = gen
		}
	}
}

// NewLedger returns a ledger on store for the default account name.
func NewLedger(store Store, account string, opts ...Option) *Ledger {
	discard := logrus.New()
	discard.SetOutput(io.Discard)
	l := &Ledger{
		store:   store,
		account: account,
		log:     discard,
		newID:   uuid.NewString,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Open returns a ledger on store and reconciles it. The ledger owns the store
// from then on: Close closes it.
func Open(ctx context.Context, store Store, account string, opts ...Option) (*Ledger, error) {
	l := NewLedger(store, account, opts...)
	if _, err := l.Reconcile(ctx); err != nil {
		return nil, fmt.Errorf("could not reconcile account %q: %w", account, err)
	}
	return l, nil
}

// Account returns the default account name.
func (l *Ledger) Account() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.account
}

// Close closes the underlying store.
func (l *Ledger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.store.Close()
}

// RecordDebit records an expense and returns the updated summary.
func (l *Ledger) RecordDebit(ctx context.Context, amount decimal.Decimal, on date.Date, category, note string) (Summary, error) {
	return l.record(ctx, NewRecord(Debit, amount, on, category, note))
}

// RecordCredit records an income and returns the updated summary.
func (l *Ledger) RecordCredit(ctx context.Context, amount decimal.Decimal, on date.Date, category, note string) (Summary, error) {
	return l.record(ctx, NewRecord(Credit, amount, on, category, note))
}

// RecordTransfer records a transfer. The summary is not changed.
func (l *Ledger) RecordTransfer(ctx context.Context, amount decimal.Decimal, on date.Date, category, note string) error {
	_, err := l.record(ctx, NewRecord(Transfer, amount, on, category, note))
	return err
}

func (l *Ledger) record(ctx context.Context, r Record) (Summary, error) {
	if err := ValidateAmount(r.Amount); err != nil {
		return Summary{}, err
	}
	if err := r.Date.Validate(); err != nil {
		return Summary{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	current, err := l.store.Summary(ctx)
	if errors.Is(err, ErrNotInitialized) {
		current = NewSummary(l.account)
	} else if err != nil {
		return Summary{}, err
	}

	r.ID = l.newID()
	entry := Entry{Record: r}
	next := current
	if r.Kind != Transfer {
		next = current.Apply(r)
		entry.Summary = &next
	} else if errors.Is(err, ErrNotInitialized) {
		entry.Summary = &next
	}

	if err := l.commit(ctx, entry); err != nil {
		l.log.WithError(err).WithFields(logrus.Fields{
			"kind":   r.Kind,
			"amount": r.Amount.String(),
		}).Error("transaction not recorded")
		return Summary{}, err
	}

	l.log.WithFields(logrus.Fields{
		"account":  next.Name,
		"kind":     r.Kind,
		"amount":   r.Amount.String(),
		"category": r.Category,
		"balance":  next.Balance.String(),
	}).Info("transaction recorded")
	l.publish(ctx, Event{Type: RecordedEvent, Account: next.Name, Record: &r, Summary: next})
	return next, nil
}

// commit writes the entry as one unit. Without a Committer the type log is
// written first, then the statement log, then the summary: the logs are the
// source of truth and Reconcile repairs any partial write.
func (l *Ledger) commit(ctx context.Context, e Entry) error {
	if c, ok := l.store.(Committer); ok {
		return c.Commit(ctx, e)
	}
	if err := l.store.Append(ctx, e.Record.Kind, e.Record); err != nil {
		return err
	}
	if err := l.store.AppendStatement(ctx, e.Record); err != nil {
		return err
	}
	if e.Summary != nil {
		if err := l.store.PutSummary(ctx, *e.Summary); err != nil {
			return err
		}
	}
	return nil
}

// Overview returns the account summary. If the account has never been
// initialized a zero summary is created for the default account name.
func (l *Ledger) Overview(ctx context.Context) (Summary, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	s, err := l.store.Summary(ctx)
	if errors.Is(err, ErrNotInitialized) {
		s = NewSummary(l.account)
		if err := l.store.PutSummary(ctx, s); err != nil {
			return Summary{}, err
		}
		l.log.WithField("account", s.Name).Info("account initialized")
		return s, nil
	}
	if err != nil {
		return Summary{}, err
	}
	return s, nil
}

// Reset wipes every log and reinitializes the summary to zero for name. An
// empty name means the default account name. A non empty name becomes the
// new default.
func (l *Ledger) Reset(ctx context.Context, name string) (Summary, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if name == "" {
		name = l.account
	}
	if err := l.store.Reset(ctx, name); err != nil {
		return Summary{}, err
	}
	l.account = name
	s := NewSummary(name)
	l.log.WithField("account", name).Warn("account reset")
	l.publish(ctx, Event{Type: ResetEvent, Account: name, Summary: s})
	return s, nil
}

// Statement returns every transaction in recording order.
func (l *Ledger) Statement(ctx context.Context) ([]Record, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.store.Statements(ctx)
}

// Records returns the transactions of kind k in recording order.
func (l *Ledger) Records(ctx context.Context, k Kind) ([]Record, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, k)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.store.Records(ctx, k)
}

func (l *Ledger) publish(ctx context.Context, e Event) {
	if l.publisher == nil {
		return
	}
	e.OccurredAt = l.now().UTC()
	if err := l.publisher.Publish(ctx, e); err != nil {
		l.log.WithError(err).WithField("event", e.Type).Warn("event not published")
	}
}
