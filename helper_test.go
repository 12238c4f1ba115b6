package moneymanager

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/etnz/moneymanager/date"
	"github.com/shopspring/decimal"
)

// D is a helper for tests to create decimals from const.
func D(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// on is a helper for tests to create dates from const.
func on(s string) date.Date { return date.MustParse(s) }

// sequentialIDs returns an ID generator producing "id-1", "id-2", ...
func sequentialIDs() func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

// failingStore is a Store whose writes fail once 'failAfter' writes succeeded.
// It embeds the Store interface so that it is not a Committer.
type failingStore struct {
	Store
	mu        sync.Mutex
	writes    int
	failAfter int
}

func newFailingStore(failAfter int) *failingStore {
	return &failingStore{Store: NewMemoryStore(), failAfter: failAfter}
}

func (f *failingStore) write() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writes >= f.failAfter {
		return fmt.Errorf("%w: disk full", ErrStorageUnavailable)
	}
	f.writes++
	return nil
}

func (f *failingStore) PutSummary(ctx context.Context, s Summary) error {
	if err := f.write(); err != nil {
		return err
	}
	return f.Store.PutSummary(ctx, s)
}

func (f *failingStore) Append(ctx context.Context, k Kind, r Record) error {
	if err := f.write(); err != nil {
		return err
	}
	return f.Store.Append(ctx, k, r)
}

func (f *failingStore) AppendStatement(ctx context.Context, r Record) error {
	if err := f.write(); err != nil {
		return err
	}
	return f.Store.AppendStatement(ctx, r)
}

// recordingPublisher keeps every published event.
type recordingPublisher struct {
	mu     sync.Mutex
	events []Event
	err    error
}

func (p *recordingPublisher) Publish(ctx context.Context, e Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

func newTestLedger(t *testing.T, store Store, opts ...Option) *Ledger {
	t.Helper()
	opts = append([]Option{WithIDGenerator(sequentialIDs())}, opts...)
	return NewLedger(store, "personal", opts...)
}
