package moneymanager

import "context"

// Store persists the account summary and the transaction logs.
//
// Implementations wrap every I/O failure with ErrStorageUnavailable.
type Store interface {
	// Summary returns the account summary, or ErrNotInitialized if there is none.
	Summary(ctx context.Context) (Summary, error)
	// PutSummary inserts or replaces the account summary.
	PutSummary(ctx context.Context, s Summary) error
	// Append adds a record at the end of the log of kind k.
	Append(ctx context.Context, k Kind, r Record) error
	// AppendStatement adds a record at the end of the statement log.
	AppendStatement(ctx context.Context, r Record) error
	// Reset wipes every log and the summary, then stores a zero summary for name.
	Reset(ctx context.Context, name string) error
	// Records returns the log of kind k in append order, each record has its Kind set.
	Records(ctx context.Context, k Kind) ([]Record, error)
	// Statements returns the statement log in append order.
	Statements(ctx context.Context) ([]Record, error)
	// Close releases the underlying resources.
	Close() error
}

// Entry is a unit of work applied by a Committer.
type Entry struct {
	Record  Record   // Record is appended to its kind log and to the statement log.
	Summary *Summary // Summary, if not nil, replaces the account summary.
}

// Committer is implemented by stores able to apply an Entry atomically.
type Committer interface {
	Commit(ctx context.Context, e Entry) error
}

// Repairer is implemented by stores that a crash can leave with an incomplete
// write, such as a torn last line or a half done reset.
type Repairer interface {
	// Repair completes or drops incomplete writes and describes each repair.
	Repair(ctx context.Context) ([]string, error)
}
