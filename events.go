package moneymanager

import (
	"context"
	"time"
)

// EventType names what happened to the ledger.
type EventType string

const (
	RecordedEvent   EventType = "recorded"   // a transaction has been committed.
	ResetEvent      EventType = "reset"      // the account has been wiped.
	ReconciledEvent EventType = "reconciled" // a repair has been applied.
)

// Event is published after a ledger operation has been committed.
type Event struct {
	Type       EventType `json:"type"`
	Account    string    `json:"account"`
	Record     *Record   `json:"record,omitempty"`
	Summary    Summary   `json:"summary"`
	OccurredAt time.Time `json:"occurredAt"`
}

// Publisher delivers ledger events to an external system.
//
// Publishing happens after the commit: a failure is logged and does not
// cancel the operation.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}
