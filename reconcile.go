package moneymanager

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
)

// Reconciliation reports what Reconcile found and repaired.
type Reconciliation struct {
	Before             *Summary // Before is the stored summary, nil if there was none.
	After              Summary  // After is the summary computed from the logs.
	Repairs            []string // Repairs describes the incomplete writes fixed by a Repairer store.
	RestoredStatements []Record // RestoredStatements were in a type log but missing from the statement log.
	SummaryRepaired    bool     // SummaryRepaired is true if the stored summary has been rewritten.
}

// Repaired reports whether anything has been written.
func (r Reconciliation) Repaired() bool {
	return r.SummaryRepaired || len(r.RestoredStatements) > 0 || len(r.Repairs) > 0
}

// Reconcile makes the summary and the statement log agree with the type logs.
//
// The debit and credit logs are the source of truth: the summary is replayed
// from them and rewritten if it differs. Records present in a type log but
// missing from the statement log are appended to it, in type log order.
// Stores implementing Repairer are repaired first.
func (l *Ledger) Reconcile(ctx context.Context) (Reconciliation, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var rec Reconciliation
	if r, ok := l.store.(Repairer); ok {
		repairs, err := r.Repair(ctx)
		if err != nil {
			return rec, err
		}
		for _, repair := range repairs {
			l.log.WithField("account", l.account).Warn(repair)
		}
		rec.Repairs = repairs
	}

	stored, err := l.store.Summary(ctx)
	switch {
	case errors.Is(err, ErrNotInitialized):
	case err != nil:
		return rec, err
	default:
		rec.Before = &stored
	}

	logs := make(map[Kind][]Record)
	for _, k := range Kinds() {
		records, err := l.store.Records(ctx, k)
		if err != nil {
			return rec, err
		}
		logs[k] = records
	}
	statements, err := l.store.Statements(ctx)
	if err != nil {
		return rec, err
	}

	known := make(map[string]bool, len(statements))
	for _, s := range statements {
		known[s.ID] = true
	}
	for _, k := range Kinds() {
		for _, r := range logs[k] {
			if r.ID == "" || known[r.ID] {
				continue
			}
			r.Kind = k
			if err := l.store.AppendStatement(ctx, r); err != nil {
				return rec, err
			}
			known[r.ID] = true
			rec.RestoredStatements = append(rec.RestoredStatements, r)
		}
	}

	name := l.account
	if rec.Before != nil {
		name = rec.Before.Name
	}
	rec.After = Replay(name, logs[Debit], logs[Credit])
	if rec.Before == nil || !rec.Before.Equal(rec.After) {
		if err := l.store.PutSummary(ctx, rec.After); err != nil {
			return rec, err
		}
		rec.SummaryRepaired = true
	}
	if rec.Before != nil {
		l.account = rec.Before.Name
	}

	if rec.Repaired() {
		entry := l.log.WithFields(logrus.Fields{
			"account":   rec.After.Name,
			"balance":   rec.After.Balance.String(),
			"restored":  len(rec.RestoredStatements),
			"rewritten": rec.SummaryRepaired,
		})
		// A first initialization is not a repair.
		if rec.Before == nil && len(rec.RestoredStatements) == 0 && len(rec.Repairs) == 0 {
			entry.Info("account initialized")
		} else {
			entry.Warn("account reconciled")
			l.publish(ctx, Event{Type: ReconciledEvent, Account: rec.After.Name, Summary: rec.After})
		}
	}
	return rec, nil
}
