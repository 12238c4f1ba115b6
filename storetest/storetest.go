// Package storetest provides a conformance suite for moneymanager.Store implementations.
package storetest

import (
	"context"
	"testing"

	"github.com/etnz/moneymanager"
	"github.com/etnz/moneymanager/date"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Factory returns a new, empty and uninitialized store. The suite closes it.
type Factory func(t *testing.T) moneymanager.Store

// Run runs the conformance suite against stores created by newStore.
func Run(t *testing.T, newStore Factory) {
	tests := []struct {
		name string
		fn   func(t *testing.T, s moneymanager.Store)
	}{
		{"NotInitialized", testNotInitialized},
		{"SummaryRoundTrip", testSummaryRoundTrip},
		{"AppendAndRecords", testAppendAndRecords},
		{"Statements", testStatements},
		{"Reset", testReset},
		{"UnknownKind", testUnknownKind},
		{"Commit", testCommit},
		{"Ledger", testLedger},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := newStore(t)
			t.Cleanup(func() { s.Close() })
			tc.fn(t, s)
		})
	}
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func rec(id string, k moneymanager.Kind, amount, on, category, note string) moneymanager.Record {
	return moneymanager.Record{
		ID:       id,
		Kind:     k,
		Amount:   dec(amount),
		Date:     date.MustParse(on),
		Category: category,
		Note:     note,
	}
}

// assertRecords compares records field by field, decimals by value.
func assertRecords(t *testing.T, want, got []moneymanager.Record) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		assert.True(t, want[i].Equal(got[i]), "record #%d: want %+v got %+v", i, want[i], got[i])
	}
}

func testNotInitialized(t *testing.T, s moneymanager.Store) {
	ctx := context.Background()
	_, err := s.Summary(ctx)
	assert.ErrorIs(t, err, moneymanager.ErrNotInitialized)

	for _, k := range moneymanager.Kinds() {
		records, err := s.Records(ctx, k)
		require.NoError(t, err)
		assert.Empty(t, records)
	}
	statements, err := s.Statements(ctx)
	require.NoError(t, err)
	assert.Empty(t, statements)
}

func testSummaryRoundTrip(t *testing.T, s moneymanager.Store) {
	ctx := context.Background()
	want := moneymanager.Summary{
		Name:        "personal",
		DebitTotal:  dec("250.5"),
		CreditTotal: dec("12345678901234567890.125"),
		NetTotal:    dec("12345678901234567639.625"),
		Balance:     dec("12345678901234567639.625"),
	}
	require.NoError(t, s.PutSummary(ctx, want))
	got, err := s.Summary(ctx)
	require.NoError(t, err)
	assert.True(t, want.Equal(got), "want %v got %v", want, got)

	// a second put replaces the row.
	next := want.Debit(dec("0.125"))
	require.NoError(t, s.PutSummary(ctx, next))
	got, err = s.Summary(ctx)
	require.NoError(t, err)
	assert.True(t, next.Equal(got), "want %v got %v", next, got)
}

func testAppendAndRecords(t *testing.T, s moneymanager.Store) {
	ctx := context.Background()
	debits := []moneymanager.Record{
		rec("d1", moneymanager.Debit, "250.5", "2025-01-06", "Food", "lunch"),
		// Day of month is not checked against the month length.
		rec("d2", moneymanager.Debit, "10", "2025-02-31", "Gift", ""),
	}
	credit := rec("c1", moneymanager.Credit, "1000", "2025-01-05", "Salary", "")
	transfer := rec("t1", moneymanager.Transfer, "100", "2025-01-07", "Household", "savings")

	for _, r := range debits {
		require.NoError(t, s.Append(ctx, moneymanager.Debit, r))
	}
	require.NoError(t, s.Append(ctx, moneymanager.Credit, credit))
	require.NoError(t, s.Append(ctx, moneymanager.Transfer, transfer))

	got, err := s.Records(ctx, moneymanager.Debit)
	require.NoError(t, err)
	assertRecords(t, debits, got)
	assert.False(t, got[1].Date.Exists())

	got, err = s.Records(ctx, moneymanager.Credit)
	require.NoError(t, err)
	assertRecords(t, []moneymanager.Record{credit}, got)

	got, err = s.Records(ctx, moneymanager.Transfer)
	require.NoError(t, err)
	assertRecords(t, []moneymanager.Record{transfer}, got)

	// type logs are independent from the statement log.
	statements, err := s.Statements(ctx)
	require.NoError(t, err)
	assert.Empty(t, statements)
}

func testStatements(t *testing.T, s moneymanager.Store) {
	ctx := context.Background()
	want := []moneymanager.Record{
		rec("c1", moneymanager.Credit, "1000", "2025-01-05", "Salary", ""),
		rec("d1", moneymanager.Debit, "250.5", "2025-01-06", "Food", "lunch"),
		rec("t1", moneymanager.Transfer, "100", "2025-01-07", "Household", ""),
	}
	for _, r := range want {
		require.NoError(t, s.AppendStatement(ctx, r))
	}
	got, err := s.Statements(ctx)
	require.NoError(t, err)
	assertRecords(t, want, got)
}

func testReset(t *testing.T, s moneymanager.Store) {
	ctx := context.Background()
	r := rec("d1", moneymanager.Debit, "5", "2025-01-06", "Food", "")
	require.NoError(t, s.PutSummary(ctx, moneymanager.NewSummary("personal").Debit(r.Amount)))
	require.NoError(t, s.Append(ctx, moneymanager.Debit, r))
	require.NoError(t, s.AppendStatement(ctx, r))

	require.NoError(t, s.Reset(ctx, "Alice"))

	got, err := s.Summary(ctx)
	require.NoError(t, err)
	assert.True(t, moneymanager.NewSummary("Alice").Equal(got), "got %v", got)
	for _, k := range moneymanager.Kinds() {
		records, err := s.Records(ctx, k)
		require.NoError(t, err)
		assert.Empty(t, records, "log %v", k)
	}
	statements, err := s.Statements(ctx)
	require.NoError(t, err)
	assert.Empty(t, statements)

	// Reset is usable on a brand new account too.
	require.NoError(t, s.Reset(ctx, "Bob"))
	got, err = s.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Bob", got.Name)
}

func testUnknownKind(t *testing.T, s moneymanager.Store) {
	ctx := context.Background()
	err := s.Append(ctx, moneymanager.Kind("Refund"), rec("x", moneymanager.Debit, "1", "2025-01-01", "", ""))
	assert.ErrorIs(t, err, moneymanager.ErrUnknownKind)
	_, err = s.Records(ctx, moneymanager.Kind("Refund"))
	assert.ErrorIs(t, err, moneymanager.ErrUnknownKind)
}

func testCommit(t *testing.T, s moneymanager.Store) {
	c, ok := s.(moneymanager.Committer)
	if !ok {
		t.Skip("store is not a Committer")
	}
	ctx := context.Background()
	r := rec("d1", moneymanager.Debit, "42.125", "2025-03-01", "Health", "pharmacy")
	next := moneymanager.NewSummary("personal").Debit(r.Amount)
	require.NoError(t, c.Commit(ctx, moneymanager.Entry{Record: r, Summary: &next}))

	got, err := s.Summary(ctx)
	require.NoError(t, err)
	assert.True(t, next.Equal(got))
	debits, err := s.Records(ctx, moneymanager.Debit)
	require.NoError(t, err)
	assertRecords(t, []moneymanager.Record{r}, debits)
	statements, err := s.Statements(ctx)
	require.NoError(t, err)
	assertRecords(t, []moneymanager.Record{r}, statements)

	// A transfer commits without a summary.
	tr := rec("t1", moneymanager.Transfer, "1", "2025-03-02", "Household", "")
	require.NoError(t, c.Commit(ctx, moneymanager.Entry{Record: tr}))
	got, err = s.Summary(ctx)
	require.NoError(t, err)
	assert.True(t, next.Equal(got))
	statements, err = s.Statements(ctx)
	require.NoError(t, err)
	assertRecords(t, []moneymanager.Record{r, tr}, statements)
}

func testLedger(t *testing.T, s moneymanager.Store) {
	ctx := context.Background()
	l, err := moneymanager.Open(ctx, s, "personal")
	require.NoError(t, err)

	got, err := l.RecordCredit(ctx, dec("1000.00"), date.MustParse("2025-01-05"), "Salary", "")
	require.NoError(t, err)
	assert.Equal(t, "1000.00", got.Balance.StringFixed(2))

	got, err = l.RecordDebit(ctx, dec("250.50"), date.MustParse("2025-01-06"), "Food", "lunch")
	require.NoError(t, err)
	assert.Equal(t, "749.50", got.Balance.StringFixed(2))
	assert.Equal(t, "749.50", got.NetTotal.StringFixed(2))

	require.NoError(t, l.RecordTransfer(ctx, dec("100.00"), date.MustParse("2025-01-07"), "Household", ""))

	overview, err := l.Overview(ctx)
	require.NoError(t, err)
	assert.True(t, got.Equal(overview), "want %v got %v", got, overview)

	statement, err := l.Statement(ctx)
	require.NoError(t, err)
	require.Len(t, statement, 3)
	assert.Equal(t, []moneymanager.Kind{moneymanager.Credit, moneymanager.Debit, moneymanager.Transfer},
		[]moneymanager.Kind{statement[0].Kind, statement[1].Kind, statement[2].Kind})

	repair, err := l.Reconcile(ctx)
	require.NoError(t, err)
	assert.False(t, repair.Repaired())
}
