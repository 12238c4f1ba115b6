package moneymanager_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/etnz/moneymanager"
	"github.com/etnz/moneymanager/date"
	"github.com/etnz/moneymanager/storetest"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) moneymanager.Store {
		return moneymanager.NewMemoryStore()
	})
}

func TestFileStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) moneymanager.Store {
		s, err := moneymanager.OpenFileStore(t.TempDir())
		require.NoError(t, err)
		return s
	})
}

func TestFileStore_Layout(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store, err := moneymanager.OpenFileStore(filepath.Join(dir, "account"))
	require.NoError(t, err)

	l := moneymanager.NewLedger(store, "personal", moneymanager.WithIDGenerator(func() string { return "c1" }))
	_, err = l.RecordCredit(ctx, decimal.RequireFromString("1000.00"), date.MustParse("2025-01-05"), "Salary", "")
	require.NoError(t, err)

	credit, err := os.ReadFile(filepath.Join(dir, "account", "credit.jsonl"))
	require.NoError(t, err)
	assert.Equal(t, `{"id":"c1","date":"2025-01-05","amount":1000,"category":"Salary"}`+"\n", string(credit))

	statements, err := os.ReadFile(filepath.Join(dir, "account", "statements.jsonl"))
	require.NoError(t, err)
	assert.Equal(t, `{"id":"c1","date":"2025-01-05","amount":1000,"kind":"Credit","category":"Salary"}`+"\n", string(statements))

	summary, err := os.ReadFile(filepath.Join(dir, "account", "summary.json"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"personal","debitTotal":0,"creditTotal":1000,"netTotal":1000,"balance":1000}`, string(summary))

	// No temporary file is left behind.
	tmp, err := filepath.Glob(filepath.Join(dir, "account", ".summary-*"))
	require.NoError(t, err)
	assert.Empty(t, tmp)
}

func TestFileStore_ReopenReconciles(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store, err := moneymanager.OpenFileStore(dir)
	require.NoError(t, err)
	l, err := moneymanager.Open(ctx, store, "personal")
	require.NoError(t, err)
	_, err = l.RecordCredit(ctx, decimal.NewFromInt(100), date.MustParse("2025-01-05"), "Salary", "")
	require.NoError(t, err)

	// Simulate a crash after the debit log append: the statement and the summary are missing.
	debit := `{"id":"lost","date":"2025-01-06","amount":40,"category":"Food","note":"groceries"}` + "\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "debit.jsonl"), []byte(debit), 0o644))

	store, err = moneymanager.OpenFileStore(dir)
	require.NoError(t, err)
	l, err = moneymanager.Open(ctx, store, "personal")
	require.NoError(t, err)

	s, err := l.Overview(ctx)
	require.NoError(t, err)
	assert.Equal(t, "60", s.Balance.String())
	assert.Equal(t, "40", s.DebitTotal.String())

	statement, err := l.Statement(ctx)
	require.NoError(t, err)
	require.Len(t, statement, 2)
	assert.Equal(t, "lost", statement[1].ID)
	assert.Equal(t, moneymanager.Debit, statement[1].Kind)
	assert.Equal(t, "groceries", statement[1].Note)
}

func TestFileStore_CorruptedSummary(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "summary.json"), []byte("{not json"), 0o644))
	store, err := moneymanager.OpenFileStore(dir)
	require.NoError(t, err)
	_, err = store.Summary(context.Background())
	assert.ErrorIs(t, err, moneymanager.ErrStorageUnavailable)
}

// appendToFile appends raw bytes to a file of the store directory.
func appendToFile(t *testing.T, dir, name, data string) {
	t.Helper()
	f, err := os.OpenFile(filepath.Join(dir, name), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString(data)
	require.NoError(t, err)
	require.NoError(t, f.Close())
}

func TestFileStore_TornWriteIsDropped(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store, err := moneymanager.OpenFileStore(dir)
	require.NoError(t, err)
	l, err := moneymanager.Open(ctx, store, "me")
	require.NoError(t, err)
	_, err = l.RecordCredit(ctx, decimal.NewFromInt(100), date.MustParse("2025-01-05"), "Salary", "")
	require.NoError(t, err)
	_, err = l.RecordDebit(ctx, decimal.NewFromInt(30), date.MustParse("2025-01-06"), "Food", "")
	require.NoError(t, err)

	// a crash in the middle of the next debit append.
	appendToFile(t, dir, "debit.jsonl", `{"id":"abc","date":"2025-01-0`)

	store, err = moneymanager.OpenFileStore(dir)
	require.NoError(t, err)
	l, err = moneymanager.Open(ctx, store, "me")
	require.NoError(t, err)

	s, err := l.Overview(ctx)
	require.NoError(t, err)
	assert.Equal(t, "70", s.Balance.String())

	data, err := os.ReadFile(filepath.Join(dir, "debit.jsonl"))
	require.NoError(t, err)
	assert.NotContains(t, string(data), `"abc"`)
	assert.True(t, strings.HasSuffix(string(data), "\n"))

	// the log is usable again.
	_, err = l.RecordDebit(ctx, decimal.NewFromInt(5), date.MustParse("2025-01-07"), "Food", "")
	require.NoError(t, err)
	debits, err := l.Records(ctx, moneymanager.Debit)
	require.NoError(t, err)
	assert.Len(t, debits, 2)
	statement, err := l.Statement(ctx)
	require.NoError(t, err)
	assert.Len(t, statement, 3)
}

func TestFileStore_MissingNewlineIsCompleted(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store, err := moneymanager.OpenFileStore(dir)
	require.NoError(t, err)

	// the record was written but its newline was not.
	appendToFile(t, dir, "credit.jsonl", `{"id":"c1","date":"2025-01-05","amount":100,"category":"Salary"}`)

	l := moneymanager.NewLedger(store, "me")
	rec, err := l.Reconcile(ctx)
	require.NoError(t, err)
	require.Len(t, rec.Repairs, 1)
	assert.Contains(t, rec.Repairs[0], "credit.jsonl")
	assert.Len(t, rec.RestoredStatements, 1)
	assert.Equal(t, "100", rec.After.Balance.String())

	data, err := os.ReadFile(filepath.Join(dir, "credit.jsonl"))
	require.NoError(t, err)
	assert.Equal(t, `{"id":"c1","date":"2025-01-05","amount":100,"category":"Salary"}`+"\n", string(data))
}

func TestFileStore_TornStatementIsDropped(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store, err := moneymanager.OpenFileStore(dir)
	require.NoError(t, err)
	l, err := moneymanager.Open(ctx, store, "me")
	require.NoError(t, err)
	_, err = l.RecordDebit(ctx, decimal.NewFromInt(30), date.MustParse("2025-01-06"), "Food", "")
	require.NoError(t, err)

	// the debit log append succeeded, the statement append was torn.
	appendToFile(t, dir, "debit.jsonl", `{"id":"d2","date":"2025-01-07","amount":5,"category":"Food"}`+"\n")
	appendToFile(t, dir, "statements.jsonl", `{"id":"d2","da`)

	rec, err := l.Reconcile(ctx)
	require.NoError(t, err)
	assert.Len(t, rec.Repairs, 1)
	require.Len(t, rec.RestoredStatements, 1)
	assert.Equal(t, "d2", rec.RestoredStatements[0].ID)
	assert.Equal(t, "-35", rec.After.Balance.String())

	statement, err := l.Statement(ctx)
	require.NoError(t, err)
	assert.Len(t, statement, 2)
}
