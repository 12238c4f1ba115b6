package moneymanager

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// crashedReset leaves dir as a reset to name interrupted after removing the given logs.
func crashedReset(t *testing.T, store *FileStore, name string, removed ...string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(store.Dir(), resetMarkerFilename), []byte(name), 0o644))
	for _, file := range removed {
		require.NoError(t, os.Remove(filepath.Join(store.Dir(), file)))
	}
}

func TestFileStore_InterruptedResetIsCompleted(t *testing.T) {
	ctx := context.Background()
	testCases := []struct {
		name    string
		removed []string
	}{
		{name: "before any removal"},
		{name: "after the debit log", removed: []string{"debit.jsonl"}},
		{name: "after the type logs", removed: []string{"debit.jsonl", "credit.jsonl", "transfer.jsonl"}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			store, err := OpenFileStore(t.TempDir())
			require.NoError(t, err)
			l := newTestLedger(t, store)
			_, err = l.RecordCredit(ctx, D("100"), on("2025-01-05"), "Salary", "")
			require.NoError(t, err)
			_, err = l.RecordDebit(ctx, D("30"), on("2025-01-06"), "Food", "")
			require.NoError(t, err)
			require.NoError(t, l.RecordTransfer(ctx, D("10"), on("2025-01-07"), "Household", ""))

			crashedReset(t, store, "Alice", tc.removed...)

			l, err = Open(ctx, store, "personal")
			require.NoError(t, err)
			s, err := l.Overview(ctx)
			require.NoError(t, err)
			wantSummary(t, s, "Alice", "0.00", "0.00", "0.00", "0.00")
			assert.Equal(t, "Alice", l.Account())

			statement, err := l.Statement(ctx)
			require.NoError(t, err)
			assert.Empty(t, statement)
			for _, k := range Kinds() {
				records, err := l.Records(ctx, k)
				require.NoError(t, err)
				assert.Empty(t, records, k)
			}
			assert.NoFileExists(t, filepath.Join(store.Dir(), resetMarkerFilename))
		})
	}
}

func TestFileStore_ResetRemovesStatementsLast(t *testing.T) {
	ctx := context.Background()
	store, err := OpenFileStore(t.TempDir())
	require.NoError(t, err)

	files := store.logFiles()
	assert.Equal(t, statementFilename, files[len(files)-1])

	require.NoError(t, store.Reset(ctx, "Alice"))
	assert.NoFileExists(t, filepath.Join(store.Dir(), resetMarkerFilename))
	repairs, err := store.Repair(ctx)
	require.NoError(t, err)
	assert.Empty(t, repairs)
}
