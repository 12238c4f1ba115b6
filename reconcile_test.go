package moneymanager

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconcile_RepairsPartialWrites(t *testing.T) {
	ctx := context.Background()
	testCases := []struct {
		name         string
		failAfter    int // number of successful writes during the last debit.
		wantRestored int
	}{
		{name: "crash after type log", failAfter: 1, wantRestored: 1},
		{name: "crash after statement log", failAfter: 2, wantRestored: 0},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			store := newFailingStore(1 << 30)
			l := newTestLedger(t, store)
			_, err := l.RecordCredit(ctx, D("100"), on("2025-01-01"), "Salary", "")
			require.NoError(t, err)

			store.failAfter = store.writes + tc.failAfter
			_, err = l.RecordDebit(ctx, D("30"), on("2025-01-02"), "Food", "")
			require.ErrorIs(t, err, ErrStorageUnavailable)

			// The summary is behind the logs.
			s, err := store.Summary(ctx)
			require.NoError(t, err)
			assert.Equal(t, "100", s.Balance.String())

			store.failAfter = 1 << 30
			rec, err := l.Reconcile(ctx)
			require.NoError(t, err)
			assert.True(t, rec.SummaryRepaired)
			assert.Len(t, rec.RestoredStatements, tc.wantRestored)
			require.NotNil(t, rec.Before)
			assert.Equal(t, "100", rec.Before.Balance.String())
			wantSummary(t, rec.After, "personal", "100.00", "30.00", "70.00", "70.00")

			s, err = l.Overview(ctx)
			require.NoError(t, err)
			assert.True(t, rec.After.Equal(s))
			statement, err := l.Statement(ctx)
			require.NoError(t, err)
			assert.Len(t, statement, 2)

			// A second pass has nothing to do.
			rec, err = l.Reconcile(ctx)
			require.NoError(t, err)
			assert.False(t, rec.Repaired())
		})
	}
}

func TestReconcile_InitializesEmptyAccount(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	l, err := Open(ctx, store, "personal")
	require.NoError(t, err)

	s, err := store.Summary(ctx)
	require.NoError(t, err)
	assert.True(t, NewSummary("personal").Equal(s))

	rec, err := l.Reconcile(ctx)
	require.NoError(t, err)
	assert.False(t, rec.Repaired())
}

func TestReconcile_KeepsStoredName(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Reset(ctx, "Alice"))

	l, err := Open(ctx, store, "personal")
	require.NoError(t, err)
	assert.Equal(t, "Alice", l.Account())

	s, err := l.Overview(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Alice", s.Name)
}

func TestReplay(t *testing.T) {
	debits := []Record{{Amount: D("1.5")}, {Amount: D("2")}}
	credits := []Record{{Amount: D("10")}}
	s := Replay("personal", debits, credits)
	wantSummary(t, s, "personal", "10.00", "3.50", "6.50", "6.50")
	assert.True(t, s.Consistent())
}
