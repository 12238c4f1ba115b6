package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/etnz/moneymanager"
	"github.com/etnz/moneymanager/storetest"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testDSN returns the test database DSN, or skips the test.
func testDSN(t *testing.T) string {
	t.Helper()
	dsn := os.Getenv("MM_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("MM_TEST_POSTGRES_DSN is not set")
	}
	return dsn
}

func openStore(t *testing.T) *Store {
	t.Helper()
	ctx := context.Background()
	log := logrus.New()
	log.SetLevel(logrus.WarnLevel)
	s, err := Open(ctx, testDSN(t), log)
	require.NoError(t, err)
	require.NoError(t, s.Clear(ctx))
	return s
}

func TestStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) moneymanager.Store { return openStore(t) })
}

func TestStore_ResetRenames(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	defer s.Close()

	require.NoError(t, s.PutSummary(ctx, moneymanager.NewSummary("personal")))
	require.NoError(t, s.Reset(ctx, "Alice"))

	var n int
	require.NoError(t, s.db.QueryRowContext(ctx, `SELECT count(*) FROM account_summary`).Scan(&n))
	assert.Equal(t, 1, n, "a single summary row")
}

func TestOpen_Unreachable(t *testing.T) {
	_, err := Open(context.Background(), "postgres://nobody@127.0.0.1:1/none?sslmode=disable&connect_timeout=1", nil)
	assert.ErrorIs(t, err, moneymanager.ErrStorageUnavailable)
}

func TestLogTable(t *testing.T) {
	for _, k := range moneymanager.Kinds() {
		table, err := logTable(k)
		require.NoError(t, err)
		assert.Contains(t, allTables, table)
	}
	_, err := logTable("Refund")
	assert.ErrorIs(t, err, moneymanager.ErrUnknownKind)
}
