package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"vaxcert/internal/registry/models"
	id "vaxcert/pkg/domain"
)

func openSQLite(t *testing.T, path string) *SQLiteStore {
	t.Helper()
	st, err := NewSQLite(context.Background(), path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func sqliteBackend(t *testing.T) backend {
	st := openSQLite(t, filepath.Join(t.TempDir(), "registry.db"))
	return backend{
		run: func(ctx context.Context, fn func(ctx context.Context, v registryView) error) error {
			return st.RunInTx(ctx, func(ctx context.Context, txn *SQLiteTxn) error { return fn(ctx, txn) })
		},
		outbox: st,
	}
}

func TestSQLiteStoreContract(t *testing.T) {
	suite.Run(t, &StoreContractSuite{newBackend: sqliteBackend})
}

func TestSQLiteSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "registry.db")
	ctx := context.Background()

	first, err := NewSQLite(ctx, path)
	require.NoError(t, err)
	require.NoError(t, first.RunInTx(ctx, func(ctx context.Context, txn *SQLiteTxn) error {
		if err := txn.WriteRegistry(ctx, &models.Registry{Admin: "GADMIN", Name: "VaxCert", Symbol: "VAX"}); err != nil {
			return err
		}
		if err := txn.WriteCounter(ctx, 2); err != nil {
			return err
		}
		return txn.WriteOwner(ctx, 2, "GBOB")
	}))
	require.NoError(t, first.Close())

	second := openSQLite(t, path)
	assert.Equal(t, path, second.Path())
	require.NoError(t, second.Ping(ctx))
	require.NoError(t, second.RunInTx(ctx, func(ctx context.Context, txn *SQLiteTxn) error {
		reg, err := txn.ReadRegistry(ctx)
		require.NoError(t, err)
		assert.Equal(t, id.Identity("GADMIN"), reg.Admin)

		owner, err := txn.ReadOwner(ctx, 2)
		require.NoError(t, err)
		assert.Equal(t, id.Identity("GBOB"), owner)
		return nil
	}))
}

func TestSQLiteKeysAreFixedWidth(t *testing.T) {
	st := openSQLite(t, filepath.Join(t.TempDir(), "registry.db"))
	ctx := context.Background()

	require.NoError(t, st.RunInTx(ctx, func(ctx context.Context, txn *SQLiteTxn) error {
		for _, tok := range []id.TokenID{10, 9, 100} {
			if err := txn.WriteOwner(ctx, tok, "GALICE"); err != nil {
				return err
			}
		}
		return nil
	}))

	rows, err := st.db.QueryContext(ctx, `SELECT key FROM kv WHERE keyspace = ? ORDER BY key`, keyspaceOwner)
	require.NoError(t, err)
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		require.NoError(t, rows.Scan(&k))
		keys = append(keys, k)
	}
	require.NoError(t, rows.Err())
	assert.Equal(t, []string{
		id.TokenID(9).PaddedString(),
		id.TokenID(10).PaddedString(),
		id.TokenID(100).PaddedString(),
	}, keys)
}
