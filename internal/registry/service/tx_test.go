package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vaxcert/internal/registry/models"
	"vaxcert/internal/registry/store"
	dErrors "vaxcert/pkg/domain-errors"
	"vaxcert/pkg/platform/sentinel"
)

func TestStoreTxTranslatesBackendErrors(t *testing.T) {
	failing := func(err error) StoreTx {
		return NewStoreTx(func(ctx context.Context, fn func(ctx context.Context, txn *store.MemoryTxn) error) error {
			return err
		})
	}
	noop := func(context.Context, Store) error { return nil }

	t.Run("domain errors pass through", func(t *testing.T) {
		err := failing(models.ErrNotOwner).RunInTx(context.Background(), noop)
		assert.ErrorIs(t, err, models.ErrNotOwner)
	})

	t.Run("infrastructure errors become internal", func(t *testing.T) {
		err := failing(sentinel.ErrUnavailable).RunInTx(context.Background(), noop)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInternal))
		assert.ErrorIs(t, err, sentinel.ErrUnavailable)
	})

	t.Run("deadline becomes timeout", func(t *testing.T) {
		err := failing(context.DeadlineExceeded).RunInTx(context.Background(), noop)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeTimeout))
	})
}

func TestStoreTxAppliesDefaultDeadline(t *testing.T) {
	tx := NewStoreTx(store.NewInMemory().RunInTx, WithTxTimeout(time.Minute))

	require.NoError(t, tx.RunInTx(context.Background(), func(ctx context.Context, _ Store) error {
		deadline, ok := ctx.Deadline()
		require.True(t, ok)
		assert.WithinDuration(t, time.Now().Add(time.Minute), deadline, 5*time.Second)
		return nil
	}))
}

func TestStoreTxKeepsCallerDeadline(t *testing.T) {
	tx := NewStoreTx(store.NewInMemory().RunInTx)
	want := time.Now().Add(time.Hour)
	ctx, cancel := context.WithDeadline(context.Background(), want)
	defer cancel()

	require.NoError(t, tx.RunInTx(ctx, func(ctx context.Context, _ Store) error {
		got, _ := ctx.Deadline()
		assert.Equal(t, want, got)
		return nil
	}))
}

func TestStoreTxRollsBackOnError(t *testing.T) {
	mem := store.NewInMemory()
	tx := NewStoreTx(mem.RunInTx)
	boom := errors.New("boom")

	err := tx.RunInTx(context.Background(), func(ctx context.Context, st Store) error {
		require.NoError(t, st.WriteOwner(ctx, 1, "GALICE"))
		return boom
	})
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInternal))
	assert.ErrorIs(t, err, boom)

	require.NoError(t, tx.RunInTx(context.Background(), func(ctx context.Context, st Store) error {
		_, err := st.ReadOwner(ctx, 1)
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
		return nil
	}))
}
