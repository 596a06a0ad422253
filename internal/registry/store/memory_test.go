package store

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"vaxcert/internal/registry/models"
)

func memoryBackend(_ *testing.T) backend {
	mem := NewInMemory()
	return backend{
		run: func(ctx context.Context, fn func(ctx context.Context, v registryView) error) error {
			return mem.RunInTx(ctx, func(ctx context.Context, txn *MemoryTxn) error { return fn(ctx, txn) })
		},
		outbox: mem,
	}
}

func TestInMemoryStoreContract(t *testing.T) {
	suite.Run(t, &StoreContractSuite{newBackend: memoryBackend})
}

func TestInMemoryReadsAreCopies(t *testing.T) {
	mem := NewInMemory()
	ctx := context.Background()

	require.NoError(t, mem.RunInTx(ctx, func(ctx context.Context, txn *MemoryTxn) error {
		return txn.WriteAttrs(ctx, 1, &models.VaccineAttrs{Name: "Pfizer"})
	}))
	require.NoError(t, mem.RunInTx(ctx, func(ctx context.Context, txn *MemoryTxn) error {
		attrs, err := txn.ReadAttrs(ctx, 1)
		require.NoError(t, err)
		attrs.Name = "tampered"
		return nil
	}))
	require.NoError(t, mem.RunInTx(ctx, func(ctx context.Context, txn *MemoryTxn) error {
		attrs, err := txn.ReadAttrs(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "Pfizer", attrs.Name)
		return nil
	}))
}

func TestInMemorySerializesTransactions(t *testing.T) {
	mem := NewInMemory()
	ctx := context.Background()

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = mem.RunInTx(ctx, func(ctx context.Context, txn *MemoryTxn) error {
				n, err := txn.ReadCounter(ctx)
				if err != nil {
					return err
				}
				return txn.WriteCounter(ctx, n+1)
			})
		}()
	}
	wg.Wait()

	require.NoError(t, mem.RunInTx(ctx, func(ctx context.Context, txn *MemoryTxn) error {
		n, err := txn.ReadCounter(ctx)
		assert.Equal(t, uint64(50), n)
		return err
	}))
}
