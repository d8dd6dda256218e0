//go:build unit

package inmem_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"checkout-service/internal/domain/inventory"
	"checkout-service/internal/infra"
	"checkout-service/internal/infra/inmem"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seeded(quantity, reserved int64) *inmem.InventoryStore {
	store := inmem.NewInventoryStore()
	store.Put(inventory.Record{
		ProductID:        "prod-001",
		Quantity:         quantity,
		ReservedQuantity: reserved,
		UpdatedAt:        time.Now(),
	})
	return store
}

func TestInventoryStore_ErrorKinds(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown product", func(t *testing.T) {
		store := inmem.NewInventoryStore()
		_, err := store.Reserve(ctx, "prod-404", 1)
		assert.True(t, infra.IsKind(err, infra.KindNotFound))
	})

	t.Run("failed precondition", func(t *testing.T) {
		store := seeded(1, 1)
		_, err := store.Reserve(ctx, "prod-001", 1)
		assert.True(t, infra.IsKind(err, infra.KindConditionFailed))
	})

	t.Run("release beyond reservation", func(t *testing.T) {
		store := seeded(5, 0)
		_, err := store.Release(ctx, "prod-001", 1)
		assert.True(t, infra.IsKind(err, infra.KindConditionFailed))
	})
}

// Many writers race to reserve the last units; the number of successes must
// equal the available stock exactly and the invariant must hold throughout.
func TestInventoryStore_ConcurrentReserve(t *testing.T) {
	ctx := context.Background()
	const available = 50
	const contenders = 200

	store := seeded(available, 0)

	var wg sync.WaitGroup
	successes := make(chan struct{}, contenders)
	for i := 0; i < contenders; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := store.Reserve(ctx, "prod-001", 1); err == nil {
				successes <- struct{}{}
			}
		}()
	}
	wg.Wait()
	close(successes)

	count := 0
	for range successes {
		count++
	}
	assert.Equal(t, available, count)

	rec, err := store.FindByProductID(ctx, "prod-001")
	require.NoError(t, err)
	assert.Equal(t, int64(available), rec.ReservedQuantity)
	assert.Equal(t, int64(available), rec.Quantity)
	assert.Equal(t, int64(0), rec.AvailableQuantity())
}

func TestInventoryStore_ConcurrentDecrement(t *testing.T) {
	ctx := context.Background()
	const stock = 30
	const contenders = 100

	store := seeded(stock, 0)

	var wg sync.WaitGroup
	successes := make(chan struct{}, contenders)
	for i := 0; i < contenders; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := store.Decrement(ctx, "prod-001", 1); err == nil {
				successes <- struct{}{}
			}
		}()
	}
	wg.Wait()
	close(successes)

	count := 0
	for range successes {
		count++
	}
	assert.Equal(t, stock, count)

	rec, err := store.FindByProductID(ctx, "prod-001")
	require.NoError(t, err)
	assert.Equal(t, int64(0), rec.Quantity)
}
