//go:build unit

package commands_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"checkout-service/internal/domain/event"
	"checkout-service/internal/domain/transaction"
	"checkout-service/internal/infra"
	"checkout-service/internal/infra/inmem"
	"checkout-service/internal/pkg/clock"
	"checkout-service/internal/usecase/commands"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func createParams(key string) commands.CreateTransactionParams {
	return commands.CreateTransactionParams{
		ProductID:       "prod-001",
		Amount:          50000,
		Commission:      1500,
		ShippingCost:    3500,
		CustomerEmail:   "buyer@example.com",
		CustomerName:    "Jane Buyer",
		DeliveryAddress: "Calle 100 #1-23",
		DeliveryCity:    "Bogota",
		DeliveryPhone:   "3001234567",
		IdempotencyKey:  key,
	}
}

func TestTransactionCommands_CreateTransaction(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	t.Run("creates a pending transaction and appends one event", func(t *testing.T) {
		txStore := inmem.NewTransactionStore()
		evStore := inmem.NewEventStore()
		uc := commands.NewTransactionCommands(txStore, evStore, clock.NewMockClock(now), testLogger())

		result, err := uc.CreateTransaction(ctx, createParams("key-1"))
		require.NoError(t, err)

		assert.False(t, result.Replayed)
		assert.Equal(t, transaction.StatusPending, result.Transaction.Status())
		assert.Equal(t, int64(55000), result.Transaction.TotalAmount())

		events, err := evStore.FindByAggregateID(ctx, result.Transaction.ID().String())
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, event.TypeTransactionCreated, events[0].EventType)
	})

	t.Run("same key returns the same transaction without a second event", func(t *testing.T) {
		txStore := inmem.NewTransactionStore()
		evStore := inmem.NewEventStore()
		uc := commands.NewTransactionCommands(txStore, evStore, clock.NewMockClock(now), testLogger())

		first, err := uc.CreateTransaction(ctx, createParams("key-1"))
		require.NoError(t, err)

		second, err := uc.CreateTransaction(ctx, createParams("key-1"))
		require.NoError(t, err)

		assert.True(t, second.Replayed)
		assert.Equal(t, first.Transaction.ID(), second.Transaction.ID())

		events, err := evStore.FindAll(ctx)
		require.NoError(t, err)
		assert.Len(t, events, 1)
	})

	t.Run("different keys create distinct transactions", func(t *testing.T) {
		txStore := inmem.NewTransactionStore()
		evStore := inmem.NewEventStore()
		uc := commands.NewTransactionCommands(txStore, evStore, clock.NewMockClock(now), testLogger())

		first, err := uc.CreateTransaction(ctx, createParams("key-1"))
		require.NoError(t, err)
		second, err := uc.CreateTransaction(ctx, createParams("key-2"))
		require.NoError(t, err)

		assert.NotEqual(t, first.Transaction.ID(), second.Transaction.ID())
	})

	t.Run("invalid params never reach the store", func(t *testing.T) {
		txStore := inmem.NewTransactionStore()
		evStore := inmem.NewEventStore()
		uc := commands.NewTransactionCommands(txStore, evStore, clock.NewMockClock(now), testLogger())

		p := createParams("key-1")
		p.Amount = -1
		_, err := uc.CreateTransaction(ctx, p)
		assert.ErrorIs(t, err, transaction.ErrNegativeAmount)

		all, err := txStore.FindAll(ctx)
		require.NoError(t, err)
		assert.Empty(t, all)
	})

	t.Run("losing the insert race returns the winner", func(t *testing.T) {
		txStore := inmem.NewTransactionStore()
		evStore := inmem.NewEventStore()
		racing := &racingTransactionStore{TransactionStore: txStore}
		uc := commands.NewTransactionCommands(racing, evStore, clock.NewMockClock(now), testLogger())

		winner, err := transaction.NewTransaction(transaction.NewTransactionParams{
			ProductID:      "prod-001",
			Amount:         50000,
			Commission:     1500,
			ShippingCost:   3500,
			IdempotencyKey: "key-1",
		}, now)
		require.NoError(t, err)
		racing.winner = winner

		result, err := uc.CreateTransaction(ctx, createParams("key-1"))
		require.NoError(t, err)

		assert.True(t, result.Replayed)
		assert.Equal(t, winner.ID(), result.Transaction.ID())

		// The loser must not append a creation event
		events, err := evStore.FindAll(ctx)
		require.NoError(t, err)
		assert.Empty(t, events)
	})
}

// racingTransactionStore simulates a concurrent creator that commits the same
// idempotency key between this caller's lookup and insert.
type racingTransactionStore struct {
	*inmem.TransactionStore
	winner   *transaction.Transaction
	inserted bool
}

func (s *racingTransactionStore) FindByIdempotencyKey(ctx context.Context, key string) (*transaction.Transaction, error) {
	if !s.inserted {
		return nil, infra.WrapRepoErr(infra.KindNotFound, "transaction not found for idempotency key", nil)
	}
	return s.TransactionStore.FindByIdempotencyKey(ctx, key)
}

func (s *racingTransactionStore) Save(ctx context.Context, tx *transaction.Transaction) error {
	if !s.inserted {
		s.inserted = true
		if err := s.TransactionStore.Save(ctx, s.winner); err != nil {
			return err
		}
		return infra.WrapRepoErr(infra.KindDuplicateKey, "transaction already exists for idempotency key", nil)
	}
	return s.TransactionStore.Save(ctx, tx)
}
