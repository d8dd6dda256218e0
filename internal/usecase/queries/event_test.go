//go:build unit

package queries_test

import (
	"context"
	"testing"
	"time"

	"checkout-service/internal/domain/event"
	"checkout-service/internal/infra/inmem"
	"checkout-service/internal/usecase/queries"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventQueries_GetEvents(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	store := inmem.NewEventStore()
	q := queries.NewEventQueries(store)

	// Appended deliberately out of order
	appendEvent := func(aggregateID, eventType string, at time.Time) {
		ev, err := event.New(aggregateID, eventType, map[string]string{"k": "v"}, at)
		require.NoError(t, err)
		require.NoError(t, store.Append(ctx, ev))
	}
	appendEvent("tx-1", event.TypePaymentProcessed, base.Add(2*time.Second))
	appendEvent("tx-2", event.TypeTransactionCreated, base.Add(1*time.Second))
	appendEvent("tx-1", event.TypeTransactionCreated, base)
	appendEvent("tx-1", event.TypeInventoryUpdated, base.Add(3*time.Second))

	t.Run("aggregate trail is ordered by event timestamp", func(t *testing.T) {
		events, err := q.GetEvents(ctx, "tx-1")
		require.NoError(t, err)

		require.Len(t, events, 3)
		types := []string{events[0].EventType, events[1].EventType, events[2].EventType}
		assert.Equal(t, []string{
			event.TypeTransactionCreated,
			event.TypePaymentProcessed,
			event.TypeInventoryUpdated,
		}, types)
		assert.True(t, events[0].EventTimestamp <= events[1].EventTimestamp)
		assert.True(t, events[1].EventTimestamp <= events[2].EventTimestamp)
	})

	t.Run("empty aggregate id returns the whole trail ordered", func(t *testing.T) {
		events, err := q.GetEvents(ctx, "")
		require.NoError(t, err)

		require.Len(t, events, 4)
		for i := 1; i < len(events); i++ {
			assert.True(t, events[i-1].EventTimestamp <= events[i].EventTimestamp)
		}
	})

	t.Run("unknown aggregate yields an empty trail", func(t *testing.T) {
		events, err := q.GetEvents(ctx, "tx-404")
		require.NoError(t, err)
		assert.Empty(t, events)
	})
}
