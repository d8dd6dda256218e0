package queries

import (
	"context"

	"github.com/google/uuid"

	"checkout-service/internal/domain/event"
	"checkout-service/internal/domain/inventory"
	"checkout-service/internal/domain/transaction"
)

// Read-side ports. The postgres repositories satisfy both these and the
// write-side ports; the split keeps queries from reaching for mutation
// methods.

type TransactionReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*transaction.Transaction, error)
	FindAll(ctx context.Context) ([]*transaction.Transaction, error)
}

type InventoryReadStore interface {
	FindAll(ctx context.Context) ([]inventory.Record, error)
}

type EventReadStore interface {
	FindByAggregateID(ctx context.Context, aggregateID string) ([]event.Event, error)
	FindAll(ctx context.Context) ([]event.Event, error)
}
