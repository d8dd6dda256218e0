package queries

import (
	"context"

	"checkout-service/internal/domain/inventory"
	"checkout-service/internal/pkg/errs"
)

type InventoryQueries interface {
	GetAllInventory(ctx context.Context) ([]inventory.Record, error)
}

type inventoryQueriesImpl struct {
	store InventoryReadStore
}

func NewInventoryQueries(store InventoryReadStore) InventoryQueries {
	return &inventoryQueriesImpl{store: store}
}

func (q *inventoryQueriesImpl) GetAllInventory(ctx context.Context) ([]inventory.Record, error) {
	records, err := q.store.FindAll(ctx)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return records, nil
}
