package inmem

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"checkout-service/internal/domain/inventory"
	"checkout-service/internal/infra"
)

// InventoryStore holds the stock ledger in memory. The mutex plays the role
// the conditional UPDATE plays in postgres: each operation checks its
// precondition and applies the write as one atomic unit, so concurrent
// callers can never over-reserve or over-sell.
type InventoryStore struct {
	mu      sync.Mutex
	records map[string]inventory.Record
	now     func() time.Time
}

func NewInventoryStore() *InventoryStore {
	return &InventoryStore{
		records: make(map[string]inventory.Record),
		now:     time.Now,
	}
}

// Put seeds or replaces a record. Test setup helper.
func (s *InventoryStore) Put(rec inventory.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[rec.ProductID] = rec
}

func (s *InventoryStore) FindByProductID(_ context.Context, productID string) (inventory.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.get(productID)
}

func (s *InventoryStore) Reserve(_ context.Context, productID string, qty int64) (inventory.Record, error) {
	return s.apply(productID, "failed to reserve inventory", func(rec inventory.Record) (inventory.Record, error) {
		return rec.Reserve(qty, s.now())
	})
}

func (s *InventoryStore) Release(_ context.Context, productID string, qty int64) (inventory.Record, error) {
	return s.apply(productID, "failed to release inventory", func(rec inventory.Record) (inventory.Record, error) {
		return rec.Release(qty, s.now())
	})
}

func (s *InventoryStore) Decrement(_ context.Context, productID string, qty int64) (inventory.Record, error) {
	return s.apply(productID, "failed to decrement inventory", func(rec inventory.Record) (inventory.Record, error) {
		return rec.Decrement(qty, s.now())
	})
}

func (s *InventoryStore) Increment(_ context.Context, productID string, qty int64) (inventory.Record, error) {
	return s.apply(productID, "failed to increment inventory", func(rec inventory.Record) (inventory.Record, error) {
		return rec.Increment(qty, s.now())
	})
}

func (s *InventoryStore) FindAll(_ context.Context) ([]inventory.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]inventory.Record, 0, len(s.records))
	for _, rec := range s.records {
		result = append(result, rec)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ProductID < result[j].ProductID })
	return result, nil
}

func (s *InventoryStore) apply(productID, msg string, op func(inventory.Record) (inventory.Record, error)) (inventory.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.get(productID)
	if err != nil {
		return inventory.Record{}, err
	}
	next, err := op(rec)
	if err != nil {
		if errors.Is(err, inventory.ErrInsufficientInventory) ||
			errors.Is(err, inventory.ErrInvalidRelease) ||
			errors.Is(err, inventory.ErrNonPositiveQuantity) {
			return inventory.Record{}, infra.WrapRepoErr(infra.KindConditionFailed, msg+": condition not met at write time", err)
		}
		return inventory.Record{}, infra.WrapRepoErr(infra.KindDBFailure, msg, err)
	}
	s.records[productID] = next
	return next, nil
}

func (s *InventoryStore) get(productID string) (inventory.Record, error) {
	rec, ok := s.records[productID]
	if !ok {
		return inventory.Record{}, infra.WrapRepoErr(infra.KindNotFound, "inventory record not found", nil)
	}
	return rec, nil
}
