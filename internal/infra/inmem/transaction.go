package inmem

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"checkout-service/internal/domain/transaction"
	"checkout-service/internal/infra"
)

// TransactionStore is the in-memory counterpart of the postgres repository.
// It returns the same error kinds, including the duplicate-key guard on the
// idempotency key, so usecase behavior is identical against either store.
type TransactionStore struct {
	mu    sync.RWMutex
	byID  map[uuid.UUID]*transaction.Transaction
	byKey map[string]uuid.UUID
}

func NewTransactionStore() *TransactionStore {
	return &TransactionStore{
		byID:  make(map[uuid.UUID]*transaction.Transaction),
		byKey: make(map[string]uuid.UUID),
	}
}

func (s *TransactionStore) Save(_ context.Context, tx *transaction.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byKey[tx.IdempotencyKey()]; ok {
		return infra.WrapRepoErr(infra.KindDuplicateKey, "transaction already exists for idempotency key", nil)
	}
	s.byID[tx.ID()] = tx
	s.byKey[tx.IdempotencyKey()] = tx.ID()
	return nil
}

func (s *TransactionStore) Update(_ context.Context, tx *transaction.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[tx.ID()]; !ok {
		return infra.WrapRepoErr(infra.KindNotFound, "transaction not found", nil)
	}
	s.byID[tx.ID()] = tx
	return nil
}

func (s *TransactionStore) FindByID(_ context.Context, id uuid.UUID) (*transaction.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tx, ok := s.byID[id]
	if !ok {
		return nil, infra.WrapRepoErr(infra.KindNotFound, "transaction not found", nil)
	}
	return tx, nil
}

func (s *TransactionStore) FindByIdempotencyKey(_ context.Context, key string) (*transaction.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byKey[key]
	if !ok {
		return nil, infra.WrapRepoErr(infra.KindNotFound, "transaction not found for idempotency key", nil)
	}
	return s.byID[id], nil
}

func (s *TransactionStore) FindAll(_ context.Context) ([]*transaction.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*transaction.Transaction, 0, len(s.byID))
	for _, tx := range s.byID {
		result = append(result, tx)
	}
	return result, nil
}
