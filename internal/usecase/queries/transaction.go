package queries

import (
	"context"

	"github.com/google/uuid"

	"checkout-service/internal/domain/transaction"
	"checkout-service/internal/infra"
	"checkout-service/internal/pkg/errs"
)

type TransactionQueries interface {
	GetTransaction(ctx context.Context, id uuid.UUID) (*transaction.Transaction, error)
	GetAllTransactions(ctx context.Context) ([]*transaction.Transaction, error)
}

type transactionQueriesImpl struct {
	store TransactionReadStore
}

func NewTransactionQueries(store TransactionReadStore) TransactionQueries {
	return &transactionQueriesImpl{store: store}
}

func (q *transactionQueriesImpl) GetTransaction(ctx context.Context, id uuid.UUID) (*transaction.Transaction, error) {
	tx, err := q.store.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrTransactionNotFound)
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return tx, nil
}

func (q *transactionQueriesImpl) GetAllTransactions(ctx context.Context) ([]*transaction.Transaction, error) {
	txs, err := q.store.FindAll(ctx)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return txs, nil
}
