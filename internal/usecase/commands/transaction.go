package commands

import (
	"context"
	"log/slog"

	"checkout-service/internal/domain/event"
	"checkout-service/internal/domain/transaction"
	"checkout-service/internal/infra"
	"checkout-service/internal/pkg/clock"
	"checkout-service/internal/pkg/errs"
)

type CreateTransactionParams struct {
	ProductID       string
	Amount          int64
	Commission      int64
	ShippingCost    int64
	CustomerEmail   string
	CustomerName    string
	DeliveryAddress string
	DeliveryCity    string
	DeliveryPhone   string
	IdempotencyKey  string
}

type CreateTransactionResult struct {
	Transaction *transaction.Transaction
	Replayed    bool
}

type TransactionCommands interface {
	CreateTransaction(ctx context.Context, params CreateTransactionParams) (*CreateTransactionResult, error)
}

type transactionCommandsImpl struct {
	transactionRepo TransactionRepository
	eventStore      EventStore
	clock           clock.Clock
	logger          *slog.Logger
}

func NewTransactionCommands(
	transactionRepo TransactionRepository,
	eventStore EventStore,
	clock clock.Clock,
	logger *slog.Logger,
) TransactionCommands {
	return &transactionCommandsImpl{
		transactionRepo: transactionRepo,
		eventStore:      eventStore,
		clock:           clock,
		logger:          logger,
	}
}

// CreateTransaction is the idempotency guard: the same key always maps to the
// same transaction, so creation is safe to retry. The lookup handles
// sequential retries; the store's unique constraint on the key backstops the
// concurrent case, where the losing insert re-reads the winner.
func (c *transactionCommandsImpl) CreateTransaction(
	ctx context.Context,
	params CreateTransactionParams,
) (*CreateTransactionResult, error) {
	existing, err := c.transactionRepo.FindByIdempotencyKey(ctx, params.IdempotencyKey)
	if err == nil {
		c.logger.Debug("transaction already exists for idempotency key",
			"idempotency_key", params.IdempotencyKey, "transaction_id", existing.ID())
		return &CreateTransactionResult{Transaction: existing, Replayed: true}, nil
	}
	if !infra.IsKind(err, infra.KindNotFound) {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	tx, err := transaction.NewTransaction(transaction.NewTransactionParams{
		ProductID:       params.ProductID,
		Amount:          params.Amount,
		Commission:      params.Commission,
		ShippingCost:    params.ShippingCost,
		CustomerEmail:   params.CustomerEmail,
		CustomerName:    params.CustomerName,
		DeliveryAddress: params.DeliveryAddress,
		DeliveryCity:    params.DeliveryCity,
		DeliveryPhone:   params.DeliveryPhone,
		IdempotencyKey:  params.IdempotencyKey,
	}, c.clock.Now())
	if err != nil {
		return nil, err
	}

	if err := c.transactionRepo.Save(ctx, tx); err != nil {
		if infra.IsKind(err, infra.KindDuplicateKey) {
			winner, findErr := c.transactionRepo.FindByIdempotencyKey(ctx, params.IdempotencyKey)
			if findErr != nil {
				return nil, errs.Mark(findErr, errs.ErrDatabaseOperationFailed)
			}
			return &CreateTransactionResult{Transaction: winner, Replayed: true}, nil
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	ev, err := event.New(tx.ID().String(), event.TypeTransactionCreated, tx.Snapshot(), c.clock.Now())
	if err != nil {
		return nil, errs.Wrap(err, "failed to build TransactionCreated event")
	}
	if err := c.eventStore.Append(ctx, ev); err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	c.logger.Debug("transaction created",
		"transaction_id", tx.ID(), "total_amount", tx.TotalAmount())

	return &CreateTransactionResult{Transaction: tx, Replayed: false}, nil
}
