package repository

import (
	"context"
	"errors"
	"time"

	"checkout-service/internal/domain/transaction"
	"checkout-service/internal/infra"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const pgUniqueViolation = "23505"

type TransactionRepository struct {
	db *pgxpool.Pool
}

func NewTransactionRepository(db *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// Save inserts the initial revision. The unique constraint on idempotency_key
// is the store-level guard against the concurrent-creation race: the loser of
// the race gets KindDuplicateKey and re-reads the winner.
func (r *TransactionRepository) Save(ctx context.Context, tx *transaction.Transaction) error {
	_, err := r.db.Exec(ctx, `
		insert into transactions (
			id, product_id, amount, commission, shipping_cost, total_amount, status,
			customer_email, customer_name, delivery_address, delivery_city, delivery_phone,
			idempotency_key, gateway_transaction_id, error_message, created_at, updated_at
		) values ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)`,
		tx.ID(), tx.ProductID(), tx.Amount(), tx.Commission(), tx.ShippingCost(),
		tx.TotalAmount(), tx.Status().String(),
		tx.CustomerEmail(), tx.CustomerName(), tx.DeliveryAddress(), tx.DeliveryCity(),
		tx.DeliveryPhone(), tx.IdempotencyKey(), tx.GatewayTransactionID(), tx.ErrorMessage(),
		tx.CreatedAt(), tx.UpdatedAt(),
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return infra.WrapRepoErr(infra.KindDuplicateKey, "transaction already exists for idempotency key", err)
		}
		return infra.WrapRepoErr(infra.KindDBFailure, "failed to save transaction", err)
	}
	return nil
}

// Update writes a new revision produced by a transition. Only the fields a
// transition can change are written.
func (r *TransactionRepository) Update(ctx context.Context, tx *transaction.Transaction) error {
	tag, err := r.db.Exec(ctx, `
		update transactions
		set status = $2, gateway_transaction_id = $3, error_message = $4, updated_at = $5
		where id = $1`,
		tx.ID(), tx.Status().String(), tx.GatewayTransactionID(), tx.ErrorMessage(), tx.UpdatedAt(),
	)
	if err != nil {
		return infra.WrapRepoErr(infra.KindDBFailure, "failed to update transaction", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr(infra.KindNotFound, "transaction not found", nil)
	}
	return nil
}

func (r *TransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*transaction.Transaction, error) {
	row := r.db.QueryRow(ctx, selectTransaction+` where id = $1`, id)
	tx, err := scanTransaction(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr(infra.KindNotFound, "transaction not found", err)
		}
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to find transaction by id", err)
	}
	return tx, nil
}

func (r *TransactionRepository) FindByIdempotencyKey(ctx context.Context, key string) (*transaction.Transaction, error) {
	row := r.db.QueryRow(ctx, selectTransaction+` where idempotency_key = $1`, key)
	tx, err := scanTransaction(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr(infra.KindNotFound, "transaction not found for idempotency key", err)
		}
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to find transaction by idempotency key", err)
	}
	return tx, nil
}

func (r *TransactionRepository) FindAll(ctx context.Context) ([]*transaction.Transaction, error) {
	rows, err := r.db.Query(ctx, selectTransaction+` order by created_at desc`)
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to list transactions", err)
	}
	defer rows.Close()

	var result []*transaction.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to scan transaction row", err)
		}
		result = append(result, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to iterate transactions", err)
	}
	return result, nil
}

const selectTransaction = `
	select id, product_id, amount, commission, shipping_cost, total_amount, status,
	       customer_email, customer_name, delivery_address, delivery_city, delivery_phone,
	       idempotency_key, gateway_transaction_id, error_message, created_at, updated_at
	from transactions`

func scanTransaction(row pgx.Row) (*transaction.Transaction, error) {
	var (
		id                               uuid.UUID
		productID                        string
		amount, commission               int64
		shippingCost, totalAmount        int64
		status                           string
		customerEmail, customerName      string
		deliveryAddress, deliveryCity    string
		deliveryPhone, idempotencyKey    string
		gatewayTransactionID, errMessage *string
		createdAt, updatedAt             time.Time
	)
	err := row.Scan(
		&id, &productID, &amount, &commission, &shippingCost, &totalAmount, &status,
		&customerEmail, &customerName, &deliveryAddress, &deliveryCity, &deliveryPhone,
		&idempotencyKey, &gatewayTransactionID, &errMessage, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}
	return transaction.Reconstruct(
		id, productID, amount, commission, shippingCost, totalAmount,
		transaction.Status(status),
		customerEmail, customerName, deliveryAddress, deliveryCity, deliveryPhone,
		idempotencyKey, gatewayTransactionID, errMessage, createdAt, updatedAt,
	), nil
}
