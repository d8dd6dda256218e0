package repository

import (
	"context"
	"errors"

	"checkout-service/internal/domain/inventory"
	"checkout-service/internal/infra"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// InventoryRepository implements the four ledger operations as single
// conditional UPDATE statements. The WHERE clause is the compare-and-swap:
// concurrent callers race at the store and the condition is re-evaluated
// against the committed row, never against a stale prior read.
type InventoryRepository struct {
	db *pgxpool.Pool
}

func NewInventoryRepository(db *pgxpool.Pool) *InventoryRepository {
	return &InventoryRepository{db: db}
}

func (r *InventoryRepository) FindByProductID(ctx context.Context, productID string) (inventory.Record, error) {
	row := r.db.QueryRow(ctx,
		`select product_id, quantity, reserved_quantity, updated_at
		 from inventory where product_id = $1`, productID)

	var rec inventory.Record
	err := row.Scan(&rec.ProductID, &rec.Quantity, &rec.ReservedQuantity, &rec.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return inventory.Record{}, infra.WrapRepoErr(infra.KindNotFound, "inventory record not found", err)
		}
		return inventory.Record{}, infra.WrapRepoErr(infra.KindDBFailure, "failed to find inventory record", err)
	}
	return rec, nil
}

func (r *InventoryRepository) Reserve(ctx context.Context, productID string, qty int64) (inventory.Record, error) {
	return r.conditionalUpdate(ctx, productID,
		`update inventory
		 set reserved_quantity = reserved_quantity + $2, updated_at = now()
		 where product_id = $1 and quantity - reserved_quantity >= $2
		 returning product_id, quantity, reserved_quantity, updated_at`,
		qty, "failed to reserve inventory")
}

func (r *InventoryRepository) Release(ctx context.Context, productID string, qty int64) (inventory.Record, error) {
	return r.conditionalUpdate(ctx, productID,
		`update inventory
		 set reserved_quantity = reserved_quantity - $2, updated_at = now()
		 where product_id = $1 and reserved_quantity >= $2
		 returning product_id, quantity, reserved_quantity, updated_at`,
		qty, "failed to release inventory")
}

// Decrement consumes stock on an approved payment. The branch choice reads
// the current row without a lock; the conditional WHERE keeps the write
// correct even if the row moved between read and write.
func (r *InventoryRepository) Decrement(ctx context.Context, productID string, qty int64) (inventory.Record, error) {
	current, err := r.FindByProductID(ctx, productID)
	if err != nil {
		return inventory.Record{}, err
	}

	if current.ReservedQuantity >= qty {
		return r.conditionalUpdate(ctx, productID,
			`update inventory
			 set quantity = quantity - $2, reserved_quantity = reserved_quantity - $2, updated_at = now()
			 where product_id = $1 and quantity >= $2 and reserved_quantity >= $2
			 returning product_id, quantity, reserved_quantity, updated_at`,
			qty, "failed to decrement inventory")
	}

	// Direct-sale path: nothing was reserved for this purchase.
	return r.conditionalUpdate(ctx, productID,
		`update inventory
		 set quantity = quantity - $2, updated_at = now()
		 where product_id = $1 and quantity >= $2
		 returning product_id, quantity, reserved_quantity, updated_at`,
		qty, "failed to decrement inventory")
}

// Increment restocks unconditionally; the only way it fails is a missing row.
func (r *InventoryRepository) Increment(ctx context.Context, productID string, qty int64) (inventory.Record, error) {
	return r.conditionalUpdate(ctx, productID,
		`update inventory
		 set quantity = quantity + $2, updated_at = now()
		 where product_id = $1
		 returning product_id, quantity, reserved_quantity, updated_at`,
		qty, "failed to increment inventory")
}

func (r *InventoryRepository) FindAll(ctx context.Context) ([]inventory.Record, error) {
	rows, err := r.db.Query(ctx,
		`select product_id, quantity, reserved_quantity, updated_at
		 from inventory order by product_id`)
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to list inventory", err)
	}
	defer rows.Close()

	var result []inventory.Record
	for rows.Next() {
		var rec inventory.Record
		if err := rows.Scan(&rec.ProductID, &rec.Quantity, &rec.ReservedQuantity, &rec.UpdatedAt); err != nil {
			return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to scan inventory row", err)
		}
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to iterate inventory", err)
	}
	return result, nil
}

// conditionalUpdate runs one CAS-style update. Zero rows back means either
// the row is missing or the condition did not hold at write time; the
// follow-up read tells the two apart.
func (r *InventoryRepository) conditionalUpdate(ctx context.Context, productID, query string, qty int64, msg string) (inventory.Record, error) {
	row := r.db.QueryRow(ctx, query, productID, qty)

	var rec inventory.Record
	err := row.Scan(&rec.ProductID, &rec.Quantity, &rec.ReservedQuantity, &rec.UpdatedAt)
	if err == nil {
		return rec, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return inventory.Record{}, infra.WrapRepoErr(infra.KindDBFailure, msg, err)
	}

	if _, findErr := r.FindByProductID(ctx, productID); findErr != nil {
		return inventory.Record{}, findErr
	}
	return inventory.Record{}, infra.WrapRepoErr(infra.KindConditionFailed, msg+": condition not met at write time", nil)
}
