package inventory

import (
	"errors"
	"time"
)

var (
	ErrInsufficientInventory = errors.New("insufficient inventory")
	ErrInvalidRelease        = errors.New("cannot release more than reserved")
	ErrNonPositiveQuantity   = errors.New("quantity must be positive")
)

// Record is the per-product stock ledger entry. Invariant after every
// operation: 0 <= ReservedQuantity <= Quantity.
//
// The production store evaluates the same preconditions as conditional SQL
// updates; the methods here carry the reference semantics and back the
// in-memory store.
type Record struct {
	ProductID        string    `json:"productId"`
	Quantity         int64     `json:"quantity"`
	ReservedQuantity int64     `json:"reservedQuantity"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// AvailableQuantity is stock neither sold nor held against a pending
// transaction.
func (r Record) AvailableQuantity() int64 {
	return r.Quantity - r.ReservedQuantity
}

// Reserve holds qty units against a pending transaction.
func (r Record) Reserve(qty int64, now time.Time) (Record, error) {
	if qty <= 0 {
		return r, ErrNonPositiveQuantity
	}
	if r.AvailableQuantity() < qty {
		return r, ErrInsufficientInventory
	}
	r.ReservedQuantity += qty
	r.UpdatedAt = now
	return r, nil
}

// Release returns qty previously reserved units to the available pool.
func (r Record) Release(qty int64, now time.Time) (Record, error) {
	if qty <= 0 {
		return r, ErrNonPositiveQuantity
	}
	if r.ReservedQuantity < qty {
		return r, ErrInvalidRelease
	}
	r.ReservedQuantity -= qty
	r.UpdatedAt = now
	return r, nil
}

// Decrement consumes qty units of stock on an approved payment. When the
// units were reserved first (the saga path) both fields drop together;
// otherwise only Quantity drops (direct sale without reservation).
func (r Record) Decrement(qty int64, now time.Time) (Record, error) {
	if qty <= 0 {
		return r, ErrNonPositiveQuantity
	}
	if r.Quantity < qty {
		return r, ErrInsufficientInventory
	}
	r.Quantity -= qty
	if r.ReservedQuantity >= qty {
		r.ReservedQuantity -= qty
	}
	r.UpdatedAt = now
	return r, nil
}

// Increment restocks unconditionally.
func (r Record) Increment(qty int64, now time.Time) (Record, error) {
	if qty <= 0 {
		return r, ErrNonPositiveQuantity
	}
	r.Quantity += qty
	r.UpdatedAt = now
	return r, nil
}
