//go:build unit

package transaction_test

import (
	"testing"
	"time"

	"checkout-service/internal/domain/transaction"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validParams() transaction.NewTransactionParams {
	return transaction.NewTransactionParams{
		ProductID:       "prod-001",
		Amount:          50000,
		Commission:      1500,
		ShippingCost:    3500,
		CustomerEmail:   "buyer@example.com",
		CustomerName:    "Jane Buyer",
		DeliveryAddress: "Calle 100 #1-23",
		DeliveryCity:    "Bogota",
		DeliveryPhone:   "3001234567",
		IdempotencyKey:  "key-abc",
	}
}

func TestNewTransaction(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	t.Run("computes total from amount, commission and shipping", func(t *testing.T) {
		tx, err := transaction.NewTransaction(validParams(), now)
		require.NoError(t, err)

		assert.Equal(t, int64(55000), tx.TotalAmount())
		assert.Equal(t, transaction.StatusPending, tx.Status())
		assert.Equal(t, now, tx.CreatedAt())
		assert.Equal(t, now, tx.UpdatedAt())
		assert.Nil(t, tx.GatewayTransactionID())
		assert.Nil(t, tx.ErrorMessage())
		assert.NotEqual(t, tx.ID().String(), "")
	})

	t.Run("zero amounts are allowed", func(t *testing.T) {
		p := validParams()
		p.Amount = 0
		p.Commission = 0
		p.ShippingCost = 0

		tx, err := transaction.NewTransaction(p, now)
		require.NoError(t, err)
		assert.Equal(t, int64(0), tx.TotalAmount())
	})

	testCases := []struct {
		name        string
		mutate      func(*transaction.NewTransactionParams)
		expectedErr error
	}{
		{
			name:        "empty product id",
			mutate:      func(p *transaction.NewTransactionParams) { p.ProductID = "" },
			expectedErr: transaction.ErrEmptyProductID,
		},
		{
			name:        "empty idempotency key",
			mutate:      func(p *transaction.NewTransactionParams) { p.IdempotencyKey = "" },
			expectedErr: transaction.ErrEmptyIdempotencyKey,
		},
		{
			name:        "negative amount",
			mutate:      func(p *transaction.NewTransactionParams) { p.Amount = -1 },
			expectedErr: transaction.ErrNegativeAmount,
		},
		{
			name:        "negative commission",
			mutate:      func(p *transaction.NewTransactionParams) { p.Commission = -1 },
			expectedErr: transaction.ErrNegativeAmount,
		},
		{
			name:        "negative shipping cost",
			mutate:      func(p *transaction.NewTransactionParams) { p.ShippingCost = -1 },
			expectedErr: transaction.ErrNegativeAmount,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p := validParams()
			tc.mutate(&p)

			_, err := transaction.NewTransaction(p, now)
			assert.ErrorIs(t, err, tc.expectedErr)
		})
	}
}

func TestTransaction_Transitions(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	later := now.Add(5 * time.Second)

	newTx := func(t *testing.T) *transaction.Transaction {
		t.Helper()
		tx, err := transaction.NewTransaction(validParams(), now)
		require.NoError(t, err)
		return tx
	}

	t.Run("approve carries the gateway transaction id", func(t *testing.T) {
		tx := newTx(t)
		approved := tx.Approve("gw-123", later)

		assert.Equal(t, transaction.StatusApproved, approved.Status())
		require.NotNil(t, approved.GatewayTransactionID())
		assert.Equal(t, "gw-123", *approved.GatewayTransactionID())
		assert.Equal(t, later, approved.UpdatedAt())

		// Prior revision untouched
		assert.Equal(t, transaction.StatusPending, tx.Status())
		assert.Nil(t, tx.GatewayTransactionID())
	})

	t.Run("decline records the reason", func(t *testing.T) {
		tx := newTx(t)
		declined := tx.Decline("Card declined by issuer", later)

		assert.Equal(t, transaction.StatusDeclined, declined.Status())
		require.NotNil(t, declined.ErrorMessage())
		assert.Equal(t, "Card declined by issuer", *declined.ErrorMessage())
	})

	t.Run("cancel flips only the status", func(t *testing.T) {
		tx := newTx(t)
		cancelled := tx.Cancel(later)

		assert.Equal(t, transaction.StatusCancelled, cancelled.Status())
		assert.Nil(t, cancelled.ErrorMessage())
	})

	t.Run("set gateway id keeps the transaction pending", func(t *testing.T) {
		tx := newTx(t)
		next := tx.SetGatewayTransactionID("gw-456", later)

		assert.Equal(t, transaction.StatusPending, next.Status())
		require.NotNil(t, next.GatewayTransactionID())
		assert.Equal(t, "gw-456", *next.GatewayTransactionID())
	})

	t.Run("updated at is strictly greater even with a stalled clock", func(t *testing.T) {
		tx := newTx(t)
		first := tx.Approve("gw-1", now)
		assert.True(t, first.UpdatedAt().After(tx.UpdatedAt()))

		second := first.Cancel(now)
		assert.True(t, second.UpdatedAt().After(first.UpdatedAt()))
	})

	t.Run("total is never recomputed by a transition", func(t *testing.T) {
		tx := newTx(t)
		approved := tx.Approve("gw-1", later)
		assert.Equal(t, tx.TotalAmount(), approved.TotalAmount())
	})

	t.Run("transitions change only status fields and updated at", func(t *testing.T) {
		tx := newTx(t)
		gwID := "gw-1"

		before := tx.Snapshot()
		after := tx.Approve(gwID, later).Snapshot()

		expected := before
		expected.Status = transaction.StatusApproved
		expected.GatewayTransactionID = &gwID
		expected.UpdatedAt = later

		if diff := cmp.Diff(expected, after); diff != "" {
			t.Errorf("snapshot mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestStatus_IsTerminal(t *testing.T) {
	assert.False(t, transaction.StatusPending.IsTerminal())
	assert.True(t, transaction.StatusApproved.IsTerminal())
	assert.True(t, transaction.StatusDeclined.IsTerminal())
	assert.True(t, transaction.StatusCancelled.IsTerminal())
}
