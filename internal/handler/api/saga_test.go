//go:build unit

package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"checkout-service/internal/domain/inventory"
	"checkout-service/internal/domain/transaction"
	"checkout-service/internal/handler/api"
	"checkout-service/internal/infra/inmem"
	"checkout-service/internal/pkg/clock"
	"checkout-service/internal/usecase/commands"
	gatewaymock "checkout-service/tests/mock/gateway"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type sagaTestEnv struct {
	engine   *gin.Engine
	txStore  *inmem.TransactionStore
	invStore *inmem.InventoryStore
	gateway  *gatewaymock.MockPaymentGateway
	clock    *clock.MockClock
}

func newSagaTestEnv(t *testing.T) *sagaTestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctrl := gomock.NewController(t)

	env := &sagaTestEnv{
		txStore:  inmem.NewTransactionStore(),
		invStore: inmem.NewInventoryStore(),
		gateway:  gatewaymock.NewMockPaymentGateway(ctrl),
		clock:    clock.NewMockClock(time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)),
	}

	saga := commands.NewSagaCommands(
		env.txStore, env.invStore, inmem.NewEventStore(), env.gateway,
		inmem.NewNotificationRecorder(), env.clock,
		slog.New(slog.NewTextHandler(io.Discard, nil)))

	handler := api.NewSagaHandler(saga)
	env.engine = gin.New()
	sagaGroup := env.engine.Group("/api/saga")
	sagaGroup.POST("/validate", handler.Validate)
	sagaGroup.POST("/process-payment", handler.ProcessPayment)
	sagaGroup.POST("/update-inventory", handler.UpdateInventory)
	sagaGroup.POST("/compensate", handler.Compensate)
	return env
}

func (env *sagaTestEnv) seedTransaction(t *testing.T) *transaction.Transaction {
	t.Helper()
	tx, err := transaction.NewTransaction(transaction.NewTransactionParams{
		ProductID:      "prod-001",
		Amount:         50000,
		Commission:     1500,
		ShippingCost:   3500,
		IdempotencyKey: "key-1",
	}, env.clock.Now())
	require.NoError(t, err)
	require.NoError(t, env.txStore.Save(context.Background(), tx))
	return tx
}

func (env *sagaTestEnv) post(t *testing.T, path string, body map[string]any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	env.engine.ServeHTTP(rec, req)

	var payload map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	}
	return rec, payload
}

func TestSagaHandler_PayloadMerge(t *testing.T) {
	t.Run("validate echoes accumulated fields and adds its output", func(t *testing.T) {
		env := newSagaTestEnv(t)
		tx := env.seedTransaction(t)

		rec, payload := env.post(t, "/api/saga/validate", map[string]any{
			"transactionId": tx.ID().String(),
			"correlationId": "saga-run-42",
			"attempt":       float64(3),
		})

		require.Equal(t, http.StatusOK, rec.Code)
		// Fields from earlier steps survive untouched
		assert.Equal(t, "saga-run-42", payload["correlationId"])
		assert.Equal(t, float64(3), payload["attempt"])
		// Step output is merged in
		assert.Equal(t, true, payload["isValid"])
		assert.Equal(t, "prod-001", payload["productId"])
		assert.NotNil(t, payload["transaction"])
	})

	t.Run("process payment merges gateway outcome", func(t *testing.T) {
		env := newSagaTestEnv(t)
		tx := env.seedTransaction(t)

		env.gateway.EXPECT().
			CreatePayment(gomock.Any(), gomock.Any()).
			Return(commands.PaymentResult{ID: "gw-1", Status: commands.GatewayStatusApproved}, nil)

		rec, payload := env.post(t, "/api/saga/process-payment", map[string]any{
			"transactionId": tx.ID().String(),
			"paymentToken":  "tok_test_1",
			"installments":  float64(1),
			"isValid":       true,
		})

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "APPROVED", payload["status"])
		assert.Equal(t, "gw-1", payload["gatewayTransactionId"])
		assert.Equal(t, true, payload["isValid"])
	})

	t.Run("update inventory merges the new quantity", func(t *testing.T) {
		env := newSagaTestEnv(t)
		tx := env.seedTransaction(t)
		env.invStore.Put(inventory.Record{ProductID: "prod-001", Quantity: 10, ReservedQuantity: 1})

		rec, payload := env.post(t, "/api/saga/update-inventory", map[string]any{
			"transactionId": tx.ID().String(),
			"productId":     "prod-001",
			"status":        "APPROVED",
		})

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, true, payload["inventoryUpdated"])
		assert.Equal(t, float64(9), payload["newQuantity"])
	})

	t.Run("compensate merges the compensation flag", func(t *testing.T) {
		env := newSagaTestEnv(t)
		tx := env.seedTransaction(t)
		env.invStore.Put(inventory.Record{ProductID: "prod-001", Quantity: 10, ReservedQuantity: 1})

		rec, payload := env.post(t, "/api/saga/compensate", map[string]any{
			"transactionId": tx.ID().String(),
		})

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, true, payload["compensated"])
	})
}

func TestSagaHandler_Errors(t *testing.T) {
	t.Run("unknown transaction maps to 404", func(t *testing.T) {
		env := newSagaTestEnv(t)

		rec, _ := env.post(t, "/api/saga/validate", map[string]any{
			"transactionId": "4f9e2a9d-9a37-4fd5-8a14-1f5c9b1b2c3d",
		})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("settled transaction maps to 409", func(t *testing.T) {
		env := newSagaTestEnv(t)
		tx := env.seedTransaction(t)
		require.NoError(t, env.txStore.Update(context.Background(), tx.Approve("gw-1", env.clock.Now())))

		rec, _ := env.post(t, "/api/saga/validate", map[string]any{
			"transactionId": tx.ID().String(),
		})
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("malformed transaction id maps to 400", func(t *testing.T) {
		env := newSagaTestEnv(t)

		rec, _ := env.post(t, "/api/saga/validate", map[string]any{
			"transactionId": "not-a-uuid",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
