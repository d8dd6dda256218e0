package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"checkout-service/internal/domain/event"
	"checkout-service/internal/domain/inventory"
	"checkout-service/internal/domain/transaction"
	"checkout-service/internal/infra"
	"checkout-service/internal/pkg/clock"
	"checkout-service/internal/pkg/errs"
)

// Each saga transaction moves exactly one unit of stock.
const sagaQuantity = 1

const gatewayCurrency = "COP"

type ValidateInput struct {
	TransactionID uuid.UUID
	ProductID     string
}

type ValidateOutput struct {
	Transaction transaction.Snapshot
	ProductID   string
	IsValid     bool
}

type ProcessPaymentInput struct {
	TransactionID uuid.UUID
	// PaymentToken, or Card to be tokenized first. Token wins when both are set.
	PaymentToken string
	Card         *CardData
	Installments int
}

type ProcessPaymentOutput struct {
	Status               transaction.Status
	GatewayTransactionID string
	ProductID            string
}

type CheckPaymentStatusInput struct {
	TransactionID uuid.UUID
}

type CheckPaymentStatusOutput struct {
	Status               transaction.Status
	GatewayTransactionID string
	ProductID            string
}

type UpdateInventoryInput struct {
	TransactionID uuid.UUID
	ProductID     string
	Status        transaction.Status
}

type UpdateInventoryOutput struct {
	InventoryUpdated bool
	NewQuantity      int64
}

type CompensateInput struct {
	TransactionID uuid.UUID
	ProductID     string
}

type CompensateOutput struct {
	Compensated bool
}

// SagaCommands are the four steps the external orchestrator drives. Every
// step is stateless: it loads what it needs, performs one forward (or
// compensating) action and persists the result. Retry and branching policy
// live in the orchestrator, never here.
type SagaCommands interface {
	Validate(ctx context.Context, input ValidateInput) (*ValidateOutput, error)
	ProcessPayment(ctx context.Context, input ProcessPaymentInput) (*ProcessPaymentOutput, error)
	CheckPaymentStatus(ctx context.Context, input CheckPaymentStatusInput) (*CheckPaymentStatusOutput, error)
	UpdateInventory(ctx context.Context, input UpdateInventoryInput) (*UpdateInventoryOutput, error)
	Compensate(ctx context.Context, input CompensateInput) (*CompensateOutput, error)
}

type sagaCommandsImpl struct {
	transactionRepo TransactionRepository
	inventoryRepo   InventoryRepository
	eventStore      EventStore
	gateway         PaymentGateway
	publisher       NotificationPublisher
	clock           clock.Clock
	logger          *slog.Logger
}

func NewSagaCommands(
	transactionRepo TransactionRepository,
	inventoryRepo InventoryRepository,
	eventStore EventStore,
	gateway PaymentGateway,
	publisher NotificationPublisher,
	clock clock.Clock,
	logger *slog.Logger,
) SagaCommands {
	return &sagaCommandsImpl{
		transactionRepo: transactionRepo,
		inventoryRepo:   inventoryRepo,
		eventStore:      eventStore,
		gateway:         gateway,
		publisher:       publisher,
		clock:           clock,
		logger:          logger,
	}
}

// Validate confirms the transaction exists and is still PENDING before the
// saga spends money on it. The product id falls back to the payload value
// when the stored transaction somehow carries none.
func (s *sagaCommandsImpl) Validate(ctx context.Context, input ValidateInput) (*ValidateOutput, error) {
	tx, err := s.loadTransaction(ctx, input.TransactionID)
	if err != nil {
		return nil, err
	}
	if tx.Status() != transaction.StatusPending {
		return nil, errs.Mark(
			errs.Newf("transaction %s is %s, expected PENDING", tx.ID(), tx.Status()),
			errs.ErrInvalidState)
	}

	productID := tx.ProductID()
	if productID == "" {
		productID = input.ProductID
	}

	return &ValidateOutput{
		Transaction: tx.Snapshot(),
		ProductID:   productID,
		IsValid:     true,
	}, nil
}

// ProcessPayment charges the full transaction amount through the gateway and
// records the outcome as a new revision. A gateway-side PENDING is not an
// error: the gateway id is persisted and the orchestrator polls. Only settled
// outcomes produce a PaymentProcessed event and a notification.
func (s *sagaCommandsImpl) ProcessPayment(ctx context.Context, input ProcessPaymentInput) (*ProcessPaymentOutput, error) {
	tx, err := s.loadTransaction(ctx, input.TransactionID)
	if err != nil {
		return nil, err
	}
	if tx.Status() != transaction.StatusPending {
		return nil, errs.Mark(
			errs.Newf("transaction %s is %s, expected PENDING", tx.ID(), tx.Status()),
			errs.ErrInvalidState)
	}

	installments := input.Installments
	if installments <= 0 {
		installments = 1
	}

	token := input.PaymentToken
	if token == "" && input.Card != nil {
		tokenized, err := s.gateway.TokenizeCard(ctx, *input.Card)
		if err != nil {
			return nil, errs.Mark(err, errs.ErrGateway)
		}
		token = tokenized.Token
	}

	result, err := s.gateway.CreatePayment(ctx, PaymentRequest{
		AmountInCents: tx.TotalAmount() * 100,
		Currency:      gatewayCurrency,
		CustomerEmail: tx.CustomerEmail(),
		PaymentMethod: PaymentMethod{
			Type:         "CARD",
			Installments: installments,
			Token:        token,
		},
		Reference: tx.ID().String(),
	})
	if err != nil {
		return nil, errs.Mark(err, errs.ErrGateway)
	}

	now := s.clock.Now()
	var next *transaction.Transaction
	switch result.Status {
	case GatewayStatusApproved:
		next = tx.Approve(result.ID, now)
	case GatewayStatusPending:
		// Keep the charge reference but leave the transaction open for
		// a later poll by the orchestrator.
		next = tx.SetGatewayTransactionID(result.ID, now)
	default:
		reason := result.StatusMessage
		if reason == "" {
			reason = fmt.Sprintf("payment %s at gateway", result.Status)
		}
		next = tx.Decline(reason, now)
		if result.ID != "" {
			next = next.SetGatewayTransactionID(result.ID, now)
		}
	}

	if err := s.transactionRepo.Update(ctx, next); err != nil {
		return nil, s.mapTransactionErr(err)
	}

	if next.Status() != transaction.StatusPending {
		if err := s.appendEvent(ctx, next.ID().String(), event.TypePaymentProcessed, next.Snapshot()); err != nil {
			return nil, err
		}
		s.notify(ctx, Notification{
			EventType:            event.TypePaymentProcessed,
			TransactionID:        next.ID().String(),
			Status:               next.Status().String(),
			GatewayTransactionID: result.ID,
		})
	}

	s.logger.Info("payment processed",
		"transaction_id", next.ID(), "status", next.Status(), "gateway_transaction_id", result.ID)

	return &ProcessPaymentOutput{
		Status:               next.Status(),
		GatewayTransactionID: result.ID,
		ProductID:            next.ProductID(),
	}, nil
}

// CheckPaymentStatus re-reads a charge the gateway left PENDING. The
// orchestrator polls this step until the charge settles; a settled outcome is
// recorded exactly like a direct settle in ProcessPayment. Polling an already
// settled transaction is a no-op returning its current state.
func (s *sagaCommandsImpl) CheckPaymentStatus(ctx context.Context, input CheckPaymentStatusInput) (*CheckPaymentStatusOutput, error) {
	tx, err := s.loadTransaction(ctx, input.TransactionID)
	if err != nil {
		return nil, err
	}

	gatewayID := ""
	if tx.GatewayTransactionID() != nil {
		gatewayID = *tx.GatewayTransactionID()
	}

	if tx.Status() != transaction.StatusPending {
		return &CheckPaymentStatusOutput{
			Status:               tx.Status(),
			GatewayTransactionID: gatewayID,
			ProductID:            tx.ProductID(),
		}, nil
	}
	if gatewayID == "" {
		return nil, errs.Mark(
			errs.Newf("transaction %s has no gateway charge to poll", tx.ID()),
			errs.ErrInvalidState)
	}

	result, err := s.gateway.GetPaymentStatus(ctx, gatewayID)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrGateway)
	}

	now := s.clock.Now()
	var next *transaction.Transaction
	switch result.Status {
	case GatewayStatusApproved:
		next = tx.Approve(gatewayID, now)
	case GatewayStatusPending:
		return &CheckPaymentStatusOutput{
			Status:               transaction.StatusPending,
			GatewayTransactionID: gatewayID,
			ProductID:            tx.ProductID(),
		}, nil
	default:
		reason := result.StatusMessage
		if reason == "" {
			reason = fmt.Sprintf("payment %s at gateway", result.Status)
		}
		next = tx.Decline(reason, now)
	}

	if err := s.transactionRepo.Update(ctx, next); err != nil {
		return nil, s.mapTransactionErr(err)
	}
	if err := s.appendEvent(ctx, next.ID().String(), event.TypePaymentProcessed, next.Snapshot()); err != nil {
		return nil, err
	}
	s.notify(ctx, Notification{
		EventType:            event.TypePaymentProcessed,
		TransactionID:        next.ID().String(),
		Status:               next.Status().String(),
		GatewayTransactionID: gatewayID,
	})

	s.logger.Info("payment status resolved",
		"transaction_id", next.ID(), "status", next.Status(), "gateway_transaction_id", gatewayID)

	return &CheckPaymentStatusOutput{
		Status:               next.Status(),
		GatewayTransactionID: gatewayID,
		ProductID:            next.ProductID(),
	}, nil
}

// UpdateInventory consumes stock after an approved payment. Any other status
// is a clean no-op so the orchestrator can route declined transactions
// through the same step.
func (s *sagaCommandsImpl) UpdateInventory(ctx context.Context, input UpdateInventoryInput) (*UpdateInventoryOutput, error) {
	if input.Status != transaction.StatusApproved {
		return &UpdateInventoryOutput{InventoryUpdated: false}, nil
	}
	if input.ProductID == "" {
		return nil, errs.ErrMissingProductID
	}

	rec, err := s.inventoryRepo.Decrement(ctx, input.ProductID, sagaQuantity)
	if err != nil {
		return nil, s.mapInventoryErr(err)
	}

	payload := struct {
		TransactionID string           `json:"transactionId"`
		Inventory     inventory.Record `json:"inventory"`
	}{TransactionID: input.TransactionID.String(), Inventory: rec}
	if err := s.appendEvent(ctx, input.ProductID, event.TypeInventoryUpdated, payload); err != nil {
		return nil, err
	}

	s.logger.Info("inventory decremented",
		"product_id", input.ProductID, "quantity", rec.Quantity, "reserved", rec.ReservedQuantity)

	return &UpdateInventoryOutput{InventoryUpdated: true, NewQuantity: rec.Quantity}, nil
}

// Compensate unwinds a failed saga: the transaction is cancelled whatever
// state it is in, and any unit held for it is returned to the pool. The
// release is best effort; a failure there is logged and must not block the
// cancellation from being recorded.
func (s *sagaCommandsImpl) Compensate(ctx context.Context, input CompensateInput) (*CompensateOutput, error) {
	tx, err := s.loadTransaction(ctx, input.TransactionID)
	if err != nil {
		return nil, err
	}

	cancelled := tx.Cancel(s.clock.Now())
	if err := s.transactionRepo.Update(ctx, cancelled); err != nil {
		return nil, s.mapTransactionErr(err)
	}

	productID := tx.ProductID()
	if productID == "" {
		productID = input.ProductID
	}
	if productID != "" {
		if _, err := s.inventoryRepo.Release(ctx, productID, sagaQuantity); err != nil {
			s.logger.Warn("compensation release failed",
				"transaction_id", tx.ID(), "product_id", productID, "error", err)
		}
	}

	payload := struct {
		Transaction transaction.Snapshot `json:"transaction"`
		Reason      string               `json:"reason"`
	}{Transaction: cancelled.Snapshot(), Reason: "Payment processing failed"}
	if err := s.appendEvent(ctx, cancelled.ID().String(), event.TypeTransactionCompensated, payload); err != nil {
		return nil, err
	}

	s.notify(ctx, Notification{
		EventType:     event.TypeTransactionCompensated,
		TransactionID: cancelled.ID().String(),
		Status:        cancelled.Status().String(),
	})

	s.logger.Info("transaction compensated", "transaction_id", cancelled.ID())

	return &CompensateOutput{Compensated: true}, nil
}

func (s *sagaCommandsImpl) loadTransaction(ctx context.Context, id uuid.UUID) (*transaction.Transaction, error) {
	tx, err := s.transactionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapTransactionErr(err)
	}
	return tx, nil
}

func (s *sagaCommandsImpl) appendEvent(ctx context.Context, aggregateID, eventType string, payload any) error {
	ev, err := event.New(aggregateID, eventType, payload, s.clock.Now())
	if err != nil {
		return errs.Wrap(err, "failed to build "+eventType+" event")
	}
	if err := s.eventStore.Append(ctx, ev); err != nil {
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return nil
}

// notify publishes to the notification channel. Delivery there has no
// exactly-once guarantee, so a publish failure is logged and swallowed.
func (s *sagaCommandsImpl) notify(ctx context.Context, msg Notification) {
	if err := s.publisher.Publish(ctx, msg); err != nil {
		s.logger.Warn("notification publish failed",
			"event_type", msg.EventType, "transaction_id", msg.TransactionID, "error", err)
	}
}

func (s *sagaCommandsImpl) mapTransactionErr(err error) error {
	if infra.IsKind(err, infra.KindNotFound) {
		return errs.Mark(err, errs.ErrTransactionNotFound)
	}
	return errs.Mark(err, errs.ErrDatabaseOperationFailed)
}

func (s *sagaCommandsImpl) mapInventoryErr(err error) error {
	switch {
	case infra.IsKind(err, infra.KindNotFound):
		return errs.Mark(err, errs.ErrInventoryNotFound)
	case infra.IsKind(err, infra.KindConditionFailed):
		return errs.Mark(err, errs.ErrInsufficientInventory)
	default:
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
}
