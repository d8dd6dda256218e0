package commands

import (
	"context"

	"checkout-service/internal/domain/event"
	"checkout-service/internal/domain/inventory"
	"checkout-service/internal/domain/transaction"

	"github.com/google/uuid"
)

// Write-side ports. One production implementation each (postgres repositories,
// the gateway HTTP adapter, the kafka producer) plus in-memory implementations
// for tests.

type TransactionRepository interface {
	Save(ctx context.Context, tx *transaction.Transaction) error
	Update(ctx context.Context, tx *transaction.Transaction) error
	FindByID(ctx context.Context, id uuid.UUID) (*transaction.Transaction, error)
	FindByIdempotencyKey(ctx context.Context, key string) (*transaction.Transaction, error)
}

type InventoryRepository interface {
	FindByProductID(ctx context.Context, productID string) (inventory.Record, error)
	Reserve(ctx context.Context, productID string, qty int64) (inventory.Record, error)
	Release(ctx context.Context, productID string, qty int64) (inventory.Record, error)
	Decrement(ctx context.Context, productID string, qty int64) (inventory.Record, error)
	Increment(ctx context.Context, productID string, qty int64) (inventory.Record, error)
}

type EventStore interface {
	Append(ctx context.Context, ev event.Event) error
}

// Notification is the message shape published to the notification channel.
// Delivery is at-least-once at best; consumers dedupe on TransactionID+EventType.
type Notification struct {
	EventType            string `json:"eventType"`
	TransactionID        string `json:"transactionId"`
	Status               string `json:"status,omitempty"`
	GatewayTransactionID string `json:"gatewayTransactionId,omitempty"`
}

type NotificationPublisher interface {
	Publish(ctx context.Context, msg Notification) error
}

// Payment gateway statuses as reported by the provider.
const (
	GatewayStatusApproved = "APPROVED"
	GatewayStatusDeclined = "DECLINED"
	GatewayStatusVoided   = "VOIDED"
	GatewayStatusError    = "ERROR"
	GatewayStatusPending  = "PENDING"
)

type CardData struct {
	Number     string
	CVC        string
	ExpMonth   string
	ExpYear    string
	CardHolder string
}

type TokenizedCard struct {
	Token    string
	Brand    string
	LastFour string
}

type PaymentMethod struct {
	Type         string
	Installments int
	Token        string
}

type PaymentRequest struct {
	AmountInCents int64
	Currency      string
	CustomerEmail string
	PaymentMethod PaymentMethod
	Reference     string
}

type PaymentResult struct {
	ID            string
	Status        string
	StatusMessage string
}

type PaymentGateway interface {
	TokenizeCard(ctx context.Context, card CardData) (TokenizedCard, error)
	CreatePayment(ctx context.Context, req PaymentRequest) (PaymentResult, error)
	GetPaymentStatus(ctx context.Context, gatewayTransactionID string) (PaymentResult, error)
}
