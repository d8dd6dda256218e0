package event

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event is one append-only audit record. Written once, never updated.
// EventTimestamp (epoch millis) is the ordering key; Timestamp is the
// human-readable form and informational only.
type Event struct {
	ID             string          `json:"id"`
	AggregateID    string          `json:"aggregateId"`
	EventType      string          `json:"eventType"`
	EventData      json.RawMessage `json:"eventData"`
	EventTimestamp int64           `json:"eventTimestamp"`
	Timestamp      string          `json:"timestamp"`
}

const (
	TypeTransactionCreated     = "TransactionCreated"
	TypePaymentProcessed       = "PaymentProcessed"
	TypeInventoryUpdated       = "InventoryUpdated"
	TypeTransactionCompensated = "TransactionCompensated"
)

// New marshals payload into the event body. A payload that cannot be
// marshalled is a programming error surfaced to the caller.
func New(aggregateID, eventType string, payload any, at time.Time) (Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Event{}, err
	}
	return Event{
		ID:             uuid.NewString(),
		AggregateID:    aggregateID,
		EventType:      eventType,
		EventData:      data,
		EventTimestamp: at.UnixMilli(),
		Timestamp:      at.UTC().Format(time.RFC3339Nano),
	}, nil
}
