package response

import (
	"encoding/json"

	"checkout-service/internal/domain/event"

	"github.com/jinzhu/copier"
)

type EventResponse struct {
	ID             string          `json:"id"`
	AggregateID    string          `json:"aggregateId"`
	EventType      string          `json:"eventType"`
	EventData      json.RawMessage `json:"eventData"`
	EventTimestamp int64           `json:"eventTimestamp"`
	Timestamp      string          `json:"timestamp"`
}

func FromEvent(ev event.Event) *EventResponse {
	var resp EventResponse
	_ = copier.Copy(&resp, &ev)
	return &resp
}

func FromEvents(events []event.Event) []*EventResponse {
	result := make([]*EventResponse, len(events))
	for i, ev := range events {
		result[i] = FromEvent(ev)
	}
	return result
}
