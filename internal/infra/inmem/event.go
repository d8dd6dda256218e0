package inmem

import (
	"context"
	"sort"
	"sync"

	"checkout-service/internal/domain/event"
)

// EventStore keeps the append-only audit trail in memory. Reads come back
// ordered by EventTimestamp regardless of insertion order, matching the
// postgres index.
type EventStore struct {
	mu     sync.RWMutex
	events []event.Event
}

func NewEventStore() *EventStore {
	return &EventStore{}
}

func (s *EventStore) Append(_ context.Context, ev event.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
	return nil
}

func (s *EventStore) FindByAggregateID(_ context.Context, aggregateID string) ([]event.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []event.Event
	for _, ev := range s.events {
		if ev.AggregateID == aggregateID {
			result = append(result, ev)
		}
	}
	sortEvents(result)
	return result, nil
}

func (s *EventStore) FindAll(_ context.Context) ([]event.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]event.Event, len(s.events))
	copy(result, s.events)
	sortEvents(result)
	return result, nil
}

func sortEvents(events []event.Event) {
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].EventTimestamp != events[j].EventTimestamp {
			return events[i].EventTimestamp < events[j].EventTimestamp
		}
		return events[i].ID < events[j].ID
	})
}
