package queries

import (
	"context"

	"checkout-service/internal/domain/event"
	"checkout-service/internal/pkg/errs"
)

type EventQueries interface {
	// GetEvents returns the audit trail ordered by event timestamp. An empty
	// aggregateID means the whole trail.
	GetEvents(ctx context.Context, aggregateID string) ([]event.Event, error)
}

type eventQueriesImpl struct {
	store EventReadStore
}

func NewEventQueries(store EventReadStore) EventQueries {
	return &eventQueriesImpl{store: store}
}

func (q *eventQueriesImpl) GetEvents(ctx context.Context, aggregateID string) ([]event.Event, error) {
	var (
		events []event.Event
		err    error
	)
	if aggregateID == "" {
		events, err = q.store.FindAll(ctx)
	} else {
		events, err = q.store.FindByAggregateID(ctx, aggregateID)
	}
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return events, nil
}
