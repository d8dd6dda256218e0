package repository

import (
	"context"

	"checkout-service/internal/domain/event"
	"checkout-service/internal/infra"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// EventRepository is the append-only audit log. Rows are never updated or
// deleted; reads are always sorted ascending by event_timestamp.
type EventRepository struct {
	db *pgxpool.Pool
}

func NewEventRepository(db *pgxpool.Pool) *EventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) Append(ctx context.Context, ev event.Event) error {
	_, err := r.db.Exec(ctx,
		`insert into events (id, aggregate_id, event_type, event_data, event_timestamp, event_time_iso)
		 values ($1,$2,$3,$4,$5,$6)`,
		ev.ID, ev.AggregateID, ev.EventType, []byte(ev.EventData), ev.EventTimestamp, ev.Timestamp,
	)
	if err != nil {
		return infra.WrapRepoErr(infra.KindDBFailure, "failed to append event", err)
	}
	return nil
}

func (r *EventRepository) FindByAggregateID(ctx context.Context, aggregateID string) ([]event.Event, error) {
	rows, err := r.db.Query(ctx,
		selectEvents+` where aggregate_id = $1 order by event_timestamp, id`, aggregateID)
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to query events by aggregate", err)
	}
	return collectEvents(rows)
}

func (r *EventRepository) FindAll(ctx context.Context) ([]event.Event, error) {
	rows, err := r.db.Query(ctx, selectEvents+` order by event_timestamp, id`)
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to query events", err)
	}
	return collectEvents(rows)
}

const selectEvents = `
	select id, aggregate_id, event_type, event_data, event_timestamp, event_time_iso
	from events`

func collectEvents(rows pgx.Rows) ([]event.Event, error) {
	defer rows.Close()

	var result []event.Event
	for rows.Next() {
		var ev event.Event
		var data []byte
		if err := rows.Scan(&ev.ID, &ev.AggregateID, &ev.EventType, &data, &ev.EventTimestamp, &ev.Timestamp); err != nil {
			return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to scan event row", err)
		}
		ev.EventData = data
		result = append(result, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to iterate events", err)
	}
	return result, nil
}
