package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

var migrations = []string{
	`create table if not exists transactions (
		id uuid primary key,
		product_id text not null,
		amount bigint not null,
		commission bigint not null,
		shipping_cost bigint not null,
		total_amount bigint not null,
		status text not null,
		customer_email text not null default '',
		customer_name text not null default '',
		delivery_address text not null default '',
		delivery_city text not null default '',
		delivery_phone text not null default '',
		idempotency_key text not null unique,
		gateway_transaction_id text,
		error_message text,
		created_at timestamptz not null,
		updated_at timestamptz not null
	)`,
	`create table if not exists inventory (
		product_id text primary key,
		quantity bigint not null check (quantity >= 0),
		reserved_quantity bigint not null default 0 check (reserved_quantity >= 0),
		updated_at timestamptz not null default now()
	)`,
	`create table if not exists events (
		id text primary key,
		aggregate_id text not null,
		event_type text not null,
		event_data jsonb not null,
		event_timestamp bigint not null,
		event_time_iso text not null
	)`,
	`create index if not exists idx_events_aggregate on events (aggregate_id, event_timestamp)`,
	`create index if not exists idx_events_timestamp on events (event_timestamp)`,
}

func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range migrations {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// SeedDemoData loads the demo catalog's stock rows. Product records themselves
// live in the external catalog service; only the ledger rows are seeded here.
func SeedDemoData(ctx context.Context, pool *pgxpool.Pool) error {
	seed := []struct {
		productID string
		quantity  int64
	}{
		{"prod-001", 100},
		{"prod-002", 100},
		{"prod-003", 50},
		{"prod-004", 75},
	}
	for _, s := range seed {
		_, err := pool.Exec(ctx,
			`insert into inventory (product_id, quantity, reserved_quantity, updated_at)
			 values ($1, $2, 0, now())
			 on conflict (product_id) do nothing`,
			s.productID, s.quantity)
		if err != nil {
			return fmt.Errorf("seed failed for %s: %w", s.productID, err)
		}
	}
	return nil
}
