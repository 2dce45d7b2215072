package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver

	"custodian.io/internal/domain/entity"
	"custodian.io/internal/domain/port"
)

// Schema creates the table used by PostgresJournal
const Schema = `
CREATE TABLE IF NOT EXISTS vault_events (
	id             UUID PRIMARY KEY,
	kind           TEXT NOT NULL,
	account        TEXT NOT NULL,
	asset          TEXT NOT NULL,
	amount         NUMERIC(78, 0),
	previous_owner TEXT NOT NULL,
	new_owner      TEXT NOT NULL,
	occurred_at    TIMESTAMPTZ NOT NULL
)`

// eventRow is the database shape of an event
type eventRow struct {
	ID            string    `db:"id"`
	Kind          string    `db:"kind"`
	Account       string    `db:"account"`
	Asset         string    `db:"asset"`
	Amount        *string   `db:"amount"`
	PreviousOwner string    `db:"previous_owner"`
	NewOwner      string    `db:"new_owner"`
	OccurredAt    time.Time `db:"occurred_at"`
}

func toRow(e entity.Event) eventRow {
	row := eventRow{
		ID:            e.ID.String(),
		Kind:          string(e.Kind),
		Account:       e.Account.Hex(),
		Asset:         e.Asset.Hex(),
		PreviousOwner: e.PreviousOwner.Hex(),
		NewOwner:      e.NewOwner.Hex(),
		OccurredAt:    e.Timestamp,
	}
	if e.Amount != nil {
		amount := e.Amount.Dec()
		row.Amount = &amount
	}
	return row
}

// PostgresJournal persists vault events to the vault_events table
type PostgresJournal struct {
	db      *sqlx.DB
	timeout time.Duration
}

// OpenPostgres connects to dsn and verifies the connection
func OpenPostgres(ctx context.Context, dsn string) (*sqlx.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("database DSN is required when enabled")
	}
	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

// NewPostgresJournal creates a journal with a per-query timeout
func NewPostgresJournal(db *sqlx.DB, timeout time.Duration) *PostgresJournal {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &PostgresJournal{db: db, timeout: timeout}
}

var _ port.EventPublisher = (*PostgresJournal)(nil)

// Migrate creates the events table if needed
func (p *PostgresJournal) Migrate(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	if _, err := p.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("failed to create vault_events: %w", err)
	}
	return nil
}

// Publish inserts the event. Re-publishing the same event ID is a no-op.
func (p *PostgresJournal) Publish(ctx context.Context, event entity.Event) error {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	query := `
		INSERT INTO vault_events
		(id, kind, account, asset, amount, previous_owner, new_owner, occurred_at)
		VALUES (:id, :kind, :account, :asset, :amount, :previous_owner, :new_owner, :occurred_at)
		ON CONFLICT (id) DO NOTHING`

	if _, err := p.db.NamedExecContext(ctx, query, toRow(event)); err != nil {
		return fmt.Errorf("failed to insert vault event: %w", err)
	}
	return nil
}
