package store

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/53Karthik/Summary-Q-A-Insight-Engine/types"
)

// HistoryStorer is the append-only record of answered questions, scoped
// by owner identity. Entries are immutable once written; there is no
// update or delete path.
type HistoryStorer interface {
	AppendEntry(ctx context.Context, entry types.HistoryEntry) error
	ListByOwner(ctx context.Context, ownerID string, limit int) ([]types.HistoryEntry, error)
	Init(ctx context.Context) error
	Close() error
}

type PostgresStore struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewPostgresStore(ctx context.Context, connStr string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresStore{
		pool:   pool,
		logger: slog.Default(),
	}, nil
}

func (p *PostgresStore) AppendEntry(ctx context.Context, entry types.HistoryEntry) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	query := `INSERT INTO history_entries (id, owner_id, question, answer, created_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := p.pool.Exec(
		ctx,
		query,
		entry.ID,
		entry.OwnerID,
		entry.Question,
		entry.Answer,
		entry.CreatedAt,
	)
	return err
}

func (p *PostgresStore) ListByOwner(ctx context.Context, ownerID string, limit int) ([]types.HistoryEntry, error) {
	query := `
		SELECT id, owner_id, question, answer, created_at
		FROM history_entries
		WHERE owner_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := p.pool.Query(ctx, query, ownerID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []types.HistoryEntry
	for rows.Next() {
		var e types.HistoryEntry
		if err := rows.Scan(
			&e.ID,
			&e.OwnerID,
			&e.Question,
			&e.Answer,
			&e.CreatedAt,
		); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (p *PostgresStore) createHistoryTables(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS history_entries (
		id UUID PRIMARY KEY,
		owner_id TEXT NOT NULL,
		question TEXT NOT NULL,
		answer TEXT NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_history_owner_created
		ON history_entries(owner_id, created_at DESC);
	`
	_, err := p.pool.Exec(ctx, query)
	return err
}

func (p *PostgresStore) Init(ctx context.Context) error {
	return p.createHistoryTables(ctx)
}

func (p *PostgresStore) Close() error {
	if p.pool != nil {
		p.pool.Close()
		p.logger.Info("postgres connection pool closed")
	}
	return nil
}
