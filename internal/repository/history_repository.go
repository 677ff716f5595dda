package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// HistoryRepository stores the append-only audit trail. There is no update
// or delete; entries are immutable once written.
type HistoryRepository interface {
	Create(ctx context.Context, entry *domain.HistoryEntry) error
	ListByTicket(ctx context.Context, ticketID int64) ([]domain.HistoryEntry, error)
	ListByActor(ctx context.Context, actorID int64, limit int) ([]domain.HistoryEntry, error)
	ListByAction(ctx context.Context, action domain.HistoryAction, limit int) ([]domain.HistoryEntry, error)
	ListSince(ctx context.Context, since time.Time, limit int) ([]domain.HistoryEntry, error)
}

type historyRepository struct {
	pool *pgxpool.Pool
}

// NewHistoryRepository builds repository.
func NewHistoryRepository(pool *pgxpool.Pool) HistoryRepository {
	return &historyRepository{pool: pool}
}

const historyColumns = `id, ticket_id, action, old_value, new_value, comment, actor_id,
               field_name, metadata, changed_at`

func (r *historyRepository) Create(ctx context.Context, entry *domain.HistoryEntry) error {
	const query = `
        INSERT INTO ticket_history (ticket_id, action, old_value, new_value, comment,
            actor_id, field_name, metadata)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id, changed_at`
	return r.pool.QueryRow(ctx, query,
		entry.TicketID,
		entry.Action,
		entry.OldValue,
		entry.NewValue,
		entry.Comment,
		entry.ActorID,
		entry.FieldName,
		entry.Metadata,
	).Scan(&entry.ID, &entry.ChangedAt)
}

func (r *historyRepository) ListByTicket(ctx context.Context, ticketID int64) ([]domain.HistoryEntry, error) {
	const query = `SELECT ` + historyColumns + ` FROM ticket_history
        WHERE ticket_id=$1 ORDER BY changed_at ASC, id ASC`
	rows, err := r.pool.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanHistory(rows)
}

func (r *historyRepository) ListByActor(ctx context.Context, actorID int64, limit int) ([]domain.HistoryEntry, error) {
	const query = `SELECT ` + historyColumns + ` FROM ticket_history
        WHERE actor_id=$1 ORDER BY changed_at DESC LIMIT $2`
	rows, err := r.pool.Query(ctx, query, actorID, normalizeLimit(limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanHistory(rows)
}

func (r *historyRepository) ListByAction(ctx context.Context, action domain.HistoryAction, limit int) ([]domain.HistoryEntry, error) {
	const query = `SELECT ` + historyColumns + ` FROM ticket_history
        WHERE action=$1 ORDER BY changed_at DESC LIMIT $2`
	rows, err := r.pool.Query(ctx, query, action, normalizeLimit(limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanHistory(rows)
}

func (r *historyRepository) ListSince(ctx context.Context, since time.Time, limit int) ([]domain.HistoryEntry, error) {
	const query = `SELECT ` + historyColumns + ` FROM ticket_history
        WHERE changed_at >= $1 ORDER BY changed_at ASC LIMIT $2`
	rows, err := r.pool.Query(ctx, query, since, normalizeLimit(limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanHistory(rows)
}

func scanHistory(rows pgx.Rows) ([]domain.HistoryEntry, error) {
	var result []domain.HistoryEntry
	for rows.Next() {
		var entry domain.HistoryEntry
		if err := rows.Scan(
			&entry.ID,
			&entry.TicketID,
			&entry.Action,
			&entry.OldValue,
			&entry.NewValue,
			&entry.Comment,
			&entry.ActorID,
			&entry.FieldName,
			&entry.Metadata,
			&entry.ChangedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return 100
	}
	return limit
}
