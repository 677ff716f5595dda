package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// StatusRepository reads the configurable status catalog. The catalog is
// seeded by migrations and treated as read-only at runtime.
type StatusRepository interface {
	List(ctx context.Context) ([]domain.Status, error)
	GetByID(ctx context.Context, id int64) (*domain.Status, error)
}

type statusRepository struct {
	pool *pgxpool.Pool
}

// NewStatusRepository builds repository.
func NewStatusRepository(pool *pgxpool.Pool) StatusRepository {
	return &statusRepository{pool: pool}
}

const statusColumns = `id, name, code, description, color, sort_order, is_initial,
               is_final, requires_comment, allowed_roles, next_statuses, created_at, updated_at`

func (r *statusRepository) List(ctx context.Context) ([]domain.Status, error) {
	const query = `SELECT ` + statusColumns + ` FROM statuses ORDER BY sort_order ASC, id ASC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Status
	for rows.Next() {
		status, err := scanStatus(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *status)
	}
	return result, rows.Err()
}

func (r *statusRepository) GetByID(ctx context.Context, id int64) (*domain.Status, error) {
	const query = `SELECT ` + statusColumns + ` FROM statuses WHERE id=$1`
	rows, err := r.pool.Query(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, pgx.ErrNoRows
	}
	return scanStatus(rows)
}

func scanStatus(rows pgx.Rows) (*domain.Status, error) {
	var (
		status       domain.Status
		allowedRoles []string
	)
	if err := rows.Scan(
		&status.ID,
		&status.Name,
		&status.Code,
		&status.Description,
		&status.Color,
		&status.SortOrder,
		&status.IsInitial,
		&status.IsFinal,
		&status.RequiresComment,
		&allowedRoles,
		&status.NextStatuses,
		&status.CreatedAt,
		&status.UpdatedAt,
	); err != nil {
		return nil, err
	}
	for _, role := range allowedRoles {
		status.AllowedRoles = append(status.AllowedRoles, domain.UserRole(role))
	}
	return &status, nil
}
