package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/coach-gateway/internal/domain"
)

// MembershipEventRepository persists the membership audit ledger.
type MembershipEventRepository interface {
	Record(ctx context.Context, event *domain.MembershipEvent) error
	ListByEmail(ctx context.Context, email string, limit int) ([]domain.MembershipEvent, error)
}

type membershipEventRepository struct {
	pool *pgxpool.Pool
}

// NewMembershipEventRepository returns a Postgres-backed implementation.
func NewMembershipEventRepository(pool *pgxpool.Pool) MembershipEventRepository {
	return &membershipEventRepository{pool: pool}
}

func (r *membershipEventRepository) Record(ctx context.Context, event *domain.MembershipEvent) error {
	const query = `
        INSERT INTO membership_events (id, event_type, email, payload, occurred_at)
        VALUES ($1, $2, $3, $4, $5)`

	_, err := r.pool.Exec(ctx, query,
		event.ID,
		event.Type,
		event.Email,
		event.Payload,
		event.OccurredAt,
	)
	return err
}

func (r *membershipEventRepository) ListByEmail(ctx context.Context, email string, limit int) ([]domain.MembershipEvent, error) {
	const query = `
        SELECT id, event_type, email, payload, occurred_at
        FROM membership_events WHERE email=$1
        ORDER BY occurred_at DESC LIMIT $2`

	rows, err := r.pool.Query(ctx, query, email, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.MembershipEvent
	for rows.Next() {
		var event domain.MembershipEvent
		if err := rows.Scan(
			&event.ID,
			&event.Type,
			&event.Email,
			&event.Payload,
			&event.OccurredAt,
		); err != nil {
			return nil, err
		}
		out = append(out, event)
	}
	return out, rows.Err()
}
