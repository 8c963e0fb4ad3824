package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"bandprep/internal/domain"
)

// ActivityRepository define el contrato de persistencia para actividades.
type ActivityRepository interface {
	Create(ctx context.Context, activity domain.UserActivity) error
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]domain.UserActivity, error)
	ListFiltered(ctx context.Context, userID string, since *time.Time, practiceType string) ([]domain.UserActivity, error)
}

// PgActivityRepository implementa ActivityRepository usando pgxpool.
type PgActivityRepository struct {
	pool *pgxpool.Pool
}

func NewPgActivityRepository(pool *pgxpool.Pool) *PgActivityRepository {
	return &PgActivityRepository{pool: pool}
}

func (r *PgActivityRepository) Create(ctx context.Context, activity domain.UserActivity) error {
	const query = `
		INSERT INTO user_activities (id, user_id, type, practice_type, score, band,
			xp_earned, time_spent, details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.pool.Exec(ctx, query,
		activity.ID,
		activity.UserID,
		activity.Type,
		activity.PracticeType,
		activity.Score,
		activity.Band,
		activity.XPEarned,
		activity.TimeSpent,
		activity.Details,
		activity.CreatedAt,
	)
	return err
}

func (r *PgActivityRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]domain.UserActivity, error) {
	const query = `
		SELECT id, user_id, type, practice_type, score, band, xp_earned, time_spent, details, created_at
		FROM user_activities
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	if limit <= 0 {
		limit = 10
	}
	rows, err := r.pool.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanActivities(rows)
}

// ListFiltered devuelve actividades ordenadas de más reciente a más antigua,
// opcionalmente acotadas por fecha y tipo de práctica.
func (r *PgActivityRepository) ListFiltered(ctx context.Context, userID string, since *time.Time, practiceType string) ([]domain.UserActivity, error) {
	const query = `
		SELECT id, user_id, type, practice_type, score, band, xp_earned, time_spent, details, created_at
		FROM user_activities
		WHERE user_id = $1
			AND ($2::timestamptz IS NULL OR created_at >= $2)
			AND ($3::text = '' OR practice_type = $3)
		ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, userID, since, practiceType)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanActivities(rows)
}

func scanActivities(rows pgx.Rows) ([]domain.UserActivity, error) {
	var activities []domain.UserActivity
	for rows.Next() {
		var a domain.UserActivity
		if err := rows.Scan(
			&a.ID,
			&a.UserID,
			&a.Type,
			&a.PracticeType,
			&a.Score,
			&a.Band,
			&a.XPEarned,
			&a.TimeSpent,
			&a.Details,
			&a.CreatedAt,
		); err != nil {
			return nil, err
		}
		activities = append(activities, a)
	}
	return activities, rows.Err()
}
