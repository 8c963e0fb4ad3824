package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"bandprep/internal/domain"
)

// ProfileUpdate agrupa cambios parciales de perfil; campos nil se ignoran.
type ProfileUpdate struct {
	Name            *string
	Email           *string
	TargetScore     *float64
	TestDate        *time.Time
	HasPreviousTest *bool
	LastTestScore   *float64
}

// UserRepository define el contrato de persistencia para usuarios.
type UserRepository interface {
	Create(ctx context.Context, user domain.User) error
	GetByID(ctx context.Context, id string) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	UpdateProfile(ctx context.Context, id string, update ProfileUpdate, updatedAt time.Time) (domain.User, error)
	UpdateProgress(ctx context.Context, id string, xp, level int, updatedAt time.Time) error
	Delete(ctx context.Context, id string) error
}

// IsUniqueViolation detecta violaciones de unicidad (por ejemplo email duplicado).
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

const userColumns = `
	id, email, name, target_score, test_date, has_previous_test,
	last_test_score, level, xp, created_at, updated_at
`

// PgUserRepository implementa UserRepository usando pgxpool.
type PgUserRepository struct {
	pool *pgxpool.Pool
}

func NewPgUserRepository(pool *pgxpool.Pool) *PgUserRepository {
	return &PgUserRepository{pool: pool}
}

func (r *PgUserRepository) Create(ctx context.Context, user domain.User) error {
	const query = `
		INSERT INTO users (id, email, name, target_score, test_date, has_previous_test,
			last_test_score, level, xp, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := r.pool.Exec(ctx, query,
		user.ID,
		user.Email,
		user.Name,
		user.TargetScore,
		user.TestDate,
		user.HasPreviousTest,
		user.LastTestScore,
		user.Level,
		user.XP,
		user.CreatedAt,
		user.UpdatedAt,
	)
	return err
}

func (r *PgUserRepository) GetByID(ctx context.Context, id string) (domain.User, error) {
	const query = `
		SELECT ` + userColumns + `
		FROM users
		WHERE id = $1
	`
	return r.scanUser(r.pool.QueryRow(ctx, query, id))
}

func (r *PgUserRepository) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	const query = `
		SELECT ` + userColumns + `
		FROM users
		WHERE email = $1
	`
	return r.scanUser(r.pool.QueryRow(ctx, query, email))
}

func (r *PgUserRepository) UpdateProfile(ctx context.Context, id string, update ProfileUpdate, updatedAt time.Time) (domain.User, error) {
	const query = `
		UPDATE users
		SET name = COALESCE($2, name),
			email = COALESCE($3, email),
			target_score = COALESCE($4, target_score),
			test_date = COALESCE($5, test_date),
			has_previous_test = COALESCE($6, has_previous_test),
			last_test_score = COALESCE($7, last_test_score),
			updated_at = $8
		WHERE id = $1
		RETURNING ` + userColumns + `
	`
	return r.scanUser(r.pool.QueryRow(ctx, query,
		id,
		update.Name,
		update.Email,
		update.TargetScore,
		update.TestDate,
		update.HasPreviousTest,
		update.LastTestScore,
		updatedAt,
	))
}

func (r *PgUserRepository) UpdateProgress(ctx context.Context, id string, xp, level int, updatedAt time.Time) error {
	const query = `
		UPDATE users
		SET xp = $2, level = $3, updated_at = $4
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query, id, xp, level, updatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// Delete borra la cuenta; user_activities y vocabulary caen en cascada
// por sus claves foráneas. Los otp_codes quedan hasta vencer: no tienen
// FK porque se emiten por email antes de que exista la cuenta.
func (r *PgUserRepository) Delete(ctx context.Context, id string) error {
	const query = `
		DELETE FROM users
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *PgUserRepository) scanUser(row pgx.Row) (domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.Name,
		&u.TargetScore,
		&u.TestDate,
		&u.HasPreviousTest,
		&u.LastTestScore,
		&u.Level,
		&u.XP,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, err
	}
	return u, err
}
