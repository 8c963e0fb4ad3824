package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"bandprep/internal/domain"
)

// OTPRepository define el contrato de persistencia para códigos OTP.
type OTPRepository interface {
	Create(ctx context.Context, otp domain.OTPCode) error
	GetLatestByEmail(ctx context.Context, email string) (domain.OTPCode, error)
	MarkSent(ctx context.Context, id string, sentAt time.Time) error
	MarkConsumed(ctx context.Context, id string, consumedAt time.Time) error
}

// PgOTPRepository implementa OTPRepository usando pgxpool.
type PgOTPRepository struct {
	pool *pgxpool.Pool
}

func NewPgOTPRepository(pool *pgxpool.Pool) *PgOTPRepository {
	return &PgOTPRepository{pool: pool}
}

func (r *PgOTPRepository) Create(ctx context.Context, otp domain.OTPCode) error {
	const query = `
		INSERT INTO otp_codes (id, email, code, expires_at, created_at, last_sent_at, consumed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.pool.Exec(ctx, query,
		otp.ID,
		otp.Email,
		otp.Code,
		otp.ExpiresAt,
		otp.CreatedAt,
		otp.LastSentAt,
		otp.ConsumedAt,
	)
	return err
}

func (r *PgOTPRepository) GetLatestByEmail(ctx context.Context, email string) (domain.OTPCode, error) {
	const query = `
		SELECT id, email, code, expires_at, created_at, last_sent_at, consumed_at
		FROM otp_codes
		WHERE email = $1
		ORDER BY created_at DESC
		LIMIT 1
	`
	var otp domain.OTPCode
	err := r.pool.QueryRow(ctx, query, email).Scan(
		&otp.ID,
		&otp.Email,
		&otp.Code,
		&otp.ExpiresAt,
		&otp.CreatedAt,
		&otp.LastSentAt,
		&otp.ConsumedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.OTPCode{}, err
	}
	return otp, err
}

func (r *PgOTPRepository) MarkSent(ctx context.Context, id string, sentAt time.Time) error {
	const query = `
		UPDATE otp_codes
		SET last_sent_at = $2
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query, id, sentAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *PgOTPRepository) MarkConsumed(ctx context.Context, id string, consumedAt time.Time) error {
	const query = `
		UPDATE otp_codes
		SET consumed_at = $2
		WHERE id = $1 AND consumed_at IS NULL
	`
	tag, err := r.pool.Exec(ctx, query, id, consumedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
