package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"bandprep/internal/domain"
)

// VocabularyRepository define el contrato de persistencia para vocabulario.
type VocabularyRepository interface {
	Create(ctx context.Context, vocab domain.Vocabulary) error
	ListByUser(ctx context.Context, userID string, limit int) ([]domain.Vocabulary, error)
	GetByWord(ctx context.Context, userID, word string) (domain.Vocabulary, error)
	Delete(ctx context.Context, userID, id string) error
}

// PgVocabularyRepository implementa VocabularyRepository usando pgxpool.
type PgVocabularyRepository struct {
	pool *pgxpool.Pool
}

func NewPgVocabularyRepository(pool *pgxpool.Pool) *PgVocabularyRepository {
	return &PgVocabularyRepository{pool: pool}
}

func (r *PgVocabularyRepository) Create(ctx context.Context, vocab domain.Vocabulary) error {
	const query = `
		INSERT INTO vocabulary (id, user_id, word, source, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.pool.Exec(ctx, query,
		vocab.ID,
		vocab.UserID,
		vocab.Word,
		vocab.Source,
		vocab.Notes,
		vocab.CreatedAt,
	)
	return err
}

func (r *PgVocabularyRepository) ListByUser(ctx context.Context, userID string, limit int) ([]domain.Vocabulary, error) {
	const query = `
		SELECT id, user_id, word, source, notes, created_at
		FROM vocabulary
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Vocabulary
	for rows.Next() {
		var v domain.Vocabulary
		if err := rows.Scan(&v.ID, &v.UserID, &v.Word, &v.Source, &v.Notes, &v.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, v)
	}
	return items, rows.Err()
}

func (r *PgVocabularyRepository) GetByWord(ctx context.Context, userID, word string) (domain.Vocabulary, error) {
	const query = `
		SELECT id, user_id, word, source, notes, created_at
		FROM vocabulary
		WHERE user_id = $1 AND word = $2
		LIMIT 1
	`
	var v domain.Vocabulary
	err := r.pool.QueryRow(ctx, query, userID, word).Scan(
		&v.ID,
		&v.UserID,
		&v.Word,
		&v.Source,
		&v.Notes,
		&v.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Vocabulary{}, err
	}
	return v, err
}

func (r *PgVocabularyRepository) Delete(ctx context.Context, userID, id string) error {
	const query = `
		DELETE FROM vocabulary
		WHERE id = $1 AND user_id = $2
	`
	tag, err := r.pool.Exec(ctx, query, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
