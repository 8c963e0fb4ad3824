package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"bandprep/internal/domain"
)

// PracticeRepository expone contenido de práctica precargado, solo lectura.
type PracticeRepository interface {
	ListPassagesBySkill(ctx context.Context, skill string, limit int) ([]domain.Passage, error)
	ListQuestionsBySkill(ctx context.Context, skill string, limit int) ([]domain.PracticeQuestion, error)
}

// PgPracticeRepository implementa PracticeRepository usando pgxpool.
type PgPracticeRepository struct {
	pool *pgxpool.Pool
}

func NewPgPracticeRepository(pool *pgxpool.Pool) *PgPracticeRepository {
	return &PgPracticeRepository{pool: pool}
}

func (r *PgPracticeRepository) ListPassagesBySkill(ctx context.Context, skill string, limit int) ([]domain.Passage, error) {
	const query = `
		SELECT id, skill, title, body, audio_url, created_at
		FROM passages
		WHERE skill = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	if limit <= 0 {
		limit = 10
	}
	rows, err := r.pool.Query(ctx, query, skill, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var passages []domain.Passage
	for rows.Next() {
		var p domain.Passage
		if err := rows.Scan(&p.ID, &p.Skill, &p.Title, &p.Body, &p.AudioURL, &p.CreatedAt); err != nil {
			return nil, err
		}
		passages = append(passages, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range passages {
		questions, err := r.listQuestionsByPassage(ctx, passages[i].ID)
		if err != nil {
			return nil, err
		}
		passages[i].Questions = questions
	}
	return passages, nil
}

func (r *PgPracticeRepository) ListQuestionsBySkill(ctx context.Context, skill string, limit int) ([]domain.PracticeQuestion, error) {
	const query = `
		SELECT id, passage_id, skill, prompt, options, answer, created_at
		FROM practice_questions
		WHERE skill = $1 AND passage_id IS NULL
		ORDER BY created_at ASC
		LIMIT $2
	`
	if limit <= 0 {
		limit = 10
	}
	rows, err := r.pool.Query(ctx, query, skill, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanQuestions(rows)
}

func (r *PgPracticeRepository) listQuestionsByPassage(ctx context.Context, passageID string) ([]domain.PracticeQuestion, error) {
	const query = `
		SELECT id, passage_id, skill, prompt, options, answer, created_at
		FROM practice_questions
		WHERE passage_id = $1
		ORDER BY created_at ASC
	`
	rows, err := r.pool.Query(ctx, query, passageID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanQuestions(rows)
}

func scanQuestions(rows pgx.Rows) ([]domain.PracticeQuestion, error) {
	var questions []domain.PracticeQuestion
	for rows.Next() {
		var q domain.PracticeQuestion
		if err := rows.Scan(&q.ID, &q.PassageID, &q.Skill, &q.Prompt, &q.Options, &q.Answer, &q.CreatedAt); err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}
