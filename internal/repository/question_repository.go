package repository

import (
	"context"

	"github.com/stemsi/exam-platform/internal/model"
)

// QuestionRepository reads the question bank. Questions are managed outside
// this service; there are no write methods.
type QuestionRepository struct {
	db DBTX
}

// NewQuestionRepository creates a new QuestionRepository.
func NewQuestionRepository(db DBTX) *QuestionRepository {
	return &QuestionRepository{db: db}
}

// ListPublic returns up to limit questions by creation order, without the
// correct answer column.
func (r *QuestionRepository) ListPublic(ctx context.Context, limit int) ([]model.PublicQuestion, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, question_text, options
		 FROM questions
		 ORDER BY created_at
		 LIMIT $1`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	questions := make([]model.PublicQuestion, 0, limit)
	for rows.Next() {
		var q model.PublicQuestion
		if err := rows.Scan(&q.ID, &q.QuestionText, &q.Options); err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

// AnswerKey loads the correct option of every question, keyed by the
// question id in text form.
func (r *QuestionRepository) AnswerKey(ctx context.Context) (model.AnswerKey, error) {
	rows, err := r.db.Query(ctx, `SELECT id::text, correct_answer FROM questions`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	key := make(model.AnswerKey)
	for rows.Next() {
		var (
			id      string
			correct int
		)
		if err := rows.Scan(&id, &correct); err != nil {
			return nil, err
		}
		key[id] = correct
	}
	return key, rows.Err()
}
