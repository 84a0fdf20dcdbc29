package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stemsi/exam-platform/internal/model"
)

var ErrAttemptNotFound = errors.New("exam attempt not found")

// AttemptExportRow is an attempt joined with its owner, for reporting.
type AttemptExportRow struct {
	AttemptID      uuid.UUID
	Email          string
	FullName       string
	Score          int
	TotalQuestions int
	TimeTaken      int
	CompletedAt    time.Time
}

// ExamAttemptRepository handles exam attempt data access.
type ExamAttemptRepository struct {
	db DBTX
}

// NewExamAttemptRepository creates a new ExamAttemptRepository.
func NewExamAttemptRepository(db DBTX) *ExamAttemptRepository {
	return &ExamAttemptRepository{db: db}
}

// Create inserts a submitted attempt. The raw answers are stored as an
// opaque JSON blob.
func (r *ExamAttemptRepository) Create(ctx context.Context, a *model.ExamAttempt) error {
	answers := a.Answers
	if answers == nil {
		answers = map[string]int{}
	}
	raw, err := json.Marshal(answers)
	if err != nil {
		return fmt.Errorf("encode answers: %w", err)
	}

	return r.db.QueryRow(ctx,
		`INSERT INTO exam_attempts (user_id, score, total_questions, time_taken, answers)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, completed_at`,
		a.UserID, a.Score, a.TotalQuestions, a.TimeTaken, string(raw),
	).Scan(&a.ID, &a.CompletedAt)
}

// GetByIDForUser retrieves an attempt only if it belongs to userID.
func (r *ExamAttemptRepository) GetByIDForUser(ctx context.Context, id, userID uuid.UUID) (*model.ExamAttempt, error) {
	a := &model.ExamAttempt{}
	err := r.db.QueryRow(ctx,
		`SELECT id, user_id, score, total_questions, time_taken, completed_at
		 FROM exam_attempts
		 WHERE id = $1 AND user_id = $2`, id, userID,
	).Scan(&a.ID, &a.UserID, &a.Score, &a.TotalQuestions, &a.TimeTaken, &a.CompletedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAttemptNotFound
		}
		return nil, err
	}
	return a, nil
}

// ListByUser retrieves a user's attempts, newest first.
func (r *ExamAttemptRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.ExamAttempt, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, score, total_questions, time_taken, completed_at
		 FROM exam_attempts
		 WHERE user_id = $1
		 ORDER BY completed_at DESC`, userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attempts []model.ExamAttempt
	for rows.Next() {
		var a model.ExamAttempt
		if err := rows.Scan(&a.ID, &a.UserID, &a.Score, &a.TotalQuestions, &a.TimeTaken, &a.CompletedAt); err != nil {
			return nil, err
		}
		attempts = append(attempts, a)
	}
	return attempts, rows.Err()
}

// ListForExport retrieves every attempt with its owner's email and name,
// oldest first.
func (r *ExamAttemptRepository) ListForExport(ctx context.Context) ([]AttemptExportRow, error) {
	rows, err := r.db.Query(ctx,
		`SELECT a.id, u.email, u.full_name, a.score, a.total_questions, a.time_taken, a.completed_at
		 FROM exam_attempts a
		 JOIN users u ON u.id = a.user_id
		 ORDER BY a.completed_at`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []AttemptExportRow
	for rows.Next() {
		var e AttemptExportRow
		if err := rows.Scan(&e.AttemptID, &e.Email, &e.FullName, &e.Score, &e.TotalQuestions, &e.TimeTaken, &e.CompletedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
