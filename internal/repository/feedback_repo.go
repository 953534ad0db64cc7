package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"fishing-backend/internal/models"
)

const feedbackColumns = `id, fisher_id, type, text, solved, solution, created_at, solved_at`

func scanFeedback(row pgx.Row) (*models.Feedback, error) {
	fb := &models.Feedback{}
	err := row.Scan(&fb.ID, &fb.FisherID, &fb.Type, &fb.Text, &fb.Solved, &fb.Solution, &fb.CreatedAt, &fb.SolvedAt)
	if err != nil {
		return nil, err
	}
	return fb, nil
}

func (s *PostgresStore) CreateFeedback(ctx context.Context, fb *models.Feedback) error {
	if fb.ID == uuid.Nil {
		fb.ID = uuid.New()
	}
	query := `INSERT INTO feedback (` + feedbackColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := s.db.Exec(ctx, query,
		fb.ID, fb.FisherID, fb.Type, fb.Text, fb.Solved, fb.Solution, fb.CreatedAt, fb.SolvedAt,
	)
	return err
}

func (s *PostgresStore) GetFeedback(ctx context.Context, id uuid.UUID) (*models.Feedback, error) {
	fb, err := scanFeedback(s.db.QueryRow(ctx, `SELECT `+feedbackColumns+` FROM feedback WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err)
	}
	return fb, nil
}

func (s *PostgresStore) ListFeedback(ctx context.Context, unsolvedOnly bool) ([]*models.Feedback, error) {
	query := `SELECT ` + feedbackColumns + ` FROM feedback`
	if unsolvedOnly {
		query += ` WHERE NOT solved`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*models.Feedback
	for rows.Next() {
		fb, err := scanFeedback(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, fb)
	}
	return items, rows.Err()
}

func (s *PostgresStore) SolveFeedback(ctx context.Context, id uuid.UUID, solution string, at time.Time) error {
	query := `UPDATE feedback SET solved = TRUE, solution = $2, solved_at = $3 WHERE id = $1`
	return expectOne(s.db.Exec(ctx, query, id, solution, at))
}
