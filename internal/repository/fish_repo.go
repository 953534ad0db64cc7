package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"fishing-backend/internal/models"
)

const fishColumns = `id, pond_id, question, answer, repetitions, depth_level, interval_days,
	ease_factor, next_review_at, created_at, updated_at`

func scanFish(row pgx.Row) (*models.Fish, error) {
	f := &models.Fish{}
	err := row.Scan(
		&f.ID, &f.PondID, &f.Question, &f.Answer, &f.Repetitions, &f.DepthLevel, &f.IntervalDays,
		&f.EaseFactor, &f.NextReviewAt, &f.CreatedAt, &f.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// CreateFishes inserts all fish in one batch round trip.
func (s *PostgresStore) CreateFishes(ctx context.Context, fishes []*models.Fish) error {
	if len(fishes) == 0 {
		return nil
	}

	query := `INSERT INTO fishes (` + fishColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	batch := &pgx.Batch{}
	for _, f := range fishes {
		if f.ID == uuid.Nil {
			f.ID = uuid.New()
		}
		batch.Queue(query,
			f.ID, f.PondID, f.Question, f.Answer, f.Repetitions, f.DepthLevel, f.IntervalDays,
			f.EaseFactor, f.NextReviewAt, f.CreatedAt, f.UpdatedAt,
		)
	}

	br := s.db.SendBatch(ctx, batch)
	defer br.Close()
	for range fishes {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

func (s *PostgresStore) GetFish(ctx context.Context, id uuid.UUID) (*models.Fish, error) {
	f, err := scanFish(s.db.QueryRow(ctx, `SELECT `+fishColumns+` FROM fishes WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err)
	}
	return f, nil
}

func (s *PostgresStore) ListFishes(ctx context.Context, pondID uuid.UUID, filter FishFilter) ([]*models.Fish, error) {
	where := []string{"pond_id = $1"}
	args := []any{pondID}

	if filter.Ready != nil {
		args = append(args, filter.Now)
		op := ">"
		if *filter.Ready {
			op = "<="
		}
		where = append(where, fmt.Sprintf("next_review_at %s $%d", op, len(args)))
	}
	if filter.DepthLevel != nil {
		args = append(args, *filter.DepthLevel)
		where = append(where, fmt.Sprintf("depth_level = $%d", len(args)))
	}

	query := `SELECT ` + fishColumns + ` FROM fishes WHERE ` + strings.Join(where, " AND ") +
		` ORDER BY next_review_at ASC`

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var fishes []*models.Fish
	for rows.Next() {
		f, err := scanFish(rows)
		if err != nil {
			return nil, err
		}
		fishes = append(fishes, f)
	}
	return fishes, rows.Err()
}

func (s *PostgresStore) UpdateFish(ctx context.Context, f *models.Fish) error {
	query := `UPDATE fishes SET question = $2, answer = $3, repetitions = $4, depth_level = $5,
		interval_days = $6, ease_factor = $7, next_review_at = $8, updated_at = $9
		WHERE id = $1`

	return expectOne(s.db.Exec(ctx, query,
		f.ID, f.Question, f.Answer, f.Repetitions, f.DepthLevel,
		f.IntervalDays, f.EaseFactor, f.NextReviewAt, f.UpdatedAt,
	))
}

func (s *PostgresStore) DeleteFish(ctx context.Context, id uuid.UUID) error {
	return expectOne(s.db.Exec(ctx, "DELETE FROM fishes WHERE id = $1", id))
}
