package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"fishing-backend/internal/models"
)

// Ladders are stored as bigint[] of nanoseconds.

func ladderToNanos(l models.Ladder) []int64 {
	out := make([]int64, len(l))
	for i, d := range l {
		out[i] = int64(d)
	}
	return out
}

func ladderFromNanos(in []int64) models.Ladder {
	out := make(models.Ladder, len(in))
	for i, n := range in {
		out[i] = time.Duration(n)
	}
	return out
}

const pondColumns = `id, fisher_id, name, description, topic, intervals, created_at, updated_at`

func scanPond(row pgx.Row) (*models.Pond, error) {
	p := &models.Pond{}
	var nanos []int64
	err := row.Scan(&p.ID, &p.FisherID, &p.Name, &p.Description, &p.Topic, &nanos, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.Intervals = ladderFromNanos(nanos)
	return p, nil
}

func (s *PostgresStore) CreatePond(ctx context.Context, p *models.Pond) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	query := `INSERT INTO ponds (` + pondColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := s.db.Exec(ctx, query,
		p.ID, p.FisherID, p.Name, p.Description, p.Topic, ladderToNanos(p.Intervals), p.CreatedAt, p.UpdatedAt,
	)
	return err
}

func (s *PostgresStore) GetPond(ctx context.Context, id uuid.UUID) (*models.Pond, error) {
	p, err := scanPond(s.db.QueryRow(ctx, `SELECT `+pondColumns+` FROM ponds WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err)
	}
	return p, nil
}

func (s *PostgresStore) ListPondsByFisher(ctx context.Context, fisherID uuid.UUID) ([]*models.Pond, error) {
	query := `SELECT ` + pondColumns + ` FROM ponds WHERE fisher_id = $1 ORDER BY created_at DESC`

	rows, err := s.db.Query(ctx, query, fisherID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ponds []*models.Pond
	for rows.Next() {
		p, err := scanPond(rows)
		if err != nil {
			return nil, err
		}
		ponds = append(ponds, p)
	}
	return ponds, rows.Err()
}

func (s *PostgresStore) UpdatePond(ctx context.Context, p *models.Pond) error {
	query := `UPDATE ponds SET name = $2, description = $3, topic = $4, intervals = $5, updated_at = $6
		WHERE id = $1`

	return expectOne(s.db.Exec(ctx, query,
		p.ID, p.Name, p.Description, p.Topic, ladderToNanos(p.Intervals), p.UpdatedAt,
	))
}

// DeletePond relies on ON DELETE CASCADE for fishes and fishing_sessions
// and ON DELETE SET NULL for fishers.active_session_id.
func (s *PostgresStore) DeletePond(ctx context.Context, id uuid.UUID) error {
	return expectOne(s.db.Exec(ctx, "DELETE FROM ponds WHERE id = $1", id))
}

func (s *PostgresStore) CountFishes(ctx context.Context, pondID uuid.UUID, now time.Time) (int, int, error) {
	query := `SELECT COUNT(*), COUNT(*) FILTER (WHERE next_review_at <= $2)
		FROM fishes WHERE pond_id = $1`

	var total, ready int
	if err := s.db.QueryRow(ctx, query, pondID, now).Scan(&total, &ready); err != nil {
		return 0, 0, err
	}
	return total, ready, nil
}
