package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"fishing-backend/internal/models"
)

func (s *PostgresStore) CreateSession(ctx context.Context, fs *models.FishingSession) error {
	if fs.ID == uuid.Nil {
		fs.ID = uuid.New()
	}
	query := `INSERT INTO fishing_sessions (id, fisher_id, pond_id, fish_id, started_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := s.db.Exec(ctx, query, fs.ID, fs.FisherID, fs.PondID, fs.FishID, fs.StartedAt)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return ErrSessionExists
	}
	return err
}

func (s *PostgresStore) GetSession(ctx context.Context, id uuid.UUID) (*models.FishingSession, error) {
	fs := &models.FishingSession{}
	query := `SELECT id, fisher_id, pond_id, fish_id, started_at FROM fishing_sessions WHERE id = $1`

	err := s.db.QueryRow(ctx, query, id).Scan(&fs.ID, &fs.FisherID, &fs.PondID, &fs.FishID, &fs.StartedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return fs, nil
}

func (s *PostgresStore) DeleteSession(ctx context.Context, id uuid.UUID) error {
	return expectOne(s.db.Exec(ctx, "DELETE FROM fishing_sessions WHERE id = $1", id))
}
