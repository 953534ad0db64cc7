package repository

import (
	"context"

	"github.com/google/uuid"

	"fishing-backend/internal/models"
)

func (s *PostgresStore) CreateFisher(ctx context.Context, f *models.Fisher) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	query := `INSERT INTO fishers (id, is_admin, active_session_id, created_at)
		VALUES ($1, $2, $3, $4)`

	_, err := s.db.Exec(ctx, query, f.ID, f.IsAdmin, f.ActiveSession.NullUUID(), f.CreatedAt)
	return err
}

func (s *PostgresStore) GetFisher(ctx context.Context, id uuid.UUID) (*models.Fisher, error) {
	return s.scanFisher(ctx, `SELECT id, is_admin, active_session_id, created_at
		FROM fishers WHERE id = $1`, id)
}

func (s *PostgresStore) LockFisher(ctx context.Context, id uuid.UUID) (*models.Fisher, error) {
	return s.scanFisher(ctx, `SELECT id, is_admin, active_session_id, created_at
		FROM fishers WHERE id = $1 FOR UPDATE`, id)
}

func (s *PostgresStore) scanFisher(ctx context.Context, query string, id uuid.UUID) (*models.Fisher, error) {
	f := &models.Fisher{}
	var active uuid.NullUUID
	err := s.db.QueryRow(ctx, query, id).Scan(&f.ID, &f.IsAdmin, &active, &f.CreatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	f.ActiveSession = models.ActiveSessionFromNull(active)
	return f, nil
}

func (s *PostgresStore) SetActiveSession(ctx context.Context, fisherID uuid.UUID, a models.ActiveSession) error {
	return expectOne(s.db.Exec(ctx,
		"UPDATE fishers SET active_session_id = $2 WHERE id = $1", fisherID, a.NullUUID()))
}

func (s *PostgresStore) SetAdmin(ctx context.Context, fisherID uuid.UUID, isAdmin bool) error {
	return expectOne(s.db.Exec(ctx,
		"UPDATE fishers SET is_admin = $2 WHERE id = $1", fisherID, isAdmin))
}
