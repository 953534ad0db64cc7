package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"fishing-backend/internal/models"
	"fishing-backend/internal/repository"
)

// TokenIssuer turns a fisher id into the opaque cookie token and back.
type TokenIssuer interface {
	IssueToken(fisherID uuid.UUID) (string, error)
	ParseToken(token string) (uuid.UUID, error)
}

type IdentityService struct {
	store     repository.Store
	tokens    TokenIssuer
	adminHash []byte
	now       func() time.Time
}

func NewIdentityService(store repository.Store, tokens TokenIssuer, adminPasswordHash string) *IdentityService {
	return &IdentityService{
		store:     store,
		tokens:    tokens,
		adminHash: []byte(adminPasswordHash),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Bootstrap resolves token to its fisher. When the token is empty, invalid
// or names a fisher that no longer exists, a new fisher is created and a
// fresh token is returned; otherwise newToken is empty.
func (s *IdentityService) Bootstrap(ctx context.Context, token string) (*models.Fisher, string, error) {
	if token != "" {
		if id, err := s.tokens.ParseToken(token); err == nil {
			f, err := s.store.GetFisher(ctx, id)
			if err == nil {
				return f, "", nil
			}
			if !errors.Is(err, repository.ErrNotFound) {
				return nil, "", fmt.Errorf("get fisher: %w", err)
			}
		}
	}

	f := &models.Fisher{CreatedAt: s.now()}
	if err := s.store.CreateFisher(ctx, f); err != nil {
		return nil, "", fmt.Errorf("create fisher: %w", err)
	}
	newToken, err := s.tokens.IssueToken(f.ID)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}
	return f, newToken, nil
}

func (s *IdentityService) FisherExists(ctx context.Context, id uuid.UUID) (bool, error) {
	_, err := s.store.GetFisher(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *IdentityService) GetFisher(ctx context.Context, id uuid.UUID) (*models.Fisher, error) {
	f, err := s.store.GetFisher(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, &UnauthorizedError{Message: "Unknown fisher"}
	}
	return f, err
}

// GrantAdmin marks the fisher as admin when password matches the configured
// hash. An unset hash rejects every password.
func (s *IdentityService) GrantAdmin(ctx context.Context, fisherID uuid.UUID, req models.AdminRequest) (*models.Fisher, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	if len(s.adminHash) == 0 || bcrypt.CompareHashAndPassword(s.adminHash, []byte(req.Password)) != nil {
		return nil, fieldError("password", "incorrect password")
	}

	if err := s.store.SetAdmin(ctx, fisherID, true); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &UnauthorizedError{Message: "Unknown fisher"}
		}
		return nil, fmt.Errorf("set admin: %w", err)
	}
	return s.GetFisher(ctx, fisherID)
}
