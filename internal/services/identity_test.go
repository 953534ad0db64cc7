package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"fishing-backend/internal/models"
	"fishing-backend/internal/repository"
)

// stubTokens encodes the fisher id as the token itself.
type stubTokens struct{}

func (stubTokens) IssueToken(id uuid.UUID) (string, error) { return "tok-" + id.String(), nil }

func (stubTokens) ParseToken(token string) (uuid.UUID, error) {
	if len(token) < 4 || token[:4] != "tok-" {
		return uuid.Nil, errors.New("bad token")
	}
	return uuid.Parse(token[4:])
}

func TestBootstrap(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	svc := NewIdentityService(store, stubTokens{}, "")

	fisher, token, err := svc.Bootstrap(ctx, "")
	if err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}
	if token == "" || fisher.ID == uuid.Nil {
		t.Fatal("Expected a new fisher and token")
	}

	again, newToken, err := svc.Bootstrap(ctx, token)
	if err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}
	if again.ID != fisher.ID || newToken != "" {
		t.Errorf("Expected the same fisher without a new token, got %s / %q", again.ID, newToken)
	}

	stale, staleToken, _ := svc.Bootstrap(ctx, "tok-"+uuid.NewString())
	if stale.ID == fisher.ID || staleToken == "" {
		t.Error("Expected a fresh fisher for a token naming a missing fisher")
	}

	_, junkToken, _ := svc.Bootstrap(ctx, "junk")
	if junkToken == "" {
		t.Error("Expected a fresh token for an unparseable cookie")
	}
}

func TestFisherExists(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	svc := NewIdentityService(store, stubTokens{}, "")
	f := &models.Fisher{}
	store.CreateFisher(ctx, f)

	if ok, err := svc.FisherExists(ctx, f.ID); !ok || err != nil {
		t.Errorf("Expected existing fisher, got %v / %v", ok, err)
	}
	if ok, err := svc.FisherExists(ctx, uuid.New()); ok || err != nil {
		t.Errorf("Expected missing fisher, got %v / %v", ok, err)
	}
}

func TestGrantAdmin(t *testing.T) {
	ctx := context.Background()
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	store := repository.NewMemoryStore()
	svc := NewIdentityService(store, stubTokens{}, string(hash))
	f := &models.Fisher{}
	store.CreateFisher(ctx, f)

	_, err = svc.GrantAdmin(ctx, f.ID, models.AdminRequest{Password: "wrong"})
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Fields["password"] != "incorrect password" {
		t.Errorf("Expected incorrect password, got %v", err)
	}

	_, err = svc.GrantAdmin(ctx, f.ID, models.AdminRequest{})
	if !errors.As(err, &verr) || verr.Fields["password"] == "" {
		t.Errorf("Expected required password, got %v", err)
	}

	got, err := svc.GrantAdmin(ctx, f.ID, models.AdminRequest{Password: "hunter2"})
	if err != nil {
		t.Fatalf("GrantAdmin: %v", err)
	}
	if !got.IsAdmin {
		t.Error("Expected admin flag")
	}
}

func TestGrantAdmin_NoHashConfigured(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	svc := NewIdentityService(store, stubTokens{}, "")
	f := &models.Fisher{}
	store.CreateFisher(ctx, f)

	_, err := svc.GrantAdmin(ctx, f.ID, models.AdminRequest{Password: "anything"})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Errorf("Expected every password to be rejected, got %v", err)
	}
}

func TestFeedbackService(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	svc := NewFeedbackService(store)
	user := &models.Fisher{}
	admin := &models.Fisher{IsAdmin: true}
	store.CreateFisher(ctx, user)
	store.CreateFisher(ctx, admin)

	fb, err := svc.Submit(ctx, user.ID, models.FeedbackRequest{Type: "bug", Text: "button is off"})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	_, err = svc.Submit(ctx, user.ID, models.FeedbackRequest{Type: "rant", Text: "x"})
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Fields["type"] == "" {
		t.Errorf("Expected type validation error, got %v", err)
	}

	_, err = svc.List(ctx, user.ID, false)
	var forbidden *ForbiddenError
	if !errors.As(err, &forbidden) {
		t.Errorf("Expected ForbiddenError for non-admin, got %v", err)
	}

	items, err := svc.List(ctx, admin.ID, true)
	if err != nil || len(items) != 1 {
		t.Fatalf("Expected one open item, got %d / %v", len(items), err)
	}

	solved, err := svc.Solve(ctx, admin.ID, fb.ID, models.SolveFeedbackRequest{Solution: "moved it"})
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if !solved.Solved || solved.SolvedAt == nil {
		t.Errorf("Expected solved feedback, got %+v", solved)
	}

	_, err = svc.Solve(ctx, admin.ID, uuid.New(), models.SolveFeedbackRequest{Solution: "x"})
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Errorf("Expected NotFoundError, got %v", err)
	}
}
