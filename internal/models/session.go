package models

import (
	"time"

	"github.com/google/uuid"
)

// FishingSession binds a fisher to the one fish currently being reviewed.
type FishingSession struct {
	ID        uuid.UUID `json:"id"`
	FisherID  uuid.UUID `json:"user_id"`
	PondID    uuid.UUID `json:"pond_id"`
	FishID    uuid.UUID `json:"fish_id"`
	StartedAt time.Time `json:"started_at"`
}
