package models

import (
	"time"

	"github.com/google/uuid"
)

const MaxFishTextLen = 1024

type Fish struct {
	ID           uuid.UUID `json:"id"`
	PondID       uuid.UUID `json:"pond_id"`
	Question     string    `json:"question"`
	Answer       string    `json:"answer"`
	Repetitions  int       `json:"repetitions"`
	DepthLevel   int       `json:"depth_level"`
	IntervalDays int       `json:"interval"`
	EaseFactor   float64   `json:"ease_factor"`
	NextReviewAt time.Time `json:"next_review_date"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	// Ready is derived from NextReviewAt and is never persisted.
	Ready bool `json:"ready"`
}

// Refresh recomputes Ready against now.
func (f *Fish) Refresh(now time.Time) {
	f.Ready = !now.Before(f.NextReviewAt)
}

type FishRequest struct {
	Question string `json:"question" validate:"required,max=1024"`
	Answer   string `json:"answer" validate:"required,max=1024"`
}

type CaughtRequest struct {
	Quality *int `json:"quality"`
}
