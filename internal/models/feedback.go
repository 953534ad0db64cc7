package models

import (
	"time"

	"github.com/google/uuid"
)

type Feedback struct {
	ID        uuid.UUID  `json:"id"`
	FisherID  uuid.UUID  `json:"user_id"`
	Type      string     `json:"type"` // "bug" | "idea" | "other"
	Text      string     `json:"text"`
	Solved    bool       `json:"solved"`
	Solution  string     `json:"solution"`
	CreatedAt time.Time  `json:"created_at"`
	SolvedAt  *time.Time `json:"solved_at"`
}

type FeedbackRequest struct {
	Type string `json:"type" validate:"required,oneof=bug idea other"`
	Text string `json:"text" validate:"required,max=2048"`
}

type SolveFeedbackRequest struct {
	Solution string `json:"solution" validate:"required,max=2048"`
}
