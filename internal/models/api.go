package models

import "github.com/google/uuid"

// WebSocket message types
type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

const (
	EventSessionStarted = "session_started"
	EventSessionClosed  = "session_closed"
	EventPondSeeded     = "pond_seeded"
)

type SessionEvent struct {
	SessionID uuid.UUID `json:"session_id"`
	PondID    uuid.UUID `json:"pond_id"`
	FishID    uuid.UUID `json:"fish_id"`
}

type PondSeededEvent struct {
	PondID uuid.UUID `json:"pond_id"`
	Count  int       `json:"count"`
}

// API Error response
type APIError struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id"`
}

type ErrorResponse struct {
	Error APIError `json:"error"`
}
