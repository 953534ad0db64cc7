package models

import (
	"time"

	"github.com/google/uuid"
)

// Fisher is the identity behind an access_token cookie. There is no
// registration step; a fisher is created on first contact.
type Fisher struct {
	ID            uuid.UUID     `json:"id"`
	IsAdmin       bool          `json:"is_admin"`
	ActiveSession ActiveSession `json:"-"`
	CreatedAt     time.Time     `json:"created_at"`
}

// ActiveSession is either "no session" or the id of the one running
// fishing session. The zero value is "no session".
type ActiveSession struct {
	id  uuid.UUID
	set bool
}

func NoSession() ActiveSession {
	return ActiveSession{}
}

func ActiveSessionOf(id uuid.UUID) ActiveSession {
	return ActiveSession{id: id, set: true}
}

// ActiveSessionFromNull converts the nullable column representation.
func ActiveSessionFromNull(n uuid.NullUUID) ActiveSession {
	if !n.Valid {
		return NoSession()
	}
	return ActiveSessionOf(n.UUID)
}

func (a ActiveSession) ID() (uuid.UUID, bool) {
	return a.id, a.set
}

func (a ActiveSession) IsActive() bool {
	return a.set
}

func (a ActiveSession) NullUUID() uuid.NullUUID {
	return uuid.NullUUID{UUID: a.id, Valid: a.set}
}

type AdminRequest struct {
	Password string `json:"password" validate:"required"`
}
