// Package session persists conversation transcripts as JSON files so the
// recall index can search past runs.
package session

import (
	"time"

	"github.com/google/uuid"

	"github.com/Sma1lboy/ArcticAI/internal/agent"
)

// Session is one persisted conversation transcript.
type Session struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	History   []agent.Message `json:"history"`
	Summary   string          `json:"summary,omitempty"`
}

// SessionMeta is a lightweight representation for listing.
type SessionMeta struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Summary   string    `json:"summary,omitempty"`
}

// New creates an empty session with a fresh id.
func New(title string) *Session {
	now := time.Now().UTC()
	return &Session{
		ID:        uuid.New().String(),
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Append records messages onto the transcript and bumps UpdatedAt.
func (s *Session) Append(msgs ...agent.Message) {
	s.History = append(s.History, msgs...)
	s.UpdatedAt = time.Now().UTC()
}
