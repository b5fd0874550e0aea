package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/registry-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventSubmissionCreated EventType = "submission_created"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// SubmissionCreatedPayload carries a copy of the persisted submission.
type SubmissionCreatedPayload struct {
	Submission domain.Submission `json:"submission"`
}

// NewSubmissionCreated builds the event for a stored submission.
func NewSubmissionCreated(submission domain.Submission) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      EventSubmissionCreated,
		Timestamp: time.Now().UTC(),
		Payload:   SubmissionCreatedPayload{Submission: submission},
	}
}
