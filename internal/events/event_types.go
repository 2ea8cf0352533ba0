package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventAccountCreated       EventType = "account_created"
	EventRegistrationRecorded EventType = "registration_recorded"
)

// Event represents a domain event emitted by services after a unit of work
// has committed.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	UserID    int64       `json:"user_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// New stamps an event with a fresh id and the current time.
func New(eventType EventType, userID int64, payload interface{}) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		UserID:    userID,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// AccountCreatedPayload payload.
type AccountCreatedPayload struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// RegistrationRecordedPayload payload. Amounts are rendered with two
// fractional digits.
type RegistrationRecordedPayload struct {
	RegistrationID int64  `json:"registration_id"`
	EWasteType     string `json:"e_waste_type"`
	Weight         string `json:"weight"`
	RewardAmount   string `json:"reward_amount"`
	RewardPolicy   string `json:"reward_policy"`
	Currency       string `json:"currency"`
}
