package domain

import "time"

// User is a resident account that owns e-waste registrations.
// Username and Email are stored normalized (trimmed, lowercased).
type User struct {
	ID                 int64
	Username           string
	Email              string
	PasswordHash       string
	FirstName          string
	LastName           string
	Contact            *string
	PhotoURL           *string
	SecurityQuestion   string
	SecurityAnswerHash string
	CreatedAt          time.Time
}
