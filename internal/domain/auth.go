package domain

import "time"

// Token represents issued session token metadata.
type Token struct {
	ID        string
	UserID    int64
	ExpiresAt time.Time
	IssuedAt  time.Time
}
