package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DropOffSite is a collection point residents can bring e-waste to.
type DropOffSite struct {
	ID        int64
	Name      string
	Address   string
	Latitude  decimal.Decimal
	Longitude decimal.Decimal
	Schedule  *string
	CreatedAt time.Time
}

// Announcement is a community notice shown on the updates board.
type Announcement struct {
	ID        int64
	Title     string
	Content   string
	Type      *string
	CreatedAt time.Time
	UpdatedAt time.Time
}
