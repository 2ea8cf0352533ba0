package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Registration is a single e-waste drop-off. The submitter names may differ
// from the owning user's names.
type Registration struct {
	ID           int64
	UserID       int64
	FirstName    string
	MiddleName   *string
	LastName     string
	Suffix       *string
	Address      string
	Age          int
	Contact      *string
	EWasteType   string
	Weight       decimal.Decimal
	PhotoURL     *string
	Consent      bool
	RewardAmount decimal.Decimal
	RewardRate   decimal.Decimal
	RewardPolicy string
	CreatedAt    time.Time
}

// Summary aggregates a user's registration history.
type Summary struct {
	Count       int
	TotalWeight decimal.Decimal
	TotalReward decimal.Decimal
}
