package reward

import (
	"github.com/shopspring/decimal"

	"github.com/ecyclehub/ecyclehub/internal/domain"
)

// Summarize sums the stored weights and rewards of registrations. The stored
// reward is used as-is, never re-derived from the weight.
func Summarize(registrations []domain.Registration) domain.Summary {
	summary := domain.Summary{
		Count:       len(registrations),
		TotalWeight: decimal.Zero,
		TotalReward: decimal.Zero,
	}
	for _, r := range registrations {
		summary.TotalWeight = summary.TotalWeight.Add(r.Weight)
		summary.TotalReward = summary.TotalReward.Add(r.RewardAmount)
	}
	return summary
}
