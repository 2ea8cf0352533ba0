// Package reward derives the monetary reward for recycled weight and
// aggregates a user's registration history.
package reward

import (
	"errors"

	"github.com/shopspring/decimal"
)

// DisplayPlaces is the number of fractional digits used when presenting
// amounts and weights. Stored values keep full precision.
const DisplayPlaces = 2

// ErrInvalidRate is returned for a rate that is not strictly positive.
var ErrInvalidRate = errors.New("reward rate must be greater than zero")

// Policy is the versioned reward configuration.
type Policy struct {
	Version   string
	RatePerKg decimal.Decimal
	Currency  string
}

// Calculator applies a single Policy.
type Calculator struct {
	policy Policy
}

// NewCalculator validates the policy rate.
func NewCalculator(policy Policy) (*Calculator, error) {
	if !policy.RatePerKg.IsPositive() {
		return nil, ErrInvalidRate
	}
	return &Calculator{policy: policy}, nil
}

// Compute returns weight * rate without rounding.
func Compute(weight, rate decimal.Decimal) decimal.Decimal {
	return weight.Mul(rate)
}

// Reward returns the reward for weight under the calculator's policy.
func (c *Calculator) Reward(weight decimal.Decimal) decimal.Decimal {
	return Compute(weight, c.policy.RatePerKg)
}

// Policy returns the active policy.
func (c *Calculator) Policy() Policy {
	return c.policy
}

// FormatAmount renders d with DisplayPlaces fractional digits.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(DisplayPlaces)
}
