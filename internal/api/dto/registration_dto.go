package dto

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/ecyclehub/ecyclehub/internal/domain"
	"github.com/ecyclehub/ecyclehub/internal/reward"
	"github.com/ecyclehub/ecyclehub/internal/validation"
)

// Numeric keeps the text of a JSON number or string so the validator can
// report bad input as a field violation rather than a decode failure.
type Numeric string

func (n *Numeric) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*n = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = Numeric(s)
	default:
		*n = Numeric(data)
	}
	return nil
}

// DropOffFields is the e-waste field group.
type DropOffFields struct {
	FirstName  string  `json:"first_name"`
	MiddleName string  `json:"middle_name"`
	LastName   string  `json:"last_name"`
	Suffix     string  `json:"suffix"`
	Address    string  `json:"address"`
	Age        Numeric `json:"age"`
	Contact    string  `json:"contact"`
	EWasteType string  `json:"e_waste_type"`
	Weight     Numeric `json:"weight"`
	PhotoURL   string  `json:"photo_url"`
	Consent    bool    `json:"consent"`
}

// DropOffInput maps the group to the validator input.
func (f DropOffFields) DropOffInput() validation.DropOffInput {
	return validation.DropOffInput{
		FirstName:  f.FirstName,
		MiddleName: f.MiddleName,
		LastName:   f.LastName,
		Suffix:     f.Suffix,
		Address:    f.Address,
		Age:        string(f.Age),
		Contact:    f.Contact,
		EWasteType: f.EWasteType,
		Weight:     string(f.Weight),
		PhotoURL:   f.PhotoURL,
		Consent:    f.Consent,
	}
}

// JointRegistrationRequest creates an account and its first drop-off. Names,
// contact and photo are shared by both groups.
type JointRegistrationRequest struct {
	Username         string `json:"username"`
	Email            string `json:"email"`
	Password         string `json:"password"`
	ConfirmPassword  string `json:"confirm_password"`
	SecurityQuestion string `json:"security_question"`
	SecurityAnswer   string `json:"security_answer"`
	DropOffFields
}

func (r JointRegistrationRequest) AccountInput() validation.AccountInput {
	return validation.AccountInput{
		Username:         r.Username,
		Email:            r.Email,
		Password:         r.Password,
		ConfirmPassword:  r.ConfirmPassword,
		FirstName:        r.FirstName,
		LastName:         r.LastName,
		Contact:          r.Contact,
		PhotoURL:         r.PhotoURL,
		SecurityQuestion: r.SecurityQuestion,
		SecurityAnswer:   r.SecurityAnswer,
	}
}

// ExistingRegistrationRequest records a drop-off for the caller. UserID is
// optional and must match the caller when present.
type ExistingRegistrationRequest struct {
	UserID *int64 `json:"user_id"`
	DropOffFields
}

// RegistrationResponse renders a stored registration. Weight keeps its
// stored precision; money is shown with two fractional digits.
type RegistrationResponse struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"user_id"`
	FirstName    string    `json:"first_name"`
	MiddleName   *string   `json:"middle_name"`
	LastName     string    `json:"last_name"`
	Suffix       *string   `json:"suffix"`
	Address      string    `json:"address"`
	Age          int       `json:"age"`
	Contact      *string   `json:"contact"`
	EWasteType   string    `json:"e_waste_type"`
	Weight       string    `json:"weight"`
	PhotoURL     *string   `json:"photo_url"`
	Consent      bool      `json:"consent"`
	RewardAmount string    `json:"reward_amount"`
	RewardRate   string    `json:"reward_rate"`
	RewardPolicy string    `json:"reward_policy"`
	CreatedAt    time.Time `json:"created_at"`
}

func NewRegistrationResponse(r *domain.Registration) RegistrationResponse {
	return RegistrationResponse{
		ID:           r.ID,
		UserID:       r.UserID,
		FirstName:    r.FirstName,
		MiddleName:   r.MiddleName,
		LastName:     r.LastName,
		Suffix:       r.Suffix,
		Address:      r.Address,
		Age:          r.Age,
		Contact:      r.Contact,
		EWasteType:   r.EWasteType,
		Weight:       r.Weight.String(),
		PhotoURL:     r.PhotoURL,
		Consent:      r.Consent,
		RewardAmount: reward.FormatAmount(r.RewardAmount),
		RewardRate:   reward.FormatAmount(r.RewardRate),
		RewardPolicy: r.RewardPolicy,
		CreatedAt:    r.CreatedAt,
	}
}

func NewRegistrationList(regs []domain.Registration) []RegistrationResponse {
	out := make([]RegistrationResponse, 0, len(regs))
	for i := range regs {
		out = append(out, NewRegistrationResponse(&regs[i]))
	}
	return out
}

// SummaryResponse renders aggregated totals.
type SummaryResponse struct {
	RegistrationCount int    `json:"registration_count"`
	TotalWeight       string `json:"total_weight"`
	TotalReward       string `json:"total_reward"`
	Currency          string `json:"currency"`
}

func NewSummaryResponse(s domain.Summary, currency string) SummaryResponse {
	return SummaryResponse{
		RegistrationCount: s.Count,
		TotalWeight:       reward.FormatAmount(s.TotalWeight),
		TotalReward:       reward.FormatAmount(s.TotalReward),
		Currency:          currency,
	}
}
