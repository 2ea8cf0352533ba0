package dto

import (
	"time"

	"github.com/ecyclehub/ecyclehub/internal/domain"
	"github.com/ecyclehub/ecyclehub/internal/reward"
)

type DropOffSiteResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	Latitude  string    `json:"latitude"`
	Longitude string    `json:"longitude"`
	Schedule  *string   `json:"schedule"`
	CreatedAt time.Time `json:"created_at"`
}

func NewDropOffSiteList(sites []domain.DropOffSite) []DropOffSiteResponse {
	out := make([]DropOffSiteResponse, 0, len(sites))
	for _, s := range sites {
		out = append(out, DropOffSiteResponse{
			ID:        s.ID,
			Name:      s.Name,
			Address:   s.Address,
			Latitude:  s.Latitude.String(),
			Longitude: s.Longitude.String(),
			Schedule:  s.Schedule,
			CreatedAt: s.CreatedAt,
		})
	}
	return out
}

type AnnouncementResponse struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Type      *string   `json:"type"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewAnnouncementList(items []domain.Announcement) []AnnouncementResponse {
	out := make([]AnnouncementResponse, 0, len(items))
	for _, a := range items {
		out = append(out, AnnouncementResponse{
			ID:        a.ID,
			Title:     a.Title,
			Content:   a.Content,
			Type:      a.Type,
			CreatedAt: a.CreatedAt,
			UpdatedAt: a.UpdatedAt,
		})
	}
	return out
}

// QuoteRequest asks for the reward of a weight.
type QuoteRequest struct {
	Weight Numeric `json:"weight"`
}

type QuoteResponse struct {
	Weight        string `json:"weight"`
	RewardAmount  string `json:"reward_amount"`
	RatePerKg     string `json:"rate_per_kg"`
	Currency      string `json:"currency"`
	PolicyVersion string `json:"policy_version"`
}

func NewQuoteResponse(weight, amount string, policy reward.Policy) QuoteResponse {
	return QuoteResponse{
		Weight:        weight,
		RewardAmount:  amount,
		RatePerKg:     reward.FormatAmount(policy.RatePerKg),
		Currency:      policy.Currency,
		PolicyVersion: policy.Version,
	}
}
