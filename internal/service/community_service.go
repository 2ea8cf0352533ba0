package service

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ecyclehub/ecyclehub/internal/domain"
	"github.com/ecyclehub/ecyclehub/internal/repository"
	"github.com/ecyclehub/ecyclehub/internal/reward"
	"github.com/ecyclehub/ecyclehub/internal/validation"
	apperrors "github.com/ecyclehub/ecyclehub/pkg/util/errorutil"
)

// Quote is the reward a weight would earn under the active policy.
type Quote struct {
	Weight decimal.Decimal
	Amount decimal.Decimal
	Policy reward.Policy
}

// CommunityService serves the public catalogue and reward quotes.
type CommunityService struct {
	community  repository.CommunityRepository
	calculator *reward.Calculator
}

func NewCommunityService(community repository.CommunityRepository, calculator *reward.Calculator) *CommunityService {
	return &CommunityService{community: community, calculator: calculator}
}

func (s *CommunityService) ListDropOffSites(ctx context.Context) ([]domain.DropOffSite, error) {
	sites, err := s.community.ListDropOffSites(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return sites, nil
}

func (s *CommunityService) ListAnnouncements(ctx context.Context, limit int) ([]domain.Announcement, error) {
	announcements, err := s.community.ListAnnouncements(ctx, limit)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return announcements, nil
}

// QuoteReward applies the weight rules of a drop-off and returns the reward
// without persisting anything.
func (s *CommunityService) QuoteReward(weight string) (*Quote, error) {
	w, err := validation.ValidateWeight(strings.TrimSpace(weight))
	if err != nil {
		return nil, toDomainError(err, nil)
	}
	return &Quote{Weight: w, Amount: s.calculator.Reward(w), Policy: s.calculator.Policy()}, nil
}

// Policy returns the active reward policy.
func (s *CommunityService) Policy() reward.Policy {
	return s.calculator.Policy()
}
