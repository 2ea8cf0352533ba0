package service

import (
	"context"
	"errors"

	"github.com/ecyclehub/ecyclehub/internal/domain"
	"github.com/ecyclehub/ecyclehub/internal/repository"
	"github.com/ecyclehub/ecyclehub/internal/reward"
	apperrors "github.com/ecyclehub/ecyclehub/pkg/util/errorutil"
)

// Profile is a user with their full history, newest first, and its totals.
type Profile struct {
	User          *domain.User
	Summary       domain.Summary
	Registrations []domain.Registration
}

// ProfileService reads a user's account and registration history.
type ProfileService struct {
	users         repository.UserRepository
	registrations repository.RegistrationRepository
}

func NewProfileService(users repository.UserRepository, registrations repository.RegistrationRepository) *ProfileService {
	return &ProfileService{users: users, registrations: registrations}
}

// GetProfile returns the user, the aggregated summary and the history.
func (s *ProfileService) GetProfile(ctx context.Context, userID int64) (*Profile, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("user", map[string]any{"user_id": userID})
		}
		return nil, apperrors.NewInternalError(err)
	}

	registrations, err := s.registrations.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	return &Profile{
		User:          user,
		Summary:       reward.Summarize(registrations),
		Registrations: registrations,
	}, nil
}

// GetUserSummary returns the user and their totals.
func (s *ProfileService) GetUserSummary(ctx context.Context, userID int64) (*domain.User, domain.Summary, error) {
	profile, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, domain.Summary{}, err
	}
	return profile.User, profile.Summary, nil
}

// ListRegistrations returns the history and its totals.
func (s *ProfileService) ListRegistrations(ctx context.Context, userID int64) ([]domain.Registration, domain.Summary, error) {
	profile, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, domain.Summary{}, err
	}
	return profile.Registrations, profile.Summary, nil
}
