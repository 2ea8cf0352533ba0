package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/ecyclehub/ecyclehub/internal/auth"
	"github.com/ecyclehub/ecyclehub/internal/domain"
	"github.com/ecyclehub/ecyclehub/internal/repository"
	"github.com/ecyclehub/ecyclehub/internal/reward"
	"github.com/ecyclehub/ecyclehub/internal/validation"
	apperrors "github.com/ecyclehub/ecyclehub/pkg/util/errorutil"
)

const (
	invalidCredentialsMessage = "invalid credentials"
	dummyPassword             = "ecyclehub-dummy-password"
)

// LoginResult is a verified user with their aggregated history and a new
// session.
type LoginResult struct {
	User    *domain.User
	Summary domain.Summary
	Session *Session
}

// AuthService coordinates login and logout flows.
type AuthService struct {
	users         repository.UserRepository
	registrations repository.RegistrationRepository
	hasher        auth.Hasher
	tokens        *auth.TokenManager
	revoked       auth.RevocationStore
	logger        *zap.Logger
	dummyHash     string
}

// AuthDependencies encapsulates repo requirements for auth service.
type AuthDependencies struct {
	UserRepo         repository.UserRepository
	RegistrationRepo repository.RegistrationRepository
	Hasher           auth.Hasher
	Tokens           *auth.TokenManager
	Revocations      auth.RevocationStore
	Logger           *zap.Logger
}

// NewAuthService builds the service. It hashes a throwaway password once so
// unknown usernames can be compared against a real hash.
func NewAuthService(deps AuthDependencies) (*AuthService, error) {
	dummyHash, err := deps.Hasher.Hash(dummyPassword)
	if err != nil {
		return nil, fmt.Errorf("prepare dummy hash: %w", err)
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		users:         deps.UserRepo,
		registrations: deps.RegistrationRepo,
		hasher:        deps.Hasher,
		tokens:        deps.Tokens,
		revoked:       deps.Revocations,
		logger:        logger,
		dummyHash:     dummyHash,
	}, nil
}

// VerifyCredentials authenticates a user by username and password. An
// unknown username and a wrong password produce the same error after the
// same amount of hashing work.
func (s *AuthService) VerifyCredentials(ctx context.Context, username, password string) (*LoginResult, error) {
	if err := validation.ValidateCredentials(username, password); err != nil {
		return nil, toDomainError(err, nil)
	}

	user, err := s.users.GetByUsername(ctx, validation.NormalizeIdentifier(username))
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewInternalError(err)
		}
		_ = s.hasher.Compare(s.dummyHash, password)
		return nil, apperrors.NewUnauthorized(invalidCredentialsMessage)
	}
	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		return nil, apperrors.NewUnauthorized(invalidCredentialsMessage)
	}

	registrations, err := s.registrations.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	session, err := issueSession(s.tokens, user.ID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	return &LoginResult{User: user, Summary: reward.Summarize(registrations), Session: session}, nil
}

// Logout revokes the token until it would have expired anyway.
func (s *AuthService) Logout(ctx context.Context, token domain.Token) error {
	if s.revoked == nil {
		return nil
	}
	if err := s.revoked.Revoke(ctx, token.ID, token.ExpiresAt); err != nil {
		return apperrors.NewInternalError(err)
	}
	s.logger.Info("session revoked", zap.Int64("user_id", token.UserID), zap.String("token_id", token.ID))
	return nil
}
