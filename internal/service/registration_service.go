package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ecyclehub/ecyclehub/internal/auth"
	"github.com/ecyclehub/ecyclehub/internal/domain"
	"github.com/ecyclehub/ecyclehub/internal/events"
	"github.com/ecyclehub/ecyclehub/internal/observability"
	"github.com/ecyclehub/ecyclehub/internal/repository"
	"github.com/ecyclehub/ecyclehub/internal/reward"
	"github.com/ecyclehub/ecyclehub/internal/validation"
	apperrors "github.com/ecyclehub/ecyclehub/pkg/util/errorutil"
)

// Submission is one of AccountOnly, JointAccountAndRegistration or
// RegistrationForExistingUser. The endpoint picks the variant; nothing is
// inferred from which fields happen to be present.
type Submission interface {
	submission()
}

// AccountOnly creates a user without a drop-off.
type AccountOnly struct {
	Account validation.AccountInput
}

// JointAccountAndRegistration creates a user and their first drop-off as
// one atomic unit.
type JointAccountAndRegistration struct {
	Account validation.AccountInput
	DropOff validation.DropOffInput
}

// RegistrationForExistingUser records a drop-off for an authenticated user.
// Account fields are not part of this variant.
type RegistrationForExistingUser struct {
	UserID  int64
	DropOff validation.DropOffInput
}

func (AccountOnly) submission()                 {}
func (JointAccountAndRegistration) submission() {}
func (RegistrationForExistingUser) submission() {}

// Session is an issued access token.
type Session struct {
	AccessToken string
	Token       domain.Token
}

// SubmissionResult holds what a committed submission created. User is set
// for variants that create an account, Registration for variants that
// record a drop-off, Session whenever an account was created.
type SubmissionResult struct {
	User         *domain.User
	Registration *domain.Registration
	Session      *Session
}

// RegistrationService is the transaction coordinator for submissions.
type RegistrationService struct {
	tx         repository.TxManager
	hasher     auth.Hasher
	tokens     *auth.TokenManager
	calculator *reward.Calculator
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
}

// RegistrationDependencies bundles collaborators for the registration service.
type RegistrationDependencies struct {
	Tx         repository.TxManager
	Hasher     auth.Hasher
	Tokens     *auth.TokenManager
	Calculator *reward.Calculator
	Dispatcher events.Dispatcher
	Metrics    *observability.Metrics
	Logger     *zap.Logger
}

// NewRegistrationService constructs the service.
func NewRegistrationService(deps RegistrationDependencies) *RegistrationService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RegistrationService{
		tx:         deps.Tx,
		hasher:     deps.Hasher,
		tokens:     deps.Tokens,
		calculator: deps.Calculator,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		logger:     logger,
	}
}

// plan is a validated submission ready to be written.
type plan struct {
	user         *domain.User
	registration *domain.Registration
	ownerID      int64
}

// Submit validates the submission, hashes credentials and writes the user
// and registration in one unit of work. Events, metrics and the session are
// produced only after commit.
func (s *RegistrationService) Submit(ctx context.Context, sub Submission) (*SubmissionResult, error) {
	p, err := s.prepare(sub)
	if err != nil {
		return nil, toDomainError(err, s.metrics)
	}

	err = s.tx.RunInTx(ctx, func(ctx context.Context, stores repository.Stores) error {
		if p.user != nil {
			if err := stores.Users().Create(ctx, p.user); err != nil {
				return err
			}
			p.ownerID = p.user.ID
		}
		if p.registration != nil {
			p.registration.UserID = p.ownerID
			if err := stores.Registrations().Create(ctx, p.registration); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, toDomainError(err, s.metrics)
	}

	result := &SubmissionResult{User: p.user, Registration: p.registration}
	s.afterCommit(ctx, result)
	return result, nil
}

func (s *RegistrationService) prepare(sub Submission) (*plan, error) {
	switch v := sub.(type) {
	case AccountOnly:
		account, err := validation.ValidateAccount(v.Account)
		if err != nil {
			return nil, err
		}
		user, err := s.newUser(account)
		if err != nil {
			return nil, err
		}
		return &plan{user: user}, nil

	case JointAccountAndRegistration:
		account, dropOff, err := validation.ValidateJoint(v.Account, v.DropOff)
		if err != nil {
			return nil, err
		}
		user, err := s.newUser(account)
		if err != nil {
			return nil, err
		}
		return &plan{user: user, registration: s.newRegistration(dropOff)}, nil

	case RegistrationForExistingUser:
		if v.UserID <= 0 {
			return nil, apperrors.NewUnauthorized("authentication required")
		}
		dropOff, err := validation.ValidateDropOff(v.DropOff)
		if err != nil {
			return nil, err
		}
		return &plan{registration: s.newRegistration(dropOff), ownerID: v.UserID}, nil

	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedSubmission, sub)
	}
}

// newUser hashes the password and the normalized security answer. Hashing
// happens here, before any connection is taken from the pool.
func (s *RegistrationService) newUser(account validation.Account) (*domain.User, error) {
	passwordHash, err := s.hasher.Hash(account.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	answerHash, err := s.hasher.Hash(validation.NormalizeSecurityAnswer(account.SecurityAnswer))
	if err != nil {
		return nil, fmt.Errorf("hash security answer: %w", err)
	}
	return &domain.User{
		Username:           account.Username,
		Email:              account.Email,
		PasswordHash:       passwordHash,
		FirstName:          account.FirstName,
		LastName:           account.LastName,
		Contact:            account.Contact,
		PhotoURL:           account.PhotoURL,
		SecurityQuestion:   account.SecurityQuestion,
		SecurityAnswerHash: answerHash,
	}, nil
}

func (s *RegistrationService) newRegistration(d validation.DropOff) *domain.Registration {
	policy := s.calculator.Policy()
	return &domain.Registration{
		FirstName:    d.FirstName,
		MiddleName:   d.MiddleName,
		LastName:     d.LastName,
		Suffix:       d.Suffix,
		Address:      d.Address,
		Age:          d.Age,
		Contact:      d.Contact,
		EWasteType:   d.EWasteType,
		Weight:       d.Weight,
		PhotoURL:     d.PhotoURL,
		Consent:      d.Consent,
		RewardAmount: s.calculator.Reward(d.Weight),
		RewardRate:   policy.RatePerKg,
		RewardPolicy: policy.Version,
	}
}

func (s *RegistrationService) afterCommit(ctx context.Context, result *SubmissionResult) {
	if user := result.User; user != nil {
		s.metrics.RecordAccountCreated()
		s.publishEvent(ctx, events.New(events.EventAccountCreated, user.ID, events.AccountCreatedPayload{
			Username: user.Username,
			Email:    user.Email,
		}))

		session, err := issueSession(s.tokens, user.ID)
		if err != nil {
			// The account is committed; the caller can still log in.
			s.logger.Error("issue session after account creation", zap.Int64("user_id", user.ID), zap.Error(err))
		} else {
			result.Session = session
		}
	}

	if reg := result.Registration; reg != nil {
		kilograms, _ := reg.Weight.Float64()
		s.metrics.RecordRegistration(kilograms)
		s.publishEvent(ctx, events.New(events.EventRegistrationRecorded, reg.UserID, events.RegistrationRecordedPayload{
			RegistrationID: reg.ID,
			EWasteType:     reg.EWasteType,
			Weight:         reward.FormatAmount(reg.Weight),
			RewardAmount:   reward.FormatAmount(reg.RewardAmount),
			RewardPolicy:   reg.RewardPolicy,
			Currency:       s.calculator.Policy().Currency,
		}))
	}
}

func (s *RegistrationService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handler failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}

func issueSession(tokens *auth.TokenManager, userID int64) (*Session, error) {
	raw, token, err := tokens.GenerateToken(userID)
	if err != nil {
		return nil, err
	}
	return &Session{AccessToken: raw, Token: token}, nil
}
