package dto

import (
	"time"

	"github.com/ecyclehub/ecyclehub/internal/domain"
	"github.com/ecyclehub/ecyclehub/internal/validation"
)

// RegisterRequest payload for account-only creation.
type RegisterRequest struct {
	Username         string `json:"username"`
	Email            string `json:"email"`
	Password         string `json:"password"`
	ConfirmPassword  string `json:"confirm_password"`
	FirstName        string `json:"first_name"`
	LastName         string `json:"last_name"`
	Contact          string `json:"contact"`
	PhotoURL         string `json:"photo_url"`
	SecurityQuestion string `json:"security_question"`
	SecurityAnswer   string `json:"security_answer"`
}

// AccountInput maps the payload to the validator input.
func (r RegisterRequest) AccountInput() validation.AccountInput {
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

// LoginRequest payload for login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string    `json:"token"`
	TokenType string    `json:"token_type"`
	ExpiresAt time.Time `json:"expires_at"`
}

// NewAuthResponse wraps an issued token.
func NewAuthResponse(token string, expiresAt time.Time) AuthResponse {
	return AuthResponse{Token: token, TokenType: "Bearer", ExpiresAt: expiresAt}
}

// UserRef is the minimal user shape returned after account creation.
type UserRef struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// UserResponse is the public user shape. Hashes never leave the service.
type UserResponse struct {
	ID               int64     `json:"id"`
	Username         string    `json:"username"`
	Email            string    `json:"email"`
	FirstName        string    `json:"first_name"`
	LastName         string    `json:"last_name"`
	Contact          *string   `json:"contact"`
	PhotoURL         *string   `json:"photo_url"`
	SecurityQuestion string    `json:"security_question"`
	CreatedAt        time.Time `json:"created_at"`
}

func NewUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:               u.ID,
		Username:         u.Username,
		Email:            u.Email,
		FirstName:        u.FirstName,
		LastName:         u.LastName,
		Contact:          u.Contact,
		PhotoURL:         u.PhotoURL,
		SecurityQuestion: u.SecurityQuestion,
		CreatedAt:        u.CreatedAt,
	}
}

// UserWithSummaryResponse is returned on login.
type UserWithSummaryResponse struct {
	UserResponse
	Summary SummaryResponse `json:"summary"`
}
