package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/ecyclehub/ecyclehub/internal/api/dto"
	"github.com/ecyclehub/ecyclehub/internal/service"
)

// AccountsHandler exposes account creation, login and logout.
type AccountsHandler struct {
	registrations *service.RegistrationService
	auth          *service.AuthService
	currency      string
}

// NewAccountsHandler constructs handler.
func NewAccountsHandler(registrations *service.RegistrationService, authService *service.AuthService, currency string) *AccountsHandler {
	return &AccountsHandler{registrations: registrations, auth: authService, currency: currency}
}

// Register handles POST /api/auth/register.
func (h *AccountsHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	result, err := h.registrations.Submit(c.UserContext(), service.AccountOnly{Account: req.AccountInput()})
	if err != nil {
		return err
	}

	data := fiber.Map{
		"user": dto.UserRef{ID: result.User.ID, Username: result.User.Username},
	}
	if result.Session != nil {
		data["auth"] = dto.NewAuthResponse(result.Session.AccessToken, result.Session.Token.ExpiresAt)
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": data})
}

// Login handles POST /api/auth/login.
func (h *AccountsHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	result, err := h.auth.VerifyCredentials(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"user": dto.UserWithSummaryResponse{
				UserResponse: dto.NewUserResponse(result.User),
				Summary:      dto.NewSummaryResponse(result.Summary, h.currency),
			},
			"auth": dto.NewAuthResponse(result.Session.AccessToken, result.Session.Token.ExpiresAt),
		},
	})
}

// Logout handles POST /api/auth/logout.
func (h *AccountsHandler) Logout(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	if err := h.auth.Logout(c.UserContext(), p.Token); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
