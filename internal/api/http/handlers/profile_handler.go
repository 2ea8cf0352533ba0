package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ecyclehub/ecyclehub/internal/api/dto"
	"github.com/ecyclehub/ecyclehub/internal/auth"
	"github.com/ecyclehub/ecyclehub/internal/service"
)

// ProfileHandler serves a user's own profile and history. Routes are
// guarded by auth.RequireSelf.
type ProfileHandler struct {
	profiles *service.ProfileService
	currency string
}

func NewProfileHandler(profiles *service.ProfileService, currency string) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, currency: currency}
}

// GetProfile handles GET /api/users/:userId.
func (h *ProfileHandler) GetProfile(c *fiber.Ctx) error {
	userID, err := auth.ParseUserID(c.Params("userId"))
	if err != nil {
		return err
	}

	profile, err := h.profiles.GetProfile(c.UserContext(), userID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"user":          dto.NewUserResponse(profile.User),
			"summary":       dto.NewSummaryResponse(profile.Summary, h.currency),
			"registrations": dto.NewRegistrationList(profile.Registrations),
		},
	})
}

// ListRegistrations handles GET /api/users/:userId/registrations.
func (h *ProfileHandler) ListRegistrations(c *fiber.Ctx) error {
	userID, err := auth.ParseUserID(c.Params("userId"))
	if err != nil {
		return err
	}

	registrations, summary, err := h.profiles.ListRegistrations(c.UserContext(), userID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"registrations": dto.NewRegistrationList(registrations),
			"summary":       dto.NewSummaryResponse(summary, h.currency),
		},
	})
}
