package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/ecyclehub/ecyclehub/internal/api/dto"
	"github.com/ecyclehub/ecyclehub/internal/service"
	apperrors "github.com/ecyclehub/ecyclehub/pkg/util/errorutil"
)

// RegistrationsHandler records e-waste drop-offs.
type RegistrationsHandler struct {
	registrations *service.RegistrationService
}

func NewRegistrationsHandler(registrations *service.RegistrationService) *RegistrationsHandler {
	return &RegistrationsHandler{registrations: registrations}
}

// CreateJoint handles POST /api/registrations. The account and the drop-off
// are created together or not at all.
func (h *RegistrationsHandler) CreateJoint(c *fiber.Ctx) error {
	var req dto.JointRegistrationRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	result, err := h.registrations.Submit(c.UserContext(), service.JointAccountAndRegistration{
		Account: req.AccountInput(),
		DropOff: req.DropOffInput(),
	})
	if err != nil {
		return err
	}

	data := fiber.Map{
		"user":         dto.UserRef{ID: result.User.ID, Username: result.User.Username},
		"registration": dto.NewRegistrationResponse(result.Registration),
	}
	if result.Session != nil {
		data["auth"] = dto.NewAuthResponse(result.Session.AccessToken, result.Session.Token.ExpiresAt)
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": data})
}

// CreateForExisting handles POST /api/registrations/existing.
func (h *RegistrationsHandler) CreateForExisting(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	var req dto.ExistingRegistrationRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if req.UserID != nil && *req.UserID != p.UserID {
		return apperrors.NewForbidden("cannot record a drop-off for another user")
	}

	result, err := h.registrations.Submit(c.UserContext(), service.RegistrationForExistingUser{
		UserID:  p.UserID,
		DropOff: req.DropOffInput(),
	})
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{"registration": dto.NewRegistrationResponse(result.Registration)},
	})
}
