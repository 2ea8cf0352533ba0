package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ecyclehub/ecyclehub/internal/api/dto"
	"github.com/ecyclehub/ecyclehub/internal/reward"
	"github.com/ecyclehub/ecyclehub/internal/service"
)

// CommunityHandler serves the public catalogue and reward quotes.
type CommunityHandler struct {
	community *service.CommunityService
}

func NewCommunityHandler(community *service.CommunityService) *CommunityHandler {
	return &CommunityHandler{community: community}
}

// DropOffs handles GET /api/drop-offs.
func (h *CommunityHandler) DropOffs(c *fiber.Ctx) error {
	sites, err := h.community.ListDropOffSites(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewDropOffSiteList(sites)})
}

// Announcements handles GET /api/announcements?limit=N.
func (h *CommunityHandler) Announcements(c *fiber.Ctx) error {
	items, err := h.community.ListAnnouncements(c.UserContext(), c.QueryInt("limit", 20))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewAnnouncementList(items)})
}

// Quote handles POST /api/rewards/quote.
func (h *CommunityHandler) Quote(c *fiber.Ctx) error {
	var req dto.QuoteRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	quote, err := h.community.QuoteReward(string(req.Weight))
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data": dto.NewQuoteResponse(quote.Weight.String(), reward.FormatAmount(quote.Amount), quote.Policy),
	})
}
