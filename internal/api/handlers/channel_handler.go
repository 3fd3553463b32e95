package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/postgate/internal/models"
	"github.com/maheshrc27/postgate/internal/service"
)

type ChannelHandler struct {
	s service.ChannelService
}

func NewChannelHandler(service service.ChannelService) *ChannelHandler {
	return &ChannelHandler{s: service}
}

func (h *ChannelHandler) ListWorkspaces(c *fiber.Ctx) error {
	workspaces, err := h.s.Workspaces(c.Context(), GetOperatorID(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(workspaces)
}

func (h *ChannelHandler) ListChannels(c *fiber.Ctx) error {
	override := models.AccountContext{
		WorkspaceID: c.Query("workspace_id"),
		UserID:      c.Query("user_id"),
		BlogID:      c.Query("blog_id"),
	}

	channels, err := h.s.Channels(c.Context(), GetOperatorID(c), override)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(channels)
}
