package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/postgate/internal/service"
	"github.com/maheshrc27/postgate/internal/transfer"
)

type SettingsHandler struct {
	s service.SettingsService
}

func NewSettingsHandler(service service.SettingsService) *SettingsHandler {
	return &SettingsHandler{s: service}
}

func (h *SettingsHandler) GetSettingsInfo(c *fiber.Ctx) error {
	settingsInfo, err := h.s.GetSettingsInfo(c.Context(), GetOperatorID(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(settingsInfo)
}

func (h *SettingsHandler) UpdateSettings(c *fiber.Ctx) error {
	var su transfer.SettingsUpdate
	if err := c.BodyParser(&su); err != nil {
		return badBody(c)
	}

	settings, err := h.s.UpdateSettings(c.Context(), GetOperatorID(c), &su)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(settings)
}
