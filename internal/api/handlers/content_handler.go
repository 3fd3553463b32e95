package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/postgate/internal/service"
	"github.com/maheshrc27/postgate/internal/transfer"
)

type ContentHandler struct {
	s service.ContentService
}

func NewContentHandler(service service.ContentService) *ContentHandler {
	return &ContentHandler{s: service}
}

func (h *ContentHandler) Generate(c *fiber.Ctx) error {
	var gr transfer.GenerateRequest
	if err := c.BodyParser(&gr); err != nil {
		return badBody(c)
	}

	text, err := h.s.Generate(c.Context(), GetOperatorID(c), &gr)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"text": text})
}

func (h *ContentHandler) Research(c *fiber.Ctx) error {
	var rr transfer.ResearchRequest
	if err := c.BodyParser(&rr); err != nil {
		return badBody(c)
	}

	result, err := h.s.Research(c.Context(), GetOperatorID(c), &rr)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(result)
}

func (h *ContentHandler) ListResearch(c *fiber.Ctx) error {
	history, err := h.s.History(c.Context(), GetOperatorID(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(history)
}
