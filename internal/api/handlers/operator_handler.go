package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/postgate/internal/service"
)

type OperatorHandler struct {
	s service.OperatorService
}

func NewOperatorHandler(service service.OperatorService) *OperatorHandler {
	return &OperatorHandler{s: service}
}

func (h *OperatorHandler) GetOperatorInfo(c *fiber.Ctx) error {
	operatorInfo, err := h.s.GetOperatorInfo(c.Context(), GetOperatorID(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(operatorInfo)
}
