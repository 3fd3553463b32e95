package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/postgate/internal/service"
	"github.com/maheshrc27/postgate/internal/transfer"
)

type CredentialHandler struct {
	s service.CredentialStore
}

func NewCredentialHandler(service service.CredentialStore) *CredentialHandler {
	return &CredentialHandler{s: service}
}

// SetCredential stores a key under a name, replacing any previous one.
func (h *CredentialHandler) SetCredential(c *fiber.Ctx) error {
	var input transfer.CredentialInput
	if err := c.BodyParser(&input); err != nil {
		return badBody(c)
	}

	if err := h.s.Set(c.Context(), GetOperatorID(c), input.Name, input.Key); err != nil {
		return respondError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *CredentialHandler) ListCredentials(c *fiber.Ctx) error {
	names, err := h.s.List(c.Context(), GetOperatorID(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"names": names})
}

func (h *CredentialHandler) RemoveCredential(c *fiber.Ctx) error {
	if err := h.s.Delete(c.Context(), GetOperatorID(c), c.Params("name")); err != nil {
		return respondError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
