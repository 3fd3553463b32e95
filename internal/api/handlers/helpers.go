package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/postgate/internal/models"
	"github.com/maheshrc27/postgate/pkg/logging"
	"go.uber.org/zap"
)

const operatorIDKey = "operator_id"

func GetOperatorID(c *fiber.Ctx) int64 {
	raw, _ := c.Locals(operatorIDKey).(string)
	operatorID, _ := strconv.ParseInt(raw, 10, 64)
	return operatorID
}

// SetOperatorID is used by the auth middleware to hand the caller to the
// handlers.
func SetOperatorID(c *fiber.Ctx, operatorID string) {
	c.Locals(operatorIDKey, operatorID)
}

func postIDParam(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, models.NewValidationError("post id must be a positive integer")
	}
	return id, nil
}

// respondError writes err as {"error", "code"} with the status its kind
// maps to.
func respondError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	code := "internal_error"
	message := "internal server error"

	var appErr *models.AppError
	if errors.As(err, &appErr) {
		code = appErr.Code()
		message = appErr.Error()
	}

	switch {
	case errors.Is(err, models.ErrValidation):
		status = fiber.StatusBadRequest
	case errors.Is(err, models.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, models.ErrInvalidState):
		status = fiber.StatusConflict
	case errors.Is(err, models.ErrMissingCredential):
		status = fiber.StatusPreconditionFailed
	case errors.Is(err, models.ErrResolution), errors.Is(err, models.ErrProvider):
		status = fiber.StatusBadGateway
	default:
		logging.GetLogger().Error("request failed",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Error(err))
	}

	return c.Status(status).JSON(fiber.Map{
		"error": message,
		"code":  code,
	})
}

func badBody(c *fiber.Ctx) error {
	return respondError(c, models.NewValidationError("unable to parse request body"))
}
